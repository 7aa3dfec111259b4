package packet

import (
	"bufio"
	"io"

	"github.com/vaultkeys/pgpcore/openpgp/errors"
)

// header describes one packet's framing: its tag and how many content
// bytes follow (or, for a partial-length new-format packet, the length of
// just the first chunk).
type header struct {
	tag       Tag
	length    int64 // -1 when isPartial or when length is indeterminate
	isPartial bool
}

// readHeader parses one packet header (old or new format, RFC 4880 §4.2)
// from r and returns the header plus a reader positioned at the packet's
// body. Partial-length bodies are only legal on tags for which
// Tag.streamingCapable reports true; readHeader itself does not enforce
// that (the caller, PacketList.Read, does, since only it knows whether it
// is in the eager or the lazy-tail phase of the stream).
func readHeader(r io.Reader) (h header, body io.Reader, err error) {
	var first [1]byte
	if _, err = io.ReadFull(r, first[:]); err != nil {
		return header{}, nil, err
	}
	tagByte := first[0]
	if tagByte&0x80 == 0 {
		return header{}, nil, errors.StructuralError("packet tag byte does not have the high bit set")
	}

	if tagByte&0x40 == 0 {
		return readOldFormatHeader(tagByte, r)
	}
	return readNewFormatHeader(tagByte, r)
}

func readOldFormatHeader(tagByte byte, r io.Reader) (h header, body io.Reader, err error) {
	tag := Tag((tagByte & 0x3f) >> 2)
	lengthType := tagByte & 3

	switch lengthType {
	case 0, 1, 2:
		n := 1 << lengthType
		buf := make([]byte, n)
		if _, err = io.ReadFull(r, buf); err != nil {
			return header{}, nil, err
		}
		var length int64
		for _, b := range buf {
			length = length<<8 | int64(b)
		}
		return header{tag: tag, length: length}, io.LimitReader(r, length), nil
	case 3:
		// Indeterminate length: the body runs to the end of the stream.
		return header{tag: tag, length: -1}, r, nil
	default:
		return header{}, nil, errors.StructuralError("invalid old-format length type")
	}
}

func readNewFormatHeader(tagByte byte, r io.Reader) (h header, body io.Reader, err error) {
	tag := Tag(tagByte & 0x3f)

	length, isPartial, err := readNewLength(r)
	if err != nil {
		return header{}, nil, err
	}
	if isPartial {
		pr := &partialLengthReader{r: r, remaining: length}
		return header{tag: tag, length: -1, isPartial: true}, pr, nil
	}
	return header{tag: tag, length: length}, io.LimitReader(r, length), nil
}

// readNewLength decodes one new-format length field (RFC 4880 §4.2.2).
// isPartial is true when the first chunk of a partial-length (streamed)
// body was read; length is then that chunk's length, not the total.
func readNewLength(r io.Reader) (length int64, isPartial bool, err error) {
	var first [1]byte
	if _, err = io.ReadFull(r, first[:]); err != nil {
		return 0, false, err
	}
	switch {
	case first[0] < 192:
		return int64(first[0]), false, nil
	case first[0] < 224:
		var second [1]byte
		if _, err = io.ReadFull(r, second[:]); err != nil {
			return 0, false, err
		}
		return (int64(first[0])-192)<<8 + int64(second[0]) + 192, false, nil
	case first[0] < 255:
		return 1 << (first[0] & 0x1f), true, nil
	default:
		var buf [4]byte
		if _, err = io.ReadFull(r, buf[:]); err != nil {
			return 0, false, err
		}
		return int64(buf[0])<<24 | int64(buf[1])<<16 | int64(buf[2])<<8 | int64(buf[3]), false, nil
	}
}

// partialLengthReader stitches together the sequence of power-of-two
// chunks a partial-length new-format packet is split into, presenting them
// as one continuous io.Reader. The final chunk is always given as an
// ordinary fixed or one/two/five-octet length, which terminates the
// stream.
type partialLengthReader struct {
	r         io.Reader
	remaining int64
}

func (pr *partialLengthReader) Read(p []byte) (n int, err error) {
	for pr.remaining == 0 {
		length, isPartial, err := readNewLength(pr.r)
		if err != nil {
			return 0, err
		}
		pr.remaining = length
		if !isPartial {
			pr.r = io.LimitReader(pr.r, length)
			break
		}
	}
	if int64(len(p)) > pr.remaining {
		p = p[:pr.remaining]
	}
	n, err = pr.r.Read(p)
	pr.remaining -= int64(n)
	if err == io.EOF && pr.remaining > 0 {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

// writeHeader serializes a new-format, fixed-length header for tag with
// the given body length. This package only ever writes new-format headers;
// old-format framing is a read-side compatibility concern, and
// partial-length framing is written by writeStreamed, not here.
func writeHeader(w io.Writer, tag Tag, length int) error {
	var buf [6]byte
	buf[0] = 0x80 | 0x40 | byte(tag)
	n := 1
	switch {
	case length < 192:
		buf[1] = byte(length)
		n = 2
	case length < 8384:
		length -= 192
		buf[1] = 192 + byte(length>>8)
		buf[2] = byte(length)
		n = 3
	default:
		buf[1] = 255
		buf[2] = byte(length >> 24)
		buf[3] = byte(length >> 16)
		buf[4] = byte(length >> 8)
		buf[5] = byte(length)
		n = 6
	}
	_, err := w.Write(buf[:n])
	return err
}

// writePartialChunk writes one partial-length chunk header. chunkSizeByte
// is the chunk size's power-of-two exponent: the actual chunk size is
// 1 << (chunkSizeByte & 0x1f), capped by the caller at 30.
func writePartialChunk(w io.Writer, chunkSizeByte byte) error {
	_, err := w.Write([]byte{224 | (chunkSizeByte & 0x1f)})
	return err
}

// bufferedReader is the minimal surface PacketList needs from its input
// stream; bufio.Reader satisfies it, and callers that already have one can
// pass it straight through instead of double-wrapping.
type bufferedReader interface {
	io.Reader
	io.ByteReader
}

func ensureBuffered(r io.Reader) bufferedReader {
	if br, ok := r.(bufferedReader); ok {
		return br
	}
	return bufio.NewReader(r)
}
