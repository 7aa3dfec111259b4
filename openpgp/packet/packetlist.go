package packet

import (
	"bytes"
	"io"

	"github.com/vaultkeys/pgpcore/openpgp/errors"
)

// Packet is anything readHeader's dispatch table can produce and Write can
// re-serialize: PublicKeyPacket, SecretKeyPacket, OnePassSignaturePacket,
// and the OpaquePacket used for streaming-capable tags.
type Packet interface {
	PacketTag() Tag
}

// Serializable is implemented by every concrete Packet type this package
// knows how to write back out.
type Serializable interface {
	Packet
	Serialize(w io.Writer) error
}

// OpaquePacket holds a packet this list did not parse because its tag is
// streaming-capable and materializing it would defeat the point of
// streaming. A tag with no registered parser does not become an
// OpaquePacket: Read rejects it, or skips it in tolerant mode. Body is only
// valid until the next call into the PacketList that produced it.
type OpaquePacket struct {
	tag  Tag
	Body io.Reader
}

func (p *OpaquePacket) PacketTag() Tag { return p.tag }

// parseFunc parses one packet body of a known, already-materialized length
// into its concrete type.
type parseFunc func(r io.Reader) (Packet, error)

// packetParsers is populated by each packet type's own file via
// registerPacketParser, keeping this file free of a hard-coded, growing
// switch statement as new packet types are added.
var packetParsers = map[Tag]parseFunc{}

func registerPacketParser(tag Tag, fn parseFunc) {
	packetParsers[tag] = fn
}

// PacketList is the result of reading an OpenPGP packet stream (spec.md
// §4.8, component C8). Packets holds every packet parsed eagerly, up to
// and including the first streaming-capable packet (as an OpaquePacket,
// never materialized). Tail, when non-nil, is the remainder of the input
// stream immediately following that packet's body — callers that need to
// keep reading further packets do so themselves via a fresh Read call over
// Tail.
type PacketList struct {
	Packets []Packet
	Tail    io.Reader
}

// Read parses packets from r until EOF or the first streaming-capable
// packet. If allowed is non-empty, any packet whose tag is not in the list
// is rejected as DisallowedPacketError.
//
// In tolerant mode (cfg.AllowTolerantReads), a malformed or disallowed
// packet is skipped rather than aborting the whole read: its remaining
// body bytes are discarded, a debug line is logged, and parsing continues
// with the next packet. A malformed packet *header* cannot be tolerated,
// because the length of the bad packet — and therefore where the next
// header starts — is generally not recoverable; header errors always
// abort, tolerant or not.
func Read(r io.Reader, cfg *Config, allowed ...Tag) (*PacketList, error) {
	br := ensureBuffered(r)
	list := &PacketList{}

	for {
		h, body, err := readHeader(br)
		if err == io.EOF {
			return list, nil
		}
		if err != nil {
			return list, err
		}
		if h.isPartial && !h.tag.streamingCapable() {
			return list, errors.StructuralError("partial-length framing on a packet tag that cannot be streamed")
		}

		if len(allowed) > 0 && !tagAllowed(h.tag, allowed) {
			derr := errors.DisallowedPacketError(int(h.tag))
			if cfg.tolerant() {
				io.Copy(io.Discard, body)
				logger.Debug().Int("tag", int(h.tag)).Err(derr).Msg("packet list: skipping disallowed packet")
				continue
			}
			return list, derr
		}

		if h.tag.streamingCapable() {
			list.Packets = append(list.Packets, &OpaquePacket{tag: h.tag, Body: body})
			list.Tail = br
			return list, nil
		}

		parse, ok := packetParsers[h.tag]
		if !ok {
			uerr := errors.UnsupportedError("packet tag has no registered parser")
			if cfg.tolerant() {
				io.Copy(io.Discard, body)
				logger.Debug().Int("tag", int(h.tag)).Err(uerr).Msg("packet list: skipping unrecognized packet")
				continue
			}
			return list, uerr
		}

		pkt, perr := parse(body)
		io.Copy(io.Discard, body) // drain any unread trailing bytes so the next header starts cleanly
		if perr != nil {
			if cfg.tolerant() {
				logger.Debug().Int("tag", int(h.tag)).Err(perr).Msg("packet list: skipping malformed packet")
				continue
			}
			return list, perr
		}
		list.Packets = append(list.Packets, pkt)
	}
}

func tagAllowed(tag Tag, allowed []Tag) bool {
	for _, t := range allowed {
		if t == tag {
			return true
		}
	}
	return false
}

// Write serializes every packet in the list, in order. OpaquePacket bodies
// with unknown total length are written using partial-length chunk framing
// (spec.md §4.8); every other packet is buffered once to learn its length
// and written with a fixed-length header.
func (l *PacketList) Write(w io.Writer) error {
	for _, pkt := range l.Packets {
		if op, ok := pkt.(*OpaquePacket); ok {
			if err := writeStreamed(w, op.tag, op.Body); err != nil {
				return err
			}
			continue
		}
		s, ok := pkt.(Serializable)
		if !ok {
			return errors.UnsupportedError("packet type cannot be serialized")
		}
		var buf bytes.Buffer
		if err := s.Serialize(&buf); err != nil {
			return err
		}
		if err := writeHeader(w, pkt.PacketTag(), buf.Len()); err != nil {
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// minPartialChunk is the buffered-length threshold below which writeStreamed
// never bothers with partial-length framing at all: the whole body goes out
// as one ordinary fixed-length packet.
const minPartialChunk = 512

// readChunk is how much writeStreamed pulls from body per Read call while
// filling its accumulation buffer; it has no bearing on the power-of-two
// chunk sizes actually written to the wire.
const readChunk = 4096

// writeStreamed emits body as a sequence of partial-length chunks followed
// by one final fixed-length chunk, per RFC 4880 §4.2.2's power-of-two
// partial body length scheme. It accumulates input until at least
// minPartialChunk bytes are buffered, then flushes the largest power-of-two
// prefix of the buffer as one partial chunk, repeating until the source is
// exhausted; whatever remains once body returns EOF — of any length,
// including zero — is written last as an ordinary fixed-length chunk.
func writeStreamed(w io.Writer, tag Tag, body io.Reader) error {
	var buf bytes.Buffer
	read := make([]byte, readChunk)
	first := true
	eof := false

	for !eof {
		n, err := body.Read(read)
		if n > 0 {
			buf.Write(read[:n])
		}
		switch err {
		case nil:
		case io.EOF:
			eof = true
		default:
			return err
		}

		for buf.Len() >= minPartialChunk {
			exp := largestPowerOfTwoExponent(buf.Len())
			chunk := buf.Next(1 << exp)
			if first {
				if werr := writeNewFormatTag(w, tag); werr != nil {
					return werr
				}
				first = false
			}
			if werr := writePartialChunk(w, byte(exp)); werr != nil {
				return werr
			}
			if _, werr := w.Write(chunk); werr != nil {
				return werr
			}
		}
	}

	if first {
		if err := writeHeader(w, tag, buf.Len()); err != nil {
			return err
		}
	} else if err := writeFinalChunkHeader(w, buf.Len()); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// largestPowerOfTwoExponent returns the largest p, capped at 30 (RFC
// 4880's maximum partial body length of 2^30), such that 2^p <= n.
func largestPowerOfTwoExponent(n int) int {
	p := 0
	for p < 30 && 1<<(p+1) <= n {
		p++
	}
	return p
}

func writeNewFormatTag(w io.Writer, tag Tag) error {
	_, err := w.Write([]byte{0x80 | 0x40 | byte(tag)})
	return err
}

// writeFinalChunkHeader writes the ordinary (non-partial) length octets
// terminating a partial-length sequence; it never includes the tag octet,
// since that was already written before the first partial chunk.
func writeFinalChunkHeader(w io.Writer, length int) error {
	switch {
	case length < 192:
		_, err := w.Write([]byte{byte(length)})
		return err
	case length < 8384:
		l := length - 192
		_, err := w.Write([]byte{192 + byte(l>>8), byte(l)})
		return err
	default:
		_, err := w.Write([]byte{255, byte(length >> 24), byte(length >> 16), byte(length >> 8), byte(length)})
		return err
	}
}

// FilterByTag returns the subset of packets whose tag is tag, preserving
// order.
func (l *PacketList) FilterByTag(tag Tag) []Packet {
	var out []Packet
	for _, pkt := range l.Packets {
		if pkt.PacketTag() == tag {
			out = append(out, pkt)
		}
	}
	return out
}

// FindPacket returns the first packet with the given tag, or nil.
func (l *PacketList) FindPacket(tag Tag) Packet {
	if i := l.IndexOfTag(tag); i >= 0 {
		return l.Packets[i]
	}
	return nil
}

// IndexOfTag returns the index of the first packet with the given tag, or
// -1 if none is present.
func (l *PacketList) IndexOfTag(tag Tag) int {
	for i, pkt := range l.Packets {
		if pkt.PacketTag() == tag {
			return i
		}
	}
	return -1
}

// Concat appends other's packets to l's and returns l, matching the
// teacher's convention of building up a PacketList incrementally when
// assembling a certificate from its constituent sub-lists.
func (l *PacketList) Concat(other *PacketList) *PacketList {
	if other == nil {
		return l
	}
	l.Packets = append(l.Packets, other.Packets...)
	if other.Tail != nil {
		l.Tail = other.Tail
	}
	return l
}
