package packet

import (
	"bytes"
	"io"
	"testing"
)

func TestWriteHeaderReadHeaderRoundTrip(t *testing.T) {
	for _, length := range []int{0, 1, 191, 192, 8383, 8384, 100000} {
		var buf bytes.Buffer
		if err := writeHeader(&buf, TagUserId, length); err != nil {
			t.Fatalf("length %d: writeHeader: %v", length, err)
		}
		buf.Write(make([]byte, length))

		h, body, err := readHeader(&buf)
		if err != nil {
			t.Fatalf("length %d: readHeader: %v", length, err)
		}
		if h.tag != TagUserId {
			t.Errorf("length %d: tag = %v, want TagUserId", length, h.tag)
		}
		if h.isPartial {
			t.Errorf("length %d: unexpectedly partial", length)
		}
		got, err := io.ReadAll(body)
		if err != nil {
			t.Fatalf("length %d: reading body: %v", length, err)
		}
		if len(got) != length {
			t.Errorf("length %d: body has %d bytes", length, len(got))
		}
	}
}

func TestOldFormatHeaderParses(t *testing.T) {
	// Old-format tag 6 (public key), one-octet length, 5-byte body.
	buf := bytes.NewBuffer([]byte{0x80 | (6 << 2) | 0, 5, 1, 2, 3, 4, 5})
	h, body, err := readHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	if h.tag != TagPublicKey {
		t.Errorf("tag = %v, want TagPublicKey", h.tag)
	}
	got, _ := io.ReadAll(body)
	if len(got) != 5 {
		t.Errorf("body length = %d, want 5", len(got))
	}
}

func TestOldFormatIndeterminateLengthReadsToEOF(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x80 | (11 << 2) | 3, 1, 2, 3})
	h, body, err := readHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !h.isPartial && h.length != -1 {
		t.Errorf("expected indeterminate length, got length=%d isPartial=%v", h.length, h.isPartial)
	}
	got, _ := io.ReadAll(body)
	if len(got) != 3 {
		t.Errorf("body length = %d, want 3", len(got))
	}
}

func TestReadHeaderRejectsMissingHighBit(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x00})
	if _, _, err := readHeader(buf); err == nil {
		t.Error("expected error for a tag byte without the high bit set")
	}
}

func TestPartialLengthStitchesChunks(t *testing.T) {
	var buf bytes.Buffer
	chunk1 := bytes.Repeat([]byte{0xaa}, 4)
	chunk2 := bytes.Repeat([]byte{0xbb}, 4)
	final := []byte{0xcc, 0xcc, 0xcc}

	buf.WriteByte(0x80 | 0x40 | byte(TagLiteralData))
	writePartialChunk(&buf, 2) // chunk size 4
	buf.Write(chunk1)
	writePartialChunk(&buf, 2)
	buf.Write(chunk2)
	writeFinalChunkHeader(&buf, len(final))
	buf.Write(final)

	h, body, err := readHeader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !h.isPartial {
		t.Fatal("expected a partial-length header")
	}
	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatal(err)
	}
	want := append(append(append([]byte{}, chunk1...), chunk2...), final...)
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestWriteStreamedReadBack(t *testing.T) {
	var buf bytes.Buffer
	body := make([]byte, 300)
	for i := range body {
		body[i] = byte(i)
	}
	if err := writeStreamed(&buf, TagLiteralData, bytes.NewReader(body)); err != nil {
		t.Fatal(err)
	}
	h, bodyR, err := readHeader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if h.tag != TagLiteralData {
		t.Errorf("tag = %v, want TagLiteralData", h.tag)
	}
	got, err := io.ReadAll(bodyR)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(body))
	}
}

func TestWriteStreamedSmallBodyUsesFixedLengthHeader(t *testing.T) {
	var buf bytes.Buffer
	body := []byte("short")
	if err := writeStreamed(&buf, TagLiteralData, bytes.NewReader(body)); err != nil {
		t.Fatal(err)
	}
	h, bodyR, err := readHeader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if h.isPartial {
		t.Error("a body shorter than the partial-chunking threshold should not use partial framing")
	}
	got, _ := io.ReadAll(bodyR)
	if !bytes.Equal(got, body) {
		t.Errorf("got %q, want %q", got, body)
	}
}

func TestWriteStreamedLargeBodyUsesPartialChunks(t *testing.T) {
	var buf bytes.Buffer
	body := make([]byte, 4096)
	for i := range body {
		body[i] = byte(i)
	}
	if err := writeStreamed(&buf, TagLiteralData, bytes.NewReader(body)); err != nil {
		t.Fatal(err)
	}
	h, bodyR, err := readHeader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !h.isPartial {
		t.Fatal("a 4096-byte body should be split into partial-length chunks")
	}
	got, err := io.ReadAll(bodyR)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(body))
	}
}
