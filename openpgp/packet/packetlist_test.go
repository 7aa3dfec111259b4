package packet

import (
	"bytes"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/vaultkeys/pgpcore/openpgp/errors"
)

func samplePublicKey() *PublicKeyPacket {
	n := big.NewInt(65537)
	n.Mul(n, big.NewInt(104729))
	e := big.NewInt(65537)
	return NewRSAPublicKey(time.Unix(1600000000, 0), n, e)
}

func serializedPacket(t *testing.T, s Serializable) []byte {
	var body bytes.Buffer
	if err := s.Serialize(&body); err != nil {
		t.Fatal(err)
	}
	var wire bytes.Buffer
	if err := writeHeader(&wire, s.PacketTag(), body.Len()); err != nil {
		t.Fatal(err)
	}
	wire.Write(body.Bytes())
	return wire.Bytes()
}

func TestPacketListReadStopsAtStreamingCapablePacket(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(serializedPacket(t, samplePublicKey()))

	literalBody := []byte("streamed literal data body")
	if err := writeHeader(&buf, TagLiteralData, len(literalBody)); err != nil {
		t.Fatal(err)
	}
	buf.Write(literalBody)

	trailing := []byte("trailing bytes after the streamed packet")
	buf.Write(trailing)

	list, err := Read(&buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Packets) != 2 {
		t.Fatalf("got %d packets, want 2 (public key + opaque literal)", len(list.Packets))
	}
	if _, ok := list.Packets[0].(*PublicKeyPacket); !ok {
		t.Errorf("packet 0 is %T, want *PublicKeyPacket", list.Packets[0])
	}
	op, ok := list.Packets[1].(*OpaquePacket)
	if !ok {
		t.Fatalf("packet 1 is %T, want *OpaquePacket", list.Packets[1])
	}
	if op.PacketTag() != TagLiteralData {
		t.Errorf("opaque tag = %v, want TagLiteralData", op.PacketTag())
	}
	gotLiteral, err := io.ReadAll(op.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(gotLiteral, literalBody) {
		t.Errorf("opaque body = %q, want %q", gotLiteral, literalBody)
	}
	if list.Tail == nil {
		t.Fatal("expected a non-nil Tail after a streaming-capable packet")
	}
	gotTail, err := io.ReadAll(list.Tail)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(gotTail, trailing) {
		t.Errorf("tail = %q, want %q", gotTail, trailing)
	}
}

func TestPacketListDisallowedTagAborts(t *testing.T) {
	wire := bytes.NewBuffer(serializedPacket(t, samplePublicKey()))

	_, err := Read(wire, nil, TagUserId) // public key not in the allow-list
	if _, ok := err.(errors.DisallowedPacketError); !ok {
		t.Fatalf("got err = %v (%T), want DisallowedPacketError", err, err)
	}
}

func TestPacketListTolerantModeSkipsDisallowedPacket(t *testing.T) {
	wire := bytes.NewBuffer(serializedPacket(t, samplePublicKey()))

	cfg := &Config{AllowTolerantReads: true}
	list, err := Read(wire, cfg, TagUserId)
	if err != nil {
		t.Fatalf("tolerant read should not return an error, got %v", err)
	}
	if len(list.Packets) != 0 {
		t.Errorf("got %d packets, want 0 (the only packet should have been skipped)", len(list.Packets))
	}
}

func TestPacketListHeaderErrorAlwaysAborts(t *testing.T) {
	cfg := &Config{AllowTolerantReads: true}
	buf := bytes.NewBuffer([]byte{0x00}) // high bit not set: malformed header
	if _, err := Read(buf, cfg); err == nil {
		t.Error("expected a malformed header to abort even in tolerant mode")
	}
}

func TestPacketListFilterFindIndex(t *testing.T) {
	pk1 := samplePublicKey()
	pk2 := samplePublicKey()
	list := &PacketList{Packets: []Packet{pk1, pk2}}

	if got := list.FilterByTag(TagPublicKey); len(got) != 2 {
		t.Errorf("FilterByTag returned %d packets, want 2", len(got))
	}
	if got := list.FindPacket(TagPublicKey); got != pk1 {
		t.Error("FindPacket did not return the first matching packet")
	}
	if idx := list.IndexOfTag(TagPublicKey); idx != 0 {
		t.Errorf("IndexOfTag = %d, want 0", idx)
	}
	if idx := list.IndexOfTag(TagSignature); idx != -1 {
		t.Errorf("IndexOfTag for an absent tag = %d, want -1", idx)
	}
}

func TestPacketListConcat(t *testing.T) {
	a := &PacketList{Packets: []Packet{samplePublicKey()}}
	b := &PacketList{Packets: []Packet{samplePublicKey()}}
	a.Concat(b)
	if len(a.Packets) != 2 {
		t.Errorf("got %d packets after Concat, want 2", len(a.Packets))
	}
}

func TestPacketListWriteReadRoundTrip(t *testing.T) {
	pk := samplePublicKey()
	list := &PacketList{Packets: []Packet{pk}}

	var buf bytes.Buffer
	if err := list.Write(&buf); err != nil {
		t.Fatal(err)
	}

	got, err := Read(&buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Packets) != 1 {
		t.Fatalf("got %d packets, want 1", len(got.Packets))
	}
	gotPk, ok := got.Packets[0].(*PublicKeyPacket)
	if !ok {
		t.Fatalf("got %T, want *PublicKeyPacket", got.Packets[0])
	}
	if !gotPk.HasSameFingerprintAs(pk) {
		t.Error("round-tripped public key has a different fingerprint")
	}
}
