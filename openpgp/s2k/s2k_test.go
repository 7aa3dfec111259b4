package s2k

import (
	"bytes"
	"testing"
)

func TestDecodeEncodeCountRoundTrip(t *testing.T) {
	for c := 0; c <= 0xff; c++ {
		got := EncodeCount(DecodeCount(uint8(c)))
		if DecodeCount(got) < DecodeCount(uint8(c)) {
			t.Fatalf("EncodeCount(DecodeCount(%d)) decoded smaller than original", c)
		}
	}
}

func TestEncodeCountClamps(t *testing.T) {
	if got := EncodeCount(0); got != 0 {
		t.Errorf("EncodeCount(0) = %d, want 0", got)
	}
	if got := EncodeCount(1 << 30); got != 0xff {
		t.Errorf("EncodeCount(huge) = %d, want 0xff", got)
	}
}

func TestSimpleReadWriteRoundTrip(t *testing.T) {
	p := NewSimple(2)
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		t.Fatal(err)
	}
	got, n, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("consumed %d bytes, want 2", n)
	}
	if got.Mode() != ModeSimple || got.HashAlgo() != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestSaltedReadWriteRoundTrip(t *testing.T) {
	salt := [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	p := NewSalted(8, salt)
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		t.Fatal(err)
	}
	got, n, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Errorf("consumed %d bytes, want 10", n)
	}
	if got.Mode() != ModeSalted || got.salt != salt {
		t.Errorf("got %+v", got)
	}
}

func TestIteratedSaltedReadWriteRoundTrip(t *testing.T) {
	salt := [8]byte{9, 9, 9, 9, 9, 9, 9, 9}
	p := NewIteratedSalted(8, salt, 0x60)
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		t.Fatal(err)
	}
	got, n, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 11 {
		t.Errorf("consumed %d bytes, want 11", n)
	}
	if got.Mode() != ModeIteratedSalted || got.countC != 0x60 {
		t.Errorf("got %+v", got)
	}
}

func TestGnuDummyReadWriteRoundTrip(t *testing.T) {
	p := NewGnuDummy()
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		t.Fatal(err)
	}
	got, _, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsDummy() {
		t.Error("expected IsDummy")
	}
}

func TestGnuDummyRejectsBadMarker(t *testing.T) {
	buf := bytes.NewReader([]byte{byte(ModeGnuDummy), 0, 'X', 'N', 'U', gnuDummySerial})
	if _, _, err := Read(buf); err == nil {
		t.Error("expected error for malformed gnu marker")
	}
}

func TestProduceKeyDeterministic(t *testing.T) {
	salt := [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	p := NewIteratedSalted(8, salt, 96)
	k1, err := p.ProduceKey([]byte("correct horse battery staple"), 32, nil)
	if err != nil {
		t.Fatal(err)
	}
	k2, err := p.ProduceKey([]byte("correct horse battery staple"), 32, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("ProduceKey is not deterministic for identical inputs")
	}
	k3, err := p.ProduceKey([]byte("different passphrase"), 32, nil)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(k1, k3) {
		t.Error("different passphrases produced the same key")
	}
}

func TestProduceKeyLongerThanOneDigest(t *testing.T) {
	p := NewSimple(10) // SHA-512, 64-byte digest
	key, err := p.ProduceKey([]byte("pw"), 96, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(key) != 96 {
		t.Fatalf("got %d bytes, want 96", len(key))
	}
}

func TestProduceKeyRejectsGnuDummy(t *testing.T) {
	p := NewGnuDummy()
	if _, err := p.ProduceKey([]byte("pw"), 16, nil); err == nil {
		t.Error("expected error deriving a key from a gnu-dummy specifier")
	}
}
