package encoding

import (
	"bytes"
	"math/big"
	"testing"
)

func TestMPIReadWriteRoundTrip(t *testing.T) {
	n := new(big.Int).SetBytes([]byte{0x01, 0x02, 0x03, 0xff})
	mpi := new(MPI).SetBig(n)
	encoded := mpi.EncodedBytes()
	if int(mpi.EncodedLength()) != len(encoded) {
		t.Errorf("EncodedLength() = %d, len(EncodedBytes()) = %d", mpi.EncodedLength(), len(encoded))
	}

	got := new(MPI)
	consumed, err := got.ReadFrom(bytes.NewReader(encoded))
	if err != nil {
		t.Fatal(err)
	}
	if consumed != int64(len(encoded)) {
		t.Errorf("consumed %d bytes, want %d", consumed, len(encoded))
	}
	if !bytes.Equal(got.Bytes(), mpi.Bytes()) {
		t.Errorf("got %x, want %x", got.Bytes(), mpi.Bytes())
	}
}

func TestMPITrimsLeadingZeros(t *testing.T) {
	mpi := NewMPI([]byte{0x00, 0x00, 0x01, 0x02})
	if !bytes.Equal(mpi.Bytes(), []byte{0x01, 0x02}) {
		t.Errorf("got %x, want 0102", mpi.Bytes())
	}
}

func TestMPIBitLengthOfHighBitSetByte(t *testing.T) {
	mpi := NewMPI([]byte{0x80})
	if mpi.BitLength() != 8 {
		t.Errorf("BitLength() = %d, want 8", mpi.BitLength())
	}
	mpi2 := NewMPI([]byte{0x01})
	if mpi2.BitLength() != 1 {
		t.Errorf("BitLength() = %d, want 1", mpi2.BitLength())
	}
}

func TestMPIZeroValue(t *testing.T) {
	mpi := NewMPI(nil)
	if mpi.BitLength() != 0 {
		t.Errorf("BitLength() = %d, want 0", mpi.BitLength())
	}
	if int(mpi.EncodedLength()) != 2 {
		t.Errorf("EncodedLength() = %d, want 2", mpi.EncodedLength())
	}
}

func TestMPIReadFromShortBodyIsUnexpectedEOF(t *testing.T) {
	// Claims 16 bits (2 bytes) but supplies only one.
	buf := bytes.NewReader([]byte{0x00, 0x10, 0xff})
	mpi := new(MPI)
	if _, err := mpi.ReadFrom(buf); err == nil {
		t.Error("expected a short read to fail")
	}
}
