package encoding

import (
	"io"

	"github.com/vaultkeys/pgpcore/openpgp/errors"
)

// OID stores a curve object identifier, prefixed on the wire by a single
// length octet (RFC 6637 §9). 0x00 and 0xFF are reserved lengths.
type OID struct {
	bytes []byte
}

// NewOID returns an OID initialized with the given raw DER bytes.
func NewOID(bytes []byte) *OID {
	return &OID{bytes: bytes}
}

// Bytes returns the raw OID bytes (without the length prefix).
func (o *OID) Bytes() []byte { return o.bytes }

// BitLength is the size in bits of the raw OID bytes.
func (o *OID) BitLength() uint16 { return uint16(len(o.bytes)) * 8 }

// EncodedLength is the size in bytes of EncodedBytes().
func (o *OID) EncodedLength() uint16 { return uint16(1 + len(o.bytes)) }

// EncodedBytes returns the one-octet length prefix followed by the raw OID.
func (o *OID) EncodedBytes() []byte {
	return append([]byte{byte(len(o.bytes))}, o.bytes...)
}

// ReadFrom reads one length-prefixed OID from r.
func (o *OID) ReadFrom(r io.Reader) (int64, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	length := buf[0]
	if length == 0 || length == 0xff {
		return 1, errors.StructuralError("reserved OID length byte")
	}
	o.bytes = make([]byte, length)
	n, err := io.ReadFull(r, o.bytes)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return int64(1 + n), err
}
