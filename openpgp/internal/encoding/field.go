// Package encoding implements the length-prefixed field encodings used
// throughout OpenPGP key-material packets: bit-length-prefixed MPIs and
// DER-length-prefixed curve OIDs. See spec.md §4.3 ("Multi-precision
// integers are length-prefixed in bits; ECC parameters carry a curve OID
// prefixed by its DER length").
package encoding

import "io"

// Field is implemented by every wire-encodable parameter value a public or
// secret key packet carries. It is the read/write contract C3 builds on.
type Field interface {
	// Bytes returns the decoded, unframed value.
	Bytes() []byte
	// BitLength is the size in bits of the decoded value.
	BitLength() uint16
	// EncodedBytes returns the value together with its length prefix,
	// ready to be written to the wire.
	EncodedBytes() []byte
	// EncodedLength is the size in bytes of EncodedBytes().
	EncodedLength() uint16
	// ReadFrom consumes one encoded field from r, returning the number of
	// bytes read.
	ReadFrom(r io.Reader) (int64, error)
}
