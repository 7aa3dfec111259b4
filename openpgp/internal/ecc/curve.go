// Package ecc provides the curve abstraction that the ecdsa package (C4) and
// the public-key parameter codec (C3) dispatch through. Curve math itself
// (point arithmetic, scalar multiplication) is treated as an external
// collaborator and is delegated to crypto/elliptic; this package only
// supplies the OID <-> curve registry and the point marshal/unmarshal
// conventions RFC 6637 requires.
package ecc

import (
	"crypto/elliptic"
	"math/big"

	"github.com/vaultkeys/pgpcore/openpgp/internal/encoding"
)

// Curve names the curves this subsystem recognizes for the ECDSA binding.
// Only NIST curves are modeled: the spec's ECDSA back-end is illustrative,
// and RFC 6637 defines ECDSA exclusively over these three.
type Curve string

const (
	CurveP256 Curve = "P-256"
	CurveP384 Curve = "P-384"
	CurveP521 Curve = "P-521"
)

// ECDSACurve is the contract a concrete elliptic curve must satisfy to
// back the ECDSA public-key algorithm (C4).
type ECDSACurve interface {
	Name() Curve
	StdlibCurve() elliptic.Curve
	// CoordinateSize is the fixed big-endian width, in bytes, used to
	// encode each of r and s on the wire (spec.md §4.4).
	CoordinateSize() int
	MarshalPoint(x, y *big.Int) []byte
	UnmarshalPoint(data []byte) (x, y *big.Int, err error)
}

// FindByOid returns the curve registered under the given RFC 6637 curve
// OID, or nil if none matches.
func FindByOid(oid encoding.Field) ECDSACurve {
	for _, c := range registry {
		if byteSliceEqual(c.oid, oid.Bytes()) {
			return c.curve
		}
	}
	return nil
}

// FindByName returns the curve registered under name, or nil.
func FindByName(name Curve) ECDSACurve {
	for _, c := range registry {
		if c.curve.Name() == name {
			return c.curve
		}
	}
	return nil
}

// OidFor returns the RFC 6637 OID bytes for a registered curve.
func OidFor(c ECDSACurve) []byte {
	for _, e := range registry {
		if e.curve.Name() == c.Name() {
			return e.oid
		}
	}
	return nil
}

func byteSliceEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
