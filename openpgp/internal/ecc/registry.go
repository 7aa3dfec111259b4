package ecc

import (
	"crypto/elliptic"
	"math/big"
)

type genericCurve struct {
	name  Curve
	curve elliptic.Curve
}

func (c *genericCurve) Name() Curve                  { return c.name }
func (c *genericCurve) StdlibCurve() elliptic.Curve   { return c.curve }
func (c *genericCurve) CoordinateSize() int           { return (c.curve.Params().BitSize + 7) / 8 }

// MarshalPoint encodes (x, y) in the SEC1 uncompressed point format used by
// RFC 6637: 0x04 || X || Y, each coordinate padded to CoordinateSize.
func (c *genericCurve) MarshalPoint(x, y *big.Int) []byte {
	return elliptic.Marshal(c.curve, x, y)
}

// UnmarshalPoint decodes a SEC1 uncompressed point.
func (c *genericCurve) UnmarshalPoint(data []byte) (x, y *big.Int, err error) {
	x, y = elliptic.Unmarshal(c.curve, data)
	if x == nil {
		return nil, nil, errBadPoint
	}
	return x, y, nil
}

var (
	p256 = &genericCurve{name: CurveP256, curve: elliptic.P256()}
	p384 = &genericCurve{name: CurveP384, curve: elliptic.P384()}
	p521 = &genericCurve{name: CurveP521, curve: elliptic.P521()}
)

type registryEntry struct {
	oid   []byte
	curve ECDSACurve
}

// registry maps RFC 6637 curve OIDs to the curve implementations this
// subsystem supports. Grounded on the (oid, curve) pairs in the teacher's
// internal/ecc/curves.go; brainpool and secp256k1 are dropped since C4 is
// explicitly the NIST-curve-only illustrative binding.
var registry = []registryEntry{
	{oid: []byte{0x2A, 0x86, 0x48, 0xCE, 0x3D, 0x03, 0x01, 0x07}, curve: p256},
	{oid: []byte{0x2B, 0x81, 0x04, 0x00, 0x22}, curve: p384},
	{oid: []byte{0x2B, 0x81, 0x04, 0x00, 0x23}, curve: p521},
}
