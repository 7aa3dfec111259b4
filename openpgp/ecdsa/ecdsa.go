// Package ecdsa implements the ECDSA public-key algorithm binding used by
// the key-material packet subsystem as its representative algorithm back-end
// (spec.md §4.4, component C4).
//
// Two tiers back every Sign/Verify: a platform tier (crypto/ecdsa, which on
// amd64/arm64 uses assembly-optimized field arithmetic for P-256) and a
// software tier (a from-scratch implementation over the curve's generic
// Params(), always correct but unaccelerated). The platform tier is
// preferred; Sign and Verify fall back to the software tier whenever the
// platform tier fails for a reason that isn't a key-integrity rejection,
// and P-521 always uses the software tier because some platform libcrypto
// builds refuse it outright.
package ecdsa

import (
	"crypto/ecdsa"
	"crypto/rand"
	"errors"
	"io"
	"math/big"

	pgperrors "github.com/vaultkeys/pgpcore/openpgp/errors"
	"github.com/vaultkeys/pgpcore/openpgp/internal/ecc"
)

// PublicKey is an ECDSA public key bound to one of the registered curves.
type PublicKey struct {
	Curve ecc.ECDSACurve
	X, Y  *big.Int
}

// PrivateKey is an ECDSA private key; D is the secret scalar.
type PrivateKey struct {
	PublicKey
	D *big.Int
}

// keyIntegrityError marks a platform-tier failure caused by malformed key
// material (as opposed to a transient or capability failure) — the only
// platform error class that must propagate rather than fall back to the
// software tier (spec.md §4.4).
type keyIntegrityError struct{ err error }

func (e *keyIntegrityError) Error() string { return e.err.Error() }
func (e *keyIntegrityError) Unwrap() error { return e.err }

// GenerateKey creates a new ECDSA keypair on curve c using the platform
// tier; key generation has no streaming caller and no malformed-input
// surface, so there is no fallback policy to apply here.
func GenerateKey(rand io.Reader, c ecc.ECDSACurve) (*PrivateKey, error) {
	priv, err := ecdsa.GenerateKey(c.StdlibCurve(), rand)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{
		PublicKey: PublicKey{Curve: c, X: priv.X, Y: priv.Y},
		D:         priv.D,
	}, nil
}

// Sign produces a deterministic-width (r, s) signature over hash.
//
// streaming selects the tier unconditionally: when a message is being
// signed as part of a streamed OpenPGP body (spec.md's open question on
// streaming sign/verify, resolved here per §4.4's rationale — platform
// ECDSA APIs require a contiguous buffer, which a streamed body cannot
// always provide ahead of time), the software tier is used directly with
// the caller's precomputed digest and the platform tier is never
// consulted.
func Sign(randSource io.Reader, priv *PrivateKey, hash []byte, streaming bool) (r, s *big.Int, err error) {
	if streaming || priv.Curve.Name() == ecc.CurveP521 {
		return softwareSign(randSource, priv, hash)
	}

	r, s, err = platformSign(randSource, priv, hash)
	if err == nil {
		return r, s, nil
	}
	var integrity *keyIntegrityError
	if errors.As(err, &integrity) {
		return nil, nil, integrity.err
	}
	return softwareSign(randSource, priv, hash)
}

// Verify checks an ECDSA signature, applying the same tier-selection
// policy as Sign (streaming verification is not required by spec.md, but
// the same contiguous-buffer constraint applies, so it is honored
// symmetrically here).
func Verify(pub *PublicKey, hash []byte, r, s *big.Int, streaming bool) bool {
	if streaming || pub.Curve.Name() == ecc.CurveP521 {
		return softwareVerify(pub, hash, r, s)
	}
	ok, err := platformVerify(pub, hash, r, s)
	if err == nil {
		return ok
	}
	var integrity *keyIntegrityError
	if errors.As(err, &integrity) {
		return false
	}
	return softwareVerify(pub, hash, r, s)
}

func platformSign(randSource io.Reader, priv *PrivateKey, hash []byte) (r, s *big.Int, err error) {
	stdPriv := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: priv.Curve.StdlibCurve(), X: priv.X, Y: priv.Y},
		D:         priv.D,
	}
	r, s, err = ecdsa.Sign(randSource, stdPriv, hash)
	if err != nil {
		// crypto/ecdsa only ever fails this way on a broken D or an
		// exhausted randomness source; treat it as a key-integrity
		// rejection so a genuinely malformed key never silently
		// "succeeds" via the software tier.
		return nil, nil, &keyIntegrityError{err}
	}
	return r, s, nil
}

func platformVerify(pub *PublicKey, hash []byte, r, s *big.Int) (ok bool, err error) {
	stdPub := &ecdsa.PublicKey{Curve: pub.Curve.StdlibCurve(), X: pub.X, Y: pub.Y}
	if stdPub.X == nil || stdPub.Y == nil || !stdPub.Curve.IsOnCurve(stdPub.X, stdPub.Y) {
		return false, &keyIntegrityError{pgperrors.KeyInvalidError("public point not on curve")}
	}
	return ecdsa.Verify(stdPub, hash, r, s), nil
}

// softwareSign implements textbook ECDSA signing directly over the curve's
// generic big.Int Params(), bypassing crypto/ecdsa entirely.
func softwareSign(randSource io.Reader, priv *PrivateKey, hash []byte) (r, s *big.Int, err error) {
	params := priv.Curve.StdlibCurve().Params()
	n := params.N
	z := hashToInt(hash, n)

	for {
		k, err := randFieldElement(randSource, n)
		if err != nil {
			return nil, nil, err
		}
		x1, _ := priv.Curve.StdlibCurve().ScalarBaseMult(k.Bytes())
		r = new(big.Int).Mod(x1, n)
		if r.Sign() == 0 {
			continue
		}
		kInv := new(big.Int).ModInverse(k, n)
		s = new(big.Int).Mul(priv.D, r)
		s.Add(s, z)
		s.Mul(s, kInv)
		s.Mod(s, n)
		if s.Sign() == 0 {
			continue
		}
		return r, s, nil
	}
}

func softwareVerify(pub *PublicKey, hash []byte, r, s *big.Int) bool {
	params := pub.Curve.StdlibCurve().Params()
	n := params.N
	if r.Sign() <= 0 || s.Sign() <= 0 || r.Cmp(n) >= 0 || s.Cmp(n) >= 0 {
		return false
	}
	if pub.X == nil || pub.Y == nil || !pub.Curve.StdlibCurve().IsOnCurve(pub.X, pub.Y) {
		return false
	}
	z := hashToInt(hash, n)
	w := new(big.Int).ModInverse(s, n)
	u1 := new(big.Int).Mul(z, w)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(r, w)
	u2.Mod(u2, n)

	x1, y1 := pub.Curve.StdlibCurve().ScalarBaseMult(u1.Bytes())
	x2, y2 := pub.Curve.StdlibCurve().ScalarMult(pub.X, pub.Y, u2.Bytes())
	if x1.Sign() == 0 && y1.Sign() == 0 {
		return false
	}
	x, y := pub.Curve.StdlibCurve().Add(x1, y1, x2, y2)
	if x.Sign() == 0 && y.Sign() == 0 {
		return false
	}
	return new(big.Int).Mod(x, n).Cmp(r) == 0
}

func hashToInt(hash []byte, n *big.Int) *big.Int {
	bitLen := n.BitLen()
	byteLen := (bitLen + 7) / 8
	if len(hash) > byteLen {
		hash = hash[:byteLen]
	}
	ret := new(big.Int).SetBytes(hash)
	excess := len(hash)*8 - bitLen
	if excess > 0 {
		ret.Rsh(ret, uint(excess))
	}
	return ret
}

func randFieldElement(randSource io.Reader, n *big.Int) (*big.Int, error) {
	bitLen := n.BitLen()
	byteLen := (bitLen + 7) / 8
	buf := make([]byte, byteLen)
	for {
		if _, err := io.ReadFull(randSource, buf); err != nil {
			return nil, err
		}
		k := new(big.Int).SetBytes(buf)
		if k.Sign() != 0 && k.Cmp(n) < 0 {
			return k, nil
		}
	}
}

// Validate signs then verifies a fresh 8-byte random message with SHA-256.
// This is both a faster correctness check than re-deriving the public
// point and a functional self-test of the whole sign/verify pipeline
// (spec.md §4.4).
func Validate(priv *PrivateKey) error {
	msg := make([]byte, 8)
	if _, err := io.ReadFull(rand.Reader, msg); err != nil {
		return err
	}
	digest := sha256Sum(msg)

	r, s, err := Sign(rand.Reader, priv, digest, false)
	if err != nil {
		return pgperrors.KeyInvalidError("self-test signing failed: " + err.Error())
	}
	if !Verify(&priv.PublicKey, digest, r, s, false) {
		return pgperrors.KeyInvalidError("self-test verification failed")
	}
	return nil
}
