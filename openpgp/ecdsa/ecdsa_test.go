package ecdsa

import (
	"crypto/rand"
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/vaultkeys/pgpcore/openpgp/internal/ecc"
)

func TestSignVerifyRoundTripEachCurve(t *testing.T) {
	for _, name := range []ecc.Curve{ecc.CurveP256, ecc.CurveP384, ecc.CurveP521} {
		curve := ecc.FindByName(name)
		priv, err := GenerateKey(rand.Reader, curve)
		if err != nil {
			t.Fatalf("%v: GenerateKey: %v", name, err)
		}
		digest := sha256.Sum256([]byte("message for " + string(name)))
		r, s, err := Sign(rand.Reader, priv, digest[:], false)
		if err != nil {
			t.Fatalf("%v: Sign: %v", name, err)
		}
		if !Verify(&priv.PublicKey, digest[:], r, s, false) {
			t.Errorf("%v: Verify returned false for a genuine signature", name)
		}
	}
}

func TestStreamingForcesSoftwareTier(t *testing.T) {
	curve := ecc.FindByName(ecc.CurveP256)
	priv, err := GenerateKey(rand.Reader, curve)
	if err != nil {
		t.Fatal(err)
	}
	digest := sha256.Sum256([]byte("streamed message"))
	r, s, err := Sign(rand.Reader, priv, digest[:], true)
	if err != nil {
		t.Fatal(err)
	}
	if !Verify(&priv.PublicKey, digest[:], r, s, true) {
		t.Error("software-tier signature failed software-tier verification")
	}
	// A software-tier signature must also verify through the platform tier,
	// since both tiers implement the same ECDSA scheme.
	if !Verify(&priv.PublicKey, digest[:], r, s, false) {
		t.Error("software-tier signature failed platform-tier verification")
	}
}

func TestP521AlwaysUsesSoftwareTier(t *testing.T) {
	curve := ecc.FindByName(ecc.CurveP521)
	priv, err := GenerateKey(rand.Reader, curve)
	if err != nil {
		t.Fatal(err)
	}
	digest := sha256.Sum256([]byte("p-521 message"))
	r, s, err := Sign(rand.Reader, priv, digest[:], false)
	if err != nil {
		t.Fatal(err)
	}
	if !Verify(&priv.PublicKey, digest[:], r, s, false) {
		t.Error("P-521 signature failed to verify")
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	curve := ecc.FindByName(ecc.CurveP256)
	priv, err := GenerateKey(rand.Reader, curve)
	if err != nil {
		t.Fatal(err)
	}
	digest := sha256.Sum256([]byte("original message"))
	r, s, err := Sign(rand.Reader, priv, digest[:], false)
	if err != nil {
		t.Fatal(err)
	}
	tamperedDigest := sha256.Sum256([]byte("different message"))
	if Verify(&priv.PublicKey, tamperedDigest[:], r, s, false) {
		t.Error("Verify accepted a signature over the wrong message")
	}
}

func TestVerifyRejectsPointOffCurve(t *testing.T) {
	curve := ecc.FindByName(ecc.CurveP256)
	priv, err := GenerateKey(rand.Reader, curve)
	if err != nil {
		t.Fatal(err)
	}
	digest := sha256.Sum256([]byte("message"))
	r, s, err := Sign(rand.Reader, priv, digest[:], false)
	if err != nil {
		t.Fatal(err)
	}
	offY := new(big.Int).Add(priv.PublicKey.Y, big.NewInt(1))
	bogus := &PublicKey{Curve: curve, X: priv.PublicKey.X, Y: offY}
	if Verify(bogus, digest[:], r, s, false) {
		t.Error("Verify accepted a public point not on the curve")
	}
}

func TestValidateSelfTest(t *testing.T) {
	curve := ecc.FindByName(ecc.CurveP256)
	priv, err := GenerateKey(rand.Reader, curve)
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(priv); err != nil {
		t.Errorf("Validate failed on a freshly generated key: %v", err)
	}
}
