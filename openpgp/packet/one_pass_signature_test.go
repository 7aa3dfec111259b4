package packet

import (
	"bytes"
	"testing"

	"github.com/vaultkeys/pgpcore/openpgp/errors"
	"github.com/vaultkeys/pgpcore/openpgp/symmetric"
)

type fakeSignature struct {
	sigType    uint8
	pubKeyAlgo PublicKeyAlgorithm
	hashAlgo   symmetric.HashAlgorithm
	keyId      uint64
}

func (f *fakeSignature) SigType() uint8                           { return f.sigType }
func (f *fakeSignature) PubKeyAlgorithm() PublicKeyAlgorithm       { return f.pubKeyAlgo }
func (f *fakeSignature) HashAlgorithm() symmetric.HashAlgorithm    { return f.hashAlgo }
func (f *fakeSignature) IssuerKeyId() uint64                       { return f.keyId }

func sampleOnePassSignature() *OnePassSignaturePacket {
	return &OnePassSignaturePacket{
		SigType:    0x00,
		Hash:       symmetric.HashSHA256,
		PubKeyAlgo: PubKeyAlgoECDSA,
		KeyId:      0x0102030405060708,
		IsLast:     true,
	}
}

func TestOnePassSignatureSerializeParseRoundTrip(t *testing.T) {
	p := sampleOnePassSignature()
	var buf bytes.Buffer
	if err := p.Serialize(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := parseOnePassSignature(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if *got != (OnePassSignaturePacket{SigType: p.SigType, Hash: p.Hash, PubKeyAlgo: p.PubKeyAlgo, KeyId: p.KeyId, IsLast: p.IsLast}) {
		t.Errorf("round trip mismatch: got %+v", got)
	}
}

func TestOnePassSignatureRejectsWrongVersion(t *testing.T) {
	buf := make([]byte, 13)
	buf[0] = 4 // not version 3
	if _, err := parseOnePassSignature(bytes.NewReader(buf)); err == nil {
		t.Error("expected an error for a non-version-3 one-pass signature packet")
	}
}

func TestOnePassSignatureVerifyMissingTrailingSignature(t *testing.T) {
	p := sampleOnePassSignature()
	err := p.Verify()
	if _, ok := err.(errors.MissingTrailingSignatureError); !ok {
		t.Fatalf("got %v (%T), want MissingTrailingSignatureError", err, err)
	}
}

func TestOnePassSignatureVerifySucceedsOnAgreement(t *testing.T) {
	p := sampleOnePassSignature()
	p.Bind(&fakeSignature{sigType: p.SigType, pubKeyAlgo: p.PubKeyAlgo, hashAlgo: p.Hash, keyId: p.KeyId})
	if err := p.Verify(); err != nil {
		t.Errorf("expected Verify to succeed, got %v", err)
	}
}

func TestOnePassSignatureVerifyDetectsEachMismatch(t *testing.T) {
	base := sampleOnePassSignature()
	cases := []struct {
		name string
		sig  *fakeSignature
	}{
		{"sigType", &fakeSignature{sigType: base.SigType + 1, pubKeyAlgo: base.PubKeyAlgo, hashAlgo: base.Hash, keyId: base.KeyId}},
		{"pubKeyAlgo", &fakeSignature{sigType: base.SigType, pubKeyAlgo: PubKeyAlgoRSA, hashAlgo: base.Hash, keyId: base.KeyId}},
		{"hashAlgo", &fakeSignature{sigType: base.SigType, pubKeyAlgo: base.PubKeyAlgo, hashAlgo: symmetric.HashSHA512, keyId: base.KeyId}},
		{"keyId", &fakeSignature{sigType: base.SigType, pubKeyAlgo: base.PubKeyAlgo, hashAlgo: base.Hash, keyId: base.KeyId + 1}},
	}
	for _, tc := range cases {
		p := sampleOnePassSignature()
		p.Bind(tc.sig)
		err := p.Verify()
		if _, ok := err.(errors.MismatchedTrailingSignatureError); !ok {
			t.Errorf("%s: got %v (%T), want MismatchedTrailingSignatureError", tc.name, err, err)
		}
	}
}
