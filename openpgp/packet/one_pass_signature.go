package packet

import (
	"encoding/binary"
	"io"

	"github.com/vaultkeys/pgpcore/openpgp/errors"
	"github.com/vaultkeys/pgpcore/openpgp/symmetric"
)

const onePassSignatureVersion = 3

// SignatureFields is the minimal surface a trailing Signature packet must
// expose for OnePassSignaturePacket.Verify to check that it is really the
// signature this one-pass header announced. This subsystem does not
// implement the Signature packet body itself (spec.md scopes signature
// verification to C7's pairing contract, not to Signature packet parsing);
// callers bind whatever Signature type they parse by satisfying this
// interface.
type SignatureFields interface {
	SigType() uint8
	PubKeyAlgorithm() PublicKeyAlgorithm
	HashAlgorithm() symmetric.HashAlgorithm
	IssuerKeyId() uint64
}

// OnePassSignaturePacket announces, ahead of a streamed signed message,
// the signature that will follow at the end of it — letting a streaming
// verifier start hashing the message body before it has seen the
// signature itself (spec.md §4.7, component C7).
type OnePassSignaturePacket struct {
	SigType    uint8
	Hash       symmetric.HashAlgorithm
	PubKeyAlgo PublicKeyAlgorithm
	KeyId      uint64
	// IsLast is true when this is the outermost one-pass signature of a
	// nested set (RFC 4880 §5.4): false marks "there is another one-pass
	// signature packet after this one, for the same message".
	IsLast bool

	// correspondingSig is filled in by Bind once the trailing Signature
	// packet for this one-pass header has been located; Verify refuses to
	// run until it is set.
	correspondingSig SignatureFields
}

func init() {
	registerPacketParser(TagOnePassSignature, func(r io.Reader) (Packet, error) {
		return parseOnePassSignature(r)
	})
}

func parseOnePassSignature(r io.Reader) (*OnePassSignaturePacket, error) {
	var buf [13]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if buf[0] != onePassSignatureVersion {
		return nil, errors.UnsupportedError("one-pass signature packet version")
	}
	p := &OnePassSignaturePacket{
		SigType:    buf[1],
		Hash:       symmetric.HashAlgorithm(buf[2]),
		PubKeyAlgo: PublicKeyAlgorithm(buf[3]),
		KeyId:      binary.BigEndian.Uint64(buf[4:12]),
		IsLast:     buf[12] != 0,
	}
	return p, nil
}

// PacketTag implements Packet.
func (p *OnePassSignaturePacket) PacketTag() Tag { return TagOnePassSignature }

// Serialize writes the packet's fixed 13-byte body.
func (p *OnePassSignaturePacket) Serialize(w io.Writer) error {
	var buf [13]byte
	buf[0] = onePassSignatureVersion
	buf[1] = p.SigType
	buf[2] = byte(p.Hash)
	buf[3] = byte(p.PubKeyAlgo)
	binary.BigEndian.PutUint64(buf[4:12], p.KeyId)
	if p.IsLast {
		buf[12] = 1
	}
	_, err := w.Write(buf[:])
	return err
}

// Bind associates the trailing Signature packet that closes out this
// one-pass announcement. It does not itself check field agreement; Verify
// does, so that a caller can Bind speculatively and only pay the mismatch
// check once verification is actually requested.
func (p *OnePassSignaturePacket) Bind(sig SignatureFields) {
	p.correspondingSig = sig
}

// Verify checks that a trailing Signature packet was bound via Bind and
// that its type, public-key algorithm, hash algorithm, and issuer key ID
// agree with what this one-pass header announced.
func (p *OnePassSignaturePacket) Verify() error {
	sig := p.correspondingSig
	if sig == nil {
		return errors.MissingTrailingSignatureError{}
	}
	switch {
	case sig.SigType() != p.SigType:
		return errors.MismatchedTrailingSignatureError("signature type")
	case sig.PubKeyAlgorithm() != p.PubKeyAlgo:
		return errors.MismatchedTrailingSignatureError("public key algorithm")
	case sig.HashAlgorithm() != p.Hash:
		return errors.MismatchedTrailingSignatureError("hash algorithm")
	case sig.IssuerKeyId() != p.KeyId:
		return errors.MismatchedTrailingSignatureError("issuer key id")
	}
	return nil
}
