// Package packet implements the OpenPGP packet framing layer and the
// key-material packet types built on top of it: PublicKeyPacket,
// SecretKeyPacket, OnePassSignaturePacket, and the PacketList stream codec
// (spec.md components C1, C3, C5–C8).
package packet

import "github.com/vaultkeys/pgpcore/openpgp/errors"

// Tag identifies an OpenPGP packet's type (RFC 4880 §4.3).
type Tag uint8

const (
	TagPublicKeyEncryptedKey Tag = 1
	TagSignature             Tag = 2
	TagSymmetricKeyEncrypted Tag = 3
	TagOnePassSignature      Tag = 4
	TagSecretKey             Tag = 5
	TagPublicKey             Tag = 6
	TagSecretSubkey          Tag = 7
	TagCompressed            Tag = 8
	TagSymEncrypted          Tag = 9
	TagMarker                Tag = 10
	TagLiteralData           Tag = 11
	TagTrust                 Tag = 12
	TagUserId                Tag = 13
	TagPublicSubkey          Tag = 14
	TagUserAttribute         Tag = 17
	TagSymEncryptedIntegrity Tag = 18
	TagAEADEncrypted         Tag = 20
)

// streamingCapable reports whether tag may legally carry OpenPGP's
// partial-length framing (spec.md §4.8's "eager up to and including the
// first streaming-capable packet" rule). Only packets whose bodies are
// naturally unbounded streams qualify; key-material and signature-control
// packets never do.
func (t Tag) streamingCapable() bool {
	switch t {
	case TagCompressed, TagSymEncrypted, TagSymEncryptedIntegrity, TagAEADEncrypted, TagLiteralData:
		return true
	default:
		return false
	}
}

// PublicKeyAlgorithm identifies an OpenPGP public-key algorithm (RFC 4880
// §9.1 values plus RFC 6637's ECDSA/ECDH).
type PublicKeyAlgorithm uint8

const (
	PubKeyAlgoRSA           PublicKeyAlgorithm = 1
	PubKeyAlgoRSAEncryptOnly PublicKeyAlgorithm = 2
	PubKeyAlgoRSASignOnly   PublicKeyAlgorithm = 3
	PubKeyAlgoElGamal       PublicKeyAlgorithm = 16
	PubKeyAlgoDSA           PublicKeyAlgorithm = 17
	PubKeyAlgoECDH          PublicKeyAlgorithm = 18
	PubKeyAlgoECDSA         PublicKeyAlgorithm = 19
)

// CanSign reports whether algo is usable to produce a signature; the two
// encrypt-only RSA variants and ECDH cannot.
func (algo PublicKeyAlgorithm) CanSign() bool {
	switch algo {
	case PubKeyAlgoRSAEncryptOnly, PubKeyAlgoECDH:
		return false
	default:
		return true
	}
}

// CanEncrypt reports whether algo is usable to protect a session/symmetric
// key; the sign-only RSA variant and DSA cannot.
func (algo PublicKeyAlgorithm) CanEncrypt() bool {
	switch algo {
	case PubKeyAlgoRSASignOnly, PubKeyAlgoDSA:
		return false
	default:
		return true
	}
}

// name is used only for error messages; the algorithm's numeric wire value
// is what actually matters everywhere else.
func (algo PublicKeyAlgorithm) name() string {
	switch algo {
	case PubKeyAlgoRSA:
		return "RSA"
	case PubKeyAlgoRSAEncryptOnly:
		return "RSA (encrypt only)"
	case PubKeyAlgoRSASignOnly:
		return "RSA (sign only)"
	case PubKeyAlgoElGamal:
		return "ElGamal"
	case PubKeyAlgoDSA:
		return "DSA"
	case PubKeyAlgoECDH:
		return "ECDH"
	case PubKeyAlgoECDSA:
		return "ECDSA"
	default:
		return "unknown"
	}
}

// requireKnown returns UnknownEnumError for any algorithm code this
// registry does not recognize, and nil otherwise.
func requireKnownPublicKeyAlgorithm(algo PublicKeyAlgorithm) error {
	switch algo {
	case PubKeyAlgoRSA, PubKeyAlgoRSAEncryptOnly, PubKeyAlgoRSASignOnly,
		PubKeyAlgoElGamal, PubKeyAlgoDSA, PubKeyAlgoECDH, PubKeyAlgoECDSA:
		return nil
	default:
		return errors.UnknownEnumError("public key algorithm")
	}
}
