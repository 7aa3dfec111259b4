// Package errors holds the typed error kinds raised by the key-material
// packet codec and the packet-list stream. Every kind is fatal to the
// operation that raises it and is always returned to the caller, never
// swallowed, except where spec.md §7 says otherwise (PacketList's tolerant
// mode, and the ECDSA platform-tier fallback).
package errors

import "strconv"

// StructuralError is returned when the packet sequence or a packet body
// is malformed, such as an invalid MPI length or a short read while
// parsing a secret-key checksum.
type StructuralError string

func (s StructuralError) Error() string {
	return "pgpcore: invalid data: " + string(s)
}

// UnsupportedError is returned when a packet or an algorithm it names is
// recognized syntactically but is not implemented or has been explicitly
// excluded by this subsystem (e.g. v3 key packets, EdDSA signing).
type UnsupportedError string

func (s UnsupportedError) Error() string {
	return "pgpcore: unsupported feature: " + string(s)
}

// UnknownEnumError is raised when a wire code for a tag, public-key
// algorithm, hash algorithm, symmetric-cipher, AEAD mode, or curve is not
// present in the algorithm registry (C1).
type UnknownEnumError string

func (s UnknownEnumError) Error() string {
	return "pgpcore: unknown enum value: " + string(s)
}

// InvalidArgumentError signals a lifecycle violation, such as encrypting an
// already-encrypted secret key, or decrypting a key that was never
// protected.
type InvalidArgumentError string

func (s InvalidArgumentError) Error() string {
	return "pgpcore: invalid argument: " + string(s)
}

// ChecksumError is returned when a cleartext secret key's two-octet
// checksum does not match the sum of its serialized private parameters.
type ChecksumError struct{}

func (ChecksumError) Error() string {
	return "pgpcore: private key checksum failure"
}

// IncorrectPassphraseError is returned by SecretKeyPacket.Decrypt when the
// AEAD tag or the SHA-1 integrity digest fails to verify.
type IncorrectPassphraseError struct{}

func (IncorrectPassphraseError) Error() string {
	return "pgpcore: incorrect passphrase"
}

// InsecureS2KError is returned when Decrypt encounters an s2kUsage/S2K
// combination this subsystem refuses to honor: s2kUsage 255 (unsalted or
// two-octet-checksum form) or an unsalted MD5 S2K specifier.
type InsecureS2KError string

func (s InsecureS2KError) Error() string {
	return "pgpcore: insecure string-to-key mechanism: " + string(s)
}

// ValidationError wraps the error an algorithm's secret-parameter
// consistency check returns, as reported by SecretKeyPacket.Validate.
type ValidationError struct {
	Algorithm string
	Cause     error
}

func (e *ValidationError) Error() string {
	msg := "pgpcore: key validation failed for " + e.Algorithm
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// DisallowedPacketError is raised by PacketList.Read when a framed tag is
// not present in the caller-supplied allow-list.
type DisallowedPacketError int

func (e DisallowedPacketError) Error() string {
	return "pgpcore: packet tag " + strconv.Itoa(int(e)) + " is not in the allow-list"
}

// MissingTrailingSignatureError is returned by OnePassSignaturePacket.Verify
// when no corresponding Signature packet was ever bound.
type MissingTrailingSignatureError struct{}

func (MissingTrailingSignatureError) Error() string {
	return "pgpcore: one-pass signature has no corresponding trailing signature"
}

// MismatchedTrailingSignatureError is returned by
// OnePassSignaturePacket.Verify when the bound Signature packet's
// algorithm/type/issuer fields disagree with the one-pass header.
type MismatchedTrailingSignatureError string

func (s MismatchedTrailingSignatureError) Error() string {
	return "pgpcore: one-pass signature does not match trailing signature: " + string(s)
}

// KeyInvalidError is raised by curve/parameter validation when a public or
// private value is algebraically inconsistent (e.g. a point not on the
// curve, or a scalar outside [1, n-1]).
type KeyInvalidError string

func (s KeyInvalidError) Error() string {
	return "pgpcore: invalid key material: " + string(s)
}
