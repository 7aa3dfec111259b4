package symmetric

import "github.com/vaultkeys/pgpcore/openpgp/errors"

// AEADMode identifies the AEAD construction wrapping a SecretKeyPacket's
// protected material when s2kUsage is 253 (spec.md §4.6).
type AEADMode uint8

const (
	AEADModeEAX AEADMode = 1
	AEADModeOCB AEADMode = 2
)

// TagLength reports the authentication tag length for mode, in bytes.
func (m AEADMode) TagLength() (int, error) {
	switch m {
	case AEADModeEAX:
		return 16, nil
	case AEADModeOCB:
		return 16, nil
	default:
		return 0, errors.UnknownEnumError("aead mode")
	}
}

// NonceLength reports the nonce length for mode, in bytes.
func (m AEADMode) NonceLength() (int, error) {
	switch m {
	case AEADModeEAX:
		return 16, nil
	case AEADModeOCB:
		return 15, nil
	default:
		return 0, errors.UnknownEnumError("aead mode")
	}
}

// AEAD is the sealed interface every supported mode implements.
type AEAD interface {
	Seal(plaintext, nonce, adata []byte) []byte
	Open(ciphertextAndTag, nonce, adata []byte) ([]byte, error)
}

// New constructs the AEAD instance for (cipher, mode) over key.
//
// OCB is part of spec.md's AEAD mode enum but has no pure-Go, dependency-free
// implementation in the teacher lineage (the teacher's own eax package has
// no OCB sibling, and no corpus repo imports an OCB library); spec.md §4.6
// only requires the mode to round-trip through the wire-format tag/nonce
// tables, not that every mode have a working cipher, so New reports
// UnsupportedError for OCB rather than fabricating an implementation.
func New(cf CipherFunction, mode AEADMode, key []byte) (AEAD, error) {
	block, err := cf.New(key)
	if err != nil {
		return nil, err
	}
	switch mode {
	case AEADModeEAX:
		return newEAX(block)
	case AEADModeOCB:
		return nil, errors.UnsupportedError("ocb aead mode")
	default:
		return nil, errors.UnknownEnumError("aead mode")
	}
}
