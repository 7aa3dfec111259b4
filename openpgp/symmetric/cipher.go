// Package symmetric implements the symmetric-cipher, hash, and AEAD
// algorithm tables that back secret-key protection (spec.md §4.1/§4.6,
// components C1/C6), plus a self-contained EAX AEAD mode ported from the
// teacher lineage's in-repo implementation.
package symmetric

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"

	"golang.org/x/crypto/cast5"

	"github.com/vaultkeys/pgpcore/openpgp/errors"
)

// CipherFunction identifies an OpenPGP symmetric-key algorithm (RFC 4880
// §9.2 values).
type CipherFunction uint8

const (
	CipherTripleDES CipherFunction = 2
	CipherCAST5     CipherFunction = 3
	CipherAES128    CipherFunction = 7
	CipherAES192    CipherFunction = 8
	CipherAES256    CipherFunction = 9
)

type cipherInfo struct {
	keySize   int
	blockSize int
	newBlock  func(key []byte) (cipher.Block, error)
}

var cipherTable = map[CipherFunction]cipherInfo{
	CipherTripleDES: {24, 8, func(key []byte) (cipher.Block, error) { return des.NewTripleDESCipher(key) }},
	CipherCAST5:     {16, 8, func(key []byte) (cipher.Block, error) { return cast5.NewCipher(key) }},
	CipherAES128:    {16, 16, aes.NewCipher},
	CipherAES192:    {24, 16, aes.NewCipher},
	CipherAES256:    {32, 16, aes.NewCipher},
}

// KeySize reports the cipher's key size in bytes.
func (c CipherFunction) KeySize() (int, error) {
	info, ok := cipherTable[c]
	if !ok {
		return 0, errors.UnknownEnumError("cipher function")
	}
	return info.keySize, nil
}

// BlockSize reports the cipher's block size in bytes.
func (c CipherFunction) BlockSize() (int, error) {
	info, ok := cipherTable[c]
	if !ok {
		return 0, errors.UnknownEnumError("cipher function")
	}
	return info.blockSize, nil
}

// New constructs a cipher.Block for this algorithm and key.
func (c CipherFunction) New(key []byte) (cipher.Block, error) {
	info, ok := cipherTable[c]
	if !ok {
		return nil, errors.UnknownEnumError("cipher function")
	}
	if len(key) != info.keySize {
		return nil, errors.InvalidArgumentError("wrong key size for cipher function")
	}
	return info.newBlock(key)
}
