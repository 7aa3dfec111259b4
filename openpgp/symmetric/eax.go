package symmetric

import (
	"crypto/cipher"
	"crypto/subtle"

	"github.com/vaultkeys/pgpcore/openpgp/errors"
)

// eaxTagSize and eaxNonceSize are fixed by this module's use of EAX: a
// 16-byte block cipher, a 16-byte tag, and a 16-byte nonce (spec.md §4.6's
// AEAD tag/nonce table, EAX row).
const (
	eaxTagSize   = 16
	eaxNonceSize = 16
)

// eax wraps a block cipher with the EAX authenticated encryption mode
// (Bellare/Rogaway/Wagner), ported from the teacher lineage's self-contained
// eax/eax.go: CTR-mode encryption plus three independent OMAC1 (CMAC) tags
// over the nonce, associated data, and ciphertext, folded together by XOR.
// It depends on nothing beyond crypto/cipher and crypto/subtle.
type eax struct {
	block     cipher.Block
	tagSize   int
	nonceSize int
}

func newEAX(block cipher.Block) (*eax, error) {
	if block.BlockSize() != 16 {
		return nil, errors.InvalidArgumentError("eax requires a 16-byte block cipher")
	}
	return &eax{block: block, tagSize: eaxTagSize, nonceSize: eaxNonceSize}, nil
}

func (e *eax) Seal(plaintext, nonce, adata []byte) []byte {
	omacNonce := e.omac(nonce, 0)
	omacAdata := e.omac(adata, 1)

	ciphertext := make([]byte, len(plaintext))
	ctr := cipher.NewCTR(e.block, omacNonce)
	ctr.XORKeyStream(ciphertext, plaintext)

	omacCiphertext := e.omac(ciphertext, 2)

	tag := make([]byte, e.tagSize)
	for i := 0; i < e.tagSize; i++ {
		tag[i] = omacNonce[i] ^ omacAdata[i] ^ omacCiphertext[i]
	}
	return append(ciphertext, tag...)
}

func (e *eax) Open(ciphertextAndTag, nonce, adata []byte) ([]byte, error) {
	if len(ciphertextAndTag) < e.tagSize {
		return nil, errors.StructuralError("eax ciphertext shorter than tag")
	}
	ciphertext := ciphertextAndTag[:len(ciphertextAndTag)-e.tagSize]
	gotTag := ciphertextAndTag[len(ciphertextAndTag)-e.tagSize:]

	omacNonce := e.omac(nonce, 0)
	omacAdata := e.omac(adata, 1)
	omacCiphertext := e.omac(ciphertext, 2)

	wantTag := make([]byte, e.tagSize)
	for i := 0; i < e.tagSize; i++ {
		wantTag[i] = omacNonce[i] ^ omacAdata[i] ^ omacCiphertext[i]
	}
	if subtle.ConstantTimeCompare(gotTag, wantTag) != 1 {
		return nil, errors.ChecksumError{}
	}

	plaintext := make([]byte, len(ciphertext))
	ctr := cipher.NewCTR(e.block, omacNonce)
	ctr.XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

// omac computes OMAC1(tag, t || msg), the per-purpose CMAC variant EAX
// mixes with a tweak (0=nonce, 1=adata, 2=ciphertext) to keep the three
// MACs cryptographically independent despite sharing one key.
func (e *eax) omac(msg []byte, tweak byte) []byte {
	blockSize := e.block.BlockSize()
	tweaked := make([]byte, blockSize)
	tweaked[blockSize-1] = tweak
	prefixed := append(tweaked, msg...)
	return cmac(e.block, prefixed)
}

// cmac implements the NIST SP 800-38B CMAC construction over one message,
// reusing the same block cipher key the EAX wrapper was built with.
func cmac(block cipher.Block, msg []byte) []byte {
	blockSize := block.BlockSize()
	k1, k2 := subkeys(block)

	n := (len(msg) + blockSize - 1) / blockSize
	var complete bool
	if n == 0 {
		n = 1
		complete = false
	} else {
		complete = len(msg)%blockSize == 0
	}

	padded := make([]byte, n*blockSize)
	copy(padded, msg)
	lastBlock := padded[(n-1)*blockSize : n*blockSize]
	if complete {
		xorInto(lastBlock, k1)
	} else {
		padded[len(msg)] = 0x80
		xorInto(lastBlock, k2)
	}

	mac := make([]byte, blockSize)
	buf := make([]byte, blockSize)
	for i := 0; i < n; i++ {
		xorBytes(buf, mac, padded[i*blockSize:(i+1)*blockSize])
		block.Encrypt(mac, buf)
	}
	return mac
}

func subkeys(block cipher.Block) (k1, k2 []byte) {
	blockSize := block.BlockSize()
	zero := make([]byte, blockSize)
	l := make([]byte, blockSize)
	block.Encrypt(l, zero)

	k1 = shiftLeftAndReduce(l)
	k2 = shiftLeftAndReduce(k1)
	return k1, k2
}

func shiftLeftAndReduce(in []byte) []byte {
	blockSize := len(in)
	out := make([]byte, blockSize)
	var carry byte
	for i := blockSize - 1; i >= 0; i-- {
		out[i] = in[i]<<1 | carry
		carry = in[i] >> 7
	}
	if carry != 0 {
		out[blockSize-1] ^= 0x87
	}
	return out
}

func xorInto(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

func xorBytes(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}
