package symmetric

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/vaultkeys/pgpcore/openpgp/errors"
)

// HashAlgorithm identifies an OpenPGP hash algorithm (RFC 4880 §9.4 values).
type HashAlgorithm uint8

const (
	// HashMD5 is carried only to recognize and reject the legacy unsalted
	// MD5 S2K form as InsecureS2K (spec.md §7) — it is never accepted as a
	// digest for a new S2K specifier or signature.
	HashMD5    HashAlgorithm = 1
	HashSHA1   HashAlgorithm = 2
	HashSHA256 HashAlgorithm = 8
	HashSHA512 HashAlgorithm = 10
)

type hashInfo struct {
	new    func() hash.Hash
	size   int
	secure bool
}

var hashTable = map[HashAlgorithm]hashInfo{
	HashMD5:    {md5.New, md5.Size, false},
	HashSHA1:   {sha1.New, sha1.Size, true},
	HashSHA256: {sha256.New, sha256.Size, true},
	HashSHA512: {sha512.New, sha512.Size, true},
}

// New constructs a hash.Hash for this algorithm.
func (h HashAlgorithm) New() (hash.Hash, error) {
	info, ok := hashTable[h]
	if !ok {
		return nil, errors.UnknownEnumError("hash algorithm")
	}
	return info.new(), nil
}

// Size reports the digest length in bytes.
func (h HashAlgorithm) Size() (int, error) {
	info, ok := hashTable[h]
	if !ok {
		return 0, errors.UnknownEnumError("hash algorithm")
	}
	return info.size, nil
}

// Secure reports whether h is acceptable for new S2K specifiers and
// signatures; HashMD5 is the sole registered algorithm that is not.
func (h HashAlgorithm) Secure() bool {
	info, ok := hashTable[h]
	return ok && info.secure
}
