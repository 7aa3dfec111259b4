// Package s2k implements the string-to-key specifiers used to derive a
// symmetric key from a passphrase (spec.md §4.2, component C2). The S2K
// specifier itself is treated as a self-contained collaborator: parse and
// write are exact wire-format inverses, and ProduceKey derives a key
// deterministically from a passphrase, salt, and iteration count.
package s2k

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"io"

	"github.com/vaultkeys/pgpcore/openpgp/errors"
)

// Mode identifies the S2K specifier's wire type octet.
type Mode uint8

const (
	ModeSimple         Mode = 0
	ModeSalted         Mode = 1
	ModeIteratedSalted Mode = 3
	// ModeGnuDummy is the non-standard GNU extension (type octet 101)
	// that marks a secret key whose material has been stubbed out.
	ModeGnuDummy Mode = 101
)

const saltSize = 8

// gnuDummySerial is the one-octet GNU extension tag following the "GNU"
// marker that identifies a stub with no secret key material at all (as
// opposed to GnuPG's smart-card-backed variant, serial 2, which this
// subsystem does not model).
const gnuDummySerial = 1

// HashFunc resolves an OpenPGP hash algorithm code to a hash constructor.
// It is supplied by the caller (the packet package, via the C1 registry);
// when a caller passes nil, ProduceKey falls back to defaultHashFunc, which
// knows only SHA-1, SHA-256 and SHA-512.
type HashFunc func(algo uint8) (func() hash.Hash, int, bool)

// defaultHashFunc resolves the hash algorithms S2K specifiers most
// commonly carry without requiring the caller to wire one in; tests and
// simple callers can rely on it.
func defaultHashFunc(algo uint8) (func() hash.Hash, int, bool) {
	switch algo {
	case 2:
		return sha1.New, sha1.Size, true
	case 8:
		return sha256.New, sha256.Size, true
	case 10:
		return sha512.New, sha512.Size, true
	default:
		return nil, 0, false
	}
}

// Params is the parsed S2K specifier. It is comparable (no slice/map
// fields besides the salt array), so it can key an s2k.Cache.
type Params struct {
	mode     Mode
	hashAlgo uint8
	salt     [saltSize]byte
	hasSalt  bool
	countC   uint8 // coded iteration count octet (ModeIteratedSalted only)
}

// NewSimple returns a ModeSimple specifier using the given hash algorithm.
func NewSimple(hashAlgo uint8) *Params {
	return &Params{mode: ModeSimple, hashAlgo: hashAlgo}
}

// NewSalted returns a ModeSalted specifier.
func NewSalted(hashAlgo uint8, salt [saltSize]byte) *Params {
	return &Params{mode: ModeSalted, hashAlgo: hashAlgo, salt: salt, hasSalt: true}
}

// NewIteratedSalted returns a ModeIteratedSalted specifier. countByte is
// the RFC 4880 §3.7.1.3 coded iteration count.
func NewIteratedSalted(hashAlgo uint8, salt [saltSize]byte, countByte uint8) *Params {
	return &Params{mode: ModeIteratedSalted, hashAlgo: hashAlgo, salt: salt, hasSalt: true, countC: countByte}
}

// NewGnuDummy returns the gnu-dummy sentinel specifier.
func NewGnuDummy() *Params {
	return &Params{mode: ModeGnuDummy}
}

// Mode reports the specifier's type.
func (p *Params) Mode() Mode { return p.mode }

// HashAlgo reports the specifier's hash algorithm code. It is meaningless
// for ModeGnuDummy.
func (p *Params) HashAlgo() uint8 { return p.hashAlgo }

// IsDummy reports whether this is the gnu-dummy sentinel.
func (p *Params) IsDummy() bool { return p.mode == ModeGnuDummy }

// DecodeCount converts the coded iteration-count octet into the actual
// number of octets hashed, per RFC 4880 §3.7.1.3:
// count = (16 + (c & 15)) << ((c >> 4) + 6).
func DecodeCount(c uint8) int {
	return (16 + int(c&15)) << (uint(c>>4) + 6)
}

// EncodeCount converts a desired iteration count into the nearest coded
// octet whose decoded value is >= count (capped at the maximum codeable
// value, 0xFF).
func EncodeCount(count int) uint8 {
	if count <= DecodeCount(0) {
		return 0
	}
	if count >= DecodeCount(0xff) {
		return 0xff
	}
	for c := 0; c <= 0xff; c++ {
		if DecodeCount(uint8(c)) >= count {
			return uint8(c)
		}
	}
	return 0xff
}

// Read parses an S2K specifier from r and returns the number of bytes
// consumed.
func Read(r io.Reader) (*Params, int, error) {
	var modeByte [1]byte
	if _, err := io.ReadFull(r, modeByte[:]); err != nil {
		return nil, 0, err
	}
	p := &Params{mode: Mode(modeByte[0])}
	consumed := 1

	switch p.mode {
	case ModeGnuDummy:
		// hash-algo octet (unused, present for wire compatibility),
		// then the literal "GNU" marker and a one-octet serial.
		var rest [5]byte
		if _, err := io.ReadFull(r, rest[:]); err != nil {
			return nil, consumed, err
		}
		consumed += 5
		if string(rest[1:4]) != "GNU" {
			return nil, consumed, errors.StructuralError("malformed gnu-dummy s2k marker")
		}
		if rest[4] != gnuDummySerial {
			return nil, consumed, errors.UnsupportedError("unsupported gnu-dummy s2k serial")
		}
		return p, consumed, nil
	case ModeSimple:
		var algo [1]byte
		if _, err := io.ReadFull(r, algo[:]); err != nil {
			return nil, consumed, err
		}
		p.hashAlgo = algo[0]
		consumed++
	case ModeSalted:
		var buf [1 + saltSize]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, consumed, err
		}
		p.hashAlgo = buf[0]
		copy(p.salt[:], buf[1:])
		p.hasSalt = true
		consumed += len(buf)
	case ModeIteratedSalted:
		var buf [1 + saltSize + 1]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, consumed, err
		}
		p.hashAlgo = buf[0]
		copy(p.salt[:], buf[1:1+saltSize])
		p.hasSalt = true
		p.countC = buf[1+saltSize]
		consumed += len(buf)
	default:
		return nil, consumed, errors.UnknownEnumError("s2k mode")
	}
	return p, consumed, nil
}

// Write serializes the specifier; it is the exact inverse of Read.
func (p *Params) Write(w io.Writer) error {
	switch p.mode {
	case ModeGnuDummy:
		_, err := w.Write([]byte{byte(ModeGnuDummy), 0, 'G', 'N', 'U', gnuDummySerial})
		return err
	case ModeSimple:
		_, err := w.Write([]byte{byte(ModeSimple), p.hashAlgo})
		return err
	case ModeSalted:
		buf := make([]byte, 0, 2+saltSize)
		buf = append(buf, byte(ModeSalted), p.hashAlgo)
		buf = append(buf, p.salt[:]...)
		_, err := w.Write(buf)
		return err
	case ModeIteratedSalted:
		buf := make([]byte, 0, 3+saltSize)
		buf = append(buf, byte(ModeIteratedSalted), p.hashAlgo)
		buf = append(buf, p.salt[:]...)
		buf = append(buf, p.countC)
		_, err := w.Write(buf)
		return err
	default:
		return errors.UnknownEnumError("s2k mode")
	}
}

// ProduceKey derives a symmetric key of keyLength bytes from passphrase
// using this specifier. gnu-dummy specifiers always fail: they mark a
// secret key with no material to protect.
//
// The derivation follows the widely-interoperable OpenPGP convention: when
// keyLength exceeds one hash digest, additional independent hash contexts
// are run, each preloaded with an increasing run of zero octets before the
// salt/passphrase, and their digests are concatenated and truncated to
// keyLength.
func (p *Params) ProduceKey(passphrase []byte, keyLength int, hf HashFunc) ([]byte, error) {
	if p.mode == ModeGnuDummy {
		return nil, errors.InvalidArgumentError("gnu-dummy s2k cannot derive a key")
	}
	if hf == nil {
		hf = defaultHashFunc
	}
	newHash, _, ok := hf(p.hashAlgo)
	if !ok {
		return nil, errors.UnknownEnumError("s2k hash algorithm")
	}

	out := make([]byte, keyLength)
	used := 0
	var digest []byte
	for i := 0; used < keyLength; i++ {
		h := newHash()
		for j := 0; j < i; j++ {
			h.Write([]byte{0})
		}
		switch p.mode {
		case ModeSimple:
			h.Write(passphrase)
		case ModeSalted:
			h.Write(p.salt[:])
			h.Write(passphrase)
		case ModeIteratedSalted:
			count := DecodeCount(p.countC)
			combined := append(append([]byte{}, p.salt[:]...), passphrase...)
			if len(combined) == 0 {
				break
			}
			written := 0
			for written+len(combined) <= count {
				h.Write(combined)
				written += len(combined)
			}
			if written < count {
				h.Write(combined[:count-written])
			}
		}
		digest = h.Sum(digest[:0])
		used += copy(out[used:], digest)
	}
	return out, nil
}
