package packet

import (
	"crypto/rand"
	"io"
	"time"

	"github.com/vaultkeys/pgpcore/openpgp/s2k"
	"github.com/vaultkeys/pgpcore/openpgp/symmetric"
)

// AEADConfig selects AEAD-based secret-key protection (s2kUsage 253)
// instead of the legacy CFB+SHA-1 form. A nil *AEADConfig on Config means
// AEAD protection is not used.
type AEADConfig struct {
	Mode          symmetric.AEADMode
	ChunkSizeByte byte
}

func (c *AEADConfig) mode() symmetric.AEADMode {
	if c == nil || c.Mode == 0 {
		return symmetric.AEADModeEAX
	}
	return c.Mode
}

// S2KConfig carries the string-to-key parameters new secret-key protection
// should use.
type S2KConfig struct {
	Hash          symmetric.HashAlgorithm
	S2KMode       s2k.Mode
	S2KCount      int // desired iteration count; ignored unless S2KMode is ModeIteratedSalted
}

// Config gathers every option spec.md §6 exposes to callers constructing or
// parsing packets. A nil *Config is valid everywhere in this package and
// resolves to the defaults documented on each accessor, mirroring the
// teacher's "a nil config results in sensible defaults" convention.
type Config struct {
	// V5Keys is not read anywhere in this package: the New*PublicKey
	// constructors always build version-4 packets whatever it says.
	V5Keys bool
	// AEAD, if non-nil, selects AEAD secret-key protection.
	AEAD *AEADConfig
	// S2K carries the S2K hash/mode/iteration-count to use when
	// protecting a new secret key. A nil value defaults to
	// iterated-salted SHA-256 with a moderate iteration count.
	S2K *S2KConfig
	// Time returns the current time; overridable for deterministic tests.
	Time func() time.Time
	// Random is the source of cryptographic randomness; overridable for
	// deterministic tests.
	Random io.Reader
	// AllowTolerantReads enables PacketList.Read's skip-and-log behavior
	// for malformed packets instead of aborting on the first error.
	AllowTolerantReads bool
}

func (c *Config) now() time.Time {
	if c == nil || c.Time == nil {
		return time.Now()
	}
	return c.Time()
}

func (c *Config) random() io.Reader {
	if c == nil || c.Random == nil {
		return rand.Reader
	}
	return c.Random
}

func (c *Config) v5Keys() bool {
	return c != nil && c.V5Keys
}

func (c *Config) tolerant() bool {
	return c != nil && c.AllowTolerantReads
}

func (c *Config) aeadConfig() *AEADConfig {
	if c == nil {
		return nil
	}
	return c.AEAD
}

func (c *Config) s2kConfig() *S2KConfig {
	if c != nil && c.S2K != nil {
		return c.S2K
	}
	return &S2KConfig{
		Hash:     symmetric.HashSHA256,
		S2KMode:  s2k.ModeIteratedSalted,
		S2KCount: 65536,
	}
}
