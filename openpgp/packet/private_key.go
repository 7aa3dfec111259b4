package packet

import (
	"bytes"
	"crypto/cipher"
	"crypto/sha1"
	"hash"
	"io"
	"math/big"

	"github.com/vaultkeys/pgpcore/openpgp/errors"
	"github.com/vaultkeys/pgpcore/openpgp/internal/encoding"
	"github.com/vaultkeys/pgpcore/openpgp/s2k"
	"github.com/vaultkeys/pgpcore/openpgp/symmetric"
)

var bigOne = big.NewInt(1)

// s2k usage octet values (RFC 4880 §5.5.3, plus 253 from 4880bis's AEAD
// extension).
const (
	s2kUsageUnprotected    = 0
	s2kUsageAEAD           = 253
	s2kUsageCFBWithSHA1    = 254
	s2kUsageCFBWithChecksum = 255 // legacy, always insecure; Decrypt refuses it
)

// SecretKeyPacket is the private portion of an OpenPGP key: a primary
// secret key (tag 5) or a secret subkey (tag 7) (spec.md's DATA MODEL,
// SecretKeyPacket entity, component C6).
//
// The public half is held by composition, not embedding: PublicKey is an
// explicit field (publicPortion() returns the same pointer), so no
// PublicKeyPacket method is promoted onto a SecretKeyPacket in a way that
// hides which fields actually got touched during Decrypt or MakeDummy.
type SecretKeyPacket struct {
	PublicKey *PublicKeyPacket

	s2kUsage uint8
	cipher   symmetric.CipherFunction
	aeadMode symmetric.AEADMode
	s2kParam *s2k.Params
	iv       []byte
	protected []byte // ciphertext (+ AEAD tag, where applicable) following iv

	private   secretKeyParams
	decrypted bool
	isDummy   bool
}

func (sk *SecretKeyPacket) publicPortion() *PublicKeyPacket { return sk.PublicKey }

// secretKeyParams is the algorithm-specific secret parameter block,
// mirroring publicKeyParams on the public side.
type secretKeyParams interface {
	parse(r io.Reader) error
	serialize(w io.Writer) error
	validate(pub publicKeyParams) error
}

func init() {
	registerPacketParser(TagSecretKey, func(r io.Reader) (Packet, error) {
		return parseSecretKey(r, false)
	})
	registerPacketParser(TagSecretSubkey, func(r io.Reader) (Packet, error) {
		return parseSecretKey(r, true)
	})
}

func parseSecretKey(r io.Reader, isSubkey bool) (*SecretKeyPacket, error) {
	pub, err := parsePublicKey(r, isSubkey)
	if err != nil {
		return nil, err
	}
	sk := &SecretKeyPacket{PublicKey: pub}

	var usageByte [1]byte
	if _, err := io.ReadFull(r, usageByte[:]); err != nil {
		return nil, err
	}
	sk.s2kUsage = usageByte[0]

	switch sk.s2kUsage {
	case s2kUsageUnprotected:
		params, err := newSecretKeyParams(pub.PubKeyAlgo)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		tee := io.TeeReader(r, &buf)
		if err := params.parse(tee); err != nil {
			return nil, err
		}
		var checksum [2]byte
		if _, err := io.ReadFull(r, checksum[:]); err != nil {
			return nil, err
		}
		if computeChecksum(buf.Bytes()) != (uint16(checksum[0])<<8 | uint16(checksum[1])) {
			return nil, errors.ChecksumError{}
		}
		sk.private = params
		sk.decrypted = true
		return sk, nil

	case s2kUsageAEAD:
		var head [2]byte // cipher, aead mode
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return nil, err
		}
		sk.cipher = symmetric.CipherFunction(head[0])
		sk.aeadMode = symmetric.AEADMode(head[1])
		s2kp, _, err := s2k.Read(r)
		if err != nil {
			return nil, err
		}
		sk.s2kParam = s2kp
		if s2kp.IsDummy() {
			sk.isDummy = true
			return sk, nil
		}
		nonceLen, err := sk.aeadMode.NonceLength()
		if err != nil {
			return nil, err
		}
		nonce := make([]byte, nonceLen)
		if _, err := io.ReadFull(r, nonce); err != nil {
			return nil, err
		}
		sk.iv = nonce
		rest, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		sk.protected = rest
		return sk, nil

	case s2kUsageCFBWithSHA1, s2kUsageCFBWithChecksum:
		var cipherByte [1]byte
		if _, err := io.ReadFull(r, cipherByte[:]); err != nil {
			return nil, err
		}
		sk.cipher = symmetric.CipherFunction(cipherByte[0])
		s2kp, _, err := s2k.Read(r)
		if err != nil {
			return nil, err
		}
		sk.s2kParam = s2kp
		if s2kp.IsDummy() {
			sk.isDummy = true
			return sk, nil
		}
		return sk, readCFBBody(r, sk)

	default:
		// Legacy direct-cipher form: the s2kUsage octet itself is the
		// symmetric algorithm, and the key is derived with an implicit,
		// unsalted Simple S2K over MD5 — recognized so old keys still
		// parse, and rejected by Decrypt as InsecureS2KError.
		sk.cipher = symmetric.CipherFunction(sk.s2kUsage)
		sk.s2kParam = s2k.NewSimple(uint8(symmetric.HashMD5))
		return sk, readCFBBody(r, sk)
	}
}

func readCFBBody(r io.Reader, sk *SecretKeyPacket) error {
	blockSize, err := sk.cipher.BlockSize()
	if err != nil {
		return err
	}
	iv := make([]byte, blockSize)
	if _, err := io.ReadFull(r, iv); err != nil {
		return err
	}
	sk.iv = iv
	rest, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	sk.protected = rest
	return nil
}

func newSecretKeyParams(algo PublicKeyAlgorithm) (secretKeyParams, error) {
	switch algo {
	case PubKeyAlgoRSA, PubKeyAlgoRSAEncryptOnly, PubKeyAlgoRSASignOnly:
		return &rsaSecretKey{}, nil
	case PubKeyAlgoDSA:
		return &dsaSecretKey{}, nil
	case PubKeyAlgoElGamal:
		return &elgamalSecretKey{}, nil
	case PubKeyAlgoECDSA:
		return &ecdsaSecretKey{}, nil
	default:
		return nil, errors.UnknownEnumError("public key algorithm")
	}
}

func computeChecksum(material []byte) uint16 {
	var sum uint16
	for _, b := range material {
		sum += uint16(b)
	}
	return sum
}

// PacketTag implements Packet.
func (sk *SecretKeyPacket) PacketTag() Tag {
	if sk.PublicKey.IsSubkey {
		return TagSecretSubkey
	}
	return TagSecretKey
}

// IsDecrypted reports whether the secret material is currently available
// in the clear.
func (sk *SecretKeyPacket) IsDecrypted() bool { return sk.decrypted }

// IsDummy reports whether this packet is a gnu-dummy stub with no secret
// material at all.
func (sk *SecretKeyPacket) IsDummy() bool { return sk.isDummy }

// Decrypt recovers the secret parameters using passphrase, verifying
// either the AEAD tag or the SHA-1/checksum integrity field depending on
// how the key is protected.
func (sk *SecretKeyPacket) Decrypt(passphrase []byte) error {
	if sk.decrypted {
		return errors.InvalidArgumentError("secret key is already decrypted")
	}
	if sk.isDummy {
		return errors.InvalidArgumentError("dummy secret key has no material to decrypt")
	}
	if sk.s2kUsage == s2kUsageCFBWithChecksum {
		return errors.InsecureS2KError("s2k usage 255")
	}
	if !symmetric.HashAlgorithm(sk.s2kParam.HashAlgo()).Secure() {
		return errors.InsecureS2KError("unsalted md5 string-to-key")
	}

	keySize, err := sk.cipher.KeySize()
	if err != nil {
		return err
	}
	sessionKey, err := sk.s2kParam.ProduceKey(passphrase, keySize, s2kHashFunc)
	if err != nil {
		return err
	}

	var plaintext []byte
	switch sk.s2kUsage {
	case s2kUsageAEAD:
		plaintext, err = sk.decryptAEAD(sessionKey)
	default:
		plaintext, err = sk.decryptCFB(sessionKey)
	}
	if err != nil {
		return err
	}

	params, err := newSecretKeyParams(sk.PublicKey.PubKeyAlgo)
	if err != nil {
		return err
	}
	if err := params.parse(bytes.NewReader(plaintext)); err != nil {
		return errors.IncorrectPassphraseError{}
	}
	sk.private = params
	sk.decrypted = true
	sk.s2kUsage = s2kUsageUnprotected
	sk.protected = nil
	sk.iv = nil
	return nil
}

func (sk *SecretKeyPacket) decryptAEAD(sessionKey []byte) ([]byte, error) {
	aead, err := symmetric.New(sk.cipher, sk.aeadMode, sessionKey)
	if err != nil {
		return nil, err
	}
	adata, err := sk.associatedData()
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(sk.protected, sk.iv, adata)
	if err != nil {
		return nil, errors.IncorrectPassphraseError{}
	}
	return plaintext, nil
}

func (sk *SecretKeyPacket) decryptCFB(sessionKey []byte) ([]byte, error) {
	block, err := sk.cipher.New(sessionKey)
	if err != nil {
		return nil, err
	}
	stream := cipher.NewCFBDecrypter(block, sk.iv)
	plaintext := make([]byte, len(sk.protected))
	stream.XORKeyStream(plaintext, sk.protected)

	if sk.s2kUsage == s2kUsageCFBWithSHA1 {
		if len(plaintext) < sha1.Size {
			return nil, errors.StructuralError("protected secret key shorter than its integrity digest")
		}
		material, digest := plaintext[:len(plaintext)-sha1.Size], plaintext[len(plaintext)-sha1.Size:]
		sum := sha1.Sum(material)
		if !bytes.Equal(sum[:], digest) {
			return nil, errors.IncorrectPassphraseError{}
		}
		return material, nil
	}

	// Legacy direct-cipher form: trailing two-octet checksum, not a hash.
	if len(plaintext) < 2 {
		return nil, errors.StructuralError("protected secret key shorter than its checksum")
	}
	material, checksum := plaintext[:len(plaintext)-2], plaintext[len(plaintext)-2:]
	want := uint16(checksum[0])<<8 | uint16(checksum[1])
	if computeChecksum(material) != want {
		return nil, errors.IncorrectPassphraseError{}
	}
	return material, nil
}

// associatedData returns the AEAD associated data used to protect this
// secret key's material: the public-key packet's own serialized bytes,
// binding the encryption to the specific key it belongs to (following
// 4880bis's "bind AEAD secret-key protection to the owning public key"
// convention, rather than a bare algorithm-identifier constant).
func (sk *SecretKeyPacket) associatedData() ([]byte, error) {
	var buf bytes.Buffer
	if err := sk.PublicKey.serializeForHash(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encrypt protects the currently-decrypted secret material with
// passphrase, per cfg's AEAD/S2K settings. It leaves the plaintext
// parameters in memory; call ClearPrivateParams afterward to zeroize them.
func (sk *SecretKeyPacket) Encrypt(passphrase []byte, cfg *Config) error {
	if sk.isDummy {
		return errors.InvalidArgumentError("dummy secret key has no material to encrypt")
	}
	if !sk.decrypted {
		return errors.InvalidArgumentError("secret key has no decrypted material to encrypt")
	}
	if len(passphrase) == 0 {
		sk.s2kUsage = s2kUsageUnprotected
		return nil
	}

	var material bytes.Buffer
	if err := sk.private.serialize(&material); err != nil {
		return err
	}

	s2kCfg := cfg.s2kConfig()
	if !s2kCfg.Hash.Secure() {
		return errors.InvalidArgumentError("s2k hash algorithm is not acceptable for new protection")
	}
	salt := [8]byte{}
	if _, err := io.ReadFull(cfg.random(), salt[:]); err != nil {
		return err
	}
	var s2kp *s2k.Params
	switch s2kCfg.S2KMode {
	case s2k.ModeSimple:
		s2kp = s2k.NewSimple(uint8(s2kCfg.Hash))
	case s2k.ModeSalted:
		s2kp = s2k.NewSalted(uint8(s2kCfg.Hash), salt)
	default:
		s2kp = s2k.NewIteratedSalted(uint8(s2kCfg.Hash), salt, s2k.EncodeCount(s2kCfg.S2KCount))
	}

	cf := symmetric.CipherAES256
	keySize, _ := cf.KeySize()
	sessionKey, err := s2kp.ProduceKey(passphrase, keySize, s2kHashFunc)
	if err != nil {
		return err
	}

	sk.cipher = cf
	sk.s2kParam = s2kp

	if aeadCfg := cfg.aeadConfig(); aeadCfg != nil {
		mode := aeadCfg.mode()
		aead, err := symmetric.New(cf, mode, sessionKey)
		if err != nil {
			return err
		}
		nonceLen, _ := mode.NonceLength()
		nonce := make([]byte, nonceLen)
		if _, err := io.ReadFull(cfg.random(), nonce); err != nil {
			return err
		}
		adata, err := sk.associatedData()
		if err != nil {
			return err
		}
		sk.s2kUsage = s2kUsageAEAD
		sk.aeadMode = mode
		sk.iv = nonce
		sk.protected = aead.Seal(material.Bytes(), nonce, adata)
		return nil
	}

	blockSize, _ := cf.BlockSize()
	iv := make([]byte, blockSize)
	if _, err := io.ReadFull(cfg.random(), iv); err != nil {
		return err
	}
	digest := sha1.Sum(material.Bytes())
	plaintext := append(material.Bytes(), digest[:]...)

	block, err := cf.New(sessionKey)
	if err != nil {
		return err
	}
	stream := cipher.NewCFBEncrypter(block, iv)
	ciphertext := make([]byte, len(plaintext))
	stream.XORKeyStream(ciphertext, plaintext)

	sk.s2kUsage = s2kUsageCFBWithSHA1
	sk.iv = iv
	sk.protected = ciphertext
	return nil
}

// ClearPrivateParams zeroizes and drops the decrypted secret parameters,
// without discarding the protected wire-format bytes (so the packet can
// still be serialized).
func (sk *SecretKeyPacket) ClearPrivateParams() {
	if sk.private != nil {
		zeroizeSecretKeyParams(sk.private)
		sk.private = nil
	}
	sk.decrypted = false
}

// MakeDummy replaces this packet's secret material with a gnu-dummy
// stub: the public key survives, but nothing recoverable is stored.
func (sk *SecretKeyPacket) MakeDummy() {
	sk.ClearPrivateParams()
	sk.s2kUsage = s2kUsageCFBWithSHA1
	sk.s2kParam = s2k.NewGnuDummy()
	sk.cipher = 0
	sk.iv = nil
	sk.protected = nil
	sk.isDummy = true
}

// Validate runs the algorithm-specific algebraic consistency check against
// the decrypted secret material (spec.md §4.6's "validate" operation); it
// requires the key to be decrypted first.
func (sk *SecretKeyPacket) Validate() error {
	if !sk.decrypted {
		return errors.InvalidArgumentError("secret key is not decrypted")
	}
	if err := sk.private.validate(sk.PublicKey.PublicKey); err != nil {
		return &errors.ValidationError{Algorithm: sk.PublicKey.PubKeyAlgo.name(), Cause: err}
	}
	return nil
}

// Serialize writes the packet body: the embedded public key followed by
// whichever protection form currently applies.
func (sk *SecretKeyPacket) Serialize(w io.Writer) error {
	if err := sk.PublicKey.serializeForHash(w); err != nil {
		return err
	}
	if _, err := w.Write([]byte{sk.s2kUsage}); err != nil {
		return err
	}

	switch sk.s2kUsage {
	case s2kUsageUnprotected:
		var material bytes.Buffer
		if err := sk.private.serialize(&material); err != nil {
			return err
		}
		if _, err := w.Write(material.Bytes()); err != nil {
			return err
		}
		sum := computeChecksum(material.Bytes())
		_, err := w.Write([]byte{byte(sum >> 8), byte(sum)})
		return err
	case s2kUsageAEAD:
		if _, err := w.Write([]byte{byte(sk.cipher), byte(sk.aeadMode)}); err != nil {
			return err
		}
		if err := sk.s2kParam.Write(w); err != nil {
			return err
		}
		if sk.isDummy {
			return nil
		}
		if _, err := w.Write(sk.iv); err != nil {
			return err
		}
		_, err := w.Write(sk.protected)
		return err
	default: // s2kUsageCFBWithSHA1, s2kUsageCFBWithChecksum, or a legacy direct-cipher byte
		// In the legacy form the usage byte itself carries the cipher and
		// the S2K is implicit, so neither is written.
		if sk.s2kUsage == s2kUsageCFBWithSHA1 || sk.s2kUsage == s2kUsageCFBWithChecksum {
			if _, err := w.Write([]byte{byte(sk.cipher)}); err != nil {
				return err
			}
			if err := sk.s2kParam.Write(w); err != nil {
				return err
			}
		}
		if sk.isDummy {
			return nil
		}
		if _, err := w.Write(sk.iv); err != nil {
			return err
		}
		_, err := w.Write(sk.protected)
		return err
	}
}

// s2kHashFunc adapts symmetric's hash-algorithm table to the shape
// s2k.Params.ProduceKey expects, so s2k need not import symmetric (which
// has no reason to know about string-to-key at all).
func s2kHashFunc(algo uint8) (func() hash.Hash, int, bool) {
	size, err := symmetric.HashAlgorithm(algo).Size()
	if err != nil {
		return nil, 0, false
	}
	return func() hash.Hash {
		h, _ := symmetric.HashAlgorithm(algo).New()
		return h
	}, size, true
}

// --- RSA secret ---

type rsaSecretKey struct {
	d, p, q, u *encoding.MPI
}

func (k *rsaSecretKey) parse(r io.Reader) error {
	for _, f := range []**encoding.MPI{&k.d, &k.p, &k.q, &k.u} {
		*f = new(encoding.MPI)
		if _, err := (*f).ReadFrom(r); err != nil {
			return err
		}
	}
	return nil
}

func (k *rsaSecretKey) serialize(w io.Writer) error {
	for _, f := range []*encoding.MPI{k.d, k.p, k.q, k.u} {
		if _, err := w.Write(f.EncodedBytes()); err != nil {
			return err
		}
	}
	return nil
}

func (k *rsaSecretKey) validate(pub publicKeyParams) error {
	rsaPub, ok := pub.(*rsaPublicKey)
	if !ok {
		return errors.InvalidArgumentError("rsa secret key bound to non-rsa public key")
	}
	p := new(big.Int).SetBytes(k.p.Bytes())
	q := new(big.Int).SetBytes(k.q.Bytes())
	n := new(big.Int).SetBytes(rsaPub.n.Bytes())
	if p.Cmp(bigOne) <= 0 || q.Cmp(bigOne) <= 0 {
		return errors.KeyInvalidError("rsa prime factor is not greater than one")
	}
	if new(big.Int).Mul(p, q).Cmp(n) != 0 {
		return errors.KeyInvalidError("rsa modulus does not equal p*q")
	}
	d := new(big.Int).SetBytes(k.d.Bytes())
	e := new(big.Int).SetBytes(rsaPub.e.Bytes())
	pMinus1 := new(big.Int).Sub(p, bigOne)
	qMinus1 := new(big.Int).Sub(q, bigOne)
	lambda := new(big.Int).Mul(pMinus1, qMinus1)
	if new(big.Int).Mod(new(big.Int).Mul(d, e), lambda).Cmp(bigOne) != 0 {
		return errors.KeyInvalidError("rsa private exponent is inconsistent with public exponent")
	}
	return nil
}

func zeroizeRSA(k *rsaSecretKey) {
	zeroizeMPI(k.d)
	zeroizeMPI(k.p)
	zeroizeMPI(k.q)
	zeroizeMPI(k.u)
}

// NewRSASecretKey builds a SecretKeyPacket around an already-generated RSA
// private key, unprotected.
func NewRSASecretKey(pub *PublicKeyPacket, d, p, q, u *big.Int) *SecretKeyPacket {
	return &SecretKeyPacket{
		PublicKey: pub,
		s2kUsage:  s2kUsageUnprotected,
		private: &rsaSecretKey{
			d: new(encoding.MPI).SetBig(d), p: new(encoding.MPI).SetBig(p),
			q: new(encoding.MPI).SetBig(q), u: new(encoding.MPI).SetBig(u),
		},
		decrypted: true,
	}
}

// --- DSA secret ---

type dsaSecretKey struct {
	x *encoding.MPI
}

func (k *dsaSecretKey) parse(r io.Reader) error {
	k.x = new(encoding.MPI)
	_, err := k.x.ReadFrom(r)
	return err
}

func (k *dsaSecretKey) serialize(w io.Writer) error {
	_, err := w.Write(k.x.EncodedBytes())
	return err
}

func (k *dsaSecretKey) validate(pub publicKeyParams) error {
	dsaPub, ok := pub.(*dsaPublicKey)
	if !ok {
		return errors.InvalidArgumentError("dsa secret key bound to non-dsa public key")
	}
	return validateDSAParameters(dsaPub, new(big.Int).SetBytes(k.x.Bytes()))
}

// validateDSAParameters checks that g generates a subgroup of order q
// modulo p and that y = g^x mod p, guarding the degenerate p<=1/q<=1
// inputs that would otherwise panic inside big.Int's modular arithmetic
// (a key with p or q equal to 1 must be rejected, not crash the parser).
func validateDSAParameters(pub *dsaPublicKey, x *big.Int) error {
	p := new(big.Int).SetBytes(pub.p.Bytes())
	q := new(big.Int).SetBytes(pub.q.Bytes())
	g := new(big.Int).SetBytes(pub.g.Bytes())
	y := new(big.Int).SetBytes(pub.y.Bytes())
	if p.Cmp(bigOne) <= 0 || q.Cmp(bigOne) <= 0 {
		return errors.KeyInvalidError("dsa modulus or subgroup order is not greater than one")
	}
	if g.Cmp(bigOne) <= 0 {
		return errors.KeyInvalidError("dsa generator g is not greater than one")
	}
	if new(big.Int).Exp(g, q, p).Cmp(bigOne) != 0 {
		return errors.KeyInvalidError("dsa generator does not have the claimed order")
	}
	if x != nil {
		if new(big.Int).Exp(g, x, p).Cmp(y) != 0 {
			return errors.KeyInvalidError("dsa public value is inconsistent with the secret exponent")
		}
	}
	return nil
}

func zeroizeDSA(k *dsaSecretKey) { zeroizeMPI(k.x) }

// --- ElGamal secret ---

type elgamalSecretKey struct {
	x *encoding.MPI
}

func (k *elgamalSecretKey) parse(r io.Reader) error {
	k.x = new(encoding.MPI)
	_, err := k.x.ReadFrom(r)
	return err
}

func (k *elgamalSecretKey) serialize(w io.Writer) error {
	_, err := w.Write(k.x.EncodedBytes())
	return err
}

func (k *elgamalSecretKey) validate(pub publicKeyParams) error {
	egPub, ok := pub.(*elgamalPublicKey)
	if !ok {
		return errors.InvalidArgumentError("elgamal secret key bound to non-elgamal public key")
	}
	return validateElGamalParameters(egPub, new(big.Int).SetBytes(k.x.Bytes()))
}

// validateElGamalParameters rejects a generator of order 1 or 2 (which
// would make every ciphertext trivially distinguishable or invertible)
// and checks y = g^x mod p.
func validateElGamalParameters(pub *elgamalPublicKey, x *big.Int) error {
	p := new(big.Int).SetBytes(pub.p.Bytes())
	g := new(big.Int).SetBytes(pub.g.Bytes())
	y := new(big.Int).SetBytes(pub.y.Bytes())
	if p.Cmp(bigOne) <= 0 {
		return errors.KeyInvalidError("elgamal modulus is not greater than one")
	}
	if g.Cmp(bigOne) <= 0 || g.Cmp(new(big.Int).Sub(p, bigOne)) >= 0 {
		return errors.KeyInvalidError("elgamal generator g is out of range")
	}
	if new(big.Int).Exp(g, big.NewInt(2), p).Cmp(bigOne) == 0 {
		return errors.KeyInvalidError("elgamal generator has order dividing two")
	}
	if x != nil {
		if new(big.Int).Exp(g, x, p).Cmp(y) != 0 {
			return errors.KeyInvalidError("elgamal public value is inconsistent with the secret exponent")
		}
	}
	return nil
}

func zeroizeElGamal(k *elgamalSecretKey) { zeroizeMPI(k.x) }

// --- ECDSA secret ---

type ecdsaSecretKey struct {
	d *encoding.MPI
}

func (k *ecdsaSecretKey) parse(r io.Reader) error {
	k.d = new(encoding.MPI)
	_, err := k.d.ReadFrom(r)
	return err
}

func (k *ecdsaSecretKey) serialize(w io.Writer) error {
	_, err := w.Write(k.d.EncodedBytes())
	return err
}

func (k *ecdsaSecretKey) validate(pub publicKeyParams) error {
	ecPub, ok := pub.(*ecdsaPublicKey)
	if !ok {
		return errors.InvalidArgumentError("ecdsa secret key bound to non-ecdsa public key")
	}
	n := ecPub.curve.StdlibCurve().Params().N
	d := new(big.Int).SetBytes(k.d.Bytes())
	if d.Sign() <= 0 || d.Cmp(n) >= 0 {
		return errors.KeyInvalidError("ecdsa secret scalar is out of range")
	}
	x, y := ecPub.curve.StdlibCurve().ScalarBaseMult(d.Bytes())
	if x.Cmp(ecPub.x) != 0 || y.Cmp(ecPub.y) != 0 {
		return errors.KeyInvalidError("ecdsa public point is inconsistent with the secret scalar")
	}
	return nil
}

func zeroizeECDSA(k *ecdsaSecretKey) { zeroizeMPI(k.d) }

func zeroizeSecretKeyParams(params secretKeyParams) {
	switch k := params.(type) {
	case *rsaSecretKey:
		zeroizeRSA(k)
	case *dsaSecretKey:
		zeroizeDSA(k)
	case *elgamalSecretKey:
		zeroizeElGamal(k)
	case *ecdsaSecretKey:
		zeroizeECDSA(k)
	}
}

func zeroizeMPI(m *encoding.MPI) {
	if m == nil {
		return
	}
	b := m.Bytes()
	for i := range b {
		b[i] = 0
	}
}
