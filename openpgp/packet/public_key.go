package packet

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"math/big"
	"time"

	"github.com/vaultkeys/pgpcore/openpgp/errors"
	"github.com/vaultkeys/pgpcore/openpgp/internal/ecc"
	"github.com/vaultkeys/pgpcore/openpgp/internal/encoding"
)

// PublicKeyPacket is the public portion of an OpenPGP key: a primary key
// (tag 6) or a subkey (tag 14). Both wire tags share this one type; only
// IsSubkey and the packet's own PacketTag differ (spec.md's DATA MODEL,
// PublicKeyPacket entity, component C5).
type PublicKeyPacket struct {
	Version      uint8
	CreationTime time.Time
	PubKeyAlgo   PublicKeyAlgorithm
	PublicKey    publicKeyParams
	IsSubkey     bool

	// fingerprint and keyId are derived, cached, and invalidated together
	// (spec.md §3's invariant that a packet's identity fields are a pure
	// function of its serialized public material): any code path that
	// changes PublicKey or CreationTime after construction must call
	// invalidateIdentity before the packet is used again.
	fingerprint []byte
	keyId       uint64
	haveId      bool
}

// publicKeyParams is the algorithm-specific parameter block; each concrete
// implementation knows how to parse, serialize, and report its own
// algorithm code (spec.md's "PublicKeyParamCodec", component C3).
type publicKeyParams interface {
	Algorithm() PublicKeyAlgorithm
	parse(r io.Reader) error
	serialize(w io.Writer) error
	byteCount() int
}

func init() {
	registerPacketParser(TagPublicKey, func(r io.Reader) (Packet, error) {
		return parsePublicKey(r, false)
	})
	registerPacketParser(TagPublicSubkey, func(r io.Reader) (Packet, error) {
		return parsePublicKey(r, true)
	})
}

func parsePublicKey(r io.Reader, isSubkey bool) (*PublicKeyPacket, error) {
	var verBuf [1]byte
	if _, err := io.ReadFull(r, verBuf[:]); err != nil {
		return nil, err
	}
	version := verBuf[0]
	if version != 4 && version != 5 {
		return nil, errors.UnsupportedError("public key packet version")
	}

	var head [5]byte // 4-byte creation time + 1-byte algorithm
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, err
	}
	creation := time.Unix(int64(binary.BigEndian.Uint32(head[:4])), 0)
	algo := PublicKeyAlgorithm(head[4])
	if err := requireKnownPublicKeyAlgorithm(algo); err != nil {
		return nil, err
	}

	if version == 5 {
		var lenBuf [4]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return nil, err
		}
		// The four-octet material length is read and discarded: the
		// algorithm-specific parse below finds the end of the parameters
		// structurally, and the length is not checked against it.
	}

	params, err := newPublicKeyParams(algo)
	if err != nil {
		return nil, err
	}
	if err := params.parse(r); err != nil {
		return nil, err
	}

	pk := &PublicKeyPacket{
		Version:      version,
		CreationTime: creation,
		PubKeyAlgo:   algo,
		PublicKey:    params,
		IsSubkey:     isSubkey,
	}
	return pk, nil
}

func newPublicKeyParams(algo PublicKeyAlgorithm) (publicKeyParams, error) {
	switch algo {
	case PubKeyAlgoRSA, PubKeyAlgoRSAEncryptOnly, PubKeyAlgoRSASignOnly:
		return &rsaPublicKey{}, nil
	case PubKeyAlgoDSA:
		return &dsaPublicKey{}, nil
	case PubKeyAlgoElGamal:
		return &elgamalPublicKey{}, nil
	case PubKeyAlgoECDSA:
		return &ecdsaPublicKey{}, nil
	case PubKeyAlgoECDH:
		return &ecdhPublicKey{}, nil
	default:
		return nil, errors.UnknownEnumError("public key algorithm")
	}
}

// PacketTag implements Packet; it depends on IsSubkey since the two share
// one Go type but distinct wire tags.
func (pk *PublicKeyPacket) PacketTag() Tag {
	if pk.IsSubkey {
		return TagPublicSubkey
	}
	return TagPublicKey
}

// Serialize writes the full packet body (version, creation time, algorithm,
// algorithm-specific parameters).
func (pk *PublicKeyPacket) Serialize(w io.Writer) error {
	var buf bytes.Buffer
	if err := pk.serializeForHash(&buf); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// serializeForHash writes exactly the bytes that both Serialize and the
// fingerprint computation hash: version, creation time, algorithm, and
// algorithm-specific parameters, with no packet header.
func (pk *PublicKeyPacket) serializeForHash(w io.Writer) error {
	if _, err := w.Write([]byte{pk.Version}); err != nil {
		return err
	}
	var head [5]byte
	binary.BigEndian.PutUint32(head[:4], uint32(pk.CreationTime.Unix()))
	head[4] = byte(pk.PubKeyAlgo)
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	if pk.Version == 5 {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(pk.PublicKey.byteCount()))
		if _, err := w.Write(lenBuf[:]); err != nil {
			return err
		}
	}
	return pk.PublicKey.serialize(w)
}

// serializeSignaturePrefix writes the fixed prefix RFC 4880 §5.2.4 /
// 4880bis §5.5.4 prepend before hashing a public key's bytes into a
// binding or fingerprint digest: 0x99 + a two-octet length for v4 keys,
// 0x95+version as a single combined octet + a four-octet length for v5
// and later.
func (pk *PublicKeyPacket) serializeSignaturePrefix(w io.Writer, length int) error {
	if pk.Version >= 5 {
		_, err := w.Write([]byte{0x95 + pk.Version, byte(length >> 24), byte(length >> 16), byte(length >> 8), byte(length)})
		return err
	}
	_, err := w.Write([]byte{0x99, byte(length >> 8), byte(length)})
	return err
}

// invalidateIdentity clears the cached fingerprint/key ID. Nothing calls it
// automatically; it must be called after PublicKey or CreationTime change.
func (pk *PublicKeyPacket) invalidateIdentity() {
	pk.fingerprint = nil
	pk.keyId = 0
	pk.haveId = false
}

func (pk *PublicKeyPacket) computeIdentity() error {
	var body bytes.Buffer
	if err := pk.serializeForHash(&body); err != nil {
		return err
	}
	var prefixed bytes.Buffer
	if err := pk.serializeSignaturePrefix(&prefixed, body.Len()); err != nil {
		return err
	}
	prefixed.Write(body.Bytes())

	if pk.Version >= 5 {
		sum := sha256.Sum256(prefixed.Bytes())
		pk.fingerprint = sum[:]
		pk.keyId = binary.BigEndian.Uint64(sum[:8])
	} else {
		sum := sha1.Sum(prefixed.Bytes())
		pk.fingerprint = sum[:]
		pk.keyId = binary.BigEndian.Uint64(sum[12:20])
	}
	pk.haveId = true
	return nil
}

// Fingerprint returns the key's fingerprint, computing and caching it on
// first use.
func (pk *PublicKeyPacket) Fingerprint() ([]byte, error) {
	if !pk.haveId {
		if err := pk.computeIdentity(); err != nil {
			return nil, err
		}
	}
	return pk.fingerprint, nil
}

// KeyId returns the key's 64-bit key ID, computing and caching the
// fingerprint on first use if necessary.
func (pk *PublicKeyPacket) KeyId() (uint64, error) {
	if !pk.haveId {
		if err := pk.computeIdentity(); err != nil {
			return 0, err
		}
	}
	return pk.keyId, nil
}

// KeyIdString formats the key ID as 16 uppercase hex digits.
func (pk *PublicKeyPacket) KeyIdString() string {
	id, err := pk.KeyId()
	if err != nil {
		return ""
	}
	const hexDigits = "0123456789ABCDEF"
	buf := make([]byte, 16)
	for i := 0; i < 8; i++ {
		b := byte(id >> uint(56-8*i))
		buf[2*i] = hexDigits[b>>4]
		buf[2*i+1] = hexDigits[b&0xf]
	}
	return string(buf)
}

// KeyIdShortString formats the low 32 bits of the key ID as 8 uppercase
// hex digits, the traditional "short key ID" form.
func (pk *PublicKeyPacket) KeyIdShortString() string {
	s := pk.KeyIdString()
	if len(s) != 16 {
		return s
	}
	return s[8:]
}

// HasSameFingerprintAs reports whether pk and other identify the same key
// material.
func (pk *PublicKeyPacket) HasSameFingerprintAs(other *PublicKeyPacket) bool {
	a, err := pk.Fingerprint()
	if err != nil {
		return false
	}
	b, err := other.Fingerprint()
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// CanSign reports whether this key's algorithm supports signing.
func (pk *PublicKeyPacket) CanSign() bool { return pk.PubKeyAlgo.CanSign() }

// BitLength reports the key's effective size in bits, in the sense each
// algorithm defines it (modulus size for RSA/DSA/ElGamal, curve order size
// for ECDSA/ECDH).
func (pk *PublicKeyPacket) BitLength() (uint16, error) {
	switch k := pk.PublicKey.(type) {
	case *rsaPublicKey:
		return k.n.BitLength(), nil
	case *dsaPublicKey:
		return k.p.BitLength(), nil
	case *elgamalPublicKey:
		return k.p.BitLength(), nil
	case *ecdsaPublicKey:
		return uint16(k.curve.StdlibCurve().Params().BitSize), nil
	case *ecdhPublicKey:
		return uint16(k.curve.StdlibCurve().Params().BitSize), nil
	default:
		return 0, errors.UnknownEnumError("public key algorithm")
	}
}

// --- RSA ---

type rsaPublicKey struct {
	n, e *encoding.MPI
}

func (k *rsaPublicKey) Algorithm() PublicKeyAlgorithm { return PubKeyAlgoRSA }

func (k *rsaPublicKey) parse(r io.Reader) error {
	k.n = new(encoding.MPI)
	if _, err := k.n.ReadFrom(r); err != nil {
		return err
	}
	k.e = new(encoding.MPI)
	if _, err := k.e.ReadFrom(r); err != nil {
		return err
	}
	return nil
}

func (k *rsaPublicKey) serialize(w io.Writer) error {
	if _, err := w.Write(k.n.EncodedBytes()); err != nil {
		return err
	}
	_, err := w.Write(k.e.EncodedBytes())
	return err
}

func (k *rsaPublicKey) byteCount() int { return int(k.n.EncodedLength()) + int(k.e.EncodedLength()) }

// NewRSAPublicKey builds a PublicKeyPacket around an RSA modulus/exponent
// pair, for constructing keys rather than parsing them off the wire.
func NewRSAPublicKey(creationTime time.Time, n, e *big.Int) *PublicKeyPacket {
	return &PublicKeyPacket{
		Version:      4,
		CreationTime: creationTime,
		PubKeyAlgo:   PubKeyAlgoRSA,
		PublicKey:    &rsaPublicKey{n: new(encoding.MPI).SetBig(n), e: new(encoding.MPI).SetBig(e)},
	}
}

// --- DSA ---

type dsaPublicKey struct {
	p, q, g, y *encoding.MPI
}

func (k *dsaPublicKey) Algorithm() PublicKeyAlgorithm { return PubKeyAlgoDSA }

func (k *dsaPublicKey) parse(r io.Reader) error {
	for _, f := range []**encoding.MPI{&k.p, &k.q, &k.g, &k.y} {
		*f = new(encoding.MPI)
		if _, err := (*f).ReadFrom(r); err != nil {
			return err
		}
	}
	return nil
}

func (k *dsaPublicKey) serialize(w io.Writer) error {
	for _, f := range []*encoding.MPI{k.p, k.q, k.g, k.y} {
		if _, err := w.Write(f.EncodedBytes()); err != nil {
			return err
		}
	}
	return nil
}

func (k *dsaPublicKey) byteCount() int {
	return int(k.p.EncodedLength()) + int(k.q.EncodedLength()) + int(k.g.EncodedLength()) + int(k.y.EncodedLength())
}

// NewDSAPublicKey builds a PublicKeyPacket around a DSA parameter set.
func NewDSAPublicKey(creationTime time.Time, p, q, g, y *big.Int) *PublicKeyPacket {
	return &PublicKeyPacket{
		Version:      4,
		CreationTime: creationTime,
		PubKeyAlgo:   PubKeyAlgoDSA,
		PublicKey: &dsaPublicKey{
			p: new(encoding.MPI).SetBig(p), q: new(encoding.MPI).SetBig(q),
			g: new(encoding.MPI).SetBig(g), y: new(encoding.MPI).SetBig(y),
		},
	}
}

// --- ElGamal ---

type elgamalPublicKey struct {
	p, g, y *encoding.MPI
}

func (k *elgamalPublicKey) Algorithm() PublicKeyAlgorithm { return PubKeyAlgoElGamal }

func (k *elgamalPublicKey) parse(r io.Reader) error {
	for _, f := range []**encoding.MPI{&k.p, &k.g, &k.y} {
		*f = new(encoding.MPI)
		if _, err := (*f).ReadFrom(r); err != nil {
			return err
		}
	}
	return nil
}

func (k *elgamalPublicKey) serialize(w io.Writer) error {
	for _, f := range []*encoding.MPI{k.p, k.g, k.y} {
		if _, err := w.Write(f.EncodedBytes()); err != nil {
			return err
		}
	}
	return nil
}

func (k *elgamalPublicKey) byteCount() int {
	return int(k.p.EncodedLength()) + int(k.g.EncodedLength()) + int(k.y.EncodedLength())
}

// NewElGamalPublicKey builds a PublicKeyPacket around an ElGamal
// parameter set.
func NewElGamalPublicKey(creationTime time.Time, p, g, y *big.Int) *PublicKeyPacket {
	return &PublicKeyPacket{
		Version:      4,
		CreationTime: creationTime,
		PubKeyAlgo:   PubKeyAlgoElGamal,
		PublicKey: &elgamalPublicKey{
			p: new(encoding.MPI).SetBig(p), g: new(encoding.MPI).SetBig(g), y: new(encoding.MPI).SetBig(y),
		},
	}
}

// --- ECDSA ---

type ecdsaPublicKey struct {
	curve ecc.ECDSACurve
	x, y  *big.Int
}

func (k *ecdsaPublicKey) Algorithm() PublicKeyAlgorithm { return PubKeyAlgoECDSA }

func (k *ecdsaPublicKey) parse(r io.Reader) error {
	oid := new(encoding.OID)
	if _, err := oid.ReadFrom(r); err != nil {
		return err
	}
	curve := ecc.FindByOid(oid)
	if curve == nil {
		return errors.UnsupportedError("ecdsa curve oid")
	}
	point := new(encoding.MPI)
	if _, err := point.ReadFrom(r); err != nil {
		return err
	}
	x, y, err := curve.UnmarshalPoint(point.Bytes())
	if err != nil {
		return err
	}
	k.curve, k.x, k.y = curve, x, y
	return nil
}

func (k *ecdsaPublicKey) serialize(w io.Writer) error {
	oid := encoding.NewOID(ecc.OidFor(k.curve))
	if _, err := w.Write(oid.EncodedBytes()); err != nil {
		return err
	}
	point := encoding.NewMPI(k.curve.MarshalPoint(k.x, k.y))
	_, err := w.Write(point.EncodedBytes())
	return err
}

func (k *ecdsaPublicKey) byteCount() int {
	oid := encoding.NewOID(ecc.OidFor(k.curve))
	point := encoding.NewMPI(k.curve.MarshalPoint(k.x, k.y))
	return int(oid.EncodedLength()) + int(point.EncodedLength())
}

// NewECDSAPublicKey builds a PublicKeyPacket around an ECDSA point.
func NewECDSAPublicKey(creationTime time.Time, curve ecc.ECDSACurve, x, y *big.Int) *PublicKeyPacket {
	return &PublicKeyPacket{
		Version:      4,
		CreationTime: creationTime,
		PubKeyAlgo:   PubKeyAlgoECDSA,
		PublicKey:    &ecdsaPublicKey{curve: curve, x: x, y: y},
	}
}

// --- ECDH ---

// ecdhPublicKey is structural only: this subsystem parses, serializes, and
// exposes ECDH parameters (RFC 6637 §9's point plus KDF parameters) as a
// sibling of the ECDSA binding, but implements no encryption/decryption
// back-end for it. C4 is ECDSA-only; ECDH here documents the shape a
// complete implementation would need.
type ecdhPublicKey struct {
	curve      ecc.ECDSACurve
	x, y       *big.Int
	kdfHash    uint8
	kdfSymAlgo uint8
}

func (k *ecdhPublicKey) Algorithm() PublicKeyAlgorithm { return PubKeyAlgoECDH }

func (k *ecdhPublicKey) parse(r io.Reader) error {
	oid := new(encoding.OID)
	if _, err := oid.ReadFrom(r); err != nil {
		return err
	}
	curve := ecc.FindByOid(oid)
	if curve == nil {
		return errors.UnsupportedError("ecdh curve oid")
	}
	point := new(encoding.MPI)
	if _, err := point.ReadFrom(r); err != nil {
		return err
	}
	x, y, err := curve.UnmarshalPoint(point.Bytes())
	if err != nil {
		return err
	}
	var kdf [4]byte // length octet (always 3) + reserved + hash algo + sym algo
	if _, err := io.ReadFull(r, kdf[:]); err != nil {
		return err
	}
	if kdf[0] != 3 || kdf[1] != 1 {
		return errors.StructuralError("malformed ecdh kdf parameters")
	}
	k.curve, k.x, k.y = curve, x, y
	k.kdfHash, k.kdfSymAlgo = kdf[2], kdf[3]
	return nil
}

func (k *ecdhPublicKey) serialize(w io.Writer) error {
	oid := encoding.NewOID(ecc.OidFor(k.curve))
	if _, err := w.Write(oid.EncodedBytes()); err != nil {
		return err
	}
	point := encoding.NewMPI(k.curve.MarshalPoint(k.x, k.y))
	if _, err := w.Write(point.EncodedBytes()); err != nil {
		return err
	}
	_, err := w.Write([]byte{3, 1, k.kdfHash, k.kdfSymAlgo})
	return err
}

func (k *ecdhPublicKey) byteCount() int {
	oid := encoding.NewOID(ecc.OidFor(k.curve))
	point := encoding.NewMPI(k.curve.MarshalPoint(k.x, k.y))
	return int(oid.EncodedLength()) + int(point.EncodedLength()) + 4
}
