package ecc

import "github.com/vaultkeys/pgpcore/openpgp/errors"

var errBadPoint = errors.StructuralError("invalid elliptic curve point encoding")
