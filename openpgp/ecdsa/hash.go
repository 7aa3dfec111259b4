package ecdsa

import "crypto/sha256"

func sha256Sum(msg []byte) []byte {
	sum := sha256.Sum256(msg)
	return sum[:]
}
