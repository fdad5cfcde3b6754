package algorithm

import "crypto/sha256"

func hashSHA256(content []byte) []byte {
	sum := sha256.Sum256(content)
	return sum[:]
}
