package cas

import (
	"encoding/hex"
	"regexp"

	"github.com/zeebo/blake3"
)

var hashPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

func isValidHash(hash string) bool {
	return hashPattern.MatchString(hash)
}

// Hash computes the BLAKE3-256 hash of data without storing it.
func Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}
