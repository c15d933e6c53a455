package utils

import (
	"crypto/sha256"
	"fmt"
)

// GetContentHash fingerprints a fetched feed body so an unchanged feed can
// skip the database rewrite.
func GetContentHash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
