package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText returns a stable hex identifier for text such as a rendered
// prompt, so it can be logged without logging the text itself.
func HashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
