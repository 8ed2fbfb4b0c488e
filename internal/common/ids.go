package common

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a unique ID with the given prefix + 8 hex chars,
// e.g. NewID("acc") -> "acc_1a2b3c4d".
func NewID(prefix string) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return prefix + "_00000000"
	}
	return prefix + "_" + hex.EncodeToString(b)
}
