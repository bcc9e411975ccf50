package speaker

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrInvalidIdentity indicates a triple whose normalized name is empty.
// Appearances without a name must never be registered as speakers.
var ErrInvalidIdentity = errors.New("speaker: normalized name is empty")

// keySeparator joins the triple fields before hashing. The base normalization
// pipeline can never emit a 0x1F byte, so the join is unambiguous.
const keySeparator = "\x1f"

// ID computes the canonical speaker key for a normalized triple. The key is
// content-addressed: identical triples produce identical IDs across processes.
func ID(nameNorm, fieldNorm, affiliationNorm string) (string, error) {
	if strings.TrimSpace(nameNorm) == "" {
		return "", ErrInvalidIdentity
	}
	sum := sha256.Sum256([]byte(nameNorm + keySeparator + fieldNorm + keySeparator + affiliationNorm))
	return hex.EncodeToString(sum[:]), nil
}
