package refmatch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// BatchKey derives the stable cache key for one adjudication question: the
// reference identity plus the exact ordered candidate batch. A different
// candidate set is a different question, so it hashes to a different key.
func BatchKey(ref NormalizedReference, batch []CandidateMatch) string {
	var b strings.Builder
	b.WriteString(ref.RefID)
	b.WriteByte(0x1f)
	b.WriteString(ref.NameNorm)
	b.WriteByte(0x1f)
	b.WriteString(ref.AffiliationNorm)
	b.WriteByte(0x1f)
	b.WriteString(ref.FieldNorm)
	for _, cand := range batch {
		b.WriteByte(0x1e)
		fmt.Fprintf(&b, "%s\x1f%s\x1f%s\x1f%d",
			cand.Speaker.SpeakerID,
			cand.Speaker.NormalizedName,
			cand.Speaker.NormalizedAffiliation,
			cand.Score,
		)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
