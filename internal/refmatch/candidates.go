package refmatch

import (
	"math"
	"sort"

	"github.com/josecerv/search-costs-experiment-sub000/internal/speaker"
)

// CandidateMatch pairs a reference record with a same-field canonical
// speaker. Ephemeral: candidate lists are generated fresh per adjudication
// run and never persisted.
type CandidateMatch struct {
	Speaker   speaker.CanonicalSpeaker
	Score     int
	MatchType MatchType
}

// Candidates proposes a ranked, bounded candidate list for a reference
// record, scoped to canonical speakers in the reference's normalized field.
// Field is a hard partition, never a scoring dimension: cross-field speakers
// are not considered at any score. The list length is bounded by the policy's
// fraction of the field registry and sorted by descending score with stable
// ties.
func Candidates(ref NormalizedReference, registry *speaker.Registry, policy Policy) []CandidateMatch {
	policy = policy.normalized()
	if ref.NameNorm == "" {
		return nil
	}

	pool := registry.ByField(ref.FieldNorm)
	if len(pool) == 0 {
		return nil
	}

	scored := make([]CandidateMatch, 0, len(pool))
	for _, sp := range pool {
		score, matchType := scoreNames(ref.NameNorm, sp.NormalizedName)
		if score <= 0 {
			continue
		}
		scored = append(scored, CandidateMatch{
			Speaker:   sp,
			Score:     score,
			MatchType: matchType,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	limit := int(math.Ceil(policy.CandidateFraction * float64(len(pool))))
	if limit < policy.MinCandidates {
		limit = policy.MinCandidates
	}
	if limit > len(scored) {
		limit = len(scored)
	}
	return scored[:limit]
}
