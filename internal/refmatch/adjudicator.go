package refmatch

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/josecerv/search-costs-experiment-sub000/internal/logging"
)

// OracleCandidate is one candidate as presented to the oracle.
type OracleCandidate struct {
	SpeakerID   string `json:"id"`
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	Score       int    `json:"score"`
}

// OracleRequest carries one ambiguous-band batch to the oracle.
type OracleRequest struct {
	RefID       string            `json:"ref_id"`
	Name        string            `json:"name"`
	Affiliation string            `json:"affiliation"`
	Field       string            `json:"field"`
	Candidates  []OracleCandidate `json:"candidates"`
}

// OracleMatch is one confirmed match in an oracle response.
type OracleMatch struct {
	SpeakerID  string     `json:"id"`
	Confidence Confidence `json:"confidence"`
	Reasoning  string     `json:"reasoning"`
}

// OracleResponse is the oracle's answer for one batch. Zero, one, or many
// matches are all legal.
type OracleResponse struct {
	MatchFound bool          `json:"match_found"`
	Matches    []OracleMatch `json:"matches"`
}

// Oracle is the external adjudication capability, consumed as a black box.
// Implementations handle their own transport retries; an error returned here
// means retries are exhausted or the response failed schema validation.
type Oracle interface {
	AdjudicateBatch(ctx context.Context, req OracleRequest) (OracleResponse, error)
}

// DecisionCache is the persistent memo store consulted before every oracle
// call. A hit is functionally indistinguishable from a fresh oracle answer.
type DecisionCache interface {
	Get(key string) ([]Decision, bool, error)
	Put(key string, decisions []Decision) error
}

// Adjudicator applies confidence tiers to candidate lists and escalates only
// the ambiguous band.
type Adjudicator struct {
	policy Policy
	oracle Oracle
	cache  DecisionCache
	logger *slog.Logger
	flight singleflight.Group
}

// NewAdjudicator wires an adjudicator with its oracle and decision cache.
// The cache is injected with an explicit lifecycle owned by the caller; the
// adjudicator never constructs or closes it.
func NewAdjudicator(policy Policy, o Oracle, cache DecisionCache, logger *slog.Logger) *Adjudicator {
	return &Adjudicator{
		policy: policy.normalized(),
		oracle: o,
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "adjudicator"),
	}
}

// Adjudicate runs the tier state machine for one reference record against
// its ranked candidate list. Cache errors are systemic and returned to the
// caller; oracle failures are absorbed into an oracle_failed outcome.
func (a *Adjudicator) Adjudicate(ctx context.Context, ref NormalizedReference, candidates []CandidateMatch) (Outcome, error) {
	outcome := Outcome{RefID: ref.RefID, State: StatePending}

	if len(candidates) == 0 {
		outcome.State = StateAutoRejected
		outcome.Decisions = append(outcome.Decisions, Decision{
			RefID:      ref.RefID,
			Confidence: ConfidenceHigh,
			Reasoning:  "no candidates in field registry",
			Source:     SourceAutoLow,
		})
		return outcome, nil
	}

	top := candidates[0]
	outcome.TopScore = top.Score

	switch {
	case top.Score >= a.policy.HighThreshold:
		outcome.State = StateAutoAccepted
		outcome.Decisions = append(outcome.Decisions, Decision{
			RefID:      ref.RefID,
			Matched:    true,
			SpeakerID:  top.Speaker.SpeakerID,
			Confidence: ConfidenceHigh,
			Reasoning:  fmt.Sprintf("top candidate scored %d (%s), at or above auto-accept threshold %d", top.Score, top.MatchType, a.policy.HighThreshold),
			Source:     SourceAutoHigh,
		})
		return outcome, nil
	case top.Score < a.policy.LowThreshold:
		outcome.State = StateAutoRejected
		outcome.Decisions = append(outcome.Decisions, Decision{
			RefID:      ref.RefID,
			Confidence: ConfidenceHigh,
			Reasoning:  fmt.Sprintf("top candidate scored %d, below auto-reject threshold %d", top.Score, a.policy.LowThreshold),
			Source:     SourceAutoLow,
		})
		return outcome, nil
	}

	return a.escalate(ctx, ref, ambiguousBand(candidates, a.policy.LowThreshold), outcome)
}

// ambiguousBand keeps candidates scoring at or above the low threshold.
func ambiguousBand(candidates []CandidateMatch, low int) []CandidateMatch {
	band := make([]CandidateMatch, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Score >= low {
			band = append(band, cand)
		}
	}
	return band
}

// escalate sends the ambiguous band to the oracle in bounded batches,
// consulting the decision cache first. Once a high-confidence oracle match is
// found, remaining batches are skipped to bound cost.
func (a *Adjudicator) escalate(ctx context.Context, ref NormalizedReference, band []CandidateMatch, outcome Outcome) (Outcome, error) {
	outcome.State = StateEscalated

	for start := 0; start < len(band); start += a.policy.BatchSize {
		end := min(start+a.policy.BatchSize, len(band))
		batch := band[start:end]
		key := BatchKey(ref, batch)

		decisions, hit, err := a.cache.Get(key)
		if err != nil {
			return outcome, fmt.Errorf("adjudicate %s: cache read: %w", ref.RefID, err)
		}
		if hit {
			outcome.CacheHits++
		} else {
			decisions, err = a.consultOracle(ctx, ref, batch, key, &outcome)
			if err != nil {
				if ctx.Err() != nil {
					return outcome, ctx.Err()
				}
				a.logger.Warn("oracle adjudication failed",
					logging.String(logging.FieldRefID, ref.RefID),
					logging.Error(err))
				return a.oracleFailed(ref, outcome), nil
			}
		}
		outcome.Decisions = append(outcome.Decisions, decisions...)

		if hasHighConfidenceMatch(decisions) {
			break
		}
	}

	if anyMatched(outcome.Decisions) {
		outcome.State = StateOracleAccepted
	} else {
		outcome.State = StateOracleRejected
	}
	return outcome, nil
}

// consultOracle issues one batch request behind the in-flight guard, so two
// workers asking the same question never trigger concurrent oracle calls.
func (a *Adjudicator) consultOracle(ctx context.Context, ref NormalizedReference, batch []CandidateMatch, key string, outcome *Outcome) ([]Decision, error) {
	type flightResult struct {
		decisions []Decision
		called    bool
	}

	v, err, shared := a.flight.Do(key, func() (any, error) {
		// Another worker may have answered and persisted while this call
		// waited on the flight group.
		if decisions, ok, err := a.cache.Get(key); err != nil {
			return nil, err
		} else if ok {
			return flightResult{decisions: decisions}, nil
		}

		req := OracleRequest{
			RefID:       ref.RefID,
			Name:        ref.NameNorm,
			Affiliation: ref.AffiliationNorm,
			Field:       ref.FieldNorm,
			Candidates:  make([]OracleCandidate, 0, len(batch)),
		}
		for _, cand := range batch {
			req.Candidates = append(req.Candidates, OracleCandidate{
				SpeakerID:   cand.Speaker.SpeakerID,
				Name:        cand.Speaker.NormalizedName,
				Affiliation: cand.Speaker.NormalizedAffiliation,
				Score:       cand.Score,
			})
		}

		resp, err := a.oracle.AdjudicateBatch(ctx, req)
		if err != nil {
			return nil, err
		}
		if err := validateResponse(resp, batch); err != nil {
			return nil, err
		}

		decisions := decisionsFromResponse(ref.RefID, resp)
		if err := a.cache.Put(key, decisions); err != nil {
			return nil, fmt.Errorf("cache write: %w", err)
		}
		return flightResult{decisions: decisions, called: true}, nil
	})
	if err != nil {
		return nil, err
	}

	result := v.(flightResult)
	if result.called && !shared {
		outcome.OracleCalls++
	} else if !result.called {
		outcome.CacheHits++
	}
	return result.decisions, nil
}

// oracleFailed falls back to the best deterministic rule: auto-reject, or
// needs-review when a near-threshold score exists that must not be silently
// discarded.
func (a *Adjudicator) oracleFailed(ref NormalizedReference, outcome Outcome) Outcome {
	outcome.State = StateOracleFailed
	if outcome.TopScore >= a.policy.HighThreshold-a.policy.ReviewMargin {
		outcome.NeedsReview = true
		outcome.Decisions = append(outcome.Decisions, Decision{
			RefID:      ref.RefID,
			Confidence: ConfidenceLow,
			Reasoning:  fmt.Sprintf("oracle unavailable; top score %d is near the accept threshold and needs manual review", outcome.TopScore),
			Source:     SourceOracle,
		})
		return outcome
	}
	outcome.Decisions = append(outcome.Decisions, Decision{
		RefID:      ref.RefID,
		Confidence: ConfidenceLow,
		Reasoning:  "oracle unavailable; fell back to auto-reject",
		Source:     SourceOracle,
	})
	return outcome
}

// validateResponse rejects responses that reference unknown candidates or
// carry unknown confidence labels. A response failing validation is treated
// exactly like an oracle transport failure, never partially trusted.
func validateResponse(resp OracleResponse, batch []CandidateMatch) error {
	if resp.MatchFound && len(resp.Matches) == 0 {
		return fmt.Errorf("oracle response: match_found with empty matches")
	}
	if !resp.MatchFound && len(resp.Matches) > 0 {
		return fmt.Errorf("oracle response: matches present but match_found is false")
	}
	known := make(map[string]struct{}, len(batch))
	for _, cand := range batch {
		known[cand.Speaker.SpeakerID] = struct{}{}
	}
	for _, m := range resp.Matches {
		if _, ok := known[m.SpeakerID]; !ok {
			return fmt.Errorf("oracle response: match id %q not in candidate batch", m.SpeakerID)
		}
		if !ValidConfidence(m.Confidence) {
			return fmt.Errorf("oracle response: invalid confidence %q", m.Confidence)
		}
	}
	return nil
}

// decisionsFromResponse converts an oracle answer into persisted decisions.
// A no-match answer still yields one unmatched decision so the cache records
// the negative result and the question is never re-asked.
func decisionsFromResponse(refID string, resp OracleResponse) []Decision {
	if len(resp.Matches) == 0 {
		return []Decision{{
			RefID:      refID,
			Confidence: ConfidenceMedium,
			Reasoning:  "oracle found no match in candidate batch",
			Source:     SourceOracle,
		}}
	}
	decisions := make([]Decision, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		decisions = append(decisions, Decision{
			RefID:      refID,
			Matched:    true,
			SpeakerID:  m.SpeakerID,
			Confidence: m.Confidence,
			Reasoning:  m.Reasoning,
			Source:     SourceOracle,
		})
	}
	return decisions
}

func hasHighConfidenceMatch(decisions []Decision) bool {
	for _, d := range decisions {
		if d.Matched && d.Confidence == ConfidenceHigh {
			return true
		}
	}
	return false
}

func anyMatched(decisions []Decision) bool {
	for _, d := range decisions {
		if d.Matched {
			return true
		}
	}
	return false
}
