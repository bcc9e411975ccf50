package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/josecerv/search-costs-experiment-sub000/internal/refmatch"
)

// SaveOutcome persists the adjudication result for one reference under a run.
func (s *Store) SaveOutcome(ctx context.Context, runID string, outcome refmatch.Outcome) error {
	ctx = ensureContext(ctx)
	payload, err := json.Marshal(outcome.Decisions)
	if err != nil {
		return fmt.Errorf("save outcome: encode decisions: %w", err)
	}
	return s.execWithRetry(ctx,
		`INSERT INTO match_outcomes (
            run_id, ref_id, state, needs_review, top_score,
            cache_hits, oracle_calls, decisions_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		outcome.RefID,
		string(outcome.State),
		boolToInt(outcome.NeedsReview),
		outcome.TopScore,
		outcome.CacheHits,
		outcome.OracleCalls,
		string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
}

// OutcomesByRun returns every persisted outcome for a run in insert order.
func (s *Store) OutcomesByRun(ctx context.Context, runID string) ([]refmatch.Outcome, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT ref_id, state, needs_review, top_score, cache_hits, oracle_calls, decisions_json
         FROM match_outcomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []refmatch.Outcome
	for rows.Next() {
		var (
			outcome     refmatch.Outcome
			state       string
			needsReview int
			payload     string
		)
		if err := rows.Scan(
			&outcome.RefID,
			&state,
			&needsReview,
			&outcome.TopScore,
			&outcome.CacheHits,
			&outcome.OracleCalls,
			&payload,
		); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		outcome.State = refmatch.State(state)
		outcome.NeedsReview = needsReview != 0
		if err := json.Unmarshal([]byte(payload), &outcome.Decisions); err != nil {
			return nil, fmt.Errorf("outcome %s has corrupted decisions: %w", outcome.RefID, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

// NeedsReview returns every outcome flagged for manual review, most
// recent run first.
func (s *Store) NeedsReview(ctx context.Context) ([]refmatch.Outcome, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT ref_id, state, needs_review, top_score, cache_hits, oracle_calls, decisions_json
         FROM match_outcomes WHERE needs_review = 1 ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query review outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []refmatch.Outcome
	for rows.Next() {
		var (
			outcome     refmatch.Outcome
			state       string
			needsReview int
			payload     string
		)
		if err := rows.Scan(
			&outcome.RefID,
			&state,
			&needsReview,
			&outcome.TopScore,
			&outcome.CacheHits,
			&outcome.OracleCalls,
			&payload,
		); err != nil {
			return nil, fmt.Errorf("scan review outcome: %w", err)
		}
		outcome.State = refmatch.State(state)
		outcome.NeedsReview = needsReview != 0
		if err := json.Unmarshal([]byte(payload), &outcome.Decisions); err != nil {
			return nil, fmt.Errorf("outcome %s has corrupted decisions: %w", outcome.RefID, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

// StateCounts returns a count of outcomes for a run grouped by state.
func (s *Store) StateCounts(ctx context.Context, runID string) (map[refmatch.State]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT state, COUNT(1) FROM match_outcomes WHERE run_id = ? GROUP BY state`, runID)
	if err != nil {
		return nil, fmt.Errorf("state counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[refmatch.State]int)
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, fmt.Errorf("scan state count: %w", err)
		}
		counts[refmatch.State(state)] = count
	}
	return counts, rows.Err()
}
