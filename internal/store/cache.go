package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/josecerv/search-costs-experiment-sub000/internal/refmatch"
)

// CacheStats summarizes the persisted oracle decision cache.
type CacheStats struct {
	Entries   int
	TotalHits int
	OldestUse time.Time
	NewestUse time.Time
}

// CacheGet returns the persisted decisions for a batch key, updating usage
// counters on a hit. A corrupted entry is a hard error rather than a miss so
// damage surfaces instead of silently re-spending oracle calls.
func (s *Store) CacheGet(ctx context.Context, key string) ([]refmatch.Decision, bool, error) {
	ctx = ensureContext(ctx)
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT decisions_json FROM cache_entries WHERE batch_key = ?`, key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var decisions []refmatch.Decision
	if err := json.Unmarshal([]byte(payload), &decisions); err != nil {
		return nil, false, fmt.Errorf("cache entry %s is corrupted: %w", key, err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.execWithRetry(ctx,
		`UPDATE cache_entries SET hit_count = hit_count + 1, last_used_at = ? WHERE batch_key = ?`,
		now, key,
	); err != nil {
		return nil, false, fmt.Errorf("cache touch: %w", err)
	}
	return decisions, true, nil
}

// CachePut stores the decisions for a batch key, replacing any prior entry.
// Negative verdicts are stored the same as positive ones.
func (s *Store) CachePut(ctx context.Context, key string, decisions []refmatch.Decision) error {
	ctx = ensureContext(ctx)
	payload, err := json.Marshal(decisions)
	if err != nil {
		return fmt.Errorf("cache put: encode decisions: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.execWithRetry(ctx,
		`INSERT INTO cache_entries (batch_key, decisions_json, created_at, last_used_at, hit_count)
         VALUES (?, ?, ?, ?, 0)
         ON CONFLICT(batch_key) DO UPDATE SET
             decisions_json = excluded.decisions_json,
             last_used_at = excluded.last_used_at`,
		key, string(payload), now, now,
	)
}

// CacheRemove deletes one cache entry, reporting whether it existed.
func (s *Store) CacheRemove(ctx context.Context, key string) (bool, error) {
	ctx = ensureContext(ctx)
	var removed bool
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE batch_key = ?`, key)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		removed = affected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("cache remove: %w", err)
	}
	return removed, nil
}

// CacheClear deletes all cache entries and returns how many were removed.
func (s *Store) CacheClear(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var cleared int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`)
		if err != nil {
			return err
		}
		cleared, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	return cleared, nil
}

// CacheStats aggregates cache usage for diagnostic output.
func (s *Store) CacheStats(ctx context.Context) (CacheStats, error) {
	ctx = ensureContext(ctx)
	var (
		stats  CacheStats
		oldest sql.NullString
		newest sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(hit_count), 0), MIN(last_used_at), MAX(last_used_at) FROM cache_entries`,
	).Scan(&stats.Entries, &stats.TotalHits, &oldest, &newest)
	if err != nil {
		return CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	stats.OldestUse = parseTimeString(oldest.String)
	stats.NewestUse = parseTimeString(newest.String)
	return stats, nil
}
