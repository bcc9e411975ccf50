package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/josecerv/search-costs-experiment-sub000/internal/speaker"
)

// SaveRegistry upserts every canonical speaker and alias mapping from the
// registry in a single transaction.
func (s *Store) SaveRegistry(ctx context.Context, registry *speaker.Registry) error {
	ctx = ensureContext(ctx)
	speakers := registry.All()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin registry tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		for _, sp := range speakers {
			_, err := tx.ExecContext(
				ctx,
				`INSERT INTO speakers (
                    speaker_id, name_norm, field_norm, affiliation_norm,
                    display_name, appearance_count, first_seen, last_seen, updated_at
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
                ON CONFLICT(speaker_id) DO UPDATE SET
                    display_name = excluded.display_name,
                    appearance_count = excluded.appearance_count,
                    first_seen = excluded.first_seen,
                    last_seen = excluded.last_seen,
                    updated_at = excluded.updated_at`,
				sp.SpeakerID,
				sp.NormalizedName,
				sp.NormalizedField,
				sp.NormalizedAffiliation,
				sp.DisplayName,
				sp.AppearanceCount,
				nullableTimeString(sp.FirstSeen),
				nullableTimeString(sp.LastSeen),
				now,
			)
			if err != nil {
				return fmt.Errorf("upsert speaker %s: %w", sp.SpeakerID, err)
			}
		}

		for alias, canonical := range registry.Aliases() {
			_, err := tx.ExecContext(
				ctx,
				`INSERT INTO speaker_aliases (alias_id, canonical_id) VALUES (?, ?)
                ON CONFLICT(alias_id) DO UPDATE SET canonical_id = excluded.canonical_id`,
				alias,
				canonical,
			)
			if err != nil {
				return fmt.Errorf("upsert alias %s: %w", alias, err)
			}
			// An aliased key must not survive as its own canonical row.
			if _, err := tx.ExecContext(ctx, `DELETE FROM speakers WHERE speaker_id = ?`, alias); err != nil {
				return fmt.Errorf("remove aliased speaker %s: %w", alias, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit registry tx: %w", err)
		}
		return nil
	})
}

// LoadRegistry rebuilds a registry from persisted speakers and aliases.
func (s *Store) LoadRegistry(ctx context.Context) (*speaker.Registry, error) {
	ctx = ensureContext(ctx)
	registry := speaker.NewRegistry()

	rows, err := s.db.QueryContext(ctx,
		`SELECT speaker_id, name_norm, field_norm, affiliation_norm,
                display_name, appearance_count, first_seen, last_seen
         FROM speakers ORDER BY speaker_id`)
	if err != nil {
		return nil, fmt.Errorf("query speakers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sp        speaker.CanonicalSpeaker
			firstSeen sql.NullString
			lastSeen  sql.NullString
		)
		if err := rows.Scan(
			&sp.SpeakerID,
			&sp.NormalizedName,
			&sp.NormalizedField,
			&sp.NormalizedAffiliation,
			&sp.DisplayName,
			&sp.AppearanceCount,
			&firstSeen,
			&lastSeen,
		); err != nil {
			return nil, fmt.Errorf("scan speaker: %w", err)
		}
		sp.FirstSeen = parseTimeString(firstSeen.String)
		sp.LastSeen = parseTimeString(lastSeen.String)
		registry.Restore(sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate speakers: %w", err)
	}

	aliasRows, err := s.db.QueryContext(ctx, `SELECT alias_id, canonical_id FROM speaker_aliases`)
	if err != nil {
		return nil, fmt.Errorf("query aliases: %w", err)
	}
	defer aliasRows.Close()

	for aliasRows.Next() {
		var alias, canonical string
		if err := aliasRows.Scan(&alias, &canonical); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		registry.RestoreAlias(alias, canonical)
	}
	if err := aliasRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aliases: %w", err)
	}
	return registry, nil
}

// SpeakerCount returns the number of persisted canonical speakers.
func (s *Store) SpeakerCount(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM speakers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count speakers: %w", err)
	}
	return count, nil
}

// FieldCounts returns the number of persisted speakers per normalized field.
func (s *Store) FieldCounts(ctx context.Context) (map[string]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT field_norm, COUNT(1) FROM speakers GROUP BY field_norm`)
	if err != nil {
		return nil, fmt.Errorf("field counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var field string
		var count int
		if err := rows.Scan(&field, &count); err != nil {
			return nil, fmt.Errorf("scan field count: %w", err)
		}
		counts[field] = count
	}
	return counts, rows.Err()
}
