package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/josecerv/search-costs-experiment-sub000/internal/config"
	"github.com/josecerv/search-costs-experiment-sub000/internal/dedup"
	"github.com/josecerv/search-costs-experiment-sub000/internal/ingest"
	"github.com/josecerv/search-costs-experiment-sub000/internal/logging"
	"github.com/josecerv/search-costs-experiment-sub000/internal/matchcache"
	"github.com/josecerv/search-costs-experiment-sub000/internal/refmatch"
	"github.com/josecerv/search-costs-experiment-sub000/internal/speaker"
	"github.com/josecerv/search-costs-experiment-sub000/internal/store"
)

// ErrLocked is returned when another invocation holds the run lock.
var ErrLocked = errors.New("another speakerlink run is in progress")

// Runner coordinates registry builds and reference matching runs.
type Runner struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// New constructs a runner over an open store.
func New(cfg *config.Config, s *store.Store, logger *slog.Logger) (*Runner, error) {
	if cfg == nil || s == nil {
		return nil, errors.New("runner requires config and store")
	}
	return &Runner{
		cfg:    cfg,
		store:  s,
		logger: logging.NewComponentLogger(logger, "runner"),
	}, nil
}

// BuildSummary reports what a registry build did.
type BuildSummary struct {
	RunID             string
	RowsIngested      int
	SlotsFilled       int
	SlotOverflow      int
	UnmatchedRows     int
	Appearances       int
	DuplicatesRemoved int
	DroppedEmpty      int
	SpeakersTotal     int
	FieldCounts       map[string]int
}

// BuildRegistry merges supplementary rows into primary rows, flattens and
// normalizes the appearances, collapses same-day duplicates, and folds the
// survivors into the persisted speaker registry.
func (r *Runner) BuildRegistry(ctx context.Context, primary, supplements []ingest.Row) (BuildSummary, error) {
	unlock, err := r.acquireLock()
	if err != nil {
		return BuildSummary{}, err
	}
	defer unlock()

	summary := BuildSummary{RunID: uuid.NewString()}
	log := r.logger.With(logging.String(logging.FieldRunID, summary.RunID))

	merged, mergeReport := dedup.MergeSlots(primary, supplements)
	summary.RowsIngested = len(merged)
	summary.SlotsFilled = mergeReport.SlotsFilled
	summary.SlotOverflow = mergeReport.Overflow
	summary.UnmatchedRows = mergeReport.Unmatched

	records := ingest.Flatten(merged)
	normalized := ingest.Normalize(records)
	collapsed := dedup.Collapse(normalized)
	summary.Appearances = len(collapsed.Survivors)
	summary.DuplicatesRemoved = collapsed.Removed
	summary.DroppedEmpty = collapsed.DroppedEmpty

	registry, err := r.store.LoadRegistry(ctx)
	if err != nil {
		return summary, fmt.Errorf("load registry: %w", err)
	}

	for _, rec := range collapsed.Survivors {
		obs := speakerObservation(rec)
		if _, err := registry.Observe(obs); err != nil {
			return summary, fmt.Errorf("observe appearance (seminar %s slot %d): %w", rec.SeminarID, rec.SlotIndex, err)
		}
	}

	if err := r.store.SaveRegistry(ctx, registry); err != nil {
		return summary, fmt.Errorf("save registry: %w", err)
	}

	summary.SpeakersTotal = registry.Count()
	summary.FieldCounts = registry.FieldCounts()

	log.Info("registry build complete",
		logging.Int("rows", summary.RowsIngested),
		logging.Int("appearances", summary.Appearances),
		logging.Int("duplicates_removed", summary.DuplicatesRemoved),
		logging.Int("dropped_empty", summary.DroppedEmpty),
		logging.Int("speakers", summary.SpeakersTotal))
	return summary, nil
}

// MatchSummary aggregates a matching run across all reference records.
type MatchSummary struct {
	RunID           string
	Total           int
	InvalidIdentity int
	AutoAccepted    int
	AutoRejected    int
	OracleAccepted  int
	OracleRejected  int
	OracleFailed    int
	NeedsReview     int
	CacheHits       int
	OracleCalls     int
}

// MatchReferences adjudicates every reference record against the persisted
// registry, running up to the configured concurrency in parallel. Outcomes
// are persisted under a fresh run ID in input order.
func (r *Runner) MatchReferences(ctx context.Context, refs []refmatch.ReferenceRecord, o refmatch.Oracle) (MatchSummary, error) {
	if o == nil {
		return MatchSummary{}, errors.New("match run requires an oracle")
	}

	unlock, err := r.acquireLock()
	if err != nil {
		return MatchSummary{}, err
	}
	defer unlock()

	summary := MatchSummary{RunID: uuid.NewString(), Total: len(refs)}
	log := r.logger.With(logging.String(logging.FieldRunID, summary.RunID))

	registry, err := r.store.LoadRegistry(ctx)
	if err != nil {
		return summary, fmt.Errorf("load registry: %w", err)
	}

	cache, closeCache, err := r.decisionCache()
	if err != nil {
		return summary, err
	}
	defer closeCache()

	adjudicator := refmatch.NewAdjudicator(r.policy(), o, cache, r.logger)

	outcomes := make([]refmatch.Outcome, len(refs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.cfg.Matching.Concurrency)

	for i, ref := range refs {
		i, ref := i, ref
		group.Go(func() error {
			normalized := refmatch.NormalizeReference(ref)
			if normalized.NameNorm == "" {
				outcomes[i] = refmatch.InvalidIdentityOutcome(ref.RefID)
				return nil
			}
			candidates := refmatch.Candidates(normalized, registry, r.policy())
			outcome, err := adjudicator.Adjudicate(groupCtx, normalized, candidates)
			if err != nil {
				return fmt.Errorf("adjudicate %s: %w", ref.RefID, err)
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return summary, err
	}

	for _, outcome := range outcomes {
		if err := r.store.SaveOutcome(ctx, summary.RunID, outcome); err != nil {
			return summary, fmt.Errorf("persist outcome %s: %w", outcome.RefID, err)
		}
		summary.tally(outcome)
	}

	log.Info("match run complete",
		logging.Int("total", summary.Total),
		logging.Int("auto_accepted", summary.AutoAccepted),
		logging.Int("auto_rejected", summary.AutoRejected),
		logging.Int("oracle_accepted", summary.OracleAccepted),
		logging.Int("oracle_rejected", summary.OracleRejected),
		logging.Int("oracle_failed", summary.OracleFailed),
		logging.Int("needs_review", summary.NeedsReview),
		logging.Int("cache_hits", summary.CacheHits),
		logging.Int("oracle_calls", summary.OracleCalls))
	return summary, nil
}

func (s *MatchSummary) tally(outcome refmatch.Outcome) {
	switch outcome.State {
	case refmatch.StateInvalidIdentity:
		s.InvalidIdentity++
	case refmatch.StateAutoAccepted:
		s.AutoAccepted++
	case refmatch.StateAutoRejected:
		s.AutoRejected++
	case refmatch.StateOracleAccepted:
		s.OracleAccepted++
	case refmatch.StateOracleRejected:
		s.OracleRejected++
	case refmatch.StateOracleFailed:
		s.OracleFailed++
	}
	if outcome.NeedsReview {
		s.NeedsReview++
	}
	s.CacheHits += outcome.CacheHits
	s.OracleCalls += outcome.OracleCalls
}

func (r *Runner) policy() refmatch.Policy {
	m := r.cfg.Matching
	return refmatch.Policy{
		HighThreshold:     m.HighThreshold,
		LowThreshold:      m.LowThreshold,
		ReviewMargin:      m.ReviewMargin,
		CandidateFraction: m.CandidateFraction,
		MinCandidates:     m.MinCandidates,
		BatchSize:         m.BatchSize,
	}
}

func (r *Runner) decisionCache() (refmatch.DecisionCache, func(), error) {
	if !r.cfg.Cache.Enabled {
		return nopCache{}, func() {}, nil
	}
	cache, err := matchcache.New(r.store, r.logger,
		matchcache.WithFlushInterval(flushInterval(r.cfg.Cache.FlushIntervalSeconds)))
	if err != nil {
		return nil, nil, fmt.Errorf("open decision cache: %w", err)
	}
	return cache, func() {
		if err := cache.Close(); err != nil {
			r.logger.Warn("decision cache close failed", logging.Error(err))
		}
	}, nil
}

func (r *Runner) acquireLock() (func(), error) {
	lock := flock.New(r.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			if err := lock.Unlock(); err != nil {
				r.logger.Warn("failed to release run lock", logging.Error(err))
			}
		})
	}, nil
}

func flushInterval(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func speakerObservation(rec ingest.NormalizedAppearance) speaker.Observation {
	obs := speaker.Observation{
		NameNorm:        rec.NameNorm,
		FieldNorm:       rec.FieldNorm,
		AffiliationNorm: rec.AffiliationNorm,
		DisplayName:     strings.TrimSpace(rec.RawName),
	}
	if rec.DayValid {
		obs.When = rec.Day
	}
	return obs
}

// nopCache satisfies the cache contract when caching is disabled: every
// lookup misses and writes vanish.
type nopCache struct{}

func (nopCache) Get(string) ([]refmatch.Decision, bool, error) { return nil, false, nil }
func (nopCache) Put(string, []refmatch.Decision) error         { return nil }
