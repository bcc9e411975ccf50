package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/josecerv/search-costs-experiment-sub000/internal/refmatch"
	"github.com/josecerv/search-costs-experiment-sub000/internal/speaker"
	"github.com/josecerv/search-costs-experiment-sub000/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "match.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := store.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	registry := speaker.NewRegistry()
	when := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	id1, err := registry.Observe(speaker.Observation{
		NameNorm:        "jane doe",
		FieldNorm:       "economics",
		AffiliationNorm: "stanford university",
		DisplayName:     "Jane Doe",
		When:            when,
	})
	if err != nil {
		t.Fatalf("Observe returned error: %v", err)
	}
	if _, err := registry.Observe(speaker.Observation{
		NameNorm:        "jane doe",
		FieldNorm:       "economics",
		AffiliationNorm: "stanford university",
		When:            when.AddDate(0, 1, 0),
	}); err != nil {
		t.Fatalf("Observe returned error: %v", err)
	}
	id2, err := registry.Observe(speaker.Observation{
		NameNorm:        "john smith",
		FieldNorm:       "chemistry",
		AffiliationNorm: "mit",
		DisplayName:     "John Smith",
		When:            when,
	})
	if err != nil {
		t.Fatalf("Observe returned error: %v", err)
	}

	if err := s.SaveRegistry(ctx, registry); err != nil {
		t.Fatalf("SaveRegistry returned error: %v", err)
	}

	loaded, err := s.LoadRegistry(ctx)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	if loaded.Count() != 2 {
		t.Fatalf("loaded Count = %d, want 2", loaded.Count())
	}
	sp, ok := loaded.Lookup(id1)
	if !ok {
		t.Fatalf("loaded registry missing %s", id1)
	}
	if sp.AppearanceCount != 2 {
		t.Errorf("AppearanceCount = %d, want 2", sp.AppearanceCount)
	}
	if sp.DisplayName != "Jane Doe" {
		t.Errorf("DisplayName = %q", sp.DisplayName)
	}
	if !sp.FirstSeen.Equal(when) {
		t.Errorf("FirstSeen = %v, want %v", sp.FirstSeen, when)
	}
	if _, ok := loaded.Lookup(id2); !ok {
		t.Errorf("loaded registry missing %s", id2)
	}

	counts, err := s.FieldCounts(ctx)
	if err != nil {
		t.Fatalf("FieldCounts returned error: %v", err)
	}
	if counts["economics"] != 1 || counts["chemistry"] != 1 {
		t.Errorf("FieldCounts = %v", counts)
	}
}

func TestRegistryAliasRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	registry := speaker.NewRegistry()
	id1, _ := registry.Observe(speaker.Observation{
		NameNorm: "jane doe", FieldNorm: "economics", AffiliationNorm: "stanford university",
	})
	id2, _ := registry.Observe(speaker.Observation{
		NameNorm: "jane m doe", FieldNorm: "economics", AffiliationNorm: "stanford university",
	})
	registry.Union(id1, id2)

	if err := s.SaveRegistry(ctx, registry); err != nil {
		t.Fatalf("SaveRegistry returned error: %v", err)
	}
	loaded, err := s.LoadRegistry(ctx)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	if loaded.Count() != 1 {
		t.Fatalf("loaded Count = %d, want 1", loaded.Count())
	}
	if got := loaded.Resolve(id2); got != id1 {
		t.Errorf("Resolve(%s) = %s, want %s", id2, got, id1)
	}
}

func TestSaveRegistryIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	registry := speaker.NewRegistry()
	if _, err := registry.Observe(speaker.Observation{
		NameNorm: "jane doe", FieldNorm: "economics", AffiliationNorm: "stanford university",
	}); err != nil {
		t.Fatalf("Observe returned error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.SaveRegistry(ctx, registry); err != nil {
			t.Fatalf("SaveRegistry pass %d returned error: %v", i+1, err)
		}
	}
	count, err := s.SpeakerCount(ctx)
	if err != nil {
		t.Fatalf("SpeakerCount returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("SpeakerCount = %d, want 1", count)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	decisions := []refmatch.Decision{{
		RefID:      "ref-1",
		Matched:    true,
		SpeakerID:  "speaker-1",
		Confidence: refmatch.ConfidenceHigh,
		Reasoning:  "same person",
		Source:     refmatch.SourceOracle,
	}}

	if _, ok, err := s.CacheGet(ctx, "key-1"); err != nil || ok {
		t.Fatalf("CacheGet on empty cache = (%v, %v)", ok, err)
	}
	if err := s.CachePut(ctx, "key-1", decisions); err != nil {
		t.Fatalf("CachePut returned error: %v", err)
	}

	got, ok, err := s.CacheGet(ctx, "key-1")
	if err != nil {
		t.Fatalf("CacheGet returned error: %v", err)
	}
	if !ok || len(got) != 1 {
		t.Fatalf("CacheGet = (%v, %d decisions)", ok, len(got))
	}
	if got[0] != decisions[0] {
		t.Errorf("cached decision = %+v, want %+v", got[0], decisions[0])
	}

	stats, err := s.CacheStats(ctx)
	if err != nil {
		t.Fatalf("CacheStats returned error: %v", err)
	}
	if stats.Entries != 1 || stats.TotalHits != 1 {
		t.Errorf("CacheStats = %+v", stats)
	}
}

func TestCacheStoresNegativeVerdicts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	negative := []refmatch.Decision{{
		RefID:      "ref-1",
		Matched:    false,
		Confidence: refmatch.ConfidenceHigh,
		Reasoning:  "no candidate is the same person",
		Source:     refmatch.SourceOracle,
	}}
	if err := s.CachePut(ctx, "key-neg", negative); err != nil {
		t.Fatalf("CachePut returned error: %v", err)
	}
	got, ok, err := s.CacheGet(ctx, "key-neg")
	if err != nil || !ok {
		t.Fatalf("CacheGet = (%v, %v)", ok, err)
	}
	if got[0].Matched {
		t.Error("negative verdict came back matched")
	}
}

func TestCacheRemoveAndClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := s.CachePut(ctx, key, []refmatch.Decision{{RefID: key}}); err != nil {
			t.Fatalf("CachePut(%s) returned error: %v", key, err)
		}
	}

	removed, err := s.CacheRemove(ctx, "b")
	if err != nil {
		t.Fatalf("CacheRemove returned error: %v", err)
	}
	if !removed {
		t.Error("CacheRemove(b) = false, want true")
	}
	removed, err = s.CacheRemove(ctx, "missing")
	if err != nil {
		t.Fatalf("CacheRemove returned error: %v", err)
	}
	if removed {
		t.Error("CacheRemove(missing) = true, want false")
	}

	cleared, err := s.CacheClear(ctx)
	if err != nil {
		t.Fatalf("CacheClear returned error: %v", err)
	}
	if cleared != 2 {
		t.Errorf("CacheClear = %d, want 2", cleared)
	}
}

func TestOutcomePersistence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	outcome := refmatch.Outcome{
		RefID:       "ref-1",
		State:       refmatch.StateOracleAccepted,
		NeedsReview: false,
		TopScore:    78,
		CacheHits:   1,
		OracleCalls: 1,
		Decisions: []refmatch.Decision{{
			RefID:      "ref-1",
			Matched:    true,
			SpeakerID:  "speaker-1",
			Confidence: refmatch.ConfidenceHigh,
			Source:     refmatch.SourceOracle,
		}},
	}
	review := refmatch.Outcome{
		RefID:       "ref-2",
		State:       refmatch.StateOracleFailed,
		NeedsReview: true,
		TopScore:    83,
		Decisions: []refmatch.Decision{{
			RefID:      "ref-2",
			Matched:    false,
			Confidence: refmatch.ConfidenceLow,
			Source:     refmatch.SourceAutoLow,
		}},
	}

	for _, o := range []refmatch.Outcome{outcome, review} {
		if err := s.SaveOutcome(ctx, "run-1", o); err != nil {
			t.Fatalf("SaveOutcome(%s) returned error: %v", o.RefID, err)
		}
	}

	outcomes, err := s.OutcomesByRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("OutcomesByRun returned error: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("OutcomesByRun returned %d outcomes, want 2", len(outcomes))
	}
	if outcomes[0].State != refmatch.StateOracleAccepted || outcomes[0].TopScore != 78 {
		t.Errorf("first outcome = %+v", outcomes[0])
	}
	if len(outcomes[0].Decisions) != 1 || outcomes[0].Decisions[0].SpeakerID != "speaker-1" {
		t.Errorf("first outcome decisions = %+v", outcomes[0].Decisions)
	}

	flagged, err := s.NeedsReview(ctx)
	if err != nil {
		t.Fatalf("NeedsReview returned error: %v", err)
	}
	if len(flagged) != 1 || flagged[0].RefID != "ref-2" {
		t.Fatalf("NeedsReview = %+v", flagged)
	}

	counts, err := s.StateCounts(ctx, "run-1")
	if err != nil {
		t.Fatalf("StateCounts returned error: %v", err)
	}
	if counts[refmatch.StateOracleAccepted] != 1 || counts[refmatch.StateOracleFailed] != 1 {
		t.Errorf("StateCounts = %v", counts)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "match.db")
	ctx := context.Background()

	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.CachePut(ctx, "key-1", []refmatch.Decision{{RefID: "ref-1"}}); err != nil {
		t.Fatalf("CachePut returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := store.Open(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()
	if _, ok, err := reopened.CacheGet(ctx, "key-1"); err != nil || !ok {
		t.Fatalf("CacheGet after reopen = (%v, %v)", ok, err)
	}
}
