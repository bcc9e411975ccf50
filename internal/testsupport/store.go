package testsupport

import (
	"testing"

	"github.com/josecerv/search-costs-experiment-sub000/internal/config"
	"github.com/josecerv/search-costs-experiment-sub000/internal/store"
)

// MustOpenStore opens the match database for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg.DatabasePath())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}
