package speaker

import (
	"errors"
	"testing"
	"time"
)

func date(s string) time.Time {
	when, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return when
}

func TestIDDeterministic(t *testing.T) {
	first, err := ID("maria garcia", "chemistry", "ucla")
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	second, err := ID("maria garcia", "chemistry", "ucla")
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if first != second {
		t.Errorf("ID not deterministic: %q vs %q", first, second)
	}
	if len(first) != 64 {
		t.Errorf("ID length = %d, want 64 hex chars", len(first))
	}
}

func TestIDDistinguishesFieldBoundaries(t *testing.T) {
	// The separator must keep ("ab", "c") distinct from ("a", "bc").
	a, err := ID("ab", "c", "x")
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	b, err := ID("a", "bc", "x")
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if a == b {
		t.Error("IDs collide across field boundaries")
	}
}

func TestIDRejectsEmptyName(t *testing.T) {
	if _, err := ID("", "chemistry", "ucla"); !errors.Is(err, ErrInvalidIdentity) {
		t.Errorf("ID(empty name) err = %v, want ErrInvalidIdentity", err)
	}
	if _, err := ID("   ", "chemistry", "ucla"); !errors.Is(err, ErrInvalidIdentity) {
		t.Errorf("ID(blank name) err = %v, want ErrInvalidIdentity", err)
	}
}

func TestObserveCreatesAndUpdates(t *testing.T) {
	reg := NewRegistry()
	obs := Observation{
		NameNorm:        "maria garcia",
		FieldNorm:       "chemistry",
		AffiliationNorm: "ucla",
		DisplayName:     "Maria Garcia",
		When:            date("2024-10-01"),
	}
	id1, err := reg.Observe(obs)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}

	obs.When = date("2024-09-15")
	id2, err := reg.Observe(obs)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("same triple produced different IDs: %q vs %q", id1, id2)
	}

	sp, ok := reg.Lookup(id1)
	if !ok {
		t.Fatal("Lookup failed after Observe")
	}
	if sp.AppearanceCount != 2 {
		t.Errorf("AppearanceCount = %d, want 2", sp.AppearanceCount)
	}
	if !sp.FirstSeen.Equal(date("2024-09-15")) {
		t.Errorf("FirstSeen = %v, want 2024-09-15", sp.FirstSeen)
	}
	if !sp.LastSeen.Equal(date("2024-10-01")) {
		t.Errorf("LastSeen = %v, want 2024-10-01", sp.LastSeen)
	}
	if sp.DisplayName != "Maria Garcia" {
		t.Errorf("DisplayName = %q", sp.DisplayName)
	}
}

func TestUnionFoldsCounts(t *testing.T) {
	reg := NewRegistry()
	idA, err := reg.Observe(Observation{NameNorm: "robert smith", FieldNorm: "chemistry", AffiliationNorm: "mit", When: date("2024-01-10")})
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	idB, err := reg.Observe(Observation{NameNorm: "robert smith", FieldNorm: "chemistry", AffiliationNorm: "harvard university", When: date("2024-06-01")})
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}

	reg.Union(idA, idB)

	if reg.Count() != 1 {
		t.Errorf("Count = %d after union, want 1", reg.Count())
	}
	if got := reg.Resolve(idB); got != idA {
		t.Errorf("Resolve(duplicate) = %q, want %q", got, idA)
	}
	sp, ok := reg.Lookup(idB)
	if !ok {
		t.Fatal("Lookup via alias failed")
	}
	if sp.AppearanceCount != 2 {
		t.Errorf("AppearanceCount = %d, want 2", sp.AppearanceCount)
	}
	if !sp.LastSeen.Equal(date("2024-06-01")) {
		t.Errorf("LastSeen = %v, want union of windows", sp.LastSeen)
	}
}

func TestByFieldIsPartitioned(t *testing.T) {
	reg := NewRegistry()
	mustObserve(t, reg, "alice wu", "chemistry", "ucla")
	mustObserve(t, reg, "bob tan", "physics", "mit")
	mustObserve(t, reg, "carol diaz", "chemistry", "stanford university")

	chem := reg.ByField("chemistry")
	if len(chem) != 2 {
		t.Fatalf("ByField(chemistry) = %d speakers, want 2", len(chem))
	}
	for _, sp := range chem {
		if sp.NormalizedField != "chemistry" {
			t.Errorf("cross-field speaker leaked: %+v", sp)
		}
	}
}

func mustObserve(t *testing.T, reg *Registry, name, field, affiliation string) string {
	t.Helper()
	id, err := reg.Observe(Observation{NameNorm: name, FieldNorm: field, AffiliationNorm: affiliation, When: date("2024-03-01")})
	if err != nil {
		t.Fatalf("Observe(%s): %v", name, err)
	}
	return id
}
