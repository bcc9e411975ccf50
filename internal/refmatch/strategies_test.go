package refmatch

import "testing"

func TestScoreNamesExact(t *testing.T) {
	score, matchType := scoreNames("maria garcia", "maria garcia")
	if score != 100 || matchType != MatchExact {
		t.Errorf("scoreNames(identical) = %d %s, want 100 exact", score, matchType)
	}
}

func TestScoreNamesAmbiguousBandExample(t *testing.T) {
	// Surname match plus nickname-compatible given names must land in the
	// ambiguous band: strong enough to escalate, never an auto-accept.
	score, matchType := scoreNames("robert j smith", "bob smith")
	if matchType != MatchSurnameInitial {
		t.Errorf("match type = %s, want surname_initial", matchType)
	}
	policy := DefaultPolicy()
	if score < policy.LowThreshold || score >= policy.HighThreshold {
		t.Errorf("score = %d, want inside ambiguous band [%d, %d)", score, policy.LowThreshold, policy.HighThreshold)
	}
}

func TestScoreNamesTokenSubset(t *testing.T) {
	score, matchType := scoreNames("maria garcia", "maria garcia lopez")
	if matchType != MatchSubstring {
		t.Errorf("match type = %s, want substring", matchType)
	}
	if score != scoreTokenSubset {
		t.Errorf("score = %d, want %d", score, scoreTokenSubset)
	}
}

func TestScoreNamesInitialsFallback(t *testing.T) {
	score, matchType := scoreNames("r smith", "rasheed smith")
	if matchType != MatchSurnameInitial {
		t.Errorf("match type = %s, want surname_initial", matchType)
	}
	// "r" is a prefix of "rasheed", so the given names are compatible.
	if score != scoreSurnameGiven {
		t.Errorf("score = %d, want %d", score, scoreSurnameGiven)
	}
}

func TestScoreNamesInitialsOnly(t *testing.T) {
	score, _ := scoreNames("sandra smith", "sofia smith")
	if score != scoreSurnameInitials {
		t.Errorf("score = %d, want %d (initials-only fallback)", score, scoreSurnameInitials)
	}
}

func TestScoreNamesDisjoint(t *testing.T) {
	score, _ := scoreNames("maria garcia", "wei zhang")
	if score >= DefaultPolicy().LowThreshold {
		t.Errorf("disjoint names scored %d, expected below low threshold", score)
	}
}

func TestTokenSortRatioOrderInsensitive(t *testing.T) {
	a := tokenSortRatio("garcia maria", "maria garcia")
	if a != 100 {
		t.Errorf("tokenSortRatio(reordered) = %d, want 100", a)
	}
}

func TestRatioBounds(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"", ""}, {"a", ""}, {"abc", "xyz"}, {"smith", "smyth"},
	}
	for _, tt := range tests {
		got := ratio(tt.a, tt.b)
		if got < 0 || got > 100 {
			t.Errorf("ratio(%q, %q) = %d out of [0,100]", tt.a, tt.b, got)
		}
	}
}
