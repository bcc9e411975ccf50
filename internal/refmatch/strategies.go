package refmatch

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// MatchType labels which similarity strategy produced a candidate score.
type MatchType string

const (
	MatchExact          MatchType = "exact"
	MatchFuzzy          MatchType = "fuzzy"
	MatchSurnameInitial MatchType = "surname_initial"
	MatchSubstring      MatchType = "substring"
)

// Strategy score constants. These sit relative to the tier thresholds: a
// token-subset name is a strong signal just above the default high tier, a
// surname plus compatible given name lands in the ambiguous band, and an
// initials-only agreement is a weak fallback near its floor.
const (
	scoreExact           = 100
	scoreTokenSubset     = 88
	scoreSurnameGiven    = 80
	scoreSurnameInitials = 70
	surnameFuzzyFloor    = 85
	givenFuzzyFloor      = 80
	givenPrefixMinRunes  = 3
)

// nicknameForms maps common short forms to their formal given name. Both
// directions are checked during compatibility tests.
var nicknameForms = map[string]string{
	"bob":   "robert",
	"rob":   "robert",
	"bobby": "robert",
	"bill":  "william",
	"will":  "william",
	"liz":   "elizabeth",
	"beth":  "elizabeth",
	"jim":   "james",
	"mike":  "michael",
	"dave":  "david",
	"tom":   "thomas",
	"tony":  "anthony",
	"dan":   "daniel",
	"dick":  "richard",
	"rick":  "richard",
	"ted":   "theodore",
	"kate":  "katherine",
	"katie": "katherine",
	"peggy": "margaret",
	"sam":   "samuel",
	"alex":  "alexander",
	"chris": "christopher",
	"nick":  "nicholas",
	"steve": "steven",
	"joe":   "joseph",
}

// scoreNames returns the best similarity score across all strategies for two
// normalized names, with the strategy that produced it. Scores are in
// [0, 100].
func scoreNames(refName, speakerName string) (int, MatchType) {
	if refName == "" || speakerName == "" {
		return 0, MatchFuzzy
	}
	if refName == speakerName {
		return scoreExact, MatchExact
	}

	best := tokenSortRatio(refName, speakerName)
	bestType := MatchFuzzy

	if score, ok := tokenSubsetScore(refName, speakerName); ok && score > best {
		best = score
		bestType = MatchSubstring
	}
	if score, ok := surnameCompositeScore(refName, speakerName); ok && score > best {
		best = score
		bestType = MatchSurnameInitial
	}
	return best, bestType
}

// ratio is a levenshtein similarity in [0, 100].
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist >= longest {
		return 0
	}
	return (longest - dist) * 100 / longest
}

// tokenSortRatio compares names with tokens sorted, so word-order differences
// ("garcia, maria" vs "maria garcia") do not depress the score.
func tokenSortRatio(a, b string) int {
	return ratio(sortedTokens(a), sortedTokens(b))
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// tokenSubsetScore fires when every token of the shorter name appears in the
// longer one, e.g. "maria garcia" against "maria garcia lopez".
func tokenSubsetScore(a, b string) (int, bool) {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) < 2 && len(tb) < 2 {
		return 0, false
	}
	shorter, longer := ta, tb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	set := make(map[string]struct{}, len(longer))
	for _, tok := range longer {
		set[tok] = struct{}{}
	}
	for _, tok := range shorter {
		if _, ok := set[tok]; !ok {
			return 0, false
		}
	}
	return scoreTokenSubset, true
}

// surnameCompositeScore combines surname agreement with given-name
// compatibility. A compatible given name yields the boosted composite score;
// matching first initials alone yield the weaker fallback.
func surnameCompositeScore(a, b string) (int, bool) {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0, false
	}
	surA, surB := ta[len(ta)-1], tb[len(tb)-1]
	if surA != surB && ratio(surA, surB) < surnameFuzzyFloor {
		return 0, false
	}
	if len(ta) < 2 || len(tb) < 2 {
		// Surname-only records carry no given-name signal.
		return 0, false
	}
	givenA, givenB := ta[0], tb[0]
	if givenCompatible(givenA, givenB) {
		return scoreSurnameGiven, true
	}
	if givenA[0] == givenB[0] {
		return scoreSurnameInitials, true
	}
	return 0, false
}

// givenCompatible reports whether two given names plausibly denote the same
// person: fuzzy-close, prefix/substring of one another, or known nickname
// forms.
func givenCompatible(a, b string) bool {
	if a == b {
		return true
	}
	if len([]rune(a)) >= givenPrefixMinRunes || len([]rune(b)) >= givenPrefixMinRunes {
		if strings.HasPrefix(a, b) || strings.HasPrefix(b, a) {
			return true
		}
		if strings.Contains(a, b) || strings.Contains(b, a) {
			return true
		}
	}
	if formal, ok := nicknameForms[a]; ok && formal == b {
		return true
	}
	if formal, ok := nicknameForms[b]; ok && formal == a {
		return true
	}
	return ratio(a, b) >= givenFuzzyFloor
}
