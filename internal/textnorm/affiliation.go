package textnorm

import "strings"

// affiliationSynonyms expands common abbreviations token-by-token. Keys and
// values are already in base-pipeline form so expansion stays idempotent.
var affiliationSynonyms = map[string]string{
	"univ":   "university",
	"u":      "university",
	"inst":   "institute",
	"tech":   "technology",
	"natl":   "national",
	"intl":   "international",
	"dept":   "department",
	"lab":    "laboratory",
	"labs":   "laboratory",
	"ctr":    "center",
	"centre": "center",
}

// headKeywords anchor a recognizable institutional head clause.
var headKeywords = map[string]struct{}{
	"university": {},
	"institute":  {},
	"college":    {},
	"academy":    {},
}

// cutMarkers begin a department/lab/center tail that is dropped when it
// follows a recognized head clause.
var cutMarkers = map[string]struct{}{
	"department": {},
	"faculty":    {},
	"school":     {},
	"division":   {},
	"laboratory": {},
	"center":     {},
	"program":    {},
}

// connectorTokens are trimmed from the end of a head clause after a tail cut.
var connectorTokens = map[string]struct{}{
	"of":  {},
	"and": {},
	"the": {},
	"for": {},
	"at":  {},
	"in":  {},
}

// Affiliation normalizes an institution string. On top of the base pipeline
// it expands abbreviations ("univ" -> "university", "u of x" ->
// "university of x") and strips department/lab/center tails that follow a
// recognizable University/Institute head clause. When no head clause can be
// identified the cleaned string is returned unchanged rather than guessed.
func Affiliation(text string) string {
	cleaned := clean(text)
	if cleaned == "" {
		return ""
	}

	tokens := strings.Fields(cleaned)
	for i, tok := range tokens {
		if expanded, ok := affiliationSynonyms[tok]; ok {
			// "u" only expands in the "u of x" pattern; a bare trailing "u"
			// is more likely an initialism fragment.
			if tok == "u" && (i+1 >= len(tokens) || tokens[i+1] != "of") {
				continue
			}
			tokens[i] = expanded
		}
	}

	tokens = stripInstitutionalTail(tokens)
	return strings.Join(tokens, " ")
}

// stripInstitutionalTail cuts tokens from the first cut marker that appears
// strictly after the first head keyword. The longest plausible head is kept;
// a marker appearing before any head keyword leaves the string untouched
// (the head clause cannot be confidently extracted).
func stripInstitutionalTail(tokens []string) []string {
	head := -1
	for i, tok := range tokens {
		if _, ok := headKeywords[tok]; ok {
			head = i
			break
		}
	}
	if head < 0 {
		return tokens
	}
	cut := -1
	for i := head + 1; i < len(tokens); i++ {
		if _, ok := cutMarkers[tokens[i]]; ok {
			cut = i
			break
		}
	}
	if cut < 0 {
		return tokens
	}
	kept := tokens[:cut]
	for len(kept) > 1 {
		if _, ok := connectorTokens[kept[len(kept)-1]]; !ok {
			break
		}
		kept = kept[:len(kept)-1]
	}
	return kept
}
