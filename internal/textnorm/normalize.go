package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Kind selects which normalization rules apply on top of the base pipeline.
type Kind string

const (
	KindName        Kind = "name"
	KindAffiliation Kind = "affiliation"
	KindField       Kind = "field"
)

// stripDiacritics decomposes to NFD, removes combining marks, and recomposes.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// honorifics are stripped from names as standalone leading/trailing tokens.
var honorifics = map[string]struct{}{
	"dr":        {},
	"prof":      {},
	"professor": {},
	"mr":        {},
	"mrs":       {},
	"ms":        {},
	"jr":        {},
	"sr":        {},
}

// Normalize dispatches to the kind-specific normalizer. Unknown kinds fall
// back to the base pipeline.
func Normalize(kind Kind, text string) string {
	switch kind {
	case KindName:
		return Name(text)
	case KindAffiliation:
		return Affiliation(text)
	case KindField:
		return Field(text)
	default:
		return clean(text)
	}
}

// Name normalizes a person name. Leading and trailing honorifics are removed
// as standalone tokens, but never the last remaining token.
func Name(text string) string {
	cleaned := clean(text)
	if cleaned == "" {
		return ""
	}
	tokens := strings.Fields(cleaned)
	for len(tokens) > 1 {
		if _, ok := honorifics[tokens[0]]; !ok {
			break
		}
		tokens = tokens[1:]
	}
	for len(tokens) > 1 {
		if _, ok := honorifics[tokens[len(tokens)-1]]; !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// Field normalizes a discipline label using the base pipeline only.
func Field(text string) string {
	return clean(text)
}

// clean runs the base pipeline: diacritic strip, case fold, punctuation
// removal (internal hyphens and apostrophes survive), whitespace collapse.
// Returns "" when nothing with a letter remains.
func clean(text string) string {
	folded, _, err := transform.String(stripDiacritics, strings.ToLower(text))
	if err != nil {
		folded = strings.ToLower(text)
	}

	var b strings.Builder
	b.Grow(len(folded))
	runesIn := []rune(folded)
	for i, r := range runesIn {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r == '-' || r == '\'':
			if i > 0 && i < len(runesIn)-1 && isAlnum(runesIn[i-1]) && isAlnum(runesIn[i+1]) {
				b.WriteRune(r)
			} else {
				b.WriteByte(' ')
			}
		default:
			b.WriteByte(' ')
		}
	}

	collapsed := strings.Join(strings.Fields(b.String()), " ")
	if !containsLetter(collapsed) {
		return ""
	}
	return collapsed
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
