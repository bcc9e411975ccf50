package textnorm

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Maria Garcia", "maria garcia"},
		{"diacritics", "José Müller", "jose muller"},
		{"honorific prefix", "Dr. Robert Smith", "robert smith"},
		{"honorific suffix", "Robert Smith Jr.", "robert smith"},
		{"stacked honorifics", "Prof. Dr. Ada Lovelace", "ada lovelace"},
		{"middle initial", "Robert J. Smith", "robert j smith"},
		{"internal hyphen", "Jean-Luc Picard", "jean-luc picard"},
		{"internal apostrophe", "Conor O'Brien", "conor o'brien"},
		{"dangling hyphen", "Smith- Jones", "smith jones"},
		{"whitespace runs", "  Ada \t Lovelace  ", "ada lovelace"},
		{"pure punctuation", "---", ""},
		{"pure digits", "12345", ""},
		{"pure whitespace", "   ", ""},
		{"empty", "", ""},
		{"honorific only", "Dr.", "dr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.in); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNameNeverEmptiesNonEmptyName(t *testing.T) {
	// A name made entirely of honorific tokens keeps its final token.
	if got := Name("Prof Professor"); got == "" {
		t.Fatal("Name stripped every token")
	}
}

func TestAffiliation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"passthrough", "UCLA", "ucla"},
		{"univ expansion", "Stanford Univ", "stanford university"},
		{"u of expansion", "U of Michigan", "university of michigan"},
		{"bare trailing u untouched", "Purdue U", "purdue u"},
		{"department tail", "University of California Department of Chemistry", "university of california"},
		{"school tail", "Cornell University School of Engineering", "cornell university"},
		{"marker before head untouched", "Lincoln Laboratory Massachusetts Institute of Technology", "lincoln laboratory massachusetts institute of technology"},
		{"no head untouched", "MIT Media Lab", "mit media laboratory"},
		{"trailing connector trimmed", "Institute for Advanced Study School of Mathematics", "institute for advanced study"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Affiliation(tt.in); got != tt.want {
				t.Errorf("Affiliation(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Dr. Robert J. Smith Jr.",
		"José Müller-Schmidt",
		"U of Michigan Dept. of Physics",
		"University of California, Los Angeles — Department of Chemistry",
		"Lincoln Laboratory Massachusetts Institute of Technology",
		"  Chemistry  ",
		"O'Brien",
		"---",
	}
	for _, kind := range []Kind{KindName, KindAffiliation, KindField} {
		for _, in := range inputs {
			once := Normalize(kind, in)
			twice := Normalize(kind, once)
			if once != twice {
				t.Errorf("Normalize(%s, %q) not idempotent: %q -> %q", kind, in, once, twice)
			}
		}
	}
}

func TestFieldStripsDigitsOnlyInput(t *testing.T) {
	if got := Field("2024"); got != "" {
		t.Errorf("Field(digits) = %q, want empty", got)
	}
	if got := Field("Chemistry"); got != "chemistry" {
		t.Errorf("Field = %q, want %q", got, "chemistry")
	}
}
