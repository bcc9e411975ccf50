package main

import (
	"strings"
	"testing"
)

const seminarCSV = `seminar_id,field,date,speaker_1,affiliation_1,speaker_2,affiliation_2
sem-1,Chemistry,2024-03-15,Jane Doe,Stanford,John Smith,MIT
sem-2,Chemistry,2024-04-02,Jane Doe,Stanford,,
`

func TestCLIRegistryBuildAndStats(t *testing.T) {
	env := setupCLITestEnv(t)
	primary := writeCSVFile(t, env.baseDir, "seminars.csv", seminarCSV)

	out, _, err := runCLI(t, []string{"registry", "build", primary, "--batch", "spring"}, env.configPath)
	if err != nil {
		t.Fatalf("registry build: %v", err)
	}
	requireContains(t, out, "Registry build")
	requireContains(t, out, "Canonical speakers")
	requireContains(t, out, "Appearances after dedup")

	out, _, err = runCLI(t, []string{"registry", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("registry stats: %v", err)
	}
	requireContains(t, out, "chemistry")
	requireContains(t, out, "total")
}

func TestCLIRegistryBuildWithSupplement(t *testing.T) {
	env := setupCLITestEnv(t)
	primary := writeCSVFile(t, env.baseDir, "primary.csv", seminarCSV)
	supplement := writeCSVFile(t, env.baseDir, "supplement.csv",
		"seminar_id,field,date,speaker_1,affiliation_1,speaker_2,affiliation_2\n"+
			"sem-2,Chemistry,2024-04-02,,,Ada Lovelace,Cambridge\n")

	out, _, err := runCLI(t, []string{
		"registry", "build", primary, "--supplement", supplement,
	}, env.configPath)
	if err != nil {
		t.Fatalf("registry build with supplement: %v", err)
	}
	requireContains(t, out, "Slots filled from supplements")
}

func TestCLIMatchAutoAccept(t *testing.T) {
	env := setupCLITestEnv(t)
	writeTestConfig(t, env.configPath, env.baseDir, "test-key")

	primary := writeCSVFile(t, env.baseDir, "seminars.csv", seminarCSV)
	if _, _, err := runCLI(t, []string{"registry", "build", primary}, env.configPath); err != nil {
		t.Fatalf("registry build: %v", err)
	}

	refs := writeCSVFile(t, env.baseDir, "refs.csv",
		"ref_id,name,affiliation,field\nref-1,Jane Doe,Stanford,Chemistry\n")

	out, _, err := runCLI(t, []string{"match", refs, "--outcomes"}, env.configPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	requireContains(t, out, "Match run")
	requireContains(t, out, "Auto-accepted")
	requireContains(t, out, "ref-1")
}

func TestCLIMatchRequiresAPIKey(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("SPEAKERLINK_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	refs := writeCSVFile(t, env.baseDir, "refs.csv",
		"ref_id,name,affiliation,field\nref-1,Jane Doe,Stanford,Chemistry\n")

	_, _, err := runCLI(t, []string{"match", refs}, env.configPath)
	if err == nil {
		t.Fatal("expected match without API key to fail")
	}
	if !strings.Contains(err.Error(), "oracle.api_key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCLIReviewEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"review"}, env.configPath)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	requireContains(t, out, "Nothing awaiting review")
}

func TestCLICacheCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"cache", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Entries")

	_, _, err = runCLI(t, []string{"cache", "clear"}, env.configPath)
	if err == nil {
		t.Fatal("expected cache clear without --yes to fail")
	}
	if !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("unexpected error: %v", err)
	}

	out, _, err = runCLI(t, []string{"cache", "clear", "--yes"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clear --yes: %v", err)
	}
	requireContains(t, out, "Cleared 0 cache entries")

	out, _, err = runCLI(t, []string{"cache", "remove", "no-such-key"}, env.configPath)
	if err != nil {
		t.Fatalf("cache remove: %v", err)
	}
	requireContains(t, out, "No cache entry with that key")
}
