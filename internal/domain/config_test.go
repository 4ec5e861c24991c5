package domain

import "testing"

func testConfig() Config {
	return Config{
		Preferences: Preferences{
			DefaultModel:   "gemini-pro",
			FallbackModels: []string{"gemini-1.5-flash", "gemini-pro", "nonexistent"},
		},
		Models: []ModelDefinition{
			{Name: "gemini-pro", ModelID: "gemini-pro"},
			{Name: "gemini-1.5-flash", ModelID: "gemini-1.5-flash"},
		},
	}
}

func TestCandidateModelsOrderAndDedup(t *testing.T) {
	candidates := testConfig().CandidateModels()

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Name != "gemini-pro" {
		t.Errorf("primary = %s, want gemini-pro", candidates[0].Name)
	}
	if candidates[1].Name != "gemini-1.5-flash" {
		t.Errorf("fallback = %s, want gemini-1.5-flash", candidates[1].Name)
	}
}

func TestCandidateModelsDefaultsToFirstModel(t *testing.T) {
	cfg := testConfig()
	cfg.Preferences.DefaultModel = ""
	cfg.Preferences.FallbackModels = nil

	candidates := cfg.CandidateModels()
	if len(candidates) != 1 || candidates[0].Name != "gemini-pro" {
		t.Errorf("candidates = %v", candidates)
	}
}

func TestCandidateModelsEmptyConfig(t *testing.T) {
	if got := (Config{}).CandidateModels(); len(got) != 0 {
		t.Errorf("expected no candidates, got %v", got)
	}
}

func TestFindModel(t *testing.T) {
	cfg := testConfig()

	if _, found := cfg.FindModel("gemini-1.5-flash"); !found {
		t.Error("expected to find configured model")
	}
	if _, found := cfg.FindModel("nope"); found {
		t.Error("expected miss for unknown model")
	}
}

func TestActionKindMutating(t *testing.T) {
	cases := []struct {
		kind ActionKind
		want bool
	}{
		{ActionList, false},
		{ActionInsert, true},
		{ActionUpdate, true},
		{ActionDelete, true},
		{ActionCheckConflict, false},
		{ActionUnknown, false},
	}
	for _, tc := range cases {
		if got := tc.kind.Mutating(); got != tc.want {
			t.Errorf("%s.Mutating() = %v, want %v", tc.kind, got, tc.want)
		}
	}
}
