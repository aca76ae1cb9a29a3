package llm

import (
	"strings"
	"testing"
)

func TestRecommendPromptEmbedsDataVerbatim(t *testing.T) {
	transactions := `[{"amount": -42, "note": "{{SERVICES}} not a placeholder"}]`
	services := `[{"Title": "Pneuservis Ferko"}` // deliberately malformed, passed through
	prompt := NewPromptBuilder("").Recommend(transactions, services)

	if !strings.Contains(prompt, "```json\n"+transactions+"\n```") {
		t.Fatalf("transactions not fenced verbatim")
	}
	if !strings.Contains(prompt, "```json\n"+services+"\n```") {
		t.Fatalf("services not fenced verbatim")
	}
	if !strings.Contains(prompt, "written in Slovak") {
		t.Fatalf("expected default locale in prompt")
	}
	if !strings.Contains(prompt, `"recommendations": []`) {
		t.Fatalf("expected empty-array fallback instruction")
	}
	if !strings.Contains(prompt, `"Reason": "Časté výdavky za auto."`) {
		t.Fatalf("expected example recommendation")
	}
	if strings.Contains(prompt, "{{TRANSACTIONS}}") || strings.Contains(prompt, "{{LOCALE}}") {
		t.Fatalf("unreplaced placeholder left in prompt")
	}
}

func TestSearchPromptIncludesQuery(t *testing.T) {
	prompt := NewPromptBuilder("English").Search("tečie mi WC", `[]`)

	if !strings.Contains(prompt, "**User Query:**\ntečie mi WC\n") {
		t.Fatalf("query not embedded")
	}
	if !strings.Contains(prompt, "written in English") {
		t.Fatalf("expected configured locale")
	}
	if !strings.Contains(prompt, `"recommendations": []`) {
		t.Fatalf("expected empty-array fallback instruction")
	}
	if strings.Contains(prompt, "{{QUERY}}") {
		t.Fatalf("unreplaced placeholder left in prompt")
	}
}

func TestConfigured(t *testing.T) {
	if Configured(nil) {
		t.Fatalf("nil client should not be configured")
	}
	if Configured(PlaceholderClient{}) {
		t.Fatalf("placeholder should not be configured")
	}
}
