package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"exact keyword", "I want a website", "website"},
		{"synonym", "a landing for my brand", "website"},
		{"app synonym", "an android application", "app"},
		{"bot synonym", "need a chatbot for support", "bot"},
		{"automation synonym", "a script to automate this", "automation"},
		{"fuzzy typo", "websyte", "website"},
		{"punctuation stripped", "¡¡WEB-SITE!!", "website"},
		{"unmatched", "quantum refrigerator", "unknown"},
		{"empty", "", "unknown"},
		{"garbage symbols", "$$$ ///", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectCategory(tt.input))
		})
	}
}

func TestDetectCategory_FirstMatchWins(t *testing.T) {
	// "website" se evalúa antes que "app": un texto con ambos cae en website.
	assert.Equal(t, "website", DetectCategory("a web app"))
}

func TestDetectYesNo(t *testing.T) {
	if got := DetectYesNo("sure, why not"); got != "yes" {
		t.Fatalf("expected yes, got %q", got)
	}
	if got := DetectYesNo("Nope."); got != "no" {
		t.Fatalf("expected no, got %q", got)
	}
	if got := DetectYesNo("maybe later"); got != "" {
		t.Fatalf("expected unanswered, got %q", got)
	}
	if got := DetectYesNo(""); got != "" {
		t.Fatalf("expected unanswered for empty input, got %q", got)
	}
}

func TestDetectYesNo_BothSynonyms(t *testing.T) {
	// Orden de evaluación documentado: la lista "yes" se recorre primero.
	got := DetectYesNo("yeah... or nope, not sure")
	if got != "yes" {
		t.Fatalf("expected yes by first-match order, got %q", got)
	}
	// Idempotente con la misma entrada.
	if again := DetectYesNo("yeah... or nope, not sure"); again != got {
		t.Fatalf("expected deterministic result, got %q then %q", got, again)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hola 123 web", Normalize("  ¡Hola! 123 WEB!!  "))
	assert.Equal(t, "", Normalize("¿¡!?"))
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("abc", "abc"))
	assert.Equal(t, 0.0, Ratio("abc", ""))
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.InDelta(t, 0.857, Ratio("website", "websyte"), 0.01)
	assert.Greater(t, Ratio("portfolio", "portfolio"), similarityThreshold)
}
