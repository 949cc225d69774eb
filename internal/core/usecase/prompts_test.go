package usecase

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDocumentClassificationPromptKeepsShortTextIntact(t *testing.T) {
	prompt := buildDocumentClassificationPrompt("photosynthesis notes", "[]")
	if !strings.Contains(prompt, "photosynthesis notes") {
		t.Fatalf("expected full text in prompt")
	}
}

func TestDocumentClassificationPromptCutsOnRuneBoundary(t *testing.T) {
	// 3-byte runes so the byte limit lands mid-rune.
	text := strings.Repeat("日", 2000)
	prompt := buildDocumentClassificationPrompt(text, "[]")

	if !utf8.ValidString(prompt) {
		t.Fatalf("truncated prompt contains a broken rune")
	}
	if !strings.Contains(prompt, "日") {
		t.Fatalf("expected truncated text in prompt")
	}
	if strings.Contains(prompt, text) {
		t.Fatalf("expected text to be truncated")
	}
}
