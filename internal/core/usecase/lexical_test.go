package usecase

import (
	"math"
	"testing"
)

func TestRankLexicalEmptyCandidates(t *testing.T) {
	scores := rankLexical("photosynthesis", nil)
	if len(scores) != 0 {
		t.Fatalf("expected empty scores, got %v", scores)
	}
}

func TestRankLexicalZeroOverlap(t *testing.T) {
	scores := rankLexical("photosynthesis", []string{
		"the french revolution began in 1789",
		"supply and demand curves",
	})
	for i, score := range scores {
		if score != 0 {
			t.Fatalf("expected score 0 for candidate %d, got %f", i, score)
		}
	}
}

func TestRankLexicalPrefersMatchingDocument(t *testing.T) {
	texts := []string{
		"chlorophyll absorbs light during photosynthesis",
		"the krebs cycle produces atp",
		"photosynthesis converts light energy into chemical energy via photosynthesis",
	}
	scores := rankLexical("explain photosynthesis", texts)

	if scores[1] != 0 {
		t.Fatalf("expected zero score for unrelated doc, got %f", scores[1])
	}
	if scores[0] <= 0 || scores[2] <= 0 {
		t.Fatalf("expected positive scores for matching docs, got %f and %f", scores[0], scores[2])
	}
	if scores[2] <= scores[0] {
		t.Fatalf("expected repeated-term doc to outrank single mention: %f vs %f", scores[2], scores[0])
	}
}

func TestRankLexicalOrderInvariant(t *testing.T) {
	forward := []string{
		"newton's laws of motion",
		"integration by parts",
		"laws of thermodynamics and motion",
	}
	reversed := []string{forward[2], forward[1], forward[0]}

	scoresA := rankLexical("laws of motion", forward)
	scoresB := rankLexical("laws of motion", reversed)

	if math.Abs(scoresA[0]-scoresB[2]) > 1e-12 || math.Abs(scoresA[2]-scoresB[0]) > 1e-12 {
		t.Fatalf("scores depend on candidate order: %v vs %v", scoresA, scoresB)
	}
}

func TestRankLexicalEmptyQuery(t *testing.T) {
	scores := rankLexical("  ?!  ", []string{"some text"})
	if scores[0] != 0 {
		t.Fatalf("expected zero score for empty query, got %f", scores[0])
	}
}

func TestTokenizeAlphaNum(t *testing.T) {
	tokens := tokenizeAlphaNum("What is  Photo-synthesis, in 2024?")
	want := []string{"what", "is", "photo", "synthesis", "in", "2024"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("token %d: expected %q, got %q", i, want[i], tokens[i])
		}
	}
}
