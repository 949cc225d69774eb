package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/vanshm/study-assistant/internal/core/domain"
)

type classifyCompletionFake struct {
	response string
	err      error
	calls    int
}

func (f *classifyCompletionFake) Complete(context.Context, string, int, float64) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *classifyCompletionFake) CompleteJSON(context.Context, string, int, float64) (string, error) {
	return f.Complete(nil, "", 0, 0)
}

func TestClassifyExplicitLabelSkipsModel(t *testing.T) {
	completion := &classifyCompletionFake{response: "study-related"}
	classifier := NewClassifier(completion)

	label, err := classifier.Classify(context.Background(), "anything", "Profile-Related")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if label != domain.ClassProfileRelated {
		t.Fatalf("expected profile-related, got %q", label)
	}
	if completion.calls != 0 {
		t.Fatalf("explicit label must not call the model, got %d calls", completion.calls)
	}
}

func TestClassifyExplicitUnrecognizedLabelPassesThrough(t *testing.T) {
	completion := &classifyCompletionFake{}
	classifier := NewClassifier(completion)

	label, err := classifier.Classify(context.Background(), "q", "Homework")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if label != domain.Classification("homework") {
		t.Fatalf("expected normalized pass-through, got %q", label)
	}
	if completion.calls != 0 {
		t.Fatalf("explicit label must not call the model")
	}
}

func TestClassifyNormalizesModelOutput(t *testing.T) {
	classifier := NewClassifier(&classifyCompletionFake{response: "  Study-Related \n"})

	label, err := classifier.Classify(context.Background(), "what is osmosis", "")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if label != domain.ClassStudyRelated {
		t.Fatalf("expected study-related, got %q", label)
	}
}

func TestClassifyUnrecognizedModelOutput(t *testing.T) {
	classifier := NewClassifier(&classifyCompletionFake{response: "banana"})

	_, err := classifier.Classify(context.Background(), "q", "")
	if !domain.IsKind(err, domain.ErrClassification) {
		t.Fatalf("expected classification error, got %v", err)
	}
}

func TestClassifyModelError(t *testing.T) {
	classifier := NewClassifier(&classifyCompletionFake{err: errors.New("model down")})

	_, err := classifier.Classify(context.Background(), "q", "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if domain.IsKind(err, domain.ErrClassification) {
		t.Fatalf("transport failure must not look like a classification verdict: %v", err)
	}
}
