package usecase

import (
	"context"
	"fmt"

	"github.com/vanshm/study-assistant/internal/core/domain"
	"github.com/vanshm/study-assistant/internal/core/ports"
)

const classifyMaxTokens = 15

// Classifier routes a free-text query to either the study-document pipeline
// or the profile lookup. An explicit label from the caller bypasses the model
// entirely so tests and callers stay deterministic.
type Classifier struct {
	completion ports.TextCompletion
}

func NewClassifier(completion ports.TextCompletion) *Classifier {
	return &Classifier{completion: completion}
}

func (c *Classifier) Classify(ctx context.Context, queryText, explicit string) (domain.Classification, error) {
	if explicit != "" {
		label, _ := domain.NormalizeClassification(explicit)
		return label, nil
	}

	raw, err := c.completion.Complete(ctx, buildClassificationPrompt(queryText), classifyMaxTokens, 0)
	if err != nil {
		return "", fmt.Errorf("classify query: %w", err)
	}

	label, ok := domain.NormalizeClassification(raw)
	if !ok {
		return "", domain.WrapError(domain.ErrClassification, "classify query", fmt.Errorf("model returned %q", raw))
	}
	return label, nil
}
