package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vanshm/study-assistant/internal/core/domain"
	"github.com/vanshm/study-assistant/internal/core/ports"
)

const (
	slideChunkWords = 1000
	slideMaxTokens  = 3000
)

// SlideUseCase turns the extracted text of a processed document into
// markdown course slides. Unlike flashcards, a single failed chunk fails the
// whole deck; a course with silent holes in the middle is worse than no
// course.
type SlideUseCase struct {
	documents  ports.DocumentStore
	completion ports.TextCompletion
}

func NewSlideUseCase(documents ports.DocumentStore, completion ports.TextCompletion) *SlideUseCase {
	return &SlideUseCase{documents: documents, completion: completion}
}

func (uc *SlideUseCase) GenerateFromDocument(ctx context.Context, userID, documentID string) (*domain.SlideDeck, error) {
	if userID == "" {
		return nil, domain.WrapError(domain.ErrMissingUserID, "generate slides", fmt.Errorf("empty user_id"))
	}

	doc, err := loadProcessedDocument(ctx, uc.documents, userID, documentID, "generate slides")
	if err != nil {
		return nil, err
	}

	deck := &domain.SlideDeck{DocumentID: doc.ID}
	for i, chunk := range chunkWords(doc.ExtractedText, slideChunkWords) {
		raw, err := uc.completion.CompleteJSON(ctx, buildSlidePrompt(chunk), slideMaxTokens, 0.4)
		if err != nil {
			return nil, fmt.Errorf("generate slides for chunk %d: %w", i, err)
		}

		var parsed struct {
			Slides []string `json:"slides"`
		}
		if err := json.Unmarshal([]byte(extractJSONObject(raw)), &parsed); err != nil {
			return nil, domain.WrapError(domain.ErrTemporary, "parse slides json", err)
		}
		if len(parsed.Slides) == 0 {
			return nil, domain.WrapError(domain.ErrTemporary, "parse slides json", fmt.Errorf("chunk %d produced no slides", i))
		}
		deck.Slides = append(deck.Slides, parsed.Slides...)
	}

	return deck, nil
}
