package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vanshm/study-assistant/internal/core/domain"
	"github.com/vanshm/study-assistant/internal/core/ports"
)

const (
	flashcardChunkWords       = 500
	flashcardsPerChunkDefault = 5
	flashcardMaxTokens        = 2000
)

// FlashcardUseCase generates flashcard decks from the extracted text of a
// processed document. Each chunk is sent to the model separately; a chunk
// that fails costs its cards, not the whole deck.
type FlashcardUseCase struct {
	documents  ports.DocumentStore
	completion ports.TextCompletion
	logger     *slog.Logger
}

func NewFlashcardUseCase(documents ports.DocumentStore, completion ports.TextCompletion, logger *slog.Logger) *FlashcardUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlashcardUseCase{documents: documents, completion: completion, logger: logger}
}

func (uc *FlashcardUseCase) GenerateFromDocument(ctx context.Context, userID, documentID string, cardsPerChunk int) (*domain.FlashcardSet, error) {
	if userID == "" {
		return nil, domain.WrapError(domain.ErrMissingUserID, "generate flashcards", fmt.Errorf("empty user_id"))
	}
	if cardsPerChunk <= 0 {
		cardsPerChunk = flashcardsPerChunkDefault
	}

	doc, err := loadProcessedDocument(ctx, uc.documents, userID, documentID, "generate flashcards")
	if err != nil {
		return nil, err
	}

	chunks := chunkWords(doc.ExtractedText, flashcardChunkWords)
	set := &domain.FlashcardSet{DocumentID: doc.ID, TotalChunks: len(chunks)}

	for i, chunk := range chunks {
		raw, err := uc.completion.CompleteJSON(ctx, buildFlashcardPrompt(chunk, doc.Filename, i, cardsPerChunk), flashcardMaxTokens, 0.4)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("generate flashcards: %w", err)
			}
			uc.logger.Warn("flashcard_chunk_failed", "document_id", doc.ID, "chunk", i, "error", err)
			continue
		}

		var parsed struct {
			Flashcards []domain.Flashcard `json:"flashcards"`
		}
		if err := json.Unmarshal([]byte(extractJSONObject(raw)), &parsed); err != nil {
			uc.logger.Warn("flashcard_chunk_parse_failed", "document_id", doc.ID, "chunk", i, "error", err)
			continue
		}

		for _, card := range parsed.Flashcards {
			if card.Source == "" {
				card.Source = doc.Filename
			}
			card.ChunkIndex = i
			set.Cards = append(set.Cards, card)
		}
	}

	if len(set.Cards) == 0 {
		return nil, domain.WrapError(domain.ErrTemporary, "generate flashcards", fmt.Errorf("no cards produced from %d chunks", len(chunks)))
	}
	return set, nil
}

// loadProcessedDocument loads a document and checks that it belongs to the
// user and has extracted text. Ownership failures read as not-found so
// document ids do not leak across users.
func loadProcessedDocument(ctx context.Context, documents ports.DocumentStore, userID, documentID, operation string) (*domain.Document, error) {
	if documentID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, operation, fmt.Errorf("empty document_id"))
	}
	doc, err := documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	if doc.UserID != userID {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("document %s", documentID))
	}
	if strings.TrimSpace(doc.ExtractedText) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, operation, fmt.Errorf("document %s has no extracted text", documentID))
	}
	return doc, nil
}

// chunkWords splits text into word-bounded chunks of at most maxWords words
// each, so no chunk cuts a word in half.
func chunkWords(text string, maxWords int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	chunks := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	for start := 0; start < len(words); start += maxWords {
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
