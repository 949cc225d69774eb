package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vanshm/study-assistant/internal/core/domain"
	"github.com/vanshm/study-assistant/internal/core/ports"
)

const documentClassifyMaxTokens = 200

// ProcessDocumentUseCase runs the worker side of ingestion: extract text,
// classify the document against the owner's syllabus, embed the text and
// persist the result. The status machine is uploaded -> processing ->
// ready/failed.
type ProcessDocumentUseCase struct {
	documents  ports.DocumentStore
	profiles   ports.ProfileStore
	extractor  ports.TextExtractor
	completion ports.TextCompletion
	embedder   ports.Embedder
	logger     *slog.Logger
}

func NewProcessDocumentUseCase(
	documents ports.DocumentStore,
	profiles ports.ProfileStore,
	extractor ports.TextExtractor,
	completion ports.TextCompletion,
	embedder ports.Embedder,
	logger *slog.Logger,
) *ProcessDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessDocumentUseCase{
		documents:  documents,
		profiles:   profiles,
		extractor:  extractor,
		completion: completion,
		embedder:   embedder,
		logger:     logger,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.documents.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.processPipeline(ctx, documentID); err != nil {
		if failErr := uc.documents.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.documents.UpdateStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) error {
	doc, err := uc.documents.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}

	classification, err := uc.classifyAgainstSyllabus(ctx, doc.UserID, text)
	if err != nil {
		return err
	}

	embedding, err := uc.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return fmt.Errorf("embed document text: %w", err)
	}

	if err := uc.documents.SaveExtraction(ctx, doc.ID, text, classification, embedding); err != nil {
		return fmt.Errorf("save extraction: %w", err)
	}
	return nil
}

// classifyAgainstSyllabus labels the document with the closest subject and
// chapter from the owner's syllabus. A user without a syllabus gets an
// unclassified document, which the retrieval path treats as unfiltered.
func (uc *ProcessDocumentUseCase) classifyAgainstSyllabus(ctx context.Context, userID, text string) (domain.DocumentClassification, error) {
	profile, err := uc.profiles.FindProfile(ctx, userID)
	if err != nil {
		return domain.DocumentClassification{}, fmt.Errorf("fetch owner profile: %w", err)
	}
	if profile == nil || len(profile.Syllabus) == 0 {
		return domain.DocumentClassification{}, nil
	}

	syllabusJSON, err := json.Marshal(profile.Syllabus)
	if err != nil {
		return domain.DocumentClassification{}, fmt.Errorf("marshal syllabus: %w", err)
	}

	raw, err := uc.completion.CompleteJSON(ctx, buildDocumentClassificationPrompt(text, string(syllabusJSON)), documentClassifyMaxTokens, 0.2)
	if err != nil {
		return domain.DocumentClassification{}, fmt.Errorf("classify document: %w", err)
	}

	var cls domain.DocumentClassification
	if parseErr := json.Unmarshal([]byte(extractJSONObject(raw)), &cls); parseErr != nil {
		// Unclassified beats failed: the document stays searchable.
		uc.logger.Warn("document_classification_parse_failed",
			"user_id", userID,
			"error", parseErr,
		)
		return domain.DocumentClassification{}, nil
	}
	return cls, nil
}
