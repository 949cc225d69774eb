package ports

import (
	"context"
	"io"

	"github.com/vanshm/study-assistant/internal/core/domain"
)

// QueryService is the inbound contract for classified retrieval and answer
// generation.
type QueryService interface {
	ProcessQuery(ctx context.Context, queryText string, params domain.QueryParams) (*domain.QueryResponse, error)
	Retrieve(ctx context.Context, queryText string, params domain.QueryParams) (domain.RetrievalResult, error)
}

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, userID, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document
// processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// ProfileService manages user profiles.
type ProfileService interface {
	Create(ctx context.Context, profile *domain.Profile) error
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

// QuizService generates and evaluates syllabus-scoped quizzes.
type QuizService interface {
	Generate(ctx context.Context, userID string, portion []string, numQuestions int) (*domain.Quiz, error)
	Evaluate(quiz *domain.Quiz, answers map[int]string) (*domain.QuizEvaluation, error)
}

// FlashcardService generates flashcard decks from processed documents.
type FlashcardService interface {
	GenerateFromDocument(ctx context.Context, userID, documentID string, cardsPerChunk int) (*domain.FlashcardSet, error)
}

// SlideService generates markdown course slides from processed documents.
type SlideService interface {
	GenerateFromDocument(ctx context.Context, userID, documentID string) (*domain.SlideDeck, error)
}

// RoadmapService generates and maintains the study roadmap on a profile.
type RoadmapService interface {
	Generate(ctx context.Context, userID, prompt string) (*domain.Roadmap, error)
	Get(ctx context.Context, userID string) (*domain.Roadmap, error)
	MarkStepComplete(ctx context.Context, userID string, stepIndex int) (*domain.Roadmap, error)
}
