package ports

import (
	"context"
	"io"

	"github.com/vanshm/study-assistant/internal/core/domain"
)

// TextCompletion generates text from the external model. Classification,
// syllabus resolution and answer generation all go through it; retry and
// timeout policy live in the implementation, not in the core.
type TextCompletion interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
	CompleteJSON(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// Embedder builds vectors for document texts and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// DocumentStore reads and writes indexed study documents.
type DocumentStore interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	// FindDocuments returns a user's documents, narrowed to the given
	// subjects when the set is non-empty.
	FindDocuments(ctx context.Context, userID string, subjects []string) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveExtraction(ctx context.Context, id string, text string, cls domain.DocumentClassification, embedding []float32) error
}

// ProfileStore reads and writes user profiles, including the persisted
// roadmap. FindProfile returns (nil, nil) when the user has no profile.
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	FindProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
	SaveRoadmap(ctx context.Context, userID string, roadmap *domain.Roadmap) error
}

// ObjectStorage stores uploaded source files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes document ingestion events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}
