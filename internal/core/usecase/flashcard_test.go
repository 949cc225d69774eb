package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vanshm/study-assistant/internal/core/domain"
)

type studyAidDocStoreFake struct {
	doc *domain.Document
	err error
}

func (f *studyAidDocStoreFake) Create(context.Context, *domain.Document) error { return nil }
func (f *studyAidDocStoreFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}
func (f *studyAidDocStoreFake) FindDocuments(context.Context, string, []string) ([]domain.Document, error) {
	return nil, nil
}
func (f *studyAidDocStoreFake) UpdateStatus(context.Context, string, domain.DocumentStatus, string) error {
	return nil
}
func (f *studyAidDocStoreFake) SaveExtraction(context.Context, string, string, domain.DocumentClassification, []float32) error {
	return nil
}

// studyAidCompletionFake scripts one response or error per CompleteJSON call.
type studyAidCompletionFake struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *studyAidCompletionFake) Complete(context.Context, string, int, float64) (string, error) {
	return "", errors.New("unexpected Complete call")
}

func (f *studyAidCompletionFake) CompleteJSON(_ context.Context, prompt string, _ int, _ float64) (string, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

func processedStudyDocument(text string) *domain.Document {
	return &domain.Document{
		ID:            "d1",
		UserID:        "u1",
		Filename:      "bio_notes.pdf",
		ExtractedText: text,
		Status:        domain.StatusReady,
	}
}

func TestGenerateFlashcardsFromDocument(t *testing.T) {
	completion := &studyAidCompletionFake{
		responses: []string{
			`{"flashcards": [{"question": "What is a cell?", "answer": "The basic unit of life.", "topic": "Cells"}]}`,
			`{"flashcards": [{"question": "What is osmosis?", "answer": "Water diffusion across a membrane.", "source": "chapter 2"}]}`,
		},
	}
	store := &studyAidDocStoreFake{doc: processedStudyDocument(strings.Repeat("photosynthesis ", 600))}
	uc := NewFlashcardUseCase(store, completion, nil)

	set, err := uc.GenerateFromDocument(context.Background(), "u1", "d1", 5)
	if err != nil {
		t.Fatalf("GenerateFromDocument() error = %v", err)
	}
	if set.TotalChunks != 2 || completion.calls != 2 {
		t.Fatalf("600 words must split into 2 chunks, got %d chunks and %d calls", set.TotalChunks, completion.calls)
	}
	if len(set.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(set.Cards))
	}
	if set.Cards[0].Source != "bio_notes.pdf" {
		t.Fatalf("empty source must default to the filename, got %q", set.Cards[0].Source)
	}
	if set.Cards[1].Source != "chapter 2" {
		t.Fatalf("model-provided source must be kept, got %q", set.Cards[1].Source)
	}
	if set.Cards[0].ChunkIndex != 0 || set.Cards[1].ChunkIndex != 1 {
		t.Fatalf("cards must carry their chunk index, got %d / %d", set.Cards[0].ChunkIndex, set.Cards[1].ChunkIndex)
	}
	if !strings.Contains(completion.prompts[0], "photosynthesis") {
		t.Fatalf("expected chunk content in prompt")
	}
}

func TestGenerateFlashcardsSkipsFailedChunk(t *testing.T) {
	completion := &studyAidCompletionFake{
		errs: []error{errors.New("model unavailable")},
		responses: []string{
			"",
			`{"flashcards": [{"question": "Q", "answer": "A"}]}`,
		},
	}
	store := &studyAidDocStoreFake{doc: processedStudyDocument(strings.Repeat("mitosis ", 600))}
	uc := NewFlashcardUseCase(store, completion, nil)

	set, err := uc.GenerateFromDocument(context.Background(), "u1", "d1", 0)
	if err != nil {
		t.Fatalf("one failed chunk must not fail the deck, got %v", err)
	}
	if len(set.Cards) != 1 || set.Cards[0].ChunkIndex != 1 {
		t.Fatalf("expected the surviving chunk's card, got %+v", set.Cards)
	}
	if set.TotalChunks != 2 {
		t.Fatalf("failed chunks still count, got %d", set.TotalChunks)
	}
}

func TestGenerateFlashcardsAllChunksFailed(t *testing.T) {
	completion := &studyAidCompletionFake{responses: []string{"not json", "also not json"}}
	store := &studyAidDocStoreFake{doc: processedStudyDocument(strings.Repeat("meiosis ", 600))}
	uc := NewFlashcardUseCase(store, completion, nil)

	_, err := uc.GenerateFromDocument(context.Background(), "u1", "d1", 5)
	if !errors.Is(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary when no cards are produced, got %v", err)
	}
}

func TestGenerateFlashcardsRequiresUserID(t *testing.T) {
	uc := NewFlashcardUseCase(&studyAidDocStoreFake{}, &studyAidCompletionFake{}, nil)
	_, err := uc.GenerateFromDocument(context.Background(), "", "d1", 5)
	if !errors.Is(err, domain.ErrMissingUserID) {
		t.Fatalf("expected ErrMissingUserID, got %v", err)
	}
}

func TestGenerateFlashcardsHidesOtherUsersDocument(t *testing.T) {
	doc := processedStudyDocument("cells divide")
	doc.UserID = "someone-else"
	uc := NewFlashcardUseCase(&studyAidDocStoreFake{doc: doc}, &studyAidCompletionFake{}, nil)

	_, err := uc.GenerateFromDocument(context.Background(), "u1", "d1", 5)
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("another user's document must read as not found, got %v", err)
	}
}

func TestGenerateFlashcardsRequiresExtractedText(t *testing.T) {
	uc := NewFlashcardUseCase(&studyAidDocStoreFake{doc: processedStudyDocument("  ")}, &studyAidCompletionFake{}, nil)

	_, err := uc.GenerateFromDocument(context.Background(), "u1", "d1", 5)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an unprocessed document, got %v", err)
	}
}

func TestChunkWords(t *testing.T) {
	if chunks := chunkWords("   ", 10); chunks != nil {
		t.Fatalf("blank text must produce no chunks, got %v", chunks)
	}

	chunks := chunkWords("a b c d e", 2)
	want := []string{"a b", "c d", "e"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %v", len(want), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}
