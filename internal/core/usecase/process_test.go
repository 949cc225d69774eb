package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/vanshm/study-assistant/internal/core/domain"
)

type processStoreFake struct {
	doc *domain.Document

	statuses       []domain.DocumentStatus
	lastError      string
	savedText      string
	savedCls       domain.DocumentClassification
	savedEmbedding []float32
}

func (f *processStoreFake) Create(context.Context, *domain.Document) error { return nil }
func (f *processStoreFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.doc == nil {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New("missing"))
	}
	return f.doc, nil
}
func (f *processStoreFake) FindDocuments(context.Context, string, []string) ([]domain.Document, error) {
	return nil, nil
}
func (f *processStoreFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statuses = append(f.statuses, status)
	f.lastError = errMessage
	return nil
}
func (f *processStoreFake) SaveExtraction(_ context.Context, _ string, text string, cls domain.DocumentClassification, embedding []float32) error {
	f.savedText = text
	f.savedCls = cls
	f.savedEmbedding = embedding
	return nil
}

type processExtractorFake struct {
	text string
	err  error
}

func (f *processExtractorFake) Extract(context.Context, *domain.Document) (string, error) {
	return f.text, f.err
}

type processCompletionFake struct {
	response string
}

func (f *processCompletionFake) Complete(context.Context, string, int, float64) (string, error) {
	return "", errors.New("unexpected Complete call")
}

func (f *processCompletionFake) CompleteJSON(context.Context, string, int, float64) (string, error) {
	return f.response, nil
}

type processEmbedderFake struct {
	vector []float32
}

func (f *processEmbedderFake) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("unexpected Embed call")
}

func (f *processEmbedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	return f.vector, nil
}

func TestProcessByIDSuccess(t *testing.T) {
	store := &processStoreFake{doc: &domain.Document{ID: "d1", UserID: "u1"}}
	profiles := &syllabusProfileStoreFake{profile: mathSyllabusProfile()}
	completion := &processCompletionFake{response: `{"subject":"Math","chapter_name":"Algebra"}`}
	embedder := &processEmbedderFake{vector: []float32{0.1, 0.2}}
	uc := NewProcessDocumentUseCase(store, profiles, &processExtractorFake{text: "quadratic equations"}, completion, embedder, nil)

	if err := uc.ProcessByID(context.Background(), "d1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}

	if len(store.statuses) != 2 || store.statuses[0] != domain.StatusProcessing || store.statuses[1] != domain.StatusReady {
		t.Fatalf("expected processing then ready, got %v", store.statuses)
	}
	if store.savedText != "quadratic equations" {
		t.Fatalf("expected extracted text saved, got %q", store.savedText)
	}
	if store.savedCls.Subject != "Math" || store.savedCls.ChapterName != "Algebra" {
		t.Fatalf("expected classification saved, got %+v", store.savedCls)
	}
	if len(store.savedEmbedding) != 2 {
		t.Fatalf("expected embedding saved, got %v", store.savedEmbedding)
	}
}

func TestProcessByIDEmptyTextFails(t *testing.T) {
	store := &processStoreFake{doc: &domain.Document{ID: "d1", UserID: "u1"}}
	uc := NewProcessDocumentUseCase(store, &syllabusProfileStoreFake{}, &processExtractorFake{text: ""}, &processCompletionFake{}, &processEmbedderFake{}, nil)

	err := uc.ProcessByID(context.Background(), "d1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	last := store.statuses[len(store.statuses)-1]
	if last != domain.StatusFailed {
		t.Fatalf("expected failed status, got %v", store.statuses)
	}
	if store.lastError == "" {
		t.Fatalf("expected failure reason recorded")
	}
}

func TestProcessByIDNoSyllabusLeavesUnclassified(t *testing.T) {
	store := &processStoreFake{doc: &domain.Document{ID: "d1", UserID: "u1"}}
	uc := NewProcessDocumentUseCase(store, &syllabusProfileStoreFake{profile: nil}, &processExtractorFake{text: "some notes"}, &processCompletionFake{}, &processEmbedderFake{vector: []float32{1}}, nil)

	if err := uc.ProcessByID(context.Background(), "d1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if store.savedCls.Subject != "" || store.savedCls.ChapterName != "" {
		t.Fatalf("expected unclassified document, got %+v", store.savedCls)
	}
}

func TestProcessByIDClassificationParseFailureDegrades(t *testing.T) {
	store := &processStoreFake{doc: &domain.Document{ID: "d1", UserID: "u1"}}
	profiles := &syllabusProfileStoreFake{profile: mathSyllabusProfile()}
	uc := NewProcessDocumentUseCase(store, profiles, &processExtractorFake{text: "notes"}, &processCompletionFake{response: "not json"}, &processEmbedderFake{vector: []float32{1}}, nil)

	if err := uc.ProcessByID(context.Background(), "d1"); err != nil {
		t.Fatalf("parse failure must degrade to unclassified, got %v", err)
	}
	if store.savedCls != (domain.DocumentClassification{}) {
		t.Fatalf("expected empty classification, got %+v", store.savedCls)
	}
	last := store.statuses[len(store.statuses)-1]
	if last != domain.StatusReady {
		t.Fatalf("expected ready status, got %v", store.statuses)
	}
}

func TestProcessByIDExtractErrorMarksFailed(t *testing.T) {
	store := &processStoreFake{doc: &domain.Document{ID: "d1", UserID: "u1"}}
	uc := NewProcessDocumentUseCase(store, &syllabusProfileStoreFake{}, &processExtractorFake{err: errors.New("corrupt pdf")}, &processCompletionFake{}, &processEmbedderFake{}, nil)

	if err := uc.ProcessByID(context.Background(), "d1"); err == nil {
		t.Fatalf("expected error")
	}
	last := store.statuses[len(store.statuses)-1]
	if last != domain.StatusFailed {
		t.Fatalf("expected failed status, got %v", store.statuses)
	}
}
