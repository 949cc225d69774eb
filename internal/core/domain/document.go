package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// Document is one indexed study document. Subject and ChapterName stay empty
// until the ingestion worker has classified the extracted text against the
// owner's syllabus.
type Document struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Filename      string         `json:"filename"`
	MimeType      string         `json:"mime_type"`
	StoragePath   string         `json:"storage_path"`
	ExtractedText string         `json:"extracted_text,omitempty"`
	Subject       string         `json:"subject,omitempty"`
	ChapterName   string         `json:"chapter_name,omitempty"`
	Embedding     []float32      `json:"-"`
	Status        DocumentStatus `json:"status"`
	Error         string         `json:"error,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// DocumentClassification is the worker-side labeling of an uploaded document
// against the owner's syllabus.
type DocumentClassification struct {
	Subject     string `json:"subject"`
	ChapterName string `json:"chapter_name"`
}
