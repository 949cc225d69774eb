package localfs

import (
	"bytes"
	"context"
	"io"
	"testing"
)

func TestSaveThenOpenRoundTrip(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := storage.Save(context.Background(), "doc-1_notes.pdf", bytes.NewBufferString("payload")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reader, err := storage.Open(context.Background(), "doc-1_notes.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "payload" {
		t.Fatalf("expected payload, got %q", raw)
	}
}

func TestRejectsPathEscapeKeys(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, key := range []string{"", "../escape", "a/b", `a\b`, "x..y"} {
		if err := storage.Save(context.Background(), key, bytes.NewBufferString("x")); err == nil {
			t.Fatalf("expected rejection for key %q", key)
		}
		if _, err := storage.Open(context.Background(), key); err == nil {
			t.Fatalf("expected rejection for key %q", key)
		}
	}
}

func TestOpenMissingKey(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := storage.Open(context.Background(), "absent.pdf"); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
