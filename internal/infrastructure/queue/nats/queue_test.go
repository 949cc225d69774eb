package nats

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/nats-io/nats.go"
)

type countingLogHandler struct {
	records *int
}

func (h countingLogHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h countingLogHandler) Handle(context.Context, slog.Record) error {
	*h.records++
	return nil
}
func (h countingLogHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h countingLogHandler) WithGroup(string) slog.Handler      { return h }

func captureLogRecords(t *testing.T) *int {
	t.Helper()
	records := 0
	previous := slog.Default()
	slog.SetDefault(slog.New(countingLogHandler{records: &records}))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &records
}

func TestDispatchDocumentEventCallsHandler(t *testing.T) {
	var got string
	dispatchDocumentEvent(context.Background(), func(_ context.Context, documentID string) error {
		got = documentID
		return nil
	}, []byte("doc-42"))

	if got != "doc-42" {
		t.Fatalf("expected handler to receive document id, got %q", got)
	}
}

func TestDispatchDocumentEventDoesNotRelogHandlerFailure(t *testing.T) {
	records := captureLogRecords(t)

	dispatchDocumentEvent(context.Background(), func(context.Context, string) error {
		return errors.New("extraction failed")
	}, []byte("doc-42"))

	if *records != 0 {
		t.Fatalf("handler failures must be logged by the handler only, got %d records", *records)
	}
}

func TestDispatchDocumentEventSkipsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	dispatchDocumentEvent(ctx, func(context.Context, string) error {
		called = true
		return nil
	}, []byte("doc-42"))

	if called {
		t.Fatalf("handler must not run after the context is canceled")
	}
}

func TestClassifyNATSError(t *testing.T) {
	if class := classifyNATSError(nil); class.Retryable || class.RecordFailure {
		t.Fatalf("nil error must be clean, got %+v", class)
	}
	if class := classifyNATSError(context.Canceled); class.Retryable || class.RecordFailure {
		t.Fatalf("cancellation must not count against the breaker, got %+v", class)
	}
	if class := classifyNATSError(nats.ErrNoServers); !class.Retryable || !class.RecordFailure {
		t.Fatalf("no-servers must be retryable, got %+v", class)
	}
	if class := classifyNATSError(errors.New("bad subject")); class.Retryable {
		t.Fatalf("unknown errors must not retry, got %+v", class)
	}
}
