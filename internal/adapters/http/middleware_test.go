package httpadapter

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitMiddlewareRejectsBurstOverflow(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rateLimitMiddleware(1, 2, next)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		codes = append(codes, res.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("expected burst of 2 allowed, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request limited, got %v", codes)
	}
}

func TestRateLimitMiddlewareIsPerClient(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rateLimitMiddleware(1, 1, next)

	first := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	firstRes := httptest.NewRecorder()
	handler.ServeHTTP(firstRes, first)

	second := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	secondRes := httptest.NewRecorder()
	handler.ServeHTTP(secondRes, second)

	if firstRes.Code != http.StatusOK || secondRes.Code != http.StatusOK {
		t.Fatalf("expected independent buckets per client, got %d and %d", firstRes.Code, secondRes.Code)
	}
}
