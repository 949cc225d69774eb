// Package httpadapter exposes the study assistant's REST surface.
package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vanshm/study-assistant/internal/core/domain"
	"github.com/vanshm/study-assistant/internal/core/ports"
	"github.com/vanshm/study-assistant/internal/observability/metrics"
)

const (
	serviceName      = "api"
	maxUploadBytes   = 64 << 20
	maxJSONBodyBytes = 1 << 20
)

// Router wires the REST handlers to the inbound service ports.
type Router struct {
	queries    ports.QueryService
	ingestor   ports.DocumentIngestor
	documents  ports.DocumentStore
	profiles   ports.ProfileService
	quizzes    ports.QuizService
	flashcards ports.FlashcardService
	slides     ports.SlideService
	roadmaps   ports.RoadmapService
	metrics    *metrics.HTTPServerMetrics
	logger     *slog.Logger

	rateLimitRPS   float64
	rateLimitBurst int
}

type RouterConfig struct {
	Queries    ports.QueryService
	Ingestor   ports.DocumentIngestor
	Documents  ports.DocumentStore
	Profiles   ports.ProfileService
	Quizzes    ports.QuizService
	Flashcards ports.FlashcardService
	Slides     ports.SlideService
	Roadmaps   ports.RoadmapService
	Metrics    *metrics.HTTPServerMetrics
	Logger     *slog.Logger

	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(cfg RouterConfig) *Router {
	return &Router{
		queries:        cfg.Queries,
		ingestor:       cfg.Ingestor,
		documents:      cfg.Documents,
		profiles:       cfg.Profiles,
		quizzes:        cfg.Quizzes,
		flashcards:     cfg.Flashcards,
		slides:         cfg.Slides,
		roadmaps:       cfg.Roadmaps,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
		rateLimitRPS:   cfg.RateLimitRPS,
		rateLimitBurst: cfg.RateLimitBurst,
	}
}

// Handler assembles the mux and the middleware chain. Order matters: request
// id first so every later stage can log it, rate limiting before any handler
// work.
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/query", rt.handleQuery)
	mux.HandleFunc("POST /v1/documents", rt.handleUploadDocument)
	mux.HandleFunc("GET /v1/documents/{document_id}", rt.handleGetDocument)
	mux.HandleFunc("POST /v1/profiles", rt.handleCreateProfile)
	mux.HandleFunc("GET /v1/profiles/{user_id}", rt.handleGetProfile)
	mux.HandleFunc("PUT /v1/profiles/{user_id}", rt.handleUpdateProfile)
	mux.HandleFunc("POST /v1/quizzes", rt.handleGenerateQuiz)
	mux.HandleFunc("POST /v1/quizzes/evaluate", rt.handleEvaluateQuiz)
	mux.HandleFunc("POST /v1/flashcards", rt.handleGenerateFlashcards)
	mux.HandleFunc("POST /v1/slides", rt.handleGenerateSlides)
	mux.HandleFunc("POST /v1/roadmaps", rt.handleGenerateRoadmap)
	mux.HandleFunc("GET /v1/roadmaps", rt.handleGetRoadmap)
	mux.HandleFunc("POST /v1/roadmaps/steps/complete", rt.handleCompleteRoadmapStep)
	mux.HandleFunc("GET /healthz", rt.handleHealthz)
	mux.Handle("GET /metrics", rt.metrics.Handler())

	var handler http.Handler = mux
	handler = rt.metrics.Middleware(serviceName, handler)
	if rt.rateLimitRPS > 0 {
		handler = rateLimitMiddleware(rt.rateLimitRPS, rt.rateLimitBurst, handler)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	handler = requestIDMiddleware(handler)
	return handler
}

type queryRequest struct {
	Query  string             `json:"query"`
	Params domain.QueryParams `json:"params"`
}

func (rt *Router) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		rt.writeErrorMessage(w, http.StatusBadRequest, "query text is required")
		return
	}

	start := time.Now()
	response, err := rt.queries.ProcessQuery(r.Context(), req.Query, req.Params)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.metrics.ObserveQueryDuration(serviceName, time.Since(start))

	writeJSON(w, http.StatusOK, response)
}

func (rt *Router) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		rt.writeErrorMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	userID := strings.TrimSpace(r.FormValue("user_id"))
	file, header, err := r.FormFile("file")
	if err != nil {
		rt.writeErrorMessage(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	doc, err := rt.ingestor.Upload(r.Context(), userID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("document_id")

	doc, err := rt.documents.GetByID(r.Context(), documentID)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.Profile
	if !rt.decodeJSON(w, r, &profile) {
		return
	}
	if strings.TrimSpace(profile.UserID) == "" {
		rt.writeErrorMessage(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := rt.profiles.Create(r.Context(), &profile); err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

func (rt *Router) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := rt.profiles.Get(r.Context(), r.PathValue("user_id"))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (rt *Router) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.Profile
	if !rt.decodeJSON(w, r, &profile) {
		return
	}
	profile.UserID = r.PathValue("user_id")

	if err := rt.profiles.Update(r.Context(), &profile); err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type quizRequest struct {
	UserID       string   `json:"user_id"`
	Portion      []string `json:"portion,omitempty"`
	NumQuestions int      `json:"num_questions"`
}

func (rt *Router) handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}

	quiz, err := rt.quizzes.Generate(r.Context(), req.UserID, req.Portion, req.NumQuestions)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}

type quizEvaluationRequest struct {
	Quiz    *domain.Quiz   `json:"quiz"`
	Answers map[int]string `json:"answers"`
}

func (rt *Router) handleEvaluateQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizEvaluationRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}
	if req.Quiz == nil {
		rt.writeErrorMessage(w, http.StatusBadRequest, "quiz is required")
		return
	}

	evaluation, err := rt.quizzes.Evaluate(req.Quiz, req.Answers)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, evaluation)
}

type flashcardRequest struct {
	UserID        string `json:"user_id"`
	DocumentID    string `json:"document_id"`
	CardsPerChunk int    `json:"cards_per_chunk,omitempty"`
}

func (rt *Router) handleGenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	var req flashcardRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}

	set, err := rt.flashcards.GenerateFromDocument(r.Context(), req.UserID, req.DocumentID, req.CardsPerChunk)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, set)
}

type slideRequest struct {
	UserID     string `json:"user_id"`
	DocumentID string `json:"document_id"`
}

func (rt *Router) handleGenerateSlides(w http.ResponseWriter, r *http.Request) {
	var req slideRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}

	deck, err := rt.slides.GenerateFromDocument(r.Context(), req.UserID, req.DocumentID)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deck)
}

type roadmapRequest struct {
	UserID string `json:"user_id"`
	Prompt string `json:"prompt"`
}

func (rt *Router) handleGenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req roadmapRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}

	roadmap, err := rt.roadmaps.Generate(r.Context(), req.UserID, req.Prompt)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, roadmap)
}

func (rt *Router) handleGetRoadmap(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		rt.writeErrorMessage(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	roadmap, err := rt.roadmaps.Get(r.Context(), userID)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, roadmap)
}

type roadmapStepRequest struct {
	UserID    string `json:"user_id"`
	StepIndex int    `json:"step_index"`
}

func (rt *Router) handleCompleteRoadmapStep(w http.ResponseWriter, r *http.Request) {
	var req roadmapStepRequest
	if !rt.decodeJSON(w, r, &req) {
		return
	}

	roadmap, err := rt.roadmaps.MarkStepComplete(r.Context(), req.UserID, req.StepIndex)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, roadmap)
}

func (rt *Router) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		rt.writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError && !errors.Is(err, context.Canceled) {
		rt.logger.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (rt *Router) writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
