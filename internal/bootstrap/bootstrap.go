// Package bootstrap wires infrastructure adapters into the core use cases for
// both binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vanshm/study-assistant/internal/config"
	"github.com/vanshm/study-assistant/internal/core/domain"
	"github.com/vanshm/study-assistant/internal/core/ports"
	"github.com/vanshm/study-assistant/internal/core/usecase"
	"github.com/vanshm/study-assistant/internal/infrastructure/extractor"
	"github.com/vanshm/study-assistant/internal/infrastructure/llm/openai"
	"github.com/vanshm/study-assistant/internal/infrastructure/queue/nats"
	"github.com/vanshm/study-assistant/internal/infrastructure/repository/postgres"
	"github.com/vanshm/study-assistant/internal/infrastructure/resilience"
	"github.com/vanshm/study-assistant/internal/infrastructure/storage/localfs"
	"github.com/vanshm/study-assistant/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue     ports.MessageQueue
	Documents ports.DocumentStore

	QueryUC     ports.QueryService
	IngestUC    ports.DocumentIngestor
	ProcessUC   ports.DocumentProcessor
	ProfileUC   ports.ProfileService
	QuizUC      ports.QuizService
	FlashcardUC ports.FlashcardService
	SlideUC     ports.SlideService
	RoadmapUC   ports.RoadmapService

	closeFn func()
}

type Options struct {
	// RetrievalMetrics, when set, receives per-query retrieval observations.
	RetrievalMetrics *metrics.RetrievalRecorder
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	documents := postgres.NewDocumentStore(db)
	if err := documents.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure documents schema: %w", err)
	}
	profiles := postgres.NewProfileStore(db)
	if err := profiles.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure profiles schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	llmClient := openai.New(
		cfg.LLMBaseURL,
		cfg.LLMAPIKey,
		cfg.LLMGenModel,
		cfg.LLMEmbedModel,
		openai.WithExecutor(executor),
	)

	classifier := usecase.NewClassifier(llmClient)
	filter := usecase.NewSyllabusFilter(llmClient, profiles, logger)
	semantic := usecase.NewSemanticRanker(llmClient)
	textExtractor := extractor.New(storage)

	queryOpts := []usecase.QueryOption{}
	if cfg.DefaultClassification != "" {
		label, ok := domain.NormalizeClassification(cfg.DefaultClassification)
		if !ok {
			queue.Close()
			_ = db.Close()
			return nil, fmt.Errorf("invalid default classification %q", cfg.DefaultClassification)
		}
		queryOpts = append(queryOpts, usecase.WithDefaultClassification(label))
	}
	if opts.RetrievalMetrics != nil {
		queryOpts = append(queryOpts, usecase.WithRetrievalMetrics(opts.RetrievalMetrics))
	}

	queryUC := usecase.NewQueryUseCase(classifier, filter, semantic, documents, profiles, llmClient, logger, queryOpts...)
	ingestUC := usecase.NewIngestDocumentUseCase(documents, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(documents, profiles, textExtractor, llmClient, llmClient, logger)
	profileUC := usecase.NewProfileUseCase(profiles)
	quizUC := usecase.NewQuizUseCase(profiles, llmClient)
	flashcardUC := usecase.NewFlashcardUseCase(documents, llmClient, logger)
	slideUC := usecase.NewSlideUseCase(documents, llmClient)
	roadmapUC := usecase.NewRoadmapUseCase(profiles, llmClient)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:     queue,
		Documents: documents,

		QueryUC:     queryUC,
		IngestUC:    ingestUC,
		ProcessUC:   processUC,
		ProfileUC:   profileUC,
		QuizUC:      quizUC,
		FlashcardUC: flashcardUC,
		SlideUC:     slideUC,
		RoadmapUC:   roadmapUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
