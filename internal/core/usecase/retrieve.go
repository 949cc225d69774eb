package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vanshm/study-assistant/internal/core/domain"
	"github.com/vanshm/study-assistant/internal/core/ports"
)

// rerankPoolSize bounds the semantic stage: however large the candidate set,
// at most this many documents are embedded per request.
const rerankPoolSize = 10

// RetrievalMetrics receives per-request retrieval observations. Implemented
// by the observability layer; a nil recorder disables recording.
type RetrievalMetrics interface {
	ObserveRetrieval(classification string, documentCount, poolSize int)
}

// QueryUseCase sequences classification, syllabus filtering, candidate fetch,
// lexical ranking and semantic re-ranking, then assembles the generation
// prompt from the outcome.
type QueryUseCase struct {
	classifier *Classifier
	filter     *SyllabusFilter
	semantic   *SemanticRanker
	documents  ports.DocumentStore
	profiles   ports.ProfileStore
	generator  ports.TextCompletion
	logger     *slog.Logger
	metrics    RetrievalMetrics

	// defaultClassification, when non-empty, replaces an unrecognized
	// classifier verdict instead of failing the request.
	defaultClassification domain.Classification
}

type QueryOption func(*QueryUseCase)

func WithDefaultClassification(label domain.Classification) QueryOption {
	return func(uc *QueryUseCase) { uc.defaultClassification = label }
}

func WithRetrievalMetrics(metrics RetrievalMetrics) QueryOption {
	return func(uc *QueryUseCase) { uc.metrics = metrics }
}

func NewQueryUseCase(
	classifier *Classifier,
	filter *SyllabusFilter,
	semantic *SemanticRanker,
	documents ports.DocumentStore,
	profiles ports.ProfileStore,
	generator ports.TextCompletion,
	logger *slog.Logger,
	opts ...QueryOption,
) *QueryUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	uc := &QueryUseCase{
		classifier: classifier,
		filter:     filter,
		semantic:   semantic,
		documents:  documents,
		profiles:   profiles,
		generator:  generator,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Retrieve runs the retrieval pipeline and returns one of StudyResult,
// ProfileResult or InvalidResult. An unsupported classification is a result,
// not an error; a profile-related query without a user id is an error.
func (uc *QueryUseCase) Retrieve(ctx context.Context, queryText string, params domain.QueryParams) (domain.RetrievalResult, error) {
	classification, err := uc.classifier.Classify(ctx, queryText, params.Classification)
	if err != nil {
		if domain.IsKind(err, domain.ErrClassification) && uc.defaultClassification != "" {
			uc.logger.Warn("classification_defaulted",
				"default", string(uc.defaultClassification),
				"error", err,
			)
			classification = uc.defaultClassification
		} else {
			return nil, err
		}
	}

	switch classification {
	case domain.ClassStudyRelated:
		return uc.retrieveStudy(ctx, queryText, params, classification)
	case domain.ClassProfileRelated:
		return uc.retrieveProfile(ctx, params, classification)
	default:
		return domain.InvalidResult{
			Classification: classification,
			Reason:         "invalid query classification",
		}, nil
	}
}

func (uc *QueryUseCase) retrieveStudy(ctx context.Context, queryText string, params domain.QueryParams, classification domain.Classification) (domain.RetrievalResult, error) {
	subjects, chapters, err := uc.filter.ResolveSubjects(ctx, queryText, params)
	if err != nil {
		return nil, err
	}

	// Chapter filtering stays advisory: candidates are narrowed by subject only.
	candidates, err := uc.documents.FindDocuments(ctx, params.UserID, subjects)
	if err != nil {
		return nil, fmt.Errorf("fetch candidate documents: %w", err)
	}

	if len(candidates) == 0 {
		uc.observe(classification, 0, 0)
		return domain.StudyResult{
			Documents:      []string{},
			Subjects:       subjects,
			Chapters:       chapters,
			Classification: classification,
		}, nil
	}

	ranked := uc.rankCandidates(queryText, candidates)
	pool := ranked
	if len(pool) > rerankPoolSize {
		pool = pool[:rerankPoolSize]
	}

	texts := make([]string, len(pool))
	for i, candidate := range pool {
		texts[i] = candidate.Document.ExtractedText
	}

	semanticScores, err := uc.semantic.Rank(ctx, queryText, texts)
	if err != nil {
		return nil, err
	}
	for i := range pool {
		pool[i].SemanticScore = semanticScores[i]
	}

	// Stable sort keeps the lexical order for equal similarities.
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].SemanticScore > pool[j].SemanticScore
	})

	documents := make([]string, len(pool))
	for i, candidate := range pool {
		documents[i] = candidate.Document.ExtractedText
	}

	uc.observe(classification, len(documents), len(pool))
	return domain.StudyResult{
		Documents:      documents,
		Subjects:       subjects,
		Chapters:       chapters,
		Classification: classification,
	}, nil
}

// rankCandidates orders the full candidate set by BM25 score, descending,
// with a stable sort so equal scores keep store order.
func (uc *QueryUseCase) rankCandidates(queryText string, candidates []domain.Document) []domain.RankedCandidate {
	texts := make([]string, len(candidates))
	for i, doc := range candidates {
		texts[i] = doc.ExtractedText
	}
	scores := rankLexical(queryText, texts)

	ranked := make([]domain.RankedCandidate, len(candidates))
	for i, doc := range candidates {
		ranked[i] = domain.RankedCandidate{Document: doc, LexicalScore: scores[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LexicalScore > ranked[j].LexicalScore
	})
	return ranked
}

func (uc *QueryUseCase) retrieveProfile(ctx context.Context, params domain.QueryParams, classification domain.Classification) (domain.RetrievalResult, error) {
	if params.UserID == "" {
		return nil, domain.WrapError(domain.ErrMissingUserID, "profile retrieval", fmt.Errorf("profile-related query without user_id"))
	}

	profile, err := uc.profiles.FindProfile(ctx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	uc.observe(classification, 0, 0)
	return domain.ProfileResult{
		Profile:        profile,
		Classification: classification,
	}, nil
}

func (uc *QueryUseCase) observe(classification domain.Classification, documentCount, poolSize int) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.ObserveRetrieval(string(classification), documentCount, poolSize)
}
