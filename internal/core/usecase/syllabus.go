package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vanshm/study-assistant/internal/core/domain"
	"github.com/vanshm/study-assistant/internal/core/ports"
)

const syllabusResolveMaxTokens = 3000

// SyllabusFilter narrows study-related queries to the subjects and chapters
// of the user's syllabus. Explicit filters short-circuit; everything that can
// go wrong while mapping the query against the syllabus degrades to an
// unfiltered search rather than failing the request.
type SyllabusFilter struct {
	completion ports.TextCompletion
	profiles   ports.ProfileStore
	logger     *slog.Logger
}

func NewSyllabusFilter(completion ports.TextCompletion, profiles ports.ProfileStore, logger *slog.Logger) *SyllabusFilter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyllabusFilter{completion: completion, profiles: profiles, logger: logger}
}

type syllabusResolution struct {
	Subjects []string `json:"subjects"`
	Chapters []string `json:"chapters"`
}

// ResolveSubjects returns the subject and chapter filters for a query.
// Either slice may be empty, which means "do not filter".
func (f *SyllabusFilter) ResolveSubjects(ctx context.Context, queryText string, params domain.QueryParams) (subjects, chapters []string, err error) {
	if params.Subject != "" || params.Chapter != "" {
		if params.Subject != "" {
			subjects = []string{params.Subject}
		}
		if params.Chapter != "" {
			chapters = []string{params.Chapter}
		}
		return subjects, chapters, nil
	}

	if params.UserID == "" {
		return nil, nil, nil
	}

	profile, err := f.profiles.FindProfile(ctx, params.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch profile for syllabus filter: %w", err)
	}
	if profile == nil || len(profile.Syllabus) == 0 {
		return nil, nil, nil
	}

	syllabusJSON, err := json.Marshal(profile.Syllabus)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal syllabus: %w", err)
	}

	raw, err := f.completion.CompleteJSON(ctx, buildSyllabusPrompt(queryText, string(syllabusJSON)), syllabusResolveMaxTokens, 0.2)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve syllabus filter: %w", err)
	}

	var resolution syllabusResolution
	if parseErr := json.Unmarshal([]byte(extractJSONObject(raw)), &resolution); parseErr != nil {
		// Fail open: an unfilterable query searches everything.
		f.logger.Warn("syllabus_filter_parse_failed",
			"user_id", params.UserID,
			"error", parseErr,
		)
		return nil, nil, nil
	}

	subjects = keepKnownSubjects(compactStrings(resolution.Subjects), profile.SyllabusSubjects())
	return subjects, compactStrings(resolution.Chapters), nil
}

// keepKnownSubjects drops resolved subjects the syllabus does not contain.
// An invented subject would turn the filter into an empty result set instead
// of a narrowed one. Matching is case-insensitive and the syllabus spelling
// wins, since that is what the documents are labeled with.
func keepKnownSubjects(resolved, syllabus []string) []string {
	if len(resolved) == 0 {
		return nil
	}
	known := make(map[string]string, len(syllabus))
	for _, subject := range syllabus {
		known[strings.ToLower(subject)] = subject
	}
	out := make([]string, 0, len(resolved))
	for _, subject := range resolved {
		if canonical, ok := known[strings.ToLower(subject)]; ok {
			out = append(out, canonical)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
