package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vanshm/study-assistant/internal/core/domain"
)

const answerMaxTokens = 5000

// ProcessQuery retrieves grounding material for the query and generates the
// final answer. The prompt has three terminal shapes: grounded in documents,
// grounded in the profile, or an ungrounded fallback flagged in ParamsInfo.
func (uc *QueryUseCase) ProcessQuery(ctx context.Context, queryText string, params domain.QueryParams) (*domain.QueryResponse, error) {
	result, err := uc.Retrieve(ctx, queryText, params)
	if err != nil {
		return nil, err
	}

	prompt, paramsInfo := uc.assemblePrompt(queryText, result)

	generated, err := uc.generator.Complete(ctx, prompt+" Only reply in plaintext and not markdown.", answerMaxTokens, 0.3)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.QueryResponse{
		ParamsInfo:    paramsInfo,
		GeneratedText: strings.TrimSpace(generated),
	}, nil
}

func (uc *QueryUseCase) assemblePrompt(queryText string, result domain.RetrievalResult) (prompt, paramsInfo string) {
	switch r := result.(type) {
	case domain.StudyResult:
		if len(r.Documents) == 0 {
			return buildFallbackAnswerPrompt(queryText),
				"No relevant documents found. Do not blindly trust the generated text."
		}
		return buildGroundedAnswerPrompt(r.Documents, queryText),
			fmt.Sprintf("Looking into study_docs in subject '%s' chapter '%s'.",
				strings.Join(r.Subjects, ", "), strings.Join(r.Chapters, ", "))

	case domain.ProfileResult:
		if r.Profile == nil {
			return buildFallbackAnswerPrompt(queryText),
				"No profile information found. Do not blindly trust the generated text."
		}
		profileJSON, err := json.MarshalIndent(r.Profile, "", "    ")
		if err != nil {
			// Marshaling a Profile cannot realistically fail; degrade to
			// the fallback shape rather than aborting the request.
			uc.logger.Error("profile_serialize_failed", "error", err)
			return buildFallbackAnswerPrompt(queryText), "No relevant information found."
		}
		return buildProfileAnswerPrompt(string(profileJSON), queryText),
			"User profile information retrieved."

	default:
		return buildFallbackAnswerPrompt(queryText), "No relevant information found."
	}
}
