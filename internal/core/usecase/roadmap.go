package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vanshm/study-assistant/internal/core/domain"
	"github.com/vanshm/study-assistant/internal/core/ports"
)

const roadmapMaxTokens = 3000

// RoadmapUseCase generates a study roadmap from a user prompt and persists it
// on the profile.
type RoadmapUseCase struct {
	profiles   ports.ProfileStore
	completion ports.TextCompletion
	now        func() time.Time
}

func NewRoadmapUseCase(profiles ports.ProfileStore, completion ports.TextCompletion) *RoadmapUseCase {
	return &RoadmapUseCase{
		profiles:   profiles,
		completion: completion,
		now:        time.Now,
	}
}

func (uc *RoadmapUseCase) Generate(ctx context.Context, userID, prompt string) (*domain.Roadmap, error) {
	if userID == "" {
		return nil, domain.WrapError(domain.ErrMissingUserID, "generate roadmap", fmt.Errorf("empty user_id"))
	}

	profile, err := uc.profiles.FindProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return nil, domain.WrapError(domain.ErrProfileNotFound, "generate roadmap", fmt.Errorf("user %s", userID))
	}

	raw, err := uc.completion.CompleteJSON(ctx, buildRoadmapPrompt(prompt, uc.now().UTC()), roadmapMaxTokens, 0.3)
	if err != nil {
		return nil, fmt.Errorf("generate roadmap: %w", err)
	}

	var roadmap domain.Roadmap
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &roadmap); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse roadmap json", err)
	}
	if len(roadmap.Steps) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse roadmap json", fmt.Errorf("roadmap has no steps"))
	}
	roadmap.CreatedAt = uc.now().UTC()

	if err := uc.profiles.SaveRoadmap(ctx, userID, &roadmap); err != nil {
		return nil, fmt.Errorf("save roadmap: %w", err)
	}
	return &roadmap, nil
}

func (uc *RoadmapUseCase) Get(ctx context.Context, userID string) (*domain.Roadmap, error) {
	if userID == "" {
		return nil, domain.WrapError(domain.ErrMissingUserID, "get roadmap", fmt.Errorf("empty user_id"))
	}
	profile, err := uc.profiles.FindProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil || profile.Roadmap == nil {
		return nil, domain.WrapError(domain.ErrProfileNotFound, "get roadmap", fmt.Errorf("no roadmap for user %s", userID))
	}
	return profile.Roadmap, nil
}

func (uc *RoadmapUseCase) MarkStepComplete(ctx context.Context, userID string, stepIndex int) (*domain.Roadmap, error) {
	roadmap, err := uc.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stepIndex < 0 || stepIndex >= len(roadmap.Steps) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "mark step complete", fmt.Errorf("step index %d out of range", stepIndex))
	}

	roadmap.Steps[stepIndex].Completed = true
	if err := uc.profiles.SaveRoadmap(ctx, userID, roadmap); err != nil {
		return nil, fmt.Errorf("save roadmap: %w", err)
	}
	return roadmap, nil
}
