package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/vanshm/study-assistant/internal/core/domain"
	"github.com/vanshm/study-assistant/internal/core/ports"
)

// ProfileUseCase is thin CRUD over the profile store with the caller-contract
// checks the store should not have to repeat.
type ProfileUseCase struct {
	profiles ports.ProfileStore
}

func NewProfileUseCase(profiles ports.ProfileStore) *ProfileUseCase {
	return &ProfileUseCase{profiles: profiles}
}

func (uc *ProfileUseCase) Create(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.UserID == "" {
		return domain.WrapError(domain.ErrInvalidInput, "create profile", fmt.Errorf("missing user_id"))
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if err := uc.profiles.CreateProfile(ctx, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (uc *ProfileUseCase) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, domain.WrapError(domain.ErrMissingUserID, "get profile", fmt.Errorf("empty user_id"))
	}
	profile, err := uc.profiles.FindProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return nil, domain.WrapError(domain.ErrProfileNotFound, "get profile", fmt.Errorf("user %s", userID))
	}
	return profile, nil
}

func (uc *ProfileUseCase) Update(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.UserID == "" {
		return domain.WrapError(domain.ErrInvalidInput, "update profile", fmt.Errorf("missing user_id"))
	}
	profile.UpdatedAt = time.Now().UTC()
	if err := uc.profiles.UpdateProfile(ctx, profile); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
