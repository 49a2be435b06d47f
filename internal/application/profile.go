package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/input"
	"dinnerbell/internal/ports/output"
)

type ProfileService struct {
	profileRepo output.ProfileRepository
	now         func() time.Time
}

func NewProfileService(profileRepo output.ProfileRepository, now func() time.Time) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, now: now}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*entities.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.profileRepo.FindByID(ctx, userID)
}

// Update edits the caller's profile, creating it on first use.
func (s *ProfileService) Update(ctx context.Context, userID string, patch input.ProfilePatch) (*entities.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	profile, err := s.profileRepo.FindByID(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		profile = &entities.Profile{ID: userID}
	case err != nil:
		return nil, err
	}
	if patch.Name != nil {
		profile.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Phone != nil {
		profile.Phone = strings.TrimSpace(*patch.Phone)
		if profile.Phone != "" {
			if profile.Phone, err = NormalizeContact(profile.Phone); err != nil {
				return nil, err
			}
		}
	}
	if patch.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*patch.AvatarURL)
	}
	if patch.Locale != nil {
		profile.Locale = strings.TrimSpace(*patch.Locale)
	}
	profile.UpdatedAt = s.now()
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// RegisterPushToken stores the device token used for pushes to this user.
// An empty token unregisters the device.
func (s *ProfileService) RegisterPushToken(ctx context.Context, userID, token string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrUnauthenticated
	}
	token = strings.TrimSpace(token)
	if _, err := s.profileRepo.FindByID(ctx, userID); errors.Is(err, domain.ErrProfileNotFound) {
		if err := s.profileRepo.Upsert(ctx, &entities.Profile{ID: userID, UpdatedAt: s.now()}); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
	} else if err != nil {
		return err
	}
	return s.profileRepo.SetPushToken(ctx, userID, token)
}
