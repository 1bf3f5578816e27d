package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"qiyas/internal/domain"
)

// ProfileInput is the editable content of the profile.
type ProfileInput struct {
	Name     string     `validate:"max=100"`
	Age      *int       `validate:"omitempty,gt=0,lt=150"`
	HeightCm *float64   `validate:"omitempty,gt=0,lt=300"`
	Sex      domain.Sex `validate:"oneof=male female"`
}

// ProfileService manages the installation's single profile.
type ProfileService struct {
	repo domain.ProfileRepository
	now  func() time.Time
}

// NewProfileService creates a ProfileService backed by the given repository.
func NewProfileService(repo domain.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo, now: time.Now}
}

// Get returns the profile, or nil if it was never saved.
func (s *ProfileService) Get(ctx context.Context) (*domain.Profile, error) {
	return s.repo.GetProfile(ctx)
}

// Save validates and stores the profile, replacing any previous one.
func (s *ProfileService) Save(ctx context.Context, in ProfileInput) (*domain.Profile, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	p := domain.Profile{
		Name:      strings.TrimSpace(in.Name),
		Age:       in.Age,
		HeightCm:  in.HeightCm,
		Sex:       in.Sex,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	slog.InfoContext(ctx, "profile saved", "sex", p.Sex, "has_height", p.HeightCm != nil)
	return &p, nil
}
