package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/repository"
)

// ProfileService manages the caller's qualifying business profile.
type ProfileService struct {
	repo repository.ProfilesRepository
}

// NewProfileService builds a ProfileService.
func NewProfileService(repo repository.ProfilesRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Get returns the caller's profile.
func (s *ProfileService) Get(ctx context.Context, ownerID string) (*entity.BusinessProfile, error) {
	uid, err := parseOwner(ownerID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

// Save validates and stores the caller's profile.
func (s *ProfileService) Save(ctx context.Context, ownerID string, profile entity.BusinessProfile) (*entity.BusinessProfile, error) {
	uid, err := parseOwner(ownerID)
	if err != nil {
		return nil, err
	}
	normalized, err := NormalizeProfile(profile)
	if err != nil {
		return nil, err
	}
	normalized.UserID = uid

	if err := s.repo.Upsert(ctx, &normalized); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return &normalized, nil
}
