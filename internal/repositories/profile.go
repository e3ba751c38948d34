package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"digitaltalent/career-wizard/internal/models"
)

// Keys written by the wizard. They match the browser client's storage keys.
const (
	KeyUserProfile        = "userProfile"
	KeySelectedOccupation = "selectedOccupation"
)

// ProfileRepository reads and writes the wizard hand-off values. Every load
// returns a fresh copy; a missing or malformed value is reported as ErrNotFound.
type ProfileRepository interface {
	SaveProfile(ctx context.Context, token string, profile models.Profile) error
	LoadProfile(ctx context.Context, token string) (*models.Profile, error)
	SaveSelection(ctx context.Context, token string, occ models.OccupationCandidate) (bool, error)
	LoadSelection(ctx context.Context, token string) (*models.OccupationCandidate, error)
	Clear(ctx context.Context, token string) error
}

type profileRepository struct {
	store SessionStore
}

func NewProfileRepository(store SessionStore) ProfileRepository {
	return &profileRepository{store: store}
}

// SaveProfile implements ProfileRepository.
func (r *profileRepository) SaveProfile(ctx context.Context, token string, profile models.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if err := r.store.Put(ctx, token, KeyUserProfile, data); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

// LoadProfile implements ProfileRepository.
func (r *profileRepository) LoadProfile(ctx context.Context, token string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.load(ctx, token, KeyUserProfile, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveSelection implements ProfileRepository. It overwrites only the
// occupation slot and reports whether a write happened: re-selecting the
// stored occupation is a no-op.
func (r *profileRepository) SaveSelection(ctx context.Context, token string, occ models.OccupationCandidate) (bool, error) {
	data, err := json.Marshal(occ)
	if err != nil {
		return false, fmt.Errorf("failed to encode selection: %w", err)
	}

	current, err := r.store.Get(ctx, token, KeySelectedOccupation)
	if err == nil && bytes.Equal(current, data) {
		return false, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("failed to read selection: %w", err)
	}

	if err := r.store.Put(ctx, token, KeySelectedOccupation, data); err != nil {
		return false, fmt.Errorf("failed to save selection: %w", err)
	}

	return true, nil
}

// LoadSelection implements ProfileRepository.
func (r *profileRepository) LoadSelection(ctx context.Context, token string) (*models.OccupationCandidate, error) {
	var occ models.OccupationCandidate
	if err := r.load(ctx, token, KeySelectedOccupation, &occ); err != nil {
		return nil, err
	}
	return &occ, nil
}

// Clear implements ProfileRepository.
func (r *profileRepository) Clear(ctx context.Context, token string) error {
	return r.store.Clear(ctx, token)
}

func (r *profileRepository) load(ctx context.Context, token, key string, out any) error {
	data, err := r.store.Get(ctx, token, key)
	if err != nil {
		return err
	}

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return ErrNotFound
	}

	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("⚠️  Ignoring malformed %s for session %s: %v\n", key, token, err)
		return ErrNotFound
	}

	return nil
}
