package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"digitaltalent/career-wizard/internal/models"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore keeps session entries in the wizard_entries table.
func NewGormStore(db *gorm.DB) SessionStore {
	return &gormStore{db: db}
}

// Get implements SessionStore.
func (g *gormStore) Get(ctx context.Context, token, key string) ([]byte, error) {
	var entry models.WizardEntry
	err := g.db.WithContext(ctx).
		Where("token = ? AND entry_key = ?", token, key).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}

	return []byte(entry.Value), nil
}

// Put implements SessionStore.
func (g *gormStore) Put(ctx context.Context, token, key string, value []byte) error {
	entry := models.WizardEntry{
		Token:     token,
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}

	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}

	return nil
}

// Clear implements SessionStore.
func (g *gormStore) Clear(ctx context.Context, token string) error {
	if err := g.db.WithContext(ctx).Where("token = ?", token).Delete(&models.WizardEntry{}).Error; err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}

// Close implements SessionStore.
func (g *gormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
