package models

import "time"

// WizardEntry is one key of a session's profile store, kept as JSON text.
type WizardEntry struct {
	Token     string    `gorm:"type:text;primaryKey" json:"token"`
	Key       string    `gorm:"column:entry_key;type:text;primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (WizardEntry) TableName() string {
	return "wizard_entries"
}
