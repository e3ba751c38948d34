package wizard

import (
	"context"
	"fmt"
	"log"
	"strings"

	"digitaltalent/career-wizard/internal/models"
	"digitaltalent/career-wizard/internal/repositories"
	"digitaltalent/career-wizard/internal/services"
)

// Step names a wizard page.
type Step string

const (
	StepIntake    Step = "intake"
	StepMatching  Step = "matching"
	StepAssistant Step = "assistant"
)

const maxDefaultNameRunes = 50

// ParsedCV is the result of a successful upload.
type ParsedCV struct {
	Text        string `json:"text"`
	DefaultName string `json:"default_name"`
	ArchiveKey  string `json:"archive_key,omitempty"`
}

// Intake handles CV upload and profile submission.
type Intake struct {
	parser      services.CVParser
	storage     services.StorageService
	profiles    repositories.ProfileRepository
	events      services.EventPublisher
	maxFileSize int64
}

func NewIntake(
	parser services.CVParser,
	storage services.StorageService,
	profiles repositories.ProfileRepository,
	events services.EventPublisher,
	maxFileSize int64,
) *Intake {
	if events == nil {
		events = services.NewNoopPublisher()
	}
	return &Intake{
		parser:      parser,
		storage:     storage,
		profiles:    profiles,
		events:      events,
		maxFileSize: maxFileSize,
	}
}

// DeriveDefaultName returns the first non-blank line of text, trimmed and cut
// to 50 characters. It is only a suggestion for the editable name field.
func DeriveDefaultName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxDefaultNameRunes {
			runes = runes[:maxDefaultNameRunes]
		}
		return strings.TrimSpace(string(runes))
	}
	return ""
}

// SubmitFile parses an uploaded CV. Parse failures come back as *StepError
// so the caller can offer retry or manual entry.
func (i *Intake) SubmitFile(ctx context.Context, token, filename string, data []byte) (*ParsedCV, error) {
	if filename == "" || len(data) == 0 {
		return nil, ErrNoFile
	}
	if i.maxFileSize > 0 && int64(len(data)) > i.maxFileSize {
		return nil, ErrFileTooLarge
	}

	result := &ParsedCV{}
	if i.storage != nil {
		key, err := i.storage.SaveCV(ctx, token, filename, data)
		if err != nil {
			log.Printf("⚠️  Failed to archive CV for session %s: %v\n", token, err)
		} else {
			result.ArchiveKey = key
		}
	}

	text, err := i.parser.Parse(ctx, filename, data)
	if err != nil {
		log.Printf("❌ Failed to parse CV %s for session %s: %v\n", filename, token, err)
		return nil, &StepError{Message: MsgParseFailed, Err: err}
	}

	result.Text = text
	result.DefaultName = DeriveDefaultName(text)

	log.Printf("📄 Parsed CV %s for session %s (%d chars)\n", filename, token, len(text))
	return result, nil
}

// Submit stores the profile and moves the wizard to matching.
func (i *Intake) Submit(ctx context.Context, token string, profile models.Profile) (Step, error) {
	if !profile.HasCV() {
		return StepIntake, ErrEmptyCV
	}

	if err := i.profiles.SaveProfile(ctx, token, profile); err != nil {
		return StepIntake, fmt.Errorf("failed to submit profile: %w", err)
	}

	if err := i.events.Publish(token, services.EventProfileSaved, map[string]any{"name": profile.Name}); err != nil {
		log.Printf("⚠️  Failed to publish %s for session %s: %v\n", services.EventProfileSaved, token, err)
	}

	return StepMatching, nil
}
