package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digitaltalent/career-wizard/internal/models"
	"digitaltalent/career-wizard/internal/repositories"
	"digitaltalent/career-wizard/internal/services"
)

func TestDeriveDefaultName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "first line", text: "Siti Rahma\nData Analyst", want: "Siti Rahma"},
		{name: "skips blank lines", text: "\n   \n\t\nBudi Santoso\nGo", want: "Budi Santoso"},
		{name: "trims surrounding space", text: "   Andi  \r\nRest", want: "Andi"},
		{name: "truncates to 50", text: strings.Repeat("A", 80) + "\nx", want: strings.Repeat("A", 50)},
		{name: "counts characters not bytes", text: strings.Repeat("é", 60), want: strings.Repeat("é", 50)},
		{name: "exactly 50", text: strings.Repeat("B", 50), want: strings.Repeat("B", 50)},
		{name: "empty", text: "", want: ""},
		{name: "only blanks", text: " \n\t\n ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveDefaultName(tt.text)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), 50)
		})
	}
}

func newTestIntake(parser *fakeParser, storage *fakeStorage) (*Intake, repositories.ProfileRepository, *recordingPublisher) {
	profiles := repositories.NewProfileRepository(repositories.NewMemoryStore())
	events := &recordingPublisher{}
	var store services.StorageService
	if storage != nil {
		store = storage
	}
	return NewIntake(parser, store, profiles, events, 1024), profiles, events
}

func TestSubmitFileSuccess(t *testing.T) {
	parser := &fakeParser{text: "\nSiti Rahma\nData Analyst\nSQL"}
	storage := &fakeStorage{}
	intake, _, _ := newTestIntake(parser, storage)

	parsed, err := intake.SubmitFile(context.Background(), "tok", "cv.pdf", []byte("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, parser.text, parsed.Text)
	assert.Equal(t, "Siti Rahma", parsed.DefaultName)
	assert.Equal(t, "tok/cv.pdf", parsed.ArchiveKey)
	assert.Equal(t, []string{"tok/cv.pdf"}, storage.saved)
}

func TestSubmitFileParseFailureIsRecoverable(t *testing.T) {
	parser := &fakeParser{err: errConnRefused}
	intake, _, _ := newTestIntake(parser, nil)

	_, err := intake.SubmitFile(context.Background(), "tok", "cv.pdf", []byte("%PDF"))

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "Gagal membaca CV. Silakan coba lagi atau isi manual.", stepErr.Message)
	assert.ErrorIs(t, err, errConnRefused)

	// the step stays usable: a retry goes through
	parser.err = nil
	parser.text = "Budi"
	parsed, err := intake.SubmitFile(context.Background(), "tok", "cv.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "Budi", parsed.DefaultName)
	assert.Equal(t, 2, parser.calls)
}

func TestSubmitFileArchiveFailureIsIgnored(t *testing.T) {
	parser := &fakeParser{text: "Budi"}
	intake, _, _ := newTestIntake(parser, &fakeStorage{err: errors.New("bucket missing")})

	parsed, err := intake.SubmitFile(context.Background(), "tok", "cv.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Empty(t, parsed.ArchiveKey)
	assert.Equal(t, "Budi", parsed.Text)
}

func TestSubmitFileValidation(t *testing.T) {
	parser := &fakeParser{text: "x"}
	intake, _, _ := newTestIntake(parser, nil)
	ctx := context.Background()

	_, err := intake.SubmitFile(ctx, "tok", "cv.pdf", nil)
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = intake.SubmitFile(ctx, "tok", "", []byte("x"))
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = intake.SubmitFile(ctx, "tok", "cv.pdf", make([]byte, 2048))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	assert.Zero(t, parser.calls)
}

func TestSubmitRejectsEmptyCV(t *testing.T) {
	intake, profiles, events := newTestIntake(&fakeParser{}, nil)
	ctx := context.Background()

	for _, cv := range []string{"", "   ", "\n\t"} {
		next, err := intake.Submit(ctx, "tok", models.Profile{Name: "Budi", CVText: cv})
		assert.ErrorIs(t, err, ErrEmptyCV)
		assert.Equal(t, "Mohon isi atau upload CV terlebih dahulu.", err.Error())
		assert.Equal(t, StepIntake, next)
	}

	_, err := profiles.LoadProfile(ctx, "tok")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Empty(t, events.names())
}

func TestSubmitPersistsAndAdvances(t *testing.T) {
	intake, profiles, events := newTestIntake(&fakeParser{}, nil)
	ctx := context.Background()

	profile := models.Profile{Name: "Nama Diubah", CVText: "Siti Rahma\nData Analyst"}
	next, err := intake.Submit(ctx, "tok", profile)
	require.NoError(t, err)
	assert.Equal(t, StepMatching, next)

	got, err := profiles.LoadProfile(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, profile, *got)
	assert.Equal(t, []string{services.EventProfileSaved}, events.names())
}
