package wizard

import (
	"context"
	"errors"
	"sync"

	"digitaltalent/career-wizard/internal/models"
	"digitaltalent/career-wizard/internal/services"
)

type fakeParser struct {
	text  string
	err   error
	calls int
}

func (f *fakeParser) Parse(ctx context.Context, filename string, data []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeStorage struct {
	err   error
	saved []string
}

func (f *fakeStorage) SaveCV(ctx context.Context, token, filename string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	key := token + "/" + filename
	f.saved = append(f.saved, key)
	return key, nil
}

type matchCall struct {
	text string
	topK int
}

// fakeMatcher answers from result/err. When gate is set, each call blocks
// until a value is received from it.
type fakeMatcher struct {
	mu      sync.Mutex
	calls   []matchCall
	result  *services.MatchResult
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeMatcher) Match(ctx context.Context, text string, topK int) (*services.MatchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, matchCall{text: text, topK: topK})
	result, err, gate, entered := f.result, f.err, f.gate, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return result, err
}

func (f *fakeMatcher) set(result *services.MatchResult, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result, f.err = result, err
}

func (f *fakeMatcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type chatCall struct {
	message string
	history []models.ChatMessage
}

type fakeChat struct {
	mu      sync.Mutex
	calls   []chatCall
	reply   string
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeChat) Chat(ctx context.Context, message string, history []models.ChatMessage) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, chatCall{message: message, history: history})
	reply, err, gate, entered := f.reply, f.err, f.gate, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return reply, err
}

func (f *fakeChat) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeCourses struct {
	courses []models.CourseListing
	err     error
}

func (f *fakeCourses) ListCourses(ctx context.Context) ([]models.CourseListing, error) {
	return f.courses, f.err
}

type recordedEvent struct {
	token string
	event string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingPublisher) Publish(token, event string, payload map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{token: token, event: event})
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.event
	}
	return names
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")
