package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"digitaltalent/career-wizard/internal/repositories"
	"digitaltalent/career-wizard/internal/services"
)

// Dependencies are the collaborators shared by every session.
type Dependencies struct {
	Profiles repositories.ProfileRepository
	Parser   services.CVParser
	Storage  services.StorageService
	Matcher  services.Matcher
	Chat     services.ChatClient
	Courses  services.CourseService
	Jobs     services.JobFeedProvider
	Events   services.EventPublisher
}

type Options struct {
	Matching    MatchingOptions
	CourseLimit int
	MaxFileSize int64
	SessionTTL  time.Duration
}

// Session holds the in-memory step state of one wizard run.
type Session struct {
	Token     string
	Matching  *Matching
	Assistant *Assistant

	lastSeen time.Time
}

// Manager owns the step state of all sessions. Persistent hand-off data lives
// in the Profile Store; a session whose token is unknown to the manager but
// has a stored profile is rebuilt on demand.
type Manager struct {
	deps   Dependencies
	opts   Options
	intake *Intake
	panels *Panels
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(deps Dependencies, opts Options) *Manager {
	if deps.Events == nil {
		deps.Events = services.NewNoopPublisher()
	}
	return &Manager{
		deps:     deps,
		opts:     opts,
		intake:   NewIntake(deps.Parser, deps.Storage, deps.Profiles, deps.Events, opts.MaxFileSize),
		panels:   NewPanels(deps.Profiles, deps.Courses, deps.Jobs, opts.CourseLimit),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Intake() *Intake { return m.intake }
func (m *Manager) Panels() *Panels { return m.panels }

// Create starts a new session and returns its token.
func (m *Manager) Create() *Session {
	token := uuid.New().String()

	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.newSession(token)
	m.sessions[token] = s
	log.Printf("🆕 Session %s created\n", token)
	return s
}

// Lookup returns the session for token, or ErrUnknownSession.
func (m *Manager) Lookup(ctx context.Context, token string) (*Session, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrUnknownSession
	}

	m.mu.Lock()
	if s, ok := m.sessions[token]; ok {
		s.lastSeen = m.now()
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	_, err := m.deps.Profiles.LoadProfile(ctx, token)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUnknownSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[token]; ok {
		return s, nil
	}
	// token may point into a reused request buffer
	token = strings.Clone(token)
	s := m.newSession(token)
	m.sessions[token] = s
	log.Printf("♻️  Session %s restored from profile store\n", token)
	return s, nil
}

// ProfileSubmitted resets the matching step so the next visit matches the
// new profile.
func (m *Manager) ProfileSubmitted(s *Session) {
	s.Matching.Leave()
}

// StartOver clears every stored value of the session and drops its state.
func (m *Manager) StartOver(ctx context.Context, token string) error {
	m.mu.Lock()
	s, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()

	if ok {
		s.Matching.Leave()
	}

	if err := m.deps.Profiles.Clear(ctx, token); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	if err := m.deps.Events.Publish(token, services.EventSessionCleared, nil); err != nil {
		log.Printf("⚠️  Failed to publish %s for session %s: %v\n", services.EventSessionCleared, token, err)
	}

	log.Printf("🧹 Session %s cleared\n", token)
	return nil
}

// Expire drops the in-memory step state of sessions idle for longer than the
// session TTL. Stored values are kept, so a later Lookup restores the
// session. It returns how many were dropped.
func (m *Manager) Expire(ctx context.Context) int {
	if m.opts.SessionTTL <= 0 {
		return 0
	}

	cutoff := m.now().Add(-m.opts.SessionTTL)

	m.mu.Lock()
	var expired []*Session
	for token, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, token)
			expired = append(expired, s)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Matching.Leave()
		log.Printf("💤 Session %s expired from memory\n", s.Token)
	}
	return len(expired)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) newSession(token string) *Session {
	return &Session{
		Token:     token,
		Matching:  NewMatching(token, m.deps.Profiles, m.deps.Matcher, m.deps.Events, m.opts.Matching),
		Assistant: NewAssistant(token, m.deps.Chat, m.deps.Profiles),
		lastSeen:  m.now(),
	}
}
