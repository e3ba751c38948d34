package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"digitaltalent/career-wizard/internal/models"
	"digitaltalent/career-wizard/internal/repositories"
	"digitaltalent/career-wizard/internal/services"
)

type MatchState string

const (
	MatchIdle     MatchState = "idle"
	MatchLoading  MatchState = "loading"
	MatchReady    MatchState = "ready"
	MatchError    MatchState = "error"
	MatchRedirect MatchState = "redirect"
)

// CandidateView is a candidate with its display fields.
type CandidateView struct {
	models.OccupationCandidate
	MatchPercent int    `json:"match_percent"`
	GapText      string `json:"gap_text"`
}

type MatchingView struct {
	State      MatchState      `json:"state"`
	Candidates []CandidateView `json:"candidates,omitempty"`
	SelectedID string          `json:"selected_id,omitempty"`
	Error      string          `json:"error,omitempty"`
	Redirect   Step            `json:"redirect,omitempty"`
}

// Navigation tells the client what follows a selection.
type Navigation struct {
	Next         Step  `json:"next,omitempty"`
	DelayMillis  int64 `json:"delay_ms,omitempty"`
	Stay         bool  `json:"stay"`
	RevealPanels bool  `json:"reveal_panels"`
	Persisted    bool  `json:"persisted"`
}

type MatchingOptions struct {
	TopK                int
	AutoAdvanceOnSelect bool
	AutoAdvanceDelay    time.Duration
}

// Matching is the occupation matching step of one session.
//
// Every Enter bumps a generation counter. A match result is only applied if
// the generation is unchanged when it arrives, so Leave and a newer Enter both
// cause a late result to be dropped.
type Matching struct {
	token    string
	profiles repositories.ProfileRepository
	matcher  services.Matcher
	events   services.EventPublisher
	opts     MatchingOptions

	mu         sync.Mutex
	state      MatchState
	candidates []models.OccupationCandidate
	selectedID string
	errMsg     string
	generation uint64
}

func NewMatching(
	token string,
	profiles repositories.ProfileRepository,
	matcher services.Matcher,
	events services.EventPublisher,
	opts MatchingOptions,
) *Matching {
	if events == nil {
		events = services.NewNoopPublisher()
	}
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	return &Matching{
		token:    token,
		profiles: profiles,
		matcher:  matcher,
		events:   events,
		opts:     opts,
		state:    MatchIdle,
	}
}

// View returns the current view, entering the step first if needed.
func (m *Matching) View(ctx context.Context) (MatchingView, error) {
	m.mu.Lock()
	state := m.state
	m.mu.Unlock()

	if state == MatchIdle {
		return m.Enter(ctx)
	}
	return m.snapshot(), nil
}

// Enter starts the step from loading and issues one match request.
func (m *Matching) Enter(ctx context.Context) (MatchingView, error) {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.state = MatchLoading
	m.candidates = nil
	m.selectedID = ""
	m.errMsg = ""
	m.mu.Unlock()

	profile, err := m.profiles.LoadProfile(ctx, m.token)
	if errors.Is(err, repositories.ErrNotFound) {
		m.mu.Lock()
		if m.generation == gen {
			m.state = MatchIdle
		}
		m.mu.Unlock()
		return MatchingView{State: MatchRedirect, Redirect: StepIntake}, nil
	}
	if err != nil {
		m.apply(gen, MatchError, nil, MsgConnection)
		return m.snapshot(), fmt.Errorf("failed to load profile: %w", err)
	}

	result, err := m.matcher.Match(ctx, profile.CVText, m.opts.TopK)
	switch {
	case err != nil || result == nil:
		log.Printf("❌ Match request failed for session %s: %v\n", m.token, err)
		m.apply(gen, MatchError, nil, MsgConnection)
	case result.Error != "":
		log.Printf("⚠️  Match service error for session %s: %s\n", m.token, result.Error)
		m.apply(gen, MatchError, nil, result.Error)
	default:
		m.apply(gen, MatchReady, result.Recommendations, "")
	}

	return m.snapshot(), nil
}

// Retry re-enters the step, re-issuing the same request.
func (m *Matching) Retry(ctx context.Context) (MatchingView, error) {
	return m.Enter(ctx)
}

// Select marks candidate id as chosen and stores it as the selected
// occupation. Selecting the stored candidate again writes nothing.
func (m *Matching) Select(ctx context.Context, id string) (*Navigation, error) {
	m.mu.Lock()
	if m.state != MatchReady {
		m.mu.Unlock()
		return nil, ErrNotReady
	}
	gen := m.generation
	var chosen *models.OccupationCandidate
	for idx := range m.candidates {
		if m.candidates[idx].ID == id {
			c := m.candidates[idx]
			chosen = &c
			break
		}
	}
	m.mu.Unlock()

	if chosen == nil {
		return nil, ErrNoCandidate
	}

	wrote, err := m.profiles.SaveSelection(ctx, m.token, *chosen)
	if err != nil {
		return nil, fmt.Errorf("failed to select occupation: %w", err)
	}

	m.mu.Lock()
	if m.generation == gen {
		m.selectedID = chosen.ID
	}
	m.mu.Unlock()

	if wrote {
		payload := map[string]any{"id": chosen.ID, "nama": chosen.Nama}
		if err := m.events.Publish(m.token, services.EventOccupationSelected, payload); err != nil {
			log.Printf("⚠️  Failed to publish %s for session %s: %v\n", services.EventOccupationSelected, m.token, err)
		}
	}

	nav := &Navigation{Persisted: wrote}
	if m.opts.AutoAdvanceOnSelect {
		nav.Next = StepAssistant
		nav.DelayMillis = m.opts.AutoAdvanceDelay.Milliseconds()
	} else {
		nav.Stay = true
		nav.RevealPanels = true
	}
	return nav, nil
}

// Leave unmounts the step. Results still in flight are discarded.
func (m *Matching) Leave() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	m.state = MatchIdle
	m.candidates = nil
	m.selectedID = ""
	m.errMsg = ""
}

func (m *Matching) apply(gen uint64, state MatchState, candidates []models.OccupationCandidate, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation != gen {
		log.Printf("🗑️  Discarding stale match result for session %s\n", m.token)
		return
	}
	m.state = state
	m.candidates = candidates
	m.errMsg = errMsg
}

func (m *Matching) snapshot() MatchingView {
	m.mu.Lock()
	defer m.mu.Unlock()

	view := MatchingView{State: m.state, SelectedID: m.selectedID, Error: m.errMsg}
	if m.state == MatchReady {
		view.Candidates = make([]CandidateView, len(m.candidates))
		for i, c := range m.candidates {
			view.Candidates[i] = CandidateView{
				OccupationCandidate: c,
				MatchPercent:        c.MatchPercent(),
				GapText:             c.GapText(),
			}
		}
	}
	return view
}
