package wizard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digitaltalent/career-wizard/internal/models"
	"digitaltalent/career-wizard/internal/repositories"
	"digitaltalent/career-wizard/internal/services"
)

// countingStore counts writes per key.
type countingStore struct {
	repositories.SessionStore
	mu   sync.Mutex
	puts map[string]int
}

func newCountingStore() *countingStore {
	return &countingStore{SessionStore: repositories.NewMemoryStore(), puts: map[string]int{}}
}

func (c *countingStore) Put(ctx context.Context, token, key string, value []byte) error {
	c.mu.Lock()
	c.puts[key]++
	c.mu.Unlock()
	return c.SessionStore.Put(ctx, token, key, value)
}

var threeCandidates = []models.OccupationCandidate{
	{ID: "OKP-9", Nama: "Backend Developer", Score: 0.512, Gap: ""},
	{ID: "OKP-2", Nama: "Data Analyst", Score: 0.874, Gap: "Tableau, statistik"},
	{ID: "OKP-5", Nama: "DevOps Engineer", Score: 0.433, Gap: "Kubernetes"},
}

type matchingFixture struct {
	store    *countingStore
	profiles repositories.ProfileRepository
	matcher  *fakeMatcher
	events   *recordingPublisher
	matching *Matching
}

func newMatchingFixture(t *testing.T, opts MatchingOptions, withProfile bool) *matchingFixture {
	t.Helper()

	f := &matchingFixture{
		store:   newCountingStore(),
		matcher: &fakeMatcher{result: &services.MatchResult{Recommendations: threeCandidates}},
		events:  &recordingPublisher{},
	}
	f.profiles = repositories.NewProfileRepository(f.store)
	if withProfile {
		require.NoError(t, f.profiles.SaveProfile(context.Background(), "tok", models.Profile{Name: "Budi", CVText: "Go, PostgreSQL, Docker"}))
	}
	f.matching = NewMatching("tok", f.profiles, f.matcher, f.events, opts)
	return f
}

func candidateIDs(view MatchingView) []string {
	ids := make([]string, len(view.Candidates))
	for i, c := range view.Candidates {
		ids[i] = c.ID
	}
	return ids
}

func TestMatchingRedirectsWithoutProfile(t *testing.T) {
	f := newMatchingFixture(t, MatchingOptions{}, false)

	view, err := f.matching.Enter(context.Background())
	require.NoError(t, err)

	assert.Equal(t, MatchRedirect, view.State)
	assert.Equal(t, StepIntake, view.Redirect)
	assert.Empty(t, view.Error)
	assert.Zero(t, f.matcher.callCount())
}

func TestMatchingReadyKeepsServiceOrder(t *testing.T) {
	f := newMatchingFixture(t, MatchingOptions{}, true)

	view, err := f.matching.Enter(context.Background())
	require.NoError(t, err)

	assert.Equal(t, MatchReady, view.State)
	assert.Equal(t, []string{"OKP-9", "OKP-2", "OKP-5"}, candidateIDs(view))
	assert.Equal(t, []matchCall{{text: "Go, PostgreSQL, Docker", topK: 3}}, f.matcher.calls)

	assert.Equal(t, 51, view.Candidates[0].MatchPercent)
	assert.Equal(t, "Analisis gap belum tersedia", view.Candidates[0].GapText)
	assert.Equal(t, "Tableau, statistik", view.Candidates[1].GapText)
}

func TestMatchingViewEntersOnce(t *testing.T) {
	f := newMatchingFixture(t, MatchingOptions{}, true)
	ctx := context.Background()

	_, err := f.matching.View(ctx)
	require.NoError(t, err)
	view, err := f.matching.View(ctx)
	require.NoError(t, err)

	assert.Equal(t, MatchReady, view.State)
	assert.Equal(t, 1, f.matcher.callCount())
}

func TestMatchingErrorFieldThenRetry(t *testing.T) {
	f := newMatchingFixture(t, MatchingOptions{}, true)
	f.matcher.set(&services.MatchResult{Error: "Database not found. Please run scripts/convert_data.py locally."}, nil)
	ctx := context.Background()

	view, err := f.matching.Enter(ctx)
	require.NoError(t, err)
	assert.Equal(t, MatchError, view.State)
	assert.Contains(t, view.Error, "Database not found")
	assert.Empty(t, view.Candidates)

	f.matcher.set(&services.MatchResult{Recommendations: threeCandidates}, nil)
	view, err = f.matching.Retry(ctx)
	require.NoError(t, err)

	assert.Equal(t, MatchReady, view.State)
	require.Len(t, f.matcher.calls, 2)
	assert.Equal(t, f.matcher.calls[0], f.matcher.calls[1])
}

func TestMatchingTransportFailure(t *testing.T) {
	f := newMatchingFixture(t, MatchingOptions{}, true)
	f.matcher.set(nil, errConnRefused)

	view, err := f.matching.Enter(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MatchError, view.State)
	assert.Equal(t, "Terjadi kesalahan koneksi. Silakan coba lagi.", view.Error)
}

func TestMatchingSelectRequiresReady(t *testing.T) {
	f := newMatchingFixture(t, MatchingOptions{}, true)
	ctx := context.Background()

	_, err := f.matching.Select(ctx, "OKP-2")
	assert.ErrorIs(t, err, ErrNotReady)

	f.matcher.set(&services.MatchResult{Error: "boom"}, nil)
	_, err = f.matching.Enter(ctx)
	require.NoError(t, err)
	_, err = f.matching.Select(ctx, "OKP-2")
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestMatchingSelectUnknownCandidate(t *testing.T) {
	f := newMatchingFixture(t, MatchingOptions{}, true)
	ctx := context.Background()

	_, err := f.matching.Enter(ctx)
	require.NoError(t, err)

	_, err = f.matching.Select(ctx, "OKP-404")
	assert.ErrorIs(t, err, ErrNoCandidate)
	assert.Zero(t, f.store.puts[repositories.KeySelectedOccupation])
}

func TestMatchingSelectIsIdempotent(t *testing.T) {
	f := newMatchingFixture(t, MatchingOptions{}, true)
	ctx := context.Background()

	_, err := f.matching.Enter(ctx)
	require.NoError(t, err)

	nav, err := f.matching.Select(ctx, "OKP-2")
	require.NoError(t, err)
	assert.True(t, nav.Persisted)

	nav, err = f.matching.Select(ctx, "OKP-2")
	require.NoError(t, err)
	assert.False(t, nav.Persisted)

	assert.Equal(t, 1, f.store.puts[repositories.KeySelectedOccupation])
	assert.Equal(t, []string{services.EventOccupationSelected}, f.events.names())

	sel, err := f.profiles.LoadSelection(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, threeCandidates[1], *sel)
	assert.Equal(t, "OKP-2", f.matching.snapshot().SelectedID)
}

func TestMatchingSelectOverwritesPrevious(t *testing.T) {
	f := newMatchingFixture(t, MatchingOptions{}, true)
	ctx := context.Background()

	_, err := f.matching.Enter(ctx)
	require.NoError(t, err)

	_, err = f.matching.Select(ctx, "OKP-2")
	require.NoError(t, err)
	_, err = f.matching.Select(ctx, "OKP-5")
	require.NoError(t, err)

	sel, err := f.profiles.LoadSelection(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "OKP-5", sel.ID)

	profile, err := f.profiles.LoadProfile(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Budi", profile.Name)
}

func TestMatchingNavigationVariants(t *testing.T) {
	t.Run("stay and expand", func(t *testing.T) {
		f := newMatchingFixture(t, MatchingOptions{}, true)
		_, err := f.matching.Enter(context.Background())
		require.NoError(t, err)

		nav, err := f.matching.Select(context.Background(), "OKP-9")
		require.NoError(t, err)
		assert.True(t, nav.Stay)
		assert.True(t, nav.RevealPanels)
		assert.Empty(t, nav.Next)
	})

	t.Run("auto advance", func(t *testing.T) {
		f := newMatchingFixture(t, MatchingOptions{AutoAdvanceOnSelect: true, AutoAdvanceDelay: 500 * time.Millisecond}, true)
		_, err := f.matching.Enter(context.Background())
		require.NoError(t, err)

		nav, err := f.matching.Select(context.Background(), "OKP-9")
		require.NoError(t, err)
		assert.False(t, nav.Stay)
		assert.Equal(t, StepAssistant, nav.Next)
		assert.Equal(t, int64(500), nav.DelayMillis)
	})
}

func TestMatchingLeaveDiscardsLateResult(t *testing.T) {
	f := newMatchingFixture(t, MatchingOptions{}, true)
	f.matcher.gate = make(chan struct{})
	f.matcher.entered = make(chan struct{}, 1)

	done := make(chan MatchingView)
	go func() {
		view, _ := f.matching.Enter(context.Background())
		done <- view
	}()

	<-f.matcher.entered
	assert.Equal(t, MatchLoading, f.matching.snapshot().State)

	f.matching.Leave()
	close(f.matcher.gate)
	<-done

	view := f.matching.snapshot()
	assert.Equal(t, MatchIdle, view.State)
	assert.Empty(t, view.Candidates)
}

func TestMatchingNewerEnterWins(t *testing.T) {
	f := newMatchingFixture(t, MatchingOptions{}, true)
	stale := &services.MatchResult{Recommendations: threeCandidates[:1]}
	fresh := &services.MatchResult{Recommendations: threeCandidates[1:]}

	gate := make(chan struct{})
	f.matcher.mu.Lock()
	f.matcher.result, f.matcher.gate, f.matcher.entered = stale, gate, make(chan struct{}, 1)
	f.matcher.mu.Unlock()

	done := make(chan struct{})
	go func() {
		f.matching.Enter(context.Background())
		close(done)
	}()
	<-f.matcher.entered

	f.matcher.mu.Lock()
	f.matcher.result, f.matcher.gate, f.matcher.entered = fresh, nil, nil
	f.matcher.mu.Unlock()

	view, err := f.matching.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"OKP-2", "OKP-5"}, candidateIDs(view))

	close(gate)
	<-done

	assert.Equal(t, []string{"OKP-2", "OKP-5"}, candidateIDs(f.matching.snapshot()))
}

// gatedStore blocks writes of one key until gate is closed.
type gatedStore struct {
	repositories.SessionStore
	key     string
	entered chan struct{}
	gate    chan struct{}
}

func (g *gatedStore) Put(ctx context.Context, token, key string, value []byte) error {
	if key == g.key {
		g.entered <- struct{}{}
		<-g.gate
	}
	return g.SessionStore.Put(ctx, token, key, value)
}

func TestMatchingSelectDuringReenterKeepsNewState(t *testing.T) {
	store := &gatedStore{
		SessionStore: repositories.NewMemoryStore(),
		key:          repositories.KeySelectedOccupation,
		entered:      make(chan struct{}, 1),
		gate:         make(chan struct{}),
	}
	profiles := repositories.NewProfileRepository(store)
	ctx := context.Background()
	require.NoError(t, profiles.SaveProfile(ctx, "tok", models.Profile{Name: "Budi", CVText: "Go"}))

	matcher := &fakeMatcher{result: &services.MatchResult{Recommendations: threeCandidates}}
	m := NewMatching("tok", profiles, matcher, &recordingPublisher{}, MatchingOptions{})

	_, err := m.Enter(ctx)
	require.NoError(t, err)

	done := make(chan error)
	go func() {
		_, err := m.Select(ctx, "OKP-2")
		done <- err
	}()
	<-store.entered

	view, err := m.Enter(ctx)
	require.NoError(t, err)
	assert.Equal(t, MatchReady, view.State)

	close(store.gate)
	require.NoError(t, <-done)

	view, err = m.View(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.SelectedID)
}
