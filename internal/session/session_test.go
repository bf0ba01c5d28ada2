package session

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytelemetry/pairs/internal/game"
	"github.com/tinytelemetry/pairs/internal/model"
	"github.com/tinytelemetry/pairs/internal/ranking"
)

var epoch = time.Date(2026, 5, 5, 10, 0, 0, 0, time.UTC)

type fakeRecorder struct {
	results []model.GameResult
}

func (r *fakeRecorder) RecordGame(_ context.Context, res model.GameResult) error {
	r.results = append(r.results, res)
	return nil
}

func newTestSession(t *testing.T, store *ranking.Store, opts ...Option) (*Session, *game.ManualScheduler) {
	t.Helper()
	if store == nil {
		store = ranking.NewStore()
	}
	sched := game.NewManualScheduler(epoch)
	opts = append(opts, WithEngineOptions(game.WithRand(rand.New(rand.NewSource(7)))))
	return New(sched, sched, store, opts...), sched
}

// playToFinish runs a full game, spending pause before each pair.
func playToFinish(t *testing.T, s *Session, sched *game.ManualScheduler, pause time.Duration) {
	t.Helper()
	s.Start()
	for want := model.CountdownStart - 1; want >= 0; want-- {
		sched.Advance(model.CountdownTick)
		if want > 0 {
			require.Equal(t, want, s.Engine().CountdownValue())
		}
	}
	require.Equal(t, model.PhaseMemorizing, s.Engine().Phase())
	sched.Advance(model.MemorizeWindow)
	require.Equal(t, model.PhasePlaying, s.Engine().Phase())

	bySymbol := make(map[model.Symbol][]int)
	for _, c := range s.Engine().Cards() {
		bySymbol[c.Symbol] = append(bySymbol[c.Symbol], c.ID)
	}
	for i, sym := range model.Symbols {
		sched.Advance(pause)
		ids := bySymbol[sym]
		require.True(t, s.Flip(ids[0]))
		require.True(t, s.Flip(ids[1]))
		sched.Advance(model.ResolutionDelay)
		assert.Equal(t, (i+1)*2, s.Engine().MatchedCount())
		if i == 0 {
			assert.Equal(t, model.PhasePlaying, s.Engine().Phase(), "one pair found, game continues")
		}
	}
	require.Equal(t, model.PhaseFinished, s.Engine().Phase())
}

func TestEndToEndGameOpensPromptAfterCelebration(t *testing.T) {
	s, sched := newTestSession(t, nil)
	playToFinish(t, s, sched, 250*time.Millisecond)

	final, ok := s.Engine().FinalTime()
	require.True(t, ok)
	assert.Positive(t, final)
	assert.True(t, s.Engine().IsCelebrating())
	assert.False(t, s.ScorePromptOpen(), "prompt waits for the celebration")

	sched.Advance(model.CelebrationWindow)
	assert.False(t, s.Engine().IsCelebrating())
	assert.True(t, s.ScorePromptOpen())
}

func TestRegisterScoreOncePerGame(t *testing.T) {
	store := ranking.NewStore()
	s, sched := newTestSession(t, store)
	playToFinish(t, s, sched, 0)
	sched.Advance(model.CelebrationWindow)

	assert.False(t, s.RegisterScore(context.Background(), "   "), "blank name")
	assert.True(t, s.ScorePromptOpen())

	require.True(t, s.RegisterScore(context.Background(), "alice"))
	assert.False(t, s.ScorePromptOpen())
	assert.True(t, s.Registered())
	assert.False(t, s.RegisterScore(context.Background(), "alice again"))
	assert.Equal(t, 1, store.Len())

	var got []model.RankingEntry
	for e := range s.Rankings() {
		got = append(got, e)
	}
	require.Len(t, got, 1)
	final, _ := s.Engine().FinalTime()
	assert.Equal(t, final, got[0].Time)
	assert.Equal(t, "alice", got[0].Name)
}

func TestSkipRegistration(t *testing.T) {
	store := ranking.NewStore()
	s, sched := newTestSession(t, store)
	playToFinish(t, s, sched, 0)
	sched.Advance(model.CelebrationWindow)

	s.SkipRegistration()
	assert.False(t, s.ScorePromptOpen())
	assert.True(t, s.Registered())
	assert.False(t, s.RegisterScore(context.Background(), "late"))
	assert.Zero(t, store.Len())
}

func TestPromptStaysClosedWhenNotQualifying(t *testing.T) {
	store := ranking.NewStore()
	for i := range model.RankingSize {
		store.Insert(context.Background(), fmt.Sprint("pro", i), time.Second, epoch)
	}
	s, sched := newTestSession(t, store)
	playToFinish(t, s, sched, 0)
	sched.Advance(model.CelebrationWindow)

	final, _ := s.Engine().FinalTime()
	assert.False(t, s.QualifiesForTop10(final))
	assert.False(t, s.ScorePromptOpen())
	assert.False(t, s.RegisterScore(context.Background(), "nope"))
}

func TestResetClosesPromptAndAllowsNextGame(t *testing.T) {
	store := ranking.NewStore()
	s, sched := newTestSession(t, store)
	playToFinish(t, s, sched, 0)
	sched.Advance(model.CelebrationWindow)
	require.True(t, s.ScorePromptOpen())

	s.Reset()
	assert.False(t, s.ScorePromptOpen())
	assert.Equal(t, model.PhaseIdle, s.Engine().Phase())
	assert.False(t, s.Registered())

	playToFinish(t, s, sched, 0)
	sched.Advance(model.CelebrationWindow)
	require.True(t, s.ScorePromptOpen())
	assert.True(t, s.RegisterScore(context.Background(), "second"))
}

func TestResetDuringCelebrationSuppressesPrompt(t *testing.T) {
	s, sched := newTestSession(t, nil)
	playToFinish(t, s, sched, 0)

	s.Reset()
	sched.Advance(model.CelebrationWindow)
	assert.False(t, s.ScorePromptOpen())
}

func TestFinishedGamesAreRecorded(t *testing.T) {
	rec := &fakeRecorder{}
	var seen []game.EventKind
	s, sched := newTestSession(t, nil, WithRecorder(rec), WithObserver(func(ev game.Event) { seen = append(seen, ev.Kind) }))
	playToFinish(t, s, sched, 100*time.Millisecond)

	require.Len(t, rec.results, 1)
	final, _ := s.Engine().FinalTime()
	assert.Equal(t, s.Engine().GameID(), rec.results[0].GameID)
	assert.Equal(t, final, rec.results[0].Elapsed)
	assert.Contains(t, seen, game.EventPlayStarted)
}
