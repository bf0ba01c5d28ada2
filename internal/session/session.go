// Package session is the caller side of a game: it owns one engine and the
// leaderboard, decides when the score prompt opens and guarantees that a
// finished game is registered or skipped at most once.
package session

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tinytelemetry/pairs/internal/game"
	"github.com/tinytelemetry/pairs/internal/model"
	"github.com/tinytelemetry/pairs/internal/ranking"
)

const recordTimeout = 2 * time.Second

// Session composes an Engine and a ranking Store.
type Session struct {
	engine   *game.Engine
	rankings *ranking.Store
	clock    game.Clock
	log      *zap.Logger
	recorder model.GameRecorder
	forward  func(game.Event)

	engineOpts []game.Option

	promptOpen bool
	// handled is the game whose score was registered or skipped.
	handled uuid.UUID
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The engine inherits it unless
// WithEngineOptions overrides it.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRecorder stores every finished game.
func WithRecorder(r model.GameRecorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithObserver receives engine events after the session handled them.
func WithObserver(fn func(game.Event)) Option {
	return func(s *Session) { s.forward = fn }
}

// WithEngineOptions passes options through to the engine.
func WithEngineOptions(opts ...game.Option) Option {
	return func(s *Session) { s.engineOpts = append(s.engineOpts, opts...) }
}

// New builds a session and its engine on sched and clock.
func New(sched game.Scheduler, clock game.Clock, rankings *ranking.Store, opts ...Option) *Session {
	if clock == nil {
		clock = game.SystemClock{}
	}
	s := &Session{
		rankings: rankings,
		clock:    clock,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	engineOpts := append([]game.Option{game.WithLogger(s.log.Named("engine"))}, s.engineOpts...)
	engineOpts = append(engineOpts, game.WithObserver(s.onEvent))
	s.engine = game.NewEngine(sched, clock, engineOpts...)
	return s
}

// Engine exposes the engine for read-only queries.
func (s *Session) Engine() *game.Engine {
	return s.engine
}

// Start begins a game from Idle.
func (s *Session) Start() {
	s.engine.Start()
}

// Flip forwards a flip to the engine.
func (s *Session) Flip(cardID int) bool {
	return s.engine.Flip(cardID)
}

// Reset abandons the current game and closes any open prompt.
func (s *Session) Reset() {
	s.engine.Reset()
}

// ScorePromptOpen reports whether the player is being asked for a name.
func (s *Session) ScorePromptOpen() bool {
	return s.promptOpen
}

// Registered reports whether the current game's score was registered or
// skipped.
func (s *Session) Registered() bool {
	return s.handled != uuid.Nil && s.handled == s.engine.GameID()
}

// RegisterScore inserts the finished game's time under name. It is a no-op
// unless the prompt is open; a blank name keeps the prompt open.
func (s *Session) RegisterScore(ctx context.Context, name string) bool {
	if !s.promptOpen || s.Registered() {
		return false
	}
	final, ok := s.engine.FinalTime()
	if !ok {
		return false
	}
	if !s.rankings.Insert(ctx, name, final, s.clock.Now()) {
		return false
	}
	s.log.Info("score registered",
		zap.String("game_id", s.engine.GameID().String()),
		zap.Duration("time", final),
	)
	s.markHandled()
	return true
}

// SkipRegistration closes the prompt without inserting a score.
func (s *Session) SkipRegistration() {
	if !s.promptOpen {
		return
	}
	s.markHandled()
}

// QualifiesForTop10 reports whether d would enter the leaderboard.
func (s *Session) QualifiesForTop10(d time.Duration) bool {
	return s.rankings.Qualifies(d)
}

// Rankings yields the leaderboard best first.
func (s *Session) Rankings() iter.Seq[model.RankingEntry] {
	return s.rankings.Top(model.RankingSize)
}

func (s *Session) markHandled() {
	s.handled = s.engine.GameID()
	s.promptOpen = false
}

func (s *Session) onEvent(ev game.Event) {
	switch ev.Kind {
	case game.EventGameStarted, game.EventGameReset:
		s.promptOpen = false
	case game.EventGameFinished:
		s.record(ev)
	case game.EventCelebrationEnded:
		if s.handled != ev.GameID && s.rankings.Qualifies(ev.Elapsed) {
			s.promptOpen = true
		}
	}
	if s.forward != nil {
		s.forward(ev)
	}
}

func (s *Session) record(ev game.Event) {
	if s.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	err := s.recorder.RecordGame(ctx, model.GameResult{
		GameID:     ev.GameID,
		Elapsed:    ev.Elapsed,
		FinishedAt: s.clock.Now(),
	})
	if err != nil {
		s.log.Warn("recording finished game", zap.Error(err))
	}
}
