package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tinytelemetry/pairs/internal/model"
)

// Engine owns the state of one board: the deck, the player's face-up
// selection, the matched set, the phase and the play clock.
//
// Engine is not safe for concurrent use. Commands and scheduled callbacks
// must run on one goroutine; a flip arriving while a pair is being resolved
// is rejected by the selection-size guard, not by locking.
type Engine struct {
	sched   Scheduler
	clock   Clock
	rng     *rand.Rand
	log     *zap.Logger
	observe func(Event)

	// gen invalidates callbacks scheduled before the last Start or Reset.
	gen    uint64
	gameID uuid.UUID

	phase        model.Phase
	countdown    int
	deck         []model.Card
	selection    []int
	matched      [model.DeckSize]bool
	matchedCount int
	playStart    time.Time
	finalTime    time.Duration
	celebrating  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the shuffle source. Tests pass a seeded source.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver registers fn to receive every transition.
func WithObserver(fn func(Event)) Option {
	return func(e *Engine) {
		e.observe = fn
	}
}

// NewEngine returns an idle engine with a freshly shuffled, face-down deck.
func NewEngine(sched Scheduler, clock Clock, opts ...Option) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	e := &Engine{
		sched: sched,
		clock: clock,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.deal()
	return e
}

// Start begins a new game from Idle. It is a no-op in any other phase.
func (e *Engine) Start() {
	if e.phase != model.PhaseIdle {
		return
	}
	e.gen++
	e.deal()
	e.phase = model.PhaseCountdown
	e.countdown = model.CountdownStart
	e.log.Info("game started", zap.String("game_id", e.gameID.String()))
	e.emit(Event{Kind: EventGameStarted, Countdown: e.countdown})
	e.after(model.CountdownTick, e.tick)
}

// Reset abandons the current game from any phase and deals a fresh
// face-down deck. Callbacks scheduled for the old game become no-ops.
func (e *Engine) Reset() {
	e.gen++
	prev := e.gameID
	e.deal()
	e.phase = model.PhaseIdle
	e.countdown = 0
	e.log.Info("game reset", zap.String("previous_game_id", prev.String()))
	e.emit(Event{Kind: EventGameReset})
}

// Flip turns cardID face up. It reports whether the flip was accepted;
// rejected flips leave the state untouched.
func (e *Engine) Flip(cardID int) bool {
	if e.phase != model.PhasePlaying {
		return false
	}
	if cardID < 0 || cardID >= model.DeckSize {
		return false
	}
	if len(e.selection) >= 2 {
		return false
	}
	if e.selected(cardID) || e.matched[cardID] {
		return false
	}

	e.selection = append(e.selection, cardID)
	if len(e.selection) < 2 {
		return true
	}

	first, second := e.selection[0], e.selection[1]
	match := e.symbolOf(first) == e.symbolOf(second)
	e.after(model.ResolutionDelay, func() { e.resolve(first, second, match) })
	return true
}

// Phase returns the active phase.
func (e *Engine) Phase() model.Phase {
	return e.phase
}

// CountdownValue returns the remaining countdown. It is only meaningful
// during PhaseCountdown.
func (e *Engine) CountdownValue() int {
	return e.countdown
}

// Visible reports whether the card with cardID shows its symbol.
func (e *Engine) Visible(cardID int) bool {
	if cardID < 0 || cardID >= model.DeckSize {
		return false
	}
	return e.phase == model.PhaseMemorizing || e.selected(cardID) || e.matched[cardID]
}

// VisibleCard is Visible for a card value.
func (e *Engine) VisibleCard(card model.Card) bool {
	return e.Visible(card.ID)
}

// Elapsed returns the play time: zero before Playing, live during Playing
// and frozen once the last pair was resolved.
func (e *Engine) Elapsed() time.Duration {
	switch e.phase {
	case model.PhasePlaying:
		return e.clock.Now().Sub(e.playStart)
	case model.PhaseFinished:
		return e.finalTime
	default:
		return 0
	}
}

// FinalTime returns the frozen play time once the game is finished.
func (e *Engine) FinalTime() (time.Duration, bool) {
	if e.phase != model.PhaseFinished {
		return 0, false
	}
	return e.finalTime, true
}

// IsCelebrating reports whether the post-game celebration is showing.
func (e *Engine) IsCelebrating() bool {
	return e.celebrating
}

// Cards returns the board in display order.
func (e *Engine) Cards() []model.Card {
	out := make([]model.Card, len(e.deck))
	for i, c := range e.deck {
		c.Matched = e.matched[c.ID]
		out[i] = c
	}
	return out
}

// Selection returns the ids currently face up by player action.
func (e *Engine) Selection() []int {
	return append([]int(nil), e.selection...)
}

// MatchedCount returns how many cards have been matched.
func (e *Engine) MatchedCount() int {
	return e.matchedCount
}

// GameID identifies the current deal.
func (e *Engine) GameID() uuid.UUID {
	return e.gameID
}

func (e *Engine) deal() {
	e.gameID = uuid.New()
	e.deck = ShuffleDeck(e.rng, NewDeck())
	e.selection = nil
	e.matched = [model.DeckSize]bool{}
	e.matchedCount = 0
	e.playStart = time.Time{}
	e.finalTime = 0
	e.celebrating = false
}

func (e *Engine) tick() {
	if e.phase != model.PhaseCountdown {
		return
	}
	e.countdown--
	e.emit(Event{Kind: EventCountdownTick, Countdown: e.countdown})
	if e.countdown > 0 {
		e.after(model.CountdownTick, e.tick)
		return
	}

	e.phase = model.PhaseMemorizing
	e.emit(Event{Kind: EventMemorizeStarted})
	e.after(model.MemorizeWindow, e.beginPlay)
}

func (e *Engine) beginPlay() {
	if e.phase != model.PhaseMemorizing {
		return
	}
	e.phase = model.PhasePlaying
	e.playStart = e.clock.Now()
	e.emit(Event{Kind: EventPlayStarted})
}

func (e *Engine) resolve(first, second int, match bool) {
	if e.phase != model.PhasePlaying {
		return
	}
	e.selection = nil
	if !match {
		e.emit(Event{Kind: EventPairMissed, CardIDs: []int{first, second}})
		return
	}

	e.matched[first] = true
	e.matched[second] = true
	e.matchedCount += 2
	e.emit(Event{Kind: EventPairMatched, CardIDs: []int{first, second}})

	if e.matchedCount < model.DeckSize {
		return
	}
	e.finalTime = e.clock.Now().Sub(e.playStart)
	e.phase = model.PhaseFinished
	e.celebrating = true
	e.log.Info("game finished",
		zap.String("game_id", e.gameID.String()),
		zap.Duration("elapsed", e.finalTime),
	)
	e.emit(Event{Kind: EventGameFinished, Elapsed: e.finalTime})
	e.after(model.CelebrationWindow, e.endCelebration)
}

func (e *Engine) endCelebration() {
	if !e.celebrating {
		return
	}
	e.celebrating = false
	e.emit(Event{Kind: EventCelebrationEnded, Elapsed: e.finalTime})
}

// after schedules fn under the current generation.
func (e *Engine) after(d time.Duration, fn func()) {
	if e.sched == nil {
		return
	}
	gen := e.gen
	e.sched.Schedule(d, func() {
		if gen != e.gen {
			e.log.Debug("stale timer ignored", zap.Uint64("scheduled_gen", gen), zap.Uint64("current_gen", e.gen))
			return
		}
		fn()
	})
}

func (e *Engine) emit(ev Event) {
	if e.observe == nil {
		return
	}
	ev.GameID = e.gameID
	e.observe(ev)
}

func (e *Engine) selected(cardID int) bool {
	for _, id := range e.selection {
		if id == cardID {
			return true
		}
	}
	return false
}

func (e *Engine) symbolOf(cardID int) model.Symbol {
	for _, c := range e.deck {
		if c.ID == cardID {
			return c.Symbol
		}
	}
	return ""
}
