package model

import (
	"time"

	"github.com/google/uuid"
)

// Symbol is the glyph printed on the face of a card.
type Symbol string

// Symbols is the fixed set of glyphs; each appears on exactly two cards.
var Symbols = [DeckSize / 2]Symbol{"🍎", "🍌", "🍓", "🍊", "🍇", "🥝", "🍑", "🥭"}

// Card is one cell of the board. IDs 2i and 2i+1 carry Symbols[i].
// Matched is filled in by the engine when a copy is handed out.
type Card struct {
	ID      int
	Symbol  Symbol
	Matched bool
}

// Phase is the stage of the game state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCountdown
	PhaseMemorizing
	PhasePlaying
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCountdown:
		return "countdown"
	case PhaseMemorizing:
		return "memorizing"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// RankingEntry is one row of the leaderboard.
type RankingEntry struct {
	Name string
	Time time.Duration
	Date time.Time
}

// Less orders entries by time, then by the earlier date.
func (e RankingEntry) Less(other RankingEntry) bool {
	if e.Time != other.Time {
		return e.Time < other.Time
	}
	return e.Date.Before(other.Date)
}

// GameResult is one finished game, kept for play history.
type GameResult struct {
	GameID     uuid.UUID
	Elapsed    time.Duration
	FinishedAt time.Time
}
