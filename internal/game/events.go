package game

import (
	"time"

	"github.com/google/uuid"
)

// EventKind identifies a transition reported to the engine observer.
type EventKind string

const (
	EventGameStarted      EventKind = "game_started"
	EventCountdownTick    EventKind = "countdown_tick"
	EventMemorizeStarted  EventKind = "memorize_started"
	EventPlayStarted      EventKind = "play_started"
	EventPairMatched      EventKind = "pair_matched"
	EventPairMissed       EventKind = "pair_missed"
	EventGameFinished     EventKind = "game_finished"
	EventCelebrationEnded EventKind = "celebration_ended"
	EventGameReset        EventKind = "game_reset"
)

// Event describes one engine transition. Fields not relevant to Kind are zero.
type Event struct {
	Kind      EventKind
	GameID    uuid.UUID
	Countdown int
	CardIDs   []int
	Elapsed   time.Duration
}
