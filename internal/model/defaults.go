package model

import "time"

// Shared defaults used by the engine, the UI and the binary.
const (
	DefaultSkin      = "default"
	DefaultNamespace = "memory-card-game-rankings"
	DefaultStorage   = "file"
)

// Game timing. Durations are part of the play flow, not of rendering.
const (
	CountdownStart      = 3
	CountdownTick       = 1000 * time.Millisecond
	MemorizeWindow      = 3000 * time.Millisecond
	ResolutionDelay     = 1000 * time.Millisecond
	CelebrationWindow   = 3000 * time.Millisecond
	ElapsedPollInterval = 100 * time.Millisecond
)

// Board and leaderboard limits.
const (
	DeckSize      = 16
	GridColumns   = 4
	RankingSize   = 10
	MaxNameLength = 20
)
