package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/pairs/internal/game"
	"github.com/tinytelemetry/pairs/internal/model"
)

// timerFiredMsg carries an engine callback back onto the Update goroutine.
type timerFiredMsg struct {
	fn func()
}

// elapsedTickMsg triggers a redraw of the running play clock.
type elapsedTickMsg struct{}

type scheduledTimer struct {
	delay time.Duration
	fn    func()
}

// TickScheduler implements game.Scheduler on top of tea.Tick. Scheduled
// callbacks are queued until Drain turns them into commands; each one runs
// when its message reaches Update, so the engine is only ever touched from
// the program goroutine.
type TickScheduler struct {
	pending []scheduledTimer
}

var _ game.Scheduler = (*TickScheduler)(nil)

// NewTickScheduler returns an empty scheduler.
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

// Schedule queues fn to run after delay.
func (s *TickScheduler) Schedule(delay time.Duration, fn func()) {
	if delay < 0 {
		delay = 0
	}
	s.pending = append(s.pending, scheduledTimer{delay: delay, fn: fn})
}

// Drain hands the queued timers to the runtime.
func (s *TickScheduler) Drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(s.pending))
	for _, t := range s.pending {
		fn := t.fn
		cmds = append(cmds, tea.Tick(t.delay, func(time.Time) tea.Msg {
			return timerFiredMsg{fn: fn}
		}))
	}
	s.pending = nil
	return tea.Batch(cmds...)
}

// Pending returns the number of queued timers.
func (s *TickScheduler) Pending() int {
	return len(s.pending)
}

func elapsedTick() tea.Cmd {
	return tea.Tick(model.ElapsedPollInterval, func(time.Time) tea.Msg {
		return elapsedTickMsg{}
	})
}
