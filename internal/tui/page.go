package tui

import tea "github.com/charmbracelet/bubbletea"

// Page IDs.
const (
	GamePageID     = "game"
	RankingsPageID = "rankings"
)

// Page represents a top-level screen in the TUI (board, leaderboard).
type Page interface {
	ID() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
}
