package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type stubPage struct {
	id   string
	nav  *PageNav
	seen []tea.Msg
}

func (s *stubPage) ID() string    { return s.id }
func (s *stubPage) Init() tea.Cmd { return nil }
func (s *stubPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	s.seen = append(s.seen, msg)
	return nil, s.nav
}
func (s *stubPage) View(int, int) string { return s.id }

func lipglossWidth(s string) int { return lipgloss.Width(s) }

func TestApp_RoutesInputToActivePage(t *testing.T) {
	t.Parallel()

	first := &stubPage{id: "first", nav: &PageNav{PageID: "second"}}
	second := &stubPage{id: "second"}
	app := NewApp(first, second)

	if got := app.ActivePage(); got != "first" {
		t.Fatalf("active = %q, want first", got)
	}

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if got := app.ActivePage(); got != "second" {
		t.Fatalf("active = %q, want second", got)
	}
	if len(second.seen) != 0 {
		t.Fatal("inactive page received a key")
	}
	if got := app.View(); got != "second" {
		t.Fatalf("view = %q", got)
	}
}

func TestApp_BroadcastsTimers(t *testing.T) {
	t.Parallel()

	first := &stubPage{id: "first"}
	second := &stubPage{id: "second"}
	app := NewApp(first, second)

	app.Update(timerFiredMsg{})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if len(first.seen) != 2 || len(second.seen) != 2 {
		t.Fatalf("seen = %d/%d, want 2/2", len(first.seen), len(second.seen))
	}
}

func TestApp_ForceQuit(t *testing.T) {
	t.Parallel()

	app := NewApp(&stubPage{id: "only"})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("ctrl+c did not quit")
	}
}

func TestApp_UnknownNavIgnored(t *testing.T) {
	t.Parallel()

	app := NewApp(&stubPage{id: "only", nav: &PageNav{PageID: "missing"}})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if got := app.ActivePage(); got != "only" {
		t.Fatalf("active = %q, want only", got)
	}
}
