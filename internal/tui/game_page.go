package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/pairs/internal/game"
	"github.com/tinytelemetry/pairs/internal/model"
	"github.com/tinytelemetry/pairs/internal/session"
)

// Board geometry in terminal cells. A card is a bordered box with a
// six-column face.
const (
	cardWidth  = 8
	cardHeight = 3
	cardGap    = 1
	boardTop   = 3 // title, status, blank line
	boardRows  = model.DeckSize / model.GridColumns
	boardWidth = model.GridColumns*cardWidth + (model.GridColumns-1)*cardGap
)

// GamePage shows the board and drives a session from keys, mouse clicks
// and timer messages.
type GamePage struct {
	ctx     context.Context
	session *session.Session
	sched   *TickScheduler
	keys    KeyMap

	cursor  int
	input   textinput.Model
	polling bool
	notice  string
	width   int
}

// NewGamePage creates the board page. sched must be the scheduler the
// session's engine was built on.
func NewGamePage(ctx context.Context, sess *session.Session, sched *TickScheduler) *GamePage {
	in := textinput.New()
	in.Placeholder = "your name"
	in.CharLimit = model.MaxNameLength
	in.Width = model.MaxNameLength
	in.Prompt = "› "

	return &GamePage{
		ctx:     ctx,
		session: sess,
		sched:   sched,
		keys:    DefaultKeyMap(),
		input:   in,
	}
}

func (p *GamePage) ID() string { return GamePageID }

func (p *GamePage) Init() tea.Cmd {
	return p.pollElapsed()
}

func (p *GamePage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	cmd, nav := p.handle(msg)
	return tea.Batch(cmd, p.sched.Drain(), p.pollElapsed()), nav
}

// handle applies msg to the session. Timers queued by the engine stay in
// the scheduler until Update drains them.
func (p *GamePage) handle(msg tea.Msg) (tea.Cmd, *PageNav) {
	var cmd tea.Cmd
	var nav *PageNav

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
	case timerFiredMsg:
		msg.fn()
	case elapsedTickMsg:
		p.polling = false
	case tea.KeyMsg:
		cmd, nav = p.handleKey(msg)
	case tea.MouseMsg:
		p.handleMouse(msg)
	}

	return tea.Batch(cmd, p.syncPrompt()), nav
}

func (p *GamePage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	if p.session.ScorePromptOpen() {
		return p.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, p.keys.Quit):
		return tea.Quit, nil
	case key.Matches(msg, p.keys.Up):
		p.moveCursor(0, -1)
	case key.Matches(msg, p.keys.Down):
		p.moveCursor(0, 1)
	case key.Matches(msg, p.keys.Left):
		p.moveCursor(-1, 0)
	case key.Matches(msg, p.keys.Right):
		p.moveCursor(1, 0)
	case key.Matches(msg, p.keys.Flip):
		p.flipAt(p.cursor)
	case key.Matches(msg, p.keys.Start):
		p.notice = ""
		p.session.Start()
	case key.Matches(msg, p.keys.Reset):
		p.notice = ""
		p.session.Reset()
	case key.Matches(msg, p.keys.Rankings):
		return nil, &PageNav{PageID: RankingsPageID}
	}
	return nil, nil
}

func (p *GamePage) handlePromptKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	switch {
	case key.Matches(msg, p.keys.Escape):
		p.session.SkipRegistration()
		p.notice = "score not registered"
		return nil, nil
	case key.Matches(msg, p.keys.Submit):
		name := strings.TrimSpace(p.input.Value())
		if name == "" {
			return nil, nil
		}
		if p.session.RegisterScore(p.ctx, name) {
			p.notice = fmt.Sprintf("saved %s to the top %d", name, model.RankingSize)
			return nil, &PageNav{PageID: RankingsPageID}
		}
		return nil, nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd, nil
}

func (p *GamePage) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	idx, ok := cellAt(p.width, msg.X, msg.Y)
	if !ok {
		return
	}
	p.cursor = idx
	if !p.session.ScorePromptOpen() {
		p.flipAt(idx)
	}
}

// syncPrompt focuses the name input when the session opens the prompt and
// blurs it once the prompt is closed.
func (p *GamePage) syncPrompt() tea.Cmd {
	open := p.session.ScorePromptOpen()
	switch {
	case open && !p.input.Focused():
		p.input.Reset()
		return p.input.Focus()
	case !open && p.input.Focused():
		p.input.Blur()
	}
	return nil
}

// pollElapsed keeps one redraw tick in flight while the clock runs.
func (p *GamePage) pollElapsed() tea.Cmd {
	if p.polling || p.session.Engine().Phase() != model.PhasePlaying {
		return nil
	}
	p.polling = true
	return elapsedTick()
}

func (p *GamePage) moveCursor(dx, dy int) {
	col := p.cursor%model.GridColumns + dx
	row := p.cursor/model.GridColumns + dy
	col = max(0, min(model.GridColumns-1, col))
	row = max(0, min(boardRows-1, row))
	p.cursor = row*model.GridColumns + col
}

func (p *GamePage) flipAt(pos int) {
	cards := p.session.Engine().Cards()
	if pos < 0 || pos >= len(cards) {
		return
	}
	p.session.Flip(cards[pos].ID)
}

// boardLeft returns the column where the board starts for a screen width.
func boardLeft(width int) int {
	return max(0, (width-boardWidth)/2)
}

// cellAt maps a screen position to a board position.
func cellAt(width, x, y int) (int, bool) {
	if y < boardTop {
		return 0, false
	}
	row := (y - boardTop) / cardHeight
	if row >= boardRows {
		return 0, false
	}
	dx := x - boardLeft(width)
	if dx < 0 {
		return 0, false
	}
	stride := cardWidth + cardGap
	col := dx / stride
	if col >= model.GridColumns || dx%stride >= cardWidth {
		return 0, false
	}
	return row*model.GridColumns + col, true
}

func (p *GamePage) View(width, _ int) string {
	center := func(s string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
	}

	var b strings.Builder
	b.WriteString(center(titleStyle().Render("🃏 pairs")))
	b.WriteString("\n")
	b.WriteString(center(p.statusLine()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().MarginLeft(boardLeft(width)).Render(p.renderBoard()))
	b.WriteString("\n\n")

	if p.session.ScorePromptOpen() {
		b.WriteString(center(p.renderPrompt()))
	} else {
		if p.notice != "" {
			b.WriteString(center(mutedStyle().Render(p.notice)))
			b.WriteString("\n")
		}
		b.WriteString(center(helpLine(
			p.keys.Start, p.keys.Flip, p.keys.Reset, p.keys.Rankings, p.keys.Quit,
		)))
	}

	return b.String()
}

func (p *GamePage) statusLine() string {
	eng := p.session.Engine()
	switch eng.Phase() {
	case model.PhaseCountdown:
		return lipgloss.NewStyle().Foreground(ColorOrange).Bold(true).
			Render(fmt.Sprintf("get ready... %d", eng.CountdownValue()))
	case model.PhaseMemorizing:
		return lipgloss.NewStyle().Foreground(ColorPink).Bold(true).
			Render("memorize the cards!")
	case model.PhasePlaying:
		return lipgloss.NewStyle().Foreground(ColorWhite).
			Render(fmt.Sprintf("⏱ %s   pairs %d/%d",
				game.FormatTime(eng.Elapsed()), eng.MatchedCount()/2, model.DeckSize/2))
	case model.PhaseFinished:
		final, _ := eng.FinalTime()
		if eng.IsCelebrating() {
			return lipgloss.NewStyle().Foreground(ColorGreen).Bold(true).
				Render(fmt.Sprintf("🎉 all pairs found in %s 🎉", game.FormatTime(final)))
		}
		return lipgloss.NewStyle().Foreground(ColorGreen).
			Render(fmt.Sprintf("finished in %s, press r to play again", game.FormatTime(final)))
	default:
		return mutedStyle().Render("press s to start")
	}
}

func (p *GamePage) renderBoard() string {
	cards := p.session.Engine().Cards()
	rows := make([]string, 0, boardRows)
	for r := 0; r < boardRows; r++ {
		cells := make([]string, 0, model.GridColumns*2-1)
		for c := 0; c < model.GridColumns; c++ {
			if c > 0 {
				cells = append(cells, strings.Repeat(" ", cardGap))
			}
			pos := r*model.GridColumns + c
			cells = append(cells, p.renderCard(pos, cards[pos]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (p *GamePage) renderCard(pos int, card model.Card) string {
	style := lipgloss.NewStyle().
		Width(cardWidth - 2).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGray)

	face := "░░"
	switch {
	case card.Matched:
		face = string(card.Symbol)
		style = style.BorderForeground(ColorGreen)
	case p.session.Engine().VisibleCard(card):
		face = string(card.Symbol)
		style = style.BorderForeground(ColorBlue)
	default:
		style = style.Foreground(ColorNavy)
	}

	if pos == p.cursor {
		style = style.Border(lipgloss.ThickBorder()).BorderForeground(ColorPink)
	}
	return style.Render(face)
}

func (p *GamePage) renderPrompt() string {
	final, _ := p.session.Engine().FinalTime()

	submit := p.keys.Submit
	submit.SetEnabled(strings.TrimSpace(p.input.Value()) != "")

	lines := []string{
		lipgloss.NewStyle().Foreground(ColorPink).Bold(true).
			Render(fmt.Sprintf("new top %d time: %s", model.RankingSize, game.FormatTime(final))),
		p.input.View(),
		helpLine(submit, p.keys.Escape),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPink).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
