package tui

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/pairs/internal/game"
	"github.com/tinytelemetry/pairs/internal/model"
)

const (
	rankingsDateLayout = "2006-01-02 15:04"
	rankingsChartMax   = 60
	rankingsChartRows  = 8
)

// RankingsSource yields the leaderboard best first.
type RankingsSource func() iter.Seq[model.RankingEntry]

// RankingsPage shows the top-10 table and a bar chart of the times.
type RankingsPage struct {
	source RankingsSource
	keys   KeyMap
}

// NewRankingsPage creates the leaderboard page.
func NewRankingsPage(source RankingsSource) *RankingsPage {
	return &RankingsPage{source: source, keys: DefaultKeyMap()}
}

func (p *RankingsPage) ID() string { return RankingsPageID }

func (p *RankingsPage) Init() tea.Cmd { return nil }

func (p *RankingsPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, nil
	}
	switch {
	case key.Matches(km, p.keys.Quit):
		return tea.Quit, nil
	case key.Matches(km, p.keys.Escape), key.Matches(km, p.keys.Rankings):
		return nil, &PageNav{PageID: GamePageID}
	}
	return nil, nil
}

func (p *RankingsPage) entries() []model.RankingEntry {
	var out []model.RankingEntry
	for e := range p.source() {
		out = append(out, e)
	}
	return out
}

func (p *RankingsPage) View(width, _ int) string {
	entries := p.entries()

	var body string
	if len(entries) == 0 {
		body = mutedStyle().Italic(true).Render("no records yet")
	} else {
		chartWidth := min(rankingsChartMax, max(width-4, 20))
		body = lipgloss.JoinVertical(lipgloss.Left,
			renderRankingsTable(entries),
			"",
			renderRankingsChart(entries, chartWidth),
		)
	}

	page := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle().Render(fmt.Sprintf("🏆 top %d", model.RankingSize)),
		"",
		body,
		"",
		helpLine(p.keys.Escape, p.keys.Quit),
	)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, page)
}

func renderRankingsTable(entries []model.RankingEntry) string {
	nameWidth := model.MaxNameLength
	header := lipgloss.NewStyle().Foreground(ColorGray).Bold(true).Render(
		fmt.Sprintf("%-4s %-*s %9s  %s", "#", nameWidth, "name", "time", "date"))

	lines := []string{header}
	for i, e := range entries {
		style := lipgloss.NewStyle().Foreground(ColorWhite)
		if i == 0 {
			style = style.Foreground(ColorOrange).Bold(true)
		}
		lines = append(lines, style.Render(fmt.Sprintf("%-4s %s %9s  %s",
			strconv.Itoa(i+1)+".",
			padName(e.Name, nameWidth),
			game.FormatTime(e.Time),
			e.Date.Local().Format(rankingsDateLayout),
		)))
	}
	return strings.Join(lines, "\n")
}

// padName pads by display width so emoji names keep the columns aligned.
func padName(name string, width int) string {
	if w := lipgloss.Width(name); w < width {
		return name + strings.Repeat(" ", width-w)
	}
	return name
}

func renderRankingsChart(entries []model.RankingEntry, width int) string {
	bc := barchart.New(width, rankingsChartRows,
		barchart.WithBarGap(1),
	)
	barStyle := lipgloss.NewStyle().Foreground(ColorBlue).Background(ColorBlue)
	for i, e := range entries {
		bc.Push(barchart.BarData{
			Label: strconv.Itoa(i + 1),
			Values: []barchart.BarValue{
				{Name: e.Name, Value: e.Time.Seconds(), Style: barStyle},
			},
		})
	}
	bc.Draw()
	return bc.View()
}
