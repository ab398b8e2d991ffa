package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/orb-runner/internal/core"
	"github.com/vovakirdan/orb-runner/internal/level"
	"github.com/vovakirdan/orb-runner/internal/progress"
	"github.com/vovakirdan/orb-runner/internal/sim"
)

// LevelSelectKeyMap defines the key bindings for the level select screen.
type LevelSelectKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextTier key.Binding
	PrevTier key.Binding
	Select   key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LevelSelectKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTier, k.PrevTier, k.Select, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k LevelSelectKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTier, k.PrevTier},
		{k.Select, k.Quit},
	}
}

// DefaultLevelSelectKeyMap returns default key bindings.
func DefaultLevelSelectKeyMap() LevelSelectKeyMap {
	return LevelSelectKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		NextTier: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next tier"),
		),
		PrevTier: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev tier"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// LevelSelectModel lists the levels of each tier with unlock state and bests.
type LevelSelectModel struct {
	env        Env
	tierCursor int
	levels     []level.Descriptor
	bests      map[string]progress.LevelBest
	totals     progress.Totals
	table      table.Model
	help       help.Model
	keys       LevelSelectKeyMap
	width      int
	height     int
	notice     string
	selected   *level.Descriptor
	quitting   bool
}

// NewLevelSelectModel creates the level select screen.
func NewLevelSelectModel(env Env, width, height int) LevelSelectModel {
	h := help.New()
	h.ShowAll = false

	m := LevelSelectModel{
		env:    env,
		keys:   DefaultLevelSelectKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.loadProgress()
	m.table = m.createTable()
	m.loadTier()
	return m
}

// loadProgress reads bests and totals. A missing store means nothing is saved yet.
func (m *LevelSelectModel) loadProgress() {
	m.bests = map[string]progress.LevelBest{}
	m.totals = progress.Totals{}
	if m.env.Store == nil {
		return
	}

	bests, err := m.env.Store.LevelBests()
	if err != nil {
		m.env.logger().Warn("could not load level progress", "error", err)
	} else {
		m.bests = bests
	}
	if totals, err := m.env.Store.Totals(); err == nil {
		m.totals = totals
	}
}

// createTable creates a new table with appropriate columns.
func (m *LevelSelectModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Level", Width: 7},
		{Title: "Speed", Width: 6},
		{Title: "Obst", Width: 5},
		{Title: "Runes", Width: 6},
		{Title: "Best", Width: 12},
		{Title: "Score", Width: 6},
		{Title: "Status", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(core.Max(m.height-10, 4)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *LevelSelectModel) tier() level.Tier {
	return level.Tiers[m.tierCursor]
}

// loadTier fills the table with the current tier's levels.
func (m *LevelSelectModel) loadTier() {
	if m.env.Levels != nil {
		m.levels = m.env.Levels.Levels(m.tier())
	} else {
		m.levels = nil
	}

	rows := make([]table.Row, len(m.levels))
	for i, d := range m.levels {
		best, played := m.bests[d.Key()]
		bestText, scoreText := "-", "-"
		if played {
			bestText = fmt.Sprintf("%c%d %c%d %c%d",
				sim.RuneChar, best.Best.Runes, sim.CrystalChar, best.Best.Crystals, sim.FragmentChar, best.Best.Fragments)
			scoreText = fmt.Sprintf("%d", best.BestScore)
		}
		rows[i] = table.Row{
			d.Key(),
			fmt.Sprintf("%.2f", d.ObstacleSpeed),
			fmt.Sprintf("%d", d.ObstacleCount),
			fmt.Sprintf("%d", d.RequiredRunes),
			bestText,
			scoreText,
			m.status(d),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *LevelSelectModel) status(d level.Descriptor) string {
	if b := m.bests[d.Key()]; b.Completions > 0 {
		return fmt.Sprintf("done x%d", b.Completions)
	}
	if progress.Unlocked(m.bests, d) {
		return "open"
	}
	return "locked"
}

// Init initializes the level select model.
func (m LevelSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the level select screen.
func (m LevelSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, nil

		case key.Matches(msg, m.keys.NextTier):
			m.tierCursor = (m.tierCursor + 1) % len(level.Tiers)
			m.loadTier()
			return m, nil

		case key.Matches(msg, m.keys.PrevTier):
			m.tierCursor = (m.tierCursor + len(level.Tiers) - 1) % len(level.Tiers)
			m.loadTier()
			return m, nil

		case key.Matches(msg, m.keys.Select):
			m.choose()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.loadTier()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// choose selects the highlighted level if it is unlocked.
func (m *LevelSelectModel) choose() {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.levels) {
		return
	}
	d := m.levels[i]
	if err := progress.CheckUnlocked(m.bests, d); err != nil {
		m.notice = err.Error()
		return
	}
	m.selected = &d
}

// View renders the level select screen.
func (m LevelSelectModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("ORB RUNNER", m.width)))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.table.View()))
	b.WriteString("\n")

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	b.WriteString(dimStyle.Render(m.upgradeLine()))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(m.notice))
	}
	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m LevelSelectModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(level.Tiers))
	for i, t := range level.Tiers {
		name := strings.ToUpper(t.String())
		if i == m.tierCursor {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m LevelSelectModel) upgradeLine() string {
	items := m.totals.Items
	current := progress.UpgradeFor(items)
	line := fmt.Sprintf("Orb: %s  %c%d %c%d %c%d  runs %d, cleared %d",
		current,
		sim.RuneChar, items.Runes, sim.CrystalChar, items.Crystals, sim.FragmentChar, items.Fragments,
		m.totals.Attempts, m.totals.Completions)
	if next, missing := progress.NextUpgrade(items); missing > 0 {
		line += fmt.Sprintf("  (%d pts to %s)", missing, next)
	}
	return line
}

// Selected returns the chosen level, or nil.
func (m LevelSelectModel) Selected() *level.Descriptor {
	return m.selected
}

// IsQuitting returns true if the user left the screen.
func (m LevelSelectModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	padding := (width - textWidth) / 2
	return strings.Repeat(" ", padding) + text
}
