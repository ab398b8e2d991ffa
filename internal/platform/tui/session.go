package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/orb-runner/internal/core"
	"github.com/vovakirdan/orb-runner/internal/level"
	"github.com/vovakirdan/orb-runner/internal/run"
)

// controllerSlot holds the live controller of a session so it can be closed
// from outside the Bubble Tea loop (SSH disconnect, program exit).
type controllerSlot struct {
	mu     sync.Mutex
	ctrl   *run.Controller
	closed bool
}

// set replaces the live controller, closing the previous one.
func (s *controllerSlot) set(c *run.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl != nil && s.ctrl != c {
		s.ctrl.Close()
	}
	s.ctrl = c
	if s.closed {
		c.Close()
	}
}

// Close stops the live controller. Controllers set afterwards are closed immediately.
func (s *controllerSlot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.ctrl != nil {
		s.ctrl.Close()
	}
}

// SessionModel manages the full session flow: level select -> run -> level select.
// This is the top-level model for both local play and SSH sessions.
type SessionModel struct {
	env      Env
	config   core.RuntimeConfig
	username string
	slot     *controllerSlot
	selector LevelSelectModel
	game     *Model
	inGame   bool
	quitting bool
}

// NewSessionModel creates a new session model. A non-nil start level skips
// the level select screen for the first run.
func NewSessionModel(env Env, cfg core.RuntimeConfig, username string, start *level.Descriptor) SessionModel {
	env.Logger = env.logger()
	m := SessionModel{
		env:      env,
		config:   cfg,
		username: username,
		slot:     &controllerSlot{},
		selector: NewLevelSelectModel(env, cfg.ScreenW, cfg.ScreenH),
	}
	if start != nil {
		game := NewModel(env, *start, cfg, m.slot)
		m.game = &game
		m.inGame = true
	}
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.inGame {
		return m.game.Init()
	}
	return m.selector.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if m.inGame && m.game != nil {
		return m.updateGame(msg)
	}
	return m.updateSelector(msg)
}

// updateSelector handles updates while choosing a level.
func (m SessionModel) updateSelector(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Frame and lift messages from a finished run may still arrive
	switch msg.(type) {
	case FrameMsg, liftReleaseMsg:
		return m, nil
	}

	newSelector, cmd := m.selector.Update(msg)
	if sel, ok := newSelector.(LevelSelectModel); ok {
		m.selector = sel
	}

	if m.selector.IsQuitting() {
		m.quitting = true
		m.slot.Close()
		return m, tea.Quit
	}

	if desc := m.selector.Selected(); desc != nil {
		m.env.Logger.Info("run selected", "user", m.username, "level", desc.Key())
		game := NewModel(m.env, *desc, m.config, m.slot)
		m.game = &game
		m.inGame = true
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates while a level is on screen.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if game, ok := newModel.(Model); ok {
		m.game = &game
	}

	if m.game.BackToMenu() {
		m.inGame = false
		m.game = nil
		// Reload so fresh bests and unlocks show up
		m.selector = NewLevelSelectModel(m.env, m.config.ScreenW, m.config.ScreenH)
		return m, m.selector.Init()
	}

	if m.game.IsQuitting() {
		m.quitting = true
		m.slot.Close()
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inGame && m.game != nil {
		return m.game.View()
	}
	return m.selector.View()
}

// InGame reports whether a level is on screen.
func (m SessionModel) InGame() bool {
	return m.inGame
}

// Close stops the session's live run. Safe to call from any goroutine and
// more than once.
func (m SessionModel) Close() {
	m.slot.Close()
}

// RuntimeFor sizes a front end for a terminal. Unknown (non-positive)
// dimensions and frame rates keep the core defaults.
func RuntimeFor(width, height, fps int) core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if width > 0 && height > 0 {
		cfg.ScreenW, cfg.ScreenH = width, height
	}
	if fps > 0 {
		cfg.FrameFPS = fps
	}
	return cfg
}

// Run starts a local Bubble Tea program. With a start level the session
// opens straight into that run.
func Run(env Env, cfg core.RuntimeConfig, start *level.Descriptor) error {
	model := NewSessionModel(env, cfg, "local", start)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
