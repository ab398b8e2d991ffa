package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/orb-runner/internal/config"
	"github.com/vovakirdan/orb-runner/internal/core"
	"github.com/vovakirdan/orb-runner/internal/level"
	"github.com/vovakirdan/orb-runner/internal/run"
	"github.com/vovakirdan/orb-runner/internal/sim"
	"github.com/vovakirdan/orb-runner/internal/storage"
)

// Env bundles the dependencies shared by every screen of a session.
type Env struct {
	Config config.OrbConfig
	Levels level.Source
	Store  *storage.Store // nil runs without persistence
	Logger *log.Logger

	// NewDriver overrides the tick driver; nil ticks in real time.
	NewDriver func() run.Driver
}

func (e Env) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

// newController builds a run controller for one level on the given viewport.
func (e Env) newController(desc level.Descriptor, vp core.Viewport) *run.Controller {
	opts := []run.Option{run.WithLogger(e.logger())}
	if e.Store != nil {
		opts = append(opts, run.WithStore(e.Store))
	}
	if e.NewDriver != nil {
		opts = append(opts, run.WithDriver(e.NewDriver()))
	}
	return run.New(desc, vp, e.Config, opts...)
}

// Model is the Bubble Tea model for playing one level.
type Model struct {
	env        Env
	desc       level.Descriptor
	ctrl       *run.Controller
	slot       *controllerSlot
	screen     *core.Screen
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	snap       run.Snapshot
	liftSeq    int
	quitting   bool
	backToMenu bool
}

// NewModel creates a gameplay model for desc. The controller is registered
// in slot so the owner can close it when the session ends.
func NewModel(env Env, desc level.Descriptor, cfg core.RuntimeConfig, slot *controllerSlot) Model {
	if slot == nil {
		slot = &controllerSlot{}
	}
	env.Logger = env.logger()

	ctrl := env.newController(desc, core.ViewportForScreen(cfg.ScreenW, cfg.ScreenH))
	slot.set(ctrl)

	return Model{
		env:       env,
		desc:      desc,
		ctrl:      ctrl,
		slot:      slot,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		keyMapper: NewKeyMapper(),
		snap:      ctrl.Snapshot(),
	}
}

// Init starts the frame loop. The simulation ticks on the controller's driver.
func (m Model) Init() tea.Cmd {
	return frameCmd(m.config.FrameFPS)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case FrameMsg:
		if m.quitting || m.backToMenu {
			return m, nil
		}
		m.snap = m.ctrl.Snapshot()
		return m, frameCmd(m.config.FrameFPS)

	case liftReleaseMsg:
		if msg.seq == m.liftSeq {
			m.ctrl.SetLift(false)
		}
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.ctrl.Close()
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	phase := m.ctrl.Phase()

	switch action {
	case core.ActionLift:
		if phase == run.PhaseReady {
			m.do("start", m.ctrl.Start)
			phase = m.ctrl.Phase()
		}
		if phase == run.PhasePlaying {
			m.liftSeq++
			m.ctrl.SetLift(true)
			cmd = liftReleaseCmd(m.liftSeq)
		}

	case core.ActionStart:
		if phase.Terminal() {
			m.do("restart", m.ctrl.Restart)
		}
		m.do("start", m.ctrl.Start)

	case core.ActionPause:
		if phase == run.PhasePlaying || phase == run.PhasePaused {
			m.do("pause", m.ctrl.TogglePause)
		}

	case core.ActionRestart:
		if phase == run.PhasePlaying {
			m.do("pause", m.ctrl.Pause)
		}
		m.do("restart", m.ctrl.Restart)

	case core.ActionBack:
		if phase != run.PhasePlaying {
			m.ctrl.Close()
			m.backToMenu = true
			return m, nil
		}
	}

	m.snap = m.ctrl.Snapshot()
	return m, cmd
}

// do runs a controller transition. Rejected transitions are expected when
// keys race the tick loop, so they are only logged at debug level.
func (m Model) do(op string, fn func() error) {
	if err := fn(); err != nil {
		m.env.Logger.Debug("transition rejected", "op", op, "level", m.desc.Key(), "error", err)
	}
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	// The viewport is fixed once a run starts; only a waiting level is rebuilt
	if m.ctrl.Phase() == run.PhaseReady {
		m.ctrl.Close()
		m.ctrl = m.env.newController(m.desc, core.ViewportForScreen(msg.Width, msg.Height))
		m.slot.set(m.ctrl)
		m.snap = m.ctrl.Snapshot()
	}

	return m, nil
}

// draw renders the latest snapshot into the screen buffer.
func (m Model) draw() {
	m.screen.Clear()
	sim.Render(m.screen, &m.snap.World, m.snap.Viewport, m.env.Config, m.snap.Flash)
	DrawHUD(m.screen, m.snap)
	DrawOverlay(m.screen, m.snap)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.draw()

	home, err := os.UserHomeDir()
	if err != nil {
		m.env.Logger.Warn("could not save screenshot", "error", err)
		return
	}
	dir := filepath.Join(home, ".orbrun", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.env.Logger.Warn("could not save screenshot", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.desc.Key(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.env.Logger.Warn("could not save screenshot", "path", path, "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	m.draw()
	return RenderScreen(m.screen)
}

// Snapshot returns the state shown by the last frame.
func (m Model) Snapshot() run.Snapshot {
	return m.snap
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to level select.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}
