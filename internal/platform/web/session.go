package web

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/orb-runner/internal/core"
	"github.com/vovakirdan/orb-runner/internal/level"
	"github.com/vovakirdan/orb-runner/internal/progress"
	"github.com/vovakirdan/orb-runner/internal/run"
)

const (
	writeWait = 5 * time.Second

	// Client viewports outside this range fall back to the default.
	minViewport = 200.0
	maxViewport = 4000.0
)

// session is one websocket connection. The reader goroutine applies client
// messages; the serve loop pushes frames and outcome events. Writes are
// serialized by writeMu.
type session struct {
	srv     *Server
	conn    *websocket.Conn
	writeMu sync.Mutex
	events  chan run.Event

	mu        sync.Mutex // guards the fields below
	ctrl      *run.Controller
	sent      bool
	lastTick  uint64
	lastPhase run.Phase
}

func newSession(srv *Server, conn *websocket.Conn) *session {
	return &session{
		srv:    srv,
		conn:   conn,
		events: make(chan run.Event, 16),
	}
}

func (s *session) writeJSON(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(v)
}

func (s *session) sendError(msg string) {
	if err := s.writeJSON(ServerMessage{Type: MsgError, Error: msg}); err != nil {
		s.srv.logger.Debug("could not send error", "error", err)
	}
}

func (s *session) sendLevels() error {
	return s.writeJSON(ServerMessage{Type: MsgLevels, Levels: s.srv.levelList()})
}

// serve runs until the client disconnects or a write fails.
func (s *session) serve() {
	defer s.conn.Close()
	defer s.closeController()

	if err := s.sendLevels(); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.readLoop()
	}()

	ticker := time.NewTicker(time.Second / time.Duration(s.srv.frameFPS))
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case e := <-s.events:
			if err := s.handleEvent(e); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.pushState(false); err != nil {
				return
			}
		}
	}
}

func (s *session) readLoop() {
	for {
		var msg ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.srv.logger.Debug("read failed", "error", err)
			}
			return
		}
		if quit := s.handle(msg); quit {
			return
		}
	}
}

// handle applies one client message. It returns true when the client asked to quit.
func (s *session) handle(msg ClientMessage) bool {
	switch msg.Type {
	case MsgSelect:
		s.selectLevel(msg)
	case MsgAction:
		return s.act(core.ParseAction(msg.Action))
	default:
		s.sendError(fmt.Sprintf("unknown message type %q", msg.Type))
	}
	return false
}

// listen forwards outcome events to the serve loop without blocking the tick.
func (s *session) listen(e run.Event) {
	if _, ok := e.(run.OutcomeEvent); !ok {
		return
	}
	select {
	case s.events <- e:
	default:
		s.srv.logger.Warn("dropped outcome event")
	}
}

func (s *session) selectLevel(msg ClientMessage) {
	tier, index, err := level.ParseKey(msg.Level)
	if err != nil {
		s.sendError(err.Error())
		return
	}
	desc, err := s.srv.levels.Lookup(tier, index)
	if err != nil {
		s.sendError(err.Error())
		return
	}
	if err := progress.CheckUnlocked(s.srv.bests(), desc); err != nil {
		s.sendError(err.Error())
		return
	}

	ctrl := run.New(desc, clientViewport(msg), s.srv.cfg, s.controllerOptions()...)

	s.mu.Lock()
	old := s.ctrl
	s.ctrl = ctrl
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}

	_ = s.pushState(true)
}

func clientViewport(msg ClientMessage) core.Viewport {
	inRange := func(v float64) bool { return v >= minViewport && v <= maxViewport }
	if inRange(msg.Width) && inRange(msg.Height) {
		return core.Viewport{Width: msg.Width, Height: msg.Height}
	}
	return core.ViewportForScreen(80, 25)
}

func (s *session) controllerOptions() []run.Option {
	opts := []run.Option{
		run.WithLogger(s.srv.logger),
		run.WithListener(s.listen),
	}
	if s.srv.store != nil {
		opts = append(opts, run.WithStore(s.srv.store))
	}
	if s.srv.newDriver != nil {
		opts = append(opts, run.WithDriver(s.srv.newDriver()))
	}
	return opts
}

func (s *session) controller() *run.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl
}

// act applies an action to the current run. Browsers report key-up, so lift
// is held until an explicit release.
func (s *session) act(a core.Action) bool {
	if a == core.ActionQuit {
		return true
	}
	ctrl := s.controller()
	if ctrl == nil {
		s.sendError("no level selected")
		return false
	}

	var err error
	switch a {
	case core.ActionLift:
		if ctrl.Phase() == run.PhaseReady {
			err = ctrl.Start()
		}
		ctrl.SetLift(true)
	case core.ActionRelease:
		ctrl.SetLift(false)
	case core.ActionStart:
		if ctrl.Phase().Terminal() {
			err = ctrl.Restart()
		}
		if err == nil {
			err = ctrl.Start()
		}
	case core.ActionPause:
		err = ctrl.TogglePause()
	case core.ActionRestart:
		if ctrl.Phase() == run.PhasePlaying {
			err = ctrl.Pause()
		}
		if err == nil {
			err = ctrl.Restart()
		}
	case core.ActionBack:
		s.closeController()
		_ = s.sendLevels()
		return false
	default:
		s.sendError("unknown action")
		return false
	}

	if err != nil {
		s.sendError(err.Error())
	}
	_ = s.pushState(true)
	return false
}

// pushState sends the current frame if the run advanced since the last one.
func (s *session) pushState(force bool) error {
	ctrl := s.controller()
	if ctrl == nil {
		return nil
	}
	snap := ctrl.Snapshot()

	s.mu.Lock()
	changed := force || !s.sent || snap.World.State.Tick != s.lastTick || snap.Phase != s.lastPhase
	s.sent, s.lastTick, s.lastPhase = true, snap.World.State.Tick, snap.Phase
	s.mu.Unlock()

	if !changed {
		return nil
	}
	return s.writeJSON(ServerMessage{Type: MsgState, State: newStateView(snap, s.srv.cfg)})
}

func (s *session) handleEvent(e run.Event) error {
	ev, ok := e.(run.OutcomeEvent)
	if !ok {
		return nil
	}
	if err := s.pushState(true); err != nil {
		return err
	}
	if err := s.writeJSON(ServerMessage{Type: MsgOutcome, Outcome: newOutcomeView(ev.Outcome)}); err != nil {
		return err
	}
	// Completions may unlock the next level
	return s.sendLevels()
}

func (s *session) closeController() {
	s.mu.Lock()
	ctrl := s.ctrl
	s.ctrl = nil
	s.mu.Unlock()
	if ctrl != nil {
		ctrl.Close()
	}
}
