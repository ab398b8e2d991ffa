package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/orb-runner/internal/config"
	"github.com/vovakirdan/orb-runner/internal/level"
	"github.com/vovakirdan/orb-runner/internal/progress"
	"github.com/vovakirdan/orb-runner/internal/run"
)

//go:embed static/index.html
var indexHTML []byte

// ProgressStore is the persistence the web front end needs: the run
// controller's store plus per-level bests for unlocks.
type ProgressStore interface {
	run.ProgressStore
	LevelBests() (map[string]progress.LevelBest, error)
}

// Server hosts browser sessions. Each websocket connection plays one level
// at a time on its own controller.
type Server struct {
	cfg       config.OrbConfig
	levels    level.Source
	store     ProgressStore
	logger    *log.Logger
	frameFPS  int
	newDriver func() run.Driver
	upgrader  websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithStore sets the progress store shared by all sessions.
func WithStore(s ProgressStore) Option {
	return func(srv *Server) { srv.store = s }
}

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(srv *Server) { srv.logger = l }
}

// WithFrameRate sets how often state is pushed to clients.
func WithFrameRate(fps int) Option {
	return func(srv *Server) {
		if fps > 0 {
			srv.frameFPS = fps
		}
	}
}

// WithDriver overrides the tick driver of every session's controller.
func WithDriver(factory func() run.Driver) Option {
	return func(srv *Server) { srv.newDriver = factory }
}

// NewServer creates a web server for the given tuning and levels.
func NewServer(cfg config.OrbConfig, levels level.Source, opts ...Option) *Server {
	srv := &Server{
		cfg:      cfg,
		levels:   levels,
		frameFPS: 30,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		sessions: make(map[*session]struct{}),
	}
	for _, opt := range opts {
		opt(srv)
	}
	if srv.logger == nil {
		srv.logger = log.New(io.Discard)
	}
	return srv
}

// Handler returns the HTTP routes: the client page, the level list and the
// websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/levels", s.handleLevels)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleLevels(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.levelList()); err != nil {
		s.logger.Warn("could not write level list", "error", err)
	}
}

// levelList returns the level catalog with the store's unlock state.
func (s *Server) levelList() []LevelView {
	return levelViews(s.levels, s.bests())
}

func (s *Server) bests() map[string]progress.LevelBest {
	if s.store == nil {
		return map[string]progress.LevelBest{}
	}
	bests, err := s.store.LevelBests()
	if err != nil {
		s.logger.Warn("could not load level progress", "error", err)
		return map[string]progress.LevelBest{}
	}
	return bests
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sess := newSession(s, conn)
	s.track(sess, true)
	defer s.track(sess, false)

	s.logger.Info("session started", "remote", r.RemoteAddr)
	sess.serve()
	s.logger.Info("session ended", "remote", r.RemoteAddr)
}

func (s *Server) track(sess *session, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.sessions[sess] = struct{}{}
	} else {
		delete(s.sessions, sess)
	}
}

// closeSessions drops every open connection. Hijacked websocket connections
// are not closed by http.Server.Shutdown.
func (s *Server) closeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sess := range s.sessions {
		sess.conn.Close()
	}
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()
	s.logger.Info("starting web server", "address", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := httpSrv.Shutdown(shutdownCtx)
	s.closeSessions()
	return err
}
