// Package server exposes the shared game over WebSocket (/player, /viewer)
// and a small REST API for the leaderboard.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-bomber/internal/engine"
	"github.com/vovakirdan/tui-bomber/internal/grading"
	"github.com/vovakirdan/tui-bomber/internal/hub"
	"github.com/vovakirdan/tui-bomber/internal/storage"
)

const shutdownTimeout = 5 * time.Second

// Config configures the game server.
type Config struct {
	Addr    string
	Engine  engine.Config
	Store   storage.ScoreStore // optional
	Grading *grading.Client    // optional
	Logger  *log.Logger
}

// Server ties the arena, the score worker and the HTTP transport together.
type Server struct {
	cfg      Config
	logger   *log.Logger
	sessions *hub.SessionRegistry
	arena    *hub.Arena
	scores   *Scores
	upgrader websocket.Upgrader
	router   chi.Router
}

// New builds a server. Nothing runs until Run is called.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8000"
	}

	s := &Server{
		cfg:      cfg,
		logger:   cfg.Logger,
		sessions: hub.NewSessionRegistry(),
		scores:   NewScores(cfg.Store, cfg.Grading, cfg.Logger.WithPrefix("scores")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	arena, err := hub.NewArena(hub.ArenaConfig{
		Engine:     cfg.Engine,
		Logger:     cfg.Logger.WithPrefix("arena"),
		Recorder:   s.scores,
		Highscores: s.scores.Highscores,
	}, s.sessions)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.arena = arena
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler serving WebSockets and the REST API.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/player", s.servePlayer)
	r.Get("/viewer", s.serveViewer)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(requestLogger(s.logger.WithPrefix("http")))
		api.Get("/health", s.handleHealth)
		api.Get("/status", s.handleStatus)
		api.Get("/highscores", s.handleHighscores)
		api.Get("/highscores/{player}", s.handlePlayerScores)
	})
	return r
}

// startLoops runs the arena and the score worker until ctx is done. The
// returned channel closes once both have stopped and every result is saved.
func (s *Server) startLoops(ctx context.Context) <-chan struct{} {
	stopped := make(chan struct{})
	scoresDone := make(chan struct{})
	go func() {
		s.scores.Run()
		close(scoresDone)
	}()

	go func() {
		s.arena.Run(ctx)
		s.sessions.CloseAll()
		s.scores.Close()
		<-scoresDone
		close(stopped)
	}()
	return stopped
}

// Run serves on the configured address until ctx is cancelled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopped := s.startLoops(loopCtx)

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("server listening", "addr", s.cfg.Addr, "fps", s.cfg.Engine.TickRate)

	var err error
	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		s.logger.Warn("shutdown", "err", serr)
	}

	cancel()
	<-stopped

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"took", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
