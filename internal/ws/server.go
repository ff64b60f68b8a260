package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/practice"
	"github.com/spoorthylakshmi/wellnest/internal/reminder"
	"github.com/spoorthylakshmi/wellnest/internal/session"
)

// PracticeSource serves the /api/practice endpoint.
type PracticeSource interface {
	Summary(ctx context.Context) (practice.Summary, error)
}

// ReminderSource serves the /api/reminders/next endpoint.
type ReminderSource interface {
	Upcoming() []reminder.NextFire
}

type Server struct {
	store           *session.Store
	broadcaster     *Broadcaster
	practice        PracticeSource
	reminders       ReminderSource
	health          *HealthReporter
	embeddedHandler http.Handler
	allowedOrigins  map[string]bool
	allowedHosts    map[string]bool
	log             *zap.Logger
}

func NewServer(store *session.Store, broadcaster *Broadcaster, embeddedHandler http.Handler, allowedOrigins []string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:           store,
		broadcaster:     broadcaster,
		embeddedHandler: embeddedHandler,
		allowedOrigins:  make(map[string]bool),
		allowedHosts:    make(map[string]bool),
		log:             logger,
	}
	s.health = NewHealthReporter(store, broadcaster)

	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		s.allowedOrigins[trimmed] = true
		if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
			s.allowedHosts[parsed.Host] = true
		}
	}

	return s
}

// SetPractice configures the /api/practice source. Must be called before
// Routes.
func (s *Server) SetPractice(p PracticeSource) {
	s.practice = p
}

// SetReminders configures the /api/reminders/next source. Must be called
// before Routes.
func (s *Server) SetReminders(r ReminderSource) {
	s.reminders = r
}

// Routes builds the HTTP handler for the API, the WebSocket stream and the
// embedded page.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(securityHeaders)
	r.Use(s.recovery)

	r.Get("/ws", s.handleWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/practice", s.handlePractice)
		r.Get("/reminders/next", s.handleReminders)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.handleListSessions)
			r.Post("/", s.handleCreateSession)
			r.Get("/{id}", s.handleGetSession)
			r.Delete("/{id}", s.handleDeleteSession)
			r.Post("/{id}/start", s.handleCommand(commandStart))
			r.Post("/{id}/pause", s.handleCommand(commandPause))
			r.Post("/{id}/reset", s.handleCommand(commandReset))
		})
	})

	if s.embeddedHandler != nil {
		s.log.Info("serving embedded frontend")
		r.Handle("/*", s.embeddedHandler)
	}
	return r
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade error", zap.Error(err))
		return
	}

	c, err := s.broadcaster.AddClient(conn)
	if err != nil {
		s.log.Warn("ws client rejected", zap.String("remote", r.RemoteAddr), zap.Error(err))
		msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		conn.Close()
		return
	}
	s.log.Info("websocket client connected", zap.String("remote", r.RemoteAddr))

	go func() {
		defer func() {
			s.broadcaster.RemoveClient(c)
			s.log.Info("websocket client disconnected", zap.String("remote", r.RemoteAddr))
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	snaps := s.store.GetAll()
	views := make([]SessionView, 0, len(snaps))
	for _, snap := range snaps {
		views = append(views, s.broadcaster.View(snap))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	c := s.store.Create()
	snap, err := s.store.Snapshot(c.ID())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info("session created", zap.String("session", c.ID()))
	writeJSON(w, http.StatusCreated, s.broadcaster.View(snap))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.broadcaster.View(snap))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Remove(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.broadcaster.QueueRemoval(id)
	s.log.Info("session removed", zap.String("session", id))
	w.WriteHeader(http.StatusNoContent)
}

type command func(*session.Controller) breathing.SessionState

var (
	commandStart command = (*session.Controller).OnStartClick
	commandPause command = (*session.Controller).OnPauseClick
	commandReset command = (*session.Controller).OnResetClick
)

func (s *Server) handleCommand(cmd command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		c, ok := s.store.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, session.ErrNotFound.Error())
			return
		}
		st := cmd(c)
		writeJSON(w, http.StatusOK, SessionView{
			ID:        c.ID(),
			CreatedAt: c.CreatedAt(),
			State:     st,
			Display:   s.broadcaster.adapter.Present(st),
		})
	}
}

func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	if s.practice == nil {
		writeError(w, http.StatusServiceUnavailable, "practice tracking not available")
		return
	}
	sum, err := s.practice.Summary(r.Context())
	if err != nil {
		s.log.Error("practice summary failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "practice summary failed")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleReminders(w http.ResponseWriter, _ *http.Request) {
	if s.reminders == nil {
		writeJSON(w, http.StatusOK, []reminder.NextFire{})
		return
	}
	writeJSON(w, http.StatusOK, s.reminders.Upcoming())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.health.Report())
}

func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.log.Error("panic recovered", zap.Any("error", err), zap.String("path", r.URL.Path))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorPayload{Message: msg})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(s.allowedOrigins) > 0 {
		if s.allowedOrigins[origin] {
			return true
		}
		if parsed, err := url.Parse(origin); err == nil && parsed.Host != "" {
			return s.allowedHosts[parsed.Host]
		}
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := parsed.Host
	if host == r.Host {
		return true
	}

	switch parsed.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
