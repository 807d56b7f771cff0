package remote

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"randomtimer/internal/core/model"
	"randomtimer/internal/core/timekeeper"
)

// Commander is the command surface of the timer.
type Commander interface {
	Start(level model.DifficultyLevel) error
	Stop()
	Snapshot() timekeeper.State
	Now() time.Time
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler routes the HTTP command surface and the status stream.
func NewHandler(commander Commander, hub *Hub, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	handlers := &handlers{commander: commander, hub: hub, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /start", handlers.start)
	mux.HandleFunc("POST /stop", handlers.stop)
	mux.HandleFunc("GET /status", handlers.status)
	mux.HandleFunc("GET /ws", handlers.stream)
	return mux
}

type handlers struct {
	commander Commander
	hub       *Hub
	logger    *slog.Logger
}

func (h *handlers) start(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("level")
	level := model.DefaultLevel
	if name != "" {
		parsed, err := model.ParseDifficulty(name)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		level = parsed
	}

	if err := h.commander.Start(level); err != nil {
		h.logger.Warn("remote start refused", "level", string(level), "error", err)
		h.writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
		return
	}
	h.status(w, r)
}

func (h *handlers) stop(w http.ResponseWriter, r *http.Request) {
	h.commander.Stop()
	h.status(w, r)
}

func (h *handlers) status(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, messageFromState(h.commander.Snapshot(), h.commander.Now()))
}

func (h *handlers) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("status websocket upgrade failed", "error", err)
		return
	}
	if !h.hub.Register(conn) {
		_ = conn.Close()
		return
	}
	defer h.hub.Unregister(conn)

	// Clients never send data; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("write response", "error", err)
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, timekeeper.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, timekeeper.ErrNotificationDenied):
		return http.StatusForbidden
	case errors.Is(err, timekeeper.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Serve runs the handler on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("status server listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("status server stopped")
		return nil
	}
}
