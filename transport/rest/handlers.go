package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rocketscienceinc/tictactoe-board/internal/board"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/session"
)

type sessionManager interface {
	Geometry() (board.Geometry, int)

	Create(ctx context.Context) (*session.Result, error)
	Get(ctx context.Context, id string) (*entity.Session, error)
	Click(ctx context.Context, id string, x, y float64) (*session.Result, error)
	Move(ctx context.Context, id string, cell int) (*session.Result, error)
	Reset(ctx context.Context, id string) (*session.Result, error)
	Close(ctx context.Context, id string) error
}

type sessionHandlers struct {
	logger   *slog.Logger
	sessions sessionManager
}

func newSessionHandlers(logger *slog.Logger, sessions sessionManager) *sessionHandlers {
	return &sessionHandlers{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
	}
}

// Geometry handles GET /api/v1/geometry
func (that *sessionHandlers) Geometry(w http.ResponseWriter, _ *http.Request) {
	geometry, size := that.sessions.Geometry()

	grid, err := board.New(size, geometry)
	if err != nil {
		that.logger.Error("failed to build grid", "method", "Geometry", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, newGeometryResponse(grid))
}

// Create handles POST /api/v1/sessions
func (that *sessionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	result, err := that.sessions.Create(r.Context())
	if err != nil {
		that.sessionError(w, "Create", err)
		return
	}

	writeJSON(w, http.StatusCreated, newResultResponse(result))
}

// Get handles GET /api/v1/sessions/{id}
func (that *sessionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	state, err := that.sessions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.sessionError(w, "Get", err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Delete handles DELETE /api/v1/sessions/{id}
func (that *sessionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.Close(r.Context(), mux.Vars(r)["id"]); err != nil {
		that.sessionError(w, "Delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Click handles POST /api/v1/sessions/{id}/clicks
func (that *sessionHandlers) Click(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.X == nil || req.Y == nil {
		writeError(w, http.StatusBadRequest, "x and y are required")
		return
	}

	result, err := that.sessions.Click(r.Context(), mux.Vars(r)["id"], *req.X, *req.Y)
	if err != nil {
		that.sessionError(w, "Click", err)
		return
	}

	writeJSON(w, http.StatusOK, newResultResponse(result))
}

// Move handles POST /api/v1/sessions/{id}/moves
func (that *sessionHandlers) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		writeError(w, http.StatusBadRequest, "cell is required")
		return
	}

	result, err := that.sessions.Move(r.Context(), mux.Vars(r)["id"], *req.Cell)
	if err != nil {
		that.sessionError(w, "Move", err)
		return
	}

	writeJSON(w, http.StatusOK, newResultResponse(result))
}

// Reset handles POST /api/v1/sessions/{id}/reset
func (that *sessionHandlers) Reset(w http.ResponseWriter, r *http.Request) {
	result, err := that.sessions.Reset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.sessionError(w, "Reset", err)
		return
	}

	writeJSON(w, http.StatusOK, newResultResponse(result))
}

func (that *sessionHandlers) sessionError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrSessionClosed):
		writeError(w, http.StatusGone, err.Error())
	default:
		that.logger.Error("session request failed", "method", method, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
