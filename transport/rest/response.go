package rest

import (
	"encoding/json"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-board/internal/board"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/event"
	"github.com/rocketscienceinc/tictactoe-board/internal/game"
	"github.com/rocketscienceinc/tictactoe-board/internal/session"
)

type clickRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

// ResultResponse is what a session request returns: the state after it and what it drew.
type ResultResponse struct {
	Session *entity.Session  `json:"session"`
	Result  game.ClickResult `json:"result"`
	Reason  string           `json:"reason,omitempty"`
	Events  []event.Event    `json:"events"`
	Cues    []event.Cue      `json:"cues"`
	Closed  bool             `json:"closed,omitempty"`
}

func newResultResponse(result *session.Result) ResultResponse {
	response := ResultResponse{
		Session: result.Session,
		Result:  result.Click,
		Events:  result.Events,
		Cues:    result.Cues,
		Closed:  result.Closed,
	}

	if response.Events == nil {
		response.Events = []event.Event{}
	}

	if response.Cues == nil {
		response.Cues = []event.Cue{}
	}

	if result.Click.Reason != nil {
		response.Reason = result.Click.Reason.Error()
	}

	return response
}

type GeometryResponse struct {
	GridSize    int                `json:"grid_size"`
	Geometry    board.Geometry     `json:"geometry"`
	SurfaceSize int                `json:"surface_size"`
	Cells       []board.Rect       `json:"cells"`
	Separators  []board.Rect       `json:"separators"`
	Menu        []board.MenuRegion `json:"menu"`
}

func newGeometryResponse(grid *board.Grid) GeometryResponse {
	cells := make([]board.Rect, 0, grid.Len())
	for i := 0; i < grid.Len(); i++ {
		rect, _ := grid.Rect(i)
		cells = append(cells, rect)
	}

	return GeometryResponse{
		GridSize:    grid.Size(),
		Geometry:    grid.Geometry(),
		SurfaceSize: grid.SurfaceSize(),
		Cells:       cells,
		Separators:  grid.Separators(),
		Menu:        grid.Menu(),
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
