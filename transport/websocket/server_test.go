package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-board/internal/board"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/event"
	"github.com/rocketscienceinc/tictactoe-board/internal/repository"
	"github.com/rocketscienceinc/tictactoe-board/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// received is a server message with its payload left raw.
type received struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

func newTestServer(t *testing.T) (*httptest.Server, repository.SessionRepository) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := repository.NewMemorySessionRepository()
	manager := session.NewManager(logger, repo, board.DefaultGridSize, board.DefaultGeometry())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := httptest.NewServer(New(logger, manager, Options{}).Handler(ctx))
	t.Cleanup(server.Close)

	return server, repo
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()

	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload map[string]any) {
	t.Helper()

	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: payload}))
}

// readUntilState collects messages up to and including the next state message.
func readUntilState(t *testing.T, conn *websocket.Conn) ([]received, StatePayload) {
	t.Helper()

	var messages []received

	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

		var msg received
		require.NoError(t, conn.ReadJSON(&msg))
		messages = append(messages, msg)

		if msg.Action == actionState {
			var state StatePayload
			require.NoError(t, json.Unmarshal(msg.Payload, &state))

			return messages, state
		}
	}
}

func readOne(t *testing.T, conn *websocket.Conn) received {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg received
	require.NoError(t, conn.ReadJSON(&msg))

	return msg
}

func actions(messages []received) []string {
	names := make([]string, 0, len(messages))
	for _, msg := range messages {
		names = append(names, msg.Action)
	}

	return names
}

func TestServer_NewSessionAndMove(t *testing.T) {
	// Given: a connected client
	server, _ := newTestServer(t)
	conn := dial(t, server)

	// When: it starts a session
	send(t, conn, actionSessionNew, nil)
	messages, state := readUntilState(t, conn)

	// Then: the board is cleared and the state carries the new session
	assert.Equal(t, []string{actionRender, actionState}, actions(messages))
	require.NotNil(t, state.Session)
	assert.NotEmpty(t, state.Session.ID)

	var cleared event.Event
	require.NoError(t, json.Unmarshal(messages[0].Payload, &cleared))
	assert.Equal(t, event.KindBoardCleared, cleared.Kind)

	// When: it plays the centre cell
	send(t, conn, actionMove, map[string]any{"cell": 4})
	messages, state = readUntilState(t, conn)

	// Then: a mark is rendered and player one's cue played
	assert.Equal(t, []string{actionRender, actionCue, actionState}, actions(messages))
	assert.True(t, state.Result.Accepted)
	assert.Equal(t, entity.PlayerX, state.Session.Cells[4])

	var cue CuePayload
	require.NoError(t, json.Unmarshal(messages[1].Payload, &cue))
	assert.Equal(t, event.CuePlayerOne, cue.Cue)
}

func TestServer_Click(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server)

	send(t, conn, actionSessionNew, nil)
	readUntilState(t, conn)

	send(t, conn, actionClick, map[string]any{"x": 560.5, "y": 40})
	_, state := readUntilState(t, conn)

	assert.True(t, state.Result.Accepted)
	assert.Equal(t, 2, state.Result.Cell)
}

func TestServer_RejectedMove(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server)

	send(t, conn, actionSessionNew, nil)
	readUntilState(t, conn)
	send(t, conn, actionMove, map[string]any{"cell": 0})
	readUntilState(t, conn)

	send(t, conn, actionMove, map[string]any{"cell": 0})
	messages, state := readUntilState(t, conn)

	assert.Equal(t, []string{actionState}, actions(messages))
	assert.False(t, state.Result.Accepted)
	assert.NotEmpty(t, state.Reason)
}

func TestServer_Errors(t *testing.T) {
	tests := []struct {
		name       string
		newSession bool
		action     string
		payload    map[string]any
	}{
		{name: "Move without session", action: actionMove, payload: map[string]any{"cell": 0}},
		{name: "Unknown action", action: "dance"},
		{name: "Resume without id", action: actionSessionResume},
		{name: "Resume unknown session", action: actionSessionResume, payload: map[string]any{"session_id": "nope"}},
		{name: "Move without cell", newSession: true, action: actionMove, payload: map[string]any{}},
		{name: "Move on a fractional cell", newSession: true, action: actionMove, payload: map[string]any{"cell": 4.9}},
		{name: "Move on a cell given as text", newSession: true, action: actionMove, payload: map[string]any{"cell": "4"}},
		{name: "Click without y", newSession: true, action: actionClick, payload: map[string]any{"x": 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t)
			conn := dial(t, server)

			if tt.newSession {
				send(t, conn, actionSessionNew, nil)
				readUntilState(t, conn)
			}

			send(t, conn, tt.action, tt.payload)
			msg := readOne(t, conn)

			require.Equal(t, actionError, msg.Action)

			var payload ErrorPayload
			require.NoError(t, json.Unmarshal(msg.Payload, &payload))
			assert.Equal(t, tt.action, payload.Action)
			assert.NotEmpty(t, payload.Error)
		})
	}
}

func TestServer_FractionalCellLeavesBoardUntouched(t *testing.T) {
	// Given: a fresh session
	server, repo := newTestServer(t)
	conn := dial(t, server)

	send(t, conn, actionSessionNew, nil)
	_, state := readUntilState(t, conn)

	// When: a move names a cell with a fraction
	send(t, conn, actionMove, map[string]any{"cell": 4.9})

	// Then: it is refused and nothing is played
	assert.Equal(t, actionError, readOne(t, conn).Action)

	stored, err := repo.GetByID(context.Background(), state.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, make([]entity.Mark, 9), stored.Cells)
}

func TestServer_SharedSession(t *testing.T) {
	// Given: two connections on the same session
	server, _ := newTestServer(t)
	first := dial(t, server)

	send(t, first, actionSessionNew, nil)
	_, state := readUntilState(t, first)
	id := state.Session.ID

	second := dial(t, server)
	send(t, second, actionSessionResume, map[string]any{"session_id": id})
	readUntilState(t, second)

	// When: the first one plays and leaves while the second keeps playing
	send(t, first, actionMove, map[string]any{"cell": 0})
	readUntilState(t, first)
	require.NoError(t, first.Close())

	for cell := 1; cell < 4; cell++ {
		send(t, second, actionMove, map[string]any{"cell": cell})
		_, state = readUntilState(t, second)
		require.True(t, state.Result.Accepted, "cell %d", cell)
	}

	// Then: no move is lost
	assert.Equal(t, []entity.Mark{
		entity.PlayerX, entity.PlayerO, entity.PlayerX,
		entity.PlayerO, entity.EmptyCell, entity.EmptyCell,
		entity.EmptyCell, entity.EmptyCell, entity.EmptyCell,
	}, state.Session.Cells)
}

func TestServer_ResumeAfterReconnect(t *testing.T) {
	// Given: a session with one move, played on a connection that then goes away
	server, _ := newTestServer(t)
	first := dial(t, server)

	send(t, first, actionSessionNew, nil)
	_, state := readUntilState(t, first)
	id := state.Session.ID

	send(t, first, actionMove, map[string]any{"cell": 8})
	readUntilState(t, first)
	require.NoError(t, first.Close())

	// When: a new connection resumes it
	second := dial(t, server)
	send(t, second, actionSessionResume, map[string]any{"session_id": id})
	messages, state := readUntilState(t, second)

	// Then: the board is redrawn with the existing mark
	assert.Equal(t, []string{actionRender, actionRender, actionState}, actions(messages))
	assert.Equal(t, entity.PlayerX, state.Session.Cells[8])
	assert.Equal(t, entity.PlayerTwo, state.Session.Turn)
}

func TestServer_QuitClosesConnection(t *testing.T) {
	// Given: a finished game
	server, repo := newTestServer(t)
	conn := dial(t, server)

	send(t, conn, actionSessionNew, nil)
	_, state := readUntilState(t, conn)
	id := state.Session.ID

	for _, cell := range []int{0, 1, 3, 4, 6} {
		send(t, conn, actionMove, map[string]any{"cell": cell})
		readUntilState(t, conn)
	}

	// When: quit is clicked on the menu
	send(t, conn, actionClick, map[string]any{"x": 400, "y": 550})
	_, state = readUntilState(t, conn)

	// Then: the server says quit, closes the connection and forgets the session
	assert.Equal(t, board.MenuQuit, state.Result.MenuItem)
	assert.Equal(t, actionQuit, readOne(t, conn).Action)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))

	_, err = repo.GetByID(context.Background(), id)
	require.ErrorIs(t, err, repository.ErrSessionNotFound)
}
