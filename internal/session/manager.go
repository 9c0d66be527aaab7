package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-board/internal/board"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/event"
	"github.com/rocketscienceinc/tictactoe-board/internal/game"
	"github.com/rocketscienceinc/tictactoe-board/internal/repository"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session is closed")
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// Result is what one input did to a session.
type Result struct {
	Session *entity.Session
	Click   game.ClickResult
	Events  []event.Event
	Cues    []event.Cue
	// Closed is set when the player picked quit: the session no longer exists.
	Closed bool
}

// live is a session loaded in memory. Its mutex serialises every input and guards the
// fields below it.
type live struct {
	mu       sync.Mutex
	id       string
	game     *game.Game
	recorder *event.Recorder

	closed bool
	// evicted is set once the session left the map; holders of this copy must load again.
	evicted  bool
	holders  int
	lastUsed time.Time
}

// Manager hosts many independent games, one per session, and keeps their state in a
// repository so a session survives reconnects and restarts.
type Manager struct {
	logger   *slog.Logger
	repo     sessionRepo
	gridSize int
	geometry board.Geometry
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*live
}

func NewManager(logger *slog.Logger, repo sessionRepo, gridSize int, geometry board.Geometry) *Manager {
	return &Manager{
		logger:   logger.With("component", "session"),
		repo:     repo,
		gridSize: gridSize,
		geometry: geometry,
		now:      time.Now,
		sessions: make(map[string]*live),
	}
}

// Geometry - returns the layout every session board uses.
func (that *Manager) Geometry() (board.Geometry, int) {
	return that.geometry, that.gridSize
}

func (that *Manager) newLive(id string, size int) (*live, error) {
	grid, err := board.New(size, that.geometry)
	if err != nil {
		return nil, fmt.Errorf("failed to create grid: %w", err)
	}

	recorder := &event.Recorder{}
	log := that.logger.With("sessionID", id)

	renderer := event.MultiRenderer(recorder, event.RendererFunc(func(ev event.Event) {
		log.Debug("render", "kind", ev.Kind, "cell", ev.Cell, "mark", ev.Mark, "text", ev.Text)
	}))
	audio := event.MultiAudio(recorder, event.AudioFunc(func(cue event.Cue) {
		log.Debug("cue", "cue", cue)
	}))

	return &live{
		id:       id,
		game:     game.New(grid, game.WithRenderer(renderer), game.WithAudio(audio)),
		recorder: recorder,
	}, nil
}

// Create - starts a new game in a new session.
func (that *Manager) Create(ctx context.Context) (*Result, error) {
	log := that.logger.With("method", "Create")

	session, err := that.newLive(uuid.NewString(), that.gridSize)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.lastUsed = that.now()

	that.mu.Lock()
	that.sessions[session.id] = session
	that.mu.Unlock()

	session.game.Redraw()

	result, err := that.commit(ctx, session, game.ClickResult{
		MoveResult: game.MoveResult{Cell: -1, Outcome: session.game.Outcome()},
	})
	if err != nil {
		that.evict(session)
		return nil, err
	}

	log.Info("session created", "sessionID", session.id)

	return result, nil
}

// Resume - returns the session with the events needed to draw it from scratch.
func (that *Manager) Resume(ctx context.Context, id string) (*Result, error) {
	return that.do(ctx, id, func(g *game.Game) game.ClickResult {
		g.Redraw()
		return game.ClickResult{MoveResult: game.MoveResult{Cell: -1, Outcome: g.Outcome()}}
	})
}

// Get - returns the current state of the session without changing it.
func (that *Manager) Get(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	session.lastUsed = that.now()

	return that.snapshot(session), nil
}

// Click - feeds a pointer click into the session's game. Picking quit on the end of
// game menu closes the session.
func (that *Manager) Click(ctx context.Context, id string, x, y float64) (*Result, error) {
	result, err := that.do(ctx, id, func(g *game.Game) game.ClickResult {
		return g.Click(x, y)
	})
	if err != nil {
		return nil, err
	}

	if result.Click.MenuItem == board.MenuQuit {
		if err = that.Close(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}

		result.Closed = true
	}

	return result, nil
}

// Move - plays the cell directly, for clients that do their own hit-testing.
func (that *Manager) Move(ctx context.Context, id string, cell int) (*Result, error) {
	return that.do(ctx, id, func(g *game.Game) game.ClickResult {
		return game.ClickResult{MoveResult: g.ApplyMove(cell)}
	})
}

// Reset - starts the session's game over.
func (that *Manager) Reset(ctx context.Context, id string) (*Result, error) {
	return that.do(ctx, id, func(g *game.Game) game.ClickResult {
		g.Reset()
		return game.ClickResult{MoveResult: game.MoveResult{Cell: -1, Outcome: g.Outcome()}}
	})
}

// Close - ends the session and deletes its stored state.
func (that *Manager) Close(ctx context.Context, id string) error {
	log := that.logger.With("method", "Close", "sessionID", id)

	that.mu.Lock()
	session, ok := that.sessions[id]
	delete(that.sessions, id)
	that.mu.Unlock()

	if ok {
		session.mu.Lock()
		session.closed = true
		session.evicted = true
		session.mu.Unlock()
	}

	if err := that.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			if ok {
				return nil
			}
			return ErrSessionNotFound
		}

		return fmt.Errorf("failed to delete session: %w", err)
	}

	log.Info("session closed")

	return nil
}

// Hold - marks the session as used by a long lived client, such as a websocket
// connection. A held session is never dropped for being idle. Every Hold is paired with
// a Release.
func (that *Manager) Hold(ctx context.Context, id string) error {
	session, err := that.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer session.mu.Unlock()

	session.holders++
	session.lastUsed = that.now()

	return nil
}

// Release - gives up a Hold. Once nobody holds the session its in-memory copy is dropped;
// the stored state stays and the session is loaded again on next use.
func (that *Manager) Release(id string) {
	that.mu.Lock()
	session, ok := that.sessions[id]
	that.mu.Unlock()

	if !ok {
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.holders > 0 {
		session.holders--
	}

	if session.holders == 0 {
		that.evict(session)
	}
}

// Sweep - drops in-memory sessions nobody holds and nobody used for idle, every idle/2,
// until ctx is done. Their stored state stays, so they are restored on next use.
func (that *Manager) Sweep(ctx context.Context, idle time.Duration) {
	log := that.logger.With("method", "Sweep")

	ticker := time.NewTicker(max(idle/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := that.evictIdle(idle); evicted > 0 {
				log.Info("idle sessions released", "count", evicted)
			}
		}
	}
}

func (that *Manager) evictIdle(idle time.Duration) int {
	deadline := that.now().Add(-idle)

	that.mu.Lock()
	sessions := make([]*live, 0, len(that.sessions))
	for _, session := range that.sessions {
		sessions = append(sessions, session)
	}
	that.mu.Unlock()

	var evicted int
	for _, session := range sessions {
		session.mu.Lock()
		if !session.evicted && session.holders == 0 && session.lastUsed.Before(deadline) {
			that.evict(session)
			evicted++
		}
		session.mu.Unlock()
	}

	return evicted
}

// evict removes the session from the map. Caller holds the session lock.
func (that *Manager) evict(session *live) {
	session.evicted = true

	that.mu.Lock()
	if that.sessions[session.id] == session {
		delete(that.sessions, session.id)
	}
	that.mu.Unlock()
}

// do runs one input against the session under its lock and saves the result.
func (that *Manager) do(ctx context.Context, id string, input func(g *game.Game) game.ClickResult) (*Result, error) {
	session, err := that.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer session.mu.Unlock()

	session.lastUsed = that.now()
	before := session.game.Snapshot()

	click := input(session.game)

	result, err := that.commit(ctx, session, click)
	if err != nil {
		that.rollback(session, before)
		return nil, err
	}

	if click.Accepted && result.Session.IsFinished() {
		that.logger.Info("game over", "sessionID", id, "outcome", result.Session.Outcome)
	}

	return result, nil
}

// commit saves the session and collects what the input emitted. Caller holds the lock.
func (that *Manager) commit(ctx context.Context, session *live, click game.ClickResult) (*Result, error) {
	state := that.snapshot(session)

	if err := that.repo.CreateOrUpdate(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	events, cues := session.recorder.Drain()

	return &Result{
		Session: state,
		Click:   click,
		Events:  events,
		Cues:    cues,
	}, nil
}

// rollback puts the game back to the state that is still stored, so memory never runs
// ahead of the repository. Caller holds the lock.
func (that *Manager) rollback(session *live, state entity.GameState) {
	session.recorder.Drain()

	if err := session.game.Restore(state); err != nil {
		that.logger.Error("failed to roll back session", "sessionID", session.id, "error", err)
		that.evict(session)
	}
}

func (that *Manager) snapshot(session *live) *entity.Session {
	return &entity.Session{
		ID:        session.id,
		GameState: session.game.Snapshot(),
		UpdatedAt: that.now().UTC(),
	}
}

// acquire returns the live session locked. A copy evicted while waiting for the lock is
// dropped and the session is loaded again.
func (that *Manager) acquire(ctx context.Context, id string) (*live, error) {
	for {
		session, err := that.load(ctx, id)
		if err != nil {
			return nil, err
		}

		session.mu.Lock()

		if session.closed {
			session.mu.Unlock()
			return nil, ErrSessionClosed
		}

		if !session.evicted {
			return session, nil
		}

		session.mu.Unlock()
	}
}

// load returns the live session, restoring it from the repository when needed.
func (that *Manager) load(ctx context.Context, id string) (*live, error) {
	log := that.logger.With("method", "load", "sessionID", id)

	that.mu.Lock()
	session, ok := that.sessions[id]
	that.mu.Unlock()

	if ok {
		return session, nil
	}

	stored, err := that.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}

		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	restored, err := that.newLive(id, stored.Size)
	if err != nil {
		return nil, err
	}

	if err = restored.game.Restore(stored.GameState); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	// another request may have restored it meanwhile
	if session, ok = that.sessions[id]; ok {
		return session, nil
	}

	restored.lastUsed = that.now()
	that.sessions[id] = restored

	log.Debug("session restored from storage")

	return restored, nil
}
