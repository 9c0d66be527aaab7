package websocket

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"
	"github.com/rocketscienceinc/tictactoe-board/internal/session"
)

var (
	ErrNoSession      = errors.New("no session, send session:new or session:resume first")
	ErrInvalidPayload = errors.New("invalid payload")
)

func (that *Server) handleSessionNew(ctx context.Context, c *client, _ *Message) error {
	result, err := that.sessions.Create(ctx)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	if err = that.bind(ctx, c, result.Session.ID); err != nil {
		return err
	}

	that.publish(c, result)

	return nil
}

func (that *Server) handleSessionResume(ctx context.Context, c *client, message *Message) error {
	var payload resumePayload
	if err := mapstructure.Decode(message.Payload, &payload); err != nil || payload.SessionID == "" {
		return fmt.Errorf("%w: session_id is required", ErrInvalidPayload)
	}

	result, err := that.sessions.Resume(ctx, payload.SessionID)
	if err != nil {
		return fmt.Errorf("failed to resume session: %w", err)
	}

	if err = that.bind(ctx, c, payload.SessionID); err != nil {
		return err
	}

	that.publish(c, result)

	return nil
}

func (that *Server) handleClick(ctx context.Context, c *client, message *Message) error {
	if c.sessionID == "" {
		return ErrNoSession
	}

	var payload clickPayload
	if err := mapstructure.Decode(message.Payload, &payload); err != nil || payload.X == nil || payload.Y == nil {
		return fmt.Errorf("%w: x and y are required", ErrInvalidPayload)
	}

	result, err := that.sessions.Click(ctx, c.sessionID, *payload.X, *payload.Y)
	if err != nil {
		return fmt.Errorf("failed to click: %w", err)
	}

	that.publish(c, result)

	return nil
}

func (that *Server) handleMove(ctx context.Context, c *client, message *Message) error {
	if c.sessionID == "" {
		return ErrNoSession
	}

	var payload movePayload
	if err := mapstructure.Decode(message.Payload, &payload); err != nil || payload.Cell == nil {
		return fmt.Errorf("%w: cell is required", ErrInvalidPayload)
	}

	cell := *payload.Cell
	if math.Trunc(cell) != cell || math.IsInf(cell, 0) {
		return fmt.Errorf("%w: cell must be a whole number, got %v", ErrInvalidPayload, cell)
	}

	result, err := that.sessions.Move(ctx, c.sessionID, int(cell))
	if err != nil {
		return fmt.Errorf("failed to move: %w", err)
	}

	that.publish(c, result)

	return nil
}

func (that *Server) handleReset(ctx context.Context, c *client, _ *Message) error {
	if c.sessionID == "" {
		return ErrNoSession
	}

	result, err := that.sessions.Reset(ctx, c.sessionID)
	if err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}

	that.publish(c, result)

	return nil
}

// bind attaches the connection to a session, releasing the one it held before.
func (that *Server) bind(ctx context.Context, c *client, id string) error {
	if c.sessionID == id {
		return nil
	}

	if err := that.sessions.Hold(ctx, id); err != nil {
		return fmt.Errorf("failed to hold session: %w", err)
	}

	if c.sessionID != "" {
		that.sessions.Release(c.sessionID)
	}

	c.sessionID = id

	return nil
}

// publish forwards what an input produced: render and cue messages first, then the
// resulting state. A quit from the menu ends the connection.
func (that *Server) publish(c *client, result *session.Result) {
	for _, ev := range result.Events {
		c.enqueue(Response{Action: actionRender, Payload: ev})
	}

	for _, cue := range result.Cues {
		c.enqueue(Response{Action: actionCue, Payload: CuePayload{Cue: cue}})
	}

	state := StatePayload{
		Session: result.Session,
		Result:  result.Click,
	}

	if result.Click.Reason != nil {
		state.Reason = result.Click.Reason.Error()
	}

	c.enqueue(Response{Action: actionState, Payload: state})

	if result.Closed {
		c.enqueue(Response{Action: actionQuit})
		c.sessionID = ""
		c.quit = true
	}
}
