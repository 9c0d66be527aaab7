package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-board/internal/session"
)

var ErrUnknownAction = errors.New("unknown action")

type sessionManager interface {
	Create(ctx context.Context) (*session.Result, error)
	Resume(ctx context.Context, id string) (*session.Result, error)
	Click(ctx context.Context, id string, x, y float64) (*session.Result, error)
	Move(ctx context.Context, id string, cell int) (*session.Result, error)
	Reset(ctx context.Context, id string) (*session.Result, error)
	Hold(ctx context.Context, id string) error
	Release(id string)
}

type Options struct {
	SendBuffer   int
	WriteTimeout time.Duration
}

type Server struct {
	logger   *slog.Logger
	sessions sessionManager
	options  Options
	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, c *client, message *Message) error
}

func New(logger *slog.Logger, sessions sessionManager, options Options) *Server {
	if options.SendBuffer <= 0 {
		options.SendBuffer = 64
	}

	if options.WriteTimeout <= 0 {
		options.WriteTimeout = 10 * time.Second
	}

	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
		options:  options,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},

		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers[actionSessionNew] = server.handleSessionNew
	server.handlers[actionSessionResume] = server.handleSessionResume
	server.handlers[actionClick] = server.handleClick
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionReset] = server.handleReset

	return server
}

// Handler - returns the HTTP handler serving /ws.
func (that *Server) Handler(ctx context.Context) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return router
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(ctx),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	c := newClient(that.logger, conn, that.options.SendBuffer, that.options.WriteTimeout)
	go c.writePump()

	that.handleMessages(ctx, c)
}

// handleMessages - processes messages from the client until it leaves.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages")

	defer func() {
		close(c.send)

		if c.sessionID != "" && !c.quit {
			that.sessions.Release(c.sessionID)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			c.sendError("", "malformed message")
			continue
		}

		if err = that.processMessage(ctx, c, &message); err != nil {
			log.Warn("error processing message", "action", message.Action, "error", err)
			c.sendError(message.Action, err.Error())
		}

		if c.quit {
			return
		}
	}
}

// processMessage - dispatches the message to its action handler.
func (that *Server) processMessage(ctx context.Context, c *client, message *Message) error {
	if handler, ok := that.handlers[message.Action]; ok {
		return handler(ctx, c, message)
	}

	return fmt.Errorf("%w: %s", ErrUnknownAction, message.Action)
}
