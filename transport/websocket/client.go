package websocket

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

// client is one websocket connection. The read loop owns the send channel: only it
// enqueues and it closes the channel on exit. The write loop owns every write.
type client struct {
	logger       *slog.Logger
	conn         *websocket.Conn
	send         chan Response
	writeTimeout time.Duration

	sessionID string
	quit      bool
}

func newClient(logger *slog.Logger, conn *websocket.Conn, sendBuffer int, writeTimeout time.Duration) *client {
	return &client{
		logger:       logger,
		conn:         conn,
		send:         make(chan Response, sendBuffer),
		writeTimeout: writeTimeout,
	}
}

// enqueue - queues the message without blocking. A client that does not keep up
// loses messages instead of stalling its session.
func (that *client) enqueue(msg Response) bool {
	select {
	case that.send <- msg:
		return true
	default:
		that.logger.Warn("send buffer full, message dropped", "action", msg.Action)
		return false
	}
}

func (that *client) sendError(action string, message string) {
	that.enqueue(Response{
		Action:  actionError,
		Payload: ErrorPayload{Action: action, Error: message},
	})
}

// writePump - writes queued messages and keep-alive pings until the send channel is
// closed, then says goodbye and closes the connection.
func (that *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(that.writeTimeout))

			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := that.conn.WriteJSON(msg); err != nil {
				that.logger.Error("failed to write message", "error", err)
				that.abort()
				return
			}

		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(that.writeTimeout))

			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				that.abort()
				return
			}
		}
	}
}

// abort closes the connection so the read loop stops, then drains the queue until
// the read loop closes it.
func (that *client) abort() {
	_ = that.conn.Close()

	for range that.send {
	}
}
