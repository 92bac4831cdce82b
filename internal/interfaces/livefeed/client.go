package livefeed

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/matchday/internal/usecase"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type client struct {
	id      string
	matchID string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(hub *Hub, conn *websocket.Conn, matchID string, buffer int) *client {
	return &client{
		id:      uuid.NewString(),
		matchID: matchID,
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, buffer),
		done:    make(chan struct{}),
	}
}

// enqueue never blocks; false means the buffer is full.
func (c *client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return true
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// readPump only services control frames; scoreboards never send data.
func (c *client) readPump() {
	defer c.hub.unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("live client read failed", "client_id", c.id, "error", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.unregister(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.unregister(c)
				return
			}
		}
	}
}

type rejection struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// writeRejection answers before the upgrade, in the API's error shape.
func writeRejection(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	reason := "internal"
	message := http.StatusText(status)
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		status, reason, message = http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, usecase.ErrInvalidInput):
		status, reason, message = http.StatusBadRequest, "invalid_input", err.Error()
	case errors.Is(err, usecase.ErrTimeout):
		status, reason, message = http.StatusGatewayTimeout, "timeout", http.StatusText(http.StatusGatewayTimeout)
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		status, reason, message = http.StatusServiceUnavailable, "dependency_unavailable", http.StatusText(http.StatusServiceUnavailable)
	}

	body, _ := sonic.Marshal(rejection{Error: reason, Message: message, Status: status})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
