package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"goose_server/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Client owns one websocket connection. The read loop dispatches frames to
// the router sequentially; outbound frames go through a buffered channel so
// a slow reader on the other end never blocks the sender.
type Client struct {
	UserID int64

	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	closing sync.Once
}

func NewClient(userID int64, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Send enqueues one frame without blocking. A full buffer drops the frame
// and reports false.
func (c *Client) Send(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Client) Close() {
	c.closing.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// ReadLoop consumes frames until the connection drops, then runs the
// router's disconnect cleanup. Runs on the connection's goroutine.
func (c *Client) ReadLoop(router *Router) {
	defer func() {
		router.Disconnect(c.UserID, c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", "user_id", c.UserID, "error", err)
			}
			return
		}
		router.HandleMessage(context.Background(), c.UserID, raw)
	}
}

// WritePump drains the send channel onto the wire and keeps the connection
// alive with pings. Runs on its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
