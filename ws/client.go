package ws

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 30 * time.Second
	pingInterval = 50 * time.Second
	sendBuffer   = 256
)

// Client is one live connection. The hub only ever touches the send queue;
// reads stay with the handler that owns the connection.
type Client struct {
	UserID   uint
	Username string

	conn *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClient(conn *websocket.Conn, userID uint, username string) *Client {
	return &Client{
		UserID:   userID,
		Username: username,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
	}
}

// enqueue hands a frame to the write pump without blocking; false means the
// client's buffer is full or the connection is already gone.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true // gone already, nothing to deliver and nothing to drop
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Send writes an event to this connection only (error signals back to the
// originator).
func (c *Client) Send(event string, payload any) {
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		log.Printf("[ws] marshal %s: %v", event, err)
		return
	}
	c.enqueue(data)
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// WritePump drains the send queue onto the socket and keeps the connection
// alive with pings. Run it in its own goroutine; it exits when the hub closes
// the queue or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[ws] write error user=%d: %v", c.UserID, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
