package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bondbrightly/bond-server/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// Client represents a single websocket connection. It starts unregistered;
// the gateway binds it to a user identity on the register event.
type Client struct {
	gw   *Gateway
	conn *websocket.Conn
	send chan []byte

	// userID is empty until the register event is handled. Only the
	// connection's own read loop touches it.
	userID string
}

// NewClient creates a new Client
func NewClient(gw *Gateway, conn *websocket.Conn) *Client {
	return &Client{
		gw:   gw,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// ReadPump pumps events from the websocket connection to the gateway.
// Events are handled to completion one at a time, so two handlers for the
// same connection never interleave.
func (c *Client) ReadPump() {
	defer func() {
		c.gw.Disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var evt domain.Event
		if err := json.Unmarshal(message, &evt); err != nil {
			// Malformed frame from a single client; drop it
			continue
		}

		c.gw.Dispatch(context.Background(), c, evt)
	}
}

// WritePump pumps queued events to the websocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// Send queues an event for delivery. A slow client whose buffer is full
// loses the event rather than blocking anyone else.
func (c *Client) Send(msg []byte) {
	select {
	case c.send <- msg:
	default:
		// Buffer full
	}
}
