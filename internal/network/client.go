package network

import (
	"log/slog"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Client is one connected player from the server's point of view. It pairs
// the websocket connection with the outbound channel the hub writes to.
type Client struct {
	// Connection-scoped identity, assigned at upgrade time.
	id string

	conn *websocket.Conn

	// Back-reference used for (un)registering and for inbound delivery.
	hub *Hub

	// Buffered outbound channel. The hub goroutine enqueues here and the
	// writeLoop drains it, so a slow client never stalls dispatch.
	send chan Message
}

// ID returns the connection-scoped identity of the client.
func (c *Client) ID() string { return c.id }

// Conn exposes the underlying net.Conn, mainly for logging remote addresses.
func (c *Client) Conn() net.Conn {
	return c.conn.UnderlyingConn()
}

// Send returns the outbound channel for this client.
func (c *Client) Send() chan<- Message { return c.send }

// TrySend enqueues msg without blocking. A full buffer means the client is
// too far behind to care about this update; the message is dropped.
func (c *Client) TrySend(msg Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("unexpected close", "client", c.id, "err", err)
			}
			break
		}
		c.hub.incoming <- clientMessage{client: c, msg: msg}
	}
}

// writeLoop pumps messages from the send channel to the websocket connection
// and keeps the connection alive with periodic pings.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel; the client was unregistered.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
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
