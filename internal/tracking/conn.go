package tracking

import (
	"time"

	"github.com/gorilla/websocket"

	"resto-service/pkg/jwt"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait).
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// conn is one live channel connection. Role and identity are fixed at
// handshake from the validated token and never changed afterwards.
type conn struct {
	id           string
	role         string
	restaurantID string
	driverID     string // set only for DRIVER connections
	ws           *websocket.Conn
	send         chan []byte
}

// observer reports whether this connection receives location fan-out.
func (c *conn) observer() bool {
	return c.role == jwt.RoleManager || c.role == jwt.RoleAdmin
}

// enqueue offers a message to the connection's outbound queue without
// blocking. A false return means the queue is full and the connection
// should be torn down.
func (c *conn) enqueue(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// writePump drains the send queue onto the socket and keeps the connection
// alive with pings. It exits when the queue is closed or a write fails.
func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
