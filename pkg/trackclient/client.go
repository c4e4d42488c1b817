package trackclient

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// push mirrors the server→observer wire message.
type push struct {
	DriverID string  `json:"driverId"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Ts       int64   `json:"ts"`
}

// report mirrors the driver→server wire message.
type report struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Client is one live channel connection. Observers feed a Store from it;
// drivers send position reports through it. There are no acknowledgements in
// either direction.
type Client struct {
	ws    *websocket.Conn
	store *Store

	mu     sync.Mutex // guards writes; gorilla allows one concurrent writer
	closed bool
}

// Dial connects to the channel endpoint, passing the bearer token as a query
// parameter since WebSocket handshakes cannot carry custom headers from
// browsers.
func Dial(ctx context.Context, wsURL, token string, store *Store) (*Client, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}
	return &Client{ws: ws, store: store}, nil
}

// Run reads pushes until the connection drops or ctx is cancelled. Safe to
// call for driver connections too; the server sends them nothing but the
// loop still services keepalive frames.
func (c *Client) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		c.Close()
	}()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		var p push
		if err := json.Unmarshal(data, &p); err != nil {
			continue // best-effort protocol: bad frames are skipped
		}
		if c.store != nil {
			c.store.Apply(p.DriverID, p.Lat, p.Lng, time.UnixMilli(p.Ts))
		}
	}
}

// Send forwards one position sample to the server. Fire-and-forget: the
// server never replies.
func (c *Client) Send(lat, lng float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.ws.WriteJSON(report{Lat: lat, Lng: lng})
}

// Open reports whether the connection is still usable.
func (c *Client) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// Close tears the connection down.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.ws.Close()
}
