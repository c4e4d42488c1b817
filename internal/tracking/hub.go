package tracking

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"resto-service/pkg/jwt"
	"resto-service/pkg/logger"
	"resto-service/pkg/validation"
)

// PositionSink receives accepted driver reports for persistence outside the
// live table (last-known columns, geo index). Calls must not block ingestion.
type PositionSink interface {
	SavePosition(ctx context.Context, driverID string, lat, lng float64, at time.Time) error
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub owns the live connection registry and the driver position table, and
// fans accepted reports out to observer connections of the same restaurant.
type Hub struct {
	positions  *PositionTable
	sink       PositionSink
	sendBuffer int
	log        logger.Logger

	mu    sync.RWMutex
	conns map[*conn]struct{}
}

// NewHub creates a hub. sink may be nil when last-known persistence is not
// wanted (tests).
func NewHub(sink PositionSink, sendBuffer int, log logger.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Hub{
		positions:  NewPositionTable(),
		sink:       sink,
		sendBuffer: sendBuffer,
		log:        log,
		conns:      make(map[*conn]struct{}),
	}
}

// Positions exposes the live table for read-only consumers (stats, snapshot).
func (h *Hub) Positions() *PositionTable { return h.positions }

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Routes returns a chi.Router for the /ws mount point.
func (h *Hub) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleWS)
	return r
}

// HandleWS authenticates the handshake, upgrades the connection, and runs
// its read loop until disconnect. The token travels in the query string
// because browsers cannot set headers on WebSocket handshakes.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, `{"error":"missing token"}`, http.StatusUnauthorized)
		return
	}

	claims, err := jwt.Validate(token)
	if err != nil {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
		return
	}

	switch claims.Role {
	case jwt.RoleDriver, jwt.RoleManager, jwt.RoleAdmin:
	default:
		http.Error(w, `{"error":"role not allowed"}`, http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws upgrade failed", "error", err)
		return
	}

	c := &conn{
		id:           uuid.New().String(),
		role:         claims.Role,
		restaurantID: claims.RestaurantID,
		ws:           ws,
		send:         make(chan []byte, h.sendBuffer),
	}
	if claims.Role == jwt.RoleDriver {
		c.driverID = claims.UserID
	}

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	h.log.Info("ws client connected",
		"conn_id", c.id, "user_id", claims.UserID, "role", c.role, "restaurant_id", c.restaurantID)

	go c.writePump()
	h.readLoop(c)

	h.drop(c)
	h.log.Info("ws client disconnected", "conn_id", c.id, "user_id", claims.UserID)
}

// readLoop blocks on the socket until the peer goes away. Driver reports are
// ingested; anything sent by other roles is discarded.
func (h *Hub) readLoop(c *conn) {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("ws read error", "conn_id", c.id, "error", err)
			}
			return
		}

		if c.role != jwt.RoleDriver {
			continue
		}
		h.ingest(c, data)
	}
}

// ingest validates one driver report and, if acceptable, updates the live
// table and fans the update out. Bad payloads are dropped without a reply;
// the protocol is fire-and-forget.
func (h *Hub) ingest(c *conn, data []byte) {
	var rep LocationReport
	if err := json.Unmarshal(data, &rep); err != nil {
		h.log.Debug("malformed location report", "conn_id", c.id, "error", err)
		return
	}
	if !validation.ValidateCoordinates(rep.Lat, rep.Lng) {
		h.log.Debug("out-of-range location report",
			"conn_id", c.id, "driver_id", c.driverID, "lat", rep.Lat, "lng", rep.Lng)
		return
	}

	now := time.Now()
	h.positions.Set(c.driverID, rep.Lat, rep.Lng, now)

	if h.sink != nil {
		// Persistence is best-effort and must never block the read loop.
		go func() {
			if err := h.sink.SavePosition(context.Background(), c.driverID, rep.Lat, rep.Lng, now); err != nil {
				h.log.Warn("position sink failed", "driver_id", c.driverID, "error", err)
			}
		}()
	}

	h.fanOut(LocationPush{
		DriverID: c.driverID,
		Lat:      rep.Lat,
		Lng:      rep.Lng,
		Ts:       now.UnixMilli(),
	}, c.restaurantID)
}

// fanOut enqueues the push to every observer of the given restaurant. An
// observer whose queue is full is torn down; one slow or dead observer never
// stalls ingestion or delivery to the others. Per-driver ordering holds
// because each driver has a single read loop and each observer queue is FIFO.
func (h *Hub) fanOut(push LocationPush, restaurantID string) {
	data, err := json.Marshal(push)
	if err != nil {
		h.log.Error("marshal push failed", "error", err)
		return
	}

	// Enqueue under the read lock: drop closes send queues only under the
	// write lock, so membership in conns guarantees the queue is open.
	h.mu.RLock()
	var failed []*conn
	for c := range h.conns {
		if c.observer() && c.restaurantID != "" && c.restaurantID == restaurantID {
			if !c.enqueue(data) {
				failed = append(failed, c)
			}
		}
	}
	h.mu.RUnlock()

	for _, c := range failed {
		h.log.Warn("observer queue full, dropping connection", "conn_id", c.id)
		h.drop(c)
	}
}

// drop deregisters a connection and closes it. Safe to call more than once
// for the same connection; only the first call closes the send queue.
func (h *Hub) drop(c *conn) {
	h.mu.Lock()
	_, ok := h.conns[c]
	if ok {
		delete(h.conns, c)
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		c.ws.Close()
	}
}
