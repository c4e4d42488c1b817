package tracking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"resto-service/pkg/jwt"
	"resto-service/pkg/logger"
)

const (
	tenant1 = "rest-1"
	tenant2 = "rest-2"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	if err := jwt.Init("test-secret", time.Hour); err != nil {
		t.Fatalf("jwt init: %v", err)
	}
	h := NewHub(nil, 16, logger.NewNop())
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return h, srv
}

func testToken(t *testing.T, userID, role, restaurantID string) string {
	t.Helper()
	tok, err := jwt.Generate(userID, userID+"@example.com", role, restaurantID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

func dialWS(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=" + token
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readPush(t *testing.T, ws *websocket.Conn) LocationPush {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var p LocationPush
	if err := ws.ReadJSON(&p); err != nil {
		t.Fatalf("read push: %v", err)
	}
	return p
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount = %d, want %d", h.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func expectSilence(t *testing.T, ws *websocket.Conn) {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, _, err := ws.ReadMessage(); err == nil {
		t.Fatalf("expected no message, got one")
	}
}

func TestHandshakeRejectsMissingToken(t *testing.T) {
	h, srv := newTestHub(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
	if h.ClientCount() != 0 {
		t.Fatalf("connection registered despite rejection")
	}
}

func TestHandshakeRejectsExpiredToken(t *testing.T) {
	h, srv := newTestHub(t)

	// Issue a token that is already expired, then restore the normal expiry.
	if err := jwt.Init("test-secret", -time.Hour); err != nil {
		t.Fatalf("jwt init: %v", err)
	}
	expired := testToken(t, "driver-1", jwt.RoleDriver, tenant1)
	if err := jwt.Init("test-secret", time.Hour); err != nil {
		t.Fatalf("jwt init: %v", err)
	}

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=" + expired
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
	if h.ClientCount() != 0 {
		t.Fatalf("expired token produced a registered connection")
	}
}

func TestHandshakeRejectsDisallowedRole(t *testing.T) {
	h, srv := newTestHub(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=" + testToken(t, "cook-1", jwt.RoleCook, tenant1)
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}
	if h.ClientCount() != 0 {
		t.Fatalf("cook connection registered")
	}
}

func TestFanOutAndTenantIsolation(t *testing.T) {
	h, srv := newTestHub(t)

	manager1 := dialWS(t, srv, testToken(t, "mgr-1", jwt.RoleManager, tenant1))
	manager2 := dialWS(t, srv, testToken(t, "mgr-2", jwt.RoleManager, tenant2))
	platformAdmin := dialWS(t, srv, testToken(t, "admin-0", jwt.RoleAdmin, ""))
	driver := dialWS(t, srv, testToken(t, "driver-1", jwt.RoleDriver, tenant1))
	waitClients(t, h, 4)

	if err := driver.WriteJSON(LocationReport{Lat: -23.55, Lng: -46.63}); err != nil {
		t.Fatalf("send report: %v", err)
	}

	push := readPush(t, manager1)
	if push.DriverID != "driver-1" || push.Lat != -23.55 || push.Lng != -46.63 {
		t.Fatalf("unexpected push: %+v", push)
	}
	if push.Ts == 0 {
		t.Fatalf("push missing server timestamp")
	}

	// Other tenant and tenant-less platform admin see nothing.
	expectSilence(t, manager2)
	expectSilence(t, platformAdmin)
}

func TestRangeValidation(t *testing.T) {
	h, srv := newTestHub(t)

	manager := dialWS(t, srv, testToken(t, "mgr-1", jwt.RoleManager, tenant1))
	driver := dialWS(t, srv, testToken(t, "driver-1", jwt.RoleDriver, tenant1))
	waitClients(t, h, 2)

	bad := []LocationReport{
		{Lat: 999, Lng: 0},
		{Lat: 0, Lng: -200},
		{Lat: -90.01, Lng: 0},
	}
	for _, rep := range bad {
		if err := driver.WriteJSON(rep); err != nil {
			t.Fatalf("send report: %v", err)
		}
	}
	if err := driver.WriteJSON(LocationReport{Lat: 10, Lng: 20}); err != nil {
		t.Fatalf("send report: %v", err)
	}

	// Only the valid report arrives, and only it is stored.
	push := readPush(t, manager)
	if push.Lat != 10 || push.Lng != 20 {
		t.Fatalf("out-of-range report leaked through: %+v", push)
	}
	expectSilence(t, manager)

	pos, ok := h.Positions().Get("driver-1")
	if !ok || pos.Lat != 10 || pos.Lng != 20 {
		t.Fatalf("stored position wrong: %+v ok=%v", pos, ok)
	}
}

func TestMalformedReportsDropped(t *testing.T) {
	h, srv := newTestHub(t)

	manager := dialWS(t, srv, testToken(t, "mgr-1", jwt.RoleManager, tenant1))
	driver := dialWS(t, srv, testToken(t, "driver-1", jwt.RoleDriver, tenant1))
	waitClients(t, h, 2)

	if err := driver.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("send: %v", err)
	}
	expectSilence(t, manager)
	if _, ok := h.Positions().Get("driver-1"); ok {
		t.Fatalf("malformed report stored a position")
	}

	// The connection survives and keeps ingesting.
	if err := driver.WriteJSON(LocationReport{Lat: 1, Lng: 2}); err != nil {
		t.Fatalf("send: %v", err)
	}
	push := readPush(t, manager)
	if push.Lat != 1 || push.Lng != 2 {
		t.Fatalf("unexpected push: %+v", push)
	}
}

func TestDriverIdentityComesFromConnection(t *testing.T) {
	h, srv := newTestHub(t)

	manager := dialWS(t, srv, testToken(t, "mgr-1", jwt.RoleManager, tenant1))
	driver := dialWS(t, srv, testToken(t, "driver-a", jwt.RoleDriver, tenant1))
	waitClients(t, h, 2)

	// A spoofed driverId in the payload is ignored.
	spoof := map[string]any{"driverId": "driver-b", "lat": 5.0, "lng": 6.0}
	data, _ := json.Marshal(spoof)
	if err := driver.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("send: %v", err)
	}

	push := readPush(t, manager)
	if push.DriverID != "driver-a" {
		t.Fatalf("push attributed to %q, want driver-a", push.DriverID)
	}
	if _, ok := h.Positions().Get("driver-b"); ok {
		t.Fatalf("driver-a changed driver-b's stored position")
	}
	if pos, ok := h.Positions().Get("driver-a"); !ok || pos.Lat != 5 || pos.Lng != 6 {
		t.Fatalf("driver-a position not stored: %+v ok=%v", pos, ok)
	}
}

func TestObserverRoleCannotIngest(t *testing.T) {
	h, srv := newTestHub(t)

	manager1 := dialWS(t, srv, testToken(t, "mgr-1", jwt.RoleManager, tenant1))
	manager2 := dialWS(t, srv, testToken(t, "mgr-2", jwt.RoleManager, tenant1))
	waitClients(t, h, 2)

	if err := manager1.WriteJSON(LocationReport{Lat: 1, Lng: 2}); err != nil {
		t.Fatalf("send: %v", err)
	}
	expectSilence(t, manager2)
	if h.Positions().Len() != 0 {
		t.Fatalf("manager report stored a position")
	}
}

func TestObserverFailureIsolation(t *testing.T) {
	h, srv := newTestHub(t)

	manager1 := dialWS(t, srv, testToken(t, "mgr-1", jwt.RoleManager, tenant1))
	manager2 := dialWS(t, srv, testToken(t, "mgr-2", jwt.RoleManager, tenant1))
	driver := dialWS(t, srv, testToken(t, "driver-1", jwt.RoleDriver, tenant1))
	waitClients(t, h, 3)

	// Kill one observer abruptly; the other keeps receiving.
	manager1.Close()
	time.Sleep(100 * time.Millisecond)

	if err := driver.WriteJSON(LocationReport{Lat: 1, Lng: 1}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := driver.WriteJSON(LocationReport{Lat: 2, Lng: 2}); err != nil {
		t.Fatalf("send: %v", err)
	}

	p1 := readPush(t, manager2)
	p2 := readPush(t, manager2)
	if p1.Lat != 1 || p2.Lat != 2 {
		t.Fatalf("surviving observer missed updates: %+v %+v", p1, p2)
	}
}

func TestPerDriverOrderPreserved(t *testing.T) {
	h, srv := newTestHub(t)

	manager := dialWS(t, srv, testToken(t, "mgr-1", jwt.RoleManager, tenant1))
	driver := dialWS(t, srv, testToken(t, "driver-1", jwt.RoleDriver, tenant1))
	waitClients(t, h, 2)

	const n = 20
	for i := 1; i <= n; i++ {
		if err := driver.WriteJSON(LocationReport{Lat: float64(i), Lng: 0}); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	for i := 1; i <= n; i++ {
		push := readPush(t, manager)
		if push.Lat != float64(i) {
			t.Fatalf("update %d arrived out of order: %+v", i, push)
		}
	}
}

func TestDisconnectDeregisters(t *testing.T) {
	h, srv := newTestHub(t)

	driver := dialWS(t, srv, testToken(t, "driver-1", jwt.RoleDriver, tenant1))
	if got := h.ClientCount(); got != 1 {
		t.Fatalf("ClientCount = %d, want 1", got)
	}

	driver.Close()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("connection not deregistered after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
