package tracking

import (
	"context"
	"strings"
	"testing"
	"time"

	"resto-service/pkg/jwt"
	"resto-service/pkg/trackclient"
)

// End-to-end over the real channel: a driver client reports through the hub
// and an observer client's store converges on the pushed position.
func TestClientRoundTrip(t *testing.T) {
	h, srv := newTestHub(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store := trackclient.NewStore()
	observer, err := trackclient.Dial(ctx, wsURL, testToken(t, "mgr-1", jwt.RoleManager, tenant1), store)
	if err != nil {
		t.Fatalf("observer dial: %v", err)
	}
	defer observer.Close()
	go observer.Run(ctx)

	driver, err := trackclient.Dial(ctx, wsURL, testToken(t, "driver-1", jwt.RoleDriver, tenant1), nil)
	if err != nil {
		t.Fatalf("driver dial: %v", err)
	}
	defer driver.Close()
	waitClients(t, h, 2)

	if !driver.Open() {
		t.Fatalf("driver connection not open after dial")
	}
	if err := driver.Send(-23.55, -46.63); err != nil {
		t.Fatalf("send: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		v, ok := store.Get("driver-1")
		if ok && v.Lat != nil && *v.Lat == -23.55 && *v.Lng == -46.63 {
			if v.LastUpdate.IsZero() {
				t.Fatalf("push applied without server timestamp")
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("observer store never saw driver-1, got %+v ok=%v", v, ok)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestClientDialRejectedToken(t *testing.T) {
	_, srv := newTestHub(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := trackclient.Dial(ctx, wsURL, "not-a-token", trackclient.NewStore()); err == nil {
		t.Fatalf("expected dial failure with invalid token")
	}
}
