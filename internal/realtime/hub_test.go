package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"bakery-backend/internal/metrics"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

func TestBranchTopicDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	conn := dialHub(t, hub)
	if err := conn.WriteJSON(clientCommand{Action: "join-branch", BranchID: "3510"}); err != nil {
		t.Fatalf("join: %v", err)
	}

	// The join command is processed asynchronously by the read loop.
	waitFor(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		for _, branch := range hub.clients {
			if branch == "3510" {
				return true
			}
		}
		return false
	})

	hub.Publish("3510", Event{Type: EventStockUpdated, BranchID: "3510"})

	ev := readEvent(t, conn)
	if ev.Type != EventStockUpdated || ev.BranchID != "3510" {
		t.Errorf("got event %+v, want stock-updated for 3510", ev)
	}
}

func TestOtherBranchNotDelivered(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	conn := dialHub(t, hub)
	if err := conn.WriteJSON(clientCommand{Action: "join-branch", BranchID: "3510"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	waitFor(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		for _, branch := range hub.clients {
			if branch == "3510" {
				return true
			}
		}
		return false
	})

	hub.Publish("9922", Event{Type: EventStockUpdated, BranchID: "9922"})
	// Global events reach every client, including branch-joined ones.
	hub.Publish("", Event{Type: EventForecastUpdated})

	ev := readEvent(t, conn)
	if ev.Type != EventForecastUpdated {
		t.Errorf("got event %+v, want the global forecast-updated only", ev)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub() // Run never started, so the queue fills up
	defer hub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish("3510", Event{Type: EventStockUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

func TestPublishCountsEvents(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	counter := metrics.RealtimeEventsTotal.WithLabelValues(EventPromotion)
	before := testutil.ToFloat64(counter)

	hub.Publish("3510", Event{Type: EventPromotion})
	hub.Publish("3510", Event{Type: EventPromotion})

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("events counted = %v, want 2", got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached")
}
