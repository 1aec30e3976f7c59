package events

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pump-token-core/internal/domain"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timeout waiting for condition")
}

func dial(t *testing.T, serverURL string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestBroadcaster_EmitDelivers(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	server := httptest.NewServer(b.Handler())
	defer server.Close()

	conn := dial(t, server.URL)
	defer conn.Close()

	waitFor(t, func() bool { return b.SubscriberCount() == 1 })

	event := domain.TokenMinted{
		Token:      "token1",
		User:       "buyer1",
		Amount:     500,
		PaidAmount: 50000,
		FeeAmount:  500,
	}
	if err := b.Emit(context.Background(), event); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}

	var f frame
	if err := json.Unmarshal(msg, &f); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if f.Kind != domain.KindTokenMinted {
		t.Errorf("expected kind %s, got %s", domain.KindTokenMinted, f.Kind)
	}
	if f.Token != "token1" {
		t.Errorf("expected token token1, got %s", f.Token)
	}

	var got domain.TokenMinted
	if err := json.Unmarshal(f.Payload, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got != event {
		t.Errorf("expected payload %+v, got %+v", event, got)
	}
}

func TestBroadcaster_EmitNoSubscribers(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	err := b.Emit(context.Background(), domain.TokenInitialized{Token: "token1"})
	if err != nil {
		t.Errorf("Emit without subscribers: %v", err)
	}
}

func TestBroadcaster_SubscriberDisconnect(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	server := httptest.NewServer(b.Handler())
	defer server.Close()

	conn := dial(t, server.URL)
	waitFor(t, func() bool { return b.SubscriberCount() == 1 })

	conn.Close()
	waitFor(t, func() bool { return b.SubscriberCount() == 0 })
}

func TestBroadcaster_CloseRejectsNew(t *testing.T) {
	b := NewBroadcaster(nil)

	server := httptest.NewServer(b.Handler())
	defer server.Close()

	b.Close()

	conn := dial(t, server.URL)
	defer conn.Close()

	// The server upgrades the connection and then drops it immediately.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected read error after broadcaster close")
	}

	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}
}
