// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// setupWebSocketServer creates a test WebSocket server with a custom handler
func setupWebSocketServer(t *testing.T, handler func(t *testing.T, conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("Failed to upgrade connection: %v", err)
		}
		defer conn.Close()
		handler(t, conn)
	}))
}

// dialWebSocket establishes a WebSocket connection to the test server
func dialWebSocket(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	return conn
}

func TestNewClient(t *testing.T) {
	hub := NewHub()

	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	defer conn.Close()

	client := NewClient(hub, conn)
	if client == nil {
		t.Fatal("NewClient returned nil")
	}
	if client.hub != hub {
		t.Error("client hub not set")
	}
	if client.conn != conn {
		t.Error("client conn not set")
	}
	if cap(client.send) != 256 {
		t.Errorf("send channel capacity = %d, want 256", cap(client.send))
	}
}

func TestNewClient_UniqueIncreasingIDs(t *testing.T) {
	hub := NewHub()

	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	c := NewClient(hub, nil)

	if a.ID() >= b.ID() || b.ID() >= c.ID() {
		t.Errorf("IDs not strictly increasing: %d, %d, %d", a.ID(), b.ID(), c.ID())
	}
}

func TestClient_WritePumpDeliversMessages(t *testing.T) {
	hub := setupHub(t)

	received := make(chan Message, 1)
	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		received <- msg
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	client := NewClient(hub, conn)
	hub.Register <- client
	client.Start()
	time.Sleep(20 * time.Millisecond)

	hub.BroadcastLeaderboard(MessageTypeRunAdded, testLeaderboard(), "")

	select {
	case msg := <-received:
		if msg.Type != MessageTypeRunAdded {
			t.Errorf("Type = %q, want %q", msg.Type, MessageTypeRunAdded)
		}
		if len(msg.Leaderboard) != 1 {
			t.Errorf("len(Leaderboard) = %d, want 1", len(msg.Leaderboard))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message on the wire")
	}
}

func TestClient_RespondsToApplicationPing(t *testing.T) {
	hub := setupHub(t)

	pong := make(chan Message, 1)
	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
			return
		}
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		pong <- msg
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	client := NewClient(hub, conn)
	hub.Register <- client
	client.Start()

	select {
	case msg := <-pong:
		if msg.Type != MessageTypePong {
			t.Errorf("Type = %q, want %q", msg.Type, MessageTypePong)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pong")
	}
}

func TestClient_UnregistersOnDisconnect(t *testing.T) {
	hub := setupHub(t)

	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		time.Sleep(50 * time.Millisecond)
		// Server side closes, client readPump should unregister
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	client := NewClient(hub, conn)
	hub.Register <- client
	client.Start()
	time.Sleep(20 * time.Millisecond)

	if hub.GetClientCount() != 1 {
		t.Fatalf("client count = %d, want 1", hub.GetClientCount())
	}

	deadline := time.After(2 * time.Second)
	for hub.GetClientCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("client not unregistered after disconnect")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestTimingConstants(t *testing.T) {
	if pingPeriod >= pongWait {
		t.Errorf("pingPeriod %v must be shorter than pongWait %v", pingPeriod, pongWait)
	}
	if writeWait != 10*time.Second {
		t.Errorf("writeWait = %v, want 10s", writeWait)
	}
}
