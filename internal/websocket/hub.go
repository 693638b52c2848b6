// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

// Package websocket fans leaderboard updates out to connected browser
// clients. Delivery is best effort and at most once: a client that cannot
// keep up is disconnected, and there is no replay of missed updates.
package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/j00les/speednadrenaline-BE/internal/logging"
	"github.com/j00les/speednadrenaline-BE/internal/metrics"
	"github.com/j00les/speednadrenaline-BE/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	// This is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication. Run events carry the full
// refreshed leaderboard; ping/pong are connection keepalives.
const (
	MessageTypeRunAdded   = "run-added"
	MessageTypeRunDeleted = "run-deleted"
	MessageTypePing       = "ping"
	MessageTypePong       = "pong"
)

// Message is the wire format sent to clients. Leaderboard and EmittedAt
// are only present on run events.
type Message struct {
	Type        string               `json:"type"`
	Leaderboard []models.RankedEntry `json:"leaderboard,omitempty"`
	EmittedAt   string               `json:"emittedAt,omitempty"`
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext starts the hub with context support for graceful shutdown.
// This method is designed for use with suture supervision.
//
// When the context is canceled:
//  1. All connected clients are gracefully closed
//  2. The method returns ctx.Err()
//
// Selection is priority based so behavior stays predictable when several
// channels are ready at once:
//   - Priority 1: Context cancellation (shutdown)
//   - Priority 2: Client lifecycle events (Register/Unregister)
//   - Priority 3: Broadcast messages
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Priority 1: Check for shutdown (highest priority, non-blocking)
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: Handle client lifecycle events (non-blocking check)
		select {
		case client := <-h.Register:
			h.registerClient(client)
			continue
		case client := <-h.Unregister:
			h.unregisterClient(client)
			continue
		default:
			// No lifecycle events pending
		}

		// Priority 3: Handle broadcast messages or wait for any event (blocking)
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	metrics.SetWebSocketClients(count)
	logging.Info().Int("total_clients", count).Msg("websocket client connected")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	metrics.SetWebSocketClients(count)
	logging.Info().Int("total_clients", count).Msg("websocket client disconnected")
}

// logGracefulShutdown closes all clients and logs structured shutdown
// information. ctx.Err() is not logged as an error because cancellation is
// expected during graceful shutdown.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()

	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

// getShutdownReason determines the shutdown reason from the context error.
func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// broadcastToClients sends a message to all connected clients in a
// deterministic order. Clients are sorted by ID so delivery order is
// reproducible; a client whose queue is full is disconnected rather than
// allowed to stall the others.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	// Track clients to remove (can't modify map during iteration)
	var toRemove []*Client

	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			// Channel full or closed, mark for removal
			metrics.RecordBroadcastDropped()
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	if len(toRemove) > 0 {
		metrics.SetWebSocketClients(len(h.clients))
		logging.Warn().Int("removed", len(toRemove)).Msg("removed slow websocket clients during broadcast")
	}
}

// closeAllClients gracefully closes all connected WebSocket clients in ID
// order. Called during shutdown to ensure clean termination.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.SetWebSocketClients(0)
	logging.Info().Msg("closed all websocket clients during shutdown")
}

// BroadcastLeaderboard queues a run event carrying the refreshed
// leaderboard. The send is non-blocking: when the hub queue is full the
// event is dropped, since a newer board will follow shortly.
func (h *Hub) BroadcastLeaderboard(messageType string, leaderboard []models.RankedEntry, emittedAt string) {
	message := Message{
		Type:        messageType,
		Leaderboard: leaderboard,
		EmittedAt:   emittedAt,
	}

	select {
	case h.broadcast <- message:
	default:
		metrics.RecordBroadcastDropped()
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping leaderboard message")
	}
}

// BroadcastRaw decodes raw JSON bytes as a run event and broadcasts it.
// This method implements the eventbus.Broadcaster interface.
func (h *Hub) BroadcastRaw(data []byte) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		logging.Warn().Err(err).Msg("failed to unmarshal raw event for broadcast")
		return
	}

	select {
	case h.broadcast <- message:
	default:
		metrics.RecordBroadcastDropped()
		logging.Warn().Msg("broadcast channel full, dropping raw message")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
