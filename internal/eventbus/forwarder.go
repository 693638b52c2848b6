// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package eventbus

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/j00les/speednadrenaline-BE/internal/logging"
)

// Broadcaster is the WebSocket fan-out side of the pipeline. The hub
// satisfies this interface.
type Broadcaster interface {
	// BroadcastRaw sends raw JSON bytes to all connected clients.
	BroadcastRaw(data []byte)
}

// Forwarder drains leaderboard events from the bus and pushes them to the
// WebSocket hub. Payloads that do not decode as events are logged and
// dropped rather than retried; a malformed event can never become valid.
type Forwarder struct {
	bus *Bus
	hub Broadcaster
}

// NewForwarder creates a forwarder between bus and hub.
func NewForwarder(bus *Bus, hub Broadcaster) (*Forwarder, error) {
	if bus == nil {
		return nil, fmt.Errorf("bus required")
	}
	if hub == nil {
		return nil, fmt.Errorf("hub required")
	}
	return &Forwarder{bus: bus, hub: hub}, nil
}

// Run subscribes and forwards until ctx is cancelled or the bus closes.
func (f *Forwarder) Run(ctx context.Context) error {
	messages, err := f.bus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("forwarder subscribe: %w", err)
	}

	lg := logging.Logger()

	lg.Info().Msg("Leaderboard event forwarder started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				lg := logging.Logger()
				lg.Info().Msg("Leaderboard event forwarder stopped: bus closed")
				return nil
			}

			var event Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				lg := logging.Logger()
				lg.Warn().
					Str("message_id", msg.UUID).
					Err(err).
					Msg("Dropping malformed leaderboard event")
				msg.Ack()
				continue
			}

			f.hub.BroadcastRaw(msg.Payload)
			msg.Ack()
		}
	}
}

// String names the forwarder in supervisor logs.
func (f *Forwarder) String() string {
	return "eventbus-forwarder"
}
