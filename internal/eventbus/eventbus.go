// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

// Package eventbus carries leaderboard change events from the ranking
// engine to the WebSocket fan-out over an in-process Watermill channel.
// Delivery is best effort: events published while no forwarder is
// subscribed are dropped, and there is no replay.
package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/j00les/speednadrenaline-BE/internal/models"
)

// TopicLeaderboardEvents is the single topic leaderboard changes flow over.
const TopicLeaderboardEvents = "leaderboard.events"

// Event types carried on the bus and sent verbatim to WebSocket clients.
const (
	EventTypeRunAdded   = "run-added"
	EventTypeRunDeleted = "run-deleted"
)

// Event is a leaderboard change notification. The payload is the full
// refreshed leaderboard, not a delta, so clients can replace their view
// wholesale without tracking state.
type Event struct {
	Type        string               `json:"type"`
	Leaderboard []models.RankedEntry `json:"leaderboard"`
	EmittedAt   time.Time            `json:"emittedAt"`
}

// Bus is an in-process publisher/subscriber for leaderboard events.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
	now    func() time.Time
}

// NewBus creates the bus. The output buffer absorbs short bursts of
// submissions; when it overflows, publishing blocks rather than drops so
// the engine applies natural backpressure.
func NewBus() *Bus {
	logger := NewWatermillLogger()
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, logger),
		logger: logger,
		now:    time.Now,
	}
}

// PublishRunAdded publishes a run-added event with the refreshed leaderboard.
func (b *Bus) PublishRunAdded(ctx context.Context, leaderboard []models.RankedEntry) error {
	return b.publish(ctx, EventTypeRunAdded, leaderboard)
}

// PublishRunDeleted publishes a run-deleted event with the refreshed leaderboard.
func (b *Bus) PublishRunDeleted(ctx context.Context, leaderboard []models.RankedEntry) error {
	return b.publish(ctx, EventTypeRunDeleted, leaderboard)
}

func (b *Bus) publish(_ context.Context, eventType string, leaderboard []models.RankedEntry) error {
	if leaderboard == nil {
		leaderboard = []models.RankedEntry{}
	}
	event := Event{
		Type:        eventType,
		Leaderboard: leaderboard,
		EmittedAt:   b.now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("event_type", eventType)

	if err := b.pubsub.Publish(TopicLeaderboardEvents, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}

// Subscribe returns the stream of leaderboard events. The channel closes
// when ctx is cancelled or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	ch, err := b.pubsub.Subscribe(ctx, TopicLeaderboardEvents)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", TopicLeaderboardEvents, err)
	}
	return ch, nil
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
