// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package services

import (
	"context"
)

// Runner matches *eventbus.Forwarder's Run method without importing the
// eventbus package.
type Runner interface {
	Run(ctx context.Context) error
}

// ForwarderService wraps the event forwarder as a supervised service.
// The forwarder subscribes to the in-process bus and pushes leaderboard
// events to the WebSocket hub; a crash here is restarted by the messaging
// supervisor without touching the HTTP server.
type ForwarderService struct {
	forwarder Runner
	name      string
}

// NewForwarderService creates a forwarder service wrapper.
func NewForwarderService(forwarder Runner) *ForwarderService {
	return &ForwarderService{
		forwarder: forwarder,
		name:      "eventbus-forwarder",
	}
}

// Serve implements suture.Service.
func (f *ForwarderService) Serve(ctx context.Context) error {
	return f.forwarder.Run(ctx)
}

// String implements fmt.Stringer for suture log messages.
func (f *ForwarderService) String() string {
	return f.name
}
