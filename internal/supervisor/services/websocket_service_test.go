// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubHub struct {
	runs int
	err  error
}

func (s *stubHub) RunWithContext(ctx context.Context) error {
	s.runs++
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestWebSocketHubService_DelegatesToHub(t *testing.T) {
	hub := &stubHub{}
	svc := NewWebSocketHubService(hub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if hub.runs != 1 {
		t.Errorf("Expected one RunWithContext call, got %d", hub.runs)
	}
}

func TestWebSocketHubService_PropagatesHubError(t *testing.T) {
	wantErr := errors.New("hub wedged")
	svc := NewWebSocketHubService(&stubHub{err: wantErr})

	if err := svc.Serve(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Expected hub error, got %v", err)
	}
}

func TestWebSocketHubService_String(t *testing.T) {
	svc := NewWebSocketHubService(&stubHub{})
	if svc.String() != "websocket-hub" {
		t.Errorf("Expected name websocket-hub, got %q", svc.String())
	}
}
