// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitStarted(t *testing.T, svc *mockService) {
	t.Helper()
	select {
	case <-svc.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("service %s was not started", svc.name)
	}
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	tree := NewSupervisorTree(quietLogger(), TreeConfig{})

	if tree.root == nil || tree.session == nil || tree.api == nil {
		t.Fatal("supervisors should not be nil")
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want defaults %+v", tree.config, DefaultTreeConfig())
	}
}

func TestNewSupervisorTree_KeepsExplicitValues(t *testing.T) {
	cfg := TreeConfig{
		FailureThreshold: 2,
		FailureDecay:     1,
		FailureBackoff:   time.Second,
		ShutdownTimeout:  3 * time.Second,
	}
	tree := NewSupervisorTree(quietLogger(), cfg)
	if tree.config != cfg {
		t.Errorf("config = %+v, want %+v", tree.config, cfg)
	}
}

func TestSupervisorTree_StartsBothLayers(t *testing.T) {
	tree := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	sessionSvc := newMockService("session-service")
	apiSvc := newMockService("api-service")
	tree.AddSessionService(sessionSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitStarted(t, sessionSvc)
	waitStarted(t, apiSvc)
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down in time")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport: %v", err)
	}
	if len(report) != 0 {
		t.Errorf("unstopped services: %v", report)
	}
}

func TestSupervisorTree_RestartsFailingService(t *testing.T) {
	tree := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	failing := newMockService("failing")
	failing.setFailCount(2)
	stable := newMockService("stable")
	tree.AddSessionService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	errCh := tree.ServeBackground(ctx)

	waitStarted(t, stable)
	deadline := time.Now().Add(2 * time.Second)
	for failing.startCount() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := failing.startCount(); got < 3 {
		t.Errorf("failing service started %d times, want at least 3", got)
	}
	if got := stable.startCount(); got != 1 {
		t.Errorf("stable service started %d times, want 1", got)
	}

	cancel()
	<-errCh
}

func TestDefaultTreeConfig(t *testing.T) {
	config := DefaultTreeConfig()

	if config.FailureThreshold != 5.0 {
		t.Errorf("expected FailureThreshold 5.0, got %f", config.FailureThreshold)
	}
	if config.FailureDecay != 30.0 {
		t.Errorf("expected FailureDecay 30.0, got %f", config.FailureDecay)
	}
	if config.FailureBackoff != 15*time.Second {
		t.Errorf("expected FailureBackoff 15s, got %v", config.FailureBackoff)
	}
	if config.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected ShutdownTimeout 10s, got %v", config.ShutdownTimeout)
	}
}
