// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// mockService counts starts and fails its first failCount runs.
type mockService struct {
	name      string
	failCount int32
	starts    atomic.Int32

	once    sync.Once
	started chan struct{}
}

func newMockService(name string) *mockService {
	return &mockService{name: name, started: make(chan struct{})}
}

func (m *mockService) Serve(ctx context.Context) error {
	n := m.starts.Add(1)
	m.once.Do(func() { close(m.started) })
	if n <= atomic.LoadInt32(&m.failCount) {
		return errors.New("mock failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string { return m.name }

func (m *mockService) setFailCount(n int32) { atomic.StoreInt32(&m.failCount, n) }

func (m *mockService) startCount() int { return int(m.starts.Load()) }
