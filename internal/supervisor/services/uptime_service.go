// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package services

import (
	"context"
	"time"

	"github.com/tomtom215/oceans-admin/internal/metrics"
)

// UptimeService refreshes the app_uptime_seconds gauge.
type UptimeService struct {
	started  time.Time
	interval time.Duration
}

// NewUptimeService creates an uptime reporter for a process started at
// started.
func NewUptimeService(started time.Time, interval time.Duration) *UptimeService {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &UptimeService{started: started, interval: interval}
}

// Serve implements suture.Service.
func (u *UptimeService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	metrics.UpdateUptime(u.started)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			metrics.UpdateUptime(u.started)
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (u *UptimeService) String() string {
	return "uptime-reporter"
}
