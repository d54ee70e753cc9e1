// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package authz

import (
	"sync"
	"testing"
	"time"
)

func newTestCache(t *testing.T, ttl time.Duration) *enforcementCache {
	t.Helper()
	c := newEnforcementCache(ttl)
	t.Cleanup(c.stop)
	return c
}

func TestEnforcementCache_GetSet(t *testing.T) {
	c := newTestCache(t, time.Minute)

	if _, ok := c.get(RoleManager, PermViewAllOrders); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.set(RoleManager, PermViewAllOrders, true)
	c.set(RoleCourier, PermViewAllOrders, false)

	allowed, ok := c.get(RoleManager, PermViewAllOrders)
	if !ok || !allowed {
		t.Errorf("get(manager, view_all_orders) = %v, %v; want true, true", allowed, ok)
	}
	allowed, ok = c.get(RoleCourier, PermViewAllOrders)
	if !ok || allowed {
		t.Errorf("get(courier, view_all_orders) = %v, %v; want false, true", allowed, ok)
	}
	if c.size() != 2 {
		t.Errorf("size() = %d, want 2", c.size())
	}
}

func TestEnforcementCache_KeysDoNotCollide(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.set(RoleManager, PermViewProducts, true)
	if _, ok := c.get(RoleManager, PermManageProducts); ok {
		t.Error("different permission should miss")
	}
	if _, ok := c.get(RoleAdministrator, PermViewProducts); ok {
		t.Error("different role should miss")
	}
}

func TestEnforcementCache_Expiry(t *testing.T) {
	c := newTestCache(t, time.Hour)
	c.set(RoleFounder, PermManageUsers, true)

	// Force the entry into the past.
	c.mu.Lock()
	key := cacheKey{RoleFounder, PermManageUsers}
	item := c.items[key]
	item.expiresAt = time.Now().Add(-time.Second)
	c.items[key] = item
	c.mu.Unlock()

	if _, ok := c.get(RoleFounder, PermManageUsers); ok {
		t.Error("expired entry should miss")
	}

	before := getCounterValue(AuthzCacheEvictionsTotal)
	if n := c.evictExpired(time.Now()); n != 1 {
		t.Errorf("evictExpired() = %d, want 1", n)
	}
	if after := getCounterValue(AuthzCacheEvictionsTotal); after != before+1 {
		t.Errorf("evictions counter = %v, want %v", after, before+1)
	}
	if c.size() != 0 {
		t.Errorf("size() = %d after eviction, want 0", c.size())
	}
}

func TestEnforcementCache_Clear(t *testing.T) {
	c := newTestCache(t, time.Minute)
	c.set(RoleManager, PermViewAllOrders, true)
	c.set(RoleManager, PermViewProducts, true)

	c.clear()

	if c.size() != 0 {
		t.Errorf("size() = %d after clear, want 0", c.size())
	}
	if got := getGaugeValue(AuthzCacheSize); got != 0 {
		t.Errorf("cache size gauge = %v, want 0", got)
	}
}

func TestEnforcementCache_DefaultTTL(t *testing.T) {
	c := newTestCache(t, 0)
	if c.ttl != 5*time.Minute {
		t.Errorf("ttl = %v, want 5m", c.ttl)
	}
}

func TestEnforcementCache_StopIdempotent(t *testing.T) {
	c := newEnforcementCache(time.Minute)
	c.stop()
	c.stop()
}

func TestEnforcementCache_Concurrent(t *testing.T) {
	c := newTestCache(t, time.Minute)
	perms := AllPermissions()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j, p := range perms {
				c.set(RoleFounder, p, (worker+j)%2 == 0)
				c.get(RoleFounder, p)
			}
		}(i)
	}
	wg.Wait()

	if c.size() != len(perms) {
		t.Errorf("size() = %d, want %d", c.size(), len(perms))
	}
}
