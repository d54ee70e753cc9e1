// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package authz

import (
	"sync"
	"time"
)

// enforcementCache caches role/permission decisions.
type enforcementCache struct {
	ttl      time.Duration
	mu       sync.RWMutex
	items    map[cacheKey]cacheItem
	stopChan chan struct{}
	stopOnce sync.Once
}

type cacheKey struct {
	role Role
	perm Permission
}

type cacheItem struct {
	allowed   bool
	expiresAt time.Time
}

func newEnforcementCache(ttl time.Duration) *enforcementCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c := &enforcementCache{
		ttl:      ttl,
		items:    make(map[cacheKey]cacheItem),
		stopChan: make(chan struct{}),
	}
	go c.cleanup()
	return c
}

func (c *enforcementCache) get(role Role, perm Permission) (allowed, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[cacheKey{role, perm}]
	if !found || time.Now().After(item.expiresAt) {
		return false, false
	}
	return item.allowed, true
}

func (c *enforcementCache) set(role Role, perm Permission, allowed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[cacheKey{role, perm}] = cacheItem{
		allowed:   allowed,
		expiresAt: time.Now().Add(c.ttl),
	}
	AuthzCacheSize.Set(float64(len(c.items)))
}

func (c *enforcementCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *enforcementCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[cacheKey]cacheItem)
	AuthzCacheSize.Set(0)
}

// cleanup periodically removes expired items.
func (c *enforcementCache) cleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.evictExpired(time.Now())
		}
	}
}

func (c *enforcementCache) evictExpired(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
			evicted++
		}
	}
	if evicted > 0 {
		AuthzCacheEvictionsTotal.Add(float64(evicted))
	}
	AuthzCacheSize.Set(float64(len(c.items)))
	return evicted
}

// stop stops the cleanup goroutine. Safe to call more than once.
func (c *enforcementCache) stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}
