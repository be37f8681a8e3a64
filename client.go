/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package vfont

import (
	"sync/atomic"

	"github.com/vogo/vogo/vlog"
)

// generation counts invalidations across all caches of the process.
// It only grows.
var generation atomic.Uint64

// Generation returns the process-wide invalidation counter. Consumers
// stamp derived data with it and discard that data once it changes.
func Generation() uint64 {
	return generation.Load()
}

// Generation returns the process-wide invalidation counter.
func (c *Cache) Generation() uint64 {
	return generation.Load()
}

// AddClient subscribes cl to invalidations. Adding a client twice is a
// contract violation; it is logged and ignored.
func (c *Cache) AddClient(cl Client) {
	if err := c.clients.Register(cl); err != nil {
		vlog.Errorf("vfont error adding client | cache: %s | err: %v", c.name, err)
	}
}

// RemoveClient unsubscribes cl. Removing a client that was never added is
// a contract violation; it is logged and ignored.
func (c *Cache) RemoveClient(cl Client) {
	if err := c.clients.Unregister(cl); err != nil {
		vlog.Errorf("vfont error removing client | cache: %s | err: %v", c.name, err)
	}
}

// ClientCount returns the number of subscribed clients.
func (c *Cache) ClientCount() int {
	return c.clients.Len()
}

// Invalidate forgets every family-to-handle mapping, bumps the generation,
// notifies the clients and purges every inactive font.
//
// Clients are notified after the platform data is cleared and before the
// purge, so fonts they hold are still valid during the callback. The
// notification iterates over a snapshot taken beforehand and runs without
// the cache lock: clients may add or remove clients and look fonts up.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	cleared := len(c.platformData)
	clear(c.platformData)
	glyphs := c.glyphs
	c.mu.Unlock()

	if glyphs != nil {
		glyphs.Invalidate()
	}

	gen := generation.Add(1)
	c.stats.invalidations.Add(1)

	clients := c.clients.Snapshot()
	vlog.Debugf("vfont invalidated | cache: %s | generation: %d | platform: %d | clients: %d", c.name, gen, cleared, len(clients))
	for _, cl := range clients {
		cl.FontCacheInvalidated()
	}

	c.PurgeAllInactiveFontData()
}
