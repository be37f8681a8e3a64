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
	"math"
	"sync"

	"github.com/vogo/vogo/vlog"
)

// PurgeResult reports what a purge pass removed.
type PurgeResult struct {
	// Prevented is set when a PreventPurge scope blocked the pass.
	Prevented bool

	Fonts           int
	PlatformData    int
	VerticalMetrics int
}

// PurgeInactiveFontDataIfNeeded purges inactive fonts when the cache holds
// too many of them. It is meant to be called when the embedder is idle.
//
// The ceiling and target depend on the memory-pressure signal: a purge
// runs when the cache holds at least MaxInactive fonts and more than
// MaxInactive of them are inactive, and shrinks the inactive ones to
// TargetInactive.
func (c *Cache) PurgeInactiveFontDataIfNeeded() PurgeResult {
	limits := c.cfg.limits.Normal
	if c.cfg.pressure.IsUnderMemoryPressure() {
		limits = c.cfg.limits.UnderPressure
	}

	c.mu.Lock()
	needed := purgeCount(c.fonts.Len(), c.inactiveFontDataCountLocked(), limits) > 0
	glyphs := c.glyphs
	c.mu.Unlock()

	if !needed {
		return PurgeResult{}
	}

	// Pruning may release fonts, so the count is taken again afterwards
	// together with the purge itself.
	pruneGlyphs(glyphs)

	c.mu.Lock()
	defer c.mu.Unlock()

	n := purgeCount(c.fonts.Len(), c.inactiveFontDataCountLocked(), limits)
	if n <= 0 {
		return PurgeResult{}
	}
	return c.purgeLocked(n)
}

func purgeCount(size, inactive int, limits Limits) int {
	if size < limits.MaxInactive || inactive <= limits.MaxInactive {
		return 0
	}
	return inactive - limits.TargetInactive
}

// PurgeInactiveFontData removes up to count inactive fonts, then sweeps
// platform-data and vertical-metrics entries that no longer lead to a
// cached font. Asking for more than are inactive is fine.
//
// While a PreventPurge scope is active no font is removed and both sweeps
// are skipped; the result reports Prevented. The glyphs cache is still
// pruned.
func (c *Cache) PurgeInactiveFontData(count int) PurgeResult {
	c.mu.Lock()
	glyphs := c.glyphs
	c.mu.Unlock()

	pruneGlyphs(glyphs)

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.purgeLocked(count)
}

// PurgeAllInactiveFontData removes every inactive font.
func (c *Cache) PurgeAllInactiveFontData() PurgeResult {
	return c.PurgeInactiveFontData(math.MaxInt)
}

func pruneGlyphs(glyphs GlyphsCache) {
	if glyphs != nil {
		glyphs.PruneUnreferenced()
	}
}

func (c *Cache) purgeLocked(count int) PurgeResult {
	if c.purgePreventCount.Load() > 0 {
		c.stats.purgesPrevented.Add(1)
		vlog.Debugf("vfont purge prevented | cache: %s | scopes: %d", c.name, c.purgePreventCount.Load())
		return PurgeResult{Prevented: true}
	}

	var res PurgeResult

	// Oldest first.
	var victims []*Font
	for _, f := range c.fonts.Values() {
		if len(victims) >= count {
			break
		}
		if f.exclusivelyCached() {
			victims = append(victims, f)
		}
	}
	for _, f := range victims {
		f.dropCacheRef()
		c.fonts.Remove(f.Handle())
	}
	res.Fonts = len(victims)

	// Negative entries stay: a font known to be unavailable stays unavailable
	// however fonts come and go.
	for key, h := range c.platformData {
		if h.IsValid() && !c.fonts.Contains(h) {
			delete(c.platformData, key)
			res.PlatformData++
		}
	}

	// Several handles can share one file's vertical metrics, so liveness is
	// recomputed from the surviving fonts.
	if c.vertical != nil && c.vertical.len() > 0 {
		live := make(map[FileKey]struct{})
		for _, f := range c.fonts.Values() {
			if f.VerticalMetrics() != nil {
				live[f.Handle().File()] = struct{}{}
			}
		}
		res.VerticalMetrics = c.vertical.sweep(live)
	}

	c.stats.purges.Add(1)
	c.stats.fontsPurged.Add(uint64(res.Fonts))
	c.stats.platformDataSwept.Add(uint64(res.PlatformData))
	c.stats.verticalDataSwept.Add(uint64(res.VerticalMetrics))

	vlog.Debugf("vfont purged | cache: %s | fonts: %d | platform: %d | vertical: %d | remaining: %d",
		c.name, res.Fonts, res.PlatformData, res.VerticalMetrics, c.fonts.Len())
	return res
}

// PreventPurge disables purging until the returned release function is
// called. Scopes nest; release is idempotent.
//
//	defer cache.PreventPurge()()
func (c *Cache) PreventPurge() (release func()) {
	c.purgePreventCount.Add(1)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.purgePreventCount.Add(-1)
		})
	}
}

// PurgePrevented reports whether a PreventPurge scope is active.
func (c *Cache) PurgePrevented() bool {
	return c.purgePreventCount.Load() > 0
}
