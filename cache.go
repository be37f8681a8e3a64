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

// Package vfont caches platform-realized fonts.
//
// A lookup goes through two levels: the platform-data cache maps a family
// name and style description to a platform Handle (remembering failures),
// and the realized-font cache maps a Handle to a shared, reference-counted
// Font. Fonts nobody else holds are reclaimed by purge passes, which also
// sweep platform-data and vertical-metrics entries that no longer lead to
// a cached font.
package vfont

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/vogo/vfont/internal/caller"
	"github.com/vogo/vfont/internal/registry"
	"github.com/vogo/vogo/vlog"
)

// Cache maps font requests to realized fonts.
//
// Cache is safe for concurrent use. All tables are guarded by one mutex;
// exported methods take it and the *Locked helpers expect it held.
type Cache struct {
	name     string
	platform Platform
	cfg      config

	mu           sync.Mutex
	initOnce     sync.Once
	platformData map[StyleKey]Handle // unset Handle = known unavailable
	fonts        *simplelru.LRU[Handle, *Font]
	fontCapacity int
	vertical     *verticalCache // nil when vertical text is disabled
	glyphs       GlyphsCache

	purgePreventCount atomic.Int32
	clients           *registry.Registry[Client]
	stats             counters
}

// New creates a font cache on top of platform.
// The cache name is auto-generated from the call site (func@file:line).
func New(platform Platform, opts ...Option) *Cache {
	return newCache(platform, caller.Site(1), opts...)
}

func newCache(platform Platform, autoName string, opts ...Option) *Cache {
	cfg := defaultConfig()
	cfg.cacheName = autoName
	for _, opt := range opts {
		opt(&cfg)
	}

	if platform == nil {
		platform = nullPlatform{}
	}

	c := &Cache{
		name:         cfg.cacheName,
		platform:     platform,
		cfg:          cfg,
		platformData: make(map[StyleKey]Handle),
		glyphs:       cfg.glyphs,
		clients:      registry.New[Client](),
	}

	// No eviction callback: the store never evicts on its own, makeRoomLocked
	// keeps it below capacity.
	fonts, err := simplelru.NewLRU[Handle, *Font](cfg.maxFonts, nil)
	if err != nil {
		// only returned for a non-positive size, which WithMaxFonts rejects
		panic(err)
	}
	c.fonts = fonts
	c.fontCapacity = cfg.maxFonts

	if cfg.vertical {
		if vp, ok := platform.(VerticalPlatform); ok {
			c.vertical = newVerticalCache(vp, cfg.verticalCapacity)
		} else {
			vlog.Infof("vfont vertical metrics disabled, platform has no vertical support | cache: %s", c.name)
		}
	}

	return c
}

// Name returns the name of this cache.
func (c *Cache) Name() string {
	return c.name
}

// SetGlyphsCache sets the cache pruned before every purge and cleared on
// invalidation. Pass nil to detach it.
func (c *Cache) SetGlyphsCache(g GlyphsCache) {
	c.mu.Lock()
	c.glyphs = g
	c.mu.Unlock()
}

// VerticalEnabled reports whether the vertical-metrics cache exists.
func (c *Cache) VerticalEnabled() bool {
	return c.vertical != nil
}

// FontForFamily returns the font for family and d, or nil when none is
// available. checkingAlternateName must be false for callers outside the
// cache; it is true only while resolving a family alias.
//
// The returned font carries a reference owned by the caller.
func (c *Cache) FontForFamily(d Description, family string, checkingAlternateName bool) *Font {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.cachedFontPlatformDataLocked(d, family, checkingAlternateName)
	if !ok {
		return nil
	}
	return c.fontForPlatformDataLocked(h)
}

// CachedFontPlatformData returns the handle for family and d, realizing it
// on the first request. The result, including a failure, is remembered
// until the next Invalidate.
func (c *Cache) CachedFontPlatformData(d Description, family string, checkingAlternateName bool) (Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cachedFontPlatformDataLocked(d, family, checkingAlternateName)
}

func (c *Cache) cachedFontPlatformDataLocked(d Description, passedFamily string, checkingAlternateName bool) (Handle, bool) {
	family := passedFamily
	if c.vertical != nil && c.cfg.stripVerticalAt {
		family = strings.TrimPrefix(family, "@")
	}

	c.initOnce.Do(func() {
		if pi, ok := c.platform.(Initializer); ok {
			pi.PlatformInit()
		}
	})

	key := NewStyleKey(family, d)
	if h, ok := c.platformData[key]; ok {
		c.stats.platformHits.Add(1)
		return h, h.IsValid()
	}
	c.stats.platformMisses.Add(1)

	// Reserve the slot so a nested lookup of the same key sees a negative entry.
	c.platformData[key] = Handle{}

	h, ok := c.platform.CreateFontPlatformData(d, family)
	if ok && h.IsValid() {
		c.platformData[key] = h
		vlog.Debugf("vfont platform data realized | cache: %s | key: %v | handle: %v", c.name, key, h)
		return h, true
	}
	c.stats.realizationFailures.Add(1)

	if checkingAlternateName {
		return Handle{}, false
	}

	// Aliases like Arial/Helvetica or Courier/Courier New: try the other name.
	alternate := c.cfg.aliasResolver(family)
	if alternate == "" {
		vlog.Debugf("vfont platform data unavailable | cache: %s | key: %v", c.name, key)
		return Handle{}, false
	}

	alt, ok := c.cachedFontPlatformDataLocked(d, alternate, true)
	if !ok {
		return Handle{}, false
	}

	// The nested call wrote to the store; address the entry by key again.
	c.platformData[key] = alt
	c.stats.aliasHits.Add(1)
	vlog.Debugf("vfont platform data aliased | cache: %s | key: %v | alternate: %s", c.name, key, alternate)
	return alt, true
}

// FontForPlatformData returns the shared font for h, creating it on the
// first request. It returns nil for a handle that is not valid.
//
// The returned font carries a reference owned by the caller.
func (c *Cache) FontForPlatformData(h Handle) *Font {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fontForPlatformDataLocked(h)
}

func (c *Cache) fontForPlatformDataLocked(h Handle) *Font {
	if !h.IsValid() {
		return nil
	}

	if f, ok := c.fonts.Get(h); ok {
		c.stats.fontHits.Add(1)
		return f.retainForCaller()
	}
	c.stats.fontMisses.Add(1)

	var vm *VerticalMetrics
	if c.vertical != nil && h.Orientation() == Vertical {
		vm = c.vertical.get(h.File(), h)
	}

	f := newFont(h, c.platform.FontMetrics(h), vm)
	c.makeRoomLocked()
	c.fonts.Add(h, f)
	return f.retainForCaller()
}

// makeRoomLocked frees a slot in a full store. The oldest inactive font
// goes; when every font is in use the store grows instead, so a held font
// never leaves the cache.
func (c *Cache) makeRoomLocked() {
	if c.fonts.Len() < c.fontCapacity {
		return
	}

	for _, f := range c.fonts.Values() {
		if f.exclusivelyCached() {
			f.dropCacheRef()
			c.fonts.Remove(f.Handle())
			c.stats.capacityEvictions.Add(1)
			vlog.Debugf("vfont realized font store full, evicted inactive | cache: %s | handle: %v", c.name, f.Handle())
			return
		}
	}

	c.fontCapacity *= 2
	c.fonts.Resize(c.fontCapacity)
	c.stats.storeGrowths.Add(1)
	vlog.Infof("vfont realized font store full of fonts in use, grown | cache: %s | capacity: %d", c.name, c.fontCapacity)
}

// FontDataCount returns the number of realized fonts in the cache.
func (c *Cache) FontDataCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fonts.Len()
}

// InactiveFontDataCount returns the number of cached fonts nobody else holds.
func (c *Cache) InactiveFontDataCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.inactiveFontDataCountLocked()
}

func (c *Cache) inactiveFontDataCountLocked() int {
	count := 0
	for _, f := range c.fonts.Values() {
		if f.exclusivelyCached() {
			count++
		}
	}
	return count
}

// PlatformDataCount returns the number of platform-data entries, negative
// entries included.
func (c *Cache) PlatformDataCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.platformData)
}

// VerticalMetricsCount returns the number of vertical-metrics entries.
func (c *Cache) VerticalMetricsCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.vertical == nil {
		return 0
	}
	return c.vertical.len()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return c.stats.snapshot()
}
