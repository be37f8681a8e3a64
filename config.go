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

import "runtime"

// Limits is a ceiling/target pair for inactive fonts. A purge starts when
// more than MaxInactive fonts are inactive and shrinks them to TargetInactive.
type Limits struct {
	MaxInactive    int
	TargetInactive int
}

// PurgeLimits selects Limits by memory-pressure state.
type PurgeLimits struct {
	Normal        Limits
	UnderPressure Limits
}

// DefaultPurgeLimits returns the limits for goos. Mobile targets keep
// fewer inactive fonts.
func DefaultPurgeLimits(goos string) PurgeLimits {
	normal := Limits{MaxInactive: 225, TargetInactive: 200}
	if goos == "ios" {
		normal = Limits{MaxInactive: 120, TargetInactive: 100}
	}
	return PurgeLimits{
		Normal:        normal,
		UnderPressure: Limits{MaxInactive: 50, TargetInactive: 30},
	}
}

// DefaultMaxFonts is the initial capacity of the realized-font store.
const DefaultMaxFonts = 1 << 16

type config struct {
	limits           PurgeLimits
	maxFonts         int
	verticalCapacity int
	vertical         bool
	stripVerticalAt  bool
	aliasResolver    AliasResolver
	pressure         MemoryPressure
	glyphs           GlyphsCache
	cacheName        string
}

func defaultConfig() config {
	return config{
		limits:          DefaultPurgeLimits(runtime.GOOS),
		maxFonts:        DefaultMaxFonts,
		stripVerticalAt: runtime.GOOS == "windows",
		aliasResolver:   AlternateFamilyName,
		pressure:        PressureFunc(func() bool { return false }),
	}
}

// Option configures a Cache.
type Option func(*config)

// WithCacheName sets a custom cache name (overrides the auto-generated name).
func WithCacheName(name string) Option {
	return func(c *config) {
		c.cacheName = name
	}
}

// WithPurgeLimits sets the inactive-font limits.
func WithPurgeLimits(limits PurgeLimits) Option {
	return func(c *config) {
		c.limits = limits
	}
}

// WithMaxFonts sets the capacity of the realized-font store. A full store
// drops its oldest inactive font, or grows when every font is in use.
func WithMaxFonts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxFonts = n
		}
	}
}

// WithVerticalMetrics enables the vertical-metrics cache. capacity only
// presizes the table: entries stay while a cached font uses their file and
// leave with purge sweeps. It has no effect unless the platform implements
// VerticalPlatform.
func WithVerticalMetrics(capacity int) Option {
	return func(c *config) {
		c.vertical = true
		c.verticalCapacity = capacity
	}
}

// WithVerticalPrefixStripping controls whether a leading '@' is removed
// from family names when vertical text is enabled. Windows uses the prefix
// to request its own vertical flow, which the cache does not rely on.
func WithVerticalPrefixStripping(strip bool) Option {
	return func(c *config) {
		c.stripVerticalAt = strip
	}
}

// WithAliasResolver replaces the family alias table.
func WithAliasResolver(r AliasResolver) Option {
	return func(c *config) {
		if r != nil {
			c.aliasResolver = r
		}
	}
}

// WithMemoryPressure sets the memory-pressure signal.
func WithMemoryPressure(p MemoryPressure) Option {
	return func(c *config) {
		if p != nil {
			c.pressure = p
		}
	}
}

// WithGlyphsCache sets the cache pruned before every purge.
func WithGlyphsCache(g GlyphsCache) Option {
	return func(c *config) {
		c.glyphs = g
	}
}
