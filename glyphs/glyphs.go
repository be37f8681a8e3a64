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

// Package glyphs caches resolved font fallback lists on top of a vfont.Cache.
//
// A fallback list pins its fonts in the font cache. Lists nobody holds are
// dropped when the font cache prunes before a purge, which lets the fonts
// they referenced become inactive.
package glyphs

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/vogo/vfont"
	"github.com/vogo/vogo/vlog"
)

var _ vfont.GlyphsCache = (*Cache)(nil)

// Glyphs is a resolved fallback list: the available fonts of the requested
// families, in request order.
type Glyphs struct {
	fonts      []*vfont.Font
	generation uint64

	refs   atomic.Int32
	cached atomic.Bool
}

// Primary returns the first available font, or nil when no family of the
// list is available.
func (g *Glyphs) Primary() *vfont.Font {
	if len(g.fonts) == 0 {
		return nil
	}
	return g.fonts[0]
}

// Fonts returns the available fonts in fallback order. The slice must not
// be modified.
func (g *Glyphs) Fonts() []*vfont.Font {
	return g.fonts
}

// Generation returns the font cache generation the list was resolved in.
func (g *Glyphs) Generation() uint64 {
	return g.generation
}

// Release drops a reference taken by Get. The fonts of a list that left
// the cache are released with its last reference.
func (g *Glyphs) Release() {
	for {
		n := g.refs.Load()
		var floor int32
		if g.cached.Load() {
			floor = 1
		}
		if n <= floor {
			vlog.Errorf("vfont glyphs over-released | refs: %d", n)
			return
		}
		if g.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				g.releaseFonts()
			}
			return
		}
	}
}

// releaseFonts drops the list's font references once nobody holds it.
func (g *Glyphs) releaseFonts() {
	for _, f := range g.fonts {
		f.Release()
	}
}

type key struct {
	families string
	style    vfont.StyleKey
}

func newKey(d vfont.Description, families []string) key {
	folded := make([]string, len(families))
	for i, family := range families {
		folded[i] = vfont.FoldFamily(family)
	}
	return key{
		families: strings.Join(folded, "\x00"),
		style:    vfont.NewStyleKey("", d),
	}
}

// Cache maps family lists and descriptions to resolved fallback lists.
// Cache is safe for concurrent use.
type Cache struct {
	fonts *vfont.Cache

	mu      sync.Mutex
	entries map[key]*Glyphs
}

// New creates a glyphs cache and registers it with fonts, which prunes it
// before every purge and clears it on invalidation.
func New(fonts *vfont.Cache) *Cache {
	c := &Cache{
		fonts:   fonts,
		entries: make(map[key]*Glyphs),
	}
	fonts.SetGlyphsCache(c)
	return c
}

// Get returns the fallback list for families at d. The caller must
// Release it when done.
func (c *Cache) Get(d vfont.Description, families ...string) *Glyphs {
	k := newKey(d, families)
	gen := vfont.Generation()

	c.mu.Lock()
	defer c.mu.Unlock()

	if g, ok := c.entries[k]; ok {
		if g.generation == gen {
			g.refs.Add(1)
			return g
		}
		// Stale: resolved before the last invalidation.
		delete(c.entries, k)
		c.dropLocked(g)
	}

	g := &Glyphs{generation: gen}
	for _, family := range families {
		if f := c.fonts.FontForFamily(d, family, false); f != nil {
			g.fonts = append(g.fonts, f)
		}
	}
	g.refs.Store(2)
	g.cached.Store(true)
	c.entries[k] = g

	vlog.Debugf("vfont glyphs resolved | cache: %s | families: %d | fonts: %d", c.fonts.Name(), len(families), len(g.fonts))
	return g
}

// dropLocked releases the cache's reference on g; fonts are released only
// when no holder is left.
func (c *Cache) dropLocked(g *Glyphs) {
	if !g.cached.CompareAndSwap(true, false) {
		return
	}
	if g.refs.Add(-1) == 0 {
		g.releaseFonts()
	}
}

// PruneUnreferenced drops every list only the cache holds and releases
// its fonts.
func (c *Cache) PruneUnreferenced() {
	c.mu.Lock()
	defer c.mu.Unlock()

	pruned := 0
	for k, g := range c.entries {
		if g.refs.CompareAndSwap(1, 0) {
			g.cached.Store(false)
			delete(c.entries, k)
			g.releaseFonts()
			pruned++
		}
	}
	if pruned > 0 {
		vlog.Debugf("vfont glyphs pruned | cache: %s | lists: %d | remaining: %d", c.fonts.Name(), pruned, len(c.entries))
	}
}

// Invalidate drops every list. Lists still held keep their fonts until
// released.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, g := range c.entries {
		delete(c.entries, k)
		c.dropLocked(g)
	}
}

// Len returns the number of cached lists.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
