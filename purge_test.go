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
	"fmt"
	"testing"
)

// realize creates one inactive font per family, oldest first.
func realize(t *testing.T, c *Cache, families ...string) []*Font {
	t.Helper()

	fonts := make([]*Font, 0, len(families))
	for _, family := range families {
		f := c.FontForFamily(body, family, false)
		if f == nil {
			t.Fatalf("Expected %s to be available", family)
		}
		f.Release()
		fonts = append(fonts, f)
	}
	return fonts
}

func familyNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Family %d", i)
	}
	return names
}

func TestPurgeKeepsReferencedFonts(t *testing.T) {
	c := New(newTestPlatform("Georgia"))

	f := c.FontForFamily(body, "Georgia", false)
	res := c.PurgeAllInactiveFontData()
	if res.Fonts != 0 {
		t.Errorf("Expected held font to survive, got %d purged", res.Fonts)
	}
	if c.FontDataCount() != 1 || c.PlatformDataCount() != 1 {
		t.Errorf("Expected font and platform data to stay, got %d and %d", c.FontDataCount(), c.PlatformDataCount())
	}

	f.Release()
	res = c.PurgeAllInactiveFontData()
	if res.Fonts != 1 || res.PlatformData != 1 {
		t.Errorf("Expected 1 font and 1 platform entry purged, got %+v", res)
	}
	if c.FontDataCount() != 0 || c.PlatformDataCount() != 0 {
		t.Errorf("Expected empty caches, got %d fonts and %d entries", c.FontDataCount(), c.PlatformDataCount())
	}
	if f.RefCount() != 0 {
		t.Errorf("Expected purged font to hold no references, got %d", f.RefCount())
	}
}

func TestPurgeSweepsAliasEntries(t *testing.T) {
	c := New(newTestPlatform("Helvetica"))

	f := c.FontForFamily(body, "Arial", false)
	f.Release()

	res := c.PurgeAllInactiveFontData()
	if res.PlatformData != 2 {
		t.Errorf("Expected both names to be swept with their font, got %d", res.PlatformData)
	}
}

func TestPurgeKeepsNegativeEntries(t *testing.T) {
	p := newTestPlatform("Georgia")
	c := New(p, WithAliasResolver(noAliases))

	realize(t, c, "Georgia")
	_ = c.FontForFamily(body, "Missing Sans", false)

	c.PurgeAllInactiveFontData()
	if c.PlatformDataCount() != 1 {
		t.Errorf("Expected the negative entry to survive, got %d entries", c.PlatformDataCount())
	}

	_ = c.FontForFamily(body, "Missing Sans", false)
	if p.Calls("Missing Sans") != 1 {
		t.Errorf("Expected no new realization after purge, got %d calls", p.Calls("Missing Sans"))
	}

	c.Invalidate()
	if c.PlatformDataCount() != 0 {
		t.Errorf("Expected invalidate to drop the negative entry, got %d entries", c.PlatformDataCount())
	}
	_ = c.FontForFamily(body, "Missing Sans", false)
	if p.Calls("Missing Sans") != 2 {
		t.Errorf("Expected a new realization after invalidate, got %d calls", p.Calls("Missing Sans"))
	}
}

func TestPurgeOldestFirst(t *testing.T) {
	names := familyNames(5)
	c := New(newTestPlatform(names...))
	fonts := realize(t, c, names...)

	res := c.PurgeInactiveFontData(2)
	if res.Fonts != 2 {
		t.Fatalf("Expected 2 fonts purged, got %d", res.Fonts)
	}
	for i, f := range fonts {
		cached := c.fonts.Contains(f.Handle())
		if want := i >= 2; cached != want {
			t.Errorf("Expected %s cached=%v, got %v", names[i], want, cached)
		}
	}
}

func TestPurgeSkipsActiveFonts(t *testing.T) {
	names := familyNames(4)
	c := New(newTestPlatform(names...))
	fonts := realize(t, c, names...)

	// The oldest is held again so the purge has to pass over it.
	held := fonts[0].Retain()
	defer held.Release()

	res := c.PurgeInactiveFontData(2)
	if res.Fonts != 2 {
		t.Fatalf("Expected 2 fonts purged, got %d", res.Fonts)
	}
	if !c.fonts.Contains(fonts[0].Handle()) || !c.fonts.Contains(fonts[3].Handle()) {
		t.Error("Expected the held font and the newest font to stay cached")
	}
}

func TestPurgePrevented(t *testing.T) {
	c := New(newTestPlatform("Georgia"))
	realize(t, c, "Georgia")

	release := c.PreventPurge()
	nested := c.PreventPurge()
	if !c.PurgePrevented() {
		t.Error("Expected purge to be prevented")
	}

	res := c.PurgeAllInactiveFontData()
	if !res.Prevented || res.Fonts != 0 {
		t.Errorf("Expected a prevented purge, got %+v", res)
	}

	release()
	release()
	if !c.PurgePrevented() {
		t.Error("Expected the nested scope to still prevent purging")
	}

	nested()
	if c.PurgePrevented() {
		t.Error("Expected purging to be allowed again")
	}

	res = c.PurgeAllInactiveFontData()
	if res.Prevented || res.Fonts != 1 {
		t.Errorf("Expected 1 font purged, got %+v", res)
	}
	if c.Stats().PurgesPrevented != 1 {
		t.Errorf("Expected 1 prevented purge, got %d", c.Stats().PurgesPrevented)
	}
}

func TestPurgeIfNeeded(t *testing.T) {
	names := familyNames(5)
	limits := PurgeLimits{
		Normal:        Limits{MaxInactive: 3, TargetInactive: 1},
		UnderPressure: Limits{MaxInactive: 1, TargetInactive: 0},
	}
	c := New(newTestPlatform(names...), WithPurgeLimits(limits))

	realize(t, c, names[:3]...)
	if res := c.PurgeInactiveFontDataIfNeeded(); res.Fonts != 0 {
		t.Errorf("Expected no purge at the ceiling, got %d purged", res.Fonts)
	}

	realize(t, c, names[3:]...)
	res := c.PurgeInactiveFontDataIfNeeded()
	if res.Fonts != 4 {
		t.Errorf("Expected inactive fonts shrunk to 1, got %d purged", res.Fonts)
	}
	if c.InactiveFontDataCount() != 1 {
		t.Errorf("Expected 1 inactive font left, got %d", c.InactiveFontDataCount())
	}
}

func TestPurgeIfNeededUnderPressure(t *testing.T) {
	names := familyNames(3)
	pressure := false
	limits := PurgeLimits{
		Normal:        Limits{MaxInactive: 10, TargetInactive: 5},
		UnderPressure: Limits{MaxInactive: 1, TargetInactive: 0},
	}
	c := New(newTestPlatform(names...),
		WithPurgeLimits(limits),
		WithMemoryPressure(PressureFunc(func() bool { return pressure })))

	realize(t, c, names...)
	if res := c.PurgeInactiveFontDataIfNeeded(); res.Fonts != 0 {
		t.Errorf("Expected no purge without pressure, got %d purged", res.Fonts)
	}

	pressure = true
	if res := c.PurgeInactiveFontDataIfNeeded(); res.Fonts != 3 {
		t.Errorf("Expected every inactive font purged under pressure, got %d", res.Fonts)
	}
}

func TestPurgeActiveFontsDoNotTrigger(t *testing.T) {
	names := familyNames(5)
	limits := PurgeLimits{
		Normal:        Limits{MaxInactive: 3, TargetInactive: 1},
		UnderPressure: Limits{MaxInactive: 3, TargetInactive: 1},
	}
	c := New(newTestPlatform(names...), WithPurgeLimits(limits))

	for _, name := range names {
		f := c.FontForFamily(body, name, false)
		defer f.Release()
	}
	if res := c.PurgeInactiveFontDataIfNeeded(); res.Fonts != 0 {
		t.Errorf("Expected held fonts not to trigger a purge, got %d purged", res.Fonts)
	}
}

func TestPurgeCount(t *testing.T) {
	limits := Limits{MaxInactive: 225, TargetInactive: 200}
	tests := []struct {
		size, inactive, want int
	}{
		{100, 100, 0},
		{300, 225, 0},
		{300, 226, 26},
		{224, 224, 0},
	}
	for _, tt := range tests {
		if got := purgeCount(tt.size, tt.inactive, limits); got != tt.want {
			t.Errorf("Expected purgeCount(%d, %d) = %d, got %d", tt.size, tt.inactive, tt.want, got)
		}
	}
}

// countingGlyphs records the calls made by the font cache and releases a
// held font when pruned.
type countingGlyphs struct {
	prunes      int
	invalidates int
	held        *Font
}

func (g *countingGlyphs) PruneUnreferenced() {
	g.prunes++
	if g.held != nil {
		g.held.Release()
		g.held = nil
	}
}

func (g *countingGlyphs) Invalidate() {
	g.invalidates++
}

func TestPurgePrunesGlyphsFirst(t *testing.T) {
	g := &countingGlyphs{}
	c := New(newTestPlatform("Georgia"), WithGlyphsCache(g))

	g.held = c.FontForFamily(body, "Georgia", false)

	res := c.PurgeAllInactiveFontData()
	if g.prunes != 1 {
		t.Errorf("Expected glyphs pruned once, got %d", g.prunes)
	}
	if res.Fonts != 1 {
		t.Errorf("Expected the font released by pruning to be purged, got %d", res.Fonts)
	}

	c.Invalidate()
	if g.invalidates != 1 {
		t.Errorf("Expected glyphs invalidated once, got %d", g.invalidates)
	}
}

func TestPurgeIfNeededRecountsAfterPruning(t *testing.T) {
	names := familyNames(4)
	g := &countingGlyphs{}
	limits := PurgeLimits{
		Normal:        Limits{MaxInactive: 2, TargetInactive: 0},
		UnderPressure: Limits{MaxInactive: 2, TargetInactive: 0},
	}
	c := New(newTestPlatform(names...), WithPurgeLimits(limits), WithGlyphsCache(g))

	realize(t, c, names[:3]...)
	g.held = c.FontForFamily(body, names[3], false)

	res := c.PurgeInactiveFontDataIfNeeded()
	if res.Fonts != 4 {
		t.Errorf("Expected the count taken after pruning, got %d purged", res.Fonts)
	}
}

func TestVerticalMetricsSharedAcrossHandles(t *testing.T) {
	p := newTestPlatform("Mincho")
	p.vertical[p.fileOf("Mincho")] = &VerticalMetrics{Ascent: 500, Descent: 500, UnitsPerEm: 1000, DefaultAdvance: 1000}
	c := New(p, WithVerticalMetrics(8))

	small := c.FontForFamily(Description{Size: 12, Orientation: Vertical}, "Mincho", false)
	large := c.FontForFamily(Description{Size: 24, Orientation: Vertical}, "Mincho", false)
	if small == nil || large == nil || small == large {
		t.Fatal("Expected two distinct vertical fonts")
	}
	if small.VerticalMetrics() == nil || small.VerticalMetrics() != large.VerticalMetrics() {
		t.Error("Expected both fonts to share the file's vertical metrics")
	}
	if p.verticalCalls != 1 || c.VerticalMetricsCount() != 1 {
		t.Errorf("Expected one derivation and one entry, got %d and %d", p.verticalCalls, c.VerticalMetricsCount())
	}

	small.Release()
	res := c.PurgeAllInactiveFontData()
	if res.Fonts != 1 || res.VerticalMetrics != 0 {
		t.Errorf("Expected entry kept while a font still uses it, got %+v", res)
	}

	large.Release()
	res = c.PurgeAllInactiveFontData()
	if res.Fonts != 1 || res.VerticalMetrics != 1 {
		t.Errorf("Expected entry swept with its last font, got %+v", res)
	}
	if c.VerticalMetricsCount() != 0 {
		t.Errorf("Expected no vertical entries, got %d", c.VerticalMetricsCount())
	}
}

func TestVerticalMetricsNegativeEntry(t *testing.T) {
	p := newTestPlatform("Gothic")
	c := New(p, WithVerticalMetrics(8))

	for _, size := range []float32{12, 14, 16} {
		f := c.FontForFamily(Description{Size: size, Orientation: Vertical}, "Gothic", false)
		if f.VerticalMetrics() != nil {
			t.Error("Expected no vertical metrics for a file without vertical tables")
		}
		f.Release()
	}
	if p.verticalCalls != 1 {
		t.Errorf("Expected the failure to be cached, got %d derivations", p.verticalCalls)
	}

	c.PurgeAllInactiveFontData()
	if c.VerticalMetricsCount() != 0 {
		t.Errorf("Expected the negative entry swept, got %d", c.VerticalMetricsCount())
	}
}

func TestVerticalMetricsHorizontalFontsSkip(t *testing.T) {
	p := newTestPlatform("Mincho")
	c := New(p, WithVerticalMetrics(8))

	f := c.FontForFamily(body, "Mincho", false)
	defer f.Release()

	if p.verticalCalls != 0 {
		t.Errorf("Expected no derivation for a horizontal font, got %d", p.verticalCalls)
	}
}

func TestVerticalMetricsDisabled(t *testing.T) {
	p := newTestPlatform("Mincho")
	c := New(p)

	if c.VerticalEnabled() {
		t.Error("Expected vertical metrics disabled by default")
	}
	f := c.FontForFamily(Description{Size: 12, Orientation: Vertical}, "Mincho", false)
	defer f.Release()

	if f.VerticalMetrics() != nil || p.verticalCalls != 0 {
		t.Error("Expected no vertical metrics when disabled")
	}
}

func TestVerticalMetricsAdvance(t *testing.T) {
	vm := &VerticalMetrics{UnitsPerEm: 1000, DefaultAdvance: 1000, Advances: []float32{800, 900}}

	if vm.AdvanceHeight(1) != 900 {
		t.Errorf("Expected advance 900, got %v", vm.AdvanceHeight(1))
	}
	if vm.AdvanceHeight(5) != 1000 {
		t.Errorf("Expected default advance 1000, got %v", vm.AdvanceHeight(5))
	}
	if vm.Scale(500, 20) != 10 {
		t.Errorf("Expected 10px, got %v", vm.Scale(500, 20))
	}
}

func TestVerticalMetricsKeptWhileInUse(t *testing.T) {
	p := newTestPlatform("Mincho", "Gothic")
	p.vertical[p.fileOf("Mincho")] = &VerticalMetrics{UnitsPerEm: 1000, DefaultAdvance: 1000}
	p.vertical[p.fileOf("Gothic")] = &VerticalMetrics{UnitsPerEm: 1000, DefaultAdvance: 1000}
	c := New(p, WithVerticalMetrics(1))

	mincho := c.FontForFamily(Description{Size: 12, Orientation: Vertical}, "Mincho", false)
	defer mincho.Release()
	gothic := c.FontForFamily(Description{Size: 12, Orientation: Vertical}, "Gothic", false)
	defer gothic.Release()

	larger := c.FontForFamily(Description{Size: 24, Orientation: Vertical}, "Mincho", false)
	defer larger.Release()

	if p.verticalCalls != 2 {
		t.Errorf("Expected one derivation per file, got %d", p.verticalCalls)
	}
	if c.VerticalMetricsCount() != 2 {
		t.Errorf("Expected both files kept beyond the size hint, got %d", c.VerticalMetricsCount())
	}
	if larger.VerticalMetrics() != mincho.VerticalMetrics() {
		t.Error("Expected the second Mincho font to reuse the file's metrics")
	}
}

func TestPurgePreventedSkipsSweeps(t *testing.T) {
	p := newTestPlatform("Mincho")
	p.vertical[p.fileOf("Mincho")] = &VerticalMetrics{UnitsPerEm: 1000}
	c := New(p, WithVerticalMetrics(4))

	f := c.FontForFamily(Description{Size: 12, Orientation: Vertical}, "Mincho", false)
	f.Release()

	release := c.PreventPurge()
	res := c.PurgeAllInactiveFontData()
	if !res.Prevented || res.PlatformData != 0 || res.VerticalMetrics != 0 {
		t.Errorf("Expected nothing swept while prevented, got %+v", res)
	}
	if c.PlatformDataCount() != 1 || c.VerticalMetricsCount() != 1 {
		t.Errorf("Expected entries kept, got %d platform and %d vertical", c.PlatformDataCount(), c.VerticalMetricsCount())
	}
	release()

	res = c.PurgeAllInactiveFontData()
	if res.Fonts != 1 || res.PlatformData != 1 || res.VerticalMetrics != 1 {
		t.Errorf("Expected the font and both entries removed, got %+v", res)
	}
}
