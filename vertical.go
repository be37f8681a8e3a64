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

import "github.com/vogo/vogo/vlog"

// DefaultVerticalCapacity presizes the vertical-metrics table when
// WithVerticalMetrics is given a non-positive capacity.
const DefaultVerticalCapacity = 256

// VerticalMetrics holds the vertical layout data of a font file,
// in font units.
type VerticalMetrics struct {
	Ascent     float32
	Descent    float32
	LineGap    float32
	UnitsPerEm uint16

	// DefaultAdvance is used for glyphs beyond the end of Advances.
	DefaultAdvance float32
	Advances       []float32
}

// AdvanceHeight returns the vertical advance of glyph gid in font units.
func (v *VerticalMetrics) AdvanceHeight(gid int) float32 {
	if gid >= 0 && gid < len(v.Advances) {
		return v.Advances[gid]
	}
	return v.DefaultAdvance
}

// Scale converts a value in font units to pixels at the given size.
func (v *VerticalMetrics) Scale(units, size float32) float32 {
	if v.UnitsPerEm == 0 {
		return 0
	}
	return units * size / float32(v.UnitsPerEm)
}

// verticalCache maps font files to their vertical metrics. A nil value is
// a cached "no vertical tables" result. Entries leave only through sweep.
// Not safe for concurrent use; the owning Cache serializes access.
type verticalCache struct {
	platform VerticalPlatform
	entries  map[FileKey]*VerticalMetrics
}

func newVerticalCache(platform VerticalPlatform, capacity int) *verticalCache {
	if capacity <= 0 {
		capacity = DefaultVerticalCapacity
	}
	return &verticalCache{
		platform: platform,
		entries:  make(map[FileKey]*VerticalMetrics, capacity),
	}
}

func (v *verticalCache) get(key FileKey, h Handle) *VerticalMetrics {
	if vm, ok := v.entries[key]; ok {
		return vm
	}

	vm, ok := v.platform.CreateVerticalMetrics(h)
	if !ok {
		vm = nil
	}
	v.entries[key] = vm
	vlog.Debugf("vfont vertical metrics derived | file: %s | available: %v", key, vm != nil)
	return vm
}

// sweep removes every entry whose file is not in live, negative entries
// included, and returns how many were removed.
func (v *verticalCache) sweep(live map[FileKey]struct{}) int {
	removed := 0
	for key := range v.entries {
		if _, ok := live[key]; ok {
			continue
		}
		delete(v.entries, key)
		removed++
	}
	return removed
}

func (v *verticalCache) len() int {
	return len(v.entries)
}
