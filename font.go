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

// Metrics are the horizontal metrics of a realized font, in pixels.
type Metrics struct {
	Ascent     float32
	Descent    float32
	LineGap    float32
	XHeight    float32
	CapHeight  float32
	UnitsPerEm uint16
}

// LineSpacing returns the distance between consecutive baselines.
func (m Metrics) LineSpacing() float32 {
	return m.Ascent + m.Descent + m.LineGap
}

// Font is a realized font shared between the cache and its callers.
//
// Every *Font returned by a Cache carries one reference owned by the
// caller, who must call Release when done. Retain adds a reference for a
// further holder. The cache owns one more reference while the font is
// cached; a font whose only reference is the cache's is inactive and may be
// purged.
type Font struct {
	handle   Handle
	metrics  Metrics
	vertical *VerticalMetrics

	refs   atomic.Int32
	cached atomic.Bool
}

func newFont(h Handle, m Metrics, vm *VerticalMetrics) *Font {
	f := &Font{handle: h, metrics: m, vertical: vm}
	f.refs.Store(1)
	f.cached.Store(true)
	return f
}

// Handle returns the platform handle the font was realized from.
func (f *Font) Handle() Handle { return f.handle }

// Metrics returns the horizontal metrics.
func (f *Font) Metrics() Metrics { return f.metrics }

// VerticalMetrics returns the vertical metrics, or nil when the font has
// no vertical tables or vertical layout is disabled.
func (f *Font) VerticalMetrics() *VerticalMetrics { return f.vertical }

// Retain adds a reference and returns f.
func (f *Font) Retain() *Font {
	f.refs.Add(1)
	return f
}

// Release drops a reference taken by a Cache lookup or by Retain.
// Releasing more references than were taken is a contract violation; it is
// logged and ignored.
func (f *Font) Release() {
	for {
		n := f.refs.Load()
		var floor int32
		if f.cached.Load() {
			floor = 1
		}
		if n <= floor {
			vlog.Errorf("vfont font over-released | handle: %v | refs: %d", f.handle, n)
			return
		}
		if f.refs.CompareAndSwap(n, n-1) {
			return
		}
	}
}

// RefCount returns the current number of references, the cache's included.
func (f *Font) RefCount() int {
	return int(f.refs.Load())
}

// exclusivelyCached reports whether the cache holds the only reference.
// Caller must hold the cache lock so no new reference can be handed out.
func (f *Font) exclusivelyCached() bool {
	return f.cached.Load() && f.refs.Load() == 1
}

// retainForCaller hands out a new caller reference; cache lock held.
func (f *Font) retainForCaller() *Font {
	f.refs.Add(1)
	return f
}

// dropCacheRef releases the cache slot's reference and reports whether it
// was still held; cache lock held.
func (f *Font) dropCacheRef() bool {
	if !f.cached.CompareAndSwap(true, false) {
		return false
	}
	f.refs.Add(-1)
	return true
}
