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

// Platform realizes fonts. Implementations wrap the font system of the
// host (a font directory, fontconfig, CoreText, ...).
//
// The cache calls a Platform while holding its lock: implementations must
// not call back into the Cache.
type Platform interface {
	// CreateFontPlatformData realizes family with the given description.
	// It returns false when no such font is available.
	CreateFontPlatformData(d Description, family string) (Handle, bool)

	// FontMetrics derives the metrics of a handle previously returned by
	// CreateFontPlatformData.
	FontMetrics(h Handle) Metrics
}

// VerticalPlatform is implemented by platforms that support vertical text.
type VerticalPlatform interface {
	// CreateVerticalMetrics reads the vertical layout tables of the file
	// behind h. It returns false when the font has none.
	CreateVerticalMetrics(h Handle) (*VerticalMetrics, bool)
}

// Initializer is implemented by platforms that need one-time setup before
// the first realization.
type Initializer interface {
	PlatformInit()
}

// Client is notified when the font cache is invalidated, for example
// after a web font finished loading or the installed fonts changed.
// Clients are compared by identity, so implementations should be pointers.
type Client interface {
	FontCacheInvalidated()
}

// GlyphsCache is a higher-level cache holding font references, such as
// resolved fallback lists. The cache prunes it before purging so its
// unreferenced entries stop pinning fonts. Both methods are called without
// the Cache lock held.
type GlyphsCache interface {
	PruneUnreferenced()
	Invalidate()
}

// MemoryPressure reports whether the process is short of memory.
type MemoryPressure interface {
	IsUnderMemoryPressure() bool
}

// PressureFunc adapts a function to MemoryPressure.
type PressureFunc func() bool

// IsUnderMemoryPressure calls f.
func (f PressureFunc) IsUnderMemoryPressure() bool { return f() }

// nullPlatform realizes nothing.
type nullPlatform struct{}

func (nullPlatform) CreateFontPlatformData(Description, string) (Handle, bool) {
	return Handle{}, false
}

func (nullPlatform) FontMetrics(Handle) Metrics { return Metrics{} }
