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

// Package inmemory provides a scriptable font platform for testing font caches.
package inmemory

import (
	"sync"

	"github.com/vogo/vfont"
)

var (
	_ vfont.Platform         = (*Platform)(nil)
	_ vfont.VerticalPlatform = (*Platform)(nil)
	_ vfont.Initializer      = (*Platform)(nil)
)

// Face describes one installed face, with metrics in font units.
type Face struct {
	Family string
	File   vfont.FileKey
	Weight vfont.Weight
	Italic bool

	UnitsPerEm uint16
	Ascent     float32
	Descent    float32
	LineGap    float32
}

// Platform is an in-memory font platform for testing.
// It realizes fonts from the faces added to it and records every request.
type Platform struct {
	mu       sync.RWMutex
	faces    map[string][]Face // by folded family
	byFile   map[vfont.FileKey]Face
	vertical map[vfont.FileKey]vfont.VerticalMetrics

	requests      []string
	calls         map[string]int
	verticalCalls int
	inits         int
}

// New creates an empty in-memory platform.
func New() *Platform {
	return &Platform{
		faces:    make(map[string][]Face),
		byFile:   make(map[vfont.FileKey]Face),
		vertical: make(map[vfont.FileKey]vfont.VerticalMetrics),
		calls:    make(map[string]int),
	}
}

// AddFace installs a face. A zero UnitsPerEm defaults to 1000 and a zero
// Weight to normal.
func (p *Platform) AddFace(face Face) {
	if face.UnitsPerEm == 0 {
		face.UnitsPerEm = 1000
	}
	if face.Weight == 0 {
		face.Weight = vfont.WeightNormal
	}
	if face.File == "" {
		face.File = vfont.FileKey(vfont.FoldFamily(face.Family) + ".ttf")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	folded := vfont.FoldFamily(face.Family)
	p.faces[folded] = append(p.faces[folded], face)
	p.byFile[face.File] = face
}

// AddFamily installs a regular face of family with typical Latin metrics.
func (p *Platform) AddFamily(family string) {
	p.AddFace(Face{Family: family, Ascent: 800, Descent: 200, LineGap: 90})
}

// RemoveFamily uninstalls every face of family. Caches keep their entries
// until invalidated.
func (p *Platform) RemoveFamily(family string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	folded := vfont.FoldFamily(family)
	for _, face := range p.faces[folded] {
		delete(p.byFile, face.File)
		delete(p.vertical, face.File)
	}
	delete(p.faces, folded)
}

// AddVerticalMetrics gives file vertical tables.
func (p *Platform) AddVerticalMetrics(file vfont.FileKey, vm vfont.VerticalMetrics) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vertical[file] = vm
}

// PlatformInit implements vfont.Initializer.
func (p *Platform) PlatformInit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inits++
}

// CreateFontPlatformData implements vfont.Platform. The face with the
// closest weight wins; missing bold or italic is synthesized.
func (p *Platform) CreateFontPlatformData(d vfont.Description, family string) (vfont.Handle, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	folded := vfont.FoldFamily(family)
	p.requests = append(p.requests, family)
	p.calls[folded]++

	faces := p.faces[folded]
	if len(faces) == 0 {
		return vfont.Handle{}, false
	}

	wantItalic := d.Slant != vfont.SlantNormal
	best := faces[0]
	for _, face := range faces[1:] {
		if better(face, best, d.Weight, wantItalic) {
			best = face
		}
	}

	h := vfont.NewHandle(best.File, d.Size, d.Orientation).
		WithSynthetic(d.Weight.IsBold() && !best.Weight.IsBold(), wantItalic && !best.Italic)
	return h, true
}

func better(a, b Face, weight vfont.Weight, italic bool) bool {
	if (a.Italic == italic) != (b.Italic == italic) {
		return a.Italic == italic
	}
	return distance(a.Weight, weight) < distance(b.Weight, weight)
}

func distance(a, b vfont.Weight) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// FontMetrics implements vfont.Platform.
func (p *Platform) FontMetrics(h vfont.Handle) vfont.Metrics {
	p.mu.RLock()
	face, ok := p.byFile[h.File()]
	p.mu.RUnlock()
	if !ok {
		return vfont.Metrics{}
	}

	scale := h.Size() / float32(face.UnitsPerEm)
	return vfont.Metrics{
		Ascent:     face.Ascent * scale,
		Descent:    face.Descent * scale,
		LineGap:    face.LineGap * scale,
		UnitsPerEm: face.UnitsPerEm,
	}
}

// CreateVerticalMetrics implements vfont.VerticalPlatform.
func (p *Platform) CreateVerticalMetrics(h vfont.Handle) (*vfont.VerticalMetrics, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.verticalCalls++
	vm, ok := p.vertical[h.File()]
	if !ok {
		return nil, false
	}
	return &vm, true
}

// Calls returns how often family was requested.
func (p *Platform) Calls(family string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.calls[vfont.FoldFamily(family)]
}

// VerticalCalls returns how often vertical metrics were derived.
func (p *Platform) VerticalCalls() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.verticalCalls
}

// Inits returns how often the platform was initialized.
func (p *Platform) Inits() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.inits
}

// Requests returns every requested family name in order, for testing inspection.
func (p *Platform) Requests() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	result := make([]string, len(p.requests))
	copy(result, p.requests)
	return result
}

// ClearRequests clears the request history and call counts.
func (p *Platform) ClearRequests() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = p.requests[:0]
	clear(p.calls)
	p.verticalCalls = 0
}
