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

// Package fontdir provides a font platform backed by font files.
//
// A Library indexes TrueType and OpenType fonts, collections included, by
// family name. Horizontal metrics come from golang.org/x/image/font/sfnt,
// vertical metrics from go-text/typesetting when the font has vertical
// tables.
package fontdir

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path"
	"strings"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"github.com/vogo/vfont"
	"github.com/vogo/vogo/vlog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

var (
	// ErrEmptyFont is returned for empty font data.
	ErrEmptyFont = errors.New("fontdir: empty font data")
	// ErrNoFamily is returned for a font without a family name.
	ErrNoFamily = errors.New("fontdir: font has no family name")
)

var (
	_ vfont.Platform         = (*Library)(nil)
	_ vfont.VerticalPlatform = (*Library)(nil)
)

type face struct {
	key    vfont.FileKey
	family string
	style  string
	weight vfont.Weight
	italic bool

	font *sfnt.Font
	// data is set for single-font files only; collections carry no
	// vertical metrics.
	data []byte
}

// Library is a font platform over a set of font files.
// Library is safe for concurrent use.
type Library struct {
	mu       sync.RWMutex
	byFamily map[string][]*face
	byKey    map[vfont.FileKey]*face
}

// New creates an empty library.
func New() *Library {
	return &Library{
		byFamily: make(map[string][]*face),
		byKey:    make(map[vfont.FileKey]*face),
	}
}

// AddFont indexes the fonts in data under key and returns their family
// names. Faces of a collection are keyed "key#index".
func (l *Library) AddFont(key string, data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFont, key)
	}

	collection, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("fontdir: failed to parse %s: %w", key, err)
	}

	n := collection.NumFonts()
	faces := make([]*face, 0, n)
	for i := range n {
		f, err := collection.Font(i)
		if err != nil {
			return nil, fmt.Errorf("fontdir: failed to load face %d of %s: %w", i, key, err)
		}

		fc, err := newFace(f)
		if err != nil {
			return nil, fmt.Errorf("fontdir: %s: %w", key, err)
		}
		fc.key = vfont.FileKey(key)
		if n > 1 {
			fc.key = vfont.FileKey(fmt.Sprintf("%s#%d", key, i))
		} else {
			fc.data = data
		}
		faces = append(faces, fc)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	families := make([]string, 0, len(faces))
	for _, fc := range faces {
		if old, ok := l.byKey[fc.key]; ok {
			l.removeLocked(old)
		}
		folded := vfont.FoldFamily(fc.family)
		l.byFamily[folded] = append(l.byFamily[folded], fc)
		l.byKey[fc.key] = fc
		families = append(families, fc.family)

		vlog.Debugf("vfont font indexed | key: %s | family: %s | style: %s | weight: %d", fc.key, fc.family, fc.style, fc.weight)
	}
	return families, nil
}

func (l *Library) removeLocked(old *face) {
	folded := vfont.FoldFamily(old.family)
	faces := l.byFamily[folded]
	for i, fc := range faces {
		if fc == old {
			l.byFamily[folded] = append(faces[:i:i], faces[i+1:]...)
			break
		}
	}
	if len(l.byFamily[folded]) == 0 {
		delete(l.byFamily, folded)
	}
	delete(l.byKey, old.key)
}

// AddFS indexes every font file below root in fsys and returns the number
// of faces added. Files that fail to parse are logged and skipped.
func (l *Library) AddFS(fsys fs.FS, root string) (int, error) {
	added := 0
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isFontFile(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("fontdir: failed to read %s: %w", p, err)
		}

		families, err := l.AddFont(p, data)
		if err != nil {
			vlog.Errorf("vfont font skipped | path: %s | err: %v", p, err)
			return nil
		}
		added += len(families)
		return nil
	})
	return added, err
}

func isFontFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".ttf", ".otf", ".ttc", ".otc":
		return true
	}
	return false
}

// Families returns the number of indexed families.
func (l *Library) Families() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byFamily)
}

// CreateFontPlatformData implements vfont.Platform. It picks the face of
// family closest to the requested slant and weight and marks the bold or
// oblique it lacks for synthesis.
func (l *Library) CreateFontPlatformData(d vfont.Description, family string) (vfont.Handle, bool) {
	l.mu.RLock()
	faces := l.byFamily[vfont.FoldFamily(family)]
	l.mu.RUnlock()

	if len(faces) == 0 {
		return vfont.Handle{}, false
	}

	wantItalic := d.Slant != vfont.SlantNormal
	best := faces[0]
	for _, fc := range faces[1:] {
		if fc.closerThan(best, d.Weight, wantItalic) {
			best = fc
		}
	}

	h := vfont.NewHandle(best.key, d.Size, d.Orientation).
		WithSynthetic(d.Weight.IsBold() && !best.weight.IsBold(), wantItalic && !best.italic)
	return h, true
}

// FontMetrics implements vfont.Platform.
func (l *Library) FontMetrics(h vfont.Handle) vfont.Metrics {
	fc, ok := l.face(h.File())
	if !ok {
		return vfont.Metrics{}
	}

	var buf sfnt.Buffer
	m, err := fc.font.Metrics(&buf, fixed.Int26_6(math.Round(float64(h.Size())*64)), font.HintingNone)
	if err != nil {
		vlog.Errorf("vfont font metrics failed | handle: %v | err: %v", h, err)
		return vfont.Metrics{}
	}

	ascent := fixedToFloat32(m.Ascent)
	descent := fixedToFloat32(m.Descent)
	return vfont.Metrics{
		Ascent:     ascent,
		Descent:    descent,
		LineGap:    max(0, fixedToFloat32(m.Height)-ascent-descent),
		XHeight:    fixedToFloat32(m.XHeight),
		CapHeight:  fixedToFloat32(m.CapHeight),
		UnitsPerEm: uint16(fc.font.UnitsPerEm()),
	}
}

// CreateVerticalMetrics implements vfont.VerticalPlatform.
func (l *Library) CreateVerticalMetrics(h vfont.Handle) (*vfont.VerticalMetrics, bool) {
	fc, ok := l.face(h.File())
	if !ok || fc.data == nil {
		return nil, false
	}

	gt, err := gotext.ParseTTF(bytes.NewReader(fc.data))
	if err != nil {
		vlog.Errorf("vfont vertical metrics failed | file: %s | err: %v", fc.key, err)
		return nil, false
	}

	ext, ok := gt.FontVExtents()
	if !ok {
		return nil, false
	}

	upem := gt.Upem()
	advances := make([]float32, fc.font.NumGlyphs())
	for gid := range advances {
		advances[gid] = abs32(gt.VerticalAdvance(gotext.GID(gid)))
	}

	return &vfont.VerticalMetrics{
		Ascent:         abs32(ext.Ascender),
		Descent:        abs32(ext.Descender),
		LineGap:        ext.LineGap,
		UnitsPerEm:     upem,
		DefaultAdvance: float32(upem),
		Advances:       advances,
	}, true
}

func (l *Library) face(key vfont.FileKey) (*face, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fc, ok := l.byKey[key]
	return fc, ok
}

func fixedToFloat32(x fixed.Int26_6) float32 {
	return float32(x) / 64
}

func abs32(x float32) float32 {
	return float32(math.Abs(float64(x)))
}
