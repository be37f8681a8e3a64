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

package fontdir

import (
	"strings"

	"github.com/vogo/vfont"
	"golang.org/x/image/font/sfnt"
)

func newFace(f *sfnt.Font) (*face, error) {
	family := name(f, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
	if family == "" {
		return nil, ErrNoFamily
	}
	style := name(f, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily)

	return &face{
		family: family,
		style:  style,
		weight: parseWeight(style),
		italic: parseItalic(style),
		font:   f,
	}, nil
}

// name returns the first non-empty name of ids.
func name(f *sfnt.Font, ids ...sfnt.NameID) string {
	var buf sfnt.Buffer
	for _, id := range ids {
		if s, err := f.Name(&buf, id); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// Order matters: "semibold" before "bold", "extralight" before "light".
var weightNames = []struct {
	name   string
	weight vfont.Weight
}{
	{"thin", vfont.WeightThin},
	{"hairline", vfont.WeightThin},
	{"extralight", 200},
	{"ultralight", 200},
	{"semilight", 350},
	{"light", vfont.WeightLight},
	{"medium", vfont.WeightMedium},
	{"semibold", vfont.WeightSemiBold},
	{"demibold", vfont.WeightSemiBold},
	{"extrabold", 800},
	{"ultrabold", 800},
	{"bold", vfont.WeightBold},
	{"black", vfont.WeightBlack},
	{"heavy", vfont.WeightBlack},
}

// parseWeight derives the weight from a subfamily name like "Bold Italic".
func parseWeight(style string) vfont.Weight {
	s := compact(style)
	for _, w := range weightNames {
		if strings.Contains(s, w.name) {
			return w.weight
		}
	}
	return vfont.WeightNormal
}

func parseItalic(style string) bool {
	s := compact(style)
	return strings.Contains(s, "italic") || strings.Contains(s, "oblique")
}

func compact(style string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(style))
}

// closerThan reports whether fc matches the request better than other.
// Slant weighs more than weight.
func (fc *face) closerThan(other *face, weight vfont.Weight, italic bool) bool {
	if (fc.italic == italic) != (other.italic == italic) {
		return fc.italic == italic
	}
	return weightDistance(fc.weight, weight) < weightDistance(other.weight, weight)
}

func weightDistance(a, b vfont.Weight) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
