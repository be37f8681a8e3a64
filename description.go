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
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Weight is a CSS-style font weight in the range 100..900.
type Weight uint16

const (
	WeightThin     Weight = 100
	WeightLight    Weight = 300
	WeightNormal   Weight = 400
	WeightMedium   Weight = 500
	WeightSemiBold Weight = 600
	WeightBold     Weight = 700
	WeightBlack    Weight = 900
)

// IsBold reports whether the weight should be rendered bold.
func (w Weight) IsBold() bool {
	return w >= WeightSemiBold
}

// Slant is the requested posture of a font.
type Slant uint8

const (
	SlantNormal Slant = iota
	SlantItalic
	SlantOblique
)

// Orientation selects horizontal or vertical text layout.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// WidthVariant selects proportional or fixed-fraction glyph widths,
// as used for East Asian half- and quarter-width forms.
type WidthVariant uint8

const (
	RegularWidth WidthVariant = iota
	HalfWidth
	ThirdWidth
	QuarterWidth
)

// Description holds the shaping-relevant attributes of a font request.
type Description struct {
	// Size is the computed pixel size.
	Size         float32
	Weight       Weight
	Slant        Slant
	Orientation  Orientation
	WidthVariant WidthVariant
	// Locale is a BCP 47 tag; some platforms pick different faces per locale.
	Locale string
}

// descriptionKey is the bit-exact form of a Description.
type descriptionKey struct {
	sizeBits     uint32
	weight       Weight
	slant        Slant
	orientation  Orientation
	widthVariant WidthVariant
	locale       string
}

func (d Description) key() descriptionKey {
	return descriptionKey{
		sizeBits:     math.Float32bits(d.Size),
		weight:       d.Weight,
		slant:        d.Slant,
		orientation:  d.Orientation,
		widthVariant: d.WidthVariant,
		locale:       d.Locale,
	}
}

// StyleKey identifies a font request in the platform-data cache.
// Family names compare case-insensitively, style attributes bit-exactly.
// StyleKey is comparable and can be used as a map key.
type StyleKey struct {
	family string
	desc   descriptionKey
}

// NewStyleKey builds the cache key for a family and description.
func NewStyleKey(family string, d Description) StyleKey {
	return StyleKey{
		family: FoldFamily(family),
		desc:   d.key(),
	}
}

// Family returns the folded family name.
func (k StyleKey) Family() string {
	return k.family
}

// String formats the key for log output.
func (k StyleKey) String() string {
	return fmt.Sprintf("%s/%gpx/w%d/s%d/o%d", k.family, math.Float32frombits(k.desc.sizeBits), k.desc.weight, k.desc.slant, k.desc.orientation)
}

// FoldFamily returns the canonical form of a family name used for
// case-insensitive comparison: NFC-normalized and case-folded.
func FoldFamily(family string) string {
	// A Caser keeps state and must not be shared between goroutines.
	return cases.Fold().String(norm.NFC.String(family))
}
