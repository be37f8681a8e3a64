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
)

// FileKey identifies the underlying font file of a handle, for example a
// path plus a face index. Several handles may share one FileKey.
type FileKey string

type handleState uint8

const (
	handleUnset handleState = iota
	handleValid
	handleDeleted
)

// Handle is the identity of a platform-realized font.
//
// A Handle is in exactly one of three states: unset (the zero value, also
// used for "no font available"), valid (built by NewHandle) or deleted
// (a tombstone from DeletedHandle). A valid handle with a zero size and no
// flags is still distinct from the unset handle.
//
// Handle is comparable and cheap to copy.
type Handle struct {
	state            handleState
	file             FileKey
	sizeBits         uint32
	orientation      Orientation
	syntheticBold    bool
	syntheticOblique bool
}

// NewHandle creates a valid handle for a face of the given file rendered at size.
func NewHandle(file FileKey, size float32, orientation Orientation) Handle {
	return Handle{
		state:       handleValid,
		file:        file,
		sizeBits:    math.Float32bits(size),
		orientation: orientation,
	}
}

// DeletedHandle returns the tombstone handle.
func DeletedHandle() Handle {
	return Handle{state: handleDeleted}
}

// WithSynthetic returns a copy of h with synthetic emboldening and slanting set.
func (h Handle) WithSynthetic(bold, oblique bool) Handle {
	h.syntheticBold = bold
	h.syntheticOblique = oblique
	return h
}

// IsValid reports whether h refers to a realized font.
func (h Handle) IsValid() bool { return h.state == handleValid }

// IsUnset reports whether h is the zero handle.
func (h Handle) IsUnset() bool { return h.state == handleUnset }

// IsDeleted reports whether h is the tombstone handle.
func (h Handle) IsDeleted() bool { return h.state == handleDeleted }

// File returns the identity of the underlying font file.
func (h Handle) File() FileKey { return h.file }

// Size returns the pixel size the handle was realized at.
func (h Handle) Size() float32 { return math.Float32frombits(h.sizeBits) }

// Orientation returns the layout orientation of the handle.
func (h Handle) Orientation() Orientation { return h.orientation }

// SyntheticBold reports whether the font must be emboldened when drawn.
func (h Handle) SyntheticBold() bool { return h.syntheticBold }

// SyntheticOblique reports whether the font must be slanted when drawn.
func (h Handle) SyntheticOblique() bool { return h.syntheticOblique }

func (h Handle) String() string {
	switch h.state {
	case handleUnset:
		return "<unset>"
	case handleDeleted:
		return "<deleted>"
	}
	return fmt.Sprintf("%s@%gpx", h.file, h.Size())
}
