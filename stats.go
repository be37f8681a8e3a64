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

import "sync/atomic"

// Stats is a snapshot of cache counters.
type Stats struct {
	// PlatformHits and PlatformMisses count platform-data lookups.
	PlatformHits   uint64
	PlatformMisses uint64
	// RealizationFailures counts platform calls that found no font.
	RealizationFailures uint64
	// AliasHits counts lookups satisfied through an alternate family name.
	AliasHits uint64

	FontHits   uint64
	FontMisses uint64

	Purges            uint64
	PurgesPrevented   uint64
	FontsPurged       uint64
	PlatformDataSwept uint64
	VerticalDataSwept uint64
	// CapacityEvictions counts inactive fonts dropped because the store was
	// full; StoreGrowths counts the times it was full of fonts in use.
	CapacityEvictions uint64
	StoreGrowths      uint64
	Invalidations     uint64
}

type counters struct {
	platformHits        atomic.Uint64
	platformMisses      atomic.Uint64
	realizationFailures atomic.Uint64
	aliasHits           atomic.Uint64
	fontHits            atomic.Uint64
	fontMisses          atomic.Uint64
	purges              atomic.Uint64
	purgesPrevented     atomic.Uint64
	fontsPurged         atomic.Uint64
	platformDataSwept   atomic.Uint64
	verticalDataSwept   atomic.Uint64
	capacityEvictions   atomic.Uint64
	storeGrowths        atomic.Uint64
	invalidations       atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		PlatformHits:        c.platformHits.Load(),
		PlatformMisses:      c.platformMisses.Load(),
		RealizationFailures: c.realizationFailures.Load(),
		AliasHits:           c.aliasHits.Load(),
		FontHits:            c.fontHits.Load(),
		FontMisses:          c.fontMisses.Load(),
		Purges:              c.purges.Load(),
		PurgesPrevented:     c.purgesPrevented.Load(),
		FontsPurged:         c.fontsPurged.Load(),
		PlatformDataSwept:   c.platformDataSwept.Load(),
		VerticalDataSwept:   c.verticalDataSwept.Load(),
		CapacityEvictions:   c.capacityEvictions.Load(),
		StoreGrowths:        c.storeGrowths.Load(),
		Invalidations:       c.invalidations.Load(),
	}
}
