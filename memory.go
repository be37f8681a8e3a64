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
	"math"
	"runtime/metrics"
)

const (
	heapObjectsMetric = "/memory/classes/heap/objects:bytes"
	memoryLimitMetric = "/gc/gomemlimit:bytes"
)

// DefaultPressureRatio is the share of the Go memory limit above which
// HeapPressure reports pressure.
const DefaultPressureRatio = 0.8

// HeapPressure reports memory pressure from the Go runtime heap.
//
// With a Threshold the heap is compared against it. Otherwise the soft
// memory limit (GOMEMLIMIT) scaled by Ratio is used; without a limit there
// is never pressure.
type HeapPressure struct {
	Threshold uint64
	Ratio     float64
}

// IsUnderMemoryPressure implements MemoryPressure.
func (p HeapPressure) IsUnderMemoryPressure() bool {
	samples := []metrics.Sample{
		{Name: heapObjectsMetric},
		{Name: memoryLimitMetric},
	}
	metrics.Read(samples)

	heap, ok := sampleUint64(samples[0])
	if !ok {
		return false
	}

	threshold := p.Threshold
	if threshold == 0 {
		limit, ok := sampleUint64(samples[1])
		if !ok || limit >= math.MaxInt64 {
			return false
		}
		ratio := p.Ratio
		if ratio <= 0 || ratio > 1 {
			ratio = DefaultPressureRatio
		}
		threshold = uint64(float64(limit) * ratio)
	}

	return heap >= threshold
}

func sampleUint64(s metrics.Sample) (uint64, bool) {
	if s.Value.Kind() != metrics.KindUint64 {
		return 0, false
	}
	return s.Value.Uint64(), true
}
