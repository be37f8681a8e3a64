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

// The process-wide cache. It lives for the lifetime of the process.
var defaultCache atomic.Pointer[Cache]

// Default returns the process-wide cache. Until SetDefault is called it
// is a cache on a platform that realizes nothing.
func Default() *Cache {
	if c := defaultCache.Load(); c != nil {
		return c
	}
	defaultCache.CompareAndSwap(nil, newCache(nil, "default"))
	return defaultCache.Load()
}

// SetDefault replaces the process-wide cache and returns the previous one.
// Fonts obtained from the previous cache stay valid. Tests use it to start
// from a fresh cache.
func SetDefault(c *Cache) *Cache {
	return defaultCache.Swap(c)
}
