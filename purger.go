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
	"runtime/debug"
	"time"

	"github.com/vogo/vogo/vlog"
	"github.com/vogo/vogo/vsync/vrun"
)

// DefaultPurgeInterval is used by StartPurgeLoop for a non-positive interval.
const DefaultPurgeInterval = 30 * time.Second

// StartPurgeLoop calls PurgeInactiveFontDataIfNeeded on c every interval
// until runner stops.
func StartPurgeLoop(runner *vrun.Runner, c *Cache, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}

	ticker := time.NewTicker(interval)
	runner.Defer(ticker.Stop)

	vlog.Infof("vfont purge loop started | cache: %s | interval: %s", c.name, interval)

	runner.Loop(func() {
		defer func() {
			if _err := recover(); _err != nil {
				vlog.Errorf("vfont purge loop panic: %v | cache: %s | stack: %s", _err, c.name, debug.Stack())
			}
		}()

		select {
		case <-ticker.C:
			res := c.PurgeInactiveFontDataIfNeeded()
			if res.Fonts > 0 {
				vlog.Debugf("vfont idle purge | cache: %s | fonts: %d", c.name, res.Fonts)
			}
		case <-runner.C:
			vlog.Infof("vfont purge loop done | cache: %s", c.name)
			return
		}
	})
}
