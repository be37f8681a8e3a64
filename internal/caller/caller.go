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

// Package caller names cache instances after the code that created them.
package caller

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Site returns "func@file:line" for the caller's location, or "" when the
// stack is not that deep. skip is the number of frames to skip
// (0 = caller of Site). Only the last element of the package path is kept
// in the function name.
func Site(skip int) string {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}

	funcName := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = fn.Name()
		if i := strings.LastIndexByte(funcName, '/'); i >= 0 {
			funcName = funcName[i+1:]
		}
	}

	return funcName + "@" + filepath.Base(file) + ":" + strconv.Itoa(line)
}
