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

import "runtime"

// AliasResolver maps a family name to a well-known alternate, or "" when
// none is known.
type AliasResolver func(family string) string

var commonAliases = map[string]string{
	"arial":           "Helvetica",
	"helvetica":       "Arial",
	"times":           "Times New Roman",
	"times new roman": "Times",
	"courier":         "Courier New",
}

// Courier New is a TrueType font that is always present on Windows, while
// Courier is a bitmap font there.
var nonWindowsAliases = map[string]string{
	"courier new": "Courier",
}

// Bitmap fonts are blocked on Windows, so map them to TrueType equivalents.
var windowsAliases = map[string]string{
	"ms sans serif": "Microsoft Sans Serif",
	"ms serif":      "Times New Roman",
}

// AlternateFamilyName returns the alias of family for the running OS.
func AlternateFamilyName(family string) string {
	return alternateFamilyName(runtime.GOOS, family)
}

// AliasResolverFor returns the alias table used on goos.
func AliasResolverFor(goos string) AliasResolver {
	return func(family string) string {
		return alternateFamilyName(goos, family)
	}
}

func alternateFamilyName(goos, family string) string {
	folded := FoldFamily(family)
	if alt, ok := commonAliases[folded]; ok {
		return alt
	}

	platformAliases := nonWindowsAliases
	if goos == "windows" {
		platformAliases = windowsAliases
	}
	return platformAliases[folded]
}
