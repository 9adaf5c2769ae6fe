// Copyright 2026 The XKB-Go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package xkbcomp

import "github.com/xkbgo/xkbcommon/ast"

// fieldSet tracks which named fields of a staged entity have already
// been set, so mergeField can implement spec §4.5's table:
//
//	augment  - incoming fields set only if target's bit is clear
//	override - incoming fields overwrite
//	replace  - same as override (diagnostic severity differs only)
//	default  - treated as override when unspecified
type fieldSet map[string]bool

// mergeField reports whether a field named key should be (re)written
// given mode, and records that it has now been set.
func mergeField(defined fieldSet, key string, mode ast.MergeMode) bool {
	if mode == ast.MergeAugment && defined[key] {
		return false
	}
	defined[key] = true
	return true
}
