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

import (
	"github.com/xkbgo/xkbcommon/ast"
	"github.com/xkbgo/xkbcommon/xkb"
)

// compileKeycodes folds one xkb_keycodes section's statements into
// the builder's key-name/keycode tables (spec §4.5; the keycodes
// section itself has no further structure beyond name=code pairs and
// aliases, so it needs no staged-info record of its own).
func (b *builder) compileKeycodes(sec *ast.Section) {
	for _, stmt := range sec.Statements {
		switch s := stmt.(type) {
		case *ast.KeyNameStmt:
			if s.Alias {
				lit, ok := s.Value.(*ast.KeyNameLit)
				if !ok {
					b.errorf(s.Pos, xkb.SemanticError, "alias target must be a key name")
					continue
				}
				b.aliases[s.Name] = lit.Name
				continue
			}
			v, err := ast.Eval(s.Value, ast.KindInt, b)
			if err != nil {
				b.errorf(s.Pos, xkb.SemanticError, "%s", err)
				continue
			}
			kc := uint32(v.Int)
			if existing, ok := b.keyCode[s.Name]; ok && existing != kc {
				b.warnf(s.Pos, "key name <%s> redefined from %d to %d", s.Name, existing, kc)
			}
			b.keyCode[s.Name] = kc
			b.codeName[kc] = s.Name
			if !b.haveKeys || kc < b.minKeycode {
				b.minKeycode = kc
			}
			if !b.haveKeys || kc > b.maxKeycode {
				b.maxKeycode = kc
			}
			b.haveKeys = true

		case *ast.VarDeclStmt:
			// e.g. `minimum = 8;` / `maximum = 255;` bounds hints;
			// accepted and otherwise unused since bounds are derived
			// from the declared keys themselves.
		}
	}
}

// resolveAliases expands alias targets (possibly chained) into direct
// keycode entries, after every xkb_keycodes section has been merged.
func (b *builder) resolveAliases() {
	for name, target := range b.aliases {
		seen := map[string]bool{name: true}
		cur := target
		for {
			if seen[cur] {
				b.warnf(ast.Pos{}, "alias cycle involving <%s>", name)
				break
			}
			seen[cur] = true
			if kc, ok := b.keyCode[cur]; ok {
				b.keyCode[name] = kc
				if _, exists := b.codeName[kc]; !exists {
					b.codeName[kc] = name
				}
				break
			}
			next, ok := b.aliases[cur]
			if !ok {
				b.warnf(ast.Pos{}, "alias <%s> target <%s> is not a declared key", name, cur)
				break
			}
			cur = next
		}
	}
}
