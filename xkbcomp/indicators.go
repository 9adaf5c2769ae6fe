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
	"strings"

	"github.com/xkbgo/xkbcommon/ast"
	"github.com/xkbgo/xkbcommon/xkb"
)

// ledWhichNames resolves the "whichModState" enum names an indicator
// statement can assign (action.c's analogous table for XkbIM_UseXxx
// flags). "whichGroupState" does not use it.
var ledWhichNames = map[string]xkb.LEDWhichMods{
	"base":        xkb.LEDUseBase,
	"latched":     xkb.LEDUseLatched,
	"locked":      xkb.LEDUseLocked,
	"effective":   xkb.LEDUseEffective,
	"compat":      xkb.LEDUseCompat,
}

func (b *builder) compileOneIndicator(s *ast.IndicatorDeclStmt) {
	idx, ok := b.ledIndex[strings.ToLower(s.Name)]
	if !ok {
		idx = len(b.leds)
		b.leds = append(b.leds, xkb.LED{Name: b.ctx.Atoms.Intern(s.Name, false)})
		b.ledIndex[strings.ToLower(s.Name)] = idx
	}
	led := &b.leds[idx]

	for _, bodyStmt := range s.Body {
		vd, ok := bodyStmt.(*ast.VarDeclStmt)
		if !ok {
			continue
		}
		switch strings.ToLower(vd.LHS.Field) {
		case "modifiers":
			v, err := ast.Eval(vd.RHS, ast.KindModMask, b)
			if err == nil {
				led.Mods = xkb.ModMask(v.Mask)
			}
		case "controls":
			v, err := ast.EvalMask(vd.RHS, "controls", b)
			if err == nil {
				led.Ctrls = v.Mask
			}
		case "groups":
			v, err := ast.Eval(vd.RHS, ast.KindInt, b)
			if err == nil {
				led.Groups = uint32(v.Int)
			}
		case "whichmodstate":
			if id, ok := vd.RHS.(*ast.Ident); ok {
				if w, ok := ledWhichNames[strings.ToLower(id.Name)]; ok {
					led.WhichMods = w
				}
			}
		case "whichgroupstate":
			if id, ok := vd.RHS.(*ast.Ident); ok {
				switch strings.ToLower(id.Name) {
				case "base":
					led.WhichGroups = xkb.GroupsWrapWrap
				}
			}
		}
	}
}
