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
	"github.com/xkbgo/xkbcommon/keysym"
	"github.com/xkbgo/xkbcommon/xkb"
)

var predicateNames = map[string]xkb.InterpPredicate{
	"anyofornone": xkb.PredicateAnyOfOrNone,
	"anyof":       xkb.PredicateAnyOf,
	"noneof":      xkb.PredicateNoneOf,
	"allof":       xkb.PredicateAllOf,
	"exactly":     xkb.PredicateExactly,
}

// compileCompat folds one xkb_compatibility section into the
// builder's interp list and modifier_map keys (spec §4.5 "Symbol
// interpretations"). Interpretations are kept in declaration order:
// the symbols compiler applies the first matching rule, matching
// action.c's linear scan of the compat interp list.
func (b *builder) compileCompat(sec *ast.Section) {
	for _, stmt := range sec.Statements {
		switch s := stmt.(type) {
		case *ast.VModDeclStmt:
			b.declareVMods(s.Names)
		case *ast.InterpDeclStmt:
			b.compileOneInterp(s)
		case *ast.IndicatorDeclStmt:
			b.compileIndicator(s)
		case *ast.ModMapDeclStmt:
			b.compileOneModMap(s)
		case *ast.VarDeclStmt:
			// e.g. top-level "indicator.drop = ..."/"groups[..]" style
			// compat globals; not modeled, accepted and ignored.
		}
	}
}

func (b *builder) compileOneInterp(s *ast.InterpDeclStmt) {
	interp := xkb.Interp{VirtualMod: -1}

	if strings.EqualFold(s.KeysymExp, "Any") {
		interp.Sym = 0
	} else if sym, ok := keysym.FromName(s.KeysymExp); ok {
		interp.Sym = sym
	} else {
		b.errorf(s.Pos, xkb.SemanticError, "unknown keysym %q in interpret", s.KeysymExp)
		return
	}

	if s.Predicate == "" {
		interp.Predicate = xkb.PredicateNone
	} else if p, ok := predicateNames[strings.ToLower(s.Predicate)]; ok {
		interp.Predicate = p
	} else {
		b.errorf(s.Pos, xkb.SemanticError, "unknown interpret predicate %q", s.Predicate)
		return
	}

	if s.ModExpr != nil {
		v, err := ast.Eval(s.ModExpr, ast.KindModMask, b)
		if err != nil {
			b.errorf(s.Pos, xkb.SemanticError, "%s", err)
			return
		}
		interp.Mods = xkb.ModMask(v.Mask)
	}

	for _, bodyStmt := range s.Body {
		vd, ok := bodyStmt.(*ast.VarDeclStmt)
		if !ok {
			continue
		}
		switch strings.ToLower(vd.LHS.Field) {
		case "action":
			call, ok := vd.RHS.(*ast.ActionCallExpr)
			if !ok {
				b.errorf(vd.Pos, xkb.SemanticError, "interpret action must be an action call")
				continue
			}
			interp.Action = b.buildAction(call)
		case "virtualmodifier":
			if id, ok := vd.RHS.(*ast.Ident); ok {
				if idx, ok := b.vmodIndex[strings.ToLower(id.Name)]; ok {
					interp.VirtualMod = idx + xkb.NumRealMods
				} else {
					b.errorf(vd.Pos, xkb.SemanticError, "undeclared virtual modifier %q", id.Name)
				}
			}
		case "repeat":
			v, err := ast.Eval(vd.RHS, ast.KindBool, b)
			if err == nil {
				interp.Repeat = v.Bool
			}
		case "locking":
			v, err := ast.Eval(vd.RHS, ast.KindBool, b)
			if err == nil {
				interp.LockingKey = v.Bool
			}
		}
	}

	b.interps = append(b.interps, interp)
}

// compileOneModMap handles a `modifier_map` declaration found inside
// xkb_compatibility as well as xkb_symbols (spec §4.5 "Modifier
// mapping"): "latest wins with a warning" on a key reassigned to a
// different real modifier.
func (b *builder) compileOneModMap(s *ast.ModMapDeclStmt) {
	idx, ok := b.ModIndex(s.ModName)
	if !ok || idx >= xkb.NumRealMods {
		b.errorf(s.Pos, xkb.SemanticError, "modifier_map requires a real modifier name, got %q", s.ModName)
		return
	}
	for _, kn := range s.Keys {
		if existing, ok := b.modMapKeys[kn]; ok && existing != idx {
			b.warnf(s.Pos, "key <%s> reassigned from modifier_map index %d to %d", kn, existing, idx)
		}
		b.modMapKeys[kn] = idx
	}
}

// applyCompatInterp finds the first declared interpretation matching
// lvl's keysym (or the Any=0 wildcard) and, when its predicate names
// one, the key's modifier-map contribution, and applies its action
// and virtual-modifier contribution (spec §4.5 "Symbols + compat
// interaction"). Interps are tried in declaration order; the first
// match wins, mirroring action.c's linear FindInterpForKey scan.
func (b *builder) applyCompatInterp(lvl *xkb.Level, key *xkb.Key, groupSyms []keysym.Keysym) {
	if len(groupSyms) == 0 {
		return
	}
	sym := groupSyms[0]
	for i := range b.interps {
		in := &b.interps[i]
		if in.Sym != 0 && in.Sym != sym {
			continue
		}
		if !in.Matches(key.ModMapMods) {
			continue
		}
		if in.Action != nil {
			lvl.Action = in.Action
		}
		if in.VirtualMod >= 0 {
			key.ModMapMods |= 1 << uint(in.VirtualMod)
		}
		if in.Repeat {
			key.Repeats = true
		}
		return
	}
}

// compileIndicator handles an `indicator "Name" { ... };` declaration
// nested inside xkb_compatibility (spec §4.5 "Indicators").
func (b *builder) compileIndicator(s *ast.IndicatorDeclStmt) {
	b.compileOneIndicator(s)
}
