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
	"regexp"
	"strconv"
	"strings"

	"github.com/xkbgo/xkbcommon/ast"
	"github.com/xkbgo/xkbcommon/keysym"
	"github.com/xkbgo/xkbcommon/xkb"
)

var groupIdentRe = regexp.MustCompile(`(?i)^group0*([1-9][0-9]*)$`)

// parseGroupIndexRef resolves a `GroupN` identifier, a plain integer
// literal (1-based), or a nil index (defaulting to group 1) to a
// 0-based group index (spec §4.2, mirrored from parseLevelRef).
func parseGroupIndexRef(expr ast.Expr) (int, bool) {
	if expr == nil {
		return 0, true
	}
	switch e := expr.(type) {
	case *ast.Ident:
		if m := groupIdentRe.FindStringSubmatch(e.Name); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n >= 1 {
				return n - 1, true
			}
		}
	case *ast.IntLit:
		if e.Value >= 1 {
			return int(e.Value - 1), true
		}
	}
	return 0, false
}

// compileSymbols folds one xkb_symbols section into the builder's
// per-key staged state (spec §4.5 "Symbols").
func (b *builder) compileSymbols(sec *ast.Section) {
	for _, stmt := range sec.Statements {
		switch s := stmt.(type) {
		case *ast.VModDeclStmt:
			b.declareVMods(s.Names)
		case *ast.KeyDeclStmt:
			b.compileOneKeyDecl(s)
		case *ast.ModMapDeclStmt:
			b.compileOneModMap(s)
		}
	}
}

func (b *builder) compileOneKeyDecl(s *ast.KeyDeclStmt) {
	sk := b.stageKey(s.Name)

	for _, bodyStmt := range s.Body {
		switch st := bodyStmt.(type) {
		case *ast.VarDeclStmt:
			b.applyKeyField(sk, st, s.Merge)
		case *ast.ModMapDeclStmt:
			b.compileOneModMap(st)
		}
	}
}

func (b *builder) applyKeyField(sk *stagedKey, st *ast.VarDeclStmt, merge ast.MergeMode) {
	field := strings.ToLower(st.LHS.Field)
	switch field {
	case "symbols":
		idx, ok := parseGroupIndexRef(st.LHS.Index)
		if !ok {
			b.errorf(st.Pos, xkb.SemanticError, "symbols[] index must be GroupN")
			return
		}
		if !mergeField(sk.defined, "symbols:"+strconv.Itoa(idx), merge) {
			return
		}
		arr, ok := st.RHS.(*ast.ArrayExpr)
		if !ok {
			b.errorf(st.Pos, xkb.SemanticError, "symbols[] value must be an array")
			return
		}
		syms := make([]keysym.Keysym, len(arr.Elems))
		for i, el := range arr.Elems {
			v, err := ast.Eval(el, ast.KindKeysym, b)
			if err != nil {
				b.errorf(st.Pos, xkb.SemanticError, "%s", err)
				continue
			}
			syms[i] = v.Sym
		}
		sk.ensureGroup(idx)
		sk.syms[idx] = syms

	case "actions":
		idx, ok := parseGroupIndexRef(st.LHS.Index)
		if !ok {
			b.errorf(st.Pos, xkb.SemanticError, "actions[] index must be GroupN")
			return
		}
		if !mergeField(sk.defined, "actions:"+strconv.Itoa(idx), merge) {
			return
		}
		arr, ok := st.RHS.(*ast.ArrayExpr)
		if !ok {
			b.errorf(st.Pos, xkb.SemanticError, "actions[] value must be an array")
			return
		}
		acts := make([]*xkb.Action, len(arr.Elems))
		for i, el := range arr.Elems {
			call, ok := el.(*ast.ActionCallExpr)
			if !ok {
				continue
			}
			acts[i] = b.buildAction(call)
		}
		sk.ensureGroup(idx)
		sk.actions[idx] = acts

	case "type":
		idx, ok := parseGroupIndexRef(st.LHS.Index)
		if !ok {
			idx = 0
		}
		if !mergeField(sk.defined, "type:"+strconv.Itoa(idx), merge) {
			return
		}
		v, err := ast.Eval(st.RHS, ast.KindString, b)
		if err != nil {
			b.errorf(st.Pos, xkb.SemanticError, "%s", err)
			return
		}
		sk.ensureGroup(idx)
		sk.typeName[idx] = v.Str

	case "repeat", "repeats", "autorepeat":
		if !mergeField(sk.defined, "repeat", merge) {
			return
		}
		v, err := ast.Eval(st.RHS, ast.KindBool, b)
		if err == nil {
			sk.repeat = v.Bool
			sk.repeatSet = true
		}

	case "virtualmods", "virtualmodifiers":
		if !mergeField(sk.defined, "vmods", merge) {
			return
		}
		v, err := ast.Eval(st.RHS, ast.KindModMask, b)
		if err == nil {
			sk.vmodContrib |= xkb.ModMask(v.Mask)
		}

	case "groupswrap", "groupsclamp", "groupsredirect":
		if !mergeField(sk.defined, "groupswrap", merge) {
			return
		}
		if id, ok := st.RHS.(*ast.Ident); ok {
			if ev, ok := b.EnumValue("groupsWrap", id.Name); ok {
				sk.groupsWrap = xkb.GroupsWrap(ev)
				sk.wrapSet = true
			}
		}
	}
}

// classifyDefaultType picks a key type name when a group's `type[]`
// field was left unspecified, the way action.c's FindAutomaticType
// infers a type from the shape of the symbol list: a single level is
// ONE_LEVEL, two levels where the second is the Shift-case of the
// first is ALPHABETIC, two levels with a keypad keysym are KEYPAD, any
// other two-level group is TWO_LEVEL, and three or more levels are
// FOUR_LEVEL (or its _ALPHABETIC/_SEMIALPHABETIC variants when the
// shift relationship holds on the first or second pair).
func classifyDefaultType(syms []keysym.Keysym) string {
	switch len(syms) {
	case 0, 1:
		return "ONE_LEVEL"
	case 2:
		if isShiftPair(syms[0], syms[1]) {
			return "ALPHABETIC"
		}
		if keysym.IsKeypad(syms[0]) || keysym.IsKeypad(syms[1]) {
			return "KEYPAD"
		}
		return "TWO_LEVEL"
	default:
		if isShiftPair(syms[0], syms[1]) {
			return "FOUR_LEVEL_ALPHABETIC"
		}
		if len(syms) > 3 && isShiftPair(syms[2], syms[3]) {
			return "FOUR_LEVEL_SEMIALPHABETIC"
		}
		return "FOUR_LEVEL"
	}
}

func isShiftPair(base, shifted keysym.Keysym) bool {
	return keysym.IsLower(base) && keysym.IsUpper(shifted) && keysym.ToUpper(base) == shifted
}

// finalizeSymbols materializes b.types-indexed Groups/Levels for every
// staged key, applying default-type classification, matching compat
// interpretations against each group's base level (spec §4.5 "Symbols
// + compat interaction": the first matching interpret rule wins), and
// folding modifier_map / virtualMods contributions into each key's
// ModMapMods (spec §4.5 "Modifier mapping").
func (b *builder) finalizeSymbols() {
	for name, sk := range b.keySyms {
		kc, ok := b.keyCode[name]
		if !ok {
			b.warnf(ast.Pos{}, "symbols given for undeclared key <%s>", name)
			continue
		}
		key := xkb.Key{
			Keycode:    kc,
			Name:       b.ctx.Atoms.Intern(name, false),
			Repeats:    sk.repeat,
			GroupsWrap: sk.groupsWrap,
		}

		mm := sk.vmodContrib
		if idx, ok := b.modMapKeys[name]; ok {
			mm |= 1 << uint(idx)
		}
		key.ModMapMods = mm

		for g := range sk.syms {
			syms := sk.syms[g]
			group := xkb.Group{}
			typeName := ""
			if g < len(sk.typeName) {
				typeName = sk.typeName[g]
			}
			if typeName == "" {
				typeName = classifyDefaultType(syms)
			}
			tIdx, ok := b.typeIndex[strings.ToLower(typeName)]
			if !ok {
				tIdx = b.ensureDefaultType(typeName, len(syms))
			}
			group.Type = tIdx
			numLevels := b.types[tIdx].NumLevels
			if numLevels < len(syms) {
				numLevels = len(syms)
			}
			group.Levels = make([]xkb.Level, numLevels)
			for lvl := range group.Levels {
				lv := xkb.Level{}
				if lvl < len(syms) {
					lv.Syms = []keysym.Keysym{syms[lvl]}
				}
				if g < len(sk.actions) && lvl < len(sk.actions[g]) {
					lv.Action = sk.actions[g][lvl]
				}
				group.Levels[lvl] = lv
			}
			if group.Levels[0].Action == nil {
				b.applyCompatInterp(&group.Levels[0], &key, syms)
			}
			key.Groups = append(key.Groups, group)
		}

		b.keys = append(b.keys, key)
	}
}

// ensureDefaultType synthesizes a key type by name when symbols.go's
// classifier names one the xkb_types section never declared (common
// for stock ONE_LEVEL/TWO_LEVEL/ALPHABETIC/KEYPAD types, which X11's
// base rules rely on being built in).
func (b *builder) ensureDefaultType(name string, numLevels int) int {
	key := strings.ToLower(name)
	if idx, ok := b.typeIndex[key]; ok {
		return idx
	}
	if numLevels < 1 {
		numLevels = 1
	}
	t := xkb.KeyType{Name: b.ctx.Atoms.Intern(name, false), NumLevels: numLevels}
	mod5 := xkb.ModMask(1 << xkb.ModIndexMod5)
	switch key {
	case "two_level", "alphabetic", "keypad":
		t.Mods = xkb.ModMaskShift
		t.Entries = []xkb.MapEntry{{Mods: xkb.ModMaskShift, Level: 1, Active: true}}
	case "four_level", "four_level_alphabetic", "four_level_semialphabetic":
		t.Mods = xkb.ModMaskShift | mod5
		t.Entries = []xkb.MapEntry{
			{Mods: xkb.ModMaskShift, Level: 1, Active: true},
			{Mods: mod5, Level: 2, Active: true},
			{Mods: xkb.ModMaskShift | mod5, Level: 3, Active: true},
		}
	}
	idx := len(b.types)
	b.types = append(b.types, t)
	b.typeIndex[key] = idx
	return idx
}
