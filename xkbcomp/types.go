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
	"github.com/xkbgo/xkbcommon/xkb"
)

var levelIdentRe = regexp.MustCompile(`(?i)^level0*([1-9][0-9]*)$`)

// parseLevelRef resolves a `Level<n>` identifier or plain integer
// literal to a 0-based level index (spec §4.2 "level index (1-based
// input, 0-based output)").
func parseLevelRef(expr ast.Expr) (int, bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		if m := levelIdentRe.FindStringSubmatch(e.Name); m != nil {
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

type typeFields struct {
	defined fieldSet
}

// compileTypes folds one xkb_types section into the builder's type
// table (spec §4.5 "Key types").
func (b *builder) compileTypes(sec *ast.Section) {
	perType := map[int]*typeFields{}

	for _, stmt := range sec.Statements {
		switch s := stmt.(type) {
		case *ast.VModDeclStmt:
			b.declareVMods(s.Names)
		case *ast.TypeDeclStmt:
			b.compileOneType(s, perType)
		}
	}
}

func (b *builder) declareVMods(names []string) {
	for _, n := range names {
		lk := strings.ToLower(n)
		if _, ok := b.vmodIndex[lk]; ok {
			continue
		}
		b.vmodIndex[lk] = len(b.vmodOrder)
		b.vmodOrder = append(b.vmodOrder, n)
	}
}

func (b *builder) compileOneType(s *ast.TypeDeclStmt, perType map[int]*typeFields) {
	key := strings.ToLower(s.Name)
	idx, ok := b.typeIndex[key]
	if !ok {
		idx = len(b.types)
		b.types = append(b.types, xkb.KeyType{Name: b.ctx.Atoms.Intern(s.Name, false)})
		b.typeIndex[key] = idx
	}
	tf, ok := perType[idx]
	if !ok {
		tf = &typeFields{defined: fieldSet{}}
		// Fields an earlier xkb_types section already gave this type
		// count as defined, so augment leaves them as they are.
		if b.types[idx].Mods != 0 {
			tf.defined["modifiers"] = true
		}
		for _, e := range b.types[idx].Entries {
			tf.defined["map:"+strconv.FormatUint(uint64(e.Mods), 10)] = true
		}
		perType[idx] = tf
	}
	typ := &b.types[idx]

	for _, bodyStmt := range s.Body {
		vd, ok := bodyStmt.(*ast.VarDeclStmt)
		if !ok {
			continue
		}
		switch strings.ToLower(vd.LHS.Field) {
		case "modifiers":
			if !mergeField(tf.defined, "modifiers", s.Merge) {
				continue
			}
			v, err := ast.Eval(vd.RHS, ast.KindModMask, b)
			if err != nil {
				b.errorf(vd.Pos, xkb.SemanticError, "%s", err)
				continue
			}
			typ.Mods = xkb.ModMask(v.Mask)

		case "map":
			if vd.LHS.Index == nil {
				b.errorf(vd.Pos, xkb.SemanticError, "map requires a [mask] index")
				continue
			}
			mv, err := ast.Eval(vd.LHS.Index, ast.KindModMask, b)
			if err != nil {
				b.errorf(vd.Pos, xkb.SemanticError, "%s", err)
				continue
			}
			level, ok := parseLevelRef(vd.RHS)
			if !ok {
				b.errorf(vd.Pos, xkb.SemanticError, "map value must be LevelN")
				continue
			}
			fkey := "map:" + strconv.FormatUint(uint64(mv.Mask), 10)
			if !mergeField(tf.defined, fkey, s.Merge) {
				continue
			}
			typ.Entries = append(typ.Entries, xkb.MapEntry{Mods: xkb.ModMask(mv.Mask), Level: level, Active: true})
			if level+1 > typ.NumLevels {
				typ.NumLevels = level + 1
			}

		case "preserve":
			if vd.LHS.Index == nil {
				b.errorf(vd.Pos, xkb.SemanticError, "preserve requires a [mask] index")
				continue
			}
			mv, err := ast.Eval(vd.LHS.Index, ast.KindModMask, b)
			if err != nil {
				b.errorf(vd.Pos, xkb.SemanticError, "%s", err)
				continue
			}
			pv, err := ast.Eval(vd.RHS, ast.KindModMask, b)
			if err != nil {
				b.errorf(vd.Pos, xkb.SemanticError, "%s", err)
				continue
			}
			for i := range typ.Entries {
				if typ.Entries[i].Mods == xkb.ModMask(mv.Mask) {
					typ.Entries[i].Preserve = xkb.ModMask(pv.Mask)
				}
			}

		case "level_name":
			if vd.LHS.Index == nil {
				continue
			}
			level, ok := parseLevelRef(vd.LHS.Index)
			if !ok {
				continue
			}
			sv, err := ast.Eval(vd.RHS, ast.KindString, b)
			if err != nil {
				b.errorf(vd.Pos, xkb.SemanticError, "%s", err)
				continue
			}
			for level >= len(typ.LevelNames) {
				typ.LevelNames = append(typ.LevelNames, 0)
			}
			typ.LevelNames[level] = b.ctx.Atoms.Intern(sv.Str, false)
		}
	}
}

// finalizeTypes enforces spec §4.5's mask-clipping invariants and
// synthesizes per-type level counts/defaults once every xkb_types
// section has been merged.
func (b *builder) finalizeTypes() {
	for i := range b.types {
		t := &b.types[i]
		for j := range t.Entries {
			e := &t.Entries[j]
			if e.Mods&^t.Mods != 0 {
				b.warnf(ast.Pos{}, "map entry mask %v has bits outside type modifiers %v; clipped", e.Mods, t.Mods)
				e.Mods &= t.Mods
			}
			if e.Preserve&^e.Mods != 0 {
				b.warnf(ast.Pos{}, "preserve mask has bits outside its map entry; clipped")
				e.Preserve &= e.Mods
			}
		}
		if t.NumLevels == 0 {
			t.NumLevels = 1
		}
	}
	if len(b.types) == 0 {
		// Default unnamed one-level type, synthesized when no types
		// section declared anything (spec §4.5, §8 "Default-type
		// synthesis").
		b.types = append(b.types, xkb.KeyType{
			Name:      b.ctx.Atoms.Intern("ONE_LEVEL", false),
			NumLevels: 1,
		})
		b.typeIndex["one_level"] = 0
	}
}
