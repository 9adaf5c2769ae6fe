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

// Package xkbcomp folds a parsed AST into a *xkb.Keymap (spec §4.4,
// §4.5): the include resolver and the six section compilers
// (keycodes, types, compat, symbols, modmap, indicators). The types
// and symbols compilers keep a staged record with a per-field defined
// set before materializing the final keymap tables (spec §9 "Staged
// merge pattern"); the others write the builder's tables directly.
package xkbcomp

import (
	"fmt"
	"strings"

	"github.com/xkbgo/xkbcommon/ast"
	"github.com/xkbgo/xkbcommon/atom"
	"github.com/xkbgo/xkbcommon/keysym"
	"github.com/xkbgo/xkbcommon/xkb"
)

// builder accumulates staged section info across every file merged
// into one compilation and implements ast.Env so package ast's
// expression evaluator can resolve modifier names and enum/mask
// tables against it.
type builder struct {
	ctx *xkb.Context

	keycodesName atom.Atom
	typesName    atom.Atom
	compatName   atom.Atom
	symbolsName  atom.Atom

	// keycodes
	keyCode    map[string]uint32 // canonical 4-char name (as typed) -> keycode
	codeName   map[uint32]string
	aliases    map[string]string // alias name -> target name (unresolved)
	minKeycode uint32
	maxKeycode uint32
	haveKeys   bool

	// virtual modifiers: declared order fixes bit index assignment.
	vmodOrder []string
	vmodIndex map[string]int    // lower(name) -> index (0-based; + xkb.NumRealMods for final bit)
	vmodMask  map[string]xkb.ModMask // resolved real-mod contribution, fixpoint result

	// types
	types     []xkb.KeyType
	typeIndex map[string]int // lower(name) -> index

	// compat
	interps []xkb.Interp

	// modifier_map
	modMapKeys map[string]int // key name -> real modifier index

	// indicators
	leds     []xkb.LED
	ledIndex map[string]int // lower(name) -> index

	// symbols, staged per key by name until final assembly
	keySyms map[string]*stagedKey
	keys    []xkb.Key

	diags []xkb.Diagnostic
}

// stagedKey holds one key's accumulated symbols-section state before
// the final Key records are built (spec §4.5 "Symbols").
type stagedKey struct {
	name       string
	defined    fieldSet
	typeName   []string        // per group, type name ("" if unspecified)
	syms       [][]keysym.Keysym // per group, per level
	actions    [][]*xkb.Action // per group, per level
	vmodContrib xkb.ModMask    // virtual+real modifier bits this key contributes when held down
	repeat     bool
	repeatSet  bool
	groupsWrap xkb.GroupsWrap
	wrapSet    bool
}

func (b *builder) stageKey(name string) *stagedKey {
	sk, ok := b.keySyms[name]
	if !ok {
		sk = &stagedKey{name: name, defined: fieldSet{}}
		b.keySyms[name] = sk
	}
	return sk
}

func (sk *stagedKey) ensureGroup(g int) {
	for len(sk.syms) <= g {
		sk.syms = append(sk.syms, nil)
		sk.actions = append(sk.actions, nil)
		sk.typeName = append(sk.typeName, "")
	}
}

func newBuilder(ctx *xkb.Context) *builder {
	return &builder{
		ctx:        ctx,
		keyCode:    map[string]uint32{},
		codeName:   map[uint32]string{},
		aliases:    map[string]string{},
		vmodIndex:  map[string]int{},
		vmodMask:   map[string]xkb.ModMask{},
		typeIndex:  map[string]int{},
		modMapKeys: map[string]int{},
		ledIndex:   map[string]int{},
		keySyms:    map[string]*stagedKey{},
	}
}

func (b *builder) errorf(pos ast.Pos, kind xkb.Kind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.diags = append(b.diags, xkb.Diagnostic{Kind: kind, Severity: xkb.SevError, File: pos.File, Line: pos.Line, Column: pos.Column, Message: msg})
	b.ctx.Logger.Errorf("%s:%d:%d: %s", pos.File, pos.Line, pos.Column, msg)
}

func (b *builder) warnf(pos ast.Pos, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.diags = append(b.diags, xkb.Diagnostic{Kind: xkb.SemanticError, Severity: xkb.SevWarn, File: pos.File, Line: pos.Line, Column: pos.Column, Message: msg})
	b.ctx.Logger.Warnf("%s:%d:%d: %s", pos.File, pos.Line, pos.Column, msg)
}

// --- ast.Env ---

func (b *builder) ModIndex(name string) (int, bool) {
	for i, n := range realModNamesLower {
		if strings.EqualFold(n, name) {
			return i, true
		}
	}
	if idx, ok := b.vmodIndex[strings.ToLower(name)]; ok {
		return idx + xkb.NumRealMods, true
	}
	return 0, false
}

var realModNamesLower = [xkb.NumRealMods]string{
	"shift", "lock", "control", "mod1", "mod2", "mod3", "mod4", "mod5",
}

func (b *builder) EnumValue(table, name string) (int64, bool) {
	switch table {
	case "groupsWrap":
		switch strings.ToLower(name) {
		case "wrapintorange", "wrap":
			return int64(xkb.GroupsWrapWrap), true
		case "clampintorange", "clamp":
			return int64(xkb.GroupsWrapClamp), true
		case "redirectintorange", "redirect":
			return int64(xkb.GroupsWrapRedirect), true
		}
	case "isoAffect":
		if v, ok := isoAffectNames[strings.ToLower(name)]; ok {
			return int64(v), true
		}
	case "lockWhich":
		if v, ok := lockWhichNames[strings.ToLower(name)]; ok {
			return int64(v), true
		}
	}
	return 0, false
}

func (b *builder) MaskValue(table, name string) (uint32, bool) {
	switch table {
	case "controls":
		if v, ok := controlsNames[strings.ToLower(name)]; ok {
			return v, true
		}
	case "evNames":
		if v, ok := messageEventNames[strings.ToLower(name)]; ok {
			return v, true
		}
	}
	return 0, false
}
