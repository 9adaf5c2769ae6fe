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
	"fmt"
	"strings"

	"github.com/xkbgo/xkbcommon/ast"
	"github.com/xkbgo/xkbcommon/names"
	"github.com/xkbgo/xkbcommon/parser"
	"github.com/xkbgo/xkbcommon/render"
	"github.com/xkbgo/xkbcommon/xkb"
)

// Format selects the XKB text dialect accepted by NewKeymapFromString
// and produced by GetAsString (spec §6 "keymap_new_from_string(ctx,
// src, fmt)"). FormatTextV1 is the only dialect this module
// implements; it is accepted explicitly here rather than via an
// untyped int so a future format can be added without breaking the
// call signature.
type Format int

const FormatTextV1 Format = 0

// CompileError wraps every diagnostic collected during a failed
// compilation (spec §7 "any compile error").
type CompileError struct {
	Diagnostics []xkb.Diagnostic
}

func (e *CompileError) Error() string {
	if len(e.Diagnostics) == 0 {
		return "xkbcomp: compilation failed"
	}
	return fmt.Sprintf("xkbcomp: %s (and %d more)", e.Diagnostics[0], len(e.Diagnostics)-1)
}

// NewKeymapFromString compiles src (spec §6 "keymap_new_from_string").
// Only FormatTextV1 is supported.
func NewKeymapFromString(ctx *xkb.Context, src []byte, format Format) (*xkb.Keymap, error) {
	file, errs := parser.Parse("<input>", src)
	b := newBuilder(ctx)
	for _, e := range errs {
		b.errorf(ast.Pos{}, xkb.ParseError, "%s", e)
	}

	sections := flattenSections(file)
	visited := map[string]bool{}
	for _, sec := range sections {
		sec.Statements = b.resolveIncludes(sec, visited)
		b.compileSection(sec)
	}

	b.resolveAliases()
	b.finalizeTypes()
	b.resolveVirtualMods()
	b.finalizeSymbols()

	if err := b.diagError(); err != nil {
		return nil, err
	}
	return b.materialize(), nil
}

// flattenSections expands an xkb_keymap wrapper's nested sections, or
// returns file.Sections unchanged for a bare single-section document
// (spec §4.3 "File").
func flattenSections(file *ast.File) []*ast.Section {
	var out []*ast.Section
	for _, sec := range file.Sections {
		if sec.Type != ast.SectionKeymap {
			out = append(out, sec)
			continue
		}
		for _, stmt := range sec.Statements {
			if ss, ok := stmt.(*ast.SectionStmt); ok {
				out = append(out, ss.Section)
			}
		}
	}
	return out
}

func (b *builder) compileSection(sec *ast.Section) {
	switch sec.Type {
	case ast.SectionKeycodes:
		b.keycodesName = b.ctx.Atoms.Intern(sec.Name, false)
		b.compileKeycodes(sec)
	case ast.SectionTypes:
		b.typesName = b.ctx.Atoms.Intern(sec.Name, false)
		b.compileTypes(sec)
	case ast.SectionCompat:
		b.compatName = b.ctx.Atoms.Intern(sec.Name, false)
		b.compileCompat(sec)
	case ast.SectionSymbols:
		b.symbolsName = b.ctx.Atoms.Intern(sec.Name, false)
		b.compileSymbols(sec)
	case ast.SectionGeometry:
		// out of scope (spec.md Non-goals: geometry).
	}
}

// resolveVirtualMods computes each declared virtual modifier's real-
// modifier contribution as the union of the real Mods field of every
// SetMods/LatchMods/LockMods action reached through a compat
// interpretation that names it (spec §4.5 "Virtual modifier
// resolution"). A single pass suffices: virtual modifiers never refer
// to each other, only to real modifiers contributed by key actions.
func (b *builder) resolveVirtualMods() {
	for _, in := range b.interps {
		if in.VirtualMod < 0 || in.Action == nil {
			continue
		}
		switch in.Action.Kind {
		case xkb.ActionSetMods, xkb.ActionLatchMods, xkb.ActionLockMods:
			vi := in.VirtualMod - xkb.NumRealMods
			if vi < 0 || vi >= len(b.vmodOrder) {
				continue
			}
			name := strings.ToLower(b.vmodOrder[vi])
			b.vmodMask[name] |= in.Action.Mods & 0xFF
		}
	}
}

func (b *builder) diagError() error {
	var errored []xkb.Diagnostic
	for _, d := range b.diags {
		if d.Severity == xkb.SevError {
			errored = append(errored, d)
		}
	}
	if len(errored) > 0 {
		return &CompileError{Diagnostics: errored}
	}
	return nil
}

// materialize assembles the builder's accumulated tables into an
// immutable *xkb.Keymap (spec §4.5 final step, spec §3 "Keymap").
func (b *builder) materialize() *xkb.Keymap {
	km := xkb.NewKeymap(b.ctx)
	km.Keycodes = b.keycodesName
	km.Symbols = b.symbolsName
	km.Compat = b.compatName
	km.Types = b.types
	km.Interps = b.interps
	km.LEDs = b.leds
	km.MinKeycode = b.minKeycode
	km.MaxKeycode = b.maxKeycode

	km.VirtualMods = make([]xkb.VirtualMod, len(b.vmodOrder))
	for i, n := range b.vmodOrder {
		km.VirtualMods[i] = xkb.VirtualMod{
			Name: b.ctx.Atoms.Intern(n, false),
			Mods: b.vmodMask[strings.ToLower(n)],
		}
	}

	if b.haveKeys {
		km.Keys = make([]xkb.Key, int(b.maxKeycode-b.minKeycode)+1)
		for _, k := range b.keys {
			if k.Keycode < b.minKeycode || k.Keycode > b.maxKeycode {
				continue
			}
			km.Keys[k.Keycode-b.minKeycode] = k
		}
	}

	return km
}

// NewKeymapFromNames resolves names through a names.Resolver and
// compiles the resulting source (spec §6 "keymap_new_from_names").
// SPEC_FULL §4.10 scopes the rules-file database lookup itself out;
// names.SimpleResolver stands in for it.
func NewKeymapFromNames(ctx *xkb.Context, n names.Names) (*xkb.Keymap, error) {
	keycodes, types, compat, symbols, err := (names.SimpleResolver{}).Resolve(n)
	if err != nil {
		return nil, err
	}
	var doc strings.Builder
	doc.WriteString("xkb_keymap {\n")
	doc.WriteString(keycodes + "\n")
	doc.WriteString(types + "\n")
	doc.WriteString(compat + "\n")
	doc.WriteString(symbols + "\n")
	doc.WriteString("};\n")
	return NewKeymapFromString(ctx, []byte(doc.String()), FormatTextV1)
}

// GetAsString renders km back to canonical XKB text (spec §6
// "keymap_get_as_string"). Only FormatTextV1 is supported.
func GetAsString(km *xkb.Keymap, format Format) string {
	return render.KeymapString(km)
}
