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

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xkbgo/xkbcommon/ast"
	"github.com/xkbgo/xkbcommon/parser"
)

func TestParseKeycodesSection(t *testing.T) {
	src := `
xkb_keycodes "evdev" {
	<ESC> = 9;
	<AE01> = 10;
	alias <TLDE> = <AE00>;
};
`
	f, errs := parser.Parse("t.xkb", []byte(src))
	require.Empty(t, errs)
	require.Len(t, f.Sections, 1)
	sec := f.Sections[0]
	require.Equal(t, ast.SectionKeycodes, sec.Type)
	require.Equal(t, "evdev", sec.Name)
	require.Len(t, sec.Statements, 3)

	kn, ok := sec.Statements[0].(*ast.KeyNameStmt)
	require.True(t, ok)
	require.Equal(t, "ESC", kn.Name)
}

func TestParseTypesSection(t *testing.T) {
	src := `
xkb_types "complete" {
	virtual_modifiers LevelThree;
	type "FOUR_LEVEL" {
		modifiers = Shift+LevelThree;
		map[Shift] = Level2;
		map[LevelThree] = Level3;
		map[Shift+LevelThree] = Level4;
		preserve[Shift+LevelThree] = LevelThree;
		level_name[Level1] = "Base";
	};
};
`
	f, errs := parser.Parse("t.xkb", []byte(src))
	require.Empty(t, errs)
	sec := f.Sections[0]
	require.Len(t, sec.Statements, 2)
	ty, ok := sec.Statements[1].(*ast.TypeDeclStmt)
	require.True(t, ok)
	require.Equal(t, "FOUR_LEVEL", ty.Name)
	require.Len(t, ty.Body, 6)
}

func TestParseSymbolsKeyBlock(t *testing.T) {
	src := `
xkb_symbols "basic" {
	name[Group1] = "Basic";
	key <AD01> {
		type = "TWO_LEVEL";
		symbols[Group1] = [ q, Q ];
	};
};
`
	f, errs := parser.Parse("t.xkb", []byte(src))
	require.Empty(t, errs)
	sec := f.Sections[0]
	require.Len(t, sec.Statements, 2)
	kd, ok := sec.Statements[1].(*ast.KeyDeclStmt)
	require.True(t, ok)
	require.Equal(t, "AD01", kd.Name)
	require.Len(t, kd.Body, 2)
}

func TestParseInterpret(t *testing.T) {
	src := `
xkb_compatibility "complete" {
	interpret Num_Lock+AnyOf(Shift) {
		action = LockMods(modifiers=NumLock);
	};
};
`
	f, errs := parser.Parse("t.xkb", []byte(src))
	require.Empty(t, errs)
	sec := f.Sections[0]
	it, ok := sec.Statements[0].(*ast.InterpDeclStmt)
	require.True(t, ok)
	require.Equal(t, "Num_Lock", it.KeysymExp)
	require.Equal(t, "AnyOf", it.Predicate)
	require.Len(t, it.Body, 1)
}

func TestParseErrorRecovery(t *testing.T) {
	src := `
xkb_types "t" {
	type "BAD" { modifiers = ; };
	type "OK" { modifiers = Shift; };
};
`
	f, errs := parser.Parse("t.xkb", []byte(src))
	require.NotEmpty(t, errs)
	sec := f.Sections[0]
	require.Len(t, sec.Statements, 2)
}

func TestParseKeymapWrapper(t *testing.T) {
	src := `
xkb_keymap {
	xkb_keycodes "evdev" { <ESC> = 9; };
	xkb_symbols "pc+us" { key <ESC> { symbols[Group1] = [ Escape ]; }; };
};
`
	f, errs := parser.Parse("t.xkb", []byte(src))
	require.Empty(t, errs)
	require.Len(t, f.Sections, 1)
	require.Equal(t, ast.SectionKeymap, f.Sections[0].Type)
	require.Len(t, f.Sections[0].Statements, 2)
	ss, ok := f.Sections[0].Statements[0].(*ast.SectionStmt)
	require.True(t, ok)
	require.Equal(t, ast.SectionKeycodes, ss.Section.Type)
}
