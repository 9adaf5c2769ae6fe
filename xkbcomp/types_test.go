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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xkbgo/xkbcommon/ast"
	"github.com/xkbgo/xkbcommon/xkb"
)

func varDecl(element, field string, index ast.Expr, rhs ast.Expr) *ast.VarDeclStmt {
	return &ast.VarDeclStmt{LHS: ast.FieldRef{Element: element, Field: field, Index: index}, RHS: rhs}
}

func ident(name string) *ast.Ident { return &ast.Ident{Name: name} }

func TestCompileTypesBuildsMapEntriesAndLevels(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	sec := &ast.Section{Statements: []ast.Statement{
		&ast.TypeDeclStmt{
			Name: "TWO_LEVEL",
			Body: []ast.Statement{
				varDecl("", "modifiers", nil, ident("Shift")),
				varDecl("", "map", ident("Shift"), ident("Level2")),
			},
		},
	}}
	b.compileTypes(sec)
	b.finalizeTypes()

	require.Len(t, b.types, 1)
	typ := b.types[0]
	require.Equal(t, xkb.ModMaskShift, typ.Mods)
	require.Equal(t, 2, typ.NumLevels)
	require.Len(t, typ.Entries, 1)
	require.Equal(t, xkb.ModMaskShift, typ.Entries[0].Mods)
	require.Equal(t, 1, typ.Entries[0].Level)
}

func TestFinalizeTypesClipsOutOfRangeMapEntryMods(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	b.types = []xkb.KeyType{{
		Mods: xkb.ModMaskShift,
		Entries: []xkb.MapEntry{
			{Mods: xkb.ModMaskShift | xkb.ModMaskControl, Level: 1, Active: true},
		},
	}}
	b.finalizeTypes()

	require.Equal(t, xkb.ModMaskShift, b.types[0].Entries[0].Mods)
	require.NotEmpty(t, b.diags)
}

func TestFinalizeTypesClipsPreserveOutsideMapEntry(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	b.types = []xkb.KeyType{{
		Mods: xkb.ModMaskShift | xkb.ModMaskControl,
		Entries: []xkb.MapEntry{
			{Mods: xkb.ModMaskShift, Level: 1, Preserve: xkb.ModMaskShift | xkb.ModMaskControl, Active: true},
		},
	}}
	b.finalizeTypes()

	require.Equal(t, xkb.ModMaskShift, b.types[0].Entries[0].Preserve)
}

func TestFinalizeTypesSynthesizesOneLevelWhenEmpty(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	b.finalizeTypes()

	require.Len(t, b.types, 1)
	require.Equal(t, 1, b.types[0].NumLevels)
	require.Equal(t, "ONE_LEVEL", ctx.Atoms.Lookup(b.types[0].Name))
}

func TestCompileTypesAugmentModeDoesNotOverwrite(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	sec := &ast.Section{Statements: []ast.Statement{
		&ast.TypeDeclStmt{
			Name: "TWO_LEVEL",
			Body: []ast.Statement{varDecl("", "modifiers", nil, ident("Shift"))},
		},
	}}
	b.compileTypes(sec)

	sec2 := &ast.Section{Statements: []ast.Statement{
		&ast.TypeDeclStmt{
			Merge: ast.MergeAugment,
			Name:  "TWO_LEVEL",
			Body:  []ast.Statement{varDecl("", "modifiers", nil, ident("Control"))},
		},
	}}
	b.compileTypes(sec2)

	require.Equal(t, xkb.ModMaskShift, b.types[0].Mods)
}

func TestDeclareVModsAssignsIncreasingIndices(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	b.declareVMods([]string{"LevelThree", "Alt"})

	require.Equal(t, 0, b.vmodIndex["levelthree"])
	require.Equal(t, 1, b.vmodIndex["alt"])

	// Redeclaring an already-known virtual modifier is a no-op.
	b.declareVMods([]string{"LevelThree"})
	require.Equal(t, 0, b.vmodIndex["levelthree"])
	require.Len(t, b.vmodOrder, 2)
}
