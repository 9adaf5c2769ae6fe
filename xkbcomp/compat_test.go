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
	"github.com/xkbgo/xkbcommon/keysym"
	"github.com/xkbgo/xkbcommon/xkb"
)

func TestCompileOneInterpBuildsActionAndPredicate(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	s := &ast.InterpDeclStmt{
		KeysymExp: "Shift_L",
		Predicate: "AnyOf",
		ModExpr:   ident("all"),
		Body: []ast.Statement{
			varDecl("", "action", nil, &ast.ActionCallExpr{
				Name: "SetMods",
				Args: []ast.ActionArg{{Field: "modifiers", Value: ident("Shift")}},
			}),
		},
	}
	b.compileCompat(&ast.Section{Statements: []ast.Statement{s}})

	require.Len(t, b.interps, 1)
	in := b.interps[0]
	require.Equal(t, xkb.PredicateAnyOf, in.Predicate)
	require.NotNil(t, in.Action)
	require.Equal(t, xkb.ActionSetMods, in.Action.Kind)
}

func TestCompileOneInterpUnknownKeysymErrors(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	s := &ast.InterpDeclStmt{KeysymExp: "NotAKeysym_ZZZ"}
	b.compileOneInterp(s)

	require.Empty(t, b.interps)
	require.NotEmpty(t, b.diags)
}

func TestCompileOneInterpAnyWildcard(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	s := &ast.InterpDeclStmt{KeysymExp: "Any"}
	b.compileOneInterp(s)

	require.Len(t, b.interps, 1)
	require.Equal(t, keysym.Keysym(0), b.interps[0].Sym)
}

func TestCompileOneModMapLatestWinsWithWarning(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	b.compileOneModMap(&ast.ModMapDeclStmt{ModName: "Shift", Keys: []string{"LFSH"}})
	require.Empty(t, b.diags)

	b.compileOneModMap(&ast.ModMapDeclStmt{ModName: "Control", Keys: []string{"LFSH"}})
	require.NotEmpty(t, b.diags)
	require.Equal(t, xkb.ModIndexControl, b.modMapKeys["LFSH"])
}

func TestCompileOneModMapRejectsVirtualModifierName(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	b.declareVMods([]string{"LevelThree"})
	b.compileOneModMap(&ast.ModMapDeclStmt{ModName: "LevelThree", Keys: []string{"RALT"}})

	require.NotEmpty(t, b.diags)
	_, ok := b.modMapKeys["RALT"]
	require.False(t, ok)
}

func TestApplyCompatInterpFirstMatchWins(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	aSym, _ := keysym.FromName("a")

	first := xkb.Interp{Sym: aSym, Predicate: xkb.PredicateNone, VirtualMod: -1, Action: &xkb.Action{Kind: xkb.ActionSetMods, Mods: xkb.ModMaskShift}}
	second := xkb.Interp{Sym: aSym, Predicate: xkb.PredicateNone, VirtualMod: -1, Action: &xkb.Action{Kind: xkb.ActionLockMods, Mods: xkb.ModMaskLock}}
	b.interps = []xkb.Interp{first, second}

	lvl := &xkb.Level{}
	key := &xkb.Key{}
	b.applyCompatInterp(lvl, key, []keysym.Keysym{aSym})

	require.NotNil(t, lvl.Action)
	require.Equal(t, xkb.ActionSetMods, lvl.Action.Kind)
}

func TestApplyCompatInterpNoMatchLeavesActionNil(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	bSym, _ := keysym.FromName("b")
	aSym, _ := keysym.FromName("a")
	b.interps = []xkb.Interp{{Sym: aSym, Predicate: xkb.PredicateNone, VirtualMod: -1}}

	lvl := &xkb.Level{}
	key := &xkb.Key{}
	b.applyCompatInterp(lvl, key, []keysym.Keysym{bSym})

	require.Nil(t, lvl.Action)
}
