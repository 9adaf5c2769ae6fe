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

func TestBuildActionGroupAbsolute(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)

	act := b.buildAction(&ast.ActionCallExpr{
		Name: "LockGroup",
		Args: []ast.ActionArg{{Field: "group", Value: &ast.IntLit{Value: 2}}},
	})

	require.True(t, act.GroupAbsolute)
	require.EqualValues(t, 1, act.Group) // 1-based source decremented to 0-based
}

func TestBuildActionGroupRelativeIncrement(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)

	act := b.buildAction(&ast.ActionCallExpr{
		Name: "SetGroup",
		Args: []ast.ActionArg{{Field: "group", Value: &ast.UnaryExpr{Op: '+', X: &ast.IntLit{Value: 1}}}},
	})

	require.False(t, act.GroupAbsolute)
	require.EqualValues(t, 1, act.Group) // kept as given, not decremented
}

func TestBuildActionGroupRelativeDecrement(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)

	act := b.buildAction(&ast.ActionCallExpr{
		Name: "SetGroup",
		Args: []ast.ActionArg{{Field: "group", Value: &ast.UnaryExpr{Op: '-', X: &ast.IntLit{Value: 1}}}},
	})

	require.False(t, act.GroupAbsolute)
	require.EqualValues(t, -1, act.Group)
}

func TestBuildActionLockPtrBtnAffectLockOnly(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)

	act := b.buildAction(&ast.ActionCallExpr{
		Name: "LockPtrBtn",
		Args: []ast.ActionArg{
			{Field: "button", Value: &ast.IntLit{Value: 1}},
			{Field: "affect", Value: ident("lock")},
		},
	})

	require.False(t, act.NoLockFlag)
	require.True(t, act.NoUnlockFlag)
}

func TestBuildActionLockPtrBtnAffectUnlockOnly(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)

	act := b.buildAction(&ast.ActionCallExpr{
		Name: "LockPtrBtn",
		Args: []ast.ActionArg{
			{Field: "button", Value: &ast.IntLit{Value: 1}},
			{Field: "affect", Value: ident("unlock")},
		},
	})

	require.True(t, act.NoLockFlag)
	require.False(t, act.NoUnlockFlag)
}

func TestBuildActionLockPtrBtnAffectNeitherBlocksBoth(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)

	act := b.buildAction(&ast.ActionCallExpr{
		Name: "LockPtrBtn",
		Args: []ast.ActionArg{
			{Field: "button", Value: &ast.IntLit{Value: 1}},
			{Field: "affect", Value: ident("neither")},
		},
	})

	require.True(t, act.NoLockFlag)
	require.True(t, act.NoUnlockFlag)
}

func TestBuildActionLockPtrBtnAffectBothTogglesNormally(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)

	act := b.buildAction(&ast.ActionCallExpr{
		Name: "LockPtrBtn",
		Args: []ast.ActionArg{
			{Field: "button", Value: &ast.IntLit{Value: 1}},
			{Field: "affect", Value: ident("both")},
		},
	})

	require.False(t, act.NoLockFlag)
	require.False(t, act.NoUnlockFlag)
}
