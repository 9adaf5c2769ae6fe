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

func keyNameStmt(name string, kc int64) *ast.KeyNameStmt {
	return &ast.KeyNameStmt{Name: name, Value: &ast.IntLit{Value: kc}}
}

func aliasStmt(name, target string) *ast.KeyNameStmt {
	return &ast.KeyNameStmt{Alias: true, Name: name, Value: &ast.KeyNameLit{Name: target}}
}

func TestCompileKeycodesAssignsMinMax(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	sec := &ast.Section{Statements: []ast.Statement{
		keyNameStmt("AD01", 24),
		keyNameStmt("LFSH", 50),
		keyNameStmt("CAPS", 66),
	}}
	b.compileKeycodes(sec)

	require.Equal(t, uint32(24), b.keyCode["AD01"])
	require.Equal(t, uint32(50), b.keyCode["LFSH"])
	require.Equal(t, uint32(24), b.minKeycode)
	require.Equal(t, uint32(66), b.maxKeycode)
	require.Equal(t, "CAPS", b.codeName[66])
}

func TestCompileKeycodesRedefinitionWarns(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	sec := &ast.Section{Statements: []ast.Statement{
		keyNameStmt("AD01", 24),
		keyNameStmt("AD01", 25),
	}}
	b.compileKeycodes(sec)

	require.Equal(t, uint32(25), b.keyCode["AD01"])
	require.NotEmpty(t, b.diags)
	require.Equal(t, xkb.SevWarn, b.diags[0].Severity)
}

func TestResolveAliasesDirectAndChained(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	sec := &ast.Section{Statements: []ast.Statement{
		keyNameStmt("CAPS", 66),
		aliasStmt("AC01", "CAPS"),
		aliasStmt("AC02", "AC01"),
	}}
	b.compileKeycodes(sec)
	b.resolveAliases()

	require.Equal(t, uint32(66), b.keyCode["AC01"])
	require.Equal(t, uint32(66), b.keyCode["AC02"])
}

func TestResolveAliasesCycleWarns(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	b.aliases["A"] = "B"
	b.aliases["B"] = "A"

	b.resolveAliases()

	require.NotEmpty(t, b.diags)
}

func TestResolveAliasesUnknownTargetWarns(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	b := newBuilder(ctx)
	b.aliases["AC01"] = "NOPE"

	b.resolveAliases()

	require.NotEmpty(t, b.diags)
	_, ok := b.keyCode["AC01"]
	require.False(t, ok)
}
