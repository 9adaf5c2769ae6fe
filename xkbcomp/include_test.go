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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xkbgo/xkbcommon/ast"
	"github.com/xkbgo/xkbcommon/xkb"
)

func TestParseIncludeValueSplitsTermsAndModifiers(t *testing.T) {
	specs := parseIncludeValue("pc+us(intl):override|de")

	require.Len(t, specs, 3)
	require.Equal(t, includeSpec{Op: '+', File: "pc"}, specs[0])
	require.Equal(t, includeSpec{Op: '+', File: "us", Map: "intl", Modifier: "override"}, specs[1])
	require.Equal(t, includeSpec{Op: '|', File: "de"}, specs[2])
}

func TestParseOneIncludeTermPlainFile(t *testing.T) {
	spec := parseOneIncludeTerm('+', "evdev")
	require.Equal(t, includeSpec{Op: '+', File: "evdev"}, spec)
}

func TestFindIncludeFileSearchesPathInOrder(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir2, "symbols"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir2, "symbols", "us"), []byte(`xkb_symbols "basic" { };`), 0o644))

	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	ctx.IncludePaths = []string{dir1, dir2}
	b := newBuilder(ctx)

	path, data, err := b.findIncludeFile("symbols", "us")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir2, "symbols", "us"), path)
	require.Contains(t, string(data), "xkb_symbols")
}

func TestFindIncludeFileNotFound(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	ctx.IncludePaths = []string{t.TempDir()}
	b := newBuilder(ctx)

	_, _, err := b.findIncludeFile("symbols", "missing")
	require.Error(t, err)
}

func TestResolveIncludesInExpandsMatchingSection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "types"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "types", "complete"), []byte(`
		xkb_types "complete" {
			type "ONE_LEVEL" {
				modifiers = none;
			};
		};
	`), 0o644))

	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	ctx.IncludePaths = []string{dir}
	b := newBuilder(ctx)

	stmts := []ast.Statement{&ast.IncludeStmt{Value: "complete"}}
	out := b.resolveIncludesIn(ast.SectionTypes, stmts, map[string]bool{})

	require.Empty(t, b.diags)
	require.Len(t, out, 1)
	_, ok := out[0].(*ast.TypeDeclStmt)
	require.True(t, ok)
}

func TestResolveIncludesInReportsMissingFile(t *testing.T) {
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	ctx.IncludePaths = []string{t.TempDir()}
	b := newBuilder(ctx)

	stmts := []ast.Statement{&ast.IncludeStmt{Value: "doesnotexist"}}
	out := b.resolveIncludesIn(ast.SectionSymbols, stmts, map[string]bool{})

	require.Empty(t, out)
	require.NotEmpty(t, b.diags)
	require.Equal(t, xkb.IncludeError, b.diags[0].Kind)
}

func TestTagMergeModeOverridesEmbeddedMode(t *testing.T) {
	st := &ast.TypeDeclStmt{Merge: ast.MergeAugment, Name: "X"}
	tagged := tagMergeMode(st, ast.MergeOverride)

	typed, ok := tagged.(*ast.TypeDeclStmt)
	require.True(t, ok)
	require.Equal(t, ast.MergeOverride, typed.Merge)
	// Original statement is untouched (tagMergeMode copies).
	require.Equal(t, ast.MergeAugment, st.Merge)
}

func TestMergeModeFromName(t *testing.T) {
	mode, ok := mergeModeFromName("Override")
	require.True(t, ok)
	require.Equal(t, ast.MergeOverride, mode)

	_, ok = mergeModeFromName("bogus")
	require.False(t, ok)
}
