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
	"strings"

	"github.com/xkbgo/xkbcommon/ast"
	"github.com/xkbgo/xkbcommon/parser"
	"github.com/xkbgo/xkbcommon/xkb"
)

// includeSpec is one `+file(map):modifier` or `|file(map):modifier`
// term of a raw include statement value (spec §4.4 "Include
// resolution"). Op is '+' (augment into current) or '|' (alternate:
// only used if the current section is still empty) for every term
// after the first; the first term's Op is always '+'.
type includeSpec struct {
	Op       byte
	File     string
	Map      string // "" selects the file's default/only matching section
	Modifier string // "", "augment", "override", "replace", "alternate" prefix override
}

// parseIncludeValue splits a raw include statement body into its
// `+`/`|`-joined terms, each optionally carrying a `(map)` and a
// `:modifier` suffix (spec §4.4).
func parseIncludeValue(val string) []includeSpec {
	var specs []includeSpec
	op := byte('+')
	start := 0
	flush := func(end int) {
		if end <= start {
			return
		}
		specs = append(specs, parseOneIncludeTerm(op, val[start:end]))
	}
	for i := 0; i < len(val); i++ {
		switch val[i] {
		case '+', '|':
			flush(i)
			op = val[i]
			start = i + 1
		}
	}
	flush(len(val))
	return specs
}

func parseOneIncludeTerm(op byte, term string) includeSpec {
	spec := includeSpec{Op: op}
	if i := strings.LastIndexByte(term, ':'); i >= 0 && !strings.ContainsAny(term[i+1:], "()") {
		spec.Modifier = term[i+1:]
		term = term[:i]
	}
	if i := strings.IndexByte(term, '('); i >= 0 && strings.HasSuffix(term, ")") {
		spec.File = term[:i]
		spec.Map = term[i+1 : len(term)-1]
	} else {
		spec.File = term
	}
	return spec
}

// findIncludeFile searches the context's include path for
// "<type>/<name>", the directory layout XKB data files use (spec §4.4
// "file(map) syntax").
func (b *builder) findIncludeFile(sectionDir, name string) (string, []byte, error) {
	for _, dir := range b.ctx.IncludePaths {
		p := filepath.Join(dir, sectionDir, name)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
	}
	return "", nil, os.ErrNotExist
}

func sectionDirName(t ast.SectionType) string {
	switch t {
	case ast.SectionKeycodes:
		return "keycodes"
	case ast.SectionTypes:
		return "types"
	case ast.SectionCompat:
		return "compat"
	case ast.SectionSymbols:
		return "symbols"
	case ast.SectionGeometry:
		return "geometry"
	default:
		return ""
	}
}

// resolveIncludes expands every IncludeStmt found directly in sec's
// statement list (one level; nested includes are expanded recursively
// through the same visited set) in place, returning the merged
// statement list with includes replaced by the referenced section's
// statements (each tagged with the include term's merge mode).
func (b *builder) resolveIncludes(sec *ast.Section, visited map[string]bool) []ast.Statement {
	return b.resolveIncludesIn(sec.Type, sec.Statements, visited)
}

// resolveIncludesIn expands every IncludeStmt in stmts, recursing into
// whatever the included file itself includes (spec §4.4 "Include
// resolution" composes transitively), guarded by visited against
// cycles.
func (b *builder) resolveIncludesIn(typ ast.SectionType, stmts []ast.Statement, visited map[string]bool) []ast.Statement {
	var out []ast.Statement
	dir := sectionDirName(typ)

	for _, stmt := range stmts {
		inc, ok := stmt.(*ast.IncludeStmt)
		if !ok {
			out = append(out, stmt)
			continue
		}
		for _, term := range parseIncludeValue(inc.Value) {
			path, data, err := b.findIncludeFile(dir, term.File)
			if err != nil {
				b.errorf(inc.Pos, xkb.IncludeError, "cannot find include %q for section type %q", term.File, dir)
				continue
			}
			abs, _ := filepath.Abs(path)
			key := abs + "#" + term.Map
			if visited[key] {
				b.errorf(inc.Pos, xkb.IncludeError, "include cycle involving %q", path)
				continue
			}
			visited[key] = true

			file, errs := parser.Parse(path, data)
			for _, e := range errs {
				b.errorf(inc.Pos, xkb.ParseError, "in included file %s: %s", path, e)
			}
			for _, included := range file.Sections {
				if included.Type != typ {
					continue
				}
				if term.Map != "" && !strings.EqualFold(included.Name, term.Map) {
					continue
				}
				mode := inc.Merge
				if m, ok := mergeModeFromName(term.Modifier); ok {
					mode = m
				} else if term.Op == '|' {
					mode = ast.MergeAlternate
				}
				nested := b.resolveIncludesIn(typ, included.Statements, visited)
				for _, s := range nested {
					out = append(out, tagMergeMode(s, mode))
				}
			}
			delete(visited, key)
		}
	}
	return out
}

func mergeModeFromName(name string) (ast.MergeMode, bool) {
	switch strings.ToLower(name) {
	case "augment":
		return ast.MergeAugment, true
	case "override":
		return ast.MergeOverride, true
	case "replace":
		return ast.MergeReplace, true
	case "alternate":
		return ast.MergeAlternate, true
	}
	return 0, false
}

// tagMergeMode overrides a statement's own Merge field with mode,
// used when splicing statements pulled in through an include term
// whose modifier/operator sets the effective merge mode (spec §4.4).
func tagMergeMode(s ast.Statement, mode ast.MergeMode) ast.Statement {
	switch st := s.(type) {
	case *ast.KeyDeclStmt:
		cp := *st
		cp.Merge = mode
		return &cp
	case *ast.TypeDeclStmt:
		cp := *st
		cp.Merge = mode
		return &cp
	case *ast.InterpDeclStmt:
		cp := *st
		cp.Merge = mode
		return &cp
	case *ast.ModMapDeclStmt:
		cp := *st
		cp.Merge = mode
		return &cp
	case *ast.IndicatorDeclStmt:
		cp := *st
		cp.Merge = mode
		return &cp
	default:
		return s
	}
}
