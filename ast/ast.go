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

// Package ast defines the syntax tree produced by package parser and
// consumed by package xkbcomp. Unlike the original C compiler, which
// links statements with next pointers and downcasts a tagged union,
// nodes here are owned, tagged-variant Go values arranged in ordered
// slices: a File owns its Sections, a Section owns its Statements, and
// so on, strictly parent to child with no back-edges (spec §9).
package ast

// MergeMode governs how an included or appended section combines
// with the section already being built (spec §4.5).
type MergeMode int

const (
	MergeDefault MergeMode = iota
	MergeAugment
	MergeOverride
	MergeReplace
	MergeAlternate
)

func (m MergeMode) String() string {
	switch m {
	case MergeAugment:
		return "augment"
	case MergeOverride:
		return "override"
	case MergeReplace:
		return "replace"
	case MergeAlternate:
		return "alternate"
	default:
		return "default"
	}
}

// SectionType names an XKB top-level section kind.
type SectionType int

const (
	SectionKeycodes SectionType = iota
	SectionTypes
	SectionCompat
	SectionSymbols
	SectionGeometry
	SectionKeymap // wraps the others; Body holds nested Sections
)

// Pos is a source location, carried by every node for diagnostics.
type Pos struct {
	File   string
	Line   int
	Column int
}

// File is the root of one parsed XKB source file (spec §9 "AST
// graph"). It may contain one bare Section (a `xkb_symbols "..." {
// ... }` style file) or, for an `xkb_keymap { ... }` wrapper, several.
type File struct {
	Pos      Pos
	Sections []*Section
}

// Section is one `xkb_<type> "<name>" { <statements> };` block.
type Section struct {
	Pos        Pos
	Type       SectionType
	Name       string
	Merge      MergeMode
	Statements []Statement
	FileID     int // bookkeeping for "same file" diagnostics (spec §4.5)
}

// Statement is implemented by every statement-level AST node.
type Statement interface {
	stmtPos() Pos
}

type StmtBase struct{ Pos Pos }

func (s StmtBase) stmtPos() Pos { return s.Pos }

// IncludeStmt is a raw `include "file(map):mod|file2(map2)+..."`
// statement; expansion into subtrees is the include resolver's job
// (spec §4.4), not the parser's.
type IncludeStmt struct {
	StmtBase
	Merge MergeMode
	Value string
}

// FieldRef is the decomposed LHS of an assignment:
// `element.field[index]`, where Element and Index may be nil/absent.
type FieldRef struct {
	Element string
	Field   string
	Index   Expr // nil if no [index]
}

// VarDeclStmt is `lhs = expr;`.
type VarDeclStmt struct {
	StmtBase
	LHS FieldRef
	RHS Expr
}

// KeyNameStmt is `<AE01> = 17;` (keycodes section) or an alias
// `alias <AC01> = <CAPS>;`.
type KeyNameStmt struct {
	StmtBase
	Alias bool
	Name  string // the 4-octet key name, e.g. "AE01"
	Value Expr   // integer keycode, or (for Alias) another KeyName expr
}

// KeyDeclStmt is `key <AE01> { ... };` in the xkb_symbols section: a
// per-key block of group/level declarations.
type KeyDeclStmt struct {
	StmtBase
	Merge MergeMode
	Name  string
	Body  []Statement
}

// TypeDeclStmt is `type "FOUR_LEVEL" { ... };` in xkb_types.
type TypeDeclStmt struct {
	StmtBase
	Merge MergeMode
	Name  string
	Body  []Statement
}

// InterpDeclStmt is `interpret <keysym>[+modifiers] { ... };` in
// xkb_compatibility.
type InterpDeclStmt struct {
	StmtBase
	Merge     MergeMode
	KeysymExp string // keysym name, or "Any" for the wildcard interpretation
	Predicate string // "AnyOfOrNone", "AnyOf", "NoneOf", "AllOf", "Exactly", or "" if unqualified
	ModExpr   Expr   // modifier mask expression qualifying Predicate
	Body      []Statement
}

// ModMapDeclStmt is `modifier_map Shift { <LCTL>, <RCTL> };`.
type ModMapDeclStmt struct {
	StmtBase
	Merge   MergeMode
	ModName string
	Keys    []string
}

// IndicatorDeclStmt is `indicator "Caps Lock" { ... };`.
type IndicatorDeclStmt struct {
	StmtBase
	Merge MergeMode
	Name  string
	Body  []Statement
}

// VModDeclStmt is `virtual_modifiers LevelThree, Alt;`.
type VModDeclStmt struct {
	StmtBase
	Names []string
}

// SectionStmt wraps a nested *Section so it can travel through the
// Statements list of an xkb_keymap wrapper section.
type SectionStmt struct {
	StmtBase
	Section *Section
}

// GroupCompatStmt is an xkb_compatibility `group N = AnyOf { ... };`
// group-compat entry, kept for parse completeness; the spec does not
// exercise group compat semantics, so the compiler discards its
// contents like it does for geometry.
type GroupCompatStmt struct {
	StmtBase
	Group int
	Expr  Expr
}

// Expr is implemented by every expression-level AST node.
type Expr interface {
	exprPos() Pos
}

type ExprBase struct{ Pos Pos }

func (e ExprBase) exprPos() Pos { return e.Pos }

// Ident is a bare identifier: a modifier name, boolean keyword,
// enum value, or unqualified field reference.
type Ident struct {
	ExprBase
	Name string
}

// StringLit is a double-quoted string literal.
type StringLit struct {
	ExprBase
	Value string
}

// IntLit is a decimal, 0x-hex, or keycode-like integer literal.
type IntLit struct {
	ExprBase
	Value int64
}

// FloatLit is a floating constant, legal only in the handful of
// fields that accept one (spec §4.2).
type FloatLit struct {
	ExprBase
	Value float64
}

// KeyNameLit is a `<AE01>` key-name literal used as an expression
// (e.g. inside a modifier_map key list or a RedirectKey action field).
type KeyNameLit struct {
	ExprBase
	Name string
}

// ArrayExpr is a bracketed, comma-separated expression list: the
// per-level keysym/action list `[ a, A ]`, or an explicit mask like
// `[Shift, Lock]`.
type ArrayExpr struct {
	ExprBase
	Elems []Expr
}

// ActionCallExpr is `actionName(field1=val1, field2=val2, ...)`.
type ActionCallExpr struct {
	ExprBase
	Name string
	Args []ActionArg
}

// ActionArg is one `field = value` pair inside an action call.
type ActionArg struct {
	Field string
	Value Expr
}

// UnaryExpr is `!e`, `~e`, `-e`, `+e`.
type UnaryExpr struct {
	ExprBase
	Op byte
	X  Expr
}

// BinaryExpr is `l op r` for `+ - * /`.
type BinaryExpr struct {
	ExprBase
	Op byte
	L, R Expr
}

// FieldRefExpr is an `element.field[index]` reference used as an
// expression (appears on the RHS in a handful of constructs, e.g.
// `action.type`).
type FieldRefExpr struct {
	ExprBase
	Ref FieldRef
}
