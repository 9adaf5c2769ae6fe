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

// Package parser turns lexer tokens into an *ast.File (spec §4.3).
// The original compiler is LALR(1) (a generated yacc grammar); this
// is a hand-written recursive-descent parser over the same grammar
// shape. Recursive descent is the idiomatic Go choice here (the
// teacher's own VT escape-sequence parser, input.go, is likewise a
// hand-written state machine rather than a generated one) and the
// XKB grammar has no ambiguity that requires real LALR lookahead.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xkbgo/xkbcommon/ast"
	"github.com/xkbgo/xkbcommon/lexer"
)

// Error is one parse-time diagnostic with its source location.
type Error struct {
	Pos     ast.Pos
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Pos.File, e.Pos.Line, e.Pos.Column, e.Message)
}

const maxErrors = 10

// parser holds the mutable state of one parse of one file.
type parser struct {
	lex   *lexer.Lexer
	file  string
	tok   lexer.Token
	errs  []error
	abort bool
}

// Parse tokenizes and parses src, attributing diagnostics to file.
// It always returns a non-nil *ast.File; on error, errs is non-empty
// and the File may be partial (spec §7: a section-level error aborts
// the section but keeps other sections already parsed).
func Parse(file string, src []byte) (*ast.File, []error) {
	p := &parser{lex: lexer.New(file, src), file: file}
	p.advance()

	f := &ast.File{Pos: ast.Pos{File: file, Line: 1, Column: 1}}
	for p.tok.Kind != lexer.TokEOF {
		sec := p.parseSection()
		if sec != nil {
			f.Sections = append(f.Sections, sec)
		}
		if p.abort {
			break
		}
	}
	return f, p.errs
}

func (p *parser) pos() ast.Pos {
	return ast.Pos{File: p.file, Line: p.tok.Line, Column: p.tok.Column}
}

func (p *parser) advance() {
	p.tok = p.lex.Next()
}

func (p *parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, &Error{Pos: p.pos(), Message: fmt.Sprintf(format, args...)})
	if len(p.errs) >= maxErrors {
		p.abort = true
	}
}

// isPunct reports whether the current token is the punctuator c.
func (p *parser) isPunct(c byte) bool {
	return p.tok.Kind == lexer.TokPunct && len(p.tok.Text) == 1 && p.tok.Text[0] == c
}

// expectPunct consumes the punctuator c or records a diagnostic and
// performs statement-boundary error recovery (spec §4.3).
func (p *parser) expectPunct(c byte) bool {
	if p.isPunct(c) {
		p.advance()
		return true
	}
	p.errorf("expected %q, got %v", string(c), p.tok)
	p.recover()
	return false
}

// recover discards tokens until the next statement boundary (';' or
// '}'), per spec §4.3's error-recovery rule.
func (p *parser) recover() {
	for p.tok.Kind != lexer.TokEOF {
		if p.isPunct(';') {
			p.advance()
			return
		}
		if p.isPunct('}') {
			return
		}
		p.advance()
	}
}

func (p *parser) identEq(s string) bool {
	return p.tok.Kind == lexer.TokIdent && strings.EqualFold(p.tok.Text, s)
}

// parseMergeMode consumes a leading merge-mode keyword if present.
func (p *parser) parseMergeMode() ast.MergeMode {
	if p.tok.Kind != lexer.TokIdent {
		return ast.MergeDefault
	}
	switch strings.ToLower(p.tok.Text) {
	case "augment":
		p.advance()
		return ast.MergeAugment
	case "override":
		p.advance()
		return ast.MergeOverride
	case "replace":
		p.advance()
		return ast.MergeReplace
	case "alternate":
		p.advance()
		return ast.MergeAlternate
	case "default":
		p.advance()
		return ast.MergeDefault
	}
	return ast.MergeDefault
}

var sectionKeywords = map[string]ast.SectionType{
	"xkb_keycodes":     ast.SectionKeycodes,
	"xkb_types":        ast.SectionTypes,
	"xkb_compatibility": ast.SectionCompat,
	"xkb_compat":       ast.SectionCompat,
	"xkb_symbols":      ast.SectionSymbols,
	"xkb_geometry":     ast.SectionGeometry,
	"xkb_keymap":       ast.SectionKeymap,
}

func (p *parser) parseSection() *ast.Section {
	merge := p.parseMergeMode()
	pos := p.pos()

	if p.tok.Kind != lexer.TokIdent {
		p.errorf("expected section keyword, got %v", p.tok)
		p.recover()
		return nil
	}
	typ, ok := sectionKeywords[strings.ToLower(p.tok.Text)]
	if !ok {
		p.errorf("unknown section keyword %q", p.tok.Text)
		p.recover()
		return nil
	}
	p.advance()

	sec := &ast.Section{Pos: pos, Type: typ, Merge: merge}

	if p.tok.Kind == lexer.TokString {
		sec.Name = p.tok.Text
		p.advance()
	}

	if !p.expectPunct('{') {
		return sec
	}

	if typ == ast.SectionKeymap {
		for !p.isPunct('}') && p.tok.Kind != lexer.TokEOF {
			nested := p.parseSection()
			if nested != nil {
				sec.Statements = append(sec.Statements, &ast.SectionStmt{
					StmtBase: ast.StmtBase{Pos: nested.Pos},
					Section:  nested,
				})
			}
			if p.abort {
				break
			}
		}
	} else {
		for !p.isPunct('}') && p.tok.Kind != lexer.TokEOF {
			stmt := p.parseStatement(typ)
			if stmt != nil {
				sec.Statements = append(sec.Statements, stmt)
			}
			if p.abort {
				break
			}
		}
	}

	p.expectPunct('}')
	p.expectPunct(';')
	return sec
}

func (p *parser) parseStatement(sectionType ast.SectionType) ast.Statement {
	pos := p.pos()

	if p.identEq("include") {
		p.advance()
		if p.tok.Kind != lexer.TokString {
			p.errorf("expected string after include")
			p.recover()
			return nil
		}
		val := p.tok.Text
		p.advance()
		if p.isPunct(';') { // the terminating ';' is optional
			p.advance()
		}
		return &ast.IncludeStmt{StmtBase: ast.StmtBase{Pos: pos}, Value: val}
	}

	if p.identEq("virtual_modifiers") {
		p.advance()
		var names []string
		for {
			if p.tok.Kind != lexer.TokIdent {
				p.errorf("expected virtual modifier name")
				break
			}
			names = append(names, p.tok.Text)
			p.advance()
			if p.isPunct(',') {
				p.advance()
				continue
			}
			break
		}
		p.expectPunct(';')
		return &ast.VModDeclStmt{StmtBase: ast.StmtBase{Pos: pos}, Names: names}
	}

	if p.identEq("alias") {
		p.advance()
		if p.tok.Kind != lexer.TokKeyName {
			p.errorf("expected key name after alias")
			p.recover()
			return nil
		}
		name := p.tok.Text
		p.advance()
		p.expectPunct('=')
		if p.tok.Kind != lexer.TokKeyName {
			p.errorf("expected key name on alias RHS")
			p.recover()
			return nil
		}
		target := p.tok.Text
		p.advance()
		p.expectPunct(';')
		return &ast.KeyNameStmt{StmtBase: ast.StmtBase{Pos: pos}, Alias: true, Name: name,
			Value: &ast.KeyNameLit{ExprBase: ast.ExprBase{Pos: pos}, Name: target}}
	}

	merge := p.parseMergeMode()
	pos = p.pos()

	if p.identEq("key") {
		p.advance()
		if p.tok.Kind != lexer.TokKeyName {
			p.errorf("expected key name after 'key'")
			p.recover()
			return nil
		}
		name := p.tok.Text
		p.advance()
		body := p.parseBracedBody(sectionType)
		p.expectPunct(';')
		return &ast.KeyDeclStmt{StmtBase: ast.StmtBase{Pos: pos}, Merge: merge, Name: name, Body: body}
	}

	if p.identEq("type") {
		typeTok := p.tok
		p.advance()
		// `type = "..."` / `type[Group1] = "..."` is a field assignment.
		if p.isPunct('=') || p.isPunct('[') {
			lhs := ast.FieldRef{Field: typeTok.Text}
			if p.isPunct('[') {
				p.advance()
				lhs.Index = p.parseExpr()
				p.expectPunct(']')
			}
			if !p.expectPunct('=') {
				return nil
			}
			rhs := p.parseExpr()
			p.expectPunct(';')
			return &ast.VarDeclStmt{StmtBase: ast.StmtBase{Pos: pos}, LHS: lhs, RHS: rhs}
		}
		if p.tok.Kind != lexer.TokString {
			p.errorf("expected type name string")
			p.recover()
			return nil
		}
		name := p.tok.Text
		p.advance()
		body := p.parseBracedBody(sectionType)
		p.expectPunct(';')
		return &ast.TypeDeclStmt{StmtBase: ast.StmtBase{Pos: pos}, Merge: merge, Name: name, Body: body}
	}

	if p.identEq("interpret") {
		p.advance()
		stmt := p.parseInterpHead(pos, merge)
		body := p.parseBracedBody(sectionType)
		p.expectPunct(';')
		stmt.Body = body
		return stmt
	}

	if p.identEq("modifier_map") {
		p.advance()
		if p.tok.Kind != lexer.TokIdent {
			p.errorf("expected modifier name after modifier_map")
			p.recover()
			return nil
		}
		modName := p.tok.Text
		p.advance()
		if !p.expectPunct('{') {
			return nil
		}
		var keys []string
		for !p.isPunct('}') && p.tok.Kind != lexer.TokEOF {
			if p.tok.Kind == lexer.TokKeyName {
				keys = append(keys, p.tok.Text)
				p.advance()
			} else {
				p.errorf("expected key name in modifier_map body")
				p.recover()
			}
			if p.isPunct(',') {
				p.advance()
			}
		}
		p.expectPunct('}')
		p.expectPunct(';')
		return &ast.ModMapDeclStmt{StmtBase: ast.StmtBase{Pos: pos}, Merge: merge, ModName: modName, Keys: keys}
	}

	if p.identEq("indicator") {
		p.advance()
		if p.tok.Kind != lexer.TokString {
			p.errorf("expected indicator name string")
			p.recover()
			return nil
		}
		name := p.tok.Text
		p.advance()
		body := p.parseBracedBody(sectionType)
		p.expectPunct(';')
		return &ast.IndicatorDeclStmt{StmtBase: ast.StmtBase{Pos: pos}, Merge: merge, Name: name, Body: body}
	}

	// keycodes-section raw key definition: <AE01> = 17;
	if p.tok.Kind == lexer.TokKeyName {
		name := p.tok.Text
		p.advance()
		p.expectPunct('=')
		val := p.parseExpr()
		p.expectPunct(';')
		return &ast.KeyNameStmt{StmtBase: ast.StmtBase{Pos: pos}, Name: name, Value: val}
	}

	// generic `lhs = expr;`
	if p.tok.Kind == lexer.TokIdent {
		lhs := p.parseFieldRef()
		if !p.expectPunct('=') {
			return nil
		}
		rhs := p.parseExpr()
		p.expectPunct(';')
		return &ast.VarDeclStmt{StmtBase: ast.StmtBase{Pos: pos}, LHS: lhs, RHS: rhs}
	}

	p.errorf("unexpected token %v", p.tok)
	p.recover()
	return nil
}

func (p *parser) parseInterpHead(pos ast.Pos, merge ast.MergeMode) *ast.InterpDeclStmt {
	stmt := &ast.InterpDeclStmt{StmtBase: ast.StmtBase{Pos: pos}, Merge: merge}
	if p.tok.Kind != lexer.TokIdent {
		p.errorf("expected keysym name in interpret statement")
		return stmt
	}
	stmt.KeysymExp = p.tok.Text
	p.advance()
	if p.isPunct('+') {
		p.advance()
		if p.tok.Kind != lexer.TokIdent {
			p.errorf("expected predicate name after '+'")
			return stmt
		}
		stmt.Predicate = p.tok.Text
		p.advance()
		if p.isPunct('(') {
			p.advance()
			stmt.ModExpr = p.parseExpr()
			p.expectPunct(')')
		}
	}
	return stmt
}

// parseBracedBody parses `{ statements }`.
func (p *parser) parseBracedBody(sectionType ast.SectionType) []ast.Statement {
	if !p.expectPunct('{') {
		return nil
	}
	var stmts []ast.Statement
	for !p.isPunct('}') && p.tok.Kind != lexer.TokEOF {
		s := p.parseStatement(sectionType)
		if s != nil {
			stmts = append(stmts, s)
		}
		if p.abort {
			break
		}
	}
	p.expectPunct('}')
	return stmts
}

// parseFieldRef parses `element.field[index]`, `field[index]`, or
// bare `field`.
func (p *parser) parseFieldRef() ast.FieldRef {
	first := p.tok.Text
	p.advance()

	ref := ast.FieldRef{Field: first}
	if p.isPunct('.') {
		p.advance()
		if p.tok.Kind != lexer.TokIdent {
			p.errorf("expected field name after '.'")
			return ref
		}
		ref.Element = first
		ref.Field = p.tok.Text
		p.advance()
	}
	if p.isPunct('[') {
		p.advance()
		ref.Index = p.parseExpr()
		p.expectPunct(']')
	}
	return ref
}

// --- expression parsing, precedence climbing ---

func (p *parser) parseExpr() ast.Expr {
	return p.parseAddSub()
}

func (p *parser) parseAddSub() ast.Expr {
	left := p.parseMulDiv()
	for p.isPunct('+') || p.isPunct('-') {
		op := p.tok.Text[0]
		pos := p.pos()
		p.advance()
		right := p.parseMulDiv()
		left = &ast.BinaryExpr{ExprBase: ast.ExprBase{Pos: pos}, Op: op, L: left, R: right}
	}
	return left
}

func (p *parser) parseMulDiv() ast.Expr {
	left := p.parseUnary()
	for p.isPunct('*') || p.isPunct('/') {
		op := p.tok.Text[0]
		pos := p.pos()
		p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{ExprBase: ast.ExprBase{Pos: pos}, Op: op, L: left, R: right}
	}
	return left
}

func (p *parser) parseUnary() ast.Expr {
	if p.isPunct('!') || p.isPunct('~') || p.isPunct('-') || p.isPunct('+') {
		op := p.tok.Text[0]
		pos := p.pos()
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{ExprBase: ast.ExprBase{Pos: pos}, Op: op, X: x}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() ast.Expr {
	pos := p.pos()
	switch p.tok.Kind {
	case lexer.TokIdent:
		name := p.tok.Text
		p.advance()
		if p.isPunct('(') {
			return p.parseActionCall(pos, name)
		}
		if p.isPunct('.') {
			// rebuild as a field-ref expression: element.field[index]
			ref := ast.FieldRef{Element: name}
			p.advance()
			if p.tok.Kind != lexer.TokIdent {
				p.errorf("expected field name after '.'")
				return &ast.Ident{ExprBase: ast.ExprBase{Pos: pos}, Name: name}
			}
			ref.Field = p.tok.Text
			p.advance()
			if p.isPunct('[') {
				p.advance()
				ref.Index = p.parseExpr()
				p.expectPunct(']')
			}
			return &ast.FieldRefExpr{ExprBase: ast.ExprBase{Pos: pos}, Ref: ref}
		}
		return &ast.Ident{ExprBase: ast.ExprBase{Pos: pos}, Name: name}

	case lexer.TokString:
		s := p.tok.Text
		p.advance()
		return &ast.StringLit{ExprBase: ast.ExprBase{Pos: pos}, Value: s}

	case lexer.TokInteger:
		text := p.tok.Text
		p.advance()
		v, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X"), hexOrDec(text), 64)
		if err != nil {
			p.errorf("invalid integer literal %q", text)
			v = 0
		}
		return &ast.IntLit{ExprBase: ast.ExprBase{Pos: pos}, Value: v}

	case lexer.TokFloat:
		text := p.tok.Text
		p.advance()
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.errorf("invalid float literal %q", text)
		}
		return &ast.FloatLit{ExprBase: ast.ExprBase{Pos: pos}, Value: v}

	case lexer.TokKeyName:
		name := p.tok.Text
		p.advance()
		return &ast.KeyNameLit{ExprBase: ast.ExprBase{Pos: pos}, Name: name}

	case lexer.TokPunct:
		if p.tok.Text == "(" {
			p.advance()
			e := p.parseExpr()
			p.expectPunct(')')
			return e
		}
		if p.tok.Text == "[" {
			p.advance()
			var elems []ast.Expr
			for !p.isPunct(']') && p.tok.Kind != lexer.TokEOF {
				elems = append(elems, p.parseExpr())
				if p.isPunct(',') {
					p.advance()
					continue
				}
				break
			}
			p.expectPunct(']')
			return &ast.ArrayExpr{ExprBase: ast.ExprBase{Pos: pos}, Elems: elems}
		}
	}

	p.errorf("unexpected token in expression: %v", p.tok)
	p.recover()
	return &ast.Ident{ExprBase: ast.ExprBase{Pos: pos}, Name: ""}
}

func hexOrDec(text string) int {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return 16
	}
	return 10
}

func (p *parser) parseActionCall(pos ast.Pos, name string) ast.Expr {
	p.advance() // '('
	var args []ast.ActionArg
	for !p.isPunct(')') && p.tok.Kind != lexer.TokEOF {
		if p.tok.Kind != lexer.TokIdent {
			p.errorf("expected action field name")
			break
		}
		field := p.tok.Text
		p.advance()
		p.expectPunct('=')
		val := p.parseExpr()
		args = append(args, ast.ActionArg{Field: field, Value: val})
		if p.isPunct(',') {
			p.advance()
			continue
		}
		break
	}
	p.expectPunct(')')
	return &ast.ActionCallExpr{ExprBase: ast.ExprBase{Pos: pos}, Name: name, Args: args}
}
