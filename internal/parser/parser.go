// Package parser builds a typed AST (internal/ast) from a nifc token stream
// via recursive descent with Pratt expression parsing.
package parser

import (
	"fmt"

	"github.com/nifc-lang/nifc/internal/ast"
	nifcerrors "github.com/nifc-lang/nifc/internal/errors"
	"github.com/nifc-lang/nifc/internal/token"
)

func parseErr(tok token.Token, msg string) error {
	sp := tok.Span
	return nifcerrors.New("parser", nifcerrors.PAR001, msg, &sp)
}

func parseErrAt(sp token.Span, code, msg string) error {
	return nifcerrors.New("parser", code, msg, &sp)
}

// Parser wraps a TokenStream and produces ast.ModuleAst / ast.Expr.
type Parser struct {
	s *TokenStream
}

// New creates a Parser over toks (as produced by lexer.Lex).
func New(toks []token.Token) *Parser {
	return &Parser{s: NewTokenStream(toks)}
}

// Parse tokenizes (already done) and parses a full module.
func Parse(toks []token.Token) (*ast.ModuleAst, error) {
	return New(toks).ParseModule()
}

// ParseExpression parses a single standalone expression, consuming the
// entire token stream up to EOF. Exposed for tests and the REPL.
func ParseExpression(toks []token.Token) (ast.Expr, error) {
	p := New(toks)
	e, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if !p.s.AtEnd() {
		return nil, parseErr(p.s.Current(), fmt.Sprintf("Unexpected trailing token '%s'", p.s.Current().Lexeme))
	}
	return e, nil
}

// ParseModule parses a complete top-level module: a sequence of imports,
// classes, and functions.
func (p *Parser) ParseModule() (*ast.ModuleAst, error) {
	start := p.s.Current().Span.Start
	m := &ast.ModuleAst{}
	for !p.s.AtEnd() {
		isExport := p.s.Match(token.EXPORT)
		switch {
		case p.s.Check(token.IMPORT):
			imp, err := p.parseImport(isExport)
			if err != nil {
				return nil, err
			}
			m.Imports = append(m.Imports, imp)
		case p.s.Check(token.CLASS):
			cls, err := p.parseClass(isExport)
			if err != nil {
				return nil, err
			}
			m.Classes = append(m.Classes, cls)
		case p.s.Check(token.EXTERN):
			p.s.Advance()
			fn, err := p.parseFunction(isExport, true)
			if err != nil {
				return nil, err
			}
			m.Functions = append(m.Functions, fn)
		case p.s.Check(token.FN):
			fn, err := p.parseFunction(isExport, false)
			if err != nil {
				return nil, err
			}
			m.Functions = append(m.Functions, fn)
		default:
			return nil, parseErr(p.s.Current(), "Expected 'import', 'class', 'fn', or 'extern fn' at top level")
		}
	}
	end := p.s.Current().Span.End
	m.Sp = token.Span{Start: start, End: end}
	return m, nil
}

func (p *Parser) parseImport(isExport bool) (*ast.ImportDecl, error) {
	start := p.s.Current().Span.Start
	if _, err := p.s.Expect(token.IMPORT, "Expected 'import'"); err != nil {
		return nil, err
	}
	var segs []string
	first, err := p.s.Expect(token.IDENT, "Expected module path segment")
	if err != nil {
		return nil, err
	}
	segs = append(segs, first.Lexeme)
	for p.s.Match(token.DOT) {
		seg, err := p.s.Expect(token.IDENT, "Expected module path segment after '.'")
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg.Lexeme)
	}
	end := p.s.Current().Span.End
	if _, err := p.s.Expect(token.SEMI, "Expected ';' after import"); err != nil {
		return nil, err
	}
	return &ast.ImportDecl{ModulePath: segs, IsExport: isExport, Sp: token.Span{Start: start, End: end}}, nil
}
