package parser

import (
	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/token"
)

// parseType parses a type reference: a primitive keyword, Obj, or a
// (possibly dotted) identifier, optionally followed by one or more `[]`.
func (p *Parser) parseType() (ast.TypeRef, error) {
	start := p.s.Current().Span.Start
	var base ast.TypeRef

	cur := p.s.Current()
	switch {
	case cur.Kind.IsPrimitive(), cur.Kind == token.OBJ:
		p.s.Advance()
		base = &ast.NamedType{Name: cur.Lexeme, Sp: cur.Span}
	case cur.Kind == token.IDENT:
		p.s.Advance()
		name := cur.Lexeme
		end := cur.Span.End
		for p.s.Check(token.DOT) && p.s.Peek(1).Kind == token.IDENT {
			p.s.Advance()
			seg := p.s.Advance()
			name += "." + seg.Lexeme
			end = seg.Span.End
		}
		base = &ast.NamedType{Name: name, Sp: token.Span{Start: start, End: end}}
	default:
		return nil, parseErr(cur, "Expected type name")
	}

	for p.s.Check(token.LBRACKET) && p.s.Peek(1).Kind == token.RBRACKET {
		p.s.Advance()
		rb := p.s.Advance()
		base = &ast.ArrayType{Elem: base, Sp: token.Span{Start: start, End: rb.Span.End}}
	}
	return base, nil
}
