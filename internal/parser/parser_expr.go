package parser

import (
	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/token"
)

const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precCompare
	precAdd
	precMul
)

func binPrec(k token.Kind) int {
	switch k {
	case token.OR:
		return precOr
	case token.AND:
		return precAnd
	case token.EQ, token.NEQ:
		return precEquality
	case token.LT, token.LE, token.GT, token.GE:
		return precCompare
	case token.PLUS, token.MINUS:
		return precAdd
	case token.STAR, token.SLASH, token.PERCENT:
		return precMul
	default:
		return -1
	}
}

// parseExpr implements precedence-climbing binary-operator parsing over
// parseUnary as the atom.
func (p *Parser) parseExpr(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec := binPrec(p.s.Current().Kind)
		if prec < 0 || prec < minPrec {
			return left, nil
		}
		op := p.s.Advance()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Kind, Left: left, Right: right, Sp: token.Span{Start: left.Span().Start, End: right.Span().End}}
	}
}

// looksLikeCast performs the lookahead described in spec.md §4.2: '(' type-name ')' <unary-start>.
func (p *Parser) looksLikeCast() bool {
	if !p.s.Check(token.LPAREN) {
		return false
	}
	i := 1
	cur := p.s.Peek(i)
	if !(cur.Kind.IsPrimitive() || cur.Kind == token.OBJ || cur.Kind == token.IDENT) {
		return false
	}
	i++
	for p.s.Peek(i).Kind == token.DOT && p.s.Peek(i+1).Kind == token.IDENT {
		i += 2
	}
	if p.s.Peek(i).Kind != token.RPAREN {
		return false
	}
	after := p.s.Peek(i + 1)
	return startsUnary(after.Kind)
}

func startsUnary(k token.Kind) bool {
	switch k {
	case token.BANG, token.MINUS, token.IDENT, token.INT_LIT, token.FLOAT_LIT, token.STRING_LIT,
		token.CHAR_LIT, token.TRUE, token.FALSE, token.NULL, token.LPAREN, token.OBJ,
		token.I64, token.U64, token.U8, token.BOOL, token.DOUBLE, token.UNIT:
		return true
	}
	return false
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	start := p.s.Current().Span.Start
	switch {
	case p.s.Check(token.BANG), p.s.Check(token.MINUS):
		op := p.s.Advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op.Kind, Operand: operand, Sp: token.Span{Start: start, End: operand.Span().End}}, nil
	case p.looksLikeCast():
		p.s.Advance() // '('
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.s.Expect(token.RPAREN, "Expected ')' after cast type"); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.CastExpr{Type: ty, Operand: operand, Sp: token.Span{Start: start, End: operand.Span().End}}, nil
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.s.Check(token.LPAREN):
			p.s.Advance()
			var args []ast.Expr
			for !p.s.Check(token.RPAREN) {
				if len(args) > 0 {
					if _, err := p.s.Expect(token.COMMA, "Expected ',' between arguments"); err != nil {
						return nil, err
					}
				}
				a, err := p.parseExpr(precLowest)
				if err != nil {
					return nil, err
				}
				args = append(args, a)
			}
			end := p.s.Current().Span.End
			if _, err := p.s.Expect(token.RPAREN, "Expected ')' after arguments"); err != nil {
				return nil, err
			}
			e = &ast.CallExpr{Callee: e, Args: args, Sp: token.Span{Start: e.Span().Start, End: end}}
		case p.s.Check(token.DOT):
			p.s.Advance()
			name, err := p.s.Expect(token.IDENT, "Expected field or method name after '.'")
			if err != nil {
				return nil, err
			}
			e = &ast.FieldAccessExpr{Object: e, Name: name.Lexeme, Sp: token.Span{Start: e.Span().Start, End: name.Span.End}}
		case p.s.Check(token.LBRACKET):
			p.s.Advance()
			idx, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			end := p.s.Current().Span.End
			if _, err := p.s.Expect(token.RBRACKET, "Expected ']' after index"); err != nil {
				return nil, err
			}
			e = &ast.IndexExpr{Object: e, Index: idx, Sp: token.Span{Start: e.Span().Start, End: end}}
		default:
			return e, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	cur := p.s.Current()
	switch {
	case cur.Kind == token.INT_LIT, cur.Kind == token.FLOAT_LIT, cur.Kind == token.STRING_LIT, cur.Kind == token.CHAR_LIT:
		p.s.Advance()
		return &ast.Literal{Text: cur.Lexeme, Kind: cur.Kind, Sp: cur.Span}, nil
	case cur.Kind == token.TRUE, cur.Kind == token.FALSE:
		p.s.Advance()
		return &ast.Literal{Text: cur.Lexeme, Kind: cur.Kind, Sp: cur.Span}, nil
	case cur.Kind == token.NULL:
		p.s.Advance()
		return &ast.NullLit{Sp: cur.Span}, nil
	case cur.Kind == token.IDENT:
		if p.s.Peek(1).Kind == token.LBRACKET && p.s.Peek(2).Kind == token.RBRACKET {
			return p.parseArrayCtor()
		}
		p.s.Advance()
		return &ast.Identifier{Name: cur.Lexeme, Sp: cur.Span}, nil
	case cur.Kind == token.LPAREN:
		p.s.Advance()
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.s.Expect(token.RPAREN, "Expected ')' after parenthesized expression"); err != nil {
			return nil, err
		}
		return e, nil
	case cur.Kind.IsPrimitive() || cur.Kind == token.OBJ:
		return p.parseArrayCtor()
	default:
		return nil, parseErr(cur, "Expected expression")
	}
}

// parseArrayCtor parses `Type[](length)` where Type may itself be an array
// type, so `T[][](n)` constructs an array of T[] of length n.
func (p *Parser) parseArrayCtor() (ast.Expr, error) {
	start := p.s.Current().Span.Start
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	arr, ok := ty.(*ast.ArrayType)
	if !ok {
		return nil, parseErr(p.s.Current(), "Expected array constructor 'Type[](length)'")
	}
	if _, err := p.s.Expect(token.LPAREN, "Expected '(' after array type"); err != nil {
		return nil, err
	}
	length, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	end := p.s.Current().Span.End
	if _, err := p.s.Expect(token.RPAREN, "Expected ')' after array length"); err != nil {
		return nil, err
	}
	return &ast.ArrayCtorExpr{ElemType: arr.Elem, Length: length, Sp: token.Span{Start: start, End: end}}, nil
}
