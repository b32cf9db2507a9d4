package parser

import (
	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/token"
)

func (p *Parser) parseClass(isExport bool) (*ast.ClassDecl, error) {
	start := p.s.Current().Span.Start
	if _, err := p.s.Expect(token.CLASS, "Expected 'class'"); err != nil {
		return nil, err
	}
	name, err := p.s.Expect(token.IDENT, "Expected class name")
	if err != nil {
		return nil, err
	}
	if _, err := p.s.Expect(token.LBRACE, "Expected '{' after class name"); err != nil {
		return nil, err
	}

	cls := &ast.ClassDecl{Name: name.Lexeme, IsExport: isExport}
	for !p.s.Check(token.RBRACE) {
		if p.s.AtEnd() {
			return nil, parseErr(p.s.Current(), "Expected '}' after class body")
		}
		isMethodPrivate := p.s.Check(token.PRIVATE) && (p.s.Peek(1).Kind == token.FN || p.s.Peek(1).Kind == token.STATIC)
		if p.s.Check(token.STATIC) || isMethodPrivate || p.s.Check(token.FN) {
			m, err := p.parseMethod()
			if err != nil {
				return nil, err
			}
			cls.Methods = append(cls.Methods, m)
			continue
		}
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		cls.Fields = append(cls.Fields, f)
	}
	end := p.s.Current().Span.End
	if _, err := p.s.Expect(token.RBRACE, "Expected '}' after class body"); err != nil {
		return nil, err
	}
	cls.Sp = token.Span{Start: start, End: end}
	return cls, nil
}

func (p *Parser) parseField() (*ast.FieldDecl, error) {
	start := p.s.Current().Span.Start
	isPrivate := p.s.Match(token.PRIVATE)
	name, err := p.s.Expect(token.IDENT, "Expected field name")
	if err != nil {
		return nil, err
	}
	if _, err := p.s.Expect(token.COLON, "Expected ':' after field name"); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	end := p.s.Current().Span.End
	if _, err := p.s.Expect(token.SEMI, "Expected ';' after field declaration"); err != nil {
		return nil, err
	}
	return &ast.FieldDecl{Name: name.Lexeme, Type: ty, IsPrivate: isPrivate, Sp: token.Span{Start: start, End: end}}, nil
}

func (p *Parser) parseMethod() (*ast.MethodDecl, error) {
	start := p.s.Current().Span.Start
	var isStatic, isPrivate bool
	for {
		if p.s.Match(token.STATIC) {
			isStatic = true
			continue
		}
		if p.s.Match(token.PRIVATE) {
			isPrivate = true
			continue
		}
		break
	}
	if _, err := p.s.Expect(token.FN, "Expected 'fn'"); err != nil {
		return nil, err
	}
	name, err := p.s.Expect(token.IDENT, "Expected method name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.s.Expect(token.ARROW, "Expected '->' before return type"); err != nil {
		return nil, err
	}
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.MethodDecl{
		Name: name.Lexeme, Params: params, ReturnType: retType, Body: body,
		IsStatic: isStatic, IsPrivate: isPrivate,
		Sp: token.Span{Start: start, End: body.Sp.End},
	}, nil
}

func (p *Parser) parseFunction(isExport, isExtern bool) (*ast.FunctionDecl, error) {
	start := p.s.Current().Span.Start
	if _, err := p.s.Expect(token.FN, "Expected 'fn'"); err != nil {
		return nil, err
	}
	name, err := p.s.Expect(token.IDENT, "Expected function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.s.Expect(token.ARROW, "Expected '->' before return type"); err != nil {
		return nil, err
	}
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}

	fn := &ast.FunctionDecl{Name: name.Lexeme, Params: params, ReturnType: retType, IsExport: isExport, IsExtern: isExtern}
	if isExtern {
		end := p.s.Current().Span.End
		if _, err := p.s.Expect(token.SEMI, "Expected ';' after extern function declaration"); err != nil {
			return nil, err
		}
		fn.Sp = token.Span{Start: start, End: end}
		return fn, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	fn.Sp = token.Span{Start: start, End: body.Sp.End}
	return fn, nil
}

func (p *Parser) parseParams() ([]*ast.ParamDecl, error) {
	if _, err := p.s.Expect(token.LPAREN, "Expected '(' after function name"); err != nil {
		return nil, err
	}
	var params []*ast.ParamDecl
	for !p.s.Check(token.RPAREN) {
		if len(params) > 0 {
			if _, err := p.s.Expect(token.COMMA, "Expected ',' between parameters"); err != nil {
				return nil, err
			}
		}
		start := p.s.Current().Span.Start
		name, err := p.s.Expect(token.IDENT, "Expected parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.s.Expect(token.COLON, "Expected ':' after parameter name"); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.ParamDecl{Name: name.Lexeme, Type: ty, Sp: token.Span{Start: start, End: ty.Span().End}})
	}
	if _, err := p.s.Expect(token.RPAREN, "Expected ')' after parameters"); err != nil {
		return nil, err
	}
	return params, nil
}
