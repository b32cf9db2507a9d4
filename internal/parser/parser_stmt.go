package parser

import (
	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/token"
)

func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	start := p.s.Current().Span.Start
	if _, err := p.s.Expect(token.LBRACE, "Expected '{' to start block"); err != nil {
		return nil, err
	}
	blk := &ast.BlockStmt{}
	for !p.s.Check(token.RBRACE) {
		if p.s.AtEnd() {
			return nil, parseErr(p.s.Current(), "Unterminated block")
		}
		st, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		blk.Stmts = append(blk.Stmts, st)
	}
	end := p.s.Current().Span.End
	if _, err := p.s.Expect(token.RBRACE, "Expected '}' to close block"); err != nil {
		return nil, err
	}
	blk.Sp = token.Span{Start: start, End: end}
	return blk, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch {
	case p.s.Check(token.LBRACE):
		return p.parseBlock()
	case p.s.Check(token.VAR):
		return p.parseVarDecl()
	case p.s.Check(token.IF):
		return p.parseIf()
	case p.s.Check(token.WHILE):
		return p.parseWhile()
	case p.s.Check(token.RETURN):
		return p.parseReturn()
	case p.s.Check(token.BREAK):
		tok := p.s.Advance()
		if _, err := p.s.Expect(token.SEMI, "Expected ';' after 'break'"); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Sp: tok.Span}, nil
	case p.s.Check(token.CONTINUE):
		tok := p.s.Advance()
		if _, err := p.s.Expect(token.SEMI, "Expected ';' after 'continue'"); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{Sp: tok.Span}, nil
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseVarDecl() (ast.Stmt, error) {
	start := p.s.Current().Span.Start
	p.s.Advance() // 'var'
	name, err := p.s.Expect(token.IDENT, "Expected variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.s.Expect(token.COLON, "Expected ':' after variable name"); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if p.s.Match(token.ASSIGN) {
		init, err = p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
	}
	end := p.s.Current().Span.End
	if _, err := p.s.Expect(token.SEMI, "Expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.VarDeclStmt{Name: name.Lexeme, Type: ty, Init: init, Sp: token.Span{Start: start, End: end}}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	start := p.s.Current().Span.Start
	p.s.Advance() // 'if'
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	st := &ast.IfStmt{Cond: cond, Then: then, Sp: token.Span{Start: start, End: then.Sp.End}}
	if p.s.Match(token.ELSE) {
		if p.s.Check(token.IF) {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			st.Else = elseIf.(*ast.IfStmt)
			st.Sp.End = elseIf.Span().End
		} else {
			elseBlk, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			st.Else = elseBlk
			st.Sp.End = elseBlk.Sp.End
		}
	}
	return st, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	start := p.s.Current().Span.Start
	p.s.Advance() // 'while'
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Sp: token.Span{Start: start, End: body.Sp.End}}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	start := p.s.Current().Span.Start
	p.s.Advance() // 'return'
	var val ast.Expr
	if !p.s.Check(token.SEMI) {
		var err error
		val, err = p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
	}
	end := p.s.Current().Span.End
	if _, err := p.s.Expect(token.SEMI, "Expected ';' after return statement"); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Value: val, Sp: token.Span{Start: start, End: end}}, nil
}

// isAssignTarget reports whether e is a legal assignment target: an
// identifier, a field access, or an index expression.
func isAssignTarget(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.FieldAccessExpr, *ast.IndexExpr:
		return true
	}
	return false
}

func (p *Parser) parseExprOrAssignStmt() (ast.Stmt, error) {
	start := p.s.Current().Span.Start
	e, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if p.s.Match(token.ASSIGN) {
		if !isAssignTarget(e) {
			return nil, parseErrAt(e.Span(), "PAR005", "Invalid assignment target")
		}
		val, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		end := p.s.Current().Span.End
		if _, err := p.s.Expect(token.SEMI, "Expected ';' after assignment"); err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Target: e, Value: val, Sp: token.Span{Start: start, End: end}}, nil
	}
	end := p.s.Current().Span.End
	if _, err := p.s.Expect(token.SEMI, "Expected ';' after expression statement"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Expr: e, Sp: token.Span{Start: start, End: end}}, nil
}
