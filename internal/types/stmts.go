package types

import "github.com/nifc-lang/nifc/internal/ast"

func (fc *funcCtx) checkBlock(parent *scope, b *ast.BlockStmt) error {
	sc := newScope(parent)
	for _, st := range b.Stmts {
		if err := fc.checkStmt(sc, st); err != nil {
			return err
		}
	}
	return nil
}

func (fc *funcCtx) checkStmt(sc *scope, st ast.Stmt) error {
	switch v := st.(type) {
	case *ast.BlockStmt:
		return fc.checkBlock(sc, v)
	case *ast.VarDeclStmt:
		return fc.checkVarDecl(sc, v)
	case *ast.IfStmt:
		return fc.checkIf(sc, v)
	case *ast.WhileStmt:
		return fc.checkWhile(sc, v)
	case *ast.ReturnStmt:
		return fc.checkReturn(sc, v)
	case *ast.BreakStmt:
		if fc.loopDepth == 0 {
			return typErr("TYP008", v.Sp, "'break' is only allowed inside while loops")
		}
		return nil
	case *ast.ContinueStmt:
		if fc.loopDepth == 0 {
			return typErr("TYP008", v.Sp, "'continue' is only allowed inside while loops")
		}
		return nil
	case *ast.AssignStmt:
		return fc.checkAssign(sc, v)
	case *ast.ExprStmt:
		_, err := fc.checkExpr(sc, v.Expr)
		return err
	}
	return typErr("TYP000", st.Span(), "Unsupported statement")
}

func (fc *funcCtx) checkReturn(sc *scope, v *ast.ReturnStmt) error {
	if v.Value == nil {
		if fc.retType.Name != "unit" {
			return typErrf("TYP001", v.Sp, "Bare 'return;' requires a 'unit' return type, got '%s'", fc.retType.Name)
		}
		return nil
	}
	t, err := fc.checkExpr(sc, v.Value)
	if err != nil {
		return err
	}
	if !assignable(fc.retType, t) {
		return typErrf("TYP001", v.Value.Span(), "Return value of type '%s' does not match declared return type '%s'", t.Name, fc.retType.Name)
	}
	return nil
}

func (fc *funcCtx) checkVarDecl(sc *scope, v *ast.VarDeclStmt) error {
	declared, err := fc.c.resolveTypeRefShallow(fc.mc, v.Type)
	if err != nil {
		return err
	}
	if v.Init != nil {
		initType, err := fc.checkExpr(sc, v.Init)
		if err != nil {
			return err
		}
		if !assignable(declared, initType) {
			return typErrf("TYP001", v.Init.Span(), "Cannot initialize '%s' with value of type '%s'", declared.Name, initType.Name)
		}
	}
	sc.define(v.Name, declared)
	return nil
}

func (fc *funcCtx) checkIf(sc *scope, v *ast.IfStmt) error {
	condType, err := fc.checkExpr(sc, v.Cond)
	if err != nil {
		return err
	}
	if condType.Name != "bool" {
		return typErrf("TYP001", v.Cond.Span(), "'if' condition must be bool, got '%s'", condType.Name)
	}
	if err := fc.checkBlock(sc, v.Then); err != nil {
		return err
	}
	switch e := v.Else.(type) {
	case *ast.BlockStmt:
		return fc.checkBlock(sc, e)
	case *ast.IfStmt:
		return fc.checkIf(sc, e)
	}
	return nil
}

func (fc *funcCtx) checkWhile(sc *scope, v *ast.WhileStmt) error {
	condType, err := fc.checkExpr(sc, v.Cond)
	if err != nil {
		return err
	}
	if condType.Name != "bool" {
		return typErrf("TYP001", v.Cond.Span(), "'while' condition must be bool, got '%s'", condType.Name)
	}
	fc.loopDepth++
	defer func() { fc.loopDepth-- }()
	return fc.checkBlock(sc, v.Body)
}

// blockAlwaysReturns implements spec.md §4.4's return-path check: an
// if-else where both arms return, a block whose final statement returns,
// and a return itself are the only forms that guarantee return.
func blockAlwaysReturns(b *ast.BlockStmt) bool {
	if len(b.Stmts) == 0 {
		return false
	}
	return stmtAlwaysReturns(b.Stmts[len(b.Stmts)-1])
}

func stmtAlwaysReturns(st ast.Stmt) bool {
	switch v := st.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.BlockStmt:
		return blockAlwaysReturns(v)
	case *ast.IfStmt:
		if v.Else == nil {
			return false
		}
		thenReturns := blockAlwaysReturns(v.Then)
		var elseReturns bool
		switch e := v.Else.(type) {
		case *ast.BlockStmt:
			elseReturns = blockAlwaysReturns(e)
		case *ast.IfStmt:
			elseReturns = stmtAlwaysReturns(e)
		}
		return thenReturns && elseReturns
	}
	return false
}
