package types

import (
	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/token"
)

// funcCtx is the checking context for one function or method body.
type funcCtx struct {
	c         *Checker
	mc        *moduleCtx
	class     *ClassInfo // non-nil when checking a method body
	loopDepth int
	retType   TypeInfo
}

func (c *Checker) checkModuleBodies(modPath string, m *ast.ModuleAst) error {
	mc := c.modCtx[modPath]
	for _, fd := range m.Functions {
		if fd.Body == nil {
			continue
		}
		sig := mc.funcs[fd.Name]
		fc := &funcCtx{c: c, mc: mc, retType: sig.Return}
		sc := newScope(nil)
		for i, p := range fd.Params {
			sc.define(p.Name, sig.Params[i])
		}
		if err := fc.checkBlock(sc, fd.Body); err != nil {
			return err
		}
		if sig.Return.Name != "unit" {
			if !blockAlwaysReturns(fd.Body) {
				return typErr("TYP007", fd.Sp, "Non-unit function must return on all paths")
			}
		}
	}
	for _, cd := range m.Classes {
		ci := mc.classes[cd.Name]
		for _, md := range cd.Methods {
			sig := ci.Methods[md.Name]
			fc := &funcCtx{c: c, mc: mc, class: ci, retType: sig.Return}
			sc := newScope(nil)
			for i, p := range md.Params {
				sc.define(p.Name, sig.Params[i])
			}
			if err := fc.checkBlock(sc, md.Body); err != nil {
				return err
			}
			if sig.Return.Name != "unit" {
				if !blockAlwaysReturns(md.Body) {
					return typErr("TYP007", md.Sp, "Non-unit function must return on all paths")
				}
			}
		}
	}
	return nil
}

// ---- identifier / member resolution ----

func (fc *funcCtx) resolveClassByBareName(name string) (*ClassInfo, bool) {
	if ci, ok := fc.mc.classes[name]; ok {
		return ci, true
	}
	if fc.c.program == nil {
		return nil, false
	}
	seen := map[string]*ClassInfo{}
	for _, imp := range fc.mc.imports {
		modInfo, ok := fc.c.program.Modules[imp.ModulePath.String()]
		if !ok {
			continue
		}
		for _, cd := range modInfo.AST.Classes {
			if cd.Name == name && cd.IsExport {
				canonical := CanonicalClassName(imp.ModulePath.String(), name)
				if ci, ok := fc.c.classes[canonical]; ok {
					seen[canonical] = ci
				}
			}
		}
	}
	if len(seen) == 1 {
		for _, ci := range seen {
			return ci, true
		}
	}
	return nil, false
}

// resolveIdentifierValue resolves a bare identifier used as a value
// expression, per spec.md §4.4's order: locals/params; implicit field of
// the enclosing class (for method bodies); same-module function; same-module
// class (as a constructor-callable); unique unqualified imported class;
// imported module alias.
func (fc *funcCtx) resolveIdentifierValue(sc *scope, name string, sp token.Span) (TypeInfo, error) {
	if t, ok := sc.lookup(name); ok {
		return t, nil
	}
	if fc.class != nil {
		if t, ok := fc.class.Fields[name]; ok {
			return t, nil
		}
	}
	if sig, ok := fc.mc.funcs[name]; ok {
		return CallableFunction(sig.Name), nil
	}
	if ci, ok := fc.resolveClassByBareName(name); ok {
		return CallableClass(ci.Name), nil
	}
	if imp, ok := fc.mc.imports[name]; ok {
		return ModuleRef(imp.ModulePath.String()), nil
	}
	return TypeInfo{}, typErrf("TYP002", sp, "Unknown identifier '%s'", name)
}

func (fc *funcCtx) checkExpr(sc *scope, e ast.Expr) (TypeInfo, error) {
	switch v := e.(type) {
	case *ast.Literal:
		return fc.c.checkLiteral(v)
	case *ast.NullLit:
		return Null, nil
	case *ast.Identifier:
		t, err := fc.resolveIdentifierValue(sc, v.Name, v.Sp)
		if err != nil {
			return TypeInfo{}, err
		}
		if t.Kind == KindModule {
			return TypeInfo{}, typErrf("TYP001", v.Sp, "Module alias '%s' is not a value", v.Name)
		}
		return t, nil
	case *ast.UnaryExpr:
		return fc.checkUnary(sc, v)
	case *ast.BinaryExpr:
		return fc.checkBinary(sc, v)
	case *ast.CastExpr:
		return fc.checkCast(sc, v)
	case *ast.CallExpr:
		return fc.checkCall(sc, v)
	case *ast.FieldAccessExpr:
		return fc.checkFieldAccess(sc, v)
	case *ast.IndexExpr:
		return fc.checkIndex(sc, v)
	case *ast.ArrayCtorExpr:
		return fc.checkArrayCtor(sc, v)
	}
	return TypeInfo{}, typErr("TYP000", e.Span(), "Unsupported expression")
}

func (fc *funcCtx) checkUnary(sc *scope, v *ast.UnaryExpr) (TypeInfo, error) {
	if v.Op.String() == "-" && isMaxNegI64Literal(v.Operand) {
		return I64, nil
	}
	t, err := fc.checkExpr(sc, v.Operand)
	if err != nil {
		return TypeInfo{}, err
	}
	switch v.Op.String() {
	case "!":
		if t.Name != "bool" {
			return TypeInfo{}, typErrf("TYP001", v.Sp, "Unary '!' requires bool, got '%s'", t.Name)
		}
		return Bool, nil
	case "-":
		if !IsNumeric(t) {
			return TypeInfo{}, typErrf("TYP001", v.Sp, "Unary '-' requires a numeric type, got '%s'", t.Name)
		}
		return t, nil
	}
	return TypeInfo{}, typErr("TYP000", v.Sp, "Unknown unary operator")
}

func (fc *funcCtx) checkBinary(sc *scope, v *ast.BinaryExpr) (TypeInfo, error) {
	l, err := fc.checkExpr(sc, v.Left)
	if err != nil {
		return TypeInfo{}, err
	}
	r, err := fc.checkExpr(sc, v.Right)
	if err != nil {
		return TypeInfo{}, err
	}
	switch v.Op.String() {
	case "+", "-", "*", "/":
		if !IsNumeric(l) || !SameNamed(l, r) {
			return TypeInfo{}, typErrf("TYP001", v.Sp, "Arithmetic operands must have the same numeric type, got '%s' and '%s'", l.Name, r.Name)
		}
		return l, nil
	case "%":
		if !IsNumeric(l) || l.Name == "double" || !SameNamed(l, r) {
			return TypeInfo{}, typErrf("TYP001", v.Sp, "'%%' requires matching non-double numeric operands, got '%s' and '%s'", l.Name, r.Name)
		}
		return l, nil
	case "<", "<=", ">", ">=":
		if !IsNumeric(l) || !SameNamed(l, r) {
			return TypeInfo{}, typErrf("TYP001", v.Sp, "Comparison operands must have the same numeric type, got '%s' and '%s'", l.Name, r.Name)
		}
		return Bool, nil
	case "==", "!=":
		if l.Name == r.Name && l.Kind == r.Kind {
			return Bool, nil
		}
		if l.Kind == KindNull && r.Kind == KindReference {
			return Bool, nil
		}
		if r.Kind == KindNull && l.Kind == KindReference {
			return Bool, nil
		}
		return TypeInfo{}, typErrf("TYP001", v.Sp, "Cannot compare '%s' and '%s' for equality", l.Name, r.Name)
	case "&&", "||":
		if l.Name != "bool" || r.Name != "bool" {
			return TypeInfo{}, typErrf("TYP001", v.Sp, "Logical operator requires bool operands, got '%s' and '%s'", l.Name, r.Name)
		}
		return Bool, nil
	}
	return TypeInfo{}, typErr("TYP000", v.Sp, "Unknown binary operator")
}

// assignable implements spec.md §4.4's value-assignability rule: same
// canonical name, or target is a reference and value is null, or target is
// Obj and value is any reference.
func assignable(target, value TypeInfo) bool {
	if target.Name == value.Name && target.Kind == value.Kind {
		return true
	}
	if target.Kind == KindReference && value.Kind == KindNull {
		return true
	}
	if target.Name == "Obj" && value.Kind == KindReference {
		return true
	}
	return false
}

func (fc *funcCtx) checkCast(sc *scope, v *ast.CastExpr) (TypeInfo, error) {
	target, err := fc.c.resolveTypeRefShallow(fc.mc, v.Type)
	if err != nil {
		return TypeInfo{}, err
	}
	src, err := fc.checkExpr(sc, v.Operand)
	if err != nil {
		return TypeInfo{}, err
	}
	switch {
	case target.Name == src.Name && target.Kind == src.Kind:
		return target, nil
	case target.Kind == KindPrimitive && src.Kind == KindPrimitive:
		if target.Name == "unit" || src.Name == "unit" {
			return TypeInfo{}, typErr("TYP004", v.Sp, "Cannot cast to or from 'unit'")
		}
		return target, nil
	case target.Name == "Obj" && src.Kind == KindReference:
		return target, nil
	case target.Kind == KindReference && target.Name != "Obj" && src.Name == "Obj":
		return target, nil
	}
	return TypeInfo{}, typErrf("TYP004", v.Sp, "Invalid cast from '%s' to '%s'", src.Name, ast.TypeName(v.Type))
}
