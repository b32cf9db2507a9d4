package types

import (
	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/module"
	"github.com/nifc-lang/nifc/internal/token"
)

func (fc *funcCtx) checkCall(sc *scope, call *ast.CallExpr) (TypeInfo, error) {
	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		return fc.checkCallOnIdentifier(sc, callee, call)
	case *ast.FieldAccessExpr:
		return fc.checkCallOnFieldAccess(sc, callee, call)
	}
	return TypeInfo{}, typErr("TYP001", call.Sp, "Callee must be an identifier or member access")
}

func (fc *funcCtx) checkCallOnIdentifier(sc *scope, callee *ast.Identifier, call *ast.CallExpr) (TypeInfo, error) {
	name := callee.Name
	if _, ok := sc.lookup(name); ok {
		return TypeInfo{}, typErrf("TYP001", callee.Sp, "'%s' is a local value, not callable", name)
	}
	if sig, ok := fc.mc.funcs[name]; ok {
		args, err := fc.checkArgs(sc, call.Args)
		if err != nil {
			return TypeInfo{}, err
		}
		if err := checkArity(sig, args, call.Sp); err != nil {
			return TypeInfo{}, err
		}
		return sig.Return, nil
	}
	if ci, ok := fc.resolveClassByBareName(name); ok {
		return fc.checkConstructorCall(sc, ci, call)
	}
	if _, ok := fc.mc.imports[name]; ok {
		return TypeInfo{}, typErrf("TYP001", callee.Sp, "Module alias '%s' is not directly callable", name)
	}
	return TypeInfo{}, typErrf("TYP002", callee.Sp, "Unknown identifier '%s'", name)
}

func (fc *funcCtx) checkArgs(sc *scope, args []ast.Expr) ([]TypeInfo, error) {
	out := make([]TypeInfo, len(args))
	for i, a := range args {
		t, err := fc.checkExpr(sc, a)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func checkArity(sig *FunctionSig, args []TypeInfo, sp token.Span) error {
	if len(args) != len(sig.Params) {
		return typErrf("TYP006", sp, "'%s' expects %d argument(s), got %d", sig.Name, len(sig.Params), len(args))
	}
	for i, p := range sig.Params {
		if !assignable(p, args[i]) {
			return typErrf("TYP001", sp, "Argument %d of '%s': expected '%s', got '%s'", i+1, sig.Name, p.Name, args[i].Name)
		}
	}
	return nil
}

func (fc *funcCtx) checkConstructorCall(sc *scope, ci *ClassInfo, call *ast.CallExpr) (TypeInfo, error) {
	if len(call.Args) != len(ci.FieldOrder) {
		return TypeInfo{}, typErrf("TYP006", call.Sp, "Constructor for '%s' expects %d argument(s), got %d", ci.Name, len(ci.FieldOrder), len(call.Args))
	}
	for i, fname := range ci.FieldOrder {
		t, err := fc.checkExpr(sc, call.Args[i])
		if err != nil {
			return TypeInfo{}, err
		}
		want := ci.Fields[fname]
		if !assignable(want, t) {
			return TypeInfo{}, typErrf("TYP001", call.Args[i].Span(), "Constructor argument for field '%s' of '%s': expected '%s', got '%s'", fname, ci.Name, want.Name, t.Name)
		}
	}
	return Ref(ci.Name), nil
}

// checkCallOnFieldAccess handles `obj.method(args)` and module-alias call
// chains `alias.b.c(args)`.
func (fc *funcCtx) checkCallOnFieldAccess(sc *scope, fa *ast.FieldAccessExpr, call *ast.CallExpr) (TypeInfo, error) {
	if rootAlias, segs, ok := fc.aliasChain(fa); ok {
		return fc.checkAliasChainCall(sc, rootAlias, segs, fa.Sp, call)
	}

	// obj.method(args): obj is a value expression with a reference type, or
	// a bare class name for a static method call.
	if objIdent, ok := fa.Object.(*ast.Identifier); ok {
		if ci, isClass := fc.resolveClassByBareName(objIdent.Name); isClass {
			if _, isLocal := sc.lookup(objIdent.Name); !isLocal {
				return fc.checkStaticOrInstanceMethodCall(sc, ci, fa, call, true)
			}
		}
	}

	objType, err := fc.checkExpr(sc, fa.Object)
	if err != nil {
		return TypeInfo{}, err
	}
	ci, ok := fc.classOf(objType)
	if !ok {
		if elem, isArr := IsArray(objType); isArr {
			return fc.checkArrayMethodCall(sc, elem, fa, call)
		}
		return TypeInfo{}, typErrf("TYP001", fa.Sp, "'%s' has no method '%s'", objType.Name, fa.Name)
	}
	return fc.checkStaticOrInstanceMethodCall(sc, ci, fa, call, false)
}

func (fc *funcCtx) classOf(t TypeInfo) (*ClassInfo, bool) {
	if t.Kind != KindReference || t.Name == "Obj" {
		return nil, false
	}
	if _, isArr := IsArray(t); isArr {
		return nil, false
	}
	ci, ok := fc.c.classes[t.Name]
	return ci, ok
}

func (fc *funcCtx) checkStaticOrInstanceMethodCall(sc *scope, ci *ClassInfo, fa *ast.FieldAccessExpr, call *ast.CallExpr, calleeIsClassName bool) (TypeInfo, error) {
	sig, ok := ci.Methods[fa.Name]
	if !ok {
		return TypeInfo{}, typErrf("TYP001", fa.Sp, "Class '%s' has no method '%s'", ci.Name, fa.Name)
	}
	if err := fc.checkMethodPrivacy(ci, fa.Name, sig.IsPrivate, fa.Sp); err != nil {
		return TypeInfo{}, err
	}
	if calleeIsClassName && !sig.IsStatic {
		return TypeInfo{}, typErrf("TYP001", fa.Sp, "Cannot call instance method '%s' on class '%s'; an instance is required", fa.Name, ci.Name)
	}
	if !calleeIsClassName && sig.IsStatic {
		return TypeInfo{}, typErrf("TYP001", fa.Sp, "Cannot call static method '%s' on an instance of '%s'", fa.Name, ci.Name)
	}
	args, err := fc.checkArgs(sc, call.Args)
	if err != nil {
		return TypeInfo{}, err
	}
	if err := checkArity(sig, args, call.Sp); err != nil {
		return TypeInfo{}, err
	}
	return sig.Return, nil
}

func (fc *funcCtx) checkMethodPrivacy(ci *ClassInfo, method string, isPrivate bool, sp token.Span) error {
	if !isPrivate {
		return nil
	}
	if fc.class != nil && fc.class.Name == ci.Name {
		return nil
	}
	return typErrf("TYP005", sp, "Method '%s' of class '%s' is private", method, ci.Name)
}

func (fc *funcCtx) checkFieldPrivacy(ci *ClassInfo, field string, sp token.Span) error {
	if !ci.PrivateFields[field] {
		return nil
	}
	if fc.class != nil && fc.class.Name == ci.Name {
		return nil
	}
	return typErrf("TYP005", sp, "Field '%s' of class '%s' is private", field, ci.Name)
}

// aliasChain flattens a FieldAccessExpr into (rootAlias, remainingSegments)
// if the leftmost identifier names a module import alias in scope.
func (fc *funcCtx) aliasChain(fa *ast.FieldAccessExpr) (string, []string, bool) {
	segs, rootIdent, ok := flattenFieldChain(fa)
	if !ok || len(segs) < 2 {
		return "", nil, false
	}
	if _, isAlias := fc.mc.imports[rootIdent]; !isAlias {
		return "", nil, false
	}
	return rootIdent, segs[1:], true
}

func flattenFieldChain(e ast.Expr) ([]string, string, bool) {
	var segs []string
	cur := e
	for {
		switch v := cur.(type) {
		case *ast.FieldAccessExpr:
			segs = append([]string{v.Name}, segs...)
			cur = v.Object
		case *ast.Identifier:
			segs = append([]string{v.Name}, segs...)
			return segs, v.Name, true
		default:
			return nil, "", false
		}
	}
}

// checkAliasChainCall resolves `alias.seg1...segN(args)` by descending
// through exported_symbols/exported_modules, exactly as the resolver
// validated for visibility; the last segment must be a function or class.
func (fc *funcCtx) checkAliasChainCall(sc *scope, alias string, segs []string, sp token.Span, call *ast.CallExpr) (TypeInfo, error) {
	imp := fc.mc.imports[alias]
	modPath := imp.ModulePath.String()
	var curMod *module.ModuleInfo
	if fc.c.program != nil {
		curMod = fc.c.program.Modules[modPath]
	}
	for i, seg := range segs {
		last := i == len(segs)-1
		if curMod == nil {
			return TypeInfo{}, typErrf("TYP002", sp, "Unknown module '%s'", modPath)
		}
		if sym, ok := curMod.ExportedSymbols[seg]; ok && last {
			switch sym.Kind {
			case module.SymbolFunction:
				sig := fc.c.modCtx[modPath].funcs[seg]
				args, err := fc.checkArgs(sc, call.Args)
				if err != nil {
					return TypeInfo{}, err
				}
				if err := checkArity(sig, args, call.Sp); err != nil {
					return TypeInfo{}, err
				}
				return sig.Return, nil
			case module.SymbolClass:
				ci := fc.c.classes[CanonicalClassName(modPath, seg)]
				return fc.checkConstructorCall(sc, ci, call)
			}
		}
		if nextImp, ok := curMod.ExportedModules[seg]; ok {
			modPath = nextImp.ModulePath.String()
			if fc.c.program != nil {
				curMod = fc.c.program.Modules[modPath]
			}
			continue
		}
		return TypeInfo{}, typErrf("TYP005", sp, "'%s' is not exported from module '%s'", seg, modPath)
	}
	return TypeInfo{}, typErrf("TYP001", sp, "'%s' does not resolve to a callable", alias)
}
