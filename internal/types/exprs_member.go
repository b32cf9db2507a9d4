package types

import "github.com/nifc-lang/nifc/internal/ast"

func (fc *funcCtx) checkFieldAccess(sc *scope, fa *ast.FieldAccessExpr) (TypeInfo, error) {
	if _, _, ok := fc.aliasChain(fa); ok {
		return TypeInfo{}, typErr("TYP001", fa.Sp, "Module-qualified reference used as a value must be called or constructed")
	}
	objType, err := fc.checkExpr(sc, fa.Object)
	if err != nil {
		return TypeInfo{}, err
	}
	ci, ok := fc.classOf(objType)
	if !ok {
		return TypeInfo{}, typErrf("TYP001", fa.Sp, "'%s' has no field '%s'", objType.Name, fa.Name)
	}
	if t, ok := ci.Fields[fa.Name]; ok {
		if err := fc.checkFieldPrivacy(ci, fa.Name, fa.Sp); err != nil {
			return TypeInfo{}, err
		}
		return t, nil
	}
	if _, ok := ci.Methods[fa.Name]; ok {
		return TypeInfo{}, typErrf("TYP001", fa.Sp, "'%s' is a method; it must be called", fa.Name)
	}
	return TypeInfo{}, typErrf("TYP001", fa.Sp, "Class '%s' has no field '%s'", ci.Name, fa.Name)
}

func (fc *funcCtx) checkIndex(sc *scope, idx *ast.IndexExpr) (TypeInfo, error) {
	objType, err := fc.checkExpr(sc, idx.Object)
	if err != nil {
		return TypeInfo{}, err
	}
	idxType, err := fc.checkExpr(sc, idx.Index)
	if err != nil {
		return TypeInfo{}, err
	}
	if idxType.Name != "i64" {
		return TypeInfo{}, typErrf("TYP001", idx.Index.Span(), "Index must be 'i64', got '%s'", idxType.Name)
	}
	if elem, ok := IsArray(objType); ok {
		return elem, nil
	}
	if fc.c.strName != "" && objType.Name == fc.c.strName {
		return U8, nil
	}
	if ci, ok := fc.classOf(objType); ok {
		if elem, ok := ci.HasGet(); ok {
			if err := fc.checkMethodPrivacy(ci, "get", ci.PrivateMethods["get"], idx.Sp); err != nil {
				return TypeInfo{}, err
			}
			return elem, nil
		}
	}
	return TypeInfo{}, typErrf("TYP001", idx.Sp, "'%s' does not support indexing", objType.Name)
}

func (fc *funcCtx) checkArrayCtor(sc *scope, a *ast.ArrayCtorExpr) (TypeInfo, error) {
	elemType, err := fc.c.resolveTypeRefShallow(fc.mc, a.ElemType)
	if err != nil {
		return TypeInfo{}, err
	}
	lenType, err := fc.checkExpr(sc, a.Length)
	if err != nil {
		return TypeInfo{}, err
	}
	if lenType.Name != "u64" && lenType.Name != "i64" {
		return TypeInfo{}, typErrf("TYP001", a.Length.Span(), "Array length must be 'u64' or 'i64', got '%s'", lenType.Name)
	}
	return ArrayOf(elemType), nil
}

func (fc *funcCtx) checkArrayMethodCall(sc *scope, elem TypeInfo, fa *ast.FieldAccessExpr, call *ast.CallExpr) (TypeInfo, error) {
	args, err := fc.checkArgs(sc, call.Args)
	if err != nil {
		return TypeInfo{}, err
	}
	switch fa.Name {
	case "len":
		if len(args) != 0 {
			return TypeInfo{}, typErrf("TYP006", call.Sp, "'len' takes no arguments, got %d", len(args))
		}
		return U64, nil
	case "get":
		if len(args) != 1 || args[0].Name != "i64" {
			return TypeInfo{}, typErrf("TYP006", call.Sp, "'get' expects one 'i64' argument")
		}
		return elem, nil
	case "set":
		if len(args) != 2 || args[0].Name != "i64" || !assignable(elem, args[1]) {
			return TypeInfo{}, typErrf("TYP006", call.Sp, "'set' expects ('i64', '%s')", elem.Name)
		}
		return Unit, nil
	case "slice":
		if len(args) != 2 || args[0].Name != "i64" || args[1].Name != "i64" {
			return TypeInfo{}, typErrf("TYP006", call.Sp, "'slice' expects ('i64', 'i64')")
		}
		return ArrayOf(elem), nil
	}
	return TypeInfo{}, typErrf("TYP001", fa.Sp, "Arrays have no method '%s'", fa.Name)
}
