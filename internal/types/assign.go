package types

import "github.com/nifc-lang/nifc/internal/ast"

var boxClassNames = map[string]bool{
	"BoxI64": true, "BoxU64": true, "BoxU8": true, "BoxBool": true, "BoxDouble": true,
}

func (fc *funcCtx) checkAssign(sc *scope, v *ast.AssignStmt) error {
	switch target := v.Target.(type) {
	case *ast.Identifier:
		t, err := fc.resolveIdentifierValue(sc, target.Name, target.Sp)
		if err != nil {
			return err
		}
		if t.Kind == KindCallable || t.Kind == KindModule {
			return typErrf("TYP001", target.Sp, "'%s' is not an assignable local", target.Name)
		}
		valType, err := fc.checkExpr(sc, v.Value)
		if err != nil {
			return err
		}
		if !assignable(t, valType) {
			return typErrf("TYP001", v.Value.Span(), "Cannot assign value of type '%s' to '%s' of type '%s'", valType.Name, target.Name, t.Name)
		}
		return nil
	case *ast.FieldAccessExpr:
		return fc.checkFieldAssign(sc, target, v)
	case *ast.IndexExpr:
		return fc.checkIndexAssign(sc, target, v)
	}
	return typErr("TYP001", v.Target.Span(), "Invalid assignment target")
}

func (fc *funcCtx) checkFieldAssign(sc *scope, target *ast.FieldAccessExpr, v *ast.AssignStmt) error {
	objType, err := fc.checkExpr(sc, target.Object)
	if err != nil {
		return err
	}
	ci, ok := fc.classOf(objType)
	if !ok {
		return typErrf("TYP001", target.Sp, "'%s' has no field '%s'", objType.Name, target.Name)
	}
	if boxClassNames[ci.Name] && target.Name == "value" {
		return typErr("TYP009", target.Sp, "Box instances are immutable")
	}
	fieldType, ok := ci.Fields[target.Name]
	if !ok {
		return typErrf("TYP001", target.Sp, "Class '%s' has no field '%s'", ci.Name, target.Name)
	}
	if err := fc.checkFieldPrivacy(ci, target.Name, target.Sp); err != nil {
		return err
	}
	valType, err := fc.checkExpr(sc, v.Value)
	if err != nil {
		return err
	}
	if !assignable(fieldType, valType) {
		return typErrf("TYP001", v.Value.Span(), "Cannot assign value of type '%s' to field '%s' of type '%s'", valType.Name, target.Name, fieldType.Name)
	}
	return nil
}

func (fc *funcCtx) checkIndexAssign(sc *scope, target *ast.IndexExpr, v *ast.AssignStmt) error {
	objType, err := fc.checkExpr(sc, target.Object)
	if err != nil {
		return err
	}
	idxType, err := fc.checkExpr(sc, target.Index)
	if err != nil {
		return err
	}
	if idxType.Name != "i64" {
		return typErrf("TYP001", target.Index.Span(), "Index must be 'i64', got '%s'", idxType.Name)
	}
	valType, err := fc.checkExpr(sc, v.Value)
	if err != nil {
		return err
	}

	if fc.c.strName != "" && objType.Name == fc.c.strName {
		return typErr("TYP009", target.Sp, "Str is immutable")
	}
	if elem, ok := IsArray(objType); ok {
		if !assignable(elem, valType) {
			return typErrf("TYP001", v.Value.Span(), "Cannot assign '%s' to array element of type '%s'", valType.Name, elem.Name)
		}
		return nil
	}
	if ci, ok := fc.classOf(objType); ok {
		elem, hasGet := ci.HasGet()
		if !hasGet || !ci.HasSet(elem) {
			return typErrf("TYP001", target.Sp, "Class '%s' does not support index assignment (requires matching get/set)", ci.Name)
		}
		if err := fc.checkMethodPrivacy(ci, "set", ci.PrivateMethods["set"], target.Sp); err != nil {
			return err
		}
		if !assignable(elem, valType) {
			return typErrf("TYP001", v.Value.Span(), "Cannot assign '%s' to '%s' via 'set'", valType.Name, elem.Name)
		}
		return nil
	}
	return typErrf("TYP001", target.Sp, "'%s' does not support index assignment", objType.Name)
}
