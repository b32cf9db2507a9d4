package codegen

import (
	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/token"
)

// inferExprType re-derives an already-type-checked expression's static type
// name from the program's layout/signature tables. Codegen runs after a
// full program has passed the type checker, so this never has to reject
// anything; it only needs enough precision to choose instruction forms
// (double vs. integer arithmetic, reference vs. primitive loads).
func inferExprType(ec *EmitContext, e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Literal:
		switch v.Kind {
		case token.STRING_LIT:
			return "Str"
		case token.CHAR_LIT:
			return "u8"
		case token.TRUE, token.FALSE:
			return "bool"
		case token.FLOAT_LIT:
			return "double"
		case token.INT_LIT:
			return inferNumberLiteralType(v.Text)
		}
		return "i64"
	case *ast.NullLit:
		return "null"
	case *ast.Identifier:
		return ec.identifierType(v.Name)
	case *ast.UnaryExpr:
		return inferExprType(ec, v.Operand)
	case *ast.BinaryExpr:
		switch v.Op {
		case token.LT, token.LE, token.GT, token.GE, token.EQ, token.NEQ, token.AND, token.OR:
			return "bool"
		}
		return inferExprType(ec, v.Left)
	case *ast.CastExpr:
		return typeRefName(v.Type)
	case *ast.CallExpr:
		return inferCallType(ec, v)
	case *ast.FieldAccessExpr:
		return inferFieldAccessType(ec, v)
	case *ast.IndexExpr:
		return inferIndexType(ec, v)
	case *ast.ArrayCtorExpr:
		return typeRefName(v.ElemType) + "[]"
	}
	return "i64"
}

func inferNumberLiteralType(text string) string {
	if len(text) >= 2 && text[len(text)-2:] == "u8" {
		return "u8"
	}
	if len(text) >= 1 && text[len(text)-1] == 'u' {
		return "u64"
	}
	return "i64"
}

func (ec *EmitContext) identifierType(name string) string {
	if t, ok := ec.Layout.SlotTypeNames[name]; ok {
		return t
	}
	if ec.CurrentClass != "" {
		if t, ok := ec.ClassFieldTypeNames[methodKey{Type: ec.CurrentClass, Name: name}]; ok {
			return t
		}
	}
	if t, ok := ec.FunctionReturnTypes[name]; ok {
		return t
	}
	return "Obj"
}

func inferCallType(ec *EmitContext, call *ast.CallExpr) string {
	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		if rt, ok := ec.FunctionReturnTypes[callee.Name]; ok {
			return rt
		}
		// class constructor
		return callee.Name
	case *ast.FieldAccessExpr:
		objType := inferExprType(ec, callee.Object)
		if elem, ok := arrayElemTypeName(objType); ok {
			switch callee.Name {
			case "len":
				return "u64"
			case "get":
				return elem
			case "set":
				return "unit"
			case "slice":
				return elem + "[]"
			}
		}
		if objType == "Str" && callee.Name == "len" {
			return "u64"
		}
		if rt, ok := ec.MethodReturnTypes[methodKey{Type: objType, Name: callee.Name}]; ok {
			return rt
		}
		if rt, ok := ec.FunctionReturnTypes[callee.Name]; ok {
			return rt
		}
		return "Obj"
	}
	return "Obj"
}

var boxValueTypeNames = map[string]string{
	"BoxI64": "i64", "BoxU64": "u64", "BoxU8": "u8", "BoxBool": "bool", "BoxDouble": "double",
}

func inferFieldAccessType(ec *EmitContext, fa *ast.FieldAccessExpr) string {
	objType := inferExprType(ec, fa.Object)
	if fa.Name == "value" {
		if t, ok := boxValueTypeNames[objType]; ok {
			return t
		}
	}
	if t, ok := ec.ClassFieldTypeNames[methodKey{Type: objType, Name: fa.Name}]; ok {
		return t
	}
	return "Obj"
}

func inferIndexType(ec *EmitContext, idx *ast.IndexExpr) string {
	objType := inferExprType(ec, idx.Object)
	if elem, ok := arrayElemTypeName(objType); ok {
		return elem
	}
	if objType == "Str" {
		return "u8"
	}
	if rt, ok := ec.MethodReturnTypes[methodKey{Type: objType, Name: "get"}]; ok {
		return rt
	}
	return "Obj"
}

// arrayElemTypeName reports whether t is an array type name ("T[]") and, if
// so, returns T.
func arrayElemTypeName(t string) (string, bool) {
	if len(t) > 2 && t[len(t)-2:] == "[]" {
		return t[:len(t)-2], true
	}
	return "", false
}

func arrayRuntimeKind(elemType string) string {
	switch elemType {
	case "i64", "u64", "u8", "bool", "double":
		return elemType
	}
	return "ref"
}
