package ast

// TypeName renders a TypeRef back to its canonical surface-syntax spelling,
// e.g. "i64", "Obj[]", "util.Box[]".
func TypeName(t TypeRef) string {
	switch v := t.(type) {
	case *NamedType:
		return v.Name
	case *ArrayType:
		return TypeName(v.Elem) + "[]"
	default:
		return "?"
	}
}
