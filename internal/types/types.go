// Package types implements the whole-program nominal type checker: literal
// typing, operator rules, member/call resolution, cast rules, array and
// class structural sugar, and the non-unit return-path check.
package types

import "strings"

// Kind is the coarse category a TypeInfo belongs to.
type Kind int

const (
	KindPrimitive Kind = iota
	KindReference
	KindNull
	KindCallable
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindReference:
		return "reference"
	case KindNull:
		return "null"
	case KindCallable:
		return "callable"
	case KindModule:
		return "module"
	default:
		return "?"
	}
}

// TypeInfo is the nominal type of a value, or (transiently, during
// identifier/call/field resolution) a non-value "callable" or "module"
// reference that must be narrowed before use as a value.
type TypeInfo struct {
	Name string
	Kind Kind
	Elem *TypeInfo // non-nil only when Kind == KindReference and Name ends in "[]"
}

var (
	I64    = TypeInfo{Name: "i64", Kind: KindPrimitive}
	U64    = TypeInfo{Name: "u64", Kind: KindPrimitive}
	U8     = TypeInfo{Name: "u8", Kind: KindPrimitive}
	Bool   = TypeInfo{Name: "bool", Kind: KindPrimitive}
	Double = TypeInfo{Name: "double", Kind: KindPrimitive}
	Unit   = TypeInfo{Name: "unit", Kind: KindPrimitive}
	ObjT   = TypeInfo{Name: "Obj", Kind: KindReference}
	Null   = TypeInfo{Name: "null", Kind: KindNull}
)

// IsNumeric reports whether t is one of i64, u64, u8, double.
func IsNumeric(t TypeInfo) bool {
	switch t.Name {
	case "i64", "u64", "u8", "double":
		return t.Kind == KindPrimitive
	}
	return false
}

func IsPrimitiveName(name string) bool {
	switch name {
	case "i64", "u64", "u8", "bool", "double", "unit":
		return true
	}
	return false
}

// Ref builds a named reference type (class or Obj).
func Ref(name string) TypeInfo { return TypeInfo{Name: name, Kind: KindReference} }

// ArrayOf builds the invariant array-reference type `elem[]`.
func ArrayOf(elem TypeInfo) TypeInfo {
	e := elem
	return TypeInfo{Name: elem.Name + "[]", Kind: KindReference, Elem: &e}
}

// IsArray reports whether t is an array reference type, and if so returns
// its element type.
func IsArray(t TypeInfo) (TypeInfo, bool) {
	if t.Kind == KindReference && t.Elem != nil && strings.HasSuffix(t.Name, "[]") {
		return *t.Elem, true
	}
	return TypeInfo{}, false
}

// CallableFunction marks an identifier as resolving to a plain function.
func CallableFunction(name string) TypeInfo {
	return TypeInfo{Name: name, Kind: KindCallable}
}

// CallableClass marks an identifier as resolving to a class usable as a
// constructor callee or as the receiver of a static method call.
func CallableClass(name string) TypeInfo {
	return TypeInfo{Name: "__class__:" + name, Kind: KindCallable}
}

// ClassNameOfCallable extracts the class name from a CallableClass TypeInfo.
func ClassNameOfCallable(t TypeInfo) (string, bool) {
	if t.Kind == KindCallable && strings.HasPrefix(t.Name, "__class__:") {
		return strings.TrimPrefix(t.Name, "__class__:"), true
	}
	return "", false
}

// ModuleRef marks an identifier as resolving to an imported module alias.
func ModuleRef(path string) TypeInfo {
	return TypeInfo{Name: path, Kind: KindModule}
}

// SameNamed reports whether a and b are the identically-named type (used
// for arithmetic/comparison operand matching, which requires exact name
// equality, not just assignability).
func SameNamed(a, b TypeInfo) bool {
	return a.Name == b.Name && a.Kind == b.Kind
}

// CanonicalClassName joins a module path and a bare class name with the
// "::" qualifier, e.g. ("util", "Box") -> "util::Box".
func CanonicalClassName(modulePath, name string) string {
	if modulePath == "" {
		return name
	}
	return modulePath + "::" + name
}
