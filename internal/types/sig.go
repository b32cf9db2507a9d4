package types

// FunctionSig is the checked signature of a function or method.
type FunctionSig struct {
	Name       string
	Params     []TypeInfo
	ParamNames []string
	Return     TypeInfo
	IsStatic   bool
	IsPrivate  bool
	IsExtern   bool
}

// ClassInfo is the checked shape of a class: its fields (in declaration
// order) and its methods, indexed by name.
type ClassInfo struct {
	Name           string // canonical name, e.g. "Counter" or "util::Box"
	ModulePath     string
	Fields         map[string]TypeInfo
	FieldOrder     []string
	Methods        map[string]*FunctionSig
	PrivateFields  map[string]bool
	PrivateMethods map[string]bool
}

// FieldType looks up a field's type by name.
func (c *ClassInfo) FieldType(name string) (TypeInfo, bool) {
	t, ok := c.Fields[name]
	return t, ok
}

// HasGet reports whether the class defines the structural index-sugar
// method `get(i64) -> T`, returning T.
func (c *ClassInfo) HasGet() (TypeInfo, bool) {
	m, ok := c.Methods["get"]
	if !ok || m.IsStatic || len(m.Params) != 1 || m.Params[0].Name != "i64" {
		return TypeInfo{}, false
	}
	return m.Return, true
}

// HasSet reports whether the class defines the structural index-assignment
// sugar `set(i64, T) -> unit` matching elemType T from get().
func (c *ClassInfo) HasSet(elemType TypeInfo) bool {
	m, ok := c.Methods["set"]
	if !ok || m.IsStatic || len(m.Params) != 2 {
		return false
	}
	return m.Params[0].Name == "i64" && SameNamed(m.Params[1], elemType) && m.Return.Name == "unit"
}

// HasSlice reports whether the class defines `slice(i64, i64) -> U`.
func (c *ClassInfo) HasSlice() (TypeInfo, bool) {
	m, ok := c.Methods["slice"]
	if !ok || m.IsStatic || len(m.Params) != 2 || m.Params[0].Name != "i64" || m.Params[1].Name != "i64" {
		return TypeInfo{}, false
	}
	return m.Return, true
}
