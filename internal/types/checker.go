package types

import (
	"github.com/nifc-lang/nifc/internal/ast"
	nifcerrors "github.com/nifc-lang/nifc/internal/errors"
	"github.com/nifc-lang/nifc/internal/module"
	"github.com/nifc-lang/nifc/internal/token"
)

func typErr(code string, sp token.Span, msg string) error {
	return nifcerrors.New("typecheck", code, msg, &sp)
}

func typErrf(code string, sp token.Span, format string, args ...any) error {
	return nifcerrors.Newf("typecheck", code, &sp, format, args...)
}

// moduleCtx bundles a module's own declarations and import table for use
// while checking its bodies.
type moduleCtx struct {
	path    string // "" for single-module checking
	classes map[string]*ClassInfo // same-module classes, keyed by bare name
	funcs   map[string]*FunctionSig
	imports map[string]*module.ImportInfo
}

// Checker holds the whole-program global tables built in the collection
// phase, plus per-module contexts for the body-checking phase.
type Checker struct {
	program *module.ProgramInfo

	classes map[string]*ClassInfo    // canonical name -> info, program-wide
	modCtx  map[string]*moduleCtx    // module path string -> context
	strName string                   // resolved canonical name of the Str class, "" if none found program-wide uniquely
}

// TypecheckProgram runs the two-phase whole-program check described in
// spec.md §4.4: collect every module's declarations, then check every body.
func TypecheckProgram(program *module.ProgramInfo) error {
	c := &Checker{
		program: program,
		classes: make(map[string]*ClassInfo),
		modCtx:  make(map[string]*moduleCtx),
	}
	for _, info := range program.Modules {
		if err := c.collectModule(info.ModulePath.String(), info.AST, info.Imports); err != nil {
			return err
		}
	}
	c.resolveStrClass()
	for _, info := range program.Modules {
		if err := c.checkModuleBodies(info.ModulePath.String(), info.AST); err != nil {
			return err
		}
	}
	return nil
}

// Typecheck type-checks a single, import-free module in isolation. Exposed
// for unit tests per spec.md §4.4.
func Typecheck(m *ast.ModuleAst) error {
	c := &Checker{
		classes: make(map[string]*ClassInfo),
		modCtx:  make(map[string]*moduleCtx),
	}
	if err := c.collectModule("", m, nil); err != nil {
		return err
	}
	c.resolveStrClass()
	return c.checkModuleBodies("", m)
}

func (c *Checker) collectModule(modPath string, m *ast.ModuleAst, imports map[string]*module.ImportInfo) error {
	mc := &moduleCtx{path: modPath, classes: make(map[string]*ClassInfo), funcs: make(map[string]*FunctionSig), imports: imports}
	c.modCtx[modPath] = mc

	for _, cd := range m.Classes {
		ci, err := c.collectClassSig(modPath, cd)
		if err != nil {
			return err
		}
		mc.classes[cd.Name] = ci
		c.classes[ci.Name] = ci
	}
	for _, fd := range m.Functions {
		sig := &FunctionSig{Name: fd.Name, IsExtern: fd.IsExtern}
		for _, p := range fd.Params {
			t, err := c.resolveTypeRefShallow(mc, p.Type)
			if err != nil {
				return err
			}
			sig.Params = append(sig.Params, t)
			sig.ParamNames = append(sig.ParamNames, p.Name)
		}
		ret, err := c.resolveTypeRefShallow(mc, fd.ReturnType)
		if err != nil {
			return err
		}
		sig.Return = ret
		mc.funcs[fd.Name] = sig
	}
	return nil
}

func (c *Checker) collectClassSig(modPath string, cd *ast.ClassDecl) (*ClassInfo, error) {
	ci := &ClassInfo{
		Name:           CanonicalClassName(modPath, cd.Name),
		ModulePath:     modPath,
		Fields:         make(map[string]TypeInfo),
		Methods:        make(map[string]*FunctionSig),
		PrivateFields:  make(map[string]bool),
		PrivateMethods: make(map[string]bool),
	}
	// Field types may reference the owning module's own classes (including
	// itself for self-referential fields), so resolve shallowly against a
	// context that at minimum has the module's own class names registered.
	mc := c.modCtx[modPath]
	for _, f := range cd.Fields {
		t, err := c.resolveTypeRefShallow(mc, f.Type)
		if err != nil {
			return nil, err
		}
		if _, dup := ci.Fields[f.Name]; dup {
			return nil, typErrf("TYP000", f.Sp, "Duplicate field '%s' in class '%s'", f.Name, cd.Name)
		}
		ci.Fields[f.Name] = t
		ci.FieldOrder = append(ci.FieldOrder, f.Name)
		if f.IsPrivate {
			ci.PrivateFields[f.Name] = true
		}
	}
	for _, md := range cd.Methods {
		sig := &FunctionSig{Name: md.Name, IsStatic: md.IsStatic, IsPrivate: md.IsPrivate}
		for _, p := range md.Params {
			t, err := c.resolveTypeRefShallow(mc, p.Type)
			if err != nil {
				return nil, err
			}
			sig.Params = append(sig.Params, t)
			sig.ParamNames = append(sig.ParamNames, p.Name)
		}
		ret, err := c.resolveTypeRefShallow(mc, md.ReturnType)
		if err != nil {
			return nil, err
		}
		sig.Return = ret
		ci.Methods[md.Name] = sig
		if md.IsPrivate {
			ci.PrivateMethods[md.Name] = true
		}
	}
	return ci, nil
}

// resolveTypeRefShallow resolves a TypeRef during the collection phase, when
// not every module's classes may be registered yet. It defers cross-module
// class existence checks (those are re-validated implicitly the first time
// the type is used in a body) and only rejects unknown primitives/arrays
// eagerly.
func (c *Checker) resolveTypeRefShallow(mc *moduleCtx, t ast.TypeRef) (TypeInfo, error) {
	switch v := t.(type) {
	case *ast.ArrayType:
		elem, err := c.resolveTypeRefShallow(mc, v.Elem)
		if err != nil {
			return TypeInfo{}, err
		}
		return ArrayOf(elem), nil
	case *ast.NamedType:
		return c.resolveNamedTypeShallow(mc, v)
	}
	return TypeInfo{}, typErr("TYP000", t.Span(), "Unknown type reference")
}

func (c *Checker) resolveNamedTypeShallow(mc *moduleCtx, v *ast.NamedType) (TypeInfo, error) {
	name := v.Name
	if IsPrimitiveName(name) {
		return TypeInfo{Name: name, Kind: KindPrimitive}, nil
	}
	if name == "Obj" {
		return ObjT, nil
	}
	// dotted: alias.Name
	if idx := indexByte(name, '.'); idx >= 0 {
		alias := name[:idx]
		rest := name[idx+1:]
		if mc != nil && mc.imports != nil {
			if imp, ok := mc.imports[alias]; ok {
				return Ref(CanonicalClassName(imp.ModulePath.String(), rest)), nil
			}
		}
		return TypeInfo{}, typErrf("TYP002", v.Sp, "Unknown module alias '%s'", alias)
	}
	// bare name: same-module class (registered so far) or forward reference
	// to one declared later in the same module.
	return Ref(CanonicalClassName(mc.path, name)), nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// resolveStrClass picks the Str class for string literals: the one class
// whose bare name is Str across the whole program. This resolves one
// canonical name used for every `"..."` literal in the program. Classes
// local to the literal's module or imported into it get no precedence: if
// two or more modules declare Str, or none does, literal typing fails when
// a string literal is actually used (see checkLiteral).
func (c *Checker) resolveStrClass() {
	var found []string
	for name := range c.classes {
		if classBareName(name) == "Str" {
			found = append(found, name)
		}
	}
	if len(found) == 1 {
		c.strName = found[0]
	}
}

func classBareName(canonical string) string {
	for i := len(canonical) - 1; i >= 1; i-- {
		if canonical[i] == ':' && canonical[i-1] == ':' {
			return canonical[i+1:]
		}
	}
	return canonical
}
