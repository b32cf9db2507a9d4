// Package reach implements the whole-program reachability pruner: starting
// from the entry module's main function, it walks everything main can
// transitively reference and drops unreferenced functions and classes from
// every module's AST before linking.
package reach

import (
	"strings"

	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/module"
	"github.com/nifc-lang/nifc/internal/token"
	"github.com/nifc-lang/nifc/internal/types"
)

func key(modPath, name string) string { return modPath + "::" + name }

type pruner struct {
	program *module.ProgramInfo

	fseen map[string]bool
	cseen map[string]bool

	fqueue []string
	cqueue []string

	strKey  string
	strSeen bool
}

// Prune rewrites program's modules in place, keeping only functions and
// classes reachable from the entry module's main, plus the Str class if any
// string literal is used anywhere in the reachable code.
func Prune(program *module.ProgramInfo) error {
	p := &pruner{
		program: program,
		fseen:   make(map[string]bool),
		cseen:   make(map[string]bool),
	}
	if sk, ok := uniqueStrClassKey(program); ok {
		p.strKey = sk
	}

	entry := program.EntryModule.String()
	p.enqueueFunc(entry, "main")

	for len(p.fqueue) > 0 || len(p.cqueue) > 0 {
		for len(p.fqueue) > 0 {
			k := p.fqueue[0]
			p.fqueue = p.fqueue[1:]
			p.visitFunc(k)
		}
		for len(p.cqueue) > 0 {
			k := p.cqueue[0]
			p.cqueue = p.cqueue[1:]
			p.visitClass(k)
		}
	}

	for _, mi := range program.Modules {
		mp := mi.ModulePath.String()
		var keptFuncs []*ast.FunctionDecl
		for _, fd := range mi.AST.Functions {
			if p.fseen[key(mp, fd.Name)] {
				keptFuncs = append(keptFuncs, fd)
			}
		}
		mi.AST.Functions = keptFuncs

		var keptClasses []*ast.ClassDecl
		for _, cd := range mi.AST.Classes {
			if p.cseen[key(mp, cd.Name)] {
				keptClasses = append(keptClasses, cd)
			}
		}
		mi.AST.Classes = keptClasses
	}
	return nil
}

// uniqueStrClassKey mirrors the typechecker's simplified Str-discovery rule:
// a string literal seeds whichever class is the single program-wide class
// literally named Str.
func uniqueStrClassKey(program *module.ProgramInfo) (string, bool) {
	var found string
	count := 0
	for _, mi := range program.Modules {
		for _, cd := range mi.AST.Classes {
			if cd.Name == "Str" {
				found = key(mi.ModulePath.String(), cd.Name)
				count++
			}
		}
	}
	if count == 1 {
		return found, true
	}
	return "", false
}

func (p *pruner) enqueueFunc(modPath, name string) {
	k := key(modPath, name)
	if p.fseen[k] {
		return
	}
	if _, ok := findFunc(p.program, modPath, name); !ok {
		return
	}
	p.fseen[k] = true
	p.fqueue = append(p.fqueue, k)
}

func (p *pruner) enqueueClass(modPath, name string) {
	k := key(modPath, name)
	if p.cseen[k] {
		return
	}
	if _, ok := findClass(p.program, modPath, name); !ok {
		return
	}
	p.cseen[k] = true
	p.cqueue = append(p.cqueue, k)
}

func (p *pruner) seedStr() {
	if p.strKey == "" || p.strSeen {
		return
	}
	p.strSeen = true
	parts := strings.SplitN(p.strKey, "::", 2)
	p.enqueueClass(parts[0], parts[1])
}

func findFunc(program *module.ProgramInfo, modPath, name string) (*ast.FunctionDecl, bool) {
	mi, ok := program.Modules[modPath]
	if !ok {
		return nil, false
	}
	for _, fd := range mi.AST.Functions {
		if fd.Name == name {
			return fd, true
		}
	}
	return nil, false
}

func findClass(program *module.ProgramInfo, modPath, name string) (*ast.ClassDecl, bool) {
	mi, ok := program.Modules[modPath]
	if !ok {
		return nil, false
	}
	for _, cd := range mi.AST.Classes {
		if cd.Name == name {
			return cd, true
		}
	}
	return nil, false
}

// resolveClassByBareName mirrors types.Checker.resolveClassByBareName: a bare
// class name used as a type or constructor resolves to a same-module class,
// or else the unique class exported by exactly one of the module's imports.
func (p *pruner) resolveClassByBareName(modPath, name string) (string, bool) {
	if _, ok := findClass(p.program, modPath, name); ok {
		return modPath, true
	}
	mi, ok := p.program.Modules[modPath]
	if !ok {
		return "", false
	}
	seen := map[string]bool{}
	for _, imp := range mi.Imports {
		target, ok := p.program.Modules[imp.ModulePath.String()]
		if !ok {
			continue
		}
		if si, ok := target.ExportedSymbols[name]; ok && si.Kind == module.SymbolClass {
			seen[target.ModulePath.String()] = true
		}
	}
	if len(seen) == 1 {
		for mp := range seen {
			return mp, true
		}
	}
	return "", false
}

// resolveFuncByBareName mirrors the same-module-only rule the typechecker
// applies to bare-identifier calls: free functions are never imported by bare
// name, only via an explicit alias chain.
func (p *pruner) resolveFuncByBareName(modPath, name string) (string, bool) {
	if _, ok := findFunc(p.program, modPath, name); ok {
		return modPath, true
	}
	return "", false
}

func (p *pruner) visitFunc(k string) {
	parts := strings.SplitN(k, "::", 2)
	modPath, name := parts[0], parts[1]
	fd, ok := findFunc(p.program, modPath, name)
	if !ok {
		return
	}
	for _, param := range fd.Params {
		p.visitTypeRef(modPath, param.Type)
	}
	p.visitTypeRef(modPath, fd.ReturnType)
	p.visitBlock(modPath, fd.Body)
}

func (p *pruner) visitClass(k string) {
	parts := strings.SplitN(k, "::", 2)
	modPath, name := parts[0], parts[1]
	cd, ok := findClass(p.program, modPath, name)
	if !ok {
		return
	}
	for _, f := range cd.Fields {
		p.visitTypeRef(modPath, f.Type)
	}
	for _, m := range cd.Methods {
		for _, param := range m.Params {
			p.visitTypeRef(modPath, param.Type)
		}
		p.visitTypeRef(modPath, m.ReturnType)
		p.visitBlock(modPath, m.Body)
	}
}

func (p *pruner) visitTypeRef(modPath string, t ast.TypeRef) {
	if t == nil {
		return
	}
	switch v := t.(type) {
	case *ast.ArrayType:
		p.visitTypeRef(modPath, v.Elem)
	case *ast.NamedType:
		if types.IsPrimitiveName(v.Name) || v.Name == "Obj" {
			return
		}
		if i := strings.IndexByte(v.Name, '.'); i >= 0 {
			alias, rest := v.Name[:i], v.Name[i+1:]
			p.enqueueClassViaAlias(modPath, alias, rest)
			return
		}
		if owner, ok := p.resolveClassByBareName(modPath, v.Name); ok {
			p.enqueueClass(owner, v.Name)
		}
	}
}

func (p *pruner) enqueueClassViaAlias(modPath, alias, name string) {
	mi, ok := p.program.Modules[modPath]
	if !ok {
		return
	}
	imp, ok := mi.Imports[alias]
	if !ok {
		return
	}
	p.enqueueClass(imp.ModulePath.String(), name)
}

func (p *pruner) enqueueFuncOrClassViaAlias(modPath, alias, name string) {
	mi, ok := p.program.Modules[modPath]
	if !ok {
		return
	}
	imp, ok := mi.Imports[alias]
	if !ok {
		return
	}
	target := imp.ModulePath.String()
	p.enqueueFunc(target, name)
	p.enqueueClass(target, name)
}

func (p *pruner) visitBlock(modPath string, b *ast.BlockStmt) {
	if b == nil {
		return
	}
	for _, st := range b.Stmts {
		p.visitStmt(modPath, st)
	}
}

func (p *pruner) visitStmt(modPath string, st ast.Stmt) {
	switch v := st.(type) {
	case *ast.BlockStmt:
		p.visitBlock(modPath, v)
	case *ast.VarDeclStmt:
		p.visitTypeRef(modPath, v.Type)
		p.visitExpr(modPath, v.Init)
	case *ast.IfStmt:
		p.visitExpr(modPath, v.Cond)
		p.visitBlock(modPath, v.Then)
		switch e := v.Else.(type) {
		case *ast.BlockStmt:
			p.visitBlock(modPath, e)
		case *ast.IfStmt:
			p.visitStmt(modPath, e)
		}
	case *ast.WhileStmt:
		p.visitExpr(modPath, v.Cond)
		p.visitBlock(modPath, v.Body)
	case *ast.ReturnStmt:
		p.visitExpr(modPath, v.Value)
	case *ast.AssignStmt:
		p.visitExpr(modPath, v.Target)
		p.visitExpr(modPath, v.Value)
	case *ast.ExprStmt:
		p.visitExpr(modPath, v.Expr)
	}
}

func (p *pruner) visitExpr(modPath string, e ast.Expr) {
	if e == nil {
		return
	}
	switch v := e.(type) {
	case *ast.Literal:
		if v.Kind == token.STRING_LIT {
			p.seedStr()
		}
	case *ast.UnaryExpr:
		p.visitExpr(modPath, v.Operand)
	case *ast.BinaryExpr:
		p.visitExpr(modPath, v.Left)
		p.visitExpr(modPath, v.Right)
	case *ast.CastExpr:
		p.visitTypeRef(modPath, v.Type)
		p.visitExpr(modPath, v.Operand)
	case *ast.IndexExpr:
		p.visitExpr(modPath, v.Object)
		p.visitExpr(modPath, v.Index)
	case *ast.ArrayCtorExpr:
		p.visitTypeRef(modPath, v.ElemType)
		p.visitExpr(modPath, v.Length)
	case *ast.FieldAccessExpr:
		p.visitFieldAccessChain(modPath, v)
	case *ast.CallExpr:
		p.visitCall(modPath, v)
	}
}

func (p *pruner) visitFieldAccessChain(modPath string, fa *ast.FieldAccessExpr) {
	if alias, ok := fa.Object.(*ast.Identifier); ok {
		if mi, ok := p.program.Modules[modPath]; ok {
			if _, isAlias := mi.Imports[alias.Name]; isAlias {
				// a module-qualified reference used as a value (not called);
				// resolution beyond this is the type checker's job, but the
				// class/function it might name is conservatively kept live.
				p.enqueueFuncOrClassViaAlias(modPath, alias.Name, fa.Name)
				return
			}
		}
	}
	p.visitExpr(modPath, fa.Object)
}

func (p *pruner) visitCall(modPath string, call *ast.CallExpr) {
	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		if owner, ok := p.resolveFuncByBareName(modPath, callee.Name); ok {
			p.enqueueFunc(owner, callee.Name)
		}
		if owner, ok := p.resolveClassByBareName(modPath, callee.Name); ok {
			p.enqueueClass(owner, callee.Name)
		}
	case *ast.FieldAccessExpr:
		p.visitMethodOrAliasCall(modPath, callee)
	}
	for _, a := range call.Args {
		p.visitExpr(modPath, a)
	}
}

// visitMethodOrAliasCall handles `recv.name(...)`. When recv is an import
// alias, name resolves in the target module (free function, class
// constructor, or a further nested module alias). Otherwise it is an
// instance/static method call on a value; the receiver object is visited for
// its own references and the method name itself carries no separate
// function/class symbol to enqueue (it lives on whatever class recv's static
// type turns out to be, already kept reachable via that type reference).
func (p *pruner) visitMethodOrAliasCall(modPath string, fa *ast.FieldAccessExpr) {
	if alias, ok := fa.Object.(*ast.Identifier); ok {
		if mi, ok := p.program.Modules[modPath]; ok {
			if imp, isAlias := mi.Imports[alias.Name]; isAlias {
				target := imp.ModulePath.String()
				p.enqueueFunc(target, fa.Name)
				p.enqueueClass(target, fa.Name)
				return
			}
		}
	}
	p.visitExpr(modPath, fa.Object)
}
