package module

import (
	"os"

	"github.com/nifc-lang/nifc/internal/ast"
	nifcerrors "github.com/nifc-lang/nifc/internal/errors"
	"github.com/nifc-lang/nifc/internal/lexer"
	"github.com/nifc-lang/nifc/internal/parser"
	"github.com/nifc-lang/nifc/internal/token"
)

// Loader performs the depth-first module graph load described in spec.md §4.3.
type Loader struct {
	resolver *PathResolver
	modules  map[string]*ModuleInfo
	loading  map[string]bool // currently-being-loaded set, for cycle detection
	stack    []string
}

// NewLoader creates a Loader rooted at root.
func NewLoader(root string) *Loader {
	return &Loader{
		resolver: NewPathResolver(root),
		modules:  make(map[string]*ModuleInfo),
		loading:  make(map[string]bool),
	}
}

// ResolveProgram loads entryFile and every module it transitively imports.
// projectRoot, if empty, defaults to entryFile's directory.
func ResolveProgram(entryFile, projectRoot string) (*ProgramInfo, error) {
	if projectRoot == "" {
		root, err := ProjectRootFor(entryFile)
		if err != nil {
			return nil, err
		}
		projectRoot = root
	}
	l := NewLoader(projectRoot)
	entryPath, err := l.resolver.ModuleForFile(entryFile)
	if err != nil {
		return nil, err
	}
	if err := l.load(entryPath); err != nil {
		return nil, err
	}
	if err := l.validateVisibility(); err != nil {
		return nil, err
	}
	return &ProgramInfo{EntryModule: entryPath, Modules: l.modules}, nil
}

func (l *Loader) load(mp Path) error {
	key := mp.String()
	if l.loading[key] {
		return nifcerrors.Newf("resolver", nifcerrors.RES002, nil,
			"Import cycle detected: %s", cycleChain(l.stack, key))
	}
	if _, ok := l.modules[key]; ok {
		return nil
	}
	l.loading[key] = true
	l.stack = append(l.stack, key)
	defer func() {
		delete(l.loading, key)
		l.stack = l.stack[:len(l.stack)-1]
	}()

	file := l.resolver.FileForModule(mp)
	src, err := os.ReadFile(file)
	if err != nil {
		return nifcerrors.Newf("resolver", nifcerrors.RES001, nil,
			"Module '%s' not found", mp.String())
	}
	toks, err := lexer.Lex(src, file)
	if err != nil {
		return err
	}
	modAst, err := parser.Parse(toks)
	if err != nil {
		return err
	}

	info := &ModuleInfo{
		ModulePath:      mp,
		FilePath:        file,
		AST:             modAst,
		Symbols:         make(map[string]*SymbolInfo),
		ExportedSymbols: make(map[string]*SymbolInfo),
		Imports:         make(map[string]*ImportInfo),
		ExportedModules: make(map[string]*ImportInfo),
	}

	for _, c := range modAst.Classes {
		if err := addSymbol(info, c.Name, SymbolClass, c.IsExport, c.Sp); err != nil {
			return err
		}
	}
	for _, f := range modAst.Functions {
		if err := addSymbol(info, f.Name, SymbolFunction, f.IsExport, f.Sp); err != nil {
			return err
		}
	}
	for _, imp := range modAst.Imports {
		alias := Path(imp.ModulePath).Alias()
		if _, dup := info.Imports[alias]; dup {
			return nifcerrors.Newf("resolver", nifcerrors.RES004, &imp.Sp,
				"Duplicate import alias '%s'", alias)
		}
		ii := &ImportInfo{Alias: alias, ModulePath: Path(imp.ModulePath), IsExport: imp.IsExport, Span: imp.Sp}
		info.Imports[alias] = ii
		if imp.IsExport {
			info.ExportedModules[alias] = ii
		}
	}

	// register before recursing; a re-entry while this module is still on the
	// load stack is reported as a cycle by the loading check above
	l.modules[key] = info

	for _, imp := range modAst.Imports {
		if err := l.load(Path(imp.ModulePath)); err != nil {
			return err
		}
	}
	return nil
}

func addSymbol(info *ModuleInfo, name string, kind SymbolKind, isExport bool, sp token.Span) error {
	if _, dup := info.Symbols[name]; dup {
		return nifcerrors.Newf("resolver", nifcerrors.RES003, &sp, "Duplicate declaration '%s'", name)
	}
	si := &SymbolInfo{Name: name, Kind: kind, IsExport: isExport, Span: sp}
	info.Symbols[name] = si
	if isExport {
		info.ExportedSymbols[name] = si
	}
	return nil
}

func cycleChain(stack []string, closing string) string {
	s := ""
	for i, m := range stack {
		if i > 0 {
			s += " -> "
		}
		s += m
	}
	return s + " -> " + closing
}

// validateVisibility walks every function and method body in the program
// and checks that qualified access chains `alias.x.y.z` resolve through
// exported_symbols/exported_modules at every segment.
func (l *Loader) validateVisibility() error {
	for _, info := range l.modules {
		for _, fn := range info.AST.Functions {
			if fn.Body == nil {
				continue
			}
			if err := walkBlockVisibility(l, info, fn.Body); err != nil {
				return err
			}
		}
		for _, cls := range info.AST.Classes {
			for _, m := range cls.Methods {
				if err := walkBlockVisibility(l, info, m.Body); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func walkBlockVisibility(l *Loader, owner *ModuleInfo, b *ast.BlockStmt) error {
	if b == nil {
		return nil
	}
	for _, st := range b.Stmts {
		if err := walkStmtVisibility(l, owner, st); err != nil {
			return err
		}
	}
	return nil
}

func walkStmtVisibility(l *Loader, owner *ModuleInfo, st ast.Stmt) error {
	switch s := st.(type) {
	case *ast.BlockStmt:
		return walkBlockVisibility(l, owner, s)
	case *ast.VarDeclStmt:
		if s.Init != nil {
			return walkExprVisibility(l, owner, s.Init)
		}
	case *ast.IfStmt:
		if err := walkExprVisibility(l, owner, s.Cond); err != nil {
			return err
		}
		if err := walkBlockVisibility(l, owner, s.Then); err != nil {
			return err
		}
		switch e := s.Else.(type) {
		case *ast.BlockStmt:
			return walkBlockVisibility(l, owner, e)
		case *ast.IfStmt:
			return walkStmtVisibility(l, owner, e)
		}
	case *ast.WhileStmt:
		if err := walkExprVisibility(l, owner, s.Cond); err != nil {
			return err
		}
		return walkBlockVisibility(l, owner, s.Body)
	case *ast.ReturnStmt:
		if s.Value != nil {
			return walkExprVisibility(l, owner, s.Value)
		}
	case *ast.AssignStmt:
		if err := walkExprVisibility(l, owner, s.Target); err != nil {
			return err
		}
		return walkExprVisibility(l, owner, s.Value)
	case *ast.ExprStmt:
		return walkExprVisibility(l, owner, s.Expr)
	}
	return nil
}

func walkExprVisibility(l *Loader, owner *ModuleInfo, e ast.Expr) error {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *ast.UnaryExpr:
		return walkExprVisibility(l, owner, v.Operand)
	case *ast.BinaryExpr:
		if err := walkExprVisibility(l, owner, v.Left); err != nil {
			return err
		}
		return walkExprVisibility(l, owner, v.Right)
	case *ast.CastExpr:
		return walkExprVisibility(l, owner, v.Operand)
	case *ast.CallExpr:
		if err := checkQualifiedChain(l, owner, v.Callee); err != nil {
			return err
		}
		for _, a := range v.Args {
			if err := walkExprVisibility(l, owner, a); err != nil {
				return err
			}
		}
		return nil
	case *ast.FieldAccessExpr:
		return checkQualifiedChain(l, owner, v)
	case *ast.IndexExpr:
		if err := walkExprVisibility(l, owner, v.Object); err != nil {
			return err
		}
		return walkExprVisibility(l, owner, v.Index)
	case *ast.ArrayCtorExpr:
		return walkExprVisibility(l, owner, v.Length)
	}
	return nil
}

// checkQualifiedChain validates `alias.seg1.seg2...` access chains where the
// root identifier names an import alias in owner. Non-alias-rooted chains
// (plain field/method access on a value) are not visibility-checked here;
// that is the type checker's job.
func checkQualifiedChain(l *Loader, owner *ModuleInfo, e ast.Expr) error {
	segs, rootSpan, ok := flattenChain(e)
	if !ok || len(segs) == 0 {
		return walkInnerObjectsOnly(l, owner, e)
	}
	imp, isAlias := owner.Imports[segs[0]]
	if !isAlias {
		return walkInnerObjectsOnly(l, owner, e)
	}
	mod, ok := l.modules[imp.ModulePath.String()]
	if !ok {
		return nil
	}
	cur := mod
	for i := 1; i < len(segs); i++ {
		seg := segs[i]
		if sym, ok := cur.ExportedSymbols[seg]; ok {
			if i != len(segs)-1 {
				// symbols are terminal; further segments are a type error,
				// not a visibility error, left to the type checker.
				_ = sym
			}
			return nil
		}
		if nextImp, ok := cur.ExportedModules[seg]; ok {
			next, ok := l.modules[nextImp.ModulePath.String()]
			if !ok {
				return nil
			}
			cur = next
			continue
		}
		return nifcerrors.Newf("resolver", nifcerrors.RES005, &rootSpan,
			"'%s' is not exported from module '%s'", seg, cur.ModulePath.String())
	}
	return nil
}

// flattenChain decomposes a left-nested `a.b.c` FieldAccessExpr chain (with
// a leading Identifier) into its segment names.
func flattenChain(e ast.Expr) ([]string, token.Span, bool) {
	var segs []string
	cur := e
	for {
		switch v := cur.(type) {
		case *ast.FieldAccessExpr:
			segs = append([]string{v.Name}, segs...)
			cur = v.Object
		case *ast.Identifier:
			segs = append([]string{v.Name}, segs...)
			return segs, v.Sp, true
		default:
			return nil, token.Span{}, false
		}
	}
}

func walkInnerObjectsOnly(l *Loader, owner *ModuleInfo, e ast.Expr) error {
	if fa, ok := e.(*ast.FieldAccessExpr); ok {
		return walkExprVisibility(l, owner, fa.Object)
	}
	return nil
}
