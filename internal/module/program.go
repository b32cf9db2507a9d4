// Package module resolves the multi-file module graph reachable from an
// entry source file: it maps module paths to filesystem paths, builds
// per-module symbol and import tables, and enforces export visibility.
package module

import (
	"strings"

	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/token"
)

// Path is an ordered sequence of module-path segments, e.g. ["util", "math"].
type Path []string

// String renders the path using "." as the canonical joiner, e.g. "util.math".
func (p Path) String() string { return strings.Join(p, ".") }

// Alias is the last segment of the path, used as the import alias.
func (p Path) Alias() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Equal reports whether p and other name the same module.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// SymbolKind distinguishes a class declaration from a function declaration.
type SymbolKind int

const (
	SymbolClass SymbolKind = iota
	SymbolFunction
)

// SymbolInfo records one top-level declaration in a module.
type SymbolInfo struct {
	Name     string
	Kind     SymbolKind
	IsExport bool
	Span     token.Span
}

// ImportInfo records one import declaration, keyed by its alias.
type ImportInfo struct {
	Alias      string
	ModulePath Path
	IsExport   bool
	Span       token.Span
}

// ModuleInfo is everything the resolver knows about one loaded module.
type ModuleInfo struct {
	ModulePath Path
	FilePath   string
	AST        *ast.ModuleAst

	// Symbols maps every top-level declaration name to its SymbolInfo.
	Symbols map[string]*SymbolInfo
	// ExportedSymbols is the subset of Symbols with IsExport set.
	ExportedSymbols map[string]*SymbolInfo
	// Imports maps alias -> ImportInfo for every import in this module.
	Imports map[string]*ImportInfo
	// ExportedModules is the subset of Imports re-exported (export import).
	ExportedModules map[string]*ImportInfo
}

// ProgramInfo is the resolved, whole-program module graph.
type ProgramInfo struct {
	EntryModule Path
	Modules     map[string]*ModuleInfo // keyed by ModulePath.String()
}

// Module looks up a module by path.
func (p *ProgramInfo) Module(path Path) (*ModuleInfo, bool) {
	m, ok := p.Modules[path.String()]
	return m, ok
}
