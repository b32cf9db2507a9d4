// Package link merges a whole, pruned program's per-module ASTs into a
// single flat codegen module, in the deterministic order the code generator
// depends on for stable output.
package link

import (
	"sort"

	"github.com/nifc-lang/nifc/internal/ast"
	nifcerrors "github.com/nifc-lang/nifc/internal/errors"
	"github.com/nifc-lang/nifc/internal/module"
)

// CodegenModule is the flattened, ownership-resolved program the code
// generator consumes: one merged namespace of classes and functions, in
// link order.
type CodegenModule struct {
	Classes   []*ast.ClassDecl
	Functions []*ast.FunctionDecl

	// ClassOwner/FunctionOwner record which module path's declaration a name
	// was ultimately sourced from, for duplicate-definition diagnostics.
	ClassOwner    map[string]string
	FunctionOwner map[string]string
}

// BuildCodegenModule merges program's modules in link order: all non-entry
// modules in sorted path order, then the entry module.
func BuildCodegenModule(program *module.ProgramInfo) (*CodegenModule, error) {
	out := &CodegenModule{
		ClassOwner:    make(map[string]string),
		FunctionOwner: make(map[string]string),
	}
	classIdx := make(map[string]int)
	funcIdx := make(map[string]int)

	for _, mp := range linkOrder(program) {
		mi := program.Modules[mp]
		for _, cd := range mi.AST.Classes {
			if owner, dup := out.ClassOwner[cd.Name]; dup {
				return nil, nifcerrors.Newf("linker", nifcerrors.LNK001, &cd.Sp,
					"Duplicate class symbol '%s' across modules (%s, %s)", cd.Name, owner, mp)
			}
			out.ClassOwner[cd.Name] = mp
			classIdx[cd.Name] = len(out.Classes)
			out.Classes = append(out.Classes, cd)
		}

		for _, fd := range mi.AST.Functions {
			existingIdx, seen := funcIdx[fd.Name]
			if !seen {
				out.FunctionOwner[fd.Name] = mp
				funcIdx[fd.Name] = len(out.Functions)
				out.Functions = append(out.Functions, fd)
				continue
			}
			existing := out.Functions[existingIdx]
			switch {
			case existing.Body != nil && fd.Body != nil:
				return nil, nifcerrors.Newf("linker", nifcerrors.LNK002, &fd.Sp,
					"Duplicate definition of function '%s' (%s, %s)", fd.Name, out.FunctionOwner[fd.Name], mp)
			case existing.Body == nil && fd.Body != nil:
				out.Functions[existingIdx] = fd
				out.FunctionOwner[fd.Name] = mp
			default:
				// existing already has a body, or neither does: keep the first.
			}
		}
	}
	return out, nil
}

// linkOrder returns every module path with all non-entry modules sorted
// lexically first, then the entry module last.
func linkOrder(program *module.ProgramInfo) []string {
	entry := program.EntryModule.String()
	var rest []string
	for mp := range program.Modules {
		if mp != entry {
			rest = append(rest, mp)
		}
	}
	sort.Strings(rest)
	return append(rest, entry)
}

// RequireMainFunction checks that m defines a usable program entry point:
// `main` must exist, have a body, take no parameters, and return i64.
func RequireMainFunction(m *CodegenModule) error {
	for _, fd := range m.Functions {
		if fd.Name != "main" {
			continue
		}
		if fd.Body == nil {
			return nifcerrors.New("linker", nifcerrors.LNK003, "'main' must not be extern", &fd.Sp)
		}
		if len(fd.Params) != 0 {
			return nifcerrors.New("linker", nifcerrors.LNK003, "'main' must take no parameters", &fd.Sp)
		}
		if rt, ok := fd.ReturnType.(*ast.NamedType); !ok || rt.Name != "i64" {
			return nifcerrors.New("linker", nifcerrors.LNK003, "'main' must return 'i64'", &fd.Sp)
		}
		return nil
	}
	return nifcerrors.New("linker", nifcerrors.LNK003, "Program has no 'main' function", nil)
}
