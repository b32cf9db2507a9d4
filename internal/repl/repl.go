// Package repl is an interactive lex/parse/typecheck loop for single
// top-level declarations and expressions, evaluated against an
// accumulated in-memory program. nifc has no interpreter (it only emits
// assembly), so the REPL's value is fast feedback on whether a
// declaration or expression is well-formed and well-typed.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/nifc-lang/nifc/internal/ast"
	nifcerrors "github.com/nifc-lang/nifc/internal/errors"
	"github.com/nifc-lang/nifc/internal/lexer"
	"github.com/nifc-lang/nifc/internal/parser"
	"github.com/nifc-lang/nifc/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// REPL accumulates well-typed top-level declarations into a single
// in-memory module AST.
type REPL struct {
	version string
	acc     *ast.ModuleAst
}

// New creates an empty REPL session.
func New(version string) *REPL {
	if version == "" {
		version = "dev"
	}
	return &REPL{version: version, acc: &ast.ModuleAst{}}
}

// Start runs the read-eval-print loop until EOF or :quit.
func (r *REPL) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".nifc_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	line.SetCompleter(func(lineText string) (c []string) {
		if !strings.HasPrefix(lineText, ":") {
			return nil
		}
		for _, cmd := range []string{":help", ":quit", ":reset", ":history"} {
			if strings.HasPrefix(cmd, lineText) {
				c = append(c, cmd)
			}
		}
		return c
	})

	fmt.Fprintf(out, "%s %s\n", bold("nifc"), bold(r.version))
	fmt.Fprintln(out, "Type :help for help, :quit to exit")
	fmt.Fprintln(out)

	for {
		input, err := line.Prompt("nifc> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("goodbye"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if input == ":quit" || input == ":q" {
				fmt.Fprintln(out, green("goodbye"))
				break
			}
			r.handleCommand(input, out)
			continue
		}
		r.evalLine(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (r *REPL) evalLine(input string, out io.Writer) {
	if isDeclaration(input) {
		r.addDeclaration(input, out)
		return
	}
	r.checkExpression(input, out)
}

func isDeclaration(src string) bool {
	for _, kw := range []string{"fn ", "class ", "export ", "import ", "extern "} {
		if strings.HasPrefix(src, kw) {
			return true
		}
	}
	return false
}

func (r *REPL) addDeclaration(src string, out io.Writer) {
	m, err := parseSnippet(src)
	if err != nil {
		printErr(out, err)
		return
	}
	merged := mergeModules(r.acc, m)
	if err := typecheckStandalone(merged); err != nil {
		printErr(out, err)
		return
	}
	r.acc = merged
	fmt.Fprintln(out, green("ok"))
}

func (r *REPL) checkExpression(src string, out io.Writer) {
	wrapped := "fn __repl_expr() -> unit {\n" + src + ";\n}\n"
	m, err := parseSnippet(wrapped)
	if err != nil {
		printErr(out, err)
		return
	}
	merged := mergeModules(r.acc, m)
	if err := typecheckStandalone(merged); err != nil {
		printErr(out, err)
		return
	}
	fmt.Fprintln(out, green("ok"))
}

func parseSnippet(src string) (*ast.ModuleAst, error) {
	toks, err := lexer.Lex([]byte(src), "<repl>")
	if err != nil {
		return nil, err
	}
	return parser.Parse(toks)
}

func mergeModules(base, addition *ast.ModuleAst) *ast.ModuleAst {
	out := &ast.ModuleAst{
		Imports:   append(append([]*ast.ImportDecl{}, base.Imports...), addition.Imports...),
		Classes:   append(append([]*ast.ClassDecl{}, base.Classes...), addition.Classes...),
		Functions: append(append([]*ast.FunctionDecl{}, base.Functions...), addition.Functions...),
	}
	return out
}

// typecheckStandalone checks m as a single, import-free module. The REPL
// never has real cross-file imports to resolve, so this skips building a
// synthetic module.ProgramInfo and goes straight to types.Typecheck.
func typecheckStandalone(m *ast.ModuleAst) error {
	return types.Typecheck(m)
}

func printErr(out io.Writer, err error) {
	if rep, ok := nifcerrors.AsReport(err); ok {
		fmt.Fprintf(out, "%s %s: %s\n", red("error"), yellow(rep.Code), rep.Message)
		return
	}
	fmt.Fprintf(out, "%s %v\n", red("error"), err)
}
