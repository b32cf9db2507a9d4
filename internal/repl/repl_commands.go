package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/nifc-lang/nifc/internal/ast"
)

// handleCommand processes a ":"-prefixed REPL command.
func (r *REPL) handleCommand(cmd string, out io.Writer) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case ":help", ":h":
		r.printHelp(out)

	case ":reset":
		r.acc = &ast.ModuleAst{}
		fmt.Fprintln(out, green("environment reset"))

	case ":history":
		r.printHistory(out)

	case ":clear":
		fmt.Fprint(out, "\033[H\033[2J")

	default:
		fmt.Fprintf(out, "%s unknown command %s (try :help)\n", red("error"), yellow(parts[0]))
	}
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("nifc repl"))
	fmt.Fprintln(out, "  Enter a declaration (fn/class/import/export/extern) to add it")
	fmt.Fprintln(out, "  to the session, or any other expression to typecheck it against")
	fmt.Fprintln(out, "  the accumulated declarations.")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  :help, :h     show this help")
	fmt.Fprintln(out, "  :reset        discard all accumulated declarations")
	fmt.Fprintln(out, "  :history      list declarations accumulated so far")
	fmt.Fprintln(out, "  :clear        clear the screen")
	fmt.Fprintln(out, "  :quit, :q     exit the repl")
}

func (r *REPL) printHistory(out io.Writer) {
	if len(r.acc.Functions) == 0 && len(r.acc.Classes) == 0 && len(r.acc.Imports) == 0 {
		fmt.Fprintln(out, yellow("(empty)"))
		return
	}
	for _, imp := range r.acc.Imports {
		fmt.Fprintf(out, "import %s\n", strings.Join(imp.ModulePath, "."))
	}
	for _, cd := range r.acc.Classes {
		fmt.Fprintf(out, "class %s\n", cd.Name)
	}
	for _, fd := range r.acc.Functions {
		if fd.Name == "__repl_expr" {
			continue
		}
		fmt.Fprintf(out, "fn %s\n", fd.Name)
	}
}
