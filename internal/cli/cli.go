// Package cli wires the compiler phases (lexer, parser, module resolver,
// type checker, reachability pruner, linker, code generator) into the nifc
// command-line interface: the root compile command plus tokens/ast/check/
// version/repl subcommands.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nifc-lang/nifc/internal/astdump"
	"github.com/nifc-lang/nifc/internal/codegen"
	"github.com/nifc-lang/nifc/internal/config"
	nifcerrors "github.com/nifc-lang/nifc/internal/errors"
	"github.com/nifc-lang/nifc/internal/lexer"
	"github.com/nifc-lang/nifc/internal/link"
	"github.com/nifc-lang/nifc/internal/module"
	"github.com/nifc-lang/nifc/internal/parser"
	"github.com/nifc-lang/nifc/internal/reach"
	"github.com/nifc-lang/nifc/internal/repl"
	"github.com/nifc-lang/nifc/internal/types"
)

var red = color.New(color.FgRed).SprintFunc()

type options struct {
	output        string
	projectRoot   string
	stopAfter     string
	skipCheck     bool
	printTokens   bool
	printAST      bool
	printASTSpans bool
	printAsm      bool
}

// NewRootCmd builds the nifc command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "nifc [flags] <input.nif>",
		Short:         "nifc compiles nif source to x86-64 assembly",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.OutOrStdout(), args[0], opts)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	flags.StringVar(&opts.projectRoot, "project-root", "", "project root directory (default: inferred from input path)")
	flags.StringVar(&opts.stopAfter, "stop-after", "", "stop after a phase: lex, parse, check, codegen")
	flags.BoolVar(&opts.skipCheck, "skip-check", false, "skip the type checker (codegen will likely fail on unresolved types)")
	flags.BoolVar(&opts.printTokens, "print-tokens", false, "print the token stream and stop")
	flags.BoolVar(&opts.printAST, "print-ast", false, "print the parsed AST as JSON and stop")
	flags.BoolVar(&opts.printASTSpans, "print-ast-spans", false, "like --print-ast, but include source spans")
	flags.BoolVar(&opts.printAsm, "print-asm", false, "print emitted assembly to stderr in addition to the output")

	root.AddCommand(newTokensCmd(), newASTCmd(), newCheckCmd(), newVersionCmd(version), newReplCmd(version))
	return root
}

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "tokens <input.nif>",
		Short:         "print the token stream for a file",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd.OutOrStdout(), args[0])
		},
	}
}

func newASTCmd() *cobra.Command {
	var spans bool
	cmd := &cobra.Command{
		Use:           "ast <input.nif>",
		Short:         "print the parsed AST as JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAST(cmd.OutOrStdout(), args[0], spans)
		},
	}
	cmd.Flags().BoolVar(&spans, "spans", false, "include source spans")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var projectRoot string
	cmd := &cobra.Command{
		Use:           "check <input.nif>",
		Short:         "run the resolver and type checker, report errors, emit nothing",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), args[0], projectRoot)
		},
	}
	cmd.Flags().StringVar(&projectRoot, "project-root", "", "project root directory (default: inferred from input path)")
	return cmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "print the nifc version",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "nifc %s\n", version)
			return nil
		},
	}
}

func newReplCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:           "repl",
		Short:         "start an interactive declaration/expression typechecking session",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			repl.New(version).Start(cmd.OutOrStdout())
			return nil
		},
	}
}

func resolveProjectRoot(entryFile, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return module.ProjectRootFor(entryFile)
}

func loadConfig(projectRoot string) (*config.Config, error) {
	return config.LoadFromProjectRoot(projectRoot)
}

func runTokens(out io.Writer, inputPath string) error {
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return reportf(err)
	}
	toks, err := lexer.Lex(src, inputPath)
	if err != nil {
		return reportf(err)
	}
	for _, t := range toks {
		fmt.Fprintf(out, "%-14s %q  %s\n", t.Kind, t.Lexeme, t.Span)
	}
	return nil
}

func runAST(out io.Writer, inputPath string, spans bool) error {
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return reportf(err)
	}
	toks, err := lexer.Lex(src, inputPath)
	if err != nil {
		return reportf(err)
	}
	mod, err := parser.Parse(toks)
	if err != nil {
		return reportf(err)
	}
	js, err := astdump.ToDebugJSON(mod, spans)
	if err != nil {
		return reportf(err)
	}
	fmt.Fprintln(out, js)
	return nil
}

func runCheck(out io.Writer, inputPath, projectRootFlag string) error {
	projectRoot, err := resolveProjectRoot(inputPath, projectRootFlag)
	if err != nil {
		return reportf(err)
	}
	program, err := module.ResolveProgram(inputPath, projectRoot)
	if err != nil {
		return reportf(err)
	}
	if err := types.TypecheckProgram(program); err != nil {
		return reportf(err)
	}
	fmt.Fprintln(out, "ok")
	return nil
}

func runCompile(out io.Writer, inputPath string, opts *options) error {
	projectRoot, err := resolveProjectRoot(inputPath, opts.projectRoot)
	if err != nil {
		return reportf(err)
	}
	cfg, err := loadConfig(projectRoot)
	if err != nil {
		return reportf(err)
	}
	if opts.stopAfter == "" {
		opts.stopAfter = cfg.DefaultStop
	}

	src, err := os.ReadFile(inputPath)
	if err != nil {
		return reportf(err)
	}

	toks, err := lexer.Lex(src, inputPath)
	if err != nil {
		return reportf(err)
	}
	if opts.printTokens || opts.stopAfter == "lex" {
		return runTokens(out, inputPath)
	}

	standalone, err := parser.Parse(toks)
	if err != nil {
		return reportf(err)
	}
	if opts.printAST || opts.printASTSpans {
		js, jerr := astdump.ToDebugJSON(standalone, opts.printASTSpans)
		if jerr != nil {
			return reportf(jerr)
		}
		fmt.Fprintln(out, js)
		return nil
	}
	if opts.stopAfter == "parse" {
		return nil
	}

	program, err := module.ResolveProgram(inputPath, projectRoot)
	if err != nil {
		return reportf(err)
	}

	if !opts.skipCheck {
		if err := types.TypecheckProgram(program); err != nil {
			return reportf(err)
		}
	}
	if opts.stopAfter == "check" {
		return nil
	}

	if err := reach.Prune(program); err != nil {
		return reportf(err)
	}

	cm, err := link.BuildCodegenModule(program)
	if err != nil {
		return reportf(err)
	}
	if err := link.RequireMainFunction(cm); err != nil {
		return reportf(err)
	}

	asm, err := codegen.EmitAsm(cm)
	if err != nil {
		return reportf(err)
	}

	if opts.printAsm {
		fmt.Fprintln(os.Stderr, asm)
	}

	return writeOutput(opts.output, inputPath, asm)
}

func writeOutput(explicitOutput, inputPath, asm string) error {
	path := explicitOutput
	if path == "" || path == "-" {
		fmt.Print(asm)
		return nil
	}
	if err := os.WriteFile(path, []byte(asm), 0o644); err != nil {
		return reportf(err)
	}
	return nil
}

func swapExt(path, ext string) string {
	base := filepath.Base(path)
	if i := len(base) - len(filepath.Ext(base)); i > 0 {
		base = base[:i]
	}
	return filepath.Join(filepath.Dir(path), base+ext)
}

// reportf prints "nifc: <message>" to stderr, per the compiler's external
// error contract, and returns err unchanged so Execute() exits non-zero.
func reportf(err error) error {
	if rep, ok := nifcerrors.AsReport(err); ok {
		fmt.Fprintf(os.Stderr, "%s %s\n", red("nifc:"), rep.Message)
		return err
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", red("nifc:"), err)
	return err
}
