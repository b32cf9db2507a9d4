// Command nifc compiles a nifc source program to GNU Intel-syntax x86-64
// assembly, or runs an earlier compiler phase in isolation for debugging.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/nifc-lang/nifc/internal/cli"
)

var (
	// Version is set by ldflags at build time.
	Version = "dev"
)

func main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		color.NoColor = true
	}

	root := cli.NewRootCmd(Version)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
