package codegen

import (
	"fmt"
	"strings"
)

// asmBuf accumulates assembly text one line at a time. Every public method
// mirrors a line category (directive, label, instruction) so emission code
// reads like the assembly it produces.
type asmBuf struct {
	b strings.Builder
}

func (w *asmBuf) line(s string) {
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *asmBuf) directive(s string) { w.line(s) }

func (w *asmBuf) label(name string) { w.line(name + ":") }

func (w *asmBuf) instr(format string, args ...any) {
	w.line("    " + fmt.Sprintf(format, args...))
}

func (w *asmBuf) comment(format string, args ...any) {
	w.line("    # " + fmt.Sprintf(format, args...))
}

func (w *asmBuf) blank() { w.b.WriteByte('\n') }

func (w *asmBuf) String() string { return w.b.String() }
