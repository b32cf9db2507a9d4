// Package e2e assembles small complete programs through every compiler
// phase and asserts structural properties of the emitted assembly text:
// labels and calls exist, and rt_push_roots/rt_pop_roots are paired within
// each function body. It never shells out to an assembler or linker.
package e2e

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nifc-lang/nifc/internal/codegen"
	"github.com/nifc-lang/nifc/internal/link"
	"github.com/nifc-lang/nifc/internal/module"
	"github.com/nifc-lang/nifc/internal/reach"
	"github.com/nifc-lang/nifc/internal/types"
)

func compile(t *testing.T, files map[string]string, entry string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		full := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(src), 0o644))
	}
	prog, err := module.ResolveProgram(filepath.Join(dir, entry), dir)
	require.NoError(t, err)
	require.NoError(t, types.TypecheckProgram(prog))
	require.NoError(t, reach.Prune(prog))
	cm, err := link.BuildCodegenModule(prog)
	require.NoError(t, err)
	require.NoError(t, link.RequireMainFunction(cm))
	asm, err := codegen.EmitAsm(cm)
	require.NoError(t, err)
	return asm
}

func TestArithmeticProgramEndToEnd(t *testing.T) {
	asm := compile(t, map[string]string{
		"main.nif": `
fn fib(n: i64) -> i64 {
    if n < 2 { return n; }
    return fib(n - 1) + fib(n - 2);
}
fn main() -> i64 { return fib(10); }
`,
	}, "main.nif")

	require.Contains(t, asm, "fib:")
	require.Contains(t, asm, ".globl main")
	require.Contains(t, asm, "call fib")
	require.Contains(t, asm, ".L"+"fib_epilogue:")
}

func TestClassMethodProgramHasBalancedShadowStack(t *testing.T) {
	asm := compile(t, map[string]string{
		"main.nif": `
class Counter {
    n: i64;
    fn get() -> i64 { return n; }
    fn bump() -> i64 { n = n + 1; return n; }
}
fn main() -> i64 {
    var c: Counter = Counter(0);
    c.bump();
    c.bump();
    return c.get();
}
`,
	}, "main.nif")

	require.Contains(t, asm, "__nif_ctor_Counter:")
	require.Contains(t, asm, "__nif_method_Counter_bump:")
	requireBalancedRuntimeCalls(t, asm)
}

func TestStringLiteralProgramSeedsStrClass(t *testing.T) {
	asm := compile(t, map[string]string{
		"main.nif": `
class Str { }
fn greet() -> Str { return "hello"; }
fn main() -> i64 {
    var s: Str = greet();
    return 0;
}
`,
	}, "main.nif")

	require.Contains(t, asm, "rt_str_from_bytes")
	requireBalancedRuntimeCalls(t, asm)
}

var funcLabelRe = regexp.MustCompile(`(?m)^([A-Za-z_][A-Za-z0-9_]*):\s*$`)

// requireBalancedRuntimeCalls asserts, per function/method/constructor body,
// that rt_push_roots and rt_pop_roots occur an equal number of times (the
// codegen invariant from spec.md §8.1: every function with a nonzero root
// slot count emits both exactly once).
func requireBalancedRuntimeCalls(t *testing.T, asm string) {
	t.Helper()
	labels := funcLabelRe.FindAllStringSubmatchIndex(asm, -1)
	for i, m := range labels {
		start := m[1]
		end := len(asm)
		if i+1 < len(labels) {
			end = labels[i+1][0]
		}
		body := asm[start:end]
		push := strings.Count(body, "call rt_push_roots")
		pop := strings.Count(body, "call rt_pop_roots")
		require.Equalf(t, push, pop, "unbalanced rt_push_roots/rt_pop_roots in function body:\n%s", body)
		require.LessOrEqualf(t, push, 1, "expected at most one rt_push_roots per function body:\n%s", body)
	}
}
