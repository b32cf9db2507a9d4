package codegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nifc-lang/nifc/internal/link"
	"github.com/nifc-lang/nifc/internal/module"
	"github.com/nifc-lang/nifc/internal/reach"
	"github.com/nifc-lang/nifc/internal/types"
)

func buildCodegenModule(t *testing.T, files map[string]string, entry string) *link.CodegenModule {
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
	return cm
}

func TestEmitAsmMinimalMain(t *testing.T) {
	cm := buildCodegenModule(t, map[string]string{
		"main.nif": `fn main() -> i64 { return 42; }`,
	}, "main.nif")

	asm, err := EmitAsm(cm)
	require.NoError(t, err)
	require.Contains(t, asm, ".intel_syntax noprefix")
	require.Contains(t, asm, ".globl main")
	require.Contains(t, asm, "main:")
	require.Contains(t, asm, "mov rax, 42")
	require.Contains(t, asm, `.section .note.GNU-stack,"",@progbits`)
}

func TestEmitAsmIsDeterministic(t *testing.T) {
	cm := buildCodegenModule(t, map[string]string{
		"main.nif": `
fn add(a: i64, b: i64) -> i64 { return a + b; }
fn main() -> i64 { return add(1, 2); }
`,
	}, "main.nif")

	a, err := EmitAsm(cm)
	require.NoError(t, err)
	b, err := EmitAsm(cm)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestEmitAsmClassWithReferenceFieldHasShadowStackFrame(t *testing.T) {
	cm := buildCodegenModule(t, map[string]string{
		"main.nif": `
class Str { }
class Box { s: Str; }
fn make(s: Str) -> Box { return Box(s); }
fn main() -> i64 {
    var b: Box = make(Str());
    return 0;
}
`,
	}, "main.nif")

	asm, err := EmitAsm(cm)
	require.NoError(t, err)
	require.Contains(t, asm, "rt_push_roots")
	require.Contains(t, asm, "rt_pop_roots")
	require.Contains(t, asm, "rt_alloc_obj")
}

func TestEmitAsmWhileLoopEmitsBranches(t *testing.T) {
	cm := buildCodegenModule(t, map[string]string{
		"main.nif": `
fn main() -> i64 {
    var i: i64 = 0;
    var acc: i64 = 0;
    while i < 5 {
        acc = acc + i;
        i = i + 1;
    }
    return acc;
}
`,
	}, "main.nif")

	asm, err := EmitAsm(cm)
	require.NoError(t, err)
	require.Contains(t, asm, "setl al")
	require.Contains(t, asm, "je ")
	require.Contains(t, asm, "jmp ")
}
