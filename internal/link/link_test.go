package link

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nifc-lang/nifc/internal/module"
)

func buildProgram(t *testing.T, files map[string]string, entry string) *module.ProgramInfo {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		full := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(src), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	prog, err := module.ResolveProgram(filepath.Join(dir, entry), dir)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	return prog
}

func TestBuildCodegenModuleOrderAndMerge(t *testing.T) {
	prog := buildProgram(t, map[string]string{
		"util.nif": `
export fn helper() -> i64 { return 7; }
`,
		"main.nif": `
import util;
fn main() -> i64 { return util.helper(); }
`,
	}, "main.nif")

	cm, err := BuildCodegenModule(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cm.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(cm.Functions))
	}
	if cm.Functions[len(cm.Functions)-1].Name != "main" {
		t.Fatalf("expected entry module's declarations to be appended last")
	}
	if err := RequireMainFunction(cm); err != nil {
		t.Fatalf("unexpected error requiring main: %v", err)
	}
}

func TestRequireMainFunctionMissing(t *testing.T) {
	prog := buildProgram(t, map[string]string{
		"main.nif": `fn helper() -> i64 { return 1; }`,
	}, "main.nif")
	cm, err := BuildCodegenModule(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := RequireMainFunction(cm); err == nil {
		t.Fatal("expected missing-main error")
	}
}

func TestRequireMainFunctionWrongReturnType(t *testing.T) {
	prog := buildProgram(t, map[string]string{
		"main.nif": `fn main() -> unit { }`,
	}, "main.nif")
	cm, err := BuildCodegenModule(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := RequireMainFunction(cm); err == nil {
		t.Fatal("expected wrong-return-type error")
	}
}
