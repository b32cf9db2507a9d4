package reach

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
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	prog, err := module.ResolveProgram(filepath.Join(dir, entry), dir)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	return prog
}

func TestPruneDropsUnreachableFunction(t *testing.T) {
	prog := buildProgram(t, map[string]string{
		"main.nif": `
fn used() -> i64 { return 1; }
fn unused() -> i64 { return 2; }
fn main() -> i64 { return used(); }
`,
	}, "main.nif")

	if err := Prune(prog); err != nil {
		t.Fatalf("prune error: %v", err)
	}
	mi, _ := prog.Module(prog.EntryModule)
	names := map[string]bool{}
	for _, fd := range mi.AST.Functions {
		names[fd.Name] = true
	}
	if !names["main"] || !names["used"] {
		t.Fatalf("expected main and used kept, got %v", names)
	}
	if names["unused"] {
		t.Fatalf("expected unused dropped, got %v", names)
	}
}

func TestPruneKeepsClassUsedInMainAndDropsUnused(t *testing.T) {
	prog := buildProgram(t, map[string]string{
		"main.nif": `
class Dead { x: i64; }
class Live { x: i64; }
fn main() -> i64 {
    var v: Live = Live(1);
    return v.x;
}
`,
	}, "main.nif")

	if err := Prune(prog); err != nil {
		t.Fatalf("prune error: %v", err)
	}
	mi, _ := prog.Module(prog.EntryModule)
	names := map[string]bool{}
	for _, cd := range mi.AST.Classes {
		names[cd.Name] = true
	}
	if !names["Live"] {
		t.Fatalf("expected Live kept")
	}
	if names["Dead"] {
		t.Fatalf("expected Dead dropped")
	}
}

func TestPruneSeedsStrFromStringLiteral(t *testing.T) {
	prog := buildProgram(t, map[string]string{
		"main.nif": `
class Str { len: i64; }
fn main() -> unit {
    var s: Obj = "hi";
}
`,
	}, "main.nif")

	if err := Prune(prog); err != nil {
		t.Fatalf("prune error: %v", err)
	}
	mi, _ := prog.Module(prog.EntryModule)
	found := false
	for _, cd := range mi.AST.Classes {
		if cd.Name == "Str" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Str class kept reachable from string literal")
	}
}
