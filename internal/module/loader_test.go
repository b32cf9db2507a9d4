package module

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveProgramMultiModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.nif", `
export class Box {
    value: i64;
}
`)
	writeFile(t, dir, "main.nif", `
import util;
fn main() -> i64 {
    var b: util.Box = util.Box(7);
    return 0;
}
`)
	prog, err := ResolveProgram(filepath.Join(dir, "main.nif"), dir)
	if err != nil {
		t.Fatalf("ResolveProgram error: %v", err)
	}
	if _, ok := prog.Module(Path{"util"}); !ok {
		t.Fatalf("expected util module to be resolved")
	}
	if _, ok := prog.Module(Path{"main"}); !ok {
		t.Fatalf("expected main module to be resolved")
	}
}

func TestResolveProgramMissingModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.nif", `import nope; fn main() -> i64 { return 0; }`)
	_, err := ResolveProgram(filepath.Join(dir, "main.nif"), dir)
	if err == nil {
		t.Fatal("expected error for missing module")
	}
}

func TestResolveProgramCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.nif", `import b; fn fa() -> i64 { return 0; }`)
	writeFile(t, dir, "b.nif", `import a; fn fb() -> i64 { return 0; }`)
	_, err := ResolveProgram(filepath.Join(dir, "a.nif"), dir)
	if err == nil {
		t.Fatal("expected cycle error")
	}
}

func TestResolveProgramDuplicateDeclaration(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.nif", `
fn main() -> i64 { return 0; }
fn main() -> i64 { return 1; }
`)
	_, err := ResolveProgram(filepath.Join(dir, "main.nif"), dir)
	if err == nil {
		t.Fatal("expected duplicate declaration error")
	}
}

func TestResolveProgramVisibilityViolation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.nif", `
class Hidden {
    value: i64;
}
`)
	writeFile(t, dir, "main.nif", `
import util;
fn main() -> i64 {
    var h: util.Hidden = util.Hidden(1);
    return 0;
}
`)
	_, err := ResolveProgram(filepath.Join(dir, "main.nif"), dir)
	if err == nil {
		t.Fatal("expected visibility violation error for non-exported class")
	}
}
