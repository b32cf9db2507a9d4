package types

import (
	"testing"

	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/lexer"
	"github.com/nifc-lang/nifc/internal/parser"
)

func mustModule(t *testing.T, src string) *ast.ModuleAst {
	t.Helper()
	toks, err := lexer.Lex([]byte(src), "t.nif")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	m, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return m
}

func TestTypecheckValidProgram(t *testing.T) {
	m := mustModule(t, `
fn main() -> i64 {
    var i: i64 = 0;
    var acc: i64 = 0;
    while i < 5 { acc = acc + 3; i = i + 1; }
    if acc == 15 { return 15; } else { return 1; }
}
`)
	if err := Typecheck(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTypecheckMissingReturnPath(t *testing.T) {
	m := mustModule(t, `fn f(x: i64) -> i64 { if x > 0 { return 1; } }`)
	err := Typecheck(m)
	if err == nil {
		t.Fatal("expected missing-return-path error")
	}
}

func TestTypecheckBreakOutsideLoop(t *testing.T) {
	m := mustModule(t, `fn main() -> unit { break; }`)
	err := Typecheck(m)
	if err == nil {
		t.Fatal("expected break-outside-loop error")
	}
}

func TestTypecheckArithmeticMismatch(t *testing.T) {
	m := mustModule(t, `fn f() -> i64 { return 1 + true; }`)
	if err := Typecheck(m); err == nil {
		t.Fatal("expected type mismatch error")
	}
}

func TestTypecheckClassConstructorAndFields(t *testing.T) {
	m := mustModule(t, `
class Counter {
    value: i64;
    fn get() -> i64 { return value; }
}
fn main() -> i64 {
    var c: Counter = Counter(5);
    return c.get();
}
`)
	if err := Typecheck(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTypecheckPrivateFieldViolation(t *testing.T) {
	m := mustModule(t, `
class Counter {
    private value: i64;
    fn get() -> i64 { return value; }
}
fn main() -> i64 {
    var c: Counter = Counter(5);
    return c.value;
}
`)
	if err := Typecheck(m); err == nil {
		t.Fatal("expected privacy violation error")
	}
}

func TestTypecheckStaticMethodOnInstance(t *testing.T) {
	m := mustModule(t, `
class Counter {
    value: i64;
    static fn zero() -> i64 { return 0; }
}
fn main() -> i64 {
    var c: Counter = Counter(1);
    return c.zero();
}
`)
	if err := Typecheck(m); err == nil {
		t.Fatal("expected error calling static method on instance")
	}
}

func TestTypecheckArrayIndexAndLen(t *testing.T) {
	m := mustModule(t, `
fn main() -> i64 {
    var a: i64[] = i64[](3u64);
    a.set(0, 42);
    return a.get(0) + a.len();
}
`)
	if err := Typecheck(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTypecheckArrayCovarianceRejected(t *testing.T) {
	m := mustModule(t, `
class Person { name: i64; }
fn f(people: Obj[]) -> unit { }
fn main() -> unit {
    var ps: Person[] = Person[](1u64);
    f(ps);
}
`)
	if err := Typecheck(m); err == nil {
		t.Fatal("expected array invariance to reject Person[] where Obj[] is required")
	}
}

func TestTypecheckCastRules(t *testing.T) {
	m := mustModule(t, `
fn f(o: Obj) -> Obj { return (Obj)o; }
`)
	if err := Typecheck(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTypecheckNullCastRejected(t *testing.T) {
	m := mustModule(t, `
class Foo { x: i64; }
fn f() -> Foo { return (Foo)null; }
`)
	if err := Typecheck(m); err == nil {
		t.Fatal("expected error casting null to a reference type")
	}
}

func TestTypecheckI64Boundary(t *testing.T) {
	m := mustModule(t, `fn f() -> i64 { return 9223372036854775807; }`)
	if err := Typecheck(m); err != nil {
		t.Fatalf("unexpected error at i64 max: %v", err)
	}
	m2 := mustModule(t, `fn f() -> i64 { return -9223372036854775808; }`)
	if err := Typecheck(m2); err != nil {
		t.Fatalf("unexpected error at i64 min: %v", err)
	}
}

func TestTypecheckU8Boundary(t *testing.T) {
	m := mustModule(t, `fn f() -> u8 { return 255u8; }`)
	if err := Typecheck(m); err != nil {
		t.Fatalf("unexpected error at u8 max: %v", err)
	}
	m2 := mustModule(t, `fn f() -> u8 { return 256u8; }`)
	if err := Typecheck(m2); err == nil {
		t.Fatal("expected range error for 256u8")
	}
}
