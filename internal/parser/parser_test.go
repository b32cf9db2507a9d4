package parser

import (
	"testing"

	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/lexer"
	"github.com/nifc-lang/nifc/internal/token"
)

func mustParseModule(t *testing.T, src string) *ast.ModuleAst {
	t.Helper()
	toks, err := lexer.Lex([]byte(src), "t.nif")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	m, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return m
}

func TestParseSimpleFunction(t *testing.T) {
	m := mustParseModule(t, `fn main() -> i64 { return 0; }`)
	if len(m.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(m.Functions))
	}
	fn := m.Functions[0]
	if fn.Name != "main" || fn.IsExtern || fn.Body == nil {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
}

func TestParseClassWithFieldsAndMethods(t *testing.T) {
	m := mustParseModule(t, `
export class Counter {
    private value: i64;
    fn get() -> i64 { return value; }
    static fn zero() -> i64 { return 0; }
}`)
	if len(m.Classes) != 1 {
		t.Fatalf("got %d classes, want 1", len(m.Classes))
	}
	c := m.Classes[0]
	if !c.IsExport || len(c.Fields) != 1 || len(c.Methods) != 2 {
		t.Fatalf("unexpected class shape: %+v", c)
	}
	if !c.Fields[0].IsPrivate {
		t.Fatalf("expected private field")
	}
	if !c.Methods[1].IsStatic {
		t.Fatalf("expected second method static")
	}
}

func TestParseImportWithExport(t *testing.T) {
	m := mustParseModule(t, `export import util.math;`)
	if len(m.Imports) != 1 {
		t.Fatalf("got %d imports, want 1", len(m.Imports))
	}
	imp := m.Imports[0]
	if !imp.IsExport {
		t.Fatalf("expected export import")
	}
	want := []string{"util", "math"}
	if len(imp.ModulePath) != 2 || imp.ModulePath[0] != want[0] || imp.ModulePath[1] != want[1] {
		t.Fatalf("got path %v, want %v", imp.ModulePath, want)
	}
}

func TestParseArrayType(t *testing.T) {
	m := mustParseModule(t, `fn f(a: i64[]) -> Obj[] { return a; }`)
	fn := m.Functions[0]
	if ast.TypeName(fn.Params[0].Type) != "i64[]" {
		t.Fatalf("param type = %s, want i64[]", ast.TypeName(fn.Params[0].Type))
	}
	if ast.TypeName(fn.ReturnType) != "Obj[]" {
		t.Fatalf("return type = %s, want Obj[]", ast.TypeName(fn.ReturnType))
	}
}

func TestParseIfElseIf(t *testing.T) {
	m := mustParseModule(t, `fn f() -> unit {
        if true { } else if false { } else { }
    }`)
	fn := m.Functions[0]
	ifs, ok := fn.Body.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt")
	}
	elseIf, ok := ifs.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected else-if chain")
	}
	if _, ok := elseIf.Else.(*ast.BlockStmt); !ok {
		t.Fatalf("expected trailing else block")
	}
}

func TestParseCastExpression(t *testing.T) {
	e, err := ParseExpression(lexToks(t, `(Obj)x`))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	cast, ok := e.(*ast.CastExpr)
	if !ok {
		t.Fatalf("expected CastExpr, got %T", e)
	}
	if ast.TypeName(cast.Type) != "Obj" {
		t.Fatalf("cast type = %s, want Obj", ast.TypeName(cast.Type))
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	e, err := ParseExpression(lexToks(t, `1 + 2 * 3 == 7 && true`))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	top, ok := e.(*ast.BinaryExpr)
	if !ok || top.Op.String() != "&&" {
		t.Fatalf("expected top-level &&, got %T", e)
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	_, err := lexAndParseModule(t, `fn f() -> unit { 1 + 1 = 2; }`)
	if err == nil {
		t.Fatal("expected error for invalid assignment target")
	}
}

func TestUnterminatedBlock(t *testing.T) {
	_, err := lexAndParseModule(t, `fn f() -> unit {`)
	if err == nil {
		t.Fatal("expected error for unterminated block")
	}
}

func lexToks(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := lexer.Lex([]byte(src), "t.nif")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	return toks
}

func lexAndParseModule(t *testing.T, src string) (*ast.ModuleAst, error) {
	t.Helper()
	toks, err := lexer.Lex([]byte(src), "t.nif")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	return Parse(toks)
}
