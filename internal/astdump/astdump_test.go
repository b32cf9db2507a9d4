package astdump

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nifc-lang/nifc/internal/lexer"
	"github.com/nifc-lang/nifc/internal/parser"
)

func parseModule(t *testing.T, src string) any {
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

func TestToDebugDataOmitsSpansByDefault(t *testing.T) {
	m := parseModule(t, `fn f() -> i64 { return 1; }`)
	data := ToDebugData(m, false).(map[string]any)
	if _, ok := data["sp"]; ok {
		t.Fatalf("expected 'sp' omitted when includeSpans is false, got %v", data)
	}
	fns := data["functions"].([]any)
	fn := fns[0].(map[string]any)
	if fn["name"] != "f" {
		t.Fatalf("expected function name 'f', got %v", fn["name"])
	}
}

func TestToDebugDataIncludesSpans(t *testing.T) {
	m := parseModule(t, `fn f() -> i64 { return 1; }`)
	data := ToDebugData(m, true).(map[string]any)
	if _, ok := data["sp"]; !ok {
		t.Fatalf("expected 'sp' present when includeSpans is true, got %v", data)
	}
}

func TestToDebugDataIsDeterministic(t *testing.T) {
	m := parseModule(t, `fn f() -> i64 { return 1; }`)
	a, err := ToDebugJSON(m, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ToDebugJSON(m, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("expected identical JSON across calls (-first +second):\n%s", diff)
	}
}

func TestDeepDumpMentionsNodeType(t *testing.T) {
	m := parseModule(t, `fn f() -> i64 { return 1; }`)
	out := DeepDump(m)
	if !strings.Contains(out, "ModuleAst") {
		t.Fatalf("expected deep dump to mention ModuleAst, got:\n%s", out)
	}
}
