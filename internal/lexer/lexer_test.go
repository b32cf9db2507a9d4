package lexer

import (
	"testing"

	"github.com/nifc-lang/nifc/internal/token"
)

func TestNextTokenBasics(t *testing.T) {
	input := `fn main() -> i64 {
    var i: i64 = 0;
    while i < 5 { i = i + 1; }
    return i;
}
`
	tests := []struct {
		kind    token.Kind
		lexeme  string
	}{
		{token.FN, "fn"},
		{token.IDENT, "main"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.I64, "i64"},
		{token.LBRACE, "{"},
		{token.VAR, "var"},
		{token.IDENT, "i"},
		{token.COLON, ":"},
		{token.I64, "i64"},
		{token.ASSIGN, "="},
		{token.INT_LIT, "0"},
		{token.SEMI, ";"},
		{token.WHILE, "while"},
		{token.IDENT, "i"},
		{token.LT, "<"},
		{token.INT_LIT, "5"},
		{token.LBRACE, "{"},
		{token.IDENT, "i"},
		{token.ASSIGN, "="},
		{token.IDENT, "i"},
		{token.PLUS, "+"},
		{token.INT_LIT, "1"},
		{token.SEMI, ";"},
		{token.RBRACE, "}"},
		{token.RETURN, "return"},
		{token.IDENT, "i"},
		{token.SEMI, ";"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	toks, err := Lex([]byte(input), "test.nif")
	if err != nil {
		t.Fatalf("Lex() error = %v", err)
	}
	if len(toks) != len(tests) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(tests))
	}
	for i, want := range tests {
		got := toks[i]
		if got.Kind != want.kind || got.Lexeme != want.lexeme {
			t.Errorf("token %d: got {%s %q}, want {%s %q}", i, got.Kind, got.Lexeme, want.kind, want.lexeme)
		}
	}
}

func TestEOFAtEndPosition(t *testing.T) {
	toks, err := Lex([]byte("var x : i64 ;"), "t.nif")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := toks[len(toks)-1]
	if last.Kind != token.EOF {
		t.Fatalf("last token kind = %s, want EOF", last.Kind)
	}
	if last.Span.Start.Offset != 13 {
		t.Fatalf("EOF offset = %d, want 13 (end of input)", last.Span.Start.Offset)
	}
}

func TestNumberSuffixes(t *testing.T) {
	toks, err := Lex([]byte("255u8 18446744073709551615u 42"), "t.nif")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantLex := []string{"255u8", "18446744073709551615u", "42", ""}
	for i, w := range wantLex {
		if toks[i].Lexeme != w {
			t.Errorf("token %d lexeme = %q, want %q", i, toks[i].Lexeme, w)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks, err := Lex([]byte(`"hi\n\x41"`), "t.nif")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.STRING_LIT {
		t.Fatalf("kind = %s, want STRING_LIT", toks[0].Kind)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, err := Lex([]byte(`"hi`), "t.nif")
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestInvalidEscape(t *testing.T) {
	_, err := Lex([]byte(`"\q"`), "t.nif")
	if err == nil {
		t.Fatal("expected error for invalid escape")
	}
}

func TestCharLiteral(t *testing.T) {
	toks, err := Lex([]byte(`'a' '\n' '\x41'`), "t.nif")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if toks[i].Kind != token.CHAR_LIT {
			t.Errorf("token %d kind = %s, want CHAR_LIT", i, toks[i].Kind)
		}
	}
}

func TestCharLiteralMultiByteError(t *testing.T) {
	_, err := Lex([]byte(`'ab'`), "t.nif")
	if err == nil {
		t.Fatal("expected error for multi-byte char literal")
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	_, err := Lex([]byte("var x = @;"), "t.nif")
	if err == nil {
		t.Fatal("expected error for unexpected character")
	}
}

func TestLineComment(t *testing.T) {
	toks, err := Lex([]byte("var x : i64 = 1; // trailing comment\n"), "t.nif")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("expected EOF at end")
	}
}

func TestTwoCharOperators(t *testing.T) {
	toks, err := Lex([]byte("-> == != <= >= && ||"), "t.nif")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Kind{token.ARROW, token.EQ, token.NEQ, token.LE, token.GE, token.AND, token.OR, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %s, want %s", i, toks[i].Kind, k)
		}
	}
}
