// Package lexer turns nifc source bytes into a stream of tokens with spans.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	nifcerrors "github.com/nifc-lang/nifc/internal/errors"
	"github.com/nifc-lang/nifc/internal/token"
)

// Lexer tokenizes nifc source code.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	line         int
	column       int
	offset       int
	path         string
}

// New creates a Lexer over src, after BOM-stripping and NFC normalization.
func New(src []byte, path string) *Lexer {
	l := &Lexer{
		input:  string(Normalize(src)),
		path:   path,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.offset = l.position
		l.position = l.readPosition
		return
	}
	ch, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.offset = l.position
	l.position = l.readPosition
	l.readPosition += size
	if ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	l.ch = ch
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return ch
}

func (l *Lexer) pos() token.Position {
	return token.Position{Path: l.path, Offset: l.position, Line: l.line, Column: l.column}
}

func isLetter(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		case '/':
			if l.peekChar() == '/' {
				for l.ch != '\n' && l.ch != 0 {
					l.readChar()
				}
				continue
			}
			return
		default:
			return
		}
	}
}

func lexErr(start token.Position, end token.Position, msg string) error {
	sp := token.Span{Start: start, End: end}
	code := nifcerrors.LEX001
	switch msg {
	case "Unterminated string literal":
		code = nifcerrors.LEX002
	case "Invalid string escape sequence":
		code = nifcerrors.LEX003
	case "Invalid character escape sequence":
		code = nifcerrors.LEX004
	case "Character literal must contain exactly one byte":
		code = nifcerrors.LEX005
	}
	return nifcerrors.New("lexer", code, msg, &sp)
}

// Lex scans src (from path) into a complete token stream. The final token is
// always EOF at the end position. Fails with a *nifcerrors.ReportError on the
// first invalid byte, unterminated literal, or bad escape.
func Lex(src []byte, path string) ([]token.Token, error) {
	l := New(src, path)
	var toks []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, nil
}

func (l *Lexer) spanFrom(start token.Position) token.Span {
	return token.Span{Start: start, End: l.pos()}
}

func (l *Lexer) next() (token.Token, error) {
	l.skipWhitespaceAndComments()
	start := l.pos()

	if l.ch == 0 {
		return token.Token{Kind: token.EOF, Lexeme: "", Span: token.Span{Start: start, End: start}}, nil
	}

	switch {
	case isLetter(l.ch):
		return l.lexIdent(start), nil
	case isDigit(l.ch):
		return l.lexNumber(start)
	case l.ch == '"':
		return l.lexString(start)
	case l.ch == '\'':
		return l.lexChar(start)
	}

	// two-char punctuation
	two := map[string]token.Kind{
		"->": token.ARROW,
		"==": token.EQ,
		"!=": token.NEQ,
		"<=": token.LE,
		">=": token.GE,
		"&&": token.AND,
		"||": token.OR,
	}
	pair := string(l.ch) + string(l.peekChar())
	if k, ok := two[pair]; ok {
		l.readChar()
		l.readChar()
		return token.Token{Kind: k, Lexeme: pair, Span: l.spanFrom(start)}, nil
	}

	single := map[rune]token.Kind{
		'(': token.LPAREN, ')': token.RPAREN,
		'{': token.LBRACE, '}': token.RBRACE,
		'[': token.LBRACKET, ']': token.RBRACKET,
		',': token.COMMA, ';': token.SEMI, ':': token.COLON, '.': token.DOT,
		'+': token.PLUS, '-': token.MINUS, '*': token.STAR, '/': token.SLASH, '%': token.PERCENT,
		'<': token.LT, '>': token.GT, '!': token.BANG, '=': token.ASSIGN,
	}
	if k, ok := single[l.ch]; ok {
		ch := l.ch
		l.readChar()
		return token.Token{Kind: k, Lexeme: string(ch), Span: l.spanFrom(start)}, nil
	}

	bad := l.ch
	l.readChar()
	return token.Token{}, lexErr(start, l.pos(), fmt.Sprintf("Unexpected character '%c'", bad))
}

func (l *Lexer) lexIdent(start token.Position) token.Token {
	var sb strings.Builder
	for isLetter(l.ch) || isDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	lit := sb.String()
	return token.Token{Kind: token.Lookup(lit), Lexeme: lit, Span: l.spanFrom(start)}
}

func (l *Lexer) lexNumber(start token.Position) (token.Token, error) {
	var sb strings.Builder
	for isDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	kind := token.INT_LIT
	if l.ch == '.' && isDigit(l.peekChar()) {
		kind = token.FLOAT_LIT
		sb.WriteRune(l.ch)
		l.readChar()
		for isDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
	if kind == token.INT_LIT && l.ch == 'u' {
		sb.WriteRune(l.ch)
		l.readChar()
		if l.ch == '8' {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
	return token.Token{Kind: kind, Lexeme: sb.String(), Span: l.spanFrom(start)}, nil
}

func (l *Lexer) lexString(start token.Position) (token.Token, error) {
	l.readChar() // consume opening quote
	var sb strings.Builder
	sb.WriteByte('"')
	for {
		if l.ch == 0 {
			return token.Token{}, lexErr(start, l.pos(), "Unterminated string literal")
		}
		if l.ch == '\n' {
			return token.Token{}, lexErr(start, l.pos(), "Unterminated string literal")
		}
		if l.ch == '"' {
			l.readChar()
			break
		}
		if l.ch == '\\' {
			escStart := l.pos()
			l.readChar()
			switch l.ch {
			case '"', '\\', 'n', 'r', 't', '0':
				sb.WriteByte('\\')
				sb.WriteRune(l.ch)
				l.readChar()
			case 'x':
				sb.WriteByte('\\')
				sb.WriteRune(l.ch)
				l.readChar()
				for i := 0; i < 2; i++ {
					if !isHexDigit(l.ch) {
						return token.Token{}, lexErr(escStart, l.pos(), "Invalid string escape sequence")
					}
					sb.WriteRune(l.ch)
					l.readChar()
				}
			default:
				return token.Token{}, lexErr(escStart, l.pos(), "Invalid string escape sequence")
			}
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	sb.WriteByte('"')
	return token.Token{Kind: token.STRING_LIT, Lexeme: sb.String(), Span: l.spanFrom(start)}, nil
}

func (l *Lexer) lexChar(start token.Position) (token.Token, error) {
	l.readChar() // consume opening quote
	var payload string
	if l.ch == '\\' {
		escStart := l.pos()
		l.readChar()
		switch l.ch {
		case 'n', 'r', 't', '0', '\\', '\'', '"':
			payload = "\\" + string(l.ch)
			l.readChar()
		case 'x':
			payload = "\\x"
			l.readChar()
			for i := 0; i < 2; i++ {
				if !isHexDigit(l.ch) {
					return token.Token{}, lexErr(escStart, l.pos(), "Invalid character escape sequence")
				}
				payload += string(l.ch)
				l.readChar()
			}
		default:
			return token.Token{}, lexErr(escStart, l.pos(), "Invalid character escape sequence")
		}
	} else if l.ch == 0 || l.ch == '\'' {
		return token.Token{}, lexErr(start, l.pos(), "Character literal must contain exactly one byte")
	} else {
		payload = string(l.ch)
		l.readChar()
	}
	if l.ch != '\'' {
		return token.Token{}, lexErr(start, l.pos(), "Character literal must contain exactly one byte")
	}
	l.readChar()
	return token.Token{Kind: token.CHAR_LIT, Lexeme: "'" + payload + "'", Span: l.spanFrom(start)}, nil
}
