package types

import (
	"strconv"
	"strings"

	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/token"
)

const (
	i64Min = "-9223372036854775808"
	i64Max = uint64(1<<63 - 1)
)

func (c *Checker) checkLiteral(lit *ast.Literal) (TypeInfo, error) {
	switch lit.Kind {
	case token.STRING_LIT:
		if c.strName == "" {
			return TypeInfo{}, typErr("TYP010", lit.Sp, "No unique 'Str' class is in scope for this string literal")
		}
		return Ref(c.strName), nil
	case token.CHAR_LIT:
		return U8, nil
	case token.TRUE, token.FALSE:
		return Bool, nil
	case token.FLOAT_LIT:
		return Double, nil
	case token.INT_LIT:
		return c.checkIntLiteral(lit.Text, lit.Sp)
	}
	return TypeInfo{}, typErr("TYP000", lit.Sp, "Unknown literal kind")
}

// checkIntLiteral implements spec.md §8.3's boundary rules: u8 suffix
// (0..255), u suffix (0..2^64-1), else signed i64 range, with the special
// case of the most-negative i64 only accepted via Unary('-').
func (c *Checker) checkIntLiteral(text string, sp token.Span) (TypeInfo, error) {
	switch {
	case strings.HasSuffix(text, "u8"):
		digits := strings.TrimSuffix(text, "u8")
		v, err := strconv.ParseUint(digits, 10, 64)
		if err != nil || v > 255 {
			return TypeInfo{}, typErr("TYP003", sp, "u8 literal out of range")
		}
		return U8, nil
	case strings.HasSuffix(text, "u"):
		digits := strings.TrimSuffix(text, "u")
		_, err := strconv.ParseUint(digits, 10, 64)
		if err != nil {
			return TypeInfo{}, typErr("TYP003", sp, "u64 literal out of range")
		}
		return U64, nil
	default:
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil || v > i64Max {
			return TypeInfo{}, typErr("TYP003", sp, "i64 literal out of range")
		}
		return I64, nil
	}
}

// isMaxNegI64Literal reports whether operand is the literal
// "9223372036854775808", which is out of signed range on its own but is
// accepted by checkUnary when wrapped in Unary('-').
func isMaxNegI64Literal(operand ast.Expr) bool {
	lit, ok := operand.(*ast.Literal)
	if !ok || lit.Kind != token.INT_LIT {
		return false
	}
	return lit.Text == "9223372036854775808"
}
