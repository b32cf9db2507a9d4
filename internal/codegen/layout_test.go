package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/lexer"
	"github.com/nifc-lang/nifc/internal/parser"
)

func parseBody(t *testing.T, src string) *ast.BlockStmt {
	t.Helper()
	toks, err := lexer.Lex([]byte(src), "t.nif")
	require.NoError(t, err)
	m, err := parser.Parse(toks)
	require.NoError(t, err)
	require.Len(t, m.Functions, 1)
	return m.Functions[0].Body
}

func TestBuildFunctionLayoutPrimitiveSlotsOnly(t *testing.T) {
	body := parseBody(t, `fn f() -> i64 { var a: i64 = 1; var b: i64 = 2; return a + b; }`)
	layout := BuildFunctionLayout(nil, body)

	require.Equal(t, []string{"a", "b"}, layout.SlotNames)
	require.Equal(t, -8, layout.SlotOffsets["a"])
	require.Equal(t, -16, layout.SlotOffsets["b"])
	require.Zero(t, layout.RootSlotCount)
	require.Equal(t, 16, layout.StackSize)
}

func TestBuildFunctionLayoutReferenceSlotsGetRootFrame(t *testing.T) {
	body := parseBody(t, `fn f() -> i64 { var s: Str = Str(); return 0; }`)
	layout := BuildFunctionLayout(nil, body)

	require.Equal(t, 1, layout.RootSlotCount)
	require.Contains(t, layout.RootSlotNames, "s")
	require.Len(t, layout.TempRootSlotOffsets, tempRootSlotCount)
	require.NotZero(t, layout.ThreadStateOffset)
	require.NotZero(t, layout.RootFrameOffset)
}

func TestBuildFunctionLayoutParamsOccupyLeadingSlots(t *testing.T) {
	body := parseBody(t, `fn f(x: i64, y: i64) -> i64 { return x + y; }`)
	layout := BuildFunctionLayout([]paramSpec{{Name: "x", TypeName: "i64"}, {Name: "y", TypeName: "i64"}}, body)

	require.Equal(t, []string{"x", "y"}, layout.SlotNames)
}
