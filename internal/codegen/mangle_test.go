package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSafeTypeNameReplacesUnsafeChars(t *testing.T) {
	require.Equal(t, "util_Counter", safeTypeName("util.Counter"))
	require.Equal(t, "i64__", safeTypeName("i64[]"))
}

func TestMethodAndConstructorSymbols(t *testing.T) {
	require.Equal(t, "__nif_method_Counter_add", methodSymbol("Counter", "add"))
	require.Equal(t, "__nif_ctor_Counter", constructorSymbol("Counter"))
	require.Equal(t, "__nif_type_Counter", typeDescriptorSymbol("Counter"))
	require.Equal(t, "__nif_type_name_Counter", typeNameSymbol("Counter"))
}

func TestFunctionSymbolIsBareName(t *testing.T) {
	require.Equal(t, "add", functionSymbol("add"))
}
