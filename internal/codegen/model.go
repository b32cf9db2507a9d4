// Package codegen lowers a linked, pruned program into GNU
// .intel_syntax noprefix x86-64 assembly text that links against the nifc
// C runtime's shadow-stack GC ABI.
package codegen

// FunctionLayout is the rbp-relative stack frame of one function or method
// body: parameter and local value slots, the parallel root-slot region for
// reference-typed state, and the shadow-stack bookkeeping offsets.
type FunctionLayout struct {
	SlotNames     []string
	SlotOffsets   map[string]int
	SlotTypeNames map[string]string

	RootSlotNames   []string
	RootSlotIndices map[string]int
	RootSlotOffsets map[string]int

	TempRootSlotOffsets     []int
	TempRootSlotStartIndex  int
	RootSlotCount           int
	ThreadStateOffset       int
	RootFrameOffset         int
	StackSize               int
}

// ResolvedCallTarget is a call site after callee resolution: the mangled
// assembly label to call, the receiver expression (nil for free functions,
// static methods, and constructors), and the call's static return type name.
type ResolvedCallTarget struct {
	Label          string
	ReceiverExpr   any // holds an ast.Expr, or nil
	ReturnTypeName string
}

// ConstructorLayout is the field layout a class constructor initializes.
type ConstructorLayout struct {
	ClassName    string
	Label        string
	TypeSymbol   string
	PayloadBytes int
	FieldNames   []string
	FieldOffsets map[string]int
}

// ProgramTables are whole-program lookup tables built once before any
// function body is lowered: method/constructor/function label and
// return-type maps, class field layout, and interned string literals.
type ProgramTables struct {
	MethodLabels      map[methodKey]string
	MethodReturnTypes map[methodKey]string
	MethodIsStatic    map[methodKey]bool

	ConstructorLabels   map[string]*ConstructorLayout
	FunctionLabels      map[string]string
	FunctionReturnTypes map[string]string

	StringLiteralLabels map[string]stringLiteral
	StringLiteralOrder  []string

	ClassFieldTypeNames map[methodKey]string
	ClassFieldOffsets   map[methodKey]int
}

// EmitContext threads per-function emission state: the active frame layout,
// a monotonic label counter for unique branch/loop labels, and the shared
// whole-program tables.
type EmitContext struct {
	*ProgramTables

	Layout       *FunctionLayout
	FnName       string
	CurrentClass string // non-empty while lowering a method body

	labelCounter int

	// loop label stack for break/continue targets, innermost last.
	loopStack []loopLabels
}

type methodKey struct {
	Type string
	Name string
}

type stringLiteral struct {
	Label  string
	Length int
}

type loopLabels struct {
	ContinueLabel string
	BreakLabel    string
}

func (ec *EmitContext) nextLabel(prefix string) string {
	ec.labelCounter++
	return ".L" + ec.FnName + "_" + prefix + itoa(ec.labelCounter)
}

func (ec *EmitContext) pushLoop(cont, brk string) {
	ec.loopStack = append(ec.loopStack, loopLabels{ContinueLabel: cont, BreakLabel: brk})
}

func (ec *EmitContext) popLoop() {
	ec.loopStack = ec.loopStack[:len(ec.loopStack)-1]
}

func (ec *EmitContext) currentLoop() loopLabels {
	return ec.loopStack[len(ec.loopStack)-1]
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// paramRegisters and floatParamRegisters mirror the SysV integer and SSE
// argument registers.
var (
	paramRegisters      = []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}
	floatParamRegisters = []string{"xmm0", "xmm1", "xmm2", "xmm3", "xmm4", "xmm5", "xmm6", "xmm7"}
)

const primitiveSize = 8
const objectHeaderBytes = 24
const tempRootSlotCount = 6

var primitiveTypeNames = map[string]bool{
	"i64": true, "u64": true, "u8": true, "bool": true, "double": true, "unit": true,
}

// arrayConstructorRuntimeCalls, arrayGetRuntimeCalls, etc. map an array
// element-type keyword ("i64", "u64", ..., or "ref" for any reference
// element type) to the fixed runtime symbol that implements the operation.
var arrayConstructorRuntimeCalls = map[string]string{
	"i64": "rt_array_new_i64", "u64": "rt_array_new_u64", "u8": "rt_array_new_u8",
	"bool": "rt_array_new_bool", "double": "rt_array_new_double", "ref": "rt_array_new_ref",
}

var arrayGetRuntimeCalls = map[string]string{
	"i64": "rt_array_get_i64", "u64": "rt_array_get_u64", "u8": "rt_array_get_u8",
	"bool": "rt_array_get_bool", "double": "rt_array_get_double", "ref": "rt_array_get_ref",
}

var arraySetRuntimeCalls = map[string]string{
	"i64": "rt_array_set_i64", "u64": "rt_array_set_u64", "u8": "rt_array_set_u8",
	"bool": "rt_array_set_bool", "double": "rt_array_set_double", "ref": "rt_array_set_ref",
}

var arraySliceRuntimeCalls = map[string]string{
	"i64": "rt_array_slice_i64", "u64": "rt_array_slice_u64", "u8": "rt_array_slice_u8",
	"bool": "rt_array_slice_bool", "double": "rt_array_slice_double", "ref": "rt_array_slice_ref",
}

// runtimeRefArgIndices lists, for each rt_ call that takes reference-typed
// arguments, which zero-based argument positions must be spilled to a temp
// root slot before the call per spec.md §4.7.4.
var runtimeRefArgIndices = map[string][]int{
	"rt_checked_cast":     {0},
	"rt_array_len":         {0},
	"rt_array_get_ref":     {0},
	"rt_array_set_ref":     {0, 2},
	"rt_array_slice_ref":   {0},
	"rt_str_get_u8":        {0},
	"rt_str_from_bytes":    {},
	"rt_vec_push":          {0, 1},
	"rt_vec_get":           {0},
}

// builtinRefTypeRuntimeSymbols maps built-in reference type names directly
// onto fixed runtime type-descriptor symbols, per spec.md §4.7.1.
var builtinRefTypeRuntimeSymbols = map[string]string{
	"Vec":       "rt_type_vec_desc",
	"Str":       "rt_type_str_desc",
	"BoxI64":    "rt_type_box_i64_desc",
	"BoxU64":    "rt_type_box_u64_desc",
	"BoxU8":     "rt_type_box_u8_desc",
	"BoxBool":   "rt_type_box_bool_desc",
	"BoxDouble": "rt_type_box_double_desc",
}
