package codegen

import (
	"fmt"
	"strings"

	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/token"
)

// strMethodRuntimeCalls and vecMethodRuntimeCalls dispatch the built-in
// Str/Vec pseudo-methods onto their fixed runtime symbols, per spec.md
// §4.7.6 and the runtime ABI in §6.4.
var strMethodRuntimeCalls = map[string]string{
	"len": "rt_str_len", "get": "rt_str_get_u8", "slice": "rt_str_slice",
}

var vecMethodRuntimeCalls = map[string]string{
	"len": "rt_vec_len", "push": "rt_vec_push", "get": "rt_vec_get", "set": "rt_vec_set",
}

var boxGetRuntimeCalls = map[string]string{
	"BoxI64": "rt_box_i64_get", "BoxU64": "rt_box_u64_get", "BoxU8": "rt_box_u8_get",
	"BoxBool": "rt_box_bool_get", "BoxDouble": "rt_box_double_get",
}

var boxNewRuntimeCalls = map[string]string{
	"BoxI64": "rt_box_i64_new", "BoxU64": "rt_box_u64_new", "BoxU8": "rt_box_u8_new",
	"BoxBool": "rt_box_bool_new", "BoxDouble": "rt_box_double_new",
}

func emitBlock(w *asmBuf, ec *EmitContext, b *ast.BlockStmt) error {
	if b == nil {
		return nil
	}
	for _, s := range b.Stmts {
		if err := emitStmt(w, ec, s); err != nil {
			return err
		}
	}
	return nil
}

func emitStmt(w *asmBuf, ec *EmitContext, s ast.Stmt) error {
	switch v := s.(type) {
	case *ast.BlockStmt:
		return emitBlock(w, ec, v)
	case *ast.VarDeclStmt:
		return emitVarDecl(w, ec, v)
	case *ast.IfStmt:
		return emitIf(w, ec, v)
	case *ast.WhileStmt:
		return emitWhile(w, ec, v)
	case *ast.ReturnStmt:
		return emitReturn(w, ec, v)
	case *ast.BreakStmt:
		w.instr("jmp %s", ec.currentLoop().BreakLabel)
		return nil
	case *ast.ContinueStmt:
		w.instr("jmp %s", ec.currentLoop().ContinueLabel)
		return nil
	case *ast.AssignStmt:
		return emitAssign(w, ec, v)
	case *ast.ExprStmt:
		return emitExpr(w, ec, v.Expr)
	}
	return fmt.Errorf("codegen: unhandled statement %T", s)
}

func emitVarDecl(w *asmBuf, ec *EmitContext, v *ast.VarDeclStmt) error {
	if v.Init == nil {
		return nil // slot already zeroed in the prologue
	}
	if err := emitExpr(w, ec, v.Init); err != nil {
		return err
	}
	storeToNamedSlot(w, ec, v.Name, typeRefName(v.Type))
	return nil
}

func emitAssign(w *asmBuf, ec *EmitContext, a *ast.AssignStmt) error {
	switch target := a.Target.(type) {
	case *ast.Identifier:
		if err := emitExpr(w, ec, a.Value); err != nil {
			return err
		}
		emitIdentifierStore(w, ec, target.Name, ec.identifierType(target.Name))
		return nil
	case *ast.FieldAccessExpr:
		return emitFieldAssign(w, ec, target, a.Value)
	case *ast.IndexExpr:
		return emitIndexAssign(w, ec, target, a.Value)
	}
	return fmt.Errorf("codegen: unsupported assignment target %T", a.Target)
}

func emitFieldAssign(w *asmBuf, ec *EmitContext, target *ast.FieldAccessExpr, valueExpr ast.Expr) error {
	objType := inferExprType(ec, target.Object)
	if err := emitExpr(w, ec, target.Object); err != nil {
		return err
	}
	w.instr("push rax")
	valType := inferExprType(ec, valueExpr)
	if err := emitExpr(w, ec, valueExpr); err != nil {
		return err
	}
	if valType == "double" {
		w.instr("movq rax, xmm0")
	}
	w.instr("pop r10")
	off := ec.ClassFieldOffsets[methodKey{Type: objType, Name: target.Name}]
	w.instr("mov [r10%+d], rax", off)
	return nil
}

func emitIndexAssign(w *asmBuf, ec *EmitContext, target *ast.IndexExpr, valueExpr ast.Expr) error {
	objType := inferExprType(ec, target.Object)
	if elem, ok := arrayElemTypeName(objType); ok {
		kind := arrayRuntimeKind(elem)
		plan := buildPlan(ec, arraySetRuntimeCalls[kind], []ast.Expr{target.Object, target.Index, valueExpr}, true)
		return emitCallPlan(w, ec, plan, target.Sp)
	}
	key := methodKey{Type: objType, Name: "set"}
	if label, ok := ec.MethodLabels[key]; ok {
		plan := buildPlan(ec, label, []ast.Expr{target.Object, target.Index, valueExpr}, false)
		return emitCallPlan(w, ec, plan, target.Sp)
	}
	return fmt.Errorf("codegen: no index-assign lowering for type %q", objType)
}

func emitIf(w *asmBuf, ec *EmitContext, v *ast.IfStmt) error {
	elseLabel := ec.nextLabel("else")
	endLabel := ec.nextLabel("endif")
	if err := emitExpr(w, ec, v.Cond); err != nil {
		return err
	}
	w.instr("cmp rax, 0")
	w.instr("je %s", elseLabel)
	if err := emitBlock(w, ec, v.Then); err != nil {
		return err
	}
	w.instr("jmp %s", endLabel)
	w.label(elseLabel)
	switch e := v.Else.(type) {
	case *ast.BlockStmt:
		if err := emitBlock(w, ec, e); err != nil {
			return err
		}
	case *ast.IfStmt:
		if err := emitIf(w, ec, e); err != nil {
			return err
		}
	}
	w.label(endLabel)
	return nil
}

func emitWhile(w *asmBuf, ec *EmitContext, v *ast.WhileStmt) error {
	startLabel := ec.nextLabel("while_start")
	endLabel := ec.nextLabel("while_end")
	ec.pushLoop(startLabel, endLabel)
	defer ec.popLoop()
	w.label(startLabel)
	if err := emitExpr(w, ec, v.Cond); err != nil {
		return err
	}
	w.instr("cmp rax, 0")
	w.instr("je %s", endLabel)
	if err := emitBlock(w, ec, v.Body); err != nil {
		return err
	}
	w.instr("jmp %s", startLabel)
	w.label(endLabel)
	return nil
}

func emitReturn(w *asmBuf, ec *EmitContext, v *ast.ReturnStmt) error {
	if v.Value != nil {
		if err := emitExpr(w, ec, v.Value); err != nil {
			return err
		}
	}
	w.instr("jmp %s", ".L"+ec.FnName+"_epilogue")
	return nil
}

// storeToNamedSlot stores rax (or xmm0 for doubles) into a local's value
// slot, mirroring the write into its root slot when one exists.
func storeToNamedSlot(w *asmBuf, ec *EmitContext, name, typeName string) {
	off := ec.Layout.SlotOffsets[name]
	if typeName == "double" {
		w.instr("movsd [rbp%+d], xmm0", off)
	} else {
		w.instr("mov [rbp%+d], rax", off)
	}
	if ro, ok := ec.Layout.RootSlotOffsets[name]; ok {
		if typeName == "double" {
			w.instr("movq rax, xmm0")
		}
		w.instr("mov [rbp%+d], rax", ro)
	}
}

// emitIdentifierStore writes to a named local slot, or, when name isn't a
// local, to the implicit self field of the same name.
func emitIdentifierStore(w *asmBuf, ec *EmitContext, name, typeName string) {
	if _, ok := ec.Layout.SlotOffsets[name]; ok {
		storeToNamedSlot(w, ec, name, typeName)
		return
	}
	selfOff := ec.Layout.SlotOffsets["self"]
	fieldOff := ec.ClassFieldOffsets[methodKey{Type: ec.CurrentClass, Name: name}]
	w.instr("mov r10, [rbp%+d]", selfOff)
	if typeName == "double" {
		w.instr("movsd [r10%+d], xmm0", fieldOff)
	} else {
		w.instr("mov [r10%+d], rax", fieldOff)
	}
}

// emitIdentifierLoad reads a named local slot, or, when name isn't a
// local, the implicit self field of the same name.
func emitIdentifierLoad(w *asmBuf, ec *EmitContext, name string) {
	if off, ok := ec.Layout.SlotOffsets[name]; ok {
		if ec.Layout.SlotTypeNames[name] == "double" {
			w.instr("movsd xmm0, [rbp%+d]", off)
		} else {
			w.instr("mov rax, [rbp%+d]", off)
		}
		return
	}
	selfOff := ec.Layout.SlotOffsets["self"]
	fieldOff := ec.ClassFieldOffsets[methodKey{Type: ec.CurrentClass, Name: name}]
	typeName := ec.ClassFieldTypeNames[methodKey{Type: ec.CurrentClass, Name: name}]
	w.instr("mov r10, [rbp%+d]", selfOff)
	if typeName == "double" {
		w.instr("movsd xmm0, [r10%+d]", fieldOff)
	} else {
		w.instr("mov rax, [r10%+d]", fieldOff)
	}
}

func emitExpr(w *asmBuf, ec *EmitContext, e ast.Expr) error {
	switch v := e.(type) {
	case *ast.Literal:
		return emitLiteral(w, ec, v)
	case *ast.NullLit:
		w.instr("mov rax, 0")
		return nil
	case *ast.Identifier:
		emitIdentifierLoad(w, ec, v.Name)
		return nil
	case *ast.UnaryExpr:
		return emitUnary(w, ec, v)
	case *ast.BinaryExpr:
		return emitBinary(w, ec, v)
	case *ast.CastExpr:
		return emitCast(w, ec, v)
	case *ast.CallExpr:
		return emitCall(w, ec, v)
	case *ast.FieldAccessExpr:
		return emitFieldAccessRead(w, ec, v)
	case *ast.IndexExpr:
		return emitIndexRead(w, ec, v)
	case *ast.ArrayCtorExpr:
		return emitArrayCtor(w, ec, v)
	}
	return fmt.Errorf("codegen: unhandled expression %T", e)
}

func emitLiteral(w *asmBuf, ec *EmitContext, v *ast.Literal) error {
	switch v.Kind {
	case token.INT_LIT:
		w.instr("mov rax, %s", stripIntSuffix(v.Text))
	case token.FLOAT_LIT:
		w.instr("mov rax, %s", floatBitsHex(v.Text))
		w.instr("movq xmm0, rax")
	case token.CHAR_LIT:
		w.instr("mov rax, %d", decodeCharLiteral(v.Text))
	case token.TRUE:
		w.instr("mov rax, 1")
	case token.FALSE:
		w.instr("mov rax, 0")
	case token.STRING_LIT:
		lit := ec.StringLiteralLabels[v.Text]
		w.instr("mov rdi, [rbp%+d]", ec.Layout.ThreadStateOffset)
		w.instr("lea rsi, [rip+%s]", lit.Label)
		w.instr("mov edx, %d", lit.Length)
		w.instr("call rt_str_from_bytes")
	default:
		return fmt.Errorf("codegen: unhandled literal kind %s", v.Kind)
	}
	return nil
}

func emitUnary(w *asmBuf, ec *EmitContext, v *ast.UnaryExpr) error {
	if err := emitExpr(w, ec, v.Operand); err != nil {
		return err
	}
	operandType := inferExprType(ec, v.Operand)
	switch v.Op {
	case token.BANG:
		w.instr("cmp rax, 0")
		w.instr("sete al")
		w.instr("movzx rax, al")
	case token.MINUS:
		if operandType == "double" {
			w.instr("movq rax, xmm0")
			w.instr("pxor xmm1, xmm1")
			w.instr("movq xmm0, rax")
			w.instr("subsd xmm1, xmm0")
			w.instr("movsd xmm0, xmm1")
		} else {
			w.instr("neg rax")
		}
	default:
		return fmt.Errorf("codegen: unhandled unary operator %s", v.Op)
	}
	return nil
}

func emitBinary(w *asmBuf, ec *EmitContext, v *ast.BinaryExpr) error {
	switch v.Op {
	case token.AND:
		return emitShortCircuit(w, ec, v, true)
	case token.OR:
		return emitShortCircuit(w, ec, v, false)
	}

	leftType := inferExprType(ec, v.Left)
	if leftType == "double" {
		return emitDoubleBinary(w, ec, v)
	}
	return emitIntBinary(w, ec, v)
}

// emitShortCircuit lowers && / || with branch labels rather than
// unconditionally evaluating both sides.
func emitShortCircuit(w *asmBuf, ec *EmitContext, v *ast.BinaryExpr, isAnd bool) error {
	shortLabel := ec.nextLabel("shortcircuit")
	endLabel := ec.nextLabel("shortcircuit_end")
	if err := emitExpr(w, ec, v.Left); err != nil {
		return err
	}
	w.instr("cmp rax, 0")
	if isAnd {
		w.instr("je %s", shortLabel)
	} else {
		w.instr("jne %s", shortLabel)
	}
	if err := emitExpr(w, ec, v.Right); err != nil {
		return err
	}
	w.instr("jmp %s", endLabel)
	w.label(shortLabel)
	if isAnd {
		w.instr("mov rax, 0")
	} else {
		w.instr("mov rax, 1")
	}
	w.label(endLabel)
	return nil
}

func emitIntBinary(w *asmBuf, ec *EmitContext, v *ast.BinaryExpr) error {
	if err := emitExpr(w, ec, v.Left); err != nil {
		return err
	}
	w.instr("push rax")
	if err := emitExpr(w, ec, v.Right); err != nil {
		return err
	}
	w.instr("mov r10, rax")
	w.instr("pop rax")
	switch v.Op {
	case token.PLUS:
		w.instr("add rax, r10")
	case token.MINUS:
		w.instr("sub rax, r10")
	case token.STAR:
		w.instr("imul rax, r10")
	case token.SLASH:
		w.instr("cqo")
		w.instr("idiv r10")
	case token.PERCENT:
		w.instr("cqo")
		w.instr("idiv r10")
		w.instr("mov rax, rdx")
	case token.EQ:
		w.instr("cmp rax, r10")
		w.instr("sete al")
		w.instr("movzx rax, al")
	case token.NEQ:
		w.instr("cmp rax, r10")
		w.instr("setne al")
		w.instr("movzx rax, al")
	case token.LT:
		w.instr("cmp rax, r10")
		w.instr("setl al")
		w.instr("movzx rax, al")
	case token.LE:
		w.instr("cmp rax, r10")
		w.instr("setle al")
		w.instr("movzx rax, al")
	case token.GT:
		w.instr("cmp rax, r10")
		w.instr("setg al")
		w.instr("movzx rax, al")
	case token.GE:
		w.instr("cmp rax, r10")
		w.instr("setge al")
		w.instr("movzx rax, al")
	default:
		return fmt.Errorf("codegen: unhandled integer binary operator %s", v.Op)
	}
	return nil
}

func emitDoubleBinary(w *asmBuf, ec *EmitContext, v *ast.BinaryExpr) error {
	if err := emitExpr(w, ec, v.Left); err != nil {
		return err
	}
	w.instr("sub rsp, 8")
	w.instr("movsd [rsp], xmm0")
	if err := emitExpr(w, ec, v.Right); err != nil {
		return err
	}
	w.instr("movsd xmm1, xmm0")
	w.instr("movsd xmm0, [rsp]")
	w.instr("add rsp, 8")
	switch v.Op {
	case token.PLUS:
		w.instr("addsd xmm0, xmm1")
	case token.MINUS:
		w.instr("subsd xmm0, xmm1")
	case token.STAR:
		w.instr("mulsd xmm0, xmm1")
	case token.SLASH:
		w.instr("divsd xmm0, xmm1")
	case token.EQ:
		w.instr("ucomisd xmm0, xmm1")
		w.instr("setnp al")
		w.instr("sete cl")
		w.instr("and al, cl")
		w.instr("movzx rax, al")
	case token.NEQ:
		w.instr("ucomisd xmm0, xmm1")
		w.instr("setp al")
		w.instr("setne cl")
		w.instr("or al, cl")
		w.instr("movzx rax, al")
	case token.LT:
		w.instr("ucomisd xmm0, xmm1")
		w.instr("setb al")
		w.instr("movzx rax, al")
	case token.LE:
		w.instr("ucomisd xmm0, xmm1")
		w.instr("setbe al")
		w.instr("movzx rax, al")
	case token.GT:
		w.instr("ucomisd xmm0, xmm1")
		w.instr("seta al")
		w.instr("movzx rax, al")
	case token.GE:
		w.instr("ucomisd xmm0, xmm1")
		w.instr("setae al")
		w.instr("movzx rax, al")
	default:
		return fmt.Errorf("codegen: unhandled double binary operator %s", v.Op)
	}
	return nil
}

func emitCast(w *asmBuf, ec *EmitContext, v *ast.CastExpr) error {
	fromType := inferExprType(ec, v.Operand)
	toType := typeRefName(v.Type)
	if err := emitExpr(w, ec, v.Operand); err != nil {
		return err
	}
	if fromType == toType {
		return nil
	}
	switch {
	case toType == "double" && fromType != "double":
		w.instr("cvtsi2sd xmm0, rax")
	case toType != "double" && fromType == "double":
		w.instr("cvttsd2si rax, xmm0")
		maskPrimitiveWidth(w, toType)
	case toType == "bool":
		w.instr("cmp rax, 0")
		w.instr("setne al")
		w.instr("movzx rax, al")
	case isReferenceTypeName(toType):
		w.instr("push rax")
		ec.emitSafepointBefore(w, v.Sp)
		w.instr("mov rax, [rsp]")
		ec.spillRefArgToTempSlot(w, 0)
		w.instr("pop rdi")
		w.instr("lea rsi, [rip+%s]", typeDescriptorSymbol(toType))
		w.instr("call rt_checked_cast")
		ec.emitSafepointAfter(w)
	default:
		maskPrimitiveWidth(w, toType)
	}
	return nil
}

func maskPrimitiveWidth(w *asmBuf, typeName string) {
	switch typeName {
	case "u8":
		w.instr("and rax, 0xff")
	case "u64":
		// full 64-bit width; no mask needed beyond the register's own bits
	}
}

func emitFieldAccessRead(w *asmBuf, ec *EmitContext, v *ast.FieldAccessExpr) error {
	objType := inferExprType(ec, v.Object)
	if getter, ok := boxGetRuntimeCalls[objType]; ok && v.Name == "value" {
		if err := emitExpr(w, ec, v.Object); err != nil {
			return err
		}
		w.instr("mov rdi, rax")
		w.instr("call %s", getter)
		return nil
	}
	if err := emitExpr(w, ec, v.Object); err != nil {
		return err
	}
	key := methodKey{Type: objType, Name: v.Name}
	off := ec.ClassFieldOffsets[key]
	typeName := ec.ClassFieldTypeNames[key]
	if typeName == "double" {
		w.instr("movsd xmm0, [rax%+d]", off)
	} else {
		w.instr("mov rax, [rax%+d]", off)
	}
	return nil
}

func emitIndexRead(w *asmBuf, ec *EmitContext, v *ast.IndexExpr) error {
	objType := inferExprType(ec, v.Object)
	if elem, ok := arrayElemTypeName(objType); ok {
		kind := arrayRuntimeKind(elem)
		plan := buildPlan(ec, arrayGetRuntimeCalls[kind], []ast.Expr{v.Object, v.Index}, true)
		return emitCallPlan(w, ec, plan, v.Sp)
	}
	if objType == "Str" {
		plan := buildPlan(ec, "rt_str_get_u8", []ast.Expr{v.Object, v.Index}, true)
		return emitCallPlan(w, ec, plan, v.Sp)
	}
	if objType == "Vec" {
		plan := buildPlan(ec, "rt_vec_get", []ast.Expr{v.Object, v.Index}, true)
		return emitCallPlan(w, ec, plan, v.Sp)
	}
	key := methodKey{Type: objType, Name: "get"}
	if label, ok := ec.MethodLabels[key]; ok {
		plan := buildPlan(ec, label, []ast.Expr{v.Object, v.Index}, false)
		return emitCallPlan(w, ec, plan, v.Sp)
	}
	return fmt.Errorf("codegen: no index lowering for type %q", objType)
}

func emitArrayCtor(w *asmBuf, ec *EmitContext, v *ast.ArrayCtorExpr) error {
	kind := arrayRuntimeKind(typeRefName(v.ElemType))
	plan := buildPlan(ec, arrayConstructorRuntimeCalls[kind], []ast.Expr{v.Length}, true)
	return emitCallPlan(w, ec, plan, v.Sp)
}

// callPlan is a fully resolved call site: the assembly label to call, its
// argument expressions in source order, their inferred types (for register
// class selection), and whether it is a runtime (`rt_`-prefixed) call that
// needs safepoint/temp-root handling.
type callPlan struct {
	Label     string
	Args      []ast.Expr
	ArgTypes  []string
	IsRuntime bool
}

func buildPlan(ec *EmitContext, label string, args []ast.Expr, isRuntime bool) callPlan {
	types := make([]string, len(args))
	for i, a := range args {
		types[i] = inferExprType(ec, a)
	}
	return callPlan{Label: label, Args: args, ArgTypes: types, IsRuntime: isRuntime || strings.HasPrefix(label, "rt_")}
}

func prependExpr(first ast.Expr, rest ...ast.Expr) []ast.Expr {
	out := make([]ast.Expr, 0, len(rest)+1)
	out = append(out, first)
	out = append(out, rest...)
	return out
}

func emitCall(w *asmBuf, ec *EmitContext, call *ast.CallExpr) error {
	plan, err := resolveCall(ec, call)
	if err != nil {
		return err
	}
	return emitCallPlan(w, ec, plan, call.Sp)
}

func resolveCall(ec *EmitContext, call *ast.CallExpr) (callPlan, error) {
	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		if label, ok := ec.FunctionLabels[callee.Name]; ok {
			return buildPlan(ec, label, call.Args, false), nil
		}
		if ctor, ok := ec.ConstructorLabels[callee.Name]; ok {
			return buildPlan(ec, ctor.Label, call.Args, false), nil
		}
		if label, ok := boxNewRuntimeCalls[callee.Name]; ok {
			return buildPlan(ec, label, call.Args, true), nil
		}
		return callPlan{}, fmt.Errorf("codegen: unresolved call to %q", callee.Name)
	case *ast.FieldAccessExpr:
		objType := inferExprType(ec, callee.Object)
		if elem, ok := arrayElemTypeName(objType); ok {
			kind := arrayRuntimeKind(elem)
			switch callee.Name {
			case "len":
				return buildPlan(ec, "rt_array_len", []ast.Expr{callee.Object}, true), nil
			case "get":
				return buildPlan(ec, arrayGetRuntimeCalls[kind], prependExpr(callee.Object, call.Args...), true), nil
			case "set":
				return buildPlan(ec, arraySetRuntimeCalls[kind], prependExpr(callee.Object, call.Args...), true), nil
			case "slice":
				return buildPlan(ec, arraySliceRuntimeCalls[kind], prependExpr(callee.Object, call.Args...), true), nil
			}
		}
		if objType == "Str" {
			if label, ok := strMethodRuntimeCalls[callee.Name]; ok {
				return buildPlan(ec, label, prependExpr(callee.Object, call.Args...), true), nil
			}
		}
		if objType == "Vec" {
			if label, ok := vecMethodRuntimeCalls[callee.Name]; ok {
				return buildPlan(ec, label, prependExpr(callee.Object, call.Args...), true), nil
			}
		}
		key := methodKey{Type: objType, Name: callee.Name}
		if label, ok := ec.MethodLabels[key]; ok {
			args := call.Args
			if !ec.MethodIsStatic[key] {
				args = prependExpr(callee.Object, call.Args...)
			}
			return buildPlan(ec, label, args, false), nil
		}
		return callPlan{}, fmt.Errorf("codegen: unresolved method call %q", callee.Name)
	}
	return callPlan{}, fmt.Errorf("codegen: unsupported call callee %T", call.Callee)
}

// emitCallPlan lowers a resolved call using the two-pass argument
// convention of spec.md §4.7.3: every argument is evaluated and pushed in
// reverse order, then popped into the correct integer/SSE register.
// Runtime (`rt_`) calls additionally get the safepoint and temp-root-spill
// treatment of §4.7.4.
func emitCallPlan(w *asmBuf, ec *EmitContext, plan callPlan, sp token.Span) error {
	for i := len(plan.Args) - 1; i >= 0; i-- {
		if err := emitExpr(w, ec, plan.Args[i]); err != nil {
			return err
		}
		if plan.ArgTypes[i] == "double" {
			w.instr("movq rax, xmm0")
		}
		w.instr("push rax")
	}

	if plan.IsRuntime {
		ec.emitSafepointBefore(w, sp)
		refIdx := map[int]bool{}
		for _, idx := range runtimeRefArgIndices[plan.Label] {
			refIdx[idx] = true
		}
		tempIdx := 0
		for i, t := range plan.ArgTypes {
			if refIdx[i] && isReferenceTypeName(t) {
				w.instr("mov rax, [rsp%+d]", i*8)
				ec.spillRefArgToTempSlot(w, tempIdx)
				tempIdx++
			}
		}
	}

	intIdx, fltIdx := 0, 0
	for i := 0; i < len(plan.Args); i++ {
		w.instr("pop rax")
		if plan.ArgTypes[i] == "double" {
			w.instr("movq %s, rax", floatParamRegisters[fltIdx])
			fltIdx++
		} else {
			w.instr("mov %s, rax", paramRegisters[intIdx])
			intIdx++
		}
	}
	w.instr("call %s", plan.Label)
	if plan.IsRuntime {
		ec.emitSafepointAfter(w)
	}
	return nil
}
