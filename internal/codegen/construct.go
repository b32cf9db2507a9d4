package codegen

import "github.com/nifc-lang/nifc/internal/ast"

// emitConstructor emits a class's constructor per spec.md §4.7.7: allocate
// the object via rt_alloc_obj, store each field at its offset, return the
// new pointer. Unlike ordinary functions, a constructor always needs a
// thread-state pointer (rt_alloc_obj requires one) even when it has no
// reference-typed fields, so its thread-state slot is not conditioned on
// root_slot_count the way BuildFunctionLayout's is for ordinary bodies.
func emitConstructor(w *asmBuf, t *ProgramTables, cd *ast.ClassDecl, traces map[string]traceStrings) {
	ctor := t.ConstructorLabels[cd.Name]
	params := make([]paramSpec, len(cd.Fields))
	for i, f := range cd.Fields {
		params[i] = paramSpec{Name: f.Name, TypeName: typeRefName(f.Type)}
	}
	layout := BuildFunctionLayout(params, &ast.BlockStmt{})
	threadStateOff := ensureThreadStateSlot(layout)
	ec := &EmitContext{ProgramTables: t, Layout: layout, FnName: "ctor_" + safeTypeName(cd.Name), CurrentClass: cd.Name}
	trace := traces[ctor.Label]

	w.label(ctor.Label)
	w.instr("push rbp")
	w.instr("mov rbp, rsp")
	if layout.StackSize > 0 {
		w.instr("sub rsp, %d", layout.StackSize)
	}
	zeroAllSlots(w, layout)
	w.instr("mov qword ptr [rbp%+d], 0", threadStateOff)
	spillParams(w, ec, params)

	w.instr("call rt_thread_state")
	w.instr("mov [rbp%+d], rax", threadStateOff)
	if layout.RootSlotCount > 0 {
		baseOffset := layout.RootSlotOffsets[layout.RootSlotNames[len(layout.RootSlotNames)-1]]
		w.instr("lea rdi, [rbp%+d]", layout.RootFrameOffset)
		w.instr("lea rsi, [rbp%+d]", baseOffset)
		w.instr("mov edx, %d", layout.RootSlotCount)
		w.instr("call rt_root_frame_init")
		w.instr("mov rdi, [rbp%+d]", threadStateOff)
		w.instr("lea rsi, [rbp%+d]", layout.RootFrameOffset)
		w.instr("call rt_push_roots")
	}
	w.instr("lea rdi, [rip+%s]", trace.NameLabel)
	w.instr("lea rsi, [rip+%s]", trace.FileLabel)
	w.instr("mov edx, %d", trace.Line)
	w.instr("mov ecx, %d", trace.Col)
	w.instr("call rt_trace_push")
	w.blank()

	if layout.RootSlotCount > 0 {
		ec.spillNamedRootLocals(w)
	}
	w.instr("mov rdi, [rbp%+d]", threadStateOff)
	w.instr("lea rsi, [rip+%s]", ctor.TypeSymbol)
	w.instr("mov edx, %d", objectHeaderBytes+ctor.PayloadBytes)
	w.instr("call rt_alloc_obj")
	w.instr("mov r11, rax")
	for _, fname := range ctor.FieldNames {
		w.instr("mov rax, [rbp%+d]", layout.SlotOffsets[fname])
		w.instr("mov [r11%+d], rax", ctor.FieldOffsets[fname])
	}
	w.instr("mov rax, r11")
	w.blank()

	w.instr("push rax")
	if layout.RootSlotCount > 0 {
		w.instr("mov rdi, [rbp%+d]", threadStateOff)
		w.instr("call rt_pop_roots")
	}
	w.instr("call rt_trace_pop")
	w.instr("pop rax")
	w.instr("leave")
	w.instr("ret")
	w.blank()
}

// ensureThreadStateSlot returns the stack offset of a slot that will hold
// the constructor's rt_thread_state() result, growing the frame by one slot
// when BuildFunctionLayout didn't already reserve one (no reference
// fields, so root_slot_count is 0).
func ensureThreadStateSlot(layout *FunctionLayout) int {
	if layout.RootSlotCount > 0 {
		return layout.ThreadStateOffset
	}
	off := -(layout.StackSize + primitiveSize)
	layout.StackSize = alignUp16(layout.StackSize + primitiveSize)
	return off
}
