package codegen

import "github.com/nifc-lang/nifc/internal/token"

// emitSafepointBefore marks the point a GC-cooperating runtime call is about
// to happen: it spills every named reference local to its root slot (so a
// collection triggered by the callee sees live state), per spec.md §4.7.4.
func (ec *EmitContext) emitSafepointBefore(w *asmBuf, sp token.Span) {
	w.label(ec.nextLabel("safepoint_before"))
	ec.spillNamedRootLocals(w)
	if ec.Layout.RootSlotCount > 0 {
		w.instr("mov edi, %d", sp.Start.Line)
		w.instr("mov esi, %d", sp.Start.Column)
		w.instr("call rt_trace_set_location")
	}
}

// emitSafepointAfter marks the return from a runtime call and clears the
// temp root slot pool used to keep this call's reference arguments alive.
func (ec *EmitContext) emitSafepointAfter(w *asmBuf) {
	w.label(ec.nextLabel("safepoint_after"))
	for _, off := range ec.Layout.TempRootSlotOffsets {
		w.instr("mov qword ptr [rbp%+d], 0", off)
	}
}

func (ec *EmitContext) spillNamedRootLocals(w *asmBuf) {
	for _, name := range ec.Layout.RootSlotNames {
		w.instr("mov rax, [rbp%+d]", ec.Layout.SlotOffsets[name])
		w.instr("mov [rbp%+d], rax", ec.Layout.RootSlotOffsets[name])
	}
}

// spillRefArgToTempSlot stores a reference-typed argument value (already in
// rax) into the next free temp root slot, so it survives a GC pause that
// the call it is about to be passed to might trigger.
func (ec *EmitContext) spillRefArgToTempSlot(w *asmBuf, slotIdx int) {
	if slotIdx >= len(ec.Layout.TempRootSlotOffsets) {
		return
	}
	w.instr("mov [rbp%+d], rax", ec.Layout.TempRootSlotOffsets[slotIdx])
}

// callRuntime0 calls a zero-argument runtime function and leaves its
// pointer result in rax.
func (ec *EmitContext) callRuntime0(w *asmBuf, name string) {
	w.instr("call %s", name)
}

// loadThreadState loads the saved rt_thread_state() result into rax.
func (ec *EmitContext) loadThreadState(w *asmBuf) {
	w.instr("mov rax, [rbp%+d]", ec.Layout.ThreadStateOffset)
}
