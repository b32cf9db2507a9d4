package codegen

import (
	"fmt"
	"strings"

	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/link"
	"github.com/nifc-lang/nifc/internal/token"
)

// EmitAsm lowers a linked codegen module into one GNU .intel_syntax
// noprefix x86-64 assembly translation unit, per spec.md §4.7 and §6.3.
func EmitAsm(cm *link.CodegenModule) (string, error) {
	t := BuildProgramTables(cm)
	w := &asmBuf{}
	w.directive(".intel_syntax noprefix")
	w.blank()

	traces := buildTraceTable(cm, t)

	emitTypeMetadata(w, cm, t)
	emitStringLiterals(w, t)
	emitTraceRodata(w, traces)

	w.directive(".text")
	w.blank()

	for _, fd := range cm.Functions {
		if fd.Body == nil {
			continue
		}
		if err := emitFunction(w, t, fd, traces); err != nil {
			return "", err
		}
	}
	for _, cd := range cm.Classes {
		for _, m := range cd.Methods {
			if m.Body == nil {
				continue
			}
			if err := emitMethod(w, t, cd, m, traces); err != nil {
				return "", err
			}
		}
	}
	for _, cd := range cm.Classes {
		emitConstructor(w, t, cd, traces)
	}

	w.directive(`.section .note.GNU-stack,"",@progbits`)
	return w.String(), nil
}

// traceStrings holds the two read-only strings (function name, source file)
// emitted once per function/method/constructor for rt_trace_push, per
// spec.md §4.7.5.
type traceStrings struct {
	NameLabel string
	FileLabel string
	Name      string
	File      string
	Line      int
	Col       int
}

func buildTraceTable(cm *link.CodegenModule, t *ProgramTables) map[string]traceStrings {
	out := make(map[string]traceStrings)
	for _, fd := range cm.Functions {
		if fd.Body == nil {
			continue
		}
		label := t.FunctionLabels[fd.Name]
		out[label] = newTraceStrings(label, fd.Name, fd.Sp)
	}
	for _, cd := range cm.Classes {
		for _, m := range cd.Methods {
			if m.Body == nil {
				continue
			}
			label := t.MethodLabels[methodKey{Type: cd.Name, Name: m.Name}]
			out[label] = newTraceStrings(label, cd.Name+"."+m.Name, m.Sp)
		}
		ctor := t.ConstructorLabels[cd.Name]
		out[ctor.Label] = newTraceStrings(ctor.Label, cd.Name, cd.Sp)
	}
	return out
}

func newTraceStrings(label, name string, sp token.Span) traceStrings {
	return traceStrings{
		NameLabel: "__nif_trace_name_" + label,
		FileLabel: "__nif_trace_file_" + label,
		Name:      name,
		File:      sp.Start.Path,
		Line:      sp.Start.Line,
		Col:       sp.Start.Column,
	}
}

func emitTraceRodata(w *asmBuf, traces map[string]traceStrings) {
	if len(traces) == 0 {
		return
	}
	w.directive(".rodata")
	for _, label := range sortedKeys(traces) {
		ts := traces[label]
		w.label(ts.NameLabel)
		w.directive(asciz(ts.Name))
		w.label(ts.FileLabel)
		w.directive(asciz(ts.File))
	}
	w.blank()
}

func sortedKeys(m map[string]traceStrings) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func asciz(s string) string {
	return fmt.Sprintf(".asciz %q", s)
}

// emitTypeMetadata emits each user-defined class's type descriptor ('.data')
// and display name ('.rodata'), per spec.md §4.7.8. Built-in reference
// types reuse the runtime's own descriptor symbols and are never emitted
// here.
func emitTypeMetadata(w *asmBuf, cm *link.CodegenModule, t *ProgramTables) {
	if len(cm.Classes) == 0 {
		return
	}
	w.directive(".rodata")
	for _, cd := range cm.Classes {
		w.label(typeNameSymbol(cd.Name))
		w.directive(asciz(cd.Name))
	}
	w.blank()

	w.directive(".data")
	for _, cd := range cm.Classes {
		ctor := t.ConstructorLabels[cd.Name]
		w.label(typeDescriptorSymbol(cd.Name))
		w.instr(".quad %s", typeNameSymbol(cd.Name))
		w.instr(".quad %d", objectHeaderBytes+ctor.PayloadBytes)
		w.instr(".quad 8")
	}
	w.blank()
}

func emitStringLiterals(w *asmBuf, t *ProgramTables) {
	if len(t.StringLiteralOrder) == 0 {
		return
	}
	w.directive(".rodata")
	for _, text := range t.StringLiteralOrder {
		lit := t.StringLiteralLabels[text]
		bs := decodeStringBytes(text)
		w.label(lit.Label)
		w.instr(".byte %s", byteListLiteral(bs))
	}
	w.blank()
}

func byteListLiteral(bs []byte) string {
	if len(bs) == 0 {
		return "0" // a zero-length placeholder byte; Length records the real count
	}
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = fmt.Sprintf("%d", b)
	}
	return strings.Join(parts, ", ")
}

func emitFunction(w *asmBuf, t *ProgramTables, fd *ast.FunctionDecl, traces map[string]traceStrings) error {
	params := paramSpecsFrom(fd.Params)
	layout := BuildFunctionLayout(params, fd.Body)
	ec := &EmitContext{ProgramTables: t, Layout: layout, FnName: fd.Name}
	label := t.FunctionLabels[fd.Name]
	globl := fd.IsExport || fd.Name == "main"
	return emitCallableBody(w, ec, label, globl, params, fd.Body, typeRefName(fd.ReturnType), traces[label])
}

func emitMethod(w *asmBuf, t *ProgramTables, cd *ast.ClassDecl, m *ast.MethodDecl, traces map[string]traceStrings) error {
	params := paramSpecsFrom(m.Params)
	if !m.IsStatic {
		self := paramSpec{Name: "self", TypeName: cd.Name}
		params = append([]paramSpec{self}, params...)
	}
	layout := BuildFunctionLayout(params, m.Body)
	label := t.MethodLabels[methodKey{Type: cd.Name, Name: m.Name}]
	ec := &EmitContext{ProgramTables: t, Layout: layout, FnName: safeTypeName(cd.Name) + "_" + m.Name, CurrentClass: cd.Name}
	return emitCallableBody(w, ec, label, false, params, m.Body, typeRefName(m.ReturnType), traces[label])
}

func paramSpecsFrom(params []*ast.ParamDecl) []paramSpec {
	out := make([]paramSpec, len(params))
	for i, p := range params {
		out[i] = paramSpec{Name: p.Name, TypeName: typeRefName(p.Type)}
	}
	return out
}

// emitCallableBody emits the shared prologue/body/epilogue shape used by
// both free functions and methods.
func emitCallableBody(w *asmBuf, ec *EmitContext, label string, globl bool, params []paramSpec, body *ast.BlockStmt, returnType string, trace traceStrings) error {
	if globl {
		w.directive(".globl " + label)
	}
	w.label(label)
	w.instr("push rbp")
	w.instr("mov rbp, rsp")
	if ec.Layout.StackSize > 0 {
		w.instr("sub rsp, %d", ec.Layout.StackSize)
	}
	zeroAllSlots(w, ec.Layout)
	spillParams(w, ec, params)
	emitRootFrameInit(w, ec)
	w.instr("lea rdi, [rip+%s]", trace.NameLabel)
	w.instr("lea rsi, [rip+%s]", trace.FileLabel)
	w.instr("mov edx, %d", trace.Line)
	w.instr("mov ecx, %d", trace.Col)
	w.instr("call rt_trace_push")
	w.blank()

	if err := emitBlock(w, ec, body); err != nil {
		return err
	}

	w.blank()
	w.label(".L" + ec.FnName + "_epilogue")
	emitEpilogueTail(w, ec.Layout, returnType)
	w.blank()
	return nil
}

// emitEpilogueTail preserves the function's return value across
// rt_pop_roots and rt_trace_pop, then restores the caller's frame.
func emitEpilogueTail(w *asmBuf, l *FunctionLayout, returnType string) {
	isDouble := returnType == "double"
	if isDouble {
		w.instr("sub rsp, 8")
		w.instr("movsd [rsp], xmm0")
	} else {
		w.instr("push rax")
	}
	if l.RootSlotCount > 0 {
		w.instr("mov rdi, [rbp%+d]", l.ThreadStateOffset)
		w.instr("call rt_pop_roots")
	}
	w.instr("call rt_trace_pop")
	if isDouble {
		w.instr("movsd xmm0, [rsp]")
		w.instr("add rsp, 8")
	} else {
		w.instr("pop rax")
	}
	w.instr("leave")
	w.instr("ret")
}

func zeroAllSlots(w *asmBuf, l *FunctionLayout) {
	for _, name := range l.SlotNames {
		w.instr("mov qword ptr [rbp%+d], 0", l.SlotOffsets[name])
	}
	for _, name := range l.RootSlotNames {
		w.instr("mov qword ptr [rbp%+d], 0", l.RootSlotOffsets[name])
	}
	for _, off := range l.TempRootSlotOffsets {
		w.instr("mov qword ptr [rbp%+d], 0", off)
	}
}

func spillParams(w *asmBuf, ec *EmitContext, params []paramSpec) {
	intIdx, fltIdx := 0, 0
	seen := make(map[string]bool)
	for _, p := range params {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		off := ec.Layout.SlotOffsets[p.Name]
		if p.TypeName == "double" {
			w.instr("movsd [rbp%+d], %s", off, floatParamRegisters[fltIdx])
			fltIdx++
		} else {
			w.instr("mov [rbp%+d], %s", off, paramRegisters[intIdx])
			intIdx++
		}
		if ro, ok := ec.Layout.RootSlotOffsets[p.Name]; ok {
			w.instr("mov rax, [rbp%+d]", off)
			w.instr("mov [rbp%+d], rax", ro)
		}
	}
}

func emitRootFrameInit(w *asmBuf, ec *EmitContext) {
	L := ec.Layout
	if L.RootSlotCount == 0 {
		return
	}
	w.comment("init shadow-stack root frame")
	w.instr("call rt_thread_state")
	w.instr("mov [rbp%+d], rax", L.ThreadStateOffset)
	baseOffset := L.RootSlotOffsets[L.RootSlotNames[len(L.RootSlotNames)-1]]
	w.instr("lea rdi, [rbp%+d]", L.RootFrameOffset)
	w.instr("lea rsi, [rbp%+d]", baseOffset)
	w.instr("mov edx, %d", L.RootSlotCount)
	w.instr("call rt_root_frame_init")
	w.instr("mov rdi, [rbp%+d]", L.ThreadStateOffset)
	w.instr("lea rsi, [rbp%+d]", L.RootFrameOffset)
	w.instr("call rt_push_roots")
}
