package codegen

import (
	"sort"

	"github.com/nifc-lang/nifc/internal/ast"
)

// typeRefName renders a TypeRef to its lowered type-name string, matching
// ast.TypeName's surface syntax except array types collapse to "T[]" with
// T itself lowered (ast.TypeName already does this).
func typeRefName(t ast.TypeRef) string {
	if t == nil {
		return "unit"
	}
	return ast.TypeName(t)
}

func isReferenceTypeName(name string) bool {
	return !primitiveTypeNames[name]
}

// collectLocalVarDecls walks a function/method body and returns every
// VarDeclStmt reachable from it, in the order first encountered by a
// depth-first walk of blocks, if/else branches, and while bodies.
func collectLocalVarDecls(body *ast.BlockStmt) []*ast.VarDeclStmt {
	var out []*ast.VarDeclStmt
	var walkBlock func(b *ast.BlockStmt)
	var walkStmt func(s ast.Stmt)
	walkBlock = func(b *ast.BlockStmt) {
		if b == nil {
			return
		}
		for _, st := range b.Stmts {
			walkStmt(st)
		}
	}
	walkStmt = func(s ast.Stmt) {
		switch v := s.(type) {
		case *ast.VarDeclStmt:
			out = append(out, v)
		case *ast.BlockStmt:
			walkBlock(v)
		case *ast.IfStmt:
			walkBlock(v.Then)
			switch e := v.Else.(type) {
			case *ast.BlockStmt:
				walkBlock(e)
			case *ast.IfStmt:
				walkStmt(e)
			}
		case *ast.WhileStmt:
			walkBlock(v.Body)
		}
	}
	walkBlock(body)
	return out
}

// paramSpec is a function or synthesized-receiver parameter going into a
// FunctionLayout.
type paramSpec struct {
	Name     string
	TypeName string
}

// BuildFunctionLayout lays out a function/method frame: params first in
// source order (the receiver, if any, occupies slot 0), then every local
// variable name discovered in the body in sorted order, first use wins on
// duplicate names. Reference-typed slots additionally receive a root slot;
// a temp root pool of six slots is appended whenever any root slot exists.
func BuildFunctionLayout(params []paramSpec, body *ast.BlockStmt) *FunctionLayout {
	layout := &FunctionLayout{
		SlotOffsets:     make(map[string]int),
		SlotTypeNames:   make(map[string]string),
		RootSlotIndices: make(map[string]int),
		RootSlotOffsets: make(map[string]int),
	}

	seen := make(map[string]bool)
	for _, p := range params {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		layout.SlotNames = append(layout.SlotNames, p.Name)
		layout.SlotTypeNames[p.Name] = p.TypeName
	}

	locals := collectLocalVarDecls(body)
	localNames := make([]string, 0, len(locals))
	localTypes := make(map[string]string, len(locals))
	for _, v := range locals {
		if _, dup := localTypes[v.Name]; dup {
			continue
		}
		localTypes[v.Name] = typeRefName(v.Type)
		localNames = append(localNames, v.Name)
	}
	sort.Strings(localNames)
	for _, name := range localNames {
		if seen[name] {
			continue
		}
		seen[name] = true
		layout.SlotNames = append(layout.SlotNames, name)
		layout.SlotTypeNames[name] = localTypes[name]
	}

	offset := 0
	for _, name := range layout.SlotNames {
		offset += primitiveSize
		layout.SlotOffsets[name] = -offset
	}
	valueSlotBytes := offset

	for _, name := range layout.SlotNames {
		if isReferenceTypeName(layout.SlotTypeNames[name]) {
			layout.RootSlotNames = append(layout.RootSlotNames, name)
		}
	}
	for i, name := range layout.RootSlotNames {
		layout.RootSlotIndices[name] = i
		offset += primitiveSize
		layout.RootSlotOffsets[name] = -offset
	}
	layout.RootSlotCount = len(layout.RootSlotNames)
	layout.TempRootSlotStartIndex = layout.RootSlotCount

	if layout.RootSlotCount > 0 {
		for i := 0; i < tempRootSlotCount; i++ {
			offset += primitiveSize
			layout.TempRootSlotOffsets = append(layout.TempRootSlotOffsets, -offset)
		}
		offset += primitiveSize
		layout.ThreadStateOffset = -offset
		offset += objectHeaderBytes
		layout.RootFrameOffset = -offset
	}

	_ = valueSlotBytes
	layout.StackSize = alignUp16(offset)
	return layout
}

func alignUp16(n int) int {
	if n%16 == 0 {
		return n
	}
	return n + (16 - n%16)
}
