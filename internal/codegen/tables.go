package codegen

import (
	"github.com/nifc-lang/nifc/internal/ast"
	"github.com/nifc-lang/nifc/internal/link"
	"github.com/nifc-lang/nifc/internal/token"
)

// BuildProgramTables scans the whole linked module once to assign stable
// mangled labels to every function, method, and constructor, record their
// return types, lay out every class's field offsets, and intern every
// distinct string literal in declaration order.
func BuildProgramTables(cm *link.CodegenModule) *ProgramTables {
	t := &ProgramTables{
		MethodLabels:        make(map[methodKey]string),
		MethodReturnTypes:   make(map[methodKey]string),
		MethodIsStatic:      make(map[methodKey]bool),
		ConstructorLabels:   make(map[string]*ConstructorLayout),
		FunctionLabels:      make(map[string]string),
		FunctionReturnTypes: make(map[string]string),
		StringLiteralLabels: make(map[string]stringLiteral),
		ClassFieldTypeNames: make(map[methodKey]string),
		ClassFieldOffsets:   make(map[methodKey]int),
	}

	for _, fd := range cm.Functions {
		t.FunctionLabels[fd.Name] = functionSymbol(fd.Name)
		t.FunctionReturnTypes[fd.Name] = typeRefName(fd.ReturnType)
	}

	for _, cd := range cm.Classes {
		offset := objectHeaderBytes
		for _, f := range cd.Fields {
			k := methodKey{Type: cd.Name, Name: f.Name}
			t.ClassFieldTypeNames[k] = typeRefName(f.Type)
			t.ClassFieldOffsets[k] = offset
			offset += primitiveSize
		}
		payload := offset - objectHeaderBytes
		fieldNames := make([]string, len(cd.Fields))
		fieldOffsets := make(map[string]int, len(cd.Fields))
		for i, f := range cd.Fields {
			fieldNames[i] = f.Name
			fieldOffsets[f.Name] = t.ClassFieldOffsets[methodKey{Type: cd.Name, Name: f.Name}]
		}
		t.ConstructorLabels[cd.Name] = &ConstructorLayout{
			ClassName:    cd.Name,
			Label:        constructorSymbol(cd.Name),
			TypeSymbol:   typeDescriptorSymbol(cd.Name),
			PayloadBytes: payload,
			FieldNames:   fieldNames,
			FieldOffsets: fieldOffsets,
		}
		for _, m := range cd.Methods {
			k := methodKey{Type: cd.Name, Name: m.Name}
			t.MethodLabels[k] = methodSymbol(cd.Name, m.Name)
			t.MethodReturnTypes[k] = typeRefName(m.ReturnType)
			t.MethodIsStatic[k] = m.IsStatic
		}
	}

	collectStringLiterals(cm, t)
	return t
}

// collectStringLiterals walks every function and method body in link order
// and assigns each distinct literal text a stable `__nif_str_lit_<i>` label
// in first-encounter order, matching spec.md §4.7.6.
func collectStringLiterals(cm *link.CodegenModule, t *ProgramTables) {
	var order []string
	seen := make(map[string]bool)
	record := func(lit *ast.Literal) {
		if lit.Kind != token.STRING_LIT {
			return
		}
		if seen[lit.Text] {
			return
		}
		seen[lit.Text] = true
		order = append(order, lit.Text)
	}

	var walkExpr func(e ast.Expr)
	var walkBlock func(b *ast.BlockStmt)
	var walkStmt func(s ast.Stmt)

	walkExpr = func(e ast.Expr) {
		if e == nil {
			return
		}
		switch v := e.(type) {
		case *ast.Literal:
			record(v)
		case *ast.UnaryExpr:
			walkExpr(v.Operand)
		case *ast.BinaryExpr:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case *ast.CastExpr:
			walkExpr(v.Operand)
		case *ast.CallExpr:
			walkExpr(v.Callee)
			for _, a := range v.Args {
				walkExpr(a)
			}
		case *ast.FieldAccessExpr:
			walkExpr(v.Object)
		case *ast.IndexExpr:
			walkExpr(v.Object)
			walkExpr(v.Index)
		case *ast.ArrayCtorExpr:
			walkExpr(v.Length)
		}
	}
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
		case *ast.BlockStmt:
			walkBlock(v)
		case *ast.VarDeclStmt:
			walkExpr(v.Init)
		case *ast.IfStmt:
			walkExpr(v.Cond)
			walkBlock(v.Then)
			switch e := v.Else.(type) {
			case *ast.BlockStmt:
				walkBlock(e)
			case *ast.IfStmt:
				walkStmt(e)
			}
		case *ast.WhileStmt:
			walkExpr(v.Cond)
			walkBlock(v.Body)
		case *ast.ReturnStmt:
			walkExpr(v.Value)
		case *ast.AssignStmt:
			walkExpr(v.Target)
			walkExpr(v.Value)
		case *ast.ExprStmt:
			walkExpr(v.Expr)
		}
	}

	for _, fd := range cm.Functions {
		walkBlock(fd.Body)
	}
	for _, cd := range cm.Classes {
		for _, m := range cd.Methods {
			walkBlock(m.Body)
		}
	}

	for i, text := range order {
		t.StringLiteralOrder = append(t.StringLiteralOrder, text)
		t.StringLiteralLabels[text] = stringLiteral{Label: "__nif_str_lit_" + itoa(i), Length: len(decodeStringBytes(text))}
	}
}
