// Package ast defines the immutable node types produced by the parser:
// types, declarations, statements, and expressions.
package ast

import "github.com/nifc-lang/nifc/internal/token"

// TypeRef is either a NamedType or an ArrayType.
type TypeRef interface {
	typeRef()
	Span() token.Span
}

// NamedType is a primitive, Obj, or (possibly dotted) class type name.
type NamedType struct {
	Name string // e.g. "i64", "Obj", "Counter", "util.Box"
	Sp   token.Span
}

func (*NamedType) typeRef()          {}
func (n *NamedType) Span() token.Span { return n.Sp }

// ArrayType wraps another TypeRef: `T[]`.
type ArrayType struct {
	Elem TypeRef
	Sp   token.Span
}

func (*ArrayType) typeRef()          {}
func (a *ArrayType) Span() token.Span { return a.Sp }

// ParamDecl is a single function/method parameter.
type ParamDecl struct {
	Name string
	Type TypeRef
	Sp   token.Span
}

// FieldDecl is a class field.
type FieldDecl struct {
	Name      string
	Type      TypeRef
	IsPrivate bool
	Sp        token.Span
}

// MethodDecl is a class method.
type MethodDecl struct {
	Name       string
	Params     []*ParamDecl
	ReturnType TypeRef
	Body       *BlockStmt
	IsStatic   bool
	IsPrivate  bool
	Sp         token.Span
}

// FunctionDecl is a top-level function. Body is nil iff IsExtern.
type FunctionDecl struct {
	Name       string
	Params     []*ParamDecl
	ReturnType TypeRef
	Body       *BlockStmt
	IsExport   bool
	IsExtern   bool
	Sp         token.Span
}

// ClassDecl is a top-level class declaration.
type ClassDecl struct {
	Name     string
	Fields   []*FieldDecl
	Methods  []*MethodDecl
	IsExport bool
	Sp       token.Span
}

// ImportDecl imports another module by dotted path.
type ImportDecl struct {
	ModulePath []string
	IsExport   bool
	Sp         token.Span
}

// ModuleAst is the parsed contents of one source file.
type ModuleAst struct {
	Imports   []*ImportDecl
	Classes   []*ClassDecl
	Functions []*FunctionDecl
	Sp        token.Span
}

// ---- Expressions ----

// Expr is the tagged-union interface for all expression nodes.
type Expr interface {
	exprNode()
	Span() token.Span
}

type Identifier struct {
	Name string
	Sp   token.Span
}

type Literal struct {
	Text string // raw lexeme, e.g. "42", "3.14", "\"hi\"", "'a'"
	Kind token.Kind
	Sp   token.Span
}

type NullLit struct{ Sp token.Span }

type UnaryExpr struct {
	Op      token.Kind // BANG or MINUS
	Operand Expr
	Sp      token.Span
}

type BinaryExpr struct {
	Op    token.Kind
	Left  Expr
	Right Expr
	Sp    token.Span
}

type CastExpr struct {
	Type    TypeRef
	Operand Expr
	Sp      token.Span
}

type CallExpr struct {
	Callee Expr
	Args   []Expr
	Sp     token.Span
}

type FieldAccessExpr struct {
	Object Expr
	Name   string
	Sp     token.Span
}

type IndexExpr struct {
	Object Expr
	Index  Expr
	Sp     token.Span
}

type ArrayCtorExpr struct {
	ElemType TypeRef
	Length   Expr
	Sp       token.Span
}

func (*Identifier) exprNode()      {}
func (*Literal) exprNode()         {}
func (*NullLit) exprNode()         {}
func (*UnaryExpr) exprNode()       {}
func (*BinaryExpr) exprNode()      {}
func (*CastExpr) exprNode()        {}
func (*CallExpr) exprNode()        {}
func (*FieldAccessExpr) exprNode() {}
func (*IndexExpr) exprNode()       {}
func (*ArrayCtorExpr) exprNode()   {}

func (n *Identifier) Span() token.Span      { return n.Sp }
func (n *Literal) Span() token.Span         { return n.Sp }
func (n *NullLit) Span() token.Span         { return n.Sp }
func (n *UnaryExpr) Span() token.Span       { return n.Sp }
func (n *BinaryExpr) Span() token.Span      { return n.Sp }
func (n *CastExpr) Span() token.Span        { return n.Sp }
func (n *CallExpr) Span() token.Span        { return n.Sp }
func (n *FieldAccessExpr) Span() token.Span { return n.Sp }
func (n *IndexExpr) Span() token.Span       { return n.Sp }
func (n *ArrayCtorExpr) Span() token.Span   { return n.Sp }

// ---- Statements ----

// Stmt is the tagged-union interface for all statement nodes.
type Stmt interface {
	stmtNode()
	Span() token.Span
}

type BlockStmt struct {
	Stmts []Stmt
	Sp    token.Span
}

type VarDeclStmt struct {
	Name string
	Type TypeRef
	Init Expr // nil if absent
	Sp   token.Span
}

// ElseBranch is Block | If | nil, modeled as an interface implemented by
// *BlockStmt and *IfStmt.
type ElseBranch interface {
	elseBranch()
}

func (*BlockStmt) elseBranch() {}
func (*IfStmt) elseBranch()    {}

type IfStmt struct {
	Cond Expr
	Then *BlockStmt
	Else ElseBranch // nil, *BlockStmt, or *IfStmt
	Sp   token.Span
}

type WhileStmt struct {
	Cond Expr
	Body *BlockStmt
	Sp   token.Span
}

type ReturnStmt struct {
	Value Expr // nil if bare `return;`
	Sp    token.Span
}

type BreakStmt struct{ Sp token.Span }
type ContinueStmt struct{ Sp token.Span }

type AssignStmt struct {
	Target Expr // Identifier | FieldAccessExpr | IndexExpr
	Value  Expr
	Sp     token.Span
}

type ExprStmt struct {
	Expr Expr
	Sp   token.Span
}

func (*BlockStmt) stmtNode()    {}
func (*VarDeclStmt) stmtNode()  {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()   {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*AssignStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()     {}

func (n *BlockStmt) Span() token.Span    { return n.Sp }
func (n *VarDeclStmt) Span() token.Span  { return n.Sp }
func (n *IfStmt) Span() token.Span       { return n.Sp }
func (n *WhileStmt) Span() token.Span    { return n.Sp }
func (n *ReturnStmt) Span() token.Span   { return n.Sp }
func (n *BreakStmt) Span() token.Span    { return n.Sp }
func (n *ContinueStmt) Span() token.Span { return n.Sp }
func (n *AssignStmt) Span() token.Span   { return n.Sp }
func (n *ExprStmt) Span() token.Span     { return n.Sp }
