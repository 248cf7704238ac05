package ast

import (
	"impc/scope"
	"impc/types"
)

// Block is a list of statements with its own scope.
type Block struct {
	ASTBase

	Stmts []ASTNode
	Scope *scope.Scope
}

// Unit is a whole compilation unit: one source file.
type Unit struct {
	// The name of the unit.  This is the name of the unit's class.
	Name string

	// The path to the unit's source file.
	FilePath string

	// The top-level statements of the unit.  The body's scope is the unit
	// scope.
	Body *Block
}

// VarDecl is a variable declaration.
type VarDecl struct {
	ASTBase

	Name    string
	Mutable bool

	// The optional type label.
	Label *TypeLabel

	Init ASTExpr

	// The declared local.
	Local *scope.Local

	Exported bool
}

// Return is a return statement.
type Return struct {
	ASTBase

	// The returned value.  This is nil for bare returns.
	Value ASTExpr

	// The function being returned from.  This is set during resolution.
	Func *types.Function
}

// If is a conditional statement.
type If struct {
	ASTBase

	Cond ASTExpr
	Then *Block

	// The else branch: nil, an *If or a *Block.
	Else ASTNode
}

// Loop is a loop with an optional condition.  Loops without a condition run
// until exited with `break` or `return`.
type Loop struct {
	ASTBase

	Cond ASTExpr
	Body *Block
}

// ForLoop is a C-style loop: `for init; cond; update { ... }`.
type ForLoop struct {
	ASTBase

	Init   *VarDecl
	Cond   ASTExpr
	Update ASTExpr
	Body   *Block

	// The scope of the loop header containing the loop variable.
	Scope *scope.Scope
}

// ForInLoop is a loop over a range: `for x in a..b { ... }`.
type ForInLoop struct {
	ASTBase

	VarName string
	Iter    ASTExpr
	Body    *Block

	// The loop variable.
	Var *scope.Local

	// The hidden local holding the range's end.
	End *scope.Local

	// The scope of the loop header.
	Scope *scope.Scope
}

// KeywordKind is the kind of a keyword statement.
type KeywordKind int

// Enumeration of keyword statement kinds.
const (
	KeywordBreak KeywordKind = iota
	KeywordContinue
)

// KeywordStmt represents a single keyword control flow statement (eg. `break`).
type KeywordStmt struct {
	ASTBase

	Kind KeywordKind
}
