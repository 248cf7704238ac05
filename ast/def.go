package ast

import (
	"impc/report"
	"impc/scope"
	"impc/types"
)

// TypeLabel is a type written in source.
type TypeLabel struct {
	ASTBase

	Name string
}

// Param is a function parameter.
type Param struct {
	ASTBase

	Name  string
	Label *TypeLabel

	// The parameter's local in the function's body scope.
	Local *scope.Local
}

// FuncDecl is a function declaration.
type FuncDecl struct {
	ASTBase

	Name     string
	NameSpan *report.TextSpan
	Params   []*Param

	// The return type label.  This is nil for functions returning void.
	ReturnLabel *TypeLabel

	// The function's body.  The body's scope opens the function's frame.
	Body *Block

	// The declared function.  This is set during registration.
	Func *types.Function

	Exported bool
}

// FieldDecl is a struct field declaration.
type FieldDecl struct {
	ASTBase

	Name  string
	Label *TypeLabel
}

// StructDecl is a struct declaration.
type StructDecl struct {
	ASTBase

	Name   string
	Fields []*FieldDecl

	// The declared struct type.  This is set during registration.
	Type *types.Struct

	Exported bool
}

// EnumDecl is an enum declaration.
type EnumDecl struct {
	ASTBase

	Name   string
	Values []string

	// The declared enum type.  This is set during registration.
	Type *types.Enum

	Exported bool
}

// TypeAlias is a type alias declaration: `type Meters = int`.
type TypeAlias struct {
	ASTBase

	Name  string
	Label *TypeLabel

	Exported bool
}

// Export marks a declaration as exported.
type Export struct {
	ASTBase

	Decl ASTNode
}
