package ast

import (
	"impc/report"
	"impc/scope"
	"impc/types"
)

// OperKind is the kind of an operator.
type OperKind int

// Enumeration of operator kinds.
const (
	OperAdd OperKind = iota
	OperSub
	OperMul
	OperDiv
	OperMod
	OperPow
	OperEq
	OperNEq
	OperLT
	OperGT
	OperLTEq
	OperGTEq
	OperAnd
	OperOr
	OperNot
	OperNeg
	OperInc
	OperDec
	OperRange
)

// Oper is an operator applied in an expression.
type Oper struct {
	Kind OperKind

	// The operator's source text.
	Name string

	Span *report.TextSpan
}

// -----------------------------------------------------------------------------

// LiteralKind is the kind of a literal.
type LiteralKind int

// Enumeration of literal kinds.
const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitBool
)

// Literal is a literal value.
type Literal struct {
	ExprBase

	Kind LiteralKind

	// The literal's source text.  String literals have their quotes removed
	// and their escape sequences decoded.
	Value string

	// The literal's constant value: an int32, float32, string or bool.  This
	// is set during resolution.
	Const interface{}
}

// Identifier is a named value: a variable or a function.
type Identifier struct {
	ExprBase

	Name string

	// The local the identifier refers to.  This is set during resolution for
	// identifiers naming variables.
	Local *scope.Local

	// The function the identifier refers to.  This is set during resolution for
	// identifiers used as first-class function values.
	Func *types.Function

	// The closure plan used to create the function value.
	Plan *ClosurePlan

	// The scope the identifier occurs in.  This is set during resolution.
	Scope *scope.Scope
}

// Binary is a binary operator application.
type Binary struct {
	ExprBase

	Op       *Oper
	Lhs, Rhs ASTExpr
}

// Unary is a prefix operator application.
type Unary struct {
	ExprBase

	Op      *Oper
	Operand ASTExpr
}

// Postfix is a postfix increment or decrement.
type Postfix struct {
	ExprBase

	Op      *Oper
	Operand ASTExpr
}

// Grouping is a parenthesized expression.
type Grouping struct {
	ExprBase

	Inner ASTExpr
}

// Assign is an assignment.  Its value is the assigned value.
type Assign struct {
	ExprBase

	Target, Value ASTExpr
}

// PropertyAccess is a chain of property accesses: `root.a.b`.
type PropertyAccess struct {
	ExprBase

	Root ASTExpr
	Path []*Identifier

	// The struct fields accessed by each element of the path.  This is set
	// during resolution.
	Fields []*types.Field

	// The struct owning each accessed field.
	Owners []*types.Struct

	// The enum whose value is accessed: `Color.Red`.  This is set during
	// resolution when the root names an enum.
	Enum *types.Enum

	// The ordinal of the accessed enum value.
	Ordinal int
}

// -----------------------------------------------------------------------------

// CallKind is the kind of a resolved call.
type CallKind int

// Enumeration of call kinds.
const (
	CallUnresolved CallKind = iota

	// CallLog is a call to the built-in `log` function.
	CallLog

	// CallFunc is a direct call to a unit method.
	CallFunc

	// CallClosure is a call to a closure-converted function by name.
	CallClosure

	// CallValue is a call through a local holding a function value.
	CallValue

	// CallConstructor is a struct construction.
	CallConstructor
)

// Call is a function call.
type Call struct {
	ExprBase

	Func ASTExpr
	Args []ASTExpr

	// The kind of call.  This is set during resolution.
	Kind CallKind

	// The called function for direct and closure calls.
	Target *types.Function

	// The constructed struct for constructor calls.
	Struct *types.Struct

	// The local holding the called function value for value calls.
	Callee *scope.Local

	// The closure plan for closure calls.
	Plan *ClosurePlan

	// The scope the call occurs in.  This is set during resolution.
	Scope *scope.Scope

	// Whether the call occurs in an expression that may not be evaluated: a
	// short-circuit operand or an else-if condition.
	Conditional bool
}

// ClosurePlan describes how a closure object is obtained at a call site or a
// function value reference.
type ClosurePlan struct {
	// The local holding the closure object.  This is nil for function values
	// which create a fresh object.
	Holder *scope.Local

	// Whether the holder must be initialized with a new object before use.
	InitHolder bool

	// The locals whose values are bound to the closure's captures in order.
	Captures []*scope.Local
}
