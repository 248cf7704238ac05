package walk

import (
	"impc/ast"
	"impc/report"
	"impc/scope"
	"impc/types"
)

// Walker is responsible for walking a parsed unit and performing semantic
// analysis on it: it registers declarations, types expressions, checks
// statements and plans closure conversion.
type Walker struct {
	// The diagnostic log errors are recorded in.
	log *report.Log

	// The unit being walked.
	unit *ast.Unit

	// The registry shared by every scope of the unit.
	reg *scope.Registry

	// The scope lookups are currently performed in.
	scope *scope.Scope

	// The function whose body is being walked.  If this is `nil`, then there
	// is no enclosing function: ie. return statements are not valid.
	fn *types.Function

	// The number loops until the outermost function block.
	loopDepth int

	// Whether a `break` has been walked in the innermost loop.
	breaks bool

	// The number of conditionally evaluated contexts (short-circuit operands and
	// else-if conditions) enclosing the current expression.
	conditional int

	// The declarations collected during registration.
	funcs   []*ast.FuncDecl
	structs []*ast.StructDecl
	enums   []*ast.EnumDecl
	aliases []*ast.TypeAlias

	// The call sites and value references of functions in walk order.
	sites []*closureSite

	// The order in which locals were defined during walking.
	defOrder map[*scope.Local]int
}

// Program is a fully resolved unit ready for code generation.
type Program struct {
	Unit *ast.Unit

	// Every function declaration of the unit in registration order.
	Funcs []*ast.FuncDecl

	// The module-level variable declarations in declaration order.
	Globals []*ast.VarDecl

	// The structs and enums of the unit in registration order.
	Structs []*types.Struct
	Enums   []*types.Enum

	// The closure-converted functions of the unit.
	Closures []*ClosureRecord
}

// ClosureRecord is a function converted into a closure class.  Its capture
// set is the function's Captures.
type ClosureRecord struct {
	Func *types.Function
	Decl *ast.FuncDecl
}

// ControlMode is the manner in which control leaves a statement.
type ControlMode int

// Enumeration of control modes.
const (
	// ControlNone means control falls through to the next statement.
	ControlNone ControlMode = iota

	// ControlLoop means control jumps with `break` or `continue`.
	ControlLoop

	// ControlReturn means control always returns from the function.
	ControlReturn

	// ControlNoExit means control never leaves the statement normally: eg.
	// an infinite loop without a `break`.
	ControlNoExit
)

// Resolve semantically analyzes a parsed unit.  Diagnostics are recorded in
// the log: the returned program is only fit for code generation if none were
// recorded.
func Resolve(log *report.Log, unit *ast.Unit) *Program {
	w := &Walker{
		log:      log,
		unit:     unit,
		reg:      unit.Body.Scope.Registry(),
		defOrder: make(map[*scope.Local]int),
	}

	w.registerDecls()

	for _, stmt := range unit.Body.Stmts {
		w.walkTopStmt(stmt)
	}

	w.planClosures()

	return w.program()
}

// program assembles the resolved program.
func (w *Walker) program() *Program {
	prog := &Program{
		Unit:    w.unit,
		Funcs:   w.funcs,
		Structs: w.reg.Structs(),
	}

	for _, ed := range w.enums {
		if ed.Type != nil {
			prog.Enums = append(prog.Enums, ed.Type)
		}
	}

	for _, fd := range w.funcs {
		if fd.Func != nil && fd.Func.IsClosure() {
			prog.Closures = append(prog.Closures, &ClosureRecord{Func: fd.Func, Decl: fd})
		}
	}

	for _, stmt := range w.unit.Body.Stmts {
		if export, ok := stmt.(*ast.Export); ok {
			stmt = export.Decl
		}

		if vd, ok := stmt.(*ast.VarDecl); ok {
			prog.Globals = append(prog.Globals, vd)
		}
	}

	return prog
}

// walkTopStmt walks a top-level statement and catches any errors that occur.
func (w *Walker) walkTopStmt(stmt ast.ASTNode) {
	defer report.Catch(w.log)

	// Ensure that the walker is reset.
	defer func() {
		w.scope = nil
		w.fn = nil
		w.loopDepth = 0
		w.breaks = false
		w.conditional = 0
	}()

	w.scope = w.unit.Body.Scope
	w.walkStmt(stmt, true)
}

// -----------------------------------------------------------------------------

// define marks a local as defined: it becomes visible to lookups.
func (w *Walker) define(local *scope.Local, typ types.Type) {
	local.Type = typ
	local.Defined = true
	w.defOrder[local] = len(w.defOrder)
}

// resolveLabel resolves a type label to the type it names.  Unknown names are
// reported and yield the invalid type.
func (w *Walker) resolveLabel(label *ast.TypeLabel) types.Type {
	if typ, ok := w.reg.LookupType(label.Name); ok {
		return typ
	}

	w.recError(report.TypeNotFound, label.Span(), "undefined type: `%s`", label.Name)
	return types.Invalid
}

// mustBe reports a type mismatch if the expression does not have the expected
// type.
func (w *Walker) mustBe(expected types.Type, expr ast.ASTExpr) {
	if !types.Equals(expected, expr.Type()) {
		w.recError(
			report.TypeMismatch,
			expr.Span(),
			"expected a value of type `%s` but got `%s`",
			expected.Repr(),
			expr.Type().Repr(),
		)
	}
}

// -----------------------------------------------------------------------------

// error reports an error on the given span that should abort walking of the
// current top-level statement.
func (w *Walker) error(kind report.Kind, span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(kind, span, msg, args...))
}

// recError reports a recoverable error on the given span.
func (w *Walker) recError(kind report.Kind, span *report.TextSpan, msg string, args ...interface{}) {
	w.log.Addf(kind, span, msg, args...)
}
