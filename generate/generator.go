package generate

import (
	"impc/ast"
	"impc/classfile"
	"impc/report"
	"impc/scope"
	"impc/types"
	"impc/walk"
)

// Generator is responsible for converting a resolved unit into classes for
// the target stack machine.  The generator trusts the resolver: any
// inconsistency it encounters is an internal compiler error.
type Generator struct {
	// The program being generated.
	prog *walk.Program

	// The name of the unit class.
	unitName string

	// The generated classes in generation order.
	classes []*classfile.Class

	// The list of body predicates extracted from definitions.
	bodyPredicates []bodyPredicate

	// The code of the method body being generated.
	code *classfile.Code

	// The function whose body is being generated.  This is nil for the unit's
	// static initializer.
	fn *types.Function

	// The closure-converted function whose `invoke` body is being generated.
	// This is nil outside of closure classes.
	closure *types.Function

	// The storage frame of the body being generated.
	frame *scope.Frame

	// The stack of enclosing loops.
	loops []*loopLabels
}

// bodyPredicate is a method body waiting to be generated.
type bodyPredicate struct {
	// The method's code.  Any prologue has already been emitted.
	code *classfile.Code

	// The function the body implements or nil for the static initializer.
	fn *types.Function

	// Whether the body is the `invoke` method of a closure class.
	closure bool

	// The storage frame of the body.
	frame *scope.Frame

	// The statements of the body.
	stmts []ast.ASTNode
}

// loopLabels are the jump targets of a loop.
type loopLabels struct {
	// The target of `continue`.
	cont classfile.Label

	// The target of `break`: the first instruction after the loop.
	end classfile.Label

	// Whether any jump to end has been emitted.
	endUsed bool
}

// Generate generates the classes of a resolved program: the unit class, one
// class per struct and one class per closure-converted function.
func Generate(prog *walk.Program) (classes []*classfile.Class, err error) {
	defer report.CatchICE(&err)

	g := &Generator{
		prog:     prog,
		unitName: prog.Unit.Name,
	}

	g.generateUnit()

	for _, st := range prog.Structs {
		g.generateStruct(st)
	}

	for _, cr := range prog.Closures {
		g.generateClosure(cr)
	}

	for _, pred := range g.bodyPredicates {
		g.generateBodyPredicate(pred)
	}

	return g.classes, nil
}

// addClass creates a new class and adds it to the generated classes.
func (g *Generator) addClass(name string, access int) *classfile.Class {
	class := classfile.NewClass(name, access)
	g.classes = append(g.classes, class)
	return class
}

// generateBodyPredicate generates a body predicate.
func (g *Generator) generateBodyPredicate(pred bodyPredicate) {
	g.code = pred.code
	g.fn = pred.fn
	g.frame = pred.frame
	g.loops = nil

	g.closure = nil
	if pred.closure {
		g.closure = pred.fn
	}

	g.code.Reserve(pred.frame.SlotCount())
	g.generateStmts(pred.stmts)

	// Void bodies may fall off their end: add in the implicit return.
	if !g.code.EndsWithReturn() {
		if g.fn != nil && g.fn.Return != types.Void {
			report.ICE("body of `%s` does not end with a return", g.fn.Name)
		}

		g.code.Emit(classfile.RETURN)
	}
}

// -----------------------------------------------------------------------------

// loadUnit pushes the unit instance: `this` inside the unit's own methods and
// the `instance` singleton everywhere else.
func (g *Generator) loadUnit() {
	if g.fn != nil && g.closure == nil {
		g.code.EmitVar(classfile.ALOAD, 0)
	} else {
		g.code.EmitField(classfile.GETSTATIC, g.unitName, "instance", unitDescriptor(g.unitName))
	}
}

// loadLocal pushes the value of a local.  Locals of enclosing functions are
// read from the fields of the closure being generated.
func (g *Generator) loadLocal(local *scope.Local) {
	switch {
	case local.IsGlobal():
		g.code.EmitField(classfile.GETSTATIC, g.unitName, local.Name, local.Type.Descriptor())
	case local.Frame == g.frame:
		g.code.EmitVar(local.Type.LoadOp(), local.Slot)
	case g.closure != nil:
		g.code.EmitVar(classfile.ALOAD, 0)
		g.code.EmitField(classfile.GETFIELD, g.closure.ClassName(), local.Name, local.Type.Descriptor())
	default:
		report.ICE("local `%s` is not accessible from its use", local.Name)
	}
}

// storeLocal stores the value on top of the stack into a local.
func (g *Generator) storeLocal(local *scope.Local) {
	switch {
	case local.IsGlobal():
		g.code.EmitField(classfile.PUTSTATIC, g.unitName, local.Name, local.Type.Descriptor())
	case local.Frame == g.frame:
		g.code.EmitVar(local.Type.StoreOp(), local.Slot)
	default:
		report.ICE("local `%s` cannot be stored to from its use", local.Name)
	}
}

// unitDescriptor returns the field descriptor of the unit class.
func unitDescriptor(unitName string) string {
	return "L" + unitName + ";"
}

// typeOf returns the resolved type of an expression.  Unresolved types are
// internal errors.
func typeOf(expr ast.ASTExpr) types.Type {
	typ := expr.Type()
	if types.IsInvalid(typ) {
		report.ICE("expression at %s has no resolved type", expr.Span())
	}

	return typ
}
