package generate

import (
	"impc/ast"
	"impc/classfile"
	"impc/report"
	"impc/scope"
	"impc/types"
	"impc/walk"
)

// generateClosure generates the class of a closure-converted function.  The
// class holds one field per capture: `closure` binds the captured values and
// `invoke` runs the function's body.
func (g *Generator) generateClosure(cr *walk.ClosureRecord) {
	fn := cr.Func
	className := fn.ClassName()

	class := g.addClass(className, classfile.ACC_PUBLIC)

	for _, capture := range fn.Captures {
		class.AddField(0, capture.Name, capture.Type.Descriptor())
	}

	generateDefaultInit(class, classfile.ACC_PUBLIC)

	bind := class.AddMethod(classfile.ACC_PUBLIC, "closure", fn.ClosureDescriptor())
	bind.Code.Reserve(len(fn.Captures) + 1)
	for i, capture := range fn.Captures {
		bind.Code.EmitVar(classfile.ALOAD, 0)
		bind.Code.EmitVar(capture.Type.LoadOp(), i+1)
		bind.Code.EmitField(classfile.PUTFIELD, className, capture.Name, capture.Type.Descriptor())
	}
	bind.Code.Emit(classfile.RETURN)

	invoke := class.AddMethod(classfile.ACC_PUBLIC, "invoke", fn.MethodDescriptor())
	g.bodyPredicates = append(g.bodyPredicates, bodyPredicate{
		code:    invoke.Code,
		fn:      fn,
		closure: true,
		frame:   cr.Decl.Body.Scope.Frame(),
		stmts:   cr.Decl.Body.Stmts,
	})

	toString := class.AddMethod(classfile.ACC_PUBLIC, "toString", "()Ljava/lang/String;")
	toString.Code.Reserve(1)
	toString.Code.EmitLDC(fn.Repr())
	toString.Code.Emit(classfile.ARETURN)
}

// -----------------------------------------------------------------------------

// generateClosureObject creates a closure object of a function and binds the
// given locals as its captures.  The object is left on the stack.
func (g *Generator) generateClosureObject(fn *types.Function, captures []*scope.Local) {
	g.code.EmitNew(fn.ClassName(), "", nil)
	g.code.Emit(classfile.DUP)
	g.generateBind(fn, captures)
}

// generateBind binds captured values to the closure object on top of the
// stack.  The object is consumed.
func (g *Generator) generateBind(fn *types.Function, captures []*scope.Local) {
	if len(captures) != len(fn.Captures) {
		report.ICE("closure of `%s` bound with %d captures but needs %d", fn.Name, len(captures), len(fn.Captures))
	}

	for _, local := range captures {
		g.loadLocal(local)
	}

	g.code.EmitInvoke(classfile.INVOKEVIRTUAL, fn.ClassName(), "closure", fn.ClosureDescriptor())
}

// generateFunctionValue generates a reference to a named function used as a
// value: a freshly bound closure object.
func (g *Generator) generateFunctionValue(id *ast.Identifier) {
	if id.Plan == nil {
		report.ICE("function value `%s` has no closure plan", id.Name)
	}

	g.generateClosureObject(id.Func, id.Plan.Captures)
}

// generateClosureCall generates a call by name to a closure-converted
// function.  The call site's holder local is initialized when the plan says
// so, rebound to the current values of the captures and then invoked.
func (g *Generator) generateClosureCall(call *ast.Call) {
	plan := call.Plan
	fn := call.Target
	if plan == nil || plan.Holder == nil {
		report.ICE("closure call to `%s` has no holder", fn.Name)
	}

	if plan.InitHolder {
		g.code.EmitNew(fn.ClassName(), "", nil)
		g.storeLocal(plan.Holder)
	}

	g.loadLocal(plan.Holder)
	g.generateBind(fn, plan.Captures)

	g.loadLocal(plan.Holder)
	for _, arg := range call.Args {
		g.generateExpr(arg)
	}

	g.code.EmitInvoke(classfile.INVOKEVIRTUAL, fn.ClassName(), "invoke", fn.MethodDescriptor())
}
