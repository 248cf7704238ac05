package generate

import (
	"impc/classfile"
	"impc/types"
)

// generateUnit generates the unit class.  The unit class is a singleton: its
// static initializer creates the `instance` and then runs the unit's
// top-level statements.  Globals become static fields and every function that
// is not closure-converted becomes an instance method.
func (g *Generator) generateUnit() {
	unit := g.addClass(g.unitName, classfile.ACC_PUBLIC)

	unit.AddField(classfile.ACC_PUBLIC|classfile.ACC_STATIC|classfile.ACC_FINAL, "instance", unitDescriptor(g.unitName))

	for _, vd := range g.prog.Globals {
		access := classfile.ACC_STATIC
		if vd.Exported {
			access |= classfile.ACC_PUBLIC
		}

		unit.AddField(access, vd.Name, vd.Local.Type.Descriptor())
	}

	generateDefaultInit(unit, classfile.ACC_PUBLIC)

	clinit := unit.AddMethod(classfile.ACC_STATIC, "<clinit>", "()V")
	clinit.Code.EmitNew(g.unitName, "", nil)
	clinit.Code.EmitField(classfile.PUTSTATIC, g.unitName, "instance", unitDescriptor(g.unitName))

	g.bodyPredicates = append(g.bodyPredicates, bodyPredicate{
		code:  clinit.Code,
		frame: g.prog.Unit.Body.Scope.Frame(),
		stmts: g.prog.Unit.Body.Stmts,
	})

	var entry *types.Function
	for _, fd := range g.prog.Funcs {
		fn := fd.Func
		if fn == nil || fn.IsClosure() {
			continue
		}

		access := 0
		if fn.Exported {
			access = classfile.ACC_PUBLIC
		}

		method := unit.AddMethod(access, fn.Name, fn.MethodDescriptor())
		g.bodyPredicates = append(g.bodyPredicates, bodyPredicate{
			code:  method.Code,
			fn:    fn,
			frame: fd.Body.Scope.Frame(),
			stmts: fd.Body.Stmts,
		})

		if isEntryPoint(fn) {
			entry = fn
		}
	}

	if entry != nil {
		g.generateMainBridge(unit, entry)
	}
}

// isEntryPoint returns whether a function can be called by the runtime's
// entry point: a top-level `main` taking and returning nothing.
func isEntryPoint(fn *types.Function) bool {
	return fn.Name == "main" && len(fn.Params) == 0 && fn.Return == types.Void
}

// generateMainBridge generates the static `main` method which the runtime
// calls to start the program: it forwards to the unit's `main` method.
func (g *Generator) generateMainBridge(unit *classfile.Class, entry *types.Function) {
	bridge := unit.AddMethod(classfile.ACC_PUBLIC|classfile.ACC_STATIC, "main", "([Ljava/lang/String;)V")
	code := bridge.Code

	code.Reserve(1)
	code.EmitField(classfile.GETSTATIC, g.unitName, "instance", unitDescriptor(g.unitName))
	code.EmitInvoke(classfile.INVOKEVIRTUAL, g.unitName, entry.Name, entry.MethodDescriptor())
	code.Emit(classfile.RETURN)
}

// generateDefaultInit generates a constructor taking no arguments which only
// calls the constructor of `java/lang/Object`.
func generateDefaultInit(class *classfile.Class, access int) {
	init := class.AddMethod(access, "<init>", "()V")
	code := init.Code

	code.EmitVar(classfile.ALOAD, 0)
	code.EmitInvoke(classfile.INVOKESPECIAL, classfile.ObjectClass, "<init>", "()V")
	code.Emit(classfile.RETURN)
}
