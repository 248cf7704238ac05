package generate

import (
	"impc/ast"
	"impc/classfile"
	"impc/report"
	"impc/types"
)

// generateCall generates a function call according to its resolved kind.
func (g *Generator) generateCall(call *ast.Call) {
	switch call.Kind {
	case ast.CallLog:
		g.generateLogCall(call)
	case ast.CallFunc:
		fn := call.Target

		g.loadUnit()
		for _, arg := range call.Args {
			g.generateExpr(arg)
		}

		g.code.EmitInvoke(classfile.INVOKEVIRTUAL, g.unitName, fn.Name, fn.MethodDescriptor())
	case ast.CallClosure:
		g.generateClosureCall(call)
	case ast.CallValue:
		fn, ok := call.Callee.Type.(*types.Function)
		if !ok {
			report.ICE("called local `%s` is not a function", call.Callee.Name)
		}

		g.loadLocal(call.Callee)
		for _, arg := range call.Args {
			g.generateExpr(arg)
		}

		g.code.EmitInvoke(classfile.INVOKEVIRTUAL, fn.ClassName(), "invoke", fn.MethodDescriptor())
	case ast.CallConstructor:
		st := call.Struct

		g.code.EmitNew(st.Name, types.Descriptors(st.FieldTypes()), func() {
			for _, arg := range call.Args {
				g.generateExpr(arg)
			}
		})
	default:
		report.ICE("unresolved call at %s", call.Span())
	}
}

// generateLogCall generates a call to the built-in `log` function.  The value
// is printed by the `println` overload matching its type: structs use the
// `Object` overload and functions print their signature text.
func (g *Generator) generateLogCall(call *ast.Call) {
	arg := call.Args[0]
	typ := typeOf(arg)

	g.code.EmitField(classfile.GETSTATIC, "java/lang/System", "out", "Ljava/io/PrintStream;")
	g.generateExpr(arg)

	var desc string
	switch typ.Kind() {
	case types.KindInt, types.KindEnum:
		desc = "(I)V"
	case types.KindFloat:
		desc = "(F)V"
	case types.KindBool:
		desc = "(Z)V"
	case types.KindString:
		desc = "(Ljava/lang/String;)V"
	case types.KindStruct:
		desc = "(Ljava/lang/Object;)V"
	case types.KindFunction:
		g.code.EmitInvoke(classfile.INVOKEVIRTUAL, classfile.ObjectClass, "toString", "()Ljava/lang/String;")
		desc = "(Ljava/lang/String;)V"
	default:
		report.ICE("cannot log a value of type `%s`", typ.Repr())
	}

	g.code.EmitInvoke(classfile.INVOKEVIRTUAL, "java/io/PrintStream", "println", desc)
}
