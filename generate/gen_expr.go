package generate

import (
	"impc/ast"
	"impc/classfile"
	"impc/report"
	"impc/types"
)

// generateExpr generates an expression leaving its value on the stack.
func (g *Generator) generateExpr(expr ast.ASTExpr) {
	switch v := expr.(type) {
	case *ast.Literal:
		g.generateLiteral(v)
	case *ast.Identifier:
		if v.Func != nil {
			g.generateFunctionValue(v)
		} else if v.Local != nil {
			g.loadLocal(v.Local)
		} else {
			report.ICE("unresolved identifier `%s`", v.Name)
		}
	case *ast.Grouping:
		g.generateExpr(v.Inner)
	case *ast.Unary:
		g.generateUnary(v)
	case *ast.Binary:
		g.generateBinary(v)
	case *ast.Postfix:
		g.generatePostfix(v, true)
	case *ast.Assign:
		g.generateAssign(v, true)
	case *ast.PropertyAccess:
		g.generatePropertyAccess(v)
	case *ast.Call:
		g.generateCall(v)
	default:
		report.ICE("unknown expression node: %T", expr)
	}
}

// generateLiteral generates a literal constant.
func (g *Generator) generateLiteral(lit *ast.Literal) {
	switch c := lit.Const.(type) {
	case int32:
		g.code.EmitInt(c)
	case float32:
		g.code.EmitLDC(c)
	case string:
		g.code.EmitLDC(c)
	case bool:
		g.generateBool(c)
	default:
		report.ICE("literal `%s` has no constant value", lit.Value)
	}
}

// generateBool pushes a boolean constant.
func (g *Generator) generateBool(b bool) {
	if b {
		g.code.Emit(classfile.ICONST_1)
	} else {
		g.code.Emit(classfile.ICONST_0)
	}
}

// generateOne pushes the value one of a numeric type.
func (g *Generator) generateOne(typ types.Type) {
	if typ == types.Float {
		g.code.EmitLDC(float32(1))
	} else {
		g.code.EmitInt(1)
	}
}

// generateArith emits the instruction of an arithmetic operation for operands
// of the given type.
func (g *Generator) generateArith(typ types.Type, op types.ArithOp) {
	opcode, err := typ.Opcode(op)
	if err != nil {
		report.ICE("no instruction for arithmetic: %s", err)
	}

	g.code.Emit(opcode)
}

// -----------------------------------------------------------------------------

// generateUnary generates a unary operator application.
func (g *Generator) generateUnary(un *ast.Unary) {
	g.generateExpr(un.Operand)

	if un.Op.Kind == ast.OperNot {
		g.code.Emit(classfile.ICONST_1)
		g.code.Emit(classfile.IXOR)
	} else {
		g.generateArith(typeOf(un.Operand), types.OpNeg)
	}
}

// binaryArithOps maps arithmetic operators to their operation.
var binaryArithOps = map[ast.OperKind]types.ArithOp{
	ast.OperAdd: types.OpAdd,
	ast.OperSub: types.OpSub,
	ast.OperMul: types.OpMul,
	ast.OperDiv: types.OpDiv,
	ast.OperMod: types.OpRem,
}

// generateBinary generates a binary operator application.
func (g *Generator) generateBinary(bin *ast.Binary) {
	switch bin.Op.Kind {
	case ast.OperAnd:
		g.generateShortCircuit(bin, classfile.IFEQ)
		return
	case ast.OperOr:
		g.generateShortCircuit(bin, classfile.IFNE)
		return
	case ast.OperEq, ast.OperNEq:
		g.generateEquality(bin)
		return
	case ast.OperLT, ast.OperGT, ast.OperLTEq, ast.OperGTEq:
		g.generateComparison(bin)
		return
	case ast.OperPow:
		g.generatePow(bin)
		return
	case ast.OperAdd:
		if typeOf(bin) == types.String {
			g.generateConcat(bin)
			return
		}
	}

	op, ok := binaryArithOps[bin.Op.Kind]
	if !ok {
		report.ICE("unexpected binary operator `%s`", bin.Op.Name)
	}

	g.generateExpr(bin.Lhs)
	g.generateExpr(bin.Rhs)
	g.generateArith(typeOf(bin), op)
}

// generateShortCircuit generates `&&` and `||`.  The right operand is only
// evaluated when the left operand does not decide the result: shortOp is the
// jump taken on such a deciding value.
func (g *Generator) generateShortCircuit(bin *ast.Binary, shortOp classfile.Opcode) {
	short := g.code.NewLabel()
	end := g.code.NewLabel()

	g.generateExpr(bin.Lhs)
	g.code.EmitJump(shortOp, short)
	g.generateExpr(bin.Rhs)
	g.code.EmitJump(shortOp, short)

	// `&&` short circuits to false and `||` to true.
	shortValue := shortOp == classfile.IFNE

	g.generateBool(!shortValue)
	g.code.EmitJump(classfile.GOTO, end)
	g.code.Mark(short)
	g.generateBool(shortValue)
	g.code.Mark(end)
}

// generateCondJump materializes the result of a conditional jump as a bool.
// The operands of the jump must already be on the stack.
func (g *Generator) generateCondJump(jumpOp classfile.Opcode) {
	isTrue := g.code.NewLabel()
	end := g.code.NewLabel()

	g.code.EmitJump(jumpOp, isTrue)
	g.code.Emit(classfile.ICONST_0)
	g.code.EmitJump(classfile.GOTO, end)
	g.code.Mark(isTrue)
	g.code.Emit(classfile.ICONST_1)
	g.code.Mark(end)
}

// generateEquality generates `==` and `!=`.  Strings and structs compare
// structurally and functions by identity.
func (g *Generator) generateEquality(bin *ast.Binary) {
	g.generateExpr(bin.Lhs)
	g.generateExpr(bin.Rhs)

	eq := bin.Op.Kind == ast.OperEq

	switch typeOf(bin.Lhs).Kind() {
	case types.KindString, types.KindStruct:
		emitObjectsEquals(g.code)
		if !eq {
			g.code.Emit(classfile.ICONST_1)
			g.code.Emit(classfile.IXOR)
		}
	case types.KindFunction:
		if eq {
			g.generateCondJump(classfile.IF_ACMPEQ)
		} else {
			g.generateCondJump(classfile.IF_ACMPNE)
		}
	case types.KindFloat:
		g.code.Emit(classfile.FCMPL)
		if eq {
			g.generateCondJump(classfile.IFEQ)
		} else {
			g.generateCondJump(classfile.IFNE)
		}
	default:
		if eq {
			g.generateCondJump(classfile.IF_ICMPEQ)
		} else {
			g.generateCondJump(classfile.IF_ICMPNE)
		}
	}
}

// intComparisons maps the ordering operators to the jumps comparing two ints.
var intComparisons = map[ast.OperKind]classfile.Opcode{
	ast.OperLT:   classfile.IF_ICMPLT,
	ast.OperGT:   classfile.IF_ICMPGT,
	ast.OperLTEq: classfile.IF_ICMPLE,
	ast.OperGTEq: classfile.IF_ICMPGE,
}

// floatComparisons maps the ordering operators to the jumps testing the result
// of a float comparison.
var floatComparisons = map[ast.OperKind]classfile.Opcode{
	ast.OperLT:   classfile.IFLT,
	ast.OperGT:   classfile.IFGT,
	ast.OperLTEq: classfile.IFLE,
	ast.OperGTEq: classfile.IFGE,
}

// generateComparison generates the ordering operators.  Any comparison
// involving NaN is false.
func (g *Generator) generateComparison(bin *ast.Binary) {
	g.generateExpr(bin.Lhs)
	g.generateExpr(bin.Rhs)

	if typeOf(bin.Lhs) == types.Float {
		// NaN must fail the test: `fcmpg` yields 1 for `<` and `<=` and `fcmpl`
		// yields -1 for `>` and `>=`.
		if bin.Op.Kind == ast.OperLT || bin.Op.Kind == ast.OperLTEq {
			g.code.Emit(classfile.FCMPG)
		} else {
			g.code.Emit(classfile.FCMPL)
		}

		g.generateCondJump(floatComparisons[bin.Op.Kind])
	} else {
		g.generateCondJump(intComparisons[bin.Op.Kind])
	}
}

// generatePow generates exponentiation by `java/lang/Math.pow`.  The operands
// are widened to doubles and the result is narrowed back.
func (g *Generator) generatePow(bin *ast.Binary) {
	var widen, narrow classfile.Opcode
	if typeOf(bin) == types.Float {
		widen, narrow = classfile.F2D, classfile.D2F
	} else {
		widen, narrow = classfile.I2D, classfile.D2I
	}

	g.generateExpr(bin.Lhs)
	g.code.Emit(widen)
	g.generateExpr(bin.Rhs)
	g.code.Emit(widen)
	g.code.EmitInvoke(classfile.INVOKESTATIC, "java/lang/Math", "pow", "(DD)D")
	g.code.Emit(narrow)
}

// generateConcat generates string concatenation.  Operands of any type are
// rendered by the concatenation call site.
func (g *Generator) generateConcat(bin *ast.Binary) {
	g.generateExpr(bin.Lhs)
	g.generateExpr(bin.Rhs)

	g.code.EmitDynamic(concatSite(
		[]types.Type{typeOf(bin.Lhs), typeOf(bin.Rhs)},
		classfile.ConcatRecipeArg+classfile.ConcatRecipeArg,
	))
}

// -----------------------------------------------------------------------------

// generatePropertyAccess generates a field access chain or an enum value.
func (g *Generator) generatePropertyAccess(pa *ast.PropertyAccess) {
	if pa.Enum != nil {
		g.code.EmitInt(int32(pa.Ordinal))
		return
	}

	g.generateExpr(pa.Root)
	for i, field := range pa.Fields {
		g.code.EmitField(classfile.GETFIELD, pa.Owners[i].Name, field.Name, field.Type.Descriptor())
	}
}

// generateFieldOwner pushes the struct owning the last field of an access
// chain.  The index of the last field is returned.
func (g *Generator) generateFieldOwner(pa *ast.PropertyAccess) int {
	if len(pa.Fields) == 0 {
		report.ICE("field access at %s has no resolved fields", pa.Span())
	}

	g.generateExpr(pa.Root)

	last := len(pa.Fields) - 1
	for i, field := range pa.Fields[:last] {
		g.code.EmitField(classfile.GETFIELD, pa.Owners[i].Name, field.Name, field.Type.Descriptor())
	}

	return last
}

// generateAssign generates an assignment.  When keep is set, the assigned
// value is left on the stack as the value of the expression.
func (g *Generator) generateAssign(as *ast.Assign, keep bool) {
	switch t := as.Target.(type) {
	case *ast.Identifier:
		g.generateExpr(as.Value)
		if keep {
			g.code.Emit(classfile.DUP)
		}

		g.storeLocal(t.Local)
	case *ast.PropertyAccess:
		last := g.generateFieldOwner(t)

		g.generateExpr(as.Value)
		if keep {
			g.code.Emit(classfile.DUP_X1)
		}

		field := t.Fields[last]
		g.code.EmitField(classfile.PUTFIELD, t.Owners[last].Name, field.Name, field.Type.Descriptor())
	default:
		report.ICE("invalid assignment target: %T", as.Target)
	}
}

// generatePostfix generates `++` and `--`.  When keep is set, the value before
// the update is left on the stack.  Int locals of the current frame are
// updated in place by `iinc`.
func (g *Generator) generatePostfix(pf *ast.Postfix, keep bool) {
	typ := typeOf(pf.Operand)

	op, delta := types.OpAdd, 1
	if pf.Op.Kind == ast.OperDec {
		op, delta = types.OpSub, -1
	}

	switch t := pf.Operand.(type) {
	case *ast.Identifier:
		local := t.Local
		if typ == types.Int && !local.IsGlobal() && local.Frame == g.frame {
			if keep {
				g.loadLocal(local)
			}

			g.code.EmitIInc(local.Slot, delta)
			return
		}

		g.loadLocal(local)
		if keep {
			g.code.Emit(classfile.DUP)
		}

		g.generateOne(typ)
		g.generateArith(typ, op)
		g.storeLocal(local)
	case *ast.PropertyAccess:
		last := g.generateFieldOwner(t)
		field := t.Fields[last]
		owner := t.Owners[last].Name
		desc := field.Type.Descriptor()

		g.code.Emit(classfile.DUP)
		g.code.EmitField(classfile.GETFIELD, owner, field.Name, desc)
		if keep {
			g.code.Emit(classfile.DUP_X1)
		}

		g.generateOne(typ)
		g.generateArith(typ, op)
		g.code.EmitField(classfile.PUTFIELD, owner, field.Name, desc)
	default:
		report.ICE("invalid postfix operand: %T", pf.Operand)
	}
}
