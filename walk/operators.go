package walk

import (
	"impc/ast"
	"impc/report"
	"impc/types"
)

// arithOps maps the operators with a dedicated arithmetic instruction to their
// operation.
var arithOps = map[ast.OperKind]types.ArithOp{
	ast.OperAdd: types.OpAdd,
	ast.OperSub: types.OpSub,
	ast.OperMul: types.OpMul,
	ast.OperDiv: types.OpDiv,
	ast.OperMod: types.OpRem,

	// Exponentiation is computed by a library call but is only defined for
	// the types that multiply.
	ast.OperPow: types.OpMul,
}

// walkUnary walks a unary operator application.
func (w *Walker) walkUnary(un *ast.Unary) types.Type {
	typ := w.walkExpr(un.Operand)
	if types.IsInvalid(typ) {
		return types.Invalid
	}

	if un.Op.Kind == ast.OperNot {
		w.mustBe(types.Bool, un.Operand)
		return types.Bool
	}

	if _, err := typ.Opcode(types.OpNeg); err != nil {
		w.recError(report.UnsupportedOperation, un.Op.Span, "cannot apply `%s`: %s", un.Op.Name, err)
		return types.Invalid
	}

	return typ
}

// walkBinary walks a binary operator application.
func (w *Walker) walkBinary(bin *ast.Binary) types.Type {
	switch bin.Op.Kind {
	case ast.OperAnd, ast.OperOr:
		// The right operand is only evaluated depending on the left.
		w.walkExpr(bin.Lhs)

		w.conditional++
		w.walkExpr(bin.Rhs)
		w.conditional--

		w.mustBe(types.Bool, bin.Lhs)
		w.mustBe(types.Bool, bin.Rhs)
		return types.Bool
	case ast.OperRange:
		w.walkExpr(bin.Lhs)
		w.walkExpr(bin.Rhs)
		w.recError(report.UnsupportedOperation, bin.Op.Span, "ranges can only be used as the iterable of a for loop")
		return types.Invalid
	}

	lhsType := w.walkExpr(bin.Lhs)
	rhsType := w.walkExpr(bin.Rhs)

	switch bin.Op.Kind {
	case ast.OperEq, ast.OperNEq:
		w.checkOperands(bin, lhsType, rhsType)
		if lhsType == types.Void {
			w.recError(report.UnsupportedOperation, bin.Op.Span, "cannot compare values of type void")
		}

		return types.Bool
	case ast.OperLT, ast.OperGT, ast.OperLTEq, ast.OperGTEq:
		w.checkArith(bin, types.OpSub, lhsType, rhsType)
		return types.Bool
	case ast.OperAdd:
		if lhsType == types.String || rhsType == types.String {
			if lhsType == types.Void || rhsType == types.Void {
				w.recError(report.TypeMismatch, bin.Span(), "cannot concatenate a value of type void")
			}

			return types.String
		}
	}

	return w.checkArith(bin, arithOps[bin.Op.Kind], lhsType, rhsType)
}

// checkArith checks that both operands of an arithmetic operator support the
// operation and have the same type.  The operands' type is returned.
func (w *Walker) checkArith(bin *ast.Binary, op types.ArithOp, lhsType, rhsType types.Type) types.Type {
	if types.IsInvalid(lhsType) || types.IsInvalid(rhsType) {
		return types.Invalid
	}

	for _, typ := range []types.Type{lhsType, rhsType} {
		if _, err := typ.Opcode(op); err != nil {
			w.recError(report.UnsupportedOperation, bin.Op.Span, "cannot apply `%s`: %s", bin.Op.Name, err)
			return types.Invalid
		}
	}

	return w.checkOperands(bin, lhsType, rhsType)
}

// checkOperands checks that both operands of a binary operator have the same
// type.
func (w *Walker) checkOperands(bin *ast.Binary, lhsType, rhsType types.Type) types.Type {
	if !types.Equals(lhsType, rhsType) {
		w.recError(
			report.TypeMismatch,
			bin.Span(),
			"operands of `%s` must have the same type: got `%s` and `%s`",
			bin.Op.Name,
			lhsType.Repr(),
			rhsType.Repr(),
		)

		return types.Invalid
	}

	return lhsType
}
