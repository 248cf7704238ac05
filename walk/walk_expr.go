package walk

import (
	"strconv"

	"impc/ast"
	"impc/report"
	"impc/scope"
	"impc/types"
)

// walkExpr walks an expression.  The expression's type is set and returned.
// Expressions that fail to resolve are given the invalid type.
func (w *Walker) walkExpr(expr ast.ASTExpr) types.Type {
	var typ types.Type

	switch v := expr.(type) {
	case *ast.Literal:
		typ = w.walkLiteral(v)
	case *ast.Identifier:
		typ = w.walkIdentifier(v)
	case *ast.Grouping:
		typ = w.walkExpr(v.Inner)
	case *ast.Unary:
		typ = w.walkUnary(v)
	case *ast.Binary:
		typ = w.walkBinary(v)
	case *ast.Postfix:
		typ = w.walkPostfix(v)
	case *ast.Assign:
		typ = w.walkAssign(v)
	case *ast.PropertyAccess:
		typ = w.walkPropertyAccess(v)
	case *ast.Call:
		typ = w.walkCall(v)
	default:
		report.ICE("unknown expression node: %T", expr)
	}

	expr.SetType(typ)
	return typ
}

// walkLiteral walks a literal value computing its constant value.
func (w *Walker) walkLiteral(lit *ast.Literal) types.Type {
	switch lit.Kind {
	case ast.LitInt:
		n, err := strconv.ParseInt(lit.Value, 0, 32)
		if err != nil {
			w.recError(report.TypeMismatch, lit.Span(), "integer literal `%s` does not fit in 32 bits", lit.Value)
			return types.Invalid
		}

		lit.Const = int32(n)
		return types.Int
	case ast.LitFloat:
		f, err := strconv.ParseFloat(lit.Value, 32)
		if err != nil {
			w.recError(report.TypeMismatch, lit.Span(), "float literal `%s` is out of range", lit.Value)
			return types.Invalid
		}

		lit.Const = float32(f)
		return types.Float
	case ast.LitString:
		lit.Const = lit.Value
		return types.String
	default:
		lit.Const = lit.Value == "true"
		return types.Bool
	}
}

// walkIdentifier walks an identifier used as a value: a variable or a named
// function used as a first-class value.
func (w *Walker) walkIdentifier(id *ast.Identifier) types.Type {
	id.Scope = w.scope

	if local, ok := w.scope.Lookup(id.Name); ok {
		id.Local = local
		w.markRead(local)

		if local.Type == nil {
			return types.Invalid
		}

		return local.Type
	}

	if set, ok := w.reg.Overloads(id.Name); ok {
		if len(set.Overloads) > 1 {
			w.recError(
				report.FunctionSignatureMismatch,
				id.Span(),
				"cannot use overloaded function `%s` as a value: candidates are %s",
				id.Name,
				set.Signatures(),
			)

			return types.Invalid
		}

		fn := set.Overloads[0]
		fn.FirstClass = true
		id.Func = fn
		w.addSite(&closureSite{ident: id, fn: fn})
		return fn
	}

	if _, ok := w.reg.LookupType(id.Name); ok {
		w.recError(report.NameNotFound, id.Span(), "type `%s` cannot be used as a value", id.Name)
	} else {
		w.recError(report.NameNotFound, id.Span(), "undefined name: `%s`", id.Name)
	}

	return types.Invalid
}

// markRead records that a local is read from the current scope.  Reading a
// local owned by the frame of an enclosing function makes it a capture of
// every function between the reader and the owner.
func (w *Walker) markRead(local *scope.Local) {
	if !local.IsGlobal() {
		propagateCapture(local, w.scope.Frame())
	}
}

// propagateCapture adds a local to the capture set of every function frame
// from the given frame up to the frame owning the local.  It returns whether
// any capture set changed.
func propagateCapture(local *scope.Local, from *scope.Frame) bool {
	typ := local.Type
	if typ == nil {
		typ = types.Invalid
	}

	added := false
	for fr := from; fr != nil && fr != local.Frame; fr = fr.Parent {
		if fr.Func != nil && fr.Func.AddCapture(local.Name, typ) {
			added = true
		}
	}

	return added
}

// -----------------------------------------------------------------------------

// walkPropertyAccess walks a chain of struct field accesses or an enum value.
func (w *Walker) walkPropertyAccess(pa *ast.PropertyAccess) types.Type {
	if root, ok := pa.Root.(*ast.Identifier); ok {
		if _, isLocal := w.scope.Lookup(root.Name); !isLocal {
			if typ, ok := w.reg.LookupType(root.Name); ok {
				if et, ok := typ.(*types.Enum); ok {
					return w.walkEnumValue(pa, root, et)
				}
			}
		}
	}

	typ := w.walkExpr(pa.Root)
	for _, elem := range pa.Path {
		if types.IsInvalid(typ) {
			return types.Invalid
		}

		st, ok := typ.(*types.Struct)
		if !ok {
			w.recError(report.UnsupportedOperation, elem.Span(), "type `%s` has no fields", typ.Repr())
			return types.Invalid
		}

		field, ok := st.FieldByName(elem.Name)
		if !ok {
			w.recError(report.NameNotFound, elem.Span(), "struct `%s` has no field named `%s`", st.Name, elem.Name)
			return types.Invalid
		}

		pa.Fields = append(pa.Fields, field)
		pa.Owners = append(pa.Owners, st)
		elem.SetType(field.Type)
		typ = field.Type
	}

	return typ
}

// walkEnumValue walks an access to an enum value: `Color.Red`.
func (w *Walker) walkEnumValue(pa *ast.PropertyAccess, root *ast.Identifier, et *types.Enum) types.Type {
	root.SetType(et)

	value := pa.Path[0]
	ordinal, ok := et.Ordinal(value.Name)
	if !ok {
		w.recError(report.NameNotFound, value.Span(), "enum `%s` has no value named `%s`", et.Name, value.Name)
		return types.Invalid
	}

	if len(pa.Path) > 1 {
		w.recError(report.UnsupportedOperation, pa.Path[1].Span(), "type `%s` has no fields", et.Name)
		return types.Invalid
	}

	pa.Enum = et
	pa.Ordinal = ordinal
	value.SetType(et)
	return et
}

// -----------------------------------------------------------------------------

// walkAssign walks an assignment.
func (w *Walker) walkAssign(as *ast.Assign) types.Type {
	targetType := w.walkTarget(as.Target)
	valueType := w.walkExpr(as.Value)

	if !types.Equals(targetType, valueType) {
		w.recError(
			report.TypeMismatch,
			as.Value.Span(),
			"cannot assign a value of type `%s` to `%s`",
			valueType.Repr(),
			targetType.Repr(),
		)
	}

	return targetType
}

// walkPostfix walks a postfix increment or decrement.
func (w *Walker) walkPostfix(pf *ast.Postfix) types.Type {
	typ := w.walkTarget(pf.Operand)

	if !types.IsInvalid(typ) {
		if _, err := typ.Opcode(types.OpAdd); err != nil {
			w.recError(report.UnsupportedOperation, pf.Op.Span, "cannot apply `%s`: %s", pf.Op.Name, err)
			return types.Invalid
		}
	}

	return typ
}

// walkTarget walks the target of an assignment or postfix operator.  Targets
// are mutable variables and struct fields.
func (w *Walker) walkTarget(target ast.ASTExpr) types.Type {
	var typ types.Type

	switch v := target.(type) {
	case *ast.Identifier:
		typ = w.walkTargetIdentifier(v)
	case *ast.PropertyAccess:
		typ = w.walkPropertyAccess(v)

		if v.Enum != nil {
			w.recError(report.InvalidAssignment, v.Span(), "cannot assign to enum value `%s.%s`", v.Enum.Name, v.Path[0].Name)
			typ = types.Invalid
		}
	default:
		w.walkExpr(target)
		w.recError(report.InvalidAssignment, target.Span(), "cannot assign to this expression")
		typ = types.Invalid
	}

	target.SetType(typ)
	return typ
}

// walkTargetIdentifier walks a variable that is assigned to.
func (w *Walker) walkTargetIdentifier(id *ast.Identifier) types.Type {
	id.Scope = w.scope

	local, ok := w.scope.Lookup(id.Name)
	if !ok {
		if _, ok := w.reg.Overloads(id.Name); ok {
			w.recError(report.InvalidAssignment, id.Span(), "cannot assign to function `%s`", id.Name)
		} else {
			w.recError(report.NameNotFound, id.Span(), "undefined name: `%s`", id.Name)
		}

		return types.Invalid
	}

	id.Local = local

	switch {
	case local.Kind == scope.LocalParam && local.Frame == w.scope.Frame():
		w.recError(report.ImmutableAssignment, id.Span(), "cannot assign to parameter `%s`", id.Name)
	case !local.IsGlobal() && local.Frame != w.scope.Frame():
		w.recError(report.ImmutableAssignment, id.Span(), "cannot assign to captured variable `%s`", id.Name)
	case !local.Mutable:
		w.recError(report.ImmutableAssignment, id.Span(), "cannot assign to immutable variable `%s`", id.Name)
	}

	if local.Type == nil {
		return types.Invalid
	}

	return local.Type
}
