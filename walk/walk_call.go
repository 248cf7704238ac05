package walk

import (
	"strings"

	"golang.org/x/exp/slices"

	"impc/ast"
	"impc/report"
	"impc/types"
)

// walkCall walks a function call.  The arguments are walked first: the callee
// is then resolved as the built-in `log`, a local holding a function value, a
// struct constructor or finally as an overload of a named function.
func (w *Walker) walkCall(call *ast.Call) types.Type {
	call.Scope = w.scope
	call.Conditional = w.conditional > 0

	argTypes := make([]types.Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = w.walkExpr(arg)
	}

	id, ok := call.Func.(*ast.Identifier)
	if !ok {
		w.error(report.UnsupportedOperation, call.Func.Span(), "only named functions can be called")
	}

	id.Scope = w.scope

	if id.Name == "log" {
		return w.walkLogCall(call, argTypes)
	}

	local, isLocal := w.scope.Lookup(id.Name)
	if isLocal {
		if fn, ok := local.Type.(*types.Function); ok {
			id.Local = local
			id.SetType(fn)
			w.markRead(local)

			if !fn.Accepts(argTypes) {
				w.recError(
					report.FunctionSignatureMismatch,
					call.Span(),
					"`%s` of type `%s` cannot be called with arguments (%s)",
					id.Name,
					fn.Repr(),
					reprTypes(argTypes),
				)
			}

			call.Kind = ast.CallValue
			call.Callee = local
			return fn.Return
		}
	}

	if st, ok := w.reg.Struct(id.Name); ok {
		return w.walkConstructorCall(call, st, argTypes)
	}

	set, ok := w.reg.Overloads(id.Name)
	if !ok {
		if isLocal && local.Type != nil {
			w.recError(report.UnsupportedOperation, id.Span(), "`%s` of type `%s` is not callable", id.Name, local.Type.Repr())
		} else {
			w.recError(report.FunctionNotFound, id.Span(), "undefined function: `%s`", id.Name)
		}

		return types.Invalid
	}

	fn, ok := set.Match(argTypes)
	if !ok {
		w.recError(
			report.FunctionSignatureMismatch,
			call.Span(),
			"no overload of `%s` accepts arguments (%s): candidates are %s",
			id.Name,
			reprTypes(argTypes),
			set.Signatures(),
		)

		return types.Invalid
	}

	id.SetType(fn)
	call.Kind = ast.CallFunc
	call.Target = fn
	w.addSite(&closureSite{call: call, fn: fn})
	return fn.Return
}

// walkLogCall walks a call to the built-in `log` function which prints any
// single value.
func (w *Walker) walkLogCall(call *ast.Call, argTypes []types.Type) types.Type {
	call.Kind = ast.CallLog

	if len(argTypes) != 1 {
		w.recError(report.FunctionSignatureMismatch, call.Span(), "`log` takes exactly one argument but got %d", len(argTypes))
	} else if argTypes[0] == types.Void {
		w.recError(report.TypeMismatch, call.Args[0].Span(), "cannot log a value of type void")
	}

	return types.Void
}

// walkConstructorCall walks a struct construction.  The arguments initialize
// the struct's fields in order.
func (w *Walker) walkConstructorCall(call *ast.Call, st *types.Struct, argTypes []types.Type) types.Type {
	if !slices.EqualFunc(st.FieldTypes(), argTypes, types.Equals) {
		w.recError(
			report.FunctionSignatureMismatch,
			call.Span(),
			"struct `%s` must be constructed with fields (%s) but got (%s)",
			st.Name,
			reprTypes(st.FieldTypes()),
			reprTypes(argTypes),
		)
	}

	call.Kind = ast.CallConstructor
	call.Struct = st
	return st
}

// reprTypes returns a comma separated list of type representations.
func reprTypes(ts []types.Type) string {
	reprs := make([]string, len(ts))
	for i, t := range ts {
		reprs[i] = t.Repr()
	}

	return strings.Join(reprs, ", ")
}
