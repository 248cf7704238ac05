package walk

import (
	"impc/ast"
	"impc/report"
	"impc/types"
)

// registerDecls registers every declaration of the unit at any depth.  Named
// types are registered first so that struct fields, aliases and signatures
// can refer to any type regardless of declaration order.
func (w *Walker) registerDecls() {
	w.collectDecls(w.unit.Body.Stmts, true)

	var aliases []*ast.TypeAlias

	for _, sd := range w.structs {
		w.registerStruct(sd)
	}

	for _, ed := range w.enums {
		w.registerEnum(ed)
	}

	for _, ta := range w.aliases {
		if w.defineType(ta.Name, ta.Span(), nil) {
			aliases = append(aliases, ta)
		}
	}

	w.resolveAliases(aliases)

	for _, sd := range w.structs {
		if sd.Type != nil {
			w.resolveStructFields(sd, sd.Type)
		}
	}

	for _, fd := range w.funcs {
		w.registerFunc(fd)
	}
}

// collectDecls gathers the declarations in a list of statements and in every
// statement nested within them.
func (w *Walker) collectDecls(stmts []ast.ASTNode, top bool) {
	for _, stmt := range stmts {
		w.collectDecl(stmt, top, false)
	}
}

// collectDecl gathers the declarations in a single statement.  Only exports
// made directly at the top level mark their declaration as exported.
func (w *Walker) collectDecl(stmt ast.ASTNode, top, exported bool) {
	switch v := stmt.(type) {
	case *ast.Export:
		w.collectDecl(v.Decl, false, top)
	case *ast.FuncDecl:
		v.Exported = exported
		w.funcs = append(w.funcs, v)
		w.collectDecls(v.Body.Stmts, false)
	case *ast.StructDecl:
		v.Exported = exported
		w.structs = append(w.structs, v)
	case *ast.EnumDecl:
		v.Exported = exported
		w.enums = append(w.enums, v)
	case *ast.TypeAlias:
		v.Exported = exported
		w.aliases = append(w.aliases, v)
	case *ast.VarDecl:
		v.Exported = exported
	case *ast.Block:
		w.collectDecls(v.Stmts, false)
	case *ast.If:
		w.collectDecl(v.Then, false, false)
		if v.Else != nil {
			w.collectDecl(v.Else, false, false)
		}
	case *ast.Loop:
		w.collectDecl(v.Body, false, false)
	case *ast.ForLoop:
		w.collectDecl(v.Body, false, false)
	case *ast.ForInLoop:
		w.collectDecl(v.Body, false, false)
	}
}

// defineType registers a named type reporting any collision.  It returns
// whether the type was registered.
func (w *Walker) defineType(name string, span *report.TextSpan, typ types.Type) bool {
	if err := w.reg.AddType(name, typ); err != nil {
		w.recError(report.Redeclaration, span, "%s", err)
		return false
	}

	return true
}

// -----------------------------------------------------------------------------

// registerStruct registers a struct declaration.  Its fields are resolved once
// every named type is known.
func (w *Walker) registerStruct(sd *ast.StructDecl) {
	if sd.Name == w.unit.Name {
		w.recError(report.Redeclaration, sd.Span(), "struct `%s` has the same name as its unit", sd.Name)
		return
	}

	st := &types.Struct{Name: sd.Name, Scope: w.unit.Body.Scope, Exported: sd.Exported}

	for _, fd := range sd.Fields {
		if _, ok := st.FieldByName(fd.Name); ok {
			w.recError(report.Redeclaration, fd.Span(), "multiple fields named `%s` in struct `%s`", fd.Name, sd.Name)
			continue
		}

		st.Fields = append(st.Fields, &types.Field{Name: fd.Name, Label: fd.Label.Name})
	}

	if w.defineType(sd.Name, sd.Span(), st) {
		sd.Type = st
	}
}

// resolveStructFields resolves the field types of a struct.  An unknown field
// type is an error.
func (w *Walker) resolveStructFields(sd *ast.StructDecl, st *types.Struct) {
	for _, field := range st.ResolveFields() {
		w.recError(
			report.TypeNotFound,
			fieldDeclOf(sd, field.Name).Label.Span(),
			"undefined type `%s` for field `%s` of struct `%s`",
			field.Label,
			field.Name,
			st.Name,
		)
	}

	for _, field := range st.Fields {
		if field.Type == types.Void {
			w.recError(report.TypeMismatch, fieldDeclOf(sd, field.Name).Span(), "field `%s` cannot be of type void", field.Name)
			field.Type = types.Invalid
		}
	}
}

func fieldDeclOf(sd *ast.StructDecl, name string) *ast.FieldDecl {
	for _, fd := range sd.Fields {
		if fd.Name == name {
			return fd
		}
	}

	return nil
}

// registerEnum registers an enum declaration.
func (w *Walker) registerEnum(ed *ast.EnumDecl) {
	et := &types.Enum{Name: ed.Name, Exported: ed.Exported}

	for _, value := range ed.Values {
		if _, ok := et.Ordinal(value); ok {
			w.recError(report.Redeclaration, ed.Span(), "multiple values named `%s` in enum `%s`", value, ed.Name)
			continue
		}

		et.Values = append(et.Values, value)
	}

	if w.defineType(ed.Name, ed.Span(), et) {
		ed.Type = et
	}
}

// resolveAliases resolves type aliases to the types they name.  Aliases may
// refer to other aliases in any order: resolution repeats until no more
// aliases can be resolved.
func (w *Walker) resolveAliases(pending []*ast.TypeAlias) {
	for len(pending) > 0 {
		var unresolved []*ast.TypeAlias

		for _, ta := range pending {
			if typ, ok := w.reg.LookupType(ta.Label.Name); ok {
				w.reg.SetType(ta.Name, typ)
			} else {
				unresolved = append(unresolved, ta)
			}
		}

		if len(unresolved) == len(pending) {
			for _, ta := range unresolved {
				w.recError(report.TypeNotFound, ta.Label.Span(), "undefined type: `%s`", ta.Label.Name)
				w.reg.SetType(ta.Name, types.Invalid)
			}

			return
		}

		pending = unresolved
	}
}

// registerFunc resolves a function's signature and adds it to its overload
// set.
func (w *Walker) registerFunc(fd *ast.FuncDecl) {
	fn := &types.Function{
		Name:     fd.Name,
		Return:   types.Void,
		Owner:    w.unit.Name,
		Exported: fd.Exported,
	}

	for _, param := range fd.Params {
		typ := w.resolveLabel(param.Label)
		if typ == types.Void {
			w.recError(report.TypeMismatch, param.Span(), "parameter `%s` cannot be of type void", param.Name)
			typ = types.Invalid
		}

		param.Local.Type = typ
		fn.Params = append(fn.Params, types.Param{Name: param.Name, Type: typ})
	}

	if fd.ReturnLabel != nil {
		fn.Return = w.resolveLabel(fd.ReturnLabel)
	}

	fd.Func = fn
	fd.Body.Scope.Frame().Func = fn

	if fd.Name == "log" {
		w.recError(report.Redeclaration, fd.NameSpan, "cannot redefine built-in function `log`")
		return
	} else if _, ok := w.reg.Struct(fd.Name); ok {
		w.recError(report.Redeclaration, fd.NameSpan, "function `%s` has the same name as a struct", fd.Name)
		return
	}

	if err := w.reg.AddFunction(fn); err != nil {
		w.recError(report.Redeclaration, fd.NameSpan, "%s", err)
	}
}

// -----------------------------------------------------------------------------

// walkFuncDecl walks the body of a function declaration.
func (w *Walker) walkFuncDecl(fd *ast.FuncDecl) {
	prevFn, prevLoopDepth, prevBreaks, prevConditional := w.fn, w.loopDepth, w.breaks, w.conditional
	defer func() {
		w.fn, w.loopDepth, w.breaks, w.conditional = prevFn, prevLoopDepth, prevBreaks, prevConditional
	}()

	w.fn = fd.Func
	w.loopDepth = 0
	w.breaks = false
	w.conditional = 0

	cm := w.walkBlock(fd.Body)

	// Make sure the function returns.
	rtType := fd.Func.Return
	if rtType != types.Void && !types.IsInvalid(rtType) && cm != ControlReturn && cm != ControlNoExit {
		w.recError(
			report.MissingReturn,
			fd.NameSpan,
			"function `%s` must return a value of type `%s`",
			fd.Name,
			rtType.Repr(),
		)
	}
}
