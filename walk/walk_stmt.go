package walk

import (
	"impc/ast"
	"impc/report"
	"impc/types"
)

// walkStmt walks a statement.  The resulting control mode of the statement is
// returned.
func (w *Walker) walkStmt(stmt ast.ASTNode, top bool) ControlMode {
	switch v := stmt.(type) {
	case *ast.FuncDecl:
		w.walkFuncDecl(v)
	case *ast.StructDecl, *ast.EnumDecl, *ast.TypeAlias:
		// Fully handled during registration.
	case *ast.Export:
		w.walkExport(v, top)
	case *ast.VarDecl:
		w.walkVarDecl(v)
	case *ast.Return:
		w.walkReturn(v)
		return ControlReturn
	case *ast.If:
		return w.walkIf(v)
	case *ast.Loop:
		return w.walkLoop(v)
	case *ast.ForLoop:
		return w.walkForLoop(v)
	case *ast.ForInLoop:
		return w.walkForInLoop(v)
	case *ast.KeywordStmt:
		return w.walkKeywordStmt(v)
	case *ast.Block:
		return w.walkBlock(v)
	case ast.ASTExpr:
		w.walkExpr(v)
	default:
		report.ICE("unknown statement node: %T", stmt)
	}

	return ControlNone
}

// walkBlock walks a block in its own scope.  Statements following one that
// leaves the block are still walked but do not change the block's control
// mode.
func (w *Walker) walkBlock(b *ast.Block) ControlMode {
	prevScope := w.scope
	w.scope = b.Scope
	defer func() {
		w.scope = prevScope
	}()

	cm := ControlNone
	for _, stmt := range b.Stmts {
		if stmtCm := w.walkStmt(stmt, false); cm == ControlNone {
			cm = stmtCm
		}
	}

	return cm
}

// walkExport walks an exported declaration.
func (w *Walker) walkExport(export *ast.Export, top bool) {
	if !top {
		w.recError(report.InvalidStatement, export.Span(), "exports can only occur at the top level of a unit")
	}

	switch export.Decl.(type) {
	case *ast.FuncDecl, *ast.StructDecl, *ast.EnumDecl, *ast.TypeAlias, *ast.VarDecl:
	default:
		w.recError(report.InvalidStatement, export.Decl.Span(), "only declarations can be exported")
	}

	w.walkStmt(export.Decl, false)
}

// walkVarDecl walks a variable declaration.  The variable becomes visible
// once its initializer has been walked.
func (w *Walker) walkVarDecl(vd *ast.VarDecl) {
	typ := w.walkExpr(vd.Init)

	if vd.Label != nil {
		labelType := w.resolveLabel(vd.Label)
		w.mustBe(labelType, vd.Init)
		typ = labelType
	}

	if typ == types.Void {
		w.recError(report.TypeMismatch, vd.Init.Span(), "cannot declare variable `%s` of type void", vd.Name)
		typ = types.Invalid
	}

	w.define(vd.Local, typ)
}

// walkReturn walks a return statement.
func (w *Walker) walkReturn(rs *ast.Return) {
	if rs.Value != nil {
		w.walkExpr(rs.Value)
	}

	if w.fn == nil {
		w.recError(report.InvalidStatement, rs.Span(), "cannot return outside of a function")
		return
	}

	rs.Func = w.fn

	switch {
	case rs.Value == nil:
		if w.fn.Return != types.Void && !types.IsInvalid(w.fn.Return) {
			w.recError(report.TypeMismatch, rs.Span(), "must return a value of type `%s`", w.fn.Return.Repr())
		}
	case w.fn.Return == types.Void:
		w.recError(report.TypeMismatch, rs.Value.Span(), "cannot return a value from function `%s`", w.fn.Name)
	default:
		w.mustBe(w.fn.Return, rs.Value)
	}
}

// walkKeywordStmt walks a keyword statement (like `break`).
func (w *Walker) walkKeywordStmt(ks *ast.KeywordStmt) ControlMode {
	switch ks.Kind {
	case ast.KeywordBreak:
		if w.loopDepth == 0 {
			w.recError(report.InvalidStatement, ks.Span(), "cannot use break outside a loop")
		}

		w.breaks = true
	case ast.KeywordContinue:
		if w.loopDepth == 0 {
			w.recError(report.InvalidStatement, ks.Span(), "cannot use continue outside a loop")
		}
	}

	return ControlLoop
}

// -----------------------------------------------------------------------------

// walkCond walks a condition which must be a boolean.
func (w *Walker) walkCond(cond ast.ASTExpr) {
	w.walkExpr(cond)
	w.mustBe(types.Bool, cond)
}

// walkIf walks an if statement.  It returns only if every branch returns.
func (w *Walker) walkIf(ifStmt *ast.If) ControlMode {
	w.walkCond(ifStmt.Cond)
	return w.walkBranches(ifStmt)
}

// walkBranches walks the branches of an if statement whose condition has
// already been walked.
func (w *Walker) walkBranches(ifStmt *ast.If) ControlMode {
	thenCm := w.walkBlock(ifStmt.Then)

	elseCm := ControlNone
	switch v := ifStmt.Else.(type) {
	case *ast.If:
		// an else-if condition is evaluated in the enclosing scope but only
		// runs when every branch before it was skipped
		w.conditional++
		w.walkCond(v.Cond)
		w.conditional--

		elseCm = w.walkBranches(v)
	case *ast.Block:
		elseCm = w.walkBlock(v)
	}

	if exits(thenCm) && exits(elseCm) {
		return ControlReturn
	}

	return ControlNone
}

// exits returns whether control never falls through a statement with the
// given control mode.
func exits(cm ControlMode) bool {
	return cm == ControlReturn || cm == ControlNoExit
}

// walkLoopBody walks the body of a loop.  It returns whether the body contains
// a `break` exiting the loop.
func (w *Walker) walkLoopBody(body *ast.Block) bool {
	prevBreaks := w.breaks
	w.breaks = false
	w.loopDepth++

	defer func() {
		w.breaks = prevBreaks
		w.loopDepth--
	}()

	w.walkBlock(body)
	return w.breaks
}

// walkLoop walks a loop.  A loop without a condition that is never broken
// out of never exits.
func (w *Walker) walkLoop(loop *ast.Loop) ControlMode {
	if loop.Cond != nil {
		w.walkCond(loop.Cond)
	}

	if !w.walkLoopBody(loop.Body) && loop.Cond == nil {
		return ControlNoExit
	}

	return ControlNone
}

// walkForLoop walks a C-style for loop in its header scope.
func (w *Walker) walkForLoop(loop *ast.ForLoop) ControlMode {
	prevScope := w.scope
	w.scope = loop.Scope
	defer func() {
		w.scope = prevScope
	}()

	w.walkVarDecl(loop.Init)
	w.walkCond(loop.Cond)
	w.walkExpr(loop.Update)
	w.walkLoopBody(loop.Body)

	return ControlNone
}

// walkForInLoop walks a loop over a range.  The range is walked in the
// enclosing scope: the loop variable is not visible in its bounds.
func (w *Walker) walkForInLoop(loop *ast.ForInLoop) ControlMode {
	if rng, ok := loop.Iter.(*ast.Binary); ok && rng.Op.Kind == ast.OperRange {
		w.walkExpr(rng.Lhs)
		w.walkExpr(rng.Rhs)
		w.mustBe(types.Int, rng.Lhs)
		w.mustBe(types.Int, rng.Rhs)
		rng.SetType(types.Int)
	} else {
		w.walkExpr(loop.Iter)
		w.recError(report.TypeMismatch, loop.Iter.Span(), "for loops can only iterate over ranges: `start..end`")
	}

	prevScope := w.scope
	w.scope = loop.Scope
	defer func() {
		w.scope = prevScope
	}()

	w.define(loop.Var, types.Int)
	w.define(loop.End, types.Int)
	w.walkLoopBody(loop.Body)

	return ControlNone
}
