package generate

import (
	"impc/ast"
	"impc/classfile"
	"impc/report"
	"impc/types"
)

// generateStmts generates a sequence of statements.  Statements following one
// that never falls through are unreachable and are not generated.
func (g *Generator) generateStmts(stmts []ast.ASTNode) {
	for _, stmt := range stmts {
		g.generateStmt(stmt)

		if g.code.EndsWithReturn() {
			break
		}
	}
}

// generateStmt generates a single statement.
func (g *Generator) generateStmt(stmt ast.ASTNode) {
	switch v := stmt.(type) {
	case *ast.VarDecl:
		g.generateExpr(v.Init)
		g.storeLocal(v.Local)
	case *ast.Export:
		g.generateStmt(v.Decl)
	case *ast.Block:
		g.generateStmts(v.Stmts)
	case *ast.Return:
		g.generateReturn(v)
	case *ast.If:
		g.generateIf(v)
	case *ast.Loop:
		g.generateLoop(v)
	case *ast.ForLoop:
		g.generateForLoop(v)
	case *ast.ForInLoop:
		g.generateForInLoop(v)
	case *ast.KeywordStmt:
		g.generateKeywordStmt(v)
	case *ast.FuncDecl, *ast.StructDecl, *ast.EnumDecl, *ast.TypeAlias:
		// Definitions are generated as their own methods and classes.
	case ast.ASTExpr:
		g.generateExprStmt(v)
	default:
		report.ICE("unknown statement node: %T", stmt)
	}
}

// generateExprStmt generates an expression evaluated for its effect.  The
// value of the expression is discarded.
func (g *Generator) generateExprStmt(expr ast.ASTExpr) {
	switch v := expr.(type) {
	case *ast.Assign:
		g.generateAssign(v, false)
	case *ast.Postfix:
		g.generatePostfix(v, false)
	case *ast.Grouping:
		g.generateExprStmt(v.Inner)
	default:
		g.generateExpr(expr)

		if typeOf(expr) != types.Void {
			g.code.Emit(classfile.POP)
		}
	}
}

// generateReturn generates a return statement.
func (g *Generator) generateReturn(ret *ast.Return) {
	if ret.Value == nil {
		g.code.Emit(classfile.RETURN)
		return
	}

	g.generateExpr(ret.Value)
	g.code.Emit(g.fn.Return.ReturnOp())
}

// generateIf generates an if statement with its optional else branch.
func (g *Generator) generateIf(ifStmt *ast.If) {
	elseLabel := g.code.NewLabel()

	g.generateExpr(ifStmt.Cond)
	g.code.EmitJump(classfile.IFEQ, elseLabel)

	g.generateStmts(ifStmt.Then.Stmts)

	if ifStmt.Else == nil {
		g.code.Mark(elseLabel)
		return
	}

	// The end label is only placed when the then branch falls through to it:
	// a label at the very end of a method must never be a jump target.
	endLabel := g.code.NewLabel()
	thenFallsThrough := !g.code.EndsWithReturn()
	if thenFallsThrough {
		g.code.EmitJump(classfile.GOTO, endLabel)
	}

	g.code.Mark(elseLabel)
	g.generateStmt(ifStmt.Else)

	if thenFallsThrough {
		g.code.Mark(endLabel)
	}
}

// -----------------------------------------------------------------------------

// pushLoop pushes the labels of a new loop.
func (g *Generator) pushLoop(cont classfile.Label) *loopLabels {
	loop := &loopLabels{cont: cont, end: g.code.NewLabel()}
	g.loops = append(g.loops, loop)
	return loop
}

// popLoop pops the innermost loop and places its end label if it is used.
func (g *Generator) popLoop() {
	loop := g.loops[len(g.loops)-1]
	g.loops = g.loops[:len(g.loops)-1]

	if loop.endUsed {
		g.code.Mark(loop.end)
	}
}

// generateLoop generates a while-style loop.  A loop without a condition
// only ends by `break` or `return`.
func (g *Generator) generateLoop(loop *ast.Loop) {
	start := g.code.NewLabel()
	g.code.Mark(start)

	labels := g.pushLoop(start)

	if loop.Cond != nil {
		g.generateExpr(loop.Cond)
		g.code.EmitJump(classfile.IFEQ, labels.end)
		labels.endUsed = true
	}

	g.generateStmts(loop.Body.Stmts)
	if !g.code.EndsWithReturn() {
		g.code.EmitJump(classfile.GOTO, start)
	}

	g.popLoop()
}

// generateForLoop generates a C-style for loop.  `continue` jumps to the
// update expression.
func (g *Generator) generateForLoop(loop *ast.ForLoop) {
	if loop.Init != nil {
		g.generateStmt(loop.Init)
	}

	start := g.code.NewLabel()
	update := g.code.NewLabel()
	g.code.Mark(start)

	labels := g.pushLoop(update)

	if loop.Cond != nil {
		g.generateExpr(loop.Cond)
		g.code.EmitJump(classfile.IFEQ, labels.end)
		labels.endUsed = true
	}

	g.generateStmts(loop.Body.Stmts)

	g.code.Mark(update)
	if loop.Update != nil {
		g.generateExprStmt(loop.Update)
	}
	g.code.EmitJump(classfile.GOTO, start)

	g.popLoop()
}

// generateForInLoop generates a loop over a half-open integer range.  The
// upper bound is evaluated once into a hidden local.
func (g *Generator) generateForInLoop(loop *ast.ForInLoop) {
	rng, ok := loop.Iter.(*ast.Binary)
	if !ok || rng.Op.Kind != ast.OperRange {
		report.ICE("for loop iterates over a non-range at %s", loop.Iter.Span())
	}

	g.generateExpr(rng.Lhs)
	g.storeLocal(loop.Var)
	g.generateExpr(rng.Rhs)
	g.storeLocal(loop.End)

	start := g.code.NewLabel()
	next := g.code.NewLabel()
	g.code.Mark(start)

	labels := g.pushLoop(next)

	g.loadLocal(loop.Var)
	g.loadLocal(loop.End)
	g.code.EmitJump(classfile.IF_ICMPGE, labels.end)
	labels.endUsed = true

	g.generateStmts(loop.Body.Stmts)

	g.code.Mark(next)
	g.code.EmitIInc(loop.Var.Slot, 1)
	g.code.EmitJump(classfile.GOTO, start)

	g.popLoop()
}

// generateKeywordStmt generates `break` and `continue`.
func (g *Generator) generateKeywordStmt(kw *ast.KeywordStmt) {
	if len(g.loops) == 0 {
		report.ICE("%s outside of a loop", kw.Span())
	}

	loop := g.loops[len(g.loops)-1]
	if kw.Kind == ast.KeywordBreak {
		loop.endUsed = true
		g.code.EmitJump(classfile.GOTO, loop.end)
	} else {
		g.code.EmitJump(classfile.GOTO, loop.cont)
	}
}
