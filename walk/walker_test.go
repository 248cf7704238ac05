package walk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impc/ast"
	"impc/report"
	"impc/scope"
	"impc/syntax"
	"impc/types"
)

func resolve(t *testing.T, src string) (*Program, *report.Log) {
	toks, err := syntax.Lex(strings.NewReader(src))
	require.NoError(t, err)

	log := &report.Log{}
	unit := syntax.Parse(log, "Main", toks)
	require.False(t, log.AnyErrors(), "unexpected syntax errors: %v", log.Err())

	return Resolve(log, unit), log
}

func mustResolve(t *testing.T, src string) *Program {
	prog, log := resolve(t, src)
	require.NoError(t, log.Err())
	return prog
}

func diagKinds(log *report.Log) []report.Kind {
	var kinds []report.Kind
	for _, d := range log.Diagnostics() {
		kinds = append(kinds, d.Kind)
	}

	return kinds
}

func funcNamed(t *testing.T, prog *Program, name string) *ast.FuncDecl {
	for _, fd := range prog.Funcs {
		if fd.Name == name {
			return fd
		}
	}

	require.FailNow(t, "no function named "+name)
	return nil
}

func captureNames(fn *types.Function) []string {
	var names []string
	for _, capture := range fn.Captures {
		names = append(names, capture.Name)
	}

	return names
}

// -----------------------------------------------------------------------------

func TestSingleDiagnostic(t *testing.T) {
	tests := []struct {
		src  string
		kind report.Kind
	}{
		{"val a = b", report.NameNotFound},
		{"val t = int", report.NameNotFound},
		{"val a = g(1)", report.FunctionNotFound},
		{"log(1, 2)", report.FunctionSignatureMismatch},
		{"struct P { x int }\nval p = P(1)\nval q = p + p", report.UnsupportedOperation},
		{"struct P { x int }\nval p = P(\"s\")", report.FunctionSignatureMismatch},
		{"struct P { x int }\nval p = P(1)\nval q = p.y", report.NameNotFound},
		{"val a = 1\nval b = a.x", report.UnsupportedOperation},
		{"val a = 1\na = 2", report.ImmutableAssignment},
		{"mut x = 1\nx = \"s\"", report.TypeMismatch},
		{"1 = 2", report.InvalidAssignment},
		{"val a = 1 + 2.0", report.TypeMismatch},
		{"val a = 3000000000", report.TypeMismatch},
		{"val b = !1", report.TypeMismatch},
		{"val b = -true", report.UnsupportedOperation},
		{"val a = 0..3", report.UnsupportedOperation},
		{"if 1 { }", report.TypeMismatch},
		{"for x in 5 { }", report.TypeMismatch},
		{"func f() {}\nval v = f()", report.TypeMismatch},
		{"func f() { return 1 }", report.TypeMismatch},
		{"return 1", report.InvalidStatement},
		{"continue", report.InvalidStatement},
		{"func f() int { }", report.MissingReturn},
		{"struct S { a Nope }", report.TypeNotFound},
		{"type T = Nope", report.TypeNotFound},
		{"func f(a int) {}\nfunc f(b int) {}", report.Redeclaration},
		{"struct Main { }", report.Redeclaration},
		{"struct P { x int }\nfunc P() {}", report.Redeclaration},
		{"enum E { A }\nval e = E.B", report.NameNotFound},
		{"enum E { A }\nE.A = 1", report.InvalidAssignment},
	}

	for _, test := range tests {
		_, log := resolve(t, test.src)
		assert.Equal(t, []report.Kind{test.kind}, diagKinds(log), test.src)
	}
}

func TestDiagnosticsAccumulate(t *testing.T) {
	_, log := resolve(t, `
val a = missing
val b = 1 + 2.0
func f() int { }
break
`)

	assert.Equal(t, []report.Kind{
		report.NameNotFound,
		report.TypeMismatch,
		report.MissingReturn,
		report.InvalidStatement,
	}, diagKinds(log))

	diags := log.Diagnostics()
	assert.Equal(t, 2, diags[0].Line())
	assert.Equal(t, 9, diags[0].Column())
	assert.Equal(t, 5, diags[3].Line())
}

func TestOverloadResolution(t *testing.T) {
	prog, log := resolve(t, `
func f(a int) int { return a }
func f(a string) string { return a }
val x = f(1)
val y = f("s")
val z = f(true)
`)

	require.Equal(t, []report.Kind{report.FunctionSignatureMismatch}, diagKinds(log))
	assert.Contains(t, log.Diagnostics()[0].Message, "func f(a int) int, func f(a string) string")

	require.Len(t, prog.Globals, 3)
	assert.Equal(t, types.Type(types.Int), prog.Globals[0].Local.Type)
	assert.Equal(t, types.Type(types.String), prog.Globals[1].Local.Type)

	call := prog.Globals[1].Init.(*ast.Call)
	assert.Equal(t, ast.CallFunc, call.Kind)
	assert.Equal(t, 1, call.Target.Index)
	assert.Same(t, prog.Funcs[1].Func, call.Target)
}

func TestFunctionsAreHoisted(t *testing.T) {
	prog := mustResolve(t, `
val r = later(2)
func later(n int) int { return n * 2 }
`)

	call := prog.Globals[0].Init.(*ast.Call)
	assert.Equal(t, ast.CallFunc, call.Kind)
	assert.Equal(t, "later", call.Target.Name)
	assert.Empty(t, prog.Closures)
}

func TestCaptureSets(t *testing.T) {
	prog := mustResolve(t, `
func outer(p int) int {
	val x = 1
	val y = 2

	func inner(q int) int {
		return x + q
	}

	func deep() int {
		func deeper() int { return y }
		return deeper()
	}

	return inner(p) + deep()
}

func pure(a int) int { return a }
`)

	outer := funcNamed(t, prog, "outer").Func
	inner := funcNamed(t, prog, "inner").Func
	deep := funcNamed(t, prog, "deep").Func
	deeper := funcNamed(t, prog, "deeper").Func
	pure := funcNamed(t, prog, "pure").Func

	assert.Empty(t, outer.Captures)
	assert.Equal(t, []string{"x"}, captureNames(inner))
	assert.Equal(t, []string{"y"}, captureNames(deeper))
	assert.Equal(t, []string{"y"}, captureNames(deep), "captures propagate through enclosing functions")
	assert.Empty(t, pure.Captures)

	assert.False(t, outer.IsClosure())
	assert.False(t, pure.IsClosure())
	assert.Len(t, prog.Closures, 3)

	ret := funcNamed(t, prog, "outer").Body.Stmts[4].(*ast.Return)
	call := ret.Value.(*ast.Binary).Lhs.(*ast.Call)
	require.Equal(t, ast.CallClosure, call.Kind)
	assert.Equal(t, "Main$inner", call.Plan.Holder.Name)
	assert.Equal(t, scope.LocalHolder, call.Plan.Holder.Kind)
	assert.True(t, call.Plan.InitHolder)
	require.Len(t, call.Plan.Captures, 1)
	assert.Equal(t, "x", call.Plan.Captures[0].Name)
}

func TestClosureHolderReuse(t *testing.T) {
	prog := mustResolve(t, `
func f() {
	mut n = 0
	func bump() int { return n + 1 }
	val a = bump()
	val b = bump()
	if a == b && bump() == 1 { }
}
`)

	body := funcNamed(t, prog, "f").Body
	first := body.Stmts[2].(*ast.VarDecl).Init.(*ast.Call)
	second := body.Stmts[3].(*ast.VarDecl).Init.(*ast.Call)
	cond := body.Stmts[4].(*ast.If).Cond.(*ast.Binary)
	third := cond.Rhs.(*ast.Binary).Lhs.(*ast.Call)

	for _, call := range []*ast.Call{first, second, third} {
		require.Equal(t, ast.CallClosure, call.Kind)
	}

	assert.Same(t, first.Plan.Holder, second.Plan.Holder)
	assert.Same(t, first.Plan.Holder, third.Plan.Holder)

	assert.True(t, first.Plan.InitHolder)
	assert.False(t, second.Plan.InitHolder)
	assert.True(t, third.Conditional)
	assert.True(t, third.Plan.InitHolder, "calls in short-circuit operands always initialize")

	holder := first.Plan.Holder
	assert.Equal(t, "Main$bump", holder.Name)
	assert.Same(t, funcNamed(t, prog, "bump").Func, holder.Type)
	assert.Same(t, body.Scope.Frame(), holder.Frame)
}

func TestConditionalHolderInit(t *testing.T) {
	tests := []struct {
		name   string
		stmt   string
		callIn func(ifStmt *ast.If) ast.ASTExpr
	}{
		{
			"and operand",
			"if n > 0 && g() { }",
			func(ifStmt *ast.If) ast.ASTExpr { return ifStmt.Cond.(*ast.Binary).Rhs },
		},
		{
			"or operand",
			"if n > 0 || g() { }",
			func(ifStmt *ast.If) ast.ASTExpr { return ifStmt.Cond.(*ast.Binary).Rhs },
		},
		{
			"else if condition",
			"if n == 0 { log(1) } else if g() { log(2) }",
			func(ifStmt *ast.If) ast.ASTExpr { return ifStmt.Else.(*ast.If).Cond },
		},
		{
			"chained else if condition",
			"if n == 0 { } else if n == 1 { } else if g() { }",
			func(ifStmt *ast.If) ast.ASTExpr { return ifStmt.Else.(*ast.If).Else.(*ast.If).Cond },
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			prog := mustResolve(t, `
func f(n int) {
	val x = n
	func g() bool { return x > 0 }
	`+test.stmt+`
	val r = g()
}
`)

			body := funcNamed(t, prog, "f").Body
			cond := test.callIn(body.Stmts[2].(*ast.If)).(*ast.Call)
			after := body.Stmts[3].(*ast.VarDecl).Init.(*ast.Call)

			require.Equal(t, ast.CallClosure, cond.Kind)
			require.Equal(t, ast.CallClosure, after.Kind)
			assert.Same(t, cond.Plan.Holder, after.Plan.Holder)

			assert.True(t, cond.Conditional)
			assert.True(t, cond.Plan.InitHolder)
			assert.False(t, after.Conditional)
			assert.True(t, after.Plan.InitHolder, "a conditional call leaves the holder uninitialized")
		})
	}
}

func TestCaptureNotVisibleAtCallSite(t *testing.T) {
	_, log := resolve(t, `
func f() {
	val x = 1
	func g() int { return x }
	log(g())
}

val y = g()
`)

	require.Equal(t, []report.Kind{report.NameNotFound}, diagKinds(log))
	assert.Equal(t, 8, log.Diagnostics()[0].Line())
	assert.Contains(t, log.Diagnostics()[0].Message, "`x`")
}

func TestFunctionValues(t *testing.T) {
	prog := mustResolve(t, `
func twice(n int) int { return n * 2 }
val f = twice
val r = f(3)
`)

	twice := funcNamed(t, prog, "twice").Func
	assert.True(t, twice.FirstClass)
	assert.True(t, twice.IsClosure())

	ref := prog.Globals[0].Init.(*ast.Identifier)
	assert.Same(t, twice, ref.Func)
	require.NotNil(t, ref.Plan)
	assert.Nil(t, ref.Plan.Holder)
	assert.Empty(t, ref.Plan.Captures)
	assert.Same(t, twice, prog.Globals[0].Local.Type)

	call := prog.Globals[1].Init.(*ast.Call)
	assert.Equal(t, ast.CallValue, call.Kind)
	assert.Same(t, prog.Globals[0].Local, call.Callee)
	assert.Equal(t, types.Type(types.Int), call.Type())

	_, log := resolve(t, "func o(a int) {}\nfunc o(a string) {}\nval h = o")
	assert.Equal(t, []report.Kind{report.FunctionSignatureMismatch}, diagKinds(log))
}

func TestImmutableAssignments(t *testing.T) {
	_, log := resolve(t, `
func f(p int) {
	val v = 1
	mut m = 2
	p = 3
	v = 4
	m = 5
	func g() { m = 6 }
}
`)

	require.Equal(t, []report.Kind{
		report.ImmutableAssignment,
		report.ImmutableAssignment,
		report.ImmutableAssignment,
	}, diagKinds(log))

	diags := log.Diagnostics()
	assert.Contains(t, diags[0].Message, "parameter `p`")
	assert.Contains(t, diags[1].Message, "immutable variable `v`")
	assert.Contains(t, diags[2].Message, "captured variable `m`")
}

func TestMissingReturn(t *testing.T) {
	_, log := resolve(t, `
func a(x int) int { if x > 0 { return 1 } else { return 2 } }
func b(x int) int { if x > 0 { return 1 } }
func c() int { for { } }
func d() int { for { break } }
`)

	require.Equal(t, []report.Kind{report.MissingReturn, report.MissingReturn}, diagKinds(log))
	assert.Contains(t, log.Diagnostics()[0].Message, "`b`")
	assert.Contains(t, log.Diagnostics()[1].Message, "`d`")
}

func TestNestedExport(t *testing.T) {
	prog, log := resolve(t, `
export val y = 2

func f() {
	export val x = 1
}
`)

	assert.Equal(t, []report.Kind{report.InvalidStatement}, diagKinds(log))
	assert.True(t, prog.Globals[0].Exported)

	inner := funcNamed(t, prog, "f").Body.Stmts[0].(*ast.Export).Decl.(*ast.VarDecl)
	assert.False(t, inner.Exported)
}

func TestStructFieldsResolveForward(t *testing.T) {
	prog, log := resolve(t, `
struct Line { a Point, b Missing }
struct Point { x int, y int }
`)

	require.Equal(t, []report.Kind{report.TypeNotFound}, diagKinds(log))
	assert.Contains(t, log.Diagnostics()[0].Message, "`Missing`")

	require.Len(t, prog.Structs, 2)
	line, point := prog.Structs[0], prog.Structs[1]
	assert.Same(t, point, line.Fields[0].Type)
	assert.Equal(t, types.Invalid, line.Fields[1].Type)
}

func TestEnumsAndAliases(t *testing.T) {
	prog := mustResolve(t, `
enum Color { Red, Green, Blue }
type Meters = Distance
type Distance = int
val c = Color.Blue
val m Meters = 3
`)

	access := prog.Globals[0].Init.(*ast.PropertyAccess)
	require.NotNil(t, access.Enum)
	assert.Equal(t, 2, access.Ordinal)
	assert.Same(t, prog.Enums[0], prog.Globals[0].Local.Type)
	assert.Equal(t, types.Type(types.Int), prog.Globals[1].Local.Type)
}

func TestForInLoop(t *testing.T) {
	prog := mustResolve(t, `
func sum(n int) int {
	mut total = 0
	for i in 0..n { total = total + i }
	return total
}
`)

	loop := funcNamed(t, prog, "sum").Body.Stmts[1].(*ast.ForInLoop)
	assert.Equal(t, types.Type(types.Int), loop.Var.Type)
	assert.True(t, loop.Var.Defined)
	assert.Equal(t, types.Type(types.Int), loop.End.Type)
	assert.Equal(t, scope.LocalHidden, loop.End.Kind)
}

func TestStringConcatenationAndFields(t *testing.T) {
	prog := mustResolve(t, `
struct Point { x int, y int }
mut p = Point(1, 2)
p.x = 3
val s = "p = " + p
val n = 1 + " apple"
val inc = p.y++
`)

	assert.Equal(t, types.Type(types.String), prog.Globals[1].Local.Type)
	assert.Equal(t, types.Type(types.String), prog.Globals[2].Local.Type)
	assert.Equal(t, types.Type(types.Int), prog.Globals[3].Local.Type)

	assign := prog.Unit.Body.Stmts[2].(*ast.Assign)
	access := assign.Target.(*ast.PropertyAccess)
	require.Len(t, access.Fields, 1)
	assert.Equal(t, "x", access.Fields[0].Name)
	assert.Same(t, prog.Structs[0], access.Owners[0])
}
