package syntax

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impc/ast"
	"impc/report"
)

// sexpr renders an expression as an s-expression.
func sexpr(expr ast.ASTExpr) string {
	switch v := expr.(type) {
	case *ast.Identifier:
		return v.Name
	case *ast.Literal:
		if v.Kind == ast.LitString {
			return fmt.Sprintf("%q", v.Value)
		}

		return v.Value
	case *ast.Binary:
		return fmt.Sprintf("(%s %s %s)", v.Op.Name, sexpr(v.Lhs), sexpr(v.Rhs))
	case *ast.Unary:
		return fmt.Sprintf("(%s %s)", v.Op.Name, sexpr(v.Operand))
	case *ast.Postfix:
		return fmt.Sprintf("(post%s %s)", v.Op.Name, sexpr(v.Operand))
	case *ast.Grouping:
		return fmt.Sprintf("(group %s)", sexpr(v.Inner))
	case *ast.Assign:
		return fmt.Sprintf("(= %s %s)", sexpr(v.Target), sexpr(v.Value))
	case *ast.PropertyAccess:
		path := make([]string, len(v.Path))
		for i, ident := range v.Path {
			path[i] = ident.Name
		}

		return fmt.Sprintf("(. %s %s)", sexpr(v.Root), strings.Join(path, " "))
	case *ast.Call:
		parts := []string{"call", sexpr(v.Func)}
		for _, arg := range v.Args {
			parts = append(parts, sexpr(arg))
		}

		return "(" + strings.Join(parts, " ") + ")"
	}

	return "?"
}

func parseExprString(t *testing.T, src string) ast.ASTExpr {
	expr, err := ParseExpr(lexString(t, src))
	require.NoError(t, err, src)
	return expr
}

func parseUnitString(t *testing.T, src string) (*ast.Unit, *report.Log) {
	log := &report.Log{}
	unit := Parse(log, "Main", lexString(t, src))
	return unit, log
}

func TestExprPrecedence(t *testing.T) {
	testDatas := []struct {
		src, expected string
	}{
		{"a + b * c", "(+ a (* b c))"},
		{"a * b + c", "(+ (* a b) c)"},
		{"a - b - c", "(- (- a b) c)"},
		{"a ^ b ^ c", "(^ a (^ b c))"},
		{"a * b ^ c", "(* a (^ b c))"},
		{"a = b = c", "(= a (= b c))"},
		{"a = b + c", "(= a (+ b c))"},
		{"!a && b || c", "(|| (&& (! a) b) c)"},
		{"a || b && c", "(|| a (&& b c))"},
		{"a < b == c > d", "(== (< a b) (> c d))"},
		{"a % b / c", "(/ (% a b) c)"},
		{"0..n + 1", "(.. 0 (+ n 1))"},
		{"-a * b", "(* (- a) b)"},
		{"-p.x", "(- (. p x))"},
		{"-a ^ b", "(^ (- a) b)"},
		{"(a + b) * c", "(* (group (+ a b)) c)"},
		{"i++ + 1", "(+ (post++ i) 1)"},
		{"p.x--", "(post-- (. p x))"},
		{"a.b.c", "(. a b c)"},
		{"a.b(1).c", "(. (call (. a b) 1) c)"},
		{"f(1, \"s\", true)", "(call f 1 \"s\" true)"},
		{"f()", "(call f)"},
		{"f(1,)", "(call f 1)"},
		{"f(g(x), y)(z)", "(call (call f (call g x) y) z)"},
		{"p.x = 3", "(= (. p x) 3)"},
	}

	for _, td := range testDatas {
		assert.Equal(t, td.expected, sexpr(parseExprString(t, td.src)), td.src)
	}
}

func TestIndexRewritesToAt(t *testing.T) {
	testDatas := []struct {
		src, expected string
	}{
		{"a[b]", "(call at a b)"},
		{"(a + c)[b]", "(call at (group (+ a c)) b)"},
		{"a[b][c]", "(call at (call at a b) c)"},
		{"f(x)[i + 1]", "(call at (call f x) (+ i 1))"},
		{"p.items[0]", "(call at (. p items) 0)"},
	}

	for _, td := range testDatas {
		assert.Equal(t, td.expected, sexpr(parseExprString(t, td.src)), td.src)
	}
}

func TestCallArgCounts(t *testing.T) {
	testDatas := []struct {
		src   string
		nargs int
	}{
		{"f(1, 2, 3)", 3},
		{"f()", 0},
		{"f(1, 2,)", 2},
	}

	for _, td := range testDatas {
		call, ok := parseExprString(t, td.src).(*ast.Call)
		require.True(t, ok, td.src)
		assert.Len(t, call.Args, td.nargs, td.src)
	}
}

func TestExprSyntaxErrors(t *testing.T) {
	testDatas := []struct {
		src  string
		msg  string
		line int
		col  int
	}{
		{"f(1, 2", "expected `)` but got end of file", 1, 7},
		{"(a + b", "expected `)` but got end of file", 1, 7},
		{"a[1", "expected `]` but got end of file", 1, 4},
		{"a.", "expected identifier after `.`", 1, 3},
		{"a.(b)", "expected identifier after `.`", 1, 3},
		{"+ a", "unexpected token: `+`", 1, 1},
		{"a +", "unexpected end of file", 1, 4},
		{"a b", "expected end of file but got `b`", 1, 3},
	}

	for _, td := range testDatas {
		_, err := ParseExpr(lexString(t, td.src))
		require.Error(t, err, td.src)

		d := err.(*report.Diagnostic)
		assert.Equal(t, report.SyntaxError, d.Kind, td.src)
		assert.Equal(t, td.msg, d.Message, td.src)
		assert.Equal(t, td.line, d.Line(), td.src)
		assert.Equal(t, td.col, d.Column(), td.src)
	}
}

// -----------------------------------------------------------------------------

func TestParseFuncDecl(t *testing.T) {
	unit, log := parseUnitString(t, "func add(a int, b int) int { return a + b }\nfunc hello() { log(\"hi\") }")
	require.False(t, log.AnyErrors(), log.Err())
	require.Len(t, unit.Body.Stmts, 2)

	add := unit.Body.Stmts[0].(*ast.FuncDecl)
	assert.Equal(t, "add", add.Name)
	require.Len(t, add.Params, 2)
	assert.Equal(t, "b", add.Params[1].Name)
	assert.Equal(t, "int", add.Params[1].Label.Name)
	assert.Equal(t, "int", add.ReturnLabel.Name)

	// Parameters live in the body's frame after the receiver slot.
	assert.Equal(t, 1, add.Params[0].Local.Slot)
	assert.Equal(t, 2, add.Params[1].Local.Slot)
	assert.Same(t, add.Body.Scope.Frame(), add.Params[0].Local.Frame)
	assert.NotSame(t, unit.Body.Scope.Frame(), add.Body.Scope.Frame())

	ret := add.Body.Stmts[0].(*ast.Return)
	assert.Equal(t, "(+ a b)", sexpr(ret.Value))

	hello := unit.Body.Stmts[1].(*ast.FuncDecl)
	assert.Nil(t, hello.ReturnLabel)
	assert.Empty(t, hello.Params)
}

func TestParseControlFlow(t *testing.T) {
	src := `
	func f(x int) {
		if x > 1 { log(1) } else if x > 0 { log(2) } else { log(3) }
		for { break }
		for x < 3 { continue }
		for mut i = 0; i < 3; i++ { log(i) }
		for j in 0..3 { log(j) }
	}`

	unit, log := parseUnitString(t, src)
	require.False(t, log.AnyErrors(), log.Err())

	body := unit.Body.Stmts[0].(*ast.FuncDecl).Body.Stmts
	require.Len(t, body, 5)

	ifStmt := body[0].(*ast.If)
	elif := ifStmt.Else.(*ast.If)
	_, isBlock := elif.Else.(*ast.Block)
	assert.True(t, isBlock)

	infinite := body[1].(*ast.Loop)
	assert.Nil(t, infinite.Cond)
	assert.Equal(t, ast.KeywordBreak, infinite.Body.Stmts[0].(*ast.KeywordStmt).Kind)

	condLoop := body[2].(*ast.Loop)
	assert.Equal(t, "(< x 3)", sexpr(condLoop.Cond))

	forLoop := body[3].(*ast.ForLoop)
	assert.Equal(t, "i", forLoop.Init.Name)
	assert.True(t, forLoop.Init.Mutable)
	assert.Equal(t, "(post++ i)", sexpr(forLoop.Update))
	_, ok := forLoop.Body.Scope.LookupDeclared("i")
	assert.True(t, ok)

	forIn := body[4].(*ast.ForInLoop)
	assert.Equal(t, "j", forIn.VarName)
	assert.Equal(t, "(.. 0 3)", sexpr(forIn.Iter))
	assert.NotNil(t, forIn.End)
}

func TestParseDeclarations(t *testing.T) {
	src := `
	struct Point { x int, y int }
	struct Empty {}
	enum Color { Red, Green, Blue }
	type Meters = int
	export val origin = Point(0, 0)
	mut count int = 0;
	`

	unit, log := parseUnitString(t, src)
	require.False(t, log.AnyErrors(), log.Err())
	require.Len(t, unit.Body.Stmts, 6)

	point := unit.Body.Stmts[0].(*ast.StructDecl)
	require.Len(t, point.Fields, 2)
	assert.Equal(t, "y", point.Fields[1].Name)
	assert.Empty(t, unit.Body.Stmts[1].(*ast.StructDecl).Fields)

	color := unit.Body.Stmts[2].(*ast.EnumDecl)
	assert.Equal(t, []string{"Red", "Green", "Blue"}, color.Values)

	alias := unit.Body.Stmts[3].(*ast.TypeAlias)
	assert.Equal(t, "int", alias.Label.Name)

	export := unit.Body.Stmts[4].(*ast.Export)
	origin := export.Decl.(*ast.VarDecl)
	assert.False(t, origin.Mutable)

	count := unit.Body.Stmts[5].(*ast.VarDecl)
	assert.True(t, count.Mutable)
	assert.Equal(t, "int", count.Label.Name)
}

func TestParseTimeScopeSnapshots(t *testing.T) {
	src := `
	val a = 1
	{ val b = 2 }
	val c = 3
	`

	unit, log := parseUnitString(t, src)
	require.False(t, log.AnyErrors(), log.Err())

	root := unit.Body.Scope
	block := unit.Body.Stmts[1].(*ast.Block)

	_, ok := block.Scope.LookupDeclared("a")
	assert.True(t, ok, "locals declared before the block are inherited")

	_, ok = block.Scope.LookupDeclared("c")
	assert.False(t, ok, "locals declared after the block are not")

	_, ok = root.LookupDeclared("b")
	assert.False(t, ok)

	a, _ := root.LookupDeclared("a")
	c, _ := root.LookupDeclared("c")
	assert.Equal(t, 0, a.Slot)
	assert.Equal(t, 1, c.Slot)
	assert.True(t, a.IsGlobal())
}

func TestParseRecoversAtDeclarations(t *testing.T) {
	src := `
	func bad1() { val = 1 }
	func good() { log(1) }
	class Foo {}
	func bad2() { f(1, }
	struct S { x int }
	`

	unit, log := parseUnitString(t, src)
	diags := log.Diagnostics()
	require.Len(t, diags, 3)

	for _, d := range diags {
		assert.Equal(t, report.SyntaxError, d.Kind)
	}

	assert.Equal(t, "expected identifier but got `=`", diags[0].Message)
	assert.Equal(t, 2, diags[0].Line())
	assert.Equal(t, "`class` is reserved but not supported", diags[1].Message)
	assert.Equal(t, "unexpected token: `}`", diags[2].Message)

	require.Len(t, unit.Body.Stmts, 2)
	assert.Equal(t, "good", unit.Body.Stmts[0].(*ast.FuncDecl).Name)
	assert.Equal(t, "S", unit.Body.Stmts[1].(*ast.StructDecl).Name)
}

func TestParseRedeclaredParam(t *testing.T) {
	_, log := parseUnitString(t, "func f(a int, a int) {}")

	diags := log.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, report.Redeclaration, diags[0].Kind)
}
