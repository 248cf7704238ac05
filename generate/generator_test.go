package generate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impc/classfile"
	"impc/report"
	"impc/syntax"
	"impc/walk"
)

func compile(t *testing.T, src string) map[string]*classfile.Class {
	toks, err := syntax.Lex(strings.NewReader(src))
	require.NoError(t, err)

	log := &report.Log{}
	unit := syntax.Parse(log, "Main", toks)
	require.NoError(t, log.Err())

	prog := walk.Resolve(log, unit)
	require.NoError(t, log.Err())

	classes, err := Generate(prog)
	require.NoError(t, err)

	byName := make(map[string]*classfile.Class)
	for _, class := range classes {
		byName[class.Name] = class
	}

	return byName
}

func methodOf(t *testing.T, class *classfile.Class, name, desc string) *classfile.Method {
	for _, m := range class.Methods {
		if m.Name == name && m.Desc == desc {
			return m
		}
	}

	require.FailNow(t, "missing method "+class.Name+"."+name+desc)
	return nil
}

func clinitOps(t *testing.T, classes map[string]*classfile.Class) []classfile.Opcode {
	ops := methodOf(t, classes["Main"], "<clinit>", "()V").Code.Ops()

	// Skip the creation of the unit instance.
	require.Equal(t, []classfile.Opcode{
		classfile.NEW,
		classfile.DUP,
		classfile.INVOKESPECIAL,
		classfile.PUTSTATIC,
	}, ops[:4])

	return ops[4:]
}

func lastInvoke(code *classfile.Code, op classfile.Opcode) *classfile.Instr {
	for i := len(code.Instrs) - 1; i >= 0; i-- {
		if code.Instrs[i].Op == op {
			return code.Instrs[i]
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

func TestUnitClass(t *testing.T) {
	classes := compile(t, `
val x = 1
export mut y = "s"
func f(a int) int { return a }
export func g() { }
`)

	require.Len(t, classes, 1)
	unit := classes["Main"]

	instance, ok := unit.Field("instance")
	require.True(t, ok)
	assert.Equal(t, "LMain;", instance.Desc)
	assert.Equal(t, classfile.ACC_PUBLIC|classfile.ACC_STATIC|classfile.ACC_FINAL, instance.Access)

	x, ok := unit.Field("x")
	require.True(t, ok)
	assert.Equal(t, "I", x.Desc)
	assert.Equal(t, classfile.ACC_STATIC, x.Access)

	y, ok := unit.Field("y")
	require.True(t, ok)
	assert.Equal(t, "Ljava/lang/String;", y.Desc)
	assert.Equal(t, classfile.ACC_PUBLIC|classfile.ACC_STATIC, y.Access)

	assert.Equal(t, []classfile.Opcode{
		classfile.ICONST_1,
		classfile.PUTSTATIC,
		classfile.LDC,
		classfile.PUTSTATIC,
		classfile.RETURN,
	}, clinitOps(t, classes))

	init := methodOf(t, unit, "<init>", "()V")
	assert.Equal(t, []classfile.Opcode{classfile.ALOAD, classfile.INVOKESPECIAL, classfile.RETURN}, init.Code.Ops())

	f := methodOf(t, unit, "f", "(I)I")
	assert.Equal(t, 0, f.Access)
	assert.Equal(t, []classfile.Opcode{classfile.ILOAD, classfile.IRETURN}, f.Code.Ops())
	assert.Equal(t, 2, f.Code.MaxLocals)

	g := methodOf(t, unit, "g", "()V")
	assert.Equal(t, classfile.ACC_PUBLIC, g.Access)
	assert.Equal(t, []classfile.Opcode{classfile.RETURN}, g.Code.Ops())

	_, ok = unit.Method("main")
	assert.False(t, ok)
}

func TestMainBridge(t *testing.T) {
	classes := compile(t, `func main() { log("hi") }`)
	unit := classes["Main"]

	main := methodOf(t, unit, "main", "()V")
	assert.Equal(t, []classfile.Opcode{
		classfile.GETSTATIC,
		classfile.LDC,
		classfile.INVOKEVIRTUAL,
		classfile.RETURN,
	}, main.Code.Ops())

	bridge := methodOf(t, unit, "main", "([Ljava/lang/String;)V")
	assert.True(t, bridge.IsStatic())
	assert.Equal(t, []classfile.Opcode{classfile.GETSTATIC, classfile.INVOKEVIRTUAL, classfile.RETURN}, bridge.Code.Ops())
	assert.Equal(t, &classfile.MemberRef{Owner: "Main", Name: "main", Desc: "()V"}, bridge.Code.Instrs[1].Ref)

	assert.Contains(t, unit.Listing(), ".method public static main([Ljava/lang/String;)V")
}

func TestStructClass(t *testing.T) {
	classes := compile(t, `
struct Point { x int, y float, name string }
struct Empty { }
`)

	point := classes["Point"]
	require.NotNil(t, point)
	require.Len(t, point.Fields, 3)
	assert.Equal(t, "F", point.Fields[1].Desc)

	init := methodOf(t, point, "<init>", "(IFLjava/lang/String;)V")
	assert.Equal(t, []classfile.Opcode{
		classfile.ALOAD, classfile.INVOKESPECIAL,
		classfile.ALOAD, classfile.ILOAD, classfile.PUTFIELD,
		classfile.ALOAD, classfile.FLOAD, classfile.PUTFIELD,
		classfile.ALOAD, classfile.ALOAD, classfile.PUTFIELD,
		classfile.RETURN,
	}, init.Code.Ops())
	assert.Equal(t, 4, init.Code.MaxLocals)

	toString := methodOf(t, point, "toString", "()Ljava/lang/String;")
	indy := lastInvoke(toString.Code, classfile.INVOKEDYNAMIC)
	require.NotNil(t, indy)
	assert.Equal(t, "(IFLjava/lang/String;)Ljava/lang/String;", indy.Dyn.Desc)
	assert.Equal(t, []string{"Point[x=\u0001, y=\u0001, name=\u0001]"}, indy.Dyn.Args)
	assert.Equal(t, classfile.StringConcatBootstrap, indy.Dyn.Bootstrap)

	empty := classes["Empty"]
	require.NotNil(t, empty)
	emptyToString := methodOf(t, empty, "toString", "()Ljava/lang/String;")
	assert.Equal(t, []classfile.Opcode{classfile.LDC, classfile.ARETURN}, emptyToString.Code.Ops())
	assert.Equal(t, "Empty[]", emptyToString.Code.Instrs[0].Const)

	methodOf(t, point, "equals", "(Ljava/lang/Object;)Z")
}

func TestClosureClass(t *testing.T) {
	classes := compile(t, `
func counter(start int) int {
	val step = 2
	func add(n int) int { return n + step }
	return add(start)
}
`)

	require.Len(t, classes, 2)

	closure := classes["Main$add"]
	require.NotNil(t, closure)
	require.Len(t, closure.Fields, 1)
	assert.Equal(t, "step", closure.Fields[0].Name)
	assert.Equal(t, "I", closure.Fields[0].Desc)

	methodOf(t, closure, "<init>", "()V")

	bind := methodOf(t, closure, "closure", "(I)V")
	assert.Equal(t, []classfile.Opcode{classfile.ALOAD, classfile.ILOAD, classfile.PUTFIELD, classfile.RETURN}, bind.Code.Ops())

	invoke := methodOf(t, closure, "invoke", "(I)I")
	assert.Equal(t, []classfile.Opcode{
		classfile.ILOAD,
		classfile.ALOAD,
		classfile.GETFIELD,
		classfile.IADD,
		classfile.IRETURN,
	}, invoke.Code.Ops())
	assert.Equal(t, &classfile.MemberRef{Owner: "Main$add", Name: "step", Desc: "I"}, invoke.Code.Instrs[2].Ref)

	toString := methodOf(t, closure, "toString", "()Ljava/lang/String;")
	assert.Equal(t, "func add(n int) int", toString.Code.Instrs[0].Const)

	_, ok := classes["Main"].Method("add")
	assert.False(t, ok, "closure-converted functions are not unit methods")

	counter := methodOf(t, classes["Main"], "counter", "(I)I")
	assert.Equal(t, []classfile.Opcode{
		classfile.ICONST_2, classfile.ISTORE,
		classfile.NEW, classfile.DUP, classfile.INVOKESPECIAL, classfile.ASTORE,
		classfile.ALOAD, classfile.ILOAD, classfile.INVOKEVIRTUAL,
		classfile.ALOAD, classfile.ILOAD, classfile.INVOKEVIRTUAL,
		classfile.IRETURN,
	}, counter.Code.Ops())
	assert.Equal(t, 4, counter.Code.MaxLocals)

	call := lastInvoke(counter.Code, classfile.INVOKEVIRTUAL)
	assert.Equal(t, &classfile.MemberRef{Owner: "Main$add", Name: "invoke", Desc: "(I)I"}, call.Ref)
}

func TestElseIfClosureCall(t *testing.T) {
	classes := compile(t, `
func outer(n int) {
	val x = n
	func f() bool { return x > 0 }
	if n == 0 { log(1) } else if f() { log(2) }
	f()
}
`)

	outer := methodOf(t, classes["Main"], "outer", "(I)V")

	var news []*classfile.Instr
	for _, instr := range outer.Code.Instrs {
		if instr.Op == classfile.NEW {
			news = append(news, instr)
		}
	}

	require.Len(t, news, 2, "the call after the if statement creates its own closure object")
	for _, instr := range news {
		assert.Equal(t, "Main$f", instr.Class)
	}
}

func TestDirectCallHasNoClosure(t *testing.T) {
	classes := compile(t, `
func sq(n int) int { return n * n }
val r = sq(3)
`)

	require.Len(t, classes, 1)
	assert.Equal(t, []classfile.Opcode{
		classfile.GETSTATIC,
		classfile.ICONST_3,
		classfile.INVOKEVIRTUAL,
		classfile.PUTSTATIC,
		classfile.RETURN,
	}, clinitOps(t, classes))

	sq := methodOf(t, classes["Main"], "sq", "(I)I")
	assert.Equal(t, []classfile.Opcode{classfile.ILOAD, classfile.ILOAD, classfile.IMUL, classfile.IRETURN}, sq.Code.Ops())
}

func TestLogDescriptors(t *testing.T) {
	tests := []struct {
		src  string
		desc string
	}{
		{"log(1)", "(I)V"},
		{"log(1.5)", "(F)V"},
		{"log(true)", "(Z)V"},
		{`log("s")`, "(Ljava/lang/String;)V"},
		{"enum E { A, B }\nlog(E.B)", "(I)V"},
		{"struct P { }\nlog(P())", "(Ljava/lang/Object;)V"},
		{"func f() { }\nlog(f)", "(Ljava/lang/String;)V"},
	}

	for _, test := range tests {
		classes := compile(t, test.src)
		clinit := methodOf(t, classes["Main"], "<clinit>", "()V")

		call := lastInvoke(clinit.Code, classfile.INVOKEVIRTUAL)
		require.NotNil(t, call, test.src)
		assert.Equal(t, "java/io/PrintStream", call.Ref.Owner, test.src)
		assert.Equal(t, "println", call.Ref.Name, test.src)
		assert.Equal(t, test.desc, call.Ref.Desc, test.src)
	}
}

func TestFunctionValues(t *testing.T) {
	classes := compile(t, `
func twice(n int) int { return n * 2 }
val f = twice
val r = f(4)
log(f == f)
`)

	require.NotNil(t, classes["Main$twice"])

	_, ok := classes["Main"].Method("twice")
	assert.False(t, ok)

	assert.Equal(t, []classfile.Opcode{
		// val f = twice
		classfile.NEW, classfile.DUP, classfile.INVOKESPECIAL,
		classfile.DUP, classfile.INVOKEVIRTUAL,
		classfile.PUTSTATIC,

		// val r = f(4)
		classfile.GETSTATIC, classfile.ICONST_4, classfile.INVOKEVIRTUAL,
		classfile.PUTSTATIC,

		// log(f == f)
		classfile.GETSTATIC,
		classfile.GETSTATIC, classfile.GETSTATIC,
		classfile.IF_ACMPEQ, classfile.ICONST_0, classfile.GOTO, classfile.ICONST_1,
		classfile.INVOKEVIRTUAL,

		classfile.RETURN,
	}, clinitOps(t, classes))
}

func TestStatementLowering(t *testing.T) {
	tests := []struct {
		name string
		src  string
		desc string
		ops  []classfile.Opcode
	}{
		{
			name: "iinc",
			src:  "func f() { mut i = 0\ni++ }",
			desc: "()V",
			ops:  []classfile.Opcode{classfile.ICONST_0, classfile.ISTORE, classfile.IINC, classfile.RETURN},
		},
		{
			name: "pop",
			src:  "func g() int { return 1 }\nfunc f() { g() }",
			desc: "()V",
			ops:  []classfile.Opcode{classfile.ALOAD, classfile.INVOKEVIRTUAL, classfile.POP, classfile.RETURN},
		},
		{
			name: "pow",
			src:  "func f(a int) int { return a ^ 3 }",
			desc: "(I)I",
			ops: []classfile.Opcode{
				classfile.ILOAD, classfile.I2D,
				classfile.ICONST_3, classfile.I2D,
				classfile.INVOKESTATIC, classfile.D2I,
				classfile.IRETURN,
			},
		},
		{
			name: "string equality",
			src:  "func f(a string) bool { return a != \"x\" }",
			desc: "(Ljava/lang/String;)Z",
			ops: []classfile.Opcode{
				classfile.ALOAD, classfile.LDC,
				classfile.INVOKESTATIC,
				classfile.ICONST_1, classfile.IXOR,
				classfile.IRETURN,
			},
		},
		{
			name: "if else",
			src:  "func f(b bool) int { if b { return 1 } else { return 2 } }",
			desc: "(Z)I",
			ops: []classfile.Opcode{
				classfile.ILOAD, classfile.IFEQ,
				classfile.ICONST_1, classfile.IRETURN,
				classfile.ICONST_2, classfile.IRETURN,
			},
		},
		{
			name: "infinite loop",
			src:  "func f() int { for { return 1 } }",
			desc: "()I",
			ops:  []classfile.Opcode{classfile.ICONST_1, classfile.IRETURN},
		},
		{
			name: "float comparison",
			src:  "func f(a float) bool { return a < 1.0 }",
			desc: "(F)Z",
			ops: []classfile.Opcode{
				classfile.FLOAD, classfile.LDC, classfile.FCMPG,
				classfile.IFLT, classfile.ICONST_0, classfile.GOTO, classfile.ICONST_1,
				classfile.IRETURN,
			},
		},
	}

	for _, test := range tests {
		classes := compile(t, test.src)
		f := methodOf(t, classes["Main"], "f", test.desc)
		assert.Equal(t, test.ops, f.Code.Ops(), test.name)
	}
}

func TestForInLoop(t *testing.T) {
	classes := compile(t, `for i in 0..3 { log(i) }`)

	assert.Equal(t, []classfile.Opcode{
		classfile.ICONST_0, classfile.ISTORE,
		classfile.ICONST_3, classfile.ISTORE,
		classfile.ILOAD, classfile.ILOAD, classfile.IF_ICMPGE,
		classfile.GETSTATIC, classfile.ILOAD, classfile.INVOKEVIRTUAL,
		classfile.IINC, classfile.GOTO,
		classfile.RETURN,
	}, clinitOps(t, classes))
}

func TestFieldUpdates(t *testing.T) {
	classes := compile(t, `
struct P { x int }
mut p = P(1)
p.x = 5
p.x++
log(p == P(6))
`)

	assert.Equal(t, []classfile.Opcode{
		// mut p = P(1)
		classfile.NEW, classfile.DUP, classfile.ICONST_1, classfile.INVOKESPECIAL,
		classfile.PUTSTATIC,

		// p.x = 5
		classfile.GETSTATIC, classfile.ICONST_5, classfile.PUTFIELD,

		// p.x++
		classfile.GETSTATIC, classfile.DUP, classfile.GETFIELD,
		classfile.ICONST_1, classfile.IADD, classfile.PUTFIELD,

		// log(p == P(6))
		classfile.GETSTATIC,
		classfile.GETSTATIC,
		classfile.NEW, classfile.DUP, classfile.BIPUSH, classfile.INVOKESPECIAL,
		classfile.INVOKESTATIC,
		classfile.INVOKEVIRTUAL,

		classfile.RETURN,
	}, clinitOps(t, classes))
}
