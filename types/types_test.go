package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impc/classfile"
)

type mapScope map[string]Type

func (ms mapScope) LookupType(name string) (Type, bool) {
	typ, ok := ms[name]
	return typ, ok
}

func TestBuiltinOpcodes(t *testing.T) {
	testDatas := []struct {
		typ Type
		op  ArithOp
		opc classfile.Opcode
	}{
		{Int, OpAdd, classfile.IADD},
		{Int, OpRem, classfile.IREM},
		{Int, OpNeg, classfile.INEG},
		{Float, OpSub, classfile.FSUB},
		{Float, OpDiv, classfile.FDIV},
	}

	for _, td := range testDatas {
		opc, err := td.typ.Opcode(td.op)
		require.NoError(t, err)
		assert.Equal(t, td.opc, opc)
	}

	for _, typ := range []Type{Bool, String, Void} {
		_, err := typ.Opcode(OpAdd)
		assert.True(t, errors.Is(err, ErrUnsupportedOperation), typ.Repr())
	}
}

func TestBuiltinDescriptors(t *testing.T) {
	assert.Equal(t, "I", Int.Descriptor())
	assert.Equal(t, "F", Float.Descriptor())
	assert.Equal(t, "Z", Bool.Descriptor())
	assert.Equal(t, "Ljava/lang/String;", String.Descriptor())
	assert.Equal(t, "V", Void.Descriptor())

	assert.Equal(t, classfile.ILOAD, Bool.LoadOp())
	assert.Equal(t, classfile.FSTORE, Float.StoreOp())
	assert.Equal(t, classfile.ARETURN, String.ReturnOp())
	assert.Equal(t, classfile.RETURN, Void.ReturnOp())
}

func TestStructHasNoArithmetic(t *testing.T) {
	point := &Struct{Name: "Point"}

	_, err := point.Opcode(OpAdd)
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
	assert.Equal(t, "LPoint;", point.Descriptor())
	assert.Equal(t, classfile.ALOAD, point.LoadOp())
	assert.Equal(t, KindStruct, point.Kind())
}

func TestStructResolveFields(t *testing.T) {
	line := &Struct{Name: "Line"}
	point := &Struct{
		Name: "Point",
		Fields: []*Field{
			{Name: "x", Label: "int"},
			{Name: "next", Label: "Line"},
			{Name: "tag", Label: "Missing"},
		},
		Scope: mapScope{"int": Int, "Line": line},
	}

	missing := point.ResolveFields()
	require.Len(t, missing, 1)
	assert.Equal(t, "tag", missing[0].Name)
	assert.Equal(t, Invalid, missing[0].Type)

	assert.Equal(t, Type(line), point.Fields[1].Type)
	assert.Equal(t, "(ILLine;V)V", point.ConstructorDescriptor())
}

func TestToStringRecipe(t *testing.T) {
	point := &Struct{Name: "Point", Fields: []*Field{{Name: "x", Type: Int}, {Name: "y", Type: Int}}}
	assert.Equal(t, "Point[x=\u0001, y=\u0001]", point.ToStringRecipe())

	empty := &Struct{Name: "Empty"}
	assert.Equal(t, "Empty[]", empty.ToStringRecipe())
}

func TestOverloadMatchFirstDeclaredWins(t *testing.T) {
	set := &OverloadSet{Name: "f"}
	fInt := &Function{Name: "f", Params: []Param{{"a", Int}}, Return: Void, Owner: "Main"}
	fStr := &Function{Name: "f", Params: []Param{{"a", String}}, Return: Void, Owner: "Main"}

	require.NoError(t, set.Add(fInt))
	require.NoError(t, set.Add(fStr))

	assert.ErrorIs(t, set.Add(&Function{Name: "f", Params: []Param{{"b", Int}}, Return: Int}), ErrDuplicateSignature)

	match, ok := set.Match([]Type{Int})
	require.True(t, ok)
	assert.Same(t, fInt, match)

	match, ok = set.Match([]Type{String})
	require.True(t, ok)
	assert.Same(t, fStr, match)

	_, ok = set.Match([]Type{Bool})
	assert.False(t, ok)

	_, ok = set.Match([]Type{Int, Int})
	assert.False(t, ok)

	assert.Equal(t, "Main$f", fInt.ClassName())
	assert.Equal(t, "Main$f$1", fStr.ClassName())
	assert.Equal(t, "func f(a int), func f(a string)", set.Signatures())
}

func TestFunctionCaptures(t *testing.T) {
	fn := &Function{Name: "add", Params: []Param{{"a", Int}, {"b", Int}}, Return: Int, Owner: "Main"}
	assert.False(t, fn.IsClosure())

	assert.True(t, fn.AddCapture("x", Int))
	assert.False(t, fn.AddCapture("x", Int))
	assert.True(t, fn.AddCapture("s", String))

	assert.True(t, fn.IsClosure())
	assert.Equal(t, "(ILjava/lang/String;)V", fn.ClosureDescriptor())
	assert.Equal(t, "(II)I", fn.MethodDescriptor())
	assert.Equal(t, "LMain$add;", fn.Descriptor())
	assert.Equal(t, "func add(a int, b int) int", fn.Repr())
}

func TestEnumOrdinal(t *testing.T) {
	color := &Enum{Name: "Color", Values: []string{"Red", "Green"}}

	n, ok := color.Ordinal("Green")
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = color.Ordinal("Blue")
	assert.False(t, ok)
	assert.True(t, IsIntLike(color))
}

func TestInvalidEqualsEverything(t *testing.T) {
	assert.True(t, Equals(Invalid, Int))
	assert.True(t, Equals(String, nil))
	assert.False(t, Equals(Int, Float))
	assert.True(t, Equals(Int, Int))
}
