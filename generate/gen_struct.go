package generate

import (
	"impc/classfile"
	"impc/types"
)

// generateStruct generates the class of a struct: a field per struct field, a
// constructor initializing every field, `toString` and structural `equals`.
func (g *Generator) generateStruct(st *types.Struct) {
	access := 0
	if st.Exported {
		access = classfile.ACC_PUBLIC
	}

	class := g.addClass(st.Name, access)

	for _, field := range st.Fields {
		class.AddField(classfile.ACC_PUBLIC, field.Name, field.Type.Descriptor())
	}

	generateStructInit(class, st)
	generateStructToString(class, st)
	generateStructEquals(class, st)
}

// generateStructInit generates the struct's constructor: the arguments are
// stored into the fields in declaration order.
func generateStructInit(class *classfile.Class, st *types.Struct) {
	init := class.AddMethod(classfile.ACC_PUBLIC, "<init>", st.ConstructorDescriptor())
	code := init.Code

	code.Reserve(len(st.Fields) + 1)
	code.EmitVar(classfile.ALOAD, 0)
	code.EmitInvoke(classfile.INVOKESPECIAL, classfile.ObjectClass, "<init>", "()V")

	for i, field := range st.Fields {
		code.EmitVar(classfile.ALOAD, 0)
		code.EmitVar(field.Type.LoadOp(), i+1)
		code.EmitField(classfile.PUTFIELD, st.Name, field.Name, field.Type.Descriptor())
	}

	code.Emit(classfile.RETURN)
}

// generateStructToString generates the struct's `toString` method which
// renders the struct as `Name[f1=v1, f2=v2]`.
func generateStructToString(class *classfile.Class, st *types.Struct) {
	toString := class.AddMethod(classfile.ACC_PUBLIC, "toString", "()Ljava/lang/String;")
	code := toString.Code

	code.Reserve(1)

	if len(st.Fields) == 0 {
		code.EmitLDC(st.Name + "[]")
		code.Emit(classfile.ARETURN)
		return
	}

	for _, field := range st.Fields {
		code.EmitVar(classfile.ALOAD, 0)
		code.EmitField(classfile.GETFIELD, st.Name, field.Name, field.Type.Descriptor())
	}

	code.EmitDynamic(concatSite(st.FieldTypes(), st.ToStringRecipe()))
	code.Emit(classfile.ARETURN)
}

// generateStructEquals generates the struct's `equals` method: two structs are
// equal if every pair of corresponding fields is equal.  Reference fields are
// compared with `java/util/Objects.equals`.
func generateStructEquals(class *classfile.Class, st *types.Struct) {
	equals := class.AddMethod(classfile.ACC_PUBLIC, "equals", "(Ljava/lang/Object;)Z")
	code := equals.Code

	code.Reserve(3)

	notSame := code.NewLabel()
	isInstance := code.NewLabel()
	unequal := code.NewLabel()

	code.EmitVar(classfile.ALOAD, 0)
	code.EmitVar(classfile.ALOAD, 1)
	code.EmitJump(classfile.IF_ACMPNE, notSame)
	code.Emit(classfile.ICONST_1)
	code.Emit(classfile.IRETURN)

	code.Mark(notSame)
	code.EmitVar(classfile.ALOAD, 1)
	code.EmitType(classfile.INSTANCEOF, st.Name)
	code.EmitJump(classfile.IFNE, isInstance)
	code.Emit(classfile.ICONST_0)
	code.Emit(classfile.IRETURN)

	code.Mark(isInstance)
	code.EmitVar(classfile.ALOAD, 1)
	code.EmitType(classfile.CHECKCAST, st.Name)
	code.EmitVar(classfile.ASTORE, 2)

	for _, field := range st.Fields {
		desc := field.Type.Descriptor()

		code.EmitVar(classfile.ALOAD, 0)
		code.EmitField(classfile.GETFIELD, st.Name, field.Name, desc)
		code.EmitVar(classfile.ALOAD, 2)
		code.EmitField(classfile.GETFIELD, st.Name, field.Name, desc)

		switch field.Type.Kind() {
		case types.KindFloat:
			code.Emit(classfile.FCMPL)
			code.EmitJump(classfile.IFNE, unequal)
		case types.KindString, types.KindStruct:
			emitObjectsEquals(code)
			code.EmitJump(classfile.IFEQ, unequal)
		case types.KindFunction:
			code.EmitJump(classfile.IF_ACMPNE, unequal)
		default:
			code.EmitJump(classfile.IF_ICMPNE, unequal)
		}
	}

	code.Emit(classfile.ICONST_1)
	code.Emit(classfile.IRETURN)

	if len(st.Fields) > 0 {
		code.Mark(unequal)
		code.Emit(classfile.ICONST_0)
		code.Emit(classfile.IRETURN)
	}
}

// emitObjectsEquals compares the two references on top of the stack with
// `java/util/Objects.equals`.
func emitObjectsEquals(code *classfile.Code) {
	code.EmitInvoke(
		classfile.INVOKESTATIC,
		"java/util/Objects",
		"equals",
		"(Ljava/lang/Object;Ljava/lang/Object;)Z",
	)
}

// concatSite returns the `invokedynamic` call site concatenating values of the
// given types according to a recipe.
func concatSite(argTypes []types.Type, recipe string) *classfile.DynamicSite {
	return &classfile.DynamicSite{
		Name:      "makeConcatWithConstants",
		Desc:      types.MethodDescriptor(argTypes, types.String),
		Bootstrap: classfile.StringConcatBootstrap,
		Args:      []string{recipe},
	}
}
