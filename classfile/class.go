package classfile

// Enumeration of access flags.
const (
	ACC_PUBLIC  = 0x0001
	ACC_PRIVATE = 0x0002
	ACC_STATIC  = 0x0008
	ACC_FINAL   = 0x0010
	ACC_SUPER   = 0x0020
)

// ObjectClass is the name of the root class every generated class extends.
const ObjectClass = "java/lang/Object"

// Class is a single generated class.
type Class struct {
	// The internal (slash-separated) name of the class.
	Name string

	// The internal name of the super class.
	Super string

	// The class's access flags.
	Access int

	// The class's fields in declaration order.
	Fields []*Field

	// The class's methods in declaration order.
	Methods []*Method
}

// NewClass creates a new class extending `java/lang/Object`.
func NewClass(name string, access int) *Class {
	return &Class{Name: name, Super: ObjectClass, Access: access | ACC_SUPER}
}

// Field is a field of a class.
type Field struct {
	Access     int
	Name, Desc string
}

// Method is a method of a class.
type Method struct {
	Access     int
	Name, Desc string

	// The method's code.  This is nil for methods without a body.
	Code *Code
}

// AddField adds a new field to the class.
func (c *Class) AddField(access int, name, desc string) *Field {
	f := &Field{Access: access, Name: name, Desc: desc}
	c.Fields = append(c.Fields, f)
	return f
}

// AddMethod adds a new method with an empty body to the class.
func (c *Class) AddMethod(access int, name, desc string) *Method {
	m := &Method{Access: access, Name: name, Desc: desc, Code: &Code{}}
	c.Methods = append(c.Methods, m)
	return m
}

// Field returns the field with the given name if it exists.
func (c *Class) Field(name string) (*Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return nil, false
}

// Method returns the first method with the given name if it exists.
func (c *Class) Method(name string) (*Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}

	return nil, false
}

// IsStatic returns whether the method is static.
func (m *Method) IsStatic() bool {
	return m.Access&ACC_STATIC != 0
}

// -----------------------------------------------------------------------------

// MemberRef is a symbolic reference to a field or method.
type MemberRef struct {
	Owner, Name, Desc string
}

// DynamicSite is the operand of an `invokedynamic` instruction.
type DynamicSite struct {
	// The name and descriptor of the call site.
	Name, Desc string

	// The bootstrap method.
	Bootstrap MemberRef

	// The static bootstrap arguments.
	Args []string
}

// StringConcatBootstrap is the bootstrap method used for string
// concatenation call sites.
var StringConcatBootstrap = MemberRef{
	Owner: "java/lang/invoke/StringConcatFactory",
	Name:  "makeConcatWithConstants",
	Desc: "(Ljava/lang/invoke/MethodHandles$Lookup;Ljava/lang/String;" +
		"Ljava/lang/invoke/MethodType;Ljava/lang/String;[Ljava/lang/Object;)" +
		"Ljava/lang/invoke/CallSite;",
}

// ConcatRecipeArg is the placeholder for a dynamic argument in a string
// concatenation recipe.
const ConcatRecipeArg = "\u0001"

// Label identifies a jump target within a method.
type Label int

// Instr is a single instruction.
type Instr struct {
	Op Opcode

	// The local slot (loads, stores, `iinc`) or integer operand (`bipush`,
	// `sipush`).
	Int int

	// The increment of `iinc`.
	Inc int

	// The constant of `ldc`: a string, int32 or float32.
	Const interface{}

	// The field or method reference.
	Ref *MemberRef

	// The class operand of `new`, `checkcast` and `instanceof`.
	Class string

	// The jump target or, for LABEL, the label being marked.
	Label Label

	// The call site of `invokedynamic`.
	Dyn *DynamicSite
}
