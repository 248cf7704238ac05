package types

import (
	"impc/classfile"
)

// TypeScope is a scope in which type names can be looked up.
type TypeScope interface {
	LookupType(name string) (Type, bool)
}

// Struct represents a struct type.  Every struct is generated as its own class
// whose name is the struct's name.
type Struct struct {
	refType

	// The name of the struct.
	Name string

	// The fields of the struct in declaration order.
	Fields []*Field

	// The scope in which the struct was declared.  Field types are resolved in
	// this scope.
	Scope TypeScope

	// Whether the struct is exported.
	Exported bool
}

// Field is a single field of a struct.
type Field struct {
	Name string

	// The name of the field's type as written in source.
	Label string

	// The resolved type of the field.  This is nil until the struct's fields
	// are resolved.
	Type Type
}

func (st *Struct) Repr() string {
	return st.Name
}

func (st *Struct) Kind() Kind {
	return KindStruct
}

func (st *Struct) Descriptor() string {
	return "L" + st.Name + ";"
}

func (st *Struct) Opcode(ArithOp) (classfile.Opcode, error) {
	return classfile.NOP, unsupported(st)
}

// ResolveFields resolves the types of the struct's fields in its declaring
// scope.  It returns the fields whose types could not be found: these fields
// are given the invalid type.
func (st *Struct) ResolveFields() []*Field {
	var missing []*Field

	for _, field := range st.Fields {
		if typ, ok := st.Scope.LookupType(field.Label); ok {
			field.Type = typ
		} else {
			field.Type = Invalid
			missing = append(missing, field)
		}
	}

	return missing
}

// FieldByName returns the field with the given name if it exists.
func (st *Struct) FieldByName(name string) (*Field, bool) {
	for _, field := range st.Fields {
		if field.Name == name {
			return field, true
		}
	}

	return nil, false
}

// FieldTypes returns the types of the struct's fields in order.
func (st *Struct) FieldTypes() []Type {
	fieldTypes := make([]Type, len(st.Fields))
	for i, field := range st.Fields {
		fieldTypes[i] = field.Type
	}

	return fieldTypes
}

// ConstructorDescriptor returns the descriptor of the struct's constructor:
// it takes every field in declaration order.
func (st *Struct) ConstructorDescriptor() string {
	return MethodDescriptor(st.FieldTypes(), Void)
}

// ToStringRecipe returns the string concatenation recipe used to render
// values of the struct: `Name[f1=\u0001, f2=\u0001]`.
func (st *Struct) ToStringRecipe() string {
	recipe := st.Name + "["

	for i, field := range st.Fields {
		if i > 0 {
			recipe += ", "
		}

		recipe += field.Name + "=" + classfile.ConcatRecipeArg
	}

	return recipe + "]"
}
