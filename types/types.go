package types

import (
	"errors"
	"fmt"

	"impc/classfile"
)

// Type is the parent interface for all types in Imp.
type Type interface {
	// Repr returns a representative string of the type for purposes of error
	// reporting.
	Repr() string

	// Kind returns the type's kind tag.
	Kind() Kind

	// Descriptor returns the type's field descriptor on the target machine.
	Descriptor() string

	// DefaultValue returns the zero value of the type or nil for reference
	// types.
	DefaultValue() interface{}

	// Opcode returns the instruction implementing the arithmetic operation
	// for operands of this type.  Types without arithmetic return
	// ErrUnsupportedOperation.
	Opcode(op ArithOp) (classfile.Opcode, error)

	// LoadOp, StoreOp, and ReturnOp return the instructions used to load,
	// store and return values of this type.
	LoadOp() classfile.Opcode
	StoreOp() classfile.Opcode
	ReturnOp() classfile.Opcode
}

// Kind is the kind tag of a type.
type Kind int

// Enumeration of type kinds.
const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindVoid
	KindStruct
	KindFunction
	KindEnum
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindInt:      "int",
	KindFloat:    "float",
	KindBool:     "bool",
	KindString:   "string",
	KindVoid:     "void",
	KindStruct:   "struct",
	KindFunction: "function",
	KindEnum:     "enum",
}

func (k Kind) String() string {
	return kindNames[k]
}

// ArithOp is an arithmetic operation with a dedicated instruction.
type ArithOp int

// Enumeration of arithmetic operations.
const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpNeg
)

// ErrUnsupportedOperation is returned when an operation has no instruction for
// a given type.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// unsupported wraps ErrUnsupportedOperation with the offending type.
func unsupported(t Type) error {
	return fmt.Errorf("%w on type `%s`", ErrUnsupportedOperation, t.Repr())
}

// -----------------------------------------------------------------------------

// Equals returns whether two types are identical.  Invalid types are equal to
// everything so that a single resolution failure does not cascade.
func Equals(a, b Type) bool {
	if IsInvalid(a) || IsInvalid(b) {
		return true
	}

	return a == b
}

// IsInvalid returns whether the type is missing or the invalid type.
func IsInvalid(t Type) bool {
	return t == nil || t == Invalid
}

// IsNumeric returns whether the type supports arithmetic.
func IsNumeric(t Type) bool {
	return t == Int || t == Float
}

// IsIntLike returns whether values of the type are stored as ints.
func IsIntLike(t Type) bool {
	switch t.Kind() {
	case KindInt, KindBool, KindEnum:
		return true
	}

	return false
}

// IsReference returns whether values of the type are object references.
func IsReference(t Type) bool {
	switch t.Kind() {
	case KindString, KindStruct, KindFunction:
		return true
	}

	return false
}

// MethodDescriptor builds a method descriptor from parameter and return types.
func MethodDescriptor(params []Type, ret Type) string {
	return "(" + Descriptors(params) + ")" + ret.Descriptor()
}

// Descriptors concatenates the descriptors of the types.
func Descriptors(ts []Type) string {
	desc := ""
	for _, t := range ts {
		desc += t.Descriptor()
	}

	return desc
}

// -----------------------------------------------------------------------------

// invalidType is the type given to expressions that failed to resolve.
type invalidType struct{}

// Invalid is the single instance of the invalid type.
var Invalid Type = invalidType{}

func (invalidType) Repr() string              { return "<invalid>" }
func (invalidType) Kind() Kind                { return KindInvalid }
func (invalidType) Descriptor() string        { return "V" }
func (invalidType) DefaultValue() interface{} { return nil }

func (it invalidType) Opcode(ArithOp) (classfile.Opcode, error) {
	return classfile.NOP, unsupported(it)
}

func (invalidType) LoadOp() classfile.Opcode   { return classfile.NOP }
func (invalidType) StoreOp() classfile.Opcode  { return classfile.NOP }
func (invalidType) ReturnOp() classfile.Opcode { return classfile.RETURN }

// -----------------------------------------------------------------------------

// refType provides the load/store/return behavior shared by reference types.
type refType struct{}

func (refType) DefaultValue() interface{}  { return nil }
func (refType) LoadOp() classfile.Opcode   { return classfile.ALOAD }
func (refType) StoreOp() classfile.Opcode  { return classfile.ASTORE }
func (refType) ReturnOp() classfile.Opcode { return classfile.ARETURN }
