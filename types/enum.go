package types

import (
	"golang.org/x/exp/slices"

	"impc/classfile"
)

// Enum represents an enumerated type.  Enum values are int constants equal to
// their position in the declaration.
type Enum struct {
	Name     string
	Values   []string
	Exported bool
}

func (et *Enum) Repr() string {
	return et.Name
}

func (et *Enum) Kind() Kind {
	return KindEnum
}

func (et *Enum) Descriptor() string {
	return "I"
}

func (et *Enum) DefaultValue() interface{} {
	return int32(0)
}

func (et *Enum) Opcode(ArithOp) (classfile.Opcode, error) {
	return classfile.NOP, unsupported(et)
}

func (et *Enum) LoadOp() classfile.Opcode   { return classfile.ILOAD }
func (et *Enum) StoreOp() classfile.Opcode  { return classfile.ISTORE }
func (et *Enum) ReturnOp() classfile.Opcode { return classfile.IRETURN }

// Ordinal returns the int value of the named enum value.
func (et *Enum) Ordinal(name string) (int, bool) {
	ndx := slices.Index(et.Values, name)
	return ndx, ndx >= 0
}
