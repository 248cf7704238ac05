package types

import "impc/classfile"

// Builtin is one of the language's built-in types.
type Builtin int

// Enumeration of built-in types.
const (
	Int Builtin = iota
	Float
	Bool
	String
	Void
)

// Builtins maps the names of built-in types to their types.
var Builtins = map[string]Type{
	"int":    Int,
	"float":  Float,
	"bool":   Bool,
	"string": String,
	"void":   Void,
}

func (bt Builtin) Repr() string {
	switch bt {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		// Void
		return "void"
	}
}

func (bt Builtin) Kind() Kind {
	switch bt {
	case Int:
		return KindInt
	case Float:
		return KindFloat
	case Bool:
		return KindBool
	case String:
		return KindString
	default:
		return KindVoid
	}
}

func (bt Builtin) Descriptor() string {
	switch bt {
	case Int:
		return "I"
	case Float:
		return "F"
	case Bool:
		return "Z"
	case String:
		return "Ljava/lang/String;"
	default:
		return "V"
	}
}

func (bt Builtin) DefaultValue() interface{} {
	switch bt {
	case Int:
		return int32(0)
	case Float:
		return float32(0)
	case Bool:
		return false
	case String:
		return ""
	default:
		return nil
	}
}

var intOpcodes = [...]classfile.Opcode{
	OpAdd: classfile.IADD,
	OpSub: classfile.ISUB,
	OpMul: classfile.IMUL,
	OpDiv: classfile.IDIV,
	OpRem: classfile.IREM,
	OpNeg: classfile.INEG,
}

var floatOpcodes = [...]classfile.Opcode{
	OpAdd: classfile.FADD,
	OpSub: classfile.FSUB,
	OpMul: classfile.FMUL,
	OpDiv: classfile.FDIV,
	OpRem: classfile.FREM,
	OpNeg: classfile.FNEG,
}

func (bt Builtin) Opcode(op ArithOp) (classfile.Opcode, error) {
	switch bt {
	case Int:
		return intOpcodes[op], nil
	case Float:
		return floatOpcodes[op], nil
	}

	return classfile.NOP, unsupported(bt)
}

func (bt Builtin) LoadOp() classfile.Opcode {
	switch bt {
	case Float:
		return classfile.FLOAD
	case String:
		return classfile.ALOAD
	}

	return classfile.ILOAD
}

func (bt Builtin) StoreOp() classfile.Opcode {
	switch bt {
	case Float:
		return classfile.FSTORE
	case String:
		return classfile.ASTORE
	}

	return classfile.ISTORE
}

func (bt Builtin) ReturnOp() classfile.Opcode {
	switch bt {
	case Float:
		return classfile.FRETURN
	case String:
		return classfile.ARETURN
	case Void:
		return classfile.RETURN
	}

	return classfile.IRETURN
}
