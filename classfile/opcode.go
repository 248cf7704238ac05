package classfile

// Opcode is a single instruction opcode of the target stack machine.
type Opcode int

// Enumeration of opcodes.  The mnemonics match the JVM instruction set.
const (
	NOP Opcode = iota
	ACONST_NULL
	ICONST_M1
	ICONST_0
	ICONST_1
	ICONST_2
	ICONST_3
	ICONST_4
	ICONST_5
	BIPUSH
	SIPUSH
	LDC

	ILOAD
	FLOAD
	ALOAD
	ISTORE
	FSTORE
	ASTORE

	POP
	DUP
	DUP_X1
	SWAP

	IADD
	FADD
	ISUB
	FSUB
	IMUL
	FMUL
	IDIV
	FDIV
	IREM
	FREM
	INEG
	FNEG
	IXOR
	IINC

	I2F
	F2I
	I2D
	F2D
	D2I
	D2F

	FCMPL
	FCMPG

	IFEQ
	IFNE
	IFLT
	IFGE
	IFGT
	IFLE
	IF_ICMPEQ
	IF_ICMPNE
	IF_ICMPLT
	IF_ICMPGE
	IF_ICMPGT
	IF_ICMPLE
	IF_ACMPEQ
	IF_ACMPNE
	GOTO

	IRETURN
	FRETURN
	ARETURN
	RETURN

	GETSTATIC
	PUTSTATIC
	GETFIELD
	PUTFIELD
	INVOKEVIRTUAL
	INVOKESPECIAL
	INVOKESTATIC
	INVOKEDYNAMIC

	NEW
	CHECKCAST
	INSTANCEOF

	// LABEL is a pseudo-instruction marking a jump target.
	LABEL
)

var opcodeNames = [...]string{
	NOP:           "nop",
	ACONST_NULL:   "aconst_null",
	ICONST_M1:     "iconst_m1",
	ICONST_0:      "iconst_0",
	ICONST_1:      "iconst_1",
	ICONST_2:      "iconst_2",
	ICONST_3:      "iconst_3",
	ICONST_4:      "iconst_4",
	ICONST_5:      "iconst_5",
	BIPUSH:        "bipush",
	SIPUSH:        "sipush",
	LDC:           "ldc",
	ILOAD:         "iload",
	FLOAD:         "fload",
	ALOAD:         "aload",
	ISTORE:        "istore",
	FSTORE:        "fstore",
	ASTORE:        "astore",
	POP:           "pop",
	DUP:           "dup",
	DUP_X1:        "dup_x1",
	SWAP:          "swap",
	IADD:          "iadd",
	FADD:          "fadd",
	ISUB:          "isub",
	FSUB:          "fsub",
	IMUL:          "imul",
	FMUL:          "fmul",
	IDIV:          "idiv",
	FDIV:          "fdiv",
	IREM:          "irem",
	FREM:          "frem",
	INEG:          "ineg",
	FNEG:          "fneg",
	IXOR:          "ixor",
	IINC:          "iinc",
	I2F:           "i2f",
	F2I:           "f2i",
	I2D:           "i2d",
	F2D:           "f2d",
	D2I:           "d2i",
	D2F:           "d2f",
	FCMPL:         "fcmpl",
	FCMPG:         "fcmpg",
	IFEQ:          "ifeq",
	IFNE:          "ifne",
	IFLT:          "iflt",
	IFGE:          "ifge",
	IFGT:          "ifgt",
	IFLE:          "ifle",
	IF_ICMPEQ:     "if_icmpeq",
	IF_ICMPNE:     "if_icmpne",
	IF_ICMPLT:     "if_icmplt",
	IF_ICMPGE:     "if_icmpge",
	IF_ICMPGT:     "if_icmpgt",
	IF_ICMPLE:     "if_icmple",
	IF_ACMPEQ:     "if_acmpeq",
	IF_ACMPNE:     "if_acmpne",
	GOTO:          "goto",
	IRETURN:       "ireturn",
	FRETURN:       "freturn",
	ARETURN:       "areturn",
	RETURN:        "return",
	GETSTATIC:     "getstatic",
	PUTSTATIC:     "putstatic",
	GETFIELD:      "getfield",
	PUTFIELD:      "putfield",
	INVOKEVIRTUAL: "invokevirtual",
	INVOKESPECIAL: "invokespecial",
	INVOKESTATIC:  "invokestatic",
	INVOKEDYNAMIC: "invokedynamic",
	NEW:           "new",
	CHECKCAST:     "checkcast",
	INSTANCEOF:    "instanceof",
	LABEL:         "label",
}

func (op Opcode) String() string {
	if op >= 0 && int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}

	return "???"
}

// IsJump returns whether the opcode takes a label operand.
func (op Opcode) IsJump() bool {
	return IFEQ <= op && op <= GOTO
}

// Negate returns the conditional jump with the opposite condition.
func (op Opcode) Negate() Opcode {
	switch op {
	case IFEQ:
		return IFNE
	case IFNE:
		return IFEQ
	case IFLT:
		return IFGE
	case IFGE:
		return IFLT
	case IFGT:
		return IFLE
	case IFLE:
		return IFGT
	case IF_ICMPEQ:
		return IF_ICMPNE
	case IF_ICMPNE:
		return IF_ICMPEQ
	case IF_ICMPLT:
		return IF_ICMPGE
	case IF_ICMPGE:
		return IF_ICMPLT
	case IF_ICMPGT:
		return IF_ICMPLE
	case IF_ICMPLE:
		return IF_ICMPGT
	case IF_ACMPEQ:
		return IF_ACMPNE
	case IF_ACMPNE:
		return IF_ACMPEQ
	}

	return op
}
