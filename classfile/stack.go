package classfile

import "strings"

// SlotSize returns the number of stack or local slots occupied by a value of
// the given field descriptor.
func SlotSize(desc string) int {
	switch desc {
	case "V":
		return 0
	case "J", "D":
		return 2
	}

	return 1
}

// SplitMethodDesc splits a method descriptor into its parameter descriptors
// and its return descriptor.
func SplitMethodDesc(desc string) ([]string, string) {
	end := strings.IndexByte(desc, ')')
	if !strings.HasPrefix(desc, "(") || end < 0 {
		return nil, desc
	}

	var params []string
	inner := desc[1:end]
	for i := 0; i < len(inner); {
		start := i
		for inner[i] == '[' {
			i++
		}

		if inner[i] == 'L' {
			i += strings.IndexByte(inner[i:], ';')
		}

		i++
		params = append(params, inner[start:i])
	}

	return params, desc[end+1:]
}

// argSlots returns the number of slots taken by the parameters and the return
// value of a method descriptor.
func argSlots(desc string) (int, int) {
	params, ret := SplitMethodDesc(desc)

	n := 0
	for _, p := range params {
		n += SlotSize(p)
	}

	return n, SlotSize(ret)
}

// stackEffect returns the number of slots popped and pushed by an instruction.
func stackEffect(instr *Instr) (int, int) {
	switch instr.Op {
	case NOP, LABEL, IINC, GOTO, RETURN:
		return 0, 0
	case ACONST_NULL, ICONST_M1, ICONST_0, ICONST_1, ICONST_2, ICONST_3,
		ICONST_4, ICONST_5, BIPUSH, SIPUSH, LDC, ILOAD, FLOAD, ALOAD, NEW:
		return 0, 1
	case ISTORE, FSTORE, ASTORE, POP, IFEQ, IFNE, IFLT, IFGE, IFGT, IFLE,
		IRETURN, FRETURN, ARETURN:
		return 1, 0
	case DUP:
		return 1, 2
	case DUP_X1:
		return 2, 3
	case SWAP:
		return 2, 2
	case IADD, FADD, ISUB, FSUB, IMUL, FMUL, IDIV, FDIV, IREM, FREM, IXOR,
		FCMPL, FCMPG:
		return 2, 1
	case INEG, FNEG, I2F, F2I, CHECKCAST, INSTANCEOF:
		return 1, 1
	case I2D, F2D:
		return 1, 2
	case D2I, D2F:
		return 2, 1
	case IF_ICMPEQ, IF_ICMPNE, IF_ICMPLT, IF_ICMPGE, IF_ICMPGT, IF_ICMPLE,
		IF_ACMPEQ, IF_ACMPNE:
		return 2, 0
	case GETSTATIC:
		return 0, SlotSize(instr.Ref.Desc)
	case PUTSTATIC:
		return SlotSize(instr.Ref.Desc), 0
	case GETFIELD:
		return 1, SlotSize(instr.Ref.Desc)
	case PUTFIELD:
		return 1 + SlotSize(instr.Ref.Desc), 0
	case INVOKESTATIC:
		return argSlots(instr.Ref.Desc)
	case INVOKEVIRTUAL, INVOKESPECIAL:
		args, ret := argSlots(instr.Ref.Desc)
		return args + 1, ret
	case INVOKEDYNAMIC:
		return argSlots(instr.Dyn.Desc)
	}

	return 0, 0
}

// MaxStack computes the maximum operand stack depth of the code.  Jumps
// propagate the depth at the jump site to their target label; code following
// an unconditional transfer resumes at the depth recorded for the next label.
func (c *Code) MaxStack() int {
	labelDepths := make(map[Label]int)
	depth, maxDepth := 0, 0

	for _, instr := range c.Instrs {
		if instr.Op == LABEL {
			if d, ok := labelDepths[instr.Label]; ok {
				depth = d
			}

			continue
		}

		pop, push := stackEffect(instr)
		depth -= pop
		if depth < 0 {
			depth = 0
		}

		depth += push
		if depth > maxDepth {
			maxDepth = depth
		}

		if instr.Op.IsJump() {
			if d, ok := labelDepths[instr.Label]; !ok || depth > d {
				labelDepths[instr.Label] = depth
			}
		}
	}

	return maxDepth
}
