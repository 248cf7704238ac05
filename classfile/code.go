package classfile

// Code is the body of a method: a linear sequence of instructions plus the
// number of local slots it uses.
type Code struct {
	Instrs []*Instr

	// The number of local variable slots used by the method, including `this`
	// and parameters.
	MaxLocals int

	nextLabel Label
}

// Emit appends an operand-less instruction.
func (c *Code) Emit(op Opcode) {
	c.Instrs = append(c.Instrs, &Instr{Op: op})
}

// EmitVar appends a load or store of a local slot.
func (c *Code) EmitVar(op Opcode, slot int) {
	c.Instrs = append(c.Instrs, &Instr{Op: op, Int: slot})
	c.Reserve(slot + 1)
}

// EmitIInc appends an `iinc` instruction.
func (c *Code) EmitIInc(slot, inc int) {
	c.Instrs = append(c.Instrs, &Instr{Op: IINC, Int: slot, Inc: inc})
	c.Reserve(slot + 1)
}

// EmitInt pushes an integer constant using the shortest suitable
// instruction.
func (c *Code) EmitInt(n int32) {
	switch {
	case -1 <= n && n <= 5:
		c.Emit(ICONST_0 + Opcode(n))
	case -128 <= n && n <= 127:
		c.Instrs = append(c.Instrs, &Instr{Op: BIPUSH, Int: int(n)})
	case -32768 <= n && n <= 32767:
		c.Instrs = append(c.Instrs, &Instr{Op: SIPUSH, Int: int(n)})
	default:
		c.EmitLDC(n)
	}
}

// EmitLDC pushes a constant from the constant pool: v must be a string, int32
// or float32.
func (c *Code) EmitLDC(v interface{}) {
	c.Instrs = append(c.Instrs, &Instr{Op: LDC, Const: v})
}

// EmitField appends a field access instruction.
func (c *Code) EmitField(op Opcode, owner, name, desc string) {
	c.Instrs = append(c.Instrs, &Instr{Op: op, Ref: &MemberRef{Owner: owner, Name: name, Desc: desc}})
}

// EmitInvoke appends a method invocation instruction.
func (c *Code) EmitInvoke(op Opcode, owner, name, desc string) {
	c.Instrs = append(c.Instrs, &Instr{Op: op, Ref: &MemberRef{Owner: owner, Name: name, Desc: desc}})
}

// EmitDynamic appends an `invokedynamic` instruction.
func (c *Code) EmitDynamic(site *DynamicSite) {
	c.Instrs = append(c.Instrs, &Instr{Op: INVOKEDYNAMIC, Dyn: site})
}

// EmitType appends an instruction taking a class operand.
func (c *Code) EmitType(op Opcode, class string) {
	c.Instrs = append(c.Instrs, &Instr{Op: op, Class: class})
}

// EmitNew appends the `new`, `dup`, `invokespecial <init>` sequence for a
// class whose constructor takes the arguments described by argsDesc.  The
// arguments must be pushed by pushArgs.
func (c *Code) EmitNew(class, argsDesc string, pushArgs func()) {
	c.EmitType(NEW, class)
	c.Emit(DUP)

	if pushArgs != nil {
		pushArgs()
	}

	c.EmitInvoke(INVOKESPECIAL, class, "<init>", "("+argsDesc+")V")
}

// -----------------------------------------------------------------------------

// NewLabel creates a new, unplaced label.
func (c *Code) NewLabel() Label {
	c.nextLabel++
	return c.nextLabel
}

// Mark places the label at the current position.
func (c *Code) Mark(l Label) {
	c.Instrs = append(c.Instrs, &Instr{Op: LABEL, Label: l})
}

// EmitJump appends a jump to the label.
func (c *Code) EmitJump(op Opcode, l Label) {
	c.Instrs = append(c.Instrs, &Instr{Op: op, Label: l})
}

// Reserve ensures the method has at least n local slots.
func (c *Code) Reserve(n int) {
	if n > c.MaxLocals {
		c.MaxLocals = n
	}
}

// Ops returns the opcodes of the code excluding labels.
func (c *Code) Ops() []Opcode {
	var ops []Opcode
	for _, instr := range c.Instrs {
		if instr.Op != LABEL {
			ops = append(ops, instr.Op)
		}
	}

	return ops
}

// EndsWithReturn returns whether control cannot fall off the end of the code:
// the last instruction is a return or an unconditional jump.
func (c *Code) EndsWithReturn() bool {
	if len(c.Instrs) == 0 {
		return false
	}

	switch c.Instrs[len(c.Instrs)-1].Op {
	case RETURN, IRETURN, FRETURN, ARETURN, GOTO:
		return true
	}

	return false
}
