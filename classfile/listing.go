package classfile

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteListing writes the class as a Jasmin-style assembly listing.
func (c *Class) WriteListing(w io.Writer) error {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, ".class %s%s\n", accessRepr(c.Access&^ACC_SUPER), c.Name)
	fmt.Fprintf(sb, ".super %s\n", c.Super)

	if len(c.Fields) > 0 {
		sb.WriteRune('\n')
	}

	for _, f := range c.Fields {
		fmt.Fprintf(sb, ".field %s%s %s\n", accessRepr(f.Access), f.Name, f.Desc)
	}

	for _, m := range c.Methods {
		sb.WriteRune('\n')
		m.writeListing(sb)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Listing returns the class's assembly listing as a string.
func (c *Class) Listing() string {
	sb := &strings.Builder{}
	c.WriteListing(sb)
	return sb.String()
}

func (m *Method) writeListing(sb *strings.Builder) {
	fmt.Fprintf(sb, ".method %s%s%s\n", accessRepr(m.Access), m.Name, m.Desc)

	if m.Code != nil {
		fmt.Fprintf(sb, "    .limit stack %d\n", m.Code.MaxStack())
		fmt.Fprintf(sb, "    .limit locals %d\n", m.Code.MaxLocals)

		for _, instr := range m.Code.Instrs {
			if instr.Op == LABEL {
				fmt.Fprintf(sb, "L%d:\n", instr.Label)
			} else {
				sb.WriteString("    ")
				sb.WriteString(instr.Repr())
				sb.WriteRune('\n')
			}
		}
	}

	sb.WriteString(".end method\n")
}

// Repr returns the assembly form of the instruction.
func (instr *Instr) Repr() string {
	name := instr.Op.String()

	switch instr.Op {
	case ILOAD, FLOAD, ALOAD, ISTORE, FSTORE, ASTORE, BIPUSH, SIPUSH:
		return fmt.Sprintf("%s %d", name, instr.Int)
	case IINC:
		return fmt.Sprintf("%s %d %d", name, instr.Int, instr.Inc)
	case LDC:
		return name + " " + constRepr(instr.Const)
	case GETSTATIC, PUTSTATIC, GETFIELD, PUTFIELD:
		return fmt.Sprintf("%s %s/%s %s", name, instr.Ref.Owner, instr.Ref.Name, instr.Ref.Desc)
	case INVOKEVIRTUAL, INVOKESPECIAL, INVOKESTATIC:
		return fmt.Sprintf("%s %s/%s%s", name, instr.Ref.Owner, instr.Ref.Name, instr.Ref.Desc)
	case INVOKEDYNAMIC:
		args := make([]string, len(instr.Dyn.Args))
		for i, arg := range instr.Dyn.Args {
			args[i] = quote(arg)
		}

		return fmt.Sprintf(
			"%s %s%s %s/%s %s",
			name,
			instr.Dyn.Name,
			instr.Dyn.Desc,
			instr.Dyn.Bootstrap.Owner,
			instr.Dyn.Bootstrap.Name,
			strings.Join(args, " "),
		)
	case NEW, CHECKCAST, INSTANCEOF:
		return name + " " + instr.Class
	}

	if instr.Op.IsJump() {
		return fmt.Sprintf("%s L%d", name, instr.Label)
	}

	return name
}

// -----------------------------------------------------------------------------

func accessRepr(access int) string {
	sb := strings.Builder{}

	if access&ACC_PUBLIC != 0 {
		sb.WriteString("public ")
	}

	if access&ACC_PRIVATE != 0 {
		sb.WriteString("private ")
	}

	if access&ACC_STATIC != 0 {
		sb.WriteString("static ")
	}

	if access&ACC_FINAL != 0 {
		sb.WriteString("final ")
	}

	return sb.String()
}

func constRepr(v interface{}) string {
	switch cv := v.(type) {
	case string:
		return quote(cv)
	case int32:
		return strconv.Itoa(int(cv))
	case float32:
		s := strconv.FormatFloat(float64(cv), 'g', -1, 32)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}

		return s
	}

	return fmt.Sprint(v)
}

// quote quotes a string constant using Java escape sequences.
func quote(s string) string {
	sb := strings.Builder{}
	sb.WriteRune('"')

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}

	sb.WriteRune('"')
	return sb.String()
}
