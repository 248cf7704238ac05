package scope

import "impc/types"

// LocalKind indicates where a local's value is stored.
type LocalKind int

// Enumeration of local kinds.
const (
	// LocalGlobal is a module-level variable stored in a static field of the
	// unit class.  Its slot is the field's ordinal.
	LocalGlobal LocalKind = iota

	// LocalParam is a function parameter.
	LocalParam

	// LocalVar is a variable declared inside a block.
	LocalVar

	// LocalHolder holds a closure object for the call sites of a scope.
	LocalHolder

	// LocalHidden is a compiler-introduced variable: eg. the upper bound of a
	// range loop.
	LocalHidden
)

// Local is a single named storage location: a variable, a parameter or a
// compiler-introduced slot.
type Local struct {
	// The local's name.
	Name string

	// The local's type.  This is nil until the local's declaration is
	// resolved: locals are declared during parsing.
	Type types.Type

	// The kind of local.
	Kind LocalKind

	// Whether the local can be assigned to.
	Mutable bool

	// The local's storage index: the local slot within its frame or, for
	// globals, the ordinal of its static field.
	Slot int

	// The frame the local is stored in.
	Frame *Frame

	// Whether the local's declaration has been resolved.  A local is only
	// visible to lookups once it is defined.
	Defined bool

	// The local with the same name that this local hides, if any.
	Shadowed *Local

	// The scope the local was declared in.
	owner *Scope
}

// IsGlobal returns whether the local is a module-level variable.
func (l *Local) IsGlobal() bool {
	return l.Kind == LocalGlobal
}
