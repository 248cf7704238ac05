package scope

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"impc/types"
)

// Scope is a single lexical scope.  Each scope owns an ordered, name-unique
// table of locals.  Creating a child scope snapshots the parent's table by
// value: locals declared afterwards in either scope are not visible in the
// other.  The table entries are pointers so information filled into a local
// after the snapshot (eg. its resolved type) is visible everywhere.
type Scope struct {
	// The enclosing scope.  This is nil for the unit scope.
	Parent *Scope

	// The locals visible in this scope by name.
	locals map[string]*Local

	// The visible locals in the order they became visible.
	order []*Local

	// The storage frame of the scope.
	frame *Frame

	// The registry shared by every scope of the unit.
	registry *Registry
}

// ErrRedeclared is returned when a name is declared twice in the same scope.
var ErrRedeclared = errors.New("redeclared")

// NewUnitScope creates the root scope of a unit.
func NewUnitScope() *Scope {
	return &Scope{
		locals:   make(map[string]*Local),
		frame:    &Frame{Kind: FrameUnit},
		registry: NewRegistry(),
	}
}

// NewChild creates a new block scope nested in s sharing its frame.
func (s *Scope) NewChild() *Scope {
	return s.newChild(s.frame)
}

// NewFunctionScope creates the body scope of a function nested in s.  The new
// scope opens a new frame whose slot 0 holds the receiver.
func (s *Scope) NewFunctionScope() *Scope {
	return s.newChild(&Frame{Kind: FrameFunction, Parent: s.frame, nextSlot: 1})
}

func (s *Scope) newChild(frame *Frame) *Scope {
	child := &Scope{
		Parent:   s,
		locals:   make(map[string]*Local, len(s.locals)),
		order:    make([]*Local, len(s.order)),
		frame:    frame,
		registry: s.registry,
	}

	for name, local := range s.locals {
		child.locals[name] = local
	}

	copy(child.order, s.order)
	return child
}

// -----------------------------------------------------------------------------

// Declare declares a new local in the scope.  The local's slot is the next
// free storage index of the scope's frame.  Locals declared directly in the
// unit scope are globals.  Declaring a name already declared in this same scope
// fails; declaring a name inherited from an enclosing scope shadows it.
func (s *Scope) Declare(name string, typ types.Type, kind LocalKind, mutable bool) (*Local, error) {
	prev, exists := s.locals[name]
	if exists && prev.owner == s {
		return nil, fmt.Errorf("%w: `%s` is already declared in this scope", ErrRedeclared, name)
	}

	local := &Local{
		Name:     name,
		Type:     typ,
		Kind:     kind,
		Mutable:  mutable,
		Frame:    s.frame,
		Shadowed: prev,
		owner:    s,
	}

	if s.Parent == nil && kind == LocalVar {
		local.Kind = LocalGlobal
		local.Slot = s.frame.globalCount
		s.frame.globalCount++
	} else {
		local.Slot = s.frame.nextSlot
		s.frame.nextSlot++
	}

	if exists {
		ndx := slices.Index(s.order, prev)
		s.order = slices.Delete(s.order, ndx, ndx+1)
	}

	s.locals[name] = local
	s.order = append(s.order, local)
	return local, nil
}

// Lookup looks up a defined local by name.  If the nearest local with the name
// has not been defined yet, the local it shadows is tried instead.
func (s *Scope) Lookup(name string) (*Local, bool) {
	local := s.locals[name]
	for local != nil && !local.Defined {
		local = local.Shadowed
	}

	return local, local != nil
}

// LookupDeclared looks up a local by name regardless of whether it has been
// defined yet.
func (s *Scope) LookupDeclared(name string) (*Local, bool) {
	local, ok := s.locals[name]
	return local, ok
}

// LookupOwn looks up a local declared in this scope itself.
func (s *Scope) LookupOwn(name string) (*Local, bool) {
	local, ok := s.locals[name]
	if ok && local.owner == s {
		return local, true
	}

	return nil, false
}

// Locals returns the locals visible in the scope in the order they became
// visible.
func (s *Scope) Locals() []*Local {
	return s.order
}

// OwnLocals returns the locals declared in this scope in declaration order.
func (s *Scope) OwnLocals() []*Local {
	var own []*Local
	for _, local := range s.order {
		if local.owner == s {
			own = append(own, local)
		}
	}

	return own
}

// IndexOf returns the position of the named local in the scope's table or -1
// if no such local is visible.
func (s *Scope) IndexOf(name string) int {
	for i, local := range s.order {
		if local.Name == name {
			return i
		}
	}

	return -1
}

// -----------------------------------------------------------------------------

// Frame returns the scope's storage frame.
func (s *Scope) Frame() *Frame {
	return s.frame
}

// Registry returns the registry shared by the unit.
func (s *Scope) Registry() *Registry {
	return s.registry
}

// IsUnit returns whether the scope is the unit scope.
func (s *Scope) IsUnit() bool {
	return s.Parent == nil
}

// LookupType looks up a type by name: built-in types first, then the types
// registered in the unit.
func (s *Scope) LookupType(name string) (types.Type, bool) {
	return s.registry.LookupType(name)
}

// LookupFunction finds the first declared function named name whose
// parameters exactly match argTypes.
func (s *Scope) LookupFunction(name string, argTypes []types.Type) (*types.Function, bool) {
	set, ok := s.registry.Overloads(name)
	if !ok {
		return nil, false
	}

	return set.Match(argTypes)
}
