package scope

import (
	"fmt"

	"impc/types"
)

// Registry holds the function signatures and named types of a unit.  A single
// registry is shared by reference by every scope of the unit so that functions
// and types are visible throughout the unit regardless of where they are
// declared.
type Registry struct {
	// The overload sets of the unit by name.
	sets map[string]*types.OverloadSet

	// Every registered function in registration order.
	funcs []*types.Function

	// The named types of the unit: structs, enums and aliases.
	named map[string]types.Type

	// Every registered struct in registration order.
	structs []*types.Struct
}

// NewRegistry creates a new, empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sets:  make(map[string]*types.OverloadSet),
		named: make(map[string]types.Type),
	}
}

// AddFunction registers a function signature.  It fails if a function with
// identical parameter types is already registered under the same name.
func (r *Registry) AddFunction(fn *types.Function) error {
	set, ok := r.sets[fn.Name]
	if !ok {
		set = &types.OverloadSet{Name: fn.Name}
	}

	if err := set.Add(fn); err != nil {
		return err
	}

	r.sets[fn.Name] = set
	r.funcs = append(r.funcs, fn)
	return nil
}

// Overloads returns the overload set registered under the given name.
func (r *Registry) Overloads(name string) (*types.OverloadSet, bool) {
	set, ok := r.sets[name]
	return set, ok
}

// Functions returns every registered function in registration order.
func (r *Registry) Functions() []*types.Function {
	return r.funcs
}

// AddType registers a named type.  It fails if the name is already taken by a
// built-in or a previously registered type.
func (r *Registry) AddType(name string, typ types.Type) error {
	if _, ok := types.Builtins[name]; ok {
		return fmt.Errorf("cannot redefine built-in type `%s`", name)
	}

	if _, ok := r.named[name]; ok {
		return fmt.Errorf("type named `%s` is already declared", name)
	}

	r.named[name] = typ

	if st, ok := typ.(*types.Struct); ok {
		r.structs = append(r.structs, st)
	}

	return nil
}

// SetType replaces the type registered under an existing name.  It is used to
// resolve aliases once their targets are known.
func (r *Registry) SetType(name string, typ types.Type) {
	r.named[name] = typ
}

// LookupType looks up a built-in or registered type by name.
func (r *Registry) LookupType(name string) (types.Type, bool) {
	if typ, ok := types.Builtins[name]; ok {
		return typ, true
	}

	typ, ok := r.named[name]
	return typ, ok && typ != nil
}

// Struct returns the struct registered under the given name.
func (r *Registry) Struct(name string) (*types.Struct, bool) {
	st, ok := r.named[name].(*types.Struct)
	return st, ok
}

// Structs returns every registered struct in registration order.
func (r *Registry) Structs() []*types.Struct {
	return r.structs
}
