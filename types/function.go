package types

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"impc/classfile"
)

// Param is a function parameter.
type Param struct {
	Name string
	Type Type
}

// Capture is a variable of an enclosing function read by a nested function.
type Capture struct {
	Name string
	Type Type
}

// Function represents a single declared function: one overload of its name.
// It is also the type of the function when it is used as a value.
type Function struct {
	refType

	// The name of the function.
	Name string

	// The function's parameters.
	Params []Param

	// The function's return type.
	Return Type

	// The overload set the function belongs to.
	Set *OverloadSet

	// The position of the function within its overload set.
	Index int

	// The name of the unit class that owns the function.
	Owner string

	// The enclosing-scope variables read by the function in order of first
	// use.  This is the function's closure set.
	Captures []Capture

	// Whether the function is used as a first-class value.
	FirstClass bool

	// Whether the function is exported.
	Exported bool
}

func (ft *Function) Repr() string {
	sb := strings.Builder{}
	sb.WriteString("func ")
	sb.WriteString(ft.Name)
	sb.WriteRune('(')

	for i, param := range ft.Params {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(param.Name)
		sb.WriteRune(' ')
		sb.WriteString(param.Type.Repr())
	}

	sb.WriteRune(')')

	if ft.Return != Void {
		sb.WriteRune(' ')
		sb.WriteString(ft.Return.Repr())
	}

	return sb.String()
}

func (ft *Function) Kind() Kind {
	return KindFunction
}

func (ft *Function) Descriptor() string {
	return "L" + ft.ClassName() + ";"
}

func (ft *Function) Opcode(ArithOp) (classfile.Opcode, error) {
	return classfile.NOP, unsupported(ft)
}

// -----------------------------------------------------------------------------

// ParamTypes returns the types of the function's parameters in order.
func (ft *Function) ParamTypes() []Type {
	paramTypes := make([]Type, len(ft.Params))
	for i, param := range ft.Params {
		paramTypes[i] = param.Type
	}

	return paramTypes
}

// MethodDescriptor returns the descriptor of the method implementing the
// function's body.
func (ft *Function) MethodDescriptor() string {
	return MethodDescriptor(ft.ParamTypes(), ft.Return)
}

// ClassName returns the name of the class the function is converted into
// when it is a closure: `Unit$name`, suffixed with the overload index for
// every overload but the first.
func (ft *Function) ClassName() string {
	if ft.Index > 0 {
		return fmt.Sprintf("%s$%s$%d", ft.Owner, ft.Name, ft.Index)
	}

	return ft.Owner + "$" + ft.Name
}

// CaptureTypes returns the types of the function's captures in order.
func (ft *Function) CaptureTypes() []Type {
	captureTypes := make([]Type, len(ft.Captures))
	for i, capture := range ft.Captures {
		captureTypes[i] = capture.Type
	}

	return captureTypes
}

// ClosureDescriptor returns the descriptor of the `closure` method which binds
// the captured values.
func (ft *Function) ClosureDescriptor() string {
	return MethodDescriptor(ft.CaptureTypes(), Void)
}

// AddCapture adds a variable to the function's closure set if it is not
// already a member.  It returns whether the capture was added.
func (ft *Function) AddCapture(name string, typ Type) bool {
	if slices.IndexFunc(ft.Captures, func(c Capture) bool { return c.Name == name }) >= 0 {
		return false
	}

	ft.Captures = append(ft.Captures, Capture{Name: name, Type: typ})
	return true
}

// IsClosure returns whether the function is converted into a closure object:
// it either captures variables or is used as a value.
func (ft *Function) IsClosure() bool {
	return len(ft.Captures) > 0 || ft.FirstClass
}

// Accepts returns whether the function's parameters exactly match the given
// argument types.
func (ft *Function) Accepts(argTypes []Type) bool {
	return slices.EqualFunc(ft.ParamTypes(), argTypes, Equals)
}

// -----------------------------------------------------------------------------

// OverloadSet is the set of functions declared with the same name.
type OverloadSet struct {
	Name      string
	Overloads []*Function
}

// ErrDuplicateSignature is returned when an overload with identical parameter
// types is added to an overload set.
var ErrDuplicateSignature = errors.New("duplicate signature")

// Add adds a function to the overload set.  The function's index and set are
// updated accordingly.
func (set *OverloadSet) Add(fn *Function) error {
	for _, overload := range set.Overloads {
		if slices.Equal(overload.ParamTypes(), fn.ParamTypes()) {
			return fmt.Errorf("%w: `%s` is already declared", ErrDuplicateSignature, overload.Repr())
		}
	}

	fn.Set = set
	fn.Index = len(set.Overloads)
	set.Overloads = append(set.Overloads, fn)
	return nil
}

// Match returns the first declared overload whose parameters exactly match the
// given argument types.  There is no ranking: declaration order decides.
func (set *OverloadSet) Match(argTypes []Type) (*Function, bool) {
	for _, overload := range set.Overloads {
		if overload.Accepts(argTypes) {
			return overload, true
		}
	}

	return nil, false
}

// Signatures returns the representations of every overload in the set.
func (set *OverloadSet) Signatures() string {
	sigs := make([]string, len(set.Overloads))
	for i, overload := range set.Overloads {
		sigs[i] = overload.Repr()
	}

	return strings.Join(sigs, ", ")
}
