package scope

import "impc/types"

// FrameKind is the kind of a storage frame.
type FrameKind int

// Enumeration of frame kinds.
const (
	// FrameUnit is the frame of the unit's static initializer.
	FrameUnit FrameKind = iota

	// FrameFunction is the frame of a function body.
	FrameFunction
)

// Frame is a storage frame: the set of local slots of a single method body.
// Nested blocks share their enclosing frame while function bodies open a new
// one.
type Frame struct {
	Kind FrameKind

	// The frame of the enclosing function or unit.
	Parent *Frame

	// The function whose body this frame belongs to.  This is nil for the
	// unit frame and filled in during resolution for function frames.
	Func *types.Function

	// The next free local slot.
	nextSlot int

	// The number of globals declared in the frame: unit frames only.
	globalCount int
}

// SlotCount returns the number of local slots used by the frame.
func (f *Frame) SlotCount() int {
	return f.nextSlot
}

// GlobalCount returns the number of globals declared in the frame.
func (f *Frame) GlobalCount() int {
	return f.globalCount
}

// Encloses returns whether f is other or an ancestor of other.
func (f *Frame) Encloses(other *Frame) bool {
	for fr := other; fr != nil; fr = fr.Parent {
		if fr == f {
			return true
		}
	}

	return false
}
