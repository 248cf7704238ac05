package report

import "fmt"

// InternalError is an internal compiler error: an inconsistency in the
// compiler's own state that no input program should be able to provoke.
type InternalError struct {
	Message string
}

func (ie *InternalError) Error() string {
	return "internal compiler error: " + ie.Message
}

// ICE raises an internal compiler error.  It never returns.  Internal errors
// are only recovered by the driver: see CatchICE.
func ICE(message string, args ...interface{}) {
	panic(&InternalError{Message: fmt.Sprintf(message, args...)})
}

// -----------------------------------------------------------------------------

// Catch catches any diagnostic thrown by a `panic` during a section of
// compilation and records it in the log.  In effect, this handler determines
// where errors "unrecoverable" within a given construct stop bubbling.  Any
// other panic is propagated.
// NB: This function must ALWAYS be deferred.
func Catch(log *Log) {
	if x := recover(); x != nil {
		if d, ok := x.(*Diagnostic); ok {
			log.Add(d)
		} else {
			panic(x)
		}
	}
}

// CatchICE converts an internal compiler error thrown by a `panic` into an
// error stored in `err`.  Any other panic is propagated.
// NB: This function must ALWAYS be deferred.
func CatchICE(err *error) {
	if x := recover(); x != nil {
		if ie, ok := x.(*InternalError); ok {
			*err = ie
		} else {
			panic(x)
		}
	}
}
