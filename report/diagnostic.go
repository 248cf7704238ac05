package report

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Kind identifies the category of a diagnostic.
type Kind int

// Enumeration of diagnostic kinds.
const (
	SyntaxError Kind = iota
	NameNotFound
	FunctionNotFound
	FunctionSignatureMismatch
	UnsupportedOperation
	TypeNotFound
	TypeMismatch
	Redeclaration
	ImmutableAssignment
	InvalidAssignment
	InvalidStatement
	MissingReturn
)

var kindNames = [...]string{
	SyntaxError:               "SyntaxError",
	NameNotFound:              "NameNotFound",
	FunctionNotFound:          "FunctionNotFound",
	FunctionSignatureMismatch: "FunctionSignatureMismatch",
	UnsupportedOperation:      "UnsupportedOperation",
	TypeNotFound:              "TypeNotFound",
	TypeMismatch:              "TypeMismatch",
	Redeclaration:             "Redeclaration",
	ImmutableAssignment:       "ImmutableAssignment",
	InvalidAssignment:         "InvalidAssignment",
	InvalidStatement:          "InvalidStatement",
	MissingReturn:             "MissingReturn",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// -----------------------------------------------------------------------------

// Diagnostic is a single user-facing compilation error.  Diagnostics are plain
// data: the core compiler never displays them itself.
type Diagnostic struct {
	// The category of the diagnostic.
	Kind Kind

	// The error message.
	Message string

	// The span over which the error occurs.  This may be nil if no position
	// information is available.
	Span *TextSpan
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Kind, d.Message)
}

// Line returns the one-indexed line of the diagnostic or 0 if it has no span.
func (d *Diagnostic) Line() int {
	if d.Span == nil {
		return 0
	}

	return d.Span.StartLine + 1
}

// Column returns the one-indexed column of the diagnostic or 0 if it has no
// span.
func (d *Diagnostic) Column() int {
	if d.Span == nil {
		return 0
	}

	return d.Span.StartCol + 1
}

// Raise creates a new diagnostic.  It is typically passed to `panic` to abort
// the construct currently being processed: see Catch.
func Raise(kind Kind, span *TextSpan, msg string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: fmt.Sprintf(msg, args...), Span: span}
}

// -----------------------------------------------------------------------------

// Log accumulates the diagnostics produced while compiling a single unit.  The
// zero value is ready to use.
type Log struct {
	errs *multierror.Error
}

// Add appends a diagnostic to the log.
func (l *Log) Add(d *Diagnostic) {
	l.errs = multierror.Append(l.errs, d)
}

// Addf builds and appends a diagnostic to the log.
func (l *Log) Addf(kind Kind, span *TextSpan, msg string, args ...interface{}) {
	l.Add(Raise(kind, span, msg, args...))
}

// AnyErrors returns whether any diagnostics have been logged.
func (l *Log) AnyErrors() bool {
	return l.errs != nil && len(l.errs.Errors) > 0
}

// Diagnostics returns the logged diagnostics in the order they were produced.
func (l *Log) Diagnostics() []*Diagnostic {
	if l.errs == nil {
		return nil
	}

	diags := make([]*Diagnostic, len(l.errs.Errors))
	for i, err := range l.errs.Errors {
		diags[i] = err.(*Diagnostic)
	}

	return diags
}

// Err returns the combined error of all logged diagnostics or nil.
func (l *Log) Err() error {
	return l.errs.ErrorOrNil()
}
