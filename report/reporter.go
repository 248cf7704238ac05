package report

import (
	"fmt"
	"os"
	"sync"
)

// Reporter is responsible for displaying errors and other kinds of messages to
// the user during program execution.  The reporter respects the set log level
// and is synchronized: its methods can be safely called from multiple
// goroutines.  Only the driver displays anything: the compiler proper records
// diagnostics in a Log.
type Reporter struct {
	// The mutex used to synchonize different display calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The number of errors displayed so far.
	errorCount int
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user (default).
)

// LogLevels maps log level names to their values.
var LogLevels = map[string]int{
	"silent":  LogLevelSilent,
	"error":   LogLevelError,
	"warn":    LogLevelWarn,
	"verbose": LogLevelVerbose,
}

// rep is the global reporter instance.
var rep = &Reporter{m: &sync.Mutex{}, logLevel: LogLevelVerbose}

// InitReporter sets the global reporter's log level and clears its error count.
func InitReporter(logLevel int) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.logLevel = logLevel
	rep.errorCount = 0
}

// LogLevel returns the global reporter's log level.
func LogLevel() int {
	return rep.logLevel
}

// AnyErrors returns whether or not any errors have been reported.
func AnyErrors() bool {
	return rep.errorCount > 0
}

// -----------------------------------------------------------------------------

// ReportDiagnostics displays all the diagnostics for the source file at
// absPath.  The reprPath is the path displayed to the user.
func ReportDiagnostics(absPath, reprPath string, diags []*Diagnostic) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount += len(diags)

	if rep.logLevel > LogLevelSilent {
		endPhase(false)

		for _, d := range diags {
			displayDiagnostic(absPath, reprPath, d)
		}
	}
}

// ReportICE reports an internal compiler error.  These are errors that
// specifically result for a bug or unexpected condition occurring with the
// compiler: they are not intended to ever happen.  These errors are always
// displayed regardless of log level.
func ReportICE(message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	endPhase(false)
	displayICE(fmt.Sprintf(message, args...))

	os.Exit(-1)
}

// ReportFatal reports a fatal error.  These are errors that should cause all
// compilation to stop immediately.  However, they are expected errors that
// generally result from invalid configuration of some form: a missing entry
// file, an unreadable profile, etc.
func ReportFatal(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		endPhase(false)
		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// -----------------------------------------------------------------------------
// Below are all the "aesthetic" reporting functions that will only run if the
// log level is to verbose.

// ReportCompileHeader reports the pre-compilation header.
func ReportCompileHeader(unitName, outputPath string) {
	if rep.logLevel == LogLevelVerbose {
		displayCompileHeader(unitName, outputPath)
	}
}

// ReportBeginPhase reports the beginning of a compilation phase.
func ReportBeginPhase(phase string) {
	if rep.logLevel == LogLevelVerbose {
		rep.m.Lock()
		defer rep.m.Unlock()

		beginPhase(phase)
	}
}

// ReportEndPhase reports the end of the current compilation phase.
func ReportEndPhase(success bool) {
	if rep.logLevel == LogLevelVerbose {
		rep.m.Lock()
		defer rep.m.Unlock()

		endPhase(success)
	}
}

// ReportCompilationFinished reports the concluding message for compilation.
func ReportCompilationFinished(outputPath string, classCount int) {
	if rep.logLevel > LogLevelSilent {
		displayCompilationFinished(!AnyErrors(), rep.errorCount, outputPath, classCount)
	}
}
