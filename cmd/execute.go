// Package cmd is the top-level driver of impc: it parses the command line,
// loads the build profile and runs the phases of the compiler.
package cmd

import (
	"os"

	"github.com/ComedicChimera/olive"
	"github.com/sirupsen/logrus"

	"impc/common"
	"impc/report"
)

// Execute is the main entry point for the `impc` CLI utility.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("impc", "impc compiles Imp units into classes for a stack machine", true)
	cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})

	buildCmd := cli.AddSubcommand("build", "compile an Imp unit", true)
	buildCmd.AddPrimaryArg("build-path", "the path to the source file or project directory to build", true)
	buildCmd.AddStringArg("outpath", "o", "the output directory", false)
	buildCmd.AddStringArg("emit", "e", "the output to emit: listing, ast or none", false)
	buildCmd.AddFlag("debug", "d", "trace the compiler's phases and dump the generated classes")

	cli.AddSubcommand("version", "print the impc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.PrintErrorMessage("CLI Usage Error", err)
		os.Exit(1)
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		execBuildCommand(subResult, stringArg(result, "loglevel"))
	case "version":
		report.PrintInfoMessage("impc Version", common.ImpVersion)
	}
}

// execBuildCommand executes the build subcommand and handles all errors.
func execBuildCommand(result *olive.ArgParseResult, loglevel string) {
	buildPath, _ := result.PrimaryArg()

	profile, err := LoadProfile(buildPath)
	if err != nil {
		report.PrintErrorMessage("Profile Error", err)
		os.Exit(1)
	}

	if err := profile.Override(stringArg(result, "outpath"), stringArg(result, "emit")); err != nil {
		report.PrintErrorMessage("Argument Error", err)
		os.Exit(1)
	}

	report.InitReporter(report.LogLevels[selectLogLevel(loglevel, profile)])
	initTracing(result.HasFlag("debug"))

	report.ReportCompileHeader(profile.UnitName, profile.OutputPath)

	c := NewCompiler(profile)
	if c.Analyze() {
		c.Generate()
	}

	report.ReportCompilationFinished(profile.OutputPath, len(c.ClassNames()))

	if report.AnyErrors() {
		os.Exit(1)
	}
}

// stringArg returns the value of an optional string argument or the empty
// string if it was not given.
func stringArg(result *olive.ArgParseResult, name string) string {
	if value, ok := result.Arguments[name]; ok {
		return value.(string)
	}

	return ""
}

// selectLogLevel returns the log level of a build: the command line level if
// one was given, then the profile's and finally `verbose`.
func selectLogLevel(cliLevel string, profile *BuildProfile) string {
	if cliLevel != "" {
		return cliLevel
	}

	if profile.LogLevel != "" {
		return profile.LogLevel
	}

	return "verbose"
}

// initTracing configures the debug tracing of the compiler's phases.
func initTracing(debug bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}
