package cmd

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"

	"impc/ast"
	"impc/classfile"
	"impc/common"
	"impc/generate"
	"impc/report"
	"impc/syntax"
	"impc/walk"
)

// Compiler represents the state of a single compilation.
type Compiler struct {
	// The build profile of the compilation.
	profile *BuildProfile

	// The diagnostics of the unit being compiled.
	log *report.Log

	// The parsed unit.
	unit *ast.Unit

	// The resolved program.
	prog *walk.Program

	// The generated classes.
	classes []*classfile.Class
}

// NewCompiler creates a new compiler for the given build profile.
func NewCompiler(profile *BuildProfile) *Compiler {
	return &Compiler{
		profile: profile,
		log:     &report.Log{},
	}
}

// Analyze runs the analysis phases of the compiler: parsing and resolution.
// It returns whether analysis succeeded.
func (c *Compiler) Analyze() bool {
	report.ReportBeginPhase("Parsing")

	f, err := os.Open(c.profile.EntryPath)
	if err != nil {
		report.ReportFatal("unable to open entry file: %s", err)
		return false
	}
	defer f.Close()

	toks, err := syntax.Lex(f)
	if err != nil {
		if d, ok := err.(*report.Diagnostic); ok {
			c.log.Add(d)
			return c.reportDiagnostics()
		}

		report.ReportFatal("error reading entry file: %s", err)
		return false
	}

	logrus.Debugf("lexed %d tokens from %s", len(toks), c.profile.EntryPath)

	c.unit = syntax.Parse(c.log, c.profile.UnitName, toks)
	c.unit.FilePath = c.profile.EntryPath
	if !c.reportDiagnostics() {
		return false
	}

	report.ReportEndPhase(true)
	report.ReportBeginPhase("Checking")

	c.prog = walk.Resolve(c.log, c.unit)
	if !c.reportDiagnostics() {
		return false
	}

	logrus.Debugf(
		"resolved %d functions, %d structs and %d closures",
		len(c.prog.Funcs),
		len(c.prog.Structs),
		len(c.prog.Closures),
	)

	report.ReportEndPhase(true)
	return true
}

// Generate runs the generation phase of the compiler and writes the selected
// output.  The analysis phases must be run before this.
func (c *Compiler) Generate() {
	report.ReportBeginPhase("Generating")

	classes, err := generate.Generate(c.prog)
	if err != nil {
		report.ReportICE("%s", err)
		return
	}

	c.classes = classes

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		for _, class := range classes {
			logrus.Debugln(class.Listing())
		}
	}

	report.ReportEndPhase(true)

	if c.profile.Emit == EmitNone {
		return
	}

	report.ReportBeginPhase("Emitting")

	if err := os.MkdirAll(c.profile.OutputPath, os.ModePerm); err != nil {
		report.ReportFatal("unable to create output directory: %s", err)
		return
	}

	if c.profile.Emit == EmitAST {
		err = c.emitAST()
	} else {
		err = c.emitListings()
	}

	if err != nil {
		report.ReportFatal("error writing output: %s", err)
		return
	}

	report.ReportEndPhase(true)
}

// ClassNames returns the names of the generated classes.
func (c *Compiler) ClassNames() []string {
	names := make([]string, len(c.classes))
	for i, class := range c.classes {
		names[i] = class.Name
	}

	return names
}

// reportDiagnostics displays any diagnostics recorded so far.  It returns
// whether compilation can proceed.
func (c *Compiler) reportDiagnostics() bool {
	if !c.log.AnyErrors() {
		return true
	}

	reprPath, err := filepath.Rel(filepath.Dir(c.profile.EntryPath), c.profile.EntryPath)
	if err != nil {
		reprPath = c.profile.EntryPath
	}

	report.ReportDiagnostics(c.profile.EntryPath, reprPath, c.log.Diagnostics())
	return false
}

// -----------------------------------------------------------------------------

// emitListings writes the listing of every generated class to its own file in
// the output directory.
func (c *Compiler) emitListings() error {
	for _, class := range c.classes {
		path := filepath.Join(c.profile.OutputPath, class.Name+common.ListingFileExt)
		logrus.Debugf("writing %s", path)

		if err := writeListing(path, class); err != nil {
			return err
		}
	}

	return nil
}

// writeListing writes a single class listing to a file.
func writeListing(path string, class *classfile.Class) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return class.WriteListing(f)
}

// astDumpExclusions are the fields left out of AST dumps: the scope graph
// links every node to the whole unit.
var astDumpExclusions = regexp.MustCompile(`^(Scope|Frame|Shadowed|Set|Callee|Holder)$`)

// emitAST writes a dump of the resolved AST to the output directory.
func (c *Compiler) emitAST() error {
	dump := litter.Options{
		HidePrivateFields: true,
		FieldExclusions:   astDumpExclusions,
	}.Sdump(c.unit)

	path := filepath.Join(c.profile.OutputPath, c.profile.UnitName+".ast")
	logrus.Debugf("writing %s", path)

	return os.WriteFile(path, []byte(dump), 0o644)
}
