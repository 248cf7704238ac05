package cmd

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"golang.org/x/exp/slices"

	"impc/common"
	"impc/report"
)

// tomlProfile represents an Imp project profile as it is encoded in TOML.
type tomlProfile struct {
	Name     string `toml:"name"`
	Entry    string `toml:"entry"`
	Output   string `toml:"output"`
	LogLevel string `toml:"loglevel"`
	Emit     string `toml:"emit"`
}

// BuildProfile is the fully resolved configuration of a single build.
type BuildProfile struct {
	// The name of the unit being compiled: the name of its unit class.
	UnitName string

	// The absolute path to the unit's source file.
	EntryPath string

	// The absolute path to the output directory.
	OutputPath string

	// The name of the selected log level.  This is empty if the log level was
	// not configured.
	LogLevel string

	// The selected output emitted to the output directory.
	Emit string
}

// Enumeration of emit modes.
const (
	EmitListing = "listing"
	EmitAST     = "ast"
	EmitNone    = "none"
)

// emitModes lists the valid emit modes.
var emitModes = []string{EmitListing, EmitAST, EmitNone}

// LoadProfile loads the build profile for the given build path.  A directory
// is a project and must contain an `imp.toml` profile.  A single source file
// is compiled with the default profile: its unit is named after the file.
func LoadProfile(buildPath string) (*BuildProfile, error) {
	absPath, err := filepath.Abs(buildPath)
	if err != nil {
		return nil, err
	}

	finfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}

	if !finfo.IsDir() {
		if filepath.Ext(absPath) != common.ImpFileExt {
			return nil, fmt.Errorf("source file `%s` must have the extension `%s`", buildPath, common.ImpFileExt)
		}

		return &BuildProfile{
			UnitName:   unitNameOf(absPath),
			EntryPath:  absPath,
			OutputPath: filepath.Join(filepath.Dir(absPath), common.DefaultOutputDir),
			Emit:       EmitListing,
		}, nil
	}

	f, err := os.Open(filepath.Join(absPath, common.ImpProfileFileName))
	if err != nil {
		return nil, fmt.Errorf("unable to open project profile: %w", err)
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("error reading project profile: %w", err)
	}

	return decodeProfile(absPath, buff)
}

// decodeProfile decodes and validates the TOML profile of the project rooted
// at projectPath.
func decodeProfile(projectPath string, buff []byte) (*BuildProfile, error) {
	tp := &tomlProfile{}
	if err := toml.Unmarshal(buff, tp); err != nil {
		return nil, fmt.Errorf("error parsing project profile: %w", err)
	}

	if tp.Entry == "" {
		return nil, errors.New("project profile must specify an entry file")
	}

	profile := &BuildProfile{
		EntryPath:  resolvePath(projectPath, tp.Entry),
		OutputPath: resolvePath(projectPath, common.DefaultOutputDir),
		LogLevel:   tp.LogLevel,
		Emit:       EmitListing,
	}

	if tp.Name != "" {
		profile.UnitName = tp.Name
	} else {
		profile.UnitName = unitNameOf(profile.EntryPath)
	}

	if tp.Output != "" {
		profile.OutputPath = resolvePath(projectPath, tp.Output)
	}

	if tp.Emit != "" {
		profile.Emit = tp.Emit
	}

	if err := profile.validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Override applies the build options given on the command line.  Empty
// options are ignored.
func (bp *BuildProfile) Override(outputPath, emit string) error {
	if outputPath != "" {
		absPath, err := filepath.Abs(outputPath)
		if err != nil {
			return fmt.Errorf("invalid output path: %w", err)
		}

		bp.OutputPath = absPath
	}

	if emit != "" {
		bp.Emit = emit
	}

	return bp.validate()
}

// validate checks the profile's enumerated settings.
func (bp *BuildProfile) validate() error {
	if !isIdentifier(bp.UnitName) {
		return fmt.Errorf("unit name `%s` is not a valid identifier", bp.UnitName)
	}

	if bp.LogLevel != "" {
		if _, ok := report.LogLevels[bp.LogLevel]; !ok {
			return fmt.Errorf("invalid log level: `%s`", bp.LogLevel)
		}
	}

	if !slices.Contains(emitModes, bp.Emit) {
		return fmt.Errorf("invalid emit mode `%s`: must be one of %s", bp.Emit, strings.Join(emitModes, ", "))
	}

	return nil
}

// -----------------------------------------------------------------------------

// resolvePath resolves a profile path relative to the project directory.
func resolvePath(projectPath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(projectPath, path)
}

// unitNameOf returns the unit name for a source file: its base name without
// the extension.
func unitNameOf(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// isIdentifier returns whether a name can be used as a unit name.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}

	for i, c := range name {
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && '0' <= c && c <= '9':
		default:
			return false
		}
	}

	return true
}
