package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProfile(t *testing.T) {
	profile, err := decodeProfile("/proj", []byte(`
name = "Hello"
entry = "src/hello.imp"
output = "build"
loglevel = "error"
emit = "ast"
`))
	require.NoError(t, err)

	assert.Equal(t, &BuildProfile{
		UnitName:   "Hello",
		EntryPath:  filepath.Join("/proj", "src", "hello.imp"),
		OutputPath: filepath.Join("/proj", "build"),
		LogLevel:   "error",
		Emit:       EmitAST,
	}, profile)
}

func TestDecodeProfileDefaults(t *testing.T) {
	profile, err := decodeProfile("/proj", []byte(`entry = "Counter.imp"`))
	require.NoError(t, err)

	assert.Equal(t, "Counter", profile.UnitName)
	assert.Equal(t, filepath.Join("/proj", "out"), profile.OutputPath)
	assert.Equal(t, EmitListing, profile.Emit)
	assert.Empty(t, profile.LogLevel)
}

func TestDecodeProfileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"malformed", `entry = `},
		{"missing entry", `name = "Main"`},
		{"bad log level", "entry = \"a.imp\"\nloglevel = \"loud\""},
		{"bad emit", "entry = \"a.imp\"\nemit = \"binary\""},
		{"bad unit name", "entry = \"a.imp\"\nname = \"1st\""},
	}

	for _, test := range tests {
		_, err := decodeProfile("/proj", []byte(test.src))
		assert.Error(t, err, test.name)
	}
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "Main.imp")
	require.NoError(t, os.WriteFile(src, []byte("log(1)"), 0o644))

	profile, err := LoadProfile(src)
	require.NoError(t, err)
	assert.Equal(t, "Main", profile.UnitName)
	assert.Equal(t, src, profile.EntryPath)
	assert.Equal(t, filepath.Join(dir, "out"), profile.OutputPath)

	_, err = LoadProfile(dir)
	assert.Error(t, err, "projects need a profile")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "imp.toml"), []byte(`entry = "Main.imp"`), 0o644))
	profile, err = LoadProfile(dir)
	require.NoError(t, err)
	assert.Equal(t, src, profile.EntryPath)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, nil, 0o644))
	_, err = LoadProfile(txt)
	assert.Error(t, err)
}

func TestOverride(t *testing.T) {
	profile := &BuildProfile{UnitName: "Main", Emit: EmitListing}

	require.NoError(t, profile.Override("", "none"))
	assert.Equal(t, EmitNone, profile.Emit)
	assert.Empty(t, profile.OutputPath)

	assert.Error(t, profile.Override("", "jar"))
}

func TestSelectLogLevel(t *testing.T) {
	tests := []struct {
		cli, profile, want string
	}{
		{"", "", "verbose"},
		{"", "error", "error"},
		{"verbose", "error", "verbose"},
		{"silent", "", "silent"},
	}

	for _, test := range tests {
		got := selectLogLevel(test.cli, &BuildProfile{LogLevel: test.profile})
		assert.Equal(t, test.want, got, "cli %q, profile %q", test.cli, test.profile)
	}
}
