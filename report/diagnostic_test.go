package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAccumulatesInOrder(t *testing.T) {
	var log Log
	assert.False(t, log.AnyErrors())
	assert.Nil(t, log.Err())
	assert.Empty(t, log.Diagnostics())

	log.Addf(NameNotFound, &TextSpan{StartLine: 2, StartCol: 4, EndLine: 2, EndCol: 6}, "undefined: `%s`", "foo")
	log.Add(Raise(SyntaxError, nil, "unexpected token"))

	require.True(t, log.AnyErrors())
	diags := log.Diagnostics()
	require.Len(t, diags, 2)

	assert.Equal(t, NameNotFound, diags[0].Kind)
	assert.Equal(t, "undefined: `foo`", diags[0].Message)
	assert.Equal(t, 3, diags[0].Line())
	assert.Equal(t, 5, diags[0].Column())
	assert.Equal(t, "3:5: NameNotFound: undefined: `foo`", diags[0].Error())

	assert.Equal(t, 0, diags[1].Line())
	assert.Error(t, log.Err())
}

func TestCatchRecordsDiagnostics(t *testing.T) {
	var log Log

	func() {
		defer Catch(&log)
		panic(Raise(TypeMismatch, nil, "boom"))
	}()

	require.Len(t, log.Diagnostics(), 1)
	assert.Equal(t, TypeMismatch, log.Diagnostics()[0].Kind)

	assert.Panics(t, func() {
		defer Catch(&log)
		panic("not a diagnostic")
	})
}

func TestCatchICE(t *testing.T) {
	run := func() (err error) {
		defer CatchICE(&err)
		ICE("missing type for `%s`", "x")
		return nil
	}

	err := run()
	require.Error(t, err)
	assert.Equal(t, "internal compiler error: missing type for `x`", err.Error())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "FunctionSignatureMismatch", FunctionSignatureMismatch.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
