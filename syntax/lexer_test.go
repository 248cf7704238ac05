package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impc/report"
)

func lexString(t *testing.T, src string) []*Token {
	toks, err := Lex(strings.NewReader(src))
	require.NoError(t, err)
	return toks
}

func tokKinds(toks []*Token) []int {
	kinds := make([]int, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}

	return kinds
}

func TestLexKinds(t *testing.T) {
	testDatas := []struct {
		src   string
		kinds []int
	}{
		{"val x = 10", []int{TOK_VAL, TOK_IDENT, TOK_ASSIGN, TOK_INTLIT, TOK_EOF}},
		{"a+b*c^d", []int{TOK_IDENT, TOK_PLUS, TOK_IDENT, TOK_STAR, TOK_IDENT, TOK_POW, TOK_IDENT, TOK_EOF}},
		{"x++ y-- a<=b a!=b a==b !a", []int{
			TOK_IDENT, TOK_INC, TOK_IDENT, TOK_DEC, TOK_IDENT, TOK_LTEQ, TOK_IDENT,
			TOK_IDENT, TOK_NEQ, TOK_IDENT, TOK_IDENT, TOK_EQ, TOK_IDENT, TOK_NOT, TOK_IDENT, TOK_EOF,
		}},
		{"a && b || c", []int{TOK_IDENT, TOK_LAND, TOK_IDENT, TOK_LOR, TOK_IDENT, TOK_EOF}},
		{"0..10", []int{TOK_INTLIT, TOK_RANGE, TOK_INTLIT, TOK_EOF}},
		{"1.5 2e-3 0x1F 1_000", []int{TOK_FLOATLIT, TOK_FLOATLIT, TOK_INTLIT, TOK_INTLIT, TOK_EOF}},
		{"p.x.y", []int{TOK_IDENT, TOK_DOT, TOK_IDENT, TOK_DOT, TOK_IDENT, TOK_EOF}},
		{"true false in for", []int{TOK_BOOLLIT, TOK_BOOLLIT, TOK_IN, TOK_FOR, TOK_EOF}},
		{"a / b // comment\n/* block\n comment */ c", []int{TOK_IDENT, TOK_DIV, TOK_IDENT, TOK_IDENT, TOK_EOF}},
		{"", []int{TOK_EOF}},
	}

	for _, td := range testDatas {
		assert.Equal(t, td.kinds, tokKinds(lexString(t, td.src)), td.src)
	}
}

func TestLexValuesAndPositions(t *testing.T) {
	toks := lexString(t, "func f() {\n  return \"a\\tb\\u0041\"\n}")

	require.Len(t, toks, 9)

	ret := toks[5]
	assert.Equal(t, TOK_RETURN, ret.Kind)
	assert.Equal(t, 1, ret.Line())
	assert.Equal(t, 2, ret.Column())

	str := toks[6]
	assert.Equal(t, TOK_STRINGLIT, str.Kind)
	assert.Equal(t, "a\tbA", str.Value)
	assert.Equal(t, 9, str.Column())

	assert.Equal(t, "1000", lexString(t, "1_000")[0].Value)
}

func TestLexErrors(t *testing.T) {
	testDatas := []struct {
		src string
		msg string
	}{
		{`"abc`, "unclosed string literal"},
		{"\"a\nb\"", "string literal cannot contain a newline"},
		{"a # b", "unknown rune: `#`"},
		{"a & b", "unknown rune: `&`"},
		{"0x", "incomplete numeric literal"},
		{`"\q"`, "unknown escape sequence: `\\q`"},
	}

	for _, td := range testDatas {
		_, err := Lex(strings.NewReader(td.src))
		require.Error(t, err, td.src)

		d, ok := err.(*report.Diagnostic)
		require.True(t, ok, td.src)
		assert.Equal(t, report.SyntaxError, d.Kind, td.src)
		assert.Equal(t, td.msg, d.Message, td.src)
	}
}
