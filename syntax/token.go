package syntax

import "impc/report"

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.
	Value string

	// The text span over which the token exists.  This may not directly
	// correspond to its value: eg. the value of a string token has the leading
	// quotes trimmed off and its escape sequences decoded.
	Span *report.TextSpan
}

// Line returns the zero-indexed line the token begins on.
func (t *Token) Line() int {
	return t.Span.StartLine
}

// Column returns the zero-indexed column the token begins at.
func (t *Token) Column() int {
	return t.Span.StartCol
}

// Enumeration of token kinds.
const (
	TOK_FUNC = iota
	TOK_STRUCT
	TOK_ENUM
	TOK_TYPE
	TOK_EXPORT

	TOK_VAL
	TOK_MUT

	TOK_IF
	TOK_ELSE
	TOK_FOR
	TOK_IN
	TOK_BREAK
	TOK_CONTINUE
	TOK_RETURN

	// Reserved for language features impc does not support.
	TOK_CLASS
	TOK_IMPORT

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV
	TOK_MOD
	TOK_POW

	TOK_EQ
	TOK_NEQ
	TOK_LT
	TOK_GT
	TOK_LTEQ
	TOK_GTEQ

	TOK_NOT
	TOK_LAND
	TOK_LOR

	TOK_ASSIGN
	TOK_INC
	TOK_DEC

	TOK_LPAREN
	TOK_RPAREN
	TOK_LBRACE
	TOK_RBRACE
	TOK_LBRACKET
	TOK_RBRACKET
	TOK_COMMA
	TOK_DOT
	TOK_RANGE
	TOK_SEMI
	TOK_COLON

	TOK_IDENT
	TOK_INTLIT
	TOK_FLOATLIT
	TOK_BOOLLIT
	TOK_STRINGLIT

	TOK_EOF
)

// tokenNames maps token kinds to the names used in error messages for tokens
// whose value is not fixed.
var tokenNames = map[int]string{
	TOK_IDENT:     "identifier",
	TOK_INTLIT:    "integer literal",
	TOK_FLOATLIT:  "float literal",
	TOK_BOOLLIT:   "bool literal",
	TOK_STRINGLIT: "string literal",
	TOK_EOF:       "end of file",
}

// tokenKindRepr returns the representation of a token kind for use in error
// messages.
func tokenKindRepr(kind int) string {
	if name, ok := tokenNames[kind]; ok {
		return name
	}

	for pattern, pkind := range symbolPatterns {
		if pkind == kind {
			return "`" + pattern + "`"
		}
	}

	for pattern, pkind := range keywordPatterns {
		if pkind == kind {
			return "`" + pattern + "`"
		}
	}

	return "token"
}
