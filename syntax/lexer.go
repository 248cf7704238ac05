package syntax

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"impc/report"
)

// Lexer is responsible for tokenizing a source file.
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int
}

// NewLexer creates a new lexer for the given source file.
func NewLexer(file *bufio.Reader) *Lexer {
	return &Lexer{
		file:    file,
		tokBuff: &strings.Builder{},
		line:    0,
		col:     0,
	}
}

// Lex tokenizes the whole source read from r.  The returned token stream
// always ends with an EOF token.  Lexical errors are returned as
// *report.Diagnostic values.
func Lex(r io.Reader) ([]*Token, error) {
	l := NewLexer(bufio.NewReader(r))

	var toks []*Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.Kind == TOK_EOF {
			return toks, nil
		}
	}
}

// NextToken retrieves the next token from the input file. If the file has
// ended, this will be an EOF token.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		switch c {
		case '\n', '\t', ' ', '\r', '\v', '\f':
			l.skip()
		case '/':
			if tok, err := l.lexCommentOrDiv(); tok != nil || err != nil {
				return tok, err
			}
		case '"':
			return l.lexStringLit()
		default:
			if isDecimalDigit(c) {
				return l.lexNumericLit()
			} else if isFirstIdentChar(c) {
				return l.lexIdentOrKeyword()
			} else {
				return l.lexPunctOrOper()
			}
		}
	}

	l.mark()
	return l.makeToken(TOK_EOF), nil
}

// -----------------------------------------------------------------------------

// symbolPatterns maps symbol strings (patterns) to their punctuation/operator
// token kind.
var symbolPatterns = map[string]int{
	"+": TOK_PLUS,
	"-": TOK_MINUS,
	"*": TOK_STAR,
	// Division operator is handled with comment logic.
	"%": TOK_MOD,
	"^": TOK_POW,

	"==": TOK_EQ,
	"!=": TOK_NEQ,
	"<":  TOK_LT,
	"<=": TOK_LTEQ,
	">":  TOK_GT,
	">=": TOK_GTEQ,

	"&&": TOK_LAND,
	"||": TOK_LOR,
	"!":  TOK_NOT,

	"=":  TOK_ASSIGN,
	"++": TOK_INC,
	"--": TOK_DEC,

	"(":  TOK_LPAREN,
	")":  TOK_RPAREN,
	"{":  TOK_LBRACE,
	"}":  TOK_RBRACE,
	"[":  TOK_LBRACKET,
	"]":  TOK_RBRACKET,
	",":  TOK_COMMA,
	".":  TOK_DOT,
	"..": TOK_RANGE,
	";":  TOK_SEMI,
	":":  TOK_COLON,
}

// symbolPrefixes contains the symbols which are not tokens themselves but
// begin a longer symbol.
var symbolPrefixes = map[string]struct{}{
	"&": {},
	"|": {},
}

// lexPunctOrOper lexes a punctuation or operator symbol.  The longest symbol
// matching the input is used.
func (l *Lexer) lexPunctOrOper() (*Token, error) {
	l.mark()
	l.eat()

	kind, ok := symbolPatterns[l.tokBuff.String()]
	if !ok {
		if _, isPrefix := symbolPrefixes[l.tokBuff.String()]; !isPrefix {
			return nil, report.Raise(report.SyntaxError, l.getSpan(), "unknown rune: `%s`", l.tokBuff.String())
		}

		kind = -1
	}

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		if c == -1 {
			break
		}

		if _kind, ok := symbolPatterns[l.tokBuff.String()+string(c)]; ok {
			l.eat()
			kind = _kind
		} else {
			break
		}
	}

	if kind == -1 {
		return nil, report.Raise(report.SyntaxError, l.getSpan(), "unknown rune: `%s`", l.tokBuff.String())
	}

	return l.makeToken(kind), nil
}

// -----------------------------------------------------------------------------

// keywordPatterns maps keyword strings (patterns) to their keyword token kind.
var keywordPatterns = map[string]int{
	"func":   TOK_FUNC,
	"struct": TOK_STRUCT,
	"enum":   TOK_ENUM,
	"type":   TOK_TYPE,
	"export": TOK_EXPORT,

	"val": TOK_VAL,
	"mut": TOK_MUT,

	"if":       TOK_IF,
	"else":     TOK_ELSE,
	"for":      TOK_FOR,
	"in":       TOK_IN,
	"break":    TOK_BREAK,
	"continue": TOK_CONTINUE,
	"return":   TOK_RETURN,

	"class":  TOK_CLASS,
	"import": TOK_IMPORT,

	"true":  TOK_BOOLLIT,
	"false": TOK_BOOLLIT,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	var kind int
	if _kind, ok := keywordPatterns[l.tokBuff.String()]; ok {
		kind = _kind
	} else {
		kind = TOK_IDENT
	}

	return l.makeToken(kind), nil
}

// -----------------------------------------------------------------------------

// lexNumericLit lexes a numeric literal (int lit or float lit).
func (l *Lexer) lexNumericLit() (*Token, error) {
	l.mark()
	c, _ := l.eat()

	// Determine the base of the literal.
	base := 10
	mustHaveDigit := false
	if c == '0' {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch c {
		case 'x':
			base = 16
			l.eat()
			mustHaveDigit = true
		case 'o':
			base = 8
			l.eat()
			mustHaveDigit = true
		case 'b':
			base = 2
			l.eat()
			mustHaveDigit = true
		}
	}

	// Floating-point data.
	var isFloat, hasExp, expectNeg bool

numLexLoop:
	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		} else if c == '_' {
			// Skip all _ that occur in the literal.
			l.skip()
			continue
		}

		// Handle base specific logic.
		switch base {
		case 2:
			if c == '0' || c == '1' {
				l.eat()
			} else {
				break numLexLoop
			}
		case 8:
			if '0' <= c && c <= '7' {
				l.eat()
			} else {
				break numLexLoop
			}
		case 16:
			if isHexDigit(c) {
				l.eat()
			} else {
				break numLexLoop
			}
		case 10: // Only base 10 literals can be floats.
			switch c {
			case '.':
				// A second dot begins a range operator: `0..10`.
				if mustHaveDigit || isFloat || hasExp || l.peekRangeDots() {
					break numLexLoop
				}

				l.eat()

				isFloat = true
				mustHaveDigit = true
				continue
			case 'e', 'E':
				if mustHaveDigit || hasExp {
					break numLexLoop
				}

				l.eat()

				isFloat = true
				hasExp = true
				expectNeg = true
				mustHaveDigit = true
				continue
			case '-':
				if !expectNeg {
					break numLexLoop
				}

				l.eat()

				expectNeg = false
				continue
			default:
				if isDecimalDigit(c) {
					l.eat()
					expectNeg = false
				} else {
					break numLexLoop
				}
			}
		}

		// Indicate that a value was received.
		mustHaveDigit = false
	}

	// Ensure that the literal is not malformed.
	if mustHaveDigit {
		return nil, report.Raise(report.SyntaxError, l.getSpan(), "incomplete numeric literal")
	}

	if isFloat {
		return l.makeToken(TOK_FLOATLIT), nil
	}

	return l.makeToken(TOK_INTLIT), nil
}

// peekRangeDots returns whether the next two runes are both `.`.
func (l *Lexer) peekRangeDots() bool {
	next, err := l.file.Peek(2)
	return err == nil && next[0] == '.' && next[1] == '.'
}

// -----------------------------------------------------------------------------

// lexStringLit lexes a string literal.  The token's value is the decoded
// string contents.
func (l *Lexer) lexStringLit() (*Token, error) {
	l.mark()
	l.skip()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1:
			return nil, report.Raise(report.SyntaxError, l.getSpan(), "unclosed string literal")
		case '"':
			l.skip()
			return l.makeToken(TOK_STRINGLIT), nil
		case '\\':
			l.skip()
			if err = l.decodeEscapeSequence(); err != nil {
				return nil, err
			}
		case '\n':
			return nil, report.Raise(report.SyntaxError, l.getSpan(), "string literal cannot contain a newline")
		default:
			l.eat()
		}
	}
}

// escapeCodes maps simple escape codes to the runes they stand for.
var escapeCodes = map[rune]rune{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'0':  0,
	'\'': '\'',
	'\\': '\\',
	'"':  '"',
}

// decodeEscapeSequence consumes an escape sequence and writes the rune it
// stands for to the token buffer.  This assumes the leading `\` has already
// been skipped.
func (l *Lexer) decodeEscapeSequence() error {
	c, err := l.skip()
	if err != nil {
		return err
	}

	decodeUnicodeEscapeSequence := func(n int) error {
		digits := strings.Builder{}

		for i := 0; i < n; i++ {
			c, err := l.skip()
			if err != nil {
				return err
			} else if c == -1 {
				return report.Raise(report.SyntaxError, l.getSpan(), "expected %d digit hexadecimal value not end of file", n)
			} else if !isHexDigit(c) {
				return report.Raise(report.SyntaxError, l.getSpan(), "unicode escape code may be comprised of hexadecimal digits only")
			}

			digits.WriteRune(c)
		}

		value, _ := strconv.ParseUint(digits.String(), 16, 32)
		l.tokBuff.WriteRune(rune(value))
		return nil
	}

	if r, ok := escapeCodes[c]; ok {
		l.tokBuff.WriteRune(r)
		return nil
	}

	switch c {
	case -1:
		return report.Raise(report.SyntaxError, l.getSpan(), "expected escape sequence not end of file")
	case 'x':
		return decodeUnicodeEscapeSequence(2)
	case 'u':
		return decodeUnicodeEscapeSequence(4)
	default:
		return report.Raise(report.SyntaxError, l.getSpan(), "unknown escape sequence: `\\%c`", c)
	}
}

// -----------------------------------------------------------------------------

// lexCommentOrDiv lexes a comment or a division token.
func (l *Lexer) lexCommentOrDiv() (*Token, error) {
	l.mark()
	l.skip()

	c, err := l.peek()
	if err != nil {
		return nil, err
	}

	switch c {
	case '/':
		for ; err == nil && c != '\n' && c != -1; c, err = l.skip() {
		}
	case '*':
		for {
			c, err = l.skip()
			if err != nil || c == -1 {
				break
			}

			if c == '*' {
				c, err = l.peek()
				if err != nil || c == -1 {
					break
				}

				if c == '/' {
					l.skip()
					break
				}
			}
		}
	default:
		{
			tok := l.makeToken(TOK_DIV)
			tok.Value = "/"
			return tok, nil
		}
	}

	return nil, err
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:  kind,
		Value: value,
		Span:  l.getSpan(),
	}
}

// getSpan calculates a text span based on the lexer's current state.
func (l *Lexer) getSpan() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

// -----------------------------------------------------------------------------

// eat moves the lexer forward one rune and writes the rune to the token buffer.
// If the lexer encounters an EOF, -1 is returned as the rune value.
func (l *Lexer) eat() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)
	l.tokBuff.WriteRune(c)

	return c, nil
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.  If the lexer encounters an EOF, -1 is returned as the rune
// value.
func (l *Lexer) skip() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)

	return c, nil
}

// peek returns the next rune in the file without moving the lexer forward or
// writing the rune to the token buffer.  If the lexer encounters an EOF, -1 is
// returned as rune value.
func (l *Lexer) peek() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	if err = l.file.UnreadRune(); err != nil {
		return 0, err
	}

	return c, nil
}

// updatePos updates the lexer's position based on input character.
func (l *Lexer) updatePos(c rune) {
	switch c {
	case '\n':
		l.line++
		l.col = 0
	case '\t':
		l.col += 4
	default:
		l.col++
	}
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isHexDigit returns whether c is a hexadecimal digit.
func isHexDigit(c rune) bool {
	return isDecimalDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// isFirstIdentChar returns whether c could be the first rune of an identifier.
func isFirstIdentChar(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}
