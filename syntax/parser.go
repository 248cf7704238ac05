package syntax

import (
	"impc/ast"
	"impc/report"
	"impc/scope"
)

// NOTE: All parsing functions (that are not utility/API functions) are
// commented with the EBNF notation of the grammar they parse as well as any
// semantic actions they perform during parsing.

// Parser is the parser for an Imp source file.  It performs syntax analysis
// and AST generation.  It also builds the unit's scope tree as it goes: every
// block gets a fresh child scope and variables and parameters are declared as
// they are parsed (with their types left to the resolver).  It does NOT
// perform any symbol lookups.  The parser is a Pratt parser for expressions
// and a recursive descent parser for everything else.  All parsing functions
// assume that they begin with the parser centered on the first token of their
// production and must consume all tokens (including the last) of their
// production, leaving the parser on the next token.  Parsers are created once
// per file.
type Parser struct {
	// The diagnostic log syntax errors are recorded in.
	log *report.Log

	// The token stream being parsed.
	toks []*Token

	// The index of the current token in the token stream.
	ndx int

	// The token the parser is positioned on.
	tok *Token

	// The token immediately before the token the parser is positioned on.
	lookbehind *Token

	// The scope declarations are currently made in.
	scope *scope.Scope
}

// NewParser creates a new parser for the given token stream.
func NewParser(log *report.Log, toks []*Token) *Parser {
	return &Parser{
		log:  log,
		toks: toks,
		tok:  toks[0],
	}
}

// Parse parses a whole unit.  Syntax errors are recorded in the log: the unit
// is still returned but it only contains the top-level statements that parsed
// successfully.
func Parse(log *report.Log, unitName string, toks []*Token) *ast.Unit {
	p := NewParser(log, toks)
	return p.parseUnit(unitName)
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.  The parser never moves past the
// EOF token.
func (p *Parser) next() {
	p.lookbehind = p.tok

	if p.ndx < len(p.toks)-1 {
		p.ndx++
		p.tok = p.toks[p.ndx]
	}
}

// peek returns the token after the current one.
func (p *Parser) peek() *Token {
	if p.ndx < len(p.toks)-1 {
		return p.toks[p.ndx+1]
	}

	return p.tok
}

// has returns whether the parser is on a token of the given kind.
func (p *Parser) has(kind int) bool {
	return p.tok.Kind == kind
}

// hasOneOf returns whether the parser's current token kind is one of given
// kinds.
func (p *Parser) hasOneOf(kinds ...int) bool {
	for _, kind := range kinds {
		if p.tok.Kind == kind {
			return true
		}
	}

	return false
}

// want asserts that the parser is on a token of the given kind and moves
// forward.  It returns the matched token.  If the parser is not on a token of
// the given kind, the current token is rejected.
func (p *Parser) want(kind int) *Token {
	if !p.has(kind) {
		p.rejectExpected(kind)
	}

	p.next()
	return p.lookbehind
}

// skipSemis moves past any optional statement separators.
func (p *Parser) skipSemis() {
	for p.has(TOK_SEMI) {
		p.next()
	}
}

// -----------------------------------------------------------------------------

// reject raises an unexpected token error on the current token.
func (p *Parser) reject() {
	if p.has(TOK_EOF) {
		p.error(p.tok.Span, "unexpected end of file")
	}

	p.error(p.tok.Span, "unexpected token: `%s`", p.tok.Value)
}

// rejectExpected raises an error indicating that a token of the given kind was
// expected instead of the current token.
func (p *Parser) rejectExpected(kind int) {
	if p.has(TOK_EOF) {
		p.error(p.tok.Span, "expected %s but got end of file", tokenKindRepr(kind))
	}

	p.error(p.tok.Span, "expected %s but got `%s`", tokenKindRepr(kind), p.tok.Value)
}

// error raises a syntax error over the given span.  This aborts parsing of the
// current top-level statement.
func (p *Parser) error(span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(report.SyntaxError, span, msg, args...))
}

// -----------------------------------------------------------------------------

// pushScope opens a new block scope nested in the current scope.
func (p *Parser) pushScope() *scope.Scope {
	p.scope = p.scope.NewChild()
	return p.scope
}

// pushFuncScope opens the body scope of a function nested in the current
// scope.
func (p *Parser) pushFuncScope() *scope.Scope {
	p.scope = p.scope.NewFunctionScope()
	return p.scope
}

// popScope returns to the enclosing scope.
func (p *Parser) popScope() {
	p.scope = p.scope.Parent
}

// declare declares a local in the current scope.
func (p *Parser) declare(name string, span *report.TextSpan, kind scope.LocalKind, mutable bool) *scope.Local {
	local, err := p.scope.Declare(name, nil, kind, mutable)
	if err != nil {
		panic(report.Raise(report.Redeclaration, span, "%s", err))
	}

	return local
}
