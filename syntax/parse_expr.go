package syntax

import (
	"impc/ast"
	"impc/report"
)

// Enumeration of precedence tiers from lowest to highest.
const (
	precNone = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precRange
	precSum
	precProduct
	precExponent
	precPrefix
	precPostfix
	precCall
)

// prefixParselet parses an expression beginning with tok.  The token has
// already been consumed.
type prefixParselet func(p *Parser, tok *Token) ast.ASTExpr

// infixRule is an infix parselet along with the precedence it binds at.
type infixRule struct {
	prec int

	// parse parses the remainder of an infix expression whose left operand is
	// left.  The operator token tok has already been consumed.
	parse func(p *Parser, left ast.ASTExpr, tok *Token) ast.ASTExpr
}

// prefixRules and infixRules are the parselet tables.  They are populated in
// init since the parselets refer back to the tables.
var (
	prefixRules map[int]prefixParselet
	infixRules  map[int]*infixRule
)

func init() {
	prefixRules = map[int]prefixParselet{
		TOK_IDENT:     parseIdentifier,
		TOK_INTLIT:    parseLiteral,
		TOK_FLOATLIT:  parseLiteral,
		TOK_STRINGLIT: parseLiteral,
		TOK_BOOLLIT:   parseLiteral,
		TOK_LPAREN:    parseGrouping,
		TOK_MINUS:     parseUnary,
		TOK_NOT:       parseUnary,
	}

	infixRules = map[int]*infixRule{
		TOK_ASSIGN: {precAssignment, parseAssign},

		TOK_LOR:  {precOr, parseBinary},
		TOK_LAND: {precAnd, parseBinary},

		TOK_EQ:  {precEquality, parseBinary},
		TOK_NEQ: {precEquality, parseBinary},

		TOK_LT:   {precComparison, parseBinary},
		TOK_GT:   {precComparison, parseBinary},
		TOK_LTEQ: {precComparison, parseBinary},
		TOK_GTEQ: {precComparison, parseBinary},

		TOK_RANGE: {precRange, parseBinary},

		TOK_PLUS:  {precSum, parseBinary},
		TOK_MINUS: {precSum, parseBinary},

		TOK_STAR: {precProduct, parseBinary},
		TOK_DIV:  {precProduct, parseBinary},
		TOK_MOD:  {precProduct, parseBinary},

		TOK_POW: {precExponent, parseBinary},

		TOK_DOT: {precPrefix, parsePropertyAccess},

		TOK_INC:      {precPostfix, parsePostfix},
		TOK_DEC:      {precPostfix, parsePostfix},
		TOK_LBRACKET: {precPostfix, parseIndex},

		TOK_LPAREN: {precCall, parseCall},
	}
}

// rightAssoc contains the right-associative binary operators.
var rightAssoc = map[int]bool{
	TOK_POW: true,
}

// operKinds maps operator tokens to their AST operator kinds.
var operKinds = map[int]ast.OperKind{
	TOK_PLUS:  ast.OperAdd,
	TOK_MINUS: ast.OperSub,
	TOK_STAR:  ast.OperMul,
	TOK_DIV:   ast.OperDiv,
	TOK_MOD:   ast.OperMod,
	TOK_POW:   ast.OperPow,
	TOK_EQ:    ast.OperEq,
	TOK_NEQ:   ast.OperNEq,
	TOK_LT:    ast.OperLT,
	TOK_GT:    ast.OperGT,
	TOK_LTEQ:  ast.OperLTEq,
	TOK_GTEQ:  ast.OperGTEq,
	TOK_LAND:  ast.OperAnd,
	TOK_LOR:   ast.OperOr,
	TOK_INC:   ast.OperInc,
	TOK_DEC:   ast.OperDec,
	TOK_RANGE: ast.OperRange,
}

// newOper creates a new operator from its token.
func newOper(tok *Token, kind ast.OperKind) *ast.Oper {
	return &ast.Oper{Kind: kind, Name: tok.Value, Span: tok.Span}
}

// -----------------------------------------------------------------------------

// ParseExpr parses a single expression from a token stream.  The whole token
// stream must be consumed.
func ParseExpr(toks []*Token) (expr ast.ASTExpr, err error) {
	p := NewParser(&report.Log{}, toks)

	defer func() {
		if x := recover(); x != nil {
			if d, ok := x.(*report.Diagnostic); ok {
				expr, err = nil, d
			} else {
				panic(x)
			}
		}
	}()

	expr = p.parseExpr(precNone)
	p.want(TOK_EOF)
	return expr, nil
}

// parseExpr parses an expression made only of operators binding tighter than
// minPrec.  This is the core of the Pratt parser: a prefix parselet parses
// the leading operand and infix parselets then extend it for as long as the
// next operator binds tighter than minPrec.
func (p *Parser) parseExpr(minPrec int) ast.ASTExpr {
	tok := p.tok
	prefix, ok := prefixRules[tok.Kind]
	if !ok {
		p.reject()
	}

	p.next()
	left := prefix(p, tok)

	for {
		infix, ok := infixRules[p.tok.Kind]
		if !ok || infix.prec <= minPrec {
			return left
		}

		tok = p.tok
		p.next()
		left = infix.parse(p, left, tok)
	}
}

// -----------------------------------------------------------------------------

// identifier := IDENT ;
func parseIdentifier(p *Parser, tok *Token) ast.ASTExpr {
	return &ast.Identifier{
		ExprBase: ast.NewExprBase(tok.Span),
		Name:     tok.Value,
	}
}

var literalKinds = map[int]ast.LiteralKind{
	TOK_INTLIT:    ast.LitInt,
	TOK_FLOATLIT:  ast.LitFloat,
	TOK_STRINGLIT: ast.LitString,
	TOK_BOOLLIT:   ast.LitBool,
}

// literal := INTLIT | FLOATLIT | STRINGLIT | BOOLLIT ;
func parseLiteral(p *Parser, tok *Token) ast.ASTExpr {
	return &ast.Literal{
		ExprBase: ast.NewExprBase(tok.Span),
		Kind:     literalKinds[tok.Kind],
		Value:    tok.Value,
	}
}

// grouping := '(' expr ')' ;
func parseGrouping(p *Parser, tok *Token) ast.ASTExpr {
	inner := p.parseExpr(precNone)
	p.want(TOK_RPAREN)

	return &ast.Grouping{
		ExprBase: ast.NewExprBaseOver(tok.Span, p.lookbehind.Span),
		Inner:    inner,
	}
}

// unary_expr := ('-' | '!') expr ;
//
// The operand binds everything tighter than the prefix tier itself, so
// property access chains are included in the operand: `-p.x` is `-(p.x)`.
func parseUnary(p *Parser, tok *Token) ast.ASTExpr {
	operand := p.parseExpr(precPrefix - 1)

	kind := ast.OperNeg
	if tok.Kind == TOK_NOT {
		kind = ast.OperNot
	}

	return &ast.Unary{
		ExprBase: ast.NewExprBaseOver(tok.Span, operand.Span()),
		Op:       newOper(tok, kind),
		Operand:  operand,
	}
}

// -----------------------------------------------------------------------------

// binary_expr := expr binary_op expr ;
func parseBinary(p *Parser, left ast.ASTExpr, tok *Token) ast.ASTExpr {
	prec := infixRules[tok.Kind].prec
	if rightAssoc[tok.Kind] {
		prec--
	}

	right := p.parseExpr(prec)

	return &ast.Binary{
		ExprBase: ast.NewExprBaseOver(left.Span(), right.Span()),
		Op:       newOper(tok, operKinds[tok.Kind]),
		Lhs:      left,
		Rhs:      right,
	}
}

// assign_expr := expr '=' expr ;
func parseAssign(p *Parser, left ast.ASTExpr, tok *Token) ast.ASTExpr {
	value := p.parseExpr(precAssignment - 1)

	return &ast.Assign{
		ExprBase: ast.NewExprBaseOver(left.Span(), value.Span()),
		Target:   left,
		Value:    value,
	}
}

// property_access := expr '.' IDENT {'.' IDENT} ;
func parsePropertyAccess(p *Parser, left ast.ASTExpr, tok *Token) ast.ASTExpr {
	var path []*ast.Identifier

	for {
		if !p.has(TOK_IDENT) {
			p.error(p.tok.Span, "expected identifier after `.`")
		}

		path = append(path, parseIdentifier(p, p.tok).(*ast.Identifier))
		p.next()

		if p.has(TOK_DOT) {
			p.next()
		} else {
			break
		}
	}

	return &ast.PropertyAccess{
		ExprBase: ast.NewExprBaseOver(left.Span(), p.lookbehind.Span),
		Root:     left,
		Path:     path,
	}
}

// postfix_expr := expr ('++' | '--') ;
func parsePostfix(p *Parser, left ast.ASTExpr, tok *Token) ast.ASTExpr {
	return &ast.Postfix{
		ExprBase: ast.NewExprBaseOver(left.Span(), tok.Span),
		Op:       newOper(tok, operKinds[tok.Kind]),
		Operand:  left,
	}
}

// index_expr := expr '[' expr ']' ;
//
// Index expressions are sugar for a call to `at`: `a[b]` is `at(a, b)`.
func parseIndex(p *Parser, left ast.ASTExpr, tok *Token) ast.ASTExpr {
	index := p.parseExpr(precNone)
	p.want(TOK_RBRACKET)

	return &ast.Call{
		ExprBase: ast.NewExprBaseOver(left.Span(), p.lookbehind.Span),
		Func: &ast.Identifier{
			ExprBase: ast.NewExprBase(tok.Span),
			Name:     "at",
		},
		Args: []ast.ASTExpr{left, index},
	}
}

// call_expr := expr '(' [expr {',' expr} [',']] ')' ;
func parseCall(p *Parser, left ast.ASTExpr, tok *Token) ast.ASTExpr {
	var args []ast.ASTExpr

	for !p.has(TOK_RPAREN) {
		args = append(args, p.parseExpr(precNone))

		if p.has(TOK_COMMA) {
			p.next()
		} else {
			break
		}
	}

	p.want(TOK_RPAREN)

	return &ast.Call{
		ExprBase: ast.NewExprBaseOver(left.Span(), p.lookbehind.Span),
		Func:     left,
		Args:     args,
	}
}
