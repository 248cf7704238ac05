package syntax

import (
	"impc/ast"
	"impc/report"
	"impc/scope"
)

// unit := {stmt} EOF ;
func (p *Parser) parseUnit(name string) *ast.Unit {
	root := scope.NewUnitScope()
	p.scope = root

	body := &ast.Block{
		ASTBase: ast.NewASTBaseOver(p.tok.Span, p.toks[len(p.toks)-1].Span),
		Scope:   root,
	}

	for !p.has(TOK_EOF) {
		if stmt := p.parseTopStmt(root); stmt != nil {
			body.Stmts = append(body.Stmts, stmt)
		}
	}

	return &ast.Unit{Name: name, Body: body}
}

// parseTopStmt parses a single top-level statement.  If the statement contains
// a syntax error, the error is logged, the parser is moved to the start of the
// next declaration and nil is returned.
func (p *Parser) parseTopStmt(root *scope.Scope) (stmt ast.ASTNode) {
	defer func() {
		if x := recover(); x != nil {
			d, ok := x.(*report.Diagnostic)
			if !ok {
				panic(x)
			}

			p.log.Add(d)
			p.scope = root
			p.synchronize()
			stmt = nil
		}
	}()

	p.skipSemis()
	if p.has(TOK_EOF) {
		return nil
	}

	stmt = p.parseStmt()
	p.skipSemis()
	return
}

// synchronize moves the parser past the erroneous token and on to the next
// token that can begin a top-level declaration.
func (p *Parser) synchronize() {
	if p.has(TOK_EOF) {
		return
	}

	p.next()
	for !p.hasOneOf(TOK_FUNC, TOK_STRUCT, TOK_ENUM, TOK_TYPE, TOK_EXPORT, TOK_EOF) {
		p.next()
	}
}

// -----------------------------------------------------------------------------

// stmt := func_decl | struct_decl | enum_decl | type_alias | export_stmt
//
//	| var_decl | return_stmt | if_stmt | for_stmt | 'break' | 'continue'
//	| block | expr ;
func (p *Parser) parseStmt() ast.ASTNode {
	switch p.tok.Kind {
	case TOK_FUNC:
		return p.parseFuncDecl()
	case TOK_STRUCT:
		return p.parseStructDecl()
	case TOK_ENUM:
		return p.parseEnumDecl()
	case TOK_TYPE:
		return p.parseTypeAlias()
	case TOK_EXPORT:
		{
			start := p.want(TOK_EXPORT)
			decl := p.parseStmt()

			return &ast.Export{
				ASTBase: ast.NewASTBaseOver(start.Span, decl.Span()),
				Decl:    decl,
			}
		}
	case TOK_VAL, TOK_MUT:
		return p.parseVarDecl()
	case TOK_RETURN:
		return p.parseReturn()
	case TOK_IF:
		return p.parseIf()
	case TOK_FOR:
		return p.parseFor()
	case TOK_BREAK, TOK_CONTINUE:
		{
			p.next()

			kind := ast.KeywordBreak
			if p.lookbehind.Kind == TOK_CONTINUE {
				kind = ast.KeywordContinue
			}

			return &ast.KeywordStmt{
				ASTBase: ast.NewASTBaseOn(p.lookbehind.Span),
				Kind:    kind,
			}
		}
	case TOK_LBRACE:
		return p.parseBlock()
	case TOK_CLASS, TOK_IMPORT:
		p.error(p.tok.Span, "`%s` is reserved but not supported", p.tok.Value)
	}

	return p.parseExpr(precNone)
}

// block := '{' {stmt} '}' ;
func (p *Parser) parseBlock() *ast.Block {
	blockScope := p.pushScope()
	block := p.parseBlockIn(blockScope)
	p.popScope()

	return block
}

// parseBlockIn parses a block whose scope has already been opened.
func (p *Parser) parseBlockIn(blockScope *scope.Scope) *ast.Block {
	start := p.want(TOK_LBRACE)

	var stmts []ast.ASTNode
	for {
		p.skipSemis()

		if p.has(TOK_RBRACE) {
			break
		} else if p.has(TOK_EOF) {
			p.rejectExpected(TOK_RBRACE)
		}

		stmts = append(stmts, p.parseStmt())
	}

	p.want(TOK_RBRACE)

	return &ast.Block{
		ASTBase: ast.NewASTBaseOver(start.Span, p.lookbehind.Span),
		Stmts:   stmts,
		Scope:   blockScope,
	}
}

// -----------------------------------------------------------------------------

// var_decl := ('val' | 'mut') IDENT [type_label] '=' expr ;
func (p *Parser) parseVarDecl() *ast.VarDecl {
	start := p.tok
	mutable := p.has(TOK_MUT)
	p.next()

	nameTok := p.want(TOK_IDENT)

	var label *ast.TypeLabel
	if p.has(TOK_IDENT) {
		label = p.parseTypeLabel()
	}

	p.want(TOK_ASSIGN)
	init := p.parseExpr(precNone)

	local := p.declare(nameTok.Value, nameTok.Span, scope.LocalVar, mutable)

	return &ast.VarDecl{
		ASTBase: ast.NewASTBaseOver(start.Span, p.lookbehind.Span),
		Name:    nameTok.Value,
		Mutable: mutable,
		Label:   label,
		Init:    init,
		Local:   local,
	}
}

// return_stmt := 'return' [expr] ;
func (p *Parser) parseReturn() *ast.Return {
	start := p.want(TOK_RETURN)

	var value ast.ASTExpr
	if _, ok := prefixRules[p.tok.Kind]; ok {
		value = p.parseExpr(precNone)
	}

	return &ast.Return{
		ASTBase: ast.NewASTBaseOver(start.Span, p.lookbehind.Span),
		Value:   value,
	}
}

// if_stmt := 'if' expr block ['else' (if_stmt | block)] ;
func (p *Parser) parseIf() *ast.If {
	start := p.want(TOK_IF)
	cond := p.parseExpr(precNone)
	then := p.parseBlock()

	var elseBranch ast.ASTNode
	if p.has(TOK_ELSE) {
		p.next()

		if p.has(TOK_IF) {
			elseBranch = p.parseIf()
		} else {
			elseBranch = p.parseBlock()
		}
	}

	return &ast.If{
		ASTBase: ast.NewASTBaseOver(start.Span, p.lookbehind.Span),
		Cond:    cond,
		Then:    then,
		Else:    elseBranch,
	}
}

// for_stmt := 'for' block
//
//	| 'for' var_decl ';' expr ';' expr block
//	| 'for' IDENT 'in' expr block
//	| 'for' expr block ;
func (p *Parser) parseFor() ast.ASTNode {
	start := p.want(TOK_FOR)

	switch {
	case p.has(TOK_LBRACE):
		body := p.parseBlock()

		return &ast.Loop{
			ASTBase: ast.NewASTBaseOver(start.Span, body.Span()),
			Body:    body,
		}
	case p.hasOneOf(TOK_VAL, TOK_MUT):
		header := p.pushScope()

		init := p.parseVarDecl()
		p.want(TOK_SEMI)
		cond := p.parseExpr(precNone)
		p.want(TOK_SEMI)
		update := p.parseExpr(precNone)
		body := p.parseBlock()

		p.popScope()

		return &ast.ForLoop{
			ASTBase: ast.NewASTBaseOver(start.Span, body.Span()),
			Init:    init,
			Cond:    cond,
			Update:  update,
			Body:    body,
			Scope:   header,
		}
	case p.has(TOK_IDENT) && p.peek().Kind == TOK_IN:
		nameTok := p.want(TOK_IDENT)
		p.want(TOK_IN)
		iter := p.parseExpr(precNone)

		header := p.pushScope()
		loopVar := p.declare(nameTok.Value, nameTok.Span, scope.LocalVar, false)
		end := p.declare("$end", nameTok.Span, scope.LocalHidden, false)
		body := p.parseBlock()
		p.popScope()

		return &ast.ForInLoop{
			ASTBase: ast.NewASTBaseOver(start.Span, body.Span()),
			VarName: nameTok.Value,
			Iter:    iter,
			Body:    body,
			Var:     loopVar,
			End:     end,
			Scope:   header,
		}
	default:
		cond := p.parseExpr(precNone)
		body := p.parseBlock()

		return &ast.Loop{
			ASTBase: ast.NewASTBaseOver(start.Span, body.Span()),
			Cond:    cond,
			Body:    body,
		}
	}
}
