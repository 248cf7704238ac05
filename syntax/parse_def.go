package syntax

import (
	"impc/ast"
	"impc/scope"
)

// func_decl := 'func' IDENT '(' [param {',' param} [',']] ')' [type_label] block ;
// param := IDENT type_label ;
//
// The function's body scope opens a new frame.  Parameters are declared in it
// before the body is parsed.
func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	start := p.want(TOK_FUNC)
	nameTok := p.want(TOK_IDENT)
	p.want(TOK_LPAREN)

	bodyScope := p.pushFuncScope()

	var params []*ast.Param
	for !p.has(TOK_RPAREN) {
		paramTok := p.want(TOK_IDENT)
		label := p.parseTypeLabel()

		local := p.declare(paramTok.Value, paramTok.Span, scope.LocalParam, false)
		local.Defined = true

		params = append(params, &ast.Param{
			ASTBase: ast.NewASTBaseOver(paramTok.Span, label.Span()),
			Name:    paramTok.Value,
			Label:   label,
			Local:   local,
		})

		if p.has(TOK_COMMA) {
			p.next()
		} else {
			break
		}
	}

	p.want(TOK_RPAREN)

	var returnLabel *ast.TypeLabel
	if p.has(TOK_IDENT) {
		returnLabel = p.parseTypeLabel()
	}

	body := p.parseBlockIn(bodyScope)
	p.popScope()

	return &ast.FuncDecl{
		ASTBase:     ast.NewASTBaseOver(start.Span, body.Span()),
		Name:        nameTok.Value,
		NameSpan:    nameTok.Span,
		Params:      params,
		ReturnLabel: returnLabel,
		Body:        body,
	}
}

// struct_decl := 'struct' IDENT '{' {IDENT type_label [',']} '}' ;
func (p *Parser) parseStructDecl() *ast.StructDecl {
	start := p.want(TOK_STRUCT)
	nameTok := p.want(TOK_IDENT)
	p.want(TOK_LBRACE)

	var fields []*ast.FieldDecl
	for !p.has(TOK_RBRACE) {
		fieldTok := p.want(TOK_IDENT)
		label := p.parseTypeLabel()

		fields = append(fields, &ast.FieldDecl{
			ASTBase: ast.NewASTBaseOver(fieldTok.Span, label.Span()),
			Name:    fieldTok.Value,
			Label:   label,
		})

		if p.hasOneOf(TOK_COMMA, TOK_SEMI) {
			p.next()
		}
	}

	p.want(TOK_RBRACE)

	return &ast.StructDecl{
		ASTBase: ast.NewASTBaseOver(start.Span, p.lookbehind.Span),
		Name:    nameTok.Value,
		Fields:  fields,
	}
}

// enum_decl := 'enum' IDENT '{' [IDENT {',' IDENT} [',']] '}' ;
func (p *Parser) parseEnumDecl() *ast.EnumDecl {
	start := p.want(TOK_ENUM)
	nameTok := p.want(TOK_IDENT)
	p.want(TOK_LBRACE)

	var values []string
	for !p.has(TOK_RBRACE) {
		values = append(values, p.want(TOK_IDENT).Value)

		if p.has(TOK_COMMA) {
			p.next()
		} else {
			break
		}
	}

	p.want(TOK_RBRACE)

	return &ast.EnumDecl{
		ASTBase: ast.NewASTBaseOver(start.Span, p.lookbehind.Span),
		Name:    nameTok.Value,
		Values:  values,
	}
}

// type_alias := 'type' IDENT '=' type_label ;
func (p *Parser) parseTypeAlias() *ast.TypeAlias {
	start := p.want(TOK_TYPE)
	nameTok := p.want(TOK_IDENT)
	p.want(TOK_ASSIGN)
	label := p.parseTypeLabel()

	return &ast.TypeAlias{
		ASTBase: ast.NewASTBaseOver(start.Span, label.Span()),
		Name:    nameTok.Value,
		Label:   label,
	}
}

// type_label := IDENT ;
func (p *Parser) parseTypeLabel() *ast.TypeLabel {
	tok := p.want(TOK_IDENT)

	return &ast.TypeLabel{
		ASTBase: ast.NewASTBaseOn(tok.Span),
		Name:    tok.Value,
	}
}
