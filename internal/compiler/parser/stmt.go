package parser

import (
	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/token"
)

func (p *Parser) parseCodeBlock() *ast.CodeBlockStmt {
	start := p.pos()
	p.expect(token.LBRACE)
	block := &ast.CodeBlockStmt{}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		before := p.curTok
		s := p.parseStmt()
		if s != nil {
			block.Stmts = append(block.Stmts, s)
		}
		if p.curTok.Kind == before.Kind && p.curTok.Pos == before.Pos {
			p.errorf(p.pos(), "unexpected token %s (%q) in statement", p.curTok.Kind, p.curTok.Literal)
			p.synchronize()
		}
	}
	p.expect(token.RBRACE)
	block.Range = ast.Range{Pos: start, End: p.pos()}
	return block
}

func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.at(token.LBRACE):
		return p.parseCodeBlock()
	case p.at(token.IF):
		return p.parseIfStmt()
	case p.at(token.FOR):
		return p.parseForStmt()
	case p.at(token.WHILE):
		return p.parseWhileStmt()
	case p.at(token.DO):
		return p.parseDoWhileStmt()
	case p.at(token.SWITCH):
		return p.parseSwitchStmt()
	case p.at(token.RETURN):
		return p.parseReturnStmt()
	case p.at(token.BREAK):
		return p.parseCtrlTransfer(ast.CtrlBreak)
	case p.at(token.CONTINUE):
		return p.parseCtrlTransfer(ast.CtrlContinue)
	case p.at(token.DISCARD):
		return p.parseCtrlTransfer(ast.CtrlDiscard)
	case p.at(token.SEMICOLON):
		pos := p.pos()
		p.next()
		return &ast.NullStmt{Base: ast.Base{Range: ast.Range{Pos: pos, End: p.pos()}}}
	case p.isTypeStart() || p.at(token.STATIC) || p.at(token.CONST):
		return p.parseLocalVarDeclStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseLocalVarDeclStmt() ast.Stmt {
	start := p.pos()
	storage := p.parseStorageClass()
	typ := p.parseTypeSpecifier()
	name := p.curTok.Literal
	p.expect(token.IDENT)
	v := p.parseVarDecl(start, storage, ast.InterpDefault, typ, name)
	return &ast.VarDeclStmt{Base: ast.Base{Range: v.Range}, Decl: v}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.pos()
	p.next() // 'if'
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseStmt()
	stmt := &ast.IfStmt{Cond: cond, Then: then}
	if p.at(token.ELSE) {
		p.next()
		stmt.Else = p.parseStmt()
	}
	stmt.Range = ast.Range{Pos: start, End: p.pos()}
	return stmt
}

func (p *Parser) parseForStmt() ast.Stmt {
	start := p.pos()
	p.next() // 'for'
	p.expect(token.LPAREN)
	stmt := &ast.ForStmt{}
	if !p.at(token.SEMICOLON) {
		if p.isTypeStart() {
			stmt.Init = p.parseLocalVarDeclStmt()
		} else {
			stmt.Init = p.parseExprStmt()
		}
	} else {
		p.next()
	}
	if !p.at(token.SEMICOLON) {
		stmt.Cond = p.parseExpr()
	}
	p.expect(token.SEMICOLON)
	if !p.at(token.RPAREN) {
		e := p.parseExpr()
		stmt.Post = &ast.ExprStmt{Expr: e}
	}
	p.expect(token.RPAREN)
	stmt.Body = p.parseStmt()
	stmt.Range = ast.Range{Pos: start, End: p.pos()}
	return stmt
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.pos()
	p.next() // 'while'
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseStmt()
	return &ast.WhileStmt{Base: ast.Base{Range: ast.Range{Pos: start, End: p.pos()}}, Cond: cond, Body: body}
}

func (p *Parser) parseDoWhileStmt() ast.Stmt {
	start := p.pos()
	p.next() // 'do'
	body := p.parseStmt()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	if p.at(token.SEMICOLON) {
		p.next()
	}
	return &ast.DoWhileStmt{Base: ast.Base{Range: ast.Range{Pos: start, End: p.pos()}}, Body: body, Cond: cond}
}

func (p *Parser) parseSwitchStmt() ast.Stmt {
	start := p.pos()
	p.next() // 'switch'
	p.expect(token.LPAREN)
	sel := p.parseExpr()
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	stmt := &ast.SwitchStmt{Selector: sel}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		stmt.Cases = append(stmt.Cases, p.parseSwitchCase())
	}
	p.expect(token.RBRACE)
	stmt.Range = ast.Range{Pos: start, End: p.pos()}
	return stmt
}

func (p *Parser) parseSwitchCase() *ast.SwitchCase {
	start := p.pos()
	c := &ast.SwitchCase{}
	for p.at(token.CASE) || p.at(token.DEFAULT) {
		if p.at(token.DEFAULT) {
			c.IsDefault = true
			p.next()
		} else {
			p.next()
			c.CaseExprs = append(c.CaseExprs, p.parseExpr())
		}
		p.expect(token.COLON)
	}
	for !p.at(token.CASE) && !p.at(token.DEFAULT) && !p.at(token.RBRACE) && !p.at(token.EOF) {
		c.Stmts = append(c.Stmts, p.parseStmt())
	}
	c.Range = ast.Range{Pos: start, End: p.pos()}
	return c
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.pos()
	p.next() // 'return'
	stmt := &ast.ReturnStmt{}
	if !p.at(token.SEMICOLON) {
		stmt.Value = p.parseExpr()
	}
	if p.at(token.SEMICOLON) {
		p.next()
	}
	stmt.Range = ast.Range{Pos: start, End: p.pos()}
	return stmt
}

func (p *Parser) parseCtrlTransfer(kind ast.CtrlTransferKind) ast.Stmt {
	start := p.pos()
	p.next()
	if p.at(token.SEMICOLON) {
		p.next()
	}
	return &ast.CtrlTransferStmt{Base: ast.Base{Range: ast.Range{Pos: start, End: p.pos()}}, Kind: kind}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.pos()
	e := p.parseExpr()
	if p.at(token.SEMICOLON) {
		p.next()
	}
	return &ast.ExprStmt{Base: ast.Base{Range: ast.Range{Pos: start, End: p.pos()}}, Expr: e}
}
