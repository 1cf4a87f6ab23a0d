package parser

import (
	"github.com/leops/hatchet/internal/script/ast"
	"github.com/leops/hatchet/internal/script/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.AUTO:
		return p.parseAuto()
	case token.RELAY:
		return p.parseRelay()
	case token.DELAY:
		return p.parseDelay()
	case token.WHILE:
		return p.parseLoop()
	case token.FOR:
		return p.parseIterator()
	case token.IF:
		return p.parseBranch()
	case token.LET:
		return p.parseBinding()
	case token.IDENT:
		return p.parseIdentLed()
	default:
		p.errorf("unexpected token %s at start of statement", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseBlock() []ast.Statement {
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	var body []ast.Statement
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			body = append(body, stmt)
		}
		p.nextToken()
	}
	return body
}

func (p *Parser) parseAuto() ast.Statement {
	return &ast.Auto{Body: p.parseBlock()}
}

func (p *Parser) parseRelay() ast.Statement {
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Lexeme
	return &ast.Relay{Name: name, Body: p.parseBlock()}
}

func (p *Parser) parseDelay() ast.Statement {
	p.nextToken()
	timeExpr := p.parseExpression(LOWEST)
	return &ast.Delay{TimeExpr: timeExpr, Body: p.parseBlock()}
}

func (p *Parser) parseLoop() ast.Statement {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.Loop{Cond: cond, Body: p.parseBlock()}
}

func (p *Parser) parseIterator() ast.Statement {
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	varName := p.curToken.Lexeme
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	arrExpr := p.parseExpression(LOWEST)
	return &ast.Iterator{Var: varName, ArrayExpr: arrExpr, Body: p.parseBlock()}
}

func (p *Parser) parseBranch() ast.Statement {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	consequent := p.parseBlock()

	var alternate []ast.Statement
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			alternate = []ast.Statement{p.parseBranch()}
		} else {
			alternate = p.parseBlock()
		}
	}
	return &ast.Branch{Cond: cond, Consequent: consequent, Alternate: alternate}
}

func (p *Parser) parseBinding() ast.Statement {
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Lexeme
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	return &ast.Binding{Name: name, Value: value}
}

// parseIdentLed disambiguates a statement starting with an identifier
// between an assignment (`path = expr`), a bare call used as a
// statement (`path(args)`) and a subscriber block (`path { ... }`),
// mirroring the script grammar's lack of a leading keyword for any of
// these forms.
func (p *Parser) parseIdentLed() ast.Statement {
	path := p.parsePath()

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(LOWEST)
		return &ast.Assignment{Path: path, Value: value}
	}

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args := p.parseCallArgs()
		return &ast.CallStatement{Call: ast.Call{Path: path, Args: args}}
	}

	if p.peekTokenIs(token.LBRACE) {
		return &ast.Subscriber{Path: path, Body: p.parseBlock()}
	}

	p.errorf("expected '=', '(' or '{' after path")
	return nil
}
