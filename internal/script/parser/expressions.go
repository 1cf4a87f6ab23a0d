package parser

import (
	"github.com/leops/hatchet/internal/script/ast"
	"github.com/leops/hatchet/internal/script/token"
)

// parseExpression is the Pratt-style precedence-climbing entry point,
// shaped after funxy's parseExpression(precedence int): parse one
// prefix/primary term, then keep folding in infix operators whose
// precedence exceeds the caller's floor.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrimary()
	if left == nil {
		return nil
	}

	for !p.peekTokenIs(token.EOF) && precedence < p.peekPrecedence() {
		op, ok := binaryOps[p.peekToken.Type]
		if !ok {
			break
		}
		p.nextToken()
		curPrec := p.curPrecedence()
		p.nextToken()
		right := p.parseExpression(curPrec)
		left = &ast.Binary{LHS: left, Op: op, RHS: right}
	}

	return left
}

func (p *Parser) parsePrimary() ast.Expression {
	switch p.curToken.Type {
	case token.NUMBER:
		return &ast.NumberLiteral{Value: p.curToken.Literal.(float64)}
	case token.STRING:
		return p.parseStringLiteral()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseMapLiteral()
	case token.MINUS:
		// Unary minus is sugar for `0 - x`, matching the script
		// grammar's lack of a dedicated unary-operator AST node, but
		// only over a literal operand (§4.3: negative number
		// literals). Anything else must spell out the subtraction.
		p.nextToken()
		operand := p.parseExpression(MULTIPLICATIVE)
		if _, ok := operand.(*ast.NumberLiteral); !ok {
			p.errorf("unary '-' is only valid on a numeric literal")
			return nil
		}
		return &ast.Binary{LHS: &ast.NumberLiteral{Value: 0}, Op: ast.OpSub, RHS: operand}
	case token.LPAREN:
		p.nextToken()
		exp := p.parseExpression(LOWEST)
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return exp
	case token.IDENT:
		return p.parsePathOrCall()
	default:
		p.errorf("unexpected token %s in expression", p.curToken.Type)
		return nil
	}
}

// parsePathOrCall parses a path and, if immediately followed by '(',
// turns it into a Call; otherwise it's a Reference.
func (p *Parser) parsePathOrCall() ast.Expression {
	path := p.parsePath()
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args := p.parseCallArgs()
		return &ast.Call{Path: path, Args: args}
	}
	return &ast.Reference{Path: path}
}

func (p *Parser) parseCallArgs() []ast.Expression {
	// curToken == '('
	var args []ast.Expression
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return args
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	// curToken == '['
	var elems []ast.Expression
	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return &ast.Array{Elements: elems}
	}
	p.nextToken()
	elems = append(elems, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		elems = append(elems, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.Array{Elements: elems}
}

func (p *Parser) parseMapLiteral() ast.Expression {
	// curToken == '{'
	var fields []ast.MapField
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return &ast.MapLiteral{Fields: fields}
	}
	p.nextToken()
	fields = append(fields, p.parseMapField())
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		fields = append(fields, p.parseMapField())
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return &ast.MapLiteral{Fields: fields}
}

func (p *Parser) parseMapField() ast.MapField {
	key := p.curToken.Lexeme
	if !p.expectPeek(token.COLON) {
		return ast.MapField{}
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	return ast.MapField{Key: key, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	parts := p.curToken.Literal.(token.StringParts)
	lit := &ast.StringLiteral{}
	for _, part := range parts {
		if part.Source == "" {
			lit.Parts = append(lit.Parts, ast.StringPart{Text: part.Text})
			continue
		}
		expr, errs := ParseExpressionSource(p.file, part.Source)
		p.errors = append(p.errors, errs...)
		lit.Parts = append(lit.Parts, ast.StringPart{Expr: expr})
	}
	return lit
}

// ParseExpressionSource parses a standalone expression, used both for
// string interpolation snippets and by tests.
func ParseExpressionSource(file, src string) (ast.Expression, []error) {
	p := New(file, src)
	expr := p.parseExpression(LOWEST)
	return expr, p.errors
}

// parsePath parses a `.`-separated, optionally `:`-qualified path:
// `a.b.c` or `a.b:c.d` (everything left of `:` names the instance
// entity; `:` marks that boundary, and the remainder dereferences
// into its method/sub-property namespace).
func (p *Parser) parsePath() ast.Path {
	var path ast.Path = &ast.PathBinding{Name: p.curToken.Lexeme}

	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return path
		}
		path = &ast.PathDeref{Obj: path, Prop: p.curToken.Lexeme}
	}

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		path = &ast.PathInstance{Obj: path}
		if !p.expectPeek(token.IDENT) {
			return path
		}
		path = &ast.PathDeref{Obj: path, Prop: p.curToken.Lexeme}

		for p.peekTokenIs(token.DOT) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return path
			}
			path = &ast.PathDeref{Obj: path, Prop: p.curToken.Lexeme}
		}
	}

	return path
}
