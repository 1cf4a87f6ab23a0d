// Package parser is a hand-written recursive-descent parser for
// Hatchet scripts, using operator-precedence (Pratt) climbing for
// expressions. Grounded on funxy's internal/parser package: the same
// curToken/peekToken two-token lookahead and precedence-int
// parseExpression(precedence) shape (prefix forms dispatch through a
// switch in parsePrimary, binary operators through the binaryOps
// table), split across statement- and expression-focused files the way
// funxy splits statements*.go from expressions_*.go.
package parser

import (
	"fmt"

	"github.com/leops/hatchet/internal/script/ast"
	"github.com/leops/hatchet/internal/script/lexer"
	"github.com/leops/hatchet/internal/script/token"
)

// Precedence levels, lowest to highest, following the script
// grammar's binary-operator table (logical-or binds loosest,
// multiplicative binds tightest).
const (
	LOWEST int = iota
	OR_PREC
	AND_PREC
	BOR_PREC
	BXOR_PREC
	BAND_PREC
	EQUALITY
	RELATIONAL
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
)

var precedences = map[token.Type]int{
	token.OR:      OR_PREC,
	token.AND:     AND_PREC,
	token.PIPE:    BOR_PREC,
	token.CARET:   BXOR_PREC,
	token.AMP:     BAND_PREC,
	token.EQ:      EQUALITY,
	token.NEQ:     EQUALITY,
	token.LT:      RELATIONAL,
	token.LTE:     RELATIONAL,
	token.GT:      RELATIONAL,
	token.GTE:     RELATIONAL,
	token.SHL:     SHIFT,
	token.SHR:     SHIFT,
	token.PLUS:    ADDITIVE,
	token.MINUS:   ADDITIVE,
	token.STAR:    MULTIPLICATIVE,
	token.SLASH:   MULTIPLICATIVE,
	token.PERCENT: MULTIPLICATIVE,
}

var binaryOps = map[token.Type]ast.Operator{
	token.STAR:    ast.OpMul,
	token.SLASH:   ast.OpDiv,
	token.PERCENT: ast.OpMod,
	token.PLUS:    ast.OpAdd,
	token.MINUS:   ast.OpSub,
	token.SHL:     ast.OpShl,
	token.SHR:     ast.OpShr,
	token.LT:      ast.OpLt,
	token.LTE:     ast.OpLe,
	token.GT:      ast.OpGt,
	token.GTE:     ast.OpGe,
	token.EQ:      ast.OpEq,
	token.NEQ:     ast.OpNe,
	token.AMP:     ast.OpBitAnd,
	token.CARET:   ast.OpBitXor,
	token.PIPE:    ast.OpBitOr,
	token.AND:     ast.OpAnd,
	token.OR:      ast.OpOr,
}

// Parser holds lexer state plus the two-token lookahead window.
type Parser struct {
	l      *lexer.Lexer
	file   string
	errors []error

	curToken  token.Token
	peekToken token.Token
}

// New returns a Parser ready to parse src, tagging any errors with
// file for diagnostics.
func New(file, src string) *Parser {
	p := &Parser{l: lexer.New(src), file: file}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []error {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.errors = append(p.errors, fmt.Errorf("%s:%d:%d: expected next token to be %s, got %s instead",
		p.file, p.peekToken.Line, p.peekToken.Column, t, p.peekToken.Type))
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Errorf("%s:%d:%d: %s", p.file, p.curToken.Line, p.curToken.Column, fmt.Sprintf(format, args...)))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseScript parses an entire script source file into a Script AST.
func ParseScript(file, src string) (*ast.Script, []error) {
	p := New(file, src)
	script := &ast.Script{}
	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			script.Statements = append(script.Statements, stmt)
		}
		p.nextToken()
	}
	return script, p.errors
}
