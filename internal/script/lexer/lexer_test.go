package lexer

import (
	"testing"

	"github.com/leops/hatchet/internal/script/token"
)

func collect(src string) []token.Token {
	l := New(src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks := collect("auto relay foo_bar")
	want := []token.Type{token.AUTO, token.RELAY, token.IDENT, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d: got %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestLexNumber(t *testing.T) {
	toks := collect("3.5")
	if toks[0].Type != token.NUMBER || toks[0].Literal.(float64) != 3.5 {
		t.Fatalf("unexpected number token: %+v", toks[0])
	}
}

func TestLexOperators(t *testing.T) {
	toks := collect("<= >= == != << >> && ||")
	want := []token.Type{token.LTE, token.GTE, token.EQ, token.NEQ, token.SHL, token.SHR, token.AND, token.OR, token.EOF}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d: got %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestLexLineComment(t *testing.T) {
	toks := collect("let x = 1 // trailing comment\nlet y = 2")
	var idents int
	for _, tok := range toks {
		if tok.Type == token.IDENT {
			idents++
		}
	}
	if idents != 2 {
		t.Fatalf("expected 2 idents (x, y), got %d", idents)
	}
}

func TestLexSimpleString(t *testing.T) {
	toks := collect(`"hello world"`)
	parts := toks[0].Literal.(token.StringParts)
	if len(parts) != 1 || parts[0].Text != "hello world" {
		t.Fatalf("unexpected string parts: %+v", parts)
	}
}

func TestLexInterpolatedString(t *testing.T) {
	toks := collect(`"count: ${n}!"`)
	parts := toks[0].Literal.(token.StringParts)
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %+v", len(parts), parts)
	}
	if parts[0].Text != "count: " {
		t.Fatalf("unexpected leading text: %q", parts[0].Text)
	}
	if parts[1].Source != "n" {
		t.Fatalf("unexpected interpolation source: %q", parts[1].Source)
	}
	if parts[2].Text != "!" {
		t.Fatalf("unexpected trailing text: %q", parts[2].Text)
	}
}

func TestLexEscapes(t *testing.T) {
	toks := collect(`"a\nb\"c"`)
	parts := toks[0].Literal.(token.StringParts)
	if parts[0].Text != "a\nb\"c" {
		t.Fatalf("unexpected escaped text: %q", parts[0].Text)
	}
}

func TestLexIllegalCharacter(t *testing.T) {
	toks := collect("@")
	if toks[0].Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %v", toks[0].Type)
	}
}
