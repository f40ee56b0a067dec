package lexer

import (
	"testing"

	"github.com/btouchard/shaderx/internal/compiler/source"
	"github.com/btouchard/shaderx/internal/compiler/token"
)

func lexAll(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(source.New("test.hlsl", input), token.HLSL)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func TestBasicTokens(t *testing.T) {
	toks := lexAll(t, `float4 main() : SV_Target { return float4(1,0,0,1); }`)
	want := []token.Kind{
		token.TYPE_NAME, token.IDENT, token.LPAREN, token.RPAREN, token.COLON, token.IDENT,
		token.LBRACE, token.RETURN, token.TYPE_NAME, token.LPAREN,
		token.INT, token.COMMA, token.INT, token.COMMA, token.INT, token.COMMA, token.INT,
		token.RPAREN, token.SEMICOLON, token.RBRACE, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d (%v)", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v (%q)", i, toks[i].Kind, k, toks[i].Literal)
		}
	}
}

func TestNumericSuffixes(t *testing.T) {
	tests := []struct {
		input  string
		kind   token.Kind
		suffix string
	}{
		{"1u", token.INT, "u"},
		{"3.14f", token.FLOAT, "f"},
		{"2L", token.INT, "L"},
		{"0x1F", token.INT, ""},
		{"1.5h", token.FLOAT, "h"},
		{"2e3", token.FLOAT, ""},
	}
	for _, tt := range tests {
		toks := lexAll(t, tt.input)
		if toks[0].Kind != tt.kind || toks[0].Suffix != tt.suffix {
			t.Errorf("lex(%q) = {%v,%q}, want {%v,%q}", tt.input, toks[0].Kind, toks[0].Suffix, tt.kind, tt.suffix)
		}
	}
}

func TestCompoundOperators(t *testing.T) {
	toks := lexAll(t, "a <<= 1; b >>= 2; c += 3;")
	kinds := []token.Kind{}
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	has := func(k token.Kind) bool {
		for _, kk := range kinds {
			if kk == k {
				return true
			}
		}
		return false
	}
	for _, want := range []token.Kind{token.SHL_EQ, token.SHR_EQ, token.PLUS_EQ} {
		if !has(want) {
			t.Errorf("expected a %v token among %v", want, kinds)
		}
	}
}

func TestCommentsSkippedByDefault(t *testing.T) {
	toks := lexAll(t, "// line comment\nfloat x; /* block */ float y;")
	for _, tok := range toks {
		if tok.Kind == token.COMMENT {
			t.Fatalf("expected comments to be skipped, got %v", tok)
		}
	}
}

func TestCommentsPreserved(t *testing.T) {
	l := New(source.New("test.hlsl", "// doc\nfloat x;"), token.HLSL)
	l.PreserveComments = true
	tok := l.NextToken()
	if len(tok.LeadingComments) != 1 {
		t.Fatalf("expected 1 leading comment, got %d", len(tok.LeadingComments))
	}
}

func TestHashTagged(t *testing.T) {
	toks := lexAll(t, "#define X 1")
	if toks[0].Kind != token.HASH {
		t.Fatalf("expected HASH, got %v", toks[0].Kind)
	}
}

func TestUnterminatedStringResynchronizes(t *testing.T) {
	l := New(source.New("test.hlsl", "\"abc\nfloat x;"), token.HLSL)
	_ = l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatalf("expected an unterminated string error")
	}
}
