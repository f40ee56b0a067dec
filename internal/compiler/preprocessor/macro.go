package preprocessor

import (
	"strings"

	"github.com/btouchard/shaderx/internal/compiler/lexer"
	"github.com/btouchard/shaderx/internal/compiler/source"
	"github.com/btouchard/shaderx/internal/compiler/token"
)

// Macro is a single #define: its parameter list (if any) and its body
// tokens. The blue-paint self-recursion rule is not stored here: it is
// the `expanding` set of macro names that expandTokens carries while a
// body is being rescanned.
type Macro struct {
	Name         string
	FunctionLike bool
	Params       []string
	Variadic     bool
	Body         []token.Token
	DefinedAt    token.Position
}

// concatLiteral and stringizeLiteral are the synthetic token shapes the
// preprocessor recognizes inside a captured macro body: two adjacent
// HASH tokens with no separating token become a single token.Token
// tagged ## (concatenation), and a lone HASH followed by a parameter
// name is the stringize operator. Neither is a real lexer token kind;
// both ride on token.HASH so the lexer itself never needs to know
// about macro-body-only operators.
const (
	concatLiteral    = "##"
	stringizeLiteral = "#"
)

// foldMacroBodyOperators rewrites two adjacent HASH tokens (no
// intervening token) into one token carrying concatLiteral, so the
// substitution pass can recognize ## with a single literal comparison
// instead of re-scanning for adjacency every time.
func foldMacroBodyOperators(body []token.Token) []token.Token {
	out := make([]token.Token, 0, len(body))
	for i := 0; i < len(body); i++ {
		t := body[i]
		if t.Kind == token.HASH && i+1 < len(body) && body[i+1].Kind == token.HASH {
			out = append(out, token.Token{Kind: token.HASH, Literal: concatLiteral, Pos: t.Pos})
			i++
			continue
		}
		out = append(out, t)
	}
	return out
}

func isParam(m *Macro, name string) (int, bool) {
	for i, p := range m.Params {
		if p == name {
			return i, true
		}
	}
	return -1, false
}

// splitArgs breaks the comma-separated argument list inside a balanced
// parenthesis group into individual argument token sequences, without
// expanding any macros the arguments might reference.
func splitArgs(inner []token.Token) [][]token.Token {
	if len(inner) == 0 {
		return nil
	}
	var args [][]token.Token
	var cur []token.Token
	depth := 0
	for _, t := range inner {
		switch t.Kind {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			depth--
		}
		if t.Kind == token.COMMA && depth == 0 {
			args = append(args, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	args = append(args, cur)
	return args
}

// stringize implements the # operator: render an argument's raw
// tokens as a single quoted string literal, without expanding it.
func stringize(arg []token.Token) token.Token {
	if len(arg) == 0 {
		return token.Token{Kind: token.STRING}
	}
	var b strings.Builder
	for i, t := range arg {
		if i > 0 {
			b.WriteString(" ")
		}
		if t.Kind == token.STRING {
			b.WriteString(`\"`)
			b.WriteString(t.Literal)
			b.WriteString(`\"`)
		} else {
			b.WriteString(t.Literal)
		}
	}
	return token.Token{Kind: token.STRING, Literal: b.String(), Pos: arg[0].Pos}
}

// concatTokens implements the ## operator: paste two tokens' literal
// text together and re-tokenize the result into a single token.
func concatTokens(a, b token.Token) token.Token {
	text := a.Literal + b.Literal
	buf := source.New("<paste>", text)
	l := lexer.New(buf, token.HLSL)
	tok := l.NextToken()
	tok.Pos = a.Pos
	return tok
}

// substitute replaces parameter references in m.Body with their
// corresponding argument token sequences, honoring # (stringize) and
// ## (paste) before the caller rescans the result. args holds one
// entry per named parameter; variadicArgs holds the tokens bound to
// __VA_ARGS__ (nil for non-variadic macros).
func substitute(m *Macro, args [][]token.Token, variadicArgs []token.Token) []token.Token {
	body := foldMacroBodyOperators(m.Body)
	argOf := func(name string) ([]token.Token, bool) {
		if name == "__VA_ARGS__" && m.Variadic {
			return variadicArgs, true
		}
		if idx, ok := isParam(m, name); ok && idx < len(args) {
			return args[idx], true
		}
		return nil, false
	}

	// Pass 1: stringize. A HASH('#') token immediately followed by a
	// parameter identifier becomes that argument's stringized form.
	var pass1 []token.Token
	for i := 0; i < len(body); i++ {
		t := body[i]
		if t.Kind == token.HASH && t.Literal == stringizeLiteral && i+1 < len(body) && body[i+1].Kind == token.IDENT {
			if arg, ok := argOf(body[i+1].Literal); ok {
				pass1 = append(pass1, stringize(arg))
				i++
				continue
			}
		}
		pass1 = append(pass1, t)
	}

	// Pass 2: substitute remaining parameter references with their raw
	// argument tokens, then paste across ## boundaries.
	var expanded []token.Token
	for _, t := range pass1 {
		if t.Kind == token.IDENT {
			if arg, ok := argOf(t.Literal); ok {
				expanded = append(expanded, arg...)
				continue
			}
		}
		expanded = append(expanded, t)
	}

	var out []token.Token
	for i := 0; i < len(expanded); i++ {
		t := expanded[i]
		if t.Kind == token.HASH && t.Literal == concatLiteral {
			// ## binds the token already appended to out with the next.
			if len(out) > 0 && i+1 < len(expanded) {
				left := out[len(out)-1]
				right := expanded[i+1]
				out[len(out)-1] = concatTokens(left, right)
				i++
				continue
			}
			continue
		}
		out = append(out, t)
	}
	return out
}
