package preprocessor

import (
	"fmt"

	"github.com/btouchard/shaderx/internal/compiler/token"
)

// expandTokens rescans tokens for macro invocations, expanding them
// (recursively, through their own substituted bodies) until none
// remain. expanding carries the blue-paint set of macro names already
// being expanded somewhere up the recursive call chain, so that
// `#define A A` terminates instead of looping forever: a name in this set is never looked up again
// until its own expansion has finished unwinding.
func (p *Preprocessor) expandTokens(tokens []token.Token, expanding map[string]bool) []token.Token {
	var out []token.Token
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.Kind != token.IDENT {
			out = append(out, t)
			continue
		}

		switch t.Literal {
		case "__FILE__":
			out = append(out, token.Token{Kind: token.STRING, Literal: p.buf.File(), Pos: t.Pos})
			continue
		case "__LINE__":
			out = append(out, token.Token{Kind: token.INT, Literal: fmt.Sprintf("%d", t.Pos.Line), Pos: t.Pos})
			continue
		}

		m, ok := p.macros[t.Literal]
		if !ok || expanding[t.Literal] {
			out = append(out, t)
			continue
		}

		if !m.FunctionLike {
			exp := p.expandTokens(substitute(m, nil, nil), withExpanding(expanding, t.Literal))
			for k := range exp {
				exp[k].Pos = t.Pos
			}
			out = append(out, exp...)
			continue
		}

		// Function-like macros only expand when actually invoked (the
		// name followed immediately by '('); otherwise the bare name
		// passes through unchanged.
		if i+1 >= len(tokens) || tokens[i+1].Kind != token.LPAREN {
			out = append(out, t)
			continue
		}
		inner, end, ok := scanBalancedArgs(tokens, i+1)
		if !ok {
			p.errorf(t.Pos, "unterminated argument list invoking macro %q", t.Literal)
			out = append(out, t)
			continue
		}
		fixedArgs, variadicArgs := bindArgs(m, splitArgs(inner))
		substituted := substitute(m, fixedArgs, variadicArgs)
		exp := p.expandTokens(substituted, withExpanding(expanding, t.Literal))
		for k := range exp {
			exp[k].Pos = t.Pos
		}
		out = append(out, exp...)
		i = end
	}
	return out
}

// scanBalancedArgs reads the parenthesized argument-list tokens of a
// function-like macro invocation starting at tokens[open] (the '('
// itself), returning the tokens strictly between the matching
// parentheses and the index of the closing ')'.
func scanBalancedArgs(tokens []token.Token, open int) ([]token.Token, int, bool) {
	depth := 0
	var inner []token.Token
	for j := open; j < len(tokens); j++ {
		switch tokens[j].Kind {
		case token.LPAREN:
			depth++
			if depth == 1 {
				continue
			}
		case token.RPAREN:
			depth--
			if depth == 0 {
				return inner, j, true
			}
		}
		inner = append(inner, tokens[j])
	}
	return nil, 0, false
}

// bindArgs splits a macro invocation's raw argument list into the
// fixed parameters and, for variadic macros, the comma-rejoined
// __VA_ARGS__ tail.
func bindArgs(m *Macro, args [][]token.Token) (fixed [][]token.Token, variadic []token.Token) {
	if !m.Variadic {
		return args, nil
	}
	n := len(m.Params)
	if len(args) <= n {
		return args, nil
	}
	fixed = args[:n]
	for k, a := range args[n:] {
		if k > 0 {
			variadic = append(variadic, token.Token{Kind: token.COMMA, Literal: ","})
		}
		variadic = append(variadic, a...)
	}
	return fixed, variadic
}

func withExpanding(expanding map[string]bool, name string) map[string]bool {
	next := make(map[string]bool, len(expanding)+1)
	for k, v := range expanding {
		next[k] = v
	}
	next[name] = true
	return next
}
