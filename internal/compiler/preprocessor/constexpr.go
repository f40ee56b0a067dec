package preprocessor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btouchard/shaderx/internal/compiler/token"
)

// exprEval evaluates a #if/#elif controlling expression: integer
// arithmetic, bitwise ops, comparisons, logical ops, the ternary, and
// defined(). It is a small precedence-climbing recursive descent
// parser over the already macro-expanded token slice (defined() is
// special-cased before general macro expansion runs, see directive.go).
type exprEval struct {
	toks []token.Token
	pos  int
	err  error
}

func evalConstExpr(toks []token.Token) (int64, error) {
	e := &exprEval{toks: toks}
	v := e.ternary()
	if e.err != nil {
		return 0, e.err
	}
	if e.pos < len(e.toks) {
		return 0, fmt.Errorf("unexpected token %q in constant expression", e.toks[e.pos].Literal)
	}
	return v, nil
}

func (e *exprEval) cur() token.Token {
	if e.pos < len(e.toks) {
		return e.toks[e.pos]
	}
	return token.Token{Kind: token.EOF}
}

func (e *exprEval) advance() token.Token {
	t := e.cur()
	e.pos++
	return t
}

func (e *exprEval) fail(format string, args ...interface{}) int64 {
	if e.err == nil {
		e.err = fmt.Errorf(format, args...)
	}
	return 0
}

func (e *exprEval) ternary() int64 {
	cond := e.logicalOr()
	if e.cur().Kind == token.QUESTION {
		e.advance()
		then := e.ternary()
		if e.cur().Kind != token.COLON {
			return e.fail("expected ':' in ternary expression")
		}
		e.advance()
		els := e.ternary()
		if cond != 0 {
			return then
		}
		return els
	}
	return cond
}

func (e *exprEval) logicalOr() int64 {
	v := e.logicalAnd()
	for e.cur().Kind == token.OROR {
		e.advance()
		rhs := e.logicalAnd()
		v = boolToInt(v != 0 || rhs != 0)
	}
	return v
}

func (e *exprEval) logicalAnd() int64 {
	v := e.bitOr()
	for e.cur().Kind == token.ANDAND {
		e.advance()
		rhs := e.bitOr()
		v = boolToInt(v != 0 && rhs != 0)
	}
	return v
}

func (e *exprEval) bitOr() int64 {
	v := e.bitXor()
	for e.cur().Kind == token.PIPE {
		e.advance()
		v |= e.bitXor()
	}
	return v
}

func (e *exprEval) bitXor() int64 {
	v := e.bitAnd()
	for e.cur().Kind == token.CARET {
		e.advance()
		v ^= e.bitAnd()
	}
	return v
}

func (e *exprEval) bitAnd() int64 {
	v := e.equality()
	for e.cur().Kind == token.AMP {
		e.advance()
		v &= e.equality()
	}
	return v
}

func (e *exprEval) equality() int64 {
	v := e.relational()
	for e.cur().Kind == token.EQ || e.cur().Kind == token.NOT_EQ {
		op := e.advance().Kind
		rhs := e.relational()
		if op == token.EQ {
			v = boolToInt(v == rhs)
		} else {
			v = boolToInt(v != rhs)
		}
	}
	return v
}

func (e *exprEval) relational() int64 {
	v := e.shift()
	for {
		switch e.cur().Kind {
		case token.LT:
			e.advance()
			v = boolToInt(v < e.shift())
		case token.GT:
			e.advance()
			v = boolToInt(v > e.shift())
		case token.LT_EQ:
			e.advance()
			v = boolToInt(v <= e.shift())
		case token.GT_EQ:
			e.advance()
			v = boolToInt(v >= e.shift())
		default:
			return v
		}
	}
}

func (e *exprEval) shift() int64 {
	v := e.additive()
	for e.cur().Kind == token.SHL || e.cur().Kind == token.SHR {
		op := e.advance().Kind
		rhs := e.additive()
		if op == token.SHL {
			v <<= uint(rhs)
		} else {
			v >>= uint(rhs)
		}
	}
	return v
}

func (e *exprEval) additive() int64 {
	v := e.multiplicative()
	for e.cur().Kind == token.PLUS || e.cur().Kind == token.MINUS {
		op := e.advance().Kind
		rhs := e.multiplicative()
		if op == token.PLUS {
			v += rhs
		} else {
			v -= rhs
		}
	}
	return v
}

func (e *exprEval) multiplicative() int64 {
	v := e.unary()
	for e.cur().Kind == token.STAR || e.cur().Kind == token.SLASH || e.cur().Kind == token.PERCENT {
		op := e.advance().Kind
		rhs := e.unary()
		switch op {
		case token.STAR:
			v *= rhs
		case token.SLASH:
			if rhs == 0 {
				return e.fail("division by zero in constant expression")
			}
			v /= rhs
		case token.PERCENT:
			if rhs == 0 {
				return e.fail("division by zero in constant expression")
			}
			v %= rhs
		}
	}
	return v
}

func (e *exprEval) unary() int64 {
	switch e.cur().Kind {
	case token.BANG:
		e.advance()
		return boolToInt(e.unary() == 0)
	case token.TILDE:
		e.advance()
		return ^e.unary()
	case token.MINUS:
		e.advance()
		return -e.unary()
	case token.PLUS:
		e.advance()
		return e.unary()
	}
	return e.primary()
}

func (e *exprEval) primary() int64 {
	t := e.cur()
	switch t.Kind {
	case token.LPAREN:
		e.advance()
		v := e.ternary()
		if e.cur().Kind != token.RPAREN {
			return e.fail("expected ')'")
		}
		e.advance()
		return v
	case token.INT:
		e.advance()
		return parseIntLiteral(t.Literal)
	case token.TRUE:
		e.advance()
		return 1
	case token.FALSE:
		e.advance()
		return 0
	case token.IDENT:
		// Any identifier remaining after macro expansion and defined()
		// substitution is, per the C preprocessor rule, simply 0 -
		// never an undefined-symbol error.
		e.advance()
		return 0
	}
	return e.fail("unexpected token %q in constant expression", t.Literal)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func parseIntLiteral(lit string) int64 {
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		v, _ := strconv.ParseInt(lit[2:], 16, 64)
		return v
	}
	v, _ := strconv.ParseInt(lit, 10, 64)
	return v
}
