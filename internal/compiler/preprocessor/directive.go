package preprocessor

import (
	"strings"

	"github.com/btouchard/shaderx/internal/compiler/token"
)

// handleDirective dispatches a `#`-introduced logical line to the
// matching directive handler. line holds everything after the
// `#` on that line (the directive keyword, then its arguments).
func (p *Preprocessor) handleDirective(pos token.Position, line []token.Token) {
	if len(line) == 0 {
		return // a bare '#' on its own line is a no-op null directive
	}
	name := line[0].Literal
	rest := line[1:]
	switch name {
	case "define":
		if p.active() {
			p.handleDefine(pos, rest)
		}
	case "undef":
		if p.active() && len(rest) > 0 {
			delete(p.macros, rest[0].Literal)
		}
	case "ifdef":
		p.handleIf(pos, "ifdef", rest)
	case "ifndef":
		p.handleIf(pos, "ifndef", rest)
	case "if":
		p.handleIf(pos, "if", rest)
	case "elif":
		p.handleElif(pos, rest)
	case "else":
		p.handleElse(pos)
	case "endif":
		p.handleEndif(pos)
	case "include":
		if p.active() {
			p.handleInclude(pos, rest)
		}
	case "pragma":
		if p.active() {
			p.handlePragma(pos, rest)
		}
	case "line":
		if p.active() {
			p.handleLine(pos, rest)
		}
	case "error":
		if p.active() {
			p.errorf(pos, "%s", renderTokens(rest))
		}
	case "warning":
		if p.active() {
			p.warnf(pos, "%s", renderTokens(rest))
		}
	default:
		if p.active() {
			p.warnf(pos, "unknown preprocessor directive #%s", name)
		}
	}
}

// handleDefine parses both object-like and function-like #define
// forms. A macro is function-like only when '(' immediately follows
// the name with no intervening whitespace, per the standard C rule
// (checked here via adjacent Pos/EndPos rather than a space flag,
// since the lexer already discards whitespace).
func (p *Preprocessor) handleDefine(pos token.Position, rest []token.Token) {
	if len(rest) == 0 {
		p.errorf(pos, "#define requires a macro name")
		return
	}
	name := rest[0].Literal
	m := &Macro{Name: name, DefinedAt: pos}
	body := rest[1:]

	if len(body) > 0 && body[0].Kind == token.LPAREN &&
		body[0].Pos.Line == rest[0].EndPos.Line && body[0].Pos.Column == rest[0].EndPos.Column {
		m.FunctionLike = true
		i := 1
		for i < len(body) && body[i].Kind != token.RPAREN {
			switch {
			case body[i].Kind == token.DOT && i+2 < len(body) && body[i+1].Kind == token.DOT && body[i+2].Kind == token.DOT:
				m.Variadic = true
				i += 3
			case body[i].Kind == token.IDENT:
				m.Params = append(m.Params, body[i].Literal)
				i++
			default:
				i++ // comma or stray token, skip
			}
		}
		if i < len(body) {
			i++ // consume RPAREN
		}
		m.Body = body[i:]
	} else {
		m.Body = body
	}

	p.macros[name] = m
	p.markDefined(name)
}

// handleIf pushes a new conditional frame for #if/#ifdef/#ifndef. When
// the enclosing region is already inactive the new frame goes straight
// to condSkipToEndif without evaluating anything, so a malformed or
// undefined-identifier expression inside a skipped nested #if never
// raises an error.
func (p *Preprocessor) handleIf(pos token.Position, kind string, rest []token.Token) {
	f := &condFrame{pos: pos}
	if !p.active() {
		f.state = condSkipToEndif
		p.conds = append(p.conds, f)
		return
	}

	var taken bool
	switch kind {
	case "ifdef":
		taken = p.isDefinedName(rest)
	case "ifndef":
		taken = !p.isDefinedName(rest)
	case "if":
		taken = p.evalIfExpr(pos, rest)
	}
	if taken {
		f.state = condTaken
		f.anyTaken = true
	} else {
		f.state = condSkipUntilElse
	}
	p.conds = append(p.conds, f)
}

// evalIfExpr resolves defined(...) first (without expanding its
// operand as a macro), expands whatever macros remain, and evaluates
// the resulting constant expression.
func (p *Preprocessor) evalIfExpr(pos token.Position, rest []token.Token) bool {
	resolved := p.substituteDefined(rest)
	expanded := p.expandTokens(resolved, map[string]bool{})
	v, err := evalConstExpr(expanded)
	if err != nil {
		p.errorf(pos, "invalid constant expression: %s", err)
		return false
	}
	return v != 0
}

func (p *Preprocessor) handleElif(pos token.Position, rest []token.Token) {
	if len(p.conds) == 0 {
		p.errorf(pos, "#elif without #if")
		return
	}
	f := p.conds[len(p.conds)-1]
	if f.sawElse {
		p.errorf(pos, "#elif may not follow #else")
		return
	}
	switch f.state {
	case condTaken:
		f.state = condSkipToEndif
	case condSkipUntilElse:
		if f.anyTaken {
			f.state = condSkipToEndif
			return
		}
		if p.evalIfExpr(pos, rest) {
			f.state = condTaken
			f.anyTaken = true
		}
	}
	// condSkipToEndif: this branch is either already resolved by an
	// earlier taken arm, or nested inside a region that was never
	// active to begin with; either way nothing is evaluated.
}

func (p *Preprocessor) handleElse(pos token.Position) {
	if len(p.conds) == 0 {
		p.errorf(pos, "#else without #if")
		return
	}
	f := p.conds[len(p.conds)-1]
	if f.sawElse {
		p.errorf(pos, "duplicate #else")
		return
	}
	f.sawElse = true
	switch f.state {
	case condTaken:
		f.state = condSkipToEndif
	case condSkipUntilElse:
		if f.anyTaken {
			f.state = condSkipToEndif
		} else {
			f.state = condTakenElse
			f.anyTaken = true
		}
	}
}

func (p *Preprocessor) handleEndif(pos token.Position) {
	if len(p.conds) == 0 {
		p.errorf(pos, "#endif without #if")
		return
	}
	p.conds = p.conds[:len(p.conds)-1]
}

func (p *Preprocessor) isDefinedName(rest []token.Token) bool {
	if len(rest) == 0 {
		return false
	}
	return p.isDefined(rest[0].Literal)
}

func (p *Preprocessor) isDefined(name string) bool {
	_, ok := p.macros[name]
	return ok
}

// substituteDefined resolves the defined(NAME) / defined NAME operator
// before general macro expansion runs, since its operand must never
// itself be macro-expanded.
func (p *Preprocessor) substituteDefined(toks []token.Token) []token.Token {
	var out []token.Token
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.Kind == token.IDENT && t.Literal == "defined" {
			if i+3 < len(toks) && toks[i+1].Kind == token.LPAREN &&
				toks[i+2].Kind == token.IDENT && toks[i+3].Kind == token.RPAREN {
				out = append(out, boolToken(p.isDefined(toks[i+2].Literal), t.Pos))
				i += 3
				continue
			}
			if i+1 < len(toks) && toks[i+1].Kind == token.IDENT {
				out = append(out, boolToken(p.isDefined(toks[i+1].Literal), t.Pos))
				i++
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func boolToken(b bool, pos token.Position) token.Token {
	lit := "0"
	if b {
		lit = "1"
	}
	return token.Token{Kind: token.INT, Literal: lit, Pos: pos}
}

// handleInclude resolves a #include "..." or #include <...> directive
// through p.opts.IncludeHandler, honoring #pragma once de-dup,
// circular-include detection, and the configured depth bound.
func (p *Preprocessor) handleInclude(pos token.Position, rest []token.Token) {
	if len(rest) == 0 {
		p.errorf(pos, "#include expects a filename")
		return
	}

	var path string
	var isSystem bool
	switch {
	case rest[0].Kind == token.STRING:
		path = rest[0].Literal
	case rest[0].Kind == token.LT:
		isSystem = true
		var b strings.Builder
		i := 1
		for i < len(rest) && rest[i].Kind != token.GT {
			b.WriteString(rest[i].Literal)
			i++
		}
		path = b.String()
	default:
		p.errorf(pos, "malformed #include directive")
		return
	}

	if p.opts.IncludeHandler == nil {
		p.errorf(pos, "#include %q: no include handler configured", path)
		return
	}
	canonical, contents, ok := p.opts.IncludeHandler.Resolve(path, isSystem, p.opts.SearchPaths)
	if !ok {
		p.errorf(pos, "cannot find include file %q", path)
		return
	}
	if p.once[canonical] {
		return
	}
	if p.loading[canonical] {
		p.errorf(pos, "circular #include of %q", canonical)
		return
	}
	maxDepth := p.opts.MaxIncludeDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxIncludeDepth
	}
	if p.buf.Depth()+1 > maxDepth {
		p.errorf(pos, "#include nesting exceeds limit of %d", maxDepth)
		return
	}

	p.loading[canonical] = true
	p.includeStack = append(p.includeStack, canonical)
	p.buf.PushInclude(canonical, contents)
}

// handlePragma recognizes #pragma once; any other pragma is either
// preserved verbatim (as a comment, so later stages can still see it
// was present) or dropped, per Options.KeepPragmas.
func (p *Preprocessor) handlePragma(pos token.Position, rest []token.Token) {
	if len(rest) > 0 && rest[0].Literal == "once" {
		p.once[p.buf.File()] = true
		return
	}
	if p.opts.KeepPragmas {
		p.out = append(p.out, token.Token{Kind: token.COMMENT, Literal: "#pragma " + renderTokens(rest), Pos: pos})
	}
}

// handleLine implements #line NUM ["FILE"], resetting the buffer's
// position bookkeeping
func (p *Preprocessor) handleLine(pos token.Position, rest []token.Token) {
	if len(rest) == 0 {
		p.errorf(pos, "#line requires a line number")
		return
	}
	lineNum := int(parseIntLiteral(rest[0].Literal))
	file := ""
	if len(rest) > 1 && rest[1].Kind == token.STRING {
		file = rest[1].Literal
	}
	p.buf.ResetPosition(file, lineNum)
}
