// Package parser implements the recursive-descent HLSL parser: one
// parser per input dialect (currently HLSL), turning a preprocessor
// token stream into a Program. A curToken/peekToken pair drives the
// descent, with synchronize()-based error recovery and the
// shader-specific disambiguations the grammar needs:
// type-specifier-vs-expression lookahead, Texture2D<float4> generic
// brackets, and register/semantic/packoffset/annotation trailing
// decorators.
package parser

import (
	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/diag"
	"github.com/btouchard/shaderx/internal/compiler/lexer"
	"github.com/btouchard/shaderx/internal/compiler/token"
)

// Parser consumes a token stream (typically the preprocessor's output,
// re-lexed) and produces an *ast.Program. A syntax error is recorded
// via diag, and Parse then returns false together with the program
// built so far; CompileShader stops on that false, so the partial AST
// never reaches analysis or generation.
type Parser struct {
	lex       *lexer.Lexer
	curTok    token.Token
	peekTok   token.Token
	log       diag.Log
	failed    bool
	typeNames map[string]bool // lexical "known type names": struct/typedef names seen so far
}

// New creates a Parser reading tokens from lex, reporting syntax
// errors to log (which may be nil).
func New(lex *lexer.Lexer, log diag.Log) *Parser {
	p := &Parser{lex: lex, log: log, typeNames: map[string]bool{}}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.curTok = p.peekTok
	p.peekTok = p.lex.NextToken()
}

func (p *Parser) at(k token.Kind) bool     { return p.curTok.Kind == k }
func (p *Parser) peekAt(k token.Kind) bool { return p.peekTok.Kind == k }

func (p *Parser) pos() token.Position { return p.curTok.Pos }

func (p *Parser) errorf(pos token.Position, format string, args ...interface{}) {
	p.failed = true
	diag.Errorf(p.log, diag.PhaseSyntax, pos, format, args...)
}

// expect consumes the current token if it matches k, reporting a
// syntax error and returning false otherwise.
func (p *Parser) expect(k token.Kind) bool {
	if p.at(k) {
		p.next()
		return true
	}
	p.errorf(p.pos(), "expected %s, got %s (%q)", k, p.curTok.Kind, p.curTok.Literal)
	return false
}

// synchronize recovers from a syntax error: on an unexpected token
// inside a statement or declaration, skip to the next
// top-level declaration boundary or a matching closing brace, so one
// diagnostic is emitted per synchronized region rather than a cascade.
func (p *Parser) synchronize() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.curTok.Kind {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			if depth == 0 {
				p.next()
				return
			}
			depth--
		case token.SEMICOLON:
			if depth == 0 {
				p.next()
				return
			}
		}
		p.next()
	}
}

// ParseProgram is the main entry point: it parses a sequence of
// top-level declarations until EOF. It returns (program, true) on a
// clean parse and (partial-but-discarded, false) —,
// "never emit a partial AST past a fatal syntax error" — if any syntax
// error was recorded; callers should treat a false result as "do not
// proceed to analysis".
func (p *Parser) ParseProgram() (*ast.Program, bool) {
	prog := &ast.Program{}
	start := p.pos()
	for !p.at(token.EOF) {
		before := p.curTok
		d := p.parseTopLevelDecl()
		if d != nil {
			prog.Globals = append(prog.Globals, d)
		}
		if p.curTok.Kind == before.Kind && p.curTok.Pos == before.Pos {
			// parseTopLevelDecl made no progress; force it to avoid an
			// infinite loop on a token no production start-set matches.
			p.errorf(p.pos(), "unexpected token %s (%q)", p.curTok.Kind, p.curTok.Literal)
			p.synchronize()
		}
	}
	prog.Range = ast.Range{Pos: start, End: p.pos()}
	if p.failed {
		return prog, false
	}
	return prog, true
}

// parseTopLevelDecl dispatches on the current token to the
// declaration-kind production it introduces.
func (p *Parser) parseTopLevelDecl() ast.Decl {
	switch {
	case p.at(token.STRUCT):
		return p.parseStructDecl()
	case p.at(token.CBUFFER):
		return p.parseBufferDecl(false)
	case p.curTok.Kind == token.IDENT && p.curTok.Literal == "tbuffer":
		return p.parseBufferDecl(true)
	case p.curTok.Kind == token.IDENT && p.curTok.Literal == "typedef":
		return p.parseAliasDecl()
	case p.lbracketAttributeStart():
		attrs := p.parseAttributes()
		return p.parseFuncOrVarDecl(attrs)
	case p.isTypeStart():
		return p.parseFuncOrVarDecl(nil)
	case p.at(token.SEMICOLON):
		p.next()
		return nil
	default:
		return nil
	}
}

func (p *Parser) lbracketAttributeStart() bool {
	return p.at(token.LBRACKET)
}
