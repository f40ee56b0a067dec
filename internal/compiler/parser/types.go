package parser

import (
	"strconv"

	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/token"
)

// isTypeStart decides the type-specifier-vs-expression-start
// ambiguity: the current token starts a type if it is a
// built-in TYPE_NAME, the STRUCT keyword (anonymous-struct-typed
// declarations are not supported, but `struct Foo x;` is), or an
// identifier already known to name a struct/typedef (the lexical
// "known type names" set, populated as those declarations are parsed).
func (p *Parser) isTypeStart() bool {
	if p.at(token.TYPE_NAME) {
		return true
	}
	if p.at(token.STRUCT) && p.peekTok.Kind == token.IDENT {
		return true
	}
	if p.curTok.Kind == token.IDENT && p.typeNames[p.curTok.Literal] {
		return true
	}
	return false
}

// parseTypeSpecifier parses a base denoter (built-in, struct name, or
// buffer/sampler object type with an optional generic argument) plus
// any trailing array dimensions.
func (p *Parser) parseTypeSpecifier() *ast.TypeSpecifier {
	start := p.pos()
	denoter := p.parseTypeDenoter()
	spec := &ast.TypeSpecifier{Denoter: denoter}
	for p.at(token.LBRACKET) {
		dim := p.parseArrayDimension()
		spec.Dims = append(spec.Dims, dim)
	}
	spec.Range = ast.Range{Pos: start, End: p.pos()}
	return spec
}

func (p *Parser) parseArrayDimension() *ast.ArrayDimension {
	start := p.pos()
	p.next() // '['
	dim := &ast.ArrayDimension{}
	if !p.at(token.RBRACKET) {
		dim.Size = p.parseExpr()
	}
	p.expect(token.RBRACKET)
	dim.Range = ast.Range{Pos: start, End: p.pos()}
	return dim
}

// bufferObjectKinds names the object-type keywords that may carry a
// `<Elem>` generic argument — the only context where `<` means a
// generic bracket rather than less-than.
var bufferObjectKinds = map[string]bool{
	"Texture1D": true, "Texture1DArray": true,
	"Texture2D": true, "Texture2DArray": true, "Texture2DMS": true,
	"Texture3D": true, "TextureCube": true, "TextureCubeArray": true,
	"Buffer": true, "RWBuffer": true,
	"RWTexture1D": true, "RWTexture2D": true, "RWTexture3D": true,
	"ConstantBuffer": true,
}

func (p *Parser) parseTypeDenoter() ast.TypeDenoter {
	switch {
	case p.curTok.Literal == "void" && p.at(token.TYPE_NAME):
		p.next()
		return &ast.VoidType{}
	case p.curTok.Literal == "sampler" || p.curTok.Literal == "SamplerState" || p.curTok.Literal == "SamplerComparisonState":
		kind := p.curTok.Literal
		p.next()
		return &ast.SamplerType{Kind: kind}
	case p.at(token.TYPE_NAME) && bufferObjectKinds[p.curTok.Literal]:
		kind := p.curTok.Literal
		p.next()
		var elem ast.TypeDenoter
		if p.at(token.LT) {
			p.next() // only legal here generic-bracket rule
			elem = p.parseTypeDenoter()
			p.expect(token.GT)
		}
		return &ast.BufferType{Kind: kind, Elem: elem}
	case p.at(token.TYPE_NAME):
		name := p.curTok.Literal
		p.next()
		return &ast.BaseType{Name: name}
	case p.at(token.STRUCT) && p.peekTok.Kind == token.IDENT:
		p.next()
		name := p.curTok.Literal
		p.next()
		return &ast.BaseType{Name: name}
	case p.curTok.Kind == token.IDENT:
		name := p.curTok.Literal
		p.next()
		return &ast.BaseType{Name: name}
	default:
		p.errorf(p.pos(), "expected type, got %s (%q)", p.curTok.Kind, p.curTok.Literal)
		p.next()
		return &ast.BaseType{Name: "<error>"}
	}
}

// parseSemantic parses a trailing `: NAME` or `: NAMEindex` semantic
// decorator, splitting a trailing numeric suffix into Semantic.Index
// the way HLSL's SV_Target0/TEXCOORD1 convention works.
func (p *Parser) parseSemantic() *ast.Semantic {
	if !p.at(token.COLON) {
		return nil
	}
	p.next()
	name := p.curTok.Literal
	p.next()
	base, idx := splitSemanticIndex(name)
	return &ast.Semantic{Name: base, Index: idx}
}

func splitSemanticIndex(name string) (string, int) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) || i == 0 {
		return name, 0
	}
	idx, err := strconv.Atoi(name[i:])
	if err != nil {
		return name, 0
	}
	return name[:i], idx
}

// parseRegister parses a `register(b0 [, space1])` decorator.
func (p *Parser) parseRegister() *ast.RegisterSpec {
	if !(p.at(token.REGISTER)) {
		return nil
	}
	p.next()
	p.expect(token.LPAREN)
	reg := &ast.RegisterSpec{}
	if p.curTok.Kind == token.IDENT && len(p.curTok.Literal) > 0 {
		reg.Kind = p.curTok.Literal[0]
		if n, err := strconv.Atoi(p.curTok.Literal[1:]); err == nil {
			reg.Slot = n
		}
		p.next()
	}
	if p.at(token.COMMA) {
		p.next()
		if p.curTok.Kind == token.IDENT {
			if n, err := strconv.Atoi(trimPrefix(p.curTok.Literal, "space")); err == nil {
				reg.Space = n
			}
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return reg
}

func trimPrefix(s, prefix string) string {
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}

// parsePackOffset parses a `packoffset(c0.y)` decorator.
func (p *Parser) parsePackOffset() *ast.PackOffset {
	if !(p.curTok.Kind == token.PACKOFFSET) {
		return nil
	}
	p.next()
	p.expect(token.LPAREN)
	po := &ast.PackOffset{}
	if p.curTok.Kind == token.IDENT {
		lit := p.curTok.Literal
		if n, err := strconv.Atoi(lit[1:]); err == nil {
			po.Offset = n
		}
		p.next()
		if p.at(token.DOT) {
			p.next()
			po.Component = p.curTok.Literal
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return po
}

// parseAnnotations parses a trailing `< name = value; ... >` block.
func (p *Parser) parseAnnotations() []*ast.Annotation {
	if !p.at(token.LT) {
		return nil
	}
	p.next()
	entries := map[string]string{}
	for !p.at(token.GT) && !p.at(token.EOF) {
		// skip a type specifier (e.g. `string UIName = "foo";`)
		if p.isTypeStart() {
			p.parseTypeDenoter()
		}
		name := p.curTok.Literal
		p.next()
		if p.at(token.ASSIGN) {
			p.next()
			entries[name] = p.curTok.Literal
			p.next()
		}
		if p.at(token.SEMICOLON) {
			p.next()
		}
	}
	p.expect(token.GT)
	return []*ast.Annotation{{Entries: entries}}
}

// parseAttributes parses zero or more `[name(args...)]` bracketed
// attributes preceding a function or statement.
func (p *Parser) parseAttributes() []*ast.Attribute {
	var attrs []*ast.Attribute
	for p.at(token.LBRACKET) {
		p.next()
		a := &ast.Attribute{Name: p.curTok.Literal}
		p.next()
		if p.at(token.LPAREN) {
			p.next()
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				a.Args = append(a.Args, p.curTok.Literal)
				p.next()
				if p.at(token.COMMA) {
					p.next()
				}
			}
			p.expect(token.RPAREN)
		}
		p.expect(token.RBRACKET)
		attrs = append(attrs, a)
	}
	return attrs
}

func (p *Parser) parseStorageClass() ast.StorageClass {
	switch p.curTok.Kind {
	case token.STATIC:
		p.next()
		return ast.StorageStatic
	case token.CONST:
		p.next()
		return ast.StorageConst
	case token.UNIFORM:
		p.next()
		return ast.StorageUniform
	case token.IN:
		p.next()
		return ast.StorageIn
	case token.OUT:
		p.next()
		return ast.StorageOut
	case token.INOUT:
		p.next()
		return ast.StorageInout
	}
	return ast.StorageNone
}

func (p *Parser) parseInterpModifier() ast.InterpModifier {
	switch p.curTok.Kind {
	case token.LINEAR:
		p.next()
		return ast.InterpLinear
	case token.CENTROID:
		p.next()
		return ast.InterpCentroid
	case token.NOINTERP:
		p.next()
		return ast.InterpNoInterpolation
	}
	return ast.InterpDefault
}
