package parser

import (
	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/token"
)

// parseStructDecl parses `struct Name { fields... };` and registers
// Name in the lexical known-type-names set so later declarations can
// use it as a type.
func (p *Parser) parseStructDecl() ast.Decl {
	start := p.pos()
	p.next() // 'struct'
	name := p.curTok.Literal
	p.expect(token.IDENT)
	p.typeNames[name] = true
	decl := &ast.StructDecl{Base: ast.Base{Range: ast.Range{Pos: start}}, Name: name}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		decl.Fields = append(decl.Fields, p.parseFieldVarDecl())
	}
	p.expect(token.RBRACE)
	if p.at(token.SEMICOLON) {
		p.next()
	}
	decl.Range.End = p.pos()
	return decl
}

// parseFieldVarDecl parses one struct field or cbuffer field:
// `type name [: semantic] [<annotations>];`.
func (p *Parser) parseFieldVarDecl() *ast.VarDecl {
	start := p.pos()
	interp := p.parseInterpModifier()
	typ := p.parseTypeSpecifier()
	name := p.curTok.Literal
	p.expect(token.IDENT)
	v := &ast.VarDecl{Name: name, Type: typ, Interp: interp}
	if p.at(token.COLON) {
		p.next()
		switch p.curTok.Kind {
		case token.PACKOFFSET:
			v.PackOffset = p.parsePackOffset()
		case token.REGISTER:
			v.Register = p.parseRegister()
		default:
			sem := p.curTok.Literal
			p.next()
			base, idx := splitSemanticIndex(sem)
			v.Semantic = &ast.Semantic{Name: base, Index: idx}
		}
	}
	v.Annotations = p.parseAnnotations()
	if p.at(token.SEMICOLON) {
		p.next()
	}
	v.Range = ast.Range{Pos: start, End: p.pos()}
	return v
}

// parseBufferDecl parses `cbuffer Name [: register(...)] { fields };`
// or (isTextureBuffer) the `tbuffer` spelling.
func (p *Parser) parseBufferDecl(isTextureBuffer bool) ast.Decl {
	start := p.pos()
	p.next() // 'cbuffer' / 'tbuffer'
	name := p.curTok.Literal
	p.expect(token.IDENT)
	decl := &ast.BufferDecl{Name: name, IsTextureBuffer: isTextureBuffer}
	if p.at(token.COLON) {
		p.next()
		decl.Register = p.parseRegister()
	}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		decl.Fields = append(decl.Fields, p.parseFieldVarDecl())
	}
	p.expect(token.RBRACE)
	if p.at(token.SEMICOLON) {
		p.next()
	}
	decl.Range = ast.Range{Pos: start, End: p.pos()}
	return decl
}

// parseAliasDecl parses `typedef type Name;`.
func (p *Parser) parseAliasDecl() ast.Decl {
	start := p.pos()
	p.next() // 'typedef'
	typ := p.parseTypeSpecifier()
	name := p.curTok.Literal
	p.expect(token.IDENT)
	p.typeNames[name] = true
	if p.at(token.SEMICOLON) {
		p.next()
	}
	return &ast.AliasDecl{Base: ast.Base{Range: ast.Range{Pos: start, End: p.pos()}}, Name: name, Type: typ}
}

// parseFuncOrVarDecl parses the shared prefix of a top-level function
// or variable declaration — storage class, type, name — then
// dispatches on whether '(' follows the name.
func (p *Parser) parseFuncOrVarDecl(attrs []*ast.Attribute) ast.Decl {
	start := p.pos()
	storage := p.parseStorageClass()
	interp := p.parseInterpModifier()

	// Object declarations (textures, samplers, raw buffers) carry no
	// initializer and are recorded as ObjectDecl rather than VarDecl so
	// reflection can distinguish them without re-inspecting the type.
	if p.at(token.TYPE_NAME) && (bufferObjectKinds[p.curTok.Literal] || p.curTok.Literal == "sampler" || p.curTok.Literal == "SamplerState" || p.curTok.Literal == "SamplerComparisonState") {
		denoter := p.parseTypeDenoter()
		name := p.curTok.Literal
		p.expect(token.IDENT)
		obj := &ast.ObjectDecl{Name: name, Type: denoter}
		if p.at(token.COLON) {
			p.next()
			obj.Register = p.parseRegister()
		}
		if p.at(token.SEMICOLON) {
			p.next()
		}
		obj.Range = ast.Range{Pos: start, End: p.pos()}
		return obj
	}

	typ := p.parseTypeSpecifier()
	name := p.curTok.Literal
	p.expect(token.IDENT)

	if p.at(token.LPAREN) {
		return p.parseFuncDecl(start, attrs, storage, typ, name)
	}
	return p.parseVarDecl(start, storage, interp, typ, name)
}

func (p *Parser) parseVarDecl(start token.Position, storage ast.StorageClass, interp ast.InterpModifier, typ *ast.TypeSpecifier, name string) *ast.VarDecl {
	v := &ast.VarDecl{Name: name, Type: typ, StorageClass: storage, Interp: interp}
	if storage == ast.StorageConst || storage == ast.StorageStatic {
		v.Flags().Set(ast.FlagIsImmutable)
	}
	if p.at(token.COLON) {
		p.next()
		if p.curTok.Kind == token.REGISTER {
			v.Register = p.parseRegister()
		} else if p.curTok.Kind == token.PACKOFFSET {
			v.PackOffset = p.parsePackOffset()
		} else {
			name := p.curTok.Literal
			p.next()
			base, idx := splitSemanticIndex(name)
			v.Semantic = &ast.Semantic{Name: base, Index: idx}
		}
	}
	v.Annotations = p.parseAnnotations()
	if p.at(token.ASSIGN) {
		p.next()
		v.Initializer = p.parseAssignOrInitializer()
	}
	// Comma-separated declarator lists are not consumed here; the shaders
	// this compiler targets declare one identifier per statement, and a
	// stray trailing declarator is reported by the caller's synchronizer.
	if p.at(token.SEMICOLON) {
		p.next()
	}
	v.Range = ast.Range{Pos: start, End: p.pos()}
	return v
}

func (p *Parser) parseAssignOrInitializer() ast.Expr {
	if p.at(token.LBRACE) {
		return p.parseInitializerExpr()
	}
	return p.parseExpr()
}

func (p *Parser) parseInitializerExpr() ast.Expr {
	start := p.pos()
	p.next() // '{'
	init := &ast.InitializerExpr{}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		init.Elems = append(init.Elems, p.parseAssignOrInitializer())
		if p.at(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACE)
	init.Range = ast.Range{Pos: start, End: p.pos()}
	return init
}

func (p *Parser) parseFuncDecl(start token.Position, attrs []*ast.Attribute, storage ast.StorageClass, retType *ast.TypeSpecifier, name string) *ast.FuncDecl {
	fn := &ast.FuncDecl{Name: name, ReturnType: retType, Attributes: attrs}
	p.next() // '('
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		fn.Params = append(fn.Params, p.parseParamDecl())
		if p.at(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	fn.Semantic = p.parseSemantic()
	if p.at(token.SEMICOLON) {
		p.next() // prototype only, no body
	} else if p.at(token.LBRACE) {
		fn.Body = p.parseCodeBlock()
	} else {
		p.errorf(p.pos(), "expected '{' or ';' after function declarator, got %s", p.curTok.Kind)
		p.synchronize()
	}
	fn.Range = ast.Range{Pos: start, End: p.pos()}
	return fn
}

func (p *Parser) parseParamDecl() *ast.ParamDecl {
	start := p.pos()
	storage := p.parseStorageClass()
	interp := p.parseInterpModifier()
	typ := p.parseTypeSpecifier()
	name := ""
	if p.curTok.Kind == token.IDENT {
		name = p.curTok.Literal
		p.next()
	}
	param := &ast.ParamDecl{Name: name, Type: typ, StorageClass: storage, Interp: interp}
	param.Semantic = p.parseSemantic()
	if p.at(token.ASSIGN) {
		p.next()
		param.Default = p.parseExpr()
	}
	param.Range = ast.Range{Pos: start, End: p.pos()}
	return param
}
