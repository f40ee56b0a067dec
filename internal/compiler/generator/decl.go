package generator

import (
	"strconv"
	"strings"

	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/transform"
)

// emitStruct renders a nominal struct declaration. Structs classified
// ast.FlagIsEntryIOStruct by transform.MarkEntryIOStructs never reach
// here (the generator's caller filters them out): their fields were
// already flattened into entry-point IO globals
// StructParameterAnalyzer note ("only [structs used for purposes other
// than entry-point IO] survive as nominal types in the output").
func (g *Generator) emitStruct(d *ast.StructDecl) {
	g.w.writef("struct %s {", d.Name)
	g.w.open()
	for _, f := range d.Fields {
		g.w.writef("%s;", g.fieldSpec(f))
	}
	g.w.close()
	g.w.writef("};")
}

// emitBuffer renders a cbuffer as a GLSL/VKSL uniform block (ESSL and
// GLSL both support std140-style named uniform blocks), carrying a
// row_major qualifier under Config.RowMajor and a binding slot when
// collectBindings assigned one; the HLSL re-emitter keeps the cbuffer
// spelling and its register() decorator instead. A tbuffer (texture
// buffer, IsTextureBuffer) forwards its fields to `samplerBuffer`
// declarations, since a tbuffer is a read-only texel buffer, not a
// memory layout block.
func (g *Generator) emitBuffer(d *ast.BufferDecl) {
	if !g.cfg.Version.IsGLSLFamily() {
		head := "cbuffer " + d.Name
		if d.IsTextureBuffer {
			head = "tbuffer " + d.Name
		}
		if d.Register != nil {
			head += " : register(" + registerSpelling(d.Register) + ")"
		}
		g.w.writef("%s {", head)
		g.w.open()
		for _, f := range d.Fields {
			g.w.writef("%s;", g.fieldSpec(f))
		}
		g.w.close()
		g.w.writef("};")
		return
	}
	if d.IsTextureBuffer {
		for _, f := range d.Fields {
			g.w.writef("uniform samplerBuffer %s;", g.emitIdentName(f.Name))
		}
		return
	}
	qualifiers := "std140"
	if g.cfg.RowMajor {
		qualifiers += ", row_major"
	}
	if slot, ok := g.bindingSlots[d]; ok {
		qualifiers += ", binding = " + strconv.Itoa(slot)
	}
	g.w.writef("layout(%s) uniform %s {", qualifiers, d.Name)
	g.w.open()
	for _, f := range d.Fields {
		g.w.writef("%s;", g.fieldSpec(f))
	}
	g.w.close()
	g.w.writef("};")
}

// emitObject renders a top-level texture/sampler object declaration.
// The HLSL re-emitter keeps the declaration as written, register()
// decorator included. GLSL has no separate SamplerState object
// (sampler state is bound to
// the sampler* type itself), so a bare SamplerState/SamplerComparisonState
// ObjectDecl with no matching combined-texture use emits nothing; this
// generator only ever reaches ObjectDecls of BufferType in practice,
// since ReferenceAnalyzer only marks a SamplerType object reachable
// when something in the body actually names it (documented
// simplification: combined texture+sampler folding into one GLSL
// sampler* uniform is not modeled beyond the Texture*D case already
// handled by typeName's BufferType mapping).
func (g *Generator) emitObject(d *ast.ObjectDecl) {
	if !g.cfg.Version.IsGLSLFamily() {
		line := g.typeName(d.Type) + " " + d.Name
		if d.Register != nil {
			line += " : register(" + registerSpelling(d.Register) + ")"
		}
		g.w.writef("%s;", line)
		return
	}
	if _, ok := d.Type.(*ast.SamplerType); ok {
		return
	}
	line := "uniform " + g.typeName(d.Type) + " " + g.emitIdentName(d.Name) + ";"
	if slot, ok := g.bindingSlots[d]; ok {
		line = "layout(binding = " + strconv.Itoa(slot) + ") " + line
	}
	g.w.writef("%s", line)
}

// registerSpelling renders an explicit register() decorator's argument
// list back to its HLSL form, e.g. "t0" or "b2, space1".
func registerSpelling(r *ast.RegisterSpec) string {
	s := string(r.Kind) + strconv.Itoa(r.Slot)
	if r.Space > 0 {
		s += ", space" + strconv.Itoa(r.Space)
	}
	return s
}

// emitGlobalVar renders a reachable non-buffer-field global variable.
// `static`/`uniform` HLSL storage is collapsed: a `static` or `const`
// global (the parser flags both ast.FlagIsImmutable) becomes a plain
// GLSL `const`, everything else becomes `uniform` (HLSL's implicit
// global-variable storage class outside a cbuffer).
func (g *Generator) emitGlobalVar(d *ast.VarDecl) {
	qualifier := "uniform"
	if d.StorageClass == ast.StorageStatic || d.Flags().Has(ast.FlagIsImmutable) {
		qualifier = "const"
	}
	name := g.emitIdentName(d.Name)
	if d.Initializer != nil {
		g.w.writef("%s %s %s = %s;", qualifier, g.varTypeSpec(d), name, g.emitExpr(d.Initializer))
		return
	}
	g.w.writef("%s %s %s;", qualifier, g.varTypeSpec(d), name)
}

// fieldSpec renders a struct/cbuffer field's "Type[dims] name" form
// without a storage qualifier (fields never carry one in GLSL).
func (g *Generator) fieldSpec(f *ast.VarDecl) string {
	return g.varTypeSpec(f) + " " + g.emitIdentName(f.Name)
}

// varTypeSpec renders a declared type plus any array dimensions, the
// dimension suffix attached to the type (`Type[N]`); callers append the
// identifier after it, giving `Type[N] name`. An array initializer is
// rendered separately, by emitExpr (see emitInitializer).
func (g *Generator) varTypeSpec(d *ast.VarDecl) string {
	base := g.typeName(d.Type.Denoter)
	for _, dim := range d.Type.Dims {
		base += g.arrayDimSuffix(dim)
	}
	return base
}

func (g *Generator) arrayDimSuffix(dim *ast.ArrayDimension) string {
	if dim.Size == nil {
		return "[]"
	}
	return "[" + g.emitExpr(dim.Size) + "]"
}

// emitFunc renders a non-entry-point function declaration: its
// signature (using transform.EmittedName so an overload the
// FuncNameConverter disambiguated gets its mangled name) and body.
func (g *Generator) emitFunc(d *ast.FuncDecl) {
	if !d.Flags().Has(ast.FlagGenerated) {
		g.w.lineMark(d.Pos().Line, d.Pos().File)
	}
	params := make([]string, len(d.Params))
	for i, p := range d.Params {
		params[i] = g.paramSpec(p)
	}
	g.w.writef("%s %s(%s) {", g.typeName(d.ReturnType.Denoter), transform.EmittedName(d), strings.Join(params, ", "))
	g.w.open()
	if d.Body != nil {
		for _, s := range d.Body.Stmts {
			g.emitStmt(s)
		}
	}
	g.w.close()
	g.w.writef("}")
}

func (g *Generator) paramSpec(p *ast.ParamDecl) string {
	qualifier := ""
	switch p.StorageClass {
	case ast.StorageIn:
		qualifier = "in "
	case ast.StorageOut:
		qualifier = "out "
	case ast.StorageInout:
		qualifier = "inout "
	}
	spec := g.typeName(p.Type.Denoter)
	for _, dim := range p.Type.Dims {
		spec += g.arrayDimSuffix(dim)
	}
	return qualifier + spec + " " + g.emitIdentName(p.Name)
}
