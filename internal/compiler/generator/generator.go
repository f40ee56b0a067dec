// Package generator renders a decorated, transformed AST as target
// source: a visitor that writes a well-formed snippet of the output
// dialect for each node, gated by reachability, through an indented
// writer. One Generator instance handles the whole GLSL/ESSL/VKSL
// family, plus a thin HLSL re-emitter. Emission never mutates the
// AST: every rewrite the output dialect needs (mul-order, broadcast
// casts, mangled names) already happened in the transform package
// before Generate runs; this package only renders what it is handed.
package generator

import (
	"sort"
	"strconv"
	"strings"

	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/diag"
	"github.com/btouchard/shaderx/internal/compiler/ir"
)

// Config narrows ShaderOutput down to what the generator needs: the
// chosen Version (and, via IsGLSLFamily, which naming/IO-lowering
// scheme to use), the output formatting flags, the binding options,
// the explicit semantic-to-location tables, and the NameMangling
// prefixes.
type Config struct {
	Target   ir.Target
	Version  ir.Version
	Mangling ir.NameMangling

	LineMarks          bool
	CompactWrappers    bool
	AlwaysBracedScopes bool
	PreserveComments   bool
	AllowExtensions    bool

	// ExplicitBinding emits layout(binding = N) qualifiers for
	// register()-decorated buffers and objects; AutoBinding (which
	// implies ExplicitBinding, normalized by the caller) additionally
	// assigns sequential slots to undecorated ones. RowMajor adds a
	// row_major qualifier to uniform blocks, matching HLSL's matrix
	// majority instead of GLSL's column-major default.
	ExplicitBinding bool
	AutoBinding     bool
	RowMajor        bool

	// VertexSemantics and FragmentSemantics map a semantic name (e.g.
	// "POSITION", "SV_Target0") to an explicit location for vertex
	// inputs and fragment outputs respectively.
	VertexSemantics   map[string]int
	FragmentSemantics map[string]int

	Log diag.Log
}

// reservedGLSLWords is the small set of identifiers this generator
// treats as colliding with the output dialect's reserved words or
// built-ins, renamed via Config.Mangling.ReservedWord. Not an
// exhaustive GLSL keyword list — only the names a shader author
// plausibly picks that would otherwise shadow a GLSL built-in.
var reservedGLSLWords = map[string]bool{
	"input": true, "output": true, "sample": true,
	"texture": true, "buffer": true, "discard": true,
}

// Generator holds the state threaded through one Generate call.
type Generator struct {
	cfg    Config
	w      *writer
	prog   *ast.Program
	mainFn *ast.FuncDecl

	ioNameByName  map[string]string
	retGlobalName string
	inEntryBody   bool
	bindingSlots  map[ast.Decl]int
}

// Generate walks prog (already decorated by analyzer.Analyze and the
// transform package) and renders target source. A false result means
// an internal invariant was violated (no entry point bound); every
// other defect in the input was already caught by the analyzer, so
// Generate itself only ever fails on that one invariant.
func Generate(prog *ast.Program, cfg Config) (string, bool) {
	g := &Generator{
		cfg:          cfg,
		w:            newWriter(cfg.LineMarks),
		prog:         prog,
		ioNameByName: map[string]string{},
		bindingSlots: map[ast.Decl]int{},
	}
	return g.run()
}

func (g *Generator) run() (string, bool) {
	if g.cfg.Version.IsGLSLFamily() && g.prog.SecondaryEntryPoint != nil {
		g.mainFn = g.prog.SecondaryEntryPoint
	} else {
		g.mainFn = g.prog.EntryPoint
	}
	if g.mainFn == nil {
		diag.Internalf(g.cfg.Log, nil, "generator: no entry point bound on Program")
		return "", false
	}
	flattened := g.mainFn.Flags().Has(ast.FlagIsSecondaryEntryPoint)
	if flattened {
		g.collectIONames()
	}
	g.collectBindings()

	g.emitExtensions()
	g.w.blank()

	for _, decl := range g.prog.Globals {
		if d, ok := decl.(*ast.StructDecl); ok &&
			d.Flags().Has(ast.FlagReachable) && !d.Flags().Has(ast.FlagIsEntryIOStruct) {
			g.emitStruct(d)
			g.w.blank()
		}
	}
	for _, decl := range g.prog.Globals {
		switch d := decl.(type) {
		case *ast.BufferDecl:
			if d.Flags().Has(ast.FlagReachable) {
				g.emitBuffer(d)
				g.w.blank()
			}
		case *ast.ObjectDecl:
			if d.Flags().Has(ast.FlagReachable) {
				g.emitObject(d)
			}
		}
	}
	g.w.blank()
	for _, decl := range g.prog.Globals {
		if v, ok := decl.(*ast.VarDecl); ok && v.Flags().Has(ast.FlagReachable) {
			g.emitGlobalVar(v)
		}
	}
	g.w.blank()
	if flattened {
		g.emitIOGlobals()
		g.w.blank()
	}
	for _, decl := range g.prog.Globals {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || !fn.Flags().Has(ast.FlagReachable) || fn == g.mainFn || fn.Body == nil {
			continue
		}
		g.emitFunc(fn)
		g.w.blank()
	}
	g.emitEntryFunc()
	return g.w.String(), true
}

// mangleGlobal applies the reserved-word rename first (a name can't
// simultaneously collide with a reserved word and need an IO prefix
// escaped twice), then the requested role prefix.
func (g *Generator) mangleGlobal(prefix, name string) string {
	if reservedGLSLWords[name] {
		name = g.cfg.Mangling.ReservedWord + name
	}
	return prefix + name
}

// collectBindings assigns a layout(binding = N) slot to each reachable
// buffer and object declaration: the register() slot when the source
// spelled one, or (under AutoBinding) the next free slot in that
// declaration kind's sequence. The per-kind counters advance past
// explicitly bound declarations too, so an explicit slot still
// occupies a position in the sequential assignment of the rest,
// mirroring reflection's slot assignment.
func (g *Generator) collectBindings() {
	if !g.cfg.ExplicitBinding || !g.cfg.Version.IsGLSLFamily() {
		return
	}
	var nextTexture, nextSampler, nextBuffer int
	for _, decl := range g.prog.Globals {
		if !decl.Flags().Has(ast.FlagReachable) {
			continue
		}
		switch d := decl.(type) {
		case *ast.ObjectDecl:
			next := &nextTexture
			if _, ok := d.Type.(*ast.SamplerType); ok {
				next = &nextSampler
			}
			if d.Register != nil {
				g.bindingSlots[d] = d.Register.Slot
			} else if g.cfg.AutoBinding {
				g.bindingSlots[d] = *next
			}
			*next++
		case *ast.BufferDecl:
			if d.Register != nil {
				g.bindingSlots[d] = d.Register.Slot
			} else if g.cfg.AutoBinding {
				g.bindingSlots[d] = nextBuffer
			}
			nextBuffer++
		}
	}
}

// ioLocation looks up the explicit location the caller's semantic
// tables assign to sem: VertexSemantics for vertex-stage inputs,
// FragmentSemantics for fragment-stage outputs. Indexed spellings
// ("SV_Target0") are tried before the bare name.
func (g *Generator) ioLocation(sem *ast.Semantic, isOutput bool) (int, bool) {
	if sem == nil {
		return 0, false
	}
	var table map[string]int
	if isOutput {
		if g.cfg.Target == ir.TargetFragment {
			table = g.cfg.FragmentSemantics
		}
	} else if g.cfg.Target == ir.TargetVertex {
		table = g.cfg.VertexSemantics
	}
	if table == nil {
		return 0, false
	}
	if loc, ok := table[semanticSpelling(sem)]; ok {
		return loc, true
	}
	loc, ok := table[sem.Name]
	return loc, ok
}

// collectIONames builds the wrapper-param-name -> emitted-global-name
// table for a flattened entry point: GLSL-family
// targets carry entry-point IO as global `in`/`out` variables rather
// than function parameters, since the dialect has no per-parameter
// semantics mechanism.
func (g *Generator) collectIONames() {
	for _, p := range g.mainFn.Params {
		if p.StorageClass == ast.StorageOut {
			g.ioNameByName[p.Name] = g.mangleGlobal(g.cfg.Mangling.Output, strings.TrimPrefix(p.Name, "out_"))
		} else {
			g.ioNameByName[p.Name] = g.mangleGlobal(g.cfg.Mangling.Input, p.Name)
		}
	}
	if _, void := ast.GetAliased(g.mainFn.ReturnType.Denoter).(*ast.VoidType); !void && g.mainFn.Semantic != nil {
		g.retGlobalName = g.mangleGlobal(g.cfg.Mangling.Output, strings.ToLower(g.mainFn.Semantic.Name))
	}
}

func (g *Generator) emitIOGlobals() {
	for _, p := range g.mainFn.Params {
		qualifier := "in"
		isOutput := p.StorageClass == ast.StorageOut
		if isOutput {
			qualifier = "out"
		}
		line := qualifier + " " + g.typeName(p.Type.Denoter) + " " + g.ioNameByName[p.Name] + ";"
		if loc, ok := g.ioLocation(p.Semantic, isOutput); ok {
			line = "layout(location = " + strconv.Itoa(loc) + ") " + line
		}
		g.w.writef("%s", line)
	}
	if g.retGlobalName != "" {
		line := "out " + g.typeName(g.mainFn.ReturnType.Denoter) + " " + g.retGlobalName + ";"
		if loc, ok := g.ioLocation(g.mainFn.Semantic, true); ok {
			line = "layout(location = " + strconv.Itoa(loc) + ") " + line
		}
		g.w.writef("%s", line)
	}
}

// emitEntryFunc renders the resolved entry point. A GLSL-family target
// always reaches this with the IO-flattened wrapper (g.mainFn ==
// prog.SecondaryEntryPoint) and renders it as the dialect's required
// `void main()`: a scalar/vector return bound to a
// semantic becomes an assignment to the semantic's global followed by a
// bare `return`, handled by emitStmt via g.retGlobalName. The HLSL
// re-emitter never flattens, so it renders the
// original signature — parameter and return semantics included —
// unchanged.
func (g *Generator) emitEntryFunc() {
	if !g.mainFn.Flags().Has(ast.FlagGenerated) {
		g.w.lineMark(g.mainFn.Pos().Line, g.mainFn.Pos().File)
	}
	if g.cfg.Version.IsGLSLFamily() {
		// CompactWrappers collapses a single-call wrapper body (the shape
		// a void entry point flattens to) onto one line.
		if g.cfg.CompactWrappers && g.mainFn.Body != nil && len(g.mainFn.Body.Stmts) == 1 {
			if es, ok := g.mainFn.Body.Stmts[0].(*ast.ExprStmt); ok {
				g.w.writef("void main() { %s; }", g.emitExpr(es.Expr))
				return
			}
		}
		g.w.writef("void main() {")
	} else {
		g.w.writef("%s", g.hlslEntrySignature())
	}
	g.w.open()
	g.inEntryBody = true
	if g.mainFn.Body != nil {
		for _, s := range g.mainFn.Body.Stmts {
			g.emitStmt(s)
		}
	}
	g.inEntryBody = false
	g.w.close()
	g.w.writef("}")
}

// hlslEntrySignature renders the entry point's original HLSL signature,
// including per-parameter and return semantics, for the re-emit target.
func (g *Generator) hlslEntrySignature() string {
	params := make([]string, len(g.mainFn.Params))
	for i, p := range g.mainFn.Params {
		spec := g.paramSpec(p)
		if p.Semantic != nil {
			spec += " : " + semanticSpelling(p.Semantic)
		}
		params[i] = spec
	}
	sig := g.typeName(g.mainFn.ReturnType.Denoter) + " " + g.mainFn.Name + "(" + strings.Join(params, ", ") + ")"
	if g.mainFn.Semantic != nil {
		sig += " : " + semanticSpelling(g.mainFn.Semantic)
	}
	return sig + " {"
}

func semanticSpelling(s *ast.Semantic) string {
	if s.Index == 0 {
		return s.Name
	}
	return s.Name + strconv.Itoa(s.Index)
}

// emitExtensions scans every reachable declared type for one that
// needs a `#extension` directive on the selected output version;
// gated by Config.AllowExtensions.
func (g *Generator) emitExtensions() {
	if !g.cfg.AllowExtensions || !g.cfg.Version.IsGLSLFamily() {
		return
	}
	seen := map[string]bool{}
	var exts []string
	note := func(t ast.TypeDenoter) {
		if t == nil {
			return
		}
		if ext := requiredExtension(t, g.cfg.Version); ext != "" && !seen[ext] {
			seen[ext] = true
			exts = append(exts, ext)
		}
	}
	for _, decl := range g.prog.Globals {
		switch d := decl.(type) {
		case *ast.VarDecl:
			if d.Flags().Has(ast.FlagReachable) {
				note(d.Type.Denoter)
			}
		case *ast.FuncDecl:
			if d.Flags().Has(ast.FlagReachable) {
				note(d.ReturnType.Denoter)
				for _, p := range d.Params {
					note(p.Type.Denoter)
				}
			}
		}
	}
	sort.Strings(exts)
	for _, e := range exts {
		g.w.writef("#extension %s : require", e)
	}
}

// emitIdentName resolves name through the IO-global rename table, the
// compiler-generated-temporary prefix (a leading underscore, the
// convention analyzer/entrypoint.go's flattening uses for `_result`),
// and the reserved-word escape, in that priority order.
func (g *Generator) emitIdentName(name string) string {
	if mapped, ok := g.ioNameByName[name]; ok {
		return mapped
	}
	if strings.HasPrefix(name, "_") {
		return g.cfg.Mangling.Temporary + strings.TrimPrefix(name, "_")
	}
	if reservedGLSLWords[name] {
		return g.cfg.Mangling.ReservedWord + name
	}
	return name
}
