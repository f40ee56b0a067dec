// Package analyzer implements the semantic analyzer: a single
// decorated traversal of the Program that builds symbol
// tables, resolves names and overloads, computes type denoters,
// decorates the AST with back-references, and performs target-specific
// legality checks. A failed analysis still runs to completion, so
// every error in one compilation is reported in a single run; the
// false result then suppresses code generation.
package analyzer

import (
	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/diag"
	"github.com/btouchard/shaderx/internal/compiler/ir"
	"github.com/btouchard/shaderx/internal/compiler/symtab"
	"github.com/btouchard/shaderx/internal/compiler/token"
)

// Config narrows ShaderInput/ShaderOutput down to what the analyzer
// needs, so this package never depends on the root shaderx package
// (which depends on analyzer, not the other way around).
type Config struct {
	EntryPoint          string
	SecondaryEntryPoint string
	Target              ir.Target
	InputVersion        ir.Version
	OutputVersion       ir.Version
	Warnings            ir.WarningMask
	// FlattenEntryPointIO requests the IO-flattening wrapper entry
	// point for output dialects that cannot carry semantics on
	// parameters (the whole GLSL/ESSL/VKSL family).
	FlattenEntryPointIO bool
	Log                 diag.Log
}

// Analyzer holds the state threaded through one analysis run.
type Analyzer struct {
	prog    *ast.Program
	cfg     Config
	sym     *symtab.Table
	structs map[string]*ast.StructDecl
	aliases map[string]*ast.AliasDecl
	used    map[ast.Decl]bool
	failed  bool
}

// Analyze runs the full semantic analysis pass over prog and reports
// whether the program is legal. A false result suppresses code
// generation but leaves the decorated AST in place, so reflection can
// still describe what the illegal program would have bound.
func Analyze(prog *ast.Program, cfg Config) bool {
	a := &Analyzer{
		prog:    prog,
		cfg:     cfg,
		sym:     symtab.New(symtab.RejectOverride),
		structs: map[string]*ast.StructDecl{},
		aliases: map[string]*ast.AliasDecl{},
		used:    map[ast.Decl]bool{},
	}
	a.declareTypes()
	a.resolveTypeBodies()
	a.declareValues()
	a.analyzeBodies()
	a.warnUnusedLocals()
	a.processEntryPoint()
	for _, g := range prog.Globals {
		if fn, ok := g.(*ast.FuncDecl); ok && fn.Body != nil {
			computeNonReturnPath(fn)
		}
	}
	a.checkTargetLegality()
	return !a.failed
}

// declareTypes registers every struct and typedef name before any
// field or alias body is resolved, so forward references between
// global type declarations work regardless of declaration order.
func (a *Analyzer) declareTypes() {
	for _, g := range a.prog.Globals {
		switch d := g.(type) {
		case *ast.StructDecl:
			if _, exists := a.structs[d.Name]; exists {
				a.reportSemantic(d.Pos(), "redefinition of struct %q", d.Name)
				continue
			}
			a.structs[d.Name] = d
		case *ast.AliasDecl:
			if _, exists := a.aliases[d.Name]; exists {
				a.reportSemantic(d.Pos(), "redefinition of type alias %q", d.Name)
				continue
			}
			a.aliases[d.Name] = d
		}
	}
}

// resolveTypeBodies resolves every BaseType{Name: "UserType"} produced
// by the parser (which has no notion of which identifiers name structs
// vs. aliases) into a concrete StructType or AliasType denoter, for
// struct fields, typedef targets, and function/parameter/variable
// declared types.
func (a *Analyzer) resolveTypeBodies() {
	for _, g := range a.prog.Globals {
		switch d := g.(type) {
		case *ast.StructDecl:
			for _, f := range d.Fields {
				f.Type.Denoter = a.resolveDenoter(f.Type.Denoter, f.Pos())
			}
		case *ast.AliasDecl:
			d.Type.Denoter = a.resolveDenoter(d.Type.Denoter, d.Pos())
		case *ast.BufferDecl:
			for _, f := range d.Fields {
				f.Type.Denoter = a.resolveDenoter(f.Type.Denoter, f.Pos())
			}
		case *ast.VarDecl:
			d.Type.Denoter = a.resolveDenoter(d.Type.Denoter, d.Pos())
		case *ast.ObjectDecl:
			d.Type = a.resolveDenoter(d.Type, d.Pos())
		case *ast.FuncDecl:
			d.ReturnType.Denoter = a.resolveDenoter(d.ReturnType.Denoter, d.Pos())
			for _, p := range d.Params {
				p.Type.Denoter = a.resolveDenoter(p.Type.Denoter, p.Pos())
			}
		}
	}
}

func (a *Analyzer) resolveDenoter(t ast.TypeDenoter, pos token.Position) ast.TypeDenoter {
	switch d := t.(type) {
	case *ast.BaseType:
		if st, ok := a.structs[d.Name]; ok {
			return &ast.StructType{Decl: st}
		}
		if al, ok := a.aliases[d.Name]; ok {
			return &ast.AliasType{Name: d.Name, Aliased: al.Type.Denoter}
		}
		return d
	case *ast.BufferType:
		d.Elem = a.resolveDenoter(d.Elem, pos)
		return d
	case *ast.ArrayType:
		d.Elem = a.resolveDenoter(d.Elem, pos)
		return d
	default:
		return t
	}
}

// declareValues registers every global variable, object, buffer and
// function into the symbol table's global scope. Functions accumulate
// as overload sets (symtab.RegisterFunc); everything else is a single
// binding subject to the table's RejectOverride policy.
func (a *Analyzer) declareValues() {
	for _, g := range a.prog.Globals {
		switch d := g.(type) {
		case *ast.FuncDecl:
			a.sym.RegisterFunc(d)
		case *ast.VarDecl:
			if !a.sym.Register(d.Name, d) {
				a.reportSemantic(d.Pos(), "redefinition of %q", d.Name)
			}
		case *ast.ObjectDecl:
			if !a.sym.Register(d.Name, d) {
				a.reportSemantic(d.Pos(), "redefinition of %q", d.Name)
			}
		case *ast.BufferDecl:
			if !a.sym.Register(d.Name, d) {
				a.reportSemantic(d.Pos(), "redefinition of %q", d.Name)
			}
			for _, f := range d.Fields {
				// cbuffer fields are visible unqualified at global scope
				// in HLSL, as well as via the buffer's own name.
				a.sym.Register(f.Name, f)
			}
		}
	}
}

// analyzeBodies type-checks every global initializer and function
// body, binding names and computing type denoters bottom-up.
func (a *Analyzer) analyzeBodies() {
	for _, g := range a.prog.Globals {
		switch d := g.(type) {
		case *ast.VarDecl:
			if d.Initializer != nil {
				a.analyzeExpr(d.Initializer)
			}
		case *ast.FuncDecl:
			a.analyzeFunc(d)
		}
	}
}

func (a *Analyzer) analyzeFunc(fn *ast.FuncDecl) {
	if fn.Body == nil {
		return
	}
	a.sym.Open(symtab.ScopeFunction)
	defer a.sym.Close()
	for _, p := range fn.Params {
		if p.StorageClass == ast.StorageStatic {
			a.reportSemantic(p.Pos(), "parameter %q may not have storage class 'static'", p.Name)
		}
		if p.Name != "" {
			a.sym.Register(p.Name, p)
		}
		if p.Default != nil {
			a.analyzeExpr(p.Default)
		}
	}
	a.analyzeStmt(fn.Body)
}

func (a *Analyzer) reportSemantic(pos token.Position, format string, args ...interface{}) {
	a.failed = true
	diag.Errorf(a.cfg.Log, diag.PhaseSemantic, pos, format, args...)
}

// warnUnusedLocals reports a WarnUnusedVariable-class warning for each
// local variable and named parameter no expression ever resolved to,
// gated by ShaderInput's warnings bitmask. Warnings never fail the
// compilation.
func (a *Analyzer) warnUnusedLocals() {
	if a.cfg.Warnings&ir.WarnUnusedVariable == 0 {
		return
	}
	for _, g := range a.prog.Globals {
		fn, ok := g.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		for _, p := range fn.Params {
			if p.Name != "" && !a.used[p] {
				diag.Warnf(a.cfg.Log, diag.PhaseSemantic, p.Pos(), "unused parameter %q", p.Name)
			}
		}
		walkLocalDecls(fn.Body, func(v *ast.VarDecl) {
			if !a.used[v] {
				diag.Warnf(a.cfg.Log, diag.PhaseSemantic, v.Pos(), "unused variable %q", v.Name)
			}
		})
	}
}

// reportTarget records a TargetUnsupportedError: a legal input
// construct the chosen output dialect cannot express.
func (a *Analyzer) reportTarget(pos token.Position, format string, args ...interface{}) {
	a.failed = true
	diag.Errorf(a.cfg.Log, diag.PhaseTarget, pos, format, args...)
}
