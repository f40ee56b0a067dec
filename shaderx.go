// Package shaderx is a source-to-source shader cross-compiler: it
// translates an HLSL-dialect program (Shader Model 3-5) into a GLSL/
// ESSL/VKSL target, or re-emits HLSL. This file wires the eleven
// pipeline components under internal/compiler into the single public
// entry point, CompileShader.
//
// The pipeline is strictly linear and synchronous: one
// call, no goroutines, no shared mutable state beyond the caller's own
// Log sink. Every stage communicates through ShaderInput/ShaderOutput
// and diag.Report; a failed stage aborts later stages but still
// delivers every diagnostic collected up to that point.
package shaderx

import (
	"fmt"
	"io"

	"github.com/btouchard/shaderx/internal/compiler/analyzer"
	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/diag"
	"github.com/btouchard/shaderx/internal/compiler/generator"
	"github.com/btouchard/shaderx/internal/compiler/ir"
	"github.com/btouchard/shaderx/internal/compiler/parser"
	"github.com/btouchard/shaderx/internal/compiler/preprocessor"
	"github.com/btouchard/shaderx/internal/compiler/reflection"
	"github.com/btouchard/shaderx/internal/compiler/transform"
)

// Re-export the cross-stage enums callers need to build a ShaderInput/
// ShaderOutput, so library users never have to import internal/compiler
// packages directly.
type (
	Target        = ir.Target
	Dialect       = ir.Dialect
	Version       = ir.Version
	WarningMask   = ir.WarningMask
	ExtensionMask = ir.ExtensionMask
	NameMangling  = ir.NameMangling
	Report        = diag.Report
	Severity      = diag.Severity
)

const (
	TargetUndefined   = ir.TargetUndefined
	TargetVertex      = ir.TargetVertex
	TargetTessControl = ir.TargetTessControl
	TargetTessEval    = ir.TargetTessEval
	TargetGeometry    = ir.TargetGeometry
	TargetFragment    = ir.TargetFragment
	TargetCompute     = ir.TargetCompute
)

const (
	DialectHLSL = ir.DialectHLSL
	DialectGLSL = ir.DialectGLSL
	DialectESSL = ir.DialectESSL
	DialectVKSL = ir.DialectVKSL
)

var (
	HLSL5   = ir.HLSL5
	GLSL450 = ir.GLSL450
	ESSL310 = ir.ESSL310
	VKSL450 = ir.VKSL450
)

const (
	Info    = diag.Info
	Warning = diag.Warning
	Error   = diag.Error
)

// IncludeHandler resolves a #include path to its contents.
// preprocessor.FileIncludeHandler
// is the os.ReadFile-backed implementation most callers want.
type IncludeHandler = preprocessor.IncludeHandler

// FileIncludeHandler is the straightforward file-system-backed
// IncludeHandler, re-exported so callers don't need the internal
// preprocessor package import just to construct one.
type FileIncludeHandler = preprocessor.FileIncludeHandler

// Log is the diagnostic sink every stage reports into.
type Log = diag.Log

// Formatting holds the code generator's output-shaping flags.
type Formatting struct {
	LineMarks          bool
	CompactWrappers    bool
	AlwaysBracedScopes bool
}

// Options is ShaderOutput's option set. The one cross-field
// constraint (autoBinding implies explicitBinding) is enforced by
// normalizing rather than rejecting.
type Options struct {
	PreprocessOnly    bool
	ValidateOnly      bool
	Optimize          bool
	PreserveComments  bool
	AllowExtensions   bool
	SeparateShaders   bool
	AutoBinding       bool
	ExplicitBinding   bool
	RowMajorAlignment bool
	ShowAST           bool
}

// normalize applies the autoBinding => explicitBinding constraint in
// place, returning the adjusted value.
func (o Options) normalize() Options {
	if o.AutoBinding {
		o.ExplicitBinding = true
	}
	return o
}

// ShaderInput describes one compilation's input.
type ShaderInput struct {
	Filename            string
	EntryPoint          string
	SecondaryEntryPoint string
	ShaderTarget        Target
	ShaderVersion       Version
	SourceCode          string
	IncludeHandler      IncludeHandler
	SearchPaths         []string
	Warnings            WarningMask
	Extensions          ExtensionMask
	// Defines seeds the preprocessor's macro table before the first
	// directive is read (CLI -D NAME=VALUE, or an engine's own build
	// configuration lowered to macros).
	Defines map[string]string
}

// ShaderOutput describes where and how one compilation's result is
// delivered. Sink receives the generated source text; it is never
// written to when Options.ValidateOnly is set.
type ShaderOutput struct {
	ShaderVersion     Version
	Sink              io.Writer
	Options           Options
	Formatting        Formatting
	NameMangling      NameMangling
	VertexSemantics   map[string]int
	FragmentSemantics map[string]int
}

// ReflectionInfo is the reflection summary, re-exported so
// callers don't need the internal/compiler/reflection import.
type ReflectionInfo = reflection.Info

// CompileShader is the single public entry point. It runs
// preprocess -> parse -> analyze -> transform -> (generate | validate)
// -> (reflect?), aborting at the first stage that fails,
// and returns whether the compilation succeeded. log and refl may both
// be nil; refl, when non-nil, is filled in even when analysis or code
// generation fails, but
// never on an earlier preprocess/parse failure, since there is no AST
// yet to reflect over.
func CompileShader(in ShaderInput, out *ShaderOutput, log Log, refl *ReflectionInfo) bool {
	if out == nil {
		diag.ArgumentErrorf(log, "ShaderOutput must not be nil")
		return false
	}
	if in.ShaderTarget == TargetUndefined {
		diag.ArgumentErrorf(log, "ShaderInput.shaderTarget must not be Undefined")
		return false
	}
	if err := out.NameMangling.Validate(); err != nil {
		diag.ArgumentErrorf(log, "%s", err)
		return false
	}
	opts := out.Options.normalize()

	pp := preprocessor.Run(in.Filename, in.SourceCode, preprocessor.Options{
		IncludeHandler: in.IncludeHandler,
		SearchPaths:    in.SearchPaths,
		Predefined:     in.Defines,
		PreprocessOnly: opts.PreprocessOnly,
		Log:            log,
	})
	if pp.Failed {
		return false
	}
	if opts.PreprocessOnly {
		return writeSink(out, opts, pp.Text)
	}

	prog, ok := parser.Parse(in.Filename, pp.Text, log)
	if !ok {
		return false
	}

	flatten := out.ShaderVersion.IsGLSLFamily()
	legal := analyzer.Analyze(prog, analyzer.Config{
		EntryPoint:          in.EntryPoint,
		SecondaryEntryPoint: in.SecondaryEntryPoint,
		Target:              in.ShaderTarget,
		InputVersion:        in.ShaderVersion,
		OutputVersion:       out.ShaderVersion,
		Warnings:            in.Warnings,
		FlattenEntryPointIO: flatten,
		Log:                 log,
	})

	// Reachability marking runs even when analysis itself failed (e.g. a
	// target-legality rejection), since reflection.Extract only reports
	// declarations flagged ast.FlagReachable; skipping this on a failed
	// Analyze would make refl silently empty instead of still describing
	// what the illegal program would have bound.
	transform.NewReferenceAnalyzer(prog).Run()

	if !legal {
		if refl != nil {
			*refl = *reflection.Extract(prog, in.ShaderTarget, pp.DefinedMacros, opts.AutoBinding)
		}
		return false
	}

	if opts.Optimize {
		transform.FoldConstants(prog)
		transform.EliminateDeadCode(prog)
	}
	// The dialect-conversion rewrites only apply when the output dialect
	// actually differs from the input's: the HLSL re-emitter keeps mul()
	// call order, function overloads, and entry-IO structs as written.
	if flatten {
		transform.MarkEntryIOStructs(prog)
		transform.ConvertExprs(prog)
		transform.ConvertTypes(prog)
		transform.ConvertFuncNames(prog, out.NameMangling)
	}

	if refl != nil {
		*refl = *reflection.Extract(prog, in.ShaderTarget, pp.DefinedMacros, opts.AutoBinding)
	}

	if opts.ValidateOnly {
		return true
	}

	if opts.ShowAST {
		return writeSink(out, opts, ast.Dump(prog))
	}

	src, ok := generator.Generate(prog, generator.Config{
		Target:             in.ShaderTarget,
		Version:            out.ShaderVersion,
		Mangling:           out.NameMangling,
		LineMarks:          out.Formatting.LineMarks,
		CompactWrappers:    out.Formatting.CompactWrappers,
		AlwaysBracedScopes: out.Formatting.AlwaysBracedScopes,
		PreserveComments:   opts.PreserveComments,
		AllowExtensions:    opts.AllowExtensions,
		ExplicitBinding:    opts.ExplicitBinding,
		AutoBinding:        opts.AutoBinding,
		RowMajor:           opts.RowMajorAlignment,
		VertexSemantics:    out.VertexSemantics,
		FragmentSemantics:  out.FragmentSemantics,
		Log:                log,
	})
	if !ok {
		return false
	}
	return writeSink(out, opts, src)
}

// writeSink writes src to out.Sink unless Options.ValidateOnly is set,
// in which case the sink receives zero bytes regardless of success
//.
func writeSink(out *ShaderOutput, opts Options, src string) bool {
	if opts.ValidateOnly {
		return true
	}
	if out.Sink == nil {
		return true
	}
	if _, err := io.WriteString(out.Sink, src); err != nil {
		return false
	}
	return true
}

// DefaultOutputFilename builds the "<input-stem>.<entry>.<ext>"
// filename used when the caller does not name one.
func DefaultOutputFilename(inputStem, entryPoint string, target Target) string {
	return fmt.Sprintf("%s.%s.%s", inputStem, entryPoint, target.FileExt())
}
