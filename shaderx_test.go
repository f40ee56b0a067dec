package shaderx

import (
	"strings"
	"testing"

	"github.com/btouchard/shaderx/internal/compiler/diag"
)

func defaultMangling() NameMangling {
	return NameMangling{ReservedWord: "r_", Temporary: "t_"}
}

// A trivial fragment shader returning a constant color compiles to
// GLSL450 with an `out vec4` global assigned a decimal-pointed vec4
// constructor.
func TestFragmentConstantReturnToGLSL(t *testing.T) {
	var sink strings.Builder
	var col diag.Collector
	out := &ShaderOutput{
		ShaderVersion: GLSL450,
		Sink:          &sink,
		NameMangling:  defaultMangling(),
	}
	in := ShaderInput{
		Filename:      "s1.hlsl",
		EntryPoint:    "main",
		ShaderTarget:  TargetFragment,
		ShaderVersion: HLSL5,
		SourceCode:    `float4 main() : SV_Target { return float4(1, 0, 0, 1); }`,
	}
	if !CompileShader(in, out, &col, nil) {
		t.Fatalf("expected the fragment shader to compile, got: %v", col.Reports)
	}
	got := sink.String()
	if !strings.Contains(got, "void main()") {
		t.Fatalf("expected a void main(), got:\n%s", got)
	}
	if !strings.Contains(got, "out vec4") {
		t.Fatalf("expected an out vec4 global, got:\n%s", got)
	}
	if !strings.Contains(got, "vec4(1.0f, 0.0f, 0.0f, 1.0f)") {
		t.Fatalf("expected the literal constructor rewritten to GLSL decimal-pointed floats, got:\n%s", got)
	}
}

// validateOnly plus a syntax error returns false, logs at least one
// error, and never touches the sink.
func TestValidateOnlySyntaxErrorWritesNothing(t *testing.T) {
	var sink strings.Builder
	var col diag.Collector
	out := &ShaderOutput{
		ShaderVersion: GLSL450,
		Sink:          &sink,
		Options:       Options{ValidateOnly: true},
		NameMangling:  defaultMangling(),
	}
	in := ShaderInput{
		Filename:      "s5.hlsl",
		EntryPoint:    "main",
		ShaderTarget:  TargetFragment,
		ShaderVersion: HLSL5,
		SourceCode:    `float4 main() : SV_Target { return float4(1, 0, 0, 1`, // missing closing parens/semicolon
	}
	if CompileShader(in, out, &col, nil) {
		t.Fatalf("expected a syntax error to fail compilation")
	}
	if !col.HasErrors() {
		t.Fatalf("expected at least one error report")
	}
	if sink.Len() != 0 {
		t.Fatalf("expected validateOnly to leave the sink untouched, got %q", sink.String())
	}
}

// validateOnly never writes to the sink, regardless of compile
// success.
func TestValidateOnlyNeverWritesEvenOnSuccess(t *testing.T) {
	var sink strings.Builder
	var col diag.Collector
	out := &ShaderOutput{
		ShaderVersion: GLSL450,
		Sink:          &sink,
		Options:       Options{ValidateOnly: true},
		NameMangling:  defaultMangling(),
	}
	in := ShaderInput{
		Filename:      "s8.hlsl",
		EntryPoint:    "main",
		ShaderTarget:  TargetFragment,
		ShaderVersion: HLSL5,
		SourceCode:    `float4 main() : SV_Target { return float4(1, 0, 0, 1); }`,
	}
	if !CompileShader(in, out, &col, nil) {
		t.Fatalf("expected a legal program to validate successfully, got: %v", col.Reports)
	}
	if sink.Len() != 0 {
		t.Fatalf("expected validateOnly to leave the sink untouched even on success, got %q", sink.String())
	}
}

// autoBinding=true, explicitBinding=false normalizes to
// explicitBinding=true before compilation runs, and emission then
// includes generated layout qualifiers.
func TestAutoBindingImpliesExplicitBinding(t *testing.T) {
	opts := Options{AutoBinding: true, ExplicitBinding: false}.normalize()
	if !opts.ExplicitBinding {
		t.Fatalf("expected autoBinding to imply explicitBinding")
	}

	var sink strings.Builder
	var col diag.Collector
	out := &ShaderOutput{
		ShaderVersion: GLSL450,
		Sink:          &sink,
		Options:       Options{AutoBinding: true},
		NameMangling:  defaultMangling(),
	}
	in := ShaderInput{
		Filename:      "s6.hlsl",
		EntryPoint:    "main",
		ShaderTarget:  TargetFragment,
		ShaderVersion: HLSL5,
		SourceCode: `
cbuffer C { float4 tint; };
float4 main() : SV_Target { return tint; }
`,
	}
	if !CompileShader(in, out, &col, nil) {
		t.Fatalf("expected the cbuffer shader to compile, got: %v", col.Reports)
	}
	if !strings.Contains(sink.String(), "layout(std140, binding = 0) uniform C {") {
		t.Fatalf("expected autoBinding to emit a generated binding qualifier, got:\n%s", sink.String())
	}
}

// An undefined shader target is an ArgumentError raised before any
// stage runs.
func TestArgumentErrorOnUndefinedTarget(t *testing.T) {
	var col diag.Collector
	out := &ShaderOutput{ShaderVersion: GLSL450, NameMangling: defaultMangling()}
	in := ShaderInput{
		Filename:      "undef.hlsl",
		EntryPoint:    "main",
		ShaderTarget:  TargetUndefined,
		ShaderVersion: HLSL5,
		SourceCode:    `float4 main() : SV_Target { return float4(1, 0, 0, 1); }`,
	}
	if CompileShader(in, out, &col, nil) {
		t.Fatalf("expected TargetUndefined to fail as an ArgumentError")
	}
	reports := col.Reports
	if len(reports) != 1 || reports[0].Phase != diag.PhaseArgument {
		t.Fatalf("expected exactly one ArgumentError report, got: %v", reports)
	}
}

// Reflection still runs when analysis fails: a double-precision
// cbuffer field illegal on ESSL300 fails analysis, yet the reflection
// summary is still populated from the reachability-marked AST.
func TestReflectionStillRunsOnAnalysisFailure(t *testing.T) {
	var col diag.Collector
	out := &ShaderOutput{ShaderVersion: ESSL310, NameMangling: defaultMangling()}
	out.ShaderVersion.Number = 300
	var refl ReflectionInfo
	in := ShaderInput{
		Filename:      "fail.hlsl",
		EntryPoint:    "main",
		ShaderTarget:  TargetFragment,
		ShaderVersion: HLSL5,
		SourceCode: `
cbuffer C { float4 tint; double d; };
float4 main() : SV_Target { return tint; }
`,
	}
	if CompileShader(in, out, &col, &refl) {
		t.Fatalf("expected double precision on ESSL300 to fail target legality")
	}
	if len(refl.ConstantBuffers) != 1 || refl.ConstantBuffers[0].Name != "C" {
		t.Fatalf("expected reflection to still report cbuffer C despite the analysis failure, got: %+v", refl.ConstantBuffers)
	}
}

// A cbuffer referenced from the entry point shows up in reflection
// as one constant-buffer binding carrying its field names.
func TestReflectionReportsConstantBuffer(t *testing.T) {
	var sink strings.Builder
	var col diag.Collector
	var refl ReflectionInfo
	out := &ShaderOutput{
		ShaderVersion: GLSL450,
		Sink:          &sink,
		NameMangling:  defaultMangling(),
	}
	in := ShaderInput{
		Filename:      "s4.hlsl",
		EntryPoint:    "main",
		ShaderTarget:  TargetFragment,
		ShaderVersion: HLSL5,
		SourceCode: `
cbuffer C { float4 x; };
float4 main() : SV_Target { return x; }
`,
	}
	if !CompileShader(in, out, &col, &refl) {
		t.Fatalf("expected the cbuffer shader to compile, got: %v", col.Reports)
	}
	if len(refl.ConstantBuffers) != 1 {
		t.Fatalf("expected exactly one constant buffer, got: %+v", refl.ConstantBuffers)
	}
	cb := refl.ConstantBuffers[0]
	if cb.Name != "C" || len(cb.Fields) != 1 || cb.Fields[0] != "x" {
		t.Fatalf("expected cbuffer C containing x, got: %+v", cb)
	}
}

// A compute entry point's [numthreads] attribute reaches the
// reflection summary's entry-point layout record.
func TestComputeNumThreadsReflected(t *testing.T) {
	var sink strings.Builder
	var col diag.Collector
	var refl ReflectionInfo
	out := &ShaderOutput{
		ShaderVersion: GLSL450,
		Sink:          &sink,
		NameMangling:  defaultMangling(),
	}
	in := ShaderInput{
		Filename:      "cs.hlsl",
		EntryPoint:    "main",
		ShaderTarget:  TargetCompute,
		ShaderVersion: HLSL5,
		SourceCode:    `[numthreads(8, 4, 1)] void main() { }`,
	}
	if !CompileShader(in, out, &col, &refl) {
		t.Fatalf("expected the compute shader to compile, got: %v", col.Reports)
	}
	if refl.EntryPoint.NumThreads != [3]int{8, 4, 1} {
		t.Fatalf("expected numthreads (8,4,1) in reflection, got %v", refl.EntryPoint.NumThreads)
	}
}

// TestShowASTDumpsTreeInsteadOfSource covers Options.ShowAST: the sink
// receives ast.Dump's indented tree text rather than generated GLSL.
func TestShowASTDumpsTreeInsteadOfSource(t *testing.T) {
	var sink strings.Builder
	var col diag.Collector
	out := &ShaderOutput{
		ShaderVersion: GLSL450,
		Sink:          &sink,
		Options:       Options{ShowAST: true},
		NameMangling:  defaultMangling(),
	}
	in := ShaderInput{
		Filename:      "ast.hlsl",
		EntryPoint:    "main",
		ShaderTarget:  TargetFragment,
		ShaderVersion: HLSL5,
		SourceCode:    `float4 main() : SV_Target { return float4(1, 0, 0, 1); }`,
	}
	if !CompileShader(in, out, &col, nil) {
		t.Fatalf("expected showAST compilation to succeed, got: %v", col.Reports)
	}
	got := sink.String()
	if strings.Contains(got, "void main()") {
		t.Fatalf("expected an AST dump, not generated GLSL source, got:\n%s", got)
	}
	if !strings.Contains(got, "FuncDecl") {
		t.Fatalf("expected the dump to mention FuncDecl, got:\n%s", got)
	}
}

// For a trivial program, HLSL input compiled to HLSL
// output, then fed back in as input and compiled to HLSL again,
// produces byte-identical text both times.
func TestHLSLRoundTripIsByteIdentical(t *testing.T) {
	compileToHLSL := func(src string) string {
		var sink strings.Builder
		var col diag.Collector
		out := &ShaderOutput{
			ShaderVersion: HLSL5,
			Sink:          &sink,
			NameMangling:  defaultMangling(),
		}
		in := ShaderInput{
			Filename:      "round.hlsl",
			EntryPoint:    "main",
			ShaderTarget:  TargetFragment,
			ShaderVersion: HLSL5,
			SourceCode:    src,
		}
		if !CompileShader(in, out, &col, nil) {
			t.Fatalf("expected HLSL-to-HLSL compilation to succeed, got: %v", col.Reports)
		}
		return sink.String()
	}

	src := `float4 main() : SV_Target { return float4(1, 0, 0, 1); }`
	output1 := compileToHLSL(src)
	output2 := compileToHLSL(output1)
	if output1 != output2 {
		t.Fatalf("expected a byte-identical HLSL round trip, got:\n--- first ---\n%s\n--- second ---\n%s", output1, output2)
	}
}

func TestDefaultOutputFilename(t *testing.T) {
	got := DefaultOutputFilename("basic", "main", TargetFragment)
	if got != "basic.main.frag" {
		t.Fatalf("expected basic.main.frag, got %q", got)
	}
}
