package analyzer

import (
	"testing"

	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/diag"
	"github.com/btouchard/shaderx/internal/compiler/ir"
	"github.com/btouchard/shaderx/internal/compiler/parser"
)

func findFunc(prog *ast.Program, name string) *ast.FuncDecl {
	for _, g := range prog.Globals {
		if fn, ok := g.(*ast.FuncDecl); ok && fn.Name == name {
			return fn
		}
	}
	return nil
}

func TestAnalyzeBasicProgramTypeChecks(t *testing.T) {
	var col diag.Collector
	prog, ok := parser.Parse("test.hlsl", `
float4 tint;
float4 main(float4 pos : POSITION) : SV_Target {
	float4 c = pos * tint;
	return c;
}
`, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	legal := Analyze(prog, Config{EntryPoint: "main", Target: ir.TargetFragment, OutputVersion: ir.GLSL450, Log: &col})
	if !legal {
		t.Fatalf("expected legal program, got errors: %v", col.Reports)
	}
	if prog.EntryPoint == nil || prog.EntryPoint.Name != "main" {
		t.Fatalf("entry point not bound: %+v", prog.EntryPoint)
	}
}

func TestAnalyzeAmbiguousOverloadReported(t *testing.T) {
	var col diag.Collector
	prog, ok := parser.Parse("test.hlsl", `
float f(float a, int b) { return a; }
float f(int a, float b) { return b; }
float main() : SV_Target { return f(1, 1); }
`, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	legal := Analyze(prog, Config{EntryPoint: "main", Target: ir.TargetFragment, OutputVersion: ir.GLSL450, Log: &col})
	if legal {
		t.Fatalf("expected ambiguous overload to fail analysis")
	}
	if !col.HasErrors() {
		t.Fatalf("expected an error report")
	}
}

func TestAnalyzeUndeclaredIdentifier(t *testing.T) {
	var col diag.Collector
	prog, ok := parser.Parse("test.hlsl", `float main() : SV_Target { return missing; }`, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	if Analyze(prog, Config{EntryPoint: "main", Target: ir.TargetFragment, OutputVersion: ir.GLSL450, Log: &col}) {
		t.Fatalf("expected undeclared identifier to fail analysis")
	}
}

func TestAnalyzeNonReturnPathFlagged(t *testing.T) {
	var col diag.Collector
	prog, ok := parser.Parse("test.hlsl", `
float f(int n) {
	if (n > 0) {
		return 1;
	}
}
float main() : SV_Target { return f(1); }
`, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	Analyze(prog, Config{EntryPoint: "main", Target: ir.TargetFragment, OutputVersion: ir.GLSL450, Log: &col})
	fn := findFunc(prog, "f")
	if fn == nil || !fn.Flags().Has(ast.FlagHasNonReturnPath) {
		t.Fatalf("expected f to be flagged as having a non-return path")
	}
}

func TestAnalyzeDoubleRejectedOnLegacyESSL(t *testing.T) {
	var col diag.Collector
	prog, ok := parser.Parse("test.hlsl", `
double x;
float main() : SV_Target { return 0; }
`, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	if Analyze(prog, Config{EntryPoint: "main", Target: ir.TargetFragment, OutputVersion: ir.ESSL310, Log: &col}) {
		t.Fatalf("expected double-precision global to fail ESSL 3.1 analysis")
	}
}

func TestAnalyzeUnusedVariableWarningGatedByMask(t *testing.T) {
	src := `
float main() : SV_Target {
	float unused = 1;
	return 0;
}
`
	var quiet diag.Collector
	prog, ok := parser.Parse("test.hlsl", src, &quiet)
	if !ok {
		t.Fatalf("parse failed: %v", quiet.Reports)
	}
	if !Analyze(prog, Config{EntryPoint: "main", Target: ir.TargetFragment, OutputVersion: ir.GLSL450, Log: &quiet}) {
		t.Fatalf("analysis failed: %v", quiet.Reports)
	}
	for _, r := range quiet.Reports {
		if r.Severity == diag.Warning {
			t.Fatalf("expected no warnings with an empty mask, got: %v", r)
		}
	}

	var noisy diag.Collector
	prog2, _ := parser.Parse("test.hlsl", src, &noisy)
	if !Analyze(prog2, Config{EntryPoint: "main", Target: ir.TargetFragment, OutputVersion: ir.GLSL450, Warnings: ir.WarnUnusedVariable, Log: &noisy}) {
		t.Fatalf("analysis failed: %v", noisy.Reports)
	}
	sawWarning := false
	for _, r := range noisy.Reports {
		if r.Severity == diag.Warning {
			sawWarning = true
		}
	}
	if !sawWarning {
		t.Fatalf("expected an unused-variable warning with the mask set, got: %v", noisy.Reports)
	}
	if noisy.HasErrors() {
		t.Fatalf("warnings must not fail the compilation: %v", noisy.Reports)
	}
}

func TestAnalyzeComputeNumThreadsRecorded(t *testing.T) {
	var col diag.Collector
	prog, ok := parser.Parse("test.hlsl", `[numthreads(8, 4, 1)] void main() { }`, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	if !Analyze(prog, Config{EntryPoint: "main", Target: ir.TargetCompute, OutputVersion: ir.GLSL450, Log: &col}) {
		t.Fatalf("analysis failed: %v", col.Reports)
	}
	if prog.Stages.Compute.NumThreads != [3]int{8, 4, 1} {
		t.Fatalf("expected numthreads (8,4,1), got %v", prog.Stages.Compute.NumThreads)
	}
}

func TestAnalyzeFlattensStructEntryPointIO(t *testing.T) {
	var col diag.Collector
	prog, ok := parser.Parse("test.hlsl", `
struct VSOut { float4 pos : SV_Position; float2 uv : TEXCOORD0; };
VSOut main(float4 pos : POSITION) {
	VSOut o;
	o.pos = pos;
	o.uv = float2(0, 0);
	return o;
}
`, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	Analyze(prog, Config{EntryPoint: "main", Target: ir.TargetVertex, OutputVersion: ir.GLSL450, FlattenEntryPointIO: true, Log: &col})
	if prog.SecondaryEntryPoint == nil {
		t.Fatalf("expected a secondary entry point to be synthesized")
	}
	if len(prog.SecondaryEntryPoint.Params) != 3 {
		t.Fatalf("expected 1 input param + 2 flattened output params, got %d", len(prog.SecondaryEntryPoint.Params))
	}
}
