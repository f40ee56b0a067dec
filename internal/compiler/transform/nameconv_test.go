package transform

import (
	"testing"

	"github.com/btouchard/shaderx/internal/compiler/analyzer"
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

func TestConvertFuncNamesDisambiguatesOverloads(t *testing.T) {
	var col diag.Collector
	prog, ok := parser.Parse("test.hlsl", `
float f(float a) { return a; }
float f(float a, float b) { return a + b; }
float main() : SV_Target { return f(1) + f(1, 2); }
`, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	if !analyzer.Analyze(prog, analyzer.Config{EntryPoint: "main", Target: ir.TargetFragment, OutputVersion: ir.GLSL450, Log: &col}) {
		t.Fatalf("analysis failed: %v", col.Reports)
	}
	NewReferenceAnalyzer(prog).Run()

	mangling := ir.NameMangling{Namespace: "sx_", ReservedWord: "r_", Temporary: "t_"}
	ConvertFuncNames(prog, mangling)

	var singleArg, twoArg *ast.FuncDecl
	for _, g := range prog.Globals {
		fn, ok := g.(*ast.FuncDecl)
		if !ok || fn.Name != "f" {
			continue
		}
		if len(fn.Params) == 1 {
			singleArg = fn
		} else {
			twoArg = fn
		}
	}
	if singleArg == nil || twoArg == nil {
		t.Fatalf("expected both overloads of f to be found")
	}
	if EmittedName(singleArg) != "sx_f" {
		t.Fatalf("expected the first overload to get the namespaced bare name, got %q", EmittedName(singleArg))
	}
	if EmittedName(twoArg) == EmittedName(singleArg) {
		t.Fatalf("expected the second overload to get a distinct name, got %q for both", EmittedName(twoArg))
	}
}

func TestConvertFuncNamesLeavesSoleFunctionUnmangled(t *testing.T) {
	var col diag.Collector
	prog, ok := parser.Parse("test.hlsl", `
float g(float a) { return a; }
float main() : SV_Target { return g(1); }
`, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	if !analyzer.Analyze(prog, analyzer.Config{EntryPoint: "main", Target: ir.TargetFragment, OutputVersion: ir.GLSL450, Log: &col}) {
		t.Fatalf("analysis failed: %v", col.Reports)
	}
	NewReferenceAnalyzer(prog).Run()
	ConvertFuncNames(prog, ir.NameMangling{ReservedWord: "r_", Temporary: "t_"})

	g := findFunc(prog, "g")
	if g == nil {
		t.Fatalf("expected to find g")
	}
	if EmittedName(g) != "g" {
		t.Fatalf("expected g to keep its bare name, got %q", EmittedName(g))
	}
}

func TestConvertFuncNamesRenamesEntryPointUnderWrapper(t *testing.T) {
	var col diag.Collector
	prog, ok := parser.Parse("test.hlsl", `float4 main() : SV_Target { return float4(1, 0, 0, 1); }`, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	if !analyzer.Analyze(prog, analyzer.Config{
		EntryPoint: "main", Target: ir.TargetFragment, OutputVersion: ir.GLSL450,
		FlattenEntryPointIO: true, Log: &col,
	}) {
		t.Fatalf("analysis failed: %v", col.Reports)
	}
	NewReferenceAnalyzer(prog).Run()
	ConvertFuncNames(prog, ir.NameMangling{ReservedWord: "r_", Temporary: "t_"})

	if prog.EntryPoint.MangledName == "" {
		t.Fatalf("expected the original entry point to be renamed once a wrapper exists")
	}
	if prog.EntryPoint.MangledName == prog.SecondaryEntryPoint.Name {
		t.Fatalf("expected the original entry point's new name to differ from the wrapper's")
	}
}
