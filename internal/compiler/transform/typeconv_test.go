package transform

import (
	"testing"

	"github.com/btouchard/shaderx/internal/compiler/analyzer"
	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/diag"
	"github.com/btouchard/shaderx/internal/compiler/ir"
	"github.com/btouchard/shaderx/internal/compiler/parser"
)

func TestConvertTypesBroadcastsScalarInitializer(t *testing.T) {
	var col diag.Collector
	prog, ok := parser.Parse("test.hlsl", `
float3 tint = 0;
float main() : SV_Target { return tint.x; }
`, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	if !analyzer.Analyze(prog, analyzer.Config{EntryPoint: "main", Target: ir.TargetFragment, OutputVersion: ir.GLSL450, Log: &col}) {
		t.Fatalf("analysis failed: %v", col.Reports)
	}
	NewReferenceAnalyzer(prog).Run()
	ConvertTypes(prog)

	var tint *ast.VarDecl
	for _, g := range prog.Globals {
		if v, ok := g.(*ast.VarDecl); ok && v.Name == "tint" {
			tint = v
		}
	}
	if tint == nil {
		t.Fatalf("expected to find tint")
	}
	call, ok := tint.Initializer.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected the scalar initializer to be rewritten to a constructor call, got %T", tint.Initializer)
	}
	id, ok := call.Callee.(*ast.IdentExpr)
	if !ok || id.Name != "float3" {
		t.Fatalf("expected the constructor to be float3, got %+v", call.Callee)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected a single broadcast argument, got %d", len(call.Args))
	}
}

func TestConvertTypesLeavesMatchingShapeInitializerAlone(t *testing.T) {
	var col diag.Collector
	prog, ok := parser.Parse("test.hlsl", `
float3 tint = float3(1, 0, 0);
float main() : SV_Target { return tint.x; }
`, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	if !analyzer.Analyze(prog, analyzer.Config{EntryPoint: "main", Target: ir.TargetFragment, OutputVersion: ir.GLSL450, Log: &col}) {
		t.Fatalf("analysis failed: %v", col.Reports)
	}
	NewReferenceAnalyzer(prog).Run()

	var tint *ast.VarDecl
	for _, g := range prog.Globals {
		if v, ok := g.(*ast.VarDecl); ok && v.Name == "tint" {
			tint = v
		}
	}
	before := tint.Initializer
	ConvertTypes(prog)
	if tint.Initializer != before {
		t.Fatalf("expected an already-matching constructor call initializer to be left untouched")
	}
}
