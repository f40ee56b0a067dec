package transform

import (
	"testing"

	"github.com/btouchard/shaderx/internal/compiler/analyzer"
	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/diag"
	"github.com/btouchard/shaderx/internal/compiler/ir"
	"github.com/btouchard/shaderx/internal/compiler/parser"
)

func analyzeAndMark(t *testing.T, src string) *ast.Program {
	t.Helper()
	var col diag.Collector
	prog, ok := parser.Parse("test.hlsl", src, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	if !analyzer.Analyze(prog, analyzer.Config{EntryPoint: "main", Target: ir.TargetFragment, OutputVersion: ir.GLSL450, Log: &col}) {
		t.Fatalf("analysis failed: %v", col.Reports)
	}
	NewReferenceAnalyzer(prog).Run()
	return prog
}

func TestFoldConstantsReducesLiteralArithmetic(t *testing.T) {
	prog := analyzeAndMark(t, `
float main() : SV_Target {
	float x = 1 + 2;
	return x;
}
`)
	FoldConstants(prog)

	main := findFunc(prog, "main")
	varStmt := main.Body.Stmts[0].(*ast.VarDeclStmt)
	lit, ok := varStmt.Decl.Initializer.(*ast.LiteralExpr)
	if !ok {
		t.Fatalf("expected the initializer to fold to a literal, got %T", varStmt.Decl.Initializer)
	}
	if lit.Value != "3" {
		t.Fatalf("expected 1 + 2 to fold to 3, got %q", lit.Value)
	}
}

func TestEliminateDeadCodeDropsConstantFalseBranch(t *testing.T) {
	prog := analyzeAndMark(t, `
float main() : SV_Target {
	if (false) {
		return 1;
	}
	return 0;
}
`)
	FoldConstants(prog)
	EliminateDeadCode(prog)

	main := findFunc(prog, "main")
	if len(main.Body.Stmts) != 1 {
		t.Fatalf("expected the dead if(false) branch to be elided entirely, got %d statements", len(main.Body.Stmts))
	}
	ret, ok := main.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected the surviving statement to be the `return 0`, got %T", main.Body.Stmts[0])
	}
	lit := ret.Value.(*ast.LiteralExpr)
	if lit.Value != "0" {
		t.Fatalf("expected `return 0` to survive, got return %q", lit.Value)
	}
}

func TestEliminateDeadCodeKeepsLiveBranchOfConstantTrue(t *testing.T) {
	prog := analyzeAndMark(t, `
float main() : SV_Target {
	if (true) {
		return 1;
	} else {
		return 2;
	}
}
`)
	FoldConstants(prog)
	EliminateDeadCode(prog)

	main := findFunc(prog, "main")
	if len(main.Body.Stmts) != 1 {
		t.Fatalf("expected exactly the then-branch's statement to survive, got %d statements", len(main.Body.Stmts))
	}
	ret, ok := main.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected a ReturnStmt, got %T", main.Body.Stmts[0])
	}
	if ret.Value.(*ast.LiteralExpr).Value != "1" {
		t.Fatalf("expected `return 1` from the true branch, got return %q", ret.Value.(*ast.LiteralExpr).Value)
	}
}

func TestEliminateDeadCodeLeavesNonConstantIfAlone(t *testing.T) {
	prog := analyzeAndMark(t, `
float main(float a) : SV_Target {
	if (a > 0) {
		return 1;
	}
	return 0;
}
`)
	FoldConstants(prog)
	EliminateDeadCode(prog)

	main := findFunc(prog, "main")
	if len(main.Body.Stmts) != 2 {
		t.Fatalf("expected the non-constant if to survive alongside the trailing return, got %d statements", len(main.Body.Stmts))
	}
	if _, ok := main.Body.Stmts[0].(*ast.IfStmt); !ok {
		t.Fatalf("expected the first statement to remain an IfStmt, got %T", main.Body.Stmts[0])
	}
}
