package parser

import (
	"testing"

	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/diag"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	var col diag.Collector
	prog, ok := Parse("test.hlsl", src, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	return prog
}

func TestParseEntryPointFunction(t *testing.T) {
	prog := mustParse(t, `float4 main() : SV_Target { return float4(1,0,0,1); }`)
	if len(prog.Globals) != 1 {
		t.Fatalf("expected 1 global, got %d", len(prog.Globals))
	}
	fn, ok := prog.Globals[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", prog.Globals[0])
	}
	if fn.Name != "main" {
		t.Errorf("name = %q", fn.Name)
	}
	if fn.Semantic == nil || fn.Semantic.Name != "SV_Target" {
		t.Errorf("semantic = %+v", fn.Semantic)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Stmts))
	}
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected ReturnStmt, got %T", fn.Body.Stmts[0])
	}
	call, ok := ret.Value.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr, got %T", ret.Value)
	}
	if len(call.Args) != 4 {
		t.Errorf("expected 4 ctor args, got %d", len(call.Args))
	}
}

func TestParseCBuffer(t *testing.T) {
	prog := mustParse(t, `cbuffer C { float4 x; };`)
	buf, ok := prog.Globals[0].(*ast.BufferDecl)
	if !ok {
		t.Fatalf("expected BufferDecl, got %T", prog.Globals[0])
	}
	if buf.Name != "C" || len(buf.Fields) != 1 || buf.Fields[0].Name != "x" {
		t.Errorf("unexpected buffer decl: %+v", buf)
	}
}

func TestParseOverloadedFunctions(t *testing.T) {
	prog := mustParse(t, `float f(float x) { return x; } float f(int x) { return x; }`)
	if len(prog.Globals) != 2 {
		t.Fatalf("expected 2 globals, got %d", len(prog.Globals))
	}
	for _, g := range prog.Globals {
		fn := g.(*ast.FuncDecl)
		if fn.Name != "f" {
			t.Errorf("name = %q", fn.Name)
		}
	}
}

func TestParseStructAndTypedName(t *testing.T) {
	prog := mustParse(t, `
struct VertexOut { float4 pos : SV_Position; float2 uv : TEXCOORD0; };
VertexOut main() { VertexOut o; o.pos = float4(0,0,0,1); return o; }
`)
	if len(prog.Globals) != 2 {
		t.Fatalf("expected 2 globals, got %d", len(prog.Globals))
	}
	st := prog.Globals[0].(*ast.StructDecl)
	if len(st.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(st.Fields))
	}
	fn := prog.Globals[1].(*ast.FuncDecl)
	bt, ok := fn.ReturnType.Denoter.(*ast.BaseType)
	if !ok || bt.Name != "VertexOut" {
		t.Errorf("return type = %+v", fn.ReturnType.Denoter)
	}
}

func TestParseTexture2DGeneric(t *testing.T) {
	prog := mustParse(t, `Texture2D<float4> tex : register(t0); SamplerState samp : register(s0);`)
	obj := prog.Globals[0].(*ast.ObjectDecl)
	bt, ok := obj.Type.(*ast.BufferType)
	if !ok || bt.Kind != "Texture2D" {
		t.Fatalf("unexpected object type: %+v", obj.Type)
	}
	if obj.Register == nil || obj.Register.Kind != 't' || obj.Register.Slot != 0 {
		t.Errorf("register = %+v", obj.Register)
	}
}

func TestParseCastVsParen(t *testing.T) {
	prog := mustParse(t, `float f() { float x = (float)1; float y = (x + 1); return x + y; }`)
	fn := prog.Globals[0].(*ast.FuncDecl)
	s0 := fn.Body.Stmts[0].(*ast.VarDeclStmt)
	if _, ok := s0.Decl.Initializer.(*ast.CastExpr); !ok {
		t.Errorf("expected CastExpr, got %T", s0.Decl.Initializer)
	}
	s1 := fn.Body.Stmts[1].(*ast.VarDeclStmt)
	if _, ok := s1.Decl.Initializer.(*ast.BracketExpr); !ok {
		t.Errorf("expected BracketExpr, got %T", s1.Decl.Initializer)
	}
}

func TestParseControlFlow(t *testing.T) {
	prog := mustParse(t, `
float f(int n) {
	float sum = 0;
	for (int i = 0; i < n; i++) {
		if (i == 2) { continue; }
		if (i == 5) { break; }
		sum += i;
	}
	int j = 0;
	while (j < n) { j++; }
	do { j--; } while (j > 0);
	switch (n) {
	case 0:
		return 0;
	default:
		return sum;
	}
	return sum;
}
`)
	fn := prog.Globals[0].(*ast.FuncDecl)
	if len(fn.Body.Stmts) != 7 {
		t.Fatalf("expected 7 statements, got %d", len(fn.Body.Stmts))
	}
	if _, ok := fn.Body.Stmts[1].(*ast.ForStmt); !ok {
		t.Errorf("expected ForStmt, got %T", fn.Body.Stmts[1])
	}
	if _, ok := fn.Body.Stmts[3].(*ast.WhileStmt); !ok {
		t.Errorf("expected WhileStmt, got %T", fn.Body.Stmts[3])
	}
	if _, ok := fn.Body.Stmts[4].(*ast.DoWhileStmt); !ok {
		t.Errorf("expected DoWhileStmt, got %T", fn.Body.Stmts[4])
	}
	if _, ok := fn.Body.Stmts[5].(*ast.SwitchStmt); !ok {
		t.Errorf("expected SwitchStmt, got %T", fn.Body.Stmts[5])
	}
}

func TestParseSyntaxErrorNoPartialAST(t *testing.T) {
	var col diag.Collector
	_, ok := Parse("test.hlsl", `float f( { return 1; }`, &col)
	if ok {
		t.Fatalf("expected parse failure")
	}
	if !col.HasErrors() {
		t.Fatalf("expected at least one error report")
	}
}
