package generator

import (
	"strings"
	"testing"

	"github.com/btouchard/shaderx/internal/compiler/analyzer"
	"github.com/btouchard/shaderx/internal/compiler/diag"
	"github.com/btouchard/shaderx/internal/compiler/ir"
	"github.com/btouchard/shaderx/internal/compiler/parser"
	"github.com/btouchard/shaderx/internal/compiler/transform"
)

func compileToGLSL(t *testing.T, src string, cfg Config) string {
	t.Helper()
	var col diag.Collector
	prog, ok := parser.Parse("test.hlsl", src, &col)
	if !ok {
		t.Fatalf("parse failed: %v", col.Reports)
	}
	legal := analyzer.Analyze(prog, analyzer.Config{
		EntryPoint:          "main",
		Target:              cfg.Target,
		OutputVersion:       cfg.Version,
		FlattenEntryPointIO: cfg.Version.IsGLSLFamily(),
		Log:                 &col,
	})
	if !legal {
		t.Fatalf("analysis failed: %v", col.Reports)
	}
	transform.NewReferenceAnalyzer(prog).Run()
	if cfg.Version.IsGLSLFamily() {
		transform.MarkEntryIOStructs(prog)
		transform.ConvertExprs(prog)
		transform.ConvertTypes(prog)
		transform.ConvertFuncNames(prog, cfg.Mangling)
	}
	cfg.Log = &col
	out, ok := Generate(prog, cfg)
	if !ok {
		t.Fatalf("generation failed: %v", col.Reports)
	}
	return out
}

func defaultMangling() ir.NameMangling {
	return ir.NameMangling{ReservedWord: "r_", Temporary: "t_"}
}

func TestGenerateFlattenedFragmentReturn(t *testing.T) {
	out := compileToGLSL(t, `float4 main() : SV_Target { return float4(1, 0, 0, 1); }`, Config{
		Target: ir.TargetFragment, Version: ir.GLSL450, Mangling: defaultMangling(),
	})
	if !strings.Contains(out, "out vec4") {
		t.Fatalf("expected an out vec4 global, got:\n%s", out)
	}
	if !strings.Contains(out, "vec4(1.0f, 0.0f, 0.0f, 1.0f)") {
		t.Fatalf("expected the constructor call rewritten to its decimal-pointed GLSL spelling, got:\n%s", out)
	}
	if !strings.Contains(out, "void main() {") {
		t.Fatalf("expected a void main(), got:\n%s", out)
	}
	if !strings.Contains(out, "sv_target = main_Impl();") {
		t.Fatalf("expected the wrapper body to assign the call result to the output global, got:\n%s", out)
	}
}

func TestGenerateOverloadedFunctionsGetDistinctNames(t *testing.T) {
	out := compileToGLSL(t, `
float f(float a) { return a; }
float f(float a, float b) { return a + b; }
float main() : SV_Target { return f(1) + f(1, 2); }
`, Config{Target: ir.TargetFragment, Version: ir.GLSL450, Mangling: defaultMangling()})
	if !strings.Contains(out, "float f(") {
		t.Fatalf("expected the first overload to keep its bare name, got:\n%s", out)
	}
	if !strings.Contains(out, "float f_1(") {
		t.Fatalf("expected the second overload to get a mangled name, got:\n%s", out)
	}
}

func TestGenerateHLSLReemitPassesTypeSpellingsThrough(t *testing.T) {
	out := compileToGLSL(t, `float4 main() : SV_Target { return float4(0, 0, 0, 0); }`, Config{
		Target: ir.TargetFragment, Version: ir.HLSL5, Mangling: defaultMangling(),
	})
	if !strings.Contains(out, "float4 main(") {
		t.Fatalf("expected the HLSL re-emitter to keep the float4 spelling, got:\n%s", out)
	}
}

func TestGenerateDoubleExtensionOnLegacyGLSL(t *testing.T) {
	out := compileToGLSL(t, `
double x;
float main() : SV_Target { return (float)x; }
`, Config{Target: ir.TargetFragment, Version: ir.Version{Dialect: ir.DialectGLSL, Number: 330},
		Mangling: defaultMangling(), AllowExtensions: true})
	if !strings.Contains(out, "#extension GL_ARB_gpu_shader_fp64 : require") {
		t.Fatalf("expected a double-precision extension directive, got:\n%s", out)
	}
}

func TestGenerateReachableOnlyDeclarationsEmitted(t *testing.T) {
	out := compileToGLSL(t, `
float unused;
float used = 1;
float main() : SV_Target { return used; }
`, Config{Target: ir.TargetFragment, Version: ir.GLSL450, Mangling: defaultMangling()})
	if strings.Contains(out, "unused") {
		t.Fatalf("expected the unreferenced global to be dropped, got:\n%s", out)
	}
	if !strings.Contains(out, "used") {
		t.Fatalf("expected the referenced global to survive, got:\n%s", out)
	}
}

func TestGenerateAutoBindingEmitsLayoutQualifiers(t *testing.T) {
	out := compileToGLSL(t, `
Texture2D<float4> tex : register(t1);
SamplerState samp;
cbuffer C { float4 tint; };
float4 main(float2 uv : TEXCOORD0) : SV_Target { return tex.Sample(samp, uv) * tint; }
`, Config{
		Target: ir.TargetFragment, Version: ir.GLSL450, Mangling: defaultMangling(),
		ExplicitBinding: true, AutoBinding: true,
	})
	if !strings.Contains(out, "layout(std140, binding = 0) uniform C {") {
		t.Fatalf("expected the unregistered cbuffer to get an auto-assigned binding, got:\n%s", out)
	}
	if !strings.Contains(out, "layout(binding = 1) uniform sampler2D tex;") {
		t.Fatalf("expected the texture's register(t1) slot as its binding, got:\n%s", out)
	}
}

func TestGenerateExplicitBindingSkipsUnregisteredDecls(t *testing.T) {
	out := compileToGLSL(t, `
cbuffer C { float4 tint; };
cbuffer D : register(b3) { float4 bias; };
float4 main() : SV_Target { return tint + bias; }
`, Config{
		Target: ir.TargetFragment, Version: ir.GLSL450, Mangling: defaultMangling(),
		ExplicitBinding: true,
	})
	if !strings.Contains(out, "layout(std140, binding = 3) uniform D {") {
		t.Fatalf("expected the register(b3) cbuffer to carry its binding, got:\n%s", out)
	}
	if !strings.Contains(out, "layout(std140) uniform C {") {
		t.Fatalf("expected the unregistered cbuffer to stay unqualified without autoBinding, got:\n%s", out)
	}
}

func TestGenerateRowMajorUniformBlock(t *testing.T) {
	out := compileToGLSL(t, `
cbuffer C { float4x4 world; };
float4 main() : SV_Target { return world[0]; }
`, Config{
		Target: ir.TargetFragment, Version: ir.GLSL450, Mangling: defaultMangling(),
		RowMajor: true,
	})
	if !strings.Contains(out, "layout(std140, row_major) uniform C {") {
		t.Fatalf("expected a row_major qualifier on the uniform block, got:\n%s", out)
	}
}

func TestGenerateFragmentSemanticTableLocation(t *testing.T) {
	out := compileToGLSL(t, `float4 main() : SV_Target { return float4(0, 0, 0, 0); }`, Config{
		Target: ir.TargetFragment, Version: ir.GLSL450, Mangling: defaultMangling(),
		FragmentSemantics: map[string]int{"SV_Target": 0},
	})
	if !strings.Contains(out, "layout(location = 0) out vec4 sv_target;") {
		t.Fatalf("expected the fragment semantic table to place the output at location 0, got:\n%s", out)
	}
}

func TestGenerateMangledReservedWordGlobal(t *testing.T) {
	out := compileToGLSL(t, `
float texture;
float main() : SV_Target { return texture; }
`, Config{Target: ir.TargetFragment, Version: ir.GLSL450, Mangling: defaultMangling()})
	if strings.Contains(out, "float texture;") {
		t.Fatalf("expected the reserved-word global to be renamed, got:\n%s", out)
	}
	if !strings.Contains(out, "r_texture") {
		t.Fatalf("expected the reserved-word rename prefix to appear, got:\n%s", out)
	}
}
