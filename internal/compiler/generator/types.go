package generator

import (
	"strconv"
	"strings"

	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/ir"
)

// glslScalar maps an HLSL scalar base name to its GLSL spelling. "half"
// has no first-class GLSL equivalent below the mediump-qualifier
// extension this repo doesn't model, so it folds to "float" (the same
// simplification real GLSL transpilers of this shape make when no
// `GL_AMD_gpu_shader_half_float`-style extension was requested).
var glslScalar = map[string]string{
	"bool": "bool", "int": "int", "uint": "uint",
	"half": "float", "float": "float", "double": "double",
}

// vecPrefix maps an HLSL scalar base to the GLSL vector/matrix type
// prefix that base uses ("vec"/"ivec"/"uvec"/"bvec"/"dvec"/"mat"/
// "dmat").
var vecPrefix = map[string]string{
	"bool": "bvec", "int": "ivec", "uint": "uvec",
	"half": "vec", "float": "vec", "double": "dvec",
}

// typeName renders t in the generator's output dialect. The GLSL/ESSL/
// VKSL family shares one naming scheme;
// the HLSL re-emitter (output version HLSL) returns HLSL spellings
// unchanged, since it exists to round-trip HLSL back to HLSL.
func (g *Generator) typeName(t ast.TypeDenoter) string {
	t = ast.GetAliased(t)
	switch dt := t.(type) {
	case *ast.VoidType:
		return "void"
	case *ast.BaseType:
		if !g.cfg.Version.IsGLSLFamily() {
			return dt.Name
		}
		return glslBaseName(dt.Name)
	case *ast.StructType:
		if dt.Decl != nil {
			return dt.Decl.Name
		}
		return "struct"
	case *ast.BufferType:
		if !g.cfg.Version.IsGLSLFamily() {
			return dt.String()
		}
		return g.bufferTypeName(dt)
	case *ast.SamplerType:
		if !g.cfg.Version.IsGLSLFamily() {
			return dt.Kind
		}
		return "sampler"
	case *ast.ArrayType:
		return g.typeName(dt.Elem)
	default:
		return t.String()
	}
}

// glslBaseName converts a built-in HLSL scalar/vector/matrix spelling
// ("float4", "int2x3") to its GLSL equivalent ("vec4", "mat2x3"). Every
// matrix uses "mat" ("dmat" for double) whatever its base, so a
// bool/int/uint/half matrix is spelled as a float matrix. A name with no
// recognized scalar prefix is returned unchanged.
func glslBaseName(name string) string {
	for _, base := range []string{"double", "float", "half", "uint", "int", "bool"} {
		if !strings.HasPrefix(name, base) {
			continue
		}
		rest := name[len(base):]
		scalar := glslScalar[base]
		if rest == "" {
			return scalar
		}
		if i := strings.IndexByte(rest, 'x'); i > 0 {
			rows, c1 := rest[:i], rest[i+1:]
			matPrefix := "mat"
			if base == "double" {
				matPrefix = "dmat"
			}
			if rows == c1 {
				return matPrefix + rows
			}
			return matPrefix + rows + "x" + c1
		}
		return vecPrefix[base] + rest
	}
	return name
}

// bufferTypeName renders a Texture*/Buffer/RWTexture* HLSL object type
// as its GLSL sampler/image equivalent.
func (g *Generator) bufferTypeName(t *ast.BufferType) string {
	elemSuffix := ""
	if t.Elem != nil {
		if bt, ok := ast.GetAliased(t.Elem).(*ast.BaseType); ok {
			if base, _, _, ok := splitScalar(bt.Name); ok && (base == "int" || base == "uint") {
				elemSuffix = map[string]string{"int": "i", "uint": "u"}[base]
			}
		}
	}
	switch t.Kind {
	case "Texture1D":
		return elemSuffix + "sampler1D"
	case "Texture2D":
		return elemSuffix + "sampler2D"
	case "Texture2DArray":
		return elemSuffix + "sampler2DArray"
	case "Texture3D":
		return elemSuffix + "sampler3D"
	case "TextureCube":
		return elemSuffix + "samplerCube"
	case "RWTexture1D":
		return elemSuffix + "image1D"
	case "RWTexture2D":
		return elemSuffix + "image2D"
	case "RWTexture3D":
		return elemSuffix + "image3D"
	case "Buffer", "RWBuffer":
		return elemSuffix + "samplerBuffer"
	case "ConstantBuffer":
		if t.Elem != nil {
			return g.typeName(t.Elem)
		}
		return "uniform"
	default:
		return strings.ToLower(t.Kind)
	}
}

// splitScalar decodes a built-in scalar/vector/matrix name, mirroring
// vectorShape in transform/typeconv.go (kept local rather than shared,
// per this repo's "no cross-stage dependency beyond ir" rule for leaf
// parse helpers).
func splitScalar(name string) (base string, rows, cols int, ok bool) {
	for _, b := range []string{"double", "float", "half", "uint", "int", "bool"} {
		if !strings.HasPrefix(name, b) {
			continue
		}
		rest := name[len(b):]
		if rest == "" {
			return b, 1, 1, true
		}
		if i := strings.IndexByte(rest, 'x'); i > 0 {
			r, e1 := strconv.Atoi(rest[:i])
			c, e2 := strconv.Atoi(rest[i+1:])
			if e1 == nil && e2 == nil {
				return b, r, c, true
			}
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil {
			return b, n, 1, true
		}
	}
	return "", 0, 0, false
}

// requiredExtension reports the GLSL `#extension` string a type denoter
// needs on versions below its natively-supported floor, or "" if none
// is needed. Gated by Options.AllowExtensions in the caller.
func requiredExtension(t ast.TypeDenoter, v ir.Version) string {
	bt, ok := ast.GetAliased(t).(*ast.BaseType)
	if !ok {
		return ""
	}
	base, _, _, ok := splitScalar(bt.Name)
	if !ok {
		return ""
	}
	if base == "double" && v.Dialect == ir.DialectGLSL && v.Number < 400 {
		return "GL_ARB_gpu_shader_fp64"
	}
	return ""
}
