// Package ir holds the small cross-stage enumerations (shader target
// stage, output dialect/version) that the analyzer, transformers,
// generator and reflection extractor all need to agree on, but that
// belong to none of them individually. Keeping them here (rather than
// in the root shaderx package) lets every internal stage depend
// downward on ir without the root package importing back into any one
// stage just to share a type.
package ir

import "fmt"

// Target is the shader pipeline stage a compilation targets
// (ShaderInput.shaderTarget).
type Target int

const (
	TargetUndefined Target = iota
	TargetVertex
	TargetTessControl
	TargetTessEval
	TargetGeometry
	TargetFragment
	TargetCompute
)

func (t Target) String() string {
	switch t {
	case TargetVertex:
		return "vertex"
	case TargetTessControl:
		return "tess-control"
	case TargetTessEval:
		return "tess-eval"
	case TargetGeometry:
		return "geometry"
	case TargetFragment:
		return "fragment"
	case TargetCompute:
		return "compute"
	default:
		return "undefined"
	}
}

// FileExt returns the canonical per-stage output extension used by
// the default-output-filename rule.
func (t Target) FileExt() string {
	switch t {
	case TargetVertex:
		return "vert"
	case TargetTessControl:
		return "tesc"
	case TargetTessEval:
		return "tese"
	case TargetGeometry:
		return "geom"
	case TargetFragment:
		return "frag"
	case TargetCompute:
		return "comp"
	default:
		return "glsl"
	}
}

// Dialect is the family of shading language a Version belongs to.
type Dialect int

const (
	DialectHLSL Dialect = iota
	DialectGLSL
	DialectESSL
	DialectVKSL
)

func (d Dialect) String() string {
	switch d {
	case DialectHLSL:
		return "HLSL"
	case DialectGLSL:
		return "GLSL"
	case DialectESSL:
		return "ESSL"
	case DialectVKSL:
		return "VKSL"
	default:
		return "?"
	}
}

// Version names one input or output shading-language version, e.g.
// HLSL5, GLSL450, ESSL310, VKSL450.
type Version struct {
	Dialect Dialect
	Number  int // 5 for HLSL5; 450 for GLSL450/VKSL450; 310 for ESSL310
}

// IsInput reports whether this version belongs to the one supported
// input dialect (HLSL, Shader Model 3-5).
func (v Version) IsInput() bool { return v.Dialect == DialectHLSL }

// IsGLSLFamily reports whether v belongs to the GLSL/ESSL/VKSL output
// family that shares one base emitter.
func (v Version) IsGLSLFamily() bool {
	return v.Dialect == DialectGLSL || v.Dialect == DialectESSL || v.Dialect == DialectVKSL
}

func (v Version) String() string {
	return fmt.Sprintf("%s%d", v.Dialect, v.Number)
}

// SupportsDouble reports whether v's target legality allows
// double-precision scalars target-legality
// example ("double-precision on ESSL < 3.2").
func (v Version) SupportsDouble() bool {
	if v.Dialect == DialectESSL {
		return v.Number >= 320
	}
	return true
}

// HLSL5 and the GLSL-family version constants are the ShaderVersions
// callers most commonly want.
var (
	HLSL5   = Version{Dialect: DialectHLSL, Number: 5}
	GLSL450 = Version{Dialect: DialectGLSL, Number: 450}
	ESSL310 = Version{Dialect: DialectESSL, Number: 310}
	VKSL450 = Version{Dialect: DialectVKSL, Number: 450}
)

// WarningMask and ExtensionMask are the bitmask types behind
// ShaderInput.Warnings and ShaderInput.Extensions.
type WarningMask uint32

const (
	WarnUnusedVariable WarningMask = 1 << iota
	WarnImplicitTruncation
	WarnImplicitConversion
	WarnUnreachableCode
)

type ExtensionMask uint32

const (
	ExtGLExplicitArithmeticTypes ExtensionMask = 1 << iota
	ExtGLTextureShadowLod
)

// NameMangling holds ShaderOutput's renaming prefixes: four
// mandatory-role prefixes plus an optional namespace
// prefix applied ahead of every other one. transform.ConvertFuncNames
// uses Namespace/overload disambiguation; the generator uses Input/
// Output to name the global IO variables an entry-point-IO-flattened
// function needs, and ReservedWord to rename a user identifier that
// collides with a reserved word of the output dialect.
type NameMangling struct {
	Input        string
	Output       string
	ReservedWord string
	Temporary    string
	Namespace    string
}

// Validate enforces the NameMangling invariant: all five prefixes —
// the optional namespace included — must be pairwise distinct, and
// ReservedWord/Temporary must be non-empty (Input/Output/Namespace
// are allowed empty — many real shaders have no naming collision risk
// on their IO variables and want no namespace). A violation is an
// ArgumentError, raised before any stage runs.
func (m NameMangling) Validate() error {
	if m.ReservedWord == "" {
		return fmt.Errorf("nameMangling.reservedWord must not be empty")
	}
	if m.Temporary == "" {
		return fmt.Errorf("nameMangling.temporary must not be empty")
	}
	prefixes := []struct {
		name, value string
	}{
		{"input", m.Input}, {"output", m.Output},
		{"reservedWord", m.ReservedWord}, {"temporary", m.Temporary},
		{"namespace", m.Namespace},
	}
	for i := 0; i < len(prefixes); i++ {
		for j := i + 1; j < len(prefixes); j++ {
			if prefixes[i].value != "" && prefixes[i].value == prefixes[j].value {
				return fmt.Errorf("nameMangling prefixes must be pairwise distinct: %s and %s are both %q",
					prefixes[i].name, prefixes[j].name, prefixes[i].value)
			}
		}
	}
	return nil
}
