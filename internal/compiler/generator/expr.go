package generator

import (
	"strings"

	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/transform"
)

// emitExpr renders one expression as a string. Expressions nest
// arbitrarily deep but rarely span multiple output lines, so the
// generator builds them bottom-up as plain strings rather than writing
// through the indented writer directly (mirrored by emitStmt's callers,
// which always wrap a completed expression string in one writef call).
func (g *Generator) emitExpr(e ast.Expr) string {
	switch ex := e.(type) {
	case nil:
		return ""
	case *ast.LiteralExpr:
		return g.emitLiteral(ex)
	case *ast.SequenceExpr:
		parts := make([]string, len(ex.Elems))
		for i, el := range ex.Elems {
			parts[i] = g.emitExpr(el)
		}
		return strings.Join(parts, ", ")
	case *ast.BinaryExpr:
		return g.emitExpr(ex.Left) + " " + string(ex.Op) + " " + g.emitExpr(ex.Right)
	case *ast.UnaryExpr:
		return string(ex.Op) + g.emitExpr(ex.Operand)
	case *ast.PostUnaryExpr:
		return g.emitExpr(ex.Operand) + string(ex.Op)
	case *ast.TernaryExpr:
		return g.emitExpr(ex.Cond) + " ? " + g.emitExpr(ex.Then) + " : " + g.emitExpr(ex.Else)
	case *ast.CallExpr:
		return g.emitCall(ex)
	case *ast.BracketExpr:
		return "(" + g.emitExpr(ex.Inner) + ")"
	case *ast.IdentExpr:
		return g.emitIdentName(ex.Name)
	case *ast.MemberExpr:
		return g.emitExpr(ex.Receiver) + "." + ex.Member
	case *ast.IndexExpr:
		return g.emitExpr(ex.Receiver) + "[" + g.emitExpr(ex.Index) + "]"
	case *ast.CastExpr:
		return g.typeName(ex.Target.Denoter) + "(" + g.emitExpr(ex.Operand) + ")"
	case *ast.TypeSpecifierExpr:
		return g.typeName(ex.Spec.Denoter)
	case *ast.AssignExpr:
		return g.emitExpr(ex.Target) + " " + string(ex.Op) + " " + g.emitExpr(ex.Value)
	case *ast.InitializerExpr:
		return g.emitInitializer(ex)
	default:
		return ""
	}
}

// emitCall renders a function call or type-constructor invocation.
// ResolvedFunc is nil for every constructor call and set for every
// resolved user function (analyzer/bind.go's overload resolution binds
// it on every call it accepts), so that alone tells the two apart. A
// constructor's callee is either a TypeSpecifierExpr (the parser's
// spelling of `float4(...)`/a user struct constructor) or, after
// ConvertTypes rewrites a scalar initializer into a broadcast call, a
// plain IdentExpr naming the built-in type by its HLSL spelling. A
// resolved user function instead goes through transform.EmittedName so
// an overload-disambiguated name reaches the output.
func (g *Generator) emitCall(ex *ast.CallExpr) string {
	if ex.ResolvedFunc == nil {
		switch callee := ex.Callee.(type) {
		case *ast.TypeSpecifierExpr:
			return g.emitConstructorCall(g.typeName(callee.Spec.Denoter), isFloatFamilyDenoter(callee.Spec.Denoter) && g.cfg.Version.IsGLSLFamily(), ex.Args)
		case *ast.IdentExpr:
			base, _, _, ok := splitScalar(callee.Name)
			floatCtor := ok && g.cfg.Version.IsGLSLFamily() && (base == "float" || base == "half" || base == "double")
			name := callee.Name
			if g.cfg.Version.IsGLSLFamily() {
				name = glslBaseName(callee.Name)
			}
			return g.emitConstructorCall(name, floatCtor, ex.Args)
		}
	}
	args := make([]string, len(ex.Args))
	for i, a := range ex.Args {
		args[i] = g.emitExpr(a)
	}
	// A method-style call (tex.Sample(s, uv)) keeps a MemberExpr callee
	// with no ResolvedFunc — analyzer/bind.go's analyzeCall only binds
	// user-function overloads and constructor denoters, not built-in
	// object methods. Render the callee expression as written rather
	// than through transform.EmittedName, which only knows FuncDecls.
	callee := ex.ResolvedFunc
	if callee == nil {
		return g.emitExpr(ex.Callee) + "(" + strings.Join(args, ", ") + ")"
	}
	return transform.EmittedName(callee) + "(" + strings.Join(args, ", ") + ")"
}

// isFloatFamilyDenoter reports whether t's scalar base is float-like,
// gating the integer-literal-to-float promotion emitConstructorCall
// applies to a float/half/double constructor's arguments.
func isFloatFamilyDenoter(t ast.TypeDenoter) bool {
	bt, ok := ast.GetAliased(t).(*ast.BaseType)
	if !ok {
		return false
	}
	base, _, _, ok := splitScalar(bt.Name)
	return ok && (base == "float" || base == "half" || base == "double")
}

// emitConstructorCall renders a type-constructor invocation with its
// already-GLSL-spelled name. Every argument of a
// float/half/double-family constructor is spelled as a float literal
// even when its HLSL lexeme was a bare integer, since GLSL requires a
// decimal point (and, an `f` suffix) on every float
// literal regardless of how the value arrived. Struct constructors
// never need this coercion — their fields keep their own declared
// types, so each argument is just emitted as written.
func (g *Generator) emitConstructorCall(name string, floatCtor bool, args []ast.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if lit, ok := a.(*ast.LiteralExpr); ok && floatCtor && lit.Kind == "INT" {
			parts[i] = g.formatFloatLiteral(lit.Value)
			continue
		}
		parts[i] = g.emitExpr(a)
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// emitInitializer renders a brace aggregate initializer. When the
// analyzer recorded a type on the InitializerExpr, it is rendered as a
// GLSL array constructor call `Type[](1, 2, 3)` using that type's name;
// otherwise the brace form `{1, 2, 3}` is rendered unchanged. Callers
// (emitGlobalVar and local declarations) pass the initializer through
// emitExpr as is; the declared type of the variable is not consulted.
func (g *Generator) emitInitializer(ex *ast.InitializerExpr) string {
	parts := make([]string, len(ex.Elems))
	for i, el := range ex.Elems {
		parts[i] = g.emitExpr(el)
	}
	if ex.Type() != nil {
		return g.typeName(ex.Type()) + "[](" + strings.Join(parts, ", ") + ")"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// emitLiteral renders a numeric/string/char/bool literal in the output
// dialect's required spelling: a decimal point and an
// `f` suffix on every float literal (`1.0f` not `1`), and a `u` suffix
// on unsigned integers — none of which HLSL requires.
func (g *Generator) emitLiteral(ex *ast.LiteralExpr) string {
	switch ex.Kind {
	case "TRUE":
		return "true"
	case "FALSE":
		return "false"
	case "STRING":
		return "\"" + ex.Value + "\""
	case "CHAR":
		return "'" + ex.Value + "'"
	case "FLOAT":
		return g.formatFloatLiteral(ex.Value)
	case "INT":
		return g.formatIntLiteral(ex.Value, ex.Suffix)
	default:
		return ex.Value
	}
}

func (g *Generator) formatFloatLiteral(v string) string {
	if !g.cfg.Version.IsGLSLFamily() {
		return v
	}
	s := strings.TrimSuffix(strings.TrimSuffix(v, "f"), "F")
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s + "f"
}

func (g *Generator) formatIntLiteral(v, suffix string) string {
	if !g.cfg.Version.IsGLSLFamily() {
		return v + suffix
	}
	if strings.EqualFold(suffix, "u") {
		return v + "u"
	}
	return v
}
