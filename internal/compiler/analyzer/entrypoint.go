package analyzer

import (
	"strconv"
	"strings"

	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/token"
)

// processEntryPoint locates the FuncDecl named by Config.EntryPoint,
// marks it, and — for output dialects that cannot carry semantics on
// function parameters (the whole GLSL/ESSL/VKSL family) —
// synthesizes a secondary wrapper entry point whose parameter
// and return list is the struct-flattened form of the original one.
func (a *Analyzer) processEntryPoint() {
	if a.cfg.EntryPoint == "" {
		return
	}
	for _, g := range a.prog.Globals {
		fn, ok := g.(*ast.FuncDecl)
		if !ok || fn.Name != a.cfg.EntryPoint {
			continue
		}
		a.prog.EntryPoint = fn
		fn.Flags().Set(ast.FlagIsEntryPoint)
		break
	}
	if a.prog.EntryPoint == nil {
		a.reportSemantic(a.prog.Pos(), "entry point %q not found", a.cfg.EntryPoint)
		return
	}
	a.recordStageLayout(a.prog.EntryPoint)
	if a.cfg.FlattenEntryPointIO {
		wrapper := a.flattenEntryPoint(a.prog.EntryPoint)
		a.prog.SecondaryEntryPoint = wrapper
		wrapper.Flags().Set(ast.FlagIsSecondaryEntryPoint)
		wrapper.Flags().Set(ast.FlagGenerated)
		a.prog.Globals = append(a.prog.Globals, wrapper)
	}
}

// recordStageLayout decodes the entry point's bracketed attributes into
// the Program's per-stage layout records: numthreads
// for compute, maxvertexcount for geometry, the domain/partitioning/
// outputtopology/outputcontrolpoints/maxtessfactor family for the
// tessellation stages, and earlydepthstencil for fragment. Attributes
// that don't match any record are left alone; the parser already
// accepted them syntactically and the generator ignores them.
func (a *Analyzer) recordStageLayout(fn *ast.FuncDecl) {
	stages := &a.prog.Stages
	for _, attr := range fn.Attributes {
		args := attr.Args
		switch strings.ToLower(attr.Name) {
		case "numthreads":
			if len(args) == 3 {
				for i := 0; i < 3; i++ {
					stages.Compute.NumThreads[i] = atoiOr(args[i], 1)
				}
			} else {
				a.reportSemantic(fn.Pos(), "numthreads expects 3 arguments, got %d", len(args))
			}
		case "maxvertexcount":
			if len(args) == 1 {
				stages.Geometry.MaxVertices = atoiOr(args[0], 0)
			}
		case "earlydepthstencil":
			stages.Fragment.EarlyDepthStencil = true
		case "domain":
			if len(args) == 1 {
				stages.TessEval.DomainType = args[0]
			}
		case "partitioning":
			if len(args) == 1 {
				stages.TessControl.Partitioning = args[0]
				stages.TessEval.Partitioning = args[0]
			}
		case "outputtopology":
			if len(args) == 1 {
				stages.TessControl.OutputTopology = args[0]
				stages.TessEval.OutputTopology = args[0]
				stages.Geometry.OutputTopology = args[0]
			}
		case "outputcontrolpoints":
			if len(args) == 1 {
				stages.TessControl.OutputControlPoints = atoiOr(args[0], 0)
			}
		case "maxtessfactor":
			if len(args) == 1 {
				if f, err := strconv.ParseFloat(args[0], 64); err == nil {
					stages.TessControl.MaxTessFactor = f
				}
			}
		}
	}
}

func atoiOr(s string, fallback int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return fallback
}

// flattenEntryPoint builds the wrapper FuncDecl: one ParamDecl per
// leaf field of every struct parameter (or the parameter itself, when
// it is already a scalar/vector), each carrying the leaf's own
// semantic so the generator can bind it to the target dialect's input
// mechanism (an `in` variable, not a parameter). A struct return type
// is similarly flattened into `out` parameters; a scalar/vector return
// keeps the original return type.
func (a *Analyzer) flattenEntryPoint(orig *ast.FuncDecl) *ast.FuncDecl {
	wrapper := &ast.FuncDecl{
		Base: ast.Base{Range: orig.Range},
		Name: orig.Name + "_Main",
	}
	var callArgs []ast.Expr
	for _, p := range orig.Params {
		if st, ok := ast.GetAliased(p.Type.Denoter).(*ast.StructType); ok && st.Decl != nil {
			fields := make([]ast.Expr, len(st.Decl.Fields))
			for i, f := range st.Decl.Fields {
				leaf := &ast.ParamDecl{
					Base:     ast.Base{Range: f.Range},
					Name:     p.Name + "_" + f.Name,
					Type:     f.Type,
					Semantic: f.Semantic,
				}
				wrapper.Params = append(wrapper.Params, leaf)
				fields[i] = &ast.IdentExpr{Name: leaf.Name}
			}
			callArgs = append(callArgs, &ast.InitializerExpr{Elems: fields})
			continue
		}
		leaf := &ast.ParamDecl{Base: ast.Base{Range: p.Range}, Name: p.Name, Type: p.Type, Semantic: p.Semantic}
		wrapper.Params = append(wrapper.Params, leaf)
		callArgs = append(callArgs, &ast.IdentExpr{Name: leaf.Name})
	}

	call := &ast.CallExpr{Callee: &ast.IdentExpr{Name: orig.Name}, Args: callArgs, ResolvedFunc: orig}
	var stmts []ast.Stmt
	if st, ok := ast.GetAliased(orig.ReturnType.Denoter).(*ast.StructType); ok && st.Decl != nil {
		resultName := "_result"
		stmts = append(stmts, &ast.VarDeclStmt{Decl: &ast.VarDecl{
			Name: resultName, Type: orig.ReturnType, Initializer: call,
		}})
		wrapper.ReturnType = &ast.TypeSpecifier{Denoter: &ast.VoidType{}}
		for _, f := range st.Decl.Fields {
			outParam := &ast.ParamDecl{
				Name: "out_" + f.Name, Type: f.Type, Semantic: f.Semantic,
				StorageClass: ast.StorageOut,
			}
			wrapper.Params = append(wrapper.Params, outParam)
			stmts = append(stmts, &ast.ExprStmt{Expr: &ast.AssignExpr{
				Op:     token.ASSIGN,
				Target: &ast.IdentExpr{Name: outParam.Name},
				Value:  &ast.MemberExpr{Receiver: &ast.IdentExpr{Name: resultName}, Member: f.Name},
			}})
		}
	} else {
		wrapper.ReturnType = orig.ReturnType
		wrapper.Semantic = orig.Semantic
		if _, void := ast.GetAliased(orig.ReturnType.Denoter).(*ast.VoidType); void {
			stmts = append(stmts, &ast.ExprStmt{Expr: call})
		} else {
			stmts = append(stmts, &ast.ReturnStmt{Value: call})
		}
	}
	wrapper.Body = &ast.CodeBlockStmt{Stmts: stmts}
	return wrapper
}
