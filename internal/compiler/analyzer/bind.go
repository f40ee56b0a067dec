package analyzer

import (
	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/symtab"
	"github.com/btouchard/shaderx/internal/compiler/token"
)

// analyzeStmt binds names and computes expression types throughout a
// statement, opening/closing scopes as block structure requires.
func (a *Analyzer) analyzeStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.CodeBlockStmt:
		a.sym.Open(symtab.ScopeBlock)
		defer a.sym.Close()
		for _, inner := range st.Stmts {
			a.analyzeStmt(inner)
		}
	case *ast.VarDeclStmt:
		a.analyzeVarDecl(st.Decl)
	case *ast.ForStmt:
		a.sym.Open(symtab.ScopeForInit)
		defer a.sym.Close()
		if st.Init != nil {
			a.analyzeStmt(st.Init)
		}
		if st.Cond != nil {
			a.analyzeExpr(st.Cond)
		}
		if st.Post != nil {
			a.analyzeStmt(st.Post)
		}
		a.analyzeStmt(st.Body)
	case *ast.WhileStmt:
		a.analyzeExpr(st.Cond)
		a.analyzeStmt(st.Body)
	case *ast.DoWhileStmt:
		a.analyzeStmt(st.Body)
		a.analyzeExpr(st.Cond)
	case *ast.IfStmt:
		a.analyzeExpr(st.Cond)
		a.analyzeStmt(st.Then)
		if st.Else != nil {
			a.analyzeStmt(st.Else)
		}
	case *ast.SwitchStmt:
		a.analyzeExpr(st.Selector)
		for _, c := range st.Cases {
			for _, ce := range c.CaseExprs {
				a.analyzeExpr(ce)
			}
			a.sym.Open(symtab.ScopeBlock)
			for _, cs := range c.Stmts {
				a.analyzeStmt(cs)
			}
			a.sym.Close()
		}
	case *ast.ReturnStmt:
		if st.Value != nil {
			a.analyzeExpr(st.Value)
		}
	case *ast.ExprStmt:
		a.analyzeExpr(st.Expr)
	case *ast.CtrlTransferStmt, *ast.NullStmt:
		// no names or types to resolve
	}
}

func (a *Analyzer) analyzeVarDecl(d *ast.VarDecl) {
	d.Type.Denoter = a.resolveDenoter(d.Type.Denoter, d.Pos())
	if d.Initializer != nil {
		a.analyzeExpr(d.Initializer)
	}
	if !a.sym.Register(d.Name, d) {
		a.reportSemantic(d.Pos(), "redefinition of %q", d.Name)
	}
}

// analyzeExpr binds identifiers and computes a type denoter for every
// expression node bottom-up It always returns a
// non-nil type (VoidType for an expression that fails to type-check)
// so the caller never has to special-case a nil result.
func (a *Analyzer) analyzeExpr(e ast.Expr) ast.TypeDenoter {
	if e == nil {
		return &ast.VoidType{}
	}
	var t ast.TypeDenoter
	switch ex := e.(type) {
	case *ast.LiteralExpr:
		t = literalType(ex)
	case *ast.SequenceExpr:
		for _, el := range ex.Elems {
			t = a.analyzeExpr(el)
		}
	case *ast.BinaryExpr:
		lt := a.analyzeExpr(ex.Left)
		rt := a.analyzeExpr(ex.Right)
		if isComparisonOp(ex.Op) {
			t = &ast.BaseType{Name: "bool"}
		} else if rtype := binaryResultType(lt, rt); rtype != nil {
			t = rtype
		} else {
			a.reportSemantic(ex.Pos(), "invalid operands to binary operator: %s and %s", lt.String(), rt.String())
			t = &ast.VoidType{}
		}
	case *ast.UnaryExpr:
		t = a.analyzeExpr(ex.Operand)
	case *ast.PostUnaryExpr:
		t = a.analyzeExpr(ex.Operand)
	case *ast.TernaryExpr:
		a.analyzeExpr(ex.Cond)
		tt := a.analyzeExpr(ex.Then)
		et := a.analyzeExpr(ex.Else)
		if rtype := binaryResultType(tt, et); rtype != nil {
			t = rtype
		} else {
			t = tt
		}
	case *ast.CallExpr:
		t = a.analyzeCall(ex)
	case *ast.BracketExpr:
		t = a.analyzeExpr(ex.Inner)
	case *ast.IdentExpr:
		t = a.analyzeIdent(ex)
	case *ast.MemberExpr:
		t = a.analyzeMember(ex)
	case *ast.IndexExpr:
		t = a.analyzeIndex(ex)
	case *ast.CastExpr:
		ex.Target.Denoter = a.resolveDenoter(ex.Target.Denoter, ex.Pos())
		a.analyzeExpr(ex.Operand)
		t = ex.Target.Denoter
	case *ast.TypeSpecifierExpr:
		ex.Spec.Denoter = a.resolveDenoter(ex.Spec.Denoter, ex.Pos())
		t = constructedType(ex.Spec)
	case *ast.AssignExpr:
		tt := a.analyzeExpr(ex.Target)
		a.analyzeExpr(ex.Value)
		t = tt
	case *ast.InitializerExpr:
		for _, el := range ex.Elems {
			t = a.analyzeExpr(el)
		}
		if t == nil {
			t = &ast.VoidType{}
		}
	default:
		t = &ast.VoidType{}
	}
	if t == nil {
		t = &ast.VoidType{}
	}
	e.SetType(t)
	return t
}

func literalType(lit *ast.LiteralExpr) ast.TypeDenoter {
	switch {
	case lit.Kind == token.STRING:
		return &ast.BaseType{Name: "string"}
	case lit.Kind == token.TRUE || lit.Kind == token.FALSE:
		return &ast.BaseType{Name: "bool"}
	case lit.Suffix == "u" || lit.Suffix == "U":
		return &ast.BaseType{Name: "uint"}
	case lit.Suffix == "f" || lit.Suffix == "F" || lit.Kind == token.FLOAT:
		return &ast.BaseType{Name: "float"}
	default:
		return &ast.BaseType{Name: "int"}
	}
}

func isComparisonOp(op token.Kind) bool {
	switch op {
	case token.EQ, token.NOT_EQ, token.LT, token.GT, token.LT_EQ, token.GT_EQ, token.ANDAND, token.OROR:
		return true
	default:
		return false
	}
}

func (a *Analyzer) analyzeIdent(ex *ast.IdentExpr) ast.TypeDenoter {
	decl, ok := a.sym.Find(ex.Name)
	if !ok {
		a.reportSemantic(ex.Pos(), "undeclared identifier %q", ex.Name)
		return &ast.VoidType{}
	}
	ex.ResolvedDecl = decl
	a.used[decl] = true
	return declType(decl)
}

func declType(decl ast.Decl) ast.TypeDenoter {
	switch d := decl.(type) {
	case *ast.VarDecl:
		return d.Type.Denoter
	case *ast.ParamDecl:
		return d.Type.Denoter
	case *ast.ObjectDecl:
		return d.Type
	case *ast.FuncDecl:
		return d.ReturnType.Denoter
	default:
		return &ast.VoidType{}
	}
}

func (a *Analyzer) analyzeMember(ex *ast.MemberExpr) ast.TypeDenoter {
	rt := a.analyzeExpr(ex.Receiver)
	if st, ok := ast.GetAliased(rt).(*ast.StructType); ok && st.Decl != nil {
		for _, f := range st.Decl.Fields {
			if f.Name == ex.Member {
				ex.ResolvedDecl = f
				a.used[f] = true
				return f.Type.Denoter
			}
		}
		a.reportSemantic(ex.Pos(), "struct %q has no field %q", st.Decl.Name, ex.Member)
		return &ast.VoidType{}
	}
	if t, ok := swizzleResultType(rt, ex.Member); ok {
		return t
	}
	a.reportSemantic(ex.Pos(), "invalid member access %q on type %s", ex.Member, rt.String())
	return &ast.VoidType{}
}

func (a *Analyzer) analyzeIndex(ex *ast.IndexExpr) ast.TypeDenoter {
	rt := a.analyzeExpr(ex.Receiver)
	a.analyzeExpr(ex.Index)
	switch t := ast.GetAliased(rt).(type) {
	case *ast.ArrayType:
		if len(t.Dims) <= 1 {
			return t.Elem
		}
		return &ast.ArrayType{Elem: t.Elem, Dims: t.Dims[1:]}
	case *ast.BaseType:
		if base, rows, cols, ok := splitVectorOrMatrix(t.Name); ok && cols > 1 {
			return &ast.BaseType{Name: shapeName(base, cols, 1)}
		} else if ok && rows > 1 {
			return &ast.BaseType{Name: base}
		}
	}
	a.reportSemantic(ex.Pos(), "type %s is not indexable", rt.String())
	return &ast.VoidType{}
}

// analyzeCall resolves a CallExpr to either a type-constructor
// invocation (Callee is a TypeSpecifierExpr) or a function call
// resolved by overload. An
// unrecognized call name that is not a user function is treated as a
// built-in intrinsic (mul, dot, normalize, saturate, ...): the
// analyzer does not model every intrinsic's signature individually,
// and instead falls back to the first argument's type. That matches
// elementwise intrinsics (saturate, normalize, ...); for intrinsics
// whose result shape differs from the first argument (dot, length,
// mul) the recorded type differs from the real result type, and the
// generator does not refine it.
func (a *Analyzer) analyzeCall(ex *ast.CallExpr) ast.TypeDenoter {
	argTypes := make([]ast.TypeDenoter, len(ex.Args))
	for i, arg := range ex.Args {
		argTypes[i] = a.analyzeExpr(arg)
	}
	if tse, ok := ex.Callee.(*ast.TypeSpecifierExpr); ok {
		tse.Spec.Denoter = a.resolveDenoter(tse.Spec.Denoter, ex.Pos())
		return constructedType(tse.Spec)
	}
	if mem, ok := ex.Callee.(*ast.MemberExpr); ok {
		// A built-in object method call (tex.Sample, buf.Load): bind the
		// receiver so reachability marking sees the object; the result
		// type is approximated by the object's element type, which is
		// what Sample/Load-style methods return.
		rt := a.analyzeExpr(mem.Receiver)
		if bt, ok := ast.GetAliased(rt).(*ast.BufferType); ok && bt.Elem != nil {
			return bt.Elem
		}
		return &ast.VoidType{}
	}
	ident, ok := ex.Callee.(*ast.IdentExpr)
	if !ok {
		return &ast.VoidType{}
	}
	candidates := a.sym.FindAll(ident.Name)
	if len(candidates) == 0 {
		if len(argTypes) > 0 {
			return argTypes[0]
		}
		return &ast.VoidType{}
	}
	fn, ambiguous := resolveOverload(candidates, argTypes)
	if ambiguous {
		a.reportSemantic(ex.Pos(), "ambiguous call to overloaded function %q", ident.Name)
		return &ast.VoidType{}
	}
	if fn == nil {
		a.reportSemantic(ex.Pos(), "no matching overload of %q for the given argument types", ident.Name)
		return &ast.VoidType{}
	}
	ex.ResolvedFunc = fn
	ident.ResolvedDecl = fn
	return fn.ReturnType.Denoter
}
