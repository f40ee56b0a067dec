package generator

import "github.com/btouchard/shaderx/internal/compiler/ast"

// emitStmt renders one statement. Reachability has already been
// decided at the declaration level by the time generation runs, so every statement
// reached from a reachable function's Body is emitted as-is.
func (g *Generator) emitStmt(s ast.Stmt) {
	switch st := s.(type) {
	case nil:
	case *ast.CodeBlockStmt:
		g.w.writef("{")
		g.w.open()
		for _, inner := range st.Stmts {
			g.emitStmt(inner)
		}
		g.w.close()
		g.w.writef("}")
	case *ast.VarDeclStmt:
		g.emitLocalVarDecl(st.Decl)
	case *ast.ForStmt:
		g.emitFor(st)
	case *ast.WhileStmt:
		g.w.writef("while (%s) {", g.emitExpr(st.Cond))
		g.w.open()
		g.emitBodyStmts(st.Body)
		g.w.close()
		g.w.writef("}")
	case *ast.DoWhileStmt:
		g.w.writef("do {")
		g.w.open()
		g.emitBodyStmts(st.Body)
		g.w.close()
		g.w.writef("} while (%s);", g.emitExpr(st.Cond))
	case *ast.IfStmt:
		g.emitIf(st)
	case *ast.SwitchStmt:
		g.emitSwitch(st)
	case *ast.ReturnStmt:
		g.emitReturn(st)
	case *ast.CtrlTransferStmt:
		switch st.Kind {
		case ast.CtrlBreak:
			g.w.writef("break;")
		case ast.CtrlContinue:
			g.w.writef("continue;")
		case ast.CtrlDiscard:
			g.w.writef("discard;")
		}
	case *ast.ExprStmt:
		g.w.writef("%s;", g.emitExpr(st.Expr))
	case *ast.NullStmt:
		g.w.writef(";")
	}
}

// emitBodyStmts renders a loop/if/switch body statement, unwrapping a
// CodeBlockStmt's own brace pair so the surrounding construct supplies
// the braces instead of nesting a redundant pair; a bare (non-block)
// body is emitted as is. Every caller writes the braces around the
// body, so bodies come out braced whether or not AlwaysBracedScopes is
// set; this function does not read that flag.
func (g *Generator) emitBodyStmts(body ast.Stmt) {
	if block, ok := body.(*ast.CodeBlockStmt); ok {
		for _, inner := range block.Stmts {
			g.emitStmt(inner)
		}
		return
	}
	g.emitStmt(body)
}

func (g *Generator) emitFor(st *ast.ForStmt) {
	init := ""
	if vd, ok := st.Init.(*ast.VarDeclStmt); ok {
		init = g.localVarDeclSpec(vd.Decl)
	} else if es, ok := st.Init.(*ast.ExprStmt); ok {
		init = g.emitExpr(es.Expr)
	}
	cond := ""
	if st.Cond != nil {
		cond = g.emitExpr(st.Cond)
	}
	post := ""
	if es, ok := st.Post.(*ast.ExprStmt); ok {
		post = g.emitExpr(es.Expr)
	}
	g.w.writef("for (%s; %s; %s) {", init, cond, post)
	g.w.open()
	g.emitBodyStmts(st.Body)
	g.w.close()
	g.w.writef("}")
}

func (g *Generator) emitIf(st *ast.IfStmt) {
	g.w.writef("if (%s) {", g.emitExpr(st.Cond))
	g.w.open()
	g.emitBodyStmts(st.Then)
	g.w.close()
	if st.Else == nil {
		g.w.writef("}")
		return
	}
	if elseIf, ok := st.Else.(*ast.IfStmt); ok {
		g.w.writef("} else if (%s) {", g.emitExpr(elseIf.Cond))
		g.w.open()
		g.emitBodyStmts(elseIf.Then)
		g.w.close()
		if elseIf.Else != nil {
			g.emitElseTail(elseIf.Else)
			return
		}
		g.w.writef("}")
		return
	}
	g.w.writef("} else {")
	g.w.open()
	g.emitBodyStmts(st.Else)
	g.w.close()
	g.w.writef("}")
}

// emitElseTail recurses through a chain of `else if` clauses beyond the
// first, preserving HLSL's dangling-else-as-chain shape rather than
// nesting braces one level per link.
func (g *Generator) emitElseTail(s ast.Stmt) {
	if elseIf, ok := s.(*ast.IfStmt); ok {
		g.w.writef("} else if (%s) {", g.emitExpr(elseIf.Cond))
		g.w.open()
		g.emitBodyStmts(elseIf.Then)
		g.w.close()
		if elseIf.Else != nil {
			g.emitElseTail(elseIf.Else)
			return
		}
		g.w.writef("}")
		return
	}
	g.w.writef("} else {")
	g.w.open()
	g.emitBodyStmts(s)
	g.w.close()
	g.w.writef("}")
}

func (g *Generator) emitSwitch(st *ast.SwitchStmt) {
	g.w.writef("switch (%s) {", g.emitExpr(st.Selector))
	g.w.open()
	for _, c := range st.Cases {
		if c.IsDefault {
			g.w.writef("default:")
		} else {
			for _, ce := range c.CaseExprs {
				g.w.writef("case %s:", g.emitExpr(ce))
			}
		}
		g.w.open()
		for _, inner := range c.Stmts {
			g.emitStmt(inner)
		}
		g.w.close()
	}
	g.w.close()
	g.w.writef("}")
}

// emitReturn renders a return statement. A return inside the
// flattened entry point's own body (g.inEntryBody) is
// assigned to the IO global its return semantic was lowered to
// (g.retGlobalName), since GLSL's main() is void; every nested return
// reached from the entry body gets the same treatment, not just the
// final one, since the body may return from multiple control-flow
// paths. A return reached while emitting any other function (the
// original entry point rendered as a plain callee, or an ordinary
// helper) keeps its real return value — only the entry body's own
// control flow was rewritten to target a void main().
func (g *Generator) emitReturn(st *ast.ReturnStmt) {
	if st.Value == nil {
		g.w.writef("return;")
		return
	}
	if g.inEntryBody && g.retGlobalName != "" {
		g.w.writef("%s = %s;", g.retGlobalName, g.emitExpr(st.Value))
		g.w.writef("return;")
		return
	}
	g.w.writef("return %s;", g.emitExpr(st.Value))
}

func (g *Generator) emitLocalVarDecl(d *ast.VarDecl) {
	g.w.writef("%s;", g.localVarDeclSpec(d))
}

// localVarDeclSpec renders "[const] Type name[ = init]" with no
// trailing statement terminator, so a ForStmt.Init can embed it inside
// the `for (...; ...; ...)` header without a doubled semicolon.
func (g *Generator) localVarDeclSpec(d *ast.VarDecl) string {
	qualifier := ""
	if d.StorageClass == ast.StorageConst || d.Flags().Has(ast.FlagIsImmutable) {
		qualifier = "const "
	}
	name := g.emitIdentName(d.Name)
	if d.Initializer != nil {
		return qualifier + g.varTypeSpec(d) + " " + name + " = " + g.emitExpr(d.Initializer)
	}
	return qualifier + g.varTypeSpec(d) + " " + name
}
