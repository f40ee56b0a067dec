package parser

import (
	"github.com/btouchard/shaderx/internal/compiler/ast"
	"github.com/btouchard/shaderx/internal/compiler/diag"
	"github.com/btouchard/shaderx/internal/compiler/lexer"
	"github.com/btouchard/shaderx/internal/compiler/source"
	"github.com/btouchard/shaderx/internal/compiler/token"
)

// Parse lexes and parses src (already preprocessed) in one call, the
// convenience entry point the root shaderx package's pipeline uses.
func Parse(file, src string, log diag.Log) (*ast.Program, bool) {
	buf := source.New(file, src)
	lex := lexer.New(buf, token.HLSL)
	p := New(lex, log)
	return p.ParseProgram()
}
