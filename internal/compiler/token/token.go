// Package token defines the lexical token kinds produced by the lexer
// and the dialect-parameterized keyword tables used to classify
// identifiers. Keyword sets are data, not code, so a second input
// dialect can be added as another KeywordSet value without touching
// the lexer itself.
package token

import "github.com/btouchard/shaderx/internal/compiler/source"

// Kind identifies the lexical category of a Token.
type Kind string

const (
	ILLEGAL Kind = "ILLEGAL"
	EOF     Kind = "EOF"
	COMMENT Kind = "COMMENT"

	IDENT  Kind = "IDENT"
	INT    Kind = "INT"
	FLOAT  Kind = "FLOAT"
	STRING Kind = "STRING"
	CHAR   Kind = "CHAR"

	// Operators
	ASSIGN     Kind = "="
	PLUS       Kind = "+"
	MINUS      Kind = "-"
	STAR       Kind = "*"
	SLASH      Kind = "/"
	PERCENT    Kind = "%"
	BANG       Kind = "!"
	TILDE      Kind = "~"
	AMP        Kind = "&"
	PIPE       Kind = "|"
	CARET      Kind = "^"
	SHL        Kind = "<<"
	SHR        Kind = ">>"
	INC        Kind = "++"
	DEC        Kind = "--"
	PLUS_EQ    Kind = "+="
	MINUS_EQ   Kind = "-="
	STAR_EQ    Kind = "*="
	SLASH_EQ   Kind = "/="
	PERCENT_EQ Kind = "%="
	AMP_EQ     Kind = "&="
	PIPE_EQ    Kind = "|="
	CARET_EQ   Kind = "^="
	SHL_EQ     Kind = "<<="
	SHR_EQ     Kind = ">>="

	EQ     Kind = "=="
	NOT_EQ Kind = "!="
	LT     Kind = "<"
	GT     Kind = ">"
	LT_EQ  Kind = "<="
	GT_EQ  Kind = ">="
	ANDAND Kind = "&&"
	OROR   Kind = "||"

	// Delimiters
	COLON     Kind = ":"
	SEMICOLON Kind = ";"
	COMMA     Kind = ","
	DOT       Kind = "."
	QUESTION  Kind = "?"
	LPAREN    Kind = "("
	RPAREN    Kind = ")"
	LBRACE    Kind = "{"
	RBRACE    Kind = "}"
	LBRACKET  Kind = "["
	RBRACKET  Kind = "]"

	// Preprocessor introducer; the lexer tags it and hands the rest of
	// the logical line to the preprocessor untouched.
	HASH Kind = "#"

	// Keywords (dialect-independent control flow / declaration words;
	// type names are dialect-specific and live in KeywordSet.TypeNames).
	IF       Kind = "IF"
	ELSE     Kind = "ELSE"
	FOR      Kind = "FOR"
	WHILE    Kind = "WHILE"
	DO       Kind = "DO"
	SWITCH   Kind = "SWITCH"
	CASE     Kind = "CASE"
	DEFAULT  Kind = "DEFAULT"
	BREAK    Kind = "BREAK"
	CONTINUE Kind = "CONTINUE"
	DISCARD  Kind = "DISCARD"
	RETURN   Kind = "RETURN"
	STRUCT   Kind = "STRUCT"
	CBUFFER  Kind = "CBUFFER"
	TRUE     Kind = "TRUE"
	FALSE    Kind = "FALSE"

	// Storage classes / modifiers
	STATIC      Kind = "STATIC"
	CONST       Kind = "CONST"
	UNIFORM     Kind = "UNIFORM"
	IN          Kind = "IN"
	OUT         Kind = "OUT"
	INOUT       Kind = "INOUT"
	CENTROID    Kind = "CENTROID"
	NOINTERP    Kind = "NOINTERPOLATION"
	LINEAR      Kind = "LINEAR"
	ROWMAJOR    Kind = "ROW_MAJOR"
	COLUMNMAJOR Kind = "COLUMN_MAJOR"
	REGISTER    Kind = "REGISTER"
	PACKOFFSET  Kind = "PACKOFFSET"

	// Type names. These are recognized by keyword tables so the parser
	// can decide "type-specifier vs. expression start" with a single
	// token lookup rather than a second grammar.
	TYPE_NAME Kind = "TYPE_NAME"
)

// Position re-exports source.Position so callers of this package need
// not import source directly for the common case.
type Position = source.Position

// Token is a single lexeme: its kind, literal text, source range, and
// (for comments, when preservation is enabled) leading trivia attached
// for re-emission.
type Token struct {
	Kind    Kind
	Literal string
	Pos     Position
	EndPos  Position
	// Suffix carries a numeric literal's trailing type suffix (u, f, h,
	// L, or empty).
	Suffix string
	// LeadingComments holds comment tokens immediately preceding this
	// token, captured only when comment preservation is enabled.
	LeadingComments []Token
}

// KeywordSet maps dialect keywords (including built-in type names) to
// token kinds. A dialect is "a set of strings that are not IDENT".
type KeywordSet struct {
	Keywords  map[string]Kind
	TypeNames map[string]bool
}

// Lookup classifies ident against the keyword set, falling back to
// IDENT. Built-in type names classify as TYPE_NAME so the parser's
// type-specifier lookahead is a single map probe.
func (k KeywordSet) Lookup(ident string) Kind {
	if k.TypeNames[ident] {
		return TYPE_NAME
	}
	if kind, ok := k.Keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// HLSL is the Shader Model 3-5 keyword table, the one supported
// input dialect. A second dialect would add another KeywordSet value
// here without touching the lexer.
var HLSL = KeywordSet{
	Keywords: map[string]Kind{
		"if": IF, "else": ELSE, "for": FOR, "while": WHILE, "do": DO,
		"switch": SWITCH, "case": CASE, "default": DEFAULT,
		"break": BREAK, "continue": CONTINUE, "discard": DISCARD, "return": RETURN,
		"struct": STRUCT, "cbuffer": CBUFFER, "true": TRUE, "false": FALSE,
		"static": STATIC, "const": CONST, "uniform": UNIFORM,
		"in": IN, "out": OUT, "inout": INOUT,
		"centroid": CENTROID, "nointerpolation": NOINTERP, "linear": LINEAR,
		"row_major": ROWMAJOR, "column_major": COLUMNMAJOR,
		"register": REGISTER, "packoffset": PACKOFFSET,
	},
	TypeNames: hlslTypeNames(),
}

func hlslTypeNames() map[string]bool {
	names := map[string]bool{
		"void": true, "bool": true, "int": true, "uint": true,
		"half": true, "float": true, "double": true,
		"sampler": true, "SamplerState": true, "SamplerComparisonState": true,
		"Texture1D": true, "Texture1DArray": true,
		"Texture2D": true, "Texture2DArray": true, "Texture2DMS": true,
		"Texture3D": true, "TextureCube": true, "TextureCubeArray": true,
		"Buffer": true, "RWBuffer": true, "RWTexture1D": true, "RWTexture2D": true, "RWTexture3D": true,
		"ConstantBuffer": true,
	}
	for _, base := range []string{"bool", "int", "uint", "half", "float", "double"} {
		for n := 1; n <= 4; n++ {
			names[vecName(base, n)] = true
			for m := 1; m <= 4; m++ {
				names[matName(base, n, m)] = true
			}
		}
	}
	return names
}

func vecName(base string, n int) string {
	if n == 1 {
		return base
	}
	return base + digit(n)
}

func matName(base string, n, m int) string {
	return base + digit(n) + "x" + digit(m)
}

func digit(n int) string {
	return string(rune('0' + n))
}
