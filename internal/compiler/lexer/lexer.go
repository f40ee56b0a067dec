// Package lexer tokenizes a preprocessed HLSL source stream. It skips
// whitespace and comments (optionally preserving comments for later
// re-emission), recognizes identifiers, numeric/string/char literals,
// operators and punctuation, and tags `#` so the preprocessor's own
// sub-lexer can take over for directive lines. The lexer never
// interprets `#` itself
package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/btouchard/shaderx/internal/compiler/source"
	"github.com/btouchard/shaderx/internal/compiler/token"
)

// Lexer produces a lazy token stream over a source.Buffer.
type Lexer struct {
	buf    *source.Buffer
	ch     rune
	ok     bool
	kw     token.KeywordSet
	errs   []string
	// PreserveComments attaches COMMENT tokens immediately preceding a
	// token as its LeadingComments, instead of discarding them.
	PreserveComments bool
}

// New creates a Lexer reading from buf, classifying identifiers against
// kw (token.HLSL for the one supported input dialect).
func New(buf *source.Buffer, kw token.KeywordSet) *Lexer {
	l := &Lexer{buf: buf, kw: kw}
	l.readChar()
	return l
}

// Buffer exposes the underlying source buffer, so the preprocessor can
// push/pop include files and rescan macro-substituted text through the
// same lexer instance.
func (l *Lexer) Buffer() *source.Buffer { return l.buf }

// Errors returns lexical errors accumulated so far (unterminated
// comment/string, invalid numeric literal, stray character).
func (l *Lexer) Errors() []string { return l.errs }

func (l *Lexer) addError(pos token.Position, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.errs = append(l.errs, fmt.Sprintf("%s:%d:%d: %s", pos.File, pos.Line, pos.Column, msg))
}

func (l *Lexer) readChar() {
	l.ch, l.ok = l.buf.Next()
}

func (l *Lexer) peekChar() rune {
	r, _ := l.buf.Peek()
	return r
}

func (l *Lexer) peekAt(ahead int) rune {
	return l.buf.PeekAt(ahead)
}

func (l *Lexer) currentPos() token.Position {
	return l.buf.Position()
}

// NextToken returns the next token in the stream. At end of input it
// returns an EOF token repeatedly.
func (l *Lexer) NextToken() token.Token {
	var leading []token.Token
	for {
		l.skipWhitespace()
		if l.PreserveComments && l.atCommentStart() {
			leading = append(leading, l.readComment())
			continue
		}
		if l.atCommentStart() {
			l.skipComment()
			continue
		}
		break
	}

	pos := l.currentPos()
	var tok token.Token

	switch {
	case !l.ok:
		tok = token.Token{Kind: token.EOF, Pos: pos, EndPos: pos}
	case l.ch == '#':
		tok = l.single(token.HASH)
	case isLetter(l.ch):
		tok = l.readIdentOrKeyword(pos)
	case isDigit(l.ch):
		tok = l.readNumber(pos)
	case l.ch == '"':
		tok = l.readString(pos)
	case l.ch == '\'':
		tok = l.readCharLiteral(pos)
	default:
		tok = l.readOperator(pos)
	}
	tok.LeadingComments = leading
	return tok
}

func (l *Lexer) atCommentStart() bool {
	return l.ok && l.ch == '/' && (l.peekChar() == '/' || l.peekChar() == '*')
}

func (l *Lexer) skipWhitespace() {
	for l.ok && (l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n') {
		l.readChar()
	}
}

func (l *Lexer) skipComment() {
	if l.peekChar() == '/' {
		for l.ok && l.ch != '\n' {
			l.readChar()
		}
		return
	}
	start := l.currentPos()
	l.readChar() // consume /
	l.readChar() // consume *
	for {
		if !l.ok {
			l.addError(start, "unterminated comment")
			return
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return
		}
		l.readChar()
	}
}

func (l *Lexer) readComment() token.Token {
	pos := l.currentPos()
	var b strings.Builder
	lineComment := l.peekChar() == '/'
	if lineComment {
		for l.ok && l.ch != '\n' {
			b.WriteRune(l.ch)
			l.readChar()
		}
	} else {
		l.readChar()
		b.WriteString("/*")
		l.readChar()
		for {
			if !l.ok {
				l.addError(pos, "unterminated comment")
				break
			}
			if l.ch == '*' && l.peekChar() == '/' {
				b.WriteString("*/")
				l.readChar()
				l.readChar()
				break
			}
			b.WriteRune(l.ch)
			l.readChar()
		}
	}
	return token.Token{Kind: token.COMMENT, Literal: b.String(), Pos: pos, EndPos: l.currentPos()}
}

func (l *Lexer) readIdentOrKeyword(pos token.Position) token.Token {
	var b strings.Builder
	for l.ok && (isLetter(l.ch) || isDigit(l.ch) || l.ch == '_') {
		b.WriteRune(l.ch)
		l.readChar()
	}
	lit := b.String()
	return token.Token{Kind: l.kw.Lookup(lit), Literal: lit, Pos: pos, EndPos: l.currentPos()}
}

// readNumber lexes decimal and hex integers and decimal floats, with
// optional type suffixes u/U, f/F, h/H, L (e.g. 1u, 3.14f, 0x1F, 2L).
func (l *Lexer) readNumber(pos token.Position) token.Token {
	var b strings.Builder
	isFloat := false

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		b.WriteRune(l.ch)
		l.readChar()
		b.WriteRune(l.ch)
		l.readChar()
		for l.ok && isHexDigit(l.ch) {
			b.WriteRune(l.ch)
			l.readChar()
		}
		return l.finishNumber(pos, b.String(), false)
	}

	for l.ok && isDigit(l.ch) {
		b.WriteRune(l.ch)
		l.readChar()
	}
	if l.ok && l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		b.WriteRune(l.ch)
		l.readChar()
		for l.ok && isDigit(l.ch) {
			b.WriteRune(l.ch)
			l.readChar()
		}
	}
	if l.ok && (l.ch == 'e' || l.ch == 'E') {
		la := l.peekChar()
		if isDigit(la) || ((la == '+' || la == '-') && isDigit(l.peekAt(1))) {
			isFloat = true
			b.WriteRune(l.ch)
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				b.WriteRune(l.ch)
				l.readChar()
			}
			for l.ok && isDigit(l.ch) {
				b.WriteRune(l.ch)
				l.readChar()
			}
		}
	}
	return l.finishNumber(pos, b.String(), isFloat)
}

func (l *Lexer) finishNumber(pos token.Position, digits string, isFloat bool) token.Token {
	suffix := ""
	for l.ok && isSuffixChar(l.ch) {
		suffix += string(l.ch)
		l.readChar()
	}
	switch strings.ToLower(suffix) {
	case "f", "h":
		isFloat = true
	}
	kind := token.INT
	if isFloat {
		kind = token.FLOAT
	}
	if suffix != "" && !isFloat && strings.ToLower(suffix) != "u" && strings.ToLower(suffix) != "l" {
		l.addError(pos, "invalid numeric literal suffix %q", suffix)
	}
	return token.Token{Kind: kind, Literal: digits, Suffix: suffix, Pos: pos, EndPos: l.currentPos()}
}

func (l *Lexer) readString(pos token.Position) token.Token {
	l.readChar() // consume opening "
	var b strings.Builder
	for l.ok && l.ch != '"' {
		if l.ch == '\\' {
			b.WriteRune(l.ch)
			l.readChar()
			if l.ok {
				b.WriteRune(l.ch)
				l.readChar()
			}
			continue
		}
		if l.ch == '\n' {
			l.addError(pos, "unterminated string literal")
			break
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
	if l.ok && l.ch == '"' {
		l.readChar()
	} else if l.ch != '\n' {
		l.addError(pos, "unterminated string literal")
	}
	return token.Token{Kind: token.STRING, Literal: b.String(), Pos: pos, EndPos: l.currentPos()}
}

func (l *Lexer) readCharLiteral(pos token.Position) token.Token {
	l.readChar() // consume opening '
	var b strings.Builder
	for l.ok && l.ch != '\'' {
		b.WriteRune(l.ch)
		l.readChar()
	}
	if l.ok && l.ch == '\'' {
		l.readChar()
	} else {
		l.addError(pos, "unterminated character literal")
	}
	return token.Token{Kind: token.CHAR, Literal: b.String(), Pos: pos, EndPos: l.currentPos()}
}

// readOperator lexes operators, compound assigns and shifts, and
// punctuation. On an unrecognized character it resynchronizes at the
// next whitespace lexer error-recovery rule.
func (l *Lexer) readOperator(pos token.Position) token.Token {
	ch := l.ch
	l.readChar()

	switch ch {
	case '+':
		if l.ch == '+' {
			l.readChar()
			return l.finish(token.INC, "++", pos)
		}
		if l.ch == '=' {
			l.readChar()
			return l.finish(token.PLUS_EQ, "+=", pos)
		}
		return l.finish(token.PLUS, "+", pos)
	case '-':
		if l.ch == '-' {
			l.readChar()
			return l.finish(token.DEC, "--", pos)
		}
		if l.ch == '=' {
			l.readChar()
			return l.finish(token.MINUS_EQ, "-=", pos)
		}
		return l.finish(token.MINUS, "-", pos)
	case '*':
		if l.ch == '=' {
			l.readChar()
			return l.finish(token.STAR_EQ, "*=", pos)
		}
		return l.finish(token.STAR, "*", pos)
	case '/':
		if l.ch == '=' {
			l.readChar()
			return l.finish(token.SLASH_EQ, "/=", pos)
		}
		return l.finish(token.SLASH, "/", pos)
	case '%':
		if l.ch == '=' {
			l.readChar()
			return l.finish(token.PERCENT_EQ, "%=", pos)
		}
		return l.finish(token.PERCENT, "%", pos)
	case '=':
		if l.ch == '=' {
			l.readChar()
			return l.finish(token.EQ, "==", pos)
		}
		return l.finish(token.ASSIGN, "=", pos)
	case '!':
		if l.ch == '=' {
			l.readChar()
			return l.finish(token.NOT_EQ, "!=", pos)
		}
		return l.finish(token.BANG, "!", pos)
	case '<':
		if l.ch == '=' {
			l.readChar()
			return l.finish(token.LT_EQ, "<=", pos)
		}
		if l.ch == '<' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return l.finish(token.SHL_EQ, "<<=", pos)
			}
			return l.finish(token.SHL, "<<", pos)
		}
		return l.finish(token.LT, "<", pos)
	case '>':
		if l.ch == '=' {
			l.readChar()
			return l.finish(token.GT_EQ, ">=", pos)
		}
		if l.ch == '>' {
			l.readChar()
			if l.ch == '=' {
				l.readChar()
				return l.finish(token.SHR_EQ, ">>=", pos)
			}
			return l.finish(token.SHR, ">>", pos)
		}
		return l.finish(token.GT, ">", pos)
	case '&':
		if l.ch == '&' {
			l.readChar()
			return l.finish(token.ANDAND, "&&", pos)
		}
		if l.ch == '=' {
			l.readChar()
			return l.finish(token.AMP_EQ, "&=", pos)
		}
		return l.finish(token.AMP, "&", pos)
	case '|':
		if l.ch == '|' {
			l.readChar()
			return l.finish(token.OROR, "||", pos)
		}
		if l.ch == '=' {
			l.readChar()
			return l.finish(token.PIPE_EQ, "|=", pos)
		}
		return l.finish(token.PIPE, "|", pos)
	case '^':
		if l.ch == '=' {
			l.readChar()
			return l.finish(token.CARET_EQ, "^=", pos)
		}
		return l.finish(token.CARET, "^", pos)
	case '~':
		return l.finish(token.TILDE, "~", pos)
	case ':':
		return l.finish(token.COLON, ":", pos)
	case ';':
		return l.finish(token.SEMICOLON, ";", pos)
	case ',':
		return l.finish(token.COMMA, ",", pos)
	case '.':
		return l.finish(token.DOT, ".", pos)
	case '?':
		return l.finish(token.QUESTION, "?", pos)
	case '(':
		return l.finish(token.LPAREN, "(", pos)
	case ')':
		return l.finish(token.RPAREN, ")", pos)
	case '{':
		return l.finish(token.LBRACE, "{", pos)
	case '}':
		return l.finish(token.RBRACE, "}", pos)
	case '[':
		return l.finish(token.LBRACKET, "[", pos)
	case ']':
		return l.finish(token.RBRACKET, "]", pos)
	}

	l.addError(pos, "stray character %q", string(ch))
	for l.ok && !unicode.IsSpace(l.ch) {
		l.readChar()
	}
	return token.Token{Kind: token.ILLEGAL, Literal: string(ch), Pos: pos, EndPos: l.currentPos()}
}

func (l *Lexer) single(kind token.Kind) token.Token {
	pos := l.currentPos()
	lit := string(l.ch)
	l.readChar()
	return token.Token{Kind: kind, Literal: lit, Pos: pos, EndPos: l.currentPos()}
}

func (l *Lexer) finish(kind token.Kind, lit string, pos token.Position) token.Token {
	return token.Token{Kind: kind, Literal: lit, Pos: pos, EndPos: l.currentPos()}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isSuffixChar(ch rune) bool {
	switch ch {
	case 'u', 'U', 'f', 'F', 'h', 'H', 'l', 'L':
		return true
	}
	return false
}
