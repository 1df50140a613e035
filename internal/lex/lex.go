// Package lex tokenizes ECMAScript-family source into a flat token
// stream plus a separate comment stream, both indexed by absolute byte
// offset — the same byte-offset-first idiom the teacher repo used for
// scanning Go/Java/TS import statements (internal/graph) and TS/JS
// exports (internal/index/symbols_ts.go), generalized here to a real
// tokenizer instead of ad-hoc per-construct regexes.
package lex

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"macroshake/internal/ast"
)

type Kind int

const (
	EOF Kind = iota
	Ident
	Keyword
	Number
	String
	TemplateLit
	Regex
	Punct
)

// Token is one lexical token with its byte range.
type Token struct {
	Kind  Kind
	Text  string // raw source text
	Value string // decoded value for String tokens
	Range ast.Range
}

var keywords = map[string]bool{
	"var": true, "let": true, "const": true, "function": true,
	"return": true, "if": true, "else": true, "true": true, "false": true,
	"null": true, "undefined": true, "new": true, "typeof": true,
	"void": true, "delete": true, "in": true, "of": true, "instanceof": true,
	"this": true, "class": true, "extends": true, "super": true,
	"for": true, "while": true, "do": true, "break": true, "continue": true,
	"switch": true, "case": true, "default": true, "try": true,
	"catch": true, "finally": true, "throw": true, "yield": true,
	"async": true, "await": true, "static": true, "get": true, "set": true,
	"import": true, "export": true, "from": true, "as": true,
}

// Lexer produces tokens on demand and accumulates comments as it goes.
type Lexer struct {
	src      string
	pos      int
	Comments []ast.Comment
	// prevKind/prevText are the kind/text of the last non-comment token,
	// used to disambiguate `/` (division) from the start of a regex
	// literal — the standard ECMAScript lexer heuristic.
	prevKind Kind
	prevText string
}

func New(src string) *Lexer {
	return &Lexer{src: src}
}

func (l *Lexer) errorf(pos int, format string, args ...any) error {
	return fmt.Errorf("lex: offset %d: %s", pos, fmt.Sprintf(format, args...))
}

// Next returns the next significant token, skipping whitespace and
// recording comments (with a placeholder AttachPos the caller must
// fix up once it knows the node the comment attaches to — the parser
// does this once the whole file is parsed, see parse.attachComments).
func (l *Lexer) Next() (Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Kind: EOF, Range: ast.Range{Lo: l.pos, Hi: l.pos}}, nil
		}
		c := l.src[l.pos]
		if c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
			l.lexLineComment()
			continue
		}
		if c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*' {
			if err := l.lexBlockComment(); err != nil {
				return Token{}, err
			}
			continue
		}
		break
	}
	start := l.pos
	c := l.src[l.pos]

	switch {
	case isIdentStart(rune(c)) || c >= utf8.RuneSelf:
		return l.lexIdentOrKeyword(start)
	case c >= '0' && c <= '9':
		return l.lexNumber(start)
	case c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]):
		return l.lexNumber(start)
	case c == '"' || c == '\'':
		return l.lexString(start, c)
	case c == '`':
		return l.lexTemplate(start)
	case c == '/' && l.regexAllowed():
		return l.lexRegex(start)
	default:
		return l.lexPunct(start)
	}
}

func (l *Lexer) regexAllowed() bool {
	switch l.prevKind {
	case Ident, Number, String, TemplateLit, Regex:
		return false
	case Punct:
		switch l.prevText {
		case ")", "]":
			return false
		}
		return true
	default:
		return true
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			l.pos++
		default:
			return
		}
	}
}

func (l *Lexer) lexLineComment() {
	start := l.pos
	l.pos += 2
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
	text := l.src[start+2 : l.pos]
	l.Comments = append(l.Comments, ast.Comment{
		Kind:  ast.LineComment,
		Range: ast.Range{Lo: start, Hi: l.pos},
		Text:  text,
	})
}

func (l *Lexer) lexBlockComment() error {
	start := l.pos
	l.pos += 2
	for {
		if l.pos+1 >= len(l.src) {
			return l.errorf(start, "unterminated block comment")
		}
		if l.src[l.pos] == '*' && l.src[l.pos+1] == '/' {
			l.pos += 2
			break
		}
		l.pos++
	}
	text := l.src[start+2 : l.pos-2]
	l.Comments = append(l.Comments, ast.Comment{
		Kind:  ast.BlockComment,
		Range: ast.Range{Lo: start, Hi: l.pos},
		Text:  text,
	})
	return nil
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (l *Lexer) lexIdentOrKeyword(start int) (Token, error) {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	text := l.src[start:l.pos]
	k := Ident
	if keywords[text] {
		k = Keyword
	}
	tok := Token{Kind: k, Text: text, Range: ast.Range{Lo: start, Hi: l.pos}}
	l.prevKind, l.prevText = k, text
	return tok, nil
}

func (l *Lexer) lexNumber(start int) (Token, error) {
	// Accept hex/octal/binary prefixes, decimal, exponent, and a
	// trailing bigint `n` marker (kept in Raw, stripped for Value).
	if l.src[l.pos] == '0' && l.pos+1 < len(l.src) && (l.src[l.pos+1] == 'x' || l.src[l.pos+1] == 'X' ||
		l.src[l.pos+1] == 'o' || l.src[l.pos+1] == 'O' || l.src[l.pos+1] == 'b' || l.src[l.pos+1] == 'B') {
		l.pos += 2
		for l.pos < len(l.src) && isAlnum(l.src[l.pos]) {
			l.pos++
		}
	} else {
		for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
			l.pos++
		}
		if l.pos < len(l.src) && l.src[l.pos] == '.' {
			l.pos++
			for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
				l.pos++
			}
		}
		if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
			l.pos++
			if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
				l.pos++
			}
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		}
	}
	if l.pos < len(l.src) && l.src[l.pos] == 'n' {
		l.pos++
	}
	text := l.src[start:l.pos]
	tok := Token{Kind: Number, Text: text, Range: ast.Range{Lo: start, Hi: l.pos}}
	l.prevKind, l.prevText = Number, text
	return tok, nil
}

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') || c == '_'
}

func (l *Lexer) lexString(start int, quote byte) (Token, error) {
	l.pos++ // opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, l.errorf(start, "unterminated string literal")
		}
		c := l.src[l.pos]
		if c == quote {
			l.pos++
			break
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			decoded, n := decodeEscape(l.src[l.pos+1:])
			b.WriteString(decoded)
			l.pos += 1 + n
			continue
		}
		b.WriteByte(c)
		l.pos++
	}
	text := l.src[start:l.pos]
	tok := Token{Kind: String, Text: text, Value: b.String(), Range: ast.Range{Lo: start, Hi: l.pos}}
	l.prevKind, l.prevText = String, text
	return tok, nil
}

func decodeEscape(rest string) (string, int) {
	if rest == "" {
		return "", 0
	}
	switch rest[0] {
	case 'n':
		return "\n", 1
	case 't':
		return "\t", 1
	case 'r':
		return "\r", 1
	case 'b':
		return "\b", 1
	case 'f':
		return "\f", 1
	case 'v':
		return "\v", 1
	case '0':
		return "\x00", 1
	case '\n':
		return "", 1
	case 'u':
		if len(rest) > 1 && rest[1] == '{' {
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				return "", 1
			}
			n, err := strconv.ParseInt(rest[2:end], 16, 32)
			if err != nil {
				return "", end + 1
			}
			return string(rune(n)), end + 1
		}
		if len(rest) >= 5 {
			n, err := strconv.ParseInt(rest[1:5], 16, 32)
			if err == nil {
				return string(rune(n)), 5
			}
		}
		return "", 1
	case 'x':
		if len(rest) >= 3 {
			n, err := strconv.ParseInt(rest[1:3], 16, 32)
			if err == nil {
				return string(rune(n)), 3
			}
		}
		return "", 1
	default:
		return string(rest[0]), 1
	}
}

// lexTemplate consumes a whole template literal as an opaque raw
// token; macroshake never decomposes template substitutions. Nested
// `${ ... }` braces are depth-tracked only enough to find the matching
// closing backtick.
func (l *Lexer) lexTemplate(start int) (Token, error) {
	l.pos++ // opening backtick
	depth := 0
	for {
		if l.pos >= len(l.src) {
			return Token{}, l.errorf(start, "unterminated template literal")
		}
		c := l.src[l.pos]
		switch {
		case c == '\\':
			l.pos += 2
		case c == '`' && depth == 0:
			l.pos++
			text := l.src[start:l.pos]
			tok := Token{Kind: TemplateLit, Text: text, Range: ast.Range{Lo: start, Hi: l.pos}}
			l.prevKind, l.prevText = TemplateLit, text
			return tok, nil
		case c == '$' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '{':
			depth++
			l.pos += 2
		case c == '}' && depth > 0:
			depth--
			l.pos++
		default:
			l.pos++
		}
	}
}

func (l *Lexer) lexRegex(start int) (Token, error) {
	l.pos++ // opening slash
	inClass := false
	for {
		if l.pos >= len(l.src) {
			return Token{}, l.errorf(start, "unterminated regex literal")
		}
		c := l.src[l.pos]
		switch {
		case c == '\\':
			l.pos += 2
		case c == '[':
			inClass = true
			l.pos++
		case c == ']':
			inClass = false
			l.pos++
		case c == '/' && !inClass:
			l.pos++
			goto flags
		default:
			l.pos++
		}
	}
flags:
	for l.pos < len(l.src) && isIdentPart(rune(l.src[l.pos])) {
		l.pos++
	}
	text := l.src[start:l.pos]
	tok := Token{Kind: Regex, Text: text, Range: ast.Range{Lo: start, Hi: l.pos}}
	l.prevKind, l.prevText = Regex, text
	return tok, nil
}

// multiCharPuncts is tried longest-first.
var multiCharPuncts = []string{
	">>>=", "===", "!==", "**=", "<<=", ">>=", ">>>", "...", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
}

func (l *Lexer) lexPunct(start int) (Token, error) {
	rest := l.src[start:]
	for _, p := range multiCharPuncts {
		if strings.HasPrefix(rest, p) {
			l.pos += len(p)
			tok := Token{Kind: Punct, Text: p, Range: ast.Range{Lo: start, Hi: l.pos}}
			l.prevKind, l.prevText = Punct, p
			return tok, nil
		}
	}
	l.pos++
	text := l.src[start:l.pos]
	tok := Token{Kind: Punct, Text: text, Range: ast.Range{Lo: start, Hi: l.pos}}
	l.prevKind, l.prevText = Punct, text
	return tok, nil
}
