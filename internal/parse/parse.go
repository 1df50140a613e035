// Package parse implements a minimal recursive-descent parser for the
// ECMAScript subset macroshake transforms. Like the lexer, AST and
// printer, it uses only the standard library (see DESIGN.md): no repo in the
// retrieved example corpus imports a JS/AST parsing library, and the
// transform/reachability passes need a mutable, byte-range-addressable
// tree that a declarative grammar library such as participle is not
// shaped to provide.
//
// Constructs outside the subset (for/while/switch/try/class/import/
// export/labeled statements) parse as an opaque ast.RawStmt spanning
// the construct's source range, preserving statement-level splice and
// containment semantics without requiring the parser to understand
// their insides.
package parse

import (
	"fmt"

	"macroshake/internal/ast"
	"macroshake/internal/lex"
)

// Parse tokenizes and parses source into a File plus its (mutable)
// comment stream, matching the §6 parser contract: every node carries
// an absolute byte-position range, and comments are indexed by the
// position of the node they attach to.
func Parse(source string) (*ast.File, []ast.Comment, error) {
	p := &parser{src: source}
	if err := p.tokenizeAll(); err != nil {
		return nil, nil, fmt.Errorf("parse: %w", err)
	}
	items, err := p.parseItems(func() bool { return p.at(lex.EOF, "") })
	if err != nil {
		return nil, nil, fmt.Errorf("parse: %w", err)
	}
	end := len(source)
	file := &ast.File{Items: items, Range: ast.Range{Lo: 0, Hi: end}}
	p.attachComments(end)
	return file, p.comments, nil
}

type parser struct {
	src      string
	toks     []lex.Token
	pos      int
	comments []ast.Comment
}

func (p *parser) tokenizeAll() error {
	l := lex.New(p.src)
	for {
		t, err := l.Next()
		if err != nil {
			return err
		}
		p.toks = append(p.toks, t)
		if t.Kind == lex.EOF {
			break
		}
	}
	p.comments = l.Comments
	return nil
}

// attachComments assigns each comment's AttachPos to the start offset
// of the nearest following token (leading attachment) or, for trailing
// comments at end of file, the file end.
func (p *parser) attachComments(fileEnd int) {
	for i := range p.comments {
		c := &p.comments[i]
		c.Attach = ast.Leading
		attach := fileEnd
		for _, t := range p.toks {
			if t.Kind == lex.EOF {
				continue
			}
			if t.Range.Lo >= c.Range.Hi {
				attach = t.Range.Lo
				break
			}
		}
		c.AttachPos = attach
	}
}

func (p *parser) cur() lex.Token   { return p.toks[p.pos] }
func (p *parser) peek(n int) lex.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *parser) advance() lex.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) at(kind lex.Kind, text string) bool {
	t := p.cur()
	if t.Kind != kind {
		return false
	}
	return text == "" || t.Text == text
}

func (p *parser) atPunct(text string) bool  { return p.at(lex.Punct, text) }
func (p *parser) atKeyword(kw string) bool  { return p.at(lex.Keyword, kw) }

func (p *parser) expectPunct(text string) (lex.Token, error) {
	if !p.atPunct(text) {
		return lex.Token{}, p.errf("expected %q, got %q", text, p.cur().Text)
	}
	return p.advance(), nil
}

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", p.cur().Range.Lo, fmt.Sprintf(format, args...))
}

// identLike accepts an Ident token or any keyword used as a property
// name / binding name (bundlers freely use `default`, `get`, etc. as
// identifiers in member/property position).
func (p *parser) identLike() (string, bool) {
	t := p.cur()
	if t.Kind == lex.Ident || t.Kind == lex.Keyword {
		return t.Text, true
	}
	return "", false
}

// ---- statements -----------------------------------------------------------

// parseItems parses statements until stop() is true.
func (p *parser) parseItems(stop func() bool) ([]ast.Node, error) {
	var items []ast.Node
	for !stop() {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, nil
}

func (p *parser) parseStmt() (ast.Node, error) {
	start := p.cur().Range.Lo
	switch {
	case p.atPunct(";"):
		p.advance()
		return &ast.EmptyStmt{Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
	case p.atPunct("{"):
		return p.parseBlock()
	case p.atKeyword("var"), p.atKeyword("let"), p.atKeyword("const"):
		return p.parseVarDecl()
	case p.atKeyword("function"):
		return p.parseFuncDecl(false)
	case p.atKeyword("async") && p.peek(1).Kind == lex.Keyword && p.peek(1).Text == "function":
		p.advance()
		return p.parseFuncDecl(true)
	case p.atKeyword("return"):
		return p.parseReturn()
	case p.atKeyword("if"):
		return p.parseIf()
	case p.atKeyword("for"), p.atKeyword("while"), p.atKeyword("do"),
		p.atKeyword("switch"), p.atKeyword("try"), p.atKeyword("class"),
		p.atKeyword("import"), p.atKeyword("export"), p.atKeyword("throw"),
		p.atKeyword("break"), p.atKeyword("continue"):
		return p.parseRawStmt(start)
	default:
		// Labeled statement: `ident: stmt` — also falls back to raw,
		// since labels never appear in the module-item/statement
		// shapes T/R/S care about.
		if p.cur().Kind == lex.Ident && p.peek(1).Kind == lex.Punct && p.peek(1).Text == ":" {
			return p.parseRawStmt(start)
		}
		return p.parseExprStmt()
	}
}

func (p *parser) prevEnd() int {
	if p.pos == 0 {
		return 0
	}
	return p.toks[p.pos-1].Range.Hi
}

func (p *parser) parseBlock() (*ast.BlockStmt, error) {
	start := p.cur().Range.Lo
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	items, err := p.parseItems(func() bool { return p.atPunct("}") || p.at(lex.EOF, "") })
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return &ast.BlockStmt{Items: items, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
}

func (p *parser) parseVarDecl() (*ast.VarDecl, error) {
	start := p.cur().Range.Lo
	kind := p.advance().Text
	var decls []*ast.Declarator
	for {
		dstart := p.cur().Range.Lo
		name, ok := p.identLike()
		if !ok {
			return nil, p.errf("expected binding name")
		}
		p.advance()
		var init ast.Node
		if p.atPunct("=") {
			p.advance()
			x, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			init = x
		}
		decls = append(decls, &ast.Declarator{Name: name, Init: init, Range: ast.Range{Lo: dstart, Hi: p.prevEnd()}})
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if p.atPunct(";") {
		p.advance()
	}
	return &ast.VarDecl{Kind: kind, Decls: decls, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
}

func (p *parser) parseFuncDecl(async bool) (ast.Node, error) {
	start := p.cur().Range.Lo
	p.advance() // 'function'
	name := ""
	if n, ok := p.identLike(); ok && !p.atPunct("(") {
		name = n
		p.advance()
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	_ = async
	return &ast.FuncDecl{Name: name, Params: params, Body: body, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
}

func (p *parser) parseParamList() ([]string, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var params []string
	for !p.atPunct(")") {
		if p.atPunct("...") {
			p.advance()
		}
		name, ok := p.identLike()
		if !ok {
			if p.atPunct("{") || p.atPunct("[") {
				// Destructuring parameter: skip the pattern opaquely.
				if err := p.skipBalanced(); err != nil {
					return nil, err
				}
			} else {
				return nil, p.errf("expected parameter name")
			}
		} else {
			params = append(params, name)
			p.advance()
		}
		if p.atPunct("=") {
			p.advance()
			if _, err := p.parseAssign(); err != nil {
				return nil, err
			}
		}
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return params, nil
}

// skipBalanced consumes one balanced (), [], or {} group starting at
// the current token, used for destructuring patterns we don't model.
func (p *parser) skipBalanced() error {
	open := p.cur().Text
	var close string
	switch open {
	case "(":
		close = ")"
	case "[":
		close = "]"
	case "{":
		close = "}"
	default:
		return p.errf("expected balanced group")
	}
	depth := 0
	for {
		if p.at(lex.EOF, "") {
			return p.errf("unbalanced %q", open)
		}
		t := p.cur()
		if t.Kind == lex.Punct {
			switch t.Text {
			case "(", "[", "{":
				if t.Text == open {
					depth++
				}
			case close:
				depth--
				p.advance()
				if depth == 0 {
					return nil
				}
				continue
			}
		}
		p.advance()
	}
}

func (p *parser) parseReturn() (*ast.ReturnStmt, error) {
	start := p.cur().Range.Lo
	p.advance()
	var x ast.Node
	if !p.atPunct(";") && !p.atPunct("}") && !p.at(lex.EOF, "") {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		x = v
	}
	if p.atPunct(";") {
		p.advance()
	}
	return &ast.ReturnStmt{X: x, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
}

func (p *parser) parseIf() (*ast.IfStmt, error) {
	start := p.cur().Range.Lo
	p.advance()
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Node
	if p.atKeyword("else") {
		p.advance()
		e, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		elseStmt = e
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: elseStmt, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
}

func (p *parser) parseExprStmt() (*ast.ExprStmt, error) {
	start := p.cur().Range.Lo
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.atPunct(";") {
		p.advance()
	}
	return &ast.ExprStmt{X: x, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
}

// parseRawStmt consumes a statement-level construct outside the
// modeled subset by balancing braces/parens/brackets until a
// terminating `;` at depth 0 or a closing `}`/EOF, and records its
// verbatim text.
func (p *parser) parseRawStmt(start int) (*ast.RawStmt, error) {
	depth := 0
	for {
		t := p.cur()
		if t.Kind == lex.EOF {
			break
		}
		if t.Kind == lex.Punct {
			switch t.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					goto done
				}
				depth--
				p.advance()
				if depth == 0 {
					// A raw statement ending on a closing brace (e.g.
					// `for (...) { ... }`) is complete once that brace
					// is consumed, unless more keywords follow (else/
					// catch/finally/while) that continue the same
					// construct.
					if !p.continuesRawStmt() {
						goto done
					}
					continue
				}
				continue
			case ";":
				if depth == 0 {
					p.advance()
					goto done
				}
			}
		}
		p.advance()
	}
done:
	return &ast.RawStmt{Text: p.src[start:p.prevEnd()], Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
}

func (p *parser) continuesRawStmt() bool {
	return p.atKeyword("else") || p.atKeyword("catch") || p.atKeyword("finally") || p.atKeyword("while")
}

// ---- expressions ------------------------------------------------------

func (p *parser) parseExpr() (ast.Node, error) {
	start := p.cur().Range.Lo
	first, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if !p.atPunct(",") {
		return first, nil
	}
	exprs := []ast.Node{first}
	for p.atPunct(",") {
		p.advance()
		n, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, n)
	}
	return &ast.SeqExpr{Exprs: exprs, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, ">>>=": true, "&=": true,
	"|=": true, "^=": true, "&&=": true, "||=": true, "??=": true,
}

func (p *parser) parseAssign() (ast.Node, error) {
	start := p.cur().Range.Lo
	if arrow, ok, err := p.tryParseArrow(); err != nil {
		return nil, err
	} else if ok {
		return arrow, nil
	}
	left, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind == lex.Punct && assignOps[p.cur().Text] {
		op := p.advance().Text
		right, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Op: op, Target: left, Value: right, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
	}
	return left, nil
}

// tryParseArrow attempts to parse an arrow function at the current
// position (either `ident =>` or `(params) =>`), backtracking cleanly
// if the lookahead does not confirm an arrow.
func (p *parser) tryParseArrow() (ast.Node, bool, error) {
	start := p.cur().Range.Lo
	async := false
	mark := p.pos
	if p.atKeyword("async") && (p.peek(1).Kind == lex.Ident || (p.peek(1).Kind == lex.Punct && p.peek(1).Text == "(")) {
		// Only treat `async` as a prefix if what follows can start an
		// arrow function; otherwise `async` is just an identifier.
		save := p.pos
		p.advance()
		if node, ok, err := p.tryParseArrowCore(true); err != nil {
			return nil, false, err
		} else if ok {
			return node, true, nil
		}
		p.pos = save
		_ = async
		return nil, false, nil
	}
	node, ok, err := p.tryParseArrowCore(false)
	if err != nil {
		p.pos = mark
		return nil, false, nil
	}
	if !ok {
		p.pos = mark
		return nil, false, nil
	}
	_ = start
	return node, true, nil
}

func (p *parser) tryParseArrowCore(async bool) (ast.Node, bool, error) {
	start := p.cur().Range.Lo
	mark := p.pos
	if p.cur().Kind == lex.Ident && p.peek(1).Kind == lex.Punct && p.peek(1).Text == "=>" {
		name := p.advance().Text
		p.advance() // =>
		body, concise, err := p.parseArrowBody()
		if err != nil {
			p.pos = mark
			return nil, false, nil
		}
		return &ast.ArrowFunc{Params: []string{name}, Body: body, ConciseBody: concise, Async: async,
			Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, true, nil
	}
	if p.atPunct("(") {
		params, ok := p.tryParseParamListLookahead()
		if !ok || !p.atPunct("=>") {
			p.pos = mark
			return nil, false, nil
		}
		p.advance() // =>
		body, concise, err := p.parseArrowBody()
		if err != nil {
			p.pos = mark
			return nil, false, nil
		}
		return &ast.ArrowFunc{Params: params, Body: body, ConciseBody: concise, Async: async,
			Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, true, nil
	}
	return nil, false, nil
}

// tryParseParamListLookahead parses a parenthesized parameter list
// without erroring out of the surrounding attempt on malformed input;
// on any shape it cannot confirm, it reports ok=false.
func (p *parser) tryParseParamListLookahead() ([]string, bool) {
	mark := p.pos
	params, err := p.parseParamList()
	if err != nil {
		p.pos = mark
		return nil, false
	}
	return params, true
}

func (p *parser) parseArrowBody() (ast.Node, bool, error) {
	if p.atPunct("{") {
		b, err := p.parseBlock()
		if err != nil {
			return nil, false, err
		}
		return b, false, nil
	}
	x, err := p.parseAssign()
	if err != nil {
		return nil, false, err
	}
	return x, true, nil
}

// precedence table for binary (non-assignment) operators. Higher
// binds tighter. "**" is right-associative; all others left.
var binPrec = map[string]int{
	"??": 1, "||": 2, "&&": 3,
	"|": 4, "^": 5, "&": 6,
	"==": 7, "!=": 7, "===": 7, "!==": 7,
	"<": 8, ">": 8, "<=": 8, ">=": 8, "in": 8, "instanceof": 8,
	"<<": 9, ">>": 9, ">>>": 9,
	"+": 10, "-": 10,
	"*": 11, "/": 11, "%": 11,
	"**": 12,
}

func (p *parser) parseConditional() (ast.Node, error) {
	start := p.cur().Range.Lo
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if !p.atPunct("?") {
		return cond, nil
	}
	p.advance()
	then, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(":"); err != nil {
		return nil, err
	}
	els, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	return &ast.ConditionalExpr{Cond: cond, Then: then, Else: els, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
}

func (p *parser) binOpHere() (string, bool) {
	t := p.cur()
	if t.Kind == lex.Punct {
		if _, ok := binPrec[t.Text]; ok {
			return t.Text, true
		}
	}
	if t.Kind == lex.Keyword && (t.Text == "in" || t.Text == "instanceof") {
		return t.Text, true
	}
	return "", false
}

func (p *parser) parseBinary(minPrec int) (ast.Node, error) {
	start := p.cur().Range.Lo
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.binOpHere()
		if !ok {
			return left, nil
		}
		prec := binPrec[op]
		if prec < minPrec {
			return left, nil
		}
		p.advance()
		nextMin := prec + 1
		if op == "**" {
			nextMin = prec
		}
		right, err := p.parseBinary(nextMin)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}
	}
}

var prefixUnary = map[string]bool{
	"!": true, "~": true, "+": true, "-": true, "++": true, "--": true,
}

func (p *parser) parseUnary() (ast.Node, error) {
	start := p.cur().Range.Lo
	t := p.cur()
	if t.Kind == lex.Punct && prefixUnary[t.Text] {
		op := p.advance().Text
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, X: x, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
	}
	if t.Kind == lex.Keyword && (t.Text == "typeof" || t.Text == "void" || t.Text == "delete" || t.Text == "await") {
		op := p.advance().Text
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, X: x, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (ast.Node, error) {
	start := p.cur().Range.Lo
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atPunct(".") || p.atPunct("?."):
			p.advance()
			name, ok := p.identLike()
			if !ok {
				return nil, p.errf("expected property name")
			}
			p.advance()
			x = &ast.MemberExpr{Obj: x, Prop: &ast.Ident{Name: name, Range: ast.Range{Lo: p.toks[p.pos-1].Range.Lo, Hi: p.toks[p.pos-1].Range.Hi}}, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}
		case p.atPunct("["):
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			x = &ast.MemberExpr{Obj: x, Prop: idx, Computed: true, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}
		case p.atPunct("("):
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			x = &ast.CallExpr{Callee: x, Args: args, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}
		case p.atPunct("++") || p.atPunct("--"):
			op := p.advance().Text
			x = &ast.UnaryExpr{Op: "post" + op, X: x, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}
		default:
			return x, nil
		}
	}
}

func (p *parser) parseArgs() ([]ast.Node, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var args []ast.Node
	for !p.atPunct(")") {
		astart := p.cur().Range.Lo
		if p.atPunct("...") {
			p.advance()
			x, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			args = append(args, &ast.UnaryExpr{Op: "...", X: x, Range: ast.Range{Lo: astart, Hi: p.prevEnd()}})
		} else {
			x, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			args = append(args, x)
		}
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimary() (ast.Node, error) {
	start := p.cur().Range.Lo
	t := p.cur()
	switch {
	case t.Kind == lex.Number:
		p.advance()
		v := parseNumberValue(t.Text)
		return &ast.NumberLit{Value: v, Raw: t.Text, Range: t.Range}, nil
	case t.Kind == lex.String:
		p.advance()
		return &ast.StringLit{Value: t.Value, Raw: t.Text, Range: t.Range}, nil
	case t.Kind == lex.TemplateLit || t.Kind == lex.Regex:
		p.advance()
		return &ast.RawExpr{Text: t.Text, Range: t.Range}, nil
	case t.Kind == lex.Keyword && t.Text == "true":
		p.advance()
		return &ast.BoolLit{Value: true, Range: t.Range}, nil
	case t.Kind == lex.Keyword && t.Text == "false":
		p.advance()
		return &ast.BoolLit{Value: false, Range: t.Range}, nil
	case t.Kind == lex.Keyword && t.Text == "null":
		p.advance()
		return &ast.NullLit{Range: t.Range}, nil
	case t.Kind == lex.Keyword && t.Text == "new":
		p.advance()
		callee, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: "new", X: callee, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
	case t.Kind == lex.Keyword && t.Text == "function":
		return p.parseFuncExprLit(false)
	case t.Kind == lex.Keyword && t.Text == "async" && p.peek(1).Kind == lex.Keyword && p.peek(1).Text == "function":
		p.advance()
		return p.parseFuncExprLit(true)
	case t.Kind == lex.Punct && t.Text == "(":
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return &ast.ParenExpr{X: x, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
	case t.Kind == lex.Punct && t.Text == "[":
		return p.parseArrayLit()
	case t.Kind == lex.Punct && t.Text == "{":
		return p.parseObjectLit()
	case t.Kind == lex.Ident || t.Kind == lex.Keyword:
		p.advance()
		return &ast.Ident{Name: t.Text, Range: t.Range}, nil
	default:
		return nil, p.errf("unexpected token %q", t.Text)
	}
}

func (p *parser) parseFuncExprLit(async bool) (ast.Node, error) {
	start := p.cur().Range.Lo
	p.advance() // 'function'
	name := ""
	if n, ok := p.identLike(); ok && !p.atPunct("(") {
		name = n
		p.advance()
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncExpr{Name: name, Params: params, Body: body, Async: async, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
}

func (p *parser) parseArrayLit() (*ast.ArrayLit, error) {
	start := p.cur().Range.Lo
	p.advance() // '['
	var elems []ast.Node
	for !p.atPunct("]") {
		if p.atPunct(",") {
			elems = append(elems, nil)
			p.advance()
			continue
		}
		if p.atPunct("...") {
			sstart := p.cur().Range.Lo
			p.advance()
			x, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			elems = append(elems, &ast.UnaryExpr{Op: "...", X: x, Range: ast.Range{Lo: sstart, Hi: p.prevEnd()}})
		} else {
			x, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			elems = append(elems, x)
		}
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return &ast.ArrayLit{Elems: elems, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
}

func (p *parser) parseObjectLit() (*ast.ObjectLit, error) {
	start := p.cur().Range.Lo
	p.advance() // '{'
	var props []*ast.Property
	for !p.atPunct("}") {
		prop, err := p.parseProperty()
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return &ast.ObjectLit{Props: props, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
}

func (p *parser) parseProperty() (*ast.Property, error) {
	start := p.cur().Range.Lo
	if p.atPunct("...") {
		p.advance()
		v, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &ast.Property{Spread: true, Value: v, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
	}
	accessor := ""
	if (p.atKeyword("get") || p.atKeyword("set")) && !(p.peek(1).Kind == lex.Punct && (p.peek(1).Text == ":" || p.peek(1).Text == "," || p.peek(1).Text == "}" || p.peek(1).Text == "(")) {
		accessor = p.advance().Text
	}
	computed := false
	var keyName string
	keyQuoted := false
	switch {
	case p.atPunct("["):
		computed = true
		p.advance()
		kx, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		keyName = p.src[kx.Span().Lo:kx.Span().Hi]
		if _, err := p.expectPunct("]"); err != nil {
			return nil, err
		}
	case p.cur().Kind == lex.String:
		keyName = p.cur().Value
		keyQuoted = true
		p.advance()
	case p.cur().Kind == lex.Number:
		keyName = p.cur().Text
		p.advance()
	default:
		n, ok := p.identLike()
		if !ok {
			return nil, p.errf("expected property key")
		}
		keyName = n
		p.advance()
	}
	// Method shorthand: `key(params) { body }`.
	if p.atPunct("(") {
		params, err := p.parseParamList()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		fn := &ast.FuncExpr{Params: params, Body: body, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}
		return &ast.Property{KeyName: keyName, KeyQuoted: keyQuoted, Computed: computed, Value: fn,
			Method: true, Accessor: accessor, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
	}
	if p.atPunct(":") {
		p.advance()
		v, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &ast.Property{KeyName: keyName, KeyQuoted: keyQuoted, Computed: computed, Value: v,
			Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
	}
	// Shorthand `{ name }` (or `{ name = default }` in a destructuring
	// context, which we model the same way since we never destructure).
	if p.atPunct("=") {
		p.advance()
		if _, err := p.parseAssign(); err != nil {
			return nil, err
		}
	}
	return &ast.Property{KeyName: keyName, Value: &ast.Ident{Name: keyName, Range: ast.Range{Lo: start, Hi: p.prevEnd()}},
		Shorthand: true, Range: ast.Range{Lo: start, Hi: p.prevEnd()}}, nil
}

func parseNumberValue(raw string) float64 {
	v, _ := parseNumberLiteral(raw)
	return v
}
