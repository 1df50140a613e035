// Package print serialises a macroshake syntax tree back to source
// text, satisfying the §6 printer contract: `Print(file, comments)`
// emits positions in traversal order. It reconstructs syntax from the
// typed tree rather than echoing source bytes, since T/S mutate nodes
// in place (splice, clone-and-replace) and the original byte ranges of
// a replaced or newly synthesised node no longer correspond to
// anything in the input.
package print

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"macroshake/internal/ast"
)

// Print renders file, re-attaching any comments remaining in the
// stream (directive comments have already been removed from it by the
// directive scanner) immediately before the node they lead. Where
// several nested nodes start at the same offset, the comments are
// emitted once, before the outermost. A comment whose attach position
// is not the start of any printed node is not emitted.
func Print(file *ast.File, comments []ast.Comment) string {
	p := &printer{byPos: groupByAttachPos(comments)}
	var b strings.Builder
	p.items(&b, file.Items, 0)
	out := b.String()
	return strings.TrimRight(out, "\n") + "\n"
}

func groupByAttachPos(comments []ast.Comment) map[int][]ast.Comment {
	m := make(map[int][]ast.Comment, len(comments))
	for _, c := range comments {
		m[c.AttachPos] = append(m[c.AttachPos], c)
	}
	for k := range m {
		cs := m[k]
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].Range.Lo < cs[j].Range.Lo })
		m[k] = cs
	}
	return m
}

type printer struct {
	byPos map[int][]ast.Comment
}

func (p *printer) leading(b *strings.Builder, pos int) {
	for _, c := range p.byPos[pos] {
		switch c.Kind {
		case ast.LineComment:
			b.WriteString("//")
			b.WriteString(c.Text)
			b.WriteByte('\n')
		default:
			b.WriteString("/*")
			b.WriteString(c.Text)
			b.WriteString("*/ ")
		}
	}
	delete(p.byPos, pos)
}

func (p *printer) items(b *strings.Builder, items []ast.Node, indent int) {
	for _, it := range items {
		p.writeIndent(b, indent)
		p.stmt(b, it, indent)
		b.WriteByte('\n')
	}
}

func (p *printer) writeIndent(b *strings.Builder, indent int) {
	for i := 0; i < indent; i++ {
		b.WriteString("  ")
	}
}

func (p *printer) stmt(b *strings.Builder, n ast.Node, indent int) {
	p.leading(b, ast.StartPos(n))
	switch s := n.(type) {
	case *ast.EmptyStmt:
		b.WriteString(";")
	case *ast.ExprStmt:
		p.expr(b, s.X)
		b.WriteString(";")
	case *ast.BlockStmt:
		p.block(b, s, indent)
	case *ast.VarDecl:
		p.varDecl(b, s)
	case *ast.ReturnStmt:
		b.WriteString("return")
		if s.X != nil {
			b.WriteByte(' ')
			p.expr(b, s.X)
		}
		b.WriteString(";")
	case *ast.IfStmt:
		b.WriteString("if (")
		p.expr(b, s.Cond)
		b.WriteString(") ")
		p.stmt(b, s.Then, indent)
		if s.Else != nil {
			b.WriteString(" else ")
			p.stmt(b, s.Else, indent)
		}
	case *ast.FuncDecl:
		b.WriteString("function ")
		b.WriteString(s.Name)
		b.WriteByte('(')
		b.WriteString(strings.Join(s.Params, ", "))
		b.WriteString(") ")
		p.block(b, s.Body, indent)
	case *ast.RawStmt:
		b.WriteString(s.Text)
	default:
		b.WriteString(fmt.Sprintf("/* unprintable statement %T */", n))
	}
}

func (p *printer) block(b *strings.Builder, s *ast.BlockStmt, indent int) {
	b.WriteString("{\n")
	p.items(b, s.Items, indent+1)
	p.writeIndent(b, indent)
	b.WriteString("}")
}

func (p *printer) varDecl(b *strings.Builder, s *ast.VarDecl) {
	b.WriteString(s.Kind)
	b.WriteByte(' ')
	for i, d := range s.Decls {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.Name)
		if d.Init != nil {
			b.WriteString(" = ")
			p.expr(b, d.Init)
		}
	}
	b.WriteString(";")
}

func (p *printer) expr(b *strings.Builder, n ast.Node) {
	if n == nil {
		b.WriteString("null")
		return
	}
	p.leading(b, ast.StartPos(n))
	switch e := n.(type) {
	case *ast.Ident:
		b.WriteString(e.Name)
	case *ast.NullLit:
		b.WriteString("null")
	case *ast.BoolLit:
		b.WriteString(strconv.FormatBool(e.Value))
	case *ast.NumberLit:
		if e.Raw != "" {
			b.WriteString(e.Raw)
		} else {
			b.WriteString(formatNumber(e.Value))
		}
	case *ast.StringLit:
		if e.Raw != "" {
			b.WriteString(e.Raw)
		} else {
			b.WriteString(quoteString(e.Value))
		}
	case *ast.RawExpr:
		b.WriteString(e.Text)
	case *ast.ArrayLit:
		b.WriteByte('[')
		for i, el := range e.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			if el != nil {
				p.expr(b, el)
			}
		}
		b.WriteByte(']')
	case *ast.ObjectLit:
		p.objectLit(b, e)
	case *ast.FuncExpr:
		if e.Async {
			b.WriteString("async ")
		}
		b.WriteString("function")
		if e.Name != "" {
			b.WriteByte(' ')
			b.WriteString(e.Name)
		}
		b.WriteByte('(')
		b.WriteString(strings.Join(e.Params, ", "))
		b.WriteString(") ")
		p.block(b, e.Body, 0)
	case *ast.ArrowFunc:
		if e.Async {
			b.WriteString("async ")
		}
		if len(e.Params) == 1 {
			b.WriteString(e.Params[0])
		} else {
			b.WriteByte('(')
			b.WriteString(strings.Join(e.Params, ", "))
			b.WriteByte(')')
		}
		b.WriteString(" => ")
		if e.ConciseBody {
			p.expr(b, e.Body)
		} else {
			p.block(b, e.Body.(*ast.BlockStmt), 0)
		}
	case *ast.CallExpr:
		p.expr(b, e.Callee)
		b.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			p.expr(b, a)
		}
		b.WriteByte(')')
	case *ast.MemberExpr:
		p.expr(b, e.Obj)
		if e.Computed {
			b.WriteByte('[')
			p.expr(b, e.Prop)
			b.WriteByte(']')
		} else {
			b.WriteByte('.')
			p.expr(b, e.Prop)
		}
	case *ast.AssignExpr:
		p.expr(b, e.Target)
		b.WriteByte(' ')
		b.WriteString(e.Op)
		b.WriteByte(' ')
		p.expr(b, e.Value)
	case *ast.BinaryExpr:
		p.expr(b, e.Left)
		b.WriteByte(' ')
		b.WriteString(e.Op)
		b.WriteByte(' ')
		p.expr(b, e.Right)
	case *ast.UnaryExpr:
		p.unary(b, e)
	case *ast.ConditionalExpr:
		p.expr(b, e.Cond)
		b.WriteString(" ? ")
		p.expr(b, e.Then)
		b.WriteString(" : ")
		p.expr(b, e.Else)
	case *ast.SeqExpr:
		for i, x := range e.Exprs {
			if i > 0 {
				b.WriteString(", ")
			}
			p.expr(b, x)
		}
	case *ast.ParenExpr:
		b.WriteByte('(')
		p.expr(b, e.X)
		b.WriteByte(')')
	default:
		b.WriteString(fmt.Sprintf("/* unprintable expr %T */", n))
	}
}

func (p *printer) unary(b *strings.Builder, e *ast.UnaryExpr) {
	switch e.Op {
	case "post++", "post--":
		p.expr(b, e.X)
		b.WriteString(e.Op[4:])
	case "new":
		b.WriteString("new ")
		p.expr(b, e.X)
	case "...":
		b.WriteString("...")
		p.expr(b, e.X)
	case "typeof", "void", "delete", "await", "in", "instanceof":
		b.WriteString(e.Op)
		b.WriteByte(' ')
		p.expr(b, e.X)
	default:
		b.WriteString(e.Op)
		p.expr(b, e.X)
	}
}

func (p *printer) objectLit(b *strings.Builder, e *ast.ObjectLit) {
	b.WriteByte('{')
	for i, prop := range e.Props {
		if i > 0 {
			b.WriteString(", ")
		}
		p.property(b, prop)
	}
	b.WriteByte('}')
}

func (p *printer) property(b *strings.Builder, prop *ast.Property) {
	p.leading(b, ast.StartPos(prop))
	if prop.Spread {
		b.WriteString("...")
		p.expr(b, prop.Value)
		return
	}
	key := prop.KeyName
	if prop.KeyQuoted {
		key = quoteString(prop.KeyName)
	}
	if prop.Computed {
		key = "[" + key + "]"
	}
	if prop.Method {
		if prop.Accessor != "" {
			b.WriteString(prop.Accessor)
			b.WriteByte(' ')
		}
		fn := prop.Value.(*ast.FuncExpr)
		b.WriteString(key)
		b.WriteByte('(')
		b.WriteString(strings.Join(fn.Params, ", "))
		b.WriteString(") ")
		p.block(b, fn.Body, 0)
		return
	}
	if prop.Shorthand {
		b.WriteString(key)
		return
	}
	b.WriteString(key)
	b.WriteString(": ")
	p.expr(b, prop.Value)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
