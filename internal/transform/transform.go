// Package transform implements T, the conditional transformer: a
// single top-down mutation pass that deletes nodes covered by a
// falsy-conditional remove-list and substitutes literal values at
// define-inline positions from a replace-list. Grounded on
// original_source/crates/swc_macro_condition_transform/src/lib.rs's
// RemoveReplaceTransformer, reworked from swc's VisitMut (which mutates
// through &mut references supplied by a generated visitor) into an
// explicit recursive rewrite over internal/ast's plain struct tree,
// since Go has no visitor-pattern code generator in this pack to lean
// on.
package transform

import (
	"macroshake/internal/ast"
	"macroshake/internal/directive"
	"macroshake/internal/macroerr"
	"macroshake/internal/metadata"
)

// Apply evaluates directives against meta, then rewrites file in
// place, returning it for convenience. The remove-list/replace-list
// preparation step and the mutation pass are both described in §4.T.
func Apply(file *ast.File, directives []directive.Directive, meta *metadata.Metadata) (*ast.File, error) {
	var removeList []ast.Range
	replaceList := map[int]ast.Node{}

	for _, d := range directives {
		switch d.Kind {
		case directive.Conditional:
			if !meta.Evaluate(d.Condition) {
				removeList = append(removeList, d.Range)
			}
		case directive.ValueInline:
			v := meta.Query(d.ValuePath)
			if v.Kind != metadata.Absent {
				replaceList[d.Position] = metadata.ToLiteral(v)
				continue
			}
			if d.HasDefault {
				replaceList[d.Position] = metadata.StringDefaultLiteral(d.Default)
				continue
			}
			return nil, macroerr.New(macroerr.UnresolvedValueInline, d.Position, d.ValuePath, "value path not found in metadata and no default given")
		}
	}

	r := &rewriter{removeList: removeList, replaceList: replaceList}
	file.Items = r.items(file.Items)
	return file, nil
}

type rewriter struct {
	removeList  []ast.Range
	replaceList map[int]ast.Node
}

func (r *rewriter) removed(n ast.Node) bool {
	span := n.Span()
	for _, rng := range r.removeList {
		if rng.Contains(span) {
			return true
		}
	}
	return false
}

func (r *rewriter) replacement(n ast.Node) (ast.Node, bool) {
	rep, ok := r.replaceList[ast.StartPos(n)]
	return rep, ok
}

// items rewrites a module-item/statement sequence: nodes covered by
// the remove-list are spliced out entirely (no placeholder), the
// remainder is descended into.
func (r *rewriter) items(in []ast.Node) []ast.Node {
	out := make([]ast.Node, 0, len(in))
	for _, it := range in {
		if r.removed(it) {
			continue
		}
		out = append(out, r.stmt(it))
	}
	return out
}

// stmt descends into one statement/module-item's children. Statements
// are never replace-list targets (§4.T rule 2 applies to expressions
// only).
func (r *rewriter) stmt(n ast.Node) ast.Node {
	switch s := n.(type) {
	case *ast.ExprStmt:
		s.X = r.expr(s.X)
		return s
	case *ast.BlockStmt:
		s.Items = r.items(s.Items)
		return s
	case *ast.VarDecl:
		for _, d := range s.Decls {
			if d.Init != nil {
				d.Init = r.expr(d.Init)
			}
		}
		return s
	case *ast.ReturnStmt:
		if s.X != nil {
			s.X = r.expr(s.X)
		}
		return s
	case *ast.IfStmt:
		s.Cond = r.expr(s.Cond)
		if s.Then != nil && !r.removed(s.Then) {
			s.Then = r.stmt(s.Then)
		} else if s.Then != nil {
			s.Then = &ast.EmptyStmt{Range: s.Then.Span()}
		}
		if s.Else != nil {
			if !r.removed(s.Else) {
				s.Else = r.stmt(s.Else)
			} else {
				s.Else = &ast.EmptyStmt{Range: s.Else.Span()}
			}
		}
		return s
	case *ast.FuncDecl:
		s.Body.Items = r.items(s.Body.Items)
		return s
	default:
		// EmptyStmt, RawStmt: opaque, nothing to descend into.
		return n
	}
}

// expr rewrites one expression node: remove-list matches become the
// null literal (§4.T rule 1, expression case), replace-list matches
// substitute the mapped literal node itself (no copy is made),
// everything else descends.
func (r *rewriter) expr(n ast.Node) ast.Node {
	if n == nil {
		return nil
	}
	if r.removed(n) {
		return &ast.NullLit{Range: n.Span()}
	}
	if rep, ok := r.replacement(n); ok {
		return rep
	}

	switch e := n.(type) {
	case *ast.ArrayLit:
		for i, el := range e.Elems {
			if el != nil {
				e.Elems[i] = r.expr(el)
			}
		}
		return e
	case *ast.ObjectLit:
		for _, p := range e.Props {
			if p.Value != nil {
				p.Value = r.expr(p.Value)
			}
		}
		return e
	case *ast.FuncExpr:
		e.Body.Items = r.items(e.Body.Items)
		return e
	case *ast.ArrowFunc:
		if e.ConciseBody {
			e.Body = r.expr(e.Body)
		} else {
			body := e.Body.(*ast.BlockStmt)
			body.Items = r.items(body.Items)
			e.Body = body
		}
		return e
	case *ast.CallExpr:
		e.Callee = r.expr(e.Callee)
		for i, a := range e.Args {
			e.Args[i] = r.expr(a)
		}
		return e
	case *ast.MemberExpr:
		e.Obj = r.expr(e.Obj)
		if e.Computed {
			e.Prop = r.expr(e.Prop)
		}
		return e
	case *ast.AssignExpr:
		e.Target = r.expr(e.Target)
		e.Value = r.expr(e.Value)
		return e
	case *ast.BinaryExpr:
		e.Left = r.expr(e.Left)
		e.Right = r.expr(e.Right)
		return e
	case *ast.UnaryExpr:
		e.X = r.expr(e.X)
		return e
	case *ast.ConditionalExpr:
		e.Cond = r.expr(e.Cond)
		e.Then = r.expr(e.Then)
		e.Else = r.expr(e.Else)
		return e
	case *ast.SeqExpr:
		for i, x := range e.Exprs {
			e.Exprs[i] = r.expr(x)
		}
		return e
	case *ast.ParenExpr:
		e.X = r.expr(e.X)
		return e
	default:
		// Ident, literals, RawExpr: opaque leaves, nothing to descend into.
		return n
	}
}
