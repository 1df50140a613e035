package cleanup

import "macroshake/internal/ast"

// FixerStats records what the pass removed.
type FixerStats struct {
	RemovedParens int
}

// Fixer strips ParenExpr wrappers that became redundant after T/DCE
// mutated the tree around them — a paren around an atomic expression
// (identifier, non-object literal, call, member access, or array
// literal) does not change meaning and the printer does not rely on
// ParenExpr to avoid precedence bugs for these shapes. Object literals
// keep their parens (`() => ({})`, `({}).x`), and so does a number
// literal used as a member object (`(1).x`).
func Fixer(file *ast.File) FixerStats {
	var stats FixerStats
	var walkExpr func(n ast.Node) ast.Node
	var walkStmt func(n ast.Node)

	walkExpr = func(n ast.Node) ast.Node {
		if n == nil {
			return nil
		}
		if pe, ok := n.(*ast.ParenExpr); ok {
			inner := walkExpr(pe.X)
			if isAtomic(inner) {
				stats.RemovedParens++
				return inner
			}
			pe.X = inner
			return pe
		}
		switch e := n.(type) {
		case *ast.ArrayLit:
			for i, el := range e.Elems {
				e.Elems[i] = walkExpr(el)
			}
		case *ast.ObjectLit:
			for _, p := range e.Props {
				p.Value = walkExpr(p.Value)
			}
		case *ast.CallExpr:
			e.Callee = walkExpr(e.Callee)
			for i, a := range e.Args {
				e.Args[i] = walkExpr(a)
			}
		case *ast.MemberExpr:
			if pe, ok := e.Obj.(*ast.ParenExpr); ok {
				if _, isNum := ast.Unwrap(pe.X).(*ast.NumberLit); isNum {
					pe.X = walkExpr(pe.X)
				} else {
					e.Obj = walkExpr(e.Obj)
				}
			} else {
				e.Obj = walkExpr(e.Obj)
			}
			if e.Computed {
				e.Prop = walkExpr(e.Prop)
			}
		case *ast.AssignExpr:
			e.Target = walkExpr(e.Target)
			e.Value = walkExpr(e.Value)
		case *ast.BinaryExpr:
			e.Left = walkExpr(e.Left)
			e.Right = walkExpr(e.Right)
		case *ast.UnaryExpr:
			e.X = walkExpr(e.X)
		case *ast.ConditionalExpr:
			e.Cond = walkExpr(e.Cond)
			e.Then = walkExpr(e.Then)
			e.Else = walkExpr(e.Else)
		case *ast.SeqExpr:
			for i, x := range e.Exprs {
				e.Exprs[i] = walkExpr(x)
			}
		case *ast.FuncExpr:
			walkStmt(e.Body)
		case *ast.ArrowFunc:
			if e.ConciseBody {
				e.Body = walkExpr(e.Body)
			} else {
				walkStmt(e.Body)
			}
		}
		return n
	}

	walkStmt = func(n ast.Node) {
		switch s := n.(type) {
		case *ast.ExprStmt:
			s.X = walkExpr(s.X)
		case *ast.BlockStmt:
			for _, it := range s.Items {
				walkStmt(it)
			}
		case *ast.VarDecl:
			for _, d := range s.Decls {
				d.Init = walkExpr(d.Init)
			}
		case *ast.ReturnStmt:
			s.X = walkExpr(s.X)
		case *ast.IfStmt:
			s.Cond = walkExpr(s.Cond)
			walkStmt(s.Then)
			if s.Else != nil {
				walkStmt(s.Else)
			}
		case *ast.FuncDecl:
			walkStmt(s.Body)
		}
	}

	for i, it := range file.Items {
		walkStmt(it)
		file.Items[i] = it
	}
	return stats
}

func isAtomic(n ast.Node) bool {
	switch n.(type) {
	case *ast.Ident, *ast.NullLit, *ast.BoolLit, *ast.NumberLit, *ast.StringLit,
		*ast.CallExpr, *ast.MemberExpr, *ast.ArrayLit:
		return true
	default:
		return false
	}
}
