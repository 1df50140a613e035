// Package cleanup implements the optional downstream passes named in
// spec §6: a resolver, a DCE pass, and a parenthesis fixer. None of
// these are required by P/D/T/R/S themselves — Optimise runs them only
// when Options enables them — but they round out the pipeline the
// reference implementation actually exposes. Grounded in idiom on
// internal/transform and internal/shake (a pass that walks the tree
// once and mutates it in place, returning a count of what changed);
// no original_source file implements this concern directly, since the
// Rust reference leans on swc's own resolver/DCE crates rather than
// shipping its own.
package cleanup

import (
	"regexp"

	"macroshake/internal/ast"
)

// Mark is the identity a resolver assigns to an identifier reference.
type Mark int

const (
	// Unresolved means no declaration in this file binds the name —
	// it resolves outside this source (a global, an import, a
	// parameter of an enclosing scope the resolver does not model).
	Unresolved Mark = iota
	// TopLevel means the name is bound by a file-level VarDecl or
	// FuncDecl.
	TopLevel
)

// Bindings is the result of resolving a file: a reference count per
// top-level bound name, used by DCE to find names with zero uses.
type Bindings struct {
	// Declared holds every top-level bound name, whether or not it is
	// ever referenced.
	Declared map[string]Mark
	// Refs counts, for each name in Declared, the Ident occurrences
	// that are not themselves binding occurrences (a declarator name, a
	// function name, a parameter name, or an object-literal property
	// key).
	Refs map[string]int
}

// Resolve walks file once, records every name bound at the top level
// as TopLevel, then counts references to each. Names with no top-level
// binding are not recorded.
func Resolve(file *ast.File) *Bindings {
	b := &Bindings{Declared: map[string]Mark{}, Refs: map[string]int{}}

	for _, it := range file.Items {
		declareTopLevel(it, b)
	}
	for _, it := range file.Items {
		countRefs(it, b)
	}
	return b
}

func declareTopLevel(n ast.Node, b *Bindings) {
	switch s := n.(type) {
	case *ast.VarDecl:
		for _, d := range s.Decls {
			b.Declared[d.Name] = TopLevel
		}
	case *ast.FuncDecl:
		if s.Name != "" {
			b.Declared[s.Name] = TopLevel
		}
	}
}

// countRefs walks every statement and expression in the file counting
// Ident occurrences, skipping the binding positions themselves
// (declarator/function/parameter names, non-computed property keys).
// The text of opaque RawStmt/RawExpr nodes and of computed property
// keys is scanned for identifier-shaped words, which may over-count.
func countRefs(n ast.Node, b *Bindings) {
	var walkStmt func(ast.Node)
	var walkExpr func(ast.Node)
	countRaw := func(text string) {
		for _, name := range rawIdentRe.FindAllString(text, -1) {
			if _, declared := b.Declared[name]; declared {
				b.Refs[name]++
			}
		}
	}

	walkExpr = func(n ast.Node) {
		if n == nil {
			return
		}
		switch e := n.(type) {
		case *ast.Ident:
			if _, declared := b.Declared[e.Name]; declared {
				b.Refs[e.Name]++
			}
		case *ast.RawExpr:
			countRaw(e.Text)
		case *ast.ArrayLit:
			for _, el := range e.Elems {
				walkExpr(el)
			}
		case *ast.ObjectLit:
			for _, p := range e.Props {
				if p.Computed {
					countRaw(p.KeyName)
				}
				walkExpr(p.Value)
			}
		case *ast.FuncExpr:
			walkStmt(e.Body)
		case *ast.ArrowFunc:
			if e.ConciseBody {
				walkExpr(e.Body)
			} else {
				walkStmt(e.Body)
			}
		case *ast.CallExpr:
			walkExpr(e.Callee)
			for _, a := range e.Args {
				walkExpr(a)
			}
		case *ast.MemberExpr:
			walkExpr(e.Obj)
			if e.Computed {
				walkExpr(e.Prop)
			}
		case *ast.AssignExpr:
			walkExpr(e.Target)
			walkExpr(e.Value)
		case *ast.BinaryExpr:
			walkExpr(e.Left)
			walkExpr(e.Right)
		case *ast.UnaryExpr:
			walkExpr(e.X)
		case *ast.ConditionalExpr:
			walkExpr(e.Cond)
			walkExpr(e.Then)
			walkExpr(e.Else)
		case *ast.SeqExpr:
			for _, x := range e.Exprs {
				walkExpr(x)
			}
		case *ast.ParenExpr:
			walkExpr(e.X)
		}
	}

	walkStmt = func(n ast.Node) {
		switch s := n.(type) {
		case *ast.ExprStmt:
			walkExpr(s.X)
		case *ast.BlockStmt:
			for _, it := range s.Items {
				walkStmt(it)
			}
		case *ast.VarDecl:
			for _, d := range s.Decls {
				walkExpr(d.Init)
			}
		case *ast.ReturnStmt:
			walkExpr(s.X)
		case *ast.IfStmt:
			walkExpr(s.Cond)
			walkStmt(s.Then)
			if s.Else != nil {
				walkStmt(s.Else)
			}
		case *ast.FuncDecl:
			walkStmt(s.Body)
		case *ast.RawStmt:
			countRaw(s.Text)
		}
	}

	walkStmt(n)
}

var rawIdentRe = regexp.MustCompile(`[A-Za-z_$][A-Za-z0-9_$]*`)
