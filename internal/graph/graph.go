// Package graph implements R, the reachability analyser: it locates a
// webpack-style modules table and load-function, builds a directed
// dependency graph between module definitions, discovers entry points,
// and computes the reachable subset (and, optionally, a topological
// execution order). Grounded on
// original_source/crates/swc_macro_condition_transform/src/webpack_module_graph.rs
// (module/entry extraction, the 60% "looks like webpack modules"
// heuristic, DFS reachability, Kahn's-algorithm execution order),
// reworked from swc's visitor trait hierarchy into explicit recursive
// walks over internal/ast, and kept in the teacher's own graph.go
// idiom: a result type with deterministic sorted output, built by a
// single BuildFrom-style entry point.
package graph

import (
	"sort"
	"strings"

	"macroshake/internal/ast"
	"macroshake/internal/metadata"
)

// Module is one webpack module-table entry.
type Module struct {
	ID           string
	Dependencies []string // sorted, deduped outgoing edges
	Exports      []string // sorted, deduped — informational only, never consumed by Reachable/Shake
	IsEntry      bool
}

// Graph is R's result: every discovered module, the deduplicated entry
// IDs in the order their load calls were found, and (after
// Reachability) the reachable subset.
type Graph struct {
	Modules   map[string]*Module
	EntryIDs  []string
	Reachable map[string]bool

	// OrphanCalls are all top-level expression-statement load-function
	// calls with a literal module ID, whether or not that ID is a
	// module-table key — bare calls S may consider for removal once
	// filtered by unreachable-ness.
	OrphanCalls []OrphanCall

	tableFound bool
}

// OrphanCall is a candidate for S's bare-call pruning: a top-level
// expression statement whose expression is a load-function call.
type OrphanCall struct {
	Stmt     ast.Node // the *ast.ExprStmt itself, for deletion by identity
	ModuleID string
}

// TableFound reports whether a modules-table was located. When false,
// R's failure semantics apply: empty graph, no error.
func (g *Graph) TableFound() bool { return g.tableFound }

// Build runs R over file's top-level items, identifying the
// modules-table/load-function pair per §4.R using tableSymbol and
// loadSymbol (the configured, or default, symbol names).
func Build(file *ast.File, tableSymbol, loadSymbol string) *Graph {
	g := &Graph{Modules: map[string]*Module{}, Reachable: map[string]bool{}}

	tableObj := locateModulesTable(file.Items, tableSymbol)
	if tableObj == nil {
		return g
	}
	g.tableFound = true

	extractModules(g, tableObj, loadSymbol)
	discoverEntriesAndOrphans(g, file.Items, tableObj, loadSymbol)
	g.computeReachable()
	return g
}

// ExecutionOrder topologically sorts the reachable subgraph,
// dependencies before dependents, breaking cycles deterministically by
// ascending (string) module ID.
func (g *Graph) ExecutionOrder() []string {
	reachable := make([]string, 0, len(g.Reachable))
	for id := range g.Reachable {
		reachable = append(reachable, id)
	}
	sort.Strings(reachable)

	inDegree := map[string]int{}
	adj := map[string][]string{}
	for _, id := range reachable {
		inDegree[id] = 0
	}
	for _, id := range reachable {
		m := g.Modules[id]
		if m == nil {
			continue
		}
		for _, dep := range m.Dependencies {
			if _, ok := inDegree[dep]; !ok {
				continue
			}
			adj[dep] = append(adj[dep], id)
			inDegree[id]++
		}
	}
	for k := range adj {
		sort.Strings(adj[k])
	}

	var queue []string
	for _, id := range reachable {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	var order []string
	emitted := map[string]bool{}
	for len(order) < len(reachable) {
		if len(queue) == 0 {
			// Only cycles remain: release the smallest unemitted ID.
			for _, id := range reachable {
				if !emitted[id] {
					queue = append(queue, id)
					break
				}
			}
		}
		sort.Strings(queue)
		id := queue[0]
		queue = queue[1:]
		if emitted[id] {
			continue
		}
		emitted[id] = true
		order = append(order, id)
		for _, dep := range adj[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 && !emitted[dep] {
				queue = append(queue, dep)
			}
		}
	}
	return order
}

// computeReachable runs DFS from the entry set over dependency edges.
// An entry ID with no corresponding module definition (a dangling
// reference — a load call naming a module that was never defined, or
// that an earlier pass already stripped) is visited to avoid
// re-queuing it, but is deliberately never recorded as Reachable:
// it names nothing to keep, so it stays eligible for S to treat the
// call that names it as orphaned.
func (g *Graph) computeReachable() {
	visited := map[string]bool{}
	var stack []string
	stack = append(stack, g.EntryIDs...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		m := g.Modules[id]
		if m == nil {
			continue
		}
		g.Reachable[id] = true
		for _, dep := range m.Dependencies {
			if !visited[dep] {
				stack = append(stack, dep)
			}
		}
	}
}

// locateModulesTable scans top-level items for a declarator or
// assignment whose LHS identifier equals tableSymbol and whose RHS
// (unwrapping parens) is an object literal; falls back to the 60%
// heuristic for a bare top-level object-literal expression statement.
func locateModulesTable(items []ast.Node, tableSymbol string) *ast.ObjectLit {
	var found *ast.ObjectLit
	walkTop(items, func(n ast.Node) {
		if found != nil {
			return
		}
		switch s := n.(type) {
		case *ast.VarDecl:
			for _, d := range s.Decls {
				if d.Name == tableSymbol {
					if obj, ok := ast.Unwrap(d.Init).(*ast.ObjectLit); ok {
						found = obj
					}
				}
			}
		case *ast.ExprStmt:
			if assign, ok := ast.Unwrap(s.X).(*ast.AssignExpr); ok {
				if id, ok := ast.Unwrap(assign.Target).(*ast.Ident); ok && id.Name == tableSymbol {
					if obj, ok := ast.Unwrap(assign.Value).(*ast.ObjectLit); ok {
						found = obj
					}
				}
			}
			if found == nil {
				if obj, ok := ast.Unwrap(s.X).(*ast.ObjectLit); ok && looksLikeModulesTable(obj) {
					found = obj
				}
			}
		}
	})
	return found
}

// walkTop calls fn on every top-level item, recursing into blocks so a
// table wrapped in an IIFE-free block statement is still found, but
// not into function bodies (module function bodies are analysed
// separately by extractModules).
func walkTop(items []ast.Node, fn func(ast.Node)) {
	for _, it := range items {
		fn(it)
		if b, ok := it.(*ast.BlockStmt); ok {
			walkTop(b.Items, fn)
		}
	}
}

// looksLikeModulesTable implements the 60% heuristic: at least one
// property with a numeric/string-literal key mapping to a
// function/arrow expression, and such properties make up >=60% of all
// properties.
func looksLikeModulesTable(obj *ast.ObjectLit) bool {
	if len(obj.Props) == 0 {
		return false
	}
	moduleLike := 0
	for _, p := range obj.Props {
		if p.Spread || p.Method {
			continue
		}
		if _, ok := moduleKey(p); !ok {
			continue
		}
		switch ast.Unwrap(p.Value).(type) {
		case *ast.FuncExpr, *ast.ArrowFunc:
			moduleLike++
		}
	}
	return moduleLike > 0 && float64(moduleLike) >= float64(len(obj.Props))*0.6
}

// moduleKey returns a property key as a module ID: string-literal keys
// with quotes stripped, identifier and numeric keys as their source
// text. Numeric keys are not re-rendered, so a key written `1.0` or
// `0x10` keeps that text and does not match a load call whose numeric
// argument canonicalises to "1" or "16".
func moduleKey(p *ast.Property) (string, bool) {
	if p.Spread {
		return "", false
	}
	if p.KeyQuoted || !p.Computed {
		return p.KeyName, true
	}
	return "", false
}

func extractModules(g *Graph, table *ast.ObjectLit, loadSymbol string) {
	for _, p := range table.Props {
		if p.Spread || p.Method {
			continue
		}
		key, ok := moduleKey(p)
		if !ok {
			continue
		}
		m := &Module{ID: key}
		g.Modules[key] = m

		var body *ast.BlockStmt
		var params []string
		switch fn := ast.Unwrap(p.Value).(type) {
		case *ast.FuncExpr:
			body, params = fn.Body, fn.Params
		case *ast.ArrowFunc:
			params = fn.Params
			if !fn.ConciseBody {
				body = fn.Body.(*ast.BlockStmt)
			}
		}
		if body == nil {
			continue
		}
		// The third parameter (module, exports, require) is the
		// module's own handle on the load function, whatever its name.
		requireParam := ""
		if len(params) >= 3 {
			requireParam = params[2]
		}
		analyzeModuleBody(m, body, loadSymbol, requireParam)
	}
}

func analyzeModuleBody(m *Module, body *ast.BlockStmt, loadSymbol, requireParam string) {
	depSet := map[string]bool{}
	exportSet := map[string]bool{}
	walkExprStmts(body.Items, func(n ast.Node) {
		switch e := ast.Unwrap(n).(type) {
		case *ast.CallExpr:
			if isLoadCall(e, loadSymbol) || (requireParam != "" && isLoadCall(e, requireParam)) {
				if id, ok := literalModuleID(e.Args[0]); ok {
					depSet[id] = true
				}
			}
		case *ast.AssignExpr:
			if member, ok := ast.Unwrap(e.Target).(*ast.MemberExpr); ok && !member.Computed {
				if obj, ok := ast.Unwrap(member.Obj).(*ast.Ident); ok &&
					(obj.Name == "exports" || obj.Name == "__webpack_exports__") {
					if prop, ok := ast.Unwrap(member.Prop).(*ast.Ident); ok {
						exportSet[prop.Name] = true
					}
				}
			}
		}
	})
	m.Dependencies = sortedKeys(depSet)
	m.Exports = sortedKeys(exportSet)
}

func isLoadCall(call *ast.CallExpr, loadSymbol string) bool {
	id, ok := ast.Unwrap(call.Callee).(*ast.Ident)
	return ok && id.Name == loadSymbol && len(call.Args) > 0
}

func literalModuleID(n ast.Node) (string, bool) {
	switch lit := ast.Unwrap(n).(type) {
	case *ast.StringLit:
		return lit.Value, true
	case *ast.NumberLit:
		return metadata.FormatCanonicalNumber(lit.Value), true
	}
	return "", false
}

// discoverEntriesAndOrphans walks every top-level item excluding the
// modules-table object itself: a load-function call outside any
// module-function body contributes an entry point; a variable
// declarator initialised by such a call also contributes one; a bare
// top-level expression-statement load call becomes an OrphanCall
// candidate for S.
func discoverEntriesAndOrphans(g *Graph, items []ast.Node, table *ast.ObjectLit, loadSymbol string) {
	entrySet := map[string]bool{}
	var order []string
	add := func(id string) {
		if !entrySet[id] {
			entrySet[id] = true
			order = append(order, id)
		}
	}

	for _, it := range items {
		switch s := it.(type) {
		case *ast.VarDecl:
			for _, d := range s.Decls {
				if d.Init == nil {
					continue
				}
				if ast.Unwrap(d.Init) == ast.Node(table) {
					continue
				}
				if call, ok := ast.Unwrap(d.Init).(*ast.CallExpr); ok && isLoadCall(call, loadSymbol) {
					if id, ok := literalModuleID(call.Args[0]); ok {
						add(id)
					}
				}
				walkExprStmts([]ast.Node{&ast.ExprStmt{X: d.Init}}, func(n ast.Node) {
					if call, ok := ast.Unwrap(n).(*ast.CallExpr); ok && isLoadCall(call, loadSymbol) {
						if id, ok := literalModuleID(call.Args[0]); ok {
							add(id)
						}
					}
				})
			}
		case *ast.ExprStmt:
			if ast.Unwrap(s.X) == ast.Node(table) {
				continue
			}
			if call, ok := ast.Unwrap(s.X).(*ast.CallExpr); ok && isLoadCall(call, loadSymbol) {
				if id, ok := literalModuleID(call.Args[0]); ok {
					add(id)
					g.OrphanCalls = append(g.OrphanCalls, OrphanCall{Stmt: s, ModuleID: id})
				}
				continue
			}
			walkExprStmts([]ast.Node{s}, func(n ast.Node) {
				if call, ok := ast.Unwrap(n).(*ast.CallExpr); ok && isLoadCall(call, loadSymbol) {
					if id, ok := literalModuleID(call.Args[0]); ok {
						add(id)
					}
				}
			})
		}
	}

	g.EntryIDs = order
	for _, id := range order {
		if m, ok := g.Modules[id]; ok {
			m.IsEntry = true
		}
	}
}

// walkExprStmts recursively visits every expression reachable from n
// (without descending into nested function/arrow bodies — those are
// separate module scopes, not part of this module's direct call
// graph) invoking visit on each.
func walkExprStmts(items []ast.Node, visit func(ast.Node)) {
	var walkStmt func(ast.Node)
	var walkExpr func(ast.Node)

	walkExpr = func(n ast.Node) {
		if n == nil {
			return
		}
		visit(n)
		switch e := ast.Unwrap(n).(type) {
		case *ast.ArrayLit:
			for _, el := range e.Elems {
				walkExpr(el)
			}
		case *ast.ObjectLit:
			for _, p := range e.Props {
				walkExpr(p.Value)
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
		}
	}

	for _, it := range items {
		walkStmt(it)
	}
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// UnusedModules reports the module IDs present in the table but not
// reachable — S's candidate deletion set.
func (g *Graph) UnusedModules() []string {
	var out []string
	for id := range g.Modules {
		if !g.Reachable[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// String renders a Graph as a short human summary: its sorted module
// IDs.
func (g *Graph) String() string {
	var b strings.Builder
	b.WriteString("modules: ")
	ids := make([]string, 0, len(g.Modules))
	for id := range g.Modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	b.WriteString(strings.Join(ids, ", "))
	return b.String()
}
