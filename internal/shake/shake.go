// Package shake implements S: given R's graph, prune every
// unreachable module-table property and every orphaned top-level
// load-function call. Grounded on
// original_source/crates/swc_macro_condition_transform/src/webpack_tree_shaker.rs's
// remove_unused_content (object-literal prop retain + bare-call
// statement retain), simplified to use R's already-computed reachable
// set directly rather than re-deriving a "safely removable" set,
// since R's graph already excludes declarator-initializer calls from
// OrphanCalls (the Rust reference's get_safely_removable_modules
// existed to patch the same gap after the fact).
package shake

import "macroshake/internal/graph"
import "macroshake/internal/ast"

// Stats records what S actually removed, surfaced in the run report.
type Stats struct {
	RemovedModuleDefinitions int
	RemovedBareCalls         int
}

// Apply mutates file in place per §4.S. When g reports no modules
// table was found, Apply is a no-op (R/S failure semantics: success,
// not an error).
func Apply(file *ast.File, g *graph.Graph) Stats {
	var stats Stats
	if !g.TableFound() {
		return stats
	}

	unreachable := map[string]bool{}
	for _, id := range g.UnusedModules() {
		unreachable[id] = true
	}

	pruneModuleTables(file.Items, unreachable, &stats)
	file.Items = pruneOrphanCalls(file.Items, g, &stats)
	return stats
}

// pruneModuleTables walks the tree looking for every object literal
// that still looks like a modules table (the same 60% heuristic R
// used to locate it) and drops properties whose canonical key is
// unreachable. A table that becomes empty is left in place — §4.S:
// "When the final modules table is empty, S does not delete the
// declaration itself."
func pruneModuleTables(items []ast.Node, unreachable map[string]bool, stats *Stats) {
	var walkExpr func(n ast.Node) ast.Node
	var walkStmt func(n ast.Node)

	walkExpr = func(n ast.Node) ast.Node {
		if n == nil {
			return nil
		}
		switch e := ast.Unwrap(n).(type) {
		case *ast.ObjectLit:
			if looksLikeModulesTable(e) {
				kept := e.Props[:0]
				for _, p := range e.Props {
					key, ok := moduleKey(p)
					if ok && unreachable[key] {
						stats.RemovedModuleDefinitions++
						continue
					}
					kept = append(kept, p)
				}
				e.Props = kept
			}
			for _, p := range e.Props {
				p.Value = walkExpr(p.Value)
			}
		case *ast.ArrayLit:
			for i, el := range e.Elems {
				e.Elems[i] = walkExpr(el)
			}
		case *ast.CallExpr:
			e.Callee = walkExpr(e.Callee)
			for i, a := range e.Args {
				e.Args[i] = walkExpr(a)
			}
		case *ast.MemberExpr:
			e.Obj = walkExpr(e.Obj)
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

	for _, it := range items {
		walkStmt(it)
	}
}

// pruneOrphanCalls deletes every top-level expression statement R
// flagged as an OrphanCall whose module ID is unreachable.
func pruneOrphanCalls(items []ast.Node, g *graph.Graph, stats *Stats) []ast.Node {
	toRemove := map[ast.Node]bool{}
	for _, oc := range g.OrphanCalls {
		if !g.Reachable[oc.ModuleID] {
			toRemove[oc.Stmt] = true
		}
	}
	if len(toRemove) == 0 {
		return items
	}
	out := make([]ast.Node, 0, len(items))
	for _, it := range items {
		if toRemove[it] {
			stats.RemovedBareCalls++
			continue
		}
		out = append(out, it)
	}
	return out
}

// looksLikeModulesTable mirrors R's heuristic locally — S must
// recognise the same shape R did when it revisits the tree
// structurally.
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

func moduleKey(p *ast.Property) (string, bool) {
	if p.Spread {
		return "", false
	}
	if p.KeyQuoted || !p.Computed {
		return p.KeyName, true
	}
	return "", false
}
