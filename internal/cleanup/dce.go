package cleanup

import "macroshake/internal/ast"

// DCEOptions configures the unused-binding pass.
type DCEOptions struct {
	// RetainTopLevel, when true, keeps every top-level binding
	// regardless of reference count (spec §6 describes the reference
	// pipeline running with this disabled).
	RetainTopLevel bool
	// PreserveSideEffectImports keeps a declarator whose Init is a
	// bare call to the configured load function even when the bound
	// name is never referenced again, since the call itself may exist
	// only for its side effect.
	PreserveSideEffectImports bool
	LoadFunctionSymbol        string
}

// DCEStats records what the pass removed.
type DCEStats struct {
	RemovedDeclarations int
	Iterations          int
}

// DCE removes unused top-level var/function bindings to a fixed
// point: removing one binding can leave another binding's only
// reference gone too, so the pass re-resolves and repeats until one
// full iteration removes nothing.
func DCE(file *ast.File, opts DCEOptions) DCEStats {
	var stats DCEStats
	if opts.RetainTopLevel {
		return stats
	}

	for {
		b := Resolve(file)
		removed := false
		kept := file.Items[:0]
		for _, it := range file.Items {
			if drop(it, b, opts) {
				removed = true
				stats.RemovedDeclarations++
				continue
			}
			if vd, ok := it.(*ast.VarDecl); ok {
				filterDeclarators(vd, b, opts, &stats, &removed)
				if len(vd.Decls) == 0 {
					continue
				}
			}
			kept = append(kept, it)
		}
		file.Items = kept
		stats.Iterations++
		if !removed {
			return stats
		}
	}
}

func drop(n ast.Node, b *Bindings, opts DCEOptions) bool {
	fd, ok := n.(*ast.FuncDecl)
	if !ok || fd.Name == "" {
		return false
	}
	return b.Refs[fd.Name] == 0
}

func filterDeclarators(vd *ast.VarDecl, b *Bindings, opts DCEOptions, stats *DCEStats, removed *bool) {
	kept := vd.Decls[:0]
	for _, d := range vd.Decls {
		if b.Refs[d.Name] == 0 && !isPreservedSideEffect(d, opts) {
			*removed = true
			stats.RemovedDeclarations++
			continue
		}
		kept = append(kept, d)
	}
	vd.Decls = kept
}

func isPreservedSideEffect(d *ast.Declarator, opts DCEOptions) bool {
	if !opts.PreserveSideEffectImports || opts.LoadFunctionSymbol == "" {
		return false
	}
	call, ok := ast.Unwrap(d.Init).(*ast.CallExpr)
	if !ok {
		return false
	}
	id, ok := ast.Unwrap(call.Callee).(*ast.Ident)
	return ok && id.Name == opts.LoadFunctionSymbol
}
