// Package optimise wires P, D, T, R, S (and the optional downstream
// cleanup passes) into the single library operation spec §6 names:
// Optimise(source, metadata, opts) -> (output, Report, error).
// Grounded on the teacher's top-level mode-dispatch style in
// cmd/class-collector/main.go (one function per stage, called in a
// fixed order, errors returned immediately rather than collected) —
// Optimise itself never logs; that is strictly a cmd/runner concern
// per spec §7's AMBIENT — logging note.
package optimise

import (
	"macroshake/internal/cleanup"
	"macroshake/internal/config"
	"macroshake/internal/diff"
	"macroshake/internal/directive"
	"macroshake/internal/graph"
	"macroshake/internal/macroerr"
	"macroshake/internal/metadata"
	"macroshake/internal/parse"
	"macroshake/internal/print"
	"macroshake/internal/shake"
	"macroshake/internal/transform"
)

// Report carries the informational output of one Optimise run: the
// shake summary, R's execution order/exports when requested, and a
// unified diff of source→output.
type Report struct {
	DirectivesRemoved   int
	ValuesInlined       int
	RemovedModules      int
	RemovedBareCalls    int
	RemovedDeclarations int
	RemovedParens       int
	ModulesTableFound   bool
	UnusedModules       []string
	ExecutionOrder      []string            `json:"executionOrder,omitempty"`
	Exports             map[string][]string `json:"exports,omitempty"`
	Diff                string
}

// Optimise runs the full pipeline against source, guided by a raw
// JSON metadata document and opts. Deterministic, no mutation of the
// inputs — source is re-parsed into a fresh tree each call.
func Optimise(source string, rawMetadata []byte, opts config.Options) (string, Report, error) {
	var report Report

	if opts.MaxSourceBytes > 0 && int64(len(source)) > opts.MaxSourceBytes {
		return "", report, macroerr.New(macroerr.ConfigError, -1, "", "source exceeds MaxSourceBytes")
	}

	if opts.MetadataSchemaPath != "" {
		if err := config.ValidateMetadata(opts.MetadataSchemaPath, rawMetadata); err != nil {
			return "", report, err
		}
	}

	meta, err := metadata.Parse(rawMetadata)
	if err != nil {
		return "", report, macroerr.Wrap(macroerr.ConfigError, err)
	}

	file, comments, err := parse.Parse(source)
	if err != nil {
		return "", report, macroerr.Wrap(macroerr.ParseFailure, err)
	}

	directives, comments, err := directive.Scan(comments, opts.Namespace)
	if err != nil {
		return "", report, err
	}
	report.DirectivesRemoved, report.ValuesInlined = countDirectiveKinds(directives, meta)

	file, err = transform.Apply(file, directives, meta)
	if err != nil {
		return "", report, err
	}

	loadSymbol := opts.LoadFunctionSymbol
	tableSymbol := opts.ModulesTableSymbol
	g := graph.Build(file, tableSymbol, loadSymbol)
	report.ModulesTableFound = g.TableFound()
	report.UnusedModules = g.UnusedModules()
	if opts.EmitExecutionOrder && g.TableFound() {
		report.ExecutionOrder = g.ExecutionOrder()
	}
	if opts.EmitExports && g.TableFound() {
		report.Exports = collectExports(g)
	}

	shakeStats := shake.Apply(file, g)
	report.RemovedModules = shakeStats.RemovedModuleDefinitions
	report.RemovedBareCalls = shakeStats.RemovedBareCalls

	if opts.EnableCleanup {
		dceStats := cleanup.DCE(file, cleanup.DCEOptions{
			RetainTopLevel:            opts.RetainTopLevelBindings,
			PreserveSideEffectImports: opts.PreserveSideEffectImports,
			LoadFunctionSymbol:        loadSymbol,
		})
		report.RemovedDeclarations = dceStats.RemovedDeclarations
		fixerStats := cleanup.Fixer(file)
		report.RemovedParens = fixerStats.RemovedParens
	}

	out := print.Print(file, comments)
	body, _ := diff.Unified("source", "output", []byte(source), []byte(out), diff.Options{})
	report.Diff = body

	return out, report, nil
}

func countDirectiveKinds(directives []directive.Directive, meta *metadata.Metadata) (removed, inlined int) {
	for _, d := range directives {
		switch d.Kind {
		case directive.Conditional:
			if !meta.Evaluate(d.Condition) {
				removed++
			}
		case directive.ValueInline:
			inlined++
		}
	}
	return removed, inlined
}

func collectExports(g *graph.Graph) map[string][]string {
	out := map[string][]string{}
	for id, m := range g.Modules {
		if len(m.Exports) > 0 {
			out[id] = m.Exports
		}
	}
	return out
}
