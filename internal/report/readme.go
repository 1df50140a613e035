package report

import (
	"bytes"
	"strings"
	"text/template"
)

// ReadmeOptions configures README generation for a run bundle. All
// fields render deterministically; no timestamps or environment data,
// matching the teacher's own reproducibility goal for its README.
type ReadmeOptions struct {
	Namespace         string
	ModulesTableFound bool
	ContextLines      int
}

type rdCtx struct {
	Namespace         string
	ModulesTableFound bool
	ContextLines      int
}

const runReadmeTemplate = `
# macroshake run report

This archive is the output of a single *macroshake* optimisation run.

## Layout
- **manifest.json** — counts of what P/D/T/R/S did (directives removed,
  values inlined, modules/calls shaken).
- **output.js** — the transformed source.
- **diff.patch** — a unified diff of source against output.

## Conventions
- Encoding: **UTF-8**; newlines: **\n** only.
- Unified diff context: **{{.ContextLines}}** lines.
- Directive namespace for this run: **{{.Namespace}}**.
- Webpack-style modules table {{if .ModulesTableFound}}was detected and reachability pruning ran{{else}}was not detected; R/S were a no-op{{end}}.
`

// Generate renders the run README.
func Generate(opts ReadmeOptions) []byte {
	ns := strings.TrimSpace(opts.Namespace)
	if ns == "" {
		ns = "ns"
	}
	ctx := rdCtx{
		Namespace:         ns,
		ModulesTableFound: opts.ModulesTableFound,
		ContextLines:      opts.ContextLines,
	}
	t, _ := template.New("readme").Parse(runReadmeTemplate)
	var buf bytes.Buffer
	_ = t.Execute(&buf, ctx)
	lines := strings.Split(buf.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return []byte(strings.TrimLeft(strings.Join(lines, "\n"), "\n"))
}
