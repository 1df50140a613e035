package transform

import (
	"strings"
	"testing"

	"macroshake/internal/directive"
	"macroshake/internal/macroerr"
	"macroshake/internal/metadata"
	"macroshake/internal/parse"
	"macroshake/internal/print"
)

func run(t *testing.T, source string, metaJSON string) string {
	t.Helper()
	file, comments, err := parse.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dirs, rest, err := directive.Scan(comments, "ns")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	meta, err := metadata.Parse([]byte(metaJSON))
	if err != nil {
		t.Fatalf("metadata.Parse: %v", err)
	}
	file, err = Apply(file, dirs, meta)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return print.Print(file, rest)
}

func TestApplyRemovesFalsyConditionalBlock(t *testing.T) {
	src := `
var a = 1;
// @ns:if[condition="flags.beta"]
var b = 2;
// @ns:endif
var c = 3;
`
	out := run(t, src, `{"flags":{"beta":false}}`)
	if strings.Contains(out, "var b") {
		t.Fatalf("expected var b removed, got:\n%s", out)
	}
	if !strings.Contains(out, "var a") || !strings.Contains(out, "var c") {
		t.Fatalf("expected surrounding statements kept, got:\n%s", out)
	}
}

func TestApplyKeepsTruthyConditionalBlock(t *testing.T) {
	src := `
// @ns:if[condition="flags.beta"]
var b = 2;
// @ns:endif
`
	out := run(t, src, `{"flags":{"beta":true}}`)
	if !strings.Contains(out, "var b") {
		t.Fatalf("expected var b kept, got:\n%s", out)
	}
}

func TestApplyReplacesValueInline(t *testing.T) {
	src := `
var v = /* @ns:define-inline[value="build.version"] */ "dev";
`
	out := run(t, src, `{"build":{"version":"1.2.3"}}`)
	if !strings.Contains(out, `"1.2.3"`) {
		t.Fatalf("expected version substituted, got:\n%s", out)
	}
	if strings.Contains(out, `"dev"`) {
		t.Fatalf("expected placeholder replaced, got:\n%s", out)
	}
}

func TestApplyUsesDefaultWhenPathAbsent(t *testing.T) {
	src := `
var v = /* @ns:define-inline[value="build.version",default="0.0.0"] */ "dev";
`
	out := run(t, src, `{}`)
	if !strings.Contains(out, `"0.0.0"`) {
		t.Fatalf("expected default substituted, got:\n%s", out)
	}
}

func TestApplyUnresolvedValueInlineErrors(t *testing.T) {
	src := `
var v = /* @ns:define-inline[value="build.version"] */ "dev";
`
	file, comments, err := parse.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dirs, _, err := directive.Scan(comments, "ns")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	meta, err := metadata.Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("metadata.Parse: %v", err)
	}
	_, err = Apply(file, dirs, meta)
	me, ok := err.(*macroerr.Error)
	if !ok || me.Kind != macroerr.UnresolvedValueInline {
		t.Fatalf("expected UnresolvedValueInline, got %v", err)
	}
}

func TestApplyNestedConditionalsBothRemoved(t *testing.T) {
	src := `
// @ns:if[condition="a"]
// @ns:if[condition="b"]
var inner = 1;
// @ns:endif
var outer = 2;
// @ns:endif
`
	out := run(t, src, `{"a":false,"b":true}`)
	if strings.Contains(out, "var inner") || strings.Contains(out, "var outer") {
		t.Fatalf("expected both removed under falsy outer condition, got:\n%s", out)
	}
}
