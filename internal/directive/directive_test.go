package directive

import (
	"testing"

	"macroshake/internal/ast"
	"macroshake/internal/macroerr"
)

func comment(text string, attachPos int) ast.Comment {
	return ast.Comment{Kind: ast.LineComment, Attach: ast.Leading, AttachPos: attachPos, Text: text, Range: ast.Range{Lo: attachPos - len(text), Hi: attachPos}}
}

func TestScanPairsIfEndif(t *testing.T) {
	comments := []ast.Comment{
		comment(`@ns:if[condition="flags.beta"]`, 10),
		comment(`@ns:endif`, 50),
	}
	dirs, rest, err := Scan(comments, "ns")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("expected matched comments removed, got %d remaining", len(rest))
	}
	if len(dirs) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(dirs))
	}
	d := dirs[0]
	if d.Kind != Conditional || d.Condition != "flags.beta" {
		t.Fatalf("unexpected directive: %+v", d)
	}
	if d.Range.Lo != 10 || d.Range.Hi != 50 {
		t.Fatalf("unexpected range: %+v", d.Range)
	}
}

func TestScanIgnoresOtherNamespaces(t *testing.T) {
	comments := []ast.Comment{
		comment(`@other:if[condition="x"]`, 5),
	}
	dirs, rest, err := Scan(comments, "ns")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(dirs) != 0 {
		t.Fatalf("expected no directives, got %d", len(dirs))
	}
	if len(rest) != 1 {
		t.Fatalf("expected comment preserved, got %d", len(rest))
	}
}

func TestScanNamespaceStopsAtWhitespace(t *testing.T) {
	// The grammar requires namespace to match [^:\s\[]+: a space before
	// the colon must terminate the namespace, not be swallowed into it.
	// Filtering on the exact (wrong) string a looser class would have
	// captured makes sure the directive is rejected outright rather
	// than merely failing to match a different configured namespace.
	comments := []ast.Comment{
		comment(`@ns extra:if[condition="x"]`, 5),
	}
	dirs, rest, err := Scan(comments, "ns extra")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(dirs) != 0 {
		t.Fatalf("expected no directives recognised, got %d", len(dirs))
	}
	if len(rest) != 1 {
		t.Fatalf("expected comment preserved unmatched, got %d remaining", len(rest))
	}
}

func TestScanValueInline(t *testing.T) {
	comments := []ast.Comment{
		comment(`@ns:define-inline[value="build.version",default="0.0.0"]`, 20),
	}
	dirs, _, err := Scan(comments, "ns")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(dirs) != 1 || dirs[0].Kind != ValueInline {
		t.Fatalf("unexpected directives: %+v", dirs)
	}
	d := dirs[0]
	if d.ValuePath != "build.version" || !d.HasDefault || d.Default != "0.0.0" {
		t.Fatalf("unexpected value-inline: %+v", d)
	}
}

func TestScanMissingValueAttrIsMalformed(t *testing.T) {
	comments := []ast.Comment{
		comment(`@ns:define-inline[default="0.0.0"]`, 5),
	}
	_, _, err := Scan(comments, "ns")
	me, ok := err.(*macroerr.Error)
	if !ok || me.Kind != macroerr.MalformedDirective {
		t.Fatalf("expected MalformedDirective, got %v", err)
	}
}

func TestScanUnpairedEndif(t *testing.T) {
	comments := []ast.Comment{comment(`@ns:endif`, 5)}
	_, _, err := Scan(comments, "ns")
	me, ok := err.(*macroerr.Error)
	if !ok || me.Kind != macroerr.UnpairedDirective {
		t.Fatalf("expected UnpairedDirective, got %v", err)
	}
}

func TestScanUnclosedIfAtEOF(t *testing.T) {
	comments := []ast.Comment{comment(`@ns:if[condition="x"]`, 5)}
	_, _, err := Scan(comments, "ns")
	me, ok := err.(*macroerr.Error)
	if !ok || me.Kind != macroerr.UnpairedDirective {
		t.Fatalf("expected UnpairedDirective, got %v", err)
	}
}

func TestScanNestedIfEndifPairsInnermostFirst(t *testing.T) {
	comments := []ast.Comment{
		comment(`@ns:if[condition="a"]`, 1),
		comment(`@ns:if[condition="b"]`, 2),
		comment(`@ns:endif`, 3),
		comment(`@ns:endif`, 4),
	}
	dirs, _, err := Scan(comments, "ns")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("expected 2 directives, got %d", len(dirs))
	}
	if dirs[0].Condition != "b" || dirs[0].Range.Lo != 2 || dirs[0].Range.Hi != 3 {
		t.Fatalf("unexpected inner directive: %+v", dirs[0])
	}
	if dirs[1].Condition != "a" || dirs[1].Range.Lo != 1 || dirs[1].Range.Hi != 4 {
		t.Fatalf("unexpected outer directive: %+v", dirs[1])
	}
}
