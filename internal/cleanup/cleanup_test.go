package cleanup

import (
	"strings"
	"testing"

	"macroshake/internal/parse"
	"macroshake/internal/print"
)

func runDCE(t *testing.T, source string, opts DCEOptions) (string, DCEStats) {
	t.Helper()
	file, comments, err := parse.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	stats := DCE(file, opts)
	return print.Print(file, comments), stats
}

func TestResolveCountsReferences(t *testing.T) {
	file, _, err := parse.Parse(`var a = 1; var b = a + 2;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b := Resolve(file)
	if b.Refs["a"] != 1 {
		t.Fatalf("expected 1 reference to a, got %d", b.Refs["a"])
	}
	if b.Refs["b"] != 0 {
		t.Fatalf("expected 0 references to b, got %d", b.Refs["b"])
	}
}

func TestDCERemovesUnusedVar(t *testing.T) {
	out, stats := runDCE(t, `var used = 1; var dead = 2; console.log(used);`, DCEOptions{})
	if strings.Contains(out, "dead") {
		t.Fatalf("expected dead removed, got:\n%s", out)
	}
	if !strings.Contains(out, "used") {
		t.Fatalf("expected used kept, got:\n%s", out)
	}
	if stats.RemovedDeclarations == 0 {
		t.Fatal("expected nonzero removed declarations")
	}
}

func TestDCERemovesChainedUnusedBindings(t *testing.T) {
	out, _ := runDCE(t, `var a = 1; var b = a; console.log(1);`, DCEOptions{})
	if strings.Contains(out, "var a") || strings.Contains(out, "var b") {
		t.Fatalf("expected both a and b removed after fixed point, got:\n%s", out)
	}
}

func TestDCERetainsTopLevelWhenConfigured(t *testing.T) {
	out, stats := runDCE(t, `var dead = 2;`, DCEOptions{RetainTopLevel: true})
	if !strings.Contains(out, "dead") {
		t.Fatalf("expected dead retained, got:\n%s", out)
	}
	if stats.RemovedDeclarations != 0 {
		t.Fatalf("expected no-op stats, got %+v", stats)
	}
}

func TestDCEPreservesSideEffectImport(t *testing.T) {
	out, _ := runDCE(t,
		`var x = __webpack_require__(1);`,
		DCEOptions{PreserveSideEffectImports: true, LoadFunctionSymbol: "__webpack_require__"},
	)
	if !strings.Contains(out, "__webpack_require__(1)") {
		t.Fatalf("expected side-effect import preserved, got:\n%s", out)
	}
}

func TestDCERemovesUnusedFunction(t *testing.T) {
	out, _ := runDCE(t, `function dead() { return 1; } console.log(2);`, DCEOptions{})
	if strings.Contains(out, "function dead") {
		t.Fatalf("expected unused function removed, got:\n%s", out)
	}
}

func TestFixerUnwrapsRedundantParens(t *testing.T) {
	file, comments, err := parse.Parse(`var x = (1); var y = (foo());`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	stats := Fixer(file)
	out := print.Print(file, comments)
	if strings.Contains(out, "(1)") || strings.Contains(out, "(foo())") {
		t.Fatalf("expected redundant parens removed, got:\n%s", out)
	}
	if stats.RemovedParens == 0 {
		t.Fatal("expected nonzero removed parens")
	}
}

func TestFixerKeepsNonAtomicParens(t *testing.T) {
	file, comments, err := parse.Parse(`var x = (1 + 2) * 3;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	Fixer(file)
	out := print.Print(file, comments)
	if !strings.Contains(out, "(1 + 2)") {
		t.Fatalf("expected binary-expression parens kept, got:\n%s", out)
	}
}
