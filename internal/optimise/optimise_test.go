package optimise

import (
	"strings"
	"testing"

	"macroshake/internal/config"
)

func opts() config.Options {
	return config.Defaults()
}

func TestS1RemovesFalsyConditional(t *testing.T) {
	src := `/* @ns:if[condition="a.b"] */ X; /* @ns:endif */ Y;`
	out, _, err := Optimise(src, []byte(`{"a":{"b":false}}`), opts())
	if err != nil {
		t.Fatalf("Optimise: %v", err)
	}
	if strings.Contains(out, "X;") {
		t.Fatalf("expected X removed, got:\n%s", out)
	}
	if !strings.Contains(out, "Y;") {
		t.Fatalf("expected Y kept, got:\n%s", out)
	}
	if strings.Contains(out, "@ns") {
		t.Fatalf("expected no directive comments survive, got:\n%s", out)
	}
}

func TestS2InlinesValue(t *testing.T) {
	src := `var x = /* @ns:define-inline[value="v"] */ PLACEHOLDER;`
	out, report, err := Optimise(src, []byte(`{"v":42}`), opts())
	if err != nil {
		t.Fatalf("Optimise: %v", err)
	}
	if !strings.Contains(out, "var x = 42") {
		t.Fatalf("expected inlined literal, got:\n%s", out)
	}
	if report.ValuesInlined != 1 {
		t.Fatalf("expected 1 inlined value, got %d", report.ValuesInlined)
	}
}

func TestS3SimpleShake(t *testing.T) {
	src := `
var __webpack_modules__ = {
  100: function(module, exports, require) { require(200); },
  200: function(module, exports, require) {},
  300: function(module, exports, require) {}
};
function __webpack_require__(id) { return __webpack_modules__[id]; }
__webpack_require__(100);
`
	out, report, err := Optimise(src, []byte(`{}`), opts())
	if err != nil {
		t.Fatalf("Optimise: %v", err)
	}
	if strings.Contains(out, "300:") {
		t.Fatalf("expected module 300 removed, got:\n%s", out)
	}
	if !strings.Contains(out, "100:") || !strings.Contains(out, "200:") {
		t.Fatalf("expected modules 100 and 200 retained, got:\n%s", out)
	}
	if report.RemovedModules == 0 {
		t.Fatal("expected nonzero RemovedModules")
	}
}

func TestS4PreservesUnreferencedDeclaratorAndItsModule(t *testing.T) {
	src := `
var __webpack_modules__ = {
  100: function(module, exports, require) { require(200); },
  200: function(module, exports, require) {},
  300: function(module, exports, require) {}
};
function __webpack_require__(id) { return __webpack_modules__[id]; }
__webpack_require__(100);
var d = __webpack_require__(300);
`
	out, _, err := Optimise(src, []byte(`{}`), opts())
	if err != nil {
		t.Fatalf("Optimise: %v", err)
	}
	if !strings.Contains(out, "300:") {
		t.Fatalf("expected module 300 preserved (reachable via declarator init), got:\n%s", out)
	}
	if !strings.Contains(out, "var d = __webpack_require__(300)") {
		t.Fatalf("expected declarator preserved verbatim, got:\n%s", out)
	}
}

func TestS5NestedDirectivesOuterTrueInnerFalse(t *testing.T) {
	src := `
/* @ns:if[condition="outer"] */
/* @ns:if[condition="inner"] */ A; /* @ns:endif */
B;
/* @ns:endif */
`
	out, _, err := Optimise(src, []byte(`{"outer":true,"inner":false}`), opts())
	if err != nil {
		t.Fatalf("Optimise: %v", err)
	}
	if strings.Contains(out, "A;") {
		t.Fatalf("expected inner A removed, got:\n%s", out)
	}
	if !strings.Contains(out, "B;") {
		t.Fatalf("expected B kept, got:\n%s", out)
	}
}

func TestS5NestedDirectivesOuterFalseInnerTrue(t *testing.T) {
	src := `
/* @ns:if[condition="outer"] */
/* @ns:if[condition="inner"] */ A; /* @ns:endif */
B;
/* @ns:endif */
`
	out, _, err := Optimise(src, []byte(`{"outer":false,"inner":true}`), opts())
	if err != nil {
		t.Fatalf("Optimise: %v", err)
	}
	if strings.TrimSpace(out) != "" {
		t.Fatalf("expected empty output, got:\n%s", out)
	}
}

func TestS6CyclicBundleShake(t *testing.T) {
	src := `
var __webpack_modules__ = {
  1: function(module, exports, require) { require(2); },
  2: function(module, exports, require) { require(1); },
  3: function(module, exports, require) {}
};
function __webpack_require__(id) { return __webpack_modules__[id]; }
__webpack_require__(1);
`
	out, _, err := Optimise(src, []byte(`{}`), opts())
	if err != nil {
		t.Fatalf("Optimise: %v", err)
	}
	if strings.Contains(out, "3:") {
		t.Fatalf("expected module 3 removed, got:\n%s", out)
	}
	if !strings.Contains(out, "1:") || !strings.Contains(out, "2:") {
		t.Fatalf("expected cyclic modules 1 and 2 retained, got:\n%s", out)
	}
}

func TestEveryDirectiveTruthyIsRoundTrip(t *testing.T) {
	src := `var y = 1;`
	out, _, err := Optimise(src, []byte(`{}`), opts())
	if err != nil {
		t.Fatalf("Optimise: %v", err)
	}
	if strings.TrimSpace(out) != "var y = 1;" {
		t.Fatalf("expected round trip, got:\n%s", out)
	}
}

func TestIdempotence(t *testing.T) {
	src := `/* @ns:if[condition="a"] */ X; /* @ns:endif */ Y;`
	meta := []byte(`{"a":false}`)
	first, _, err := Optimise(src, meta, opts())
	if err != nil {
		t.Fatalf("Optimise: %v", err)
	}
	second, _, err := Optimise(first, meta, opts())
	if err != nil {
		t.Fatalf("Optimise (2nd pass): %v", err)
	}
	if strings.TrimSpace(first) != strings.TrimSpace(second) {
		t.Fatalf("expected idempotence, got:\n%s\n---\n%s", first, second)
	}
}

func TestUnresolvedValueInlineFailsFast(t *testing.T) {
	src := `var x = /* @ns:define-inline[value="missing"] */ PLACEHOLDER;`
	_, _, err := Optimise(src, []byte(`{}`), opts())
	if err == nil {
		t.Fatal("expected error for unresolvable value inline")
	}
}

func TestEveryModuleUnreachableLeavesEmptyTable(t *testing.T) {
	src := `
var __webpack_modules__ = {
  1: function(module, exports, require) {}
};
function __webpack_require__(id) { return __webpack_modules__[id]; }
`
	out, report, err := Optimise(src, []byte(`{}`), opts())
	if err != nil {
		t.Fatalf("Optimise: %v", err)
	}
	if !strings.Contains(out, "__webpack_modules__ = {") {
		t.Fatalf("expected table declaration retained, got:\n%s", out)
	}
	if strings.Contains(out, "1:") {
		t.Fatalf("expected module 1 removed, got:\n%s", out)
	}
	if report.RemovedModules != 1 {
		t.Fatalf("expected 1 removed module, got %d", report.RemovedModules)
	}
}
