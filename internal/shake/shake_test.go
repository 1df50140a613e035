package shake

import (
	"strings"
	"testing"

	"macroshake/internal/graph"
	"macroshake/internal/parse"
	"macroshake/internal/print"
)

const bundle = `
var __webpack_modules__ = {
  1: function(module, exports, require) {
    exports.run = function() {};
  },
  2: function(module, exports, require) {
    exports.use = 1;
  }
};
function __webpack_require__(id) {
  return __webpack_modules__[id];
}
var kept = __webpack_require__(1);
__webpack_require__(99);
`

func TestApplyRemovesUnreachableModuleAndOrphanCall(t *testing.T) {
	file, comments, err := parse.Parse(bundle)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g := graph.Build(file, "__webpack_modules__", "__webpack_require__")
	if !g.TableFound() {
		t.Fatal("expected table found")
	}

	stats := Apply(file, g)
	out := print.Print(file, comments)

	if strings.Contains(out, "exports.use = 1") {
		t.Fatalf("expected module 2 (unused, non-entry) removed, got:\n%s", out)
	}
	if !strings.Contains(out, "exports.run") {
		t.Fatalf("expected module 1 (declarator init target) kept, got:\n%s", out)
	}
	if strings.Contains(out, "__webpack_require__(99)") {
		t.Fatalf("expected orphan call on unreachable id removed, got:\n%s", out)
	}
	if !strings.Contains(out, "var kept = __webpack_require__(1)") {
		t.Fatalf("expected declarator-initializer call preserved, got:\n%s", out)
	}
	if stats.RemovedModuleDefinitions == 0 {
		t.Fatal("expected at least one module definition removed")
	}
	if stats.RemovedBareCalls == 0 {
		t.Fatal("expected at least one bare call removed")
	}
}

func TestApplyNoTableIsNoOp(t *testing.T) {
	file, _, err := parse.Parse(`var x = 1;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g := graph.Build(file, "__webpack_modules__", "__webpack_require__")
	stats := Apply(file, g)
	if stats.RemovedModuleDefinitions != 0 || stats.RemovedBareCalls != 0 {
		t.Fatalf("expected no-op stats, got %+v", stats)
	}
}
