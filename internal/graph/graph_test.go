package graph

import (
	"testing"

	"macroshake/internal/parse"
)

const bundle = `
var __webpack_modules__ = {
  1: function(module, exports, require) {
    exports.run = function() {};
  },
  2: function(module, exports, require) {
    var dep = __webpack_require__(3);
    exports.use = dep;
  },
  3: function(module, exports, require) {
    exports.value = 1;
  },
  4: function(module, exports, require) {
    exports.orphan = true;
  }
};
function __webpack_require__(id) {
  return __webpack_modules__[id];
}
__webpack_require__(2);
__webpack_require__(4);
`

func buildGraph(t *testing.T) *Graph {
	t.Helper()
	file, _, err := parse.Parse(bundle)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return Build(file, "__webpack_modules__", "__webpack_require__")
}

func TestBuildFindsModulesTable(t *testing.T) {
	g := buildGraph(t)
	if !g.TableFound() {
		t.Fatal("expected modules table to be found")
	}
	if len(g.Modules) != 4 {
		t.Fatalf("expected 4 modules, got %d", len(g.Modules))
	}
}

func TestBuildExtractsDependencies(t *testing.T) {
	g := buildGraph(t)
	m2 := g.Modules["2"]
	if m2 == nil || len(m2.Dependencies) != 1 || m2.Dependencies[0] != "3" {
		t.Fatalf("expected module 2 to depend on 3, got %+v", m2)
	}
}

func TestBuildExtractsExports(t *testing.T) {
	g := buildGraph(t)
	m1 := g.Modules["1"]
	if m1 == nil || len(m1.Exports) != 1 || m1.Exports[0] != "run" {
		t.Fatalf("expected module 1 to export run, got %+v", m1)
	}
}

func TestBuildDiscoversEntries(t *testing.T) {
	g := buildGraph(t)
	if len(g.EntryIDs) != 2 || g.EntryIDs[0] != "2" || g.EntryIDs[1] != "4" {
		t.Fatalf("expected entries [2 4] in call order, got %v", g.EntryIDs)
	}
}

func TestReachabilityExcludesModuleOne(t *testing.T) {
	g := buildGraph(t)
	if g.Reachable["1"] {
		t.Fatal("module 1 is never required, should be unreachable")
	}
	for _, id := range []string{"2", "3", "4"} {
		if !g.Reachable[id] {
			t.Fatalf("module %s should be reachable", id)
		}
	}
}

func TestUnusedModulesReportsModuleOne(t *testing.T) {
	g := buildGraph(t)
	unused := g.UnusedModules()
	if len(unused) != 1 || unused[0] != "1" {
		t.Fatalf("expected unused [1], got %v", unused)
	}
}

func TestExecutionOrderRespectsDependencies(t *testing.T) {
	g := buildGraph(t)
	order := g.ExecutionOrder()
	posOf := func(id string) int {
		for i, v := range order {
			if v == id {
				return i
			}
		}
		return -1
	}
	if posOf("3") >= posOf("2") {
		t.Fatalf("expected dependency 3 before dependent 2 in %v", order)
	}
}

func TestBuildNoTableFoundIsNotAnError(t *testing.T) {
	file, _, err := parse.Parse(`var x = 1;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g := Build(file, "__webpack_modules__", "__webpack_require__")
	if g.TableFound() {
		t.Fatal("expected no table found")
	}
	if len(g.Modules) != 0 {
		t.Fatalf("expected empty graph, got %d modules", len(g.Modules))
	}
}
