package report

import (
	"archive/zip"
	"path/filepath"
	"strings"
	"testing"

	"macroshake/internal/optimise"
)

func TestFromRun(t *testing.T) {
	r := optimise.Report{
		DirectivesRemoved: 2,
		ValuesInlined:     1,
		ModulesTableFound: true,
		RemovedModules:    3,
	}
	m := FromRun("ns", "__webpack_require__", "__webpack_modules__", 100, 80, r)
	if m.Namespace != "ns" || m.DirectivesRemoved != 2 || m.RemovedModules != 3 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
}

func TestValidateRejectsEmptyNamespace(t *testing.T) {
	m := Manifest{LoadFunctionSymbol: "x", ModulesTableSymbol: "y"}
	if err := Validate(m); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidateRejectsInconsistentShakeWithoutTable(t *testing.T) {
	m := Manifest{
		Namespace:          "ns",
		LoadFunctionSymbol: "x",
		ModulesTableSymbol: "y",
		ModulesTableFound:  false,
		RemovedModules:     1,
	}
	if err := Validate(m); err == nil {
		t.Fatal("expected validation error for inconsistent shake stats")
	}
}

func TestValidateAcceptsWellFormedManifest(t *testing.T) {
	m := Manifest{
		Namespace:          "ns",
		LoadFunctionSymbol: "__webpack_require__",
		ModulesTableSymbol: "__webpack_modules__",
		ModulesTableFound:  true,
		RemovedModules:     1,
	}
	if err := Validate(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateReadmeMentionsNamespace(t *testing.T) {
	out := Generate(ReadmeOptions{Namespace: "feature", ModulesTableFound: true, ContextLines: 4})
	if !strings.Contains(string(out), "feature") {
		t.Fatalf("expected namespace mentioned, got:\n%s", out)
	}
}

func TestWriteZipProducesExpectedEntries(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "run.zip")
	man := Manifest{
		Namespace:          "ns",
		LoadFunctionSymbol: "__webpack_require__",
		ModulesTableSymbol: "__webpack_modules__",
		ModulesTableFound:  true,
	}
	if err := WriteZip(zipPath, man, "var x = 1;\n", "--- a\n+++ b\n"); err != nil {
		t.Fatalf("WriteZip: %v", err)
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer zr.Close()

	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"manifest.json", "output.js", "diff.patch", "README.md"} {
		if !names[want] {
			t.Fatalf("expected entry %q, got %v", want, names)
		}
	}
}

func TestWriteZipRejectsInvalidManifest(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "run.zip")
	err := WriteZip(zipPath, Manifest{}, "", "")
	if err == nil {
		t.Fatal("expected error for invalid manifest")
	}
}
