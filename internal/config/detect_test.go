package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectMissingPackageJSON(t *testing.T) {
	d := Detect(t.TempDir())
	if d.Module != "" || d.Entry != "" {
		t.Fatalf("expected zero value, got %+v", d)
	}
}

func TestDetectPrefersModuleOverMain(t *testing.T) {
	dir := t.TempDir()
	pkg := `{"name": "widget", "main": "dist/index.cjs.js", "module": "dist/index.esm.js"}`
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(pkg), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d := Detect(dir)
	if d.Module != "widget" {
		t.Fatalf("expected module name widget, got %q", d.Module)
	}
	if d.Entry != "dist/index.esm.js" {
		t.Fatalf("expected ESM entry preferred, got %q", d.Entry)
	}
}

func TestDetectFallsBackToMain(t *testing.T) {
	dir := t.TempDir()
	pkg := `{"name": "widget", "main": "dist/index.cjs.js"}`
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(pkg), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d := Detect(dir)
	if d.Entry != "dist/index.cjs.js" {
		t.Fatalf("expected main fallback, got %q", d.Entry)
	}
}
