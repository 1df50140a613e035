package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"macroshake/internal/macroerr"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.Namespace != "ns" || d.LoadFunctionSymbol != "__webpack_require__" || d.ModulesTableSymbol != "__webpack_modules__" {
		t.Fatalf("unexpected defaults: %+v", d)
	}
}

func TestLoadProjectFileMissingIsNoOp(t *testing.T) {
	base := Defaults()
	out, err := LoadProjectFile(filepath.Join(t.TempDir(), "absent.yaml"), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != base {
		t.Fatalf("expected base unchanged, got %+v", out)
	}
}

func TestLoadProjectFileOverridesSelectively(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "macroshake.yaml")
	if err := os.WriteFile(path, []byte("namespace: feature\nemitExports: true\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := LoadProjectFile(path, Defaults())
	if err != nil {
		t.Fatalf("LoadProjectFile: %v", err)
	}
	if out.Namespace != "feature" {
		t.Fatalf("expected namespace override, got %q", out.Namespace)
	}
	if !out.EmitExports {
		t.Fatal("expected EmitExports true")
	}
	if out.LoadFunctionSymbol != "__webpack_require__" {
		t.Fatalf("expected unset field to keep default, got %q", out.LoadFunctionSymbol)
	}
}

func TestLoadProjectFileMalformedIsConfigError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "macroshake.yaml")
	if err := os.WriteFile(path, []byte("namespace: [unterminated\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadProjectFile(path, Defaults())
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	me, ok := err.(*macroerr.Error)
	if !ok || me.Kind != macroerr.ConfigError {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestLoadProjectFileAggregatesMultipleProblems(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "macroshake.yaml")
	body := "loadFunctionSymbol: \"1bad\"\nmodulesTableSymbol: \"also bad\"\nmaxSourceBytes: -5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadProjectFile(path, Defaults())
	if err == nil {
		t.Fatal("expected error for invalid fields")
	}
	me, ok := err.(*macroerr.Error)
	if !ok || me.Kind != macroerr.ConfigError {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	for _, want := range []string{"loadFunctionSymbol", "modulesTableSymbol", "maxSourceBytes"} {
		if !strings.Contains(me.Error(), want) {
			t.Fatalf("expected aggregated error to mention %q, got %q", want, me.Error())
		}
	}
}

func TestValidateMetadataNoSchemaIsNoOp(t *testing.T) {
	if err := ValidateMetadata("", []byte(`{"anything": true}`)); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestValidateMetadataRejectsMismatch(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	schema := `{
		"type": "object",
		"properties": {"build": {"type": "object"}},
		"required": ["build"]
	}`
	if err := os.WriteFile(schemaPath, []byte(schema), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := ValidateMetadata(schemaPath, []byte(`{"other": 1}`))
	if err == nil {
		t.Fatal("expected validation failure")
	}
	me, ok := err.(*macroerr.Error)
	if !ok || me.Kind != macroerr.ConfigError {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestValidateMetadataAcceptsMatch(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	schema := `{
		"type": "object",
		"properties": {"build": {"type": "object"}},
		"required": ["build"]
	}`
	if err := os.WriteFile(schemaPath, []byte(schema), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateMetadata(schemaPath, []byte(`{"build": {"version": "1.0"}}`)); err != nil {
		t.Fatalf("expected match to pass, got %v", err)
	}
}
