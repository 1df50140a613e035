// Package config carries Options (the knobs spec.md and its
// expansion make configurable) and the two ambient concerns layered on
// top of them: an optional project file and an optional metadata
// pre-flight schema check. Layering follows the teacher's
// internal/meta.Detect priority-chain idiom (defaults, then file, then
// explicit override) even though the source material differs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"

	"macroshake/internal/macroerr"
)

// identifierPattern is the bar a configured load-function/modules-table
// symbol must clear to be usable as a bundler identifier at all.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Options carries every knob the optimiser accepts, with zero-value
// defaults filled in by Defaults.
type Options struct {
	Namespace          string `yaml:"namespace"`
	LoadFunctionSymbol string `yaml:"loadFunctionSymbol"`
	ModulesTableSymbol string `yaml:"modulesTableSymbol"`
	EmitExecutionOrder bool   `yaml:"emitExecutionOrder"`
	EmitExports        bool   `yaml:"emitExports"`
	MaxSourceBytes     int64  `yaml:"maxSourceBytes"`
	MetadataSchemaPath string `yaml:"metadataSchema"`

	// EnableCleanup runs the optional resolver/DCE/fixer passes after
	// S. Off by default: spec invariant 1 (directive-free input is
	// semantically equivalent to a parse-print round trip) would not
	// hold if dead code unrelated to any directive vanished too.
	EnableCleanup             bool `yaml:"enableCleanup"`
	RetainTopLevelBindings    bool `yaml:"retainTopLevelBindings"`
	PreserveSideEffectImports bool `yaml:"preserveSideEffectImports"`
}

// Defaults returns the compiled-in baseline: the lowest-priority layer
// in the namespace/loadSymbol/tableSymbol chain.
func Defaults() Options {
	return Options{
		Namespace:          "ns",
		LoadFunctionSymbol: "__webpack_require__",
		ModulesTableSymbol: "__webpack_modules__",
		MaxSourceBytes:     8 << 20,
	}
}

// projectFile mirrors the on-disk macroshake.yaml/macroshake.yml shape.
// Every field is optional; an absent field leaves the lower-priority
// layer untouched.
type projectFile struct {
	Namespace                 *string `yaml:"namespace"`
	LoadFunctionSymbol        *string `yaml:"loadFunctionSymbol"`
	ModulesTableSymbol        *string `yaml:"modulesTableSymbol"`
	EmitExecutionOrder        *bool   `yaml:"emitExecutionOrder"`
	EmitExports               *bool   `yaml:"emitExports"`
	MaxSourceBytes            *int64  `yaml:"maxSourceBytes"`
	MetadataSchema            *string `yaml:"metadataSchema"`
	EnableCleanup             *bool   `yaml:"enableCleanup"`
	RetainTopLevelBindings    *bool   `yaml:"retainTopLevelBindings"`
	PreserveSideEffectImports *bool   `yaml:"preserveSideEffectImports"`
}

// LoadProjectFile reads and applies a macroshake.yaml/macroshake.yml
// project file onto base. Unlike meta.Detect's best-effort scanning of
// build files, a project file that exists but fails to parse is a hard
// ConfigError — this layer is explicit user input, not inference.
func LoadProjectFile(path string, base Options) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, macroerr.Wrap(macroerr.ConfigError, err)
	}

	var pf projectFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return base, macroerr.Wrap(macroerr.ConfigError, fmt.Errorf("%s: %w", path, err))
	}

	out := base
	if pf.Namespace != nil {
		out.Namespace = *pf.Namespace
	}
	if pf.LoadFunctionSymbol != nil {
		out.LoadFunctionSymbol = *pf.LoadFunctionSymbol
	}
	if pf.ModulesTableSymbol != nil {
		out.ModulesTableSymbol = *pf.ModulesTableSymbol
	}
	if pf.EmitExecutionOrder != nil {
		out.EmitExecutionOrder = *pf.EmitExecutionOrder
	}
	if pf.EmitExports != nil {
		out.EmitExports = *pf.EmitExports
	}
	if pf.MaxSourceBytes != nil {
		out.MaxSourceBytes = *pf.MaxSourceBytes
	}
	if pf.MetadataSchema != nil {
		out.MetadataSchemaPath = *pf.MetadataSchema
	}
	if pf.EnableCleanup != nil {
		out.EnableCleanup = *pf.EnableCleanup
	}
	if pf.RetainTopLevelBindings != nil {
		out.RetainTopLevelBindings = *pf.RetainTopLevelBindings
	}
	if pf.PreserveSideEffectImports != nil {
		out.PreserveSideEffectImports = *pf.PreserveSideEffectImports
	}

	var problems macroerr.List
	if !identifierPattern.MatchString(out.LoadFunctionSymbol) {
		problems.Addf(macroerr.ConfigError, -1, "loadFunctionSymbol", "%q is not a valid identifier", out.LoadFunctionSymbol)
	}
	if !identifierPattern.MatchString(out.ModulesTableSymbol) {
		problems.Addf(macroerr.ConfigError, -1, "modulesTableSymbol", "%q is not a valid identifier", out.ModulesTableSymbol)
	}
	if out.MaxSourceBytes < 0 {
		problems.Addf(macroerr.ConfigError, -1, "maxSourceBytes", "must not be negative, got %d", out.MaxSourceBytes)
	}
	if problems.Len() > 0 {
		return base, macroerr.Wrap(macroerr.ConfigError, fmt.Errorf("%s: %w", path, problems.Err()))
	}

	return out, nil
}

// ValidateMetadata checks raw metadata JSON against the schema at
// schemaPath, when one is configured. A schemaPath of "" is a no-op —
// P then evaluates the document with no schema involved at all.
func ValidateMetadata(schemaPath string, raw []byte) error {
	if schemaPath == "" {
		return nil
	}

	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		return macroerr.Wrap(macroerr.ConfigError, err)
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(schemaBytes, &schema); err != nil {
		return macroerr.Wrap(macroerr.ConfigError, fmt.Errorf("%s: %w", schemaPath, err))
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return macroerr.Wrap(macroerr.ConfigError, fmt.Errorf("resolving %s: %w", schemaPath, err))
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return macroerr.Wrap(macroerr.ConfigError, fmt.Errorf("metadata: %w", err))
	}

	if err := resolved.Validate(instance); err != nil {
		return macroerr.New(macroerr.ConfigError, -1, "", "metadata failed schema validation: "+err.Error())
	}
	return nil
}
