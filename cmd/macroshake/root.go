package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"macroshake/internal/config"
)

// resolvedOptions is populated once in the root command's
// PersistentPreRunE and read by every subcommand's RunE — a single
// macroshake invocation runs exactly one command, so package-level
// state mirrors the teacher's own single-shot CLI process model
// (cmd/class-collector/main.go resolves all its flags once in main,
// then calls straight-line functions; cobra's persistent-flag layering
// is the one thing this CLI does differently, per SPEC_FULL's AMBIENT
// — configuration section).
var resolvedOptions config.Options

var (
	flagNamespace          string
	flagLoadSymbol         string
	flagTableSymbol        string
	flagMaxSourceBytes     int64
	flagConfigPath         string
	flagSchemaPath         string
	flagEmitExecutionOrder bool
	flagEmitExports        bool
	flagEnableCleanup      bool
)

// NewRootCmd builds the macroshake root command with every subcommand
// registered, following eykd-prosemark-go's cmd/root.go
// NewXCmd-per-subcommand registration style.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "macroshake",
		Short:         "macroshake - conditional compilation and tree-shaking for bundled scripts",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&flagNamespace, "namespace", "", "directive namespace (default: config/compiled default)")
	root.PersistentFlags().StringVar(&flagLoadSymbol, "load-symbol", "", "load-function identifier (default: __webpack_require__)")
	root.PersistentFlags().StringVar(&flagTableSymbol, "table-symbol", "", "modules-table identifier (default: __webpack_modules__)")
	root.PersistentFlags().Int64Var(&flagMaxSourceBytes, "max-bytes", 0, "max source size in bytes (0: no limit; unset: config/compiled default)")
	root.PersistentFlags().StringVar(&flagConfigPath, "config", "macroshake.yaml", "path to an optional project config file")
	root.PersistentFlags().StringVar(&flagSchemaPath, "schema", "", "path to a JSON Schema to validate metadata against before optimising")
	root.PersistentFlags().BoolVar(&flagEmitExecutionOrder, "emit-execution-order", false, "include R's topological execution order in the report")
	root.PersistentFlags().BoolVar(&flagEmitExports, "emit-exports", false, "include per-module exports in the report")
	root.PersistentFlags().BoolVar(&flagEnableCleanup, "enable-cleanup", false, "run the optional resolver/DCE/fixer passes after shaking")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		opts, err := config.LoadProjectFile(flagConfigPath, config.Defaults())
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		f := cmd.Flags()
		if f.Changed("namespace") {
			opts.Namespace = flagNamespace
		}
		if f.Changed("load-symbol") {
			opts.LoadFunctionSymbol = flagLoadSymbol
		}
		if f.Changed("table-symbol") {
			opts.ModulesTableSymbol = flagTableSymbol
		}
		if f.Changed("max-bytes") {
			opts.MaxSourceBytes = flagMaxSourceBytes
		}
		if f.Changed("schema") {
			opts.MetadataSchemaPath = flagSchemaPath
		}
		if f.Changed("emit-execution-order") {
			opts.EmitExecutionOrder = flagEmitExecutionOrder
		}
		if f.Changed("emit-exports") {
			opts.EmitExports = flagEmitExports
		}
		if f.Changed("enable-cleanup") {
			opts.EnableCleanup = flagEnableCleanup
		}
		resolvedOptions = opts
		return nil
	}

	root.AddCommand(newOptimiseCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newGraphCmd())
	return root
}
