package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"macroshake/internal/directive"
	"macroshake/internal/graph"
	"macroshake/internal/macroerr"
	"macroshake/internal/metadata"
	"macroshake/internal/parse"
	"macroshake/internal/sortutil"
	"macroshake/internal/transform"
)

// graphReport is R's informational output, independent of whether the
// caller goes on to run S: what a modules table looks like once T has
// resolved directives, without committing to remove anything.
type graphReport struct {
	ModulesTableFound bool                `json:"modulesTableFound"`
	EntryIDs          []string            `json:"entryIds"`
	Modules           []string            `json:"modules"`
	UnusedModules     []string            `json:"unusedModules"`
	ExecutionOrder    []string            `json:"executionOrder,omitempty"`
	Exports           map[string][]string `json:"exports,omitempty"`
}

func newGraphCmd() *cobra.Command {
	var (
		sourcePath   string
		metadataPath string
		emitOrder    bool
		emitExports  bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Run P/D/T/R and print the resulting module graph as JSON, without shaking",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := os.ReadFile(sourcePath)
			if err != nil {
				return err
			}
			rawMetadata := []byte("{}")
			if metadataPath != "" {
				rawMetadata, err = os.ReadFile(metadataPath)
				if err != nil {
					return err
				}
			}

			meta, err := metadata.Parse(rawMetadata)
			if err != nil {
				return macroerr.Wrap(macroerr.ConfigError, err)
			}
			file, comments, err := parse.Parse(string(source))
			if err != nil {
				return macroerr.Wrap(macroerr.ParseFailure, err)
			}
			directives, _, err := directive.Scan(comments, resolvedOptions.Namespace)
			if err != nil {
				return err
			}
			file, err = transform.Apply(file, directives, meta)
			if err != nil {
				return err
			}

			g := graph.Build(file, resolvedOptions.ModulesTableSymbol, resolvedOptions.LoadFunctionSymbol)

			rep := graphReport{
				ModulesTableFound: g.TableFound(),
				UnusedModules:     g.UnusedModules(),
				EntryIDs:          g.EntryIDs,
			}
			for id := range g.Modules {
				rep.Modules = append(rep.Modules, id)
			}
			rep.Modules = sortutil.StablePathSort(rep.Modules)
			if emitOrder && g.TableFound() {
				rep.ExecutionOrder = g.ExecutionOrder()
			}
			if emitExports && g.TableFound() {
				rep.Exports = map[string][]string{}
				for id, m := range g.Modules {
					rep.Exports[id] = m.Exports
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}

	cmd.Flags().StringVar(&sourcePath, "source", "", "path to the source file to analyse (required)")
	cmd.Flags().StringVar(&metadataPath, "metadata", "", "path to a JSON metadata document (default: {})")
	cmd.Flags().BoolVar(&emitOrder, "emit-execution-order", false, "include the topological execution order")
	cmd.Flags().BoolVar(&emitExports, "emit-exports", false, "include per-module exports")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}
