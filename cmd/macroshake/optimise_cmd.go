package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"macroshake/internal/optimise"
	"macroshake/internal/report"
)

func newOptimiseCmd() *cobra.Command {
	var (
		sourcePath   string
		metadataPath string
		outPath      string
		reportPath   string
		zipPath      string
	)

	cmd := &cobra.Command{
		Use:   "optimise",
		Short: "Run P/D/T/R/S over a single source file",
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

			out, rep, err := optimise.Optimise(string(source), rawMetadata, resolvedOptions)
			if err != nil {
				return err
			}

			if err := writeOutput(outPath, out); err != nil {
				return err
			}
			if reportPath != "" {
				if err := writeReportJSON(reportPath, rep); err != nil {
					return err
				}
			}
			if zipPath != "" {
				man := report.FromRun(resolvedOptions.Namespace, resolvedOptions.LoadFunctionSymbol,
					resolvedOptions.ModulesTableSymbol, len(source), len(out), rep)
				if err := report.WriteZip(zipPath, man, out, rep.Diff); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourcePath, "source", "", "path to the source file to optimise (required)")
	cmd.Flags().StringVar(&metadataPath, "metadata", "", "path to a JSON metadata document (default: {})")
	cmd.Flags().StringVar(&outPath, "out", "", "path to write transformed output (default: stdout)")
	cmd.Flags().StringVar(&reportPath, "report", "", "optional path to write the run report as JSON")
	cmd.Flags().StringVar(&zipPath, "zip", "", "optional path to package this run as a report zip")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func writeOutput(path, content string) error {
	if path == "" {
		_, err := os.Stdout.WriteString(content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func writeReportJSON(path string, rep optimise.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
