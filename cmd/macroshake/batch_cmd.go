package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"macroshake/internal/macroerr"
	"macroshake/internal/runner"
	"macroshake/internal/walkwalk"
)

var batchExts = map[string]struct{}{".js": {}, ".mjs": {}, ".cjs": {}}

func newBatchCmd() *cobra.Command {
	var (
		srcDir       string
		metadataPath string
		outDir       string
		concurrency  int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run Optimise concurrently over every bundle file under a directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			files, _, err := walkwalk.CollectFiles(srcDir, batchExts, nil, nil, 0, 0, false, false)
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

			batchFiles := make([]runner.File, 0, len(files))
			for _, f := range files {
				src, err := os.ReadFile(f.AbsPath)
				if err != nil {
					return err
				}
				batchFiles = append(batchFiles, runner.File{Path: f.RelPath, Source: string(src)})
			}

			result, err := runner.RunBatch(cmd.Context(), batchFiles, rawMetadata, resolvedOptions, runner.BatchOptions{Concurrency: concurrency})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d files\n", result.RunID, len(result.Results))
			for _, r := range result.Results {
				if r.Err != nil {
					logFileError(r.Path, r.Err)
					continue
				}
				dest := filepath.Join(outDir, r.Path)
				if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
					return err
				}
				if err := os.WriteFile(dest, []byte(r.Output), 0o644); err != nil {
					return err
				}
				slog.Info("shake summary",
					"path", r.Path,
					"removed_modules", r.Report.RemovedModules,
					"removed_bare_calls", r.Report.RemovedBareCalls,
					"cached", r.Cached,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&srcDir, "dir", "", "directory to scan for bundle files (required)")
	cmd.Flags().StringVar(&metadataPath, "metadata", "", "path to a JSON metadata document (default: {})")
	cmd.Flags().StringVar(&outDir, "out-dir", "out", "directory to write transformed files into")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "max parallel Optimise calls")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

// logFileError reports one failed file: a directive-grammar problem is
// the user's input misbehaving mid-bundle (Warn), anything else — a
// parse failure, a config error surfacing late — is an Error.
func logFileError(path string, err error) {
	var me *macroerr.Error
	if e, ok := err.(*macroerr.Error); ok {
		me = e
	}
	if me != nil {
		switch me.Kind {
		case macroerr.MalformedDirective, macroerr.UnpairedDirective, macroerr.UnresolvedValueInline:
			slog.Warn("directive error", "path", path, "error", err)
			return
		}
	}
	slog.Error("optimise failed", "path", path, "error", err)
}
