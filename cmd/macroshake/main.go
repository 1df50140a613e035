// Package main is the entry point for the macroshake CLI: subcommand
// dispatch via cobra, grounded on eykd-prosemark-go's cmd/root.go
// (NewXCmd constructors registered on a root command) and
// holomush-holomush's cmd/holomush/main.go (slog.Error on the one
// top-level failure path, non-zero exit on error).
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("macroshake failed", "error", err)
		os.Exit(1)
	}
}
