// Package report packages the outcome of one Optimise run the way the
// teacher packages a project bundle: a manifest, a README, and a zip
// archive, written with the same reproducibility guarantees
// (internal/ziputil's fixed timestamps, sorted entries). Grounded on
// internal/bundle/zipfull.go and internal/index/types.go, reborn
// around one optimisation run's fields instead of a multi-file
// project snapshot.
package report

import (
	"macroshake/internal/optimise"
)

// Manifest is the top-level record of one optimisation run, the
// run-scoped analogue of the teacher's index.Manifest.
type Manifest struct {
	Namespace           string              `json:"namespace"`
	LoadFunctionSymbol  string              `json:"loadFunctionSymbol"`
	ModulesTableSymbol  string              `json:"modulesTableSymbol"`
	SourceBytes         int                 `json:"sourceBytes"`
	OutputBytes         int                 `json:"outputBytes"`
	DirectivesRemoved   int                 `json:"directivesRemoved"`
	ValuesInlined       int                 `json:"valuesInlined"`
	ModulesTableFound   bool                `json:"modulesTableFound"`
	RemovedModules      int                 `json:"removedModules"`
	RemovedBareCalls    int                 `json:"removedBareCalls"`
	RemovedDeclarations int                 `json:"removedDeclarations,omitempty"`
	RemovedParens       int                 `json:"removedParens,omitempty"`
	UnusedModules       []string            `json:"unusedModules,omitempty"`
	ExecutionOrder      []string            `json:"executionOrder,omitempty"`
	Exports             map[string][]string `json:"exports,omitempty"`
}

// FromRun builds a Manifest from one optimise.Report plus the
// namespace/symbol configuration and byte counts that produced it.
func FromRun(namespace, loadSymbol, tableSymbol string, sourceLen, outputLen int, r optimise.Report) Manifest {
	return Manifest{
		Namespace:           namespace,
		LoadFunctionSymbol:  loadSymbol,
		ModulesTableSymbol:  tableSymbol,
		SourceBytes:         sourceLen,
		OutputBytes:         outputLen,
		DirectivesRemoved:   r.DirectivesRemoved,
		ValuesInlined:       r.ValuesInlined,
		ModulesTableFound:   r.ModulesTableFound,
		RemovedModules:      r.RemovedModules,
		RemovedBareCalls:    r.RemovedBareCalls,
		RemovedDeclarations: r.RemovedDeclarations,
		RemovedParens:       r.RemovedParens,
		UnusedModules:       r.UnusedModules,
		ExecutionOrder:      r.ExecutionOrder,
		Exports:             r.Exports,
	}
}
