// Package runner drives Optimise over a batch of files concurrently,
// the way the teacher's cmd/archflow drives its per-directory LLM
// calls: an errgroup.WithContext fan-out bounded by a semaphore
// channel, with a read-through cache in front of the expensive call.
// Grounded on Keyhole-Koro-InsightifyCore/cmd/archflow/main.go (the
// errgroup/semaphore shape) and its
// internal/gateway/repository/projectstore/store.go (the
// golang-lru/v2 read-through cache), with eykd-prosemark-go's
// uuid.NewV7 stamping a RunID the way it stamps node IDs.
package runner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/google/uuid"

	"macroshake/internal/config"
	"macroshake/internal/optimise"
)

// File is one input to a batch run.
type File struct {
	Path   string
	Source string
}

// Result is one file's outcome. Err is non-nil exactly when Optimise
// failed for this file; a batch run never aborts early on a single
// file's failure (spec §7: "batch mode collecting one failure per
// file without aborting the whole run").
type Result struct {
	Path   string
	Output string
	Report optimise.Report
	Err    error
	Cached bool
}

// BatchOptions configures a run.
type BatchOptions struct {
	Concurrency int
	CacheSize   int
}

// Batch is the outcome of one RunBatch call.
type Batch struct {
	RunID   string
	Results []Result
}

type cacheEntry struct {
	output string
	report optimise.Report
	err    error
}

// RunBatch optimises every file against the same metadata document
// concurrently, bounded by opts.Concurrency, memoising identical
// (source, metadata) pairs within the run via an in-process LRU cache
// — common when a bundler emits repeated chunk boilerplate across
// files in the same build.
func RunBatch(ctx context.Context, files []File, rawMetadata []byte, cfg config.Options, opts BatchOptions) (Batch, error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = 256
	}

	cache, err := lru.New[string, cacheEntry](cacheSize)
	if err != nil {
		return Batch{}, err
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return Batch{}, err
	}

	results := make([]Result, len(files))
	sem := make(chan struct{}, concurrency)
	g, gctx := errgroup.WithContext(ctx)

	// The first file with a given key computes it; later files with the
	// same key wait until it is done, then read it from the cache.
	keys := make([]string, len(files))
	done := map[string]chan struct{}{}
	owner := make([]bool, len(files))
	for i, f := range files {
		keys[i] = cacheKey(f.Source, rawMetadata)
		if done[keys[i]] == nil {
			done[keys[i]] = make(chan struct{})
			owner[i] = true
		}
	}

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			key := keys[i]
			if owner[i] {
				defer close(done[key])
			} else {
				<-done[key]
			}
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			if entry, ok := cache.Get(key); ok {
				results[i] = Result{Path: f.Path, Output: entry.output, Report: entry.report, Err: entry.err, Cached: true}
				return nil
			}

			out, report, runErr := optimise.Optimise(f.Source, rawMetadata, cfg)
			cache.Add(key, cacheEntry{output: out, report: report, err: runErr})
			results[i] = Result{Path: f.Path, Output: out, Report: report, Err: runErr}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Batch{}, err
	}

	return Batch{RunID: runID.String(), Results: results}, nil
}

func cacheKey(source string, rawMetadata []byte) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write(rawMetadata)
	return hex.EncodeToString(h.Sum(nil))
}
