package runner

import (
	"context"
	"testing"

	"macroshake/internal/config"
)

func TestRunBatchProcessesAllFiles(t *testing.T) {
	files := []File{
		{Path: "a.js", Source: `var a = 1;`},
		{Path: "b.js", Source: `var b = 2;`},
	}
	batch, err := RunBatch(context.Background(), files, []byte(`{}`), config.Defaults(), BatchOptions{})
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if batch.RunID == "" {
		t.Fatal("expected non-empty RunID")
	}
	if len(batch.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(batch.Results))
	}
	for _, r := range batch.Results {
		if r.Err != nil {
			t.Fatalf("unexpected error for %s: %v", r.Path, r.Err)
		}
	}
}

func TestRunBatchCachesIdenticalContent(t *testing.T) {
	files := []File{
		{Path: "a.js", Source: `var a = 1;`},
		{Path: "b.js", Source: `var a = 1;`},
	}
	batch, err := RunBatch(context.Background(), files, []byte(`{}`), config.Defaults(), BatchOptions{})
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	cachedCount := 0
	for _, r := range batch.Results {
		if r.Cached {
			cachedCount++
		}
	}
	if cachedCount != 1 {
		t.Fatalf("expected exactly 1 cache hit among identical inputs, got %d", cachedCount)
	}
}

func TestRunBatchKeepsPerFileErrorsIsolated(t *testing.T) {
	files := []File{
		{Path: "bad.js", Source: `var x = /* @ns:define-inline[value="missing"] */ PLACEHOLDER;`},
		{Path: "good.js", Source: `var y = 1;`},
	}
	batch, err := RunBatch(context.Background(), files, []byte(`{}`), config.Defaults(), BatchOptions{})
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if batch.Results[0].Err == nil {
		t.Fatal("expected bad.js to fail")
	}
	if batch.Results[1].Err != nil {
		t.Fatalf("expected good.js to succeed, got %v", batch.Results[1].Err)
	}
}
