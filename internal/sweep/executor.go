// Package sweep deletes confirmed candidate lists. Every item is attempted
// independently: a locked or protected file is recorded as a per-item
// failure and the batch continues.
package sweep

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pcsweep/pcsweep/internal/oplog"
	"github.com/pcsweep/pcsweep/internal/scan"
)

// Failure records one item that could not be removed.
type Failure struct {
	Path   string
	Reason string
}

// Report summarizes one deletion batch. It is created per operation and
// never mutated after the batch finishes. Succeeded+Failed always equals
// Attempted.
type Report struct {
	Attempted int
	Succeeded int
	Failed    int
	FreedSize int64
	Failures  []Failure
}

// RecordSuccess counts one removed item.
func (r *Report) RecordSuccess(size int64) {
	r.Attempted++
	r.Succeeded++
	r.FreedSize += size
}

// RecordFailure counts one item that could not be removed.
func (r *Report) RecordFailure(path, reason string) {
	r.Attempted++
	r.Failed++
	r.Failures = append(r.Failures, Failure{Path: path, Reason: reason})
}

// Executor deletes files. It is stateless between calls; configuration is
// supplied at construction.
type Executor struct {
	// DryRun reports what would be deleted without touching anything.
	DryRun bool

	// Guard lists path prefixes that must never be deleted. Guarded items
	// fail with a "protected path" reason instead of being attempted.
	Guard []string

	// Log receives one audit line per attempted item.
	Log *oplog.Logger
}

// DeleteFiles removes every confirmed item independently. Cancellation is
// checked between items; items not reached are simply not counted.
func (e *Executor) DeleteFiles(ctx context.Context, items []scan.Item) *Report {
	report := &Report{}

	for _, it := range items {
		if ctx.Err() != nil {
			break
		}

		if guarded(e.Guard, it.Path) {
			report.RecordFailure(it.Path, "protected path")
			e.Log.Event("delete refused (protected): %s", it.Path)
			continue
		}

		if e.DryRun {
			report.RecordSuccess(it.Size)
			continue
		}

		if err := os.Remove(it.Path); err != nil {
			reason := ReasonFor(err)
			report.RecordFailure(it.Path, reason)
			e.Log.Event("delete failed: %s (%s)", it.Path, reason)
			continue
		}

		report.RecordSuccess(it.Size)
		e.Log.Event("deleted: %s (%d bytes)", it.Path, it.Size)
	}

	return report
}

// guarded reports whether path equals or sits under any guard prefix.
func guarded(guard []string, path string) bool {
	cleaned := strings.ToLower(filepath.Clean(path))
	for _, g := range guard {
		p := strings.ToLower(filepath.Clean(g))
		if cleaned == p || strings.HasPrefix(cleaned, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
