package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Options controls one walk.
type Options struct {
	// Category tags every emitted Item.
	Category string

	// Pred filters regular files.
	Pred Predicate

	// MaxDepth limits recursion below each root (1 = root's direct
	// children only). Zero means unlimited.
	MaxDepth int

	// SkipDirs are directory base names (lowercase) never descended into.
	SkipDirs []string
}

// WalkRoots scans every root in order and returns the combined result.
// Roots that do not exist are skipped silently since path sets vary across
// machines. Unreadable entries are counted as skipped, never fatal.
// Symbolic links and junctions are never followed, so a link cycle cannot
// cause a directory to be visited twice. Output order follows WalkDir's
// lexical order and is stable for a fixed filesystem state.
//
// The context is checked per directory entry; cancellation returns the
// partial result alongside ctx.Err().
func WalkRoots(ctx context.Context, roots []string, opts Options) (*Result, error) {
	result := &Result{}

	skip := make(map[string]bool, len(opts.SkipDirs))
	for _, d := range opts.SkipDirs {
		skip[strings.ToLower(d)] = true
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		if err := walkRoot(ctx, root, opts, skip, result); err != nil {
			return result, err
		}
	}

	return result, nil
}

func walkRoot(ctx context.Context, root string, opts Options, skip map[string]bool, result *Result) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			// Permission denied or vanished mid-walk — record and move on.
			result.warn("cannot read " + path)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if skip[strings.ToLower(d.Name())] {
				return fs.SkipDir
			}
			if opts.MaxDepth > 0 && depthBelow(root, path) >= opts.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}

		// Only regular files are candidates. WalkDir does not descend
		// into symlinked directories, and symlinked files are rejected
		// here, so links and junctions are never followed.
		if !d.Type().IsRegular() {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			result.warn("cannot stat " + path)
			return nil
		}

		if !opts.Pred.Match(path, info) {
			return nil
		}

		result.add(Item{
			Path:     path,
			Size:     info.Size(),
			ModTime:  info.ModTime(),
			Category: opts.Category,
		})
		return nil
	})
}

// depthBelow returns how many levels path sits below root (direct child = 1).
func depthBelow(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
