// Package scan implements the shared directory scanner behind the temp,
// junk, Adobe, system, large-file, and old-video tools. Each tool is the
// same recursive walk with a different set of roots and a different
// predicate; nothing here mutates the filesystem.
package scan

import "time"

// Item is a single file identified as a deletion candidate. Identity is the
// path; an Item is immutable once produced.
type Item struct {
	Path     string
	Size     int64
	ModTime  time.Time
	Category string
}

// Result is the outcome of one scan invocation. A new Result replaces the
// previous one on re-scan; the scanner retains no reference to it.
type Result struct {
	Items     []Item
	TotalSize int64

	// Skipped counts files and directories that could not be statted or
	// read. They are not matches and not fatal errors.
	Skipped int

	// Warnings carries human-readable notes about skipped entries,
	// capped so a huge unreadable tree cannot balloon memory.
	Warnings []string
}

const maxWarnings = 500

func (r *Result) add(it Item) {
	r.Items = append(r.Items, it)
	r.TotalSize += it.Size
}

func (r *Result) warn(msg string) {
	r.Skipped++
	if len(r.Warnings) < maxWarnings {
		r.Warnings = append(r.Warnings, msg)
	}
}
