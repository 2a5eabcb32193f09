// Package dupes finds exact-content duplicate files. Files are bucketed by
// size first — a unique size cannot have a duplicate — and only the
// survivors are hashed.
package dupes

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"

	"github.com/pcsweep/pcsweep/internal/scan"
)

// Group is a set of files with identical size and content hash. Items[0] is
// the member designated to keep; the rest are deletion candidates.
//
// The keep choice is deterministic and user-visible: earliest modification
// time wins, ties go to the shortest path, remaining ties to the
// lexicographically smallest path.
type Group struct {
	Hash  string
	Size  int64
	Items []scan.Item
}

// Keep returns the member that should be retained.
func (g Group) Keep() scan.Item { return g.Items[0] }

// Redundant returns the members marked as deletion candidates.
func (g Group) Redundant() []scan.Item { return g.Items[1:] }

// WastedSize is the space reclaimed by deleting every redundant member.
func (g Group) WastedSize() int64 { return g.Size * int64(len(g.Items)-1) }

// Report is the outcome of one detection pass.
type Report struct {
	Groups      []Group
	Warnings    []string
	FilesHashed int
	WastedSize  int64
}

// Detector scans a root set for duplicates. Zero value is not usable; set
// Roots. Progress, if non-nil, is called once per hashed file.
type Detector struct {
	Roots []string

	// MinSize excludes files below this many bytes; empty files are
	// always excluded since they are trivially identical.
	MinSize int64

	Progress func(done, total int, path string)
}

// Detect runs the size-then-hash grouping pass. Files that cannot be opened
// for hashing are dropped from their bucket and reported as warnings; they
// never abort the pass. The context is checked before each hash.
func (d *Detector) Detect(ctx context.Context) (*Report, error) {
	minSize := d.MinSize
	if minSize < 1 {
		minSize = 1
	}

	listing, err := scan.WalkRoots(ctx, d.Roots, scan.Options{
		Category: "duplicates",
		Pred:     scan.Predicate{MinSize: minSize},
	})
	report := &Report{Warnings: listing.Warnings}
	if err != nil {
		return report, err
	}

	// Pass 1: bucket by exact byte size.
	bySize := make(map[int64][]scan.Item)
	for _, it := range listing.Items {
		bySize[it.Size] = append(bySize[it.Size], it)
	}

	toHash := 0
	for _, bucket := range bySize {
		if len(bucket) >= 2 {
			toHash += len(bucket)
		}
	}

	// Pass 2: hash within buckets of two or more.
	byHash := make(map[string][]scan.Item)
	done := 0
	for size, bucket := range bySize {
		if len(bucket) < 2 {
			continue
		}
		for _, it := range bucket {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}

			sum, hashErr := hashFile(it.Path)
			done++
			if d.Progress != nil {
				d.Progress(done, toHash, it.Path)
			}
			if hashErr != nil {
				report.Warnings = append(report.Warnings, "cannot hash "+it.Path)
				continue
			}
			report.FilesHashed++
			byHash[groupKey(size, sum)] = append(byHash[groupKey(size, sum)], it)
		}
	}

	// Pass 3: emit groups of two or more, keep member first.
	for key, items := range byHash {
		if len(items) < 2 {
			continue
		}
		sortForKeep(items)
		g := Group{
			Hash:  key[len(key)-64:], // strip the size prefix
			Size:  items[0].Size,
			Items: items,
		}
		report.Groups = append(report.Groups, g)
		report.WastedSize += g.WastedSize()
	}

	// Stable output order: biggest waste first, hash as tiebreak.
	sort.Slice(report.Groups, func(i, j int) bool {
		wi, wj := report.Groups[i].WastedSize(), report.Groups[j].WastedSize()
		if wi != wj {
			return wi > wj
		}
		return report.Groups[i].Hash < report.Groups[j].Hash
	})

	return report, nil
}

// sortForKeep orders a group so the keep designate lands at index 0.
func sortForKeep(items []scan.Item) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.Before(b.ModTime)
		}
		if len(a.Path) != len(b.Path) {
			return len(a.Path) < len(b.Path)
		}
		return a.Path < b.Path
	})
}

func groupKey(size int64, sum string) string {
	// Size is part of the key so a (vanishingly unlikely) cross-size hash
	// collision cannot merge buckets.
	return hex.EncodeToString([]byte{
		byte(size >> 56), byte(size >> 48), byte(size >> 40), byte(size >> 32),
		byte(size >> 24), byte(size >> 16), byte(size >> 8), byte(size),
	}) + sum
}

// hashFile computes the SHA-256 of the full file contents.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
