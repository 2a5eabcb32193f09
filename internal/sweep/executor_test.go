package sweep

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcsweep/pcsweep/internal/oplog"
	"github.com/pcsweep/pcsweep/internal/scan"
)

func makeItem(t *testing.T, dir, name string, size int) scan.Item {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return scan.Item{Path: path, Size: int64(size)}
}

func TestDeleteFilesMixedBatch(t *testing.T) {
	dir := t.TempDir()
	ok := makeItem(t, dir, "gone.tmp", 100)
	missing := scan.Item{Path: filepath.Join(dir, "never-existed.tmp"), Size: 50}

	ex := &Executor{Log: oplog.Nop()}
	report := ex.DeleteFiles(context.Background(), []scan.Item{ok, missing})

	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, report.Attempted, report.Succeeded+report.Failed)
	assert.Equal(t, int64(100), report.FreedSize)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, missing.Path, report.Failures[0].Path)
	assert.Equal(t, "not found", report.Failures[0].Reason)

	_, err := os.Stat(ok.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteFilesDryRun(t *testing.T) {
	dir := t.TempDir()
	it := makeItem(t, dir, "keep.tmp", 10)

	ex := &Executor{DryRun: true, Log: oplog.Nop()}
	report := ex.DeleteFiles(context.Background(), []scan.Item{it})

	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, int64(10), report.FreedSize)

	_, err := os.Stat(it.Path)
	assert.NoError(t, err, "dry run must not delete")
}

func TestDeleteFilesGuard(t *testing.T) {
	dir := t.TempDir()
	it := makeItem(t, dir, "protected.tmp", 10)

	ex := &Executor{Guard: []string{dir}, Log: oplog.Nop()}
	report := ex.DeleteFiles(context.Background(), []scan.Item{it})

	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "protected path", report.Failures[0].Reason)

	_, err := os.Stat(it.Path)
	assert.NoError(t, err, "guarded file must survive")
}

func TestDeleteFilesGuardIsPrefixNotSubstring(t *testing.T) {
	dir := t.TempDir()
	it := makeItem(t, dir, "free.tmp", 10)

	// Guarding a sibling whose name is a string prefix of dir must not
	// protect dir's contents.
	ex := &Executor{Guard: []string{dir + "-other"}, Log: oplog.Nop()}
	report := ex.DeleteFiles(context.Background(), []scan.Item{it})

	assert.Equal(t, 1, report.Succeeded)
}

func TestDeleteFilesCancellation(t *testing.T) {
	dir := t.TempDir()
	items := []scan.Item{
		makeItem(t, dir, "a.tmp", 1),
		makeItem(t, dir, "b.tmp", 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := &Executor{Log: oplog.Nop()}
	report := ex.DeleteFiles(ctx, items)

	assert.Zero(t, report.Attempted, "items not reached are not counted")
	for _, it := range items {
		_, err := os.Stat(it.Path)
		assert.NoError(t, err)
	}
}

func TestDeleteFilesEmptyBatch(t *testing.T) {
	ex := &Executor{Log: oplog.Nop()}
	report := ex.DeleteFiles(context.Background(), nil)

	assert.Zero(t, report.Attempted)
	assert.Zero(t, report.FreedSize)
	assert.Empty(t, report.Failures)
}
