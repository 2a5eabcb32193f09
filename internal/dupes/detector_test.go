package dupes

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content []byte, age time.Duration) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	if age > 0 {
		mtime := time.Now().Add(-age)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
}

func TestDetectFindsIdenticalPair(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("x"), 1024)
	other := bytes.Repeat([]byte("y"), 1024)

	writeFile(t, filepath.Join(dir, "a.bin"), content, 2*time.Hour)
	writeFile(t, filepath.Join(dir, "b.bin"), content, time.Hour)
	writeFile(t, filepath.Join(dir, "c.bin"), other, time.Hour)

	d := &Detector{Roots: []string{dir}}
	report, err := d.Detect(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Groups, 1)
	g := report.Groups[0]
	assert.Len(t, g.Items, 2)
	assert.Equal(t, int64(1024), g.Size)
	assert.Equal(t, int64(1024), g.WastedSize())
	assert.Equal(t, int64(1024), report.WastedSize)

	// Same size bucket holds all three, so all three get hashed.
	assert.Equal(t, 3, report.FilesHashed)
}

func TestDetectKeepIsOldest(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("z"), 2048)

	writeFile(t, filepath.Join(dir, "newer.bin"), content, time.Hour)
	writeFile(t, filepath.Join(dir, "oldest.bin"), content, 48*time.Hour)
	writeFile(t, filepath.Join(dir, "mid.bin"), content, 24*time.Hour)

	d := &Detector{Roots: []string{dir}}
	report, err := d.Detect(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Groups, 1)
	g := report.Groups[0]
	assert.Equal(t, filepath.Join(dir, "oldest.bin"), g.Keep().Path)
	assert.Len(t, g.Redundant(), 2)
	for _, it := range g.Redundant() {
		assert.NotEqual(t, g.Keep().Path, it.Path)
	}
}

func TestDetectUniqueSizesNotHashed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.bin"), bytes.Repeat([]byte("a"), 100), 0)
	writeFile(t, filepath.Join(dir, "two.bin"), bytes.Repeat([]byte("b"), 200), 0)

	var hashed int
	d := &Detector{
		Roots:    []string{dir},
		Progress: func(done, total int, path string) { hashed++ },
	}
	report, err := d.Detect(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.Groups)
	assert.Zero(t, report.FilesHashed)
	assert.Zero(t, hashed)
}

func TestDetectMinSizeExcludesSmallFiles(t *testing.T) {
	dir := t.TempDir()
	small := []byte("same")
	writeFile(t, filepath.Join(dir, "a.txt"), small, 0)
	writeFile(t, filepath.Join(dir, "b.txt"), small, 0)

	d := &Detector{Roots: []string{dir}, MinSize: 1024}
	report, err := d.Detect(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.Groups)
}

func TestDetectEmptyFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.empty"), nil, 0)
	writeFile(t, filepath.Join(dir, "b.empty"), nil, 0)

	d := &Detector{Roots: []string{dir}}
	report, err := d.Detect(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.Groups)
}

func TestDetectDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	big := bytes.Repeat([]byte("B"), 4096)
	small := bytes.Repeat([]byte("s"), 1024)

	writeFile(t, filepath.Join(dir, "big1.bin"), big, 2*time.Hour)
	writeFile(t, filepath.Join(dir, "big2.bin"), big, time.Hour)
	writeFile(t, filepath.Join(dir, "small1.bin"), small, 2*time.Hour)
	writeFile(t, filepath.Join(dir, "small2.bin"), small, time.Hour)

	d := &Detector{Roots: []string{dir}}

	first, err := d.Detect(context.Background())
	require.NoError(t, err)
	second, err := d.Detect(context.Background())
	require.NoError(t, err)

	require.Len(t, first.Groups, 2)
	assert.Equal(t, int64(4096), first.Groups[0].Size, "biggest waste first")
	require.Len(t, second.Groups, 2)
	for i := range first.Groups {
		assert.Equal(t, first.Groups[i].Hash, second.Groups[i].Hash)
		assert.Equal(t, first.Groups[i].Keep().Path, second.Groups[i].Keep().Path)
	}
}
