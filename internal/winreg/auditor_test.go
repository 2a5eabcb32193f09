package winreg

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/sys/windows/registry"

	"github.com/pcsweep/pcsweep/internal/oplog"
)

// scratchKey creates a throwaway HKCU key for the test and removes it on
// cleanup. HKCU is writable without elevation.
func scratchKey(t *testing.T) string {
	t.Helper()
	path := fmt.Sprintf(`Software\pcsweep-test-%d-%d`, os.Getpid(), time.Now().UnixNano())

	key, _, err := registry.CreateKey(registry.CURRENT_USER, path, registry.ALL_ACCESS)
	require.NoError(t, err)
	key.Close()

	t.Cleanup(func() {
		_ = deleteKeyRecursive(registry.CURRENT_USER, path)
	})
	return path
}

func TestAuditFileRefs(t *testing.T) {
	base := scratchKey(t)
	runPath := base + `\Run`

	key, _, err := registry.CreateKey(registry.CURRENT_USER, runPath, registry.ALL_ACCESS)
	require.NoError(t, err)
	require.NoError(t, key.SetStringValue("Dead", `C:\gone\dead.exe --tray`))
	require.NoError(t, key.SetStringValue("Alive", `C:\present\alive.exe`))
	require.NoError(t, key.SetStringValue("NoPath", "just a flag"))
	key.Close()

	a := Auditor{
		Locations: []Location{
			{registry.CURRENT_USER, "HKEY_CURRENT_USER", runPath, CheckFileRefs},
		},
		exists: func(p string) bool { return p == `C:\present\alive.exe` },
	}
	report := a.Audit(t.Context())

	require.Len(t, report.Findings, 1)
	f := report.Findings[0]
	assert.Equal(t, "Dead", f.ValueName)
	assert.Equal(t, runPath, f.KeyPath)
	assert.Contains(t, f.Reason, `C:\gone\dead.exe`)
}

func TestAuditUninstallEntries(t *testing.T) {
	base := scratchKey(t)
	uninstPath := base + `\Uninstall`

	makeEntry := func(name, display, loc, uninst string) {
		key, _, err := registry.CreateKey(registry.CURRENT_USER, uninstPath+`\`+name, registry.ALL_ACCESS)
		require.NoError(t, err)
		if display != "" {
			require.NoError(t, key.SetStringValue("DisplayName", display))
		}
		if loc != "" {
			require.NoError(t, key.SetStringValue("InstallLocation", loc))
		}
		if uninst != "" {
			require.NoError(t, key.SetStringValue("UninstallString", uninst))
		}
		key.Close()
	}

	makeEntry("Orphan", "Gone App", `C:\gone\app`, `C:\gone\app\unins.exe`)
	makeEntry("Installed", "Live App", `C:\present\app`, `C:\present\app\unins.exe`)
	makeEntry("NoPaths", "Registry Only", "", "")

	a := Auditor{
		Locations: []Location{
			{registry.CURRENT_USER, "HKEY_CURRENT_USER", uninstPath, CheckUninstallEntries},
		},
		exists: func(p string) bool { return p == `C:\present\app` || p == `C:\present\app\unins.exe` },
	}
	report := a.Audit(t.Context())

	require.Len(t, report.Findings, 1)
	f := report.Findings[0]
	assert.Equal(t, uninstPath+`\Orphan`, f.KeyPath)
	assert.Empty(t, f.ValueName, "whole key is the candidate")
	assert.Equal(t, "Gone App", f.Data)
}

func TestAuditMissingKeySkippedSilently(t *testing.T) {
	a := Auditor{
		Locations: []Location{
			{registry.CURRENT_USER, "HKEY_CURRENT_USER", `Software\pcsweep-definitely-missing`, CheckFileRefs},
		},
	}
	report := a.Audit(t.Context())

	assert.Empty(t, report.Findings)
	assert.Empty(t, report.Warnings)
}

func TestAuditCancellation(t *testing.T) {
	base := scratchKey(t)
	runPath := base + `\Run`

	key, _, err := registry.CreateKey(registry.CURRENT_USER, runPath, registry.ALL_ACCESS)
	require.NoError(t, err)
	require.NoError(t, key.SetStringValue("Dead", `C:\gone\dead.exe`))
	key.Close()

	a := Auditor{
		Locations: []Location{
			{registry.CURRENT_USER, "HKEY_CURRENT_USER", runPath, CheckFileRefs},
		},
		exists: func(string) bool { return false },
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	report := a.Audit(ctx)

	assert.Empty(t, report.Findings, "cancelled audit stops before visiting locations")
}

func TestCleanFindingsDeletesValueAndKey(t *testing.T) {
	base := scratchKey(t)
	runPath := base + `\Run`

	key, _, err := registry.CreateKey(registry.CURRENT_USER, runPath, registry.ALL_ACCESS)
	require.NoError(t, err)
	require.NoError(t, key.SetStringValue("Dead", `C:\gone\dead.exe`))
	key.Close()

	orphanPath := base + `\Orphan`
	orphan, _, err := registry.CreateKey(registry.CURRENT_USER, orphanPath, registry.ALL_ACCESS)
	require.NoError(t, err)
	orphan.Close()

	findings := []Finding{
		{RootName: "HKEY_CURRENT_USER", KeyPath: runPath, ValueName: "Dead"},
		{RootName: "HKEY_CURRENT_USER", KeyPath: orphanPath},
		{RootName: "HKEY_CURRENT_USER", KeyPath: base + `\no-such-key`},
	}
	report := CleanFindings(t.Context(), findings, false, oplog.Nop())

	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)

	checkKey, err := registry.OpenKey(registry.CURRENT_USER, runPath, registry.QUERY_VALUE)
	require.NoError(t, err)
	defer checkKey.Close()
	_, _, err = checkKey.GetStringValue("Dead")
	assert.Error(t, err, "value should be gone")

	_, err = registry.OpenKey(registry.CURRENT_USER, orphanPath, registry.QUERY_VALUE)
	assert.Error(t, err, "key should be gone")
}

func TestCleanFindingsDryRun(t *testing.T) {
	base := scratchKey(t)
	key, _, err := registry.CreateKey(registry.CURRENT_USER, base+`\Keep`, registry.ALL_ACCESS)
	require.NoError(t, err)
	key.Close()

	findings := []Finding{{RootName: "HKEY_CURRENT_USER", KeyPath: base + `\Keep`}}
	report := CleanFindings(t.Context(), findings, true, oplog.Nop())

	assert.Equal(t, 1, report.Succeeded)
	_, err = registry.OpenKey(registry.CURRENT_USER, base+`\Keep`, registry.QUERY_VALUE)
	assert.NoError(t, err, "dry run must not delete")
}

func TestWriteBackupFailsClosed(t *testing.T) {
	// A finding naming a nonexistent key must fail the whole backup.
	findings := []Finding{
		{RootName: "HKEY_CURRENT_USER", KeyPath: `Software\pcsweep-definitely-missing`},
	}
	_, err := WriteBackup(t.TempDir(), findings, oplog.Nop())
	assert.Error(t, err)
}

func TestWriteBackupExportsAffectedKeys(t *testing.T) {
	base := scratchKey(t)
	runPath := base + `\Run`

	key, _, err := registry.CreateKey(registry.CURRENT_USER, runPath, registry.ALL_ACCESS)
	require.NoError(t, err)
	require.NoError(t, key.SetStringValue("Dead", `C:\gone\dead.exe`))
	require.NoError(t, key.SetDWordValue("Count", 7))
	key.Close()

	dir := t.TempDir()
	findings := []Finding{
		{RootName: "HKEY_CURRENT_USER", KeyPath: runPath, ValueName: "Dead"},
	}
	record, err := WriteBackup(dir, findings, oplog.Nop())
	require.NoError(t, err)

	assert.Equal(t, []string{`HKEY_CURRENT_USER\` + runPath}, record.Keys)

	data, err := os.ReadFile(record.Path)
	require.NoError(t, err)
	require.True(t, len(data) > 2 && data[0] == 0xFF && data[1] == 0xFE, "UTF-16LE BOM")

	text := decodeUTF16LE(data[2:])
	assert.Contains(t, text, "Windows Registry Editor Version 5.00")
	assert.Contains(t, text, `[HKEY_CURRENT_USER\`+runPath+`]`)
	assert.Contains(t, text, `"Dead"="C:\\gone\\dead.exe"`)
	assert.Contains(t, text, `"Count"=dword:00000007`)
}

func TestWriteBackupIncludesSubkeys(t *testing.T) {
	base := scratchKey(t)
	orphanPath := base + `\Orphan`

	orphan, _, err := registry.CreateKey(registry.CURRENT_USER, orphanPath, registry.ALL_ACCESS)
	require.NoError(t, err)
	require.NoError(t, orphan.SetStringValue("DisplayName", "Gone App"))
	orphan.Close()

	child, _, err := registry.CreateKey(registry.CURRENT_USER, orphanPath+`\InstallProperties`, registry.ALL_ACCESS)
	require.NoError(t, err)
	require.NoError(t, child.SetStringValue("LocalPackage", `C:\gone\pkg.msi`))
	child.Close()

	// A whole-key finding deletes the subtree, so the export must carry it.
	findings := []Finding{
		{RootName: "HKEY_CURRENT_USER", KeyPath: orphanPath},
	}
	record, err := WriteBackup(t.TempDir(), findings, oplog.Nop())
	require.NoError(t, err)

	data, err := os.ReadFile(record.Path)
	require.NoError(t, err)
	text := decodeUTF16LE(data[2:])

	assert.Contains(t, text, `[HKEY_CURRENT_USER\`+orphanPath+`]`)
	assert.Contains(t, text, `[HKEY_CURRENT_USER\`+orphanPath+`\InstallProperties]`)
	assert.Contains(t, text, `"LocalPackage"="C:\\gone\\pkg.msi"`)
}

func TestWriteBackupEmptyFindings(t *testing.T) {
	_, err := WriteBackup(t.TempDir(), nil, oplog.Nop())
	assert.Error(t, err)
}
