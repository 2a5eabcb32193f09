// Package winreg audits a fixed set of registry locations for stale
// entries, backs affected keys up to a .reg file, and deletes confirmed
// findings. The audit itself is strictly read-only.
package winreg

import (
	"context"
	"os"

	"golang.org/x/sys/windows/registry"
)

// CheckKind selects the audit strategy for a location.
type CheckKind int

const (
	// CheckFileRefs flags string values referencing files that no longer
	// exist (startup commands, MRU lists, shell caches).
	CheckFileRefs CheckKind = iota

	// CheckUninstallEntries flags uninstall subkeys whose install
	// location and uninstaller are both gone.
	CheckUninstallEntries
)

// Location is one registry hive + path to audit.
type Location struct {
	Root     registry.Key
	RootName string
	Path     string
	Check    CheckKind
}

// AuditLocations is the versioned list of registry locations known to
// accumulate stale data. Keys missing on the running system are skipped
// silently since key sets vary across Windows versions.
var AuditLocations = []Location{
	{registry.CURRENT_USER, "HKEY_CURRENT_USER", `Software\Microsoft\Windows\CurrentVersion\Run`, CheckFileRefs},
	{registry.CURRENT_USER, "HKEY_CURRENT_USER", `Software\Microsoft\Windows\CurrentVersion\Explorer\RecentDocs`, CheckFileRefs},
	{registry.CURRENT_USER, "HKEY_CURRENT_USER", `Software\Classes\Local Settings\Software\Microsoft\Windows\Shell\MuiCache`, CheckFileRefs},
	{registry.CURRENT_USER, "HKEY_CURRENT_USER", `Software\Microsoft\Windows\CurrentVersion\Uninstall`, CheckUninstallEntries},
	{registry.LOCAL_MACHINE, "HKEY_LOCAL_MACHINE", `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`, CheckUninstallEntries},
	{registry.LOCAL_MACHINE, "HKEY_LOCAL_MACHINE", `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`, CheckUninstallEntries},
}

// Finding is one stale registry entry. ValueName is empty when the whole
// key (an orphaned uninstall entry) is the deletion candidate.
type Finding struct {
	RootName  string
	KeyPath   string
	ValueName string
	Data      string
	Reason    string
}

// DisplayPath renders the finding for lists and logs.
func (f Finding) DisplayPath() string {
	p := f.RootName + `\` + f.KeyPath
	if f.ValueName != "" {
		p += `\` + f.ValueName
	}
	return p
}

// AuditReport is the outcome of one registry audit.
type AuditReport struct {
	Findings []Finding
	Warnings []string
}

// Auditor scans the audit locations. The zero value audits the default
// location list against the real filesystem.
type Auditor struct {
	Locations []Location

	// exists is swapped in tests.
	exists func(string) bool
}

func (a *Auditor) locations() []Location {
	if a.Locations != nil {
		return a.Locations
	}
	return AuditLocations
}

func (a *Auditor) fileExists(path string) bool {
	if a.exists != nil {
		return a.exists(path)
	}
	_, err := os.Stat(path)
	return err == nil
}

// Audit enumerates every location and returns the stale entries found.
// Unreadable keys become warnings, never errors. Cancellation is honored
// between entries and returns the partial report.
func (a *Auditor) Audit(ctx context.Context) *AuditReport {
	report := &AuditReport{}

	for _, loc := range a.locations() {
		if ctx.Err() != nil {
			break
		}
		switch loc.Check {
		case CheckFileRefs:
			a.auditFileRefs(ctx, loc, report)
		case CheckUninstallEntries:
			a.auditUninstallEntries(ctx, loc, report)
		}
	}

	return report
}

// auditFileRefs scans a key's string values for dangling file references.
func (a *Auditor) auditFileRefs(ctx context.Context, loc Location, report *AuditReport) {
	key, err := registry.OpenKey(loc.Root, loc.Path, registry.QUERY_VALUE)
	if err != nil {
		// Key absent on this Windows version — skip silently.
		return
	}
	defer key.Close()

	names, err := key.ReadValueNames(-1)
	if err != nil {
		report.Warnings = append(report.Warnings, "cannot enumerate "+loc.RootName+`\`+loc.Path)
		return
	}

	for _, name := range names {
		if ctx.Err() != nil {
			return
		}
		data, _, err := key.GetStringValue(name)
		if err != nil {
			// Non-string value — not a file reference.
			continue
		}

		target, ok := ExtractFilePath(data)
		if !ok {
			continue
		}
		if a.fileExists(target) {
			continue
		}

		report.Findings = append(report.Findings, Finding{
			RootName:  loc.RootName,
			KeyPath:   loc.Path,
			ValueName: name,
			Data:      data,
			Reason:    "references missing file " + target,
		})
	}
}

// auditUninstallEntries flags uninstall subkeys whose referenced paths are
// all gone — leftovers of removed programs.
func (a *Auditor) auditUninstallEntries(ctx context.Context, loc Location, report *AuditReport) {
	key, err := registry.OpenKey(loc.Root, loc.Path, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return
	}
	defer key.Close()

	subkeys, err := key.ReadSubKeyNames(-1)
	if err != nil {
		report.Warnings = append(report.Warnings, "cannot enumerate "+loc.RootName+`\`+loc.Path)
		return
	}

	for _, name := range subkeys {
		if ctx.Err() != nil {
			return
		}
		subPath := loc.Path + `\` + name
		sub, err := registry.OpenKey(loc.Root, subPath, registry.QUERY_VALUE)
		if err != nil {
			continue
		}

		displayName, _, _ := sub.GetStringValue("DisplayName")
		installLoc, _, _ := sub.GetStringValue("InstallLocation")
		uninstall, _, _ := sub.GetStringValue("UninstallString")
		sub.Close()

		// Only flag entries that claim an install location which is
		// gone AND whose uninstaller is also gone. Entries without any
		// path information are left alone.
		if displayName == "" || installLoc == "" {
			continue
		}
		if a.fileExists(installLoc) {
			continue
		}
		if exe, ok := ExtractFilePath(uninstall); ok && a.fileExists(exe) {
			continue
		}

		report.Findings = append(report.Findings, Finding{
			RootName: loc.RootName,
			KeyPath:  subPath,
			Data:     displayName,
			Reason:   "orphaned uninstall entry (install location missing)",
		})
	}
}
