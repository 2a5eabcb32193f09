package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ─── Environment Helpers ─────────────────────────────────────────────────────

// userProfile returns the user profile directory.
func userProfile() string {
	if p := os.Getenv("USERPROFILE"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return home
}

// localAppData returns the local app data directory.
func localAppData() string {
	return os.Getenv("LOCALAPPDATA")
}

// appData returns the roaming app data directory.
func appData() string {
	return os.Getenv("APPDATA")
}

// winDir returns the Windows directory (e.g., C:\Windows).
// Falls back to C:\Windows only if %WINDIR% is not set.
func winDir() string {
	if w := os.Getenv("WINDIR"); w != "" {
		return w
	}
	return `C:\Windows`
}

// systemDrive returns the system drive letter with backslash (e.g., C:\).
func systemDrive() string {
	if d := os.Getenv("SYSTEMDRIVE"); d != "" {
		return d + `\`
	}
	return `C:\`
}

// programFiles returns the Program Files directory.
func programFiles() string {
	if p := os.Getenv("PROGRAMFILES"); p != "" {
		return p
	}
	return `C:\Program Files`
}

// programFilesX86 returns the Program Files (x86) directory.
func programFilesX86() string {
	if p := os.Getenv("PROGRAMFILES(X86)"); p != "" {
		return p
	}
	return `C:\Program Files (x86)`
}

// programData returns the ProgramData directory.
func programData() string {
	if p := os.Getenv("PROGRAMDATA"); p != "" {
		return p
	}
	return `C:\ProgramData`
}

// tempDir returns %TEMP%, falling back to the OS default.
func tempDir() string {
	if t := os.Getenv("TEMP"); t != "" {
		return t
	}
	return os.TempDir()
}

// DownloadsDir returns the user's Downloads directory.
func DownloadsDir() string {
	return filepath.Join(userProfile(), "Downloads")
}

// ─── Scan Roots ──────────────────────────────────────────────────────────────

// TempRoots are the temporary-file locations scanned by the temp tool.
// Duplicates are removed since %TEMP% usually resolves to %LOCALAPPDATA%\Temp.
func TempRoots() []string {
	local := localAppData()
	return dedupePaths([]string{
		tempDir(),
		filepath.Join(local, "Temp"),
		filepath.Join(winDir(), "Temp"),
		filepath.Join(local, "Microsoft", "Windows", "INetCache"),
	})
}

// JunkRoots are the locations scanned for junk files. Deep mode adds every
// mounted non-system drive.
func JunkRoots(deep bool) []string {
	roots := []string{userProfile()}
	if deep {
		for _, drive := range NonSystemDrives() {
			roots = append(roots, drive+`\`)
		}
	}
	return roots
}

// AdobeRoots are the locations where Adobe applications drop temp files.
func AdobeRoots() []string {
	return dedupePaths([]string{
		filepath.Join(localAppData(), "Adobe"),
		filepath.Join(appData(), "Adobe"),
		filepath.Join(tempDir(), "Adobe"),
		filepath.Join(userProfile(), "Documents", "Adobe"),
	})
}

// SystemRoots are the system locations holding old update and log files.
// Everything under them needs admin rights to remove.
func SystemRoots() []string {
	w := winDir()
	return []string{
		filepath.Join(w, "SoftwareDistribution", "Download"),
		filepath.Join(w, "Prefetch"),
		filepath.Join(w, "Logs"),
		filepath.Join(w, "Temp"),
	}
}

// LargeFileRoots are the roots for the large-file scan.
func LargeFileRoots(deep bool) []string {
	roots := []string{userProfile()}
	if deep {
		for _, drive := range NonSystemDrives() {
			roots = append(roots, drive+`\`)
		}
	}
	return roots
}

// VideoRoots are the locations scanned for old video files.
func VideoRoots(deep bool) []string {
	home := userProfile()
	roots := []string{
		filepath.Join(home, "Videos"),
		filepath.Join(home, "Downloads"),
		filepath.Join(home, "Desktop"),
		filepath.Join(home, "Documents"),
	}
	if deep {
		for _, drive := range NonSystemDrives() {
			roots = append(roots, drive+`\`)
		}
	}
	return roots
}

// DuplicateRoots are the default roots for duplicate detection — user
// document areas only, never system directories.
func DuplicateRoots() []string {
	home := userProfile()
	return []string{
		filepath.Join(home, "Downloads"),
		filepath.Join(home, "Documents"),
		filepath.Join(home, "Desktop"),
	}
}

// ─── Filename Tables ─────────────────────────────────────────────────────────

// JunkExtensions are file extensions considered junk (lowercase, with dot).
var JunkExtensions = []string{
	".tmp", ".temp", ".log", ".bak", ".old",
	".dmp", ".chk", ".gid",
}

// JunkNamePatterns are base-name globs for junk files without a telltale
// extension.
var JunkNamePatterns = []string{
	"~$*",        // Office lock/temp files
	"Thumbs.db",  // Explorer thumbnail cache
	"*.cache",
}

// AdobeNamePatterns match Adobe temp artifacts by base name.
var AdobeNamePatterns = []string{
	"AdobeTemp*",
	"Adobe_temp*",
	"acrobat_tmp*",
	"AcroCEF*",
}

// AdobePathMarkers flag any file under a temp/cache directory inside an
// Adobe root.
var AdobePathMarkers = []string{"temp", "cache", "tmp"}

// VideoExtensions are the video container extensions for the old-video scan.
var VideoExtensions = []string{
	".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv",
	".webm", ".m4v", ".mpg", ".mpeg", ".3gp", ".f4v",
}

// InstallerExtensions match leftover installers in Downloads.
var InstallerExtensions = []string{".msi", ".msp", ".msu", ".exe"}

// SkipDirNames are directory base names (lowercase) never descended into
// during home/drive scans.
var SkipDirNames = []string{
	"windows", "program files", "program files (x86)", "programdata",
	"$recycle.bin", "system volume information", "recovery", "boot", "efi",
}

// ─── Safety ──────────────────────────────────────────────────────────────────

// NeverDeletePaths returns paths that must never be deleted under any
// circumstances. Uses environment variables so installations on any drive
// letter are covered.
func NeverDeletePaths() []string {
	w := winDir()
	sd := systemDrive()
	return []string{
		w,
		filepath.Join(w, "System32"),
		filepath.Join(w, "SysWOW64"),
		filepath.Join(w, "WinSxS"),
		filepath.Join(w, "System32", "config"),
		filepath.Join(sd, "Boot"),
		filepath.Join(sd, "bootmgr"),
		filepath.Join(sd, "EFI"),
		programFiles(),
		programFilesX86(),
		programData(),
		filepath.Join(sd, "Recovery"),
	}
}

// ─── Output Locations ────────────────────────────────────────────────────────

// BackupDir returns the fixed, predictable registry backup directory.
func BackupDir() string {
	return filepath.Join(userProfile(), "Documents", "PCSweep_Backups")
}

// LogPath returns the audit log location.
func LogPath() string {
	return filepath.Join(localAppData(), "pcsweep", "pcsweep.log")
}

// ─── Drive Discovery ─────────────────────────────────────────────────────────

// NonSystemDrives returns all mounted drive letters except the system drive
// (e.g., "D:", "E:") by probing A-Z. The system drive is excluded since the
// standard scan roots already cover it.
func NonSystemDrives() []string {
	sysDrive := strings.ToUpper(os.Getenv("SYSTEMDRIVE"))
	if sysDrive == "" {
		sysDrive = "C:"
	}

	var drives []string
	for c := 'A'; c <= 'Z'; c++ {
		drive := string(c) + ":"
		if strings.EqualFold(drive, sysDrive) {
			continue
		}
		info, err := os.Stat(drive + `\`)
		if err != nil || !info.IsDir() {
			continue
		}
		drives = append(drives, drive)
	}

	return drives
}

// dedupePaths removes case-insensitive duplicates, preserving order.
func dedupePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var unique []string
	for _, p := range paths {
		cleaned := filepath.Clean(p)
		key := strings.ToLower(cleaned)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, cleaned)
	}
	return unique
}
