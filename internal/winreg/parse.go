package winreg

import (
	"regexp"
	"strings"
)

// filePathPattern pulls a drive-absolute file reference out of a registry
// value. Values are commonly a bare path, a quoted path, or a command line
// with arguments after the executable.
var filePathPattern = regexp.MustCompile(`(?i)"?([a-z]:\\[^"<>|?*]+?\.(?:exe|dll|ico|cpl|bat|cmd|msi))`)

// ExtractFilePath returns the filesystem path referenced by a registry
// value, if it contains one. Expanded environment syntax (%VAR%) is not
// resolved; such values are reported as no match rather than guessed at.
func ExtractFilePath(data string) (string, bool) {
	data = strings.TrimSpace(data)
	if data == "" || strings.Contains(data, "%") {
		return "", false
	}

	m := filePathPattern.FindStringSubmatch(data)
	if m == nil {
		return "", false
	}
	return m[1], true
}
