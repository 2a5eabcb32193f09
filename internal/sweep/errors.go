package sweep

import (
	"errors"
	"io/fs"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

// ReasonFor translates a deletion error into the short human-readable
// reason recorded in the report. Raw error codes never reach the user.
func ReasonFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, fs.ErrNotExist):
		return "not found"
	case errors.Is(err, fs.ErrPermission):
		return "access denied"
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case windows.ERROR_SHARING_VIOLATION, windows.ERROR_LOCK_VIOLATION:
			return "file in use by another process"
		case windows.ERROR_ACCESS_DENIED:
			return "access denied"
		case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND:
			return "not found"
		case windows.ERROR_DIR_NOT_EMPTY:
			return "directory not empty"
		}
	}

	// Unwrap PathError noise so the message stays readable.
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return strings.TrimSpace(pathErr.Err.Error())
	}
	return strings.TrimSpace(err.Error())
}
