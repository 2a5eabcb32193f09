package core

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	kb = 1024
	mb = 1024 * kb
	gb = 1024 * mb
	tb = 1024 * gb
)

// FormatSize renders a byte count as a human-readable string.
func FormatSize(bytes int64) string {
	switch {
	case bytes >= tb:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(tb))
	case bytes >= gb:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// ParseSize parses a human-entered size like "100MB" or "1.5 GB" into bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	i := len(s)
	for i > 0 {
		c := s[i-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		i--
	}
	num := strings.TrimSpace(s[:i])
	unit := strings.ToUpper(strings.TrimSpace(s[i:]))

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	var mult int64
	switch unit {
	case "", "B":
		mult = 1
	case "K", "KB":
		mult = kb
	case "M", "MB":
		mult = mb
	case "G", "GB":
		mult = gb
	case "T", "TB":
		mult = tb
	default:
		return 0, fmt.Errorf("unknown size unit %q", unit)
	}

	return int64(value * float64(mult)), nil
}
