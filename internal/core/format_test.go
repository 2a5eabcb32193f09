package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 512, "512 B"},
		{"one KB", 1024, "1.0 KB"},
		{"fractional KB", 1536, "1.5 KB"},
		{"one MB", 1024 * 1024, "1.0 MB"},
		{"fractional MB", 2621440, "2.5 MB"},
		{"one GB", 1024 * 1024 * 1024, "1.00 GB"},
		{"one TB", 1024 * 1024 * 1024 * 1024, "1.00 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSize(tt.bytes))
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"bare bytes", "1024", 1024},
		{"kb", "1KB", 1024},
		{"lowercase", "100kb", 100 * 1024},
		{"short unit", "2M", 2 * 1024 * 1024},
		{"gb", "1GB", 1024 * 1024 * 1024},
		{"fractional", "1.5 GB", 1610612736},
		{"spaces", " 500MB ", 500 * 1024 * 1024},
		{"zero", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSizeInvalid(t *testing.T) {
	for _, input := range []string{"", "MB", "ten MB", "1XB", "-"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSize(input)
			assert.Error(t, err)
		})
	}
}
