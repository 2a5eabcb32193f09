package winreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFilePath(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
		ok   bool
	}{
		{
			name: "bare path",
			data: `C:\Program Files\App\app.exe`,
			want: `C:\Program Files\App\app.exe`,
			ok:   true,
		},
		{
			name: "quoted path with arguments",
			data: `"C:\Tools\sync.exe" --minimized /tray`,
			want: `C:\Tools\sync.exe`,
			ok:   true,
		},
		{
			name: "unquoted command line",
			data: `C:\Tools\agent.exe -service`,
			want: `C:\Tools\agent.exe`,
			ok:   true,
		},
		{
			name: "dll reference",
			data: `C:\Windows\System32\shell32.dll,-21787`,
			want: `C:\Windows\System32\shell32.dll`,
			ok:   true,
		},
		{
			name: "lowercase drive",
			data: `c:\apps\run.bat`,
			want: `c:\apps\run.bat`,
			ok:   true,
		},
		{
			name: "environment variable not resolved",
			data: `%ProgramFiles%\App\app.exe`,
			ok:   false,
		},
		{
			name: "empty value",
			data: "",
			ok:   false,
		},
		{
			name: "whitespace only",
			data: "   ",
			ok:   false,
		},
		{
			name: "no file reference",
			data: "EnableFeatureX",
			ok:   false,
		},
		{
			name: "unsupported extension",
			data: `C:\data\notes.txt`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractFilePath(tt.data)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFindingDisplayPath(t *testing.T) {
	value := Finding{
		RootName:  "HKEY_CURRENT_USER",
		KeyPath:   `Software\Microsoft\Windows\CurrentVersion\Run`,
		ValueName: "DeadApp",
	}
	assert.Equal(t,
		`HKEY_CURRENT_USER\Software\Microsoft\Windows\CurrentVersion\Run\DeadApp`,
		value.DisplayPath())

	key := Finding{
		RootName: "HKEY_LOCAL_MACHINE",
		KeyPath:  `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall\{guid}`,
	}
	assert.Equal(t,
		`HKEY_LOCAL_MACHINE\SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall\{guid}`,
		key.DisplayPath())
}
