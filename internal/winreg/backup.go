package winreg

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf16"

	"golang.org/x/sys/windows/registry"

	"github.com/pcsweep/pcsweep/internal/oplog"
)

// BackupRecord describes one registry export. Immutable once written.
type BackupRecord struct {
	Timestamp time.Time
	Path      string
	Keys      []string
}

// WriteBackup exports every key affected by the findings into one
// timestamped .reg file under dir, before any deletion happens. The write
// is all-or-nothing for the session: any failure returns an error and the
// caller must not proceed with registry deletion.
//
// The file is a standard "Windows Registry Editor Version 5.00" export
// (UTF-16LE), restorable by double-clicking it.
func WriteBackup(dir string, findings []Finding, log *oplog.Logger) (*BackupRecord, error) {
	if len(findings) == 0 {
		return nil, fmt.Errorf("nothing to back up")
	}

	// Distinct affected keys, stable order.
	type keyRef struct {
		root     registry.Key
		rootName string
		path     string
	}
	seen := make(map[string]keyRef)
	for _, f := range findings {
		root, err := rootKey(f.RootName)
		if err != nil {
			return nil, err
		}
		full := f.RootName + `\` + f.KeyPath
		seen[full] = keyRef{root: root, rootName: f.RootName, path: f.KeyPath}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Windows Registry Editor Version 5.00\r\n")
	for _, full := range keys {
		ref := seen[full]
		section, err := exportKey(ref.root, ref.rootName, ref.path)
		if err != nil {
			return nil, fmt.Errorf("exporting %s: %w", full, err)
		}
		b.WriteString("\r\n")
		b.WriteString(section)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating backup dir: %w", err)
	}

	now := time.Now()
	path := filepath.Join(dir, "registry_backup_"+now.Format("20060102_150405")+".reg")
	if err := os.WriteFile(path, encodeUTF16LE(b.String()), 0o644); err != nil {
		return nil, fmt.Errorf("writing backup: %w", err)
	}

	log.Event("registry backup written: %s (%d keys)", path, len(keys))
	return &BackupRecord{Timestamp: now, Path: path, Keys: keys}, nil
}

// exportKey serializes one key and all of its subkeys in .reg syntax.
// Deletion of a whole-key finding is recursive, so the backup must carry
// the entire subtree for the file to restore it.
func exportKey(root registry.Key, rootName, path string) (string, error) {
	key, err := registry.OpenKey(root, path, registry.QUERY_VALUE|registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return "", err
	}
	defer key.Close()

	names, err := key.ReadValueNames(-1)
	if err != nil {
		return "", err
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "[%s\\%s]\r\n", rootName, path)

	for _, name := range names {
		n, valType, err := key.GetValue(name, nil)
		if err != nil {
			return "", err
		}
		buf := make([]byte, n)
		if _, _, err := key.GetValue(name, buf); err != nil {
			return "", err
		}
		b.WriteString(formatRegValue(name, valType, buf))
		b.WriteString("\r\n")
	}

	subkeys, err := key.ReadSubKeyNames(-1)
	if err != nil {
		return "", err
	}
	sort.Strings(subkeys)

	for _, name := range subkeys {
		section, err := exportKey(root, rootName, path+`\`+name)
		if err != nil {
			return "", err
		}
		b.WriteString("\r\n")
		b.WriteString(section)
	}

	return b.String(), nil
}

// formatRegValue renders one value line in .reg syntax. Strings and DWORDs
// get their native forms; everything else uses the generic hex(type) dump,
// which regedit accepts for any value type.
func formatRegValue(name string, valType uint32, data []byte) string {
	label := `"` + escapeRegString(name) + `"`
	if name == "" {
		label = "@"
	}

	switch valType {
	case registry.SZ:
		return label + `="` + escapeRegString(decodeUTF16LE(data)) + `"`
	case registry.DWORD:
		var v uint32
		if len(data) >= 4 {
			v = binary.LittleEndian.Uint32(data)
		}
		return fmt.Sprintf("%s=dword:%08x", label, v)
	default:
		return label + "=" + hexDump(valType, data)
	}
}

func hexDump(valType uint32, data []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "hex(%x):", valType)
	for i, by := range data {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%02x", by)
	}
	return b.String()
}

func escapeRegString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// decodeUTF16LE converts registry string data (UTF-16LE, NUL-terminated)
// to a Go string.
func decodeUTF16LE(data []byte) string {
	u := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		u = append(u, binary.LittleEndian.Uint16(data[i:]))
	}
	for len(u) > 0 && u[len(u)-1] == 0 {
		u = u[:len(u)-1]
	}
	return string(utf16.Decode(u))
}

// encodeUTF16LE produces the BOM-prefixed UTF-16LE bytes regedit expects.
func encodeUTF16LE(s string) []byte {
	u := utf16.Encode([]rune(s))
	out := make([]byte, 0, 2+len(u)*2)
	out = append(out, 0xFF, 0xFE)
	for _, r := range u {
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}

// rootKey resolves a hive name to its handle.
func rootKey(name string) (registry.Key, error) {
	switch strings.ToUpper(name) {
	case "HKEY_CURRENT_USER", "HKCU":
		return registry.CURRENT_USER, nil
	case "HKEY_LOCAL_MACHINE", "HKLM":
		return registry.LOCAL_MACHINE, nil
	case "HKEY_CLASSES_ROOT", "HKCR":
		return registry.CLASSES_ROOT, nil
	case "HKEY_USERS", "HKU":
		return registry.USERS, nil
	default:
		return 0, fmt.Errorf("unknown registry root %q", name)
	}
}
