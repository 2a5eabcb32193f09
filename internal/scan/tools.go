package scan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pcsweep/pcsweep/internal/config"
)

// Kind identifies one cleanup tool. The set is closed: the UI and the CLI
// dispatch on it exhaustively instead of looking scanners up by name.
type Kind int

const (
	KindTemp Kind = iota
	KindJunk
	KindAdobe
	KindSystem
	KindLargeFiles
	KindVideos
	KindDuplicates
	KindRegistry
)

// FileKinds are the tools backed by the shared directory scanner.
// Duplicates and Registry have their own engines.
var FileKinds = []Kind{
	KindTemp, KindJunk, KindAdobe, KindSystem, KindLargeFiles, KindVideos,
}

// AllKinds lists every tool in tab order.
var AllKinds = []Kind{
	KindTemp, KindJunk, KindAdobe, KindSystem, KindLargeFiles, KindVideos,
	KindDuplicates, KindRegistry,
}

func (k Kind) String() string {
	switch k {
	case KindTemp:
		return "temp"
	case KindJunk:
		return "junk"
	case KindAdobe:
		return "adobe"
	case KindSystem:
		return "system"
	case KindLargeFiles:
		return "large"
	case KindVideos:
		return "videos"
	case KindDuplicates:
		return "duplicates"
	case KindRegistry:
		return "registry"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Title is the display name used for tabs and reports.
func (k Kind) Title() string {
	switch k {
	case KindTemp:
		return "Temp Files"
	case KindJunk:
		return "Junk Files"
	case KindAdobe:
		return "Adobe Caches"
	case KindSystem:
		return "Old System Files"
	case KindLargeFiles:
		return "Large Files"
	case KindVideos:
		return "Old Videos"
	case KindDuplicates:
		return "Duplicates"
	case KindRegistry:
		return "Registry"
	default:
		return k.String()
	}
}

// KindFromName resolves a CLI tool name to its Kind.
func KindFromName(name string) (Kind, error) {
	for _, k := range AllKinds {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q (expected one of: temp, junk, adobe, system, large, videos, duplicates, registry)", name)
}

// Tool binds a file-scanner kind to its roots and predicate. Construction
// reads the config tables once; a Tool is stateless after that.
type Tool struct {
	Kind  Kind
	roots []string
	opts  Options
}

// ToolFor builds the scanner for a file-backed tool kind. Thresholds come
// from settings, never hard-coded here.
func ToolFor(kind Kind, st config.Settings) (Tool, error) {
	t := Tool{Kind: kind}
	shallowDepth := 3
	if st.DeepScan {
		shallowDepth = 0
	}

	switch kind {
	case KindTemp:
		t.roots = config.TempRoots()
		t.opts = Options{Category: kind.String()}

	case KindJunk:
		t.roots = config.JunkRoots(st.DeepScan)
		t.opts = Options{
			Category: kind.String(),
			Pred: Predicate{
				Extensions:   config.JunkExtensions,
				NamePatterns: config.JunkNamePatterns,
			},
			MaxDepth: shallowDepth,
			SkipDirs: config.SkipDirNames,
		}

	case KindAdobe:
		t.roots = config.AdobeRoots()
		t.opts = Options{
			Category: kind.String(),
			Pred: Predicate{
				NamePatterns: config.AdobeNamePatterns,
				PathContains: config.AdobePathMarkers,
			},
		}

	case KindSystem:
		t.roots = config.SystemRoots()
		t.opts = Options{Category: kind.String()}

	case KindLargeFiles:
		t.roots = config.LargeFileRoots(st.DeepScan)
		t.opts = Options{
			Category: kind.String(),
			Pred: Predicate{
				MinSize: int64(st.LargeFileMinMB) * 1024 * 1024,
			},
			MaxDepth: maxDepthOrDefault(st.DeepScan, 4),
			SkipDirs: append([]string{"appdata"}, config.SkipDirNames...),
		}

	case KindVideos:
		t.roots = config.VideoRoots(st.DeepScan)
		t.opts = Options{
			Category: kind.String(),
			Pred: Predicate{
				Extensions: config.VideoExtensions,
				MinAge:     time.Duration(st.VideoMinAgeDays) * 24 * time.Hour,
			},
			MaxDepth: shallowDepth,
			SkipDirs: config.SkipDirNames,
		}

	default:
		return Tool{}, fmt.Errorf("tool %s is not a file scanner", kind)
	}

	t.opts.Pred.Exclude = st.ExcludePatterns
	return t, nil
}

// Scan walks the tool's roots. The system tool additionally sweeps Downloads
// for leftover installer files.
func (t Tool) Scan(ctx context.Context) (*Result, error) {
	result, err := WalkRoots(ctx, t.roots, t.opts)
	if err != nil {
		return result, err
	}

	if t.Kind == KindSystem {
		installers, insErr := WalkRoots(ctx, []string{config.DownloadsDir()}, Options{
			Category: t.Kind.String(),
			Pred:     Predicate{Extensions: config.InstallerExtensions},
			MaxDepth: 1,
		})
		result.Items = append(result.Items, installers.Items...)
		result.TotalSize += installers.TotalSize
		result.Skipped += installers.Skipped
		result.Warnings = append(result.Warnings, installers.Warnings...)
		if insErr != nil {
			return result, insErr
		}
	}

	return result, nil
}

func maxDepthOrDefault(deep bool, depth int) int {
	if deep {
		return 0
	}
	return depth
}
