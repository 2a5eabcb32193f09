package winreg

import (
	"context"

	"golang.org/x/sys/windows/registry"

	"github.com/pcsweep/pcsweep/internal/oplog"
	"github.com/pcsweep/pcsweep/internal/sweep"
)

// CleanFindings deletes confirmed findings one at a time. A failed item is
// recorded in the report and never aborts the batch. Callers are expected
// to have written a backup first (see WriteBackup); this function performs
// no backup itself.
func CleanFindings(ctx context.Context, findings []Finding, dryRun bool, log *oplog.Logger) *sweep.Report {
	report := &sweep.Report{}

	for _, f := range findings {
		if ctx.Err() != nil {
			break
		}

		if dryRun {
			report.RecordSuccess(0)
			continue
		}

		if err := deleteFinding(f); err != nil {
			reason := sweep.ReasonFor(err)
			report.RecordFailure(f.DisplayPath(), reason)
			log.Event("registry delete failed: %s (%s)", f.DisplayPath(), reason)
			continue
		}

		report.RecordSuccess(0)
		log.Event("registry deleted: %s", f.DisplayPath())
	}

	return report
}

// deleteFinding removes a single value, or the whole key for orphaned
// uninstall entries (ValueName empty).
func deleteFinding(f Finding) error {
	root, err := rootKey(f.RootName)
	if err != nil {
		return err
	}

	if f.ValueName != "" {
		key, err := registry.OpenKey(root, f.KeyPath, registry.SET_VALUE)
		if err != nil {
			return err
		}
		defer key.Close()
		return key.DeleteValue(f.ValueName)
	}

	return deleteKeyRecursive(root, f.KeyPath)
}

// deleteKeyRecursive removes a key and its subkeys bottom-up. DeleteKey
// only handles empty keys, so children go first.
func deleteKeyRecursive(root registry.Key, path string) error {
	key, err := registry.OpenKey(root, path, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return err
	}

	subkeys, err := key.ReadSubKeyNames(-1)
	key.Close()
	if err != nil {
		return err
	}

	for _, name := range subkeys {
		if err := deleteKeyRecursive(root, path+`\`+name); err != nil {
			return err
		}
	}

	return registry.DeleteKey(root, path)
}
