// Package status collects a one-shot disk and memory snapshot, shown before
// and after cleaning so users can see what a sweep is worth.
package status

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/yusufpapurcu/wmi"
)

// DriveInfo is one fixed logical disk.
type DriveInfo struct {
	Device     string
	VolumeName string
	FileSystem string
	Total      uint64
	Free       uint64
}

// UsedPercent returns the used fraction of the drive as a percentage.
func (d DriveInfo) UsedPercent() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Total-d.Free) / float64(d.Total) * 100
}

// Report is a point-in-time system snapshot.
type Report struct {
	Drives         []DriveInfo
	MemTotal       uint64
	MemAvailable   uint64
	MemUsedPercent float64
}

// win32LogicalDisk mirrors the WMI Win32_LogicalDisk class fields we query.
type win32LogicalDisk struct {
	DeviceID   string
	VolumeName string
	FileSystem string
	Size       uint64
	FreeSpace  uint64
}

// Collect gathers drive and memory information. Drive enumeration prefers
// WMI; if the WMI service is unavailable it falls back to probing the
// system drive with gopsutil so the report is never empty.
func Collect() (*Report, error) {
	report := &Report{}

	var disks []win32LogicalDisk
	// DriveType 3 = local fixed disk; skips optical and network drives.
	err := wmi.Query("SELECT DeviceID, VolumeName, FileSystem, Size, FreeSpace FROM Win32_LogicalDisk WHERE DriveType = 3", &disks)
	if err == nil {
		for _, d := range disks {
			report.Drives = append(report.Drives, DriveInfo{
				Device:     d.DeviceID,
				VolumeName: d.VolumeName,
				FileSystem: d.FileSystem,
				Total:      d.Size,
				Free:       d.FreeSpace,
			})
		}
	} else {
		usage, usageErr := disk.Usage(`C:\`)
		if usageErr != nil {
			return nil, fmt.Errorf("collecting disk info: %w", usageErr)
		}
		report.Drives = append(report.Drives, DriveInfo{
			Device: "C:",
			Total:  usage.Total,
			Free:   usage.Free,
		})
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("collecting memory info: %w", err)
	}
	report.MemTotal = vm.Total
	report.MemAvailable = vm.Available
	report.MemUsedPercent = vm.UsedPercent

	return report, nil
}
