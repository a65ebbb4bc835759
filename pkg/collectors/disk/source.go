package disk

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"
)

// Mount is one entry of the mounted filesystem table.
type Mount struct {
	Device     string
	Mountpoint string
	Fstype     string
}

// Usage is a point-in-time usage record for one device. Sizes are strings
// in the compact notation produced by FormatSize.
type Usage struct {
	Drive       string  `json:"drive"`
	Mountpoint  string  `json:"mountpoint"`
	Total       string  `json:"total"`
	Used        string  `json:"used"`
	Available   string  `json:"available"`
	UsedPercent float64 `json:"used_percent"`
}

// Source queries the operating system for mounts and their usage.
type Source interface {
	// Drives lists the mounted filesystems.
	Drives(ctx context.Context) ([]Mount, error)

	// DriveDetail returns current usage for the device identified by dev.
	DriveDetail(ctx context.Context, dev string) (Usage, error)
}

// Source kinds accepted by NewSource.
const (
	SourceGopsutil = "gopsutil"
	SourceStatfs   = "statfs"
)

// NewSource returns the Source implementation named by kind. When all is
// set, pseudo and virtual filesystems are included in the drive list.
func NewSource(kind string, all bool) (Source, error) {
	switch kind {
	case "", SourceGopsutil:
		return &PartitionSource{All: all}, nil
	case SourceStatfs:
		return &StatfsSource{PartitionSource: PartitionSource{All: all}}, nil
	default:
		return nil, fmt.Errorf("unknown disk source %q", kind)
	}
}

// PartitionSource uses gopsutil for both the drive list and usage.
type PartitionSource struct {
	All bool
}

// Drives lists partitions reported by gopsutil.
func (s *PartitionSource) Drives(ctx context.Context) ([]Mount, error) {
	parts, err := disk.PartitionsWithContext(ctx, s.All)
	if err != nil {
		return nil, err
	}
	mounts := make([]Mount, 0, len(parts))
	for _, p := range parts {
		mounts = append(mounts, Mount{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			Fstype:     p.Fstype,
		})
	}
	return mounts, nil
}

// DriveDetail reads usage of the filesystem mounted at dev.
func (s *PartitionSource) DriveDetail(ctx context.Context, dev string) (Usage, error) {
	stat, err := disk.UsageWithContext(ctx, dev)
	if err != nil {
		return Usage{}, err
	}
	return Usage{
		Drive:       dev,
		Mountpoint:  stat.Path,
		Total:       FormatSize(stat.Total),
		Used:        FormatSize(stat.Used),
		Available:   FormatSize(stat.Free),
		UsedPercent: stat.UsedPercent,
	}, nil
}
