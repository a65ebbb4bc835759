//go:build linux || darwin

package disk

import (
	"context"

	"golang.org/x/sys/unix"
)

// StatfsSource lists drives through gopsutil but reads usage with a direct
// statfs(2) call.
type StatfsSource struct {
	PartitionSource
}

// DriveDetail reads usage of the filesystem mounted at dev using statfs.
func (s *StatfsSource) DriveDetail(ctx context.Context, dev string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(dev, &stat); err != nil {
		return Usage{}, err
	}

	blockSize := uint64(stat.Bsize)
	total := stat.Blocks * blockSize
	available := stat.Bavail * blockSize
	used := total - stat.Bfree*blockSize

	var usedPercent float64
	if used+available > 0 {
		usedPercent = float64(used) / float64(used+available) * 100
	}

	return Usage{
		Drive:       dev,
		Mountpoint:  dev,
		Total:       FormatSize(total),
		Used:        FormatSize(used),
		Available:   FormatSize(available),
		UsedPercent: usedPercent,
	}, nil
}
