//go:build !linux && !darwin

package disk

import (
	"context"
	"errors"
)

// StatfsSource is only available on Linux and macOS.
type StatfsSource struct {
	PartitionSource
}

// DriveDetail always fails on this platform.
func (s *StatfsSource) DriveDetail(ctx context.Context, dev string) (Usage, error) {
	return Usage{}, errors.New("statfs source is not supported on this platform")
}
