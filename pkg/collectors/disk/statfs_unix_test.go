//go:build linux || darwin

package disk

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatfsSourceDriveDetail(t *testing.T) {
	dir := t.TempDir()
	src := &StatfsSource{}

	u, err := src.DriveDetail(context.Background(), dir)
	require.NoError(t, err)
	checkUsage(t, dir, u)
	assert.Equal(t, dir, u.Mountpoint)
}

func TestStatfsSourceDriveDetailMissingPath(t *testing.T) {
	src := &StatfsSource{}
	_, err := src.DriveDetail(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestStatfsSourceHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&StatfsSource{}).DriveDetail(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatfsAndPartitionSourcesAgree(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	viaStatfs, err := (&StatfsSource{}).DriveDetail(ctx, dir)
	require.NoError(t, err)
	viaGopsutil, err := (&PartitionSource{}).DriveDetail(ctx, dir)
	require.NoError(t, err)

	assert.Equal(t, viaGopsutil.Total, viaStatfs.Total)
}
