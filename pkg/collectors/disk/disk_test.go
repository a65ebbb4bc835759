package disk

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpilch/diskmon/pkg/resource"
)

func TestDiskWithoutSampleHasNoValue(t *testing.T) {
	d := NewDisk("/", newFakeSource("/"))

	_, ok := d.Free()
	assert.False(t, ok)
	_, ok = d.Total()
	assert.False(t, ok)
	_, ok = d.Ratio()
	assert.False(t, ok)
	_, ok = d.Sampled()
	assert.False(t, ok)
}

func TestDiskSampleDerivesBinarySizes(t *testing.T) {
	src := newFakeSource("/")
	src.setUsage("/", "10GB", "20GB")
	d := NewDisk("/", src)

	usage, err := d.Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10GB", usage.Available)
	assert.Equal(t, "20GB", usage.Total)

	free, ok := d.Free()
	require.True(t, ok)
	assert.Equal(t, uint64(10<<30), free)

	total, ok := d.Total()
	require.True(t, ok)
	assert.Equal(t, uint64(20<<30), total)

	ratio, ok := d.Ratio()
	require.True(t, ok)
	assert.Equal(t, 0.5, ratio)
}

func TestDiskSampleReplacesPrevious(t *testing.T) {
	src := newFakeSource("/")
	src.setUsage("/", "10GB", "20GB")
	d := NewDisk("/", src)

	_, err := d.Sample(context.Background())
	require.NoError(t, err)

	src.setUsage("/", "5GB", "20GB")
	_, err = d.Sample(context.Background())
	require.NoError(t, err)

	ratio, ok := d.Ratio()
	require.True(t, ok)
	assert.Equal(t, 0.25, ratio)
}

func TestDiskSampleErrorKeepsPreviousSample(t *testing.T) {
	src := newFakeSource("/")
	src.setUsage("/", "10GB", "20GB")
	d := NewDisk("/", src)

	_, err := d.Sample(context.Background())
	require.NoError(t, err)

	want := errors.New("statfs: permission denied")
	src.detailErr = want
	_, err = d.Sample(context.Background())
	assert.Same(t, want, err)

	ratio, ok := d.Ratio()
	require.True(t, ok)
	assert.Equal(t, 0.5, ratio)
}

func TestDiskRatioWithoutTotal(t *testing.T) {
	src := newFakeSource("/proc")
	src.setUsage("/proc", "0B", "0B")
	d := NewDisk("/proc", src)

	_, err := d.Sample(context.Background())
	require.NoError(t, err)

	total, ok := d.Total()
	require.True(t, ok)
	assert.Zero(t, total)
	_, ok = d.Ratio()
	assert.False(t, ok)
}

func TestDiskUnparsableSample(t *testing.T) {
	src := newFakeSource("/")
	src.setUsage("/", "-", "20GB")
	d := NewDisk("/", src)

	_, err := d.Sample(context.Background())
	require.NoError(t, err)

	_, ok := d.Free()
	assert.False(t, ok)
	_, ok = d.Ratio()
	assert.False(t, ok)
}

func TestRegisterKeepsInstancesInLockstep(t *testing.T) {
	logger, hook := newTestLogger()
	src := newFakeSource("/", "/home")
	src.setUsage("/", "10GB", "20GB")
	src.setUsage("/home", "2GB", "10GB")

	reg := resource.NewRegistry(logger, 0)
	require.NoError(t, Register(reg, src))

	ctx := context.Background()
	require.NoError(t, reg.Discover(ctx))
	require.NoError(t, reg.Sample(ctx))

	assert.Equal(t, []string{"/", "/home"}, ids(reg.Instances(TypeName)))
	lowest, err := reg.Value(AggregateName)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, lowest, 1e-9)

	src.setMounts("/", "/mnt/usb")
	src.setUsage("/mnt/usb", "8GB", "10GB")
	require.NoError(t, reg.Discover(ctx))

	assert.Equal(t, []string{"/", "/mnt/usb"}, ids(reg.Instances(TypeName)))
	assert.Contains(t, events(hook), "warning disk device disappeared [/home]")
	assert.Contains(t, events(hook), "info disk discovered [/mnt/usb]")

	// the new disk is not sampled yet and does not drag the minimum
	lowest, err = reg.Value(AggregateName)
	require.NoError(t, err)
	assert.Equal(t, 0.5, lowest)
}

func TestRegisterAggregateOverNoDisks(t *testing.T) {
	logger, _ := newTestLogger()
	reg := resource.NewRegistry(logger, 0)
	require.NoError(t, Register(reg, newFakeSource()))
	require.NoError(t, reg.Discover(context.Background()))

	lowest, err := reg.Value(AggregateName)
	require.NoError(t, err)
	assert.True(t, math.IsInf(lowest, 1))
}

func ids(instances []resource.Instance) []string {
	out := make([]string, 0, len(instances))
	for _, inst := range instances {
		out = append(out, inst.ID())
	}
	return out
}
