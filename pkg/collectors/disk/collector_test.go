package disk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpilch/diskmon/pkg/resource"
	"github.com/danpilch/diskmon/pkg/use"
)

func newTestCollector(t *testing.T, src Source) *Collector {
	t.Helper()
	logger, _ := newTestLogger()
	reg := resource.NewRegistry(logger, 0)
	require.NoError(t, Register(reg, src))
	return NewCollector(reg, logger)
}

func TestCollectorReportsUtilization(t *testing.T) {
	src := newFakeSource("/", "/data")
	src.setUsage("/", "15GB", "20GB")
	src.setUsage("/data", "1GB", "20GB")

	checks, err := newTestCollector(t, src).Collect(context.Background(), use.DefaultThresholds())
	require.NoError(t, err)
	require.Len(t, checks, 3)

	assert.Equal(t, "Disk (/)", checks[0].Resource)
	assert.Equal(t, "25.0%", checks[0].Value)
	assert.Equal(t, use.StatusOK, checks[0].Status)
	assert.Equal(t, "Free: 15GB / Total: 20GB", checks[0].Description)

	assert.Equal(t, "Disk (/data)", checks[1].Resource)
	assert.InDelta(t, 95.0, checks[1].RawValue, 1e-9)
	assert.Equal(t, use.StatusError, checks[1].Status)

	assert.Equal(t, "Disk (all)", checks[2].Resource)
	assert.InDelta(t, 95.0, checks[2].RawValue, 1e-9)
	assert.Equal(t, use.StatusError, checks[2].Status)
}

func TestCollectorStatusNearThreshold(t *testing.T) {
	// 10.49 GiB free of 100 GiB is 89.51% used, below the 90% crit line
	src := newFakeSource("/")
	src.setUsage("/", FormatSize(11263551733), FormatSize(100<<30))

	checks, err := newTestCollector(t, src).Collect(context.Background(), use.DefaultThresholds())
	require.NoError(t, err)
	require.Len(t, checks, 2)

	assert.InDelta(t, 89.51, checks[0].RawValue, 1e-6)
	assert.Equal(t, use.StatusWarning, checks[0].Status)
	assert.Equal(t, use.StatusWarning, checks[1].Status)
}

func TestCollectorSamplingFailureIsUnknown(t *testing.T) {
	src := newFakeSource("/")
	src.detailErr = errors.New("device busy")

	checks, err := newTestCollector(t, src).Collect(context.Background(), use.DefaultThresholds())
	require.NoError(t, err)
	require.Len(t, checks, 2)
	assert.Equal(t, use.StatusUnknown, checks[0].Status)
	assert.Equal(t, "n/a", checks[0].Value)
	assert.Equal(t, use.StatusUnknown, checks[1].Status)
}

func TestCollectorDiscoveryFailure(t *testing.T) {
	src := newFakeSource("/")
	want := errors.New("no mount table")
	src.drivesErr = want

	_, err := newTestCollector(t, src).Collect(context.Background(), use.DefaultThresholds())
	assert.ErrorIs(t, err, want)
}
