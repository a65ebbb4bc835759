package disk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"10GB", 10 << 30},
		{"20GB", 20 << 30},
		{"10MB", 10 << 20},
		{"12.5KB", 12800},
		{"1.5TB", 3 << 39},
		{"512000B", 512000},
		{"0B", 0},
		{"3 GB", 3 << 30},
		{"1GiB", 1 << 30},
		{"4KiB", 4096},
		{"1024", 1024},
		{" 2MB ", 2 << 20},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSizeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "B", "GB", "lots", "10XB"} {
		_, err := ParseSize(in)
		assert.Error(t, err, in)
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "5B", FormatSize(5))
	assert.Equal(t, "512B", FormatSize(512))
	assert.Equal(t, "1.5MB", FormatSize(3<<19))
	assert.Equal(t, "20GB", FormatSize(20<<30))
}

func TestFormatSizeParsesBack(t *testing.T) {
	for _, n := range []uint64{
		0, 9, 512, 1023, 1025, 3 << 19, 20 << 30,
		11263551733,    // 10.49 GiB
		11263551734,    // one byte past a two-decimal GiB value
		107374182399,   // 100 GiB minus one byte
		499963174912,   // typical 500 GB drive
		1000204886016,  // typical 1 TB drive
		(5 << 40) + 17, // odd byte count on a large volume
	} {
		s := FormatSize(n)
		got, err := ParseSize(s)
		require.NoError(t, err, s)
		assert.Equal(t, n, got, s)
	}
}

func TestFormatSizeKeepsFractionalUnits(t *testing.T) {
	assert.Equal(t, "10.49GB", FormatSize(11263551733))
	assert.Equal(t, "11263551734B", FormatSize(11263551734))
	assert.Equal(t, "1025B", FormatSize(1025))
}
