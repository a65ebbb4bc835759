package disk

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var binaryUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatSize renders a byte count in the compact df-style notation used by
// sample records, e.g. "512B", "1.5MB", "12GB". Units are powers of 1024.
// ParseSize of the result always yields b again: when no unit expresses b
// exactly within two decimals, the plain byte count is used.
func FormatSize(b uint64) string {
	for exp := len(binaryUnits) - 1; exp > 0; exp-- {
		unit := uint64(1) << (10 * exp)
		if b < unit {
			continue
		}
		s := humanize.FtoaWithDigits(float64(b)/float64(unit), 2) + binaryUnits[exp]
		if n, err := ParseSize(s); err == nil && n == b {
			return s
		}
	}
	return strconv.FormatUint(b, 10) + "B"
}

// ParseSize converts a size string to a byte count.
//
// A trailing "B" that is not already part of an "iB" suffix is read as a
// binary unit, so "10MB" is 10*2^20 and "10GB" is 10*2^30. A bare byte
// count such as "512000B" is plain bytes.
func ParseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "B") && !strings.HasSuffix(s, "iB") {
		prefix := strings.TrimSpace(s[:len(s)-1])
		if prefix == "" {
			return 0, fmt.Errorf("size %q has no value", s)
		}
		if last := prefix[len(prefix)-1]; last >= '0' && last <= '9' || last == '.' {
			s = prefix
		} else {
			s = prefix + "iB"
		}
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("cannot parse size %q: %w", s, err)
	}
	return n, nil
}
