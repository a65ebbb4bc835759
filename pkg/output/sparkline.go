package output

import (
	"strings"
	"sync"
)

// SparklineTracker keeps a rolling window of values per resource for the
// watch-mode trend column.
type SparklineTracker struct {
	mu     sync.Mutex
	data   map[string][]float64
	maxLen int
}

// NewSparklineTracker creates a tracker holding up to maxLen values per key.
func NewSparklineTracker(maxLen int) *SparklineTracker {
	if maxLen < 1 {
		maxLen = 20
	}
	return &SparklineTracker{
		data:   make(map[string][]float64),
		maxLen: maxLen,
	}
}

// Record appends a value for key, dropping the oldest past the window.
func (s *SparklineTracker) Record(key string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := append(s.data[key], value)
	if len(values) > s.maxLen {
		values = values[len(values)-s.maxLen:]
	}
	s.data[key] = values
}

// Forget drops the history for key, e.g. when a disk disappears.
func (s *SparklineTracker) Forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Sparkline returns the trend for key, or "" if nothing was recorded.
func (s *SparklineTracker) Sparkline(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return renderSparkline(s.data[key])
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// renderSparkline scales values against a fixed 0-100 percent range so
// that a flat full disk and a flat empty disk look different.
func renderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	var b strings.Builder
	top := len(sparkBlocks) - 1
	for _, v := range values {
		idx := int(v / 100 * float64(top))
		idx = min(max(idx, 0), top)
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}
