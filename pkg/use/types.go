// Package use provides the check model that collectors report into and the
// checker that runs them.
package use

// MetricType represents the kind of measurement a check carries.
type MetricType string

const (
	Utilization MetricType = "utilization"
	Errors      MetricType = "errors"
)

// Status represents the health status of a check.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusUnknown Status = "unknown"
)

// Check represents a single check result.
type Check struct {
	Resource    string     `json:"resource"`
	Type        MetricType `json:"type"`
	Value       string     `json:"value"`
	RawValue    float64    `json:"raw_value"`
	Status      Status     `json:"status"`
	Description string     `json:"description"`
	Source      string     `json:"source"`
}

// Thresholds defines warning and critical levels for utilization, in
// percent.
type Thresholds struct {
	WarnUtil float64 `yaml:"warn"`
	CritUtil float64 `yaml:"crit"`
}

// DefaultThresholds returns the default threshold values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		WarnUtil: 80.0,
		CritUtil: 90.0,
	}
}

// EvaluateUtilization returns the status for a utilization percentage.
func (t Thresholds) EvaluateUtilization(percent float64) Status {
	if percent >= t.CritUtil {
		return StatusError
	}
	if percent >= t.WarnUtil {
		return StatusWarning
	}
	return StatusOK
}
