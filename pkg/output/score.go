package output

import "github.com/danpilch/diskmon/pkg/use"

// HealthScore computes a 0-100 score from check results: -20 per critical
// disk, -10 per warning, -5 per disk without a sample.
func HealthScore(checks []use.Check) int {
	score := 100
	for _, c := range checks {
		switch c.Status {
		case use.StatusError:
			score -= 20
		case use.StatusWarning:
			score -= 10
		case use.StatusUnknown:
			score -= 5
		}
	}
	return max(score, 0)
}

// ScoreLabel returns a human-readable label for a health score.
func ScoreLabel(score int) string {
	switch {
	case score >= 80:
		return "Healthy"
	case score >= 50:
		return "Degraded"
	default:
		return "Critical"
	}
}
