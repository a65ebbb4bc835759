package use

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Checker runs collectors and gathers their checks.
type Checker struct {
	thresholds Thresholds
	logger     *logrus.Logger
}

// Collector produces checks for one kind of resource.
type Collector interface {
	Name() string
	Collect(ctx context.Context, thresholds Thresholds) ([]Check, error)
}

// NewChecker creates a new checker.
func NewChecker(thresholds Thresholds, logger *logrus.Logger) *Checker {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Checker{
		thresholds: thresholds,
		logger:     logger,
	}
}

// RunAll executes all collectors concurrently. A failing collector is
// reported as a single unknown check.
func (c *Checker) RunAll(ctx context.Context, collectors []Collector) []Check {
	var (
		allChecks []Check
		mu        sync.Mutex
		wg        sync.WaitGroup
	)

	for _, collector := range collectors {
		wg.Add(1)
		go func(col Collector) {
			defer wg.Done()

			c.logger.WithField("collector", col.Name()).Debug("Running collector")

			checks, err := col.Collect(ctx, c.thresholds)
			if err != nil {
				c.logger.WithFields(logrus.Fields{
					"collector": col.Name(),
					"error":     err,
				}).Warn("Collector failed")

				checks = []Check{{
					Resource:    col.Name(),
					Type:        Utilization,
					Value:       "unknown",
					Status:      StatusUnknown,
					Description: err.Error(),
				}}
			}

			mu.Lock()
			allChecks = append(allChecks, checks...)
			mu.Unlock()
		}(collector)
	}

	wg.Wait()
	return allChecks
}

// Summary counts checks by status.
type Summary struct {
	Total    int `json:"total"`
	OK       int `json:"ok"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
	Unknown  int `json:"unknown"`
}

// Summarize calculates summary statistics from check results.
func Summarize(checks []Check) Summary {
	s := Summary{Total: len(checks)}
	for _, check := range checks {
		switch check.Status {
		case StatusOK:
			s.OK++
		case StatusWarning:
			s.Warnings++
		case StatusError:
			s.Errors++
		case StatusUnknown:
			s.Unknown++
		}
	}
	return s
}

// ExitCode maps check results to a process exit code: 0 all ok, 1
// warnings, 2 errors, 3 only unknowns.
func ExitCode(checks []Check) int {
	summary := Summarize(checks)
	if summary.Errors > 0 {
		return 2
	}
	if summary.Warnings > 0 {
		return 1
	}
	if summary.Unknown > 0 {
		return 3
	}
	return 0
}
