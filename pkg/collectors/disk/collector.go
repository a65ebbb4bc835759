package disk

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/diskmon/pkg/resource"
	"github.com/danpilch/diskmon/pkg/use"
)

// Collector turns registered disks into capacity checks. Each Collect runs
// discovery and sampling through the registry first.
type Collector struct {
	reg    *resource.Registry
	logger *logrus.Logger
}

// NewCollector creates a disk collector over reg. Disks must already be
// registered with Register.
func NewCollector(reg *resource.Registry, logger *logrus.Logger) *Collector {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Collector{reg: reg, logger: logger}
}

// Name returns the collector name.
func (c *Collector) Name() string {
	return TypeName
}

// Collect discovers and samples disks, then reports one utilization check
// per disk plus one for the lowest free ratio across all of them.
func (c *Collector) Collect(ctx context.Context, thresholds use.Thresholds) ([]use.Check, error) {
	if err := c.reg.Discover(ctx); err != nil {
		return nil, err
	}
	if err := c.reg.Sample(ctx); err != nil {
		c.logger.WithError(err).Warn("Disk sampling failed")
	}

	instances := c.reg.Instances(TypeName)
	checks := make([]use.Check, 0, len(instances)+1)
	for _, inst := range instances {
		d, ok := inst.(*Disk)
		if !ok {
			continue
		}
		checks = append(checks, diskCheck(d, thresholds))
	}

	lowest, err := c.reg.Value(AggregateName)
	if err != nil {
		return nil, err
	}
	checks = append(checks, aggregateCheck(lowest, len(instances), thresholds))

	return checks, nil
}

func diskCheck(d *Disk, thresholds use.Thresholds) use.Check {
	resourceName := fmt.Sprintf("Disk (%s)", d.ID())

	ratio, ok := d.Ratio()
	if !ok {
		return use.Check{
			Resource:    resourceName,
			Type:        use.Utilization,
			Value:       "n/a",
			Status:      use.StatusUnknown,
			Description: "No usage sample",
			Source:      "driveDetail",
		}
	}

	usage, _ := d.Sampled()
	utilPercent := (1 - ratio) * 100
	return use.Check{
		Resource:    resourceName,
		Type:        use.Utilization,
		Value:       fmt.Sprintf("%.1f%%", utilPercent),
		RawValue:    utilPercent,
		Status:      thresholds.EvaluateUtilization(utilPercent),
		Description: fmt.Sprintf("Free: %s / Total: %s", usage.Available, usage.Total),
		Source:      "driveDetail",
	}
}

func aggregateCheck(lowest float64, members int, thresholds use.Thresholds) use.Check {
	if math.IsInf(lowest, 1) {
		return use.Check{
			Resource:    "Disk (all)",
			Type:        use.Utilization,
			Value:       "n/a",
			RawValue:    0,
			Status:      use.StatusUnknown,
			Description: fmt.Sprintf("No sampled disks among %d known", members),
			Source:      AggregateName,
		}
	}

	utilPercent := (1 - lowest) * 100
	return use.Check{
		Resource:    "Disk (all)",
		Type:        use.Utilization,
		Value:       fmt.Sprintf("%.1f%%", utilPercent),
		RawValue:    utilPercent,
		Status:      thresholds.EvaluateUtilization(utilPercent),
		Description: fmt.Sprintf("Fullest of %d disks, %.1f%% free", members, lowest*100),
		Source:      AggregateName,
	}
}
