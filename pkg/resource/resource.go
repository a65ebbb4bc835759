// Package resource tracks discovered resource instances and the aggregates
// computed over them.
package resource

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Logger receives discovery events. *logrus.Entry and *logrus.Logger
// satisfy it.
type Logger interface {
	Tracef(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Type is a kind of resource whose instances are found by discovery.
type Type interface {
	// Name returns the resource type name (e.g., "Disk").
	Name() string

	// Discover returns the identifiers of all instances currently present.
	Discover(ctx context.Context, log Logger) ([]string, error)

	// New creates the instance for a newly discovered identifier.
	New(id string) Instance
}

// Instance is one discovered resource.
type Instance interface {
	ID() string

	// Collect takes a fresh sample.
	Collect(ctx context.Context) error

	// Ratio returns the instance's numeric value, or false if it has none.
	Ratio() (float64, bool)
}

// Aggregate derives a single value from all instances of a type.
type Aggregate func(instances []Instance) float64

// MinRatio returns the smallest ratio among instances that have one.
// With no instances, or none holding a value, it returns +Inf.
func MinRatio(instances []Instance) float64 {
	lowest := math.Inf(1)
	for _, inst := range instances {
		if r, ok := inst.Ratio(); ok && r < lowest {
			lowest = r
		}
	}
	return lowest
}

type group struct {
	typ       Type
	instances map[string]Instance
	order     []string
}

type attachment struct {
	typeName string
	fn       Aggregate
}

// Registry holds resource types, their live instances, and named
// aggregates.
type Registry struct {
	logger  *logrus.Logger
	timeout time.Duration

	discoverMu sync.Mutex

	mu         sync.RWMutex
	groups     map[string]*group
	typeOrder  []string
	aggregates map[string]attachment
}

// NewRegistry creates an empty registry. A non-zero timeout bounds every
// discovery and sampling query.
func NewRegistry(logger *logrus.Logger, timeout time.Duration) *Registry {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Registry{
		logger:     logger,
		timeout:    timeout,
		groups:     make(map[string]*group),
		aggregates: make(map[string]attachment),
	}
}

// Register adds a resource type.
func (r *Registry) Register(t Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.groups[t.Name()]; exists {
		return fmt.Errorf("resource type %q already registered", t.Name())
	}
	r.groups[t.Name()] = &group{typ: t, instances: make(map[string]Instance)}
	r.typeOrder = append(r.typeOrder, t.Name())
	return nil
}

// Attach registers a named aggregate over all instances of typeName.
func (r *Registry) Attach(name, typeName string, fn Aggregate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[typeName]; !ok {
		return fmt.Errorf("cannot attach %q: unknown resource type %q", name, typeName)
	}
	if _, exists := r.aggregates[name]; exists {
		return fmt.Errorf("aggregate %q already attached", name)
	}
	r.aggregates[name] = attachment{typeName: typeName, fn: fn}
	return nil
}

// Discover runs discovery for every registered type and brings the
// instance collection in line with the reported identifiers. Calls are
// serialized.
func (r *Registry) Discover(ctx context.Context) error {
	r.discoverMu.Lock()
	defer r.discoverMu.Unlock()

	r.mu.RLock()
	names := append([]string(nil), r.typeOrder...)
	r.mu.RUnlock()

	var result *multierror.Error
	for _, name := range names {
		if err := r.discoverType(ctx, name); err != nil {
			result = multierror.Append(result, fmt.Errorf("discover %s: %w", name, err))
		}
	}
	return result.ErrorOrNil()
}

func (r *Registry) discoverType(ctx context.Context, name string) error {
	r.mu.RLock()
	g := r.groups[name]
	r.mu.RUnlock()

	qctx, cancel := r.queryContext(ctx)
	defer cancel()

	ids, err := g.typ.Discover(qctx, r.logger.WithField("resource", name))
	if err != nil {
		return err
	}

	present := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		present[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order := g.order[:0:0]
	for _, id := range g.order {
		if _, ok := present[id]; ok {
			order = append(order, id)
			continue
		}
		delete(g.instances, id)
	}
	for _, id := range ids {
		if _, ok := g.instances[id]; ok {
			continue
		}
		g.instances[id] = g.typ.New(id)
		order = append(order, id)
	}
	g.order = order
	return nil
}

// Sample collects every instance concurrently. Failures are returned
// together; a failed instance keeps its previous sample.
func (r *Registry) Sample(ctx context.Context) error {
	var g multierror.Group
	for _, name := range r.Types() {
		for _, inst := range r.Instances(name) {
			typeName := name
			g.Go(func() error {
				qctx, cancel := r.queryContext(ctx)
				defer cancel()

				if err := inst.Collect(qctx); err != nil {
					return fmt.Errorf("sample %s %s: %w", typeName, inst.ID(), err)
				}
				return nil
			})
		}
	}
	return g.Wait().ErrorOrNil()
}

// Types returns registered type names in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.typeOrder...)
}

// Instances returns the live instances of a type in discovery order.
func (r *Registry) Instances(typeName string) []Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[typeName]
	if !ok {
		return nil
	}
	out := make([]Instance, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.instances[id])
	}
	return out
}

// Value evaluates the named aggregate over the current instances.
func (r *Registry) Value(name string) (float64, error) {
	r.mu.RLock()
	a, ok := r.aggregates[name]
	r.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("unknown aggregate %q", name)
	}
	return a.fn(r.Instances(a.typeName)), nil
}

func (r *Registry) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}
