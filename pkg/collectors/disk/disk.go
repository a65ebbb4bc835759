// Package disk discovers mounted filesystems and samples their capacity.
package disk

import (
	"context"
	"sync/atomic"

	"github.com/danpilch/diskmon/pkg/resource"
)

// Names under which disks are registered.
const (
	TypeName      = "Disk"
	AggregateName = "disk"
)

// Disk is one discovered device and its last usage sample.
type Disk struct {
	dev     string
	src     Source
	sampled atomic.Pointer[Usage]
}

// NewDisk creates a disk resource for dev with no sample.
func NewDisk(dev string, src Source) *Disk {
	return &Disk{dev: dev, src: src}
}

// ID returns the device identifier.
func (d *Disk) ID() string {
	return d.dev
}

// Sample queries current usage of the device and stores it as the last
// sample. On error the previous sample is kept and the error is returned
// unchanged.
func (d *Disk) Sample(ctx context.Context) (Usage, error) {
	usage, err := d.src.DriveDetail(ctx, d.dev)
	if err != nil {
		return Usage{}, err
	}
	d.sampled.Store(&usage)
	return usage, nil
}

// Collect implements resource.Instance.
func (d *Disk) Collect(ctx context.Context) error {
	_, err := d.Sample(ctx)
	return err
}

// Sampled returns the last sample, or false before the first one.
func (d *Disk) Sampled() (Usage, bool) {
	u := d.sampled.Load()
	if u == nil {
		return Usage{}, false
	}
	return *u, true
}

// Free returns available bytes from the last sample.
func (d *Disk) Free() (uint64, bool) {
	u := d.sampled.Load()
	if u == nil {
		return 0, false
	}
	return parsed(u.Available)
}

// Total returns total bytes from the last sample.
func (d *Disk) Total() (uint64, bool) {
	u := d.sampled.Load()
	if u == nil {
		return 0, false
	}
	return parsed(u.Total)
}

// Ratio returns free/total from the last sample. It has no value before
// the first sample or when the total is zero.
func (d *Disk) Ratio() (float64, bool) {
	u := d.sampled.Load()
	if u == nil {
		return 0, false
	}
	free, ok := parsed(u.Available)
	if !ok {
		return 0, false
	}
	total, ok := parsed(u.Total)
	if !ok || total == 0 {
		return 0, false
	}
	return float64(free) / float64(total), true
}

func parsed(s string) (uint64, bool) {
	n, err := ParseSize(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Type adapts disk discovery to resource.Type.
type Type struct {
	src   Source
	known *Known
}

// NewType returns the disk resource type backed by src.
func NewType(src Source) *Type {
	return &Type{src: src, known: NewKnown()}
}

// Name returns TypeName.
func (t *Type) Name() string {
	return TypeName
}

// Discover runs disk discovery against the type's known set.
func (t *Type) Discover(ctx context.Context, log resource.Logger) ([]string, error) {
	return t.known.Discover(ctx, t.src, log)
}

// New creates the disk resource for dev.
func (t *Type) New(dev string) resource.Instance {
	return NewDisk(dev, t.src)
}

// Register adds the disk resource type to reg along with the "disk"
// aggregate, the lowest free ratio across all disks.
func Register(reg *resource.Registry, src Source) error {
	if err := reg.Register(NewType(src)); err != nil {
		return err
	}
	return reg.Attach(AggregateName, TypeName, resource.MinRatio)
}
