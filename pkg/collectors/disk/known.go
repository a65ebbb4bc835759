package disk

import (
	"context"

	"github.com/danpilch/diskmon/pkg/resource"
)

// Known is the set of devices currently considered present, kept in the
// order they were first discovered. It is the state threaded through
// successive Discover calls; callers must not run two Discover calls on
// the same Known at once.
type Known struct {
	devices []string
	index   map[string]struct{}
}

// NewKnown returns an empty device set.
func NewKnown() *Known {
	return &Known{index: make(map[string]struct{})}
}

// Devices returns a copy of the known devices in insertion order.
func (k *Known) Devices() []string {
	return append([]string(nil), k.devices...)
}

// Has reports whether dev is known.
func (k *Known) Has(dev string) bool {
	_, ok := k.index[dev]
	return ok
}

// Discover queries src for mounted filesystems and reconciles the known set
// against the ones mounted at an absolute path. Vanished devices are logged
// at warn and removed, new devices are logged at info and appended. The
// full known list is returned. An error from src is returned unchanged and
// leaves the set untouched.
func (k *Known) Discover(ctx context.Context, src Source, log resource.Logger) ([]string, error) {
	log.Tracef("discovering disks")

	mounts, err := src.Drives(ctx)
	if err != nil {
		return nil, err
	}

	discovered := make([]string, 0, len(mounts))
	seen := make(map[string]struct{}, len(mounts))
	for _, m := range mounts {
		if !isAbsoluteMount(m.Mountpoint) {
			continue
		}
		if _, dup := seen[m.Mountpoint]; dup {
			continue
		}
		seen[m.Mountpoint] = struct{}{}
		discovered = append(discovered, m.Mountpoint)
	}

	// remove known disks which are no longer found
	kept := k.devices[:0]
	for _, dev := range k.devices {
		if _, ok := seen[dev]; ok {
			kept = append(kept, dev)
			continue
		}
		delete(k.index, dev)
		log.Warnf("disk device disappeared [%s]", dev)
	}
	k.devices = kept

	// add discovered disks which were previously unknown
	for _, dev := range discovered {
		if k.Has(dev) {
			continue
		}
		log.Infof("disk discovered [%s]", dev)
		k.index[dev] = struct{}{}
		k.devices = append(k.devices, dev)
	}

	return k.Devices(), nil
}

// isAbsoluteMount reports whether path starts with exactly one '/'.
// Drive letters ("C:") and network shares ("//host/share") are rejected.
func isAbsoluteMount(path string) bool {
	if len(path) == 0 || path[0] != '/' {
		return false
	}
	return len(path) == 1 || path[1] != '/'
}
