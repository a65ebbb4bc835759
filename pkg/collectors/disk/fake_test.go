package disk

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type fakeSource struct {
	mu        sync.Mutex
	mounts    []Mount
	drivesErr error
	usage     map[string]Usage
	detailErr error
}

func newFakeSource(paths ...string) *fakeSource {
	s := &fakeSource{usage: make(map[string]Usage)}
	s.setMounts(paths...)
	return s
}

func (s *fakeSource) setMounts(paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounts = s.mounts[:0]
	for _, p := range paths {
		s.mounts = append(s.mounts, Mount{Device: "dev" + p, Mountpoint: p, Fstype: "ext4"})
	}
}

func (s *fakeSource) setUsage(dev, available, total string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage[dev] = Usage{Drive: dev, Mountpoint: dev, Available: available, Total: total}
}

func (s *fakeSource) Drives(ctx context.Context) ([]Mount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drivesErr != nil {
		return nil, s.drivesErr
	}
	return append([]Mount(nil), s.mounts...), nil
}

func (s *fakeSource) DriveDetail(ctx context.Context, dev string) (Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detailErr != nil {
		return Usage{}, s.detailErr
	}
	return s.usage[dev], nil
}

func newTestLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	return logger, hook
}

// events returns "level message" for every entry at info or above.
func events(hook *test.Hook) []string {
	var out []string
	for _, e := range hook.AllEntries() {
		if e.Level <= logrus.InfoLevel {
			out = append(out, e.Level.String()+" "+e.Message)
		}
	}
	return out
}
