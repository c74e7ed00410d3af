package refs

import (
	"context"
	"sync"
	"time"

	"github.com/unkn0wn-root/bencode"
)

type localEntry struct {
	Digest    bencode.Digest
	UpdatedAt time.Time
}

// Local keeps refs in-process.
// Optional cleanup loop to prune long-inactive entries.
type Local struct {
	mu     sync.RWMutex
	refs   map[string]localEntry
	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
}

var _ Refs = (*Local)(nil)

func NewLocal(cleanupInterval, retention time.Duration) *Local {
	s := &Local{refs: make(map[string]localEntry)}
	if cleanupInterval > 0 && retention > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.Cleanup(retention)
				case <-s.stopCh:
					return
				}
			}
		}()
	}
	return s
}

func (s *Local) Resolve(_ context.Context, name string) (bencode.Digest, bool, error) {
	s.mu.RLock()
	e, ok := s.refs[name]
	s.mu.RUnlock()
	return e.Digest, ok, nil
}

// ResolveMany takes the read lock once for all names.
func (s *Local) ResolveMany(_ context.Context, names []string) (map[string]bencode.Digest, error) {
	out := make(map[string]bencode.Digest, len(names))
	s.mu.RLock()
	for _, n := range names {
		if e, ok := s.refs[n]; ok {
			out[n] = e.Digest
		}
	}
	s.mu.RUnlock()
	return out, nil
}

func (s *Local) Set(_ context.Context, name string, d bencode.Digest) error {
	now := time.Now()
	s.mu.Lock()
	s.refs[name] = localEntry{Digest: d, UpdatedAt: now}
	s.mu.Unlock()
	return nil
}

func (s *Local) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	delete(s.refs, name)
	s.mu.Unlock()
	return nil
}

func (s *Local) Cleanup(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-retention)

	s.mu.Lock()
	for k, e := range s.refs {
		if e.UpdatedAt.Before(cutoff) {
			delete(s.refs, k)
		}
	}
	s.mu.Unlock()
}

func (s *Local) Close(_ context.Context) error {
	if s.stopCh != nil {
		close(s.stopCh)
		s.ticker.Stop()
		s.wg.Wait()
		s.stopCh = nil
	}
	return nil
}
