package throttle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/svc"
)

// BucketStore holds token buckets per group and key.
// Groups are set up before Start and read-only afterwards.
type BucketStore[K comparable] struct {
	Ctx              context.Context    // Service Context
	cancel           context.CancelFunc // Service Context CancelFunc
	log              *zap.Logger
	mu               sync.Mutex // guards state
	state            int        // internal service state
	done             chan error // Shutdown Error Channel
	cleanupCycle     time.Duration
	cleanupOlderThan time.Duration
	groups           map[string]*BucketGroup[K]
}

// Ensure BucketStore implements svc.Service
var _ svc.Service = (*BucketStore[string])(nil)

func (s *BucketStore[K]) Name() string {
	return "ThrottleBucketStore"
}

func NewBucketStore[K comparable](parentCtx context.Context, log *zap.Logger, cleanupCycle time.Duration, cleanupOlderThan time.Duration) *BucketStore[K] {
	if log == nil {
		log = zap.NewNop()
	}
	svcCtx, svcCancel := context.WithCancel(parentCtx)
	return &BucketStore[K]{
		Ctx:              svcCtx,
		cancel:           svcCancel,
		log:              log,
		state:            svc.StateREADY,
		done:             make(chan error, 1),
		cleanupCycle:     cleanupCycle,
		cleanupOlderThan: cleanupOlderThan,
		groups:           make(map[string]*BucketGroup[K]),
	}
}

// Start starts the cleanup loop of expired buckets
func (s *BucketStore[K]) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == svc.StateRUNNING {
		return fmt.Errorf("already started")
	}
	if s.state != svc.StateREADY {
		return fmt.Errorf("cannot start. not ready")
	}
	if s.cleanupCycle <= 0 {
		return fmt.Errorf("cleanup cycle must be positive, got %v", s.cleanupCycle)
	}
	s.state = svc.StateRUNNING
	s.log.Info("throttle cleanup service started", zap.Duration("cycle", s.cleanupCycle), zap.Duration("older_than", s.cleanupOlderThan))
	go s.run()
	return nil
}

func (s *BucketStore[K]) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != svc.StateRUNNING {
		s.log.Warn("throttle cannot stop. not running")
		return
	}
	s.cancel()
	s.state = svc.StateSTOPPED
	s.log.Info("throttle service stopped")
}

func (s *BucketStore[K]) Done() <-chan error {
	return s.done
}

func (s *BucketStore[K]) run() {
	ticker := time.NewTicker(s.cleanupCycle)
	defer ticker.Stop()
	for {
		select {
		case <-s.Ctx.Done():
			s.log.Info("throttle stopping cleaning service")
			s.done <- nil
			return
		case now := <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						s.log.Error("recovered in throttle cleaning service", zap.Any("panic", r))
					}
				}()
				n := s.Cleanup(now)
				s.log.Debug("throttle cleanup cycle", zap.Int("removed", n))
			}()
		}
	}
}

func (s *BucketStore[K]) GetBucketGroup(id string) (*BucketGroup[K], bool) {
	g, ok := s.groups[id]
	return g, ok
}

func (s *BucketStore[K]) GetBucket(groupID string, key K) (*Bucket[K], bool) {
	g, ok := s.groups[groupID]
	if !ok {
		return nil, false
	}
	return g.GetBucket(key)
}

func (s *BucketStore[K]) SetBucketGroup(id string, conf *BucketConf) {
	s.groups[id] = &BucketGroup[K]{
		conf:    conf,
		buckets: &sync.Map{},
	}
}

func (s *BucketStore[K]) Allow(groupID string, key K, now time.Time) bool {
	g, ok := s.GetBucketGroup(groupID)
	if !ok {
		return false // Invalid groupID always Blocked
	}
	// consume 1 token from the fresh bucket
	fresh := &Bucket[K]{tokens: g.conf.Burst, lastCheck: now, group: g}
	bAny, _ := g.buckets.LoadOrStore(key, fresh)
	return bAny.(*Bucket[K]).Allow(now)
}

// Cleanup drops buckets untouched for longer than cleanupOlderThan.
// Returns how many were removed.
func (s *BucketStore[K]) Cleanup(now time.Time) int {
	removed := 0
	for _, g := range s.groups {
		g.buckets.Range(func(id, value any) bool {
			b := value.(*Bucket[K])
			// lock per bucket while checking/removing
			b.mu.Lock()
			last := b.lastCheck
			b.mu.Unlock()
			if now.Sub(last) > s.cleanupOlderThan {
				g.buckets.Delete(id)
				removed++
			}
			return true // continue iteration
		})
	}
	return removed
}
