package throttle

import (
	"sync"
	"time"
)

// Bucket is the token count of one caller (user or client IP) in a group
type Bucket[K comparable] struct {
	mu        sync.Mutex
	tokens    int
	lastCheck time.Time
	group     *BucketGroup[K]
}

// refill adds Increment tokens for every whole Period since lastCheck,
// capped at Burst. Caller holds mu.
func (b *Bucket[K]) refill(now time.Time) {
	conf := b.group.conf
	elapsed := now.Sub(b.lastCheck)
	if elapsed < conf.Period {
		return
	}
	periods := int(elapsed / conf.Period)
	b.tokens = min(b.tokens+periods*conf.Increment, conf.Burst)
	b.lastCheck = b.lastCheck.Add(time.Duration(periods) * conf.Period)
}

// Allow takes one token. false means the request gets a 429.
func (b *Bucket[K]) Allow(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill(now)
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}
