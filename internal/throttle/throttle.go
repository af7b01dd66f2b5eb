// Package throttle enforces a minimum interval between messages per sender.
package throttle

import (
	"context"
	"hash/fnv"
	"log"
	"sync"
	"time"
)

const shardCount = 32

// Limiter keeps one last-seen timestamp per sender. State is striped across
// shards so concurrent senders do not contend on a single lock.
type Limiter struct {
	min    time.Duration
	shards [shardCount]shard
}

type shard struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func New(min time.Duration) *Limiter {
	l := &Limiter{min: min}
	for i := range l.shards {
		l.shards[i].last = make(map[string]time.Time)
	}
	return l
}

// Allow records the sighting and reports whether the message may proceed.
// The stored timestamp advances even on rejection, so a sender cannot
// outwait the throttle by spamming. The first message of a sender is always
// allowed.
func (l *Limiter) Allow(id string, now time.Time) bool {
	s := l.shardFor(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, seen := s.last[id]
	if now.After(prev) {
		s.last[id] = now
	}
	if !seen {
		return true
	}
	return now.Sub(prev) >= l.min
}

// Sweep evicts senders not seen within maxAge and returns how many entries
// were removed.
func (l *Limiter) Sweep(now time.Time, maxAge time.Duration) int {
	removed := 0
	for i := range l.shards {
		s := &l.shards[i]
		s.mu.Lock()
		for id, t := range s.last {
			if now.Sub(t) > maxAge {
				delete(s.last, id)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// Len reports the number of tracked senders.
func (l *Limiter) Len() int {
	n := 0
	for i := range l.shards {
		s := &l.shards[i]
		s.mu.Lock()
		n += len(s.last)
		s.mu.Unlock()
	}
	return n
}

func (l *Limiter) shardFor(id string) *shard {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &l.shards[h.Sum32()%shardCount]
}

// RunSweeper periodically evicts stale throttle entries until ctx ends.
func RunSweeper(ctx context.Context, l *Limiter, every, maxAge time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := l.Sweep(now, maxAge); n > 0 {
				log.Printf("[INFO] Throttle sweep evicted %d stale sender(s)", n)
			}
		}
	}
}
