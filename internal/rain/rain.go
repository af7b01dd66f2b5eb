// Package rain runs the pooled-contribution payout: members pay into a
// well-known pool account and, once the pot and the crowd are big enough,
// the pot is split evenly over recently active registered members.
package rain

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/keshon/walletkeeper/internal/store"
)

// Accounts is the slice of the ledger the coordinator needs.
type Accounts interface {
	Exists(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*store.Account, error)
	Transfer(ctx context.Context, from, to string, amount float64) error
}

type Coordinator struct {
	accounts  Accounts
	poolID    string
	threshold float64
	minActive int
	window    time.Duration

	mu     sync.Mutex
	active map[string]time.Time
}

func New(accounts Accounts, poolID string, threshold float64, minActive int, window time.Duration) *Coordinator {
	return &Coordinator{
		accounts:  accounts,
		poolID:    poolID,
		threshold: threshold,
		minActive: minActive,
		window:    window,
		active:    make(map[string]time.Time),
	}
}

// Verify confirms the pool account is readable. Called at bring-up; an
// error here is fatal for the process.
func (c *Coordinator) Verify(ctx context.Context) error {
	if _, err := c.accounts.Get(ctx, c.poolID); err != nil {
		return fmt.Errorf("rain pool account %q: %w", c.poolID, err)
	}
	return nil
}

// MarkActive records sender traffic; only recently seen senders receive rain.
func (c *Coordinator) MarkActive(id string, now time.Time) {
	if id == c.poolID {
		return
	}
	c.mu.Lock()
	c.active[id] = now
	c.mu.Unlock()
}

// CanTrigger reports whether the pot and the active crowd both clear their
// thresholds.
func (c *Coordinator) CanTrigger(ctx context.Context) bool {
	pool, err := c.accounts.Get(ctx, c.poolID)
	if err != nil || pool.Balance < c.threshold {
		return false
	}
	return len(c.activeIDs(time.Now())) >= c.minActive
}

// Trigger splits the pot over active registered members and returns the
// announcement text. Unregistered actives are skipped.
func (c *Coordinator) Trigger(ctx context.Context) (string, error) {
	pool, err := c.accounts.Get(ctx, c.poolID)
	if err != nil {
		return "", fmt.Errorf("read pool: %w", err)
	}

	var recipients []string
	for _, id := range c.activeIDs(time.Now()) {
		ok, err := c.accounts.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check recipient %s: %w", id, err)
		}
		if ok {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) < c.minActive {
		return "", fmt.Errorf("not enough active members: %d", len(recipients))
	}

	share := pool.Balance / float64(len(recipients))
	paid := 0
	for _, id := range recipients {
		if err := c.accounts.Transfer(ctx, c.poolID, id, share); err != nil {
			return "", fmt.Errorf("rain payout to %s: %w", id, err)
		}
		paid++
	}
	return fmt.Sprintf("🌧️ It's raining! %.8f split over %d active members (%.8f each).",
		pool.Balance, paid, share), nil
}

// Contribute moves funds from a member into the pool and returns the reply.
func (c *Coordinator) Contribute(ctx context.Context, from string, amount float64) (string, error) {
	if err := c.accounts.Transfer(ctx, from, c.poolID, amount); err != nil {
		return "", err
	}
	pool, err := c.accounts.Get(ctx, c.poolID)
	if err != nil {
		return "", fmt.Errorf("read pool: %w", err)
	}
	return fmt.Sprintf("🌧️ Thank you! The pot now holds %.8f of the %.8f needed.",
		pool.Balance, c.threshold), nil
}

// StatusText describes the pot and what is missing for the next rain.
func (c *Coordinator) StatusText(ctx context.Context) string {
	pool, err := c.accounts.Get(ctx, c.poolID)
	if err != nil {
		return "🌧️ The rain pot is unavailable right now."
	}
	return fmt.Sprintf("🌧️ Pot: %.8f / %.8f. Active members: %d (min %d). Contribute with the rain command.",
		pool.Balance, c.threshold, len(c.activeIDs(time.Now())), c.minActive)
}

func (c *Coordinator) activeIDs(now time.Time) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.active))
	for id, seen := range c.active {
		if now.Sub(seen) > c.window {
			delete(c.active, id)
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
