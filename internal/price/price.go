// Package price fetches the coin's fiat quote from a ticker API and caches
// it briefly. Conversion is decorative: replies degrade to no fiat tag when
// the ticker is unreachable.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

type Fetcher struct {
	url  string
	ttl  time.Duration
	http *http.Client

	mu        sync.Mutex
	usd       float64
	fetchedAt time.Time
}

func New(url string, ttl time.Duration) *Fetcher {
	return &Fetcher{
		url:  url,
		ttl:  ttl,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// USD returns the cached quote, refreshing it when stale.
func (f *Fetcher) USD(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if time.Since(f.fetchedAt) < f.ttl && f.fetchedAt != (time.Time{}) {
		return f.usd, nil
	}

	usd, err := f.fetch(ctx)
	if err != nil {
		return 0, err
	}
	f.usd = usd
	f.fetchedAt = time.Now()
	return usd, nil
}

// Tag renders "(~$x.xx)" for an amount, or "" when no quote is available.
func (f *Fetcher) Tag(ctx context.Context, amount float64) string {
	usd, err := f.USD(ctx)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("(~$%.4f)", amount*usd)
}

func (f *Fetcher) fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return 0, fmt.Errorf("create ticker request: %w", err)
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch ticker: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ticker returned status %d", resp.StatusCode)
	}

	// Coingecko simple-price shape: {"<coin>": {"usd": 0.0123}}
	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode ticker: %w", err)
	}
	for _, quotes := range payload {
		if usd, ok := quotes["usd"]; ok {
			return usd, nil
		}
	}
	return 0, fmt.Errorf("ticker response has no usd quote")
}
