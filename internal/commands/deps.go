// Package commands declares every user command of the bot: its descriptor,
// guard list, argument schema and handler.
package commands

import (
	"context"
	"math"
	"time"

	"github.com/keshon/walletkeeper/internal/blacklist"
	"github.com/keshon/walletkeeper/internal/config"
	"github.com/keshon/walletkeeper/internal/gateway"
	"github.com/keshon/walletkeeper/internal/store"
)

// WalletRPC is the slice of the wallet client the handlers use.
type WalletRPC interface {
	BlockCount(ctx context.Context) (int64, error)
	NewAddress(ctx context.Context) (string, error)
	SendToAddress(ctx context.Context, address string, amount float64) (string, error)
	ValidateAddress(ctx context.Context, address string) (bool, error)
}

// RainPool is the rain coordinator as seen from the rain command.
type RainPool interface {
	CanTrigger(ctx context.Context) bool
	Trigger(ctx context.Context) (string, error)
	Contribute(ctx context.Context, from string, amount float64) (string, error)
	StatusText(ctx context.Context) string
}

// PriceSource decorates amounts with a fiat tag; it degrades to "".
type PriceSource interface {
	USD(ctx context.Context) (float64, error)
	Tag(ctx context.Context, amount float64) string
}

// Deps carries every collaborator the handlers close over. Latency and
// Announce are provided by the transport adapter.
type Deps struct {
	Cfg      *config.Config
	Wallet   WalletRPC
	Accounts store.Store
	Policy   *blacklist.Policy
	Channels *gateway.ChannelList
	Rain     RainPool
	Price    PriceSource

	Latency  func() time.Duration
	Announce func(text string) int

	StartedAt time.Time
}

// amountFilter normalizes a user-supplied amount: absolute value, truncated
// to 8 decimal places.
func amountFilter(amount float64) float64 {
	return math.Trunc(math.Abs(amount)*1e8) / 1e8
}
