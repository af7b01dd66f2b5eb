// Package store is the SQL-backed account ledger behind the gateway. The
// gateway consumes it through the Store interface; Postgres is the only
// production implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/keshon/walletkeeper/internal/blacklist"
)

// Well-known ledger accounts. The faucet account doubles as the bring-up
// sentinel: if it cannot be read, the store is considered unreachable.
const (
	FaucetAccount = "FAUCET"
	RainAccount   = "RAIN"
)

var (
	ErrNotFound          = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Account is one ledger row. LastFaucetAt is zero when the holder has never
// claimed from the faucet.
type Account struct {
	UserID       string
	Address      string
	Balance      float64
	CreatedAt    time.Time
	FaucetClaims int
	LastFaucetAt time.Time
}

// Donor is a named donation target shown by the donate command.
type Donor struct {
	Position int
	Name     string
	UserID   string
}

type Store interface {
	Exists(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, id, address string) error

	Credit(ctx context.Context, id string, amount float64) error
	Debit(ctx context.Context, id string, amount float64) error
	Transfer(ctx context.Context, from, to string, amount float64) error
	RecordFaucetClaim(ctx context.Context, id string, at time.Time) error

	ListDonors(ctx context.Context) ([]Donor, error)

	ListMainChannels(ctx context.Context) ([]string, error)
	AddMainChannel(ctx context.Context, id string) error

	ListBlacklisted(ctx context.Context) ([]blacklist.Entry, error)
	SetBlacklisted(ctx context.Context, id string, publicOnly bool) error
	RemoveBlacklisted(ctx context.Context, id string) error

	Close() error
}
