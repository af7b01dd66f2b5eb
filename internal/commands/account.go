package commands

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/keshon/walletkeeper/internal/command"
	"github.com/keshon/walletkeeper/internal/docs"
)

// eventTime is the moment the triggering message arrived; cooldown math uses
// it instead of time.Now so replays in tests are deterministic.
func eventTime(inv *command.Invocation) time.Time {
	if !inv.Message.ReceivedAt.IsZero() {
		return inv.Message.ReceivedAt
	}
	return time.Now()
}

func (d *Deps) handleNew(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	id := inv.Message.Sender.ID

	exists, err := d.Accounts.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	if exists {
		return &command.Reply{Text: docs.AlreadyUser}, nil
	}

	address, err := d.Wallet.NewAddress(ctx)
	if err != nil {
		log.Printf("[ERR] Address generation for %s failed: %v", id, err)
		return &command.Reply{Text: docs.NewUserFail}, nil
	}
	if err := d.Accounts.Create(ctx, id, address); err != nil {
		log.Printf("[ERR] Account creation for %s failed: %v", id, err)
		return &command.Reply{Text: docs.NewUserFail}, nil
	}

	// The address goes out over DM so it is not lost in channel scroll.
	return &command.Reply{
		Text:       fmt.Sprintf(docs.NewUserSuccess, address),
		DM:         true,
		DMFallback: docs.DMFailed,
		React:      true,
	}, nil
}

func (d *Deps) handleBalance(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	acc, err := d.Accounts.Get(ctx, inv.Message.Sender.ID)
	if err != nil {
		return nil, fmt.Errorf("read account: %w", err)
	}
	tag := d.Price.Tag(ctx, acc.Balance)
	// Balances are private; channel requests get the answer over DM.
	return &command.Reply{
		Text:       fmt.Sprintf(docs.BalanceTemplate, acc.Address, acc.Balance, tag),
		DM:         !inv.Message.Private,
		DMFallback: docs.DMFailed,
		React:      !inv.Message.Private,
	}, nil
}

func (d *Deps) handleAddress(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	acc, err := d.Accounts.Get(ctx, inv.Message.Sender.ID)
	if err != nil {
		return nil, fmt.Errorf("read account: %w", err)
	}
	return &command.Reply{Text: fmt.Sprintf(docs.AddressTemplate, acc.Address)}, nil
}

func (d *Deps) handleAccount(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	acc, err := d.Accounts.Get(ctx, inv.Message.Sender.ID)
	if err != nil {
		return nil, fmt.Errorf("read account: %w", err)
	}
	tag := d.Price.Tag(ctx, acc.Balance)
	return &command.Reply{Text: fmt.Sprintf(docs.AccountTemplate,
		acc.UserID, acc.CreatedAt.Format("2006-01-02"), acc.Balance, tag, acc.FaucetClaims)}, nil
}

func (d *Deps) handleTime(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	acc, err := d.Accounts.Get(ctx, inv.Message.Sender.ID)
	if err != nil {
		return nil, fmt.Errorf("read account: %w", err)
	}
	now := eventTime(inv)
	next := acc.LastFaucetAt.Add(d.Cfg.FaucetCooldown)
	if acc.LastFaucetAt.IsZero() || !now.Before(next) {
		return &command.Reply{Text: docs.FaucetReady}, nil
	}
	return &command.Reply{Text: fmt.Sprintf(docs.FaucetTimer, next.Sub(now).Round(time.Second))}, nil
}
