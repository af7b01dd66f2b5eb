package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/keshon/walletkeeper/internal/command"
	"github.com/keshon/walletkeeper/internal/docs"
	"github.com/keshon/walletkeeper/internal/store"
)

func (d *Deps) handleFaucet(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	sender := inv.Message.Sender.ID
	acc, err := d.Accounts.Get(ctx, sender)
	if err != nil {
		return nil, fmt.Errorf("read account: %w", err)
	}

	now := eventTime(inv)
	next := acc.LastFaucetAt.Add(d.Cfg.FaucetCooldown)
	if !acc.LastFaucetAt.IsZero() && now.Before(next) {
		return &command.Reply{Text: fmt.Sprintf(docs.FaucetCooldownMsg, next.Sub(now).Round(time.Second))}, nil
	}

	if err := d.Accounts.Transfer(ctx, store.FaucetAccount, sender, d.Cfg.FaucetAmount); err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			return &command.Reply{Text: docs.FaucetEmpty}, nil
		}
		return nil, fmt.Errorf("faucet payout to %s: %w", sender, err)
	}
	if err := d.Accounts.RecordFaucetClaim(ctx, sender, now); err != nil {
		// The payout stands; only the cooldown bookkeeping is off.
		log.Printf("[WARN] Faucet claim for %s not recorded: %v", sender, err)
	}
	return &command.Reply{Text: fmt.Sprintf(docs.FaucetSuccess, d.Cfg.FaucetAmount)}, nil
}
