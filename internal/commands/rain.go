package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/keshon/walletkeeper/internal/command"
	"github.com/keshon/walletkeeper/internal/docs"
	"github.com/keshon/walletkeeper/internal/store"
)

func (d *Deps) handleRain(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	amount := amountFilter(inv.Args.Float("amount"))
	if amount <= 0 {
		return &command.Reply{Text: docs.InvalidAmount}, nil
	}

	text, err := d.Rain.Contribute(ctx, inv.Message.Sender.ID, amount)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInsufficientFunds):
			return &command.Reply{Text: docs.InsufficientFunds}, nil
		case errors.Is(err, store.ErrNotFound):
			return &command.Reply{Text: docs.NoAccount}, nil
		}
		return nil, fmt.Errorf("rain contribution: %w", err)
	}

	// A contribution that fills the pot triggers the payout immediately; the
	// announcement rides on the same reply.
	if d.Rain.CanTrigger(ctx) {
		announcement, err := d.Rain.Trigger(ctx)
		if err != nil {
			return nil, fmt.Errorf("rain payout: %w", err)
		}
		text += "\n" + announcement
	}
	return &command.Reply{Text: text}, nil
}

func (d *Deps) usageRain(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	return &command.Reply{Text: d.Rain.StatusText(ctx)}, nil
}
