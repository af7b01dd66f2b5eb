package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/keshon/walletkeeper/internal/command"
	"github.com/keshon/walletkeeper/internal/docs"
	"github.com/keshon/walletkeeper/internal/store"
)

func (d *Deps) handleBlist(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	action := inv.Args.String("action")
	if action == "" {
		entries := d.Policy.Entries()
		if len(entries) == 0 {
			return &command.Reply{Text: docs.NoneBanned}, nil
		}
		lines := make([]string, len(entries))
		for i, e := range entries {
			scope := "everywhere"
			if e.PublicOnly {
				scope = "public only"
			}
			lines[i] = fmt.Sprintf("`%s` (%s)", e.UserID, scope)
		}
		return &command.Reply{Text: docs.Info + "Banned:\n" + strings.Join(lines, "\n")}, nil
	}

	id := inv.Args.String("id")
	if id == "" {
		return &command.Reply{Text: docs.UsageBlist}, nil
	}

	switch action {
	case "ban", "banpublic":
		publicOnly := action == "banpublic"
		if err := d.Accounts.SetBlacklisted(ctx, id, publicOnly); err != nil {
			return nil, fmt.Errorf("persist ban for %s: %w", id, err)
		}
		d.Policy.Ban(id, publicOnly)
		return &command.Reply{Text: fmt.Sprintf(docs.BanAdded, id)}, nil
	case "unban":
		if err := d.Accounts.RemoveBlacklisted(ctx, id); err != nil {
			return nil, fmt.Errorf("remove ban for %s: %w", id, err)
		}
		if !d.Policy.Unban(id) {
			return &command.Reply{Text: fmt.Sprintf(docs.BanMissing, id)}, nil
		}
		return &command.Reply{Text: fmt.Sprintf(docs.BanRemoved, id)}, nil
	default:
		return &command.Reply{Text: docs.UsageBlist}, nil
	}
}

// handleBin sends coins out of the hot wallet without touching any ledger
// row. Used to burn confiscated or orphaned balances.
func (d *Deps) handleBin(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	address := inv.Args.String("address")
	amount := amountFilter(inv.Args.Float("amount"))
	if amount <= 0 {
		return &command.Reply{Text: docs.InvalidAmount}, nil
	}
	txid, err := d.Wallet.SendToAddress(ctx, address, amount)
	if err != nil {
		return nil, fmt.Errorf("burn to %s: %w", address, err)
	}
	return &command.Reply{Text: fmt.Sprintf(docs.BinSuccess, amount, address, txid)}, nil
}

func (d *Deps) handleStat(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	id := inv.Args.String("id")
	if id == "" {
		id = inv.Message.Sender.ID
	}
	acc, err := d.Accounts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &command.Reply{Text: docs.InvalidUser}, nil
		}
		return nil, fmt.Errorf("read account %s: %w", id, err)
	}
	tag := d.Price.Tag(ctx, acc.Balance)
	return &command.Reply{Text: fmt.Sprintf(docs.AccountTemplate,
		acc.UserID, acc.CreatedAt.Format("2006-01-02"), acc.Balance, tag, acc.FaucetClaims)}, nil
}

func (d *Deps) handleChannel(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	id := inv.Args.String("id")
	if err := d.Accounts.AddMainChannel(ctx, id); err != nil {
		return nil, fmt.Errorf("persist channel %s: %w", id, err)
	}
	d.Channels.Add(id)
	return &command.Reply{React: true}, nil
}

func (d *Deps) usageChannel(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	return &command.Reply{Text: docs.UsageChannel}, nil
}

func (d *Deps) handleAnnounce(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	count := d.Announce(docs.AnnounceTitle + inv.Args.String("text"))
	return &command.Reply{Text: fmt.Sprintf(docs.AnnouncedTemplate, count)}, nil
}

func (d *Deps) usageAnnounce(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	return &command.Reply{Text: docs.UsageAnnounce}, nil
}
