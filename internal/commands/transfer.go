package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/keshon/walletkeeper/internal/command"
	"github.com/keshon/walletkeeper/internal/docs"
	"github.com/keshon/walletkeeper/internal/store"
)

func (d *Deps) handleWithdraw(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	address := inv.Args.String("address")
	amount := amountFilter(inv.Args.Float("amount"))

	// The fee comes out of what the sender typed, so anything at or below
	// the fee would send nothing.
	if amount <= d.Cfg.WithdrawFee {
		return &command.Reply{Text: docs.AmountTooSmall}, nil
	}

	valid, err := d.Wallet.ValidateAddress(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("validate address: %w", err)
	}
	if !valid {
		return &command.Reply{Text: docs.InvalidAddress}, nil
	}

	sender := inv.Message.Sender.ID
	if err := d.Accounts.Debit(ctx, sender, amount); err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			return &command.Reply{Text: docs.InsufficientFunds}, nil
		}
		return nil, fmt.Errorf("debit %s: %w", sender, err)
	}

	payout := amount - d.Cfg.WithdrawFee
	txid, err := d.Wallet.SendToAddress(ctx, address, payout)
	if err != nil {
		// The ledger row was already debited; put the funds back before
		// reporting failure.
		if creditErr := d.Accounts.Credit(ctx, sender, amount); creditErr != nil {
			log.Printf("[ERR] Refund of %.8f to %s failed after send error: %v", amount, sender, creditErr)
		}
		return nil, fmt.Errorf("send to %s: %w", address, err)
	}

	return &command.Reply{Text: fmt.Sprintf(docs.WithdrawSuccess, payout, address, txid)}, nil
}

func (d *Deps) usageWithdraw(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	return &command.Reply{Text: fmt.Sprintf(docs.UsageWithdraw, d.Cfg.WithdrawFee)}, nil
}

func (d *Deps) handleGive(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	receiver := inv.Args.String("user")
	amount := amountFilter(inv.Args.Float("amount"))
	sender := inv.Message.Sender.ID

	if amount <= 0 {
		return &command.Reply{Text: docs.InvalidAmount}, nil
	}
	if receiver == sender {
		return &command.Reply{Text: docs.CannotSendSelf}, nil
	}

	exists, err := d.Accounts.Exists(ctx, receiver)
	if err != nil {
		return nil, fmt.Errorf("receiver lookup: %w", err)
	}
	if !exists {
		return &command.Reply{Text: docs.InvalidUser}, nil
	}

	if err := d.Accounts.Transfer(ctx, sender, receiver, amount); err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			return &command.Reply{Text: docs.InsufficientFunds}, nil
		}
		return nil, fmt.Errorf("transfer %s -> %s: %w", sender, receiver, err)
	}
	return &command.Reply{Text: fmt.Sprintf(docs.GiveSuccess, amount, receiver)}, nil
}

func (d *Deps) usageGive(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	return &command.Reply{Text: docs.UsageGive}, nil
}

func (d *Deps) handleDonate(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	selection := inv.Args.Int("selection")
	amount := amountFilter(inv.Args.Float("amount"))

	donors, err := d.Accounts.ListDonors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list donors: %w", err)
	}
	if selection < 1 || selection > len(donors) {
		return &command.Reply{Text: docs.InvalidSelection}, nil
	}
	if amount <= 0 {
		return &command.Reply{Text: docs.InvalidAmount}, nil
	}
	return d.donate(ctx, inv.Message.Sender.ID, donors[selection-1], amount)
}

func (d *Deps) usageDonate(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	donors, err := d.Accounts.ListDonors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list donors: %w", err)
	}
	names := make([]string, len(donors))
	for i, donor := range donors {
		names[i] = donor.Name
	}
	return &command.Reply{Text: docs.IndexList(docs.UsageDonate, names)}, nil
}

func (d *Deps) handleRdonate(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	amount := amountFilter(inv.Args.Float("amount"))
	if amount <= 0 {
		return &command.Reply{Text: docs.InvalidAmount}, nil
	}

	donors, err := d.Accounts.ListDonors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list donors: %w", err)
	}
	// The sender never draws themselves.
	sender := inv.Message.Sender.ID
	candidates := donors[:0:0]
	for _, donor := range donors {
		if donor.UserID != sender {
			candidates = append(candidates, donor)
		}
	}
	if len(candidates) == 0 {
		return &command.Reply{Text: docs.InvalidSelection}, nil
	}
	return d.donate(ctx, sender, candidates[rand.Intn(len(candidates))], amount)
}

func (d *Deps) usageRdonate(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	return &command.Reply{Text: docs.UsageRdonate}, nil
}

func (d *Deps) donate(ctx context.Context, sender string, donor store.Donor, amount float64) (*command.Reply, error) {
	if donor.UserID == sender {
		return &command.Reply{Text: docs.CannotSendSelf}, nil
	}
	if err := d.Accounts.Transfer(ctx, sender, donor.UserID, amount); err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			return &command.Reply{Text: docs.InsufficientFunds}, nil
		}
		return nil, fmt.Errorf("donate %s -> %s: %w", sender, donor.UserID, err)
	}
	return &command.Reply{Text: fmt.Sprintf(docs.DonateSuccess, amount, donor.Name)}, nil
}

func (d *Deps) handleFgive(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	amount := amountFilter(inv.Args.Float("amount"))
	if amount <= 0 {
		return &command.Reply{Text: docs.InvalidAmount}, nil
	}
	sender := inv.Message.Sender.ID
	if err := d.Accounts.Transfer(ctx, sender, store.FaucetAccount, amount); err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			return &command.Reply{Text: docs.InsufficientFunds}, nil
		}
		return nil, fmt.Errorf("faucet top-up from %s: %w", sender, err)
	}
	return &command.Reply{Text: docs.FaucetThankyou}, nil
}

func (d *Deps) usageFgive(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	return &command.Reply{Text: docs.UsageFgive}, nil
}
