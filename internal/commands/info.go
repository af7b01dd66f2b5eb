package commands

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/keshon/walletkeeper/internal/command"
	"github.com/keshon/walletkeeper/internal/docs"
)

const explorerBlockURL = "https://gridcoinstats.eu/block/%d"

func (d *Deps) handleHelp(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	if topic := inv.Args.String("command"); topic != "" {
		return &command.Reply{Text: docs.HelpFor(topic)}, nil
	}
	return &command.Reply{Text: docs.HelpMain}, nil
}

func (d *Deps) handleInfo(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	return &command.Reply{Text: docs.About}, nil
}

func (d *Deps) handleFAQ(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	entry := inv.Args.Int("entry")
	if entry < 1 || entry > len(docs.FAQ) {
		return &command.Reply{Text: docs.InvalidSelection}, nil
	}
	item := docs.FAQ[entry-1]
	return &command.Reply{
		Text:       fmt.Sprintf("%s**Q:** %s\n**A:** %s", docs.Info, item.Question, item.Answer),
		DM:         true,
		DMFallback: docs.DMFailed,
		React:      true,
	}, nil
}

func (d *Deps) usageFAQ(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	return &command.Reply{Text: docs.FAQIndex()}, nil
}

func (d *Deps) handleBlock(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	var height int64
	if inv.Args.Has("height") {
		height = int64(inv.Args.Int("height"))
	} else {
		tip, err := d.Wallet.BlockCount(ctx)
		if err != nil {
			return nil, fmt.Errorf("block count: %w", err)
		}
		height = tip
	}
	if height < 0 {
		return &command.Reply{Text: docs.InvalidSelection}, nil
	}
	link := fmt.Sprintf(explorerBlockURL, height)
	return &command.Reply{Text: fmt.Sprintf(docs.BlockInfo, height, link)}, nil
}

func (d *Deps) handleStatus(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	uptime := time.Since(d.StartedAt).Round(time.Second)

	height, err := d.Wallet.BlockCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("block count: %w", err)
	}

	price := docs.PriceUnavailable
	if usd, err := d.Price.USD(ctx); err == nil {
		price = fmt.Sprintf("$%.4f", usd)
	}
	return &command.Reply{Text: fmt.Sprintf(docs.StatusTemplate, uptime, height, price)}, nil
}

func (d *Deps) handleRules(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	return &command.Reply{Text: docs.Rules, DM: true, DMFallback: docs.DMFailed, React: true}, nil
}

func (d *Deps) handleTerms(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	return &command.Reply{Text: docs.Terms, DM: true, DMFallback: docs.DMFailed, React: true}, nil
}

func (d *Deps) handleMoon(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	return &command.Reply{Text: docs.MoonLines[rand.Intn(len(docs.MoonLines))]}, nil
}

func (d *Deps) handlePing(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	return &command.Reply{Text: fmt.Sprintf(docs.PingTemplate, d.Latency().Round(time.Millisecond))}, nil
}

func (d *Deps) handleInvite(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	if d.Cfg.ServerInvite == "" {
		return &command.Reply{Text: docs.NoInvite}, nil
	}
	return &command.Reply{Text: docs.Info + d.Cfg.ServerInvite}, nil
}

func (d *Deps) handleQR(ctx context.Context, inv *command.Invocation) (*command.Reply, error) {
	content := inv.Args.String("text")
	if content == "" {
		acc, err := d.Accounts.Get(ctx, inv.Message.Sender.ID)
		if err != nil {
			return nil, fmt.Errorf("read account: %w", err)
		}
		content = acc.Address
	}

	png, err := qrcode.Encode(content, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return &command.Reply{
		File: &command.File{
			Name:        inv.Message.Sender.Name + ".png",
			ContentType: "image/png",
			Data:        png,
		},
	}, nil
}
