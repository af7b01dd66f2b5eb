package commands

import (
	"github.com/keshon/walletkeeper/internal/command"
)

// Register declares every command on the registry. Guard lists put the
// in-memory checks ahead of the account lookup so a denial costs no I/O.
// Any name or alias collision surfaces here, at startup.
func Register(reg *command.Registry, d *Deps) error {
	account := requiresAccount(d.Accounts)
	mainOnly := mainChannelOnly(d.Channels)
	owner := ownerOnly(d.Cfg.OwnerID)
	guild := guildOnly()

	descriptors := []*command.Descriptor{
		{
			Name:        "new",
			Description: "Register a wallet account",
			Category:    "Account",
			Handler:     d.handleNew,
		},
		{
			Name:        "balance",
			Aliases:     []string{"bal"},
			Description: "Show your balance",
			Category:    "Account",
			Guards:      []command.Guard{account},
			Handler:     d.handleBalance,
		},
		{
			Name:        "address",
			Aliases:     []string{"addr", "deposit"},
			Description: "Show your deposit address",
			Category:    "Account",
			Guards:      []command.Guard{mainOnly, account},
			Handler:     d.handleAddress,
		},
		{
			Name:        "account",
			Aliases:     []string{"me", "acc"},
			Description: "Show your account statistics",
			Category:    "Account",
			Guards:      []command.Guard{mainOnly, account},
			Handler:     d.handleAccount,
		},
		{
			Name:        "time",
			Description: "Show your cooldown timers",
			Category:    "Account",
			Guards:      []command.Guard{mainOnly, account},
			Handler:     d.handleTime,
		},
		{
			Name:        "withdraw",
			Aliases:     []string{"wdr", "send"},
			Description: "Send funds to an on-chain address",
			Category:    "Transfers",
			Args: []command.Arg{
				{Name: "address", Kind: command.ArgString},
				{Name: "amount", Kind: command.ArgFloat},
			},
			Guards:  []command.Guard{mainOnly, account},
			Handler: d.handleWithdraw,
			Usage:   d.usageWithdraw,
		},
		{
			Name:        "give",
			Aliases:     []string{"tip"},
			Description: "Tip another member",
			Category:    "Transfers",
			Args: []command.Arg{
				{Name: "user", Kind: command.ArgMention},
				{Name: "amount", Kind: command.ArgFloat},
			},
			Guards:  []command.Guard{guild, account},
			Handler: d.handleGive,
			Usage:   d.usageGive,
		},
		{
			Name:        "donate",
			Description: "Donate to a listed contributor",
			Category:    "Transfers",
			Args: []command.Arg{
				{Name: "selection", Kind: command.ArgInt},
				{Name: "amount", Kind: command.ArgFloat},
			},
			Guards:  []command.Guard{mainOnly, account},
			Handler: d.handleDonate,
			Usage:   d.usageDonate,
		},
		{
			Name:        "rdonate",
			Description: "Donate to a random contributor",
			Category:    "Transfers",
			Args: []command.Arg{
				{Name: "amount", Kind: command.ArgFloat},
			},
			Guards:  []command.Guard{mainOnly, account},
			Handler: d.handleRdonate,
			Usage:   d.usageRdonate,
		},
		{
			Name:        "fgive",
			Description: "Top up the faucet",
			Category:    "Transfers",
			Args: []command.Arg{
				{Name: "amount", Kind: command.ArgFloat},
			},
			Guards:  []command.Guard{account},
			Handler: d.handleFgive,
			Usage:   d.usageFgive,
		},
		{
			Name:        "faucet",
			Aliases:     []string{"fct", "get"},
			Description: "Claim from the faucet",
			Category:    "Community",
			Guards:      []command.Guard{guild, mainOnly, account},
			Handler:     d.handleFaucet,
		},
		{
			Name:        "rain",
			Description: "Contribute to the rain pot",
			Category:    "Community",
			Args: []command.Arg{
				{Name: "amount", Kind: command.ArgFloat},
			},
			Guards:  []command.Guard{guild},
			Handler: d.handleRain,
			Usage:   d.usageRain,
		},
		{
			Name:        "qr",
			Description: "Render your address (or any text) as a QR code",
			Category:    "Community",
			Args: []command.Arg{
				{Name: "text", Kind: command.ArgRest, Optional: true},
			},
			Guards:  []command.Guard{guild, mainOnly, account},
			Handler: d.handleQR,
		},
		{
			Name:        "help",
			Description: "Show help",
			Category:    "Info",
			Args: []command.Arg{
				{Name: "command", Kind: command.ArgString, Optional: true},
			},
			Guards:  []command.Guard{mainOnly},
			Handler: d.handleHelp,
		},
		{
			Name:        "info",
			Description: "About this bot",
			Category:    "Info",
			Guards:      []command.Guard{mainOnly},
			Handler:     d.handleInfo,
		},
		{
			Name:        "faq",
			Description: "Show a FAQ entry",
			Category:    "Info",
			Args: []command.Arg{
				{Name: "entry", Kind: command.ArgInt},
			},
			Guards:  []command.Guard{mainOnly},
			Handler: d.handleFAQ,
			Usage:   d.usageFAQ,
		},
		{
			Name:        "block",
			Description: "Show a block by height",
			Category:    "Info",
			Args: []command.Arg{
				{Name: "height", Kind: command.ArgInt, Optional: true},
			},
			Handler: d.handleBlock,
		},
		{
			Name:        "status",
			Description: "Bot and chain status",
			Category:    "Info",
			Guards:      []command.Guard{mainOnly},
			Handler:     d.handleStatus,
		},
		{
			Name:        "rules",
			Description: "House rules, delivered by DM",
			Category:    "Info",
			Handler:     d.handleRules,
		},
		{
			Name:        "terms",
			Description: "Terms of service, delivered by DM",
			Category:    "Info",
			Handler:     d.handleTerms,
		},
		{
			Name:        "moon",
			Aliases:     []string{"grcmoon", "whenmoon", "lambo", "whenlambo"},
			Description: "When moon?",
			Category:    "Info",
			Handler:     d.handleMoon,
		},
		{
			Name:        "ping",
			Description: "Pong!",
			Category:    "Info",
			Handler:     d.handlePing,
		},
		{
			Name:        "invite",
			Description: "Server invite link",
			Category:    "Info",
			Handler:     d.handleInvite,
		},
		{
			Name:        "blist",
			Description: "Manage the ban list",
			Category:    "Admin",
			Args: []command.Arg{
				{Name: "action", Kind: command.ArgString, Optional: true},
				{Name: "id", Kind: command.ArgString, Optional: true},
			},
			Guards:  []command.Guard{owner},
			Handler: d.handleBlist,
		},
		{
			Name:        "bin",
			Description: "Burn coins to an address",
			Category:    "Admin",
			Args: []command.Arg{
				{Name: "address", Kind: command.ArgString},
				{Name: "amount", Kind: command.ArgFloat},
			},
			Guards:  []command.Guard{owner},
			Handler: d.handleBin,
		},
		{
			Name:        "stat",
			Description: "Show account statistics for a user",
			Category:    "Admin",
			Args: []command.Arg{
				{Name: "id", Kind: command.ArgString, Optional: true},
			},
			Guards:  []command.Guard{owner},
			Handler: d.handleStat,
		},
		{
			Name:        "channel",
			Description: "Allow-list a channel",
			Category:    "Admin",
			Args: []command.Arg{
				{Name: "id", Kind: command.ArgString},
			},
			Guards:  []command.Guard{owner},
			Handler: d.handleChannel,
			Usage:   d.usageChannel,
		},
		{
			Name:        "announce",
			Description: "Broadcast to the main channels",
			Category:    "Admin",
			Args: []command.Arg{
				{Name: "text", Kind: command.ArgRest},
			},
			Guards:  []command.Guard{owner},
			Handler: d.handleAnnounce,
			Usage:   d.usageAnnounce,
		},
	}

	for _, desc := range descriptors {
		if err := reg.Register(desc); err != nil {
			return err
		}
	}
	return nil
}
