package docs

import (
	"fmt"
	"sort"
	"strings"
)

// HelpMain is the top-level help page.
const HelpMain = Info + `**Walletkeeper commands**
Type ` + "`%help [command]`" + ` for details on one command.

**Account**: new, balance, address, account, time
**Transfers**: withdraw, give, donate, rdonate, fgive
**Community**: faucet, rain, qr
**Info**: info, faq, block, status, rules, terms, moon, ping, invite`

// HelpTopics maps a command name to its detailed help text.
var HelpTopics = map[string]string{
	"new":      "Registers a wallet account and gives you a deposit address.",
	"balance":  "Shows your balance and deposit address. Alias: bal.",
	"address":  "Shows your deposit address. Aliases: addr, deposit.",
	"withdraw": "Sends funds to an on-chain address: `%wdr [address] [amount]`. Aliases: wdr, send.",
	"give":     "Tips another member: `%give [@user] [amount]`. Alias: tip.",
	"donate":   "Donates to a listed contributor: `%donate [selection] [amount]`.",
	"rdonate":  "Donates to a random contributor: `%rdonate [amount]`.",
	"fgive":    "Tops up the faucet: `%fgive [amount]`.",
	"faucet":   "Claims a small amount from the faucet. Aliases: fct, get.",
	"rain":     "Contributes to the rain pot: `%rain [amount]`. Bare `%rain` shows the pot.",
	"qr":       "Sends a QR code of your deposit address, or of given text: `%qr [text]`.",
	"account":  "Shows your account statistics. Aliases: me, acc.",
	"time":     "Shows your faucet cooldown timers.",
	"faq":      "Shows a FAQ entry: `%faq [number]`. Bare `%faq` lists entries.",
	"block":    "Shows a block by height, or the chain tip: `%block [height]`.",
	"status":   "Shows bot, chain and price status.",
	"rules":    "Sends the rules to your DMs.",
	"terms":    "Sends the terms of service to your DMs.",
	"ping":     "Measures bot responsiveness.",
	"invite":   "Shows the server invite link.",
	"moon":     "When moon?",
}

// HelpFor returns detailed help for one command, or the main page when the
// topic is unknown.
func HelpFor(topic string) string {
	if text, ok := HelpTopics[topic]; ok {
		return fmt.Sprintf("%s**%%%s** — %s", Info, topic, text)
	}
	return HelpMain
}

// IndexList renders a numbered index with a heading, as used by the donate
// and FAQ listings.
func IndexList(heading string, items []string) string {
	var b strings.Builder
	b.WriteString(heading)
	for i, item := range items {
		fmt.Fprintf(&b, "\n`%d.` %s", i+1, item)
	}
	return b.String()
}

// SortedTopics returns help topic names in alphabetical order.
func SortedTopics() []string {
	names := make([]string, 0, len(HelpTopics))
	for name := range HelpTopics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
