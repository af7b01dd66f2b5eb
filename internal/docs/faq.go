package docs

// FAQ entries shown by the faq command, 1-indexed for users.
var FAQ = []struct {
	Question string
	Answer   string
}{
	{
		Question: "What is this bot?",
		Answer:   "A custodial wallet for this server: it keeps a small balance for you so you can tip, donate and receive rain without running a wallet yourself.",
	},
	{
		Question: "Is my money safe here?",
		Answer:   "Balances live in a hot wallet operated by the server staff. Keep only pocket change here; withdraw anything you care about to your own wallet.",
	},
	{
		Question: "How do I deposit?",
		Answer:   "Type `%address` and send coins to the address shown. Deposits are credited after confirmation.",
	},
	{
		Question: "How do I withdraw?",
		Answer:   "Type `%wdr [address] [amount]`. A small service fee is deducted to cover the network transaction.",
	},
	{
		Question: "What is rain?",
		Answer:   "Members pay into a shared pot with `%rain [amount]`. When the pot is full it is split over recently active members.",
	},
	{
		Question: "Why does the bot ignore me?",
		Answer:   "Very new Discord accounts, very fast repeat messages and banned users are ignored. Slow down, or come back when your account is older.",
	},
}

// FAQIndex renders the numbered FAQ listing.
func FAQIndex() string {
	questions := make([]string, len(FAQ))
	for i, entry := range FAQ {
		questions[i] = entry.Question
	}
	return IndexList(Info+"**FAQ** — type `%faq [number]` to read an entry.", questions)
}

const Rules = Info + `**House rules**
1. The bot holds pocket change, not savings. Withdraw what matters.
2. No spam, no throwaway accounts, no automation against the bot.
3. Staff may freeze or reverse abusive balances.
4. Bans from the server mean bans from the bot.`

const Terms = Info + `**Terms of service**
The wallet is operated best-effort by server staff. Balances are IOUs
against a shared hot wallet; in case of loss, theft or shutdown there is no
guarantee of reimbursement. By registering an account you accept this risk.`

const About = Info + `**Walletkeeper** — a custodial tip and wallet bot for this server.
Deposit, tip, donate, catch the rain. Type ` + "`%help`" + ` to get started.`
