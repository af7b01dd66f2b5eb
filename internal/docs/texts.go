// Package docs holds every user-facing text of the bot. Handlers and the
// dispatcher format replies from here; nothing user-visible is assembled
// elsewhere.
package docs

// Emote prefixes used across replies.
const (
	Info  = "ℹ️ "
	Error = "❌ "
	Good  = "✅ "
	Give  = "🎁 "
	Bal   = "💰 "
)

const (
	TooNew = Info + "Your Discord account is too new to use this bot. Come back in a few days."

	InvalidCommand = Info + "Invalid command. Type `%help` for help."

	NoAccount = Error + "You do not have an account. (type `%new` to register or type `%help` for help)"

	PMRestrict = Error + "This command cannot be used in private messages."

	WrongChannel = Error + "This command can only be used in the designated bot channels or via direct message."

	NotAuthorized = Error + "You are not allowed to use this command."

	GenericFailure = Error + "Something went wrong while processing your command. Please try again later."

	DMFailed = Error + "I could not send you a direct message. Please enable DMs from server members."

	Welcome = Info + "Welcome! Creating your wallet account..."

	// Formatted with the fresh deposit address.
	NewUserSuccess = Good + "Your account is ready. Your deposit address is:\n`%s`\nKeep it safe and read `%%rules` and `%%terms`."

	NewUserFail = Error + "Your account could not be created right now. Please try again later."

	AlreadyUser = Info + "You already have an account. Type `%balance` to see it."

	CannotSendSelf = Error + "You cannot send funds to yourself."

	InvalidUser = Error + "Invalid user specified."

	FaucetThankyou = Give + "Thank you for topping up the faucet!"

	// Formatted with address, balance and the fiat tag.
	BalanceTemplate = Bal + "Deposit address: `%s`\nBalance: %.8f %s"

	// Formatted with the remaining cooldown.
	FaucetCooldownMsg = Info + "The faucet is dry for you right now. Try again in %s."

	// Formatted with amount and txid.
	WithdrawSuccess = Good + "Sent %.8f to `%s`.\nTransaction: `%s`"

	InvalidAddress = Error + "That does not look like a valid address."

	AmountTooSmall = Error + "Amount is too small to send after the service fee."

	InsufficientFunds = Error + "You do not have enough funds for that."

	NoInvite = Info + "No server invite is configured."

	AnnounceTitle = "📣 **Announcement**\n"

	InvalidAmount = Error + "Please specify a positive amount."

	InvalidSelection = Error + "That is not one of the listed options."

	// Formatted with amount and the receiving user id.
	GiveSuccess = Good + "Sent %.8f to <@%s>."

	// Formatted with amount and the donor name.
	DonateSuccess = Give + "Donated %.8f to %s. Thank you!"

	FaucetEmpty = Info + "The faucet is empty. Top it up with `%fgive`!"

	// Formatted with the claimed amount.
	FaucetSuccess = Good + "You received %.8f from the faucet."

	// Formatted with height and an explorer link.
	BlockInfo = Info + "Block %d: %s"

	UsageBlist = Info + "Usage: `%blist` to list, `%blist ban [id]`, `%blist banpublic [id]`, `%blist unban [id]`."

	NoneBanned = Info + "Nobody is banned."

	// Formatted with the deposit address.
	AddressTemplate = Bal + "Your deposit address: `%s`"

	// Formatted with user id, registration date, balance, fiat tag and
	// faucet claim count.
	AccountTemplate = Info + "**Account** <@%s>\nRegistered: %s\nBalance: %.8f %s\nFaucet claims: %d"

	FaucetReady = Info + "Your faucet is ready. Type `%faucet` to claim."

	// Formatted with the remaining cooldown.
	FaucetTimer = Info + "Faucet cooldown: %s remaining."

	// Formatted with uptime, block height and the price line.
	StatusTemplate = Info + "**Status**\nUptime: %s\nBlock height: %d\nPrice: %s"

	PriceUnavailable = "unavailable"

	// Formatted with the gateway heartbeat latency.
	PingTemplate = Info + "Pong! %s"

	// Formatted with the banned user id.
	BanAdded = Good + "Banned %s."

	// Formatted with the unbanned user id.
	BanRemoved = Good + "Unbanned %s."

	// Formatted with the user id.
	BanMissing = Info + "%s is not banned."

	// Formatted with the channel count.
	AnnouncedTemplate = Good + "Announced to %d channel(s)."

	// Formatted with amount, address and txid.
	BinSuccess = Good + "Burned %.8f to `%s`.\nTransaction: `%s`"
)

// Usage texts sent when a required argument is missing.
const (
	// Formatted with the service fee.
	UsageWithdraw = Info + "To withdraw from your account type: `%%wdr [address to send to] [amount]`\nA service fee of %.2f is subtracted from what you send. If you wish to send funds to someone in the server, use `%%give`."
	UsageRdonate  = Give + "To donate to a random contributor type: `%rdonate [amount]`"
	UsageGive     = Info + "To give funds to a member in the server, type `%give [mention of user] [amount to give]`.\nThe person must also have an account with the bot."
	UsageFgive    = Error + "Please specify an amount to give."
	UsageDonate   = Give + "Be generous! Below are possible donation options.\nTo donate, type `%donate [selection no.] [amount]`\n"
	UsageChannel  = Info + "Specify the channel id to allow: `%channel [id]`"
	UsageAnnounce = Info + "Nothing to announce."
)

// MoonLines is the pool of replies for the moon command.
var MoonLines = []string{
	"🌕 Soon™.",
	"🚀 The moon is closer every block.",
	"📈 Zoom out.",
	"🛰️ Lambo dealership called, they said keep staking.",
}
