package version

var (
	AppName     = "Walletkeeper"
	AppFullName = "Walletkeeper Discord Wallet Bot"
)
