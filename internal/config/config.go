package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries every tunable of the gateway. Business values (intervals,
// thresholds, fees) live here and never in code.
type Config struct {
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"%"`
	OwnerID       string `env:"OWNER_ID,required"`
	APIKeyFile    string `env:"API_KEY_FILE" envDefault:"API.key"`

	PostgresDSN string `env:"POSTGRES_DSN,required"`

	WalletRPCURL      string `env:"WALLET_RPC_URL" envDefault:"http://127.0.0.1:15715"`
	WalletRPCUser     string `env:"WALLET_RPC_USER"`
	WalletRPCPassword string `env:"WALLET_RPC_PASSWORD"`
	WalletPassphrase  string `env:"WALLET_PASSPHRASE"`

	// Messages closer together than this are dropped per sender.
	MinMessageInterval time.Duration `env:"MIN_MESSAGE_INTERVAL" envDefault:"1s"`

	// Discord accounts younger than this cannot issue commands.
	NewUserGraceDays int `env:"NEW_USER_GRACE_DAYS" envDefault:"7"`

	// Wallet RPC clients signal errors with small block heights; anything at
	// or below this value means the wallet is not actually serving.
	HeightErrorThreshold int64 `env:"HEIGHT_ERROR_THRESHOLD" envDefault:"5"`

	WithdrawFee    float64       `env:"WITHDRAW_FEE" envDefault:"0.01"`
	FaucetAmount   float64       `env:"FAUCET_AMOUNT" envDefault:"0.25"`
	FaucetCooldown time.Duration `env:"FAUCET_COOLDOWN" envDefault:"24h"`

	RainThreshold  float64       `env:"RAIN_THRESHOLD" envDefault:"50"`
	RainMinActive  int           `env:"RAIN_MIN_ACTIVE" envDefault:"3"`
	RainActiveSpan time.Duration `env:"RAIN_ACTIVE_SPAN" envDefault:"30m"`

	PriceAPIURL string        `env:"PRICE_API_URL" envDefault:"https://api.coingecko.com/api/v3/simple/price?ids=gridcoin-research&vs_currencies=usd"`
	PriceTTL    time.Duration `env:"PRICE_TTL" envDefault:"5m"`

	HistoryPath string `env:"HISTORY_PATH" envDefault:"data/history.json"`
	LogPath     string `env:"LOG_PATH" envDefault:"logs/walletkeeper.log"`

	ServerInvite string `env:"SERVER_INVITE"`
}

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

// New parses the environment into a Config.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// GracePeriod returns the new-account grace window as a duration.
func (c *Config) GracePeriod() time.Duration {
	return time.Duration(c.NewUserGraceDays) * 24 * time.Hour
}
