package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/keshon/walletkeeper/internal/blacklist"
	"github.com/keshon/walletkeeper/internal/command"
	"github.com/keshon/walletkeeper/internal/commands"
	"github.com/keshon/walletkeeper/internal/config"
	"github.com/keshon/walletkeeper/internal/discord"
	"github.com/keshon/walletkeeper/internal/docs"
	"github.com/keshon/walletkeeper/internal/gateway"
	"github.com/keshon/walletkeeper/internal/history"
	"github.com/keshon/walletkeeper/internal/price"
	"github.com/keshon/walletkeeper/internal/rain"
	"github.com/keshon/walletkeeper/internal/store"
	"github.com/keshon/walletkeeper/internal/throttle"
	v "github.com/keshon/walletkeeper/internal/version"
	"github.com/keshon/walletkeeper/internal/wallet"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   cfg.LogPath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}))
	log.Printf("[INFO] Starting %v bot...", v.AppName)

	keyBytes, err := os.ReadFile(cfg.APIKeyFile)
	if err != nil {
		log.Printf("[ERR] Failed to load API key from %s: %v", cfg.APIKeyFile, err)
		os.Exit(1)
	}
	token := strings.TrimSpace(string(keyBytes))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledger, err := store.Open(cfg.PostgresDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer ledger.Close()

	walletClient := wallet.New(wallet.Config{
		URL:      cfg.WalletRPCURL,
		User:     cfg.WalletRPCUser,
		Password: cfg.WalletRPCPassword,
	})

	policy := blacklist.New()
	channels := gateway.NewChannelList()
	rainPool := rain.New(ledger, store.RainAccount, cfg.RainThreshold, cfg.RainMinActive, cfg.RainActiveSpan)
	prices := price.New(cfg.PriceAPIURL, cfg.PriceTTL)

	audit, err := history.New(cfg.HistoryPath)
	if err != nil {
		log.Fatal(err)
	}
	defer audit.Close()

	bot, err := discord.New(cfg, token, channels)
	if err != nil {
		log.Fatal(err)
	}

	registry := command.NewRegistry()
	deps := &commands.Deps{
		Cfg:       cfg,
		Wallet:    walletClient,
		Accounts:  ledger,
		Policy:    policy,
		Channels:  channels,
		Rain:      rainPool,
		Price:     prices,
		Latency:   bot.Latency,
		Announce:  bot.Announce,
		StartedAt: time.Now(),
	}
	if err := commands.Register(registry, deps); err != nil {
		log.Fatal(err)
	}

	sequencer := gateway.NewSequencer(
		func(step string, err error) {
			log.Printf("[ERR] Cannot start without %q, shutting down", step)
			bot.Close()
			os.Exit(1)
		},
		gateway.Step{Name: "wallet height", Fatal: true, Run: func(ctx context.Context) error {
			height, err := walletClient.BlockCount(ctx)
			if err != nil {
				return err
			}
			if height <= cfg.HeightErrorThreshold {
				return fmt.Errorf("implausible chain height %d", height)
			}
			return nil
		}},
		gateway.Step{Name: "ledger sentinel", Fatal: true, Run: func(ctx context.Context) error {
			exists, err := ledger.Exists(ctx, store.FaucetAccount)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("faucet account %q missing", store.FaucetAccount)
			}
			return nil
		}},
		gateway.Step{Name: "ban list", Fatal: true, Run: func(ctx context.Context) error {
			entries, err := ledger.ListBlacklisted(ctx)
			if err != nil {
				return err
			}
			policy.Load(entries)
			return nil
		}},
		gateway.Step{Name: "wallet unlock", Fatal: true, Run: func(ctx context.Context) error {
			if cfg.WalletPassphrase == "" {
				return nil
			}
			return walletClient.Unlock(ctx, cfg.WalletPassphrase, 0)
		}},
		gateway.Step{Name: "rain pool", Fatal: true, Run: rainPool.Verify},
		gateway.Step{Name: "main channels", Fatal: false, Run: func(ctx context.Context) error {
			// Failure leaves the channel list unrestricted; commands then
			// work everywhere instead of nowhere.
			ids, err := ledger.ListMainChannels(ctx)
			if err != nil {
				return err
			}
			channels.Load(ids)
			return nil
		}},
	)

	limiter := throttle.New(cfg.MinMessageInterval)
	go throttle.RunSweeper(ctx, limiter, 10*time.Minute, time.Hour)

	dispatcher := gateway.NewDispatcher(gateway.DispatcherConfig{
		Prefix:   cfg.CommandPrefix,
		Grace:    cfg.GracePeriod(),
		Registry: registry,
		Throttle: limiter,
		Policy:   policy,
		Ready:    sequencer.Ready,
		Texts: gateway.Texts{
			TooNew:            docs.TooNew,
			UnknownCommand:    docs.InvalidCommand,
			NoAccount:         docs.NoAccount,
			WrongChannel:      docs.WrongChannel,
			NotAuthorized:     docs.NotAuthorized,
			PrivateNotAllowed: docs.PMRestrict,
			MissingArgument:   docs.Info + "Command `%s` is missing its `%s` argument.",
			InternalError:     docs.GenericFailure,
		},
		Observe: func(msg *command.Message) {
			rainPool.MarkActive(msg.Sender.ID, msg.ReceivedAt)
		},
		Audit: func(msg *command.Message, cmdName string) {
			if err := audit.Append(history.Entry{
				UserID:    msg.Sender.ID,
				Username:  msg.Sender.Name,
				ChannelID: msg.ChannelID,
				Command:   cmdName,
				Private:   msg.Private,
				Datetime:  msg.ReceivedAt,
			}); err != nil {
				log.Println("[WARN] History append failed:", err)
			}
		},
	})

	bot.Attach(dispatcher, sequencer)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
