package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/walletkeeper/internal/blacklist"
	"github.com/keshon/walletkeeper/internal/command"
	"github.com/keshon/walletkeeper/internal/config"
	"github.com/keshon/walletkeeper/internal/gateway"
	"github.com/keshon/walletkeeper/internal/store"
)

// memStore is an in-memory store.Store for handler tests.
type memStore struct {
	accounts map[string]*store.Account
	donors   []store.Donor
	channels []string
	bans     map[string]bool
}

var _ store.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[string]*store.Account),
		bans:     make(map[string]bool),
	}
}

func (m *memStore) addAccount(id string, balance float64) *store.Account {
	acc := &store.Account{
		UserID:    id,
		Address:   "addr-" + id,
		Balance:   balance,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	m.accounts[id] = acc
	return acc
}

func (m *memStore) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.accounts[id]
	return ok, nil
}

func (m *memStore) Get(ctx context.Context, id string) (*store.Account, error) {
	acc, ok := m.accounts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *acc
	return &copied, nil
}

func (m *memStore) Create(ctx context.Context, id, address string) error {
	m.accounts[id] = &store.Account{UserID: id, Address: address, CreatedAt: time.Now()}
	return nil
}

func (m *memStore) Credit(ctx context.Context, id string, amount float64) error {
	acc, ok := m.accounts[id]
	if !ok {
		return store.ErrNotFound
	}
	acc.Balance += amount
	return nil
}

func (m *memStore) Debit(ctx context.Context, id string, amount float64) error {
	acc, ok := m.accounts[id]
	if !ok {
		return store.ErrNotFound
	}
	if acc.Balance < amount {
		return store.ErrInsufficientFunds
	}
	acc.Balance -= amount
	return nil
}

func (m *memStore) Transfer(ctx context.Context, from, to string, amount float64) error {
	if err := m.Debit(ctx, from, amount); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrInsufficientFunds
		}
		return err
	}
	return m.Credit(ctx, to, amount)
}

func (m *memStore) RecordFaucetClaim(ctx context.Context, id string, at time.Time) error {
	acc, ok := m.accounts[id]
	if !ok {
		return store.ErrNotFound
	}
	acc.FaucetClaims++
	acc.LastFaucetAt = at
	return nil
}

func (m *memStore) ListDonors(ctx context.Context) ([]store.Donor, error) {
	return m.donors, nil
}

func (m *memStore) ListMainChannels(ctx context.Context) ([]string, error) {
	return m.channels, nil
}

func (m *memStore) AddMainChannel(ctx context.Context, id string) error {
	m.channels = append(m.channels, id)
	return nil
}

func (m *memStore) ListBlacklisted(ctx context.Context) ([]blacklist.Entry, error) {
	var out []blacklist.Entry
	for id, publicOnly := range m.bans {
		out = append(out, blacklist.Entry{UserID: id, PublicOnly: publicOnly})
	}
	return out, nil
}

func (m *memStore) SetBlacklisted(ctx context.Context, id string, publicOnly bool) error {
	m.bans[id] = publicOnly
	return nil
}

func (m *memStore) RemoveBlacklisted(ctx context.Context, id string) error {
	delete(m.bans, id)
	return nil
}

func (m *memStore) Close() error { return nil }

type fakeWallet struct {
	height    int64
	nextAddr  string
	sendErr   error
	sent      []string
	validAddr map[string]bool
}

func (f *fakeWallet) BlockCount(ctx context.Context) (int64, error) { return f.height, nil }
func (f *fakeWallet) NewAddress(ctx context.Context) (string, error) {
	return f.nextAddr, nil
}
func (f *fakeWallet) SendToAddress(ctx context.Context, address string, amount float64) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, fmt.Sprintf("%s:%.8f", address, amount))
	return "txid-1", nil
}
func (f *fakeWallet) ValidateAddress(ctx context.Context, address string) (bool, error) {
	return f.validAddr[address], nil
}

type fakeRain struct {
	canTrigger bool
	triggered  bool
}

func (f *fakeRain) CanTrigger(ctx context.Context) bool { return f.canTrigger }
func (f *fakeRain) Trigger(ctx context.Context) (string, error) {
	f.triggered = true
	return "it rains", nil
}
func (f *fakeRain) Contribute(ctx context.Context, from string, amount float64) (string, error) {
	return "thank you", nil
}
func (f *fakeRain) StatusText(ctx context.Context) string { return "pot status" }

type fakePrice struct{}

func (fakePrice) USD(ctx context.Context) (float64, error)      { return 0.01, nil }
func (fakePrice) Tag(ctx context.Context, amount float64) string { return "(~$0.01)" }

func testDeps(t *testing.T) (*Deps, *memStore, *fakeWallet) {
	t.Helper()
	ledger := newMemStore()
	w := &fakeWallet{height: 100, nextAddr: "fresh-addr", validAddr: map[string]bool{"good-addr": true}}
	deps := &Deps{
		Cfg: &config.Config{
			OwnerID:        "owner",
			WithdrawFee:    0.01,
			FaucetAmount:   0.25,
			FaucetCooldown: 24 * time.Hour,
		},
		Wallet:    w,
		Accounts:  ledger,
		Policy:    blacklist.New(),
		Channels:  gateway.NewChannelList(),
		Rain:      &fakeRain{},
		Price:     fakePrice{},
		Latency:   func() time.Duration { return 42 * time.Millisecond },
		Announce:  func(text string) int { return 1 },
		StartedAt: time.Now(),
	}
	return deps, ledger, w
}

func invocation(senderID string, args command.Args) *command.Invocation {
	return &command.Invocation{
		Message: &command.Message{
			Sender:     command.Sender{ID: senderID, Name: senderID},
			ChannelID:  "chan",
			ReceivedAt: time.Now(),
		},
		Args: args,
	}
}

func TestRegisterAllCommands(t *testing.T) {
	deps, _, _ := testDeps(t)
	reg := command.NewRegistry()
	require.NoError(t, Register(reg, deps))

	// Canonical names and a sample of aliases must resolve.
	for _, token := range []string{
		"new", "balance", "bal", "address", "deposit", "withdraw", "wdr", "send",
		"give", "tip", "donate", "rdonate", "fgive", "faucet", "get", "rain",
		"qr", "help", "info", "faq", "block", "status", "rules", "terms",
		"moon", "whenlambo", "ping", "invite", "blist", "bin", "stat",
		"channel", "announce", "account", "me", "time",
	} {
		_, ok := reg.Resolve(token)
		assert.True(t, ok, token)
	}
}

func TestAmountFilter(t *testing.T) {
	assert.Equal(t, 1.5, amountFilter(-1.5))
	assert.Equal(t, 0.12345678, amountFilter(0.123456789))
	assert.Equal(t, 0.0, amountFilter(0))
}

func TestNewCreatesAccount(t *testing.T) {
	deps, ledger, _ := testDeps(t)
	ctx := context.Background()

	reply, err := deps.handleNew(ctx, invocation("alice", nil))
	require.NoError(t, err)
	assert.True(t, reply.DM)
	assert.Contains(t, reply.Text, "fresh-addr")
	assert.Contains(t, ledger.accounts, "alice")

	// A second registration is refused.
	reply, err = deps.handleNew(ctx, invocation("alice", nil))
	require.NoError(t, err)
	assert.NotContains(t, reply.Text, "fresh-addr")
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("fee swallows amount", func(t *testing.T) {
		deps, ledger, _ := testDeps(t)
		ledger.addAccount("alice", 10)

		reply, err := deps.handleWithdraw(ctx, invocation("alice",
			command.Args{"address": "good-addr", "amount": 0.005}))
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "too small")
		assert.Equal(t, 10.0, ledger.accounts["alice"].Balance)
	})

	t.Run("invalid address", func(t *testing.T) {
		deps, ledger, _ := testDeps(t)
		ledger.addAccount("alice", 10)

		reply, err := deps.handleWithdraw(ctx, invocation("alice",
			command.Args{"address": "bogus", "amount": 1.0}))
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "valid address")
	})

	t.Run("success sends amount minus fee", func(t *testing.T) {
		deps, ledger, w := testDeps(t)
		ledger.addAccount("alice", 10)

		reply, err := deps.handleWithdraw(ctx, invocation("alice",
			command.Args{"address": "good-addr", "amount": 2.0}))
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "txid-1")
		assert.Equal(t, 8.0, ledger.accounts["alice"].Balance)
		assert.Equal(t, []string{"good-addr:1.99000000"}, w.sent)
	})

	t.Run("send failure refunds", func(t *testing.T) {
		deps, ledger, w := testDeps(t)
		ledger.addAccount("alice", 10)
		w.sendErr = errors.New("node down")

		_, err := deps.handleWithdraw(ctx, invocation("alice",
			command.Args{"address": "good-addr", "amount": 2.0}))
		require.Error(t, err)
		assert.Equal(t, 10.0, ledger.accounts["alice"].Balance, "debit is rolled back")
	})

	t.Run("negative amount treated as positive", func(t *testing.T) {
		deps, ledger, _ := testDeps(t)
		ledger.addAccount("alice", 10)

		_, err := deps.handleWithdraw(ctx, invocation("alice",
			command.Args{"address": "good-addr", "amount": -2.0}))
		require.NoError(t, err)
		assert.Equal(t, 8.0, ledger.accounts["alice"].Balance)
	})
}

func TestGive(t *testing.T) {
	ctx := context.Background()

	t.Run("self tip refused", func(t *testing.T) {
		deps, ledger, _ := testDeps(t)
		ledger.addAccount("alice", 10)

		reply, err := deps.handleGive(ctx, invocation("alice",
			command.Args{"user": "alice", "amount": 1.0}))
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "yourself")
	})

	t.Run("unregistered receiver refused", func(t *testing.T) {
		deps, ledger, _ := testDeps(t)
		ledger.addAccount("alice", 10)

		reply, err := deps.handleGive(ctx, invocation("alice",
			command.Args{"user": "ghost", "amount": 1.0}))
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "Invalid user")
	})

	t.Run("success", func(t *testing.T) {
		deps, ledger, _ := testDeps(t)
		ledger.addAccount("alice", 10)
		ledger.addAccount("bob", 0)

		_, err := deps.handleGive(ctx, invocation("alice",
			command.Args{"user": "bob", "amount": 2.5}))
		require.NoError(t, err)
		assert.Equal(t, 7.5, ledger.accounts["alice"].Balance)
		assert.Equal(t, 2.5, ledger.accounts["bob"].Balance)
	})
}

func TestFaucet(t *testing.T) {
	ctx := context.Background()

	t.Run("pays and starts cooldown", func(t *testing.T) {
		deps, ledger, _ := testDeps(t)
		ledger.addAccount(store.FaucetAccount, 100)
		ledger.addAccount("alice", 0)

		reply, err := deps.handleFaucet(ctx, invocation("alice", nil))
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "0.25000000")
		assert.Equal(t, 0.25, ledger.accounts["alice"].Balance)
		assert.Equal(t, 1, ledger.accounts["alice"].FaucetClaims)

		// Immediate second claim hits the cooldown.
		reply, err = deps.handleFaucet(ctx, invocation("alice", nil))
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "dry")
		assert.Equal(t, 0.25, ledger.accounts["alice"].Balance)
	})

	t.Run("empty faucet", func(t *testing.T) {
		deps, ledger, _ := testDeps(t)
		ledger.addAccount(store.FaucetAccount, 0.01)
		ledger.addAccount("alice", 0)

		reply, err := deps.handleFaucet(ctx, invocation("alice", nil))
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "empty")
	})
}

func TestDonate(t *testing.T) {
	ctx := context.Background()
	deps, ledger, _ := testDeps(t)
	ledger.addAccount("alice", 10)
	ledger.addAccount("devfund", 0)
	ledger.donors = []store.Donor{{Position: 1, Name: "Dev fund", UserID: "devfund"}}

	t.Run("bad selection", func(t *testing.T) {
		reply, err := deps.handleDonate(ctx, invocation("alice",
			command.Args{"selection": 7, "amount": 1.0}))
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "listed options")
	})

	t.Run("success", func(t *testing.T) {
		reply, err := deps.handleDonate(ctx, invocation("alice",
			command.Args{"selection": 1, "amount": 1.0}))
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "Dev fund")
		assert.Equal(t, 1.0, ledger.accounts["devfund"].Balance)
	})

	t.Run("usage lists donors", func(t *testing.T) {
		reply, err := deps.usageDonate(ctx, invocation("alice", nil))
		require.NoError(t, err)
		assert.Contains(t, reply.Text, "`1.` Dev fund")
	})
}

func TestRainTriggersWhenFull(t *testing.T) {
	ctx := context.Background()
	deps, ledger, _ := testDeps(t)
	ledger.addAccount("alice", 10)
	pool := &fakeRain{canTrigger: true}
	deps.Rain = pool

	reply, err := deps.handleRain(ctx, invocation("alice", command.Args{"amount": 5.0}))
	require.NoError(t, err)
	assert.True(t, pool.triggered)
	assert.Contains(t, reply.Text, "it rains")
}

func TestBlist(t *testing.T) {
	ctx := context.Background()
	deps, ledger, _ := testDeps(t)

	reply, err := deps.handleBlist(ctx, invocation("owner", command.Args{}))
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Nobody")

	_, err = deps.handleBlist(ctx, invocation("owner",
		command.Args{"action": "banpublic", "id": "spammer"}))
	require.NoError(t, err)
	assert.True(t, deps.Policy.IsBanned("spammer", false))
	assert.False(t, deps.Policy.IsBanned("spammer", true))
	assert.True(t, ledger.bans["spammer"], "ban persisted as public-only")

	reply, err = deps.handleBlist(ctx, invocation("owner",
		command.Args{"action": "unban", "id": "spammer"}))
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Unbanned")
	assert.False(t, deps.Policy.IsBanned("spammer", false))
}

func TestChannelPersistsAndApplies(t *testing.T) {
	ctx := context.Background()
	deps, ledger, _ := testDeps(t)

	reply, err := deps.handleChannel(ctx, invocation("owner", command.Args{"id": "555"}))
	require.NoError(t, err)
	assert.True(t, reply.React)
	assert.Equal(t, []string{"555"}, ledger.channels)
	assert.True(t, deps.Channels.Allows("555"))
	assert.False(t, deps.Channels.Allows("777"))
}

func TestHelp(t *testing.T) {
	ctx := context.Background()
	deps, _, _ := testDeps(t)

	reply, err := deps.handleHelp(ctx, invocation("alice", command.Args{}))
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Walletkeeper commands")

	reply, err = deps.handleHelp(ctx, invocation("alice", command.Args{"command": "withdraw"}))
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "%wdr")
}

func TestQRUsesAddressByDefault(t *testing.T) {
	ctx := context.Background()
	deps, ledger, _ := testDeps(t)
	ledger.addAccount("alice", 0)

	reply, err := deps.handleQR(ctx, invocation("alice", command.Args{}))
	require.NoError(t, err)
	require.NotNil(t, reply.File)
	assert.Equal(t, "alice.png", reply.File.Name)
	assert.Equal(t, "image/png", reply.File.ContentType)
	assert.NotEmpty(t, reply.File.Data)
}

func TestGuardOrderCheapFirst(t *testing.T) {
	deps, _, _ := testDeps(t)
	reg := command.NewRegistry()
	require.NoError(t, Register(reg, deps))

	desc, ok := reg.Resolve("faucet")
	require.True(t, ok)
	require.Len(t, desc.Guards, 3)
	assert.Equal(t, "requires_account", desc.Guards[len(desc.Guards)-1].Name,
		"the I/O guard runs last")
}
