package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/keshon/walletkeeper/internal/blacklist"
)

// Postgres implements Store on database/sql.
type Postgres struct {
	db *sql.DB
}

var _ Store = (*Postgres)(nil)

// Open connects to Postgres with the given DSN.
func Open(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewPostgres(db), nil
}

// NewPostgres wraps an existing database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := p.db.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE user_id = $1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query account %s: %w", id, err)
	}
	return true, nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*Account, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT user_id, address, balance, created_at, faucet_claims, last_faucet_at
		FROM accounts
		WHERE user_id = $1
	`, id)

	var (
		acct   Account
		faucet sql.NullTime
	)
	err := row.Scan(&acct.UserID, &acct.Address, &acct.Balance, &acct.CreatedAt, &acct.FaucetClaims, &faucet)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", id, err)
	}
	if faucet.Valid {
		acct.LastFaucetAt = faucet.Time
	}
	return &acct, nil
}

func (p *Postgres) Create(ctx context.Context, id, address string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO accounts (user_id, address, balance, created_at, faucet_claims)
		VALUES ($1, $2, 0, $3, 0)
	`, id, address, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("create account %s: %w", id, err)
	}
	return nil
}

func (p *Postgres) Credit(ctx context.Context, id string, amount float64) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + $2 WHERE user_id = $1`, id, amount)
	if err != nil {
		return fmt.Errorf("credit %s: %w", id, err)
	}
	return requireRow(res, ErrNotFound)
}

func (p *Postgres) Debit(ctx context.Context, id string, amount float64) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE accounts SET balance = balance - $2 WHERE user_id = $1 AND balance >= $2`, id, amount)
	if err != nil {
		return fmt.Errorf("debit %s: %w", id, err)
	}
	if err := requireRow(res, nil); err == nil {
		return nil
	}
	exists, err := p.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInsufficientFunds
}

// Transfer moves funds between two ledger accounts atomically.
func (p *Postgres) Transfer(ctx context.Context, from, to string, amount float64) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance - $2 WHERE user_id = $1 AND balance >= $2`, from, amount)
	if err != nil {
		return fmt.Errorf("transfer debit %s: %w", from, err)
	}
	if err := requireRow(res, ErrInsufficientFunds); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + $2 WHERE user_id = $1`, to, amount)
	if err != nil {
		return fmt.Errorf("transfer credit %s: %w", to, err)
	}
	if err := requireRow(res, ErrNotFound); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transfer: %w", err)
	}
	return nil
}

func (p *Postgres) RecordFaucetClaim(ctx context.Context, id string, at time.Time) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE accounts
		SET faucet_claims = faucet_claims + 1, last_faucet_at = $2
		WHERE user_id = $1
	`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("record faucet claim %s: %w", id, err)
	}
	return requireRow(res, ErrNotFound)
}

func (p *Postgres) ListDonors(ctx context.Context) ([]Donor, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT position, name, user_id FROM donors ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list donors: %w", err)
	}
	defer rows.Close()

	var donors []Donor
	for rows.Next() {
		var d Donor
		if err := rows.Scan(&d.Position, &d.Name, &d.UserID); err != nil {
			return nil, fmt.Errorf("scan donor: %w", err)
		}
		donors = append(donors, d)
	}
	return donors, rows.Err()
}

func (p *Postgres) ListMainChannels(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT channel_id FROM main_channels`)
	if err != nil {
		return nil, fmt.Errorf("list main channels: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (p *Postgres) AddMainChannel(ctx context.Context, id string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO main_channels (channel_id) VALUES ($1)
		ON CONFLICT (channel_id) DO NOTHING
	`, id)
	if err != nil {
		return fmt.Errorf("add main channel %s: %w", id, err)
	}
	return nil
}

func (p *Postgres) ListBlacklisted(ctx context.Context) ([]blacklist.Entry, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT user_id, public_only FROM bans`)
	if err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}
	defer rows.Close()

	var entries []blacklist.Entry
	for rows.Next() {
		var e blacklist.Entry
		if err := rows.Scan(&e.UserID, &e.PublicOnly); err != nil {
			return nil, fmt.Errorf("scan ban: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (p *Postgres) SetBlacklisted(ctx context.Context, id string, publicOnly bool) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bans (user_id, public_only) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET public_only = EXCLUDED.public_only
	`, id, publicOnly)
	if err != nil {
		return fmt.Errorf("set ban %s: %w", id, err)
	}
	return nil
}

func (p *Postgres) RemoveBlacklisted(ctx context.Context, id string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM bans WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("remove ban %s: %w", id, err)
	}
	return nil
}

func requireRow(res sql.Result, missing error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if missing != nil {
			return missing
		}
		return sql.ErrNoRows
	}
	return nil
}
