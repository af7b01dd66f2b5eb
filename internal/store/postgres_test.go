package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func TestExists(t *testing.T) {
	p, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM accounts WHERE user_id = $1`)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM accounts WHERE user_id = $1`)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err := p.Exists(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = p.Exists(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMapsMissingRow(t *testing.T) {
	p, mock := newMock(t)

	mock.ExpectQuery("SELECT user_id, address, balance").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "address", "balance", "created_at", "faucet_claims", "last_faucet_at"}))

	_, err := p.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetNullFaucetTime(t *testing.T) {
	p, mock := newMock(t)

	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT user_id, address, balance").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(
			[]string{"user_id", "address", "balance", "created_at", "faucet_claims", "last_faucet_at"}).
			AddRow("alice", "Saddr", 12.5, created, 0, nil))

	acct, err := p.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Saddr", acct.Address)
	assert.Equal(t, 12.5, acct.Balance)
	assert.True(t, acct.LastFaucetAt.IsZero(), "never claimed means zero time")
}

func TestDebitDistinguishesFailures(t *testing.T) {
	debitSQL := regexp.QuoteMeta(`UPDATE accounts SET balance = balance - $2 WHERE user_id = $1 AND balance >= $2`)

	t.Run("insufficient funds", func(t *testing.T) {
		p, mock := newMock(t)
		mock.ExpectExec(debitSQL).
			WithArgs("alice", 100.0).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM accounts WHERE user_id = $1`)).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		err := p.Debit(context.Background(), "alice", 100.0)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("missing account", func(t *testing.T) {
		p, mock := newMock(t)
		mock.ExpectExec(debitSQL).
			WithArgs("ghost", 1.0).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM accounts WHERE user_id = $1`)).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"1"}))

		err := p.Debit(context.Background(), "ghost", 1.0)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("success", func(t *testing.T) {
		p, mock := newMock(t)
		mock.ExpectExec(debitSQL).
			WithArgs("alice", 1.0).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, p.Debit(context.Background(), "alice", 1.0))
	})
}

func TestTransferRollsBackOnEmptyDebit(t *testing.T) {
	p, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET balance = balance -").
		WithArgs("alice", 5.0).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := p.Transfer(context.Background(), "alice", "bob", 5.0)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferCommits(t *testing.T) {
	p, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET balance = balance -").
		WithArgs("alice", 5.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE accounts SET balance = balance + $2 WHERE user_id = $1`)).
		WithArgs("bob", 5.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, p.Transfer(context.Background(), "alice", "bob", 5.0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDonors(t *testing.T) {
	p, mock := newMock(t)

	mock.ExpectQuery("SELECT position, name, user_id FROM donors").
		WillReturnRows(sqlmock.NewRows([]string{"position", "name", "user_id"}).
			AddRow(1, "dev fund", "900").
			AddRow(2, "mod team", "901"))

	donors, err := p.ListDonors(context.Background())
	require.NoError(t, err)
	require.Len(t, donors, 2)
	assert.Equal(t, "dev fund", donors[0].Name)
	assert.Equal(t, 2, donors[1].Position)
}

func TestRecordFaucetClaimRequiresRow(t *testing.T) {
	p, mock := newMock(t)

	mock.ExpectExec("UPDATE accounts").
		WithArgs("ghost", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := p.RecordFaucetClaim(context.Background(), "ghost", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}
