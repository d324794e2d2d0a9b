package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/tradejournal/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func testTrade(id string, opened time.Time) market.Trade {
	return market.Trade{
		ID:         id,
		AccountID:  "ACC-1",
		Symbol:     "NQ",
		Side:       market.Long,
		Contracts:  2,
		EntryPrice: decimal.RequireFromString("17000.25"),
		OpenedAt:   opened,
		Strategy:   "ORB",
		Notes:      "first pullback",
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = 'trades'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "trades", name)
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, j.RecordTrade(ctx, testTrade("T1", time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC))))
	require.NoError(t, j.Close())

	j2, err := NewSQLite(path)
	require.NoError(t, err)
	defer j2.Close()

	got, err := j2.GetTrade(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, "T1", got.ID)
}

func TestSQLiteRecordTrade(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	opened := time.Date(2024, 1, 2, 14, 30, 5, 0, time.UTC)
	rec := testTrade("T1", opened).WithExit(decimal.RequireFromString("17010.5"))

	require.NoError(t, j.RecordTrade(context.Background(), rec))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		tradeID   string
		accountID string
		symbol    string
		side      string
		contracts int
		entry     string
		exit      sql.NullString
		openedAt  time.Time
		strategy  string
		notes     string
	)

	err = db.QueryRow(`
        SELECT trade_id, account_id, symbol, side, contracts, entry_price, exit_price, opened_at, strategy, notes
        FROM trades LIMIT 1`).Scan(
		&tradeID, &accountID, &symbol, &side, &contracts, &entry, &exit, &openedAt, &strategy, &notes,
	)
	require.NoError(t, err)

	assert.Equal(t, "T1", tradeID)
	assert.Equal(t, "ACC-1", accountID)
	assert.Equal(t, "NQ", symbol)
	assert.Equal(t, "LONG", side)
	assert.Equal(t, 2, contracts)
	assert.Equal(t, "17000.25", entry)
	assert.True(t, exit.Valid)
	assert.Equal(t, "17010.5", exit.String)
	assert.True(t, openedAt.Equal(opened))
	assert.Equal(t, "ORB", strategy)
	assert.Equal(t, "first pullback", notes)
}

func TestSQLiteRecordOpenTradeStoresNullExit(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	require.NoError(t, j.RecordTrade(context.Background(), testTrade("T1", time.Now())))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var exit sql.NullString
	require.NoError(t, db.QueryRow(`SELECT exit_price FROM trades WHERE trade_id = 'T1'`).Scan(&exit))
	assert.False(t, exit.Valid)
}

func TestSQLiteRecordTradeRejectsInvalid(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	bad := testTrade("T1", time.Now())
	bad.Contracts = 0
	assert.ErrorIs(t, j.RecordTrade(context.Background(), bad), market.ErrInvalidContracts)

	bad = testTrade("T2", time.Now())
	bad.Side = "FLAT"
	assert.ErrorIs(t, j.RecordTrade(context.Background(), bad), market.ErrInvalidSide)
}

func TestSQLiteRecordTradeDuplicateID(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	ctx := context.Background()
	require.NoError(t, j.RecordTrade(ctx, testTrade("T1", time.Now())))
	assert.Error(t, j.RecordTrade(ctx, testTrade("T1", time.Now())))
}

func TestSQLiteCloseTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	ctx := context.Background()
	require.NoError(t, j.RecordTrade(ctx, testTrade("T1", time.Now())))

	require.NoError(t, j.CloseTrade(ctx, "T1", decimal.RequireFromString("16990")))

	got, err := j.GetTrade(ctx, "T1")
	require.NoError(t, err)
	require.True(t, got.ExitPrice.Valid)
	assert.Equal(t, "16990", got.ExitPrice.Decimal.String())

	err = j.CloseTrade(ctx, "missing", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrTradeNotFound)
}

func TestSQLiteDeleteTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	ctx := context.Background()
	require.NoError(t, j.RecordTrade(ctx, testTrade("T1", time.Now())))

	require.NoError(t, j.DeleteTrade(ctx, "T1"))
	_, err := j.GetTrade(ctx, "T1")
	assert.ErrorIs(t, err, ErrTradeNotFound)

	assert.ErrorIs(t, j.DeleteTrade(ctx, "T1"), ErrTradeNotFound)
}

func TestSQLitePlaybookRoundTrip(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	opened := time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)
	valid, err := market.DefaultPlaybook.Apply(testTrade("T1", opened), []string{"trend", "fvg", "liq"})
	require.NoError(t, err)
	invalid, err := market.DefaultPlaybook.Apply(testTrade("T2", opened), []string{"news"})
	require.NoError(t, err)

	require.NoError(t, j.RecordTrade(ctx, valid))
	require.NoError(t, j.RecordTrade(ctx, invalid))
	require.NoError(t, j.RecordTrade(ctx, testTrade("T3", opened)))

	got, err := j.GetTrade(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, []string{"trend", "fvg", "liq"}, got.RulesChecked)
	assert.Equal(t, "valid", got.PlaybookStatus())

	got, err = j.GetTrade(ctx, "T2")
	require.NoError(t, err)
	assert.Equal(t, []string{"news"}, got.RulesChecked)
	assert.Equal(t, "invalid", got.PlaybookStatus())

	got, err = j.GetTrade(ctx, "T3")
	require.NoError(t, err)
	assert.Empty(t, got.RulesChecked)
	assert.Nil(t, got.PlaybookValid)
}

func TestSQLiteMigratesOldJournal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE trades (
			trade_id TEXT PRIMARY KEY,
			account_id TEXT NOT NULL DEFAULT '',
			symbol TEXT NOT NULL,
			side TEXT NOT NULL,
			contracts INTEGER NOT NULL,
			entry_price TEXT NOT NULL,
			exit_price TEXT,
			opened_at DATETIME NOT NULL,
			strategy TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT ''
		);
		INSERT INTO trades (trade_id, symbol, side, contracts, entry_price, opened_at)
		VALUES ('OLD', 'NQ', 'LONG', 1, '17000', '2024-01-02 14:30:00+00:00');`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	j, err := NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	got, err := j.GetTrade(context.Background(), "OLD")
	require.NoError(t, err)
	assert.Nil(t, got.PlaybookValid)
	assert.Empty(t, got.RulesChecked)
}
