package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/tradejournal/market"
	"github.com/shopspring/decimal"
)

type SQLite struct {
	db *sql.DB
}

var _ Journal = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(ctx context.Context, t market.Trade) error {
	if err := t.Validate(); err != nil {
		return err
	}

	var exit any
	if t.ExitPrice.Valid {
		exit = t.ExitPrice.Decimal.String()
	}

	var valid any
	if t.PlaybookValid != nil {
		valid = *t.PlaybookValid
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trades
		(trade_id, account_id, symbol, side, contracts, entry_price, exit_price, opened_at, strategy, notes, rules_checked, playbook_valid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, t.Symbol, string(t.Side), t.Contracts,
		t.EntryPrice.String(), exit, t.OpenedAt.UTC(), t.Strategy, t.Notes,
		strings.Join(t.RulesChecked, ","), valid,
	)
	if err != nil {
		return fmt.Errorf("insert trade %s: %w", t.ID, err)
	}
	return nil
}

// CloseTrade sets the exit price of an existing trade. Closing an
// already closed trade overwrites its exit.
func (j *SQLite) CloseTrade(ctx context.Context, tradeID string, exit decimal.Decimal) error {
	res, err := j.db.ExecContext(ctx,
		`UPDATE trades SET exit_price = ? WHERE trade_id = ?`, exit.String(), tradeID)
	if err != nil {
		return fmt.Errorf("close trade %s: %w", tradeID, err)
	}
	return expectOneRow(res, tradeID)
}

func (j *SQLite) DeleteTrade(ctx context.Context, tradeID string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM trades WHERE trade_id = ?`, tradeID)
	if err != nil {
		return fmt.Errorf("delete trade %s: %w", tradeID, err)
	}
	return expectOneRow(res, tradeID)
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func expectOneRow(res sql.Result, tradeID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrTradeNotFound, tradeID)
	}
	return nil
}

func migrate(db *sql.DB) error {
	rows, err := db.Query(`SELECT name FROM pragma_table_info('trades')`)
	if err != nil {
		return err
	}
	have := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		have[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, c := range addedColumns {
		if have[c.name] {
			continue
		}
		if _, err := db.Exec(c.ddl); err != nil {
			return fmt.Errorf("add column %s: %w", c.name, err)
		}
	}
	return nil
}
