package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/market"
	"github.com/shopspring/decimal"
)

const selectTrades = `
	SELECT trade_id, account_id, symbol, side, contracts, entry_price, exit_price, opened_at, strategy, notes, rules_checked, playbook_valid
	FROM trades`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (market.Trade, error) {
	var (
		rec   market.Trade
		side  string
		entry string
		exit  sql.NullString
		rules string
		valid sql.NullBool
	)

	err := row.Scan(
		&rec.ID,
		&rec.AccountID,
		&rec.Symbol,
		&side,
		&rec.Contracts,
		&entry,
		&exit,
		&rec.OpenedAt,
		&rec.Strategy,
		&rec.Notes,
		&rules,
		&valid,
	)
	if err != nil {
		return market.Trade{}, err
	}

	rec.Side = market.Side(side)
	if rec.EntryPrice, err = decimal.NewFromString(entry); err != nil {
		return market.Trade{}, fmt.Errorf("trade %s entry price: %w", rec.ID, err)
	}
	if exit.Valid {
		px, err := decimal.NewFromString(exit.String)
		if err != nil {
			return market.Trade{}, fmt.Errorf("trade %s exit price: %w", rec.ID, err)
		}
		rec.ExitPrice = decimal.NewNullDecimal(px)
	}
	if rules != "" {
		rec.RulesChecked = strings.Split(rules, ",")
	}
	if valid.Valid {
		v := valid.Bool
		rec.PlaybookValid = &v
	}
	return rec, nil
}

// GetTrade returns a single trade by ID.
func (j *SQLite) GetTrade(ctx context.Context, tradeID string) (market.Trade, error) {
	row := j.db.QueryRowContext(ctx, selectTrades+` WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return market.Trade{}, fmt.Errorf("%w: %q", ErrTradeNotFound, tradeID)
		}
		return market.Trade{}, err
	}
	return rec, nil
}

// ListTrades returns every trade of an account ordered by open time.
func (j *SQLite) ListTrades(ctx context.Context, accountID string) ([]market.Trade, error) {
	if accountID == "" {
		return j.query(ctx, selectTrades+` ORDER BY opened_at ASC, trade_id ASC`)
	}
	return j.query(ctx, selectTrades+`
		WHERE account_id = ?
		ORDER BY opened_at ASC, trade_id ASC`, accountID)
}

// ListTradesOpenedBetween returns trades whose opened_at is within [start, end).
func (j *SQLite) ListTradesOpenedBetween(ctx context.Context, accountID string, start, end time.Time) ([]market.Trade, error) {
	if accountID == "" {
		return j.query(ctx, selectTrades+`
			WHERE opened_at >= ? AND opened_at < ?
			ORDER BY opened_at ASC, trade_id ASC`, start.UTC(), end.UTC())
	}
	return j.query(ctx, selectTrades+`
		WHERE account_id = ? AND opened_at >= ? AND opened_at < ?
		ORDER BY opened_at ASC, trade_id ASC`, accountID, start.UTC(), end.UTC())
}

func (j *SQLite) query(ctx context.Context, q string, args ...any) ([]market.Trade, error) {
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.Trade
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
