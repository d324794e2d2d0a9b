// Package analytics turns a snapshot of journal trades into realized P/L
// and performance statistics. Everything here is a pure function of its
// inputs; callers decide when to recompute and whether to cache.
package analytics

import (
	"fmt"

	"github.com/rustyeddy/tradejournal/market"
	"github.com/shopspring/decimal"
)

// TradePnL returns the realized P/L of t in account currency:
//
//	long:  (exit - entry) * pointValue * contracts
//	short: (entry - exit) * pointValue * contracts
//
// An open trade yields an invalid NullDecimal and no error. The result
// is not rounded.
func TradePnL(t market.Trade, tbl market.InstrumentTable) (decimal.NullDecimal, error) {
	if t.IsOpen() {
		return decimal.NullDecimal{}, nil
	}
	if t.Contracts <= 0 {
		return decimal.NullDecimal{}, fmt.Errorf("trade %s: %w", t.ID, market.ErrInvalidContracts)
	}

	var diff decimal.Decimal
	switch t.Side {
	case market.Long:
		diff = t.ExitPrice.Decimal.Sub(t.EntryPrice)
	case market.Short:
		diff = t.EntryPrice.Sub(t.ExitPrice.Decimal)
	default:
		return decimal.NullDecimal{}, fmt.Errorf("trade %s: %w: %q", t.ID, market.ErrInvalidSide, t.Side)
	}

	pv, err := tbl.PointValue(t.Symbol)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("trade %s: %w", t.ID, err)
	}

	pnl := diff.Mul(pv).Mul(decimal.NewFromInt(int64(t.Contracts)))
	return decimal.NewNullDecimal(pnl), nil
}
