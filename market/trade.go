package market

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSide      = errors.New("invalid side")
	ErrInvalidContracts = errors.New("contracts must be positive")
)

// Side is the direction of a position.
type Side string

const (
	Long  Side = "LONG"
	Short Side = "SHORT"
)

// ParseSide accepts LONG/SHORT as well as the BUY/SELL wording used by
// charting alerts. Matching is case-insensitive.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LONG", "BUY", "L":
		return Long, nil
	case "SHORT", "SELL", "S":
		return Short, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSide, s)
}

func (s Side) Valid() bool {
	return s == Long || s == Short
}

// Trade is one logged execution. A trade without an exit price is
// still open and has no realized P/L.
type Trade struct {
	ID        string
	AccountID string
	Symbol    string
	Side      Side
	Contracts int

	EntryPrice decimal.Decimal
	ExitPrice  decimal.NullDecimal
	OpenedAt   time.Time

	Strategy string
	Notes    string

	// RulesChecked lists the playbook rule ids ticked for this trade.
	// PlaybookValid is nil when the trade was never checked against the
	// playbook, e.g. trades logged by webhook.
	RulesChecked  []string
	PlaybookValid *bool
}

// IsOpen reports whether the trade has no exit price yet.
func (t Trade) IsOpen() bool {
	return !t.ExitPrice.Valid
}

// PlaybookStatus is "valid", "invalid" or "" when unchecked.
func (t Trade) PlaybookStatus() string {
	switch {
	case t.PlaybookValid == nil:
		return ""
	case *t.PlaybookValid:
		return "valid"
	default:
		return "invalid"
	}
}

// WithExit returns a copy of t closed at price.
func (t Trade) WithExit(price decimal.Decimal) Trade {
	t.ExitPrice = decimal.NewNullDecimal(price)
	return t
}

// Validate checks the fields every stored trade must carry.
func (t Trade) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("trade id is required")
	}
	if NormalizeSymbol(t.Symbol) == "" {
		return fmt.Errorf("trade %s: symbol is required", t.ID)
	}
	if !t.Side.Valid() {
		return fmt.Errorf("trade %s: %w: %q", t.ID, ErrInvalidSide, t.Side)
	}
	if t.Contracts <= 0 {
		return fmt.Errorf("trade %s: %w", t.ID, ErrInvalidContracts)
	}
	if t.OpenedAt.IsZero() {
		return fmt.Errorf("trade %s: opened_at is required", t.ID)
	}
	return nil
}
