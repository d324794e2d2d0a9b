// journal/journal.go
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/rustyeddy/tradejournal/market"
	"github.com/shopspring/decimal"
)

// ErrTradeNotFound is returned when a trade ID has no row in the journal.
var ErrTradeNotFound = errors.New("trade not found")

// Journal records and retrieves logged trades. An empty accountID on
// the list methods means every account.
type Journal interface {
	RecordTrade(ctx context.Context, t market.Trade) error
	CloseTrade(ctx context.Context, tradeID string, exit decimal.Decimal) error
	DeleteTrade(ctx context.Context, tradeID string) error

	GetTrade(ctx context.Context, tradeID string) (market.Trade, error)
	ListTrades(ctx context.Context, accountID string) ([]market.Trade, error)
	ListTradesOpenedBetween(ctx context.Context, accountID string, start, end time.Time) ([]market.Trade, error)

	Close() error
}
