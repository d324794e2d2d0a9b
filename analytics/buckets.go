package analytics

import (
	"sort"
	"time"

	"github.com/rustyeddy/tradejournal/market"
	"github.com/shopspring/decimal"
)

// WeekdayBucket holds the realized P/L of closed trades opened on one
// trading weekday.
type WeekdayBucket struct {
	Weekday time.Weekday
	PnL     decimal.Decimal
	Trades  int
}

// DayBucket groups a calendar day's trades for heatmap style views.
// PnL only counts realized trades; Trades lists every trade opened that
// day, open ones included, for drill-down.
type DayBucket struct {
	Date   string // YYYY-MM-DD in the stats location
	PnL    decimal.Decimal
	Trades []market.Trade
}

// SymbolCount is the number of logged trades for one literal symbol.
type SymbolCount struct {
	Symbol string
	Count  int
}

var tradingDays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

// weekdayBuckets always returns Monday through Friday in order. Trades
// opened on a Saturday or Sunday are not counted in any bucket.
func weekdayBuckets(closed []closedTrade, loc *time.Location) []WeekdayBucket {
	out := make([]WeekdayBucket, len(tradingDays))
	for i, d := range tradingDays {
		out[i] = WeekdayBucket{Weekday: d, PnL: decimal.Zero}
	}

	for _, c := range closed {
		wd := c.trade.OpenedAt.In(loc).Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		b := &out[wd-time.Monday]
		b.PnL = b.PnL.Add(c.pnl)
		b.Trades++
	}
	return out
}

func dayBuckets(trades []market.Trade, closed []closedTrade, loc *time.Location) []DayBucket {
	idx := map[string]int{}
	var out []DayBucket

	bucket := func(t market.Trade) *DayBucket {
		day := t.OpenedAt.In(loc).Format(dateLayout)
		i, ok := idx[day]
		if !ok {
			i = len(out)
			idx[day] = i
			out = append(out, DayBucket{Date: day, PnL: decimal.Zero})
		}
		return &out[i]
	}

	for _, t := range sortTrades(trades) {
		b := bucket(t)
		b.Trades = append(b.Trades, t)
	}
	for _, c := range closed {
		b := bucket(c.trade)
		b.PnL = b.PnL.Add(c.pnl)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func symbolCounts(trades []market.Trade) []SymbolCount {
	counts := map[string]int{}
	for _, t := range trades {
		counts[t.Symbol]++
	}

	out := make([]SymbolCount, 0, len(counts))
	for sym, n := range counts {
		out = append(out, SymbolCount{Symbol: sym, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// sortTrades returns a chronological copy of trades, ties broken by ID.
func sortTrades(trades []market.Trade) []market.Trade {
	out := make([]market.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OpenedAt.Equal(out[j].OpenedAt) {
			return out[i].OpenedAt.Before(out[j].OpenedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
