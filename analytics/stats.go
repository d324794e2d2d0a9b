package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/tradejournal/market"
	"github.com/shopspring/decimal"
)

// InfiniteProfitFactor is reported when there is gross profit and no
// gross loss at all.
var InfiniteProfitFactor = math.Inf(1)

// Stats summarizes a snapshot of trades. It is only meaningful for the
// exact input it was computed from.
type Stats struct {
	TotalTrades  int // every trade in the snapshot
	OpenTrades   int
	ClosedTrades int // trades with a realized P/L; the win rate denominator

	Wins      int
	Losses    int
	Breakeven int

	WinRate      float64 // percent, 0..100
	ProfitFactor float64

	NetPnL      decimal.Decimal
	GrossProfit decimal.Decimal
	GrossLoss   decimal.Decimal // positive amount
	AvgWin      decimal.Decimal
	AvgLoss     decimal.Decimal // positive amount
	MaxDrawdown decimal.Decimal // positive amount

	// Playbook compliance over every trade checked against the
	// playbook, open ones included. Unchecked trades are not counted.
	PlaybookChecked    int
	PlaybookValid      int
	PlaybookCompliance float64 // percent, 0..100

	Equity   []EquityPoint
	Weekdays []WeekdayBucket
	Days     []DayBucket
	Symbols  []SymbolCount

	// Skipped lists closed trades whose P/L could not be computed.
	// They are left out of every P/L figure above.
	Skipped []SkippedTrade
}

// SkippedTrade records why a trade was left out of the P/L figures.
type SkippedTrade struct {
	TradeID string
	Symbol  string
	Err     error
}

// closedTrade pairs a trade with its realized P/L.
type closedTrade struct {
	trade market.Trade
	pnl   decimal.Decimal
}

// Compute folds trades into Stats. Weekday and calendar-day buckets are
// taken in loc; a nil loc means time.Local. Input order does not matter.
// Compute never fails: trades whose P/L cannot be computed are reported
// in Stats.Skipped.
func Compute(trades []market.Trade, tbl market.InstrumentTable, loc *time.Location) Stats {
	if loc == nil {
		loc = time.Local
	}

	s := Stats{
		TotalTrades: len(trades),
		NetPnL:      decimal.Zero,
		GrossProfit: decimal.Zero,
		GrossLoss:   decimal.Zero,
		AvgWin:      decimal.Zero,
		AvgLoss:     decimal.Zero,
	}

	closed := make([]closedTrade, 0, len(trades))
	for _, t := range trades {
		if t.PlaybookValid != nil {
			s.PlaybookChecked++
			if *t.PlaybookValid {
				s.PlaybookValid++
			}
		}
		if t.IsOpen() {
			s.OpenTrades++
			continue
		}
		pnl, err := TradePnL(t, tbl)
		if err != nil {
			s.Skipped = append(s.Skipped, SkippedTrade{TradeID: t.ID, Symbol: t.Symbol, Err: err})
			continue
		}
		closed = append(closed, closedTrade{trade: t, pnl: pnl.Decimal})
	}
	s.ClosedTrades = len(closed)

	for _, c := range closed {
		s.NetPnL = s.NetPnL.Add(c.pnl)
		switch c.pnl.Sign() {
		case 1:
			s.Wins++
			s.GrossProfit = s.GrossProfit.Add(c.pnl)
		case -1:
			s.Losses++
			s.GrossLoss = s.GrossLoss.Add(c.pnl.Abs())
		default:
			s.Breakeven++
		}
	}

	if s.ClosedTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.ClosedTrades) * 100
	}
	s.ProfitFactor = profitFactor(s.GrossProfit, s.GrossLoss)
	if s.PlaybookChecked > 0 {
		s.PlaybookCompliance = float64(s.PlaybookValid) / float64(s.PlaybookChecked) * 100
	}
	if s.Wins > 0 {
		s.AvgWin = s.GrossProfit.Div(decimal.NewFromInt(int64(s.Wins)))
	}
	if s.Losses > 0 {
		s.AvgLoss = s.GrossLoss.Div(decimal.NewFromInt(int64(s.Losses)))
	}

	s.Equity = equityCurve(closed, loc)
	s.MaxDrawdown = maxDrawdown(s.Equity)
	s.Weekdays = weekdayBuckets(closed, loc)
	s.Days = dayBuckets(trades, closed, loc)
	s.Symbols = symbolCounts(trades)

	return s
}

func profitFactor(grossProfit, grossLoss decimal.Decimal) float64 {
	switch {
	case grossLoss.IsPositive():
		return grossProfit.Div(grossLoss).InexactFloat64()
	case grossProfit.IsPositive():
		return InfiniteProfitFactor
	default:
		return 0
	}
}

// sortChronological orders closed trades by open time, breaking ties by
// trade ID so the result does not depend on input order.
func sortChronological(closed []closedTrade) []closedTrade {
	out := make([]closedTrade, len(closed))
	copy(out, closed)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].trade, out[j].trade
		if !a.OpenedAt.Equal(b.OpenedAt) {
			return a.OpenedAt.Before(b.OpenedAt)
		}
		return a.ID < b.ID
	})
	return out
}
