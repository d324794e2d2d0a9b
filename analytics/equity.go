package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// EquityPoint is one step of the equity curve. Every closed trade gets
// its own point, including several trades on the same day.
type EquityPoint struct {
	TradeID    string
	Time       time.Time
	Date       string // YYYY-MM-DD in the stats location
	PnL        decimal.Decimal
	Cumulative decimal.Decimal
}

func equityCurve(closed []closedTrade, loc *time.Location) []EquityPoint {
	sorted := sortChronological(closed)
	out := make([]EquityPoint, 0, len(sorted))

	running := decimal.Zero
	for _, c := range sorted {
		running = running.Add(c.pnl)
		out = append(out, EquityPoint{
			TradeID:    c.trade.ID,
			Time:       c.trade.OpenedAt,
			Date:       c.trade.OpenedAt.In(loc).Format(dateLayout),
			PnL:        c.pnl,
			Cumulative: running,
		})
	}
	return out
}

// maxDrawdown is the largest drop from a running peak of the curve.
// The curve starts from a flat account, so the first peak is zero.
func maxDrawdown(curve []EquityPoint) decimal.Decimal {
	peak := decimal.Zero
	worst := decimal.Zero
	for _, p := range curve {
		if p.Cumulative.GreaterThan(peak) {
			peak = p.Cumulative
		}
		if dd := peak.Sub(p.Cumulative); dd.GreaterThan(worst) {
			worst = dd
		}
	}
	return worst
}
