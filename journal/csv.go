package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/market"
)

var csvHeader = []string{
	"trade_id", "account_id", "symbol", "side", "contracts",
	"entry_price", "exit_price", "opened_at", "pnl", "strategy", "notes",
	"rules_checked", "playbook",
}

// WriteCSV exports trades with their realized P/L. Open trades have
// empty exit_price and pnl columns, as do trades whose instrument is
// not in tbl. The playbook column is empty for unchecked trades.
func WriteCSV(w io.Writer, trades []market.Trade, tbl market.InstrumentTable) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range trades {
		var exit, pnl string
		if t.ExitPrice.Valid {
			exit = t.ExitPrice.Decimal.String()
		}
		if v, err := analytics.TradePnL(t, tbl); err == nil && v.Valid {
			pnl = v.Decimal.StringFixed(2)
		}

		err := cw.Write([]string{
			t.ID,
			t.AccountID,
			t.Symbol,
			string(t.Side),
			strconv.Itoa(t.Contracts),
			t.EntryPrice.String(),
			exit,
			t.OpenedAt.UTC().Format(time.RFC3339),
			pnl,
			t.Strategy,
			t.Notes,
			strings.Join(t.RulesChecked, " "),
			t.PlaybookStatus(),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
