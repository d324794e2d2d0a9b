package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/market"
	"github.com/shopspring/decimal"
)

// FormatTradeOrg renders a trade as an Org-mode block suitable for pasting into a journal.
// Structured facts live in a PROPERTIES drawer; the Thesis/Execution/Review
// headings are left for the trader to fill in.
func FormatTradeOrg(t market.Trade, pnl decimal.NullDecimal) string {
	heading := fmt.Sprintf("** Trade: %s %s (%s)", t.Symbol, t.Side, shortID(t.ID))
	opened := t.OpenedAt.UTC().Format(time.RFC3339)

	exit := "open"
	if t.ExitPrice.Valid {
		exit = t.ExitPrice.Decimal.String()
	}
	realized := "---"
	if pnl.Valid {
		realized = pnl.Decimal.StringFixed(2)
	}

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", t.ID))
	if t.AccountID != "" {
		b.WriteString(fmt.Sprintf(":ACCOUNT: %s\n", t.AccountID))
	}
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":SIDE: %s\n", t.Side))
	b.WriteString(fmt.Sprintf(":CONTRACTS: %d\n", t.Contracts))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %s\n", t.EntryPrice))
	b.WriteString(fmt.Sprintf(":EXIT_PRICE: %s\n", exit))
	b.WriteString(fmt.Sprintf(":OPENED_AT: %s\n", opened))
	b.WriteString(fmt.Sprintf(":PNL: %s\n", realized))
	if t.Strategy != "" {
		b.WriteString(fmt.Sprintf(":STRATEGY: %s\n", t.Strategy))
	}
	if status := t.PlaybookStatus(); status != "" {
		b.WriteString(fmt.Sprintf(":PLAYBOOK: %s\n", status))
		b.WriteString(fmt.Sprintf(":RULES: %s\n", strings.Join(t.RulesChecked, " ")))
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- ")
	b.WriteString(t.Notes)
	b.WriteString("\n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines. A
// trade whose P/L cannot be valued is shown with an empty P/L.
func FormatTradesOrg(trades []market.Trade, tbl market.InstrumentTable) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		pnl, _ := analytics.TradePnL(t, tbl)
		b.WriteString(FormatTradeOrg(t, pnl))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
