package journal

import (
	"fmt"
	"io"
	"math"
	"text/template"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/shopspring/decimal"
)

// Report is a performance summary for one account over a snapshot of trades.
type Report struct {
	AccountID string
	FirmName  string
	Created   time.Time // omitted from the output when zero
	Timezone  string

	Stats analytics.Stats

	// Progress is nil when no evaluation target is configured.
	Progress *analytics.ProgressReport
}

var reportFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"pct":   func(x float64) string { return fmt.Sprintf("%.2f", x) },
	"pf":    FormatProfitFactor,
}

var reportOrg = template.Must(template.New("report").Funcs(reportFuncs).Parse(ReportOrgTemplate))

// FormatProfitFactor renders the infinite sentinel as "inf".
func FormatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", pf)
}

// WriteReportOrg renders r as an Org-mode document.
func WriteReportOrg(w io.Writer, r Report) error {
	return reportOrg.Execute(w, r)
}

const ReportOrgTemplate = `* PERFORMANCE: {{if .FirmName}}{{.FirmName}}{{else}}(firm?){{end}} {{if .AccountID}}{{.AccountID}}{{else}}(all accounts){{end}}
:PROPERTIES:
:ACCOUNT:     {{if .AccountID}}{{.AccountID}}{{else}}(all){{end}}
:TIMEZONE:    {{if .Timezone}}{{.Timezone}}{{else}}Local{{end}}
:TRADES:      {{.Stats.TotalTrades}}
:CLOSED:      {{.Stats.ClosedTrades}}
:OPEN:        {{.Stats.OpenTrades}}
:WINS:        {{.Stats.Wins}}
:LOSSES:      {{.Stats.Losses}}
:WIN_RATE:    {{pct .Stats.WinRate}}
:NET_PNL:     {{money .Stats.NetPnL}}
:PROFIT_FAC:  {{pf .Stats.ProfitFactor}}
:MAX_DD:      {{money .Stats.MaxDrawdown}}
{{- if not .Created.IsZero }}
:CREATED:     [{{.Created.Format "2006-01-02 Mon 15:04"}}]
{{- end }}
:END:

** Performance Summary
- Net P/L:        *{{money .Stats.NetPnL}}*
- Win Rate:       *{{pct .Stats.WinRate}}%*
- Profit Factor:  *{{pf .Stats.ProfitFactor}}*
- Gross Profit:   {{money .Stats.GrossProfit}}
- Gross Loss:     {{money .Stats.GrossLoss}}
- Average Win:    {{money .Stats.AvgWin}}
- Average Loss:   {{money .Stats.AvgLoss}}
- Max Drawdown:   {{money .Stats.MaxDrawdown}}
{{- if .Stats.PlaybookChecked }}
- Playbook:       {{.Stats.PlaybookValid}}/{{.Stats.PlaybookChecked}} valid ({{pct .Stats.PlaybookCompliance}}%)
{{- end }}

{{- with .Progress }}

** Evaluation
| Target | Max Loss | Progress | Remaining | Status |
|--------+----------+----------+-----------+--------|
| {{money .Target}} | {{money .MaxLoss}} | {{pct .Percent}}% | {{money .Remaining}} | {{if .MaxLossBreached}}BREACHED{{else if .TargetReached}}PASSED{{else}}ACTIVE{{end}} |
{{- end }}

** Trade Distribution
| Outcome   | Count |
|-----------+-------|
| Wins      | {{.Stats.Wins}} |
| Losses    | {{.Stats.Losses}} |
| Breakeven | {{.Stats.Breakeven}} |
| Open      | {{.Stats.OpenTrades}} |
| Total     | {{.Stats.TotalTrades}} |

** Weekday P/L
| Day | Trades | P/L |
|-----+--------+-----|
{{- range .Stats.Weekdays }}
| {{.Weekday}} | {{.Trades}} | {{money .PnL}} |
{{- end }}

{{- if .Stats.Symbols }}

** Instruments
| Symbol | Trades |
|--------+--------|
{{- range .Stats.Symbols }}
| {{.Symbol}} | {{.Count}} |
{{- end }}
{{- end }}

{{- if .Stats.Skipped }}

** Skipped
{{- range .Stats.Skipped }}
- {{.TradeID}}: {{.Err}}
{{- end }}
{{- end }}
`

// PrintReport writes a plain-text summary of r.
func PrintReport(w io.Writer, r Report) {
	s := r.Stats

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Performance")
	fmt.Fprintln(w, "==================================================")

	if r.FirmName != "" {
		fmt.Fprintf(w, "Firm:          %s\n", r.FirmName)
	}
	if r.AccountID != "" {
		fmt.Fprintf(w, "Account:       %s\n", r.AccountID)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d (%d closed, %d open)\n", s.TotalTrades, s.ClosedTrades, s.OpenTrades)
	fmt.Fprintf(w, "Wins:          %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinRate)
	fmt.Fprintf(w, "Profit Factor: %s\n", FormatProfitFactor(s.ProfitFactor))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "P/L")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Net P/L:       %s\n", s.NetPnL.StringFixed(2))
	fmt.Fprintf(w, "Gross Profit:  %s\n", s.GrossProfit.StringFixed(2))
	fmt.Fprintf(w, "Gross Loss:    %s\n", s.GrossLoss.StringFixed(2))
	fmt.Fprintf(w, "Avg Win:       %s\n", s.AvgWin.StringFixed(2))
	fmt.Fprintf(w, "Avg Loss:      %s\n", s.AvgLoss.StringFixed(2))
	fmt.Fprintf(w, "Max Drawdown:  %s\n", s.MaxDrawdown.StringFixed(2))
	if s.PlaybookChecked > 0 {
		fmt.Fprintf(w, "Playbook:      %d/%d valid (%.2f%%)\n", s.PlaybookValid, s.PlaybookChecked, s.PlaybookCompliance)
	}

	if p := r.Progress; p != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Evaluation")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Target:        %s (%.1f%% reached)\n", p.Target.StringFixed(2), p.Percent)
		fmt.Fprintf(w, "Remaining:     %s\n", p.Remaining.StringFixed(2))
		fmt.Fprintf(w, "Max Loss:      %s\n", p.MaxLoss.StringFixed(2))
		switch {
		case p.MaxLossBreached:
			fmt.Fprintln(w, "Status:        BREACHED")
		case p.TargetReached:
			fmt.Fprintln(w, "Status:        PASSED")
		default:
			fmt.Fprintln(w, "Status:        ACTIVE")
		}
	}

	if len(s.Skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Skipped")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, sk := range s.Skipped {
			fmt.Fprintf(w, "- %s: %v\n", sk.TradeID, sk.Err)
		}
	}

	fmt.Fprintln(w)
}
