package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print performance statistics for the account",
	Long: `Compute win rate, profit factor, net P/L, drawdown and the weekday and
instrument breakdowns over every trade in the journal for the account.

Examples:
  tradejournal stats
  tradejournal stats --org report.org`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var equityCmd = &cobra.Command{
	Use:   "equity",
	Short: "Print the cumulative equity curve",
	Args:  cobra.NoArgs,
	RunE:  runEquity,
}

var weekdaysCmd = &cobra.Command{
	Use:   "weekdays",
	Short: "Print realized P/L by weekday",
	Args:  cobra.NoArgs,
	RunE:  runWeekdays,
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print P/L per calendar day",
	Args:  cobra.NoArgs,
	RunE:  runCalendar,
}

var statsOrgPath string

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(equityCmd)
	rootCmd.AddCommand(weekdaysCmd)
	rootCmd.AddCommand(calendarCmd)

	statsCmd.Flags().StringVar(&statsOrgPath, "org", "", "also write an Org-mode report to this file")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := analyze(cmd.Context())
	if err != nil {
		return err
	}

	r := journal.Report{
		AccountID: cfg.Account.ID,
		FirmName:  cfg.Account.FirmName,
		Created:   time.Now().In(a.loc),
		Timezone:  a.loc.String(),
		Stats:     a.stats,
	}
	if cfg.Account.ProfitTarget > 0 || cfg.Account.MaxLoss > 0 {
		p := analytics.Progress(
			a.stats.NetPnL,
			decimal.NewFromFloat(cfg.Account.ProfitTarget),
			decimal.NewFromFloat(cfg.Account.MaxLoss),
		)
		r.Progress = &p
	}

	journal.PrintReport(cmd.OutOrStdout(), r)

	if statsOrgPath == "" {
		return nil
	}
	f, err := os.Create(statsOrgPath)
	if err != nil {
		return fmt.Errorf("create org report: %w", err)
	}
	defer f.Close()

	if err := journal.WriteReportOrg(f, r); err != nil {
		return fmt.Errorf("write org report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Org report written to %s\n", statsOrgPath)
	return nil
}

func runEquity(cmd *cobra.Command, args []string) error {
	a, err := analyze(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-10s  %-26s  %12s  %12s\n", "DATE", "TRADE", "PNL", "EQUITY")
	for _, p := range a.stats.Equity {
		fmt.Fprintf(w, "%-10s  %-26s  %12s  %12s\n", p.Date, p.TradeID, p.PnL.StringFixed(2), p.Cumulative.StringFixed(2))
	}
	fmt.Fprintf(w, "\nMax drawdown: %s\n", a.stats.MaxDrawdown.StringFixed(2))
	return nil
}

func runWeekdays(cmd *cobra.Command, args []string) error {
	a, err := analyze(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-10s  %6s  %12s\n", "WEEKDAY", "TRADES", "PNL")
	for _, b := range a.stats.Weekdays {
		fmt.Fprintf(w, "%-10s  %6d  %12s\n", b.Weekday, b.Trades, b.PnL.StringFixed(2))
	}
	return nil
}

func runCalendar(cmd *cobra.Command, args []string) error {
	a, err := analyze(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-10s  %-3s  %6s  %12s\n", "DATE", "DAY", "TRADES", "PNL")
	for _, d := range a.stats.Days {
		day, err := time.ParseInLocation("2006-01-02", d.Date, a.loc)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-10s  %-3s  %6d  %12s\n", d.Date, day.Weekday().String()[:3], len(d.Trades), d.PnL.StringFixed(2))
	}
	return nil
}
