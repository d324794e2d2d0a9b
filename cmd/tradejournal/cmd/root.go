package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/logger"
	"github.com/rustyeddy/tradejournal/market"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "A futures trading journal with PnL and performance analytics",
	Long: `Tradejournal logs futures trades into a SQLite journal and turns them
into per-trade PnL and aggregate performance statistics.

It provides tools for:
  - Logging trades by hand or from TradingView webhook alerts
  - Win rate, profit factor, equity curve and drawdown
  - Weekday and calendar PnL breakdowns
  - Prop-firm evaluation progress
  - CSV and Org-mode exports`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

var (
	cfgFile     string
	dbPath      string
	accountFlag string

	cfg *config.Config
	log *zap.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite journal DB (overrides journal.db_path)")
	rootCmd.PersistentFlags().StringVarP(&accountFlag, "account", "a", "", "account id (overrides account.id)")
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.LoadFromFile(cfgFile)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.Journal.DBPath = dbPath
	}
	if accountFlag != "" {
		c.Account.ID = accountFlag
	}

	l, err := logger.New(c.Logger.Level, c.Logger.Format)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	cfg = c
	log = l
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if log != nil {
		_ = log.Sync()
	}
	return nil
}

func openJournal() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

// analysis is everything a report command needs from one journal snapshot.
type analysis struct {
	trades []market.Trade
	table  market.InstrumentTable
	loc    *time.Location
	stats  analytics.Stats
}

func analyze(ctx context.Context) (*analysis, error) {
	tbl, err := cfg.InstrumentTable()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	j, err := openJournal()
	if err != nil {
		return nil, err
	}
	defer j.Close()

	trades, err := j.ListTrades(ctx, cfg.Account.ID)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}

	stats := analytics.Compute(trades, tbl, loc)
	for _, s := range stats.Skipped {
		log.Warn("trade excluded from stats",
			zap.String("trade_id", s.TradeID),
			zap.String("symbol", s.Symbol),
			zap.Error(s.Err),
		)
	}

	return &analysis{trades: trades, table: tbl, loc: loc, stats: stats}, nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
