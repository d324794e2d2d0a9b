package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/id"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/market"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Log and query journal trades",
	Long: `Log, close, and query trades in the SQLite journal.

Subcommands:
  add    - Log a new trade
  close  - Set the exit price of an open trade
  show   - Show one trade as an Org-mode entry
  list   - List trades, optionally for a single day
  delete - Remove a trade

Examples:
  tradejournal trade add --symbol NQ --side long --contracts 2 --entry 17000.25 --rules trend,fvg,liq
  tradejournal trade close 01HN3Y4Z5K8V9W 17010.25
  tradejournal trade list --day 2024-01-15`,
}

var tradeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a new trade",
	Args:  cobra.NoArgs,
	RunE:  runTradeAdd,
}

var tradeCloseCmd = &cobra.Command{
	Use:   "close <trade-id> <exit-price>",
	Short: "Set the exit price of an open trade",
	Args:  cobra.ExactArgs(2),
	RunE:  runTradeClose,
}

var tradeShowCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Show a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeShow,
}

var tradeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades for the account",
	Args:  cobra.NoArgs,
	RunE:  runTradeList,
}

var tradeDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Remove a trade from the journal",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeDelete,
}

var (
	addSymbol    string
	addSide      string
	addContracts int
	addEntry     string
	addExit      string
	addOpened    string
	addStrategy  string
	addNotes     string
	addRules     []string

	listDay string
)

// Layouts accepted by --opened, interpreted in analytics.timezone
// unless they carry an offset.
var openedLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeAddCmd)
	tradeCmd.AddCommand(tradeCloseCmd)
	tradeCmd.AddCommand(tradeShowCmd)
	tradeCmd.AddCommand(tradeListCmd)
	tradeCmd.AddCommand(tradeDeleteCmd)

	f := tradeAddCmd.Flags()
	f.StringVar(&addSymbol, "symbol", "", "instrument symbol, e.g. NQ or MNQ (required)")
	f.StringVar(&addSide, "side", "", "long/buy or short/sell (required)")
	f.IntVar(&addContracts, "contracts", 1, "number of contracts")
	f.StringVar(&addEntry, "entry", "", "entry price (required)")
	f.StringVar(&addExit, "exit", "", "exit price; omit for an open trade")
	f.StringVar(&addOpened, "opened", "", "time the trade was opened (default now)")
	f.StringVar(&addStrategy, "strategy", "", "strategy tag")
	f.StringVar(&addNotes, "notes", "", "free-form notes")
	f.StringSliceVar(&addRules, "rules", nil, "playbook rule ids that were met, e.g. trend,fvg,liq")
	_ = tradeAddCmd.MarkFlagRequired("symbol")
	_ = tradeAddCmd.MarkFlagRequired("side")
	_ = tradeAddCmd.MarkFlagRequired("entry")

	tradeListCmd.Flags().StringVar(&listDay, "day", "", "only trades opened on this day (YYYY-MM-DD)")
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	tbl, err := cfg.InstrumentTable()
	if err != nil {
		return err
	}

	side, err := market.ParseSide(addSide)
	if err != nil {
		return err
	}
	entry, err := decimal.NewFromString(addEntry)
	if err != nil {
		return fmt.Errorf("entry price: %w", err)
	}
	opened, err := parseOpened(addOpened, loc)
	if err != nil {
		return fmt.Errorf("opened: %w", err)
	}

	tradeID, err := id.At(opened)
	if err != nil {
		return fmt.Errorf("opened: %w", err)
	}

	t := market.Trade{
		ID:         tradeID,
		AccountID:  cfg.Account.ID,
		Symbol:     market.NormalizeSymbol(addSymbol),
		Side:       side,
		Contracts:  addContracts,
		EntryPrice: entry,
		OpenedAt:   opened,
		Strategy:   addStrategy,
		Notes:      addNotes,
	}
	if addExit != "" {
		exit, err := decimal.NewFromString(addExit)
		if err != nil {
			return fmt.Errorf("exit price: %w", err)
		}
		t = t.WithExit(exit)
	}
	if len(addRules) > 0 {
		if t, err = cfg.PlaybookRules().Apply(t, addRules); err != nil {
			return err
		}
	}

	if _, err := tbl.Lookup(t.Symbol); err != nil {
		log.Warn("symbol has no point value, trade will be excluded from stats", zap.String("symbol", t.Symbol))
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.RecordTrade(cmd.Context(), t); err != nil {
		return fmt.Errorf("record trade: %w", err)
	}
	log.Debug("trade recorded", zap.String("trade_id", t.ID))

	pnl, _ := analytics.TradePnL(t, tbl)
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t, pnl))
	return nil
}

func runTradeClose(cmd *cobra.Command, args []string) error {
	exit, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("exit price: %w", err)
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.CloseTrade(cmd.Context(), args[0], exit); err != nil {
		return fmt.Errorf("close trade: %w", err)
	}
	return showTrade(cmd, j, args[0])
}

func runTradeShow(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	return showTrade(cmd, j, args[0])
}

func showTrade(cmd *cobra.Command, j journal.Journal, tradeID string) error {
	t, err := j.GetTrade(cmd.Context(), tradeID)
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	tbl, err := cfg.InstrumentTable()
	if err != nil {
		return err
	}
	pnl, err := analytics.TradePnL(t, tbl)
	if err != nil {
		log.Warn("pnl unavailable", zap.String("trade_id", t.ID), zap.Error(err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t, pnl))
	return nil
}

func runTradeList(cmd *cobra.Command, args []string) error {
	tbl, err := cfg.InstrumentTable()
	if err != nil {
		return err
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	var trades []market.Trade
	if listDay == "" {
		trades, err = j.ListTrades(cmd.Context(), cfg.Account.ID)
	} else {
		loc, lerr := cfg.Location()
		if lerr != nil {
			return lerr
		}
		start, end, derr := dayBounds(loc, listDay)
		if derr != nil {
			return fmt.Errorf("date: %w", derr)
		}
		trades, err = j.ListTradesOpenedBetween(cmd.Context(), cfg.Account.ID, start, end)
	}
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(trades, tbl))
	return nil
}

func runTradeDelete(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.DeleteTrade(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, journal.ErrTradeNotFound) {
			return fmt.Errorf("no trade with id %s", args[0])
		}
		return fmt.Errorf("delete trade: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted trade %s\n", args[0])
	return nil
}

func parseOpened(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Now().In(loc), nil
	}
	for _, layout := range openedLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q, use RFC3339 or YYYY-MM-DD HH:MM", s)
}
