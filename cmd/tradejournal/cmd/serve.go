package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rustyeddy/tradejournal/webhook"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the TradingView webhook server",
	Long: `Listen for TradingView alerts and log each one as an open trade.

Point the alert's webhook URL at http://<host><addr>/webhook and send a
JSON message such as:

  {"ticker": "{{ticker}}", "action": "{{strategy.order.action}}",
   "price": "{{close}}", "contracts": "{{strategy.order.contracts}}"}`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides webhook.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Webhook.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	var limiter *rate.Limiter
	if cfg.Webhook.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Webhook.RateLimit), cfg.Webhook.RateBurst)
	}

	mux := http.NewServeMux()
	mux.Handle("/webhook", webhook.NewHandler(log, j, cfg.Account.ID, limiter))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("webhook server listening",
			zap.String("addr", addr),
			zap.String("account", cfg.Account.ID),
			zap.String("db", cfg.Journal.DBPath),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("webhook server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}
