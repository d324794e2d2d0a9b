// Package webhook turns TradingView alerts into journal entries.
package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/id"
	"github.com/rustyeddy/tradejournal/market"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Strategy tags every trade logged through the webhook.
const Strategy = "TV_AUTOMATED"

const maxBodyBytes = 64 << 10

// TradeRecorder stores a newly opened trade.
type TradeRecorder interface {
	RecordTrade(ctx context.Context, t market.Trade) error
}

// Alert is the JSON body a TradingView alert posts. Price and contracts
// may be sent as numbers or strings.
type Alert struct {
	Ticker    string          `json:"ticker"`
	Action    string          `json:"action"`
	Price     decimal.Decimal `json:"price"`
	Contracts Quantity        `json:"contracts"`
}

// Quantity holds the raw contracts value. An empty string or null is
// left empty, which is how an unfilled alert placeholder arrives.
type Quantity string

func (q *Quantity) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*q = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = Quantity(strings.TrimSpace(s))
		return nil
	}
	*q = Quantity(b)
	return nil
}

// Handler serves the webhook endpoint.
type Handler struct {
	log       *zap.Logger
	recorder  TradeRecorder
	accountID string
	limiter   *rate.Limiter
	now       func() time.Time
}

// NewHandler returns a handler that records alerts for accountID. A nil
// limiter disables throttling.
func NewHandler(log *zap.Logger, recorder TradeRecorder, accountID string, limiter *rate.Limiter) *Handler {
	return &Handler{
		log:       log.Named("webhook"),
		recorder:  recorder,
		accountID: accountID,
		limiter:   limiter,
		now:       time.Now,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]string{"message": "webhook is active"})
	case http.MethodPost:
		h.handleAlert(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleAlert(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow() {
		h.log.Warn("alert rate limited", zap.String("remote", r.RemoteAddr))
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var alert Alert
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&alert); err != nil {
		h.log.Warn("invalid alert body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	trade, msg := h.tradeFromAlert(alert)
	if msg != "" {
		h.log.Warn("rejected alert", zap.String("reason", msg), zap.String("ticker", alert.Ticker))
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.recorder.RecordTrade(r.Context(), trade); err != nil {
		h.log.Error("record trade failed", zap.String("trade_id", trade.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to record trade")
		return
	}

	h.log.Info("trade logged",
		zap.String("trade_id", trade.ID),
		zap.String("symbol", trade.Symbol),
		zap.String("side", string(trade.Side)),
		zap.Int("contracts", trade.Contracts),
		zap.String("entry", trade.EntryPrice.String()),
	)
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "trade logged",
		"trade_id": trade.ID,
	})
}

// tradeFromAlert returns the open trade an alert describes, or a client
// facing reason why it cannot be recorded.
func (h *Handler) tradeFromAlert(a Alert) (market.Trade, string) {
	symbol := TickerSymbol(a.Ticker)
	if symbol == "" {
		return market.Trade{}, "ticker is required"
	}

	action := a.Action
	if strings.TrimSpace(action) == "" {
		action = string(market.Long)
	}
	side, err := market.ParseSide(action)
	if err != nil {
		return market.Trade{}, "action must be BUY or SELL"
	}

	if !a.Price.IsPositive() {
		return market.Trade{}, "price must be positive"
	}

	contracts := 1
	if a.Contracts != "" {
		n, err := strconv.Atoi(string(a.Contracts))
		if err != nil || n <= 0 {
			return market.Trade{}, "contracts must be a positive integer"
		}
		contracts = n
	}

	opened := h.now()
	tradeID, err := id.At(opened)
	if err != nil {
		return market.Trade{}, "alert time out of range"
	}
	return market.Trade{
		ID:         tradeID,
		AccountID:  h.accountID,
		Symbol:     symbol,
		Side:       side,
		Contracts:  contracts,
		EntryPrice: a.Price,
		OpenedAt:   opened,
		Strategy:   Strategy,
	}, ""
}

// TickerSymbol maps a TradingView ticker such as "CME_MINI:NQ1!" to the
// journal symbol "NQ". Plain symbols pass through normalized.
func TickerSymbol(ticker string) string {
	s := market.NormalizeSymbol(ticker)
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}
	if strings.HasSuffix(s, "!") {
		s = strings.TrimRight(strings.TrimSuffix(s, "!"), "0123456789")
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
