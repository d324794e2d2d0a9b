// market/instruments.go
package market

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownInstrument is returned when a symbol has no entry in an InstrumentTable.
var ErrUnknownInstrument = errors.New("unknown instrument")

// Instrument describes a contract the journal knows how to value.
// PointValue is the cash value of one full point of price movement
// for a single contract.
type Instrument struct {
	Symbol     string
	Name       string
	PointValue decimal.Decimal
}

// InstrumentTable maps normalized symbols to instruments. Every
// supported symbol needs its own entry: micro contracts are listed
// separately from their standard contracts and are never derived
// from the symbol text.
type InstrumentTable map[string]Instrument

// Instruments is the built-in table used when configuration does not
// supply one.
var Instruments = InstrumentTable{
	"NQ":  {Symbol: "NQ", Name: "E-mini Nasdaq-100", PointValue: decimal.NewFromInt(20)},
	"MNQ": {Symbol: "MNQ", Name: "Micro E-mini Nasdaq-100", PointValue: decimal.NewFromInt(2)},
	"ES":  {Symbol: "ES", Name: "E-mini S&P 500", PointValue: decimal.NewFromInt(50)},
	"MES": {Symbol: "MES", Name: "Micro E-mini S&P 500", PointValue: decimal.NewFromInt(5)},
	"YM":  {Symbol: "YM", Name: "E-mini Dow", PointValue: decimal.NewFromInt(5)},
	"MYM": {Symbol: "MYM", Name: "Micro E-mini Dow", PointValue: decimal.RequireFromString("0.5")},
	"RTY": {Symbol: "RTY", Name: "E-mini Russell 2000", PointValue: decimal.NewFromInt(50)},
	"M2K": {Symbol: "M2K", Name: "Micro E-mini Russell 2000", PointValue: decimal.NewFromInt(5)},
	"CL":  {Symbol: "CL", Name: "Crude Oil", PointValue: decimal.NewFromInt(1000)},
	"MCL": {Symbol: "MCL", Name: "Micro Crude Oil", PointValue: decimal.NewFromInt(100)},
	"GC":  {Symbol: "GC", Name: "Gold", PointValue: decimal.NewFromInt(100)},
	"MGC": {Symbol: "MGC", Name: "Micro Gold", PointValue: decimal.NewFromInt(10)},
	"BTC": {Symbol: "BTC", Name: "Bitcoin (spot)", PointValue: decimal.NewFromInt(1)},
	"ETH": {Symbol: "ETH", Name: "Ether (spot)", PointValue: decimal.NewFromInt(1)},
}

// NormalizeSymbol trims and upper-cases a ticker for table lookup.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Lookup returns the instrument for symbol, matching case-insensitively.
func (tbl InstrumentTable) Lookup(symbol string) (Instrument, error) {
	key := NormalizeSymbol(symbol)
	inst, ok := tbl[key]
	if !ok {
		return Instrument{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, symbol)
	}
	return inst, nil
}

// PointValue is shorthand for Lookup(symbol).PointValue.
func (tbl InstrumentTable) PointValue(symbol string) (decimal.Decimal, error) {
	inst, err := tbl.Lookup(symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return inst.PointValue, nil
}

// Symbols returns the table's keys in sorted order.
func (tbl InstrumentTable) Symbols() []string {
	out := make([]string, 0, len(tbl))
	for k := range tbl {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// NewInstrumentTable builds a table from symbol -> point value pairs,
// normalizing every key. A non-positive point value is rejected.
func NewInstrumentTable(pointValues map[string]float64) (InstrumentTable, error) {
	tbl := make(InstrumentTable, len(pointValues))
	for sym, pv := range pointValues {
		key := NormalizeSymbol(sym)
		if key == "" {
			return nil, fmt.Errorf("instrument with empty symbol")
		}
		if pv <= 0 {
			return nil, fmt.Errorf("instrument %s: point value must be positive", key)
		}
		name := key
		if known, ok := Instruments[key]; ok {
			name = known.Name
		}
		tbl[key] = Instrument{Symbol: key, Name: name, PointValue: decimal.NewFromFloat(pv)}
	}
	return tbl, nil
}
