package market

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCaseInsensitive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		symbol string
		want   int64
	}{
		{"NQ", 20},
		{"nq", 20},
		{" Es ", 50},
		{"mnq", 2},
		{"MES", 5},
		{"cl", 1000},
		{"GC", 100},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			pv, err := Instruments.PointValue(tt.symbol)
			require.NoError(t, err)
			assert.True(t, pv.Equal(decimal.NewFromInt(tt.want)), "got %s", pv)
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	t.Parallel()

	_, err := Instruments.Lookup("ZZZ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownInstrument))
	assert.Contains(t, err.Error(), "ZZZ")
}

func TestMicroNeverFallsBackToStandard(t *testing.T) {
	t.Parallel()

	tbl := InstrumentTable{
		"NQ": {Symbol: "NQ", PointValue: decimal.NewFromInt(20)},
	}

	_, err := tbl.Lookup("MNQ")
	assert.ErrorIs(t, err, ErrUnknownInstrument)

	// a symbol that merely starts with M is not treated as a micro
	_, err = tbl.Lookup("MSFT")
	assert.ErrorIs(t, err, ErrUnknownInstrument)
}

func TestNewInstrumentTable(t *testing.T) {
	t.Parallel()

	tbl, err := NewInstrumentTable(map[string]float64{
		"nq":  20,
		"mnq": 2,
		"ZB":  1000,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"MNQ", "NQ", "ZB"}, tbl.Symbols())
	assert.Equal(t, "E-mini Nasdaq-100", tbl["NQ"].Name)
	assert.Equal(t, "ZB", tbl["ZB"].Name)
	assert.True(t, tbl["MNQ"].PointValue.Equal(decimal.NewFromInt(2)))
}

func TestNewInstrumentTableRejectsBadValues(t *testing.T) {
	t.Parallel()

	_, err := NewInstrumentTable(map[string]float64{"NQ": 0})
	assert.Error(t, err)

	_, err = NewInstrumentTable(map[string]float64{" ": 5})
	assert.Error(t, err)
}
