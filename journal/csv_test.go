package journal

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/rustyeddy/tradejournal/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVHeaderOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, market.Instruments))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	want := []string{"trade_id", "account_id", "symbol", "side", "contracts", "entry_price", "exit_price", "opened_at", "pnl", "strategy", "notes", "rules_checked", "playbook"}
	assert.Equal(t, want, rows[0])
}

func TestWriteCSVRows(t *testing.T) {
	t.Parallel()

	opened := time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)

	closed, err := market.DefaultPlaybook.Apply(
		testTrade("T1", opened).WithExit(decimal.RequireFromString("17010.25")),
		[]string{"trend", "fvg", "liq"},
	)
	require.NoError(t, err)
	open := testTrade("T2", opened.Add(time.Hour))
	unknown := testTrade("T3", opened.Add(2*time.Hour)).WithExit(decimal.NewFromInt(5))
	unknown.Symbol = "ZZZ"
	unknown.Notes = "comma, inside"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []market.Trade{closed, open, unknown}, market.Instruments))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{
		"T1", "ACC-1", "NQ", "LONG", "2", "17000.25", "17010.25",
		opened.Format(time.RFC3339), "400.00", "ORB", "first pullback",
		"trend fvg liq", "valid",
	}, rows[1])

	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "", rows[2][8])
	assert.Equal(t, "", rows[2][12])

	assert.Equal(t, "5", rows[3][6])
	assert.Equal(t, "", rows[3][8])
	assert.Equal(t, "comma, inside", rows[3][10])
}
