package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command the way main does. Flag variables are
// package globals, so they are reset first.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile, dbPath, accountFlag = "", "", ""
	addSymbol, addSide, addEntry, addExit, addOpened, addStrategy, addNotes = "", "", "", "", "", "", ""
	addContracts = 1
	addRules = nil
	listDay, statsOrgPath, exportOutput, serveAddr = "", "", "-", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

var idRe = regexp.MustCompile(`:ID: (\S+)`)

func tradeID(t *testing.T, out string) string {
	t.Helper()
	m := idRe.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	return m[1]
}

func TestTradeLifecycleAndStats(t *testing.T) {
	t.Setenv("TRADEJOURNAL_ANALYTICS_TIMEZONE", "UTC")
	t.Setenv("TRADEJOURNAL_LOGGER_LEVEL", "error")
	db := filepath.Join(t.TempDir(), "journal.sqlite")

	out, err := run(t, "--db", db, "trade", "add",
		"--symbol", "nq", "--side", "buy", "--contracts", "2",
		"--entry", "17000", "--exit", "17010", "--opened", "2024-01-01 09:30",
		"--strategy", "ORB")
	require.NoError(t, err, out)
	assert.Contains(t, out, ":SYMBOL: NQ")
	assert.Contains(t, out, ":PNL: 400.00")

	out, err = run(t, "--db", db, "trade", "add",
		"--symbol", "ES", "--side", "short", "--entry", "4800",
		"--opened", "2024-01-02T10:00:00Z")
	require.NoError(t, err, out)
	assert.Contains(t, out, ":EXIT_PRICE: open")
	esID := tradeID(t, out)

	out, err = run(t, "--db", db, "trade", "close", esID, "4803")
	require.NoError(t, err, out)
	assert.Contains(t, out, ":PNL: -150.00")

	out, err = run(t, "--db", db, "trade", "list", "--day", "2024-01-02")
	require.NoError(t, err, out)
	assert.Contains(t, out, esID)
	assert.NotContains(t, out, ":SYMBOL: NQ")

	out, err = run(t, "--db", db, "stats")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Trades:        2 (2 closed, 0 open)")
	assert.Contains(t, out, "Win Rate:      50.00%")
	assert.Contains(t, out, "Profit Factor: 2.67")
	assert.Contains(t, out, "Net P/L:       250.00")
	assert.Contains(t, out, "Max Drawdown:  150.00")

	out, err = run(t, "--db", db, "weekdays")
	require.NoError(t, err, out)
	assert.Regexp(t, `Monday\s+1\s+400\.00`, out)
	assert.Regexp(t, `Tuesday\s+1\s+-150\.00`, out)
	assert.Regexp(t, `Friday\s+0\s+0\.00`, out)

	out, err = run(t, "--db", db, "calendar")
	require.NoError(t, err, out)
	assert.Regexp(t, `2024-01-01\s+Mon\s+1\s+400\.00`, out)
	assert.Regexp(t, `2024-01-02\s+Tue\s+1\s+-150\.00`, out)

	out, err = run(t, "--db", db, "equity")
	require.NoError(t, err, out)
	assert.Regexp(t, `2024-01-02\s+`+esID+`\s+-150\.00\s+250\.00`, out)

	csvPath := filepath.Join(t.TempDir(), "trades.csv")
	_, err = run(t, "--db", db, "export", "csv", "-o", csvPath)
	require.NoError(t, err)
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)

	orgPath := filepath.Join(t.TempDir(), "report.org")
	_, err = run(t, "--db", db, "stats", "--org", orgPath)
	require.NoError(t, err)
	data, err = os.ReadFile(orgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), ":NET_PNL:     250.00")

	out, err = run(t, "--db", db, "trade", "delete", esID)
	require.NoError(t, err, out)
	_, err = run(t, "--db", db, "trade", "show", esID)
	assert.Error(t, err)
}

func TestAccountScopesTrades(t *testing.T) {
	t.Setenv("TRADEJOURNAL_LOGGER_LEVEL", "error")
	db := filepath.Join(t.TempDir(), "journal.sqlite")

	_, err := run(t, "--db", db, "-a", "EVAL-1", "trade", "add",
		"--symbol", "MNQ", "--side", "long", "--entry", "17000", "--exit", "17005")
	require.NoError(t, err)

	out, err := run(t, "--db", db, "-a", "EVAL-2", "stats")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Trades:        0 (0 closed, 0 open)")

	out, err = run(t, "--db", db, "-a", "EVAL-1", "stats")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Net P/L:       10.00")
}

func TestTradeAddRejectsBadInput(t *testing.T) {
	t.Setenv("TRADEJOURNAL_LOGGER_LEVEL", "error")
	db := filepath.Join(t.TempDir(), "journal.sqlite")

	_, err := run(t, "--db", db, "trade", "add", "--symbol", "NQ", "--side", "flat", "--entry", "1")
	assert.Error(t, err)

	_, err = run(t, "--db", db, "trade", "add", "--symbol", "NQ", "--side", "long", "--entry", "abc")
	assert.Error(t, err)

	_, err = run(t, "--db", db, "trade", "add", "--symbol", "NQ", "--side", "long", "--entry", "1", "--contracts", "0")
	assert.Error(t, err)

	// pre-epoch times cannot be stamped into a trade id
	_, err = run(t, "--db", db, "trade", "add", "--symbol", "NQ", "--side", "long", "--entry", "1", "--opened", "1960-01-01 00:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time outside ULID range")
}

func TestTradeAddPlaybookRules(t *testing.T) {
	t.Setenv("TRADEJOURNAL_LOGGER_LEVEL", "error")
	db := filepath.Join(t.TempDir(), "journal.sqlite")

	out, err := run(t, "--db", db, "trade", "add", "--symbol", "NQ", "--side", "long",
		"--entry", "17000", "--exit", "17010", "--rules", "trend,fvg,liq")
	require.NoError(t, err, out)
	assert.Contains(t, out, ":PLAYBOOK: valid")
	assert.Contains(t, out, ":RULES: trend fvg liq")

	out, err = run(t, "--db", db, "trade", "add", "--symbol", "NQ", "--side", "long",
		"--entry", "17000", "--exit", "16990", "--rules", "trend", "--rules", "news")
	require.NoError(t, err, out)
	assert.Contains(t, out, ":PLAYBOOK: invalid")
	assert.Contains(t, out, ":RULES: trend news")

	out, err = run(t, "--db", db, "trade", "add", "--symbol", "NQ", "--side", "long", "--entry", "17000")
	require.NoError(t, err, out)
	assert.NotContains(t, out, ":PLAYBOOK:")

	_, err = run(t, "--db", db, "trade", "add", "--symbol", "NQ", "--side", "long",
		"--entry", "17000", "--rules", "vibes")
	assert.Error(t, err)

	out, err = run(t, "--db", db, "stats")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Trades:        3 (2 closed, 1 open)")
	assert.Contains(t, out, "Playbook:      1/2 valid (50.00%)")
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.yaml")

	out, err := run(t, "config", "init", "-o", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Created default configuration")

	out, err = run(t, "config", "validate", "-f", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "Account: default")
}

func TestDayBounds(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	start, end, err := dayBounds(ny, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, ny), start)
	// DST starts that day
	assert.Equal(t, 23*time.Hour, end.Sub(start))

	_, _, err = dayBounds(time.UTC, "03/10/2024")
	assert.Error(t, err)
}

func TestParseOpened(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("EST", -5*3600)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-02 09:30", time.Date(2024, 1, 2, 9, 30, 0, 0, loc)},
		{"2024-01-02 09:30:15", time.Date(2024, 1, 2, 9, 30, 15, 0, loc)},
		{"2024-01-02T09:30", time.Date(2024, 1, 2, 9, 30, 0, 0, loc)},
		{"2024-01-02T14:30:00Z", time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseOpened(tt.in, loc)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), tt.in)
	}

	_, err := parseOpened("yesterday", loc)
	assert.Error(t, err)
}
