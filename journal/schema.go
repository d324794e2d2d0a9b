// journal/schema.go
package journal

// Prices are stored as TEXT so decimals round-trip exactly.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL DEFAULT '',
	symbol TEXT NOT NULL,
	side TEXT NOT NULL CHECK (side IN ('LONG', 'SHORT')),
	contracts INTEGER NOT NULL CHECK (contracts > 0),
	entry_price TEXT NOT NULL,
	exit_price TEXT,
	opened_at DATETIME NOT NULL,
	strategy TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	rules_checked TEXT NOT NULL DEFAULT '',
	playbook_valid INTEGER
);

CREATE INDEX IF NOT EXISTS idx_trades_account_opened ON trades(account_id, opened_at);
`

// addedColumns are applied to journals created before the column existed.
var addedColumns = []struct{ name, ddl string }{
	{"rules_checked", `ALTER TABLE trades ADD COLUMN rules_checked TEXT NOT NULL DEFAULT ''`},
	{"playbook_valid", `ALTER TABLE trades ADD COLUMN playbook_valid INTEGER`},
}
