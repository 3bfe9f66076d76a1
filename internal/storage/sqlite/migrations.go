package sqlite

import "database/sql"

// schema sets up the day-document table. One row per (day, creator) group;
// the order list is stored as a JSON array so the append path can use
// SQLite's json_insert as the store-native atomic append.
const schema = `
CREATE TABLE IF NOT EXISTS day_orders (
    day TEXT NOT NULL,
    creator_id TEXT NOT NULL,
    orders TEXT NOT NULL DEFAULT '[]',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    PRIMARY KEY (day, creator_id)
);

CREATE INDEX IF NOT EXISTS idx_day_orders_day ON day_orders(day);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
