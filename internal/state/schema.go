package state

import "database/sql"

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	return withTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS player_curves (
				player TEXT PRIMARY KEY,
				curve REAL NOT NULL CHECK (curve > 0 AND curve < 1),
				updated_at INTEGER NOT NULL
			);

			CREATE TABLE IF NOT EXISTS last_seen (
				player TEXT PRIMARY KEY,
				file TEXT NOT NULL,
				title TEXT,
				artist TEXT,
				album TEXT,
				seen_at INTEGER NOT NULL
			);
		`)
		if err != nil {
			return err
		}

		// Set initial version if not exists
		_, err = tx.Exec(`
			INSERT OR IGNORE INTO schema_version (version) VALUES (?)
		`, currentSchemaVersion)
		return err
	})
}
