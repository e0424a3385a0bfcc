package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateSingleCurrentScenario(db); err != nil {
		return fmt.Errorf("enforcing single current scenario: %w", err)
	}
	return nil
}

// migrateSingleCurrentScenario clears stray current flags left by databases
// written before the partial unique index existed, keeping the most recently
// updated scenario current, and then creates the index.
func migrateSingleCurrentScenario(db *sql.DB) error {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_scenarios_single_current'`).Scan(&n); err != nil {
		return fmt.Errorf("checking index: %w", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE scenarios SET is_current = 0
		WHERE is_current = 1 AND id <> (
			SELECT id FROM scenarios WHERE is_current = 1
			ORDER BY updated_at DESC, id DESC LIMIT 1
		)`); err != nil {
		return fmt.Errorf("clearing extra current flags: %w", err)
	}
	if _, err := tx.Exec(`CREATE UNIQUE INDEX idx_scenarios_single_current
		ON scenarios(is_current) WHERE is_current = 1`); err != nil {
		return fmt.Errorf("creating index: %w", err)
	}
	return tx.Commit()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS scenarios (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		is_locked   INTEGER NOT NULL DEFAULT 0,
		is_current  INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		created_by  TEXT NOT NULL,
		updated_by  TEXT NOT NULL,
		deleted_at  TEXT,
		deleted_by  TEXT,
		CHECK(start_date <= end_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_scenarios_start ON scenarios(start_date)`,

	`CREATE TABLE IF NOT EXISTS services (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		slug          TEXT NOT NULL,
		display_order INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		deleted_at    TEXT
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_services_slug ON services(slug)`,

	`CREATE TABLE IF NOT EXISTS account_items (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		code          TEXT NOT NULL,
		description   TEXT,
		account_type  TEXT NOT NULL
		              CHECK(account_type IN ('Revenue','CostOfGoodsSold','SellingGeneralAdmin')),
		display_order INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		deleted_at    TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS plan_nodes (
		id            TEXT PRIMARY KEY,
		scenario_id   TEXT NOT NULL REFERENCES scenarios(id),
		parent_id     TEXT REFERENCES plan_nodes(id) DEFERRABLE INITIALLY DEFERRED,
		lineage_id    TEXT NOT NULL,
		title         TEXT NOT NULL,
		description   TEXT,
		node_type     TEXT NOT NULL
		              CHECK(node_type IN ('Initiative','Project','SubProject','Job','AdjustmentBuffer')),
		display_order INTEGER NOT NULL DEFAULT 0,
		service_id    TEXT REFERENCES services(id),
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		created_by    TEXT NOT NULL,
		updated_by    TEXT NOT NULL,
		deleted_at    TEXT,
		deleted_by    TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plan_nodes_scenario ON plan_nodes(scenario_id)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_nodes_parent ON plan_nodes(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_nodes_lineage ON plan_nodes(lineage_id)`,

	`CREATE TABLE IF NOT EXISTS pl_entries (
		id              TEXT PRIMARY KEY,
		node_id         TEXT NOT NULL REFERENCES plan_nodes(id),
		account_item_id TEXT NOT NULL REFERENCES account_items(id),
		target_month    TEXT NOT NULL,
		entry_category  TEXT NOT NULL CHECK(entry_category IN ('Plan','Result')),
		amount          TEXT NOT NULL,
		description     TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		created_by      TEXT NOT NULL,
		updated_by      TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_pl_entries_cell
		ON pl_entries(node_id, account_item_id, target_month, entry_category)`,

	`CREATE TABLE IF NOT EXISTS pl_entry_histories (
		id               TEXT PRIMARY KEY,
		entry_id         TEXT NOT NULL REFERENCES pl_entries(id),
		change_type      TEXT NOT NULL CHECK(change_type IN ('Create','Update','Delete')),
		previous_amount  TEXT,
		new_amount       TEXT NOT NULL,
		changed_at       TEXT NOT NULL,
		changed_by       TEXT NOT NULL,
		operation_source TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_pl_entry_histories_entry ON pl_entry_histories(entry_id, changed_at)`,
}
