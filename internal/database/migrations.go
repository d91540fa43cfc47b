package database

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations are applied in version order. Append only; never edit an
// applied migration.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
			user_id    TEXT PRIMARY KEY,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		Version: 2,
		Name:    "create_trips",
		SQL: `CREATE TABLE IF NOT EXISTS trips (
			trip_id      TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL REFERENCES users(user_id),
			start_time   TIMESTAMP,
			end_time     TIMESTAMP,
			sample_count INTEGER NOT NULL DEFAULT 0,
			created_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		Version: 3,
		Name:    "create_trip_raw",
		SQL: `CREATE TABLE IF NOT EXISTS trip_raw (
			trip_id TEXT PRIMARY KEY REFERENCES trips(trip_id),
			payload TEXT NOT NULL
		)`,
	},
	{
		Version: 4,
		Name:    "create_detections",
		SQL: `CREATE TABLE IF NOT EXISTS detections (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			trip_id   TEXT NOT NULL REFERENCES trips(trip_id),
			user_id   TEXT NOT NULL,
			wall_time TIMESTAMP NOT NULL,
			latitude  REAL NOT NULL,
			longitude REAL NOT NULL,
			intensity REAL NOT NULL,
			stability REAL NOT NULL,
			speed_mps REAL NOT NULL
		)`,
	},
	{
		Version: 5,
		Name:    "index_detections",
		SQL: `CREATE INDEX IF NOT EXISTS idx_detections_trip ON detections(trip_id);
		CREATE INDEX IF NOT EXISTS idx_detections_wall_time ON detections(wall_time)`,
	},
	{
		Version: 6,
		Name:    "create_rough_segments",
		SQL: `CREATE TABLE IF NOT EXISTS rough_segments (
			segment_id    TEXT NOT NULL,
			trip_id       TEXT NOT NULL REFERENCES trips(trip_id),
			latitude      REAL NOT NULL,
			longitude     REAL NOT NULL,
			roughness     REAL NOT NULL,
			rough_windows INTEGER NOT NULL,
			last_seen     TIMESTAMP NOT NULL,
			PRIMARY KEY (trip_id, segment_id)
		)`,
	},
}

// Migrate applies all pending migrations.
func Migrate(d *sql.DB) error {
	if err := initMigrationsTable(d); err != nil {
		return err
	}

	applied, err := appliedMigrations(d)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := apply(d, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		logrus.WithFields(logrus.Fields{
			"version": m.Version,
			"name":    m.Name,
		}).Info("migration applied")
	}

	return nil
}

func initMigrationsTable(d *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := d.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedMigrations(d *sql.DB) (map[int]bool, error) {
	rows, err := d.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func apply(d *sql.DB, m Migration) error {
	return Transaction(d, func(tx *sql.Tx) error {
		if _, err := tx.Exec(m.SQL); err != nil {
			return err
		}
		_, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name)
		return err
	})
}
