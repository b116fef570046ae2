// Package testdb provides isolated in-memory databases for tests.
package testdb

import (
	"database/sql"
	"fmt"

	"notesvc/internal/db"
)

// NewInMemory creates an in-memory notes database for tests. Each name gets
// its own shared-cache database, so connections from one *sql.DB see the
// same data while distinct names stay fully isolated.
func NewInMemory(name string) (*db.DB, error) {
	if name == "" {
		name = "notes-test"
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory notes database: %w", err)
	}

	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(10)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping in-memory notes database: %w", err)
	}

	if err := applyFastSQLitePragmas(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to apply fast SQLite pragmas: %w", err)
	}

	if _, err := sqlDB.Exec(db.Schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize in-memory notes schema: %w", err)
	}

	return db.NewFromSQL(sqlDB), nil
}

func applyFastSQLitePragmas(sqlDB *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=MEMORY",
		"PRAGMA synchronous=OFF",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA secure_delete=OFF",
	}
	for _, pragma := range pragmas {
		if _, err := sqlDB.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}
