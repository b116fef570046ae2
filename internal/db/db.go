// Package db owns the SQLite connection for the notes service.
// The driver is SQLCipher-capable: when a key is supplied the database file
// is encrypted at rest, otherwise it behaves as plain SQLite.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mutecomm/go-sqlcipher/v4"
)

const (
	// MaxOpenConns is the maximum number of open connections.
	// SQLite is single-writer, so high connection counts are counterproductive.
	MaxOpenConns = 10

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns = 2
)

// DB wraps the sql.DB connection for the notes database.
type DB struct {
	db *sql.DB
}

// NewFromSQL wraps an existing sql.DB. The caller is responsible for having
// applied the schema.
func NewFromSQL(sqlDB *sql.DB) *DB {
	return &DB{db: sqlDB}
}

// SQL returns the underlying sql.DB for direct access.
func (d *DB) SQL() *sql.DB {
	return d.db
}

// Open opens (creating if needed) the notes database at the given path and
// initializes the schema. keyHex optionally enables SQLCipher encryption and
// must be 64 hex characters when set.
func Open(path, keyHex string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := path
	if keyHex != "" {
		if len(keyHex) != 64 {
			return nil, fmt.Errorf("database key must be 64 hex characters, got %d", len(keyHex))
		}
		dsn = fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096", path, keyHex)
	}
	dsn = appendSQLiteParams(dsn, sqliteCommonParams())

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open notes database: %w", err)
	}

	sqlDB.SetMaxOpenConns(MaxOpenConns)
	sqlDB.SetMaxIdleConns(MaxIdleConns)

	// Verify the connection (and the key, when encrypted) before first use.
	var sqliteVersion string
	if err := sqlDB.QueryRow("SELECT sqlite_version()").Scan(&sqliteVersion); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to verify notes database: %w", err)
	}

	if _, err := sqlDB.Exec(Schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize notes schema: %w", err)
	}

	return NewFromSQL(sqlDB), nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

func sqliteCommonParams() string {
	// WAL + NORMAL provides good throughput while preserving safety.
	return "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"
}

func appendSQLiteParams(dsn, params string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}
