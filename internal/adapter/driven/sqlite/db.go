package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// auditPragmas are applied to every connection of a file-backed journal.
var auditPragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
}

// DB is the audit journal database. Writes go through a single connection;
// reads use a separate small pool.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB
	path   string
}

// NewDB opens the journal at path, creating it with owner-only permissions.
func NewDB(path string) (*DB, error) {
	dsn := dsnFor(path, auditPragmas)

	writer, err := openPool(dsn, 1)
	if err != nil {
		return nil, fmt.Errorf("open audit writer: %w", err)
	}
	reader, err := openPool(dsn, 2)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open audit reader: %w", err)
	}

	if err := os.Chmod(path, 0o600); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("restrict audit database permissions: %w", err)
	}

	return &DB{Writer: writer, Reader: reader, path: path}, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes both pools.
func (db *DB) Close() error {
	return errors.Join(db.Reader.Close(), db.Writer.Close())
}

func dsnFor(path string, pragmas []string) string {
	params := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		params = append(params, "_pragma="+p)
	}
	return "file:" + path + "?" + strings.Join(params, "&")
}

func openPool(dsn string, maxConns int) (*sql.DB, error) {
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(maxConns)
	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return pool, nil
}
