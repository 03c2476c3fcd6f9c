package sqlite

import (
	"net/url"
	"testing"
)

// setupTestDB returns a migrated journal backed by a named shared in-memory
// database, so the writer and reader pools see the same data. The name comes
// from t.Name() to keep tests isolated.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := dsnFor(url.PathEscape(t.Name()), []string{"busy_timeout(5000)"}) + "&mode=memory&cache=shared"

	writer, err := openPool(dsn, 1)
	if err != nil {
		t.Fatalf("open test db writer: %v", err)
	}
	reader, err := openPool(dsn, 2)
	if err != nil {
		_ = writer.Close()
		t.Fatalf("open test db reader: %v", err)
	}

	db := &DB{Writer: writer, Reader: reader, path: dsn}
	if _, err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		t.Fatalf("run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}
