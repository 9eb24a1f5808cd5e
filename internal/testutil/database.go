package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"vitrina/internal/infrastructure/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/vitrina_test?parseTime=true&loc=UTC&collation=utf8mb4_unicode_ci"

// SetupTestDB opens the integration database named by TEST_DB_DSN and applies the catalog schema.
// The test is skipped when the database is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	if err := mysql.ApplySchema(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	truncate(t, db)
	return db
}

// CleanupTestDB empties the catalog tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if db == nil {
		return
	}

	truncate(t, db)
	db.Close()
}

func truncate(t *testing.T, db *sql.DB) {
	tables := mysql.Tables()
	// children first
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", tables[i])); err != nil {
			t.Logf("failed to clean table %s: %v", tables[i], err)
		}
	}
}

// InsertCompany stores a company row directly and returns its id.
func InsertCompany(t *testing.T, db *sql.DB, id, taxID, name string) string {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO Company (id, taxId, name, establishment, emissionPoint, sequence)
		VALUES (?, ?, ?, '001', '001', 1)
	`, id, taxID, name)
	if err != nil {
		t.Fatalf("failed to insert company %s: %v", taxID, err)
	}
	return id
}
