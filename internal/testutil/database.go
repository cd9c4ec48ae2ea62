package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"wmx/internal/infrastructure/mysql"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration database. It expects a MySQL instance with a
// 'wmx_test' schema, overridable through WMX_TEST_DSN, and skips the test when
// none is reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("WMX_TEST_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/wmx_test?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables applies the application schema.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()

	if err := mysql.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

// CleanupTestDB empties every table, children first, and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"payments", "order_items", "orders", "products", "services", "categories", "users"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SeedService inserts a category and one active service under it and returns
// the service id.
func SeedService(t *testing.T, db *sql.DB, name, slug string) uint64 {
	t.Helper()

	res, err := db.Exec(`INSERT INTO categories (name, slug) VALUES (?, ?)`, name+" category", slug)
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	categoryID, _ := res.LastInsertId()

	res, err = db.Exec(`INSERT INTO services (category_id, name) VALUES (?, ?)`, categoryID, name)
	if err != nil {
		t.Fatalf("failed to seed service: %v", err)
	}
	serviceID, _ := res.LastInsertId()

	return uint64(serviceID)
}
