package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestDB represents a test database connection
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// SetupTestDB connects to the test database and migrates it. The test is
// skipped when the database or PostGIS is unavailable.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5433"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "trips_test"),
		getEnv("TEST_DB_SSLMODE", "disable"),
	)

	db, err := connectWithRetry(t, connStr, 3)
	if err != nil {
		t.Skipf("Test database not available: %v", err)
	}

	var version string
	if err := db.Get(&version, "SELECT PostGIS_Version()"); err != nil {
		db.Close()
		t.Skipf("PostGIS not available: %v", err)
	}

	if err := ApplyMigrations(db, MigrationsPath); err != nil {
		db.Close()
		t.Fatalf("migrate test database: %v", err)
	}

	return &TestDB{
		DB:     db,
		Logger: zaptest.NewLogger(t),
	}
}

func connectWithRetry(t *testing.T, connStr string, attempts int) (*sqlx.DB, error) {
	delay := 200 * time.Millisecond
	var err error
	for i := 0; i < attempts; i++ {
		var db *sqlx.DB
		if db, err = sqlx.Connect("postgres", connStr); err == nil {
			return db, nil
		}
		if i < attempts-1 {
			t.Logf("Database not ready (attempt %d/%d), waiting %v...", i+1, attempts, delay)
			time.Sleep(delay)
			delay *= 2
		}
	}
	return nil, err
}

// Close closes the database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// Cleanup truncates every trip table.
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	tables := []string{
		"trip_live_status",
		"trip_messages",
		"trip_stops",
		"trip_option_votes",
		"trip_options",
		"trip_location_distances",
		"trip_location_votes",
		"trip_locations",
		"trip_date_votes",
		"trip_date_options",
		"trip_members",
		"trips",
		"pois",
	}

	for _, table := range tables {
		if _, err := tdb.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
