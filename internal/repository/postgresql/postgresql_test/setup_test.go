package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a migrated test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the migrations.
// The test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 5})
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, db.Migrate(ctx, filepath.Join("..", "..", "..", "..", "migrations")))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row from the application tables.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"attendance_days",
		"leave_requests",
		"employees",
		"workplaces",
	}

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// SeedWorkplace inserts a workplace row.
func (s *TestDatabaseSetup) SeedWorkplace(t *testing.T, id, name string) {
	t.Helper()
	_, err := s.DB.Exec(context.Background(), `INSERT INTO workplaces (id, name) VALUES ($1, $2)`, id, name)
	require.NoError(t, err)
}

// SeedEmployee inserts an active employee row.
func (s *TestDatabaseSetup) SeedEmployee(t *testing.T, id, name string, home *string) {
	t.Helper()
	_, err := s.DB.Exec(context.Background(),
		`INSERT INTO employees (id, full_name, home_workplace_id) VALUES ($1, $2, $3)`, id, name, home)
	require.NoError(t, err)
}

func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}
