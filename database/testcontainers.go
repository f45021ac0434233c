package database

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	tclog "github.com/testcontainers/testcontainers-go/log"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

type nopLogger struct{}

func (*nopLogger) Printf(_ string, _ ...any) {}

var _ tclog.Logger = (*nopLogger)(nil)

var (
	dbName = "testdb"
	dbUser = "testuser"
	dbPass = "testpass"
)

// SetupTestDBContainer starts a Postgres container and connects to it.
// No migrations are applied.
func SetupTestDBContainer(t *testing.T, ctx context.Context) (*pgx.Conn, func()) {
	t.Helper()

	postgresContainer, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPass),
		postgres.BasicWaitStrategies(),
		tc.WithLogger(&nopLogger{}),
	)
	require.NoError(t, err)

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := pgx.Connect(ctx, connStr)
	require.NoError(t, err)

	cleanupFunc := func() {
		_ = db.Close(ctx)
		tc.CleanupContainer(t, postgresContainer)
	}

	return db, cleanupFunc
}

// SetupTestDB starts a Postgres container, applies the schema, and verifies
// that the schema can be rolled back and reapplied.
func SetupTestDB(t *testing.T) (*pgx.Conn, func()) {
	t.Helper()

	ctx := context.Background()
	db, cleanupFunc := SetupTestDBContainer(t, ctx)

	err := MigrateUp(ctx, db)
	require.NoError(t, err)

	err = MigrateDown(ctx, db)
	require.NoError(t, err)

	err = MigrateUp(ctx, db)
	require.NoError(t, err)

	return db, cleanupFunc
}
