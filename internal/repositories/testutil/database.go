package testutil

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/tokendrop/wallet-backend/internal/db"
	"go.uber.org/zap"
)

// TestDatabase — postgres в контейнере с применёнными миграциями.
type TestDatabase struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	URL       string
}

// SetupTestDatabase запускает одноразовый postgres через testcontainers и
// прогоняет migrations/*.up.sql штатным раннером. Контейнер и пул
// закрываются через t.Cleanup.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("wallet_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{
			"test":      "wallet-backend-repositories",
			"test-name": t.Name(),
		}),
	)
	require.NoError(t, err)

	td := &TestDatabase{Container: container}
	t.Cleanup(func() { td.cleanup(t) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	td.URL = connStr

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	td.Pool = pool

	require.NoError(t, db.RunMigrations(ctx, pool, migrationsDir(), zap.NewNop()))
	return td
}

func (td *TestDatabase) cleanup(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if td.Pool != nil {
		td.Pool.Close()
	}
	if td.Container != nil {
		if err := td.Container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate test container: %v", err)
		}
	}
}

// Каталог миграций ищется относительно этого файла, чтобы тесты
// работали из любого пакета независимо от рабочей директории.
func migrationsDir() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "migrations")
}
