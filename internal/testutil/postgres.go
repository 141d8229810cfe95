// Package testutil starts the PostgreSQL container used by the storage integration tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/l8nite/internal/config"
	"github.com/cory-johannsen/l8nite/internal/storage/postgres"
	"github.com/cory-johannsen/l8nite/migrations"
)

const (
	pgImage    = "postgres:16-alpine"
	pgUser     = "l8nite"
	pgPassword = "l8nite"
	pgDatabase = "l8nite_test"
)

// PostgresContainer is a migrated PostgreSQL instance shared by one test package.
type PostgresContainer struct {
	container testcontainers.Container
	pool      *postgres.Pool
	// RawPool is for fixtures that bypass the store, such as dangling references.
	RawPool *pgxpool.Pool
	Config  config.DatabaseConfig
}

// StartPostgres starts a container, connects to it, and applies every migration.
//
// Precondition: Docker must be available.
// Postcondition: On success the caller must call Terminate.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			// postgres logs readiness once for the init server and once for the real one
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("starting postgres container: %w", err)
	}

	pc, err := connect(ctx, container)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	return pc, nil
}

func connect(ctx context.Context, container testcontainers.Container) (*PostgresContainer, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("getting mapped port: %w", err)
	}

	cfg := config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            host,
		Port:            port.Int(),
		User:            pgUser,
		Password:        pgPassword,
		Name:            pgDatabase,
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}

	m, err := migrations.NewPostgres(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	err = migrations.Up(m)
	_, _ = m.Close()
	if err != nil {
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to test postgres: %w", err)
	}
	return &PostgresContainer{container: container, pool: pool, RawPool: pool.DB(), Config: cfg}, nil
}

// Terminate closes the fixture pool and removes the container.
func (pc *PostgresContainer) Terminate(ctx context.Context) {
	pc.pool.Close()
	_ = pc.container.Terminate(ctx)
}

// Truncate empties every table and resets identity sequences.
func (pc *PostgresContainer) Truncate(t testing.TB) {
	t.Helper()
	_, err := pc.RawPool.Exec(context.Background(), `
		TRUNCATE character_equipment, character_skills, characters,
		         racial_traits, races, weapons, armors
		RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("truncating tables: %v", err)
	}
}
