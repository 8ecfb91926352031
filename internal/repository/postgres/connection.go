package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"doctracker/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Companies       string
	Departments     string
	Divisions       string
	Users           string
	UserDepartments string
	Folders         string
	Files           string
	ResourceLinks   string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Companies:       prefix + "companies",
		Departments:     prefix + "departments",
		Divisions:       prefix + "divisions",
		Users:           prefix + "users",
		UserDepartments: prefix + "user_departments",
		Folders:         prefix + "folders",
		Files:           prefix + "files",
		ResourceLinks:   prefix + "resource_links",
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// Table names are interpolated with fmt.Sprintf before the SQL is sent, so
// prepared statements stay safe: each environment prefix produces its own
// distinct statements.
//
// Port 6543 is the transaction pooler on managed Postgres (PgBouncer) which
// rejects prepared statements; QueryExecModeCacheDescribe caches statement
// descriptions instead, which the pooler tolerates. Users can still override
// the mode via ?default_query_exec_mode= in the connection string.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
// This enables repositories to automatically participate in transactions when they exist.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
