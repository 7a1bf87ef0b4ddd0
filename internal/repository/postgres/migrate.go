package postgres

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"portfolio/internal/repository/postgres/migrations"
)

// Migrate applies the embedded migrations for the given table prefix.
// The migration files read the prefix from TABLE_PREFIX, and each prefix
// keeps its own goose version table.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if err := os.Setenv("TABLE_PREFIX", tables.Prefix); err != nil {
		return fmt.Errorf("set table prefix: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	goose.SetTableName(tables.Prefix + "goose_db_version")
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
