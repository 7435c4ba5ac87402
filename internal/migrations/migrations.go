// Package migrations owns the versioned schema. The SQL lives next to this
// file, one directory per dialect, and is applied with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/luna/taskmanager/internal/config"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Migrate brings the schema up to date. Postgres migrations run on a
// dedicated short-lived connection; sqlite reuses shared because an in-memory
// database only exists on the connection that created it.
func Migrate(ctx context.Context, driver, dsn string, shared *sql.DB) error {
	switch driver {
	case config.DriverPostgres:
		conn, err := sql.Open("postgres", dsn)
		if err != nil {
			return fmt.Errorf("open migration connection: %w", err)
		}
		defer conn.Close()
		return Up(ctx, goose.DialectPostgres, conn, "postgres")
	case config.DriverSQLite:
		return Up(ctx, goose.DialectSQLite3, shared, "sqlite")
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}
}

func Up(ctx context.Context, dialect goose.Dialect, db *sql.DB, dir string) error {
	fsys, err := fs.Sub(files, dir)
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
