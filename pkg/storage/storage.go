package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Config captures the runtime configuration for a storage connection. Detailed
// schema validation is handled by higher layers.
type Config struct {
	Driver string
	DSN    string
}

// DefaultSQLiteDSN keeps an in-memory database shared across connections so a
// single process sees one store.
const DefaultSQLiteDSN = "file::memory:?cache=shared"

// Open dials the configured database and wraps it with the matching bun
// dialect. Supported drivers are sqlite3 and postgres.
func Open(cfg Config) (*bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	dsn := strings.TrimSpace(cfg.DSN)

	switch driver {
	case "", "sqlite", "sqlite3":
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case "postgres", "postgresql", "pg":
		if dsn == "" {
			return nil, fmt.Errorf("storage: postgres requires a dsn")
		}
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Driver)
	}
}
