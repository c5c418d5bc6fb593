package store

import (
	"database/sql"
	"fmt"

	"ckmconsole/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DB is the console's own database. It holds only what the backend does not:
// the audit trail of mutations issued through the console and per-user UI
// preferences.
type DB struct {
	*sql.DB
	dialect dialect
}

func Open(cfg *config.DatabaseConfig) (*DB, error) {
	var (
		driverName, dsn string
		d               dialect
	)
	switch cfg.Driver {
	case "sqlite":
		driverName, d = "sqlite", sqliteDialect
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.SQLite.Path)
	case "postgres":
		p := cfg.Postgres
		driverName, d = "pgx", postgresDialect
		dsn = fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
			p.Host, p.Port, p.Database, p.User, p.Password, p.SSLMode)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.name, err)
	}
	if d == sqliteDialect {
		// single writer keeps sqlite from returning SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	}
	db := &DB{DB: sqlDB, dialect: d}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate %s: %w", d.name, err)
	}
	return db, nil
}

func (db *DB) Driver() string { return db.dialect.name }

// Q adapts a query written for sqlite to the open driver.
func (db *DB) Q(query string) string { return db.dialect.rebind(query) }

func (db *DB) migrate() error {
	schema := schemaSQLite
	if db.dialect == postgresDialect {
		schema = schemaPostgres
	}
	_, err := db.Exec(schema)
	return err
}
