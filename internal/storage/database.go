package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/SainathReddyM/py-file-converter/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the configured database for the given driver.
func Open(dbType string, cfg *config.Config) (*sql.DB, error) {
	dbCfg, ok := cfg.Databases[dbType]
	if !ok {
		return nil, fmt.Errorf("database config for %s not found", dbType)
	}

	var (
		db  *sql.DB
		err error
	)

	switch strings.ToLower(dbType) {
	case "sqlite", "sqlite3":
		if dbCfg.DSN == "" {
			return nil, fmt.Errorf("sqlite dsn must be provided")
		}
		db, err = sql.Open("sqlite3", dbCfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			dbCfg.Username,
			dbCfg.Password,
			dbCfg.Host,
			dbCfg.Port,
			dbCfg.DBName,
			dbCfg.Params,
		)
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", dbType)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate ensures the conversions table is present.
func Migrate(db *sql.DB, driver string) error {
	var stmt string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		stmt = `CREATE TABLE IF NOT EXISTS conversions (
			id TEXT PRIMARY KEY,
			file_name TEXT NOT NULL,
			source_format TEXT NOT NULL,
			target_format TEXT NOT NULL,
			status TEXT NOT NULL,
			diagnostic TEXT NOT NULL DEFAULT '',
			size_bytes INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`
	case "mysql":
		stmt = `CREATE TABLE IF NOT EXISTS conversions (
			id VARCHAR(36) PRIMARY KEY,
			file_name VARCHAR(255) NOT NULL,
			source_format VARCHAR(16) NOT NULL,
			target_format VARCHAR(16) NOT NULL,
			status VARCHAR(32) NOT NULL,
			diagnostic TEXT NOT NULL,
			size_bytes BIGINT NOT NULL DEFAULT 0,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`
	default:
		return fmt.Errorf("unsupported driver: %s", driver)
	}

	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("create conversions table: %w", err)
	}
	return nil
}
