package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// DB wraps a SQL connection and the dialect its queries are written for.
type DB struct {
	conn   *sql.DB
	driver string
}

// Open connects to driver at dsn and runs the migrations. For sqlite, dsn is
// a file path; its directory is created when missing.
func Open(driver, dsn string) (*DB, error) {
	var err error
	switch driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		if !strings.Contains(dsn, "?") {
			dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		}
	case DriverMySQL:
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// SQLite only supports one writer; a single connection prevents SQLITE_BUSY
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	db := &DB{conn: conn, driver: driver}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// mysqlDSN makes sure timestamps scan into time.Time.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// ExpandDSN substitutes the {password} placeholder of a configured DSN.
func ExpandDSN(dsn, password string) string {
	return strings.ReplaceAll(dsn, "{password}", password)
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver returns the dialect name.
func (db *DB) Driver() string {
	return db.driver
}

// rebind rewrites ? placeholders into $n for postgres.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) migrate() error {
	var migrations []string
	switch db.driver {
	case DriverMySQL:
		migrations = []string{
			`CREATE TABLE IF NOT EXISTS trainings (
				id VARCHAR(64) PRIMARY KEY,
				company_id VARCHAR(64) NOT NULL DEFAULT '',
				title VARCHAR(255) NOT NULL DEFAULT '',
				content_json LONGTEXT NOT NULL,
				updated_at DATETIME(6) NOT NULL,
				INDEX idx_trainings_company (company_id)
			)`,
		}
	default:
		ts := "DATETIME"
		if db.driver == DriverPostgres {
			ts = "TIMESTAMPTZ"
		}
		migrations = []string{
			`CREATE TABLE IF NOT EXISTS trainings (
				id TEXT PRIMARY KEY,
				company_id TEXT NOT NULL DEFAULT '',
				title TEXT NOT NULL DEFAULT '',
				content_json TEXT NOT NULL DEFAULT '{}',
				updated_at ` + ts + ` NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_trainings_company ON trainings(company_id)`,
		}
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %s: %w", strings.Join(strings.Fields(m), " ")[:40], err)
		}
	}
	return nil
}
