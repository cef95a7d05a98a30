package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds database configuration
type Config struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Driver:          DriverPostgres,
		Host:            "localhost",
		Port:            5432,
		User:            "postgres",
		Password:        "postgres",
		Database:        "buzzwatch",
		SSLMode:         "disable",
		Path:            "buzzwatch.db",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// DB wraps the sqlx connection together with the driver it was opened with,
// so stores can pick the right SQL dialect.
type DB struct {
	*sqlx.DB
	driver string
}

// New creates a new database connection
func New(config Config) (*DB, error) {
	var dsn string
	switch config.Driver {
	case DriverPostgres:
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			config.Host, config.Port, config.User, config.Password, config.Database, config.SSLMode,
		)
	case DriverSQLite:
		dsn = config.Path
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}

	db, err := sqlx.Open(config.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite ships with foreign keys off; the cascade deletes rely on them.
	if config.Driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return &DB{DB: db, driver: config.Driver}, nil
}

// Driver reports which driver the connection uses.
func (db *DB) Driver() string {
	return db.driver
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Migrate runs database migrations
func (db *DB) Migrate(ctx context.Context) error {
	migrations := postgresMigrations
	if db.driver == DriverSQLite {
		migrations = sqliteMigrations
	}

	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

// Migration SQL statements
var postgresMigrations = []string{
	migrationMetricsHistoryPG,
	migrationAlertsPG,
	migrationAlertEventsPG,
	migrationRepliesPG,
	migrationReplyFeedbackPG,
	migrationIndexesPG,
}

var sqliteMigrations = []string{
	migrationMetricsHistorySQLite,
	migrationAlertsSQLite,
	migrationAlertEventsSQLite,
	migrationRepliesSQLite,
	migrationReplyFeedbackSQLite,
	migrationIndexesSQLite,
}

const migrationMetricsHistoryPG = `
CREATE TABLE IF NOT EXISTS metrics_history (
    id BIGSERIAL PRIMARY KEY,
    url TEXT NOT NULL,
    platform VARCHAR(20) NOT NULL,
    metrics TEXT NOT NULL,
    success BOOLEAN NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    fetched_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const migrationMetricsHistorySQLite = `
CREATE TABLE IF NOT EXISTS metrics_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL,
    platform TEXT NOT NULL,
    metrics TEXT NOT NULL,
    success BOOLEAN NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    fetched_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const migrationAlertsPG = `
CREATE TABLE IF NOT EXISTS alerts (
    id UUID PRIMARY KEY,
    url TEXT NOT NULL,
    metric VARCHAR(50) NOT NULL,
    threshold INTEGER NOT NULL,
    enabled BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const migrationAlertsSQLite = `
CREATE TABLE IF NOT EXISTS alerts (
    id TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    metric TEXT NOT NULL,
    threshold INTEGER NOT NULL,
    enabled BOOLEAN NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const migrationAlertEventsPG = `
CREATE TABLE IF NOT EXISTS alert_events (
    id BIGSERIAL PRIMARY KEY,
    alert_id UUID NOT NULL REFERENCES alerts(id) ON DELETE CASCADE,
    url TEXT NOT NULL,
    metric VARCHAR(50) NOT NULL,
    value INTEGER NOT NULL,
    threshold INTEGER NOT NULL,
    triggered_at TIMESTAMPTZ NOT NULL
)`

const migrationAlertEventsSQLite = `
CREATE TABLE IF NOT EXISTS alert_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    alert_id TEXT NOT NULL REFERENCES alerts(id) ON DELETE CASCADE,
    url TEXT NOT NULL,
    metric TEXT NOT NULL,
    value INTEGER NOT NULL,
    threshold INTEGER NOT NULL,
    triggered_at TIMESTAMP NOT NULL
)`

const migrationRepliesPG = `
CREATE TABLE IF NOT EXISTS replies (
    id UUID PRIMARY KEY,
    url TEXT NOT NULL,
    platform VARCHAR(20) NOT NULL,
    content TEXT NOT NULL,
    tone VARCHAR(50) NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const migrationRepliesSQLite = `
CREATE TABLE IF NOT EXISTS replies (
    id TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    platform TEXT NOT NULL,
    content TEXT NOT NULL,
    tone TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const migrationReplyFeedbackPG = `
CREATE TABLE IF NOT EXISTS reply_feedback (
    id BIGSERIAL PRIMARY KEY,
    reply_id UUID NOT NULL REFERENCES replies(id) ON DELETE CASCADE,
    rating VARCHAR(10) NOT NULL,
    comment TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const migrationReplyFeedbackSQLite = `
CREATE TABLE IF NOT EXISTS reply_feedback (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    reply_id TEXT NOT NULL REFERENCES replies(id) ON DELETE CASCADE,
    rating TEXT NOT NULL,
    comment TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const migrationIndexesPG = `
CREATE INDEX IF NOT EXISTS idx_metrics_history_url ON metrics_history(url, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_metrics_history_platform ON metrics_history(platform);
CREATE INDEX IF NOT EXISTS idx_alerts_url ON alerts(url);
CREATE INDEX IF NOT EXISTS idx_alert_events_alert ON alert_events(alert_id);
CREATE INDEX IF NOT EXISTS idx_replies_url ON replies(url);
CREATE INDEX IF NOT EXISTS idx_reply_feedback_reply ON reply_feedback(reply_id)`

const migrationIndexesSQLite = migrationIndexesPG
