// Package db opens the PostgreSQL store behind the repositories.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/goal-tracker/backend/config"
	"github.com/goal-tracker/backend/internal/integration/persistence/model"
)

const pingTimeout = 5 * time.Second

// Database owns the pooled connection.
type Database struct {
	db *gorm.DB
}

// Open connects to PostgreSQL, sizes the pool and verifies the server answers.
func Open(cfg *config.DatabaseConfig) (*Database, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: queryLogger(cfg.SlowQueryThreshold),
		// unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	d := &Database{db: gdb}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := d.ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	slog.Info("Database connection established",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
		"slow_query_threshold", cfg.SlowQueryThreshold,
	)
	return d, nil
}

// queryLogger reports slow statements and driver errors through slog.
// A zero threshold silences query logging.
func queryLogger(slowThreshold time.Duration) gormlogger.Interface {
	if slowThreshold <= 0 {
		return gormlogger.Default.LogMode(gormlogger.Silent)
	}
	writer := slog.NewLogLogger(slog.Default().With("component", "gorm").Handler(), slog.LevelWarn)
	return gormlogger.New(writer, gormlogger.Config{
		SlowThreshold:             slowThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// DB returns the gorm handle the repositories are built on.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Migrate brings the goal tracker tables up to date.
func (d *Database) Migrate() error {
	if err := d.db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}

// HealthCheck reports whether the server still answers.
func (d *Database) HealthCheck(ctx context.Context) bool {
	if err := d.ping(ctx); err != nil {
		slog.Error("Database health check failed", "error", err)
		return false
	}
	return true
}

// Close releases the pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB for closing: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	slog.Info("Database connection closed")
	return nil
}

func (d *Database) ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
