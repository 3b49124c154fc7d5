package persistence

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/terreiro/backend/internal/infrastructure/persistence/models"
)

// NewSQLiteDatabase opens a SQLite database and migrates the full schema.
// Used by tests and single-host installs; production runs on PostgreSQL
// with versioned SQL migrations.
func NewSQLiteDatabase(dsn string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// An in-memory database exists per connection, so the pool must be
	// pinned to one before any schema work happens.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}

	return &Database{DB: db}, nil
}

// NewTestDatabase opens a fresh in-memory SQLite database for tests
func NewTestDatabase() (*Database, error) {
	return NewSQLiteDatabase(":memory:")
}
