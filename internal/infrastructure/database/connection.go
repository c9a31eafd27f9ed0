// Package database opens the gorm connection the Persistence Adapter
// runs on. Grounded on the teacher's internal/infrastructure/database
// package (dialector selection by URL scheme, silent gorm logger,
// pooled postgres connections).
package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open dials dsn, picking the postgres driver for a postgres(ql):// URL
// and sqlite otherwise (a bare file path, or ":memory:" for tests).
func Open(dsn string) (*gorm.DB, error) {
	isPostgres := strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")

	var dialector gorm.Dialector
	if isPostgres {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	if isPostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("database: underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	return db, nil
}

// OpenTest opens an in-memory sqlite database for tests.
func OpenTest() (*gorm.DB, error) {
	return Open(":memory:")
}
