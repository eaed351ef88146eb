// Package testutil opens throwaway databases for repo and service tests.
// With TEST_POSTGRES_DSN set the tests run against a real Postgres;
// otherwise they fall back to an in-memory sqlite database.
package testutil

import (
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("init test logger: %v", err)
	}
	return log
}

// OpenDB returns a migrated database for the current test.
func OpenDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	cfg := &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	}

	var db *gorm.DB
	var err error
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1"), cfg)
	}
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}

	if db.Dialector.Name() == "sqlite" {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			tb.Fatalf("enable foreign keys: %v", err)
		}
	}

	if err := db.AutoMigrate(
		&types.Profile{},
		&types.SyntheticCase{},
		&types.EvaluationSession{},
		&types.Format1TimelineRating{},
		&types.Format2TacticRating{},
		&types.Format3BoundaryRating{},
	); err != nil {
		tb.Fatalf("automigrate test database: %v", err)
	}

	tb.Cleanup(func() {
		// Child tables first so FK constraints never block the sweep.
		for _, table := range []string{
			"eval_format_1_timeline",
			"eval_format_2_tactics",
			"eval_format_3_boundaries",
			"evaluation_sessions",
			"synthetic_cases",
			"profiles",
		} {
			db.Exec("DELETE FROM " + table)
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
