package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

type SQLiteService struct {
	db   *gorm.DB
	path string
	log  *logger.Logger
}

// NewSQLiteService opens a file-backed (or ":memory:") SQLite database.
// A single connection is kept open; SQLite serializes writers anyway and an
// in-memory database only exists for the lifetime of its connection.
func NewSQLiteService(path string, logg *logger.Logger) (*SQLiteService, error) {
	serviceLog := logg.With("service", "SQLiteService")
	path = strings.TrimSpace(path)
	if path == "" {
		path = "solbot.db"
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), gormConfig(serviceLog))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	serviceLog.Info("opened sqlite", "path", path)
	return &SQLiteService{db: db, path: path, log: serviceLog}, nil
}

// OpenMemory is the test/dev helper: a private in-memory database with
// logging silenced.
func OpenMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", sanitizeName(name))
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(nil))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func (s *SQLiteService) DB() *gorm.DB { return s.db }

func (s *SQLiteService) Close() error { return closeGorm(s.db) }

func sqliteDSN(path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	return path + "?_busy_timeout=5000&_journal_mode=WAL"
}

func sanitizeName(name string) string {
	r := strings.NewReplacer("/", "_", " ", "_", "?", "_", "&", "_", "#", "_")
	return r.Replace(name)
}
