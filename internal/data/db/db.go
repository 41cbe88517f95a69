package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

// Service is an open relational database behind the Primary tier.
type Service interface {
	DB() *gorm.DB
	Close() error
}

// Open selects the driver by name ("postgres" or "sqlite").
func Open(driver, sqlitePath string, logg *logger.Logger) (Service, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "postgres", "postgresql":
		return NewPostgresService(logg)
	case "sqlite", "sqlite3":
		return NewSQLiteService(sqlitePath, logg)
	default:
		return nil, fmt.Errorf("unsupported primary driver %q", driver)
	}
}
