package db

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/solbot-backend/internal/platform/envutil"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

type postgresParams struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func loadPostgresParams(log *logger.Logger) postgresParams {
	return postgresParams{
		URL:      envutil.String("DATABASE_URL", "", log),
		Host:     envutil.String("POSTGRES_HOST", "localhost", log),
		Port:     envutil.String("POSTGRES_PORT", "5432", log),
		User:     envutil.String("POSTGRES_USER", "postgres", log),
		Password: envutil.String("POSTGRES_PASSWORD", "", log),
		Name:     envutil.String("POSTGRES_NAME", "solbot", log),
		SSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
	}
}

// dsn prefers DATABASE_URL verbatim and otherwise assembles a URL from the
// POSTGRES_* parts.
func (p postgresParams) dsn() string {
	if u := strings.TrimSpace(p.URL); u != "" {
		return u
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Host + ":" + p.Port,
		Path:     "/" + p.Name,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}

// target is the host/db pair safe to log.
func (p postgresParams) target() string {
	if u, err := url.Parse(strings.TrimSpace(p.URL)); err == nil && u.Host != "" {
		return u.Host + u.Path
	}
	return p.Host + ":" + p.Port + "/" + p.Name
}

func NewPostgresService(logg *logger.Logger) (*PostgresService, error) {
	serviceLog := logg.With("service", "PostgresService")
	params := loadPostgresParams(logg)

	db, err := gorm.Open(postgres.Open(params.dsn()), gormConfig(serviceLog))
	if err != nil {
		return nil, fmt.Errorf("connect postgres %s: %w", params.target(), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(envutil.Int("POSTGRES_MAX_OPEN_CONNS", 20, logg))
	sqlDB.SetMaxIdleConns(envutil.Int("POSTGRES_MAX_IDLE_CONNS", 5, logg))
	sqlDB.SetConnMaxLifetime(envutil.Duration("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute, logg))

	serviceLog.Info("connected to postgres", "target", params.target())
	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) Close() error { return closeGorm(s.db) }

// gormWriter sends gorm's slow-query and error lines through zap.
type gormWriter struct {
	log *logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn("gorm", "detail", strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// gormConfig silences gorm when log is nil.
func gormConfig(log *logger.Logger) *gorm.Config {
	cfg := &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true}
	if log == nil {
		cfg.Logger = gormLogger.Default.LogMode(gormLogger.Silent)
		return cfg
	}
	cfg.Logger = gormLogger.New(gormWriter{log: log}, gormLogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormLogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
	return cfg
}

func closeGorm(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
