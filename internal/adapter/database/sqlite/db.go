package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	gosqlite "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"bookingapp/db"
)

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

type Config struct {
	Path         string
	MaxOpenConns int
	// QueryLogger receives every statement through sqldb-logger.
	QueryLogger zerolog.Logger
}

// DSN appends the parameters every connection needs: IMMEDIATE transactions
// and a busy timeout.
func DSN(path string) string {
	separator := "?"

	if strings.Contains(path, "?") {
		separator = "&"
	}

	return path + separator + "_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"
}

func Open(config Config) (*sql.DB, error) {
	dsn := DSN(config.Path)

	otelDB, err := otelsql.Open("sqlite3", dsn,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("bookingapp"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB := sqldblogger.OpenDriver(dsn, otelDB.Driver(), zerologadapter.New(config.QueryLogger),
		sqldblogger.WithMinimumLevel(sqldblogger.LevelDebug),
	)

	// otelDB never opened a connection; only its driver is kept.
	_ = otelDB.Close()

	maxOpen := config.MaxOpenConns

	if maxOpen <= 0 {
		maxOpen = 10
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return sqlDB, nil
}

func NewDB(config Config) (*DB, error) {
	sqlDB, err := Open(config)

	if err != nil {
		return nil, err
	}

	if err := RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return Wrap(sqlDB), nil
}

func Wrap(sqlDB *sql.DB) *DB {
	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &queryBuilder,
	}
}

// RunMigrations applies the embedded schema. The migrate instance is not
// closed because that would close sqlDB as well.
func RunMigrations(sqlDB *sql.DB) error {
	source, err := iofs.New(db.SQLiteMigrations, db.SQLiteMigrationsDir)

	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// IsUniqueViolation reports whether err is a UNIQUE constraint failure.
func IsUniqueViolation(err error) bool {
	var sqliteErr gosqlite.Error

	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == gosqlite.ErrConstraintUnique
	}

	return false
}
