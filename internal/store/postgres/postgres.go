package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/newrelic/go-agent/v3/integrations/nrpgx" // register instrumented DB driver
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
)

//go:embed migrations/*.sql
var fs embed.FS

const (
	pgDriverName = "nrpgx"
	instanceName = "datahub"
)

// Client wraps the sqlx handle of the permission database.
type Client struct {
	db *sqlx.DB
}

// NewClient opens an instrumented connection pool and checks it is reachable.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	driverName, err := otelsql.Register(
		pgDriverName,
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
		otelsql.WithInstanceName(instanceName),
	)
	if err != nil {
		return nil, fmt.Errorf("register postgres driver: %w", err)
	}

	sqlDB, err := sql.Open(driverName, cfg.ConnectionURL().String())
	if err != nil {
		return nil, fmt.Errorf("error creating DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("error connecting DB: %w", err)
	}

	if err := otelsql.RecordStats(
		sqlDB,
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
		otelsql.WithInstanceName(instanceName),
	); err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.MaxIdleConns != 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if maxLifetime := cfg.ConnMaxLifetimeWithJitter(); maxLifetime != 0 {
		sqlDB.SetConnMaxLifetime(maxLifetime)
	}
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return NewClientWithDB(sqlDB)
}

// NewClientWithDB wraps an already opened postgres handle.
func NewClientWithDB(db *sql.DB) (*Client, error) {
	if db == nil {
		return nil, errNilDBClient
	}
	return &Client{db: sqlx.NewDb(db, "pgx")}, nil
}

// Migrate applies every pending migration and returns the resulting version.
func (c *Client) Migrate() (ver uint, err error) {
	m, err := c.initMigration()
	if err != nil {
		return 0, fmt.Errorf("migration failed: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migration failed: %w", err)
	}
	if ver, _, err = m.Version(); err != nil {
		return ver, err
	}
	return ver, nil
}

// MigrateDown reverts the latest migration.
func (c *Client) MigrateDown() (ver uint, err error) {
	m, err := c.initMigration()
	if err != nil {
		return 0, fmt.Errorf("migration failed: %w", err)
	}
	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migration failed: %w", err)
	}
	ver, _, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	return ver, err
}

// ExecQueries is used for executing list of db query
func (c *Client) ExecQueries(ctx context.Context, queries []string) error {
	for _, query := range queries {
		if _, err := c.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) initMigration() (*migrate.Migrate, error) {
	iofsDriver, err := iofs.New(fs, "migrations")
	if err != nil {
		return nil, err
	}
	dbDriver, err := migratepg.WithInstance(c.db.DB, &migratepg.Config{})
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", iofsDriver, "postgres", dbDriver)
}

func checkPostgresError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w [%s]", errDuplicateKey, pgErr.Detail)
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%w [%s]", errCheckViolation, pgErr.Detail)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w [%s]", errForeignKeyViolation, pgErr.Detail)
		}
	}
	return err
}

func isValidUUID(u string) bool {
	_, err := uuid.Parse(u)
	return err == nil
}
