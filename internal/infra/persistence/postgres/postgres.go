// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/fx"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskhub/config"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/lifecycle"
	"taskhub/internal/domain/repository"
	"taskhub/internal/errors"
	"taskhub/internal/infra/persistence/model"
)

// Client wraps the GORM connection with the startup semantics the services
// need: a bounded connect retry at boot, then degraded serving. While the
// store is unreachable the process stays up (health endpoint included) and
// every data operation fails fast with ErrStoreUnavailable.
type Client struct {
	cfg    *config.Config
	logger *slog.Logger

	mu sync.RWMutex
	db *gorm.DB
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New creates the PostgreSQL client. The initial connection attempt retries a
// fixed number of times with a fixed delay; exhausting the budget is not
// fatal, the client just starts degraded. This retry policy applies only at
// startup, never to steady-state requests.
func New(params Params) *Client {
	client := &Client{
		cfg:    params.Config,
		logger: params.Logger,
	}

	retry := params.Config.Postgres.Retry
	for attempt := 1; attempt <= retry.Attempts; attempt++ {
		if err := client.connect(); err != nil {
			params.Logger.Warn("Waiting for database",
				slog.Int("attempt", attempt),
				slog.Int("maxAttempts", retry.Attempts),
				slog.Any("error", err),
			)
			if attempt < retry.Attempts {
				time.Sleep(retry.Delay)
			}
			continue
		}

		params.Logger.Info("Database connection successful")
		break
	}

	if !client.ready() {
		params.Logger.Error("Could not connect to database; serving degraded, data endpoints will fail")
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.close()
		},
	})

	return client
}

// NewStore exposes the client through the domain Store interface.
func NewStore(client *Client) repository.Store {
	return client
}

// DB returns the live GORM handle, or ErrStoreUnavailable while degraded.
func (c *Client) DB() (*gorm.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return nil, errors.WithStack(domainerrors.ErrStoreUnavailable)
	}

	return c.db, nil
}

// Ping reports whether the store is currently reachable.
func (c *Client) Ping(ctx context.Context) error {
	db, err := c.DB()
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}

	pingCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		return domainerrors.ErrStoreUnavailable.WrapMessage(err.Error())
	}

	return nil
}

// Initialize re-attempts the connection once if degraded and re-runs the
// idempotent schema migration. Backs the admin init-db endpoint.
func (c *Client) Initialize(ctx context.Context) error {
	if !c.ready() {
		if err := c.connect(); err != nil {
			return domainerrors.ErrStoreUnavailable.WrapMessage(err.Error())
		}
	}

	return c.Ping(ctx)
}

func (c *Client) ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.db != nil
}

// connect opens the connection and applies the create-if-absent schema.
func (c *Client) connect() error {
	dsn := buildDSN(c.cfg.Postgres)

	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	if err != nil {
		return errors.Wrap(err, "failed to open PostgreSQL connection")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return errors.Wrap(err, "failed to ping PostgreSQL")
	}

	if err := db.AutoMigrate(&model.UserModel{}, &model.TaskModel{}); err != nil {
		_ = sqlDB.Close()
		return errors.Wrap(err, "failed to migrate schema")
	}

	c.mu.Lock()
	c.db = db
	c.mu.Unlock()

	return nil
}

func (c *Client) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}

	sqlDB, err := c.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB for close")
	}
	c.db = nil

	return errors.WithStack(sqlDB.Close())
}

// buildDSN assembles the connection string. The password is URL-encoded to
// survive special characters, and a host under /cloudsql/ switches to the
// Cloud SQL unix socket form.
func buildDSN(pg *config.PostgresConfig) string {
	password := url.QueryEscape(pg.Password)

	if strings.HasPrefix(pg.Host, "/cloudsql/") {
		return fmt.Sprintf("postgresql://%s:%s@/%s?host=%s", pg.User, password, pg.DBName, pg.Host)
	}

	host := pg.Host
	if pg.Port != 0 {
		host = fmt.Sprintf("%s:%d", pg.Host, pg.Port)
	}

	dsn := fmt.Sprintf("postgresql://%s:%s@%s/%s", pg.User, password, host, pg.DBName)
	if pg.SSLMode != "" {
		dsn += "?sslmode=" + pg.SSLMode
	}

	return dsn
}
