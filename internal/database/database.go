package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"

	"fdms/internal/config"
)

var sqlOpen = sql.Open

// Pinger is the part of *sql.DB the health check needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

const pingTimeout = 5 * time.Second

// BuildPostgresDSN renders a postgres:// URL for the pgx driver. Sessions are pinned to
// UTC so CURRENT_DATE and timestamp rendering do not depend on the server's zone.
func BuildPostgresDSN(c config.DatabaseConfig) (string, error) {
	required := []struct{ key, value string }{
		{"DB_HOST", c.Host},
		{"DB_PORT", c.Port},
		{"DB_USER", c.User},
		{"DB_NAME", c.Name},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("invalid database config: missing %s", strings.Join(missing, ", "))
	}

	params := url.Values{}
	params.Set("application_name", "fdms")
	params.Set("timezone", "UTC")
	if c.SSLMode != "" {
		params.Set("sslmode", c.SSLMode)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.User(c.User),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     c.Name,
		RawQuery: params.Encode(),
	}
	if c.Password != "" {
		dsn.User = url.UserPassword(c.User, c.Password)
	}
	return dsn.String(), nil
}

// NewPostgres opens a traced database/sql pool over pgx, applies pool limits and
// verifies the server is reachable.
func NewPostgres(ctx context.Context, c config.DatabaseConfig, log *zap.Logger) (*sql.DB, error) {
	dsn, err := BuildPostgresDSN(c)
	if err != nil {
		return nil, err
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}

	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)

	if err := Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info("database connected",
		zap.String("component", "database"),
		zap.String("db_host", c.Host),
		zap.String("db_name", c.Name),
		zap.Int("max_open_conns", c.MaxOpenConns),
	)
	return db, nil
}

// Ping checks connectivity with a bounded timeout.
func Ping(ctx context.Context, p Pinger) error {
	if p == nil {
		return errors.New("db ping: no database")
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return nil
}
