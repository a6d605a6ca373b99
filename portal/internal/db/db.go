package db

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aiuniverse/universe/internal/retry"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bunotel"
)

type ConnOptions struct {
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	SSLMode    string
	CACertPath string
}

func loadCertPool(caCertPath string) (*x509.CertPool, error) {
	bytes, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, err
	}
	certPool := x509.NewCertPool()
	if ok := certPool.AppendCertsFromPEM(bytes); !ok {
		return nil, fmt.Errorf("no certificate found in %s", caCertPath)
	}
	return certPool, nil
}

func NewClient(options ConnOptions) (*bun.DB, error) {
	opts := []pgdriver.Option{
		pgdriver.WithAddr(fmt.Sprintf("%s:%d", options.Host, options.Port)),
		pgdriver.WithUser(options.User),
		pgdriver.WithPassword(options.Password),
		pgdriver.WithDatabase(options.Database),
		pgdriver.WithConnParams(map[string]any{
			"TimeZone": "Etc/UTC",
		}),
	}

	if options.SSLMode == "verify-full" {
		tlsConfig := &tls.Config{
			ServerName: options.Host,
		}
		if options.CACertPath != "" {
			certPool, err := loadCertPool(options.CACertPath)
			if err != nil {
				return nil, err
			}
			tlsConfig.RootCAs = certPool
		}

		opts = append(opts, pgdriver.WithTLSConfig(tlsConfig))
	} else {
		opts = append(opts, pgdriver.WithInsecure(true))
	}

	conn := pgdriver.NewConnector(
		opts...,
	)
	db := bun.NewDB(sql.OpenDB(conn), pgdialect.New())
	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName(options.Database)))

	return db, nil
}

// WaitReady blocks until PostgreSQL answers a ping or failAfter elapses.
func WaitReady(ctx context.Context, db *bun.DB, failAfter time.Duration) error {
	_, err := retry.Retry(ctx, func(ctx context.Context) (retry.Void, error) {
		if err := db.PingContext(ctx); err != nil {
			slog.Info("Waiting for PostgreSQL", slog.Any("error", err))
			return retry.V, err
		}
		return retry.V, nil
	}, failAfter)
	return err
}

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

func sqlState(err error) (code string, constraint string, ok bool) {
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		return "", "", false
	}
	return pgErr.Field('C'), pgErr.Field('n'), true
}

func matches(code, constraint, wantCode, wantConstraint string) bool {
	if code != wantCode {
		return false
	}
	return wantConstraint == "" || constraint == wantConstraint
}

// IsUniqueViolation reports whether err is a unique violation. An empty
// constraint matches any unique constraint.
func IsUniqueViolation(err error, constraint string) bool {
	code, name, ok := sqlState(err)
	return ok && matches(code, name, sqlStateUniqueViolation, constraint)
}

func IsForeignKeyViolation(err error, constraint string) bool {
	code, name, ok := sqlState(err)
	return ok && matches(code, name, sqlStateForeignKeyViolation, constraint)
}

// ValidID reports whether id can be compared with a uuid column without
// PostgreSQL rejecting the query.
func ValidID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}

func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
