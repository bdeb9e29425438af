package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

type Config struct {
	DatabaseURL  string
	Password     string
	MaxOpenConns int
	MaxIdleConns int
	PingTimeout  time.Duration
}

// NewPostgres opens the remote store. The password is injected into the
// parsed connection config so it never has to appear in the URL.
func NewPostgres(cfg *Config) (*sqlx.DB, error) {
	connCfg, err := pgx.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	connCfg.Password = cfg.Password

	db := sqlx.NewDb(stdlib.OpenDB(*connCfg), "pgx")
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping remote store: %w", err)
	}
	return db, nil
}
