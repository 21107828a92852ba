package postgres

import (
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"ladinglens/internal/config"
)

// NewDB opens a PostgreSQL connection pool and verifies the connection.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres.NewDB: connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	// Long-lived jobs hold connections for a while; recycle them so
	// server-side restarts and failovers are picked up eventually.
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
