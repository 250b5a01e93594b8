package config

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// ProvidePostgres opens the bun handle every repo runs on. Membership and
// invitation writes go through RunInTx with row locks, so the pool stays
// bounded instead of growing with request load.
func ProvidePostgres(config *Config) (*bun.DB, error) {
	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(config.Dsn)))
	pgdb.SetMaxOpenConns(config.DbPoolSize)
	pgdb.SetMaxIdleConns(config.DbPoolSize / 2)

	db := bun.NewDB(pgdb, pgdialect.New())
	if !config.IsProduction {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
		log.Info().Msg("Enabled bun debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}
