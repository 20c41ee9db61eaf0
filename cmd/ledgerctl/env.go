package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	portssvc "github.com/SscSPs/household_ledger/internal/core/ports/services"
	"github.com/SscSPs/household_ledger/internal/core/services"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/SscSPs/household_ledger/internal/platform/config"
	"github.com/SscSPs/household_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/household_ledger/pkg/database"
	"github.com/google/subcommands"
)

var commands = []subcommands.Command{
	&migrateCmd{},
	&balanceCmd{},
	&reconcileCmd{},
	&costBasisCmd{},
}

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// openServices connects to PostgreSQL and wires the service container. The returned func
// closes the pool. Services log through the logger carried by ctx (see withLogger).
func openServices(ctx context.Context) (*config.Config, *portssvc.ServiceContainer, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, errors.New("PGSQL_URL is required")
	}
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return nil, nil, nil, err
	}
	store := pgsql.NewStore(pool)
	return cfg, services.NewServiceContainer(store, store, store), func() { database.ClosePgxPool(pool) }, nil
}

func withLogger(ctx context.Context) context.Context {
	return middleware.WithLogger(ctx, logger)
}
