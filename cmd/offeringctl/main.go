package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/SscSPs/offering_reconciliation/internal/adapters/database/pgsql"
	"github.com/SscSPs/offering_reconciliation/internal/cli"
	portsrepo "github.com/SscSPs/offering_reconciliation/internal/core/ports/repositories"
	"github.com/SscSPs/offering_reconciliation/internal/platform/config"
	"github.com/SscSPs/offering_reconciliation/internal/report"
	"github.com/SscSPs/offering_reconciliation/pkg/database"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	deps := cli.Deps{
		ReportOptions: report.Options{
			Organization:   cfg.OrganizationName,
			CurrencySymbol: cfg.CurrencySymbol,
		},
		Logger: logger,
	}
	if cfg.StoreDriver == config.StoreDriverPostgres {
		deps.OpenStore = func(ctx context.Context) (portsrepo.OfferingRecordReader, func(), error) {
			pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
			if err != nil {
				return nil, nil, err
			}
			return pgsql.NewOfferingRecordRepository(pool), pool.Close, nil
		}
		deps.Migrate = func(ctx context.Context) error {
			return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsURL, logger)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand(deps).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
