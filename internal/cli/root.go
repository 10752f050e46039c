// Package cli implements offeringctl, the operator tool for reading the committed-record
// ledger and printing reports outside the HTTP API.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	portsrepo "github.com/SscSPs/offering_reconciliation/internal/core/ports/repositories"
	"github.com/SscSPs/offering_reconciliation/internal/report"
	"github.com/spf13/cobra"
)

// StoreOpener opens the record store. The returned func releases it.
type StoreOpener func(ctx context.Context) (portsrepo.OfferingRecordReader, func(), error)

// Migrator applies pending schema migrations.
type Migrator func(ctx context.Context) error

// Deps carries what the commands need from the environment.
type Deps struct {
	OpenStore     StoreOpener
	Migrate       Migrator
	ReportOptions report.Options
	Logger        *slog.Logger
}

// NewRootCommand builds the offeringctl command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	root := &cobra.Command{
		Use:           "offeringctl",
		Short:         "Inspect committed offering records and print reconciliation reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(newRecordsCommand(deps))
	root.AddCommand(newReportCommand(deps))
	root.AddCommand(newMigrateCommand(deps))
	return root
}

// withStore opens the store for the duration of fn.
func withStore(ctx context.Context, deps Deps, fn func(portsrepo.OfferingRecordReader) error) error {
	if deps.OpenStore == nil {
		return fmt.Errorf("no record store configured")
	}
	store, closeStore, err := deps.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	if closeStore != nil {
		defer closeStore()
	}
	return fn(store)
}

func newMigrateCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.Migrate == nil {
				return fmt.Errorf("migrations are only available with the postgres store")
			}
			if err := deps.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
