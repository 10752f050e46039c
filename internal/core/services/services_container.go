package services

import (
	"fmt"

	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	portsrepo "github.com/SscSPs/offering_reconciliation/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/offering_reconciliation/internal/core/ports/services"
	"github.com/SscSPs/offering_reconciliation/internal/platform/config"
	"github.com/SscSPs/offering_reconciliation/internal/platform/metrics"
	"github.com/SscSPs/offering_reconciliation/internal/report"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, m *metrics.Metrics) (*portssvc.ServiceContainer, error) {
	denominations, err := domain.ParseDenominationSet(cfg.Denominations)
	if err != nil {
		return nil, fmt.Errorf("invalid DENOMINATIONS: %w", err)
	}

	container := &portssvc.ServiceContainer{}

	// Commit service first: the session service writes through it.
	container.Commit = NewCommitService(repos.OfferingRecordRepo, WithCommitMetrics(m))

	container.Reconciliation = NewReconciliationService(
		container.Commit,
		WithDenominations(denominations),
		WithSessionIdleTimeout(cfg.SessionIdleTimeout),
		WithSessionMetrics(m),
	)

	container.Ledger = NewLedgerService(repos.OfferingRecordRepo)
	container.Report = NewReportService(
		repos.OfferingRecordRepo,
		WithReportOptions(report.Options{
			Organization:   cfg.OrganizationName,
			CurrencySymbol: cfg.CurrencySymbol,
		}),
		WithReportMetrics(m),
	)

	return container, nil
}
