package services

import (
	"context"

	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	"github.com/SscSPs/offering_reconciliation/internal/dto"
	"github.com/SscSPs/offering_reconciliation/internal/report"
	"github.com/shopspring/decimal"
)

// CommitSvc is the trust boundary between an operator's draft and the ledger.
type CommitSvc interface {
	// Commit recomputes every total from the request's raw lines, appends the record
	// exactly once and returns the stored, immutable record.
	Commit(ctx context.Context, req domain.CommitRequest) (*domain.CommittedRecord, error)
}

// ReconciliationReaderSvc defines read operations on in-progress counts.
type ReconciliationReaderSvc interface {
	// GetSession returns the current state of an operator's count.
	GetSession(ctx context.Context, sessionID string, operatorID string) (*domain.SessionSnapshot, error)
}

// ReconciliationEditorSvc defines the draft editing operations.
type ReconciliationEditorSvc interface {
	SetServiceContext(ctx context.Context, sessionID string, operatorID string, sc domain.ServiceContext) (*domain.SessionSnapshot, error)
	SetDenominationCount(ctx context.Context, sessionID string, operatorID string, unitValue decimal.Decimal, count int64) (*domain.SessionSnapshot, error)
	SetFundAmount(ctx context.Context, sessionID string, operatorID string, channel domain.FundChannel, amount decimal.Decimal) (*domain.SessionSnapshot, error)
	SetWitness(ctx context.Context, sessionID string, operatorID string, slot int, name string) (*domain.SessionSnapshot, error)
}

// ReconciliationWorkflowSvc defines the step transitions of a count.
type ReconciliationWorkflowSvc interface {
	// StartCount opens a new count for operatorID dated with sc.
	StartCount(ctx context.Context, operatorID string, sc domain.ServiceContext) (*domain.SessionSnapshot, error)

	// Verify moves the count to the verification step. confirmZeroTotal must be true
	// to advance a count whose grand total is zero.
	Verify(ctx context.Context, sessionID string, operatorID string, confirmZeroTotal bool) (*domain.SessionSnapshot, error)

	// Back returns to counting, keeping every entry.
	Back(ctx context.Context, sessionID string, operatorID string) (*domain.SessionSnapshot, error)

	// Commit certifies the count and writes it to the ledger.
	Commit(ctx context.Context, sessionID string, operatorID string) (*domain.SessionSnapshot, error)

	// NewCount starts over after a successful commit.
	NewCount(ctx context.Context, sessionID string, operatorID string) (*domain.SessionSnapshot, error)

	// Reset clears the draft from any step.
	Reset(ctx context.Context, sessionID string, operatorID string) (*domain.SessionSnapshot, error)

	// DiscardSession drops the session. Committed records are unaffected.
	DiscardSession(ctx context.Context, sessionID string, operatorID string) error
}

// ReconciliationSvcFacade combines all reconciliation session interfaces.
type ReconciliationSvcFacade interface {
	ReconciliationReaderSvc
	ReconciliationEditorSvc
	ReconciliationWorkflowSvc
}

// LedgerReaderSvc defines read operations over committed records.
type LedgerReaderSvc interface {
	// GetRecord retrieves a committed record by its reference identifier.
	GetRecord(ctx context.Context, recordID string) (*domain.CommittedRecord, error)

	// ListRecords retrieves a page of committed records, newest first.
	ListRecords(ctx context.Context, params dto.ListRecordsParams) (*dto.ListRecordsResponse, error)
}

// ReportSvc renders printable documents from committed records.
type ReportSvc interface {
	// RenderRecordReport loads the record from the ledger and renders it in format.
	RenderRecordReport(ctx context.Context, recordID string, format report.Format) (*report.Document, error)

	// RenderReport renders an already loaded committed record.
	RenderReport(ctx context.Context, record *domain.CommittedRecord, format report.Format) (*report.Document, error)
}
