package repositories

import (
	"context"

	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
)

// OfferingRecordReader defines read operations over the committed-record ledger.
type OfferingRecordReader interface {
	// FindRecordByID retrieves a committed record by its reference identifier.
	// Returns apperrors.ErrNotFound when no such record exists.
	FindRecordByID(ctx context.Context, recordID string) (*domain.CommittedRecord, error)

	// ListRecords returns committed records newest first using token-based pagination.
	// It returns the records, a token for the next page, and an error.
	ListRecords(ctx context.Context, limit int, nextToken *string) ([]*domain.CommittedRecord, *string, error)
}

// OfferingRecordWriter is the only write capability the ledger exposes. There is no
// update or delete.
type OfferingRecordWriter interface {
	// AppendRecord persists record once and stamps it with the store's commit time.
	// If a record with the same ID already exists, the stored record is returned with
	// created=false and nothing is written.
	AppendRecord(ctx context.Context, record *domain.CommittedRecord) (stored *domain.CommittedRecord, created bool, err error)
}

// OfferingRecordRepositoryFacade combines the ledger read and write ports.
type OfferingRecordRepositoryFacade interface {
	OfferingRecordReader
	OfferingRecordWriter
}
