package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	portsrepo "github.com/SscSPs/offering_reconciliation/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/offering_reconciliation/internal/core/ports/services"
	"github.com/SscSPs/offering_reconciliation/internal/dto"
)

const (
	defaultRecordPageSize = 20
	maxRecordPageSize     = 100
)

// ledgerService is the read side of the committed-record ledger.
type ledgerService struct {
	BaseService
	recordRepo portsrepo.OfferingRecordReader
}

// NewLedgerService creates a ledger query service.
func NewLedgerService(recordRepo portsrepo.OfferingRecordReader) portssvc.LedgerReaderSvc {
	return &ledgerService{recordRepo: recordRepo}
}

var _ portssvc.LedgerReaderSvc = (*ledgerService)(nil)

// GetRecord retrieves one committed record.
func (s *ledgerService) GetRecord(ctx context.Context, recordID string) (*domain.CommittedRecord, error) {
	record, err := s.recordRepo.FindRecordByID(ctx, recordID)
	if err != nil {
		s.LogDebug(ctx, "Failed to get offering record", slog.String("record_id", recordID), slog.String("error", err.Error()))
		return nil, err
	}
	return record, nil
}

// ListRecords returns one page of records, newest first.
func (s *ledgerService) ListRecords(ctx context.Context, params dto.ListRecordsParams) (*dto.ListRecordsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultRecordPageSize
	}
	if limit > maxRecordPageSize {
		limit = maxRecordPageSize
	}

	records, nextToken, err := s.recordRepo.ListRecords(ctx, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list offering records", slog.Int("limit", limit))
		return nil, err
	}

	return &dto.ListRecordsResponse{
		Records:   dto.ToCommittedRecordResponses(records),
		NextToken: nextToken,
	}, nil
}
