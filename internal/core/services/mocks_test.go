package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock OfferingRecordRepository ---
type MockOfferingRecordRepository struct {
	mock.Mock
}

func (m *MockOfferingRecordRepository) AppendRecord(ctx context.Context, record *domain.CommittedRecord) (*domain.CommittedRecord, bool, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.CommittedRecord), args.Bool(1), args.Error(2)
}

func (m *MockOfferingRecordRepository) FindRecordByID(ctx context.Context, recordID string) (*domain.CommittedRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommittedRecord), args.Error(1)
}

func (m *MockOfferingRecordRepository) ListRecords(ctx context.Context, limit int, nextToken *string) ([]*domain.CommittedRecord, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var records []*domain.CommittedRecord
	if v := args.Get(0); v != nil {
		records = v.([]*domain.CommittedRecord)
	}
	var token *string
	if v := args.Get(1); v != nil {
		token = v.(*string)
	}
	return records, token, args.Error(2)
}

// --- Mock CommitSvc ---
type MockCommitService struct {
	mock.Mock
}

func (m *MockCommitService) Commit(ctx context.Context, req domain.CommitRequest) (*domain.CommittedRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommittedRecord), args.Error(1)
}

// --- Fixtures ---

func sundayContext(t *testing.T) domain.ServiceContext {
	t.Helper()
	sc, err := domain.ParseServiceContext("2026-10-11", "SUNDAY_SERVICE")
	require.NoError(t, err)
	return sc
}

// sampleRequest is one £50 note, one £20 note and £3.50 in coins.
func sampleRequest(t *testing.T, recordID string) domain.CommitRequest {
	t.Helper()
	return domain.CommitRequest{
		RecordID:       recordID,
		ServiceContext: sundayContext(t),
		DenominationLines: []domain.DenominationLine{
			{UnitValue: decimal.NewFromInt(50), Count: 1},
			{UnitValue: decimal.NewFromInt(20), Count: 1},
			{UnitValue: decimal.NewFromInt(10), Count: 0},
			{UnitValue: decimal.NewFromInt(5), Count: 0},
		},
		FundLines: []domain.FundLine{
			{Channel: domain.Coins, Amount: decimal.RequireFromString("3.50")},
			{Channel: domain.Cheques, Amount: decimal.Zero},
			{Channel: domain.Card, Amount: decimal.Zero},
		},
		Witnesses:  [2]string{"A. Smith", "B. Jones"},
		OperatorID: "operator-1",
	}
}

func sampleRecord(t *testing.T, recordID string) *domain.CommittedRecord {
	t.Helper()
	rec, err := domain.NewCommittedRecord(sampleRequest(t, recordID))
	require.NoError(t, err)
	return rec
}
