package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	"github.com/SscSPs/offering_reconciliation/internal/core/services"
	"github.com/SscSPs/offering_reconciliation/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_ListRecords_Limits(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		expected  int
	}{
		{"default when unset", 0, 20},
		{"default when negative", -5, 20},
		{"passes through", 7, 7},
		{"capped", 500, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOfferingRecordRepository)
			repo.On("ListRecords", mock.Anything, tt.expected, (*string)(nil)).
				Return([]*domain.CommittedRecord{}, nil, nil).Once()

			resp, err := services.NewLedgerService(repo).ListRecords(context.Background(), dto.ListRecordsParams{Limit: tt.requested})

			require.NoError(t, err)
			assert.Empty(t, resp.Records)
			assert.Nil(t, resp.NextToken)
			repo.AssertExpectations(t)
		})
	}
}

func TestLedgerService_ListRecords_MapsPage(t *testing.T) {
	repo := new(MockOfferingRecordRepository)
	token := "next-page"
	rec := sampleRecord(t, "rec-1").Stamped(committedAt)
	repo.On("ListRecords", mock.Anything, 20, &token).
		Return([]*domain.CommittedRecord{rec}, &token, nil).Once()

	resp, err := services.NewLedgerService(repo).ListRecords(context.Background(), dto.ListRecordsParams{NextToken: &token})

	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "rec-1", resp.Records[0].RecordID)
	assert.Equal(t, "73.50", resp.Records[0].GrandTotal)
	assert.Equal(t, "70.00", resp.Records[0].NotesSubtotal)
	assert.Equal(t, committedAt, resp.Records[0].CommittedAt)
	require.NotNil(t, resp.NextToken)
	assert.Equal(t, token, *resp.NextToken)
}

func TestLedgerService_ErrorsPassThrough(t *testing.T) {
	repo := new(MockOfferingRecordRepository)
	repo.On("FindRecordByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()
	repo.On("ListRecords", mock.Anything, 20, (*string)(nil)).Return(nil, nil, assert.AnError).Once()
	svc := services.NewLedgerService(repo)

	_, err := svc.GetRecord(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.ListRecords(context.Background(), dto.ListRecordsParams{})
	assert.ErrorIs(t, err, assert.AnError)
}
