package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	"github.com/SscSPs/offering_reconciliation/internal/models"
	"github.com/SscSPs/offering_reconciliation/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedRecord(t *testing.T) *domain.CommittedRecord {
	t.Helper()
	sc, err := domain.ParseServiceContext("2026-10-11", "SUNDAY_SERVICE")
	require.NoError(t, err)
	rec, err := domain.NewCommittedRecord(domain.CommitRequest{
		RecordID:       "rec-1",
		ServiceContext: sc,
		DenominationLines: []domain.DenominationLine{
			{UnitValue: decimal.NewFromInt(50), Count: 2},
			{UnitValue: decimal.NewFromInt(5), Count: 3},
		},
		FundLines: []domain.FundLine{
			{Channel: domain.Coins, Amount: decimal.RequireFromString("1.20")},
			{Channel: domain.Cheques, Amount: decimal.Zero},
			{Channel: domain.Card, Amount: decimal.RequireFromString("40")},
		},
		Witnesses:  [2]string{"A. Smith", "B. Jones"},
		OperatorID: "operator-1",
	})
	require.NoError(t, err)
	return rec.Stamped(time.Date(2026, 10, 11, 13, 5, 0, 0, time.UTC))
}

func TestOfferingRecord_RoundTrip(t *testing.T) {
	rec := storedRecord(t)

	m, err := mapping.ToModelOfferingRecord(rec)
	require.NoError(t, err)
	require.Len(t, m.Lines, 5)
	assert.Equal(t, "156.2", m.GrandTotal.String())

	// rows may come back in any order
	for i, j := 0, len(m.Lines)-1; i < j; i, j = i+1, j-1 {
		m.Lines[i], m.Lines[j] = m.Lines[j], m.Lines[i]
	}

	back, err := mapping.ToDomainCommittedRecord(m)
	require.NoError(t, err)
	assert.Equal(t, rec.Fingerprint(), back.Fingerprint())
	assert.Equal(t, rec.DenominationLines(), back.DenominationLines())
	assert.Equal(t, rec.FundLines(), back.FundLines())
	assert.True(t, rec.CommittedAt().Equal(back.CommittedAt()))
	assert.Equal(t, "operator-1", back.CommittedBy())
}

func TestOfferingRecord_StoredTotalMismatch(t *testing.T) {
	m, err := mapping.ToModelOfferingRecord(storedRecord(t))
	require.NoError(t, err)
	m.GrandTotal = decimal.RequireFromString("999.99")

	_, err = mapping.ToDomainCommittedRecord(m)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestOfferingRecord_IncompleteLine(t *testing.T) {
	m, err := mapping.ToModelOfferingRecord(storedRecord(t))
	require.NoError(t, err)
	m.Lines = append(m.Lines, models.OfferingRecordLine{RecordID: "rec-1", Position: 9, Kind: models.DenominationLineKind})

	_, err = mapping.ToDomainCommittedRecord(m)

	assert.Error(t, err)
}
