package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	portssvc "github.com/SscSPs/offering_reconciliation/internal/core/ports/services"
	"github.com/SscSPs/offering_reconciliation/internal/core/services"
	"github.com/SscSPs/offering_reconciliation/internal/platform/metrics"
	"github.com/SscSPs/offering_reconciliation/internal/report"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var reportTime = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func newReportService(repo *MockOfferingRecordRepository, m *metrics.Metrics) portssvc.ReportSvc {
	return services.NewReportService(repo,
		services.WithReportOptions(report.Options{Organization: "Grace Chapel", CurrencySymbol: "£"}),
		services.WithReportClock(func() time.Time { return reportTime }),
		services.WithReportMetrics(m))
}

func TestReportService_RenderText(t *testing.T) {
	repo := new(MockOfferingRecordRepository)
	m := metrics.New()
	repo.On("FindRecordByID", mock.Anything, "rec-1").Return(sampleRecord(t, "rec-1").Stamped(committedAt), nil).Once()

	doc, err := newReportService(repo, m).RenderRecordReport(context.Background(), "rec-1", report.FormatText)

	require.NoError(t, err)
	assert.Contains(t, string(doc.Body), "GRACE CHAPEL")
	assert.Contains(t, string(doc.Body), "£73.50")
	assert.Contains(t, string(doc.Body), reportTime.Format(time.RFC3339))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ReportsRendered.WithLabelValues(string(report.FormatText))))
}

func TestReportService_RenderIsDeterministic(t *testing.T) {
	repo := new(MockOfferingRecordRepository)
	rec := sampleRecord(t, "rec-1").Stamped(committedAt)
	repo.On("FindRecordByID", mock.Anything, "rec-1").Return(rec, nil).Twice()
	svc := newReportService(repo, nil)

	first, err := svc.RenderRecordReport(context.Background(), "rec-1", report.FormatText)
	require.NoError(t, err)
	second, err := svc.RenderRecordReport(context.Background(), "rec-1", report.FormatText)
	require.NoError(t, err)

	assert.Equal(t, first.Body, second.Body)
}

func TestReportService_RenderXLSX(t *testing.T) {
	repo := new(MockOfferingRecordRepository)
	repo.On("FindRecordByID", mock.Anything, "rec-1").Return(sampleRecord(t, "rec-1").Stamped(committedAt), nil).Once()

	doc, err := newReportService(repo, nil).RenderRecordReport(context.Background(), "rec-1", report.FormatXLSX)

	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(doc.Body))
	require.NoError(t, err)
	defer f.Close()
	assert.NotEmpty(t, f.GetSheetList())
}

func TestReportService_NotFound(t *testing.T) {
	repo := new(MockOfferingRecordRepository)
	repo.On("FindRecordByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := newReportService(repo, nil).RenderRecordReport(context.Background(), "missing", report.FormatText)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReportService_UnknownFormat(t *testing.T) {
	repo := new(MockOfferingRecordRepository)
	repo.On("FindRecordByID", mock.Anything, "rec-1").Return(sampleRecord(t, "rec-1").Stamped(committedAt), nil).Once()

	_, err := newReportService(repo, nil).RenderRecordReport(context.Background(), "rec-1", report.Format("pdf"))

	assert.Error(t, err)
}
