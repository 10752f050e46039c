package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	portsrepo "github.com/SscSPs/offering_reconciliation/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/offering_reconciliation/internal/core/ports/services"
	"github.com/SscSPs/offering_reconciliation/internal/platform/metrics"
	"github.com/SscSPs/offering_reconciliation/internal/report"
)

// reportService renders committed records.
type reportService struct {
	BaseService
	recordRepo portsrepo.OfferingRecordReader
	opts       report.Options
	metrics    *metrics.Metrics
}

// ReportServiceOption is a functional option for configuring the report service
type ReportServiceOption func(*reportService)

// WithReportOptions sets the organization header and currency symbol.
func WithReportOptions(opts report.Options) ReportServiceOption {
	return func(s *reportService) {
		s.opts = opts
	}
}

// WithReportClock overrides the clock that stamps the generation time.
func WithReportClock(now func() time.Time) ReportServiceOption {
	return func(s *reportService) {
		s.Now = now
	}
}

// WithReportMetrics sets the metrics sink.
func WithReportMetrics(m *metrics.Metrics) ReportServiceOption {
	return func(s *reportService) {
		s.metrics = m
	}
}

// NewReportService creates a report service reading records from recordRepo.
func NewReportService(recordRepo portsrepo.OfferingRecordReader, options ...ReportServiceOption) portssvc.ReportSvc {
	svc := &reportService{recordRepo: recordRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportSvc = (*reportService)(nil)

// RenderRecordReport loads a record by ID and renders it.
func (s *reportService) RenderRecordReport(ctx context.Context, recordID string, format report.Format) (*report.Document, error) {
	record, err := s.recordRepo.FindRecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return s.RenderReport(ctx, record, format)
}

// RenderReport renders record in format, stamped with the current time.
func (s *reportService) RenderReport(ctx context.Context, record *domain.CommittedRecord, format report.Format) (*report.Document, error) {
	renderer, err := report.New(format, s.opts)
	if err != nil {
		return nil, err
	}
	doc, err := renderer.Render(record, s.now().UTC())
	if err != nil {
		s.LogError(ctx, err, "Failed to render report", slog.String("record_id", record.ID()), slog.String("format", string(format)))
		return nil, err
	}
	s.metrics.IncrementReport(string(format))
	s.LogInfo(ctx, "Report rendered", slog.String("record_id", record.ID()), slog.String("format", string(format)))
	return doc, nil
}
