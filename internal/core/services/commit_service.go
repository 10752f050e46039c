package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	portsrepo "github.com/SscSPs/offering_reconciliation/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/offering_reconciliation/internal/core/ports/services"
	"github.com/SscSPs/offering_reconciliation/internal/platform/metrics"
)

// commitService implements portssvc.CommitSvc.
type commitService struct {
	BaseService
	recordRepo portsrepo.OfferingRecordWriter
	metrics    *metrics.Metrics
}

// CommitServiceOption is a functional option for configuring the commit service
type CommitServiceOption func(*commitService)

// WithCommitMetrics sets the metrics sink.
func WithCommitMetrics(m *metrics.Metrics) CommitServiceOption {
	return func(s *commitService) {
		s.metrics = m
	}
}

// WithCommitClock overrides the clock used for latency measurement.
func WithCommitClock(now func() time.Time) CommitServiceOption {
	return func(s *commitService) {
		s.Now = now
	}
}

// NewCommitService creates the commit service over the ledger's append port.
func NewCommitService(recordRepo portsrepo.OfferingRecordWriter, options ...CommitServiceOption) portssvc.CommitSvc {
	svc := &commitService{recordRepo: recordRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CommitSvc = (*commitService)(nil)

// Commit rebuilds the record from the raw lines, so any total computed by the caller is
// irrelevant, then appends it once. The record ID is the idempotency key: a replay with
// identical content returns the stored record, a replay with different content is
// rejected with ErrDuplicate.
func (s *commitService) Commit(ctx context.Context, req domain.CommitRequest) (*domain.CommittedRecord, error) {
	record, err := domain.NewCommittedRecord(req)
	if err != nil {
		s.metrics.IncrementCommit(metrics.OutcomeRejected)
		s.LogDebug(ctx, "Commit rejected", slog.String("record_id", req.RecordID), slog.String("error", err.Error()))
		return nil, err
	}

	start := s.now()
	stored, created, err := s.recordRepo.AppendRecord(ctx, record)
	s.metrics.ObserveCommitLatency(s.now().Sub(start))
	if err != nil {
		s.metrics.IncrementCommit(metrics.OutcomeFailed)
		s.LogError(ctx, err, "Failed to append offering record", slog.String("record_id", record.ID()))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrCommitFailed, err)
	}
	if stored == nil {
		s.metrics.IncrementCommit(metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: store returned no record for %s", apperrors.ErrCommitFailed, record.ID())
	}

	if !created {
		if stored.Fingerprint() != record.Fingerprint() {
			s.metrics.IncrementCommit(metrics.OutcomeRejected)
			err := fmt.Errorf("%w: record %s was already committed with different content", apperrors.ErrDuplicate, record.ID())
			s.LogError(ctx, err, "Replayed commit does not match stored record", slog.String("record_id", record.ID()))
			return nil, err
		}
		s.metrics.IncrementCommit(metrics.OutcomeReplayed)
		s.LogInfo(ctx, "Commit replay returned stored record", slog.String("record_id", stored.ID()))
		return stored, nil
	}

	s.metrics.IncrementCommit(metrics.OutcomeCreated)
	s.LogInfo(ctx, "Offering record committed",
		slog.String("record_id", stored.ID()),
		slog.String("service_date", stored.ServiceContext().DateString()),
		slog.String("service_type", string(stored.ServiceContext().Type)),
		slog.String("grand_total", stored.GrandTotal().StringFixed(domain.CurrencyPrecision)),
	)
	return stored, nil
}

// IsRetryable reports whether a commit error leaves the operator free to try again
// with the same draft.
func IsRetryable(err error) bool {
	return errors.Is(err, apperrors.ErrCommitFailed)
}
