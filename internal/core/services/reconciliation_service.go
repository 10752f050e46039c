package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	portssvc "github.com/SscSPs/offering_reconciliation/internal/core/ports/services"
	"github.com/SscSPs/offering_reconciliation/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultSessionIdleTimeout = 12 * time.Hour

// session is one operator's count. mu serialises every workflow call; it is released
// while the commit write is in flight, during which the workflow's submit lock
// rejects further edits.
type session struct {
	mu         sync.Mutex
	id         string
	operatorID string
	workflow   *domain.Workflow
	startedAt  time.Time
	updatedAt  time.Time
}

func (s *session) snapshot() *domain.SessionSnapshot {
	return domain.NewSessionSnapshot(s.id, s.operatorID, s.workflow, s.startedAt, s.updatedAt)
}

// reconciliationService holds the in-progress counts. Lock order is service mu, then
// session mu.
type reconciliationService struct {
	BaseService
	commitSvc     portssvc.CommitSvc
	denominations domain.DenominationSet
	idleTimeout   time.Duration
	newID         func() string
	recordIDs     func() string
	metrics       *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*session
}

// ReconciliationServiceOption is a functional option for configuring the session service
type ReconciliationServiceOption func(*reconciliationService)

// WithDenominations sets the note slots offered by every new count.
func WithDenominations(set domain.DenominationSet) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.denominations = set
	}
}

// WithSessionIdleTimeout sets how long an untouched session survives.
func WithSessionIdleTimeout(d time.Duration) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		if d > 0 {
			s.idleTimeout = d
		}
	}
}

// WithSessionClock overrides the clock used for session timestamps and eviction.
func WithSessionClock(now func() time.Time) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.Now = now
	}
}

// WithSessionIDGenerator overrides session ID generation.
func WithSessionIDGenerator(newID func() string) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.newID = newID
	}
}

// WithRecordIDGenerator overrides the generator for pending record IDs.
func WithRecordIDGenerator(newID func() string) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.recordIDs = newID
	}
}

// WithSessionMetrics sets the metrics sink.
func WithSessionMetrics(m *metrics.Metrics) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.metrics = m
	}
}

// NewReconciliationService creates the session service. commitSvc performs the ledger
// write for every commit.
func NewReconciliationService(commitSvc portssvc.CommitSvc, options ...ReconciliationServiceOption) portssvc.ReconciliationSvcFacade {
	svc := &reconciliationService{
		commitSvc:     commitSvc,
		denominations: domain.MustDefaultDenominationSet(),
		idleTimeout:   defaultSessionIdleTimeout,
		newID:         uuid.NewString,
		sessions:      make(map[string]*session),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// StartCount opens a session owned by operatorID.
func (s *reconciliationService) StartCount(ctx context.Context, operatorID string, sc domain.ServiceContext) (*domain.SessionSnapshot, error) {
	if operatorID == "" {
		return nil, fmt.Errorf("%w: operator identity is required", apperrors.ErrValidation)
	}
	w := domain.NewWorkflow(s.denominations)
	if s.recordIDs != nil {
		w = w.WithIDGenerator(s.recordIDs)
	}
	if !sc.IsZero() {
		if err := w.SetServiceContext(sc); err != nil {
			return nil, err
		}
	}

	now := s.now()
	sess := &session{
		id:         s.newID(),
		operatorID: operatorID,
		workflow:   w,
		startedAt:  now,
		updatedAt:  now,
	}

	s.mu.Lock()
	s.evictIdleLocked(now)
	s.sessions[sess.id] = sess
	count := len(s.sessions)
	s.mu.Unlock()
	s.metrics.SetActiveSessions(count)

	s.LogInfo(ctx, "Reconciliation session started",
		slog.String("session_id", sess.id),
		slog.String("service_date", sc.DateString()),
		slog.String("service_type", string(sc.Type)))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// GetSession returns the current state of a session.
func (s *reconciliationService) GetSession(ctx context.Context, sessionID string, operatorID string) (*domain.SessionSnapshot, error) {
	return s.apply(ctx, sessionID, operatorID, "get", func(*domain.Workflow) error { return nil })
}

// SetServiceContext re-dates the count.
func (s *reconciliationService) SetServiceContext(ctx context.Context, sessionID string, operatorID string, sc domain.ServiceContext) (*domain.SessionSnapshot, error) {
	return s.apply(ctx, sessionID, operatorID, "set service context", func(w *domain.Workflow) error {
		return w.SetServiceContext(sc)
	})
}

// SetDenominationCount records how many notes of unitValue were counted.
func (s *reconciliationService) SetDenominationCount(ctx context.Context, sessionID string, operatorID string, unitValue decimal.Decimal, count int64) (*domain.SessionSnapshot, error) {
	return s.apply(ctx, sessionID, operatorID, "set denomination count", func(w *domain.Workflow) error {
		return w.SetDenominationCount(unitValue, count)
	})
}

// SetFundAmount records the entered total for a fund channel.
func (s *reconciliationService) SetFundAmount(ctx context.Context, sessionID string, operatorID string, channel domain.FundChannel, amount decimal.Decimal) (*domain.SessionSnapshot, error) {
	return s.apply(ctx, sessionID, operatorID, "set fund amount", func(w *domain.Workflow) error {
		return w.SetFundAmount(channel, amount)
	})
}

// SetWitness stores a witness name.
func (s *reconciliationService) SetWitness(ctx context.Context, sessionID string, operatorID string, slot int, name string) (*domain.SessionSnapshot, error) {
	return s.apply(ctx, sessionID, operatorID, "set witness", func(w *domain.Workflow) error {
		return w.SetWitness(slot, name)
	})
}

// Verify advances to the verification step.
func (s *reconciliationService) Verify(ctx context.Context, sessionID string, operatorID string, confirmZeroTotal bool) (*domain.SessionSnapshot, error) {
	return s.apply(ctx, sessionID, operatorID, "verify", func(w *domain.Workflow) error {
		return w.Verify(confirmZeroTotal)
	})
}

// Back returns to counting.
func (s *reconciliationService) Back(ctx context.Context, sessionID string, operatorID string) (*domain.SessionSnapshot, error) {
	return s.apply(ctx, sessionID, operatorID, "back", func(w *domain.Workflow) error {
		return w.Back()
	})
}

// Commit writes the verified count to the ledger. The session lock is not held during
// the write; the workflow's submit lock rejects concurrent commits and edits instead.
func (s *reconciliationService) Commit(ctx context.Context, sessionID string, operatorID string) (*domain.SessionSnapshot, error) {
	sess, err := s.lookup(sessionID, operatorID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	req, err := sess.workflow.BeginCommit(operatorID)
	sess.mu.Unlock()
	if err != nil {
		s.LogDebug(ctx, "Commit refused", slog.String("session_id", sessionID), slog.String("error", err.Error()))
		return nil, err
	}

	// An issued commit runs to completion even if the caller goes away.
	record, commitErr := s.commitSvc.Commit(context.WithoutCancel(ctx), req)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if _, err := sess.workflow.CompleteCommit(record, commitErr); err != nil {
		s.LogError(ctx, err, "Commit failed, draft kept for retry",
			slog.String("session_id", sessionID),
			slog.String("record_id", req.RecordID))
		return nil, err
	}
	sess.updatedAt = s.now()
	return sess.snapshot(), nil
}

// NewCount starts over after a commit.
func (s *reconciliationService) NewCount(ctx context.Context, sessionID string, operatorID string) (*domain.SessionSnapshot, error) {
	return s.apply(ctx, sessionID, operatorID, "new count", func(w *domain.Workflow) error {
		return w.NewCount()
	})
}

// Reset clears the draft.
func (s *reconciliationService) Reset(ctx context.Context, sessionID string, operatorID string) (*domain.SessionSnapshot, error) {
	return s.apply(ctx, sessionID, operatorID, "reset", func(w *domain.Workflow) error {
		return w.Reset()
	})
}

// DiscardSession removes a session that has no commit in flight.
func (s *reconciliationService) DiscardSession(ctx context.Context, sessionID string, operatorID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.operatorID != operatorID {
		s.mu.Unlock()
		return sessionNotFound(sessionID)
	}
	sess.mu.Lock()
	committing := sess.workflow.Committing()
	sess.mu.Unlock()
	if committing {
		s.mu.Unlock()
		return fmt.Errorf("%w: session %s has a commit pending", apperrors.ErrCommitInProgress, sessionID)
	}
	delete(s.sessions, sessionID)
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
	s.LogInfo(ctx, "Reconciliation session discarded", slog.String("session_id", sessionID))
	return nil
}

// apply runs fn against the session's workflow under the session lock.
func (s *reconciliationService) apply(ctx context.Context, sessionID, operatorID, op string, fn func(*domain.Workflow) error) (*domain.SessionSnapshot, error) {
	sess, err := s.lookup(sessionID, operatorID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := fn(sess.workflow); err != nil {
		s.LogDebug(ctx, "Reconciliation operation refused",
			slog.String("session_id", sessionID),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, err
	}
	sess.updatedAt = s.now()
	return sess.snapshot(), nil
}

// lookup finds a session owned by operatorID. Sessions of other operators are reported
// as not found.
func (s *reconciliationService) lookup(sessionID, operatorID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.evictIdleLocked(s.now()) > 0 {
		s.metrics.SetActiveSessions(len(s.sessions))
	}
	sess, ok := s.sessions[sessionID]
	if !ok || sess.operatorID != operatorID {
		return nil, sessionNotFound(sessionID)
	}
	return sess, nil
}

// evictIdleLocked drops sessions untouched for longer than the idle timeout. Sessions
// that are busy or have a commit in flight are kept. Caller holds s.mu.
func (s *reconciliationService) evictIdleLocked(now time.Time) int {
	evicted := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		idle := now.Sub(sess.updatedAt) > s.idleTimeout && !sess.workflow.Committing()
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

func sessionNotFound(sessionID string) error {
	return fmt.Errorf("%w: reconciliation session %s", apperrors.ErrNotFound, sessionID)
}
