package services_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/offering_reconciliation/internal/adapters/database/memory"
	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	portssvc "github.com/SscSPs/offering_reconciliation/internal/core/ports/services"
	"github.com/SscSPs/offering_reconciliation/internal/core/services"
	"github.com/SscSPs/offering_reconciliation/internal/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const operator = "operator-1"

// fakeClock is a settable clock safe for concurrent use.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type ReconciliationServiceTestSuite struct {
	suite.Suite
	clock   *fakeClock
	store   *memory.OfferingRecordRepository
	service portssvc.ReconciliationSvcFacade
	reports portssvc.ReportSvc
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.clock = &fakeClock{now: time.Date(2026, 10, 11, 12, 0, 0, 0, time.UTC)}
	suite.store = memory.NewOfferingRecordRepository(memory.WithClock(suite.clock.Now))
	suite.service = services.NewReconciliationService(
		services.NewCommitService(suite.store),
		services.WithSessionClock(suite.clock.Now),
		services.WithSessionIdleTimeout(time.Hour),
	)
	suite.reports = services.NewReportService(suite.store,
		services.WithReportOptions(report.Options{Organization: "Grace Chapel"}),
		services.WithReportClock(suite.clock.Now),
	)
}

func (suite *ReconciliationServiceTestSuite) start() string {
	snap, err := suite.service.StartCount(context.Background(), operator, sundayContext(suite.T()))
	suite.Require().NoError(err)
	return snap.SessionID
}

// enterSample enters one £50 note, one £20 note and £3.50 in coins.
func (suite *ReconciliationServiceTestSuite) enterSample(id string) {
	ctx := context.Background()
	_, err := suite.service.SetDenominationCount(ctx, id, operator, decimal.NewFromInt(50), 1)
	suite.Require().NoError(err)
	_, err = suite.service.SetDenominationCount(ctx, id, operator, decimal.NewFromInt(20), 1)
	suite.Require().NoError(err)
	_, err = suite.service.SetFundAmount(ctx, id, operator, domain.Coins, decimal.RequireFromString("3.50"))
	suite.Require().NoError(err)
}

func (suite *ReconciliationServiceTestSuite) witness(id string) {
	ctx := context.Background()
	_, err := suite.service.SetWitness(ctx, id, operator, 1, "A. Smith")
	suite.Require().NoError(err)
	_, err = suite.service.SetWitness(ctx, id, operator, 2, "B. Jones")
	suite.Require().NoError(err)
}

func (suite *ReconciliationServiceTestSuite) TestEndToEnd_CommitAndReport() {
	ctx := context.Background()
	id := suite.start()
	suite.enterSample(id)

	snap, err := suite.service.Verify(ctx, id, operator, false)
	suite.Require().NoError(err)
	suite.Equal(domain.StateVerifying, snap.State)
	suite.Equal("73.5", snap.GrandTotal.String())

	suite.witness(id)
	snap, err = suite.service.Commit(ctx, id, operator)
	suite.Require().NoError(err)
	suite.Equal(domain.StateCommitted, snap.State)
	suite.Require().NotNil(snap.Record)
	suite.Equal("73.5", snap.Record.GrandTotal().String())
	suite.Equal(operator, snap.Record.CommittedBy())

	stored, err := suite.store.FindRecordByID(ctx, snap.Record.ID())
	suite.Require().NoError(err)
	suite.Equal(snap.Record.Fingerprint(), stored.Fingerprint())

	doc, err := suite.reports.RenderRecordReport(ctx, snap.Record.ID(), report.FormatText)
	suite.Require().NoError(err)
	body := string(doc.Body)
	suite.Contains(body, "£73.50")
	suite.Contains(body, "Witness 1    : A. Smith")
	suite.Contains(body, "Reference    : "+snap.Record.ID())

	snap, err = suite.service.NewCount(ctx, id, operator)
	suite.Require().NoError(err)
	suite.Equal(domain.StateCounting, snap.State)
	suite.True(snap.GrandTotal.IsZero())
	suite.Nil(snap.Record)
}

func (suite *ReconciliationServiceTestSuite) TestCommitSurvivesCallerCancellation() {
	id := suite.start()
	suite.enterSample(id)
	_, err := suite.service.Verify(context.Background(), id, operator, false)
	suite.Require().NoError(err)
	suite.witness(id)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap, err := suite.service.Commit(ctx, id, operator)
	suite.Require().NoError(err)
	suite.Equal(domain.StateCommitted, snap.State)
	suite.Require().NotNil(snap.Record)

	stored, err := suite.store.FindRecordByID(context.Background(), snap.Record.ID())
	suite.Require().NoError(err)
	suite.Equal("73.5", stored.GrandTotal().String())
}

func (suite *ReconciliationServiceTestSuite) TestZeroTotalNeedsConfirmation() {
	ctx := context.Background()
	id := suite.start()

	_, err := suite.service.Verify(ctx, id, operator, false)
	suite.ErrorIs(err, apperrors.ErrZeroTotalConfirmation)

	snap, err := suite.service.Verify(ctx, id, operator, true)
	suite.Require().NoError(err)
	suite.Equal(domain.StateVerifying, snap.State)
}

func (suite *ReconciliationServiceTestSuite) TestCommitWithoutWitnessesStaysVerifying() {
	ctx := context.Background()
	id := suite.start()
	suite.enterSample(id)
	_, err := suite.service.Verify(ctx, id, operator, false)
	suite.Require().NoError(err)
	_, err = suite.service.SetWitness(ctx, id, operator, 1, "A. Smith")
	suite.Require().NoError(err)

	_, err = suite.service.Commit(ctx, id, operator)

	var vErr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &vErr)
	suite.Equal([]int{2}, vErr.MissingWitnesses)
	snap, err := suite.service.GetSession(ctx, id, operator)
	suite.Require().NoError(err)
	suite.Equal(domain.StateVerifying, snap.State)
	page, _, err := suite.store.ListRecords(ctx, 10, nil)
	suite.Require().NoError(err)
	suite.Empty(page)
}

func (suite *ReconciliationServiceTestSuite) TestBackPreservesEntries() {
	ctx := context.Background()
	id := suite.start()
	suite.enterSample(id)
	_, err := suite.service.Verify(ctx, id, operator, false)
	suite.Require().NoError(err)

	snap, err := suite.service.Back(ctx, id, operator)

	suite.Require().NoError(err)
	suite.Equal(domain.StateCounting, snap.State)
	suite.Equal("73.5", snap.GrandTotal.String())
}

func (suite *ReconciliationServiceTestSuite) TestEditsRejectedWhileVerifying() {
	ctx := context.Background()
	id := suite.start()
	suite.enterSample(id)
	_, err := suite.service.Verify(ctx, id, operator, false)
	suite.Require().NoError(err)

	_, err = suite.service.SetDenominationCount(ctx, id, operator, decimal.NewFromInt(10), 4)

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *ReconciliationServiceTestSuite) TestContextLockedAfterBreakdownEdit() {
	ctx := context.Background()
	id := suite.start()
	suite.enterSample(id)
	other, err := domain.ParseServiceContext("2026-10-14", "BIBLE_STUDY")
	suite.Require().NoError(err)

	_, err = suite.service.SetServiceContext(ctx, id, operator, other)
	suite.ErrorIs(err, apperrors.ErrSequence)

	_, err = suite.service.Reset(ctx, id, operator)
	suite.Require().NoError(err)
	snap, err := suite.service.SetServiceContext(ctx, id, operator, other)
	suite.Require().NoError(err)
	suite.Equal(domain.BibleStudy, snap.ServiceContext.Type)
}

func (suite *ReconciliationServiceTestSuite) TestResetEqualsFreshSession() {
	ctx := context.Background()
	id := suite.start()
	suite.enterSample(id)
	suite.witness(id)

	reset, err := suite.service.Reset(ctx, id, operator)
	suite.Require().NoError(err)

	fresh, err := suite.service.StartCount(ctx, operator, domain.ServiceContext{})
	suite.Require().NoError(err)
	suite.Equal(fresh.State, reset.State)
	suite.Equal(fresh.DenominationLines, reset.DenominationLines)
	suite.Equal(fresh.FundLines, reset.FundLines)
	suite.Equal(fresh.Witnesses, reset.Witnesses)
	suite.Equal(fresh.ServiceContext, reset.ServiceContext)
	suite.True(reset.GrandTotal.IsZero())
}

func (suite *ReconciliationServiceTestSuite) TestOtherOperatorCannotSeeSession() {
	ctx := context.Background()
	id := suite.start()

	_, err := suite.service.GetSession(ctx, id, "operator-2")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = suite.service.SetFundAmount(ctx, id, "operator-2", domain.Card, decimal.NewFromInt(5))
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.ErrorIs(suite.service.DiscardSession(ctx, id, "operator-2"), apperrors.ErrNotFound)
}

func (suite *ReconciliationServiceTestSuite) TestIdleSessionsAreEvicted() {
	ctx := context.Background()
	id := suite.start()

	suite.clock.Advance(30 * time.Minute)
	_, err := suite.service.GetSession(ctx, id, operator)
	suite.Require().NoError(err)

	suite.clock.Advance(59 * time.Minute)
	_, err = suite.service.GetSession(ctx, id, operator)
	suite.Require().NoError(err, "access keeps the session alive")

	suite.clock.Advance(2 * time.Hour)
	_, err = suite.service.GetSession(ctx, id, operator)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReconciliationServiceTestSuite) TestDiscardSession() {
	ctx := context.Background()
	id := suite.start()

	suite.Require().NoError(suite.service.DiscardSession(ctx, id, operator))

	_, err := suite.service.GetSession(ctx, id, operator)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReconciliationServiceTestSuite) TestStartCountRequiresOperator() {
	_, err := suite.service.StartCount(context.Background(), "", sundayContext(suite.T()))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}

// newVerifiedSession drives a session with the sample entries to a committable state.
func newVerifiedSession(t *testing.T, svc portssvc.ReconciliationSvcFacade) string {
	t.Helper()
	ctx := context.Background()
	snap, err := svc.StartCount(ctx, operator, sundayContext(t))
	require.NoError(t, err)
	id := snap.SessionID
	_, err = svc.SetDenominationCount(ctx, id, operator, decimal.NewFromInt(50), 1)
	require.NoError(t, err)
	_, err = svc.SetDenominationCount(ctx, id, operator, decimal.NewFromInt(20), 1)
	require.NoError(t, err)
	_, err = svc.SetFundAmount(ctx, id, operator, domain.Coins, decimal.RequireFromString("3.50"))
	require.NoError(t, err)
	_, err = svc.Verify(ctx, id, operator, false)
	require.NoError(t, err)
	_, err = svc.SetWitness(ctx, id, operator, 1, "A. Smith")
	require.NoError(t, err)
	_, err = svc.SetWitness(ctx, id, operator, 2, "B. Jones")
	require.NoError(t, err)
	return id
}

func TestCommit_RetryAfterFailureUsesSameRecordID(t *testing.T) {
	ctx := context.Background()
	committer := new(MockCommitService)
	svc := services.NewReconciliationService(committer,
		services.WithRecordIDGenerator(func() string { return "rec-fixed" }))
	id := newVerifiedSession(t, svc)

	committer.On("Commit", ctx, mock.Anything).
		Return(nil, apperrors.ErrCommitFailed).Once()
	committer.On("Commit", ctx, mock.Anything).
		Return(sampleRecord(t, "rec-fixed").Stamped(committedAt), nil).Once()

	_, err := svc.Commit(ctx, id, operator)
	require.ErrorIs(t, err, apperrors.ErrCommitFailed)

	snap, err := svc.GetSession(ctx, id, operator)
	require.NoError(t, err)
	assert.Equal(t, domain.StateVerifying, snap.State)
	assert.False(t, snap.Committing)
	assert.Equal(t, "73.5", snap.GrandTotal.String())

	snap, err = svc.Commit(ctx, id, operator)
	require.NoError(t, err)
	assert.Equal(t, domain.StateCommitted, snap.State)

	committer.AssertNumberOfCalls(t, "Commit", 2)
	first := committer.Calls[0].Arguments.Get(1).(domain.CommitRequest)
	second := committer.Calls[1].Arguments.Get(1).(domain.CommitRequest)
	assert.Equal(t, "rec-fixed", first.RecordID)
	assert.Equal(t, first, second, "retry submits the identical request")
}

func TestCommit_EditAfterFailureMintsNewRecordID(t *testing.T) {
	ctx := context.Background()
	committer := new(MockCommitService)
	n := 0
	svc := services.NewReconciliationService(committer,
		services.WithRecordIDGenerator(func() string {
			n++
			return "rec-" + strings.Repeat("x", n)
		}))
	id := newVerifiedSession(t, svc)
	committer.On("Commit", ctx, mock.Anything).Return(nil, apperrors.ErrCommitFailed).Twice()

	_, err := svc.Commit(ctx, id, operator)
	require.ErrorIs(t, err, apperrors.ErrCommitFailed)
	_, err = svc.SetWitness(ctx, id, operator, 2, "C. Brown")
	require.NoError(t, err)
	_, err = svc.Commit(ctx, id, operator)
	require.ErrorIs(t, err, apperrors.ErrCommitFailed)

	first := committer.Calls[0].Arguments.Get(1).(domain.CommitRequest)
	second := committer.Calls[1].Arguments.Get(1).(domain.CommitRequest)
	assert.NotEqual(t, first.RecordID, second.RecordID)
	assert.Equal(t, "C. Brown", second.Witnesses[1])
}

// blockingCommitter holds every commit until release is closed.
type blockingCommitter struct {
	started chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (b *blockingCommitter) Commit(ctx context.Context, req domain.CommitRequest) (*domain.CommittedRecord, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	b.started <- struct{}{}
	<-b.release
	rec, err := domain.NewCommittedRecord(req)
	if err != nil {
		return nil, err
	}
	return rec.Stamped(committedAt), nil
}

func TestCommit_SubmitLock(t *testing.T) {
	ctx := context.Background()
	committer := &blockingCommitter{started: make(chan struct{}, 1), release: make(chan struct{})}
	svc := services.NewReconciliationService(committer)
	id := newVerifiedSession(t, svc)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Commit(ctx, id, operator)
		done <- err
	}()
	<-committer.started

	_, err := svc.Commit(ctx, id, operator)
	assert.ErrorIs(t, err, apperrors.ErrCommitInProgress)
	_, err = svc.SetWitness(ctx, id, operator, 1, "Someone Else")
	assert.ErrorIs(t, err, apperrors.ErrCommitInProgress)
	_, err = svc.Reset(ctx, id, operator)
	assert.ErrorIs(t, err, apperrors.ErrCommitInProgress)
	assert.ErrorIs(t, svc.DiscardSession(ctx, id, operator), apperrors.ErrCommitInProgress)

	snap, err := svc.GetSession(ctx, id, operator)
	require.NoError(t, err)
	assert.True(t, snap.Committing)

	close(committer.release)
	require.NoError(t, <-done)

	snap, err = svc.GetSession(ctx, id, operator)
	require.NoError(t, err)
	assert.Equal(t, domain.StateCommitted, snap.State)
	assert.Equal(t, "A. Smith", snap.Record.Witnesses()[0])
	committer.mu.Lock()
	defer committer.mu.Unlock()
	assert.Equal(t, 1, committer.calls)
}
