package domain

import (
	"context"
	"fmt"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkflowState is the step a count is at.
type WorkflowState string

const (
	StateCounting  WorkflowState = "COUNTING"
	StateVerifying WorkflowState = "VERIFYING"
	StateCommitted WorkflowState = "COMMITTED"
)

// CommitFunc persists a commit request and returns the stored record.
type CommitFunc func(ctx context.Context, req CommitRequest) (*CommittedRecord, error)

// Workflow sequences one draft through Counting, Verifying and Committed.
// It is not safe for concurrent use; callers serialize access per session.
type Workflow struct {
	state      WorkflowState
	draft      *ReconciliationDraft
	record     *CommittedRecord
	committing bool
	newID      func() string
}

// NewWorkflow starts a workflow in Counting with an empty draft.
func NewWorkflow(set DenominationSet) *Workflow {
	return &Workflow{
		state: StateCounting,
		draft: NewDraft(set),
		newID: uuid.NewString,
	}
}

// WithIDGenerator overrides how pending record identifiers are minted.
func (w *Workflow) WithIDGenerator(newID func() string) *Workflow {
	w.newID = newID
	return w
}

func (w *Workflow) State() WorkflowState { return w.state }

// Committing reports whether a commit write is outstanding.
func (w *Workflow) Committing() bool { return w.committing }

// Draft exposes the draft for reading. After a commit it still holds the committed
// entries until NewCount or Reset clears it.
func (w *Workflow) Draft() *ReconciliationDraft { return w.draft }

// Record returns the committed record. Only available in Committed.
func (w *Workflow) Record() (*CommittedRecord, error) {
	if w.state != StateCommitted || w.record == nil {
		return nil, fmt.Errorf("%w: no committed record in state %s", apperrors.ErrInvalidTransition, w.state)
	}
	return w.record, nil
}

func (w *Workflow) requireState(op string, allowed ...WorkflowState) error {
	if w.committing {
		return fmt.Errorf("%w: %s not allowed while a commit is pending", apperrors.ErrCommitInProgress, op)
	}
	for _, s := range allowed {
		if w.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s not allowed in state %s", apperrors.ErrInvalidTransition, op, w.state)
}

// SetServiceContext forwards to the draft while Counting.
func (w *Workflow) SetServiceContext(ctx ServiceContext) error {
	if err := w.requireState("set service context", StateCounting); err != nil {
		return err
	}
	return w.draft.SetServiceContext(ctx)
}

// SetDenominationCount forwards to the draft while Counting.
func (w *Workflow) SetDenominationCount(unitValue decimal.Decimal, count int64) error {
	if err := w.requireState("set denomination count", StateCounting); err != nil {
		return err
	}
	return w.draft.SetDenominationCount(unitValue, count)
}

// SetFundAmount forwards to the draft while Counting.
func (w *Workflow) SetFundAmount(channel FundChannel, amount decimal.Decimal) error {
	if err := w.requireState("set fund amount", StateCounting); err != nil {
		return err
	}
	return w.draft.SetFundAmount(channel, amount)
}

// SetWitness forwards to the draft while Counting or Verifying.
func (w *Workflow) SetWitness(slot int, name string) error {
	if err := w.requireState("set witness", StateCounting, StateVerifying); err != nil {
		return err
	}
	return w.draft.SetWitness(slot, name)
}

// Verify moves Counting to Verifying. A zero grand total needs confirmZero.
func (w *Workflow) Verify(confirmZero bool) error {
	if err := w.requireState("verify", StateCounting); err != nil {
		return err
	}
	if w.draft.GrandTotal().IsZero() && !confirmZero {
		return apperrors.ErrZeroTotalConfirmation
	}
	w.state = StateVerifying
	return nil
}

// Back returns from Verifying to Counting, keeping every entry.
func (w *Workflow) Back() error {
	if err := w.requireState("back", StateVerifying); err != nil {
		return err
	}
	w.state = StateCounting
	return nil
}

// BeginCommit checks the commit gate, takes the submit lock and returns the request
// to persist. Every BeginCommit must be followed by exactly one CompleteCommit.
func (w *Workflow) BeginCommit(operatorID string) (CommitRequest, error) {
	if err := w.requireState("commit", StateVerifying); err != nil {
		return CommitRequest{}, err
	}
	if missing := w.draft.MissingWitnessSlots(); len(missing) > 0 {
		return CommitRequest{}, &apperrors.ValidationError{MissingWitnesses: missing}
	}
	if w.draft.ServiceContext().IsZero() {
		return CommitRequest{}, fmt.Errorf("%w: service context is required", apperrors.ErrValidation)
	}
	w.committing = true
	return CommitRequest{
		RecordID:          w.draft.reserveRecordID(w.newID),
		ServiceContext:    w.draft.ServiceContext(),
		DenominationLines: w.draft.DenominationLines(),
		FundLines:         w.draft.FundLines(),
		Witnesses:         w.draft.Witnesses(),
		OperatorID:        operatorID,
	}, nil
}

// CompleteCommit releases the submit lock. On failure the workflow stays in Verifying
// with the draft untouched, and err is returned for the operator to retry.
func (w *Workflow) CompleteCommit(record *CommittedRecord, err error) (*CommittedRecord, error) {
	if !w.committing {
		return nil, fmt.Errorf("%w: no commit pending", apperrors.ErrInvalidTransition)
	}
	w.committing = false
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: store returned no record", apperrors.ErrCommitFailed)
	}
	w.record = record
	w.state = StateCommitted
	return record, nil
}

// Commit runs BeginCommit, commit and CompleteCommit in one step.
func (w *Workflow) Commit(ctx context.Context, operatorID string, commit CommitFunc) (*CommittedRecord, error) {
	req, err := w.BeginCommit(operatorID)
	if err != nil {
		return nil, err
	}
	rec, err := commit(ctx, req)
	return w.CompleteCommit(rec, err)
}

// NewCount leaves Committed for a fresh, empty count.
func (w *Workflow) NewCount() error {
	if err := w.requireState("new count", StateCommitted); err != nil {
		return err
	}
	w.restart()
	return nil
}

// Reset clears the draft from any state and returns to Counting.
func (w *Workflow) Reset() error {
	if w.committing {
		return fmt.Errorf("%w: reset not allowed while a commit is pending", apperrors.ErrCommitInProgress)
	}
	w.restart()
	return nil
}

func (w *Workflow) restart() {
	w.draft.Reset()
	w.record = nil
	w.state = StateCounting
}
