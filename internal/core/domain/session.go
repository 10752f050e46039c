package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionSnapshot is a read-only view of one operator's workflow at a point in time.
type SessionSnapshot struct {
	SessionID         string
	OperatorID        string
	State             WorkflowState
	Committing        bool
	ServiceContext    ServiceContext
	DenominationLines []DenominationLine
	FundLines         []FundLine
	NotesSubtotal     decimal.Decimal
	FundsTotal        decimal.Decimal
	GrandTotal        decimal.Decimal
	Witnesses         [WitnessSlots]string
	MissingWitnesses  []int
	Record            *CommittedRecord
	StartedAt         time.Time
	UpdatedAt         time.Time
}

// NewSessionSnapshot copies the current state of w.
func NewSessionSnapshot(sessionID, operatorID string, w *Workflow, startedAt, updatedAt time.Time) *SessionSnapshot {
	d := w.Draft()
	snap := &SessionSnapshot{
		SessionID:         sessionID,
		OperatorID:        operatorID,
		State:             w.State(),
		Committing:        w.Committing(),
		ServiceContext:    d.ServiceContext(),
		DenominationLines: d.DenominationLines(),
		FundLines:         d.FundLines(),
		NotesSubtotal:     d.NotesSubtotal(),
		FundsTotal:        d.FundsTotal(),
		GrandTotal:        d.GrandTotal(),
		Witnesses:         d.Witnesses(),
		MissingWitnesses:  d.MissingWitnessSlots(),
		StartedAt:         startedAt,
		UpdatedAt:         updatedAt,
	}
	if rec, err := w.Record(); err == nil {
		snap.Record = rec
	}
	return snap
}
