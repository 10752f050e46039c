package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CommitRequest carries the raw inputs of a commit. It deliberately has no total field:
// the commit service derives every total itself.
type CommitRequest struct {
	RecordID          string
	ServiceContext    ServiceContext
	DenominationLines []DenominationLine
	FundLines         []FundLine
	Witnesses         [WitnessSlots]string
	OperatorID        string
}

// CommittedRecord is the immutable ledger entry written once per successful commit.
// Fields are unexported; accessors hand out copies.
type CommittedRecord struct {
	id                string
	serviceContext    ServiceContext
	denominationLines []DenominationLine
	fundLines         []FundLine
	notesSubtotal     decimal.Decimal
	fundsTotal        decimal.Decimal
	grandTotal        decimal.Decimal
	witnesses         [WitnessSlots]string
	committedAt       time.Time
	committedBy       string
}

// NewCommittedRecord validates the raw inputs and derives the totals from them.
// The record has no commit timestamp until the store stamps it.
func NewCommittedRecord(req CommitRequest) (*CommittedRecord, error) {
	if strings.TrimSpace(req.RecordID) == "" {
		return nil, fmt.Errorf("%w: record id is required", apperrors.ErrValidation)
	}
	if req.ServiceContext.IsZero() {
		return nil, fmt.Errorf("%w: service context is required", apperrors.ErrValidation)
	}
	serviceContext, err := NewServiceContext(req.ServiceContext.Date, req.ServiceContext.Type)
	if err != nil {
		return nil, err
	}
	var missing []int
	var witnesses [WitnessSlots]string
	for i, w := range req.Witnesses {
		if witnesses[i], err = NormalizeWitnessName(w); err != nil {
			return nil, err
		}
		if witnesses[i] == "" {
			missing = append(missing, i+1)
		}
	}
	if len(missing) > 0 {
		return nil, &apperrors.ValidationError{MissingWitnesses: missing}
	}

	notes, err := SumDenominations(req.DenominationLines)
	if err != nil {
		return nil, err
	}
	funds, err := SumFunds(req.FundLines)
	if err != nil {
		return nil, err
	}
	if err := CheckAmountBound("grand total", notes.Add(funds)); err != nil {
		return nil, err
	}

	return &CommittedRecord{
		id:                req.RecordID,
		serviceContext:    serviceContext,
		denominationLines: copyDenominationLines(req.DenominationLines),
		fundLines:         copyFundLines(req.FundLines),
		notesSubtotal:     notes,
		fundsTotal:        funds,
		grandTotal:        notes.Add(funds),
		witnesses:         witnesses,
		committedBy:       req.OperatorID,
	}, nil
}

// RestoreCommittedRecord rebuilds a record loaded from storage and checks that the
// stored grand total still matches its lines.
func RestoreCommittedRecord(req CommitRequest, storedTotal decimal.Decimal, committedAt time.Time) (*CommittedRecord, error) {
	rec, err := NewCommittedRecord(req)
	if err != nil {
		return nil, err
	}
	if !rec.grandTotal.Equal(storedTotal) {
		return nil, fmt.Errorf("%w: record %s stored total %s does not match its lines (%s)",
			apperrors.ErrValidation, req.RecordID, storedTotal.String(), rec.grandTotal.String())
	}
	rec.committedAt = committedAt.UTC()
	return rec, nil
}

// Stamped returns a copy of the record carrying the store-assigned commit time.
func (r *CommittedRecord) Stamped(committedAt time.Time) *CommittedRecord {
	out := *r
	out.denominationLines = copyDenominationLines(r.denominationLines)
	out.fundLines = copyFundLines(r.fundLines)
	out.committedAt = committedAt.UTC()
	return &out
}

func (r *CommittedRecord) ID() string                     { return r.id }
func (r *CommittedRecord) ServiceContext() ServiceContext { return r.serviceContext }
func (r *CommittedRecord) NotesSubtotal() decimal.Decimal { return r.notesSubtotal }
func (r *CommittedRecord) FundsTotal() decimal.Decimal    { return r.fundsTotal }
func (r *CommittedRecord) GrandTotal() decimal.Decimal    { return r.grandTotal }
func (r *CommittedRecord) Witnesses() [WitnessSlots]string {
	return r.witnesses
}
func (r *CommittedRecord) CommittedAt() time.Time { return r.committedAt }
func (r *CommittedRecord) CommittedBy() string    { return r.committedBy }

// DenominationLines returns a copy of the counted note lines.
func (r *CommittedRecord) DenominationLines() []DenominationLine {
	return copyDenominationLines(r.denominationLines)
}

// FundLines returns a copy of the fund lines.
func (r *CommittedRecord) FundLines() []FundLine {
	return copyFundLines(r.fundLines)
}

// Request returns the raw inputs that produced the record.
func (r *CommittedRecord) Request() CommitRequest {
	return CommitRequest{
		RecordID:          r.id,
		ServiceContext:    r.serviceContext,
		DenominationLines: r.DenominationLines(),
		FundLines:         r.FundLines(),
		Witnesses:         r.witnesses,
		OperatorID:        r.committedBy,
	}
}

// Fingerprint is a stable digest of the record content, excluding the commit time.
// A replayed append is accepted only when fingerprints match.
func (r *CommittedRecord) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "id=%s\ndate=%s\ntype=%s\n", r.id, r.serviceContext.DateString(), r.serviceContext.Type)
	for _, l := range r.denominationLines {
		fmt.Fprintf(&b, "note=%s x %d\n", l.UnitValue.StringFixed(CurrencyPrecision), l.Count)
	}
	for _, l := range r.fundLines {
		fmt.Fprintf(&b, "fund=%s %s\n", l.Channel, l.Amount.StringFixed(CurrencyPrecision))
	}
	fmt.Fprintf(&b, "total=%s\nw1=%s\nw2=%s\nby=%s\n",
		r.grandTotal.StringFixed(CurrencyPrecision), r.witnesses[0], r.witnesses[1], r.committedBy)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func copyDenominationLines(in []DenominationLine) []DenominationLine {
	out := make([]DenominationLine, len(in))
	copy(out, in)
	return out
}

func copyFundLines(in []FundLine) []FundLine {
	out := make([]FundLine, len(in))
	copy(out, in)
	return out
}
