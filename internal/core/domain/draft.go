package domain

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/shopspring/decimal"
)

// WitnessSlots is the number of witnesses that must certify a count.
const WitnessSlots = 2

// ReconciliationDraft is the mutable, in-progress count owned by one operator session.
// Totals are always derived from the lines and never stored.
type ReconciliationDraft struct {
	denominations  DenominationSet
	serviceContext ServiceContext
	counts         []int64
	funds          []decimal.Decimal // indexed like FundChannels
	witnesses      [WitnessSlots]string

	// breakdownTouched locks the service context once any line has been edited.
	breakdownTouched bool
	// pendingRecordID is minted on the first commit attempt and reused by retries.
	// Any mutation clears it.
	pendingRecordID string
}

// NewDraft returns an empty draft with one slot per denomination in set.
func NewDraft(set DenominationSet) *ReconciliationDraft {
	d := &ReconciliationDraft{denominations: set}
	d.clear()
	return d
}

func (d *ReconciliationDraft) clear() {
	d.serviceContext = ServiceContext{}
	d.counts = make([]int64, d.denominations.Len())
	d.funds = make([]decimal.Decimal, len(FundChannels))
	for i := range d.funds {
		d.funds[i] = decimal.Zero
	}
	d.witnesses = [WitnessSlots]string{}
	d.breakdownTouched = false
	d.pendingRecordID = ""
}

// Reset returns the draft to its empty initial state.
func (d *ReconciliationDraft) Reset() {
	d.clear()
}

// SetServiceContext dates the count. It is refused once breakdown lines have been edited.
func (d *ReconciliationDraft) SetServiceContext(ctx ServiceContext) error {
	if d.breakdownTouched {
		return fmt.Errorf("%w: service context cannot change after amounts were entered", apperrors.ErrSequence)
	}
	normalized, err := NewServiceContext(ctx.Date, ctx.Type)
	if err != nil {
		return err
	}
	d.serviceContext = normalized
	d.pendingRecordID = ""
	return nil
}

// SetDenominationCount records how many notes of unitValue were counted.
func (d *ReconciliationDraft) SetDenominationCount(unitValue decimal.Decimal, count int64) error {
	if count < 0 {
		return fmt.Errorf("%w: count must not be negative, got %d", apperrors.ErrInvalidAmount, count)
	}
	idx := d.denominations.IndexOf(unitValue)
	if idx < 0 {
		return fmt.Errorf("%w: %s is not a recognized denomination", apperrors.ErrInvalidAmount, unitValue.String())
	}
	prev := d.counts[idx]
	d.counts[idx] = count
	if err := d.checkTotals(); err != nil {
		d.counts[idx] = prev
		return err
	}
	d.touch()
	return nil
}

// SetFundAmount records the entered total for a fund channel.
func (d *ReconciliationDraft) SetFundAmount(channel FundChannel, amount decimal.Decimal) error {
	line := FundLine{Channel: channel, Amount: amount}
	if err := line.Validate(); err != nil {
		return err
	}
	idx := fundIndex(channel)
	prev := d.funds[idx]
	d.funds[idx] = amount
	if err := d.checkTotals(); err != nil {
		d.funds[idx] = prev
		return err
	}
	d.touch()
	return nil
}

// SetWitness stores a trimmed name in slot 1 or 2. An empty name clears the slot.
func (d *ReconciliationDraft) SetWitness(slot int, name string) error {
	if slot < 1 || slot > WitnessSlots {
		return fmt.Errorf("%w: witness slot must be 1 or 2, got %d", apperrors.ErrValidation, slot)
	}
	normalized, err := NormalizeWitnessName(name)
	if err != nil {
		return err
	}
	d.witnesses[slot-1] = normalized
	d.pendingRecordID = ""
	return nil
}

// checkTotals keeps every total of the draft storable.
func (d *ReconciliationDraft) checkTotals() error {
	notes, err := SumDenominations(d.DenominationLines())
	if err != nil {
		return err
	}
	funds, err := SumFunds(d.FundLines())
	if err != nil {
		return err
	}
	return CheckAmountBound("grand total", notes.Add(funds))
}

// NormalizeWitnessName trims name and rejects control characters such as line breaks,
// which would corrupt the printed report layout.
func NormalizeWitnessName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if strings.IndexFunc(trimmed, unicode.IsControl) >= 0 {
		return "", fmt.Errorf("%w: witness name must not contain control characters", apperrors.ErrValidation)
	}
	return trimmed, nil
}

func (d *ReconciliationDraft) touch() {
	d.breakdownTouched = true
	d.pendingRecordID = ""
}

func fundIndex(channel FundChannel) int {
	for i, c := range FundChannels {
		if c == channel {
			return i
		}
	}
	return -1
}

// ServiceContext returns the context the count is dated with.
func (d *ReconciliationDraft) ServiceContext() ServiceContext {
	return d.serviceContext
}

// Denominations returns the denomination set the draft was created with.
func (d *ReconciliationDraft) Denominations() DenominationSet {
	return d.denominations
}

// DenominationLines returns one line per denomination, largest first.
func (d *ReconciliationDraft) DenominationLines() []DenominationLine {
	values := d.denominations.Values()
	lines := make([]DenominationLine, len(values))
	for i, v := range values {
		lines[i] = DenominationLine{UnitValue: v, Count: d.counts[i]}
	}
	return lines
}

// FundLines returns one line per fund channel in FundChannels order.
func (d *ReconciliationDraft) FundLines() []FundLine {
	lines := make([]FundLine, len(FundChannels))
	for i, c := range FundChannels {
		lines[i] = FundLine{Channel: c, Amount: d.funds[i]}
	}
	return lines
}

// Witnesses returns both witness slots; empty strings mark unset slots.
func (d *ReconciliationDraft) Witnesses() [WitnessSlots]string {
	return d.witnesses
}

// MissingWitnessSlots returns the 1-based slots that hold no name.
func (d *ReconciliationDraft) MissingWitnessSlots() []int {
	var missing []int
	for i, w := range d.witnesses {
		if w == "" {
			missing = append(missing, i+1)
		}
	}
	return missing
}

// HasEntries reports whether any count, amount or witness has been entered.
func (d *ReconciliationDraft) HasEntries() bool {
	for _, c := range d.counts {
		if c != 0 {
			return true
		}
	}
	for _, f := range d.funds {
		if !f.IsZero() {
			return true
		}
	}
	return d.witnesses[0] != "" || d.witnesses[1] != ""
}

// NotesSubtotal is the sum of all denomination subtotals.
func (d *ReconciliationDraft) NotesSubtotal() decimal.Decimal {
	total, err := SumDenominations(d.DenominationLines())
	if err != nil {
		// counts are validated on entry and unit values by the denomination set
		panic(err)
	}
	return total
}

// FundsTotal is the sum of all fund amounts.
func (d *ReconciliationDraft) FundsTotal() decimal.Decimal {
	total, err := SumFunds(d.FundLines())
	if err != nil {
		panic(err)
	}
	return total
}

// GrandTotal is NotesSubtotal + FundsTotal.
func (d *ReconciliationDraft) GrandTotal() decimal.Decimal {
	return d.NotesSubtotal().Add(d.FundsTotal())
}

// PendingRecordID returns the identifier reserved for the next commit attempt, if any.
func (d *ReconciliationDraft) PendingRecordID() string {
	return d.pendingRecordID
}

func (d *ReconciliationDraft) reserveRecordID(newID func() string) string {
	if d.pendingRecordID == "" {
		d.pendingRecordID = newID()
	}
	return d.pendingRecordID
}
