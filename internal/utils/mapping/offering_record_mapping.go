package mapping

import (
	"fmt"
	"sort"

	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	"github.com/SscSPs/offering_reconciliation/internal/models"
)

// ToModelOfferingRecord converts a domain CommittedRecord to a model OfferingRecord,
// flattening both line kinds into Lines.
func ToModelOfferingRecord(d *domain.CommittedRecord) (models.OfferingRecord, error) {
	sc := d.ServiceContext()
	w := d.Witnesses()
	m := models.OfferingRecord{
		RecordID:      d.ID(),
		ServiceDate:   sc.Date,
		ServiceType:   string(sc.Type),
		NotesSubtotal: d.NotesSubtotal(),
		FundsTotal:    d.FundsTotal(),
		GrandTotal:    d.GrandTotal(),
		Witness1:      w[0],
		Witness2:      w[1],
		Fingerprint:   d.Fingerprint(),
		CommittedAt:   d.CommittedAt(),
		CommittedBy:   d.CommittedBy(),
	}
	for i, l := range d.DenominationLines() {
		sub, err := l.Subtotal()
		if err != nil {
			return models.OfferingRecord{}, err
		}
		unit, count := l.UnitValue, l.Count
		m.Lines = append(m.Lines, models.OfferingRecordLine{
			RecordID:  d.ID(),
			Position:  i,
			Kind:      models.DenominationLineKind,
			UnitValue: &unit,
			Count:     &count,
			Amount:    sub,
		})
	}
	for i, l := range d.FundLines() {
		channel := string(l.Channel)
		m.Lines = append(m.Lines, models.OfferingRecordLine{
			RecordID: d.ID(),
			Position: i,
			Kind:     models.FundLineKind,
			Channel:  &channel,
			Amount:   l.Amount,
		})
	}
	return m, nil
}

// ToDomainCommittedRecord rebuilds a domain CommittedRecord from its stored rows and
// verifies the stored grand total against the lines.
func ToDomainCommittedRecord(m models.OfferingRecord) (*domain.CommittedRecord, error) {
	serviceType, err := domain.ParseServiceType(m.ServiceType)
	if err != nil {
		return nil, err
	}
	sc, err := domain.NewServiceContext(m.ServiceDate, serviceType)
	if err != nil {
		return nil, err
	}

	lines := make([]models.OfferingRecordLine, len(m.Lines))
	copy(lines, m.Lines)
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Kind != lines[j].Kind {
			return lines[i].Kind == models.DenominationLineKind
		}
		return lines[i].Position < lines[j].Position
	})

	req := domain.CommitRequest{
		RecordID:       m.RecordID,
		ServiceContext: sc,
		Witnesses:      [domain.WitnessSlots]string{m.Witness1, m.Witness2},
		OperatorID:     m.CommittedBy,
	}
	for _, l := range lines {
		switch l.Kind {
		case models.DenominationLineKind:
			if l.UnitValue == nil || l.Count == nil {
				return nil, fmt.Errorf("record %s: denomination line %d is incomplete", m.RecordID, l.Position)
			}
			req.DenominationLines = append(req.DenominationLines, domain.DenominationLine{UnitValue: *l.UnitValue, Count: *l.Count})
		case models.FundLineKind:
			if l.Channel == nil {
				return nil, fmt.Errorf("record %s: fund line %d has no channel", m.RecordID, l.Position)
			}
			channel, err := domain.ParseFundChannel(*l.Channel)
			if err != nil {
				return nil, err
			}
			req.FundLines = append(req.FundLines, domain.FundLine{Channel: channel, Amount: l.Amount})
		default:
			return nil, fmt.Errorf("record %s: unknown line kind %q", m.RecordID, l.Kind)
		}
	}

	return domain.RestoreCommittedRecord(req, m.GrandTotal, m.CommittedAt)
}
