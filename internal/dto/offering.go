package dto

import (
	"time"

	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StartCountRequest opens a new count for a service.
type StartCountRequest struct {
	ServiceDate string `json:"serviceDate" binding:"required,datetime=2006-01-02" example:"2026-10-11"`
	ServiceType string `json:"serviceType" binding:"required,servicetype" example:"SUNDAY_SERVICE"`
}

// SetServiceContextRequest re-dates a count before any amounts are entered.
type SetServiceContextRequest struct {
	ServiceDate string `json:"serviceDate" binding:"required,datetime=2006-01-02" example:"2026-10-11"`
	ServiceType string `json:"serviceType" binding:"required,servicetype" example:"SUNDAY_SERVICE"`
}

// SetDenominationCountRequest sets the number of notes counted for one denomination.
type SetDenominationCountRequest struct {
	Count *int64 `json:"count" binding:"required" example:"3"`
}

// SetFundAmountRequest sets the entered total for a fund channel. Amount is a decimal
// string with at most two fraction digits.
type SetFundAmountRequest struct {
	Amount string `json:"amount" binding:"required" example:"12.45"`
}

// SetWitnessRequest stores or clears (empty name) a witness slot.
type SetWitnessRequest struct {
	Name string `json:"name" example:"A. Smith"`
}

// VerifyRequest advances a count to verification.
type VerifyRequest struct {
	ConfirmZeroTotal bool `json:"confirmZeroTotal"`
}

// DenominationLineResponse is one counted denomination.
type DenominationLineResponse struct {
	UnitValue string `json:"unitValue" yaml:"unitValue"`
	Count     int64  `json:"count" yaml:"count"`
	Subtotal  string `json:"subtotal" yaml:"subtotal"`
}

// FundLineResponse is one fund channel total.
type FundLineResponse struct {
	Channel string `json:"channel" yaml:"channel"`
	Label   string `json:"label" yaml:"label"`
	Amount  string `json:"amount" yaml:"amount"`
}

// ServiceContextResponse identifies the service a count belongs to.
type ServiceContextResponse struct {
	ServiceDate string `json:"serviceDate,omitempty" yaml:"serviceDate,omitempty"`
	ServiceType string `json:"serviceType,omitempty" yaml:"serviceType,omitempty"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
}

// CommittedRecordResponse is the wire form of a ledger record.
type CommittedRecordResponse struct {
	RecordID          string                     `json:"recordID" yaml:"recordID"`
	Service           ServiceContextResponse     `json:"service" yaml:"service"`
	DenominationLines []DenominationLineResponse `json:"denominationLines" yaml:"denominationLines"`
	FundLines         []FundLineResponse         `json:"fundLines" yaml:"fundLines"`
	NotesSubtotal     string                     `json:"notesSubtotal" yaml:"notesSubtotal"`
	FundsTotal        string                     `json:"fundsTotal" yaml:"fundsTotal"`
	GrandTotal        string                     `json:"grandTotal" yaml:"grandTotal"`
	Witnesses         []string                   `json:"witnesses" yaml:"witnesses"`
	CommittedAt       time.Time                  `json:"committedAt" yaml:"committedAt"`
	CommittedBy       string                     `json:"committedBy,omitempty" yaml:"committedBy,omitempty"`
}

// SessionResponse is the wire form of an operator's in-progress count.
type SessionResponse struct {
	SessionID         string                     `json:"sessionID" yaml:"sessionID"`
	State             string                     `json:"state" yaml:"state"`
	Committing        bool                       `json:"committing" yaml:"committing"`
	Service           ServiceContextResponse     `json:"service" yaml:"service"`
	DenominationLines []DenominationLineResponse `json:"denominationLines" yaml:"denominationLines"`
	FundLines         []FundLineResponse         `json:"fundLines" yaml:"fundLines"`
	NotesSubtotal     string                     `json:"notesSubtotal" yaml:"notesSubtotal"`
	FundsTotal        string                     `json:"fundsTotal" yaml:"fundsTotal"`
	GrandTotal        string                     `json:"grandTotal" yaml:"grandTotal"`
	Witnesses         []string                   `json:"witnesses" yaml:"witnesses"`
	MissingWitnesses  []int                      `json:"missingWitnesses" yaml:"missingWitnesses"`
	Record            *CommittedRecordResponse   `json:"record,omitempty" yaml:"record,omitempty"`
	StartedAt         time.Time                  `json:"startedAt" yaml:"startedAt"`
	UpdatedAt         time.Time                  `json:"updatedAt" yaml:"updatedAt"`
}

// ListRecordsParams defines the parameters for listing committed records.
type ListRecordsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListRecordsResponse wraps a page of committed records.
type ListRecordsResponse struct {
	Records   []CommittedRecordResponse `json:"records" yaml:"records"`
	NextToken *string                   `json:"nextToken,omitempty" yaml:"nextToken,omitempty"`
}

func amount(d decimal.Decimal) string {
	return domain.RoundCurrency(d).StringFixedBank(domain.CurrencyPrecision)
}

// ToServiceContextResponse converts a domain.ServiceContext.
func ToServiceContextResponse(sc domain.ServiceContext) ServiceContextResponse {
	if sc.IsZero() {
		return ServiceContextResponse{}
	}
	return ServiceContextResponse{
		ServiceDate: sc.DateString(),
		ServiceType: string(sc.Type),
		Label:       sc.Type.Label(),
	}
}

// ToDenominationLineResponses converts denomination lines, including subtotals.
func ToDenominationLineResponses(lines []domain.DenominationLine) []DenominationLineResponse {
	out := make([]DenominationLineResponse, len(lines))
	for i, l := range lines {
		// lines come from a draft or record, which already rejected any line Subtotal would fail on
		sub, _ := l.Subtotal()
		out[i] = DenominationLineResponse{
			UnitValue: amount(l.UnitValue),
			Count:     l.Count,
			Subtotal:  amount(sub),
		}
	}
	return out
}

// ToFundLineResponses converts fund lines.
func ToFundLineResponses(lines []domain.FundLine) []FundLineResponse {
	out := make([]FundLineResponse, len(lines))
	for i, l := range lines {
		out[i] = FundLineResponse{
			Channel: string(l.Channel),
			Label:   l.Label(),
			Amount:  amount(l.Amount),
		}
	}
	return out
}

// ToCommittedRecordResponse converts a domain.CommittedRecord.
func ToCommittedRecordResponse(rec *domain.CommittedRecord) CommittedRecordResponse {
	w := rec.Witnesses()
	return CommittedRecordResponse{
		RecordID:          rec.ID(),
		Service:           ToServiceContextResponse(rec.ServiceContext()),
		DenominationLines: ToDenominationLineResponses(rec.DenominationLines()),
		FundLines:         ToFundLineResponses(rec.FundLines()),
		NotesSubtotal:     amount(rec.NotesSubtotal()),
		FundsTotal:        amount(rec.FundsTotal()),
		GrandTotal:        amount(rec.GrandTotal()),
		Witnesses:         []string{w[0], w[1]},
		CommittedAt:       rec.CommittedAt(),
		CommittedBy:       rec.CommittedBy(),
	}
}

// ToCommittedRecordResponses converts a slice of records.
func ToCommittedRecordResponses(recs []*domain.CommittedRecord) []CommittedRecordResponse {
	out := make([]CommittedRecordResponse, len(recs))
	for i, r := range recs {
		out[i] = ToCommittedRecordResponse(r)
	}
	return out
}

// ToSessionResponse converts a domain.SessionSnapshot.
func ToSessionResponse(s *domain.SessionSnapshot) SessionResponse {
	resp := SessionResponse{
		SessionID:         s.SessionID,
		State:             string(s.State),
		Committing:        s.Committing,
		Service:           ToServiceContextResponse(s.ServiceContext),
		DenominationLines: ToDenominationLineResponses(s.DenominationLines),
		FundLines:         ToFundLineResponses(s.FundLines),
		NotesSubtotal:     amount(s.NotesSubtotal),
		FundsTotal:        amount(s.FundsTotal),
		GrandTotal:        amount(s.GrandTotal),
		Witnesses:         []string{s.Witnesses[0], s.Witnesses[1]},
		MissingWitnesses:  s.MissingWitnesses,
		StartedAt:         s.StartedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if resp.MissingWitnesses == nil {
		resp.MissingWitnesses = []int{}
	}
	if s.Record != nil {
		rec := ToCommittedRecordResponse(s.Record)
		resp.Record = &rec
	}
	return resp
}
