package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineKind distinguishes counted note lines from fund channel lines.
type LineKind string

const (
	DenominationLineKind LineKind = "DENOMINATION"
	FundLineKind         LineKind = "FUND"
)

// OfferingRecord is one row of offering_records. Totals are stored for reporting and
// re-derived from the lines on load.
type OfferingRecord struct {
	RecordID      string          `json:"recordID"`    // Primary Key (UUID), doubles as the idempotency key
	ServiceDate   time.Time       `json:"serviceDate"` // DATE
	ServiceType   string          `json:"serviceType"`
	NotesSubtotal decimal.Decimal `json:"notesSubtotal"`
	FundsTotal    decimal.Decimal `json:"fundsTotal"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	Witness1      string          `json:"witness1"`
	Witness2      string          `json:"witness2"`
	Fingerprint   string          `json:"fingerprint"`
	CommittedAt   time.Time       `json:"committedAt"` // Assigned by the database
	CommittedBy   string          `json:"committedBy"`
	Lines         []OfferingRecordLine
}

// OfferingRecordLine is one row of offering_record_lines.
type OfferingRecordLine struct {
	RecordID  string           `json:"recordID"` // FK -> offering_records.record_id
	Position  int              `json:"position"` // Order within its kind
	Kind      LineKind         `json:"kind"`
	UnitValue *decimal.Decimal `json:"unitValue"` // Denomination lines only
	Count     *int64           `json:"count"`     // Denomination lines only
	Channel   *string          `json:"channel"`   // Fund lines only
	Amount    decimal.Decimal  `json:"amount"`    // Line subtotal
}
