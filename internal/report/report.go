package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
)

// Format selects the document layout a record is rendered into.
type Format string

const (
	FormatText Format = "text"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "text", "txt" or "xlsx". Empty input means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: unsupported report format %q", apperrors.ErrValidation, s)
	}
}

// Document is a rendered, printable report.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Options carries the presentation settings shared by every renderer.
type Options struct {
	Organization   string
	Title          string
	CurrencySymbol string
}

func (o Options) withDefaults() Options {
	if o.Organization == "" {
		o.Organization = "Congregation"
	}
	if o.Title == "" {
		o.Title = "Service Offering Reconciliation"
	}
	if o.CurrencySymbol == "" {
		o.CurrencySymbol = "£"
	}
	return o
}

// Renderer turns a committed record into a document. Output depends only on the
// record, generatedAt and the renderer's options.
type Renderer interface {
	Render(record *domain.CommittedRecord, generatedAt time.Time) (*Document, error)
}

// New returns the renderer for format.
func New(format Format, opts Options) (Renderer, error) {
	switch format {
	case FormatText:
		return NewTextRenderer(opts), nil
	case FormatXLSX:
		return NewXLSXRenderer(opts), nil
	default:
		return nil, fmt.Errorf("%w: unsupported report format %q", apperrors.ErrValidation, format)
	}
}

// row is one line of the breakdown table, shared by all layouts.
type row struct {
	Label    string
	Unit     string
	Count    string
	Subtotal string
	Emphasis bool
}

// breakdownRows builds the table in its fixed order: one row per denomination, one row
// per fund channel, the notes subtotal, then the grand total.
func breakdownRows(rec *domain.CommittedRecord, symbol string) ([]row, error) {
	lines := rec.DenominationLines()
	funds := rec.FundLines()
	rows := make([]row, 0, len(lines)+len(funds)+2)
	for _, l := range lines {
		sub, err := l.Subtotal()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row{
			Label:    "Notes",
			Unit:     domain.FormatCurrency(symbol, l.UnitValue),
			Count:    fmt.Sprintf("%d", l.Count),
			Subtotal: domain.FormatCurrency(symbol, sub),
		})
	}
	for _, f := range funds {
		rows = append(rows, row{
			Label:    f.Label(),
			Subtotal: domain.FormatCurrency(symbol, f.Amount),
		})
	}
	rows = append(rows,
		row{Label: "Notes subtotal", Subtotal: domain.FormatCurrency(symbol, rec.NotesSubtotal())},
		row{Label: "GRAND TOTAL", Subtotal: domain.FormatCurrency(symbol, rec.GrandTotal()), Emphasis: true},
	)
	return rows, nil
}

func filename(rec *domain.CommittedRecord, ext string) string {
	sc := rec.ServiceContext()
	return fmt.Sprintf("offering-%s-%s-%s.%s", sc.DateString(), strings.ToLower(string(sc.Type)), shortID(rec.ID()), ext)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
