package report

import (
	"fmt"
	"time"

	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Reconciliation"

// XLSXRenderer lays the report out on a single printable worksheet.
type XLSXRenderer struct {
	opts Options
}

// NewXLSXRenderer creates an XLSXRenderer.
func NewXLSXRenderer(opts Options) *XLSXRenderer {
	return &XLSXRenderer{opts: opts.withDefaults()}
}

var _ Renderer = (*XLSXRenderer)(nil)

// Render writes the workbook for rec. Amount cells hold the same formatted strings as
// the text report so both documents agree to the penny.
func (r *XLSXRenderer) Render(rec *domain.CommittedRecord, generatedAt time.Time) (*Document, error) {
	rows, err := breakdownRows(rec, r.opts.CurrencySymbol)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("failed to name worksheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	sw := &sheetWriter{f: f}
	sc := rec.ServiceContext()
	w := rec.Witnesses()

	sw.line(title, r.opts.Organization)
	sw.line(bold, r.opts.Title)
	sw.skip()
	sw.line(0, "Service date", sc.DateString())
	sw.line(0, "Service type", sc.Type.Label())
	sw.skip()
	sw.line(bold, "Breakdown", "Unit", "Count", "Subtotal")
	for _, rw := range rows {
		style := 0
		if rw.Emphasis {
			style = bold
		}
		sw.line(style, rw.Label, rw.Unit, rw.Count, rw.Subtotal)
	}
	sw.skip()
	sw.line(0, "Witness 1", w[0])
	sw.line(0, "Witness 2", w[1])
	sw.skip()
	sw.line(0, "Committed at", timestamp(rec.CommittedAt()))
	sw.line(0, "Generated at", timestamp(generatedAt))
	sw.line(0, "Reference", rec.ID())
	if sw.err != nil {
		return nil, fmt.Errorf("failed to write worksheet: %w", sw.err)
	}

	if err := f.SetColWidth(xlsxSheet, "A", "A", 28); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(xlsxSheet, "B", "D", 16); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:    r.opts.Title,
		Creator:  r.opts.Organization,
		Subject:  rec.ID(),
		Created:  timestamp(generatedAt),
		Modified: timestamp(generatedAt),
	}); err != nil {
		return nil, fmt.Errorf("failed to set document properties: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return &Document{
		Filename:    filename(rec, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Body:        buf.Bytes(),
	}, nil
}

// sheetWriter appends rows top to bottom and keeps the first error.
type sheetWriter struct {
	f   *excelize.File
	row int
	err error
}

func (s *sheetWriter) skip() { s.row++ }

func (s *sheetWriter) line(style int, values ...string) {
	s.row++
	if s.err != nil {
		return
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, s.row)
		if err != nil {
			s.err = err
			return
		}
		if err := s.f.SetCellStr(xlsxSheet, cell, v); err != nil {
			s.err = err
			return
		}
		if style != 0 {
			if err := s.f.SetCellStyle(xlsxSheet, cell, cell, style); err != nil {
				s.err = err
				return
			}
		}
	}
}
