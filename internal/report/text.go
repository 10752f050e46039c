package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
)

const textWidth = 64

// TextRenderer produces a fixed-width plain-text report suitable for printing.
type TextRenderer struct {
	opts Options
}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer(opts Options) *TextRenderer {
	return &TextRenderer{opts: opts.withDefaults()}
}

var _ Renderer = (*TextRenderer)(nil)

// Render writes the report for rec. Calling it twice with the same arguments yields
// identical bytes.
func (r *TextRenderer) Render(rec *domain.CommittedRecord, generatedAt time.Time) (*Document, error) {
	rows, err := breakdownRows(rec, r.opts.CurrencySymbol)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	heavy := strings.Repeat("=", textWidth)
	light := strings.Repeat("-", textWidth)
	sc := rec.ServiceContext()
	w := rec.Witnesses()

	fmt.Fprintln(&b, heavy)
	fmt.Fprintln(&b, center(strings.ToUpper(r.opts.Organization)))
	fmt.Fprintln(&b, center(r.opts.Title))
	fmt.Fprintln(&b, heavy)
	fmt.Fprintf(&b, "Service date : %s\n", sc.DateString())
	fmt.Fprintf(&b, "Service type : %s\n", sc.Type.Label())
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "%-26s%12s%10s%16s\n", "Breakdown", "Unit", "Count", "Subtotal")
	fmt.Fprintln(&b, light)
	for i, rw := range rows {
		// separator before the summary rows
		if i == len(rows)-2 {
			fmt.Fprintln(&b, light)
		}
		fmt.Fprintf(&b, "%-26s%12s%10s%16s\n", rw.Label, rw.Unit, rw.Count, rw.Subtotal)
	}
	fmt.Fprintln(&b, heavy)
	fmt.Fprintf(&b, "Witness 1    : %s\n", w[0])
	fmt.Fprintf(&b, "Witness 2    : %s\n", w[1])
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Committed at : %s\n", timestamp(rec.CommittedAt()))
	fmt.Fprintf(&b, "Generated at : %s\n", timestamp(generatedAt))
	fmt.Fprintf(&b, "Reference    : %s\n", rec.ID())
	fmt.Fprintln(&b, heavy)

	return &Document{
		Filename:    filename(rec, "txt"),
		ContentType: "text/plain; charset=utf-8",
		Body:        b.Bytes(),
	}, nil
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= textWidth {
		return s
	}
	return strings.Repeat(" ", (textWidth-n)/2) + s
}
