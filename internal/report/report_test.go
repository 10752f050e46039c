package report_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	"github.com/SscSPs/offering_reconciliation/internal/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var (
	committedAt = time.Date(2026, 10, 11, 13, 5, 0, 0, time.UTC)
	generatedAt = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
)

func committedRecord(t *testing.T) *domain.CommittedRecord {
	t.Helper()
	sc, err := domain.ParseServiceContext("2026-10-11", "SUNDAY_SERVICE")
	require.NoError(t, err)
	rec, err := domain.NewCommittedRecord(domain.CommitRequest{
		RecordID:       "5f0c1f57-2a5e-4b8e-9c11-2f3a4b5c6d7e",
		ServiceContext: sc,
		DenominationLines: []domain.DenominationLine{
			{UnitValue: decimal.NewFromInt(50), Count: 1},
			{UnitValue: decimal.NewFromInt(20), Count: 1},
			{UnitValue: decimal.NewFromInt(10), Count: 0},
			{UnitValue: decimal.NewFromInt(5), Count: 0},
		},
		FundLines: []domain.FundLine{
			{Channel: domain.Coins, Amount: decimal.RequireFromString("3.50")},
			{Channel: domain.Cheques, Amount: decimal.Zero},
			{Channel: domain.Card, Amount: decimal.Zero},
		},
		Witnesses:  [2]string{"A. Smith", "B. Jones"},
		OperatorID: "operator-1",
	})
	require.NoError(t, err)
	return rec.Stamped(committedAt)
}

func TestTextRenderer_Content(t *testing.T) {
	r := report.NewTextRenderer(report.Options{Organization: "Grace Chapel", CurrencySymbol: "£"})

	doc, err := r.Render(committedRecord(t), generatedAt)

	require.NoError(t, err)
	body := string(doc.Body)
	assert.Equal(t, "text/plain; charset=utf-8", doc.ContentType)
	assert.Equal(t, "offering-2026-10-11-sunday_service-5f0c1f57.txt", doc.Filename)

	var grandTotal string
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "GRAND TOTAL") {
			grandTotal = strings.TrimSpace(strings.TrimPrefix(line, "GRAND TOTAL"))
		}
	}
	assert.Equal(t, "£73.50", grandTotal)
	assert.Contains(t, body, "Notes subtotal")
	assert.Contains(t, body, "£70.00")
	assert.Contains(t, body, "Witness 1    : A. Smith")
	assert.Contains(t, body, "Witness 2    : B. Jones")
	assert.Contains(t, body, "Committed at : 2026-10-11T13:05:00Z")
	assert.Contains(t, body, "Generated at : 2026-10-14T09:00:00Z")
	assert.Contains(t, body, "Reference    : 5f0c1f57-2a5e-4b8e-9c11-2f3a4b5c6d7e")
}

func TestTextRenderer_FixedOrder(t *testing.T) {
	doc, err := report.NewTextRenderer(report.Options{Organization: "Grace Chapel"}).Render(committedRecord(t), generatedAt)
	require.NoError(t, err)
	body := string(doc.Body)

	order := []string{
		"GRACE CHAPEL",
		"Service date : 2026-10-11",
		"Service type : Sunday Service",
		"Breakdown",
		"£50.00",
		"£20.00",
		"£10.00",
		"£5.00",
		"Coins",
		"Cheques",
		"Card terminal",
		"Notes subtotal",
		"GRAND TOTAL",
		"Witness 1",
		"Witness 2",
		"Generated at",
		"Reference",
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(body, marker)
		require.GreaterOrEqual(t, idx, 0, "missing %q", marker)
		assert.Greater(t, idx, last, "%q out of order", marker)
		last = idx
	}
}

func TestTextRenderer_Idempotent(t *testing.T) {
	r := report.NewTextRenderer(report.Options{Organization: "Grace Chapel"})
	rec := committedRecord(t)

	first, err := r.Render(rec, generatedAt)
	require.NoError(t, err)
	second, err := r.Render(rec, generatedAt)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first.Body, second.Body))
}

func TestTextRenderer_GenerationTimeDoesNotChangeNumbers(t *testing.T) {
	r := report.NewTextRenderer(report.Options{})
	rec := committedRecord(t)

	first, err := r.Render(rec, generatedAt)
	require.NoError(t, err)
	later, err := r.Render(rec, generatedAt.Add(72*time.Hour))
	require.NoError(t, err)

	strip := func(b []byte) string {
		var keep []string
		for _, l := range strings.Split(string(b), "\n") {
			if !strings.HasPrefix(l, "Generated at") {
				keep = append(keep, l)
			}
		}
		return strings.Join(keep, "\n")
	}
	assert.Equal(t, strip(first.Body), strip(later.Body))
	assert.NotEqual(t, string(first.Body), string(later.Body))
}

func TestXLSXRenderer_Content(t *testing.T) {
	r := report.NewXLSXRenderer(report.Options{Organization: "Grace Chapel"})
	rec := committedRecord(t)

	doc, err := r.Render(rec, generatedAt)
	require.NoError(t, err)
	assert.Equal(t, "offering-2026-10-11-sunday_service-5f0c1f57.xlsx", doc.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(doc.Body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reconciliation")
	require.NoError(t, err)

	found := map[string][]string{}
	for _, rw := range rows {
		if len(rw) > 0 {
			found[rw[0]] = rw
		}
	}
	require.Contains(t, found, "GRAND TOTAL")
	assert.Equal(t, "£73.50", found["GRAND TOTAL"][len(found["GRAND TOTAL"])-1])
	assert.Equal(t, "£70.00", found["Notes subtotal"][len(found["Notes subtotal"])-1])
	assert.Equal(t, "A. Smith", found["Witness 1"][1])
	assert.Equal(t, "5f0c1f57-2a5e-4b8e-9c11-2f3a4b5c6d7e", found["Reference"][1])

	again, err := r.Render(rec, generatedAt)
	require.NoError(t, err)
	f2, err := excelize.OpenReader(bytes.NewReader(again.Body))
	require.NoError(t, err)
	defer f2.Close()
	rows2, err := f2.GetRows("Reconciliation")
	require.NoError(t, err)
	assert.Equal(t, rows, rows2)
}

func TestParseFormat(t *testing.T) {
	f, err := report.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, report.FormatText, f)

	f, err = report.ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, report.FormatXLSX, f)

	_, err = report.ParseFormat("pdf")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
