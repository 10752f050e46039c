package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/offering_reconciliation/internal/core/ports/services"
	"github.com/SscSPs/offering_reconciliation/internal/dto"
	"github.com/SscSPs/offering_reconciliation/internal/middleware"
	"github.com/SscSPs/offering_reconciliation/internal/report"
	"github.com/gin-gonic/gin"
)

// recordsHandler serves the committed-record ledger and its printable reports.
type recordsHandler struct {
	ledgerService portssvc.LedgerReaderSvc
	reportService portssvc.ReportSvc
}

func newRecordsHandler(ls portssvc.LedgerReaderSvc, rs portssvc.ReportSvc) *recordsHandler {
	return &recordsHandler{
		ledgerService: ls,
		reportService: rs,
	}
}

// RegisterRecordRoutes registers the read-only ledger routes on group.
func RegisterRecordRoutes(group *gin.RouterGroup, ls portssvc.LedgerReaderSvc, rs portssvc.ReportSvc) {
	h := newRecordsHandler(ls, rs)

	records := group.Group("/records")
	{
		records.GET("", h.listRecords)
		records.GET("/:recordID", h.getRecord)
		records.GET("/:recordID/report", h.getReport)
	}
}

// listRecords godoc
// @Summary List committed records
// @Description Lists committed offering records, newest first, with token-based pagination
// @Tags records
// @Produce  json
// @Param   limit query int false "Page size (max 100)" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListRecordsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list records"
// @Security BearerAuth
// @Router /records [get]
func (h *recordsHandler) listRecords(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListRecords", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.ledgerService.ListRecords(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list records")
		return
	}
	logger.Debug("Records listed", slog.Int("count", len(resp.Records)))
	c.JSON(http.StatusOK, resp)
}

// getRecord godoc
// @Summary Get a committed record
// @Tags records
// @Produce  json
// @Param   recordID path string true "Record reference"
// @Success 200 {object} dto.CommittedRecordResponse
// @Failure 404 {object} map[string]string "Record not found"
// @Security BearerAuth
// @Router /records/{recordID} [get]
func (h *recordsHandler) getRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recordID := c.Param("recordID")

	record, err := h.ledgerService.GetRecord(c.Request.Context(), recordID)
	if err != nil {
		respondError(c, logger.With(slog.String("record_id", recordID)), err, "Failed to retrieve record")
		return
	}
	c.JSON(http.StatusOK, dto.ToCommittedRecordResponse(record))
}

// getReport godoc
// @Summary Render a record report
// @Description Renders the printable reconciliation report of a committed record
// @Tags records
// @Produce  plain
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   recordID path string true "Record reference"
// @Param   format query string false "Report format" Enums(text, xlsx) default(text)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Unknown format"
// @Failure 404 {object} map[string]string "Record not found"
// @Security BearerAuth
// @Router /records/{recordID}/report [get]
func (h *recordsHandler) getReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recordID := c.Param("recordID")

	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		respondError(c, logger, err, "Failed to render report")
		return
	}

	doc, err := h.reportService.RenderRecordReport(c.Request.Context(), recordID, format)
	if err != nil {
		respondError(c, logger.With(slog.String("record_id", recordID)), err, "Failed to render report")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}
