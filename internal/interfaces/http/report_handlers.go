package http

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/erp-gateway/internal/application/service"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportQuery holds the query parameters of a report request
type reportQuery struct {
	Company  string `form:"company"`
	FromDate string `form:"from_date"`
	ToDate   string `form:"to_date"`
	Detailed bool   `form:"detailed"`
	Format   string `form:"format"`
}

// ReportHandlers serves the financial reports
type ReportHandlers struct {
	reports service.ReportService
	exports service.ExportService
}

// NewReportHandlers creates a new ReportHandlers instance
func NewReportHandlers(reports service.ReportService, exports service.ExportService) *ReportHandlers {
	return &ReportHandlers{
		reports: reports,
		exports: exports,
	}
}

// IncomeStatement handles GET /api/accounting/reports/income-statement
func (h *ReportHandlers) IncomeStatement(c *gin.Context) {
	params, format, ok := h.bind(c)
	if !ok {
		return
	}
	report, err := h.reports.IncomeStatement(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, service.ReportIncomeStatement, params, format, report, func() ([]byte, error) {
		return h.exports.IncomeStatementWorkbook(report)
	})
}

// CashFlow handles GET /api/accounting/reports/cash-flow
func (h *ReportHandlers) CashFlow(c *gin.Context) {
	params, format, ok := h.bind(c)
	if !ok {
		return
	}
	report, err := h.reports.CashFlow(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, service.ReportCashFlow, params, format, report, func() ([]byte, error) {
		return h.exports.CashFlowWorkbook(report)
	})
}

// BalanceSheet handles GET /api/accounting/reports/balance-sheet
func (h *ReportHandlers) BalanceSheet(c *gin.Context) {
	params, format, ok := h.bind(c)
	if !ok {
		return
	}
	report, err := h.reports.BalanceSheet(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	params.ToDate = report.ToDate
	h.render(c, service.ReportBalanceSheet, params, format, report, func() ([]byte, error) {
		return h.exports.BalanceSheetWorkbook(report)
	})
}

func (h *ReportHandlers) bind(c *gin.Context) (service.ReportParams, string, bool) {
	var q reportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, entity.NewValidationError("query", "invalid parameters: %v", err))
		return service.ReportParams{}, "", false
	}

	switch q.Format {
	case "":
		q.Format = "json"
	case "json", "xlsx":
	default:
		respondError(c, entity.NewValidationError("format", "must be json or xlsx"))
		return service.ReportParams{}, "", false
	}

	return service.ReportParams{
		Company:  q.Company,
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
		Detailed: q.Detailed,
	}, q.Format, true
}

func (h *ReportHandlers) render(c *gin.Context, kind string, params service.ReportParams, format string, report interface{}, workbook func() ([]byte, error)) {
	if format != "xlsx" {
		respondOK(c, http.StatusOK, report, "")
		return
	}

	data, err := workbook()
	if err != nil {
		respondError(c, fmt.Errorf("render %s workbook: %w", kind, err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.ReportFileName(kind, params)))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ExportHandlers serves report workbooks saved to the export directory
type ExportHandlers struct {
	exports service.ExportService
}

// NewExportHandlers creates a new ExportHandlers instance
func NewExportHandlers(exports service.ExportService) *ExportHandlers {
	return &ExportHandlers{exports: exports}
}

// List handles GET /api/accounting/reports/exports
func (h *ExportHandlers) List(c *gin.Context) {
	files, err := h.exports.ListExports(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, files, "")
}

// Download handles GET /api/accounting/reports/exports/:name
func (h *ExportHandlers) Download(c *gin.Context) {
	name := c.Param("name")
	content, err := h.exports.Open(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}

	contentType := "application/octet-stream"
	if filepath.Ext(name) == ".xlsx" {
		contentType = xlsxContentType
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filepath.Base(name)))
	c.Data(http.StatusOK, contentType, content)
}
