package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// Report kinds, also used in export file names
const (
	ReportIncomeStatement = "income-statement"
	ReportCashFlow        = "cash-flow"
	ReportBalanceSheet    = "balance-sheet"
)

// ExportService renders reports as xlsx workbooks
type ExportService interface {
	IncomeStatementWorkbook(report *entity.IncomeStatement) ([]byte, error)
	CashFlowWorkbook(report *entity.CashFlowStatement) ([]byte, error)
	BalanceSheetWorkbook(report *entity.BalanceSheet) ([]byte, error)
	Save(ctx context.Context, name string, content []byte) (string, error)
	ListExports(ctx context.Context) ([]port.ExportFile, error)
	Open(ctx context.Context, name string) ([]byte, error)
}

// exportServiceImpl implements ExportService
type exportServiceImpl struct {
	storage port.ExportStorage
	logger  Logger
}

// NewExportService creates a new ExportService
func NewExportService(storage port.ExportStorage, logger Logger) ExportService {
	return &exportServiceImpl{
		storage: storage,
		logger:  logger,
	}
}

// IncomeStatementWorkbook renders the summary and any document details
func (s *exportServiceImpl) IncomeStatementWorkbook(report *entity.IncomeStatement) ([]byte, error) {
	w, err := newWorkbook("Income Statement", report.Company, period(report.FromDate, report.ToDate), report.Lines())
	if err != nil {
		return nil, err
	}
	defer w.close()

	if d := report.Details; d != nil {
		rows := make([][]interface{}, 0, len(d.SalesInvoices))
		for _, inv := range d.SalesInvoices {
			rows = append(rows, []interface{}{inv.Name, inv.Customer, inv.PostingDate, amount(inv.GrandTotal), amount(inv.TotalTaxesAndCharges)})
		}
		w.addSheet("Sales Invoices", []interface{}{"Name", "Customer", "Posting Date", "Grand Total", "Tax"}, rows)

		rows = make([][]interface{}, 0, len(d.PurchaseInvoices))
		for _, inv := range d.PurchaseInvoices {
			rows = append(rows, []interface{}{inv.Name, inv.Supplier, inv.PostingDate, amount(inv.GrandTotal)})
		}
		w.addSheet("Purchase Invoices", []interface{}{"Name", "Supplier", "Posting Date", "Grand Total"}, rows)

		rows = make([][]interface{}, 0, len(d.ExpenseClaims))
		for _, claim := range d.ExpenseClaims {
			rows = append(rows, []interface{}{claim.Name, claim.Employee, claim.PostingDate, amount(claim.TotalAmount)})
		}
		w.addSheet("Expense Claims", []interface{}{"Name", "Employee", "Posting Date", "Total Amount"}, rows)
	}
	return w.bytes()
}

// CashFlowWorkbook renders the summary and the booked payment entries
func (s *exportServiceImpl) CashFlowWorkbook(report *entity.CashFlowStatement) ([]byte, error) {
	w, err := newWorkbook("Cash Flow Statement", report.Company, period(report.FromDate, report.ToDate), report.Lines())
	if err != nil {
		return nil, err
	}
	defer w.close()

	if len(report.Inflows) > 0 || len(report.Outflows) > 0 {
		rows := make([][]interface{}, 0, len(report.Inflows)+len(report.Outflows))
		for _, entry := range report.Inflows {
			rows = append(rows, paymentRow("Inflow", entry))
		}
		for _, entry := range report.Outflows {
			rows = append(rows, paymentRow("Outflow", entry))
		}
		w.addSheet("Payments", []interface{}{"Direction", "Name", "Payment Type", "Party", "Posting Date", "Amount"}, rows)
	}
	return w.bytes()
}

// BalanceSheetWorkbook renders the summary and per-account balances
func (s *exportServiceImpl) BalanceSheetWorkbook(report *entity.BalanceSheet) ([]byte, error) {
	w, err := newWorkbook("Balance Sheet", report.Company, "as of "+report.ToDate, report.Lines())
	if err != nil {
		return nil, err
	}
	defer w.close()

	var rows [][]interface{}
	for _, group := range [][]entity.AccountBalance{report.Assets, report.Liabilities, report.Equity} {
		for _, b := range group {
			rows = append(rows, []interface{}{b.Account, b.RootType, amount(b.Balance)})
		}
	}
	if len(rows) > 0 {
		w.addSheet("Accounts", []interface{}{"Account", "Root Type", "Balance"}, rows)
	}
	return w.bytes()
}

// Save stores a rendered workbook and returns its path
func (s *exportServiceImpl) Save(ctx context.Context, name string, content []byte) (string, error) {
	path, err := s.storage.Save(ctx, name, content)
	if err != nil {
		s.logger.Error("Failed to store export", "name", name, "error", err)
		return "", err
	}
	s.logger.Info("Report exported", "path", path, "size", len(content))
	return path, nil
}

// ListExports returns the stored workbooks, newest first
func (s *exportServiceImpl) ListExports(ctx context.Context) ([]port.ExportFile, error) {
	files, err := s.storage.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list exports", "error", err)
		return nil, err
	}
	return files, nil
}

// Open returns the content of a stored workbook
func (s *exportServiceImpl) Open(ctx context.Context, name string) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		return nil, entity.NewValidationError("name", "is required")
	}
	return s.storage.Read(ctx, name)
}

// workbook wraps an excelize file and keeps the first write error
type workbook struct {
	file        *excelize.File
	headerStyle int
	err         error
}

func newWorkbook(title, company, periodLabel string, lines []entity.ReportLine) (*workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create workbook: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	w := &workbook{file: f, headerStyle: style}
	w.setRow(summarySheet, 1, []interface{}{title})
	w.setRow(summarySheet, 2, []interface{}{"Company", company})
	w.setRow(summarySheet, 3, []interface{}{"Period", periodLabel})
	w.setRow(summarySheet, 5, []interface{}{"Category", "Amount"})
	w.bold(summarySheet, 5, 2)
	for i, line := range lines {
		w.setRow(summarySheet, 6+i, []interface{}{line.Label, amount(line.Amount)})
	}
	if w.err == nil {
		w.err = f.SetColWidth(summarySheet, "A", "A", 28)
	}
	return w, nil
}

// addSheet writes a header row followed by data rows on a new sheet
func (w *workbook) addSheet(name string, header []interface{}, rows [][]interface{}) {
	if w.err != nil {
		return
	}
	if _, err := w.file.NewSheet(name); err != nil {
		w.err = fmt.Errorf("failed to add sheet %s: %w", name, err)
		return
	}
	w.setRow(name, 1, header)
	w.bold(name, 1, len(header))
	for i, row := range rows {
		w.setRow(name, i+2, row)
	}
}

func (w *workbook) setRow(sheet string, row int, values []interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.file.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
}

func (w *workbook) bold(sheet string, row, cols int) {
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(cols, row)
	w.err = w.file.SetCellStyle(sheet, first, last, w.headerStyle)
}

func (w *workbook) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *workbook) close() {
	_ = w.file.Close()
}

func paymentRow(direction string, entry entity.PaymentEntry) []interface{} {
	return []interface{}{direction, entry.Name, entry.PaymentType, entry.Party, entry.PostingDate, amount(entry.CashAmount())}
}

func period(from, to string) string {
	return from + " to " + to
}

func amount(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// ReportFileName builds the xlsx file name of a report export
func ReportFileName(kind string, params ReportParams) string {
	parts := []string{kind, params.Company}
	if params.FromDate != "" {
		parts = append(parts, params.FromDate)
	}
	if params.ToDate != "" {
		parts = append(parts, params.ToDate)
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.Join(parts, "_")) + ".xlsx"
}
