package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/garyjia/erp-gateway/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExportService_IncomeStatementWorkbook(t *testing.T) {
	report := &entity.IncomeStatement{
		Company:           "Acme",
		FromDate:          "2024-01-01",
		ToDate:            "2024-01-31",
		Revenue:           decimal.NewFromInt(1500),
		CostOfGoodsSold:   decimal.NewFromInt(300),
		OperatingExpenses: decimal.NewFromInt(200),
		Tax:               decimal.NewFromInt(150),
		Details: &entity.IncomeStatementDetails{
			SalesInvoices: []entity.SalesInvoice{
				{Name: "SINV-1", Customer: "Globex", GrandTotal: decimal.NewFromInt(1500)},
			},
		},
	}
	report.Compute()
	svc := NewExportService(&mockExportStorage{}, &mockLogger{})

	data, err := svc.IncomeStatementWorkbook(report)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"Summary", "Sales Invoices", "Purchase Invoices", "Expense Claims"}, f.GetSheetList())

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Income Statement"}, rows[0])
	assert.Equal(t, []string{"Company", "Acme"}, rows[1])
	assert.Equal(t, []string{"Net Income", "850"}, rows[len(rows)-1])

	details, err := f.GetRows("Sales Invoices")
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "SINV-1", details[1][0])
	assert.Equal(t, "1500", details[1][3])
}

func TestExportService_CashFlowWorkbookWithoutDetails(t *testing.T) {
	report := &entity.CashFlowStatement{Company: "Acme", FromDate: "2024-01-01", ToDate: "2024-01-31"}
	report.Add(entity.PaymentEntry{PaymentType: entity.PaymentTypeReceive, ReceivedAmount: decimal.NewFromInt(40)}, false)
	svc := NewExportService(&mockExportStorage{}, &mockLogger{})

	data, err := svc.CashFlowWorkbook(report)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Net Cash Flow", "40"}, rows[len(rows)-1])
}

func TestExportService_BalanceSheetWorkbook(t *testing.T) {
	report := &entity.BalanceSheet{Company: "Acme", ToDate: "2024-06-30"}
	report.Add(entity.AccountBalance{Account: "Cash - A", RootType: entity.RootTypeAsset, Balance: decimal.NewFromInt(800)}, true)
	report.Add(entity.AccountBalance{Account: "Loans - A", RootType: entity.RootTypeLiability, Balance: decimal.NewFromInt(-500)}, true)
	svc := NewExportService(&mockExportStorage{}, &mockLogger{})

	data, err := svc.BalanceSheetWorkbook(report)
	require.NoError(t, err)

	f := openWorkbook(t, data)
	rows, err := f.GetRows("Accounts")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Loans - A", "Liability", "-500"}, rows[2])
}

func TestExportService_Save(t *testing.T) {
	storage := &mockExportStorage{}
	svc := NewExportService(storage, &mockLogger{})

	path, err := svc.Save(context.Background(), "balance-sheet.xlsx", []byte("xlsx"))

	require.NoError(t, err)
	assert.Equal(t, "/exports/balance-sheet.xlsx", path)
	assert.Equal(t, []byte("xlsx"), storage.saved["balance-sheet.xlsx"])
}

func TestReportFileName(t *testing.T) {
	assert.Equal(t, "income-statement_Acme_Ltd_2024-01-01_2024-01-31.xlsx",
		ReportFileName(ReportIncomeStatement, ReportParams{Company: "Acme Ltd", FromDate: "2024-01-01", ToDate: "2024-01-31"}))
	assert.Equal(t, "balance-sheet_A_B_2024-06-30.xlsx",
		ReportFileName(ReportBalanceSheet, ReportParams{Company: "A/B", ToDate: "2024-06-30"}))
}

func TestExportService_ListAndOpen(t *testing.T) {
	storage := &mockExportStorage{}
	svc := NewExportService(storage, &mockLogger{})
	ctx := context.Background()

	_, err := svc.Save(ctx, "cash-flow_Acme.xlsx", []byte("xlsx"))
	require.NoError(t, err)

	files, err := svc.ListExports(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "cash-flow_Acme.xlsx", files[0].Name)

	content, err := svc.Open(ctx, "cash-flow_Acme.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), content)

	_, err = svc.Open(ctx, " ")
	var validationErr *entity.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}
