package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReportParams selects the company and period of a report
type ReportParams struct {
	Company  string
	FromDate string
	ToDate   string
	Detailed bool
}

// ReportService builds financial reports from submitted ERP documents
type ReportService interface {
	IncomeStatement(ctx context.Context, params ReportParams) (*entity.IncomeStatement, error)
	CashFlow(ctx context.Context, params ReportParams) (*entity.CashFlowStatement, error)
	BalanceSheet(ctx context.Context, params ReportParams) (*entity.BalanceSheet, error)
}

// reportServiceImpl implements ReportService
type reportServiceImpl struct {
	client  port.ERPClient
	fetcher *Fetcher
	logger  Logger
	now     func() time.Time
}

var (
	salesInvoiceReportFields    = []string{"name", "customer", "posting_date", "grand_total", "total_taxes_and_charges"}
	purchaseInvoiceReportFields = []string{"name", "supplier", "posting_date", "grand_total"}
	expenseClaimReportFields    = []string{"name", "employee", "posting_date", "total_sanctioned_amount"}
	paymentEntryReportFields    = []string{"name", "payment_type", "party", "posting_date", "paid_amount", "received_amount"}
	glEntryReportFields         = []string{"account", "debit", "credit"}
	accountReportFields         = []string{"name", "account_name", "root_type"}
)

// NewReportService creates a new ReportService
func NewReportService(client port.ERPClient, fetcher *Fetcher, logger Logger) ReportService {
	return &reportServiceImpl{
		client:  client,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// IncomeStatement sums submitted sales, purchases and expense claims in the period
func (s *reportServiceImpl) IncomeStatement(ctx context.Context, params ReportParams) (*entity.IncomeStatement, error) {
	if err := validatePeriod(params); err != nil {
		return nil, err
	}

	report := &entity.IncomeStatement{
		Company:  params.Company,
		FromDate: params.FromDate,
		ToDate:   params.ToDate,
	}

	sales, err := loadSubmitted[entity.SalesInvoice](ctx, s, entity.DocTypeSalesInvoice, salesInvoiceReportFields, params)
	if err != nil {
		return nil, err
	}
	for _, inv := range sales {
		report.Revenue = report.Revenue.Add(inv.GrandTotal)
		report.Tax = report.Tax.Add(inv.TotalTaxesAndCharges)
	}

	purchases, err := loadSubmitted[entity.PurchaseInvoice](ctx, s, entity.DocTypePurchaseInvoice, purchaseInvoiceReportFields, params)
	if err != nil {
		return nil, err
	}
	for _, inv := range purchases {
		report.CostOfGoodsSold = report.CostOfGoodsSold.Add(inv.GrandTotal)
	}

	claims, err := loadSubmitted[entity.ExpenseClaim](ctx, s, entity.DocTypeExpenseClaim, expenseClaimReportFields, params)
	if err != nil {
		return nil, err
	}
	for _, claim := range claims {
		report.OperatingExpenses = report.OperatingExpenses.Add(claim.TotalAmount)
	}

	report.Compute()
	if params.Detailed {
		report.Details = &entity.IncomeStatementDetails{
			SalesInvoices:    sales,
			PurchaseInvoices: purchases,
			ExpenseClaims:    claims,
		}
	}

	s.logger.Info("Income statement generated",
		"company", params.Company,
		"from_date", params.FromDate,
		"to_date", params.ToDate,
		"net_income", report.NetIncome.String())
	return report, nil
}

// CashFlow books each submitted payment entry as an inflow or an outflow
func (s *reportServiceImpl) CashFlow(ctx context.Context, params ReportParams) (*entity.CashFlowStatement, error) {
	if err := validatePeriod(params); err != nil {
		return nil, err
	}

	entries, err := loadSubmitted[entity.PaymentEntry](ctx, s, entity.DocTypePaymentEntry, paymentEntryReportFields, params)
	if err != nil {
		return nil, err
	}

	report := &entity.CashFlowStatement{
		Company:  params.Company,
		FromDate: params.FromDate,
		ToDate:   params.ToDate,
	}
	for _, entry := range entries {
		report.Add(entry, params.Detailed)
	}

	s.logger.Info("Cash flow statement generated",
		"company", params.Company,
		"entries", len(entries),
		"net_cash_flow", report.NetCashFlow.String())
	return report, nil
}

// BalanceSheet accumulates GL balances up to the cutoff and buckets them by
// account root type
func (s *reportServiceImpl) BalanceSheet(ctx context.Context, params ReportParams) (*entity.BalanceSheet, error) {
	if err := requireCompany(params.Company); err != nil {
		return nil, err
	}
	cutoff := params.ToDate
	if cutoff == "" {
		cutoff = s.now().Format(entity.DateLayout)
	}
	if err := validateDate("to_date", cutoff); err != nil {
		return nil, err
	}

	glRows, err := s.client.GetList(ctx, entity.DocTypeGLEntry, port.ListQuery{
		Fields: glEntryReportFields,
		Filters: []port.Filter{
			port.Eq("company", params.Company),
			port.Eq("is_cancelled", 0),
			{Field: "posting_date", Operator: "<=", Value: cutoff},
		},
	})
	if err != nil {
		s.logger.Error("Failed to load GL entries", "company", params.Company, "error", err)
		return nil, fmt.Errorf("load gl entries: %w", err)
	}
	entries, err := decodeDocuments[entity.GLEntry](glRows)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]decimal.Decimal)
	for _, entry := range entries {
		balances[entry.Account] = balances[entry.Account].Add(entry.Debit.Sub(entry.Credit))
	}

	accountRows, err := s.client.GetList(ctx, entity.DocTypeAccount, port.ListQuery{
		Fields:  accountReportFields,
		Filters: []port.Filter{port.Eq("company", params.Company)},
	})
	if err != nil {
		s.logger.Error("Failed to load accounts", "company", params.Company, "error", err)
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	accounts, err := decodeDocuments[entity.Account](accountRows)
	if err != nil {
		return nil, err
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })

	report := &entity.BalanceSheet{
		Company: params.Company,
		ToDate:  cutoff,
	}
	excluded := 0
	for _, account := range accounts {
		row := entity.AccountBalance{
			Account:  account.Name,
			RootType: account.RootType,
			Balance:  balances[account.Name],
		}
		if !report.Add(row, params.Detailed) {
			excluded++
		}
	}

	s.logger.Info("Balance sheet generated",
		"company", params.Company,
		"to_date", cutoff,
		"accounts", len(accounts),
		"excluded", excluded)
	return report, nil
}

// loadSubmitted loads the submitted documents of a doctype in the period.
// Summaries come from one get_list call with explicit fields; detailed
// reports expand every document so line items are included.
func loadSubmitted[T any](ctx context.Context, s *reportServiceImpl, doctype string, fields []string, params ReportParams) ([]T, error) {
	query := port.ListQuery{
		Filters: []port.Filter{
			port.Eq("docstatus", entity.DocStatusSubmitted),
			port.Eq("company", params.Company),
			port.Between("posting_date", params.FromDate, params.ToDate),
		},
		OrderBy: "posting_date asc",
	}

	if params.Detailed {
		names, err := s.fetcher.ListNames(ctx, doctype, query)
		if err != nil {
			s.logger.Error("Failed to list report documents", "doctype", doctype, "error", err)
			return nil, fmt.Errorf("list %s: %w", doctype, err)
		}
		docs, err := ExpandDocuments[T](ctx, s.fetcher, doctype, names, ExpandStrict)
		if err != nil {
			s.logger.Error("Failed to load report documents", "doctype", doctype, "error", err)
			return nil, fmt.Errorf("load %s: %w", doctype, err)
		}
		return docs, nil
	}

	query.Fields = fields
	rows, err := s.client.GetList(ctx, doctype, query)
	if err != nil {
		s.logger.Error("Failed to list report documents", "doctype", doctype, "error", err)
		return nil, fmt.Errorf("list %s: %w", doctype, err)
	}
	return decodeDocuments[T](rows)
}

func validatePeriod(params ReportParams) error {
	if err := requireCompany(params.Company); err != nil {
		return err
	}
	if params.FromDate == "" {
		return entity.NewValidationError("from_date", "is required")
	}
	if params.ToDate == "" {
		return entity.NewValidationError("to_date", "is required")
	}
	_, err := dateFilter("posting_date", params.FromDate, params.ToDate)
	return err
}

func requireCompany(company string) error {
	if company == "" {
		return entity.NewValidationError("company", "is required")
	}
	return nil
}
