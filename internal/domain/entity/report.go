package entity

import "github.com/shopspring/decimal"

// ReportLine is one labelled amount of a report summary
type ReportLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// IncomeStatementDetails holds the documents an income statement was built from
type IncomeStatementDetails struct {
	SalesInvoices    []SalesInvoice    `json:"sales_invoices"`
	PurchaseInvoices []PurchaseInvoice `json:"purchase_invoices"`
	ExpenseClaims    []ExpenseClaim    `json:"expense_claims"`
}

// IncomeStatement summarises revenue and expenses over a period
type IncomeStatement struct {
	Company           string                  `json:"company"`
	FromDate          string                  `json:"from_date"`
	ToDate            string                  `json:"to_date"`
	Revenue           decimal.Decimal         `json:"revenue"`
	CostOfGoodsSold   decimal.Decimal         `json:"cost_of_goods_sold"`
	GrossProfit       decimal.Decimal         `json:"gross_profit"`
	OperatingExpenses decimal.Decimal         `json:"operating_expenses"`
	OperatingIncome   decimal.Decimal         `json:"operating_income"`
	Tax               decimal.Decimal         `json:"tax"`
	NetIncome         decimal.Decimal         `json:"net_income"`
	Details           *IncomeStatementDetails `json:"details,omitempty"`
}

// Compute fills the derived figures from the accumulated totals
func (s *IncomeStatement) Compute() {
	s.GrossProfit = s.Revenue.Sub(s.CostOfGoodsSold)
	s.OperatingIncome = s.GrossProfit.Sub(s.OperatingExpenses)
	s.NetIncome = s.OperatingIncome.Sub(s.Tax)
}

// Lines returns the summary keyed by category label
func (s *IncomeStatement) Lines() []ReportLine {
	return []ReportLine{
		{Label: "Revenue", Amount: s.Revenue},
		{Label: "Cost of Goods Sold", Amount: s.CostOfGoodsSold},
		{Label: "Gross Profit", Amount: s.GrossProfit},
		{Label: "Operating Expenses", Amount: s.OperatingExpenses},
		{Label: "Operating Income", Amount: s.OperatingIncome},
		{Label: "Tax", Amount: s.Tax},
		{Label: "Net Income", Amount: s.NetIncome},
	}
}

// CashFlowStatement summarises payment entries over a period
type CashFlowStatement struct {
	Company      string          `json:"company"`
	FromDate     string          `json:"from_date"`
	ToDate       string          `json:"to_date"`
	CashInflows  decimal.Decimal `json:"cash_inflows"`
	CashOutflows decimal.Decimal `json:"cash_outflows"`
	NetCashFlow  decimal.Decimal `json:"net_cash_flow"`
	Inflows      []PaymentEntry  `json:"inflows,omitempty"`
	Outflows     []PaymentEntry  `json:"outflows,omitempty"`
}

// Add books a payment entry on exactly one side
func (s *CashFlowStatement) Add(entry PaymentEntry, keepDetails bool) {
	amount := entry.CashAmount()
	if entry.IsInflow() {
		s.CashInflows = s.CashInflows.Add(amount)
		if keepDetails {
			s.Inflows = append(s.Inflows, entry)
		}
	} else {
		s.CashOutflows = s.CashOutflows.Add(amount)
		if keepDetails {
			s.Outflows = append(s.Outflows, entry)
		}
	}
	s.NetCashFlow = s.CashInflows.Sub(s.CashOutflows)
}

// Lines returns the summary keyed by category label
func (s *CashFlowStatement) Lines() []ReportLine {
	return []ReportLine{
		{Label: "Cash Inflows", Amount: s.CashInflows},
		{Label: "Cash Outflows", Amount: s.CashOutflows},
		{Label: "Net Cash Flow", Amount: s.NetCashFlow},
	}
}

// AccountBalance is the debit-minus-credit balance of one account
type AccountBalance struct {
	Account  string          `json:"account"`
	RootType string          `json:"root_type"`
	Balance  decimal.Decimal `json:"balance"`
}

// BalanceSheet buckets account balances into assets, liabilities and equity.
// Balances are debit minus credit, so credit-side categories are negative.
type BalanceSheet struct {
	Company          string           `json:"company"`
	ToDate           string           `json:"to_date"`
	TotalAssets      decimal.Decimal  `json:"total_assets"`
	TotalLiabilities decimal.Decimal  `json:"total_liabilities"`
	TotalEquity      decimal.Decimal  `json:"total_equity"`
	Assets           []AccountBalance `json:"assets,omitempty"`
	Liabilities      []AccountBalance `json:"liabilities,omitempty"`
	Equity           []AccountBalance `json:"equity,omitempty"`
}

// Add buckets a balance by root type. Unknown root types are ignored and
// false is returned.
func (s *BalanceSheet) Add(row AccountBalance, keepDetails bool) bool {
	switch row.RootType {
	case RootTypeAsset:
		s.TotalAssets = s.TotalAssets.Add(row.Balance)
		if keepDetails {
			s.Assets = append(s.Assets, row)
		}
	case RootTypeLiability:
		s.TotalLiabilities = s.TotalLiabilities.Add(row.Balance)
		if keepDetails {
			s.Liabilities = append(s.Liabilities, row)
		}
	case RootTypeEquity:
		s.TotalEquity = s.TotalEquity.Add(row.Balance)
		if keepDetails {
			s.Equity = append(s.Equity, row)
		}
	default:
		return false
	}
	return true
}

// Lines returns the summary keyed by category label
func (s *BalanceSheet) Lines() []ReportLine {
	return []ReportLine{
		{Label: "Assets", Amount: s.TotalAssets},
		{Label: "Liabilities", Amount: s.TotalLiabilities},
		{Label: "Equity", Amount: s.TotalEquity},
	}
}
