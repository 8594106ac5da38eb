package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// InvoiceItem is a line of a sales or purchase invoice
type InvoiceItem struct {
	ItemCode  string          `json:"item_code"`
	ItemName  string          `json:"item_name,omitempty"`
	Qty       decimal.Decimal `json:"qty"`
	Rate      decimal.Decimal `json:"rate"`
	Amount    decimal.Decimal `json:"amount"`
	Warehouse string          `json:"warehouse,omitempty"`
}

// SalesInvoicePayment is a mode-of-payment row of a POS invoice
type SalesInvoicePayment struct {
	ModeOfPayment string          `json:"mode_of_payment"`
	Amount        decimal.Decimal `json:"amount"`
}

// SalesInvoice is a projection of the "Sales Invoice" doctype
type SalesInvoice struct {
	Name                 string                `json:"name,omitempty"`
	Customer             string                `json:"customer"`
	CustomerName         string                `json:"customer_name,omitempty"`
	Company              string                `json:"company,omitempty"`
	PostingDate          string                `json:"posting_date,omitempty"`
	DueDate              string                `json:"due_date,omitempty"`
	Currency             string                `json:"currency,omitempty"`
	Status               string                `json:"status,omitempty"`
	DocStatus            int                   `json:"docstatus"`
	IsPOS                int                   `json:"is_pos"`
	UpdateStock          int                   `json:"update_stock,omitempty"`
	POSProfile           string                `json:"pos_profile,omitempty"`
	NetTotal             decimal.Decimal       `json:"net_total"`
	TotalTaxesAndCharges decimal.Decimal       `json:"total_taxes_and_charges"`
	GrandTotal           decimal.Decimal       `json:"grand_total"`
	OutstandingAmount    decimal.Decimal       `json:"outstanding_amount"`
	Items                []InvoiceItem         `json:"items,omitempty"`
	Payments             []SalesInvoicePayment `json:"payments,omitempty"`
	Modified             string                `json:"modified,omitempty"`
}

func (d *SalesInvoice) DocType() string { return DocTypeSalesInvoice }
func (d *SalesInvoice) DocName() string { return d.Name }

// Validate checks a sales invoice before it is written
func (d *SalesInvoice) Validate() error {
	if err := requireString("customer", d.Customer); err != nil {
		return err
	}
	if len(d.Items) == 0 {
		return NewValidationError("items", "at least one item is required")
	}
	for i, item := range d.Items {
		if err := requireString("items.item_code", item.ItemCode); err != nil {
			return NewValidationError("items", "row %d: item_code is required", i+1)
		}
		if !item.Qty.IsPositive() {
			return NewValidationError("items", "row %d: qty must be positive", i+1)
		}
	}
	return nil
}

// PurchaseInvoice is a projection of the "Purchase Invoice" doctype
type PurchaseInvoice struct {
	Name                 string          `json:"name,omitempty"`
	Supplier             string          `json:"supplier"`
	SupplierName         string          `json:"supplier_name,omitempty"`
	Company              string          `json:"company,omitempty"`
	PostingDate          string          `json:"posting_date,omitempty"`
	BillNo               string          `json:"bill_no,omitempty"`
	Currency             string          `json:"currency,omitempty"`
	Status               string          `json:"status,omitempty"`
	DocStatus            int             `json:"docstatus"`
	NetTotal             decimal.Decimal `json:"net_total"`
	TotalTaxesAndCharges decimal.Decimal `json:"total_taxes_and_charges"`
	GrandTotal           decimal.Decimal `json:"grand_total"`
	OutstandingAmount    decimal.Decimal `json:"outstanding_amount"`
	Items                []InvoiceItem   `json:"items,omitempty"`
	Modified             string          `json:"modified,omitempty"`
}

func (d *PurchaseInvoice) DocType() string { return DocTypePurchaseInvoice }
func (d *PurchaseInvoice) DocName() string { return d.Name }

// Validate checks a purchase invoice before it is written
func (d *PurchaseInvoice) Validate() error {
	if err := requireString("supplier", d.Supplier); err != nil {
		return err
	}
	if len(d.Items) == 0 {
		return NewValidationError("items", "at least one item is required")
	}
	for i, item := range d.Items {
		if item.ItemCode == "" {
			return NewValidationError("items", "row %d: item_code is required", i+1)
		}
	}
	return nil
}

// ExpenseClaimDetail is a line of an expense claim
type ExpenseClaimDetail struct {
	ExpenseDate      string          `json:"expense_date,omitempty"`
	ExpenseType      string          `json:"expense_type"`
	Description      string          `json:"description,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	SanctionedAmount decimal.Decimal `json:"sanctioned_amount"`
}

// ExpenseClaim is a projection of the "Expense Claim" doctype.
// The remote total_sanctioned_amount is exposed as total_amount.
type ExpenseClaim struct {
	Name               string               `json:"name,omitempty"`
	Employee           string               `json:"employee"`
	EmployeeName       string               `json:"employee_name,omitempty"`
	Company            string               `json:"company,omitempty"`
	PostingDate        string               `json:"posting_date,omitempty"`
	ApprovalStatus     string               `json:"approval_status,omitempty"`
	Status             string               `json:"status,omitempty"`
	DocStatus          int                  `json:"docstatus"`
	TotalClaimedAmount decimal.Decimal      `json:"total_claimed_amount"`
	TotalAmount        decimal.Decimal      `json:"total_amount"`
	Expenses           []ExpenseClaimDetail `json:"expenses,omitempty"`
	Modified           string               `json:"modified,omitempty"`
}

func (d *ExpenseClaim) DocType() string { return DocTypeExpenseClaim }
func (d *ExpenseClaim) DocName() string { return d.Name }

type remoteExpenseClaim struct {
	ExpenseClaim
	TotalSanctionedAmount decimal.Decimal `json:"total_sanctioned_amount"`
}

// DecodeRemote maps remote field names onto the claim
func (d *ExpenseClaim) DecodeRemote(data []byte) error {
	var remote remoteExpenseClaim
	if err := json.Unmarshal(data, &remote); err != nil {
		return err
	}
	*d = remote.ExpenseClaim
	d.TotalAmount = remote.TotalSanctionedAmount
	return nil
}

// EncodeRemote renames total_amount for the ERP server. The server recomputes
// totals from the expense lines, so the sanctioned total is only a hint.
func (d *ExpenseClaim) EncodeRemote() map[string]interface{} {
	doc := toMap(d)
	delete(doc, "total_amount")
	doc["total_sanctioned_amount"] = d.TotalAmount
	return doc
}

// Validate checks an expense claim before it is written
func (d *ExpenseClaim) Validate() error {
	if err := requireString("employee", d.Employee); err != nil {
		return err
	}
	if len(d.Expenses) == 0 {
		return NewValidationError("expenses", "at least one expense line is required")
	}
	for i, line := range d.Expenses {
		if line.ExpenseType == "" {
			return NewValidationError("expenses", "row %d: expense_type is required", i+1)
		}
		if line.Amount.IsNegative() {
			return NewValidationError("expenses", "row %d: amount cannot be negative", i+1)
		}
	}
	return nil
}

// PaymentEntry is a projection of the "Payment Entry" doctype
type PaymentEntry struct {
	Name           string          `json:"name,omitempty"`
	PaymentType    string          `json:"payment_type"`
	PostingDate    string          `json:"posting_date,omitempty"`
	Company        string          `json:"company,omitempty"`
	PartyType      string          `json:"party_type,omitempty"`
	Party          string          `json:"party,omitempty"`
	ModeOfPayment  string          `json:"mode_of_payment,omitempty"`
	PaidFrom       string          `json:"paid_from,omitempty"`
	PaidTo         string          `json:"paid_to,omitempty"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	ReferenceNo    string          `json:"reference_no,omitempty"`
	ReferenceDate  string          `json:"reference_date,omitempty"`
	DocStatus      int             `json:"docstatus"`
	Modified       string          `json:"modified,omitempty"`
}

func (d *PaymentEntry) DocType() string { return DocTypePaymentEntry }
func (d *PaymentEntry) DocName() string { return d.Name }

// IsInflow reports whether the entry brings cash in
func (d *PaymentEntry) IsInflow() bool {
	return d.PaymentType == PaymentTypeReceive
}

// CashAmount returns the amount that moves cash. Inflows prefer the received
// amount and outflows the paid amount, each falling back to the other.
func (d *PaymentEntry) CashAmount() decimal.Decimal {
	primary, fallback := d.PaidAmount, d.ReceivedAmount
	if d.IsInflow() {
		primary, fallback = d.ReceivedAmount, d.PaidAmount
	}
	if primary.IsZero() {
		return fallback
	}
	return primary
}

// Validate checks a payment entry before it is written
func (d *PaymentEntry) Validate() error {
	switch d.PaymentType {
	case PaymentTypeReceive, PaymentTypePay, PaymentTypeInternalTransfer:
	case "":
		return NewValidationError("payment_type", "is required")
	default:
		return NewValidationError("payment_type", "invalid value %q", d.PaymentType)
	}
	if d.PaymentType != PaymentTypeInternalTransfer {
		if err := requireString("party", d.Party); err != nil {
			return err
		}
	}
	if !d.PaidAmount.IsPositive() && !d.ReceivedAmount.IsPositive() {
		return NewValidationError("paid_amount", "an amount greater than zero is required")
	}
	return nil
}

// GLEntry is a projection of the "GL Entry" doctype
type GLEntry struct {
	Name        string          `json:"name"`
	Account     string          `json:"account"`
	PostingDate string          `json:"posting_date"`
	Company     string          `json:"company,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	VoucherType string          `json:"voucher_type,omitempty"`
	VoucherNo   string          `json:"voucher_no,omitempty"`
	IsCancelled int             `json:"is_cancelled"`
}

func (d *GLEntry) DocType() string { return DocTypeGLEntry }
func (d *GLEntry) DocName() string { return d.Name }

// Account is a projection of the "Account" doctype
type Account struct {
	Name          string `json:"name"`
	AccountName   string `json:"account_name,omitempty"`
	RootType      string `json:"root_type"`
	AccountType   string `json:"account_type,omitempty"`
	ParentAccount string `json:"parent_account,omitempty"`
	Company       string `json:"company,omitempty"`
	IsGroup       int    `json:"is_group"`
}

func (d *Account) DocType() string { return DocTypeAccount }
func (d *Account) DocName() string { return d.Name }

// toMap round-trips v through JSON into a generic document
func toMap(v interface{}) map[string]interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{}
	}
	doc := make(map[string]interface{})
	_ = json.Unmarshal(data, &doc)
	return doc
}
