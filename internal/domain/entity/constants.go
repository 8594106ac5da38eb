package entity

// DocStatus values of a remote document lifecycle
const (
	DocStatusDraft     = 0
	DocStatusSubmitted = 1
	DocStatusCancelled = 2
)

// Doctype names as registered on the ERP server
const (
	DocTypeSalesInvoice         = "Sales Invoice"
	DocTypePurchaseInvoice      = "Purchase Invoice"
	DocTypeExpenseClaim         = "Expense Claim"
	DocTypePaymentEntry         = "Payment Entry"
	DocTypeGLEntry              = "GL Entry"
	DocTypeAccount              = "Account"
	DocTypeAsset                = "Asset"
	DocTypeAssetMovement        = "Asset Movement"
	DocTypeAssetMaintenance     = "Asset Maintenance"
	DocTypeAssetValueAdjustment = "Asset Value Adjustment"
	DocTypeLead                 = "Lead"
	DocTypeOpportunity          = "Opportunity"
	DocTypeCustomer             = "Customer"
	DocTypeDeliveryNote         = "Delivery Note"
	DocTypeStockEntry           = "Stock Entry"
)

// Asset movement purposes
const (
	MovementPurposeIssue    = "Issue"
	MovementPurposeReceipt  = "Receipt"
	MovementPurposeTransfer = "Transfer"
)

// Payment entry types
const (
	PaymentTypeReceive          = "Receive"
	PaymentTypePay              = "Pay"
	PaymentTypeInternalTransfer = "Internal Transfer"
)

// Account root types
const (
	RootTypeAsset     = "Asset"
	RootTypeLiability = "Liability"
	RootTypeEquity    = "Equity"
	RootTypeIncome    = "Income"
	RootTypeExpense   = "Expense"
)

// DateLayout is the date format used by the ERP server
const DateLayout = "2006-01-02"
