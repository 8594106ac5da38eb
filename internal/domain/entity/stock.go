package entity

import "github.com/shopspring/decimal"

// DeliveryNoteItem is a line of a delivery note
type DeliveryNoteItem struct {
	ItemCode          string          `json:"item_code"`
	ItemName          string          `json:"item_name,omitempty"`
	Qty               decimal.Decimal `json:"qty"`
	Rate              decimal.Decimal `json:"rate"`
	Amount            decimal.Decimal `json:"amount"`
	Warehouse         string          `json:"warehouse,omitempty"`
	AgainstSalesOrder string          `json:"against_sales_order,omitempty"`
}

// DeliveryNote is a projection of the "Delivery Note" doctype
type DeliveryNote struct {
	Name        string             `json:"name,omitempty"`
	Customer    string             `json:"customer"`
	Company     string             `json:"company,omitempty"`
	PostingDate string             `json:"posting_date,omitempty"`
	Status      string             `json:"status,omitempty"`
	DocStatus   int                `json:"docstatus"`
	GrandTotal  decimal.Decimal    `json:"grand_total"`
	Items       []DeliveryNoteItem `json:"items,omitempty"`
	Modified    string             `json:"modified,omitempty"`
}

func (d *DeliveryNote) DocType() string { return DocTypeDeliveryNote }
func (d *DeliveryNote) DocName() string { return d.Name }

// Validate checks a delivery note before it is written
func (d *DeliveryNote) Validate() error {
	if err := requireString("customer", d.Customer); err != nil {
		return err
	}
	if len(d.Items) == 0 {
		return NewValidationError("items", "at least one item is required")
	}
	for i, item := range d.Items {
		if item.ItemCode == "" {
			return NewValidationError("items", "row %d: item_code is required", i+1)
		}
		if !item.Qty.IsPositive() {
			return NewValidationError("items", "row %d: qty must be positive", i+1)
		}
	}
	return nil
}

// StockEntryDetail is a line of a stock entry
type StockEntryDetail struct {
	ItemCode   string          `json:"item_code"`
	Qty        decimal.Decimal `json:"qty"`
	SWarehouse string          `json:"s_warehouse,omitempty"`
	TWarehouse string          `json:"t_warehouse,omitempty"`
	BasicRate  decimal.Decimal `json:"basic_rate"`
	UOM        string          `json:"uom,omitempty"`
}

// StockEntry is a projection of the "Stock Entry" doctype
type StockEntry struct {
	Name           string             `json:"name,omitempty"`
	StockEntryType string             `json:"stock_entry_type"`
	Purpose        string             `json:"purpose,omitempty"`
	Company        string             `json:"company,omitempty"`
	PostingDate    string             `json:"posting_date,omitempty"`
	DocStatus      int                `json:"docstatus"`
	Items          []StockEntryDetail `json:"items,omitempty"`
	Modified       string             `json:"modified,omitempty"`
}

func (d *StockEntry) DocType() string { return DocTypeStockEntry }
func (d *StockEntry) DocName() string { return d.Name }

// Validate checks the warehouses each entry type needs
func (d *StockEntry) Validate() error {
	if err := requireString("stock_entry_type", d.StockEntryType); err != nil {
		return err
	}
	if len(d.Items) == 0 {
		return NewValidationError("items", "at least one item is required")
	}
	for i, item := range d.Items {
		row := i + 1
		if item.ItemCode == "" {
			return NewValidationError("items", "row %d: item_code is required", row)
		}
		if !item.Qty.IsPositive() {
			return NewValidationError("items", "row %d: qty must be positive", row)
		}
		switch d.StockEntryType {
		case "Material Receipt":
			if item.TWarehouse == "" {
				return NewValidationError("items", "row %d: t_warehouse is required for %s", row, d.StockEntryType)
			}
		case "Material Issue":
			if item.SWarehouse == "" {
				return NewValidationError("items", "row %d: s_warehouse is required for %s", row, d.StockEntryType)
			}
		case "Material Transfer":
			if item.SWarehouse == "" || item.TWarehouse == "" {
				return NewValidationError("items", "row %d: s_warehouse and t_warehouse are required for %s", row, d.StockEntryType)
			}
		}
	}
	return nil
}
