package entity

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Asset is a projection of the "Asset" doctype
type Asset struct {
	Name                string          `json:"name,omitempty"`
	AssetName           string          `json:"asset_name"`
	ItemCode            string          `json:"item_code"`
	AssetCategory       string          `json:"asset_category,omitempty"`
	Company             string          `json:"company,omitempty"`
	Location            string          `json:"location,omitempty"`
	Custodian           string          `json:"custodian,omitempty"`
	PurchaseDate        string          `json:"purchase_date,omitempty"`
	AvailableForUseDate string          `json:"available_for_use_date,omitempty"`
	GrossPurchaseAmount decimal.Decimal `json:"gross_purchase_amount"`
	IsExistingAsset     int             `json:"is_existing_asset"`
	Status              string          `json:"status,omitempty"`
	DocStatus           int             `json:"docstatus"`
	Modified            string          `json:"modified,omitempty"`
}

func (d *Asset) DocType() string { return DocTypeAsset }
func (d *Asset) DocName() string { return d.Name }

// Validate checks an asset before it is written
func (d *Asset) Validate() error {
	if err := requireString("asset_name", d.AssetName); err != nil {
		return err
	}
	if err := requireString("item_code", d.ItemCode); err != nil {
		return err
	}
	if err := requireString("location", d.Location); err != nil {
		return err
	}
	if d.GrossPurchaseAmount.IsNegative() {
		return NewValidationError("gross_purchase_amount", "cannot be negative")
	}
	return nil
}

// AssetMovementItem is one asset line of a movement
type AssetMovementItem struct {
	Asset        string `json:"asset"`
	FromLocation string `json:"from_location,omitempty"`
	ToLocation   string `json:"to_location,omitempty"`
	FromEmployee string `json:"from_employee,omitempty"`
	ToEmployee   string `json:"to_employee,omitempty"`
}

type remoteAssetMovementItem struct {
	Asset          string `json:"asset"`
	SourceLocation string `json:"source_location,omitempty"`
	TargetLocation string `json:"target_location,omitempty"`
	FromEmployee   string `json:"from_employee,omitempty"`
	ToEmployee     string `json:"to_employee,omitempty"`
}

// AssetMovement is a projection of the "Asset Movement" doctype
type AssetMovement struct {
	Name            string              `json:"name,omitempty"`
	Company         string              `json:"company"`
	Purpose         string              `json:"purpose"`
	TransactionDate string              `json:"transaction_date,omitempty"`
	ReferenceName   string              `json:"reference_name,omitempty"`
	DocStatus       int                 `json:"docstatus"`
	Assets          []AssetMovementItem `json:"assets"`
	Modified        string              `json:"modified,omitempty"`
}

func (d *AssetMovement) DocType() string { return DocTypeAssetMovement }
func (d *AssetMovement) DocName() string { return d.Name }

type remoteAssetMovement struct {
	AssetMovement
	Assets []remoteAssetMovementItem `json:"assets"`
}

// DecodeRemote maps source/target locations onto from/to locations
func (d *AssetMovement) DecodeRemote(data []byte) error {
	var remote remoteAssetMovement
	if err := json.Unmarshal(data, &remote); err != nil {
		return err
	}
	*d = remote.AssetMovement
	d.Assets = make([]AssetMovementItem, 0, len(remote.Assets))
	for _, item := range remote.Assets {
		d.Assets = append(d.Assets, AssetMovementItem{
			Asset:        item.Asset,
			FromLocation: item.SourceLocation,
			ToLocation:   item.TargetLocation,
			FromEmployee: item.FromEmployee,
			ToEmployee:   item.ToEmployee,
		})
	}
	return nil
}

// EncodeRemote renames asset line locations for the ERP server
func (d *AssetMovement) EncodeRemote() map[string]interface{} {
	items := make([]remoteAssetMovementItem, 0, len(d.Assets))
	for _, item := range d.Assets {
		items = append(items, remoteAssetMovementItem{
			Asset:          item.Asset,
			SourceLocation: item.FromLocation,
			TargetLocation: item.ToLocation,
			FromEmployee:   item.FromEmployee,
			ToEmployee:     item.ToEmployee,
		})
	}
	return toMap(remoteAssetMovement{AssetMovement: *d, Assets: items})
}

// movementField names one of the four location/employee fields of a line
type movementField struct {
	name  string
	value func(AssetMovementItem) string
}

var (
	fieldFromLocation = movementField{"from_location", func(i AssetMovementItem) string { return i.FromLocation }}
	fieldToLocation   = movementField{"to_location", func(i AssetMovementItem) string { return i.ToLocation }}
	fieldFromEmployee = movementField{"from_employee", func(i AssetMovementItem) string { return i.FromEmployee }}
	fieldToEmployee   = movementField{"to_employee", func(i AssetMovementItem) string { return i.ToEmployee }}
)

// movementRule lists the fields a purpose requires and forbids
type movementRule struct {
	required  []movementField
	forbidden []movementField
}

var movementRules = map[string]movementRule{
	MovementPurposeIssue: {
		required:  []movementField{fieldFromLocation, fieldToEmployee},
		forbidden: []movementField{fieldToLocation, fieldFromEmployee},
	},
	MovementPurposeReceipt: {
		required:  []movementField{fieldToLocation},
		forbidden: []movementField{fieldFromLocation, fieldToEmployee},
	},
	MovementPurposeTransfer: {
		required:  []movementField{fieldFromLocation, fieldToLocation},
		forbidden: []movementField{fieldFromEmployee, fieldToEmployee},
	},
}

// Validate enforces the purpose/field table on every asset line
func (d *AssetMovement) Validate() error {
	if err := requireString("company", d.Company); err != nil {
		return err
	}
	rule, ok := movementRules[d.Purpose]
	if !ok {
		if d.Purpose == "" {
			return NewValidationError("purpose", "is required")
		}
		return NewValidationError("purpose", "invalid value %q, expected Issue, Receipt or Transfer", d.Purpose)
	}
	if len(d.Assets) == 0 {
		return NewValidationError("assets", "at least one asset is required")
	}

	for i, item := range d.Assets {
		row := i + 1
		if strings.TrimSpace(item.Asset) == "" {
			return NewValidationError("assets", "row %d: asset is required", row)
		}
		for _, f := range rule.required {
			if strings.TrimSpace(f.value(item)) == "" {
				return NewValidationError("assets", "row %d: %s is required for %s", row, f.name, d.Purpose)
			}
		}
		for _, f := range rule.forbidden {
			if strings.TrimSpace(f.value(item)) != "" {
				return NewValidationError("assets", "row %d: %s must not be set for %s", row, f.name, d.Purpose)
			}
		}
		if d.Purpose == MovementPurposeTransfer && strings.TrimSpace(item.FromLocation) == strings.TrimSpace(item.ToLocation) {
			return NewValidationError("assets", "row %d: source and target location cannot be the same", row)
		}
	}
	return nil
}

// AssetMaintenanceTask is a scheduled task of an asset maintenance log
type AssetMaintenanceTask struct {
	MaintenanceTask   string `json:"maintenance_task"`
	MaintenanceType   string `json:"maintenance_type,omitempty"`
	MaintenanceStatus string `json:"maintenance_status,omitempty"`
	StartDate         string `json:"start_date,omitempty"`
	EndDate           string `json:"end_date,omitempty"`
	Periodicity       string `json:"periodicity,omitempty"`
	AssignTo          string `json:"assign_to,omitempty"`
	NextDueDate       string `json:"next_due_date,omitempty"`
}

// AssetMaintenance is a projection of the "Asset Maintenance" doctype
type AssetMaintenance struct {
	Name               string                 `json:"name,omitempty"`
	AssetName          string                 `json:"asset_name"`
	AssetCategory      string                 `json:"asset_category,omitempty"`
	ItemCode           string                 `json:"item_code,omitempty"`
	Company            string                 `json:"company"`
	MaintenanceTeam    string                 `json:"maintenance_team,omitempty"`
	MaintenanceManager string                 `json:"maintenance_manager,omitempty"`
	Tasks              []AssetMaintenanceTask `json:"asset_maintenance_tasks,omitempty"`
	Modified           string                 `json:"modified,omitempty"`
}

func (d *AssetMaintenance) DocType() string { return DocTypeAssetMaintenance }
func (d *AssetMaintenance) DocName() string { return d.Name }

// Validate checks a maintenance record before it is written
func (d *AssetMaintenance) Validate() error {
	if err := requireString("asset_name", d.AssetName); err != nil {
		return err
	}
	if err := requireString("company", d.Company); err != nil {
		return err
	}
	for i, task := range d.Tasks {
		if task.MaintenanceTask == "" {
			return NewValidationError("asset_maintenance_tasks", "row %d: maintenance_task is required", i+1)
		}
	}
	return nil
}

// AssetValueAdjustment is a projection of the "Asset Value Adjustment"
// doctype. The remote date field is exposed as adjustment_date.
type AssetValueAdjustment struct {
	Name              string          `json:"name,omitempty"`
	Asset             string          `json:"asset"`
	AssetCategory     string          `json:"asset_category,omitempty"`
	Company           string          `json:"company,omitempty"`
	FinanceBook       string          `json:"finance_book,omitempty"`
	AdjustmentDate    string          `json:"adjustment_date"`
	CurrentAssetValue decimal.Decimal `json:"current_asset_value"`
	NewAssetValue     decimal.Decimal `json:"new_asset_value"`
	DifferenceAmount  decimal.Decimal `json:"difference_amount"`
	DocStatus         int             `json:"docstatus"`
	Modified          string          `json:"modified,omitempty"`
}

func (d *AssetValueAdjustment) DocType() string { return DocTypeAssetValueAdjustment }
func (d *AssetValueAdjustment) DocName() string { return d.Name }

type remoteAssetValueAdjustment struct {
	AssetValueAdjustment
	Date string `json:"date"`
}

// DecodeRemote maps the remote date field onto AdjustmentDate
func (d *AssetValueAdjustment) DecodeRemote(data []byte) error {
	var remote remoteAssetValueAdjustment
	if err := json.Unmarshal(data, &remote); err != nil {
		return err
	}
	*d = remote.AssetValueAdjustment
	d.AdjustmentDate = remote.Date
	return nil
}

// EncodeRemote renames adjustment_date for the ERP server
func (d *AssetValueAdjustment) EncodeRemote() map[string]interface{} {
	doc := toMap(d)
	delete(doc, "adjustment_date")
	doc["date"] = d.AdjustmentDate
	return doc
}

// Validate checks a value adjustment before it is written
func (d *AssetValueAdjustment) Validate() error {
	if err := requireString("asset", d.Asset); err != nil {
		return err
	}
	if err := requireString("adjustment_date", d.AdjustmentDate); err != nil {
		return err
	}
	if d.NewAssetValue.IsNegative() {
		return NewValidationError("new_asset_value", "cannot be negative")
	}
	return nil
}
