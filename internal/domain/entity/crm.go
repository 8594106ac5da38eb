package entity

import (
	"net/mail"

	"github.com/shopspring/decimal"
)

// Lead is a projection of the "Lead" doctype
type Lead struct {
	Name        string `json:"name,omitempty"`
	LeadName    string `json:"lead_name,omitempty"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	EmailID     string `json:"email_id,omitempty"`
	MobileNo    string `json:"mobile_no,omitempty"`
	Status      string `json:"status,omitempty"`
	Source      string `json:"source,omitempty"`
	LeadOwner   string `json:"lead_owner,omitempty"`
	Territory   string `json:"territory,omitempty"`
	Modified    string `json:"modified,omitempty"`
}

func (d *Lead) DocType() string { return DocTypeLead }
func (d *Lead) DocName() string { return d.Name }

// Validate checks a lead before it is written
func (d *Lead) Validate() error {
	if d.FirstName == "" && d.CompanyName == "" {
		return NewValidationError("first_name", "first_name or company_name is required")
	}
	return validateEmail("email_id", d.EmailID)
}

// Opportunity is a projection of the "Opportunity" doctype
type Opportunity struct {
	Name              string          `json:"name,omitempty"`
	OpportunityFrom   string          `json:"opportunity_from"`
	PartyName         string          `json:"party_name"`
	OpportunityType   string          `json:"opportunity_type,omitempty"`
	Status            string          `json:"status,omitempty"`
	SalesStage        string          `json:"sales_stage,omitempty"`
	Company           string          `json:"company,omitempty"`
	Currency          string          `json:"currency,omitempty"`
	OpportunityAmount decimal.Decimal `json:"opportunity_amount"`
	Probability       decimal.Decimal `json:"probability"`
	ExpectedClosing   string          `json:"expected_closing,omitempty"`
	Modified          string          `json:"modified,omitempty"`
}

func (d *Opportunity) DocType() string { return DocTypeOpportunity }
func (d *Opportunity) DocName() string { return d.Name }

// Validate checks an opportunity before it is written
func (d *Opportunity) Validate() error {
	switch d.OpportunityFrom {
	case DocTypeLead, DocTypeCustomer, "Prospect":
	case "":
		return NewValidationError("opportunity_from", "is required")
	default:
		return NewValidationError("opportunity_from", "invalid value %q", d.OpportunityFrom)
	}
	if err := requireString("party_name", d.PartyName); err != nil {
		return err
	}
	if d.Probability.IsNegative() || d.Probability.GreaterThan(decimal.NewFromInt(100)) {
		return NewValidationError("probability", "must be between 0 and 100")
	}
	return nil
}

// Customer is a projection of the "Customer" doctype
type Customer struct {
	Name          string `json:"name,omitempty"`
	CustomerName  string `json:"customer_name"`
	CustomerType  string `json:"customer_type,omitempty"`
	CustomerGroup string `json:"customer_group,omitempty"`
	Territory     string `json:"territory,omitempty"`
	EmailID       string `json:"email_id,omitempty"`
	MobileNo      string `json:"mobile_no,omitempty"`
	Disabled      int    `json:"disabled"`
	Modified      string `json:"modified,omitempty"`
}

func (d *Customer) DocType() string { return DocTypeCustomer }
func (d *Customer) DocName() string { return d.Name }

// Validate checks a customer before it is written
func (d *Customer) Validate() error {
	if err := requireString("customer_name", d.CustomerName); err != nil {
		return err
	}
	switch d.CustomerType {
	case "", "Company", "Individual", "Partnership":
	default:
		return NewValidationError("customer_type", "invalid value %q", d.CustomerType)
	}
	return validateEmail("email_id", d.EmailID)
}

func validateEmail(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return NewValidationError(field, "invalid email address")
	}
	return nil
}
