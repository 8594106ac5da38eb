package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
	"github.com/google/uuid"
)

// POSService records point-of-sale invoices
type POSService interface {
	CreateSale(ctx context.Context, sale *entity.SalesInvoice) (*entity.SalesInvoice, error)
	ListSales(ctx context.Context, params ListParams) ([]entity.SalesInvoice, error)
}

// posServiceImpl implements POSService
type posServiceImpl struct {
	client port.ERPClient
	sales  *ResourceService[entity.SalesInvoice]
	logger Logger
	namer  func() string
}

// NewPOSService creates a new POSService
func NewPOSService(client port.ERPClient, db port.DocumentDB, fetcher *Fetcher, logger Logger) POSService {
	sales := NewResourceService[entity.SalesInvoice](ResourceConfig{
		DocType:      entity.DocTypeSalesInvoice,
		ListFields:   []string{"name", "customer", "customer_name", "posting_date", "grand_total", "status", "docstatus", "pos_profile", "modified"},
		FilterFields: []string{"customer", "status", "pos_profile", "company"},
		DateField:    "posting_date",
		BaseFilters:  []port.Filter{port.Eq("is_pos", 1)},
	}, client, db, fetcher, logger)

	return &posServiceImpl{
		client: client,
		sales:  sales,
		logger: logger,
		namer:  newPOSInvoiceName,
	}
}

// CreateSale inserts a POS sales invoice. A name collision reported as a
// modified document is retried once under a fresh name.
func (s *posServiceImpl) CreateSale(ctx context.Context, sale *entity.SalesInvoice) (*entity.SalesInvoice, error) {
	if err := validateSale(sale); err != nil {
		return nil, err
	}

	sale.IsPOS = 1
	sale.UpdateStock = 1
	if sale.PostingDate == "" {
		sale.PostingDate = time.Now().Format(entity.DateLayout)
	}

	created, err := s.insertSale(ctx, sale)
	if errors.Is(err, port.ErrDocumentModified) {
		s.logger.Warn("POS invoice conflicted, retrying with a new name", "name", sale.Name)
		created, err = s.insertSale(ctx, sale)
	}
	if err != nil {
		s.logger.Error("Failed to create POS invoice", "customer", sale.Customer, "error", err)
		return nil, err
	}

	s.logger.Info("POS invoice created", "name", created.Name, "grand_total", created.GrandTotal.String())
	return created, nil
}

// ListSales lists POS invoices, most recent first
func (s *posServiceImpl) ListSales(ctx context.Context, params ListParams) ([]entity.SalesInvoice, error) {
	return s.sales.List(ctx, params)
}

func (s *posServiceImpl) insertSale(ctx context.Context, sale *entity.SalesInvoice) (*entity.SalesInvoice, error) {
	sale.Name = s.namer()

	payload, err := encodeDocument(sale)
	if err != nil {
		return nil, err
	}
	raw, err := s.client.Insert(ctx, entity.DocTypeSalesInvoice, payload)
	if err != nil {
		return nil, err
	}
	return decodeDocument[entity.SalesInvoice](raw)
}

// validateSale checks the invoice and requires a paid total above zero
func validateSale(sale *entity.SalesInvoice) error {
	if sale == nil {
		return entity.NewValidationError("", "request body is required")
	}
	if err := sale.Validate(); err != nil {
		return err
	}
	if len(sale.Payments) == 0 {
		return entity.NewValidationError("payments", "at least one payment is required")
	}

	var paid = sale.Payments[0].Amount
	for _, p := range sale.Payments[1:] {
		paid = paid.Add(p.Amount)
	}
	if !paid.IsPositive() {
		return entity.NewValidationError("payments", "total paid must be greater than zero")
	}
	return nil
}

// newPOSInvoiceName returns POS-<yyyymmdd>-<first 8 uuid chars>
func newPOSInvoiceName() string {
	id := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("POS-%s-%s", time.Now().Format("20060102"), id)
}
