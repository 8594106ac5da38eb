package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

// ResourceConfig describes how a doctype is listed and filtered
type ResourceConfig struct {
	DocType string

	// ListFields are requested from get_list when ExpandList is false
	ListFields []string

	// ExpandList lists names first, then fetches each full document
	ExpandList bool

	// FilterFields are the equality filters accepted from callers
	FilterFields []string

	// DateField is filtered by ListParams.FromDate and ToDate
	DateField string

	// BaseFilters are always applied
	BaseFilters []port.Filter

	// ResourceAPI reads and writes through the REST resource API instead of frappe.client
	ResourceAPI bool

	OrderBy string

	// PageLength is the limit used when the caller gives none
	PageLength int
}

// ListParams are caller supplied list options
type ListParams struct {
	Filters  map[string]string
	FromDate string
	ToDate   string
	Limit    int
	Offset   int
}

// validatable is implemented by documents with local write rules
type validatable interface {
	Validate() error
}

// ResourceService provides CRUD over one doctype
type ResourceService[T any] struct {
	config  ResourceConfig
	client  port.ERPClient
	db      port.DocumentDB
	fetcher *Fetcher
	logger  Logger
}

// NewResourceService creates a new ResourceService
func NewResourceService[T any](
	config ResourceConfig,
	client port.ERPClient,
	db port.DocumentDB,
	fetcher *Fetcher,
	logger Logger,
) *ResourceService[T] {
	if config.OrderBy == "" {
		config.OrderBy = "modified desc"
	}
	if config.PageLength <= 0 || config.PageLength > maxListLimit {
		config.PageLength = defaultListLimit
	}
	return &ResourceService[T]{
		config:  config,
		client:  client,
		db:      db,
		fetcher: fetcher,
		logger:  logger,
	}
}

// DocType returns the doctype served
func (s *ResourceService[T]) DocType() string {
	return s.config.DocType
}

// List returns the documents matching params
func (s *ResourceService[T]) List(ctx context.Context, params ListParams) ([]T, error) {
	query, err := s.buildQuery(params)
	if err != nil {
		return nil, err
	}

	if s.config.ExpandList {
		names, err := s.fetcher.ListNames(ctx, s.config.DocType, query)
		if err != nil {
			s.logger.Error("Failed to list document names", "doctype", s.config.DocType, "error", err)
			return nil, fmt.Errorf("list %s: %w", s.config.DocType, err)
		}
		return ExpandDocuments[T](ctx, s.fetcher, s.config.DocType, names, ExpandTolerant)
	}

	query.Fields = s.config.ListFields
	var rows []json.RawMessage
	if s.config.ResourceAPI {
		rows, err = s.db.GetDocList(ctx, s.config.DocType, query)
	} else {
		rows, err = s.client.GetList(ctx, s.config.DocType, query)
	}
	if err != nil {
		s.logger.Error("Failed to list documents", "doctype", s.config.DocType, "error", err)
		return nil, fmt.Errorf("list %s: %w", s.config.DocType, err)
	}
	return decodeDocuments[T](rows)
}

// Get returns a full document
func (s *ResourceService[T]) Get(ctx context.Context, name string) (*T, error) {
	if name == "" {
		return nil, entity.NewValidationError("name", "is required")
	}
	if !s.config.ResourceAPI {
		return fetchDocument[T](ctx, s.client, s.config.DocType, name)
	}
	raw, err := s.db.GetDoc(ctx, s.config.DocType, name)
	if err != nil {
		return nil, err
	}
	return decodeDocument[T](raw)
}

// Create validates and inserts a document
func (s *ResourceService[T]) Create(ctx context.Context, doc *T) (*T, error) {
	payload, err := s.prepareWrite(doc)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if s.config.ResourceAPI {
		raw, err = s.db.CreateDoc(ctx, s.config.DocType, payload)
	} else {
		raw, err = s.client.Insert(ctx, s.config.DocType, payload)
	}
	if err != nil {
		s.logger.Error("Failed to create document", "doctype", s.config.DocType, "error", err)
		return nil, err
	}

	created, err := decodeDocument[T](raw)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Document created", "doctype", s.config.DocType, "name", docName(created))
	return created, nil
}

// Update validates and saves a document
func (s *ResourceService[T]) Update(ctx context.Context, name string, doc *T) (*T, error) {
	if name == "" {
		return nil, entity.NewValidationError("name", "is required")
	}
	payload, err := s.prepareWrite(doc)
	if err != nil {
		return nil, err
	}
	delete(payload, "name")
	delete(payload, "docstatus")

	var raw json.RawMessage
	if s.config.ResourceAPI {
		raw, err = s.db.UpdateDoc(ctx, s.config.DocType, name, payload)
	} else {
		raw, err = s.client.Save(ctx, s.config.DocType, name, payload)
	}
	if err != nil {
		s.logger.Error("Failed to update document", "doctype", s.config.DocType, "name", name, "error", err)
		return nil, err
	}

	s.logger.Info("Document updated", "doctype", s.config.DocType, "name", name)
	return decodeDocument[T](raw)
}

// Delete removes a document
func (s *ResourceService[T]) Delete(ctx context.Context, name string) error {
	if name == "" {
		return entity.NewValidationError("name", "is required")
	}
	var err error
	if s.config.ResourceAPI {
		err = s.db.DeleteDoc(ctx, s.config.DocType, name)
	} else {
		err = s.client.Delete(ctx, s.config.DocType, name)
	}
	if err != nil {
		s.logger.Error("Failed to delete document", "doctype", s.config.DocType, "name", name, "error", err)
		return err
	}
	s.logger.Info("Document deleted", "doctype", s.config.DocType, "name", name)
	return nil
}

// prepareWrite runs local validation and renders the remote payload
func (s *ResourceService[T]) prepareWrite(doc *T) (map[string]interface{}, error) {
	if doc == nil {
		return nil, entity.NewValidationError("", "request body is required")
	}
	if v, ok := any(doc).(validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return encodeDocument(doc)
}

// buildQuery translates params into a list query
func (s *ResourceService[T]) buildQuery(params ListParams) (port.ListQuery, error) {
	query := port.ListQuery{
		OrderBy: s.config.OrderBy,
		Limit:   params.Limit,
		Offset:  params.Offset,
	}
	if query.Limit <= 0 {
		query.Limit = s.config.PageLength
	}
	if query.Limit > maxListLimit {
		query.Limit = maxListLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	query.Filters = append(query.Filters, s.config.BaseFilters...)
	for _, field := range s.config.FilterFields {
		if value := params.Filters[field]; value != "" {
			query.Filters = append(query.Filters, port.Eq(field, value))
		}
	}

	if params.FromDate != "" || params.ToDate != "" {
		if s.config.DateField == "" {
			return query, entity.NewValidationError("from_date", "date filters are not supported for %s", s.config.DocType)
		}
		filter, err := dateFilter(s.config.DateField, params.FromDate, params.ToDate)
		if err != nil {
			return query, err
		}
		query.Filters = append(query.Filters, filter)
	}
	return query, nil
}

// dateFilter builds a range filter from optional bounds
func dateFilter(field, from, to string) (port.Filter, error) {
	if err := validateDate("from_date", from); err != nil {
		return port.Filter{}, err
	}
	if err := validateDate("to_date", to); err != nil {
		return port.Filter{}, err
	}

	switch {
	case from != "" && to != "":
		if from > to {
			return port.Filter{}, entity.NewValidationError("from_date", "must not be after to_date")
		}
		return port.Between(field, from, to), nil
	case from != "":
		return port.Filter{Field: field, Operator: ">=", Value: from}, nil
	default:
		return port.Filter{Field: field, Operator: "<=", Value: to}, nil
	}
}

func validateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(entity.DateLayout, value); err != nil {
		return entity.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return nil
}

func docName(doc interface{}) string {
	if d, ok := doc.(entity.Document); ok {
		return d.DocName()
	}
	return ""
}
