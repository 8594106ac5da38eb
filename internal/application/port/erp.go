package port

import (
	"context"
	"encoding/json"
	"errors"
)

// Sentinel errors returned (wrapped) by ERP adapters
var (
	// ErrDocumentNotFound is returned when the remote document does not exist
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentModified is returned when the remote document changed after it was read
	ErrDocumentModified = errors.New("document has been modified")

	// ErrRemoteValidation is returned when the ERP server rejects a payload
	ErrRemoteValidation = errors.New("remote validation failed")

	// ErrRemoteUnavailable is returned on network failures and 5xx responses
	ErrRemoteUnavailable = errors.New("remote system unavailable")
)

// Filter is a single [field, operator, value] condition of a list query
type Filter struct {
	Field    string
	Operator string
	Value    interface{}
}

// MarshalJSON encodes the filter in the ERP server's list form
func (f Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{f.Field, f.Operator, f.Value})
}

// Eq builds an equality filter
func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Operator: "=", Value: value}
}

// Between builds an inclusive range filter
func Between(field string, from, to interface{}) Filter {
	return Filter{Field: field, Operator: "between", Value: []interface{}{from, to}}
}

// ListQuery describes a filtered listing of a doctype
type ListQuery struct {
	Fields  []string
	Filters []Filter
	OrderBy string
	// Limit of 0 fetches every matching document
	Limit  int
	Offset int
}

// ERPClient is the document API of the ERP server (frappe.client.*)
type ERPClient interface {
	GetList(ctx context.Context, doctype string, query ListQuery) ([]json.RawMessage, error)
	Get(ctx context.Context, doctype, name string) (json.RawMessage, error)
	Insert(ctx context.Context, doctype string, doc map[string]interface{}) (json.RawMessage, error)
	Save(ctx context.Context, doctype, name string, doc map[string]interface{}) (json.RawMessage, error)
	Delete(ctx context.Context, doctype, name string) error
}

// DocumentDB is the REST resource API of the ERP server
type DocumentDB interface {
	GetDocList(ctx context.Context, doctype string, query ListQuery) ([]json.RawMessage, error)
	GetDoc(ctx context.Context, doctype, name string) (json.RawMessage, error)
	CreateDoc(ctx context.Context, doctype string, doc map[string]interface{}) (json.RawMessage, error)
	UpdateDoc(ctx context.Context, doctype, name string, doc map[string]interface{}) (json.RawMessage, error)
	DeleteDoc(ctx context.Context, doctype, name string) error
}
