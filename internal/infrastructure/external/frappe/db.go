package frappe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/garyjia/erp-gateway/internal/application/port"
)

// DB implements port.DocumentDB over the /api/resource REST API
type DB struct {
	client *Client
}

// NewDB creates a resource API adapter sharing the client's transport
func NewDB(client *Client) *DB {
	return &DB{client: client}
}

// GetDocList lists documents of a doctype
func (db *DB) GetDocList(ctx context.Context, doctype string, query port.ListQuery) ([]json.RawMessage, error) {
	params, err := listParams(query)
	if err != nil {
		return nil, err
	}

	var out struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := db.client.call(ctx, http.MethodGet, resourcePath(doctype, ""), params, nil, &out); err != nil {
		return nil, fmt.Errorf("list %s: %w", doctype, err)
	}
	return out.Data, nil
}

// GetDoc fetches a single document
func (db *DB) GetDoc(ctx context.Context, doctype, name string) (json.RawMessage, error) {
	var out struct {
		Data json.RawMessage `json:"data"`
	}
	if err := db.client.call(ctx, http.MethodGet, resourcePath(doctype, name), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("get %s %s: %w", doctype, name, err)
	}
	return out.Data, nil
}

// CreateDoc creates a document
func (db *DB) CreateDoc(ctx context.Context, doctype string, doc map[string]interface{}) (json.RawMessage, error) {
	var out struct {
		Data json.RawMessage `json:"data"`
	}
	if err := db.client.call(ctx, http.MethodPost, resourcePath(doctype, ""), nil, doc, &out); err != nil {
		return nil, fmt.Errorf("create %s: %w", doctype, err)
	}
	return out.Data, nil
}

// UpdateDoc updates the given fields of a document
func (db *DB) UpdateDoc(ctx context.Context, doctype, name string, doc map[string]interface{}) (json.RawMessage, error) {
	var out struct {
		Data json.RawMessage `json:"data"`
	}
	if err := db.client.call(ctx, http.MethodPut, resourcePath(doctype, name), nil, doc, &out); err != nil {
		return nil, fmt.Errorf("update %s %s: %w", doctype, name, err)
	}
	return out.Data, nil
}

// DeleteDoc deletes a document
func (db *DB) DeleteDoc(ctx context.Context, doctype, name string) error {
	if err := db.client.call(ctx, http.MethodDelete, resourcePath(doctype, name), nil, nil, nil); err != nil {
		return fmt.Errorf("delete %s %s: %w", doctype, name, err)
	}
	return nil
}

func resourcePath(doctype, name string) string {
	path := "/api/resource/" + url.PathEscape(doctype)
	if name != "" {
		path += "/" + url.PathEscape(name)
	}
	return path
}

// Verify interface compliance
var _ port.DocumentDB = (*DB)(nil)
