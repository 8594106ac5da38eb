// Package frappe adapts the Frappe/ERPNext HTTP API to the application ports.
package frappe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"go.uber.org/zap"
)

// Config holds ERP server connection settings
type Config struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

// Client implements port.ERPClient over the frappe.client method API
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new ERP client
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid erp base url %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	if cfg.APIKey != "" {
		c.authHeader = fmt.Sprintf("token %s:%s", cfg.APIKey, cfg.APISecret)
	}
	return c, nil
}

// GetList lists documents through frappe.client.get_list
func (c *Client) GetList(ctx context.Context, doctype string, query port.ListQuery) ([]json.RawMessage, error) {
	params, err := listParams(query)
	if err != nil {
		return nil, err
	}
	params.Set("doctype", doctype)

	var out struct {
		Message []json.RawMessage `json:"message"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/method/frappe.client.get_list", params, nil, &out); err != nil {
		return nil, fmt.Errorf("get_list %s: %w", doctype, err)
	}
	return out.Message, nil
}

// Get fetches a full document, child tables included
func (c *Client) Get(ctx context.Context, doctype, name string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("doctype", doctype)
	params.Set("name", name)

	var out struct {
		Message json.RawMessage `json:"message"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/method/frappe.client.get", params, nil, &out); err != nil {
		return nil, fmt.Errorf("get %s %s: %w", doctype, name, err)
	}
	return out.Message, nil
}

// Insert creates a document through frappe.client.insert
func (c *Client) Insert(ctx context.Context, doctype string, doc map[string]interface{}) (json.RawMessage, error) {
	payload := withDocType(doc, doctype)

	var out struct {
		Message json.RawMessage `json:"message"`
	}
	body := map[string]interface{}{"doc": payload}
	if err := c.call(ctx, http.MethodPost, "/api/method/frappe.client.insert", nil, body, &out); err != nil {
		return nil, fmt.Errorf("insert %s: %w", doctype, err)
	}
	return out.Message, nil
}

// Save updates a document through frappe.client.save
func (c *Client) Save(ctx context.Context, doctype, name string, doc map[string]interface{}) (json.RawMessage, error) {
	payload := withDocType(doc, doctype)
	payload["name"] = name

	var out struct {
		Message json.RawMessage `json:"message"`
	}
	body := map[string]interface{}{"doc": payload}
	if err := c.call(ctx, http.MethodPost, "/api/method/frappe.client.save", nil, body, &out); err != nil {
		return nil, fmt.Errorf("save %s %s: %w", doctype, name, err)
	}
	return out.Message, nil
}

// Delete removes a document through frappe.client.delete
func (c *Client) Delete(ctx context.Context, doctype, name string) error {
	body := map[string]interface{}{"doctype": doctype, "name": name}
	if err := c.call(ctx, http.MethodPost, "/api/method/frappe.client.delete", nil, body, nil); err != nil {
		return fmt.Errorf("delete %s %s: %w", doctype, name, err)
	}
	return nil
}

// call performs one request and decodes a 2xx body into out
func (c *Client) call(ctx context.Context, method, path string, params url.Values, body interface{}, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("ERP request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("%w: %v", port.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", port.ErrRemoteUnavailable, err)
	}

	c.logger.Debug("ERP request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseRemoteError(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// listParams encodes a ListQuery as list endpoint parameters
func listParams(query port.ListQuery) (url.Values, error) {
	params := url.Values{}

	fields := query.Fields
	if len(fields) == 0 {
		fields = []string{"name"}
	}
	encodedFields, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fields: %w", err)
	}
	params.Set("fields", string(encodedFields))

	if len(query.Filters) > 0 {
		encodedFilters, err := json.Marshal(query.Filters)
		if err != nil {
			return nil, fmt.Errorf("failed to encode filters: %w", err)
		}
		params.Set("filters", string(encodedFilters))
	}
	if query.OrderBy != "" {
		params.Set("order_by", query.OrderBy)
	}
	params.Set("limit_start", strconv.Itoa(query.Offset))
	params.Set("limit_page_length", strconv.Itoa(query.Limit))
	return params, nil
}

// withDocType copies doc and stamps the doctype
func withDocType(doc map[string]interface{}, doctype string) map[string]interface{} {
	payload := make(map[string]interface{}, len(doc)+1)
	for k, v := range doc {
		payload[k] = v
	}
	payload["doctype"] = doctype
	return payload
}

// Verify interface compliance
var _ port.ERPClient = (*Client)(nil)
