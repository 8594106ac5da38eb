package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/erp-gateway/internal/application/service"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
)

// Resource is the CRUD surface of one doctype
type Resource[T any] interface {
	DocType() string
	List(ctx context.Context, params service.ListParams) ([]T, error)
	Get(ctx context.Context, name string) (*T, error)
	Create(ctx context.Context, doc *T) (*T, error)
	Update(ctx context.Context, name string, doc *T) (*T, error)
	Delete(ctx context.Context, name string) error
}

// Resources groups the doctype services exposed over HTTP. Nil entries are
// not routed.
type Resources struct {
	Expenses         Resource[entity.ExpenseClaim]
	Purchases        Resource[entity.PurchaseInvoice]
	SalesInvoices    Resource[entity.SalesInvoice]
	Payments         Resource[entity.PaymentEntry]
	Accounts         Resource[entity.Account]
	Assets           Resource[entity.Asset]
	Movements        Resource[entity.AssetMovement]
	Maintenance      Resource[entity.AssetMaintenance]
	ValueAdjustments Resource[entity.AssetValueAdjustment]
	Leads            Resource[entity.Lead]
	Opportunities    Resource[entity.Opportunity]
	Customers        Resource[entity.Customer]
	DeliveryNotes    Resource[entity.DeliveryNote]
	StockEntries     Resource[entity.StockEntry]
}

// listQueryKeys are query parameters consumed by ListParams itself
var listQueryKeys = map[string]bool{
	"limit":     true,
	"offset":    true,
	"from_date": true,
	"to_date":   true,
}

type resourceHandlers[T any] struct {
	svc Resource[T]
}

// registerResource routes list and get, plus writes unless readOnly
func registerResource[T any](group *gin.RouterGroup, path string, svc Resource[T], readOnly bool) {
	if svc == nil {
		return
	}
	h := &resourceHandlers[T]{svc: svc}

	routes := group.Group(path)
	routes.Use(func(c *gin.Context) {
		c.Set(docTypeKey, svc.DocType())
		c.Next()
	})
	routes.GET("", h.list)
	routes.GET("/:name", h.get)
	if readOnly {
		return
	}
	routes.POST("", h.create)
	routes.PUT("/:name", h.update)
	routes.DELETE("/:name", h.delete)
}

func (h *resourceHandlers[T]) list(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	docs, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, docs, "")
}

func (h *resourceHandlers[T]) get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, doc, "")
}

func (h *resourceHandlers[T]) create(c *gin.Context) {
	doc, err := bindDocument[T](c)
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), doc)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, created, fmt.Sprintf("%s created", h.svc.DocType()))
}

func (h *resourceHandlers[T]) update(c *gin.Context) {
	doc, err := bindDocument[T](c)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("name"), doc)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, updated, fmt.Sprintf("%s updated", h.svc.DocType()))
}

func (h *resourceHandlers[T]) delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.svc.Delete(c.Request.Context(), name); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"name": name}, fmt.Sprintf("%s deleted", h.svc.DocType()))
}

// bindDocument decodes the JSON request body into a new T
func bindDocument[T any](c *gin.Context) (*T, error) {
	doc := new(T)
	if err := c.ShouldBindJSON(doc); err != nil {
		return nil, entity.NewValidationError("body", "invalid JSON: %v", err)
	}
	return doc, nil
}

// parseListParams reads pagination, the date range and equality filters
func parseListParams(c *gin.Context) (service.ListParams, error) {
	params := service.ListParams{
		Filters:  make(map[string]string),
		FromDate: c.Query("from_date"),
		ToDate:   c.Query("to_date"),
	}

	var err error
	if params.Limit, err = queryInt(c, "limit"); err != nil {
		return params, err
	}
	if params.Offset, err = queryInt(c, "offset"); err != nil {
		return params, err
	}

	for key, values := range c.Request.URL.Query() {
		if listQueryKeys[key] || len(values) == 0 || values[0] == "" {
			continue
		}
		params.Filters[key] = values[0]
	}
	return params, nil
}

// queryInt parses an optional non-negative integer query parameter
func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, entity.NewValidationError(key, "must be a non-negative integer")
	}
	return n, nil
}
