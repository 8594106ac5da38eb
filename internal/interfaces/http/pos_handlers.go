package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/erp-gateway/internal/application/service"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
)

// POSHandlers serves point-of-sale invoices
type POSHandlers struct {
	pos service.POSService
}

// NewPOSHandlers creates a new POSHandlers instance
func NewPOSHandlers(pos service.POSService) *POSHandlers {
	return &POSHandlers{pos: pos}
}

// ListSales handles GET /api/pos
func (h *POSHandlers) ListSales(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	sales, err := h.pos.ListSales(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, sales, "")
}

// CreateSale handles POST /api/pos
func (h *POSHandlers) CreateSale(c *gin.Context) {
	c.Set(docTypeKey, entity.DocTypeSalesInvoice)

	sale, err := bindDocument[entity.SalesInvoice](c)
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := h.pos.CreateSale(c.Request.Context(), sale)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, created, "POS invoice created")
}
