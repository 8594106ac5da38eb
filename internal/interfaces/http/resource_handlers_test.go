package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"github.com/garyjia/erp-gateway/internal/application/service"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
)

func TestResourceList_PassesQueryParams(t *testing.T) {
	var got service.ListParams
	movements := &fakeResource[entity.AssetMovement]{
		doctype: entity.DocTypeAssetMovement,
		listFunc: func(ctx context.Context, params service.ListParams) ([]entity.AssetMovement, error) {
			got = params
			return []entity.AssetMovement{{Name: "MOV-1", Purpose: entity.MovementPurposeReceipt}}, nil
		},
	}
	router := newTestServer(Services{Resources: Resources{Movements: movements}})

	w := perform(router, http.MethodGet,
		"/api/asset/movements?purpose=Receipt&company=Acme&from_date=2024-01-01&to_date=2024-01-31&limit=5&offset=10&status=", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"purpose": "Receipt", "company": "Acme"}, got.Filters)
	assert.Equal(t, "2024-01-01", got.FromDate)
	assert.Equal(t, "2024-01-31", got.ToDate)
	assert.Equal(t, 5, got.Limit)
	assert.Equal(t, 10, got.Offset)

	var docs []entity.AssetMovement
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "MOV-1", docs[0].Name)
}

func TestResourceList_RejectsBadPagination(t *testing.T) {
	leads := &fakeResource[entity.Lead]{doctype: entity.DocTypeLead}
	router := newTestServer(Services{Resources: Resources{Leads: leads}})

	for _, query := range []string{"limit=ten", "offset=-1"} {
		w := perform(router, http.MethodGet, "/api/crm/leads?"+query, nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
	assert.Equal(t, 0, leads.calls)
}

func TestResourceGet_NotFound(t *testing.T) {
	var gotName string
	assets := &fakeResource[entity.Asset]{
		doctype: entity.DocTypeAsset,
		getFunc: func(ctx context.Context, name string) (*entity.Asset, error) {
			gotName = name
			return nil, fmt.Errorf("get Asset %s: %w", name, port.ErrDocumentNotFound)
		},
	}
	router := newTestServer(Services{Resources: Resources{Assets: assets}})

	w := perform(router, http.MethodGet, "/api/asset/assets/AST%20001", nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "AST 001", gotName)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "document not found", env.Error)
}

func TestResourceCreate(t *testing.T) {
	customers := &fakeResource[entity.Customer]{
		doctype: entity.DocTypeCustomer,
		createFunc: func(ctx context.Context, doc *entity.Customer) (*entity.Customer, error) {
			assert.Equal(t, "Globex", doc.CustomerName)
			doc.Name = "CUST-0001"
			return doc, nil
		},
	}
	router := newTestServer(Services{Resources: Resources{Customers: customers}})

	w := perform(router, http.MethodPost, "/api/crm/customers", map[string]interface{}{"customer_name": "Globex"}, nil)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "Customer created", env.Message)
	var created entity.Customer
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "CUST-0001", created.Name)
}

func TestResourceCreate_InvalidJSON(t *testing.T) {
	customers := &fakeResource[entity.Customer]{doctype: entity.DocTypeCustomer}
	router := newTestServer(Services{Resources: Resources{Customers: customers}})

	w := perform(router, http.MethodPost, "/api/crm/customers", "{not json", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, customers.calls)
}

func TestResourceUpdate_Conflict(t *testing.T) {
	notes := &fakeResource[entity.DeliveryNote]{
		doctype: entity.DocTypeDeliveryNote,
		updateFunc: func(ctx context.Context, name string, doc *entity.DeliveryNote) (*entity.DeliveryNote, error) {
			assert.Equal(t, "DN-1", name)
			return nil, fmt.Errorf("update: %w", port.ErrDocumentModified)
		},
	}
	router := newTestServer(Services{Resources: Resources{DeliveryNotes: notes}})

	w := perform(router, http.MethodPut, "/api/delivery-notes/DN-1", map[string]interface{}{"customer": "Globex"}, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestResourceDelete(t *testing.T) {
	var deleted string
	entries := &fakeResource[entity.StockEntry]{
		doctype: entity.DocTypeStockEntry,
		deleteFunc: func(ctx context.Context, name string) error {
			deleted = name
			return nil
		},
	}
	router := newTestServer(Services{Resources: Resources{StockEntries: entries}})

	w := perform(router, http.MethodDelete, "/api/stock-entries/STE-7", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "STE-7", deleted)
	assert.Equal(t, "Stock Entry deleted", decodeEnvelope(t, w).Message)
}

func TestResourceWrites_RemoteFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"rejected by ERP", port.ErrRemoteValidation, http.StatusUnprocessableEntity},
		{"ERP down", port.ErrRemoteUnavailable, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments := &fakeResource[entity.PaymentEntry]{
				doctype: entity.DocTypePaymentEntry,
				createFunc: func(ctx context.Context, doc *entity.PaymentEntry) (*entity.PaymentEntry, error) {
					return nil, fmt.Errorf("create: %w", tt.err)
				},
			}
			router := newTestServer(Services{Resources: Resources{Payments: payments}})

			w := perform(router, http.MethodPost, "/api/accounting/payments", map[string]interface{}{"payment_type": "Pay"}, nil)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAccountsAreReadOnly(t *testing.T) {
	accounts := &fakeResource[entity.Account]{doctype: entity.DocTypeAccount}
	router := newTestServer(Services{Resources: Resources{Accounts: accounts}})

	w := perform(router, http.MethodGet, "/api/accounting/accounts", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodPost, "/api/accounting/accounts", map[string]interface{}{"account_name": "Cash"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 1, accounts.calls)
}
