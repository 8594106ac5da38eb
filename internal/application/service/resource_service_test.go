package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/garyjia/erp-gateway/internal/application/port"
	"github.com/garyjia/erp-gateway/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMovementService(client *mockERPClient, db *mockDocumentDB) *ResourceService[entity.AssetMovement] {
	logger := &mockLogger{}
	return NewResourceService[entity.AssetMovement](ResourceConfig{
		DocType:      entity.DocTypeAssetMovement,
		ExpandList:   true,
		FilterFields: []string{"purpose", "company"},
		DateField:    "transaction_date",
	}, client, db, NewFetcher(client, 2, logger), logger)
}

func TestResourceService_ListExpandsAndToleratesFailures(t *testing.T) {
	client := &mockERPClient{
		getListFunc: func(ctx context.Context, doctype string, query port.ListQuery) ([]json.RawMessage, error) {
			return rawDocs(`{"name":"MOV-1"}`, `{"name":"MOV-2"}`, `{"name":"MOV-3"}`), nil
		},
		getFunc: func(ctx context.Context, doctype, name string) (json.RawMessage, error) {
			if name == "MOV-2" {
				return nil, fmt.Errorf("get: %w", port.ErrDocumentNotFound)
			}
			return json.RawMessage(fmt.Sprintf(
				`{"name":%q,"purpose":"Receipt","assets":[{"asset":"AST-1","target_location":"Store"}]}`, name)), nil
		},
	}
	svc := newMovementService(client, &mockDocumentDB{})

	docs, err := svc.List(context.Background(), ListParams{
		Filters:  map[string]string{"purpose": "Receipt", "status": "ignored"},
		FromDate: "2024-01-01",
		ToDate:   "2024-01-31",
		Limit:    1000,
	})

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "MOV-1", docs[0].Name)
	assert.Equal(t, "MOV-3", docs[1].Name)
	assert.Equal(t, "Store", docs[1].Assets[0].ToLocation)

	query := client.query(entity.DocTypeAssetMovement)
	assert.Equal(t, maxListLimit, query.Limit)
	assert.Equal(t, "modified desc", query.OrderBy)
	assert.Equal(t, []port.Filter{
		port.Eq("purpose", "Receipt"),
		port.Between("transaction_date", "2024-01-01", "2024-01-31"),
	}, query.Filters)
}

func TestResourceService_ListSingleCallUsesFields(t *testing.T) {
	client := &mockERPClient{
		getListFunc: func(ctx context.Context, doctype string, query port.ListQuery) ([]json.RawMessage, error) {
			assert.Equal(t, []string{"name", "lead_name", "status"}, query.Fields)
			assert.Equal(t, defaultListLimit, query.Limit)
			assert.Equal(t, []port.Filter{{Field: "creation", Operator: ">=", Value: "2024-01-01"}}, query.Filters)
			return rawDocs(`{"name":"CRM-LEAD-1","lead_name":"Ada","status":"Open"}`), nil
		},
	}
	logger := &mockLogger{}
	svc := NewResourceService[entity.Lead](ResourceConfig{
		DocType:    entity.DocTypeLead,
		ListFields: []string{"name", "lead_name", "status"},
		DateField:  "creation",
	}, client, &mockDocumentDB{}, NewFetcher(client, 1, logger), logger)

	docs, err := svc.List(context.Background(), ListParams{FromDate: "2024-01-01"})

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Ada", docs[0].LeadName)
}

func TestResourceService_ListUsesResourceAPI(t *testing.T) {
	client := &mockERPClient{}
	db := &mockDocumentDB{
		getDocListFunc: func(ctx context.Context, doctype string, query port.ListQuery) ([]json.RawMessage, error) {
			assert.Equal(t, entity.DocTypeAccount, doctype)
			return rawDocs(`{"name":"Cash - A","root_type":"Asset"}`), nil
		},
	}
	logger := &mockLogger{}
	svc := NewResourceService[entity.Account](ResourceConfig{
		DocType:     entity.DocTypeAccount,
		ListFields:  []string{"name", "root_type"},
		ResourceAPI: true,
	}, client, db, NewFetcher(client, 1, logger), logger)

	docs, err := svc.List(context.Background(), ListParams{})

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Asset", docs[0].RootType)
	assert.Equal(t, 0, client.callCount())
}

func TestResourceService_ListRejectsBadDates(t *testing.T) {
	client := &mockERPClient{}
	svc := newMovementService(client, &mockDocumentDB{})

	_, err := svc.List(context.Background(), ListParams{FromDate: "2024-02-01", ToDate: "2024-01-01"})

	var validationErr *entity.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, 0, client.callCount())
}

func TestResourceService_ListRejectsDatesWithoutDateField(t *testing.T) {
	client := &mockERPClient{}
	logger := &mockLogger{}
	svc := NewResourceService[entity.Customer](ResourceConfig{DocType: entity.DocTypeCustomer},
		client, &mockDocumentDB{}, NewFetcher(client, 1, logger), logger)

	_, err := svc.List(context.Background(), ListParams{ToDate: "2024-01-01"})

	var validationErr *entity.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestResourceService_CreateBlocksInvalidMovement(t *testing.T) {
	tests := []struct {
		name     string
		movement entity.AssetMovement
	}{
		{
			name: "issue without employee",
			movement: entity.AssetMovement{
				Company: "Acme",
				Purpose: entity.MovementPurposeIssue,
				Assets:  []entity.AssetMovementItem{{Asset: "AST-1", FromLocation: "Store"}},
			},
		},
		{
			name: "issue with destination location",
			movement: entity.AssetMovement{
				Company: "Acme",
				Purpose: entity.MovementPurposeIssue,
				Assets: []entity.AssetMovementItem{{
					Asset: "AST-1", FromLocation: "Store", ToEmployee: "EMP-1", ToLocation: "Office",
				}},
			},
		},
		{
			name: "transfer to same location",
			movement: entity.AssetMovement{
				Company: "Acme",
				Purpose: entity.MovementPurposeTransfer,
				Assets:  []entity.AssetMovementItem{{Asset: "AST-1", FromLocation: "Store", ToLocation: "Store"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockERPClient{}
			db := &mockDocumentDB{}
			svc := newMovementService(client, db)

			_, err := svc.Create(context.Background(), &tt.movement)

			var validationErr *entity.ValidationError
			require.True(t, errors.As(err, &validationErr), "got %v", err)
			assert.Equal(t, 0, db.calls)
			assert.Equal(t, 0, client.callCount())
		})
	}
}

func TestResourceService_CreateSendsRemoteFieldNames(t *testing.T) {
	client := &mockERPClient{
		insertFunc: func(ctx context.Context, doctype string, doc map[string]interface{}) (json.RawMessage, error) {
			assert.Equal(t, entity.DocTypeAssetMovement, doctype)
			assets := doc["assets"].([]interface{})
			line := assets[0].(map[string]interface{})
			assert.Equal(t, "Store", line["source_location"])
			assert.Equal(t, "Office", line["target_location"])
			assert.NotContains(t, line, "from_location")
			return json.RawMessage(`{"name":"MOV-9","purpose":"Transfer","assets":[{"asset":"AST-1","source_location":"Store","target_location":"Office"}]}`), nil
		},
	}
	db := &mockDocumentDB{}
	svc := newMovementService(client, db)

	created, err := svc.Create(context.Background(), &entity.AssetMovement{
		Company: "Acme",
		Purpose: entity.MovementPurposeTransfer,
		Assets:  []entity.AssetMovementItem{{Asset: "AST-1", FromLocation: "Store", ToLocation: "Office"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "MOV-9", created.Name)
	assert.Equal(t, "Office", created.Assets[0].ToLocation)
	assert.Equal(t, 1, client.callCount())
	assert.Equal(t, 0, db.calls)
}

func TestResourceService_UpdateStripsIdentity(t *testing.T) {
	client := &mockERPClient{
		saveFunc: func(ctx context.Context, doctype, name string, doc map[string]interface{}) (json.RawMessage, error) {
			assert.Equal(t, entity.DocTypeLead, doctype)
			assert.Equal(t, "CRM-LEAD-1", name)
			assert.NotContains(t, doc, "name")
			assert.NotContains(t, doc, "docstatus")
			assert.Equal(t, "2024-01-01 10:00:00", doc["modified"])
			return json.RawMessage(`{"name":"CRM-LEAD-1","lead_name":"Ada L"}`), nil
		},
	}
	db := &mockDocumentDB{}
	logger := &mockLogger{}
	svc := NewResourceService[entity.Lead](ResourceConfig{DocType: entity.DocTypeLead},
		client, db, NewFetcher(client, 1, logger), logger)

	updated, err := svc.Update(context.Background(), "CRM-LEAD-1", &entity.Lead{
		Name:      "other",
		FirstName: "Ada",
		LeadName:  "Ada L",
		Modified:  "2024-01-01 10:00:00",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ada L", updated.LeadName)
	assert.Equal(t, 1, client.callCount())
	assert.Equal(t, 0, db.calls)
}

func TestResourceService_GetAndDelete(t *testing.T) {
	client := &mockERPClient{
		getFunc: func(ctx context.Context, doctype, name string) (json.RawMessage, error) {
			return json.RawMessage(`{"name":"HR-EXP-1","employee":"EMP-1","total_sanctioned_amount":75}`), nil
		},
		deleteFunc: func(ctx context.Context, doctype, name string) error {
			return fmt.Errorf("delete: %w", port.ErrDocumentNotFound)
		},
	}
	db := &mockDocumentDB{}
	logger := &mockLogger{}
	svc := NewResourceService[entity.ExpenseClaim](ResourceConfig{DocType: entity.DocTypeExpenseClaim},
		client, db, NewFetcher(client, 1, logger), logger)

	claim, err := svc.Get(context.Background(), "HR-EXP-1")
	require.NoError(t, err)
	assert.Equal(t, "75", claim.TotalAmount.String())

	err = svc.Delete(context.Background(), "HR-EXP-1")
	assert.ErrorIs(t, err, port.ErrDocumentNotFound)
	assert.Equal(t, 0, db.calls)

	_, err = svc.Get(context.Background(), "")
	var validationErr *entity.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestResourceService_ListUsesConfiguredPageLength(t *testing.T) {
	client := &mockERPClient{}
	logger := &mockLogger{}
	svc := NewResourceService[entity.Customer](ResourceConfig{
		DocType:    entity.DocTypeCustomer,
		ListFields: []string{"name", "customer_name"},
		PageLength: 50,
	}, client, &mockDocumentDB{}, NewFetcher(client, 1, logger), logger)

	_, err := svc.List(context.Background(), ListParams{})

	require.NoError(t, err)
	assert.Equal(t, 50, client.query(entity.DocTypeCustomer).Limit)
}

func TestResourceService_ResourceAPIWritesUseDocumentDB(t *testing.T) {
	var ops []string
	db := &mockDocumentDB{
		createDocFunc: func(ctx context.Context, doctype string, doc map[string]interface{}) (json.RawMessage, error) {
			ops = append(ops, "create "+doctype)
			return json.RawMessage(`{"name":"DN-1","customer":"Globex"}`), nil
		},
		updateDocFunc: func(ctx context.Context, doctype, name string, doc map[string]interface{}) (json.RawMessage, error) {
			ops = append(ops, "update "+name)
			return json.RawMessage(`{"name":"DN-1","customer":"Initech"}`), nil
		},
		deleteDocFunc: func(ctx context.Context, doctype, name string) error {
			ops = append(ops, "delete "+name)
			return nil
		},
	}
	client := &mockERPClient{}
	logger := &mockLogger{}
	svc := NewResourceService[entity.DeliveryNote](ResourceConfig{
		DocType:     entity.DocTypeDeliveryNote,
		ResourceAPI: true,
	}, client, db, NewFetcher(client, 1, logger), logger)

	note := &entity.DeliveryNote{
		Customer: "Globex",
		Items:    []entity.DeliveryNoteItem{{ItemCode: "WIDGET", Qty: decimal.NewFromInt(1)}},
	}

	created, err := svc.Create(context.Background(), note)
	require.NoError(t, err)
	assert.Equal(t, "DN-1", created.Name)

	note.Customer = "Initech"
	updated, err := svc.Update(context.Background(), "DN-1", note)
	require.NoError(t, err)
	assert.Equal(t, "Initech", updated.Customer)

	require.NoError(t, svc.Delete(context.Background(), "DN-1"))

	assert.Equal(t, []string{"create Delivery Note", "update DN-1", "delete DN-1"}, ops)
	assert.Equal(t, 0, client.callCount())
}

func TestResourceService_ClientWritesDeleteThroughFrappeClient(t *testing.T) {
	var deleted []string
	client := &mockERPClient{
		deleteFunc: func(ctx context.Context, doctype, name string) error {
			deleted = append(deleted, doctype+"/"+name)
			return nil
		},
	}
	db := &mockDocumentDB{}
	svc := newMovementService(client, db)

	require.NoError(t, svc.Delete(context.Background(), "MOV-1"))

	assert.Equal(t, []string{"Asset Movement/MOV-1"}, deleted)
	assert.Equal(t, 0, db.calls)
}
