package entity

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetMovement_Validate(t *testing.T) {
	tests := []struct {
		name     string
		movement AssetMovement
		wantErr  string
	}{
		{
			name: "issue with source location and employee",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeIssue, Assets: []AssetMovementItem{
				{Asset: "AST-001", FromLocation: "Warehouse", ToEmployee: "EMP-001"},
			}},
		},
		{
			name: "issue without to_employee",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeIssue, Assets: []AssetMovementItem{
				{Asset: "AST-001", FromLocation: "Warehouse"},
			}},
			wantErr: "to_employee is required for Issue",
		},
		{
			name: "issue with to_location",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeIssue, Assets: []AssetMovementItem{
				{Asset: "AST-001", FromLocation: "Warehouse", ToEmployee: "EMP-001", ToLocation: "Office"},
			}},
			wantErr: "to_location must not be set for Issue",
		},
		{
			name: "issue without source location",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeIssue, Assets: []AssetMovementItem{
				{Asset: "AST-001", ToEmployee: "EMP-001"},
			}},
			wantErr: "from_location is required for Issue",
		},
		{
			name: "receipt into a location from an employee",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeReceipt, Assets: []AssetMovementItem{
				{Asset: "AST-001", ToLocation: "Warehouse", FromEmployee: "EMP-001"},
			}},
		},
		{
			name: "receipt with from_location",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeReceipt, Assets: []AssetMovementItem{
				{Asset: "AST-001", ToLocation: "Warehouse", FromLocation: "Office"},
			}},
			wantErr: "from_location must not be set for Receipt",
		},
		{
			name: "receipt without to_location",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeReceipt, Assets: []AssetMovementItem{
				{Asset: "AST-001", FromEmployee: "EMP-001"},
			}},
			wantErr: "to_location is required for Receipt",
		},
		{
			name: "receipt with to_employee",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeReceipt, Assets: []AssetMovementItem{
				{Asset: "AST-001", ToLocation: "Warehouse", ToEmployee: "EMP-002"},
			}},
			wantErr: "to_employee must not be set for Receipt",
		},
		{
			name: "transfer between locations",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeTransfer, Assets: []AssetMovementItem{
				{Asset: "AST-001", FromLocation: "Warehouse", ToLocation: "Office"},
			}},
		},
		{
			name: "transfer to an employee",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeTransfer, Assets: []AssetMovementItem{
				{Asset: "AST-001", FromLocation: "Warehouse", ToLocation: "Office", ToEmployee: "EMP-001"},
			}},
			wantErr: "to_employee must not be set for Transfer",
		},
		{
			name: "transfer to the same location",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeTransfer, Assets: []AssetMovementItem{
				{Asset: "AST-001", FromLocation: "Warehouse", ToLocation: "Warehouse"},
			}},
			wantErr: "cannot be the same",
		},
		{
			name: "transfer to the same location with padding",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeTransfer, Assets: []AssetMovementItem{
				{Asset: "AST-001", FromLocation: "Store A ", ToLocation: "Store A"},
			}},
			wantErr: "cannot be the same",
		},
		{
			name: "second row violates the table",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeTransfer, Assets: []AssetMovementItem{
				{Asset: "AST-001", FromLocation: "Warehouse", ToLocation: "Office"},
				{Asset: "AST-002", FromLocation: "Warehouse"},
			}},
			wantErr: "row 2: to_location is required for Transfer",
		},
		{
			name:     "unknown purpose",
			movement: AssetMovement{Company: "Acme", Purpose: "Scrap", Assets: []AssetMovementItem{{Asset: "AST-001"}}},
			wantErr:  "invalid value \"Scrap\"",
		},
		{
			name:     "missing purpose",
			movement: AssetMovement{Company: "Acme", Assets: []AssetMovementItem{{Asset: "AST-001"}}},
			wantErr:  "purpose: is required",
		},
		{
			name:     "no assets",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeTransfer},
			wantErr:  "at least one asset is required",
		},
		{
			name: "line without asset",
			movement: AssetMovement{Company: "Acme", Purpose: MovementPurposeTransfer, Assets: []AssetMovementItem{
				{FromLocation: "Warehouse", ToLocation: "Office"},
			}},
			wantErr: "row 1: asset is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.movement.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var validationErr *ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestAssetMovement_RemoteMapping(t *testing.T) {
	t.Run("decodes source and target locations", func(t *testing.T) {
		raw := []byte(`{
			"name": "ACC-ASM-0001",
			"company": "Acme",
			"purpose": "Transfer",
			"docstatus": 1,
			"assets": [{"asset": "AST-001", "source_location": "Warehouse", "target_location": "Office"}]
		}`)

		var movement AssetMovement
		require.NoError(t, movement.DecodeRemote(raw))

		assert.Equal(t, "ACC-ASM-0001", movement.Name)
		require.Len(t, movement.Assets, 1)
		assert.Equal(t, "Warehouse", movement.Assets[0].FromLocation)
		assert.Equal(t, "Office", movement.Assets[0].ToLocation)
	})

	t.Run("encodes from and to locations", func(t *testing.T) {
		movement := AssetMovement{
			Company: "Acme",
			Purpose: MovementPurposeIssue,
			Assets:  []AssetMovementItem{{Asset: "AST-001", FromLocation: "Warehouse", ToEmployee: "EMP-001"}},
		}

		doc := movement.EncodeRemote()
		data, err := json.Marshal(doc["assets"])
		require.NoError(t, err)

		assert.JSONEq(t, `[{"asset":"AST-001","source_location":"Warehouse","to_employee":"EMP-001"}]`, string(data))
	})
}

func TestAssetValueAdjustment_RemoteMapping(t *testing.T) {
	raw := []byte(`{"name": "AVA-0001", "asset": "AST-001", "date": "2024-03-31", "new_asset_value": 800}`)

	var adjustment AssetValueAdjustment
	require.NoError(t, adjustment.DecodeRemote(raw))
	assert.Equal(t, "2024-03-31", adjustment.AdjustmentDate)
	assert.Equal(t, "800", adjustment.NewAssetValue.String())

	doc := adjustment.EncodeRemote()
	assert.Equal(t, "2024-03-31", doc["date"])
	_, hasLocalName := doc["adjustment_date"]
	assert.False(t, hasLocalName)
}
