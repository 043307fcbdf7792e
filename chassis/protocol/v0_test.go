package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestRoundTrip(t *testing.T) {
	params, err := json.Marshal(&MenuUpsert{
		Items: []MenuUpsertItem{{Name: "Quinoa Salad", Calories: 430, Price: 8}},
	})
	require.NoError(t, err)
	request := &Request{
		ID:     "42",
		Method: MethodMenuUpsert,
		Params: params,
	}
	encoded, err := request.JSON()
	require.NoError(t, err)
	assert.Contains(t, encoded, `"jsonrpc":"2.0"`)

	decoded := &Request{}
	require.NoError(t, decoded.FromJSON(encoded))
	assert.Equal(t, "42", decoded.ID)
	assert.Equal(t, MethodMenuUpsert, decoded.Method)
}

func TestMenuUpsertDecode(t *testing.T) {
	body := `{
		"jsonrpc": "2.0",
		"id": "7",
		"method": "menu:upsert",
		"params": {
			"restaurant": {"name": "Green Fork", "address": "12 Elm St", "phone": "555-0101"},
			"items": [
				{"name": "Salmon Plate", "calories": 710, "protein_g": 42, "carbs_g": 38, "fats_g": 36, "price": 14}
			]
		}
	}`
	request := &Request{}
	require.NoError(t, request.FromJSON(body))

	payload, err := request.MenuUpsert()
	require.NoError(t, err)
	assert.Equal(t, "Green Fork", payload.Restaurant.Name)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "Salmon Plate", payload.Items[0].Name)
	assert.Equal(t, 710, payload.Items[0].Calories)
	assert.Equal(t, 14.0, payload.Items[0].Price)
}

func TestMenuUpsertRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "unsupported method",
			body: `{"jsonrpc":"2.0","method":"menu:delete","params":{}}`,
		},
		{
			name: "missing restaurant name",
			body: `{"jsonrpc":"2.0","method":"menu:upsert","params":{"items":[]}}`,
		},
		{
			name: "params not an object",
			body: `{"jsonrpc":"2.0","method":"menu:upsert","params":[1,2]}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			request := &Request{}
			require.NoError(t, request.FromJSON(tc.body))
			_, err := request.MenuUpsert()
			assert.Error(t, err)
		})
	}
}
