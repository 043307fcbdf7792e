package protocol

import (
	"encoding/json"
	"fmt"
)

// MethodMenuUpsert - the only method the importer understands
const MethodMenuUpsert = "menu:upsert"

// Request - JSON-RPC request packet
type Request struct {
	Protocol string          `json:"jsonrpc"`
	ID       string          `json:"id,omitempty"`
	Method   string          `json:"method"`
	Params   json.RawMessage `json:"params"`
}

// JSON - convert struct to json
func (r *Request) JSON() (string, error) {
	r.Protocol = "2.0"
	bin, err := json.Marshal(r)
	return string(bin), err
}

// FromJSON - convert json to struct
func (r *Request) FromJSON(jsonString string) error {
	jsonBytes := []byte(jsonString)
	return json.Unmarshal(jsonBytes, r)
}

// String representation
func (r *Request) String() string {
	return fmt.Sprintf("id=%s method=%s", r.ID, r.Method)
}

// MenuUpsert - params payload for a menu:upsert request
type MenuUpsert struct {
	Restaurant struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
	} `json:"restaurant"`
	Items []MenuUpsertItem `json:"items"`
}

// MenuUpsertItem - one dish in a menu:upsert payload
type MenuUpsertItem struct {
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatsG    float64 `json:"fats_g"`
	Price    float64 `json:"price"`
}

// MenuUpsert - decode request params as a menu:upsert payload
func (r *Request) MenuUpsert() (*MenuUpsert, error) {
	if r.Method != MethodMenuUpsert {
		return nil, fmt.Errorf("unsupported method: %s", r.Method)
	}
	payload := &MenuUpsert{}
	if err := json.Unmarshal(r.Params, payload); err != nil {
		return nil, err
	}
	if payload.Restaurant.Name == "" {
		return nil, fmt.Errorf("menu:upsert without restaurant name")
	}
	return payload, nil
}
