package dto

import (
	"encoding/json"
	"testing"
)

func TestQuantityUnmarshal(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    Quantity
		wantErr bool
	}{
		{"number", `{"quantity": 3}`, 3, false},
		{"numeric string", `{"quantity": "4"}`, 4, false},
		{"padded string", `{"quantity": " 5 "}`, 5, false},
		{"negative", `{"quantity": -1}`, -1, false},
		{"null", `{"quantity": null}`, 0, false},
		{"empty string", `{"quantity": ""}`, 0, false},
		{"absent", `{}`, 0, false},
		{"fraction", `{"quantity": 2.5}`, 0, true},
		{"word", `{"quantity": "two"}`, 0, true},
		{"bool", `{"quantity": true}`, 0, true},
		{"object", `{"quantity": {}}`, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req OrderRequest
			err := json.Unmarshal([]byte(tc.payload), &req)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tc.payload)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Quantity != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, req.Quantity)
			}
		})
	}
}

func TestResponseEnvelopeShape(t *testing.T) {
	data, err := json.Marshal(Response{Success: false, Message: "Missing order details."})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"success":false,"message":"Missing order details."}` {
		t.Fatalf("unexpected envelope %s", data)
	}
}
