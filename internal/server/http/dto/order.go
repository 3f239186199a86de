package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OrderRequest describes the order submission payload.
type OrderRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Quantity Quantity `json:"quantity"`
	Dish     string   `json:"dish"`
}

// Quantity accepts a JSON integer or a string holding one, as posted by HTML forms.
// null and the empty string decode to zero.
type Quantity int

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*q = 0
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*q = 0
			return nil
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("quantity must be an integer, got %s", string(data))
	}
	*q = Quantity(n)
	return nil
}
