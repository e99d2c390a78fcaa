package result

import (
	"bytes"
	"encoding/json"
)

// ID is a backend identifier that may arrive as a JSON number or string.
type ID string

// UnmarshalJSON accepts numbers, strings and null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Record is one watch listing returned by the catalog backend.
type Record struct {
	ID            ID      `json:"id"`
	ReferenceCode string  `json:"referenceCode,omitempty"`
	Brand         string  `json:"brand,omitempty"`
	Model         string  `json:"model,omitempty"`
	Condition     string  `json:"condition,omitempty"`
	ColorDial     string  `json:"colorDial,omitempty"`
	Material      string  `json:"material,omitempty"`
	Year          int     `json:"year,omitempty"`
	Price         float64 `json:"price,omitempty"`
	Currency      string  `json:"currency,omitempty"`
}
