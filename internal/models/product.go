package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a product. It is assigned by the Product Service and treated as
// opaque: numeric ids and string ids are both accepted on the wire.
type ID string

// String returns the id as it appears in URL paths
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the id is unset
func (id ID) IsZero() bool {
	return id == ""
}

// MarshalJSON writes canonical integer ids back as JSON numbers so backends with
// numeric keys receive the type they issued. Anything else, "007" or "+5"
// included, stays a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON string or number
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode product id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode product id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Product is a product record as returned by the Product Service
type Product struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// ProductInput is the request body for creating or replacing a product.
// ID is only sent on replacement.
type ProductInput struct {
	ID          ID      `json:"id,omitempty"`
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
}

// Product converts the input into a record carrying the given id
func (in ProductInput) Product(id ID) Product {
	return Product{
		ID:          id,
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
	}
}
