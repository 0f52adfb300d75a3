package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProductID identifies a catalog product.
// Clients send ids as JSON numbers or strings; both are kept in canonical string
// form so that 3 and "3" refer to the same cart line. Integral ids are written
// back as JSON numbers.
type ProductID string

// String returns the canonical form of the id.
func (id ProductID) String() string { return string(id) }

// IsZero reports whether the id is empty.
func (id ProductID) IsZero() bool { return id == "" }

// MarshalJSON implements json.Marshaler.
func (id ProductID) MarshalJSON() ([]byte, error) {
	if isIntegral(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ParseProductID(s)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("product id must be a number or a string: %w", err)
	}
	*id = ParseProductID(n.String())
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler so catalog files may use bare numbers.
func (id *ProductID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("product id must be a scalar, line %d", node.Line)
	}
	*id = ParseProductID(node.Value)
	return nil
}

// ParseProductID normalizes textual input (CLI arguments, URL path segments).
func ParseProductID(s string) ProductID {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ProductID(strconv.FormatInt(n, 10))
	}
	return ProductID(s)
}

func isIntegral(s string) bool {
	n, err := strconv.ParseInt(s, 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == s
}
