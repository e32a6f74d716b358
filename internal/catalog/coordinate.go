package catalog

import (
	"bytes"
	"encoding/json"
)

// Coordinate is a latitude or longitude in decimal degrees.
// It always serializes with a fractional part, so 35 is written as 35.0.
type Coordinate float64

// MarshalJSON implements json.Marshaler.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(float64(c))
	if err != nil {
		return nil, err
	}
	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, ".0"...)
	}
	return b, nil
}
