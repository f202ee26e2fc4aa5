// Package decode provides generic JSON request body decoding.
package decode

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Decode parses the request body into a value of type T. Unknown fields
// are rejected so client typos surface as errors instead of silently
// dropped data.
func Decode[T any](r *http.Request) (T, error) {
	var v T

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&v); err != nil {
		return v, fmt.Errorf("decode request body: %w", err)
	}

	return v, nil
}
