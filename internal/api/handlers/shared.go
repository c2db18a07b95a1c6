package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Unknown fields, trailing data
// and bodies larger than maxBodyBytes are rejected.
func parseJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var v T

	if r.Body == nil {
		return v, errors.New("request body is empty")
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return v, errors.New("request body is empty")
		}
		return v, fmt.Errorf("invalid JSON: %w", err)
	}

	if dec.More() {
		return v, errors.New("request body must contain a single JSON object")
	}

	return v, nil
}
