package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// MaxRequestBody caps JSON request bodies. Permission lists are the largest
// payload this API accepts and even a 500-entry list fits well under 1MB.
const MaxRequestBody = 1 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// The body is size-limited; w is needed so MaxBytesReader can answer an
// oversized body with 413.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBody)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
