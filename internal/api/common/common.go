// Package common provides shared HTTP utility functions for API handlers.
package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

const (
	// maxRequestBody caps request payload size.
	maxRequestBody = 1 << 20

	defaultPageLimit = 50
	maxPageLimit     = 500
)

// WriteJSONResponse writes a JSON response with the given data.
func WriteJSONResponse(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// WriteErrorResponse writes a standardized error response.
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	errorResp := map[string]string{
		"error": message,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// DecodeJSON decodes a size-capped JSON request body into out, rejecting
// unknown fields.
func DecodeJSON(r *http.Request, out interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// ParsePagination extracts limit/offset query parameters, applying the
// default and maximum page size.
func ParsePagination(r *http.Request) (limit, offset int32, err error) {
	limit = defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, perr := strconv.ParseInt(raw, 10, 32)
		if perr != nil || v < 1 {
			return 0, 0, fmt.Errorf("invalid limit %q", raw)
		}
		if v > maxPageLimit {
			v = maxPageLimit
		}
		limit = int32(v)
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		v, perr := strconv.ParseInt(raw, 10, 32)
		if perr != nil || v < 0 {
			return 0, 0, fmt.Errorf("invalid offset %q", raw)
		}
		offset = int32(v)
	}
	return limit, offset, nil
}
