// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"strings"

	"stockcard/internal/core/id"
)

// ErrorResponse is the body written by the error middleware.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// optionalID parses a query value; blank means "no filter".
func optionalID(raw string) *id.ID {
	v, ok := id.Parse(raw)
	if !ok {
		return nil
	}
	return &v
}

// splitList accepts both repeated parameters and comma separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
