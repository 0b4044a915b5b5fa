// Package dto holds the JSON shapes of the v1 API.
package dto

// ListResponse is the envelope of every catalog and invoice listing.
// TotalCount counts all matches, not just the returned page.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
