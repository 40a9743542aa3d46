// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// ErrorResponse represents an API error. Source is set only on aggregation
// failures and names the branch that failed.
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Source string `json:"source,omitempty"`
}
