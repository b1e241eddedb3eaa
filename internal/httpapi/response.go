package httpapi

import "github.com/gin-gonic/gin"

// Stable error codes returned in ErrorResponse.Code.
const (
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeNotFound     = "not_found"
	codeThrottled    = "too_many_requests"
	codeUnavailable  = "unavailable"
)

// ErrorResponse is the error envelope of every endpoint.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AcceptedResponse acknowledges a queued webhook event.
type AcceptedResponse struct {
	Status string `json:"status"`
}

// HealthResponse lists each dependency as "ok" or its error.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func fail(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: msg})
}
