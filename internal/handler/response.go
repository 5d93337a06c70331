package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pitchwise/internal/domain"
	"pitchwise/internal/generator"
	"pitchwise/internal/logger"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	if _, ok := generator.AsRateLimit(err); ok {
		return http.StatusTooManyRequests, "RATE_LIMITED", "all generation providers are rate limited; retry later"
	}
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "INVALID_REQUEST", "request body must carry the conversation content"
	case errors.Is(err, domain.ErrGenerationFailed), errors.Is(err, domain.ErrMissingAPIKey):
		return http.StatusBadGateway, "GENERATION_FAILED", "failed to get a response from the chatbot"
	case errors.Is(err, domain.ErrNoProviders):
		return http.StatusServiceUnavailable, "NO_PROVIDERS", "no generation provider is configured"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, log logger.Logger, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.WithError(err).Error("request failed", map[string]interface{}{
			"request_id": requestID,
			"status":     status,
		})
	}
	RespondError(c, status, code, msg)
}
