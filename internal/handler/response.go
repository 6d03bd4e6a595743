package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"fedauth/internal/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// MapDomainError translates domain errors to an HTTP status, a client-facing
// message and an optional detail.
func MapDomainError(err error) (status int, msg, detail string) {
	var tokenErr *domain.TokenError
	var incompleteErr *domain.IncompleteIdentityError

	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusBadRequest, "Token is required", ""
	case errors.As(err, &tokenErr):
		return http.StatusBadRequest, "Invalid token", tokenErr.Reason
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusBadRequest, "Invalid token", ""
	case errors.As(err, &incompleteErr):
		return http.StatusBadRequest, "Email not provided. This might be a subsequent login.", incompleteErr.Reason
	case errors.Is(err, domain.ErrIdentityIncomplete):
		return http.StatusBadRequest, "Email not provided. This might be a subsequent login.", ""
	case errors.Is(err, domain.ErrUnsupportedProvider):
		return http.StatusBadRequest, "Unsupported provider", ""
	case errors.Is(err, domain.ErrAccountConflict):
		return http.StatusConflict, "Account conflict", ""
	case errors.Is(err, domain.ErrSessionIssuanceFailed):
		return http.StatusServiceUnavailable, "Session issuance failed", ""
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized", ""
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "User is inactive", ""
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Not found", ""
	default:
		return http.StatusInternalServerError, "Authentication failed", ""
	}
}

// Responder writes JSON error responses. When Verbose is set, unclassified
// errors carry their raw text in the detail field.
type Responder struct {
	Verbose bool
}

// Error maps err and sends the matching error response.
func (r Responder) Error(c *gin.Context, err error) {
	status, msg, detail := MapDomainError(err)
	if status >= 500 {
		log.Ctx(c.Request.Context()).Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Int("status", status).
			Msg("request failed")
		if r.Verbose && detail == "" {
			detail = err.Error()
		}
	}
	c.JSON(status, ErrorResponse{Error: msg, Detail: detail})
}

// BadRequest sends a 400 for a request body that failed to bind.
func (r Responder) BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Detail: err.Error()})
}
