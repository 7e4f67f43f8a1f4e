package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"translation_desk/internal/adapter/http/middleware"
	"translation_desk/internal/usecase"
	"translation_desk/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidRequest = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	errUnauthorized   = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing or invalid credentials", http.StatusUnauthorized)
	errTooLarge       = pkg.NewDomainErrorSimple("PAYLOAD_TOO_LARGE", "Upload exceeds the size limit", http.StatusRequestEntityTooLarge)
)

// mapUseCaseError classifies use case errors into the HTTP error body.
func mapUseCaseError(err error) *pkg.AppError {
	var uploadErr *usecase.UploadError
	switch {
	case errors.As(err, &uploadErr) && errors.Is(err, usecase.ErrUpstreamTimeout):
		return pkg.NewDomainError("UPLOAD_TIMEOUT", fmt.Sprintf("Timed out uploading %q", uploadErr.Filename), err, http.StatusGatewayTimeout)
	case errors.As(err, &uploadErr):
		return pkg.NewDomainError("UPLOAD_FAILED", fmt.Sprintf("Failed to upload %q", uploadErr.Filename), err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrValidation):
		return pkg.NewDomainError("VALIDATION_ERROR", validationMessage(err), err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrQuoteNotFound):
		return pkg.NewDomainError("QUOTE_NOT_FOUND", "Quote not found", err, http.StatusNotFound)
	case errors.Is(err, usecase.ErrForbidden):
		return pkg.NewDomainError("FORBIDDEN", "Not allowed", err, http.StatusForbidden)
	case errors.Is(err, usecase.ErrConflict):
		return pkg.NewDomainError("CHECKOUT_CONFLICT", "Another checkout is in progress for this quote", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentDeclined):
		return pkg.NewDomainError("PAYMENT_DECLINED", "Payment declined", err, http.StatusPaymentRequired)
	case errors.Is(err, usecase.ErrUpstreamTimeout):
		return pkg.NewDomainError("UPSTREAM_TIMEOUT", "A dependency timed out", err, http.StatusGatewayTimeout)
	case errors.Is(err, usecase.ErrUpstreamFailure):
		return pkg.NewDomainError("UPSTREAM_FAILURE", "A dependency is unavailable", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

// validationMessage keeps the caller-facing part of a validation error.
func validationMessage(err error) string {
	msg := err.Error()
	prefix := usecase.ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		msg = msg[i+len(prefix):]
	}
	if msg == "" {
		return "Invalid request"
	}
	return msg
}

// writeError sends the public body, or the detailed body when the caller is an admin.
func writeError(c *gin.Context, appErr *pkg.AppError) {
	if actor, ok := middleware.ActorFrom(c); ok && actor.IsAdmin() {
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPErrorWithDetails())
		return
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
